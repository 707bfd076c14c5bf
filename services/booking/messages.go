package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	bookingRepo "soothe/database/repository/booking"
	"soothe/models"
)

// HasUnread reports whether the viewer has chat they have not seen: a message
// from the other party strictly newer than the viewer's last-read mark. A
// viewer with no mark at all counts every message from the other party as
// unread.
func HasUnread(b *models.Booking, viewerID string) bool {
	if viewerID == "" {
		return false
	}
	lastRead, hasMark := b.LastReadAt[viewerID]
	for _, msg := range b.Messages {
		if msg.Sender == viewerID {
			continue
		}
		if !hasMark || msg.Timestamp.After(lastRead) {
			return true
		}
	}
	return false
}

// Messages returns the chat log of a booking and marks it read for the
// caller. Only the two participants may read.
func (s *BookingService) Messages(ctx context.Context, bookingID, userID string) ([]models.Message, error) {
	booking, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if !booking.IsParticipant(userID) {
		return nil, ErrNotParticipant
	}

	if err := s.Bookings.SetLastRead(ctx, bookingID, userID, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to mark booking read: %w", err)
	}
	return booking.Messages, nil
}

// AppendMessage appends a chat message and pushes it to connected
// participants. Guest bookings carry no chat because the guest has no
// identity to authorize against.
func (s *BookingService) AppendMessage(ctx context.Context, bookingID, senderID, text string) (*models.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("message text is required")
	}

	booking, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if booking.ClientID == "" {
		return nil, ErrGuestChat
	}
	if !booking.IsParticipant(senderID) {
		return nil, ErrNotParticipant
	}

	msg := models.Message{
		Sender:    senderID,
		Text:      text,
		Timestamp: time.Now(),
	}
	if err := s.Bookings.AppendMessage(ctx, bookingID, msg); err != nil {
		return nil, fmt.Errorf("failed to append message: %w", err)
	}

	// The sender has evidently seen the chat up to their own message.
	_ = s.Bookings.SetLastRead(ctx, bookingID, senderID, msg.Timestamp)

	if s.Broadcaster != nil {
		s.Broadcaster.Broadcast(bookingID, msg)
	}
	return &msg, nil
}

// MarkRead records that the participant has seen the chat as of now.
func (s *BookingService) MarkRead(ctx context.Context, bookingID, userID string) error {
	booking, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return ErrBookingNotFound
		}
		return err
	}
	if !booking.IsParticipant(userID) {
		return ErrNotParticipant
	}
	return s.Bookings.SetLastRead(ctx, bookingID, userID, time.Now())
}
