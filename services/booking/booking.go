package booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	bookingRepo "soothe/database/repository/booking"
	catalogRepo "soothe/database/repository/catalog"
	"soothe/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notifier delivers best-effort booking notifications to the therapist. A
// delivery failure never fails the booking itself.
type Notifier interface {
	EnqueueBookingNotify(ctx context.Context, bookingID string) error
}

// Broadcaster pushes chat events to connected participants of a booking.
type Broadcaster interface {
	Broadcast(bookingID string, payload interface{})
}

// BookingService owns the booking lifecycle: slot availability, creation with
// conflict rejection, chat, the status scanner, and manager statistics.
type BookingService struct {
	Bookings    bookingRepo.BookingRepository
	Services    catalogRepo.ServiceRepository
	Notifier    Notifier
	Broadcaster Broadcaster
}

func NewBookingService(bookings bookingRepo.BookingRepository, services catalogRepo.ServiceRepository, notifier Notifier, broadcaster Broadcaster) *BookingService {
	return &BookingService{
		Bookings:    bookings,
		Services:    services,
		Notifier:    notifier,
		Broadcaster: broadcaster,
	}
}

// CreateInput carries a booking request. Contact fields are required because
// guests have no account to fall back on.
type CreateInput struct {
	ServiceID string `json:"serviceId" binding:"required"`
	Date      string `json:"date" binding:"required"`
	TimeSlot  string `json:"timeSlot" binding:"required"`
	Duration  int    `json:"duration" binding:"required"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Address   string `json:"address"`
	Notes     string `json:"notes"`
}

// Create books a slot. clientID is empty for guest bookings. The slot
// conflict check is atomic: the insert either claims the (service, date,
// timeSlot) triple or fails with ErrSlotTaken.
func (s *BookingService) Create(ctx context.Context, clientID string, in CreateInput) (*models.Booking, error) {
	if !validDate(in.Date) {
		return nil, ErrInvalidSlot
	}
	if _, err := slotMinutes(in.TimeSlot); err != nil {
		return nil, ErrInvalidSlot
	}

	svc, err := s.Services.GetByID(ctx, in.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("failed to fetch service: %w", err)
	}

	var price float64
	found := false
	for _, v := range svc.Variants {
		if v.Duration == in.Duration {
			price = v.Price
			found = true
			break
		}
	}
	if !found {
		return nil, ErrInvalidVariant
	}

	now := time.Now()
	booking := &models.Booking{
		ID:            uuid.NewString(),
		ClientID:      clientID,
		TherapistID:   svc.TherapistID,
		ServiceID:     svc.ID,
		Date:          in.Date,
		TimeSlot:      in.TimeSlot,
		Duration:      in.Duration,
		Price:         price,
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		Phone:         in.Phone,
		Email:         in.Email,
		Address:       in.Address,
		Notes:         in.Notes,
		Status:        models.BookingStatusPending,
		Active:        true,
		Messages:      []models.Message{},
		LastReadAt:    map[string]time.Time{},
		PaymentStatus: models.PaymentStatusUnpaid,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.Bookings.Create(ctx, booking); err != nil {
		if errors.Is(err, bookingRepo.ErrSlotTaken) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.notify(ctx, booking.ID)
	return booking, nil
}

// Get returns a booking visible to the given participant.
func (s *BookingService) Get(ctx context.Context, id, userID string) (*models.Booking, error) {
	booking, err := s.Bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if !booking.IsParticipant(userID) {
		return nil, ErrNotParticipant
	}
	return booking, nil
}

// Cancel releases a pending booking's slot. Only a participant may cancel,
// and only while the booking is still pending.
func (s *BookingService) Cancel(ctx context.Context, id, userID string) error {
	booking, err := s.Bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return ErrBookingNotFound
		}
		return err
	}
	if !booking.IsParticipant(userID) {
		return ErrNotParticipant
	}

	err = s.Bookings.UpdateStatus(ctx, id, models.BookingStatusPending, models.BookingStatusCancelled)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			// The booking exists but left pending in the meantime.
			return ErrInvalidTransition
		}
		return err
	}
	return nil
}

// BookingView is a booking plus the viewer-dependent unread flag.
type BookingView struct {
	models.Booking
	HasUnread bool `json:"hasUnread"`
}

// ListForClient returns the client's bookings with unread flags, ordered for
// display.
func (s *BookingService) ListForClient(ctx context.Context, clientID string) ([]BookingView, error) {
	bookings, err := s.Bookings.FindByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return viewsFor(bookings, clientID), nil
}

// ListForTherapist returns the therapist's bookings with unread flags,
// ordered for display.
func (s *BookingService) ListForTherapist(ctx context.Context, therapistID string) ([]BookingView, error) {
	bookings, err := s.Bookings.FindByTherapist(ctx, therapistID)
	if err != nil {
		return nil, err
	}
	return viewsFor(bookings, therapistID), nil
}

func viewsFor(bookings []models.Booking, viewerID string) []BookingView {
	views := make([]BookingView, 0, len(bookings))
	for _, b := range bookings {
		views = append(views, BookingView{Booking: b, HasUnread: HasUnread(&b, viewerID)})
	}
	sortBookingViews(views)
	return views
}

// statusRank orders booking lists: pending first, confirmed next, then the
// terminal states.
func statusRank(status string) int {
	switch status {
	case models.BookingStatusPending:
		return 0
	case models.BookingStatusConfirmed:
		return 1
	default:
		return 2
	}
}

func sortBookingViews(views []BookingView) {
	sort.SliceStable(views, func(i, j int) bool {
		ri, rj := statusRank(views[i].Status), statusRank(views[j].Status)
		if ri != rj {
			return ri < rj
		}
		if views[i].Date != views[j].Date {
			return views[i].Date < views[j].Date
		}
		return views[i].TimeSlot < views[j].TimeSlot
	})
}

// ManagerStats reports the confirmed-booking count and summed price for a
// therapist within an inclusive date range.
func (s *BookingService) ManagerStats(ctx context.Context, therapistID, dateFrom, dateTo string) (int, float64, error) {
	if !validDate(dateFrom) || !validDate(dateTo) {
		return 0, 0, ErrInvalidSlot
	}
	return s.Bookings.ConfirmedStats(ctx, therapistID, dateFrom, dateTo)
}

func (s *BookingService) notify(ctx context.Context, bookingID string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.EnqueueBookingNotify(ctx, bookingID); err != nil {
		zap.L().Warn("Failed to enqueue booking notification",
			zap.String("bookingID", bookingID), zap.Error(err))
	}
}
