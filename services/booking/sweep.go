package booking

import (
	"context"
	"fmt"
	"time"

	"soothe/models"

	"go.uber.org/zap"
)

// Sweep advances every pending booking whose scheduled end has passed to
// confirmed. It is invoked on a fixed cadence by the background scanner but
// takes the clock as a parameter so the transition rule is testable.
//
// The transition fires once now reaches date + timeSlot + duration. The
// conditional status update means a booking cancelled between the read and
// the write is simply left alone.
func (s *BookingService) Sweep(ctx context.Context, now time.Time) error {
	pending, err := s.Bookings.FindPending(ctx)
	if err != nil {
		return fmt.Errorf("failed to list pending bookings: %w", err)
	}

	logger := zap.L()
	for _, b := range pending {
		end, err := scheduledEnd(&b)
		if err != nil {
			logger.Warn("Skipping booking with unparseable schedule",
				zap.String("bookingID", b.ID),
				zap.String("date", b.Date),
				zap.String("timeSlot", b.TimeSlot))
			continue
		}
		if now.Before(end) {
			continue
		}

		err = s.Bookings.UpdateStatus(ctx, b.ID, models.BookingStatusPending, models.BookingStatusConfirmed)
		if err != nil {
			logger.Warn("Failed to confirm elapsed booking",
				zap.String("bookingID", b.ID), zap.Error(err))
			continue
		}
		logger.Info("Booking confirmed", zap.String("bookingID", b.ID))
	}
	return nil
}

// scheduledEnd computes the instant a booking's appointment finishes.
func scheduledEnd(b *models.Booking) (time.Time, error) {
	start, err := time.ParseInLocation("2006-01-02 15:04", b.Date+" "+b.TimeSlot, time.Local)
	if err != nil {
		return time.Time{}, err
	}
	return start.Add(time.Duration(b.Duration) * time.Minute), nil
}
