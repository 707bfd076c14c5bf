package bookingRepo

import (
	"context"
	"time"

	"soothe/models"
)

// BookingRepository defines persistence operations for bookings and their
// embedded chat messages.
type BookingRepository interface {
	// Create inserts the booking. If another active booking already
	// occupies the same (serviceId, date, timeSlot), ErrSlotTaken is
	// returned; the check is enforced atomically by a partial unique
	// index, not by a separate read.
	Create(ctx context.Context, booking *models.Booking) error

	GetByID(ctx context.Context, id string) (*models.Booking, error)
	FindActiveByServiceDate(ctx context.Context, serviceID, date string) ([]models.Booking, error)
	FindByClient(ctx context.Context, clientID string) ([]models.Booking, error)
	FindByTherapist(ctx context.Context, therapistID string) ([]models.Booking, error)
	FindPending(ctx context.Context) ([]models.Booking, error)
	FindByPaymentID(ctx context.Context, paymentID string) (*models.Booking, error)

	// UpdateStatus transitions a booking from one status to another.
	// The filter includes the expected current status, so a concurrent
	// transition loses cleanly with ErrNotFound.
	UpdateStatus(ctx context.Context, id, from, to string) error

	AppendMessage(ctx context.Context, id string, msg models.Message) error
	SetLastRead(ctx context.Context, id, userID string, at time.Time) error

	ConfirmedStats(ctx context.Context, therapistID, dateFrom, dateTo string) (count int, totalEarned float64, err error)
}
