package booking

import (
	"context"
	"testing"
	"time"

	"soothe/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweep(t *testing.T) {
	ctx := context.Background()

	seed := func(repo *fakeBookingRepo, id, date, slot string, duration int) {
		require.NoError(t, repo.Create(ctx, &models.Booking{
			ID: id, ServiceID: "svc-" + id, Date: date, TimeSlot: slot,
			Duration: duration, Status: models.BookingStatusPending, Active: true,
		}))
	}

	status := func(repo *fakeBookingRepo, id string) string {
		b, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		return b.Status
	}

	t.Run("confirms once the appointment has finished", func(t *testing.T) {
		repo := newFakeBookingRepo()
		seed(repo, "b1", "2024-06-01", "10:00", 60)
		svc := newTestService(repo, newFakeServiceRepo())

		now := time.Date(2024, 6, 1, 11, 0, 0, 0, time.Local)
		require.NoError(t, svc.Sweep(ctx, now))
		assert.Equal(t, models.BookingStatusConfirmed, status(repo, "b1"))
	})

	t.Run("leaves bookings still in progress alone", func(t *testing.T) {
		repo := newFakeBookingRepo()
		seed(repo, "b1", "2024-06-01", "10:00", 60)
		svc := newTestService(repo, newFakeServiceRepo())

		now := time.Date(2024, 6, 1, 10, 59, 0, 0, time.Local)
		require.NoError(t, svc.Sweep(ctx, now))
		assert.Equal(t, models.BookingStatusPending, status(repo, "b1"))
	})

	t.Run("skips unparseable schedules and keeps going", func(t *testing.T) {
		repo := newFakeBookingRepo()
		seed(repo, "bad", "junk", "10:00", 60)
		seed(repo, "good", "2024-06-01", "08:00", 30)
		svc := newTestService(repo, newFakeServiceRepo())

		now := time.Date(2024, 6, 2, 0, 0, 0, 0, time.Local)
		require.NoError(t, svc.Sweep(ctx, now))
		assert.Equal(t, models.BookingStatusPending, status(repo, "bad"))
		assert.Equal(t, models.BookingStatusConfirmed, status(repo, "good"))
	})

	t.Run("never touches terminal bookings", func(t *testing.T) {
		repo := newFakeBookingRepo()
		seed(repo, "b1", "2024-06-01", "10:00", 60)
		require.NoError(t, repo.UpdateStatus(ctx, "b1", models.BookingStatusPending, models.BookingStatusCancelled))
		svc := newTestService(repo, newFakeServiceRepo())

		now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.Local)
		require.NoError(t, svc.Sweep(ctx, now))
		assert.Equal(t, models.BookingStatusCancelled, status(repo, "b1"))
	})
}
