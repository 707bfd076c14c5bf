package booking

import (
	"context"
	"testing"

	"soothe/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotMinutes(t *testing.T) {
	tests := []struct {
		slot    string
		want    int
		wantErr bool
	}{
		{slot: "00:00", want: 0},
		{slot: "10:00", want: 600},
		{slot: "23:59", want: 1439},
		{slot: "9:30", want: 570},
		{slot: "24:00", wantErr: true},
		{slot: "10:60", wantErr: true},
		{slot: "10", wantErr: true},
		{slot: "ten:00", wantErr: true},
		{slot: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := slotMinutes(tt.slot)
		if tt.wantErr {
			assert.Error(t, err, "slot %q", tt.slot)
			continue
		}
		require.NoError(t, err, "slot %q", tt.slot)
		assert.Equal(t, tt.want, got, "slot %q", tt.slot)
	}
}

func TestBusyIntervals(t *testing.T) {
	ctx := context.Background()

	t.Run("one hour at ten with the turnaround buffer", func(t *testing.T) {
		repo := newFakeBookingRepo()
		require.NoError(t, repo.Create(ctx, &models.Booking{
			ID: "b1", ServiceID: "svc-1", Date: "2024-06-01",
			TimeSlot: "10:00", Duration: 60,
			Status: models.BookingStatusPending, Active: true,
		}))
		svc := newTestService(repo, newFakeServiceRepo())

		intervals, err := svc.BusyIntervals(ctx, "svc-1", "2024-06-01")
		require.NoError(t, err)
		assert.Equal(t, []Interval{{Start: 600, End: 690}}, intervals)
	})

	t.Run("cancelled bookings do not occupy the day", func(t *testing.T) {
		repo := newFakeBookingRepo()
		require.NoError(t, repo.Create(ctx, &models.Booking{
			ID: "b1", ServiceID: "svc-1", Date: "2024-06-01",
			TimeSlot: "10:00", Duration: 60,
			Status: models.BookingStatusCancelled,
		}))
		svc := newTestService(repo, newFakeServiceRepo())

		intervals, err := svc.BusyIntervals(ctx, "svc-1", "2024-06-01")
		require.NoError(t, err)
		assert.Empty(t, intervals)
	})

	t.Run("confirmed bookings count as busy", func(t *testing.T) {
		repo := newFakeBookingRepo()
		require.NoError(t, repo.Create(ctx, &models.Booking{
			ID: "b1", ServiceID: "svc-1", Date: "2024-06-01",
			TimeSlot: "14:30", Duration: 90,
			Status: models.BookingStatusConfirmed, Active: true,
		}))
		svc := newTestService(repo, newFakeServiceRepo())

		intervals, err := svc.BusyIntervals(ctx, "svc-1", "2024-06-01")
		require.NoError(t, err)
		assert.Equal(t, []Interval{{Start: 870, End: 990}}, intervals)
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		svc := newTestService(newFakeBookingRepo(), newFakeServiceRepo())

		_, err := svc.BusyIntervals(ctx, "", "2024-06-01")
		assert.ErrorIs(t, err, ErrInvalidSlot)

		_, err = svc.BusyIntervals(ctx, "svc-1", "June 1st")
		assert.ErrorIs(t, err, ErrInvalidSlot)
	})
}
