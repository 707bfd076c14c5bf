package booking

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SlotBufferMinutes is the turnaround added after every appointment before
// the next one can start.
const SlotBufferMinutes = 30

// Interval is a half-open busy range in minutes since midnight.
type Interval struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// slotMinutes parses an "HH:mm" time-of-day into minutes since midnight.
func slotMinutes(slot string) (int, error) {
	parts := strings.Split(slot, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time slot %q", slot)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("invalid time slot %q", slot)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid time slot %q", slot)
	}
	return hours*60 + minutes, nil
}

// validDate reports whether date is a well-formed "YYYY-MM-DD" value.
func validDate(date string) bool {
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}

// BusyIntervals returns the occupied ranges of a service on a calendar date:
// one [start, start+duration+buffer) interval per pending or confirmed
// booking. Intervals are returned as stored, neither merged nor deduplicated;
// intersecting them against the service's weekly availability windows is the
// caller's concern.
func (s *BookingService) BusyIntervals(ctx context.Context, serviceID, date string) ([]Interval, error) {
	if serviceID == "" || !validDate(date) {
		return nil, ErrInvalidSlot
	}

	bookings, err := s.Bookings.FindActiveByServiceDate(ctx, serviceID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings for slot computation: %w", err)
	}

	intervals := make([]Interval, 0, len(bookings))
	for _, b := range bookings {
		start, err := slotMinutes(b.TimeSlot)
		if err != nil {
			// Skip bookings with unparseable slots rather than failing the
			// whole availability response.
			continue
		}
		intervals = append(intervals, Interval{
			Start: start,
			End:   start + b.Duration + SlotBufferMinutes,
		})
	}
	return intervals, nil
}
