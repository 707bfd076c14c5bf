package booking

import "errors"

// Service errors surfaced to handlers, mapped to HTTP statuses there.
var (
	ErrSlotTaken         = errors.New("time slot already taken")
	ErrServiceNotFound   = errors.New("service not found")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrInvalidSlot       = errors.New("invalid date or time slot")
	ErrInvalidVariant    = errors.New("no variant matches the requested duration")
	ErrNotParticipant    = errors.New("not a participant of this booking")
	ErrGuestChat         = errors.New("guest bookings have no chat")
	ErrInvalidTransition = errors.New("booking is not in a state that allows this transition")
)
