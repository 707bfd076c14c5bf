package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingIsActive(t *testing.T) {
	assert.True(t, (&Booking{Status: BookingStatusPending}).IsActive())
	assert.True(t, (&Booking{Status: BookingStatusConfirmed}).IsActive())
	assert.False(t, (&Booking{Status: BookingStatusCompleted}).IsActive())
	assert.False(t, (&Booking{Status: BookingStatusCancelled}).IsActive())
}

func TestBookingIsParticipant(t *testing.T) {
	b := &Booking{ClientID: "client-1", TherapistID: "therapist-1"}
	assert.True(t, b.IsParticipant("client-1"))
	assert.True(t, b.IsParticipant("therapist-1"))
	assert.False(t, b.IsParticipant("stranger"))

	// A guest booking has no client; the empty id must never match.
	guest := &Booking{TherapistID: "therapist-1"}
	assert.False(t, guest.IsParticipant(""))
}
