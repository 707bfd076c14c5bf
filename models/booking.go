package models

import "time"

// Booking statuses. Transitions are monotonic:
// pending -> confirmed -> completed, with cancelled reachable from pending.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
)

const (
	PaymentStatusPaid   = "PAID"
	PaymentStatusUnpaid = "UNPAID"
)

// Message is a chat message embedded in a booking. Immutable once appended;
// insertion order is chronological order.
type Message struct {
	Sender    string    `bson:"sender" json:"sender"`
	Text      string    `bson:"text" json:"text"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// Booking represents a scheduled service engagement between a client
// (or guest) and a therapist.
type Booking struct {
	ID          string  `bson:"id" json:"id"`
	ClientID    string  `bson:"clientId,omitempty" json:"clientId,omitempty"` // empty for guest bookings
	TherapistID string  `bson:"therapistId" json:"therapistId"`
	ServiceID   string  `bson:"serviceId" json:"serviceId"`
	Date        string  `bson:"date" json:"date"`         // "YYYY-MM-DD"
	TimeSlot    string  `bson:"timeSlot" json:"timeSlot"` // "HH:mm"
	Duration    int     `bson:"duration" json:"duration"` // minutes
	Price       float64 `bson:"price,omitempty" json:"price,omitempty"`

	FirstName string `bson:"firstName" json:"firstName"`
	LastName  string `bson:"lastName" json:"lastName"`
	Phone     string `bson:"phone" json:"phone"`
	Email     string `bson:"email" json:"email"`
	Address   string `bson:"address" json:"address"`

	Status string `bson:"status" json:"status"`
	// Active mirrors status ∈ {pending, confirmed}. It backs the partial
	// unique index on (serviceId, date, timeSlot) that rejects double
	// bookings atomically, and must be updated together with Status.
	Active bool `bson:"active" json:"-"`

	Messages []Message `bson:"messages" json:"messages"`
	// LastReadAt maps a participant id to the instant they last read the
	// chat. Used only for unread computation, never for authorization.
	LastReadAt map[string]time.Time `bson:"lastReadAt" json:"lastReadAt"`

	PaymentStatus   string `bson:"paymentStatus" json:"paymentStatus"`
	StripePaymentID string `bson:"stripePaymentId,omitempty" json:"stripePaymentId,omitempty"`
	Notes           string `bson:"notes,omitempty" json:"notes,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsActive reports whether the booking still occupies its slot.
func (b *Booking) IsActive() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}

// IsParticipant reports whether userID is the booking's client or therapist.
func (b *Booking) IsParticipant(userID string) bool {
	if userID == "" {
		return false
	}
	return userID == b.ClientID || userID == b.TherapistID
}
