package models

import "time"

// Variant is a bookable (duration, price) option of a service.
type Variant struct {
	Duration int     `bson:"duration" json:"duration"` // minutes
	Price    float64 `bson:"price" json:"price"`
}

// TimeWindow is a half-open "HH:mm" interval within a day.
type TimeWindow struct {
	Start string `bson:"start" json:"start"`
	End   string `bson:"end" json:"end"`
}

// DayAvailability lists the open windows for one weekday ("Mon".."Sun").
type DayAvailability struct {
	DayOfWeek string       `bson:"dayOfWeek" json:"dayOfWeek"`
	TimeSlots []TimeWindow `bson:"timeSlots" json:"timeSlots"`
}

// Service is a listing owned by exactly one therapist.
type Service struct {
	ID           string            `bson:"id" json:"id"`
	TherapistID  string            `bson:"therapistId" json:"therapistId"`
	Title        LocalizedText     `bson:"title" json:"title"`
	Description  LocalizedText     `bson:"description" json:"description"`
	PhotoURL     string            `bson:"photoUrl,omitempty" json:"photoUrl,omitempty"`
	Address      string            `bson:"address,omitempty" json:"address,omitempty"`
	Variants     []Variant         `bson:"variants" json:"variants"`
	Availability []DayAvailability `bson:"availability" json:"availability"`
	Country      string            `bson:"country" json:"country"` // ISO 3166-1 alpha-2
	City         string            `bson:"city" json:"city"`
	CreatedAt    time.Time         `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time         `bson:"updated_at" json:"updated_at"`
}
