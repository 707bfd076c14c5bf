package models

import "time"

// Review is a single 1-5 rating left by one booking participant about the
// other. At most one review exists per (order, rater) pair; reviews are
// immutable once created.
type Review struct {
	ID          string    `bson:"id" json:"id"`
	OrderID     string    `bson:"order" json:"order"`
	RaterID     string    `bson:"rater" json:"rater"`
	RecipientID string    `bson:"recipient" json:"recipient"`
	Rating      int       `bson:"rating" json:"rating"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}
