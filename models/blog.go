package models

import "time"

// BlogPost is a localized editorial entry tied to a country/city.
type BlogPost struct {
	ID          string        `bson:"id" json:"id"`
	Country     string        `bson:"country" json:"country"` // ISO 3166-1 alpha-2
	City        string        `bson:"city" json:"city"`
	Title       LocalizedText `bson:"title" json:"title"`
	Description LocalizedText `bson:"description" json:"description"`
	PhotoURL    string        `bson:"photoUrl,omitempty" json:"photoUrl,omitempty"`
	Categories  []string      `bson:"categories" json:"categories"`
	CreatedAt   time.Time     `bson:"createdAt" json:"createdAt"`
}
