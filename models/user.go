package models

import "time"

// User roles. A user may hold several at once.
const (
	RoleClient    = "CLIENT"
	RoleTherapist = "THERAPIST"
	RoleManager   = "MANAGER"
)

// OAuth providers accepted for social sign-in.
const (
	OAuthProviderGoogle   = "google"
	OAuthProviderFacebook = "facebook"
)

// LocalizedText maps a two-letter language code to a translation.
type LocalizedText map[string]string

// Get returns the value for lang, falling back to English and then to any
// non-empty translation.
func (t LocalizedText) Get(lang string) string {
	if t == nil {
		return ""
	}
	if v := t[lang]; v != "" {
		return v
	}
	if v := t["en"]; v != "" {
		return v
	}
	for _, v := range t {
		if v != "" {
			return v
		}
	}
	return ""
}

// Certificate is a therapist credential stored on the user document.
type Certificate struct {
	ID      string `bson:"id" json:"id"`
	FileURL string `bson:"fileUrl" json:"fileUrl"`
	Title   string `bson:"title,omitempty" json:"title,omitempty"`
}

// User represents a platform account: client, therapist, manager, or any
// combination of the three.
type User struct {
	ID           string        `bson:"id" json:"id"`
	Email        string        `bson:"email" json:"email"`
	PasswordHash string        `bson:"passwordHash,omitempty" json:"-"` // empty for OAuth-linked accounts
	FirstName    string        `bson:"firstName,omitempty" json:"firstName,omitempty"`
	LastName     string        `bson:"lastName,omitempty" json:"lastName,omitempty"`
	About        LocalizedText `bson:"about,omitempty" json:"about,omitempty"`
	Roles        []string      `bson:"roles" json:"roles"`
	PhotoURL     string        `bson:"photoUrl,omitempty" json:"photoUrl,omitempty"`

	// Rating is derived: the arithmetic mean of all reviews naming this
	// user as recipient, recomputed on every new review.
	Rating float64 `bson:"rating" json:"rating"`

	TelegramChatID string        `bson:"telegramChatId,omitempty" json:"telegramChatId,omitempty"`
	TelegramUserID string        `bson:"telegramUserId,omitempty" json:"-"`
	Certificates   []Certificate `bson:"certificates" json:"certificates"`
	Phone          string        `bson:"phone,omitempty" json:"phone,omitempty"`
	Address        string        `bson:"address,omitempty" json:"address,omitempty"`

	OAuthProvider string `bson:"oauthProvider,omitempty" json:"oauthProvider,omitempty"`
	OAuthID       string `bson:"oauthId,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// HasRole reports whether the user holds the given role.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
