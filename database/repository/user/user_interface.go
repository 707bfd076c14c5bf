package userRepo

import (
	"context"

	"soothe/models"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByOAuth(ctx context.Context, provider, oauthID string) (*models.User, error)
	GetTherapistByEmail(ctx context.Context, email string) (*models.User, error)
	FindByRole(ctx context.Context, role string) ([]models.User, error)

	UpdateAbout(ctx context.Context, id string, about models.LocalizedText) error
	UpdatePhotoURL(ctx context.Context, id, photoURL string) error
	UpdateRating(ctx context.Context, id string, rating float64) error
	SetTelegramLink(ctx context.Context, id, chatID, telegramUserID string) error
	SetOAuthLink(ctx context.Context, id, provider, oauthID string) error

	PushCertificate(ctx context.Context, userID string, cert models.Certificate) error
	UpdateCertificate(ctx context.Context, userID string, cert models.Certificate) error
	PullCertificate(ctx context.Context, userID, certID string) error
}
