package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	userRepo "soothe/database/repository/user"
	"soothe/models"
	"soothe/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Service errors surfaced to handlers.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// AuthService signs users in and out of the platform, covering both local
// password accounts and OAuth-linked accounts.
type AuthService struct {
	Users userRepo.UserRepository
}

func NewAuthService(users userRepo.UserRepository) *AuthService {
	return &AuthService{Users: users}
}

// RegisterInput carries a local signup request.
type RegisterInput struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	// Role is CLIENT unless the signup explicitly asks for THERAPIST.
	Role string `json:"role"`
}

// AuthResult is what every sign-in path returns: the account plus a fresh
// bearer token.
type AuthResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// Register creates a local password account and signs it in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := models.RoleClient
	if in.Role == models.RoleTherapist {
		role = models.RoleTherapist
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		Roles:        []string{role},
		Certificates: []models.Certificate{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Users.Create(ctx, user); err != nil {
		if errors.Is(err, userRepo.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issue(user)
}

// Login validates a local password and signs the account in.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	if user.PasswordHash == "" {
		// OAuth-linked account with no local password.
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

// signInWithProvider finds or creates the account linked to an external
// identity. Matching prefers the (provider, subject) pair; an existing local
// account with the same email is linked rather than duplicated.
func (s *AuthService) signInWithProvider(ctx context.Context, provider, subject, email, name string) (*AuthResult, error) {
	if user, err := s.Users.GetByOAuth(ctx, provider, subject); err == nil {
		return s.issue(user)
	} else if !errors.Is(err, userRepo.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up %s account: %w", provider, err)
	}

	if user, err := s.Users.GetByEmail(ctx, email); err == nil {
		user.OAuthProvider = provider
		user.OAuthID = subject
		if err := s.Users.SetOAuthLink(ctx, user.ID, provider, subject); err != nil {
			return nil, fmt.Errorf("failed to link %s account: %w", provider, err)
		}
		return s.issue(user)
	} else if !errors.Is(err, userRepo.ErrNotFound) {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	firstName, lastName := splitName(name)
	now := time.Now()
	user := &models.User{
		ID:            uuid.NewString(),
		Email:         email,
		FirstName:     firstName,
		LastName:      lastName,
		Roles:         []string{models.RoleClient},
		Certificates:  []models.Certificate{},
		OAuthProvider: provider,
		OAuthID:       subject,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.Users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create %s user: %w", provider, err)
	}

	zap.L().Info("Created account from social sign-in",
		zap.String("provider", provider), zap.String("userID", user.ID))
	return s.issue(user)
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, err := utils.GenerateToken(user.ID, user.Email, user.Roles)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

func splitName(full string) (first, last string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
