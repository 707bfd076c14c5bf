package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	catalogRepo "soothe/database/repository/catalog"
	userRepo "soothe/database/repository/user"
	"soothe/models"
	"soothe/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// A therapist may publish at most this many listings.
const maxServicesPerTherapist = 3

var (
	ErrServiceLimit = errors.New("service limit reached")
	ErrNotFound     = errors.New("service not found")
)

// CatalogService manages therapist listings and their public, localized
// projection.
type CatalogService struct {
	Services catalogRepo.ServiceRepository
	Users    userRepo.UserRepository
}

func NewCatalogService(services catalogRepo.ServiceRepository, users userRepo.UserRepository) *CatalogService {
	return &CatalogService{Services: services, Users: users}
}

// ServiceInput carries a create/update request for a listing.
type ServiceInput struct {
	Title        models.LocalizedText     `json:"title" binding:"required"`
	Description  models.LocalizedText     `json:"description"`
	PhotoURL     string                   `json:"photoUrl"`
	Address      string                   `json:"address"`
	Variants     []models.Variant         `json:"variants" binding:"required,min=1"`
	Availability []models.DayAvailability `json:"availability"`
	Country      string                   `json:"country" binding:"required,len=2"`
	City         string                   `json:"city" binding:"required"`
}

// PublicService is the localized projection served on public listings.
type PublicService struct {
	ID            string                   `json:"id"`
	TherapistID   string                   `json:"therapistId"`
	TherapistName string                   `json:"therapistName,omitempty"`
	Rating        float64                  `json:"rating"`
	Title         string                   `json:"title"`
	Description   string                   `json:"description"`
	PhotoURL      string                   `json:"photoUrl,omitempty"`
	Address       string                   `json:"address,omitempty"`
	Variants      []models.Variant         `json:"variants"`
	Availability  []models.DayAvailability `json:"availability"`
	Country       string                   `json:"country"`
	City          string                   `json:"city"`
}

// Create publishes a new listing for the therapist, subject to the per-account
// listing cap.
func (s *CatalogService) Create(ctx context.Context, therapistID string, in ServiceInput) (*models.Service, error) {
	count, err := s.Services.CountByTherapist(ctx, therapistID)
	if err != nil {
		return nil, fmt.Errorf("failed to count services: %w", err)
	}
	if count >= maxServicesPerTherapist {
		return nil, ErrServiceLimit
	}

	now := time.Now()
	svc := &models.Service{
		ID:           uuid.NewString(),
		TherapistID:  therapistID,
		Title:        in.Title,
		Description:  in.Description,
		PhotoURL:     in.PhotoURL,
		Address:      in.Address,
		Variants:     in.Variants,
		Availability: in.Availability,
		Country:      in.Country,
		City:         in.City,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Services.Create(ctx, svc); err != nil {
		return nil, err
	}

	s.invalidateListings(ctx)
	return svc, nil
}

// Get returns a single listing by id.
func (s *CatalogService) Get(ctx context.Context, id string) (*models.Service, error) {
	svc, err := s.Services.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return svc, nil
}

// Update replaces a listing. The repository scopes the write to the owning
// therapist, so updating someone else's listing reports not found.
func (s *CatalogService) Update(ctx context.Context, id, therapistID string, in ServiceInput) (*models.Service, error) {
	existing, err := s.Services.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	svc := &models.Service{
		ID:           id,
		TherapistID:  therapistID,
		Title:        in.Title,
		Description:  in.Description,
		PhotoURL:     in.PhotoURL,
		Address:      in.Address,
		Variants:     in.Variants,
		Availability: in.Availability,
		Country:      in.Country,
		City:         in.City,
		CreatedAt:    existing.CreatedAt,
		UpdatedAt:    time.Now(),
	}
	if err := s.Services.Update(ctx, svc); err != nil {
		if errors.Is(err, catalogRepo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.invalidateListings(ctx)
	return svc, nil
}

// Delete removes a listing owned by the therapist.
func (s *CatalogService) Delete(ctx context.Context, id, therapistID string) error {
	if err := s.Services.Delete(ctx, id, therapistID); err != nil {
		if errors.Is(err, catalogRepo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.invalidateListings(ctx)
	return nil
}

// ListMine returns the therapist's own listings, unlocalized.
func (s *CatalogService) ListMine(ctx context.Context, therapistID string) ([]models.Service, error) {
	return s.Services.FindByTherapist(ctx, therapistID)
}

// ListPublic returns the public catalog localized for lang, optionally
// filtered by city. Results are cached per (city, lang) and invalidated by
// bumping a version counter whenever any listing changes.
func (s *CatalogService) ListPublic(ctx context.Context, city, lang string) ([]PublicService, error) {
	cache := utils.CacheClient
	var cacheKey string
	if cache != nil {
		cacheKey = s.listingKey(ctx, city, lang)
		if cached, err := cache.Get(ctx, cacheKey).Result(); err == nil {
			var out []PublicService
			if err := json.Unmarshal([]byte(cached), &out); err == nil {
				return out, nil
			}
		}
	}

	services, err := s.Services.FindPublic(ctx, city)
	if err != nil {
		return nil, err
	}

	therapists := make(map[string]*models.User)
	out := make([]PublicService, 0, len(services))
	for _, svc := range services {
		owner, ok := therapists[svc.TherapistID]
		if !ok {
			owner, _ = s.Users.GetByID(ctx, svc.TherapistID)
			therapists[svc.TherapistID] = owner
		}
		out = append(out, s.project(&svc, owner, lang))
	}

	if cache != nil {
		if payload, err := json.Marshal(out); err == nil {
			if err := cache.Set(ctx, cacheKey, payload, 5*time.Minute).Err(); err != nil {
				zap.L().Warn("Failed to cache catalog listing", zap.Error(err))
			}
		}
	}
	return out, nil
}

func (s *CatalogService) project(svc *models.Service, owner *models.User, lang string) PublicService {
	p := PublicService{
		ID:           svc.ID,
		TherapistID:  svc.TherapistID,
		Title:        svc.Title.Get(lang),
		Description:  svc.Description.Get(lang),
		PhotoURL:     svc.PhotoURL,
		Address:      svc.Address,
		Variants:     svc.Variants,
		Availability: svc.Availability,
		Country:      svc.Country,
		City:         svc.City,
	}
	if owner != nil {
		p.TherapistName = owner.FirstName + " " + owner.LastName
		p.Rating = owner.Rating
	}
	return p
}

// listingKey derives the versioned cache key for a (city, lang) listing.
func (s *CatalogService) listingKey(ctx context.Context, city, lang string) string {
	version, err := utils.CacheClient.Get(ctx, "catalog:version").Result()
	if err != nil {
		version = "0"
	}
	if city == "" {
		city = "*"
	}
	return fmt.Sprintf("catalog:v%s:%s:%s", version, city, lang)
}

// invalidateListings drops every cached listing at once by bumping the
// version embedded in the keys. Stale entries expire on their own TTL.
func (s *CatalogService) invalidateListings(ctx context.Context) {
	if utils.CacheClient == nil {
		return
	}
	if err := utils.CacheClient.Incr(ctx, "catalog:version").Err(); err != nil {
		zap.L().Warn("Failed to bump catalog cache version", zap.Error(err))
	}
}
