package catalogRepo

import (
	"context"

	"soothe/models"
)

// ServiceRepository defines persistence operations for service listings.
type ServiceRepository interface {
	Create(ctx context.Context, svc *models.Service) error
	GetByID(ctx context.Context, id string) (*models.Service, error)
	FindPublic(ctx context.Context, city string) ([]models.Service, error)
	FindByTherapist(ctx context.Context, therapistID string) ([]models.Service, error)
	CountByTherapist(ctx context.Context, therapistID string) (int64, error)
	Update(ctx context.Context, svc *models.Service) error
	Delete(ctx context.Context, id, therapistID string) error
}
