package catalog

import (
	"context"
	"testing"

	catalogRepo "soothe/database/repository/catalog"
	userRepo "soothe/database/repository/user"
	"soothe/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeServiceRepo struct {
	services map[string]*models.Service
}

func newFakeServiceRepo() *fakeServiceRepo {
	return &fakeServiceRepo{services: map[string]*models.Service{}}
}

func (r *fakeServiceRepo) Create(ctx context.Context, svc *models.Service) error {
	clone := *svc
	r.services[svc.ID] = &clone
	return nil
}

func (r *fakeServiceRepo) GetByID(ctx context.Context, id string) (*models.Service, error) {
	svc, ok := r.services[id]
	if !ok {
		return nil, catalogRepo.ErrNotFound
	}
	clone := *svc
	return &clone, nil
}

func (r *fakeServiceRepo) FindPublic(ctx context.Context, city string) ([]models.Service, error) {
	var out []models.Service
	for _, svc := range r.services {
		if city == "" || svc.City == city {
			out = append(out, *svc)
		}
	}
	return out, nil
}

func (r *fakeServiceRepo) FindByTherapist(ctx context.Context, therapistID string) ([]models.Service, error) {
	var out []models.Service
	for _, svc := range r.services {
		if svc.TherapistID == therapistID {
			out = append(out, *svc)
		}
	}
	return out, nil
}

func (r *fakeServiceRepo) CountByTherapist(ctx context.Context, therapistID string) (int64, error) {
	var n int64
	for _, svc := range r.services {
		if svc.TherapistID == therapistID {
			n++
		}
	}
	return n, nil
}

func (r *fakeServiceRepo) Update(ctx context.Context, svc *models.Service) error {
	existing, ok := r.services[svc.ID]
	if !ok || existing.TherapistID != svc.TherapistID {
		return catalogRepo.ErrNotFound
	}
	clone := *svc
	r.services[svc.ID] = &clone
	return nil
}

func (r *fakeServiceRepo) Delete(ctx context.Context, id, therapistID string) error {
	existing, ok := r.services[id]
	if !ok || existing.TherapistID != therapistID {
		return catalogRepo.ErrNotFound
	}
	delete(r.services, id)
	return nil
}

type fakeUserRepo struct {
	users map[string]*models.User
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error { return nil }

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, userRepo.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, userRepo.ErrNotFound
}

func (r *fakeUserRepo) GetByOAuth(ctx context.Context, provider, oauthID string) (*models.User, error) {
	return nil, userRepo.ErrNotFound
}

func (r *fakeUserRepo) GetTherapistByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, userRepo.ErrNotFound
}

func (r *fakeUserRepo) FindByRole(ctx context.Context, role string) ([]models.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) UpdateAbout(ctx context.Context, id string, about models.LocalizedText) error {
	return nil
}

func (r *fakeUserRepo) UpdatePhotoURL(ctx context.Context, id, photoURL string) error { return nil }

func (r *fakeUserRepo) UpdateRating(ctx context.Context, id string, rating float64) error {
	return nil
}

func (r *fakeUserRepo) SetTelegramLink(ctx context.Context, id, chatID, telegramUserID string) error {
	return nil
}

func (r *fakeUserRepo) SetOAuthLink(ctx context.Context, id, provider, oauthID string) error {
	return nil
}

func (r *fakeUserRepo) PushCertificate(ctx context.Context, userID string, cert models.Certificate) error {
	return nil
}

func (r *fakeUserRepo) UpdateCertificate(ctx context.Context, userID string, cert models.Certificate) error {
	return nil
}

func (r *fakeUserRepo) PullCertificate(ctx context.Context, userID, certID string) error {
	return nil
}

func listingInput() ServiceInput {
	return ServiceInput{
		Title:       models.LocalizedText{"en": "Deep Tissue Massage", "de": "Tiefengewebsmassage"},
		Description: models.LocalizedText{"en": "Focused pressure work."},
		Variants:    []models.Variant{{Duration: 60, Price: 80}},
		Country:     "DE",
		City:        "Berlin",
	}
}

func newTestCatalog() (*CatalogService, *fakeServiceRepo, *fakeUserRepo) {
	repo := newFakeServiceRepo()
	users := &fakeUserRepo{users: map[string]*models.User{
		"therapist-1": {
			ID:        "therapist-1",
			FirstName: "Maria",
			LastName:  "Weber",
			Roles:     []string{models.RoleTherapist},
			Rating:    4.5,
		},
	}}
	return NewCatalogService(repo, users), repo, users
}

func TestCreateService(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes a listing", func(t *testing.T) {
		svc, repo, _ := newTestCatalog()

		created, err := svc.Create(ctx, "therapist-1", listingInput())
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "therapist-1", created.TherapistID)
		assert.Len(t, repo.services, 1)
	})

	t.Run("enforces the listing cap", func(t *testing.T) {
		svc, _, _ := newTestCatalog()

		for i := 0; i < maxServicesPerTherapist; i++ {
			_, err := svc.Create(ctx, "therapist-1", listingInput())
			require.NoError(t, err)
		}
		_, err := svc.Create(ctx, "therapist-1", listingInput())
		assert.ErrorIs(t, err, ErrServiceLimit)

		// The cap is per therapist, not global.
		_, err = svc.Create(ctx, "therapist-2", listingInput())
		assert.NoError(t, err)
	})
}

func TestUpdateService(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestCatalog()

	created, err := svc.Create(ctx, "therapist-1", listingInput())
	require.NoError(t, err)

	t.Run("replaces fields but keeps the creation time", func(t *testing.T) {
		in := listingInput()
		in.City = "Hamburg"
		updated, err := svc.Update(ctx, created.ID, "therapist-1", in)
		require.NoError(t, err)
		assert.Equal(t, "Hamburg", updated.City)
		assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	})

	t.Run("cannot touch another therapist's listing", func(t *testing.T) {
		_, err := svc.Update(ctx, created.ID, "therapist-2", listingInput())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("unknown listing", func(t *testing.T) {
		_, err := svc.Update(ctx, "missing", "therapist-1", listingInput())
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDeleteService(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestCatalog()

	created, err := svc.Create(ctx, "therapist-1", listingInput())
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, created.ID, "therapist-2"), ErrNotFound)
	require.NoError(t, svc.Delete(ctx, created.ID, "therapist-1"))
	assert.Empty(t, repo.services)
	assert.ErrorIs(t, svc.Delete(ctx, created.ID, "therapist-1"), ErrNotFound)
}

func TestListPublic(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestCatalog()

	_, err := svc.Create(ctx, "therapist-1", listingInput())
	require.NoError(t, err)

	in := listingInput()
	in.City = "Hamburg"
	_, err = svc.Create(ctx, "therapist-1", in)
	require.NoError(t, err)

	t.Run("localizes and decorates with the owner", func(t *testing.T) {
		out, err := svc.ListPublic(ctx, "Berlin", "de")
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "Tiefengewebsmassage", out[0].Title)
		assert.Equal(t, "Maria Weber", out[0].TherapistName)
		assert.Equal(t, 4.5, out[0].Rating)
	})

	t.Run("falls back to english for unknown languages", func(t *testing.T) {
		out, err := svc.ListPublic(ctx, "Berlin", "fr")
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "Deep Tissue Massage", out[0].Title)
	})

	t.Run("empty city returns everything", func(t *testing.T) {
		out, err := svc.ListPublic(ctx, "", "en")
		require.NoError(t, err)
		assert.Len(t, out, 2)
	})

	t.Run("missing owner still lists the service", func(t *testing.T) {
		_, err := svc.Create(ctx, "therapist-gone", listingInput())
		require.NoError(t, err)

		out, err := svc.ListPublic(ctx, "Berlin", "en")
		require.NoError(t, err)
		require.Len(t, out, 2)
		for _, p := range out {
			if p.TherapistID == "therapist-gone" {
				assert.Empty(t, p.TherapistName)
				assert.Zero(t, p.Rating)
			}
		}
	})
}
