package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	bookingRepo "soothe/database/repository/booking"
	catalogRepo "soothe/database/repository/catalog"
	"soothe/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBookingRepo is an in-memory BookingRepository with the same conflict
// and conditional-update semantics as the Mongo implementation.
type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: map[string]*models.Booking{}}
}

func (r *fakeBookingRepo) Create(ctx context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.bookings {
		if existing.Active && existing.ServiceID == b.ServiceID &&
			existing.Date == b.Date && existing.TimeSlot == b.TimeSlot {
			return bookingRepo.ErrSlotTaken
		}
	}
	clone := *b
	r.bookings[b.ID] = &clone
	return nil
}

func (r *fakeBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	clone := *b
	return &clone, nil
}

func (r *fakeBookingRepo) FindActiveByServiceDate(ctx context.Context, serviceID, date string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.ServiceID == serviceID && b.Date == date && b.IsActive() {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) FindByClient(ctx context.Context, clientID string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.ClientID == clientID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) FindByTherapist(ctx context.Context, therapistID string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.TherapistID == therapistID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) FindPending(ctx context.Context) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.Status == models.BookingStatusPending {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) FindByPaymentID(ctx context.Context, paymentID string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.StripePaymentID == paymentID {
			clone := *b
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeBookingRepo) UpdateStatus(ctx context.Context, id, from, to string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok || b.Status != from {
		return bookingRepo.ErrNotFound
	}
	b.Status = to
	b.Active = to == models.BookingStatusPending || to == models.BookingStatusConfirmed
	b.UpdatedAt = time.Now()
	return nil
}

func (r *fakeBookingRepo) AppendMessage(ctx context.Context, id string, msg models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return bookingRepo.ErrNotFound
	}
	b.Messages = append(b.Messages, msg)
	return nil
}

func (r *fakeBookingRepo) SetLastRead(ctx context.Context, id, userID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return bookingRepo.ErrNotFound
	}
	if b.LastReadAt == nil {
		b.LastReadAt = map[string]time.Time{}
	}
	b.LastReadAt[userID] = at
	return nil
}

func (r *fakeBookingRepo) ConfirmedStats(ctx context.Context, therapistID, dateFrom, dateTo string) (int, float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	total := 0.0
	for _, b := range r.bookings {
		if b.TherapistID == therapistID && b.Status == models.BookingStatusConfirmed &&
			b.Date >= dateFrom && b.Date <= dateTo {
			count++
			total += b.Price
		}
	}
	return count, total, nil
}

// fakeServiceRepo is an in-memory ServiceRepository.
type fakeServiceRepo struct {
	services map[string]*models.Service
}

func newFakeServiceRepo(services ...*models.Service) *fakeServiceRepo {
	r := &fakeServiceRepo{services: map[string]*models.Service{}}
	for _, s := range services {
		r.services[s.ID] = s
	}
	return r
}

func (r *fakeServiceRepo) Create(ctx context.Context, svc *models.Service) error {
	r.services[svc.ID] = svc
	return nil
}

func (r *fakeServiceRepo) GetByID(ctx context.Context, id string) (*models.Service, error) {
	svc, ok := r.services[id]
	if !ok {
		return nil, catalogRepo.ErrNotFound
	}
	return svc, nil
}

func (r *fakeServiceRepo) FindPublic(ctx context.Context, city string) ([]models.Service, error) {
	var out []models.Service
	for _, s := range r.services {
		if city == "" || s.City == city {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeServiceRepo) FindByTherapist(ctx context.Context, therapistID string) ([]models.Service, error) {
	var out []models.Service
	for _, s := range r.services {
		if s.TherapistID == therapistID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeServiceRepo) CountByTherapist(ctx context.Context, therapistID string) (int64, error) {
	out, _ := r.FindByTherapist(ctx, therapistID)
	return int64(len(out)), nil
}

func (r *fakeServiceRepo) Update(ctx context.Context, svc *models.Service) error {
	existing, ok := r.services[svc.ID]
	if !ok || existing.TherapistID != svc.TherapistID {
		return catalogRepo.ErrNotFound
	}
	r.services[svc.ID] = svc
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

func massageService() *models.Service {
	return &models.Service{
		ID:          "svc-1",
		TherapistID: "therapist-1",
		Title:       models.LocalizedText{"en": "Deep tissue massage"},
		Variants: []models.Variant{
			{Duration: 60, Price: 80},
			{Duration: 90, Price: 110},
		},
		Country: "DE",
		City:    "Berlin",
	}
}

func newTestService(repo *fakeBookingRepo, services *fakeServiceRepo) *BookingService {
	return NewBookingService(repo, services, nil, nil)
}

func validInput() CreateInput {
	return CreateInput{
		ServiceID: "svc-1",
		Date:      "2024-06-01",
		TimeSlot:  "10:00",
		Duration:  60,
		FirstName: "Anna",
		LastName:  "Schmidt",
		Phone:     "+49123456",
		Email:     "anna@example.com",
		Address:   "Hauptstr. 1",
	}
}

func TestCreateBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a pending booking with the variant price", func(t *testing.T) {
		repo := newFakeBookingRepo()
		svc := newTestService(repo, newFakeServiceRepo(massageService()))

		b, err := svc.Create(ctx, "client-1", validInput())
		require.NoError(t, err)
		assert.Equal(t, models.BookingStatusPending, b.Status)
		assert.Equal(t, models.PaymentStatusUnpaid, b.PaymentStatus)
		assert.Equal(t, "client-1", b.ClientID)
		assert.Equal(t, "therapist-1", b.TherapistID)
		assert.Equal(t, 80.0, b.Price)
		assert.True(t, b.Active)
	})

	t.Run("guest booking has no client id", func(t *testing.T) {
		repo := newFakeBookingRepo()
		svc := newTestService(repo, newFakeServiceRepo(massageService()))

		b, err := svc.Create(ctx, "", validInput())
		require.NoError(t, err)
		assert.Empty(t, b.ClientID)
	})

	t.Run("rejects a second booking for the same slot", func(t *testing.T) {
		repo := newFakeBookingRepo()
		svc := newTestService(repo, newFakeServiceRepo(massageService()))

		_, err := svc.Create(ctx, "client-1", validInput())
		require.NoError(t, err)

		_, err = svc.Create(ctx, "client-2", validInput())
		assert.ErrorIs(t, err, ErrSlotTaken)
	})

	t.Run("a cancelled booking releases the slot", func(t *testing.T) {
		repo := newFakeBookingRepo()
		svc := newTestService(repo, newFakeServiceRepo(massageService()))

		first, err := svc.Create(ctx, "client-1", validInput())
		require.NoError(t, err)
		require.NoError(t, svc.Cancel(ctx, first.ID, "client-1"))

		_, err = svc.Create(ctx, "client-2", validInput())
		assert.NoError(t, err)
	})

	t.Run("rejects unknown service", func(t *testing.T) {
		svc := newTestService(newFakeBookingRepo(), newFakeServiceRepo())
		_, err := svc.Create(ctx, "client-1", validInput())
		assert.ErrorIs(t, err, ErrServiceNotFound)
	})

	t.Run("rejects a duration no variant offers", func(t *testing.T) {
		svc := newTestService(newFakeBookingRepo(), newFakeServiceRepo(massageService()))
		in := validInput()
		in.Duration = 45
		_, err := svc.Create(ctx, "client-1", in)
		assert.ErrorIs(t, err, ErrInvalidVariant)
	})

	t.Run("rejects malformed date and slot", func(t *testing.T) {
		svc := newTestService(newFakeBookingRepo(), newFakeServiceRepo(massageService()))

		in := validInput()
		in.Date = "01.06.2024"
		_, err := svc.Create(ctx, "client-1", in)
		assert.ErrorIs(t, err, ErrInvalidSlot)

		in = validInput()
		in.TimeSlot = "25:00"
		_, err = svc.Create(ctx, "client-1", in)
		assert.ErrorIs(t, err, ErrInvalidSlot)
	})
}

func TestCancelBooking(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*BookingService, *models.Booking) {
		repo := newFakeBookingRepo()
		svc := newTestService(repo, newFakeServiceRepo(massageService()))
		b, err := svc.Create(ctx, "client-1", validInput())
		require.NoError(t, err)
		return svc, b
	}

	t.Run("participant cancels a pending booking", func(t *testing.T) {
		svc, b := setup(t)
		require.NoError(t, svc.Cancel(ctx, b.ID, "client-1"))

		got, err := svc.Bookings.GetByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, models.BookingStatusCancelled, got.Status)
		assert.False(t, got.Active)
	})

	t.Run("therapist may cancel too", func(t *testing.T) {
		svc, b := setup(t)
		assert.NoError(t, svc.Cancel(ctx, b.ID, "therapist-1"))
	})

	t.Run("outsider may not cancel", func(t *testing.T) {
		svc, b := setup(t)
		assert.ErrorIs(t, svc.Cancel(ctx, b.ID, "stranger"), ErrNotParticipant)
	})

	t.Run("confirmed bookings cannot be cancelled", func(t *testing.T) {
		svc, b := setup(t)
		require.NoError(t, svc.Bookings.UpdateStatus(ctx, b.ID, models.BookingStatusPending, models.BookingStatusConfirmed))
		assert.ErrorIs(t, svc.Cancel(ctx, b.ID, "client-1"), ErrInvalidTransition)
	})

	t.Run("unknown booking", func(t *testing.T) {
		svc, _ := setup(t)
		assert.ErrorIs(t, svc.Cancel(ctx, "missing", "client-1"), ErrBookingNotFound)
	})
}

func TestBookingListOrder(t *testing.T) {
	views := []BookingView{
		{Booking: models.Booking{ID: "a", Status: models.BookingStatusCompleted, Date: "2024-01-01", TimeSlot: "09:00"}},
		{Booking: models.Booking{ID: "b", Status: models.BookingStatusConfirmed, Date: "2024-03-01", TimeSlot: "09:00"}},
		{Booking: models.Booking{ID: "c", Status: models.BookingStatusPending, Date: "2024-05-02", TimeSlot: "09:00"}},
		{Booking: models.Booking{ID: "d", Status: models.BookingStatusPending, Date: "2024-05-01", TimeSlot: "14:00"}},
		{Booking: models.Booking{ID: "e", Status: models.BookingStatusPending, Date: "2024-05-01", TimeSlot: "10:00"}},
	}
	sortBookingViews(views)

	var order []string
	for _, v := range views {
		order = append(order, v.ID)
	}
	assert.Equal(t, []string{"e", "d", "c", "b", "a"}, order)
}

func TestManagerStats(t *testing.T) {
	ctx := context.Background()
	repo := newFakeBookingRepo()
	svc := newTestService(repo, newFakeServiceRepo(massageService()))

	seed := func(id, date, slot, status string, price float64) {
		require.NoError(t, repo.Create(ctx, &models.Booking{
			ID: id, TherapistID: "therapist-1", ServiceID: "svc-1",
			Date: date, TimeSlot: slot, Status: status, Price: price,
			Active: status == models.BookingStatusPending || status == models.BookingStatusConfirmed,
		}))
	}
	seed("b1", "2024-06-01", "10:00", models.BookingStatusConfirmed, 80)
	seed("b2", "2024-06-02", "10:00", models.BookingStatusConfirmed, 110)
	seed("b3", "2024-06-03", "10:00", models.BookingStatusPending, 80)
	seed("b4", "2024-07-01", "10:00", models.BookingStatusConfirmed, 80)

	count, earned, err := svc.ManagerStats(ctx, "therapist-1", "2024-06-01", "2024-06-30")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, 190.0, earned)

	_, _, err = svc.ManagerStats(ctx, "therapist-1", "bad", "2024-06-30")
	assert.ErrorIs(t, err, ErrInvalidSlot)
}
