package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingRepo "soothe/database/repository/booking"
	reviewRepo "soothe/database/repository/review"
	userRepo "soothe/database/repository/user"
	"soothe/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrNotParticipant  = errors.New("not a participant of this booking")
	ErrSelfReview      = errors.New("cannot review yourself")
	ErrGuestReview     = errors.New("cannot rate a guest booking")
	ErrDuplicateReview = errors.New("review already submitted for this booking")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
)

// ReviewService accepts ratings and keeps each recipient's aggregate score
// current.
type ReviewService struct {
	Reviews  reviewRepo.ReviewRepository
	Bookings bookingRepo.BookingRepository
	Users    userRepo.UserRepository
}

func NewReviewService(reviews reviewRepo.ReviewRepository, bookings bookingRepo.BookingRepository, users userRepo.UserRepository) *ReviewService {
	return &ReviewService{Reviews: reviews, Bookings: bookings, Users: users}
}

// Submit records a 1-5 rating for a booking. The recipient is determined by
// the rater's role: a therapist rates the client, anyone else rates the
// therapist. One review per (booking, rater); a second submission fails with
// ErrDuplicateReview, enforced by a unique index rather than a prior lookup.
func (s *ReviewService) Submit(ctx context.Context, bookingID, raterID string, rating int) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	booking, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if !booking.IsParticipant(raterID) {
		return nil, ErrNotParticipant
	}

	rater, err := s.Users.GetByID(ctx, raterID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rater: %w", err)
	}

	recipientID := booking.TherapistID
	if rater.HasRole(models.RoleTherapist) && raterID == booking.TherapistID {
		recipientID = booking.ClientID
	}
	if recipientID == "" {
		// Guest bookings have no client account to rate.
		return nil, ErrGuestReview
	}
	if recipientID == raterID {
		return nil, ErrSelfReview
	}

	review := &models.Review{
		ID:          uuid.NewString(),
		OrderID:     bookingID,
		RaterID:     raterID,
		RecipientID: recipientID,
		Rating:      rating,
		CreatedAt:   time.Now(),
	}
	if err := s.Reviews.Create(ctx, review); err != nil {
		if errors.Is(err, reviewRepo.ErrDuplicateReview) {
			return nil, ErrDuplicateReview
		}
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	// Recompute the recipient's aggregate. The review itself is already
	// durable; a failure here only delays the visible average until the
	// next successful recompute.
	avg, count, err := s.Reviews.AverageForRecipient(ctx, recipientID)
	if err != nil {
		zap.L().Warn("Failed to recompute rating",
			zap.String("recipientID", recipientID), zap.Error(err))
		return review, nil
	}
	if count > 0 {
		if err := s.Users.UpdateRating(ctx, recipientID, avg); err != nil {
			zap.L().Warn("Failed to persist recomputed rating",
				zap.String("recipientID", recipientID), zap.Error(err))
		}
	}
	return review, nil
}
