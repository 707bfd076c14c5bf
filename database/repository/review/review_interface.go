package reviewRepo

import (
	"context"

	"soothe/models"
)

// ReviewRepository defines persistence operations for ratings.
type ReviewRepository interface {
	// Create inserts the review. A second review for the same
	// (order, rater) pair fails with ErrDuplicateReview, enforced by a
	// unique index rather than a separate lookup.
	Create(ctx context.Context, review *models.Review) error

	// AverageForRecipient computes the arithmetic mean and count of all
	// ratings naming the recipient.
	AverageForRecipient(ctx context.Context, recipientID string) (avg float64, count int, err error)
}
