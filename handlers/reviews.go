package handlers

import (
	"errors"
	"net/http"

	"soothe/middleware"
	"soothe/services/review"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// reviewStatus maps review service errors to HTTP statuses.
func reviewStatus(err error) (int, string) {
	switch {
	case errors.Is(err, review.ErrInvalidRating):
		return http.StatusBadRequest, "Rating must be between 1 and 5"
	case errors.Is(err, review.ErrBookingNotFound):
		return http.StatusNotFound, "Booking not found"
	case errors.Is(err, review.ErrNotParticipant):
		return http.StatusForbidden, "Not a participant of this booking"
	case errors.Is(err, review.ErrSelfReview):
		return http.StatusForbidden, "Cannot review yourself"
	case errors.Is(err, review.ErrGuestReview):
		return http.StatusBadRequest, "Cannot rate a guest booking"
	case errors.Is(err, review.ErrDuplicateReview):
		return http.StatusConflict, "Review already submitted for this booking"
	default:
		return http.StatusInternalServerError, "Failed to submit review"
	}
}

func (hb *HandlerBundle) submitReview(c *gin.Context, bookingID string, rating int) {
	created, err := hb.Review.Submit(c.Request.Context(), bookingID, middleware.UserID(c), rating)
	if err != nil {
		status, msg := reviewStatus(err)
		if status == http.StatusInternalServerError {
			getLogger(c).Error("Failed to submit review", zap.Error(err))
		}
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// SubmitReviewHandler records a rating for a booking directed at the other
// participant.
func (hb *HandlerBundle) SubmitReviewHandler(c *gin.Context) {
	var input struct {
		BookingID string `json:"bookingId" binding:"required"`
		Rating    int    `json:"rating" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	hb.submitReview(c, input.BookingID, input.Rating)
}

// SubmitBookingReviewHandler is the in-booking variant: the booking comes
// from the path instead of the body.
func (hb *HandlerBundle) SubmitBookingReviewHandler(c *gin.Context) {
	var input struct {
		Rating int `json:"rating" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	hb.submitReview(c, c.Param("id"), input.Rating)
}
