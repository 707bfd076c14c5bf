package handlers

import (
	"errors"
	"net/http"

	"soothe/middleware"
	"soothe/models"
	"soothe/services/booking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// bookingStatus maps booking service errors to HTTP statuses.
func bookingStatus(err error) (int, string) {
	switch {
	case errors.Is(err, booking.ErrInvalidSlot):
		return http.StatusBadRequest, "Invalid date or time slot"
	case errors.Is(err, booking.ErrInvalidVariant):
		return http.StatusBadRequest, "No variant matches the requested duration"
	case errors.Is(err, booking.ErrServiceNotFound):
		return http.StatusNotFound, "Service not found"
	case errors.Is(err, booking.ErrBookingNotFound):
		return http.StatusNotFound, "Booking not found"
	case errors.Is(err, booking.ErrSlotTaken):
		return http.StatusConflict, "Time slot already taken"
	case errors.Is(err, booking.ErrNotParticipant):
		return http.StatusForbidden, "Not a participant of this booking"
	case errors.Is(err, booking.ErrGuestChat):
		return http.StatusForbidden, "Guest bookings have no chat"
	case errors.Is(err, booking.ErrInvalidTransition):
		return http.StatusConflict, "Booking can no longer be cancelled"
	default:
		return http.StatusInternalServerError, "Internal error"
	}
}

// SlotsHandler returns the busy intervals of a service on a date.
func (hb *HandlerBundle) SlotsHandler(c *gin.Context) {
	intervals, err := hb.Booking.BusyIntervals(c.Request.Context(), c.Query("serviceId"), c.Query("date"))
	if err != nil {
		status, msg := bookingStatus(err)
		if status == http.StatusInternalServerError {
			getLogger(c).Error("Failed to compute busy intervals", zap.Error(err))
		}
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusOK, gin.H{"busy": intervals})
}

// CreateBookingHandler books a slot. Authentication is optional: guests book
// with contact details only.
func (hb *HandlerBundle) CreateBookingHandler(c *gin.Context) {
	var input booking.CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	created, err := hb.Booking.Create(c.Request.Context(), middleware.UserID(c), input)
	if err != nil {
		status, msg := bookingStatus(err)
		if status == http.StatusInternalServerError {
			getLogger(c).Error("Failed to create booking", zap.Error(err))
		}
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// MyBookingsHandler lists the caller's bookings: therapist side if they hold
// the role, client side otherwise.
func (hb *HandlerBundle) MyBookingsHandler(c *gin.Context) {
	userID := middleware.UserID(c)

	var (
		views []booking.BookingView
		err   error
	)
	if hasRole(middleware.Roles(c), models.RoleTherapist) {
		views, err = hb.Booking.ListForTherapist(c.Request.Context(), userID)
	} else {
		views, err = hb.Booking.ListForClient(c.Request.Context(), userID)
	}
	if err != nil {
		getLogger(c).Error("Failed to list bookings", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list bookings"})
		return
	}
	c.JSON(http.StatusOK, views)
}

// GetBookingHandler returns one booking visible to the caller.
func (hb *HandlerBundle) GetBookingHandler(c *gin.Context) {
	b, err := hb.Booking.Get(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		status, msg := bookingStatus(err)
		if status == http.StatusInternalServerError {
			getLogger(c).Error("Failed to fetch booking", zap.Error(err))
		}
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusOK, b)
}

// CancelBookingHandler cancels a pending booking, releasing its slot.
func (hb *HandlerBundle) CancelBookingHandler(c *gin.Context) {
	err := hb.Booking.Cancel(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		status, msg := bookingStatus(err)
		if status == http.StatusInternalServerError {
			getLogger(c).Error("Failed to cancel booking", zap.Error(err))
		}
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

// MessagesHandler returns the chat log and marks it read for the caller.
func (hb *HandlerBundle) MessagesHandler(c *gin.Context) {
	messages, err := hb.Booking.Messages(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		status, msg := bookingStatus(err)
		if status == http.StatusInternalServerError {
			getLogger(c).Error("Failed to fetch messages", zap.Error(err))
		}
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusOK, messages)
}

// SendMessageHandler appends a chat message and broadcasts it.
func (hb *HandlerBundle) SendMessageHandler(c *gin.Context) {
	var input struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	msg, err := hb.Booking.AppendMessage(c.Request.Context(), c.Param("id"), middleware.UserID(c), input.Text)
	if err != nil {
		status, msg := bookingStatus(err)
		if status == http.StatusInternalServerError {
			getLogger(c).Error("Failed to send message", zap.Error(err))
		}
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// MarkReadHandler records the caller's last-read instant.
func (hb *HandlerBundle) MarkReadHandler(c *gin.Context) {
	err := hb.Booking.MarkRead(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		status, msg := bookingStatus(err)
		if status == http.StatusInternalServerError {
			getLogger(c).Error("Failed to mark read", zap.Error(err))
		}
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// TherapistStatsHandler reports confirmed-booking counts and earnings for a
// therapist over an inclusive date range. Manager only.
func (hb *HandlerBundle) TherapistStatsHandler(c *gin.Context) {
	count, earned, err := hb.Booking.ManagerStats(c.Request.Context(),
		c.Param("id"), c.Query("from"), c.Query("to"))
	if err != nil {
		status, msg := bookingStatus(err)
		if status == http.StatusInternalServerError {
			getLogger(c).Error("Failed to compute stats", zap.Error(err))
		}
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"completedOrders": count,
		"totalEarned":     earned,
	})
}

func hasRole(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
