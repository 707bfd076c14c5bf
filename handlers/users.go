package handlers

import (
	"errors"
	"net/http"

	userRepo "soothe/database/repository/user"
	"soothe/middleware"
	"soothe/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MeHandler returns the authenticated account.
func (hb *HandlerBundle) MeHandler(c *gin.Context) {
	user, err := hb.Users.GetByID(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		getLogger(c).Error("Failed to fetch user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateAboutHandler replaces the caller's localized about text.
func (hb *HandlerBundle) UpdateAboutHandler(c *gin.Context) {
	var input struct {
		About models.LocalizedText `json:"about" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	if err := hb.Users.UpdateAbout(c.Request.Context(), middleware.UserID(c), input.About); err != nil {
		getLogger(c).Error("Failed to update about", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// TherapistProfileHandler returns a therapist's public profile with their
// listings, localized for the caller.
func (hb *HandlerBundle) TherapistProfileHandler(c *gin.Context) {
	id := c.Param("id")
	lang := requestLang(c)

	user, err := hb.Users.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Therapist not found"})
			return
		}
		getLogger(c).Error("Failed to fetch therapist", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch therapist"})
		return
	}
	if !user.HasRole(models.RoleTherapist) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Therapist not found"})
		return
	}

	services, err := hb.Catalog.ListMine(c.Request.Context(), id)
	if err != nil {
		getLogger(c).Error("Failed to fetch therapist services", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch therapist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":           user.ID,
		"firstName":    user.FirstName,
		"lastName":     user.LastName,
		"about":        user.About.Get(lang),
		"photoUrl":     user.PhotoURL,
		"rating":       user.Rating,
		"certificates": user.Certificates,
		"services":     services,
	})
}

// ListTherapistsHandler lists therapist accounts for the manager dashboard.
func (hb *HandlerBundle) ListTherapistsHandler(c *gin.Context) {
	therapists, err := hb.Users.FindByRole(c.Request.Context(), models.RoleTherapist)
	if err != nil {
		getLogger(c).Error("Failed to list therapists", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list therapists"})
		return
	}
	c.JSON(http.StatusOK, therapists)
}
