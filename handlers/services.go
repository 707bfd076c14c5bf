package handlers

import (
	"errors"
	"net/http"

	"soothe/middleware"
	"soothe/services/catalog"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ListServicesHandler returns the public, localized catalog. Optional ?city=
// filter.
func (hb *HandlerBundle) ListServicesHandler(c *gin.Context) {
	services, err := hb.Catalog.ListPublic(c.Request.Context(), c.Query("city"), requestLang(c))
	if err != nil {
		getLogger(c).Error("Failed to list services", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list services"})
		return
	}
	c.JSON(http.StatusOK, services)
}

// GetServiceHandler returns a single listing, unlocalized.
func (hb *HandlerBundle) GetServiceHandler(c *gin.Context) {
	svc, err := hb.Catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
			return
		}
		getLogger(c).Error("Failed to fetch service", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch service"})
		return
	}
	c.JSON(http.StatusOK, svc)
}

// MyServicesHandler lists the authenticated therapist's own listings.
func (hb *HandlerBundle) MyServicesHandler(c *gin.Context) {
	services, err := hb.Catalog.ListMine(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		getLogger(c).Error("Failed to list own services", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list services"})
		return
	}
	c.JSON(http.StatusOK, services)
}

// CreateServiceHandler publishes a new listing for the authenticated
// therapist.
func (hb *HandlerBundle) CreateServiceHandler(c *gin.Context) {
	var input catalog.ServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	svc, err := hb.Catalog.Create(c.Request.Context(), middleware.UserID(c), input)
	if err != nil {
		if errors.Is(err, catalog.ErrServiceLimit) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Service limit reached"})
			return
		}
		getLogger(c).Error("Failed to create service", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create service"})
		return
	}
	c.JSON(http.StatusCreated, svc)
}

// UpdateServiceHandler replaces a listing owned by the caller.
func (hb *HandlerBundle) UpdateServiceHandler(c *gin.Context) {
	var input catalog.ServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	svc, err := hb.Catalog.Update(c.Request.Context(), c.Param("id"), middleware.UserID(c), input)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
			return
		}
		getLogger(c).Error("Failed to update service", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update service"})
		return
	}
	c.JSON(http.StatusOK, svc)
}

// DeleteServiceHandler removes a listing owned by the caller.
func (hb *HandlerBundle) DeleteServiceHandler(c *gin.Context) {
	err := hb.Catalog.Delete(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
			return
		}
		getLogger(c).Error("Failed to delete service", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete service"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
