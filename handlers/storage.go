package handlers

import (
	"net/http"
	"path/filepath"

	"soothe/middleware"
	"soothe/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// allowed upload targets; anything else lands in the generic media folder.
var uploadDirs = map[string]bool{
	"services": true,
	"profiles": true,
	"blog":     true,
}

// UploadHandler stores a media file and returns its public URL. The optional
// ?dir= selects the target folder.
func (hb *HandlerBundle) UploadHandler(c *gin.Context) {
	file, fileHeader, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	defer file.Close()

	dir := c.Query("dir")
	if !uploadDirs[dir] {
		dir = "media"
	}
	fileName := uuid.NewString() + filepath.Ext(fileHeader.Filename)

	url, err := hb.Storage.UploadFile(c.Request.Context(), dir, file, fileHeader, fileName)
	if err != nil {
		getLogger(c).Error("Failed to upload file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload file"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}

// UploadProfilePhotoHandler stores a photo and binds it to the caller's
// profile in one step.
func (hb *HandlerBundle) UploadProfilePhotoHandler(c *gin.Context) {
	file, fileHeader, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	defer file.Close()

	fileName := uuid.NewString() + filepath.Ext(fileHeader.Filename)
	url, err := hb.Storage.UploadFile(c.Request.Context(), "profiles", file, fileHeader, fileName)
	if err != nil {
		getLogger(c).Error("Failed to upload profile photo", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload photo"})
		return
	}

	if err := hb.Users.UpdatePhotoURL(c.Request.Context(), middleware.UserID(c), url); err != nil {
		getLogger(c).Error("Failed to bind profile photo", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}

// AddCertificateHandler uploads a credential document onto the therapist's
// profile.
func (hb *HandlerBundle) AddCertificateHandler(c *gin.Context) {
	file, fileHeader, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	defer file.Close()

	fileName := uuid.NewString() + filepath.Ext(fileHeader.Filename)
	url, err := hb.Storage.UploadFile(c.Request.Context(), "certificates", file, fileHeader, fileName)
	if err != nil {
		getLogger(c).Error("Failed to upload certificate", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload certificate"})
		return
	}

	cert := models.Certificate{
		ID:      uuid.NewString(),
		FileURL: url,
		Title:   c.PostForm("title"),
	}
	if err := hb.Users.PushCertificate(c.Request.Context(), middleware.UserID(c), cert); err != nil {
		getLogger(c).Error("Failed to save certificate", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save certificate"})
		return
	}
	c.JSON(http.StatusCreated, cert)
}

// UpdateCertificateHandler renames a certificate.
func (hb *HandlerBundle) UpdateCertificateHandler(c *gin.Context) {
	var input struct {
		Title   string `json:"title" binding:"required"`
		FileURL string `json:"fileUrl" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	cert := models.Certificate{
		ID:      c.Param("id"),
		FileURL: input.FileURL,
		Title:   input.Title,
	}
	if err := hb.Users.UpdateCertificate(c.Request.Context(), middleware.UserID(c), cert); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Certificate not found"})
		return
	}
	c.JSON(http.StatusOK, cert)
}

// DeleteCertificateHandler removes a certificate and its stored file.
func (hb *HandlerBundle) DeleteCertificateHandler(c *gin.Context) {
	userID := middleware.UserID(c)
	certID := c.Param("id")

	user, err := hb.Users.GetByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
		return
	}

	var fileURL string
	for _, cert := range user.Certificates {
		if cert.ID == certID {
			fileURL = cert.FileURL
			break
		}
	}
	if fileURL == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "Certificate not found"})
		return
	}

	if err := hb.Users.PullCertificate(c.Request.Context(), userID, certID); err != nil {
		getLogger(c).Error("Failed to remove certificate", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove certificate"})
		return
	}

	// The document record is gone; losing the blob is recoverable noise.
	if err := hb.Storage.DeleteByURL(c.Request.Context(), fileURL); err != nil {
		getLogger(c).Warn("Failed to delete certificate file",
			zap.String("url", fileURL), zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
