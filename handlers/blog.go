package handlers

import (
	"errors"
	"net/http"
	"time"

	blogRepo "soothe/database/repository/blog"
	"soothe/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ListBlogHandler returns published posts, localized, newest first. Optional
// ?country= and ?city= filters.
func (hb *HandlerBundle) ListBlogHandler(c *gin.Context) {
	posts, err := hb.Blog.Find(c.Request.Context(), c.Query("country"), c.Query("city"))
	if err != nil {
		getLogger(c).Error("Failed to list blog posts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list posts"})
		return
	}

	lang := requestLang(c)
	out := make([]gin.H, 0, len(posts))
	for _, p := range posts {
		out = append(out, gin.H{
			"id":          p.ID,
			"country":     p.Country,
			"city":        p.City,
			"title":       p.Title.Get(lang),
			"description": p.Description.Get(lang),
			"photoUrl":    p.PhotoURL,
			"categories":  p.Categories,
			"created_at":  p.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, out)
}

// GetBlogPostHandler returns one post with all translations.
func (hb *HandlerBundle) GetBlogPostHandler(c *gin.Context) {
	post, err := hb.Blog.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, blogRepo.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		getLogger(c).Error("Failed to fetch blog post", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}
	c.JSON(http.StatusOK, post)
}

// CreateBlogPostHandler publishes a post. Manager only.
func (hb *HandlerBundle) CreateBlogPostHandler(c *gin.Context) {
	var input struct {
		Country     string               `json:"country" binding:"required,len=2"`
		City        string               `json:"city"`
		Title       models.LocalizedText `json:"title" binding:"required"`
		Description models.LocalizedText `json:"description"`
		PhotoURL    string               `json:"photoUrl"`
		Categories  []string             `json:"categories"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	post := &models.BlogPost{
		ID:          uuid.NewString(),
		Country:     input.Country,
		City:        input.City,
		Title:       input.Title,
		Description: input.Description,
		PhotoURL:    input.PhotoURL,
		Categories:  input.Categories,
		CreatedAt:   time.Now(),
	}
	if err := hb.Blog.Create(c.Request.Context(), post); err != nil {
		getLogger(c).Error("Failed to create blog post", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}
	c.JSON(http.StatusCreated, post)
}

// DeleteBlogPostHandler removes a post. Manager only.
func (hb *HandlerBundle) DeleteBlogPostHandler(c *gin.Context) {
	if err := hb.Blog.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, blogRepo.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		getLogger(c).Error("Failed to delete blog post", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
