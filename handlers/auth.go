package handlers

import (
	"errors"
	"net/http"

	"soothe/services/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RegisterHandler creates a local password account.
func (hb *HandlerBundle) RegisterHandler(c *gin.Context) {
	var input auth.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	result, err := hb.Auth.Register(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return
		}
		getLogger(c).Error("Registration failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register"})
		return
	}
	c.JSON(http.StatusCreated, result)
}

// LoginHandler authenticates a local password account.
func (hb *HandlerBundle) LoginHandler(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	result, err := hb.Auth.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		getLogger(c).Error("Login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to login"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// GoogleSignInHandler exchanges a Google ID token for a session.
func (hb *HandlerBundle) GoogleSignInHandler(c *gin.Context) {
	var input struct {
		IDToken string `json:"idToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	result, err := hb.Auth.SignInWithGoogle(c.Request.Context(), input.IDToken)
	if err != nil {
		getLogger(c).Warn("Google sign-in rejected", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Google sign-in failed"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// FacebookSignInHandler exchanges a Facebook access token for a session.
func (hb *HandlerBundle) FacebookSignInHandler(c *gin.Context) {
	var input struct {
		AccessToken string `json:"accessToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	result, err := hb.Auth.SignInWithFacebook(c.Request.Context(), input.AccessToken)
	if err != nil {
		getLogger(c).Warn("Facebook sign-in rejected", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Facebook sign-in failed"})
		return
	}
	c.JSON(http.StatusOK, result)
}
