package middleware

import (
	"net/http"
	"strings"

	"soothe/utils"

	"github.com/gin-gonic/gin"
)

// Context keys populated by the auth middleware.
const (
	CtxUserID = "userID"
	CtxEmail  = "userEmail"
	CtxRoles  = "userRoles"
)

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(authHeader, "Bearer ")
}

func setIdentity(c *gin.Context, claims *utils.Claims) {
	c.Set(CtxUserID, claims.UserID)
	c.Set(CtxEmail, claims.Email)
	c.Set(CtxRoles, claims.Roles)
}

// JWTAuthMiddleware rejects requests that do not carry a valid bearer token.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}

		claims, err := utils.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

// OptionalAuthMiddleware populates the caller identity when a valid token is
// present and lets the request through unauthenticated otherwise. Used on the
// booking-creation route, which accepts guests.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString != "" {
			if claims, err := utils.ValidateToken(tokenString); err == nil {
				setIdentity(c, claims)
			}
		}
		c.Next()
	}
}

// RequireRole guards a route group behind a role carried in the token claims.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rolesVal, exists := c.Get(CtxRoles)
		if !exists {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		roles, ok := rolesVal.([]string)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	}
}

// UserID returns the authenticated caller's ID, or "" for guests.
func UserID(c *gin.Context) string {
	return c.GetString(CtxUserID)
}

// Roles returns the authenticated caller's roles.
func Roles(c *gin.Context) []string {
	rolesVal, exists := c.Get(CtxRoles)
	if !exists {
		return nil
	}
	roles, _ := rolesVal.([]string)
	return roles
}
