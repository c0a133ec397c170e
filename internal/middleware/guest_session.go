package middleware

import (
	"net/http"

	"innsuite/config"
	"innsuite/internal/auth"

	"github.com/gin-gonic/gin"
)

// GuestSessionRequired validates the x-guest-session header issued at
// confirmation and scopes the request to that session's reservation.
func GuestSessionRequired(cfg *config.TokenConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("x-guest-session")
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing guest session"})
			return
		}
		claims, err := auth.ParseGuestSession(cfg, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired guest session"})
			return
		}
		tenant := GetTenant(c)
		if tenant == nil || claims.TenantID != tenant.ID {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "guest session not valid for this tenant"})
			return
		}
		c.Set("guest_session", claims)
		c.Next()
	}
}

// GetGuestSession returns the parsed session claims (after GuestSessionRequired).
func GetGuestSession(c *gin.Context) *auth.GuestSessionClaims {
	v, _ := c.Get("guest_session")
	if v == nil {
		return nil
	}
	return v.(*auth.GuestSessionClaims)
}
