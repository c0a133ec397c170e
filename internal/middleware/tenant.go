package middleware

import (
	"errors"
	"net/http"

	"innsuite/internal/domain"
	"innsuite/internal/models"
	"innsuite/internal/repository"

	"github.com/gin-gonic/gin"
)

// TenantRequired resolves the :tenant path slug and sets the tenant on the
// request context. Every portal route is tenant-scoped.
func TenantRequired(tenants *repository.TenantRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := c.Param("tenant")
		if slug == "" {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "unknown tenant"})
			return
		}
		tenant, err := tenants.GetBySlug(c.Request.Context(), slug)
		if err != nil {
			if errors.Is(err, domain.ErrTenantNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "unknown tenant"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "tenant lookup failed"})
			return
		}
		c.Set("tenant", tenant)
		c.Next()
	}
}

// GetTenant returns the resolved tenant (must be used after TenantRequired).
func GetTenant(c *gin.Context) *models.Tenant {
	v, _ := c.Get("tenant")
	if v == nil {
		return nil
	}
	return v.(*models.Tenant)
}
