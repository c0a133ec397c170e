package handler

import (
	"errors"
	"net/http"

	"innsuite/internal/domain"

	"github.com/gin-gonic/gin"
)

// respondError maps domain errors onto the portal's HTTP contract. Expired
// and failed intents are terminal: the guest restarts checkout with a fresh
// intent rather than resuming a dead one.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "validation_error"})
	case errors.Is(err, domain.ErrNoRateResolvable):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "no_rate_configured"})
	case errors.Is(err, domain.ErrUnsupportedGateway):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "unsupported_gateway"})
	case errors.Is(err, domain.ErrRoomUnavailable):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "code": "room_unavailable"})
	case errors.Is(err, domain.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "code": "room_not_found"})
	case errors.Is(err, domain.ErrTenantNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "code": "tenant_not_found"})
	case errors.Is(err, domain.ErrIntentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "code": "intent_not_found"})
	case errors.Is(err, domain.ErrIntentExpired):
		c.JSON(http.StatusGone, gin.H{"error": err.Error(), "code": "intent_expired"})
	case errors.Is(err, domain.ErrPaymentFailed):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error(), "code": "payment_failed"})
	case errors.Is(err, domain.ErrGateway):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "code": "gateway_error"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
