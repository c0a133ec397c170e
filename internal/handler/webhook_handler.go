package handler

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"innsuite/config"
	"innsuite/internal/domain"
	"innsuite/internal/repository"
	"innsuite/internal/service"

	"github.com/gin-gonic/gin"
	stripeapi "github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/webhook"
)

// WebhookHandler funnels gateway push notifications into the same idempotent
// confirm operation the client poll uses. A webhook that races a poll is
// harmless: whichever arrives second short-circuits on the confirmed intent.
type WebhookHandler struct {
	cfg        *config.Config
	intents    *repository.IntentRepository
	confirmSvc *service.ConfirmService
}

func NewWebhookHandler(cfg *config.Config, intents *repository.IntentRepository, confirmSvc *service.ConfirmService) *WebhookHandler {
	return &WebhookHandler{cfg: cfg, intents: intents, confirmSvc: confirmSvc}
}

// Handle dispatches on the :gateway path param so every processor shares one
// endpoint shape.
func (h *WebhookHandler) Handle(c *gin.Context) {
	switch c.Param("gateway") {
	case domain.GatewayPaystack:
		h.Paystack(c)
	case domain.GatewayFlutterwave:
		h.Flutterwave(c)
	case domain.GatewayStripe:
		h.Stripe(c)
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown gateway"})
	}
}

// Paystack handles charge events. Paystack signs the raw body with the
// account secret key using HMAC-SHA512.
func (h *WebhookHandler) Paystack(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if h.cfg.Paystack.SecretKey != "" {
		mac := hmac.New(sha512.New, []byte(h.cfg.Paystack.SecretKey))
		mac.Write(body)
		expected := hex.EncodeToString(mac.Sum(nil))
		if !hmac.Equal([]byte(c.GetHeader("x-paystack-signature")), []byte(expected)) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
			return
		}
	}
	var payload struct {
		Event string `json:"event"`
		Data  struct {
			Reference string `json:"reference"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if payload.Event == "charge.success" && payload.Data.Reference != "" {
		h.reconcile(c, payload.Data.Reference)
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}

// Flutterwave handles completed-payment events, authenticated by the
// configured verif-hash header value.
func (h *WebhookHandler) Flutterwave(c *gin.Context) {
	if h.cfg.Flutterwave.WebhookHash != "" &&
		c.GetHeader("verif-hash") != h.cfg.Flutterwave.WebhookHash {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}
	var payload struct {
		Event string `json:"event"`
		Data  struct {
			TxRef  string `json:"tx_ref"`
			Status string `json:"status"`
		} `json:"data"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if payload.Data.TxRef != "" {
		h.reconcile(c, payload.Data.TxRef)
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}

// Stripe handles checkout.session.completed events, verified with the
// endpoint's signing secret.
func (h *WebhookHandler) Stripe(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	event, err := webhook.ConstructEvent(body, c.GetHeader("Stripe-Signature"), h.cfg.Stripe.WebhookSecret)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}
	if event.Type == "checkout.session.completed" {
		var sess stripeapi.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err == nil && sess.ClientReferenceID != "" {
			h.reconcile(c, sess.ClientReferenceID)
		}
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}

// reconcile maps the gateway reference back to its intent and runs the
// standard confirm. Terminal errors are logged, not propagated: processors
// retry webhooks on non-2xx and a dead intent will never become confirmable.
func (h *WebhookHandler) reconcile(c *gin.Context, reference string) {
	ctx := c.Request.Context()
	intent, err := h.intents.GetByReference(ctx, reference)
	if err != nil {
		log.Printf("[WEBHOOK] unknown reference %s: %v", reference, err)
		return
	}
	if _, err := h.confirmSvc.Confirm(ctx, intent.TenantID, intent.ID, intent.Reference, ""); err != nil {
		log.Printf("[WEBHOOK] confirm intent=%s ref=%s: %v", intent.ID, reference, err)
	}
}
