package handler

import (
	"net/http"
	"time"

	"innsuite/internal/middleware"
	"innsuite/internal/service"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	checkoutSvc *service.CheckoutService
	confirmSvc  *service.ConfirmService
}

func NewCheckoutHandler(checkoutSvc *service.CheckoutService, confirmSvc *service.ConfirmService) *CheckoutHandler {
	return &CheckoutHandler{checkoutSvc: checkoutSvc, confirmSvc: confirmSvc}
}

// CreateIntent opens a checkout: holds the room, prices the stay, and returns
// the gateway's hosted payment URL with the intent's expiry.
func (h *CheckoutHandler) CreateIntent(c *gin.Context) {
	tenant := middleware.GetTenant(c)
	var req struct {
		RoomID          uint      `json:"roomId" binding:"required"`
		CheckInDate     time.Time `json:"checkInDate" binding:"required"`
		CheckOutDate    time.Time `json:"checkOutDate" binding:"required"`
		Adults          int       `json:"adults" binding:"required,min=1"`
		Children        int       `json:"children" binding:"min=0"`
		GuestName       string    `json:"guestName" binding:"required"`
		GuestEmail      string    `json:"guestEmail" binding:"required,email"`
		GuestPhone      string    `json:"guestPhone"`
		Gateway         string    `json:"gateway"`
		PayDepositOnly  bool      `json:"payDepositOnly"`
		SpecialRequests string    `json:"specialRequests"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "validation_error"})
		return
	}
	summary, err := h.checkoutSvc.CreateIntent(c.Request.Context(), service.CreateIntentInput{
		Tenant:          tenant,
		RoomID:          req.RoomID,
		CheckIn:         req.CheckInDate,
		CheckOut:        req.CheckOutDate,
		Adults:          req.Adults,
		Children:        req.Children,
		GuestName:       req.GuestName,
		GuestEmail:      req.GuestEmail,
		GuestPhone:      req.GuestPhone,
		SpecialRequests: req.SpecialRequests,
		Gateway:         req.Gateway,
		PayDepositOnly:  req.PayDepositOnly,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, summary)
}

// Confirm reconciles the payment outcome for an intent. Safe to call any
// number of times: pollers hit this every few seconds until a terminal state.
func (h *CheckoutHandler) Confirm(c *gin.Context) {
	tenant := middleware.GetTenant(c)
	var req struct {
		IntentID  string `json:"intentId" binding:"required"`
		Reference string `json:"reference"`
		Gateway   string `json:"gateway"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "validation_error"})
		return
	}
	result, err := h.confirmSvc.Confirm(c.Request.Context(), tenant.ID, req.IntentID, req.Reference, req.Gateway)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
