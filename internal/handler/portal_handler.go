package handler

import (
	"net/http"
	"strconv"
	"time"

	"innsuite/internal/middleware"
	"innsuite/internal/repository"
	"innsuite/internal/service"

	"github.com/gin-gonic/gin"
)

type PortalHandler struct {
	rooms           *repository.RoomRepository
	reservations    *repository.ReservationRepository
	availabilitySvc *service.AvailabilityService
}

func NewPortalHandler(rooms *repository.RoomRepository, reservations *repository.ReservationRepository, availabilitySvc *service.AvailabilityService) *PortalHandler {
	return &PortalHandler{rooms: rooms, reservations: reservations, availabilitySvc: availabilitySvc}
}

// Summary returns tenant branding plus the gateway choices the checkout form offers.
func (h *PortalHandler) Summary(c *gin.Context) {
	tenant := middleware.GetTenant(c)
	c.JSON(http.StatusOK, gin.H{
		"name":            tenant.Name,
		"slug":            tenant.Slug,
		"currency":        tenant.Currency,
		"brand_color":     tenant.BrandColor,
		"logo_url":        tenant.LogoURL,
		"tag_line":        tenant.TagLine,
		"gateways":        tenant.GatewayList(),
		"default_gateway": tenant.DefaultGateway,
	})
}

// Catalog returns the tenant's room categories with their active rate plans.
func (h *PortalHandler) Catalog(c *gin.Context) {
	tenant := middleware.GetTenant(c)
	cats, err := h.rooms.ListCategories(c.Request.Context(), tenant.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "catalog load failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": cats, "currency": tenant.Currency})
}

// Availability lists rooms free for [startDate, endDate) with nightly rates.
func (h *PortalHandler) Availability(c *gin.Context) {
	tenant := middleware.GetTenant(c)
	start, err := time.Parse(time.RFC3339, c.Query("startDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "startDate must be RFC3339", "code": "validation_error"})
		return
	}
	end, err := time.Parse(time.RFC3339, c.Query("endDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "endDate must be RFC3339", "code": "validation_error"})
		return
	}
	var categoryID *uint
	if raw := c.Query("categoryId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "categoryId must be numeric", "code": "validation_error"})
			return
		}
		cid := uint(id)
		categoryID = &cid
	}
	rooms, err := h.availabilitySvc.ListAvailable(c.Request.Context(), tenant.ID, start, end, categoryID)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]gin.H, 0, len(rooms))
	for _, r := range rooms {
		entry := gin.H{
			"id":                 r.Room.ID,
			"number":             r.Room.Number,
			"floor":              r.Room.Floor,
			"category_id":        r.Room.CategoryID,
			"nightly_rate_cents": r.NightlyRateCents,
		}
		if r.Room.Category != nil {
			entry["category"] = r.Room.Category.Name
			entry["max_adults"] = r.Room.Category.MaxAdults
			entry["max_children"] = r.Room.Category.MaxChildren
		}
		out = append(out, entry)
	}
	c.JSON(http.StatusOK, gin.H{"availableRooms": out, "currency": tenant.Currency})
}

// MyReservation returns the reservation bound to the caller's guest session,
// for the post-payment confirmation screen.
func (h *PortalHandler) MyReservation(c *gin.Context) {
	tenant := middleware.GetTenant(c)
	claims := middleware.GetGuestSession(c)
	res, err := h.reservations.GetForTenant(c.Request.Context(), tenant.ID, claims.ReservationID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "reservation not found", "code": "reservation_not_found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservation": res})
}
