package router

import (
	"log"
	"time"

	"innsuite/config"
	"innsuite/internal/clock"
	"innsuite/internal/handler"
	"innsuite/internal/middleware"
	"innsuite/internal/repository"
	"innsuite/internal/service"
	"innsuite/internal/ws"
	"innsuite/pkg/gateway"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Setup wires repositories, services and handlers and returns the engine plus
// the confirm service so main can attach the expiry sweeper.
func Setup(cfg *config.Config, db *gorm.DB, gateways *gateway.Registry, clk clock.Clock) (*gin.Engine, *service.ConfirmService) {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	// Skip gin.Logger() to reduce log noise; use gin.Default() if you need request logging
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	tenantRepo := repository.NewTenantRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	intentRepo := repository.NewIntentRepository(db)
	reservationRepo := repository.NewReservationRepository(db)

	availabilityHub := ws.NewAvailabilityHub()

	// Services
	availabilitySvc := service.NewAvailabilityService(roomRepo, clk)
	credentialSvc := service.NewCredentialService(&cfg.Tokens, clk)
	checkoutSvc := service.NewCheckoutService(intentRepo, roomRepo, gateways, availabilityHub, clk, &cfg.Checkout)
	confirmSvc := service.NewConfirmService(intentRepo, reservationRepo, gateways, credentialSvc, availabilityHub, clk)
	log.Printf("[ROUTER] gateways enabled: %v", gateways.Names())

	// Handlers
	portalHandler := handler.NewPortalHandler(roomRepo, reservationRepo, availabilitySvc)
	checkoutHandler := handler.NewCheckoutHandler(checkoutSvc, confirmSvc)
	webhookHandler := handler.NewWebhookHandler(cfg, intentRepo, confirmSvc)

	tenantMw := middleware.TenantRequired(tenantRepo)
	sessionMw := middleware.GuestSessionRequired(&cfg.Tokens)

	api := r.Group("/api/v1")
	{
		api.POST("/webhooks/:gateway", webhookHandler.Handle)

		portal := api.Group("/:tenant")
		portal.Use(tenantMw)
		{
			portal.GET("/summary", portalHandler.Summary)
			portal.GET("/catalog", portalHandler.Catalog)
			portal.GET("/availability", portalHandler.Availability)
			portal.POST("/checkout/intent", checkoutHandler.CreateIntent)
			portal.POST("/checkout/confirm", checkoutHandler.Confirm)
			portal.GET("/my/reservation", sessionMw, portalHandler.MyReservation)
		}
	}

	r.GET("/ws/:tenant/availability", ws.UpgradeAvailabilityWS(availabilityHub, func(c *gin.Context) (uint, bool) {
		tenant, err := tenantRepo.GetBySlug(c.Request.Context(), c.Param("tenant"))
		if err != nil {
			return 0, false
		}
		return tenant.ID, true
	}))

	return r, confirmSvc
}
