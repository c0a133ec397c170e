package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"innsuite/config"
	"innsuite/internal/clock"
	"innsuite/internal/database"
	"innsuite/internal/router"
	"innsuite/pkg/gateway"
)

func main() {
	cfg := config.Load()
	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	database.SeedDemo(db)

	var gws []gateway.Gateway
	if cfg.Paystack.SecretKey != "" {
		gws = append(gws, gateway.NewPaystack(cfg.Paystack.BaseURL, cfg.Paystack.SecretKey))
	}
	if cfg.Flutterwave.SecretKey != "" {
		gws = append(gws, gateway.NewFlutterwave(cfg.Flutterwave.BaseURL, cfg.Flutterwave.SecretKey))
	}
	if cfg.Stripe.SecretKey != "" {
		gws = append(gws, gateway.NewStripe(cfg.Stripe.SecretKey))
	}
	if cfg.Server.Env != "production" {
		gws = append(gws, gateway.Stub{})
	}
	if len(gws) == 0 {
		log.Fatal("no payment gateway configured; set PAYSTACK_SECRET_KEY, FLUTTERWAVE_SECRET_KEY or STRIPE_SECRET_KEY")
	}
	registry := gateway.NewRegistry(gws...)

	engine, confirmSvc := router.Setup(cfg, db, registry, clock.NewReal())

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go func() {
		ticker := time.NewTicker(cfg.Checkout.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				confirmSvc.ExpireDue(sweepCtx)
			}
		}
	}()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.Printf("server listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")
	stopSweep()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server shutdown:", err)
	}
	fmt.Println("server stopped")
}
