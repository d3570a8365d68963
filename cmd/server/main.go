// Package main is the entry point for the booking API server.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"google.golang.org/api/calendar/v3"

	"github.com/petit-sport/booking-backend/internal/api"
	"github.com/petit-sport/booking-backend/internal/booking"
	"github.com/petit-sport/booking-backend/internal/config"
	"github.com/petit-sport/booking-backend/internal/gcal"
	"github.com/petit-sport/booking-backend/internal/pricing"
	"github.com/petit-sport/booking-backend/internal/token"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

func main() {
	addr := flag.String("addr", ":8090", "HTTP server address")
	flag.Parse()

	// Load .env if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	log.Printf("Starting booking API (version: %s)...", version)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	ctx := context.Background()

	// Calendar clients: read-only for availability, read-write for events
	readSvc, err := gcal.NewService(ctx, cfg.Credentials, calendar.CalendarReadonlyScope)
	if err != nil {
		log.Fatalf("Failed to create calendar read client: %v", err)
	}
	writeSvc, err := gcal.NewService(ctx, cfg.Credentials, calendar.CalendarScope)
	if err != nil {
		log.Fatalf("Failed to create calendar write client: %v", err)
	}

	occupancy := gcal.NewResolver(gcal.NewAPIClient(readSvc))
	writer := gcal.NewWriter(writeSvc)

	// Pricing sheet
	sheetSource, err := pricing.NewSheetsSource(ctx, cfg.Credentials, cfg.SheetID)
	if err != nil {
		log.Fatalf("Failed to create sheets client: %v", err)
	}
	priceStore := pricing.NewStore(sheetSource)

	bookings := booking.NewService(occupancy, writer)
	tokens := token.NewStore()

	router := api.NewRouter(occupancy, priceStore, bookings, tokens, writer)

	server := &http.Server{
		Addr:         *addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		log.Printf("Server listening on %s", *addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
