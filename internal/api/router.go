// Package api provides HTTP routing and handlers for the REST API.
package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/petit-sport/booking-backend/internal/api/handlers"
	"github.com/petit-sport/booking-backend/internal/api/middleware"
	"github.com/petit-sport/booking-backend/internal/booking"
	"github.com/petit-sport/booking-backend/internal/gcal"
	"github.com/petit-sport/booking-backend/internal/pricing"
	"github.com/petit-sport/booking-backend/internal/token"
)

// NewRouter creates and configures the HTTP router with all API routes,
// wrapped with CORS for the widget's browser calls.
func NewRouter(
	occupancy *gcal.Resolver,
	priceStore *pricing.Store,
	bookings *booking.Service,
	tokens *token.Store,
	writer *gcal.Writer,
) http.Handler {
	r := mux.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logging)
	r.Use(middleware.ErrorRecovery)

	// API subrouter
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", handlers.HealthCheck()).Methods("GET")
	api.HandleFunc("/apartments", handlers.ListApartments()).Methods("GET")

	// Availability
	api.HandleFunc("/availability", handlers.CheckAvailability(occupancy)).Methods("POST")

	// Pricing
	api.HandleFunc("/pricing", handlers.QuotePricing(priceStore)).Methods("POST")
	api.HandleFunc("/pricing/calendar", handlers.PriceCalendar(priceStore)).Methods("POST")
	api.HandleFunc("/pricing/debug", handlers.PricingDebug(priceStore)).Methods("GET")

	// Booking
	api.HandleFunc("/booking", handlers.SubmitBooking(bookings, tokens)).Methods("POST")
	api.HandleFunc("/booking/confirm", handlers.ConfirmBooking(tokens, writer)).Methods("POST")

	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(r)
}
