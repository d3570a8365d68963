package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/petit-sport/booking-backend/internal/apartment"
)

// ListApartments returns the public apartment catalog. Calendar IDs stay
// server-side.
func ListApartments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(apartment.Catalog)
	}
}
