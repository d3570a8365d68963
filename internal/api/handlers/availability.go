package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/petit-sport/booking-backend/internal/api/middleware"
	"github.com/petit-sport/booking-backend/internal/gcal"
)

type AvailabilityRequest struct {
	CalendarID string `json:"calendarId"`
	TimeMin    string `json:"timeMin,omitempty"`
	TimeMax    string `json:"timeMax,omitempty"`
}

type AvailabilityResponse struct {
	Success      bool     `json:"success"`
	OccupiedDays []string `json:"occupiedDays"`
}

// CheckAvailability returns the occupied civil days of a calendar in the
// requested window. An absent timeMin defaults to now; an absent timeMax
// means an unbounded future window.
func CheckAvailability(resolver *gcal.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AvailabilityRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}
		if strings.TrimSpace(req.CalendarID) == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Calendar ID is required")
			return
		}

		timeMin := time.Now()
		if req.TimeMin != "" {
			t, err := time.Parse(time.RFC3339, req.TimeMin)
			if err != nil {
				middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "timeMin must be RFC 3339")
				return
			}
			timeMin = t
		}

		var timeMax time.Time
		if req.TimeMax != "" {
			t, err := time.Parse(time.RFC3339, req.TimeMax)
			if err != nil {
				middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "timeMax must be RFC 3339")
				return
			}
			timeMax = t
		}

		occupied, err := resolver.OccupiedDays(r.Context(), req.CalendarID, timeMin, timeMax)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		days := make([]string, 0, len(occupied))
		for _, d := range occupied.Sorted() {
			days = append(days, d.String())
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(AvailabilityResponse{Success: true, OccupiedDays: days})
	}
}
