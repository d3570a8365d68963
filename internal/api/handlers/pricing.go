package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/petit-sport/booking-backend/internal/apartment"
	"github.com/petit-sport/booking-backend/internal/api/middleware"
	"github.com/petit-sport/booking-backend/internal/civildate"
	"github.com/petit-sport/booking-backend/internal/config"
	"github.com/petit-sport/booking-backend/internal/pricing"
)

type QuoteRequest struct {
	ApartmentSlug string `json:"apartmentSlug"`
	StartDate     string `json:"startDate"`
	EndDate       string `json:"endDate"`
}

type QuoteResponse struct {
	Success bool          `json:"success"`
	Pricing pricing.Quote `json:"pricing"`
}

// parseCivilDate accepts a bare YYYY-MM-DD date or an RFC 3339 timestamp,
// projected onto its Paris civil day.
func parseCivilDate(s string) (civildate.Date, bool) {
	if d, err := civildate.Parse(s); err == nil {
		return d, true
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return "", false
	}
	return civildate.FromTime(t), true
}

// QuotePricing prices a stay night by night. Nights outside the rule
// table fall back to the apartment's default price.
func QuotePricing(store *pricing.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req QuoteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		apt, ok := apartment.BySlug(req.ApartmentSlug)
		if !ok {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Appartement introuvable")
			return
		}

		start, okStart := parseCivilDate(req.StartDate)
		end, okEnd := parseCivilDate(req.EndDate)
		if !okStart || !okEnd {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Dates invalides")
			return
		}

		quote := store.QuoteStay(r.Context(), apt.Slug, civildate.NewRange(start, end), apt.DefaultPrice)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(QuoteResponse{Success: true, Pricing: quote})
	}
}

type PriceCalendarRequest struct {
	ApartmentSlug string `json:"apartmentSlug"`
	TimeMin       string `json:"timeMin"`
	TimeMax       string `json:"timeMax"`
}

type PriceCalendarResponse struct {
	Success bool                       `json:"success"`
	Prices  map[civildate.Date]float64 `json:"prices"`
}

// PriceCalendar returns a price label for every day in the inclusive
// [timeMin, timeMax] range, the displayed checkout day included.
func PriceCalendar(store *pricing.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PriceCalendarRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		apt, ok := apartment.BySlug(req.ApartmentSlug)
		if !ok {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Appartement introuvable")
			return
		}

		dateMin, errMin := civildate.Parse(req.TimeMin)
		dateMax, errMax := civildate.Parse(req.TimeMax)
		if errMin != nil || errMax != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "timeMin and timeMax must be YYYY-MM-DD")
			return
		}

		prices := store.PricesForRange(r.Context(), apt.Slug, dateMin, dateMax, apt.DefaultPrice)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(PriceCalendarResponse{Success: true, Prices: prices})
	}
}

// PricingDebug reports the pricing source's health: configuration
// presence, the last load attempt, and rule counts per apartment.
// ?clearCache=true drops the cached snapshot first.
func PricingDebug(store *pricing.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("clearCache") == "true" {
			store.Invalidate()
		}

		serviceAccountEmail := ""
		credentialsOK := false
		if creds, err := config.LoadCredentials(); err == nil {
			credentialsOK = true
			serviceAccountEmail = creds.ClientEmail
		}

		rules := store.Rules(r.Context())
		bySlug := make(map[string]int)
		for _, rule := range rules {
			bySlug[rule.ApartmentSlug]++
		}

		sample := rules
		if len(sample) > 20 {
			sample = sample[:20]
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"success":             true,
			"hasCredentials":      credentialsOK,
			"serviceAccountEmail": serviceAccountEmail,
			"lastLoad":            store.LastLoad(),
			"rulesCount":          len(rules),
			"bySlug":              bySlug,
			"sampleRules":         sample,
		})
	}
}
