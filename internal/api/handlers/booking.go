package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/petit-sport/booking-backend/internal/api/middleware"
	"github.com/petit-sport/booking-backend/internal/booking"
	"github.com/petit-sport/booking-backend/internal/gcal"
	"github.com/petit-sport/booking-backend/internal/token"
)

type BookingResponse struct {
	Success           bool   `json:"success"`
	Message           string `json:"message"`
	EventID           string `json:"eventId"`
	ConfirmationToken string `json:"confirmationToken"`
}

// SubmitBooking runs the booking flow and, on success, issues a
// confirmation token operators use to validate the stay later.
func SubmitBooking(svc *booking.Service, tokens *token.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req booking.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		eventID, err := svc.Submit(r.Context(), req)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		start, _ := parseCivilDate(req.StartDate)
		end, _ := parseCivilDate(req.EndDate)
		tok := tokens.Put(token.Data{
			EventID:       eventID,
			CalendarID:    req.CalendarID,
			ApartmentName: req.ApartmentName,
			StartDate:     start,
			EndDate:       end,
			GuestName:     req.Name,
			Email:         req.Email,
			Phone:         req.Phone,
			Guests:        req.Guests,
		})
		log.Printf("[Booking] Event %s created for %s (%s → %s)", eventID, req.ApartmentName, req.StartDate, req.EndDate)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(BookingResponse{
			Success:           true,
			Message:           "Demande de réservation envoyée avec succès",
			EventID:           eventID,
			ConfirmationToken: tok,
		})
	}
}

type ConfirmRequest struct {
	Token string `json:"token"`
}

type ConfirmResponse struct {
	Success bool   `json:"success"`
	EventID string `json:"eventId"`
}

// ConfirmBooking validates a provisional booking: the operator's token
// resolves to the event, whose summary is renamed to the validated-stay
// marker so it starts blocking availability. The token is single-use.
func ConfirmBooking(tokens *token.Store, writer *gcal.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ConfirmRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}
		if strings.TrimSpace(req.Token) == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Token is required")
			return
		}

		data, ok := tokens.Get(req.Token)
		if !ok {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Token inconnu ou expiré")
			return
		}

		summary := "[Sejour validé] " + data.GuestName
		if err := writer.UpdateEvent(r.Context(), data.CalendarID, data.EventID, summary, ""); err != nil {
			writeDomainError(w, err)
			return
		}
		tokens.Delete(req.Token)
		log.Printf("[Booking] Event %s validated for %s", data.EventID, data.GuestName)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ConfirmResponse{Success: true, EventID: data.EventID})
	}
}
