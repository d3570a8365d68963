package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/petit-sport/booking-backend/internal/api/middleware"
	"github.com/petit-sport/booking-backend/internal/booking"
	"github.com/petit-sport/booking-backend/internal/config"
	"github.com/petit-sport/booking-backend/internal/gcal"
)

// writeDomainError maps a domain failure onto the API error envelope.
// Full detail is logged; the client gets the human-readable message and,
// for validation and conflict outcomes, structured details.
func writeDomainError(w http.ResponseWriter, err error) {
	var (
		validationErr *booking.ValidationError
		conflictErr   *booking.ConflictError
		notFoundErr   *gcal.NotFoundError
		permErr       *gcal.PermissionError
		missingErr    *config.MissingError
	)

	switch {
	case errors.As(err, &validationErr):
		middleware.WriteErrorWithDetails(w, http.StatusBadRequest, middleware.ErrValidation,
			"Données invalides", validationErr.Fields)

	case errors.As(err, &conflictErr):
		middleware.WriteErrorWithDetails(w, http.StatusConflict, middleware.ErrConflict,
			"Ces dates ne sont plus disponibles. Un ou plusieurs jours sont déjà réservés.",
			map[string]any{"conflictingDates": conflictErr.Dates})

	case errors.As(err, &notFoundErr):
		middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, notFoundErr.Error())

	case errors.As(err, &permErr):
		middleware.WriteError(w, http.StatusForbidden, middleware.ErrPermissionDenied, permErr.Error())

	case errors.Is(err, gcal.ErrWriteTimeout):
		log.Printf("[Booking] %v", err)
		middleware.WriteError(w, http.StatusGatewayTimeout, middleware.ErrTimeout,
			"La création de l'événement a pris trop de temps. Réessayez.")

	case errors.As(err, &missingErr):
		log.Printf("Configuration error: %v", err)
		middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrConfiguration,
			"Configuration serveur incomplète")

	default:
		log.Printf("Internal error: %v", err)
		middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, err.Error())
	}
}
