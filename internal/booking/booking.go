// Package booking validates booking requests, checks the requested nights
// against confirmed stays, and creates the provisional calendar event.
//
// The conflict check and the event write are not transactional: two
// overlapping requests racing through the gap can both create events.
// Operators reconcile provisional events by hand before validating them.
package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/petit-sport/booking-backend/internal/civildate"
	"github.com/petit-sport/booking-backend/internal/gcal"
)

// Request is an inbound booking submission. Dates arrive as timestamps or
// bare YYYY-MM-DD strings and are projected onto civil days.
type Request struct {
	ApartmentID   string  `json:"apartmentId" validate:"required"`
	ApartmentSlug string  `json:"apartmentSlug" validate:"required"`
	ApartmentName string  `json:"apartmentName" validate:"required"`
	CalendarID    string  `json:"calendarId" validate:"required"`
	StartDate     string  `json:"startDate" validate:"required"`
	EndDate       string  `json:"endDate" validate:"required"`
	Name          string  `json:"name" validate:"required"`
	Email         string  `json:"email" validate:"required,email"`
	Phone         string  `json:"phone" validate:"required"`
	Address       string  `json:"address" validate:"required"`
	Guests        string  `json:"guests" validate:"required"`
	TotalPrice    float64 `json:"totalPrice" validate:"gte=0"`
}

// FieldError names one invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries the full list of invalid fields.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Field
	}
	return "invalid booking request: " + strings.Join(names, ", ")
}

// ConflictError reports nights that are already occupied. An expected
// business outcome, not a defect.
type ConflictError struct {
	Dates []civildate.Date
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%d requested night(s) already booked", len(e.Dates))
}

// OccupancySource answers which civil days are occupied in a window.
type OccupancySource interface {
	OccupiedDays(ctx context.Context, calendarID string, timeMin, timeMax time.Time) (gcal.DaySet, error)
}

// EventCreator writes the provisional event for an accepted booking.
type EventCreator interface {
	CreateProvisional(ctx context.Context, calendarID string, b gcal.ProvisionalBooking) (string, error)
}

// Service runs the booking flow: validate, check conflicts, write event.
type Service struct {
	occupancy OccupancySource
	writer    EventCreator
	validate  *validator.Validate
}

// NewService assembles the booking service.
func NewService(occupancy OccupancySource, writer EventCreator) *Service {
	return &Service{
		occupancy: occupancy,
		writer:    writer,
		validate:  validator.New(),
	}
}

// Submit processes a booking request. On success it returns the created
// event's ID. Failure modes: *ValidationError, *ConflictError, and the
// gcal error kinds from the availability query or event write.
func (s *Service) Submit(ctx context.Context, req Request) (string, error) {
	if err := s.validateRequest(req); err != nil {
		return "", err
	}

	stay, err := stayFromRequest(req)
	if err != nil {
		return "", err
	}

	if err := s.CheckConflict(ctx, req.CalendarID, stay); err != nil {
		return "", err
	}

	eventID, err := s.writer.CreateProvisional(ctx, req.CalendarID, gcal.ProvisionalBooking{
		ApartmentID:   req.ApartmentID,
		ApartmentName: req.ApartmentName,
		Stay:          stay,
		Description:   buildDescription(req),
	})
	if err != nil {
		return "", err
	}
	return eventID, nil
}

// CheckConflict rejects the stay if any requested night is already
// occupied by a validated stay. The query window extends one day past the
// departure day so boundary events are caught, even though the departure
// day itself is never a requested night.
func (s *Service) CheckConflict(ctx context.Context, calendarID string, stay civildate.Range) error {
	timeMin := stay.Start.At(0, 0)
	timeMax := stay.End.Next().At(0, 0)

	occupied, err := s.occupancy.OccupiedDays(ctx, calendarID, timeMin, timeMax)
	if err != nil {
		return err
	}

	var conflicting []civildate.Date
	for _, night := range stay.Days() {
		if occupied.Has(night) {
			conflicting = append(conflicting, night)
		}
	}
	if len(conflicting) > 0 {
		return &ConflictError{Dates: conflicting}
	}
	return nil
}

func (s *Service) validateRequest(req Request) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("validating booking request: %w", err)
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{
			Field:   fe.Field(),
			Message: fmt.Sprintf("failed %q validation", fe.Tag()),
		})
	}
	return &ValidationError{Fields: fields}
}

// stayFromRequest projects the request's dates onto civil days and
// requires at least one night.
func stayFromRequest(req Request) (civildate.Range, error) {
	start, err := parseCivil(req.StartDate)
	if err != nil {
		return civildate.Range{}, &ValidationError{Fields: []FieldError{{Field: "StartDate", Message: err.Error()}}}
	}
	end, err := parseCivil(req.EndDate)
	if err != nil {
		return civildate.Range{}, &ValidationError{Fields: []FieldError{{Field: "EndDate", Message: err.Error()}}}
	}
	if end <= start {
		return civildate.Range{}, &ValidationError{Fields: []FieldError{
			{Field: "EndDate", Message: "departure must be after arrival"},
		}}
	}
	return civildate.NewRange(start, end), nil
}

// parseCivil accepts a bare civil date or an RFC 3339 timestamp, which is
// projected onto its Paris civil day.
func parseCivil(s string) (civildate.Date, error) {
	if d, err := civildate.Parse(s); err == nil {
		return d, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return "", fmt.Errorf("not a date or RFC 3339 timestamp: %q", s)
	}
	return civildate.FromTime(t), nil
}

// buildDescription renders the provisional event body shown to operators.
func buildDescription(req Request) string {
	return strings.Join([]string{
		"Réservation provisoire pour " + req.Name,
		"Email: " + req.Email,
		"Téléphone: " + req.Phone,
		"Adresse: " + req.Address,
		fmt.Sprintf("Prix total: %.2f€", req.TotalPrice),
		"Nombre de personnes: " + req.Guests,
	}, "\n")
}
