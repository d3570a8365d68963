// Package gcal talks to Google Calendar: it resolves which civil days are
// occupied by validated stays and writes the provisional events created by
// booking requests.
package gcal

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/petit-sport/booking-backend/internal/config"
)

// NewService builds an authenticated Calendar API client for the given
// service-account credentials and scopes.
func NewService(ctx context.Context, creds config.Credentials, scopes ...string) (*calendar.Service, error) {
	conf := &jwt.Config{
		Email:      creds.ClientEmail,
		PrivateKey: []byte(creds.PrivateKey),
		Scopes:     scopes,
		TokenURL:   google.JWTTokenURL,
	}
	svc, err := calendar.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("creating calendar service: %w", err)
	}
	return svc, nil
}

// EventLister is the slice of the Calendar API the occupancy resolver
// consumes. Recurring events must already be expanded into single
// occurrences.
type EventLister interface {
	ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]*calendar.Event, error)
}

// APIClient implements EventLister against the real Calendar API.
type APIClient struct {
	svc *calendar.Service
}

// NewAPIClient wraps an authenticated Calendar service.
func NewAPIClient(svc *calendar.Service) *APIClient {
	return &APIClient{svc: svc}
}

// ListEvents fetches every event overlapping [timeMin, timeMax). A zero
// timeMax means an unbounded future window.
func (c *APIClient) ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]*calendar.Event, error) {
	var events []*calendar.Event
	pageToken := ""
	for {
		call := c.svc.Events.List(calendarID).
			SingleEvents(true).
			OrderBy("startTime").
			TimeMin(timeMin.Format(time.RFC3339)).
			Context(ctx)
		if !timeMax.IsZero() {
			call = call.TimeMax(timeMax.Format(time.RFC3339))
		}
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, err
		}
		events = append(events, resp.Items...)
		if resp.NextPageToken == "" {
			return events, nil
		}
		pageToken = resp.NextPageToken
	}
}
