// Package token stores booking confirmation tokens. Tokens map a random
// identifier to the booking they confirm and expire on their own; nothing
// is persisted, so a restart invalidates outstanding links. Swapping the
// backing cache for a real store would not change the interface.
package token

import (
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/petit-sport/booking-backend/internal/civildate"
)

// defaultTTL is how long a confirmation link stays valid.
const defaultTTL = 7 * 24 * time.Hour

// Data is the booking context a confirmation token resolves to.
type Data struct {
	EventID       string         `json:"eventId"`
	CalendarID    string         `json:"calendarId"`
	ApartmentName string         `json:"apartmentName"`
	StartDate     civildate.Date `json:"startDate"`
	EndDate       civildate.Date `json:"endDate"`
	GuestName     string         `json:"name"`
	Email         string         `json:"email"`
	Phone         string         `json:"phone"`
	Guests        string         `json:"guests"`
}

// Store is an expiring token → booking-data map.
type Store struct {
	cache *gocache.Cache
	ttl   time.Duration
}

// NewStore creates a Store with the default 7-day expiry.
func NewStore() *Store {
	return NewStoreWithTTL(defaultTTL)
}

// NewStoreWithTTL creates a Store with an explicit expiry.
func NewStoreWithTTL(ttl time.Duration) *Store {
	return &Store{
		cache: gocache.New(ttl, time.Hour),
		ttl:   ttl,
	}
}

// Put stores the booking data under a fresh random token and returns it.
func (s *Store) Put(data Data) string {
	tok := uuid.NewString()
	s.cache.Set(tok, data, s.ttl)
	return tok
}

// Get resolves a token; ok is false for unknown or expired tokens.
func (s *Store) Get(tok string) (Data, bool) {
	v, ok := s.cache.Get(tok)
	if !ok {
		return Data{}, false
	}
	return v.(Data), true
}

// Delete invalidates a token, typically after it has been used.
func (s *Store) Delete(tok string) {
	s.cache.Delete(tok)
}
