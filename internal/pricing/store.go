package pricing

import (
	"context"
	"log"
	"sync"
	"time"
)

// cacheTTL is how long a loaded rule table stays fresh. The sheet is
// edited by hand a few times a season; five minutes keeps the widget
// responsive without hammering the API.
const cacheTTL = 5 * time.Minute

// LoadInfo describes the most recent load attempt, for the diagnostics
// endpoint.
type LoadInfo struct {
	Worksheet string    `json:"worksheet,omitempty"`
	RowCount  int       `json:"rowCount"`
	RuleCount int       `json:"ruleCount"`
	Skipped   int       `json:"skipped"`
	LoadedAt  time.Time `json:"loadedAt"`
	FromCache bool      `json:"fromCache"`
	Error     string    `json:"error,omitempty"`
}

// Store owns the cached pricing rule snapshot. The cache always holds a
// complete table or nothing; on refresh failure the stale snapshot keeps
// serving so pricing degrades to defaults instead of failing the widget.
type Store struct {
	source TableSource
	ttl    time.Duration
	now    func() time.Time

	mu       sync.Mutex
	snapshot []Rule
	loadedAt time.Time
	hasData  bool
	lastInfo LoadInfo
}

// NewStore creates a Store with the default TTL and wall clock.
func NewStore(source TableSource) *Store {
	return NewStoreWithClock(source, cacheTTL, time.Now)
}

// NewStoreWithClock creates a Store with an explicit TTL and clock, for
// tests.
func NewStoreWithClock(source TableSource, ttl time.Duration, now func() time.Time) *Store {
	return &Store{source: source, ttl: ttl, now: now}
}

// Rules returns the full rule table, loading it lazily and reusing the
// snapshot within the TTL. It never fails outright: on load failure the
// stale snapshot (or an empty table) is returned, and the failure is kept
// for LastLoad.
func (s *Store) Rules(ctx context.Context) []Rule {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hasData && s.now().Sub(s.loadedAt) < s.ttl {
		s.lastInfo.FromCache = true
		return s.snapshot
	}

	rows, worksheet, err := s.source.Fetch(ctx)
	if err != nil {
		log.Printf("[Pricing] Load failed: %v", err)
		s.lastInfo = LoadInfo{Worksheet: worksheet, Error: err.Error()}
		if s.hasData {
			log.Printf("[Pricing] Serving stale cache (%d rules)", len(s.snapshot))
			s.lastInfo.FromCache = true
			s.lastInfo.RuleCount = len(s.snapshot)
		}
		return s.snapshot
	}

	rules, skipped, parseErr := parseRules(rows)
	info := LoadInfo{
		Worksheet: worksheet,
		RowCount:  max(len(rows)-1, 0),
		RuleCount: len(rules),
		Skipped:   skipped,
		LoadedAt:  s.now(),
	}
	if parseErr != nil {
		info.Error = parseErr.Error()
		s.lastInfo = info
		if schemaErr, ok := parseErr.(*SchemaError); ok {
			// A broken header row means the export changed shape; the
			// old snapshot is the best data we have.
			log.Printf("[Pricing] %v", schemaErr)
			if s.hasData {
				s.lastInfo.FromCache = true
			}
			return s.snapshot
		}
		// ErrNoRules: the sheet read fine but holds no data. Cache the
		// empty table so every price falls back to the default.
		log.Printf("[Pricing] %v", parseErr)
	}

	s.snapshot = rules
	s.loadedAt = s.now()
	s.hasData = true
	s.lastInfo = info
	if parseErr == nil {
		log.Printf("[Pricing] Loaded %d rules from worksheet %q (%d rows skipped)", len(rules), worksheet, skipped)
	}
	return s.snapshot
}

// Invalidate clears the cached snapshot; the next query reloads.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = nil
	s.hasData = false
	s.loadedAt = time.Time{}
	log.Printf("[Pricing] Cache cleared")
}

// LastLoad reports diagnostics about the most recent load attempt.
func (s *Store) LastLoad() LoadInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastInfo
}
