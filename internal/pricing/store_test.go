package pricing

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeSource counts fetches and can be switched to fail.
type fakeSource struct {
	rows    [][]string
	err     error
	fetches int
}

func (f *fakeSource) Fetch(ctx context.Context) ([][]string, string, error) {
	f.fetches++
	if f.err != nil {
		return nil, "", f.err
	}
	return f.rows, "DB_EXPORT", nil
}

func validRows() [][]string {
	return [][]string{
		{"date_iso", "apartment_slug", "price"},
		{"2026-02-11", "ps1", "200"},
	}
}

func TestStoreCachesWithinTTL(t *testing.T) {
	src := &fakeSource{rows: validRows()}
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewStoreWithClock(src, 5*time.Minute, func() time.Time { return now })
	ctx := context.Background()

	if rules := store.Rules(ctx); len(rules) != 1 {
		t.Fatalf("first load: %d rules", len(rules))
	}
	if src.fetches != 1 {
		t.Fatalf("fetches = %d after first load", src.fetches)
	}

	// Second call within the TTL: zero additional reads.
	now = now.Add(4 * time.Minute)
	store.Rules(ctx)
	if src.fetches != 1 {
		t.Errorf("fetches = %d, cache should have served the second call", src.fetches)
	}

	// Past the TTL: exactly one refresh.
	now = now.Add(2 * time.Minute)
	store.Rules(ctx)
	if src.fetches != 2 {
		t.Errorf("fetches = %d, want exactly one refresh after expiry", src.fetches)
	}
}

func TestStoreServesStaleOnFailure(t *testing.T) {
	src := &fakeSource{rows: validRows()}
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewStoreWithClock(src, 5*time.Minute, func() time.Time { return now })
	ctx := context.Background()

	store.Rules(ctx)

	now = now.Add(10 * time.Minute)
	src.err = &SourceError{Err: errors.New("network down")}
	rules := store.Rules(ctx)
	if len(rules) != 1 {
		t.Errorf("stale snapshot not served: %d rules", len(rules))
	}
	if info := store.LastLoad(); info.Error == "" {
		t.Error("LastLoad should record the failure")
	}
}

func TestStoreEmptyWhenNeverLoaded(t *testing.T) {
	src := &fakeSource{err: &SourceError{Err: errors.New("network down")}}
	store := NewStoreWithClock(src, 5*time.Minute, time.Now)

	if rules := store.Rules(context.Background()); len(rules) != 0 {
		t.Errorf("rules = %d, want empty table when nothing was ever loaded", len(rules))
	}
}

func TestStoreInvalidate(t *testing.T) {
	src := &fakeSource{rows: validRows()}
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewStoreWithClock(src, 5*time.Minute, func() time.Time { return now })
	ctx := context.Background()

	store.Rules(ctx)
	store.Invalidate()
	store.Rules(ctx)
	if src.fetches != 2 {
		t.Errorf("fetches = %d, invalidate should force a reload", src.fetches)
	}
}

func TestStoreRecordsEmptySheet(t *testing.T) {
	src := &fakeSource{rows: [][]string{{"date_iso", "apartment_slug", "price"}}}
	store := NewStoreWithClock(src, 5*time.Minute, time.Now)

	rules := store.Rules(context.Background())
	if len(rules) != 0 {
		t.Errorf("rules = %d, want none", len(rules))
	}
	info := store.LastLoad()
	if info.Error == "" {
		t.Error("empty sheet should be diagnosable via LastLoad")
	}
	// The empty table is still cached: no refetch within the TTL.
	store.Rules(context.Background())
	if src.fetches != 1 {
		t.Errorf("fetches = %d, empty result should be cached", src.fetches)
	}
}

func TestStoreSchemaErrorKeepsOldSnapshot(t *testing.T) {
	src := &fakeSource{rows: validRows()}
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewStoreWithClock(src, 5*time.Minute, func() time.Time { return now })
	ctx := context.Background()

	store.Rules(ctx)

	now = now.Add(10 * time.Minute)
	src.rows = [][]string{{"colonne_a", "colonne_b"}}
	rules := store.Rules(ctx)
	if len(rules) != 1 {
		t.Errorf("schema break should keep serving the old snapshot, got %d rules", len(rules))
	}
	if info := store.LastLoad(); info.Error == "" {
		t.Error("LastLoad should carry the schema error")
	}
}
