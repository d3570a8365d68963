package pricing

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseRules(t *testing.T) {
	rows := [][]string{
		{"date_iso", "apartment_slug", "price"},
		{"2026-02-11", "ps1", "200"},
		{"2026-02-12", "PS1 ", "180.50"},
		{"2026-02-11", "t3", "120"},
		{"", "ps1", "100"},            // blank date
		{"2026-02-13", "", "100"},     // blank slug
		{"2026-02-13", "ps1", ""},     // blank price
		{"2026-02-14", "ps1", "abc"},  // non-numeric price
		{"2026-02-15", "ps1", "0"},    // zero price
		{"2026-02-16", "ps1", "-50"},  // negative price
		{"not-a-date", "ps1", "100"},  // bad date
	}

	rules, skipped, err := parseRules(rows)
	if err != nil {
		t.Fatalf("parseRules() error = %v", err)
	}

	want := []Rule{
		{Date: "2026-02-11", ApartmentSlug: "ps1", Price: 200},
		{Date: "2026-02-12", ApartmentSlug: "ps1", Price: 180.50},
		{Date: "2026-02-11", ApartmentSlug: "t3", Price: 120},
	}
	if !reflect.DeepEqual(rules, want) {
		t.Errorf("rules = %+v, want %+v", rules, want)
	}
	if skipped != 7 {
		t.Errorf("skipped = %d, want 7", skipped)
	}
}

func TestParseRulesHeaderSynonyms(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
	}{
		{"canonical", []string{"date_iso", "apartment_slug", "price"}},
		{"synonyms", []string{"Date", "Slug", "Prix"}},
		{"spaced and cased", []string{" Date ISO ", "Apartment  Slug", "PRICE"}},
		{"french misspelling", []string{"date", "apartement", "prix"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := [][]string{tt.headers, {"2026-02-11", "ps1", "200"}}
			rules, _, err := parseRules(rows)
			if err != nil {
				t.Fatalf("parseRules() error = %v", err)
			}
			if len(rules) != 1 || rules[0].Price != 200 {
				t.Errorf("rules = %+v", rules)
			}
		})
	}
}

func TestParseRulesSchemaError(t *testing.T) {
	rows := [][]string{
		{"date_iso", "apartment_slug", "montant"}, // no recognizable price column
		{"2026-02-11", "ps1", "200"},
	}

	_, _, err := parseRules(rows)
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("error = %v, want *SchemaError", err)
	}
	if !reflect.DeepEqual(schemaErr.Missing, []string{"price"}) {
		t.Errorf("Missing = %v, want [price]", schemaErr.Missing)
	}
	if !reflect.DeepEqual(schemaErr.Headers, rows[0]) {
		t.Errorf("Headers = %v, want the actual header row", schemaErr.Headers)
	}
}

func TestParseRulesAllColumnsMissing(t *testing.T) {
	rows := [][]string{{"foo", "bar"}}

	_, _, err := parseRules(rows)
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("error = %v, want *SchemaError", err)
	}
	want := []string{"apartment_slug", "date_iso", "price"}
	if !reflect.DeepEqual(schemaErr.Missing, want) {
		t.Errorf("Missing = %v, want %v", schemaErr.Missing, want)
	}
}

func TestParseRulesEmpty(t *testing.T) {
	// Valid headers, no data rows: a data problem, not a schema problem.
	rows := [][]string{{"date_iso", "apartment_slug", "price"}}
	_, _, err := parseRules(rows)
	if !errors.Is(err, ErrNoRules) {
		t.Errorf("error = %v, want ErrNoRules", err)
	}

	var schemaErr *SchemaError
	if errors.As(err, &schemaErr) {
		t.Error("empty sheet must not be reported as a schema error")
	}
}

func TestParseRulesShortRows(t *testing.T) {
	rows := [][]string{
		{"date_iso", "apartment_slug", "price"},
		{"2026-02-11"}, // row shorter than the header
		{"2026-02-12", "ps1", "150"},
	}
	rules, skipped, err := parseRules(rows)
	if err != nil {
		t.Fatalf("parseRules() error = %v", err)
	}
	if len(rules) != 1 || skipped != 1 {
		t.Errorf("rules = %d, skipped = %d, want 1 and 1", len(rules), skipped)
	}
}
