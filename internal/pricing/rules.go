// Package pricing loads per-date nightly price overrides from a Google
// Sheet and answers range queries against them. The whole rule table is
// always loaded and cached; filtering to one apartment happens afterwards.
package pricing

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/petit-sport/booking-backend/internal/civildate"
)

// Rule overrides the default nightly price for one apartment on one day.
type Rule struct {
	Date          civildate.Date
	ApartmentSlug string
	Price         float64
}

// ErrNoRules means the sheet was read successfully but yielded zero valid
// rows. A data problem, distinct from a source that cannot be read.
var ErrNoRules = errors.New("pricing sheet loaded but contains no valid rules")

// SchemaError means required columns could not be matched to the sheet's
// headers. Not retried: the sheet itself needs fixing.
type SchemaError struct {
	Missing []string
	Headers []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("pricing sheet is missing columns %s (headers present: %s)",
		strings.Join(e.Missing, ", "), strings.Join(e.Headers, ", "))
}

// SourceError wraps a failure to reach or read the sheet at all.
type SourceError struct {
	Err error
}

func (e *SourceError) Error() string { return fmt.Sprintf("pricing source unreachable: %v", e.Err) }
func (e *SourceError) Unwrap() error { return e.Err }

// Accepted header synonyms per required field. Matching is insensitive to
// case, surrounding space, and space-vs-underscore.
var headerSynonyms = map[string][]string{
	"date_iso":       {"date_iso", "date iso", "dateiso", "date"},
	"apartment_slug": {"apartment_slug", "apartment slug", "apartement", "slug", "appartment_slug"},
	"price":          {"price", "prix"},
}

var whitespaceRun = regexp.MustCompile(`\s+`)

func normalizeHeader(h string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(h)), "_")
}

// resolveColumns maps each required field to its column index, or reports
// the fields no header matched.
func resolveColumns(headers []string) (map[string]int, *SchemaError) {
	cols := make(map[string]int)
	for field, candidates := range headerSynonyms {
		for i, h := range headers {
			norm := normalizeHeader(h)
			for _, cand := range candidates {
				if norm == normalizeHeader(cand) {
					cols[field] = i
					break
				}
			}
			if _, ok := cols[field]; ok {
				break
			}
		}
	}

	var missing []string
	for field := range headerSynonyms {
		if _, ok := cols[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &SchemaError{Missing: missing, Headers: headers}
	}
	return cols, nil
}

// parseRules turns raw worksheet rows (first row = headers) into the rule
// set. Rows with a blank date or slug, an unparseable date, or a
// non-positive price are dropped, not fatal. Duplicate (date, slug) keys
// are kept in row order; lookups take the last one read.
func parseRules(rows [][]string) ([]Rule, int, error) {
	if len(rows) == 0 {
		return nil, 0, ErrNoRules
	}

	cols, schemaErr := resolveColumns(rows[0])
	if schemaErr != nil {
		return nil, 0, schemaErr
	}

	cell := func(row []string, i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	var rules []Rule
	skipped := 0
	for _, row := range rows[1:] {
		dateStr := cell(row, cols["date_iso"])
		slug := strings.ToLower(cell(row, cols["apartment_slug"]))
		priceStr := cell(row, cols["price"])

		if dateStr == "" || slug == "" || priceStr == "" {
			skipped++
			continue
		}
		date, err := civildate.Parse(dateStr)
		if err != nil {
			skipped++
			continue
		}
		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || price <= 0 {
			skipped++
			continue
		}

		rules = append(rules, Rule{Date: date, ApartmentSlug: slug, Price: price})
	}

	if len(rules) == 0 {
		return nil, skipped, ErrNoRules
	}
	return rules, skipped, nil
}
