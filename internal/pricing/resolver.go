package pricing

import (
	"context"
	"strings"

	"github.com/petit-sport/booking-backend/internal/civildate"
)

// NightPrice is one night of a quote breakdown.
type NightPrice struct {
	Date  civildate.Date `json:"date"`
	Price float64        `json:"price"`
}

// Quote is the priced summary of a stay.
type Quote struct {
	TotalPrice    float64      `json:"totalPrice"`
	PricePerNight float64      `json:"pricePerNight"`
	Nights        int          `json:"nights"`
	Breakdown     []NightPrice `json:"breakdown"`
}

// rulesByDate indexes the apartment's rules by date. Later rows overwrite
// earlier ones, so duplicate keys in the sheet resolve last-read-wins.
func (s *Store) rulesByDate(ctx context.Context, apartmentSlug string) map[civildate.Date]float64 {
	slug := strings.ToLower(strings.TrimSpace(apartmentSlug))
	byDate := make(map[civildate.Date]float64)
	for _, r := range s.Rules(ctx) {
		if r.ApartmentSlug == slug {
			byDate[r.Date] = r.Price
		}
	}
	return byDate
}

// QuoteStay prices each night of the half-open stay [Start, End), using
// the apartment's rule for a night when one exists and defaultPrice
// otherwise. A zero or inverted range quotes zero nights.
func (s *Store) QuoteStay(ctx context.Context, apartmentSlug string, stay civildate.Range, defaultPrice float64) Quote {
	byDate := s.rulesByDate(ctx, apartmentSlug)

	quote := Quote{Breakdown: []NightPrice{}}
	for _, night := range stay.Days() {
		price, ok := byDate[night]
		if !ok {
			price = defaultPrice
		}
		quote.Breakdown = append(quote.Breakdown, NightPrice{Date: night, Price: price})
		quote.TotalPrice += price
	}

	quote.Nights = len(quote.Breakdown)
	if quote.Nights > 0 {
		// An average when prices vary by night, not a real nightly rate.
		quote.PricePerNight = quote.TotalPrice / float64(quote.Nights)
	} else {
		quote.PricePerNight = defaultPrice
	}
	return quote
}

// PricesForRange returns the nightly price for every day in the inclusive
// range [dateMin, dateMax]. Calendar display needs a label on every
// visible day, the checkout day included.
func (s *Store) PricesForRange(ctx context.Context, apartmentSlug string, dateMin, dateMax civildate.Date, defaultPrice float64) map[civildate.Date]float64 {
	byDate := s.rulesByDate(ctx, apartmentSlug)

	prices := make(map[civildate.Date]float64)
	for d := dateMin; d <= dateMax; d = d.Next() {
		price, ok := byDate[d]
		if !ok {
			price = defaultPrice
		}
		prices[d] = price
	}
	return prices
}
