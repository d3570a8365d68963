// Package apartment holds the static catalog of rentable apartments.
// Calendar IDs are not part of the catalog: they are secrets, supplied per
// apartment through the environment variable named in CalendarEnvVar.
package apartment

import (
	"os"
	"strings"
)

// Apartment describes one rentable unit.
type Apartment struct {
	ID             string   `json:"id"`
	Slug           string   `json:"slug"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Location       string   `json:"location"`
	Capacity       string   `json:"capacity"`
	Amenities      []string `json:"amenities"`
	DefaultPrice   float64  `json:"defaultPrice"`
	CalendarEnvVar string   `json:"-"`
}

// CalendarID returns the Google Calendar ID for this apartment, or ""
// when the environment variable is not set.
func (a Apartment) CalendarID() string {
	return strings.TrimSpace(os.Getenv(a.CalendarEnvVar))
}

// Catalog lists every apartment the site rents. The slugs match the
// apartment_slug column of the pricing sheet.
var Catalog = []Apartment{
	{
		ID:          "petit-sport-chalet-1",
		Slug:        "ps1",
		Name:        "Le Petit Sport Chalet 1",
		Description: "1er étage de l'hôtel, 6 chambres.",
		Location:    "21 Route de GRENOBLE, 05240, Villeneuve la salle",
		Capacity:    "Grande capacité (6 chambres)",
		Amenities: []string{
			"6 chambres", "Cuisine équipée", "Salle de bain",
			"Wi-Fi", "Parking", "Vue montagne",
		},
		DefaultPrice:   150,
		CalendarEnvVar: "GOOGLE_CALENDAR_ID_PS1",
	},
	{
		ID:          "petit-sport-chalet-2",
		Slug:        "ps2",
		Name:        "Le Petit Sport Chalet 2",
		Description: "2ème étage de l'hôtel, 6 chambres.",
		Location:    "21 Route de GRENOBLE, 05240, Villeneuve la salle",
		Capacity:    "Grande capacité (6 chambres)",
		Amenities: []string{
			"6 chambres", "Cuisine équipée", "Salle de bain",
			"Wi-Fi", "Parking", "Vue montagne",
		},
		DefaultPrice:   150,
		CalendarEnvVar: "GOOGLE_CALENDAR_ID_PS2",
	},
	{
		ID:          "appartement-central",
		Slug:        "t3",
		Name:        "L'Appartement Central",
		Description: "Appartement familial (2 adultes, 3 enfants).",
		Location:    "Résidence l'Alpaga, 05240, Villeneuve la salle",
		Capacity:    "2 adultes, 3 enfants",
		Amenities: []string{
			"2 chambres", "Cuisine équipée", "Salle de bain",
			"Wi-Fi", "Parking", "Proche des remontées mécaniques",
		},
		DefaultPrice:   120,
		CalendarEnvVar: "GOOGLE_CALENDAR_ID_T3",
	},
}

// BySlug looks up an apartment by its sheet slug, case-insensitively.
func BySlug(slug string) (Apartment, bool) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	for _, a := range Catalog {
		if a.Slug == slug {
			return a, true
		}
	}
	return Apartment{}, false
}

// ByID looks up an apartment by its stable identifier.
func ByID(id string) (Apartment, bool) {
	for _, a := range Catalog {
		if a.ID == id {
			return a, true
		}
	}
	return Apartment{}, false
}
