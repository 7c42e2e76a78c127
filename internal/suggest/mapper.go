package suggest

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/Zavoia-Booking/admin-dashboard-sub005/internal/geocode"
)

// MapPlaces normalizes raw provider records into suggestions. Records with
// malformed coordinates are skipped individually. Within one batch no two
// suggestions share the same (id, lat, lon) composite key; the first
// occurrence wins and later duplicates are dropped silently.
func MapPlaces(places []geocode.Place) []Suggestion {
	seen := make(map[string]struct{}, len(places))
	suggestions := make([]Suggestion, 0, len(places))

	for _, place := range places {
		suggestion, ok := mapPlace(place)
		if !ok {
			continue
		}

		key := fmt.Sprintf("%s|%.6f|%.6f", suggestion.ID, suggestion.Latitude, suggestion.Longitude)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		suggestions = append(suggestions, suggestion)
	}

	return suggestions
}

func mapPlace(place geocode.Place) (Suggestion, bool) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(place.Lat), 64)
	if err != nil {
		return Suggestion{}, false
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(place.Lon), 64)
	if err != nil {
		return Suggestion{}, false
	}

	id := place.PlaceID
	if id == "" {
		id = place.OsmID
	}
	if id == "" {
		id = fmt.Sprintf("%.6f,%.6f", lat, lon)
	}

	return Suggestion{
		ID:           id,
		DisplayName:  place.DisplayName,
		StreetName:   place.Address.Road,
		StreetNumber: deriveStreetNumber(place.Address),
		Latitude:     lat,
		Longitude:    lon,
		City:         place.Address.Locality(),
		PostalCode:   place.Address.Postcode,
		Country:      place.Address.Country,
	}, true
}

// deriveStreetNumber resolves the provider's overloaded "name" field.
// "name" counts as a building/complex name when a distinct road is present,
// when it is purely numeric, or when no house number was supplied at all;
// otherwise it just repeats the house number and is suppressed.
func deriveStreetNumber(addr geocode.PlaceAddress) string {
	name := strings.TrimSpace(addr.Name)
	number := strings.TrimSpace(addr.HouseNumber)

	isBuildingName := name != "" && (addr.Road != "" || isDigits(name) || number == "")

	switch {
	case isBuildingName && number != "" && name != number:
		return name + ", " + number
	case isBuildingName && number == "":
		return name
	default:
		return number
	}
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}
