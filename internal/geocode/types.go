package geocode

// Place is one raw record from the provider's autocomplete payload.
// Coordinates arrive as strings and are parsed downstream; a record with
// malformed coordinates is skipped individually, never failing the batch.
type Place struct {
	PlaceID     string       `json:"place_id"`
	OsmID       string       `json:"osm_id"`
	Lat         string       `json:"lat"`
	Lon         string       `json:"lon"`
	DisplayName string       `json:"display_name"`
	Address     PlaceAddress `json:"address"`
}

// PlaceAddress mirrors the relevant parts of the provider's address object.
// Name is overloaded by the provider: depending on the record it holds a
// building/complex name or repeats the house number.
type PlaceAddress struct {
	Name        string `json:"name"`
	Road        string `json:"road"`
	HouseNumber string `json:"house_number"`
	City        string `json:"city"`
	Town        string `json:"town"`
	Village     string `json:"village"`
	Postcode    string `json:"postcode"`
	Country     string `json:"country"`
}

// Locality returns the most specific populated-place field present.
func (a PlaceAddress) Locality() string {
	if a.City != "" {
		return a.City
	}
	if a.Town != "" {
		return a.Town
	}
	return a.Village
}
