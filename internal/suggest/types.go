package suggest

// Suggestion is a single normalized candidate shown in the address dropdown.
type Suggestion struct {
	// ID is stable per provider record: provider id, falling back to the
	// OSM id, falling back to a coordinate composite.
	ID           string  `json:"id"`
	DisplayName  string  `json:"displayName"`
	StreetName   string  `json:"streetName"`
	StreetNumber string  `json:"streetNumber,omitempty"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	City         string  `json:"city,omitempty"`
	PostalCode   string  `json:"postalCode,omitempty"`
	Country      string  `json:"country,omitempty"`
}

// LookupRequest represents the query parameters from the frontend.
type LookupRequest struct {
	Query string `form:"q" binding:"required,min=3"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=10"`
}
