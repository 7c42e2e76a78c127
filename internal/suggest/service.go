package suggest

import (
	"context"

	"github.com/Zavoia-Booking/admin-dashboard-sub005/internal/geocode"
)

// Service exposes stateless suggestion lookups for simple consumers that
// debounce on their own side.
type Service struct {
	client *geocode.Client
}

func NewService(client *geocode.Client) *Service {
	return &Service{client: client}
}

// Lookup returns normalized suggestions for query. Provider failures have
// already been absorbed by the client, so the result is at worst empty.
func (s *Service) Lookup(ctx context.Context, query string, limit int) []Suggestion {
	places, err := s.client.Autocomplete(ctx, query, limit, nil)
	if err != nil {
		// Request was cancelled; the response no longer matters.
		return []Suggestion{}
	}
	return MapPlaces(places)
}
