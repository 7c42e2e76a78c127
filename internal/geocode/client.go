// Package geocode wraps the third-party address-search API behind response
// caching and input normalization. Provider misbehavior is absorbed here:
// callers only ever see a (possibly empty) list of places.
package geocode

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/Zavoia-Booking/admin-dashboard-sub005/platform/config"
	"github.com/Zavoia-Booking/admin-dashboard-sub005/platform/logger"
	"github.com/Zavoia-Booking/admin-dashboard-sub005/platform/textfold"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const userAgent = "ZavoiaBooking/1.0"

// Client performs autocomplete lookups against the geocoding provider.
type Client struct {
	apiKey           string
	baseURL          string
	defaultLimit     int
	defaultCountries []string
	httpClient       *http.Client
	cache            Cache
	limiter          *rate.Limiter
	flight           singleflight.Group
	log              *logger.Logger
	missingKeyWarn   sync.Once
}

// NewClient creates a provider client. The cache is injected so the
// composition root decides between the in-process and Redis-backed store.
func NewClient(cfg config.GeocodeConfig, cache Cache, log *logger.Logger) *Client {
	return &Client{
		apiKey:           cfg.GetGeocodeAPIKey(),
		baseURL:          cfg.GetGeocodeBaseURL(),
		defaultLimit:     cfg.GetGeocodeLimit(),
		defaultCountries: cfg.GetGeocodeCountryCodes(),
		httpClient:       &http.Client{Timeout: cfg.GetGeocodeTimeout()},
		cache:            cache,
		// Provider etiquette: stay under 2 req/s regardless of caller fan-in.
		limiter: rate.NewLimiter(rate.Limit(2), 1),
		log:     log,
	}
}

// Autocomplete looks up address suggestions for query. The query is folded
// for diacritics before transmission; what the user typed is never altered.
// Zero limit and nil countryCodes fall back to the configured defaults.
//
// All provider-side failures (missing credential, 404, non-2xx, network
// errors, malformed payloads) resolve to an empty slice. The only error
// returned is context cancellation, so callers can tell "degraded" apart
// from "this request no longer matters".
func (c *Client) Autocomplete(ctx context.Context, query string, limit int, countryCodes []string) ([]Place, error) {
	if c.apiKey == "" {
		c.missingKeyWarn.Do(func() {
			c.log.Warn("GEOCODE_API_KEY not configured; address suggestions disabled")
		})
		return []Place{}, nil
	}

	if limit <= 0 {
		limit = c.defaultLimit
	}
	if countryCodes == nil {
		countryCodes = c.defaultCountries
	}

	folded := textfold.Fold(strings.TrimSpace(query))
	key := CacheKey(folded, limit, countryCodes)

	if places, ok := c.cache.Get(ctx, key); ok {
		return places, nil
	}

	// Collapse concurrent identical lookups into one upstream call.
	result, err, _ := c.flight.Do(key, func() (interface{}, error) {
		return c.fetch(ctx, folded, limit, countryCodes, key)
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// The flight winner was cancelled; degrade this caller to empty.
		return []Place{}, nil
	}

	return result.([]Place), nil
}

func (c *Client) fetch(ctx context.Context, foldedQuery string, limit int, countryCodes []string, cacheKey string) ([]Place, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("q", foldedQuery)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("autocomplete", "1")
	if len(countryCodes) > 0 {
		params.Set("countrycodes", strings.Join(countryCodes, ","))
	}

	reqURL := c.baseURL + "/autocomplete?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.log.ProviderDegraded("request_failed", "error", err)
		return []Place{}, nil
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// The provider answers 404 for "no matches"; that is a valid zero-result
	// response and worth caching like any other.
	if resp.StatusCode == http.StatusNotFound {
		empty := []Place{}
		c.cache.Set(ctx, cacheKey, empty)
		return empty, nil
	}

	if resp.StatusCode != http.StatusOK {
		c.log.ProviderDegraded("upstream_status", "status", resp.StatusCode)
		return []Place{}, nil
	}

	var places []Place
	if err := json.NewDecoder(io.LimitReader(resp.Body, 2<<20)).Decode(&places); err != nil {
		c.log.ProviderDegraded("decode_failed", "error", err)
		return []Place{}, nil
	}

	c.cache.Set(ctx, cacheKey, places)
	return places, nil
}
