package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Zavoia-Booking/admin-dashboard-sub005/platform/config"
	"github.com/Zavoia-Booking/admin-dashboard-sub005/platform/logger"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL, apiKey string) *config.Config {
	return &config.Config{
		GeocodeAPIKey:       apiKey,
		GeocodeBaseURL:      baseURL,
		GeocodeLimit:        5,
		GeocodeCountryCodes: []string{"ro"},
		GeocodeTimeout:      2 * time.Second,
	}
}

func TestAutocomplete_MissingAPIKeyReturnsEmptyWithoutNetwork(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL, ""), NewMemoryCache(time.Minute, clockwork.NewRealClock()), logger.New("test"))

	places, err := client.Autocomplete(context.Background(), "Calea Victoriei", 0, nil)
	require.NoError(t, err)
	assert.Empty(t, places)
	assert.Equal(t, int32(0), calls.Load())
}

func TestAutocomplete_FoldsDiacriticsOnTheWire(t *testing.T) {
	var gotQuery, gotCountries, gotFlag string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotCountries = r.URL.Query().Get("countrycodes")
		gotFlag = r.URL.Query().Get("autocomplete")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL, "secret"), NewMemoryCache(time.Minute, clockwork.NewRealClock()), logger.New("test"))

	_, err := client.Autocomplete(context.Background(), "Strada Școlii, București", 0, nil)
	require.NoError(t, err)
	assert.Equal(t, "Strada Scolii, Bucuresti", gotQuery)
	assert.Equal(t, "ro", gotCountries)
	assert.Equal(t, "1", gotFlag)
}

func TestAutocomplete_CacheHitAvoidsNetworkUntilTTL(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"place_id":"1","lat":"44.43","lon":"26.10","display_name":"Calea Victoriei 100"}]`))
	}))
	defer srv.Close()

	clock := clockwork.NewFakeClock()
	client := NewClient(testConfig(srv.URL, "secret"), NewMemoryCache(5*time.Minute, clock), logger.New("test"))
	ctx := context.Background()

	first, err := client.Autocomplete(ctx, "Calea Victoriei", 0, nil)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := client.Autocomplete(ctx, "Calea Victoriei", 0, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), calls.Load(), "second lookup should be served from cache")

	clock.Advance(5*time.Minute + time.Second)

	_, err = client.Autocomplete(ctx, "Calea Victoriei", 0, nil)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load(), "expired entry should trigger a fresh fetch")
}

func TestAutocomplete_NotFoundIsZeroResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL, "secret"), NewMemoryCache(time.Minute, clockwork.NewRealClock()), logger.New("test"))

	places, err := client.Autocomplete(context.Background(), "Nowhere Lane", 0, nil)
	require.NoError(t, err)
	assert.Empty(t, places)
}

func TestAutocomplete_UpstreamErrorDegradesToEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL, "secret"), NewMemoryCache(time.Minute, clockwork.NewRealClock()), logger.New("test"))

	places, err := client.Autocomplete(context.Background(), "Calea Victoriei", 0, nil)
	require.NoError(t, err)
	assert.Empty(t, places)
}

func TestAutocomplete_NetworkFailureDegradesToEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewClient(testConfig(srv.URL, "secret"), NewMemoryCache(time.Minute, clockwork.NewRealClock()), logger.New("test"))

	places, err := client.Autocomplete(context.Background(), "Calea Victoriei", 0, nil)
	require.NoError(t, err)
	assert.Empty(t, places)
}

func TestAutocomplete_CancelledContextSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL, "secret"), NewMemoryCache(time.Minute, clockwork.NewRealClock()), logger.New("test"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Autocomplete(ctx, "Calea Victoriei", 0, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAutocomplete_ConcurrentIdenticalLookupsCollapse(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		<-release
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"place_id":"1","lat":"44.43","lon":"26.10"}]`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL, "secret"), NewMemoryCache(time.Minute, clockwork.NewRealClock()), logger.New("test"))

	type outcome struct {
		count int
		err   error
	}

	const callers = 5
	results := make(chan outcome, callers)
	for i := 0; i < callers; i++ {
		go func() {
			places, err := client.Autocomplete(context.Background(), "Calea Victoriei", 0, nil)
			results <- outcome{count: len(places), err: err}
		}()
	}

	// Give the callers time to pile onto the in-flight request, then let
	// the single upstream call finish.
	time.Sleep(50 * time.Millisecond)
	close(release)

	for i := 0; i < callers; i++ {
		got := <-results
		require.NoError(t, got.err)
		assert.Equal(t, 1, got.count)
	}
	assert.Equal(t, int32(1), calls.Load(), "identical concurrent lookups should share one upstream call")
}

func TestAutocomplete_MalformedPayloadDegradesToEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not":"an array"}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL, "secret"), NewMemoryCache(time.Minute, clockwork.NewRealClock()), logger.New("test"))

	places, err := client.Autocomplete(context.Background(), "Calea Victoriei", 0, nil)
	require.NoError(t, err)
	assert.Empty(t, places)
}
