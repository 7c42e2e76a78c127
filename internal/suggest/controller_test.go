package suggest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Zavoia-Booking/admin-dashboard-sub005/internal/geocode"
	"github.com/Zavoia-Booking/admin-dashboard-sub005/platform/apperr"

	"github.com/jonboulle/clockwork"
)

// recordingSearcher counts calls and records queries.
type recordingSearcher struct {
	mu      sync.Mutex
	queries []string
	result  []geocode.Place
}

func (s *recordingSearcher) search(_ context.Context, query string) ([]geocode.Place, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, query)
	return s.result, nil
}

func (s *recordingSearcher) calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.queries...)
}

// blockingSearcher holds each lookup until the test releases it, so tests
// can interleave responses deterministically.
type blockingSearcher struct {
	mu      sync.Mutex
	started chan string
	release map[string]chan []geocode.Place
}

func newBlockingSearcher() *blockingSearcher {
	return &blockingSearcher{
		started: make(chan string, 10),
		release: make(map[string]chan []geocode.Place),
	}
}

func (s *blockingSearcher) gate(query string) chan []geocode.Place {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.release[query]; !ok {
		s.release[query] = make(chan []geocode.Place, 1)
	}
	return s.release[query]
}

func (s *blockingSearcher) search(_ context.Context, query string) ([]geocode.Place, error) {
	s.started <- query
	return <-s.gate(query), nil
}

func newTestController(search Searcher, clock clockwork.Clock) (*Controller, chan State) {
	ctrl := NewController(search, Options{
		Debounce:       500 * time.Millisecond,
		MinQueryLength: 3,
		Clock:          clock,
	})
	states := make(chan State, 64)
	ctrl.Subscribe(func(s State) { states <- s })
	return ctrl, states
}

func waitForState(t *testing.T, states chan State, pred func(State) bool) State {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case s := <-states:
			if pred(s) {
				return s
			}
		case <-deadline:
			t.Fatal("timed out waiting for expected state")
		}
	}
}

func drain(states chan State) {
	for {
		select {
		case <-states:
		default:
			return
		}
	}
}

func TestController_DebounceIssuesSingleCallWithFinalQuery(t *testing.T) {
	clock := clockwork.NewFakeClock()
	searcher := &recordingSearcher{result: []geocode.Place{{PlaceID: "1", Lat: "1", Lon: "2", DisplayName: "Main St"}}}
	ctrl, states := newTestController(searcher.search, clock)
	defer ctrl.Close()

	for _, text := range []string{"M", "Ma", "Mai", "Main", "Main ", "Main S", "Main St"} {
		ctrl.SetQuery(text)
	}

	state := ctrl.State()
	if !state.Open || !state.Loading {
		t.Fatalf("dropdown should open in loading state before the fetch resolves, got %+v", state)
	}

	clock.Advance(500 * time.Millisecond)
	waitForState(t, states, func(s State) bool { return s.Open && !s.Loading })

	calls := searcher.calls()
	if len(calls) != 1 {
		t.Fatalf("expected exactly one provider call, got %d (%v)", len(calls), calls)
	}
	if calls[0] != "Main St" {
		t.Fatalf("expected final query to be fetched, got %q", calls[0])
	}
}

func TestController_ShortQueryNeverFetches(t *testing.T) {
	clock := clockwork.NewFakeClock()
	searcher := &recordingSearcher{}
	ctrl, _ := newTestController(searcher.search, clock)
	defer ctrl.Close()

	ctrl.SetQuery("Ma")

	state := ctrl.State()
	if state.Open || state.Loading {
		t.Fatalf("dropdown must stay closed for short queries, got %+v", state)
	}

	clock.Advance(time.Second)
	time.Sleep(20 * time.Millisecond)

	if calls := searcher.calls(); len(calls) != 0 {
		t.Fatalf("expected no provider calls, got %v", calls)
	}
}

func TestController_StaleResponseNeverOverwritesFresherState(t *testing.T) {
	clock := clockwork.NewFakeClock()
	searcher := newBlockingSearcher()
	ctrl, states := newTestController(searcher.search, clock)
	defer ctrl.Close()

	ctrl.SetQuery("Amsterdam Centraal")
	clock.Advance(500 * time.Millisecond)
	if started := <-searcher.started; started != "Amsterdam Centraal" {
		t.Fatalf("unexpected first fetch %q", started)
	}

	ctrl.SetQuery("Rotterdam Centraal")
	clock.Advance(500 * time.Millisecond)
	if started := <-searcher.started; started != "Rotterdam Centraal" {
		t.Fatalf("unexpected second fetch %q", started)
	}

	// Resolve B first, then let stale A arrive late.
	searcher.gate("Rotterdam Centraal") <- []geocode.Place{{PlaceID: "b", Lat: "51.92", Lon: "4.47", DisplayName: "Rotterdam Centraal"}}
	waitForState(t, states, func(s State) bool {
		return !s.Loading && len(s.Suggestions) == 1 && s.Suggestions[0].ID == "b"
	})

	searcher.gate("Amsterdam Centraal") <- []geocode.Place{{PlaceID: "a", Lat: "52.37", Lon: "4.90", DisplayName: "Amsterdam Centraal"}}
	time.Sleep(50 * time.Millisecond)

	state := ctrl.State()
	if len(state.Suggestions) != 1 || state.Suggestions[0].ID != "b" {
		t.Fatalf("stale response must be discarded, got %+v", state.Suggestions)
	}
	if state.Query != "Rotterdam Centraal" {
		t.Fatalf("query must reflect the latest keystroke, got %q", state.Query)
	}
}

func TestController_SelectClosesDropdownAndSuppressesRefetch(t *testing.T) {
	clock := clockwork.NewFakeClock()
	searcher := &recordingSearcher{result: []geocode.Place{
		{PlaceID: "1", Lat: "44.43", Lon: "26.10", DisplayName: "Calea Victoriei 100, București"},
	}}
	ctrl, states := newTestController(searcher.search, clock)
	defer ctrl.Close()

	ctrl.SetQuery("Calea Vic")
	clock.Advance(500 * time.Millisecond)
	waitForState(t, states, func(s State) bool { return len(s.Suggestions) == 1 })

	chosen, err := ctrl.Select("1")
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if chosen.DisplayName != "Calea Victoriei 100, București" {
		t.Fatalf("unexpected selection %+v", chosen)
	}

	state := ctrl.State()
	if state.Open || state.Loading || len(state.Suggestions) != 0 {
		t.Fatalf("selection must clear and close the dropdown, got %+v", state)
	}
	if state.Query != chosen.DisplayName {
		t.Fatalf("query should carry the chosen display name, got %q", state.Query)
	}

	// The programmatic text assignment that follows a selection must not
	// trigger a new fetch even though the text changed.
	ctrl.SetQuery(chosen.DisplayName)
	clock.Advance(time.Second)
	time.Sleep(20 * time.Millisecond)
	if calls := searcher.calls(); len(calls) != 1 {
		t.Fatalf("expected no refetch after selection, got %v", calls)
	}

	// The next real keystroke fetches again.
	drain(states)
	ctrl.SetQuery("Strada Lipscani")
	clock.Advance(500 * time.Millisecond)
	waitForState(t, states, func(s State) bool { return !s.Loading })
	if calls := searcher.calls(); len(calls) != 2 {
		t.Fatalf("expected the next keystroke to fetch, got %v", calls)
	}
}

func TestController_SelectUnknownID(t *testing.T) {
	ctrl, _ := newTestController((&recordingSearcher{}).search, clockwork.NewFakeClock())
	defer ctrl.Close()

	_, err := ctrl.Select("nope")
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestController_DismissKeepsQueryText(t *testing.T) {
	clock := clockwork.NewFakeClock()
	searcher := &recordingSearcher{result: []geocode.Place{{PlaceID: "1", Lat: "1", Lon: "2"}}}
	ctrl, states := newTestController(searcher.search, clock)
	defer ctrl.Close()

	ctrl.SetQuery("Main Street")
	clock.Advance(500 * time.Millisecond)
	waitForState(t, states, func(s State) bool { return !s.Loading })

	ctrl.Dismiss()

	state := ctrl.State()
	if state.Open {
		t.Fatal("dismiss must close the dropdown")
	}
	if state.Query != "Main Street" {
		t.Fatalf("dismiss must not clear the query, got %q", state.Query)
	}
}

func TestController_CloseDropsInFlightResponse(t *testing.T) {
	clock := clockwork.NewFakeClock()
	searcher := newBlockingSearcher()
	ctrl, states := newTestController(searcher.search, clock)

	ctrl.SetQuery("Main Street")
	clock.Advance(500 * time.Millisecond)
	<-searcher.started

	ctrl.Close()
	drain(states)

	searcher.gate("Main Street") <- []geocode.Place{{PlaceID: "1", Lat: "1", Lon: "2"}}
	time.Sleep(50 * time.Millisecond)

	select {
	case s := <-states:
		t.Fatalf("no state updates may happen after close, got %+v", s)
	default:
	}
}

func TestController_ResetReturnsToInitialState(t *testing.T) {
	clock := clockwork.NewFakeClock()
	searcher := &recordingSearcher{result: []geocode.Place{{PlaceID: "1", Lat: "1", Lon: "2"}}}
	ctrl, states := newTestController(searcher.search, clock)
	defer ctrl.Close()

	ctrl.SetQuery("Main Street")
	clock.Advance(500 * time.Millisecond)
	waitForState(t, states, func(s State) bool { return !s.Loading })

	ctrl.Reset()

	state := ctrl.State()
	if state.Query != "" || state.Open || state.Loading || len(state.Suggestions) != 0 {
		t.Fatalf("reset must discard all query state, got %+v", state)
	}
}
