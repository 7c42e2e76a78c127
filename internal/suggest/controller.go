// Package suggest turns keystrokes into debounced, cancelable provider
// queries and maintains the suggestion dropdown's visible state.
package suggest

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/Zavoia-Booking/admin-dashboard-sub005/internal/geocode"
	"github.com/Zavoia-Booking/admin-dashboard-sub005/platform/apperr"

	"github.com/jonboulle/clockwork"
)

// Searcher performs the actual provider lookup for a query.
type Searcher func(ctx context.Context, query string) ([]geocode.Place, error)

// State is an immutable snapshot of the dropdown. Controllers hand copies to
// listeners; mutating a snapshot never affects the controller.
type State struct {
	Query       string       `json:"query"`
	Open        bool         `json:"open"`
	Loading     bool         `json:"loading"`
	Suggestions []Suggestion `json:"suggestions"`
}

// Listener receives state snapshots after every transition.
type Listener func(State)

// Options tunes a controller. Zero values fall back to the defaults below.
type Options struct {
	Debounce       time.Duration
	MinQueryLength int
	Clock          clockwork.Clock
}

const (
	defaultDebounce       = 500 * time.Millisecond
	defaultMinQueryLength = 3
)

// Controller owns one autocomplete control's query text, debounce timer,
// in-flight request and suggestion list.
//
// Overlapping asynchronous work is serialized through a generation counter:
// every keystroke invalidates the previous generation, so a debounce timer
// or provider response from an older generation is discarded instead of
// overwriting fresher state (last request's response wins).
type Controller struct {
	mu        sync.Mutex
	search    Searcher
	clock     clockwork.Clock
	debounce  time.Duration
	minQuery  int
	listeners []Listener

	query       string
	open        bool
	loading     bool
	suggestions []Suggestion

	// fetchGate is false right after a selection so the programmatic text
	// assignment that follows does not re-trigger a fetch.
	fetchGate   bool
	generation  uint64
	timer       clockwork.Timer
	cancelFetch context.CancelFunc
	closed      bool
}

// NewController creates an autocomplete controller around a searcher.
func NewController(search Searcher, opts Options) *Controller {
	if opts.Debounce <= 0 {
		opts.Debounce = defaultDebounce
	}
	if opts.MinQueryLength <= 0 {
		opts.MinQueryLength = defaultMinQueryLength
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}

	return &Controller{
		search:    search,
		clock:     opts.Clock,
		debounce:  opts.Debounce,
		minQuery:  opts.MinQueryLength,
		fetchGate: true,
	}
}

// Subscribe registers a listener for state snapshots.
func (c *Controller) Subscribe(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

// State returns the current snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// SetQuery applies a text change to the control. Queries shorter than the
// minimum close the dropdown without fetching. Longer queries open the
// dropdown in a loading state immediately and restart the debounce timer,
// superseding any pending timer or in-flight request.
func (c *Controller) SetQuery(text string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	if !c.fetchGate {
		// Text assignment following a selection: record it, fetch nothing,
		// and re-arm the gate for the next real keystroke.
		c.fetchGate = true
		c.query = text
		state, listeners := c.snapshotLocked(), c.listenersLocked()
		c.mu.Unlock()
		notify(listeners, state)
		return
	}

	c.query = text
	c.stopPendingLocked()

	if utf8.RuneCountInString(strings.TrimSpace(text)) < c.minQuery {
		c.open = false
		c.loading = false
		c.suggestions = nil
		state, listeners := c.snapshotLocked(), c.listenersLocked()
		c.mu.Unlock()
		notify(listeners, state)
		return
	}

	c.open = true
	c.loading = true
	c.suggestions = nil

	generation := c.generation
	query := text
	c.timer = c.clock.AfterFunc(c.debounce, func() {
		go c.fire(generation, query)
	})

	state, listeners := c.snapshotLocked(), c.listenersLocked()
	c.mu.Unlock()
	notify(listeners, state)
}

// fire runs after the debounce window. It re-checks the generation before
// starting and again before applying the response, so work superseded by a
// newer keystroke or by Close never touches state.
func (c *Controller) fire(generation uint64, query string) {
	c.mu.Lock()
	if c.closed || generation != c.generation {
		c.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancelFetch = cancel
	c.mu.Unlock()

	places, err := c.search(ctx, query)
	cancel()

	c.mu.Lock()
	if c.closed || generation != c.generation {
		c.mu.Unlock()
		return
	}
	c.cancelFetch = nil
	c.loading = false
	if err != nil {
		c.suggestions = nil
	} else {
		c.suggestions = MapPlaces(places)
	}
	c.open = c.query != ""

	state, listeners := c.snapshotLocked(), c.listenersLocked()
	c.mu.Unlock()
	notify(listeners, state)
}

// Select picks a suggestion by id: the list is cleared, the dropdown closes,
// the query text becomes the chosen display name, and the fetch gate closes
// so that text change does not refetch.
func (c *Controller) Select(id string) (Suggestion, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Suggestion{}, apperr.Gone("autocomplete control is closed")
	}

	var selected *Suggestion
	for i := range c.suggestions {
		if c.suggestions[i].ID == id {
			selected = &c.suggestions[i]
			break
		}
	}
	if selected == nil {
		c.mu.Unlock()
		return Suggestion{}, apperr.NotFound("suggestion not found")
	}

	chosen := *selected
	c.stopPendingLocked()
	c.suggestions = nil
	c.open = false
	c.loading = false
	c.query = chosen.DisplayName
	c.fetchGate = false

	state, listeners := c.snapshotLocked(), c.listenersLocked()
	c.mu.Unlock()
	notify(listeners, state)
	return chosen, nil
}

// Dismiss closes the dropdown without clearing the query text, e.g. when
// the user clicks outside the control. Pending work is dropped.
func (c *Controller) Dismiss() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.stopPendingLocked()
	c.open = false
	c.loading = false

	state, listeners := c.snapshotLocked(), c.listenersLocked()
	c.mu.Unlock()
	notify(listeners, state)
}

// Reset discards the query, the suggestion list and any pending work,
// returning the control to its initial state for a fresh search.
func (c *Controller) Reset() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.stopPendingLocked()
	c.query = ""
	c.suggestions = nil
	c.open = false
	c.loading = false
	c.fetchGate = true

	state, listeners := c.snapshotLocked(), c.listenersLocked()
	c.mu.Unlock()
	notify(listeners, state)
}

// Close cancels any pending timer and in-flight request. No state updates
// or notifications happen after Close returns.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.stopPendingLocked()
}

func (c *Controller) stopPendingLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.cancelFetch != nil {
		c.cancelFetch()
		c.cancelFetch = nil
	}
	c.generation++
}

func (c *Controller) snapshotLocked() State {
	suggestions := make([]Suggestion, len(c.suggestions))
	copy(suggestions, c.suggestions)
	return State{
		Query:       c.query,
		Open:        c.open,
		Loading:     c.loading,
		Suggestions: suggestions,
	}
}

func (c *Controller) listenersLocked() []Listener {
	return append([]Listener(nil), c.listeners...)
}

func notify(listeners []Listener, state State) {
	for _, l := range listeners {
		l(state)
	}
}
