package capture

import (
	"sync"
	"time"

	"github.com/Zavoia-Booking/admin-dashboard-sub005/internal/suggest"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// Snapshot is the full view of a capture session as returned to clients:
// the autocomplete dropdown plus the composed address.
type Snapshot struct {
	ID       string        `json:"id"`
	Search   suggest.State `json:"search"`
	Composer ComposerState `json:"composer"`
}

// Session ties one autocomplete controller to one address composer. A
// suggestion selected in the controller flows into the composer; clearing
// the composer resets the controller.
type Session struct {
	ID uuid.UUID

	controller *suggest.Controller
	composer   *Composer
	clock      clockwork.Clock

	mu         sync.Mutex
	lastActive time.Time
}

// NewSession wires a controller and a fresh composer together.
func NewSession(search suggest.Searcher, opts suggest.Options, clock clockwork.Clock) *Session {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	s := &Session{
		ID:         uuid.New(),
		controller: suggest.NewController(search, opts),
		composer:   NewComposer(),
		clock:      clock,
		lastActive: clock.Now(),
	}
	return s
}

// Hydrate applies a saved draft to the composer. Only the first call per
// session takes effect.
func (s *Session) Hydrate(components Components) bool {
	s.touch()
	return s.composer.Hydrate(components)
}

// SetQuery forwards a keystroke to the autocomplete controller.
func (s *Session) SetQuery(text string) Snapshot {
	s.touch()
	s.controller.SetQuery(text)
	return s.Snapshot()
}

// Select picks a suggestion and pushes it into the composer. The controller
// closes its dropdown and suppresses the refetch of the assigned text; the
// composer takes the suggestion's fields.
func (s *Session) Select(id string) (Snapshot, error) {
	s.touch()
	chosen, err := s.controller.Select(id)
	if err != nil {
		return Snapshot{}, err
	}
	s.composer.SelectSuggestion(chosen)
	return s.Snapshot(), nil
}

// EditField updates a single composer field.
func (s *Session) EditField(field, value string) (Snapshot, error) {
	s.touch()
	if _, err := s.composer.EditField(field, value); err != nil {
		return Snapshot{}, err
	}
	return s.Snapshot(), nil
}

// SwitchMode toggles the composer between search and manual entry.
func (s *Session) SwitchMode(mode Mode) (Snapshot, error) {
	s.touch()
	if _, err := s.composer.SwitchMode(mode); err != nil {
		return Snapshot{}, err
	}
	return s.Snapshot(), nil
}

// ChangeAddress clears the composer and resets the paired controller so the
// next search starts clean.
func (s *Session) ChangeAddress() Snapshot {
	s.touch()
	s.composer.ChangeAddress()
	s.controller.Reset()
	return s.Snapshot()
}

// Dismiss closes the dropdown without losing the typed text.
func (s *Session) Dismiss() Snapshot {
	s.touch()
	s.controller.Dismiss()
	return s.Snapshot()
}

// Snapshot combines the controller and composer views.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		ID:       s.ID.String(),
		Search:   s.controller.State(),
		Composer: s.composer.State(),
	}
}

// Close tears down the controller so pending timers and in-flight lookups
// stop referencing the session.
func (s *Session) Close() {
	s.controller.Close()
}

// Expired reports whether the session has been idle longer than ttl.
func (s *Session) Expired(ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock.Now().Sub(s.lastActive) > ttl
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastActive = s.clock.Now()
	s.mu.Unlock()
}
