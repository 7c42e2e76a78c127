// Package capture bridges autocomplete selections to a decomposed,
// independently editable address form, and keeps one source of truth for
// the composed address string.
package capture

import (
	"strings"
	"sync"

	"github.com/Zavoia-Booking/admin-dashboard-sub005/internal/suggest"
	"github.com/Zavoia-Booking/admin-dashboard-sub005/platform/apperr"
)

// Mode governs whether the street field is driven by a selected suggestion
// or freely editable.
type Mode string

const (
	ModeSearch Mode = "search"
	ModeManual Mode = "manual"
)

// Components is the structured half of the composer output. Consumers that
// persist address parts separately use this; simple consumers use the
// composed string. The two are always derivable from one another.
type Components struct {
	Street       string `json:"street"`
	StreetNumber string `json:"streetNumber"`
	City         string `json:"city"`
	PostalCode   string `json:"postalCode"`
	Country      string `json:"country"`
}

func (c Components) empty() bool {
	return c.Street == "" && c.StreetNumber == "" && c.City == "" && c.PostalCode == "" && c.Country == ""
}

// Result pairs the composed string with its components.
type Result struct {
	FullAddress string     `json:"fullAddress"`
	Components  Components `json:"components"`
}

// ComposerState is a snapshot of the composer for transport.
type ComposerState struct {
	Result
	Mode            Mode `json:"mode"`
	AddressSelected bool `json:"addressSelected"`
}

// Compose renders the canonical full-address string from its parts. The
// string is never stored: it is recomputed on every change, so it cannot
// drift from the components.
func Compose(c Components) string {
	streetLine := strings.TrimSpace(strings.TrimSpace(c.Street) + " " + strings.TrimSpace(c.StreetNumber))
	localityLine := strings.TrimSpace(strings.TrimSpace(c.PostalCode) + " " + strings.TrimSpace(c.City))

	parts := make([]string, 0, 3)
	if streetLine != "" {
		parts = append(parts, streetLine)
	}
	if localityLine != "" {
		parts = append(parts, localityLine)
	}
	if country := strings.TrimSpace(c.Country); country != "" {
		parts = append(parts, country)
	}

	return strings.Join(parts, ", ")
}

// Composer owns the decomposed address fields and the search/manual mode
// toggle.
type Composer struct {
	mu              sync.Mutex
	components      Components
	mode            Mode
	addressSelected bool
	hydrated        bool
	onChange        func(Result)
}

// NewComposer creates a composer in search mode with no address yet.
func NewComposer() *Composer {
	return &Composer{mode: ModeSearch}
}

// SetOnChange registers the change callback. It fires with the composed
// string and structured components after every mutation, always in sync.
func (c *Composer) SetOnChange(fn func(Result)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// State returns the current snapshot.
func (c *Composer) State() ComposerState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// SelectSuggestion populates the fields from a chosen suggestion. The street
// base intentionally carries the full display name, not just the street
// component: the richer string is shown until the user edits it.
func (c *Composer) SelectSuggestion(s suggest.Suggestion) Result {
	c.mu.Lock()
	c.components = Components{
		Street:       s.DisplayName,
		StreetNumber: s.StreetNumber,
		City:         s.City,
		PostalCode:   s.PostalCode,
		Country:      s.Country,
	}
	c.mode = ModeSearch
	c.addressSelected = true
	result, emit := c.resultLocked(), c.onChange
	c.mu.Unlock()

	if emit != nil {
		emit(result)
	}
	return result
}

// EditField updates exactly one scalar field and recomposes. While a
// provider-sourced address is active in search mode the street field is
// read-only; edits to it must go through ChangeAddress or a mode switch.
func (c *Composer) EditField(field, value string) (Result, error) {
	c.mu.Lock()

	switch field {
	case "street":
		if c.mode == ModeSearch && c.addressSelected {
			c.mu.Unlock()
			return Result{}, apperr.Validation("street is read-only while a suggestion is selected; switch to manual mode or change the address")
		}
		c.components.Street = value
	case "streetNumber":
		c.components.StreetNumber = value
	case "city":
		c.components.City = value
	case "postalCode":
		c.components.PostalCode = value
	case "country":
		c.components.Country = value
	default:
		c.mu.Unlock()
		return Result{}, apperr.BadRequest("unknown address field: " + field)
	}

	result, emit := c.resultLocked(), c.onChange
	c.mu.Unlock()

	if emit != nil {
		emit(result)
	}
	return result, nil
}

// SwitchMode toggles between search-select and manual entry. Entering
// manual mode freezes the current street base as free text and marks the
// address as selected: the user is directly authoring it. Returning to
// search mode with nothing composed collapses back to the bare search box.
func (c *Composer) SwitchMode(mode Mode) (Result, error) {
	if mode != ModeSearch && mode != ModeManual {
		return Result{}, apperr.BadRequest("unknown mode: " + string(mode))
	}

	c.mu.Lock()
	c.mode = mode
	if mode == ModeManual {
		c.addressSelected = true
	} else if c.components.empty() {
		c.addressSelected = false
	}
	result, emit := c.resultLocked(), c.onChange
	c.mu.Unlock()

	if emit != nil {
		emit(result)
	}
	return result, nil
}

// ChangeAddress clears every field and flips back to "not yet selected".
// The caller is expected to reset the paired autocomplete control so no
// stale suggestion list leaks into the fresh search.
func (c *Composer) ChangeAddress() Result {
	c.mu.Lock()
	c.components = Components{}
	c.mode = ModeSearch
	c.addressSelected = false
	result, emit := c.resultLocked(), c.onChange
	c.mu.Unlock()

	if emit != nil {
		emit(result)
	}
	return result
}

// Hydrate performs the one-time population pass from externally supplied
// components (a previously saved draft). Repeat calls are no-ops: user
// edits are never clobbered by a re-delivered draft. Returns whether the
// draft was applied.
func (c *Composer) Hydrate(components Components) bool {
	c.mu.Lock()
	if c.hydrated {
		c.mu.Unlock()
		return false
	}
	c.hydrated = true

	if components.empty() {
		c.mu.Unlock()
		return false
	}

	c.components = components
	c.addressSelected = true
	result, emit := c.resultLocked(), c.onChange
	c.mu.Unlock()

	if emit != nil {
		emit(result)
	}
	return true
}

func (c *Composer) resultLocked() Result {
	return Result{
		FullAddress: Compose(c.components),
		Components:  c.components,
	}
}

func (c *Composer) stateLocked() ComposerState {
	return ComposerState{
		Result:          c.resultLocked(),
		Mode:            c.mode,
		AddressSelected: c.addressSelected,
	}
}
