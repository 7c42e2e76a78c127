package capture

import (
	"context"

	"github.com/Zavoia-Booking/admin-dashboard-sub005/internal/geocode"
	apphttp "github.com/Zavoia-Booking/admin-dashboard-sub005/internal/http"
	"github.com/Zavoia-Booking/admin-dashboard-sub005/internal/suggest"
	"github.com/Zavoia-Booking/admin-dashboard-sub005/platform/config"
	"github.com/Zavoia-Booking/admin-dashboard-sub005/platform/logger"
	"github.com/Zavoia-Booking/admin-dashboard-sub005/platform/validator"

	"github.com/jonboulle/clockwork"
)

// Module wires the capture session routes and owns the session store.
type Module struct {
	handler *Handler
	store   *Store
}

// NewModule builds the capture module. Session controllers share one geocode
// client; per-session limits and country filters stay at the client defaults.
func NewModule(client *geocode.Client, cfg config.CaptureConfig, val *validator.Validator, log *logger.Logger, clock clockwork.Clock) *Module {
	search := func(ctx context.Context, query string) ([]geocode.Place, error) {
		return client.Autocomplete(ctx, query, 0, nil)
	}
	opts := suggest.Options{
		Debounce:       cfg.GetDebounceInterval(),
		MinQueryLength: cfg.GetMinQueryLength(),
		Clock:          clock,
	}

	store := NewStore(search, opts, cfg.GetCaptureSessionTTL(), clock, log)
	return &Module{
		handler: NewHandler(store, val),
		store:   store,
	}
}

func (m *Module) Name() string {
	return "capture"
}

// Stop tears down the session store. Called on server shutdown.
func (m *Module) Stop() {
	m.store.Stop()
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	sessions := ctx.V1.Group("/capture/sessions")
	sessions.POST("", m.handler.CreateSession)
	sessions.GET("/:id", m.handler.GetSession)
	sessions.DELETE("/:id", m.handler.DeleteSession)
	sessions.POST("/:id/hydrate", m.handler.Hydrate)
	sessions.PUT("/:id/query", m.handler.SetQuery)
	sessions.POST("/:id/select", m.handler.Select)
	sessions.PUT("/:id/fields", m.handler.EditField)
	sessions.PUT("/:id/mode", m.handler.SwitchMode)
	sessions.POST("/:id/change-address", m.handler.ChangeAddress)
	sessions.POST("/:id/dismiss", m.handler.Dismiss)
}

var _ apphttp.Module = (*Module)(nil)
