package suggest

import (
	"github.com/Zavoia-Booking/admin-dashboard-sub005/internal/geocode"
	apphttp "github.com/Zavoia-Booking/admin-dashboard-sub005/internal/http"
)

// Module wires the stateless address autocomplete HTTP routes.
type Module struct {
	handler *Handler
}

func NewModule(client *geocode.Client) *Module {
	svc := NewService(client)
	return &Module{handler: NewHandler(svc)}
}

func (m *Module) Name() string {
	return "suggest"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/addresses")
	group.GET("/autocomplete", ctx.LookupRateLimiter.Middleware(), m.handler.Autocomplete)
}

var _ apphttp.Module = (*Module)(nil)
