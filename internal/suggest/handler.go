package suggest

import (
	"net/http"

	"github.com/Zavoia-Booking/admin-dashboard-sub005/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler exposes the address autocomplete endpoint.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Autocomplete handles GET /api/v1/addresses/autocomplete?q=...&limit=...
func (h *Handler) Autocomplete(c *gin.Context) {
	var req LookupRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "query 'q' is required (min 3 chars)", nil)
		return
	}

	httpkit.OK(c, h.svc.Lookup(c.Request.Context(), req.Query, req.Limit))
}
