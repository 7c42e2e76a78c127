package capture

import (
	"net/http"

	"github.com/Zavoia-Booking/admin-dashboard-sub005/platform/httpkit"
	"github.com/Zavoia-Booking/admin-dashboard-sub005/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler exposes capture sessions over HTTP.
type Handler struct {
	store *Store
	val   *validator.Validator
}

func NewHandler(store *Store, val *validator.Validator) *Handler {
	return &Handler{store: store, val: val}
}

// CreateSession handles POST /api/v1/capture/sessions.
func (h *Handler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
			return
		}
	}

	session := h.store.Create()
	if req.Draft != nil {
		session.Hydrate(*req.Draft)
	}

	httpkit.Created(c, session.Snapshot())
}

// GetSession handles GET /api/v1/capture/sessions/:id.
func (h *Handler) GetSession(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	httpkit.OK(c, session.Snapshot())
}

// DeleteSession handles DELETE /api/v1/capture/sessions/:id.
func (h *Handler) DeleteSession(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid session id", nil)
		return
	}
	h.store.Delete(id)
	httpkit.NoContent(c)
}

// Hydrate handles POST /api/v1/capture/sessions/:id/hydrate. Re-delivered
// drafts are ignored rather than rejected: the response is the current
// snapshot either way.
func (h *Handler) Hydrate(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req HydrateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	session.Hydrate(req.Draft)
	httpkit.OK(c, session.Snapshot())
}

// SetQuery handles PUT /api/v1/capture/sessions/:id/query.
func (h *Handler) SetQuery(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	httpkit.OK(c, session.SetQuery(req.Text))
}

// Select handles POST /api/v1/capture/sessions/:id/select.
func (h *Handler) Select(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "suggestionId is required", nil)
		return
	}

	snapshot, err := session.Select(req.SuggestionID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, snapshot)
}

// EditField handles PUT /api/v1/capture/sessions/:id/fields.
func (h *Handler) EditField(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req FieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "field is required", nil)
		return
	}
	if err := h.val.Var(req.Field, "oneof=street streetNumber city postalCode country"); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "unknown address field: "+req.Field, nil)
		return
	}

	snapshot, err := session.EditField(req.Field, req.Value)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, snapshot)
}

// SwitchMode handles PUT /api/v1/capture/sessions/:id/mode.
func (h *Handler) SwitchMode(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req ModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "mode must be 'search' or 'manual'", nil)
		return
	}

	snapshot, err := session.SwitchMode(Mode(req.Mode))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, snapshot)
}

// ChangeAddress handles POST /api/v1/capture/sessions/:id/change-address.
func (h *Handler) ChangeAddress(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	httpkit.OK(c, session.ChangeAddress())
}

// Dismiss handles POST /api/v1/capture/sessions/:id/dismiss.
func (h *Handler) Dismiss(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	httpkit.OK(c, session.Dismiss())
}

func (h *Handler) session(c *gin.Context) (*Session, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid session id", nil)
		return nil, false
	}

	session, err := h.store.Get(id)
	if httpkit.HandleError(c, err) {
		return nil, false
	}
	return session, true
}
