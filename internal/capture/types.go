package capture

// CreateSessionRequest optionally seeds a new session with a saved draft.
type CreateSessionRequest struct {
	Draft *Components `json:"draft"`
}

// HydrateRequest delivers a saved draft to an existing session. Only the
// first delivery per session takes effect.
type HydrateRequest struct {
	Draft Components `json:"draft"`
}

// QueryRequest carries a keystroke into the session's autocomplete control.
type QueryRequest struct {
	Text string `json:"text"`
}

// SelectRequest picks a suggestion by its stable id.
type SelectRequest struct {
	SuggestionID string `json:"suggestionId" binding:"required"`
}

// FieldRequest edits one scalar address field.
type FieldRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

// ModeRequest switches between search-select and manual entry.
type ModeRequest struct {
	Mode string `json:"mode" binding:"required,oneof=search manual"`
}
