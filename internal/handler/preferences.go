package handler

import (
	"net/http"

	"github.com/capitalize-ai/gemini-chat/internal/model"
	"github.com/capitalize-ai/gemini-chat/internal/preferences"
)

// PreferencesHandler handles UI preference endpoints.
type PreferencesHandler struct {
	prefs *preferences.Service
}

// NewPreferencesHandler creates a new preferences handler.
func NewPreferencesHandler(prefs *preferences.Service) *PreferencesHandler {
	return &PreferencesHandler{prefs: prefs}
}

// Get handles GET /api/v1/preferences
func (h *PreferencesHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, &model.PreferencesResponse{DarkMode: h.prefs.DarkMode()})
}

// Update handles PUT /api/v1/preferences. Either toggle or an explicit
// darkMode value is required.
func (h *PreferencesHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdatePreferencesRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var dark bool
	switch {
	case req.Toggle:
		dark = h.prefs.Toggle(r.Context())
	case req.DarkMode != nil:
		dark = h.prefs.SetDarkMode(r.Context(), *req.DarkMode)
	default:
		writeError(w, http.StatusBadRequest, "darkMode or toggle is required")
		return
	}
	writeJSON(w, http.StatusOK, &model.PreferencesResponse{DarkMode: dark})
}
