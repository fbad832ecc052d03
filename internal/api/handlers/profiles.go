package handlers

import (
	"net/http"

	"github.com/amaumene/cinesync/internal/controllers"
	"github.com/amaumene/cinesync/internal/models"
	"github.com/sirupsen/logrus"
)

// ProfilesHandler serves profile selection and the theme preference
type ProfilesHandler struct {
	profiles *controllers.ProfileController
	logger   *logrus.Logger
}

// ProfilesResponse lists the profiles and the current one
type ProfilesResponse struct {
	Profiles []models.Profile `json:"profiles"`
	Current  models.ID        `json:"current"`
}

// SwitchRequest selects a profile
type SwitchRequest struct {
	ID models.ID `json:"id"`
}

// ThemeRequest sets the theme
type ThemeRequest struct {
	Theme models.Theme `json:"theme"`
}

// NewProfilesHandler creates a new profiles handler
func NewProfilesHandler(profiles *controllers.ProfileController, logger *logrus.Logger) *ProfilesHandler {
	return &ProfilesHandler{profiles: profiles, logger: logger}
}

// List handles GET /api/profiles
func (h *ProfilesHandler) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profiles.List(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	current, err := h.profiles.Current(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if profiles == nil {
		profiles = []models.Profile{}
	}
	writeJSON(w, http.StatusOK, ProfilesResponse{Profiles: profiles, Current: current})
}

// Switch handles PUT /api/profiles/current
func (h *ProfilesHandler) Switch(w http.ResponseWriter, r *http.Request) {
	var req SwitchRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	profile, err := h.profiles.Switch(r.Context(), req.ID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// Theme handles GET /api/theme
func (h *ProfilesHandler) Theme(w http.ResponseWriter, r *http.Request) {
	theme, err := h.profiles.Theme()
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ThemeRequest{Theme: theme})
}

// SetTheme handles PUT /api/theme
func (h *ProfilesHandler) SetTheme(w http.ResponseWriter, r *http.Request) {
	var req ThemeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if req.Theme != models.ThemeLight && req.Theme != models.ThemeDark {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "theme must be light or dark"})
		return
	}
	if err := h.profiles.SetTheme(req.Theme); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// ToggleTheme handles POST /api/theme/toggle
func (h *ProfilesHandler) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	theme, err := h.profiles.ToggleTheme()
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ThemeRequest{Theme: theme})
}
