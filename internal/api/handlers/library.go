package handlers

import (
	"net/http"

	"github.com/amaumene/cinesync/internal/controllers"
	"github.com/amaumene/cinesync/internal/models"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// LibraryHandler serves the profile's favorites, history, episode toggles
// and dashboard
type LibraryHandler struct {
	catalog    controllers.Catalog
	profiles   *controllers.ProfileController
	favorites  *controllers.FavoritesController
	history    *controllers.HistoryController
	watchState *controllers.WatchStateController
	dashboard  *controllers.DashboardController
	logger     *logrus.Logger
}

// EpisodeRequest is the body of an episode toggle
type EpisodeRequest struct {
	Watched bool `json:"watched"`
}

// ToggleResponse reports the record present after a toggle, nil when it was
// removed
type ToggleResponse struct {
	Active bool           `json:"active"`
	Record *models.Record `json:"record"`
}

// NewLibraryHandler creates a new library handler
func NewLibraryHandler(
	catalog controllers.Catalog,
	profiles *controllers.ProfileController,
	favorites *controllers.FavoritesController,
	history *controllers.HistoryController,
	watchState *controllers.WatchStateController,
	dashboard *controllers.DashboardController,
	logger *logrus.Logger,
) *LibraryHandler {
	return &LibraryHandler{
		catalog:    catalog,
		profiles:   profiles,
		favorites:  favorites,
		history:    history,
		watchState: watchState,
		dashboard:  dashboard,
		logger:     logger,
	}
}

// target parses the {mediaType} and {id} route vars without touching the
// network
func (h *LibraryHandler) target(r *http.Request) (models.MediaType, int, error) {
	mediaType, err := mediaTypeVar(r)
	if err != nil {
		return "", 0, err
	}
	id, err := idVar(r)
	if err != nil {
		return "", 0, err
	}
	return mediaType, id, nil
}

// Favorites handles GET /api/favorites
func (h *LibraryHandler) Favorites(w http.ResponseWriter, r *http.Request) {
	profileID, err := h.profiles.Current(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	view, err := h.favorites.List(r.Context(), profileID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// ToggleFavorite handles POST /api/favorites/{mediaType}/{id}
func (h *LibraryHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	mediaType, id, err := h.target(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	profileID, err := h.profiles.Current(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if profileID == "" {
		writeError(w, r, h.logger, models.ErrNoProfile)
		return
	}
	item, err := h.catalog.Details(r.Context(), mediaType, id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	rec, err := h.favorites.Toggle(r.Context(), profileID, *item, item.MediaType)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ToggleResponse{Active: rec != nil, Record: rec})
}

// RemoveFavorite handles DELETE /api/favorites/{recordId}
func (h *LibraryHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	profileID, err := h.profiles.Current(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := h.favorites.Remove(r.Context(), profileID, models.ID(mux.Vars(r)["recordId"])); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// History handles GET /api/history
func (h *LibraryHandler) History(w http.ResponseWriter, r *http.Request) {
	profileID, err := h.profiles.Current(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	view, err := h.history.List(r.Context(), profileID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// ToggleMovieWatched handles POST /api/history/movie/{id}
func (h *LibraryHandler) ToggleMovieWatched(w http.ResponseWriter, r *http.Request) {
	mediaType, id, err := h.target(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	profileID, err := h.profiles.Current(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if profileID == "" {
		writeError(w, r, h.logger, models.ErrNoProfile)
		return
	}
	item, err := h.catalog.Details(r.Context(), mediaType, id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	rec, err := h.history.ToggleMovie(r.Context(), profileID, *item)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ToggleResponse{Active: rec != nil, Record: rec})
}

// RemoveHistory handles DELETE /api/history/{recordId}
func (h *LibraryHandler) RemoveHistory(w http.ResponseWriter, r *http.Request) {
	profileID, err := h.profiles.Current(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := h.history.Remove(r.Context(), profileID, models.ID(mux.Vars(r)["recordId"])); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetEpisodeWatched handles PUT /api/history/tv/{id}/seasons/{season}/episodes/{episode}.
// On failure the stored record, when it can be read, is returned with the
// error so the caller can restore its local state.
func (h *LibraryHandler) SetEpisodeWatched(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	mediaType, id, err := h.target(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	season, err := intVar(r, "season")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	episode, err := intVar(r, "episode")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var req EpisodeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	profileID, err := h.profiles.Current(ctx)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if profileID == "" {
		writeError(w, r, h.logger, models.ErrNoProfile)
		return
	}
	show, err := h.catalog.Details(ctx, mediaType, id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	rec, err := h.watchState.SetEpisodeWatched(ctx, profileID, *show, season, episode, req.Watched)
	if err != nil {
		truth, truthErr := h.watchState.GroundTruth(ctx, profileID, show.ID)
		if truthErr != nil {
			h.logger.WithError(truthErr).WithField("tmdb_id", show.ID).Warn("Failed to reload history record after failed toggle")
		}
		writeErrorWithRecord(w, r, h.logger, err, truth)
		return
	}
	writeJSON(w, http.StatusOK, ToggleResponse{Active: rec != nil, Record: rec})
}

// Dashboard handles GET /api/dashboard
func (h *LibraryHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	profileID, err := h.profiles.Current(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	d, err := h.dashboard.Get(r.Context(), profileID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}
