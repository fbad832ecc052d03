package handlers

import (
	"net/http"

	"github.com/amaumene/cinesync/internal/controllers"
	"github.com/amaumene/cinesync/internal/models"
	"github.com/sirupsen/logrus"
)

// StatusHandler reports the current profile and its collection sizes
type StatusHandler struct {
	profiles  *controllers.ProfileController
	favorites *controllers.FavoritesController
	history   *controllers.HistoryController
	logger    *logrus.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(profiles *controllers.ProfileController, favorites *controllers.FavoritesController, history *controllers.HistoryController, logger *logrus.Logger) *StatusHandler {
	return &StatusHandler{
		profiles:  profiles,
		favorites: favorites,
		history:   history,
		logger:    logger,
	}
}

// StatusResponse represents the status response
type StatusResponse struct {
	Profile         models.ID    `json:"profile"`
	Theme           models.Theme `json:"theme"`
	FavoriteMovies  int          `json:"favorite_movies"`
	FavoriteShows   int          `json:"favorite_shows"`
	WatchedMovies   int          `json:"watched_movies"`
	WatchedShows    int          `json:"watched_shows"`
	WatchedEpisodes int          `json:"watched_episodes"`
}

// ServeHTTP handles the status endpoint
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	profileID, err := h.profiles.Current(ctx)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	theme, err := h.profiles.Theme()
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response := StatusResponse{Profile: profileID, Theme: theme}

	favorites, err := h.favorites.List(ctx, profileID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	response.FavoriteMovies = len(favorites.Movies)
	response.FavoriteShows = len(favorites.Shows)

	history, err := h.history.List(ctx, profileID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	response.WatchedMovies = len(history.Movies)
	response.WatchedShows = len(history.Shows)
	for _, show := range history.Shows {
		response.WatchedEpisodes += show.WatchedEpisodes
	}

	writeJSON(w, http.StatusOK, response)
}
