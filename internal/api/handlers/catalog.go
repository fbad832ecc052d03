package handlers

import (
	"context"
	"net/http"

	"github.com/amaumene/cinesync/internal/controllers"
	"github.com/amaumene/cinesync/internal/models"
	"github.com/amaumene/cinesync/internal/services/tmdb"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// CatalogLister serves curated lists
type CatalogLister interface {
	List(ctx context.Context, mediaType models.MediaType, kind tmdb.ListKind, page int) (*models.Page, error)
}

// ReferenceLists serves the filter reference data
type ReferenceLists interface {
	Genres(ctx context.Context, mediaType models.MediaType) ([]models.Genre, error)
	Countries(ctx context.Context) ([]models.Country, error)
	Languages(ctx context.Context) ([]models.Language, error)
}

// CatalogHandler serves catalog lists, detail pages and reference lists
type CatalogHandler struct {
	lists    CatalogLister
	refs     ReferenceLists
	details  *controllers.DetailsController
	profiles *controllers.ProfileController
	logger   *logrus.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(lists CatalogLister, refs ReferenceLists, details *controllers.DetailsController, profiles *controllers.ProfileController, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{
		lists:    lists,
		refs:     refs,
		details:  details,
		profiles: profiles,
		logger:   logger,
	}
}

// List handles GET /api/catalog/{mediaType}/{list}
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	mediaType, err := mediaTypeVar(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	page, err := pageParam(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	result, err := h.lists.List(r.Context(), mediaType, tmdb.ListKind(mux.Vars(r)["list"]), page)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	result.TotalPages = result.ClampedTotalPages()
	writeJSON(w, http.StatusOK, result)
}

// Details handles GET /api/{mediaType}/{id}
func (h *CatalogHandler) Details(w http.ResponseWriter, r *http.Request) {
	mediaType, err := mediaTypeVar(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if _, err := idVar(r); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	profileID, err := h.profiles.Current(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	details, err := h.details.Get(r.Context(), mediaType, mux.Vars(r)["id"], profileID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

// Season handles GET /api/tv/{id}/seasons/{season}?server=
func (h *CatalogHandler) Season(w http.ResponseWriter, r *http.Request) {
	if _, err := idVar(r); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	season, err := intVar(r, "season")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	profileID, err := h.profiles.Current(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	view, err := h.details.Season(r.Context(), mux.Vars(r)["id"], season, profileID, r.URL.Query().Get("server"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Genres handles GET /api/genres/{mediaType}
func (h *CatalogHandler) Genres(w http.ResponseWriter, r *http.Request) {
	mediaType, err := mediaTypeVar(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	genres, err := h.refs.Genres(r.Context(), mediaType)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, genres)
}

// Countries handles GET /api/countries
func (h *CatalogHandler) Countries(w http.ResponseWriter, r *http.Request) {
	countries, err := h.refs.Countries(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, countries)
}

// Languages handles GET /api/languages
func (h *CatalogHandler) Languages(w http.ResponseWriter, r *http.Request) {
	languages, err := h.refs.Languages(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, languages)
}
