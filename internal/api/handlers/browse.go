package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/amaumene/cinesync/internal/controllers"
	"github.com/amaumene/cinesync/internal/models"
	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

// BrowseHandler exposes one Discovery/Search session per profile and media
// type. Idle sessions expire and are closed.
type BrowseHandler struct {
	catalog  controllers.Catalog
	profiles *controllers.ProfileController
	sessions *gocache.Cache
	debounce time.Duration
	logger   *logrus.Logger
}

// SearchRequest is the body of a search submit
type SearchRequest struct {
	Term string `json:"term"`
	Year int    `json:"year"`
}

// FilterRequest changes a single discovery filter
type FilterRequest struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// NewBrowseHandler creates a new browse handler
func NewBrowseHandler(catalog controllers.Catalog, profiles *controllers.ProfileController, debounce, ttl time.Duration, logger *logrus.Logger) *BrowseHandler {
	sessions := gocache.New(ttl, ttl/2)
	sessions.OnEvicted(func(key string, v interface{}) {
		if b, ok := v.(*controllers.Browser); ok {
			b.Close()
		}
		logger.WithField("session", key).Debug("Browse session closed")
	})

	return &BrowseHandler{
		catalog:  catalog,
		profiles: profiles,
		sessions: sessions,
		debounce: debounce,
		logger:   logger,
	}
}

func sessionKey(profileID models.ID, mediaType models.MediaType) string {
	return string(profileID) + "|" + string(mediaType)
}

// session returns the browser for the request, creating it on first use
func (h *BrowseHandler) session(r *http.Request) (*controllers.Browser, error) {
	mediaType, err := mediaTypeVar(r)
	if err != nil {
		return nil, err
	}
	profileID, err := h.profiles.Current(r.Context())
	if err != nil {
		return nil, err
	}

	key := sessionKey(profileID, mediaType)
	if v, ok := h.sessions.Get(key); ok {
		h.sessions.SetDefault(key, v)
		return v.(*controllers.Browser), nil
	}

	b := controllers.NewBrowser(h.catalog, mediaType, h.debounce, h.logger)
	if err := h.sessions.Add(key, b, gocache.DefaultExpiration); err != nil {
		// a concurrent request created it first
		if v, ok := h.sessions.Get(key); ok {
			b.Close()
			return v.(*controllers.Browser), nil
		}
		h.sessions.SetDefault(key, b)
	}
	return b, nil
}

// Invalidate drops every session of the previous profile
func (h *BrowseHandler) Invalidate(ev controllers.ProfileSwitch) {
	prefix := string(ev.Previous) + "|"
	for key := range h.sessions.Items() {
		if strings.HasPrefix(key, prefix) {
			h.sessions.Delete(key)
		}
	}
	h.logger.WithField("profile_id", ev.Previous).Debug("Browse sessions invalidated")
}

// View handles GET /api/browse/{mediaType}
func (h *BrowseHandler) View(w http.ResponseWriter, r *http.Request) {
	b, err := h.session(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, b.View())
}

// SetFilters handles PUT /api/browse/{mediaType}/filters with the full set
func (h *BrowseHandler) SetFilters(w http.ResponseWriter, r *http.Request) {
	var filters models.DiscoverFilters
	if err := decodeBody(r, &filters); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	b, err := h.session(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	b.SetFilters(filters)
	writeJSON(w, http.StatusAccepted, b.View())
}

// SetFilter handles PATCH /api/browse/{mediaType}/filters with one filter
func (h *BrowseHandler) SetFilter(w http.ResponseWriter, r *http.Request) {
	var req FilterRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	b, err := h.session(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := b.SetFilter(req.Name, req.Value); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusAccepted, b.View())
}

// SetPage handles PUT /api/browse/{mediaType}/page?page=
func (h *BrowseHandler) SetPage(w http.ResponseWriter, r *http.Request) {
	page, err := pageParam(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	b, err := h.session(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := b.SetPage(r.Context(), page); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, b.View())
}

// Search handles POST /api/browse/{mediaType}/search
func (h *BrowseHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	b, err := h.session(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := b.Search(r.Context(), req.Term, req.Year); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, b.View())
}

// ClearSearch handles DELETE /api/browse/{mediaType}/search
func (h *BrowseHandler) ClearSearch(w http.ResponseWriter, r *http.Request) {
	b, err := h.session(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	b.ClearSearch()
	writeJSON(w, http.StatusOK, b.View())
}

// Close closes every open session
func (h *BrowseHandler) Close() {
	for key := range h.sessions.Items() {
		h.sessions.Delete(key)
	}
}
