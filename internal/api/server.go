package api

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/amaumene/cinesync/internal/api/handlers"
	"github.com/amaumene/cinesync/internal/api/middleware"
	"github.com/amaumene/cinesync/internal/config"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Handlers groups everything the router serves
type Handlers struct {
	Health   *handlers.HealthHandler
	Status   *handlers.StatusHandler
	Catalog  *handlers.CatalogHandler
	Browse   *handlers.BrowseHandler
	Library  *handlers.LibraryHandler
	Profiles *handlers.ProfilesHandler
}

// Server represents the HTTP server
type Server struct {
	server   *http.Server
	handlers Handlers
	logger   *logrus.Logger

	shutdownOnce sync.Once
	shutdownErr  error
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, h Handlers, logger *logrus.Logger) *Server {
	s := &Server{
		handlers: h,
		logger:   logger,
	}

	s.server = &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      middleware.Logging(s.Router(), logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.HTTPTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Router builds the route table
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	h := s.handlers

	r.Handle("/health", h.Health).Methods(http.MethodGet)
	r.Handle("/status", h.Status).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	// Profiles and preferences
	api.HandleFunc("/profiles", h.Profiles.List).Methods(http.MethodGet)
	api.HandleFunc("/profiles/current", h.Profiles.Switch).Methods(http.MethodPut)
	api.HandleFunc("/theme", h.Profiles.Theme).Methods(http.MethodGet)
	api.HandleFunc("/theme", h.Profiles.SetTheme).Methods(http.MethodPut)
	api.HandleFunc("/theme/toggle", h.Profiles.ToggleTheme).Methods(http.MethodPost)

	// Catalog
	api.HandleFunc("/catalog/{mediaType}/{list}", h.Catalog.List).Methods(http.MethodGet)
	api.HandleFunc("/genres/{mediaType}", h.Catalog.Genres).Methods(http.MethodGet)
	api.HandleFunc("/countries", h.Catalog.Countries).Methods(http.MethodGet)
	api.HandleFunc("/languages", h.Catalog.Languages).Methods(http.MethodGet)
	api.HandleFunc("/details/{mediaType}/{id}", h.Catalog.Details).Methods(http.MethodGet)
	api.HandleFunc("/details/tv/{id}/seasons/{season}", h.Catalog.Season).Methods(http.MethodGet)

	// Discovery and search
	api.HandleFunc("/browse/{mediaType}", h.Browse.View).Methods(http.MethodGet)
	api.HandleFunc("/browse/{mediaType}/filters", h.Browse.SetFilters).Methods(http.MethodPut)
	api.HandleFunc("/browse/{mediaType}/filters", h.Browse.SetFilter).Methods(http.MethodPatch)
	api.HandleFunc("/browse/{mediaType}/page", h.Browse.SetPage).Methods(http.MethodPut)
	api.HandleFunc("/browse/{mediaType}/search", h.Browse.Search).Methods(http.MethodPost)
	api.HandleFunc("/browse/{mediaType}/search", h.Browse.ClearSearch).Methods(http.MethodDelete)

	// Favorites, history and watch state
	api.HandleFunc("/favorites", h.Library.Favorites).Methods(http.MethodGet)
	api.HandleFunc("/favorites/{mediaType}/{id}", h.Library.ToggleFavorite).Methods(http.MethodPost)
	api.HandleFunc("/favorites/{recordId}", h.Library.RemoveFavorite).Methods(http.MethodDelete)
	api.HandleFunc("/history", h.Library.History).Methods(http.MethodGet)
	api.HandleFunc("/history/{mediaType:movie}/{id}", h.Library.ToggleMovieWatched).Methods(http.MethodPost)
	api.HandleFunc("/history/{mediaType:tv}/{id}/seasons/{season}/episodes/{episode}", h.Library.SetEpisodeWatched).Methods(http.MethodPut)
	api.HandleFunc("/history/{recordId}", h.Library.RemoveHistory).Methods(http.MethodDelete)
	api.HandleFunc("/dashboard", h.Library.Dashboard).Methods(http.MethodGet)

	return r
}

// Start serves until ctx is cancelled, then shuts the server down and
// returns the shutdown result. Callers stop the server by cancelling ctx.
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithField("port", s.server.Addr).Info("Starting HTTP server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the HTTP server. Only the first call does
// any work; later calls return its result.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() {
		s.logger.Info("Shutting down HTTP server")
		s.handlers.Browse.Close()
		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		s.shutdownErr = s.server.Shutdown(shutdownCtx)
	})
	return s.shutdownErr
}
