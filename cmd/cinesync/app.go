package main

import (
	"fmt"
	"path/filepath"

	"github.com/amaumene/cinesync/internal/config"
	"github.com/amaumene/cinesync/internal/controllers"
	"github.com/amaumene/cinesync/internal/models"
	"github.com/amaumene/cinesync/internal/services/profilestore"
	"github.com/amaumene/cinesync/internal/services/tmdb"
	"github.com/amaumene/cinesync/internal/utils"
	"github.com/sirupsen/logrus"
)

// app holds the wired services shared by every command
type app struct {
	cfg    *config.Config
	logger *logrus.Logger
	db     *models.Database

	store   *profilestore.Client
	catalog *tmdb.Client
	refs    *tmdb.ReferenceCache

	profiles   *controllers.ProfileController
	favorites  *controllers.FavoritesController
	history    *controllers.HistoryController
	watchState *controllers.WatchStateController
	details    *controllers.DetailsController
	dashboard  *controllers.DashboardController
}

func newApp() (*app, error) {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Setup logger
	logger := utils.NewLogger(cfg.LogLevel, cfg.LogFormat)
	logger.WithField("config_dir", filepath.Dir(cfg.DatabaseFile)).Debug("Configuration loaded")

	// 3. Initialize database
	db, err := models.NewDatabase(cfg.DatabaseFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// 4. Initialize services
	store, err := profilestore.NewClient(cfg, logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize profile store client: %w", err)
	}
	catalog, err := tmdb.NewClient(cfg, logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize TMDB client: %w", err)
	}
	refs := tmdb.NewReferenceCache(catalog, cfg.TMDBLanguage, cfg.ReferenceCacheTTL, logger)

	// 5. Initialize controllers
	a := &app{
		cfg:     cfg,
		logger:  logger,
		db:      db,
		store:   store,
		catalog: catalog,
		refs:    refs,
	}
	a.profiles = controllers.NewProfileController(store, db, logger)
	a.favorites = controllers.NewFavoritesController(store, logger)
	a.history = controllers.NewHistoryController(store, logger)
	a.watchState = controllers.NewWatchStateController(store, logger)
	a.details = controllers.NewDetailsController(catalog, a.favorites, a.history, logger)
	a.dashboard = controllers.NewDashboardController(a.favorites, refs, logger)

	return a, nil
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		a.logger.WithError(err).Warn("Failed to close database")
	}
}
