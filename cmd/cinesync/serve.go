package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/amaumene/cinesync/internal/api"
	"github.com/amaumene/cinesync/internal/api/handlers"
	"github.com/amaumene/cinesync/internal/scheduler"
	"github.com/amaumene/cinesync/internal/utils"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	logger := a.logger
	logger.Info("Starting CineSync")

	shutdownTracing := utils.SetupTracing(a.cfg.TracingEnabled, logger)
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.WithError(err).Warn("Failed to flush traces")
		}
	}()

	// Initialize scheduler
	sched := scheduler.NewScheduler(a.refs, a.cfg.ReferenceCacheTTL, a.cfg.HTTPTimeout, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	// Initialize HTTP server
	browse := handlers.NewBrowseHandler(a.catalog, a.profiles, a.cfg.DiscoveryDebounce, a.cfg.BrowseSessionTTL, logger)
	a.profiles.OnSwitch(browse.Invalidate)

	server := api.NewServer(a.cfg, api.Handlers{
		Health:   handlers.NewHealthHandler(logger),
		Status:   handlers.NewStatusHandler(a.profiles, a.favorites, a.history, logger),
		Catalog:  handlers.NewCatalogHandler(a.catalog, a.refs, a.details, a.profiles, logger),
		Browse:   browse,
		Library:  handlers.NewLibraryHandler(a.catalog, a.profiles, a.favorites, a.history, a.watchState, a.dashboard, logger),
		Profiles: handlers.NewProfilesHandler(a.profiles, logger),
	}, logger)

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	// Start owns the shutdown: cancelling ctx stops it and it reports back here
	serverDone := make(chan error, 1)
	go func() {
		serverDone <- server.Start(ctx)
	}()

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	logger.Info("CineSync is running")

	select {
	case err := <-serverDone:
		if err != nil {
			return err
		}
	case sig := <-sigChan:
		logger.WithField("signal", sig).Info("Received shutdown signal")
		cancel()
		if err := <-serverDone; err != nil {
			logger.WithError(err).Error("Error during server shutdown")
		}
	}

	logger.Info("CineSync stopped")
	return nil
}
