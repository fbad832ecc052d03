package controllers

import (
	"context"
	"fmt"
	"strconv"

	"github.com/amaumene/cinesync/internal/models"
	"github.com/amaumene/cinesync/internal/services/profilestore"
	"github.com/amaumene/cinesync/internal/utils"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// WatchStateController reconciles per-episode watch state into the history
// collection
type WatchStateController struct {
	history *recordGuard
	store   RecordStore
	logger  *logrus.Logger
}

// NewWatchStateController creates a new watch state controller
func NewWatchStateController(store RecordStore, logger *logrus.Logger) *WatchStateController {
	return &WatchStateController{
		history: &recordGuard{store: store, collection: profilestore.History, logger: logger},
		store:   store,
		logger:  logger,
	}
}

// SetEpisodeWatched marks or unmarks one episode of show for profileID.
//
// It performs one lookup and at most one write. Marking creates the history
// record when none exists. Unmarking a show with no record is a no-op and
// returns nil. Unmarking the last episode keeps the record with an empty
// season map. The returned record is the one the store confirmed.
func (c *WatchStateController) SetEpisodeWatched(ctx context.Context, profileID models.ID, show models.CatalogItem, season, episode int, watched bool) (rec *models.Record, err error) {
	ctx, span := utils.StartSpan(ctx, "watchstate.SetEpisodeWatched",
		attribute.Int("tmdb_id", show.ID),
		attribute.Int("season", season),
		attribute.Int("episode", episode),
		attribute.Bool("watched", watched),
	)
	defer func() {
		utils.EpisodeToggles.WithLabelValues(strconv.FormatBool(watched), utils.Outcome(err)).Inc()
		utils.EndSpan(span, err)
	}()

	if profileID == "" {
		return nil, models.ErrNoProfile
	}
	if show.ID <= 0 {
		return nil, fmt.Errorf("%w: show id %d", models.ErrInvalidIdentifier, show.ID)
	}
	if season <= 0 || episode <= 0 {
		return nil, fmt.Errorf("%w: S%dE%d", models.ErrInvalidEpisode, season, episode)
	}

	log := c.logger.WithFields(logrus.Fields{
		"profile_id": profileID,
		"tmdb_id":    show.ID,
		"season":     season,
		"episode":    episode,
		"watched":    watched,
	})

	existing, err := c.history.Find(ctx, show.ID, models.MediaTypeTV, profileID)
	if err != nil {
		return nil, err
	}

	if !watched {
		if existing == nil {
			log.Debug("No history record to unmark")
			return nil, nil
		}
		next := existing.Clone()
		next.WatchedSeasons.Unmark(season, episode)
		return c.replace(ctx, log, next)
	}

	if existing == nil {
		next := models.NewRecord(show, models.MediaTypeTV, profileID)
		next.WatchedSeasons = models.WatchedSeasons{}
		next.WatchedSeasons.Mark(season, episode)

		created, err := c.store.CreateRecord(ctx, profilestore.History, next)
		if err != nil {
			return nil, fmt.Errorf("failed to create history record: %w", err)
		}
		log.WithField("id", created.ID).Info("Episode marked watched on new history record")
		return created, nil
	}

	next := existing.Clone()
	if next.WatchedSeasons == nil {
		next.WatchedSeasons = models.WatchedSeasons{}
	}
	next.WatchedSeasons.Mark(season, episode)
	return c.replace(ctx, log, next)
}

func (c *WatchStateController) replace(ctx context.Context, log *logrus.Entry, rec models.Record) (*models.Record, error) {
	if rec.WatchedSeasons == nil {
		rec.WatchedSeasons = models.WatchedSeasons{}
	}
	updated, err := c.store.UpdateRecord(ctx, profilestore.History, rec)
	if err != nil {
		return nil, fmt.Errorf("failed to update history record %s: %w", rec.ID, err)
	}
	log.WithFields(logrus.Fields{
		"id":       updated.ID,
		"episodes": updated.WatchedSeasons.Total(),
	}).Info("History record updated")
	return updated, nil
}

// GroundTruth returns the stored history record for showID, nil if absent.
// Callers use it to restore local state after a failed toggle.
func (c *WatchStateController) GroundTruth(ctx context.Context, profileID models.ID, showID int) (*models.Record, error) {
	if profileID == "" {
		return nil, models.ErrNoProfile
	}
	return c.history.Find(ctx, showID, models.MediaTypeTV, profileID)
}
