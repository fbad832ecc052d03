package controllers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/amaumene/cinesync/internal/models"
	"github.com/amaumene/cinesync/internal/services/profilestore"
	"github.com/sirupsen/logrus"
)

// HistoryController manages the historico collection outside of per-episode
// reconciliation: movie watched flags, listing and removal
type HistoryController struct {
	guard  *recordGuard
	now    func() time.Time
	logger *logrus.Logger
}

// ShowHistory is a show history record with its watched episode count
type ShowHistory struct {
	models.HistoryRecord
	WatchedEpisodes int `json:"watchedEpisodes"`
}

// MarshalJSON adds the episode count next to the record's own fields, which
// the promoted Record.MarshalJSON would otherwise drop
func (s ShowHistory) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(s.HistoryRecord)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	count, _ := json.Marshal(s.WatchedEpisodes)
	fields["watchedEpisodes"] = count
	return json.Marshal(fields)
}

// HistoryView groups a profile's history by media type
type HistoryView struct {
	Movies []models.HistoryRecord `json:"movies"`
	Shows  []ShowHistory          `json:"shows"`
}

// NewHistoryController creates a new history controller
func NewHistoryController(store RecordStore, logger *logrus.Logger) *HistoryController {
	return &HistoryController{
		guard:  &recordGuard{store: store, collection: profilestore.History, logger: logger},
		now:    time.Now,
		logger: logger,
	}
}

// Find returns the history record for tmdbID, nil if absent
func (c *HistoryController) Find(ctx context.Context, profileID models.ID, tmdbID int, mediaType models.MediaType) (*models.HistoryRecord, error) {
	return c.guard.Find(ctx, tmdbID, mediaType, profileID)
}

// ToggleMovie marks movie as watched, or clears the mark when it is already
// in the history. The returned record is nil after clearing.
func (c *HistoryController) ToggleMovie(ctx context.Context, profileID models.ID, movie models.CatalogItem) (*models.HistoryRecord, error) {
	return c.guard.Toggle(ctx, profileID, movie, models.MediaTypeMovie, func(rec *models.Record) {
		watchedAt := c.now().UTC()
		rec.WatchedAt = &watchedAt
	})
}

// Remove deletes a history record by store id
func (c *HistoryController) Remove(ctx context.Context, profileID models.ID, id models.ID) error {
	if profileID == "" {
		return models.ErrNoProfile
	}
	return c.guard.Remove(ctx, id)
}

// List returns the profile's history. Without a profile the view is empty.
func (c *HistoryController) List(ctx context.Context, profileID models.ID) (*HistoryView, error) {
	records, err := c.guard.List(ctx, profileID)
	if err != nil {
		return nil, err
	}

	movies, shows := splitByType(records)
	view := &HistoryView{Movies: movies, Shows: make([]ShowHistory, 0, len(shows))}
	for _, rec := range shows {
		view.Shows = append(view.Shows, ShowHistory{
			HistoryRecord:   rec,
			WatchedEpisodes: rec.WatchedSeasons.Total(),
		})
	}
	return view, nil
}
