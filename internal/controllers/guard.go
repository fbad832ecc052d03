package controllers

import (
	"context"
	"fmt"

	"github.com/amaumene/cinesync/internal/models"
	"github.com/amaumene/cinesync/internal/services/profilestore"
	"github.com/amaumene/cinesync/internal/utils"
	"github.com/sirupsen/logrus"
)

// recordGuard keeps at most one record per (tmdbId, profile, media type) in
// a collection by checking before inserting. The store has no uniqueness
// constraint, so two concurrent adds can still both insert.
type recordGuard struct {
	store      RecordStore
	collection profilestore.Collection
	logger     *logrus.Logger
}

// Find returns the record for tmdbID owned by profileID, nil if absent.
// TMDB reuses numeric ids across movies and shows, so records of the other
// media type are ignored. More than one match is logged and the first is used.
func (g *recordGuard) Find(ctx context.Context, tmdbID int, mediaType models.MediaType, profileID models.ID) (*models.Record, error) {
	if profileID == "" {
		return nil, nil
	}

	records, err := g.store.FindRecords(ctx, g.collection, tmdbID, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up %s record: %w", g.collection, err)
	}

	var matches []models.Record
	for _, rec := range records {
		if rec.MediaType == "" || mediaType == "" || rec.MediaType == mediaType {
			matches = append(matches, rec)
		}
	}

	if len(matches) == 0 {
		return nil, nil
	}
	if len(matches) > 1 {
		utils.IntegrityAnomalies.WithLabelValues(string(g.collection)).Inc()
		g.logger.WithFields(logrus.Fields{
			"collection": g.collection,
			"tmdb_id":    tmdbID,
			"profile_id": profileID,
			"count":      len(matches),
			"using_id":   matches[0].ID,
		}).Warn("DataIntegrityAnomaly: more than one record found, using the first")
	}

	rec := matches[0]
	return &rec, nil
}

// Add creates rec. Callers must have checked Find first.
func (g *recordGuard) Add(ctx context.Context, rec models.Record) (*models.Record, error) {
	created, err := g.store.CreateRecord(ctx, g.collection, rec)
	if err != nil {
		return nil, fmt.Errorf("failed to add %s record: %w", g.collection, err)
	}
	g.logger.WithFields(logrus.Fields{
		"collection": g.collection,
		"id":         created.ID,
		"tmdb_id":    created.TMDBID,
		"profile_id": created.ProfileID,
	}).Info("Record added")
	return created, nil
}

// Remove deletes the record with store id
func (g *recordGuard) Remove(ctx context.Context, id models.ID) error {
	if err := g.store.DeleteRecord(ctx, g.collection, id); err != nil {
		return fmt.Errorf("failed to remove %s record: %w", g.collection, err)
	}
	g.logger.WithFields(logrus.Fields{
		"collection": g.collection,
		"id":         id,
	}).Info("Record removed")
	return nil
}

// Toggle removes the existing record or adds a new one built from item.
// It returns the record now present (nil after a removal).
func (g *recordGuard) Toggle(ctx context.Context, profileID models.ID, item models.CatalogItem, mediaType models.MediaType, prepare func(*models.Record)) (*models.Record, error) {
	if profileID == "" {
		return nil, models.ErrNoProfile
	}

	existing, err := g.Find(ctx, item.ID, mediaType, profileID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, g.Remove(ctx, existing.ID)
	}

	rec := models.NewRecord(item, mediaType, profileID)
	if prepare != nil {
		prepare(&rec)
	}
	return g.Add(ctx, rec)
}

// List returns every record of the profile
func (g *recordGuard) List(ctx context.Context, profileID models.ID) ([]models.Record, error) {
	if profileID == "" {
		return nil, nil
	}
	records, err := g.store.ListRecords(ctx, g.collection, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", g.collection, err)
	}
	return records, nil
}

// splitByType separates movie and show records, keeping order
func splitByType(records []models.Record) (movies, shows []models.Record) {
	movies = []models.Record{}
	shows = []models.Record{}
	for _, rec := range records {
		switch rec.MediaType {
		case models.MediaTypeMovie:
			movies = append(movies, rec)
		case models.MediaTypeTV:
			shows = append(shows, rec)
		}
	}
	return movies, shows
}
