package controllers

import (
	"context"

	"github.com/amaumene/cinesync/internal/models"
	"github.com/amaumene/cinesync/internal/services/profilestore"
	"github.com/sirupsen/logrus"
)

// FavoritesController manages the favoritos collection
type FavoritesController struct {
	guard  *recordGuard
	logger *logrus.Logger
}

// FavoritesView groups a profile's favorites by media type
type FavoritesView struct {
	Movies []models.FavoriteRecord `json:"movies"`
	Shows  []models.FavoriteRecord `json:"shows"`
}

// NewFavoritesController creates a new favorites controller
func NewFavoritesController(store RecordStore, logger *logrus.Logger) *FavoritesController {
	return &FavoritesController{
		guard:  &recordGuard{store: store, collection: profilestore.Favorites, logger: logger},
		logger: logger,
	}
}

// Find returns the favorite for tmdbID, nil if not a favorite
func (c *FavoritesController) Find(ctx context.Context, profileID models.ID, tmdbID int, mediaType models.MediaType) (*models.FavoriteRecord, error) {
	return c.guard.Find(ctx, tmdbID, mediaType, profileID)
}

// Toggle adds item to the favorites or removes it if already there. The
// returned record is nil when the item was removed.
func (c *FavoritesController) Toggle(ctx context.Context, profileID models.ID, item models.CatalogItem, mediaType models.MediaType) (*models.FavoriteRecord, error) {
	return c.guard.Toggle(ctx, profileID, item, mediaType, nil)
}

// Remove deletes a favorite by store id
func (c *FavoritesController) Remove(ctx context.Context, profileID models.ID, id models.ID) error {
	if profileID == "" {
		return models.ErrNoProfile
	}
	return c.guard.Remove(ctx, id)
}

// List returns the profile's favorites. Without a profile the view is empty.
func (c *FavoritesController) List(ctx context.Context, profileID models.ID) (*FavoritesView, error) {
	records, err := c.guard.List(ctx, profileID)
	if err != nil {
		return nil, err
	}
	movies, shows := splitByType(records)
	return &FavoritesView{Movies: movies, Shows: shows}, nil
}

// All returns every favorite of the profile in store order
func (c *FavoritesController) All(ctx context.Context, profileID models.ID) ([]models.FavoriteRecord, error) {
	return c.guard.List(ctx, profileID)
}
