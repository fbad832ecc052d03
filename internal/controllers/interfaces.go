package controllers

import (
	"context"

	"github.com/amaumene/cinesync/internal/models"
	"github.com/amaumene/cinesync/internal/services/profilestore"
)

// RecordStore is the remote profile store
type RecordStore interface {
	ListProfiles(ctx context.Context) ([]models.Profile, error)
	ListRecords(ctx context.Context, collection profilestore.Collection, profileID models.ID) ([]models.Record, error)
	FindRecords(ctx context.Context, collection profilestore.Collection, tmdbID int, profileID models.ID) ([]models.Record, error)
	CreateRecord(ctx context.Context, collection profilestore.Collection, rec models.Record) (*models.Record, error)
	UpdateRecord(ctx context.Context, collection profilestore.Collection, rec models.Record) (*models.Record, error)
	DeleteRecord(ctx context.Context, collection profilestore.Collection, id models.ID) error
}

// Catalog is the read-only metadata provider
type Catalog interface {
	Details(ctx context.Context, mediaType models.MediaType, id int) (*models.CatalogItem, error)
	Credits(ctx context.Context, mediaType models.MediaType, id int) (*models.Credits, error)
	Images(ctx context.Context, mediaType models.MediaType, id int) (*models.Images, error)
	Season(ctx context.Context, showID, seasonNumber int) (*models.Season, error)
	Search(ctx context.Context, mediaType models.MediaType, query string, year, page int) (*models.Page, error)
	Discover(ctx context.Context, mediaType models.MediaType, filters models.DiscoverFilters, page int) (*models.Page, error)
}

// GenreDirectory resolves genre ids to names
type GenreDirectory interface {
	GenreNames(ctx context.Context) (map[int]string, error)
}

// PreferenceStore persists client-side state
type PreferenceStore interface {
	GetCurrentProfile() (models.ID, error)
	SetCurrentProfile(id models.ID) error
	GetTheme() (models.Theme, error)
	SetTheme(theme models.Theme) error
	ToggleTheme() (models.Theme, error)
}
