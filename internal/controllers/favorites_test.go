package controllers

import (
	"context"
	"testing"
	"time"

	"github.com/amaumene/cinesync/internal/models"
	"github.com/amaumene/cinesync/internal/services/profilestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var movie7 = models.CatalogItem{ID: 7, MediaType: models.MediaTypeMovie, Title: "Seven", ReleaseDate: "1995-09-22"}

func TestFavoriteToggleGuardsUniqueness(t *testing.T) {
	store := newFakeStore()
	ctrl := NewFavoritesController(store, quietLogger())
	ctx := context.Background()

	added, err := ctrl.Toggle(ctx, "B", movie7, models.MediaTypeMovie)
	require.NoError(t, err)
	require.NotNil(t, added)

	found, err := ctrl.Find(ctx, "B", 7, models.MediaTypeMovie)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, added.ID, found.ID)
	assert.Len(t, store.all(profilestore.Favorites), 1)

	removed, err := ctrl.Toggle(ctx, "B", movie7, models.MediaTypeMovie)
	require.NoError(t, err)
	assert.Nil(t, removed)
	assert.Empty(t, store.all(profilestore.Favorites))

	found, err = ctrl.Find(ctx, "B", 7, models.MediaTypeMovie)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestFavoriteTogglePerProfile(t *testing.T) {
	store := newFakeStore()
	ctrl := NewFavoritesController(store, quietLogger())
	ctx := context.Background()

	_, err := ctrl.Toggle(ctx, "A", movie7, models.MediaTypeMovie)
	require.NoError(t, err)
	_, err = ctrl.Toggle(ctx, "B", movie7, models.MediaTypeMovie)
	require.NoError(t, err)

	assert.Len(t, store.all(profilestore.Favorites), 2)
}

func TestFavoriteRequiresProfile(t *testing.T) {
	ctrl := NewFavoritesController(newFakeStore(), quietLogger())

	_, err := ctrl.Toggle(context.Background(), "", movie7, models.MediaTypeMovie)
	assert.ErrorIs(t, err, models.ErrNoProfile)

	found, err := ctrl.Find(context.Background(), "", 7, models.MediaTypeMovie)
	require.NoError(t, err)
	assert.Nil(t, found)

	view, err := ctrl.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, view.Movies)
	assert.Empty(t, view.Shows)
}

func TestFavoriteListSplitsByType(t *testing.T) {
	store := newFakeStore()
	store.seed(profilestore.Favorites, models.NewRecord(movie7, models.MediaTypeMovie, "A"))
	store.seed(profilestore.Favorites, models.NewRecord(show42, models.MediaTypeTV, "A"))
	store.seed(profilestore.Favorites, models.NewRecord(movie7, models.MediaTypeMovie, "B"))
	ctrl := NewFavoritesController(store, quietLogger())

	view, err := ctrl.List(context.Background(), "A")
	require.NoError(t, err)
	require.Len(t, view.Movies, 1)
	require.Len(t, view.Shows, 1)
	assert.Equal(t, "Seven", view.Movies[0].Title)
	assert.Equal(t, "The Answer", view.Shows[0].Name)

	require.NoError(t, ctrl.Remove(context.Background(), "A", view.Movies[0].ID))
	view, err = ctrl.List(context.Background(), "A")
	require.NoError(t, err)
	assert.Empty(t, view.Movies)
}

func TestHistoryToggleMovie(t *testing.T) {
	store := newFakeStore()
	ctrl := NewHistoryController(store, quietLogger())
	fixed := time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)
	ctrl.now = func() time.Time { return fixed }
	ctx := context.Background()

	rec, err := ctrl.ToggleMovie(ctx, "A", movie7)
	require.NoError(t, err)
	require.NotNil(t, rec)
	require.NotNil(t, rec.WatchedAt)
	assert.Equal(t, fixed, *rec.WatchedAt)
	assert.Equal(t, models.MediaTypeMovie, rec.MediaType)

	rec, err = ctrl.ToggleMovie(ctx, "A", movie7)
	require.NoError(t, err)
	assert.Nil(t, rec)
	assert.Empty(t, store.all(profilestore.History))
}

func TestHistoryListCountsEpisodes(t *testing.T) {
	store := newFakeStore()
	seedShowHistory(store, "A", models.WatchedSeasons{1: {1, 2, 3}, 2: {1}})
	seedShowHistory(store, "A", models.WatchedSeasons{})
	store.seed(profilestore.History, models.NewRecord(movie7, models.MediaTypeMovie, "A"))
	ctrl := NewHistoryController(store, quietLogger())

	view, err := ctrl.List(context.Background(), "A")
	require.NoError(t, err)
	require.Len(t, view.Movies, 1)
	require.Len(t, view.Shows, 2)
	assert.Equal(t, 4, view.Shows[0].WatchedEpisodes)
	assert.Equal(t, 0, view.Shows[1].WatchedEpisodes)

	data, err := view.Shows[0].MarshalJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"watchedEpisodes":4`)
	assert.Contains(t, string(data), `"temporadasVistas":{"1":[1,2,3],"2":[1]}`)
}
