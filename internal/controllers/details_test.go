package controllers

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/amaumene/cinesync/internal/models"
	"github.com/amaumene/cinesync/internal/services/profilestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newDetailsFixture(store *fakeStore, catalog *mockCatalog) *DetailsController {
	logger := quietLogger()
	return NewDetailsController(catalog, NewFavoritesController(store, logger), NewHistoryController(store, logger), logger)
}

func expectMovie7(catalog *mockCatalog) {
	catalog.On("Details", mock.Anything, models.MediaTypeMovie, 7).Return(&movie7, nil)
	catalog.On("Credits", mock.Anything, models.MediaTypeMovie, 7).Return(&models.Credits{Cast: []models.CastMember{{ID: 1, Name: "Brad Pitt"}}}, nil)
	catalog.On("Images", mock.Anything, models.MediaTypeMovie, 7).Return(&models.Images{}, nil)
}

func TestDetailsLoadsMovieWithProfileState(t *testing.T) {
	store := newFakeStore()
	fav := store.seed(profilestore.Favorites, models.NewRecord(movie7, models.MediaTypeMovie, "A"))
	catalog := &mockCatalog{}
	expectMovie7(catalog)
	ctrl := newDetailsFixture(store, catalog)

	d, err := ctrl.Get(context.Background(), models.MediaTypeMovie, "7", "A")
	require.NoError(t, err)

	assert.Equal(t, "Seven", d.Item.Title)
	require.NotNil(t, d.Credits)
	assert.Equal(t, "Brad Pitt", d.Credits.Cast[0].Name)
	require.NotNil(t, d.Favorite)
	assert.Equal(t, fav.ID, d.Favorite.ID)
	assert.Nil(t, d.History)
	assert.Equal(t, "https://multiembed.mov/?video_id=7&tmdb=1", d.Player)
	assert.Len(t, d.Servers, 4)
	assert.Empty(t, d.Warnings)
	catalog.AssertExpectations(t)
}

func TestDetailsRejectsInvalidID(t *testing.T) {
	catalog := &mockCatalog{}
	ctrl := newDetailsFixture(newFakeStore(), catalog)

	for _, raw := range []string{"abc", "", "0", "-4", "12x"} {
		_, err := ctrl.Get(context.Background(), models.MediaTypeMovie, raw, "A")
		assert.ErrorIs(t, err, models.ErrInvalidIdentifier, raw)
	}
	catalog.AssertNotCalled(t, "Details", mock.Anything, mock.Anything, mock.Anything)
}

func TestDetailsCatalogFailure(t *testing.T) {
	catalog := &mockCatalog{}
	failure := fmt.Errorf("%w: status 404", models.ErrCatalogRequestFailed)
	catalog.On("Details", mock.Anything, models.MediaTypeMovie, 7).Return(nil, failure)
	catalog.On("Credits", mock.Anything, models.MediaTypeMovie, 7).Return(&models.Credits{}, nil).Maybe()
	catalog.On("Images", mock.Anything, models.MediaTypeMovie, 7).Return(&models.Images{}, nil).Maybe()
	ctrl := newDetailsFixture(newFakeStore(), catalog)

	_, err := ctrl.Get(context.Background(), models.MediaTypeMovie, "7", "")
	assert.ErrorIs(t, err, models.ErrCatalogRequestFailed)
}

func TestDetailsStoreFailureIsAWarning(t *testing.T) {
	store := newFakeStore()
	store.fail("FindRecords", &models.StoreError{Kind: models.StoreUnavailable, Op: "find", Err: errors.New("refused")})
	catalog := &mockCatalog{}
	expectMovie7(catalog)
	ctrl := newDetailsFixture(store, catalog)

	d, err := ctrl.Get(context.Background(), models.MediaTypeMovie, "7", "A")
	require.NoError(t, err)
	assert.Len(t, d.Warnings, 1)
	assert.Equal(t, "Seven", d.Item.Title)
}

func TestDetailsShowSeasons(t *testing.T) {
	store := newFakeStore()
	seedShowHistory(store, "A", models.WatchedSeasons{1: {1, 2}, 2: {4}})
	show := show42
	show.Seasons = []models.SeasonSummary{{SeasonNumber: 0, Name: "Specials"}, {SeasonNumber: 1}, {SeasonNumber: 2}}

	catalog := &mockCatalog{}
	catalog.On("Details", mock.Anything, models.MediaTypeTV, 42).Return(&show, nil)
	catalog.On("Credits", mock.Anything, models.MediaTypeTV, 42).Return(&models.Credits{}, nil)
	catalog.On("Images", mock.Anything, models.MediaTypeTV, 42).Return(&models.Images{}, nil)
	ctrl := newDetailsFixture(store, catalog)

	d, err := ctrl.Get(context.Background(), models.MediaTypeTV, "42", "A")
	require.NoError(t, err)
	require.Len(t, d.Seasons, 2)
	assert.Equal(t, 1, d.Seasons[0].SeasonNumber)
	assert.Equal(t, map[int]int{1: 2, 2: 1}, d.Watched)
	assert.Equal(t, "https://vidlink.pro/tv/42/1-1", d.Player)
}

func TestSeasonViewMarksWatchedEpisodes(t *testing.T) {
	store := newFakeStore()
	seedShowHistory(store, "A", models.WatchedSeasons{1: {1, 3}})
	catalog := &mockCatalog{}
	catalog.On("Season", mock.Anything, 42, 1).Return(&models.Season{
		SeasonNumber: 1,
		Episodes: []models.Episode{
			{SeasonNumber: 1, EpisodeNumber: 1},
			{SeasonNumber: 1, EpisodeNumber: 2},
			{SeasonNumber: 1, EpisodeNumber: 3},
		},
	}, nil)
	ctrl := newDetailsFixture(store, catalog)

	view, err := ctrl.Season(context.Background(), "42", 1, "A", "vidsrc.to")
	require.NoError(t, err)
	require.Len(t, view.Episodes, 3)
	assert.True(t, view.Episodes[0].Watched)
	assert.False(t, view.Episodes[1].Watched)
	assert.True(t, view.Episodes[2].Watched)
	assert.Equal(t, 2, view.Watched)
	assert.Equal(t, "https://vidsrc.to/embed/tv/42/1-2", view.Episodes[1].Player)
}

func TestSeasonViewWithoutProfile(t *testing.T) {
	catalog := &mockCatalog{}
	catalog.On("Season", mock.Anything, 42, 1).Return(&models.Season{
		SeasonNumber: 1,
		Episodes:     []models.Episode{{SeasonNumber: 1, EpisodeNumber: 1}},
	}, nil)
	store := newFakeStore()
	ctrl := newDetailsFixture(store, catalog)

	view, err := ctrl.Season(context.Background(), "42", 1, "", "")
	require.NoError(t, err)
	assert.False(t, view.Episodes[0].Watched)
	reads, _ := store.counts()
	assert.Zero(t, reads)
}

func TestResolveShowPicksClosestName(t *testing.T) {
	catalog := &mockCatalog{}
	catalog.On("Search", mock.Anything, models.MediaTypeTV, "breaking bad", 0, 1).Return(&models.Page{
		Page: 1,
		Results: []models.CatalogItem{
			{ID: 1, Name: "Breaking Bud"},
			{ID: 1396, Name: "Ruptura Total", OriginalName: "Breaking Bad"},
			{ID: 3, Name: "Breaking In"},
		},
	}, nil)
	ctrl := newDetailsFixture(newFakeStore(), catalog)

	show, err := ctrl.ResolveShow(context.Background(), " breaking bad ")
	require.NoError(t, err)
	assert.Equal(t, 1396, show.ID)
	assert.Equal(t, models.MediaTypeTV, show.MediaType)
}

func TestResolveShowNoMatch(t *testing.T) {
	catalog := &mockCatalog{}
	catalog.On("Search", mock.Anything, models.MediaTypeTV, "zzz", 0, 1).Return(&models.Page{Page: 1}, nil)
	ctrl := newDetailsFixture(newFakeStore(), catalog)

	_, err := ctrl.ResolveShow(context.Background(), "zzz")
	assert.ErrorIs(t, err, models.ErrInvalidIdentifier)
}
