package controllers

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/amaumene/cinesync/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testDebounce = 50 * time.Millisecond

func discoverPage(page, total int, ids ...int) *models.Page {
	p := &models.Page{Page: page, TotalPages: total}
	for _, id := range ids {
		p.Results = append(p.Results, models.CatalogItem{ID: id, Name: fmt.Sprintf("Show %d", id)})
	}
	return p
}

func settled(b *Browser) func() bool {
	return func() bool {
		v := b.View()
		return !v.Loading && (v.Results != nil || v.Error != "")
	}
}

func TestBrowserDebouncesDiscovery(t *testing.T) {
	catalog := &mockCatalog{}
	catalog.On("Discover", mock.Anything, models.MediaTypeTV, mock.Anything, 1).Return(discoverPage(1, 9001, 1, 2), nil)

	b := NewBrowser(catalog, models.MediaTypeTV, testDebounce, quietLogger())
	defer b.Close()
	require.NoError(t, b.SetFilter("genre", "18"))
	require.NoError(t, b.SetFilter("year", "2020"))

	assert.True(t, b.View().Loading)
	require.Eventually(t, settled(b), time.Second, 5*time.Millisecond)

	v := b.View()
	assert.Equal(t, ModeDiscovery, v.Mode)
	assert.Equal(t, models.MaxCatalogPages, v.TotalPages)
	assert.Len(t, v.Results, 2)

	catalog.AssertNumberOfCalls(t, "Discover", 1)
	catalog.AssertCalled(t, "Discover", mock.Anything, models.MediaTypeTV, models.DiscoverFilters{
		Genre:  "18",
		Year:   "2020",
		SortBy: models.DefaultSortBy,
	}, 1)
}

func TestBrowserFilterChangeResetsPage(t *testing.T) {
	catalog := &mockCatalog{}
	catalog.On("Discover", mock.Anything, models.MediaTypeMovie, mock.Anything, 3).Return(discoverPage(3, 10, 30), nil)
	catalog.On("Discover", mock.Anything, models.MediaTypeMovie, mock.Anything, 1).Return(discoverPage(1, 10, 10), nil)

	b := NewBrowser(catalog, models.MediaTypeMovie, testDebounce, quietLogger())
	defer b.Close()
	require.Eventually(t, settled(b), time.Second, 5*time.Millisecond)

	require.NoError(t, b.SetPage(context.Background(), 3))
	require.Eventually(t, func() bool { return b.View().Page == 3 && !b.View().Loading }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 30, b.View().Results[0].ID)

	require.NoError(t, b.SetFilter("country", "PT"))
	assert.Equal(t, 1, b.View().Page)
	assert.Zero(t, b.View().TotalPages)
	require.Eventually(t, settled(b), time.Second, 5*time.Millisecond)
	assert.Equal(t, 10, b.View().TotalPages)

	assert.ErrorIs(t, b.SetPage(context.Background(), 11), models.ErrInvalidIdentifier)
	assert.ErrorIs(t, b.SetPage(context.Background(), 0), models.ErrInvalidIdentifier)
	assert.ErrorIs(t, b.SetFilter("rating", "5"), models.ErrInvalidIdentifier)
}

func TestBrowserPageCheckWaitsForNewFilters(t *testing.T) {
	genre := models.DiscoverFilters{Genre: "18", SortBy: models.DefaultSortBy}
	catalog := &mockCatalog{}
	catalog.On("Discover", mock.Anything, models.MediaTypeMovie, models.DefaultDiscoverFilters(), 1).Return(discoverPage(1, 2, 10), nil)
	catalog.On("Discover", mock.Anything, models.MediaTypeMovie, genre, 12).Return(discoverPage(12, 40, 120), nil)

	b := NewBrowser(catalog, models.MediaTypeMovie, testDebounce, quietLogger())
	defer b.Close()
	require.Eventually(t, settled(b), time.Second, 5*time.Millisecond)
	assert.Equal(t, 2, b.View().TotalPages)

	require.NoError(t, b.SetFilter("genre", "18"))
	assert.ErrorIs(t, b.SetPage(context.Background(), models.MaxCatalogPages+1), models.ErrInvalidIdentifier)
	require.NoError(t, b.SetPage(context.Background(), 12))

	require.Eventually(t, func() bool {
		v := b.View()
		return !v.Loading && v.Page == 12 && len(v.Results) == 1 && v.Results[0].ID == 120
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 40, b.View().TotalPages)
	catalog.AssertNotCalled(t, "Discover", mock.Anything, models.MediaTypeMovie, genre, 1)
}

func TestBrowserModesKeepSeparateCursors(t *testing.T) {
	catalog := &mockCatalog{}
	catalog.On("Discover", mock.Anything, models.MediaTypeTV, mock.Anything, 2).Return(discoverPage(2, 5, 20), nil)
	catalog.On("Discover", mock.Anything, models.MediaTypeTV, mock.Anything, 1).Return(discoverPage(1, 5, 10), nil)
	catalog.On("Search", mock.Anything, models.MediaTypeTV, "lost", 0, 1).Return(discoverPage(1, 2, 100), nil)
	catalog.On("Search", mock.Anything, models.MediaTypeTV, "lost", 0, 2).Return(discoverPage(2, 2, 200), nil)
	ctx := context.Background()

	b := NewBrowser(catalog, models.MediaTypeTV, testDebounce, quietLogger())
	defer b.Close()
	require.Eventually(t, settled(b), time.Second, 5*time.Millisecond)
	require.NoError(t, b.SetPage(ctx, 2))
	require.Eventually(t, func() bool { v := b.View(); return v.Page == 2 && !v.Loading }, time.Second, 5*time.Millisecond)

	require.NoError(t, b.Search(ctx, "  lost ", 0))
	v := b.View()
	assert.Equal(t, ModeSearch, v.Mode)
	assert.Equal(t, "lost", v.Term)
	assert.Equal(t, 1, v.Page)
	assert.Equal(t, 100, v.Results[0].ID)

	require.NoError(t, b.SetPage(ctx, 2))
	assert.Equal(t, 200, b.View().Results[0].ID)

	b.SetFilters(models.DiscoverFilters{Genre: "35"})
	assert.Equal(t, ModeSearch, b.View().Mode, "filter changes do not leave search")

	b.ClearSearch()
	v = b.View()
	assert.Equal(t, ModeDiscovery, v.Mode)
	assert.Empty(t, v.Term)
	assert.Equal(t, "35", v.Filters.Genre)
	assert.Equal(t, 1, v.Page, "the filter change reset the discovery page")
	require.Eventually(t, settled(b), time.Second, 5*time.Millisecond)

	catalog.AssertNumberOfCalls(t, "Search", 2)
	catalog.AssertNumberOfCalls(t, "Discover", 3)
}

func TestBrowserClearResumesDiscoveryPage(t *testing.T) {
	catalog := &mockCatalog{}
	catalog.On("Discover", mock.Anything, models.MediaTypeTV, mock.Anything, 4).Return(discoverPage(4, 9, 40), nil)
	catalog.On("Discover", mock.Anything, models.MediaTypeTV, mock.Anything, 1).Return(discoverPage(1, 9, 10), nil)
	catalog.On("Search", mock.Anything, models.MediaTypeTV, "dark", 0, 1).Return(discoverPage(1, 1, 7), nil)
	ctx := context.Background()

	b := NewBrowser(catalog, models.MediaTypeTV, testDebounce, quietLogger())
	defer b.Close()
	require.Eventually(t, settled(b), time.Second, 5*time.Millisecond)
	require.NoError(t, b.SetPage(ctx, 4))
	require.Eventually(t, func() bool { v := b.View(); return v.Page == 4 && !v.Loading }, time.Second, 5*time.Millisecond)

	require.NoError(t, b.Search(ctx, "dark", 0))
	require.NoError(t, b.Search(ctx, "", 0))

	v := b.View()
	assert.Equal(t, ModeDiscovery, v.Mode)
	assert.Equal(t, 4, v.Page)
	require.Eventually(t, settled(b), time.Second, 5*time.Millisecond)
	assert.Equal(t, 40, b.View().Results[0].ID)
}

func TestBrowserSearchFailure(t *testing.T) {
	catalog := &mockCatalog{}
	catalog.On("Discover", mock.Anything, models.MediaTypeMovie, mock.Anything, 1).Return(discoverPage(1, 1, 1), nil).Maybe()
	catalog.On("Search", mock.Anything, models.MediaTypeMovie, "boom", 1999, 1).Return(nil, fmt.Errorf("%w: status 500", models.ErrCatalogRequestFailed))

	b := NewBrowser(catalog, models.MediaTypeMovie, testDebounce, quietLogger())
	defer b.Close()

	err := b.Search(context.Background(), "boom", 1999)
	assert.ErrorIs(t, err, models.ErrCatalogRequestFailed)

	v := b.View()
	assert.Equal(t, ModeSearch, v.Mode)
	assert.Equal(t, 1999, v.Year)
	assert.Nil(t, v.Results)
	assert.Contains(t, v.Error, "status 500")
}

func TestBrowserDiscoveryFailure(t *testing.T) {
	catalog := &mockCatalog{}
	catalog.On("Discover", mock.Anything, models.MediaTypeTV, mock.Anything, 1).Return(nil, fmt.Errorf("%w: timeout", models.ErrCatalogRequestFailed))

	b := NewBrowser(catalog, models.MediaTypeTV, testDebounce, quietLogger())
	defer b.Close()
	require.Eventually(t, settled(b), time.Second, 5*time.Millisecond)
	assert.Contains(t, b.View().Error, "timeout")
}

func TestBrowserCloseStopsPendingFetch(t *testing.T) {
	catalog := &mockCatalog{}
	b := NewBrowser(catalog, models.MediaTypeTV, testDebounce, quietLogger())
	b.Close()

	time.Sleep(3 * testDebounce)
	catalog.AssertNotCalled(t, "Discover", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
