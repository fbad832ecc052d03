package controllers

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/amaumene/cinesync/internal/models"
	"github.com/sirupsen/logrus"
)

// BrowseMode is the active mode of a Browser
type BrowseMode string

const (
	ModeDiscovery BrowseMode = "discovery"
	ModeSearch    BrowseMode = "search"
)

// BrowseView is what a Browser currently shows. Only the active mode's
// state is exposed.
type BrowseView struct {
	Mode       BrowseMode             `json:"mode"`
	MediaType  models.MediaType       `json:"mediaType"`
	Term       string                 `json:"term,omitempty"`
	Year       int                    `json:"year,omitempty"`
	Filters    models.DiscoverFilters `json:"filters"`
	Page       int                    `json:"page"`
	TotalPages int                    `json:"totalPages"`
	Results    []models.CatalogItem   `json:"results"`
	Loading    bool                   `json:"loading"`
	Error      string                 `json:"error,omitempty"`
}

type cursor struct {
	page       int
	totalPages int
	results    []models.CatalogItem
	loading    bool
	err        error
}

func (c *cursor) apply(page *models.Page, err error) {
	c.loading = false
	if err != nil {
		c.err = err
		c.results = nil
		return
	}
	c.err = nil
	c.results = page.Results
	if c.results == nil {
		c.results = []models.CatalogItem{}
	}
	c.totalPages = page.ClampedTotalPages()
	if page.Page > 0 {
		c.page = page.Page
	}
}

// Browser is the paginated Discovery/Search state machine for one media
// type. Discovery fetches are debounced after the last filter or page
// change. Search fetches run on explicit submit. Each mode keeps its own
// cursor, so leaving Search resumes Discovery where it was.
type Browser struct {
	catalog   Catalog
	mediaType models.MediaType
	debounce  time.Duration
	logger    *logrus.Logger

	mu        sync.Mutex
	mode      BrowseMode
	filters   models.DiscoverFilters
	discovery cursor
	term      string
	year      int
	search    cursor
	timer     *time.Timer
	cancel    context.CancelFunc
	gen       uint64
	closed    bool
}

// NewBrowser starts a Browser in Discovery mode on page 1 with default
// filters and schedules the first discovery fetch
func NewBrowser(catalog Catalog, mediaType models.MediaType, debounce time.Duration, logger *logrus.Logger) *Browser {
	b := &Browser{
		catalog:   catalog,
		mediaType: mediaType,
		debounce:  debounce,
		logger:    logger,
		mode:      ModeDiscovery,
		filters:   models.DefaultDiscoverFilters(),
		discovery: cursor{page: 1},
		search:    cursor{page: 1},
	}

	b.mu.Lock()
	b.scheduleLocked()
	b.mu.Unlock()
	return b
}

// View returns the current state
func (b *Browser) View() BrowseView {
	b.mu.Lock()
	defer b.mu.Unlock()

	v := BrowseView{
		Mode:      b.mode,
		MediaType: b.mediaType,
		Filters:   b.filters,
	}
	c := &b.discovery
	if b.mode == ModeSearch {
		c = &b.search
		v.Term = b.term
		v.Year = b.year
	}
	v.Page = c.page
	v.TotalPages = c.totalPages
	v.Results = c.results
	v.Loading = c.loading
	if c.err != nil {
		v.Error = c.err.Error()
	}
	return v
}

// SetFilters replaces the discovery filters and resets the discovery page
// to 1. While searching the change is kept for when Discovery resumes.
func (b *Browser) SetFilters(filters models.DiscoverFilters) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if filters.SortBy == "" {
		filters.SortBy = models.DefaultSortBy
	}
	if filters == b.filters {
		return
	}
	b.filters = filters
	b.discovery.page = 1
	b.discovery.totalPages = 0
	b.scheduleLocked()
}

// SetFilter changes one discovery filter by name
func (b *Browser) SetFilter(name, value string) error {
	b.mu.Lock()
	filters := b.filters
	b.mu.Unlock()

	value = strings.TrimSpace(value)
	switch name {
	case "genre":
		filters.Genre = value
	case "year":
		filters.Year = value
	case "country":
		filters.Country = value
	case "language":
		filters.Language = value
	case "sort_by":
		filters.SortBy = value
	default:
		return fmt.Errorf("%w: unknown filter %q", models.ErrInvalidIdentifier, name)
	}
	b.SetFilters(filters)
	return nil
}

// SetPage moves the cursor of the active mode. Discovery pages are fetched
// after the debounce, search pages immediately. Until the first page of a
// new filter set lands its page count is unknown and only the catalog
// maximum applies.
func (b *Browser) SetPage(ctx context.Context, page int) error {
	b.mu.Lock()

	c := &b.discovery
	if b.mode == ModeSearch {
		c = &b.search
	}
	if page < 1 || page > models.MaxCatalogPages || (c.totalPages > 0 && page > c.totalPages) {
		b.mu.Unlock()
		return fmt.Errorf("%w: page %d out of range", models.ErrInvalidIdentifier, page)
	}
	if b.mode == ModeDiscovery {
		c.page = page
		b.scheduleLocked()
		b.mu.Unlock()
		return nil
	}

	term, year := b.term, b.year
	b.mu.Unlock()
	return b.runSearch(ctx, term, year, page)
}

// Search enters Search mode with term and fetches its first page. An empty
// term clears the search instead.
func (b *Browser) Search(ctx context.Context, term string, year int) error {
	term = strings.TrimSpace(term)
	if term == "" {
		b.ClearSearch()
		return nil
	}

	b.mu.Lock()
	b.stopLocked()
	b.mode = ModeSearch
	b.term = term
	b.year = year
	b.search = cursor{page: 1}
	b.mu.Unlock()

	return b.runSearch(ctx, term, year, 1)
}

// ClearSearch returns to Discovery, resuming at its last page
func (b *Browser) ClearSearch() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.mode == ModeDiscovery {
		return
	}
	b.mode = ModeDiscovery
	b.term = ""
	b.year = 0
	b.search = cursor{page: 1}
	b.scheduleLocked()
}

// Close stops pending and in-flight discovery fetches
func (b *Browser) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.stopLocked()
}

func (b *Browser) runSearch(ctx context.Context, term string, year, page int) error {
	b.mu.Lock()
	b.gen++
	gen := b.gen
	b.search.loading = true
	b.mu.Unlock()

	result, err := b.catalog.Search(ctx, b.mediaType, term, year, page)

	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.gen || b.mode != ModeSearch || b.term != term {
		return err
	}
	b.search.page = page
	b.search.apply(result, err)
	if err != nil {
		b.logger.WithError(err).WithField("term", term).Warn("Search failed")
	}
	return err
}

// scheduleLocked (re)arms the debounce timer for a discovery fetch.
// b.mu must be held.
func (b *Browser) scheduleLocked() {
	if b.closed || b.mode != ModeDiscovery {
		return
	}
	b.stopLocked()
	b.gen++
	gen := b.gen
	b.discovery.loading = true
	b.timer = time.AfterFunc(b.debounce, func() { b.runDiscovery(gen) })
}

// stopLocked cancels the pending timer and any in-flight fetch
func (b *Browser) stopLocked() {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
	b.discovery.loading = false
}

func (b *Browser) runDiscovery(gen uint64) {
	b.mu.Lock()
	if gen != b.gen || b.closed || b.mode != ModeDiscovery {
		b.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel
	filters, page := b.filters, b.discovery.page
	b.discovery.loading = true
	b.mu.Unlock()

	result, err := b.catalog.Discover(ctx, b.mediaType, filters, page)
	cancel()

	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.gen || b.closed || b.mode != ModeDiscovery {
		return
	}
	b.cancel = nil
	b.discovery.apply(result, err)
	if err != nil {
		b.logger.WithError(err).WithFields(logrus.Fields{
			"media_type": b.mediaType,
			"page":       page,
		}).Warn("Discovery failed")
	}
}
