package tmdb

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/amaumene/cinesync/internal/models"
	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ReferenceSource is the part of the catalog the reference lists come from
type ReferenceSource interface {
	Genres(ctx context.Context, mediaType models.MediaType) ([]models.Genre, error)
	Countries(ctx context.Context) ([]models.Country, error)
	Languages(ctx context.Context) ([]models.Language, error)
}

// ReferenceCache keeps the genre, country and language lists in memory.
// Countries are ordered by native name and languages by English name using
// the collation rules of the display locale.
type ReferenceCache struct {
	source ReferenceSource
	cache  *gocache.Cache
	tag    language.Tag
	mu     sync.Mutex // collate.Collator is not safe for concurrent use
	coll   *collate.Collator
	logger *logrus.Logger
}

// NewReferenceCache creates a cache whose entries live for ttl
func NewReferenceCache(source ReferenceSource, locale string, ttl time.Duration, logger *logrus.Logger) *ReferenceCache {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Und
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &ReferenceCache{
		source: source,
		cache:  gocache.New(ttl, ttl/2),
		tag:    tag,
		coll:   collate.New(tag, collate.IgnoreCase),
		logger: logger,
	}
}

// Genres returns the genre list for mediaType
func (r *ReferenceCache) Genres(ctx context.Context, mediaType models.MediaType) ([]models.Genre, error) {
	key := "genres:" + string(mediaType)
	if v, ok := r.cache.Get(key); ok {
		return v.([]models.Genre), nil
	}
	genres, err := r.source.Genres(ctx, mediaType)
	if err != nil {
		return nil, err
	}
	r.cache.SetDefault(key, genres)
	return genres, nil
}

// GenreNames maps every movie and show genre id to its name
func (r *ReferenceCache) GenreNames(ctx context.Context) (map[int]string, error) {
	names := make(map[int]string)
	for _, mt := range []models.MediaType{models.MediaTypeMovie, models.MediaTypeTV} {
		genres, err := r.Genres(ctx, mt)
		if err != nil {
			return nil, err
		}
		for _, g := range genres {
			names[g.ID] = g.Name
		}
	}
	return names, nil
}

// Countries returns the country list ordered by native name
func (r *ReferenceCache) Countries(ctx context.Context) ([]models.Country, error) {
	if v, ok := r.cache.Get("countries"); ok {
		return v.([]models.Country), nil
	}
	countries, err := r.source.Countries(ctx)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	sort.SliceStable(countries, func(i, j int) bool {
		return r.coll.CompareString(countries[i].NativeName, countries[j].NativeName) < 0
	})
	r.mu.Unlock()

	r.cache.SetDefault("countries", countries)
	return countries, nil
}

// Languages returns the language list ordered by English name
func (r *ReferenceCache) Languages(ctx context.Context) ([]models.Language, error) {
	if v, ok := r.cache.Get("languages"); ok {
		return v.([]models.Language), nil
	}
	languages, err := r.source.Languages(ctx)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	sort.SliceStable(languages, func(i, j int) bool {
		return r.coll.CompareString(languages[i].EnglishName, languages[j].EnglishName) < 0
	})
	r.mu.Unlock()

	r.cache.SetDefault("languages", languages)
	return languages, nil
}

// Refresh drops every entry and loads all lists again
func (r *ReferenceCache) Refresh(ctx context.Context) error {
	r.cache.Flush()

	var failed int
	for _, mt := range []models.MediaType{models.MediaTypeMovie, models.MediaTypeTV} {
		if _, err := r.Genres(ctx, mt); err != nil {
			r.logger.WithError(err).WithField("media_type", mt).Warn("Failed to load genres")
			failed++
		}
	}
	if _, err := r.Countries(ctx); err != nil {
		r.logger.WithError(err).Warn("Failed to load countries")
		failed++
	}
	if _, err := r.Languages(ctx); err != nil {
		r.logger.WithError(err).Warn("Failed to load languages")
		failed++
	}

	if failed > 0 {
		return fmt.Errorf("%d reference lists failed to load", failed)
	}
	r.logger.WithField("items", r.cache.ItemCount()).Info("Reference lists refreshed")
	return nil
}
