package controllers

import (
	"context"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/amaumene/cinesync/internal/models"
	"github.com/amaumene/cinesync/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"
)

// DetailsController assembles detail pages from the catalog and the
// profile's favorite and history records
type DetailsController struct {
	catalog   Catalog
	favorites *FavoritesController
	history   *HistoryController
	logger    *logrus.Logger
}

// Details is a movie or show page
type Details struct {
	Item     models.CatalogItem     `json:"item"`
	Credits  *models.Credits        `json:"credits"`
	Images   *models.Images         `json:"images"`
	Favorite *models.FavoriteRecord `json:"favorite"`
	History  *models.HistoryRecord  `json:"history"`
	Seasons  []models.SeasonSummary `json:"seasons,omitempty"`
	Servers  []utils.EmbedServer    `json:"servers"`
	Player   string                 `json:"player"`
	Watched  map[int]int            `json:"watchedBySeason,omitempty"`
	Warnings []string               `json:"warnings,omitempty"`
}

// EpisodeState is an episode with its watched flag
type EpisodeState struct {
	models.Episode
	Watched bool   `json:"watched"`
	Player  string `json:"player"`
}

// SeasonView is one season of a show for the current profile
type SeasonView struct {
	ShowID   int            `json:"showId"`
	Season   models.Season  `json:"season"`
	Episodes []EpisodeState `json:"episodes"`
	Watched  int            `json:"watched"`
}

// NewDetailsController creates a new details controller
func NewDetailsController(catalog Catalog, favorites *FavoritesController, history *HistoryController, logger *logrus.Logger) *DetailsController {
	return &DetailsController{
		catalog:   catalog,
		favorites: favorites,
		history:   history,
		logger:    logger,
	}
}

// Get loads the detail page of rawID. Catalog failures fail the page.
// Store lookups that fail leave the favorite/history state unknown and are
// reported as warnings.
func (c *DetailsController) Get(ctx context.Context, mediaType models.MediaType, rawID string, profileID models.ID) (*Details, error) {
	if !mediaType.Valid() {
		return nil, fmt.Errorf("%w: media type %q", models.ErrInvalidIdentifier, mediaType)
	}
	id, err := models.ParseTMDBID(rawID)
	if err != nil {
		return nil, err
	}

	out := &Details{}
	var (
		favErr  error
		histErr error
	)

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		item, err := c.catalog.Details(ctx, mediaType, id)
		if err != nil {
			return err
		}
		out.Item = *item
		return nil
	})
	p.Go(func(ctx context.Context) error {
		credits, err := c.catalog.Credits(ctx, mediaType, id)
		out.Credits = credits
		return err
	})
	p.Go(func(ctx context.Context) error {
		images, err := c.catalog.Images(ctx, mediaType, id)
		out.Images = images
		return err
	})
	if profileID != "" {
		p.Go(func(ctx context.Context) error {
			out.Favorite, favErr = c.favorites.Find(ctx, profileID, id, mediaType)
			return nil
		})
		p.Go(func(ctx context.Context) error {
			out.History, histErr = c.history.Find(ctx, profileID, id, mediaType)
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	for _, e := range []error{favErr, histErr} {
		if e != nil {
			c.logger.WithError(e).WithField("tmdb_id", id).Warn("Profile state unavailable for details page")
			out.Warnings = append(out.Warnings, e.Error())
		}
	}

	out.Servers = utils.ServersFor(mediaType)
	if mediaType == models.MediaTypeTV {
		out.Seasons = out.Item.VisibleSeasons()
		out.Player = out.Servers[0].PlayerURL(id, 1, 1)
		if out.History != nil {
			out.Watched = make(map[int]int, len(out.History.WatchedSeasons))
			for season, episodes := range out.History.WatchedSeasons {
				out.Watched[season] = len(episodes)
			}
		}
	} else {
		out.Player = out.Servers[0].PlayerURL(id, 0, 0)
	}

	return out, nil
}

// Season lists the episodes of one season with their watched flags
func (c *DetailsController) Season(ctx context.Context, rawShowID string, seasonNumber int, profileID models.ID, server string) (*SeasonView, error) {
	showID, err := models.ParseTMDBID(rawShowID)
	if err != nil {
		return nil, err
	}
	if seasonNumber < 0 {
		return nil, fmt.Errorf("%w: season %d", models.ErrInvalidEpisode, seasonNumber)
	}

	var (
		season *models.Season
		record *models.HistoryRecord
	)
	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		var err error
		season, err = c.catalog.Season(ctx, showID, seasonNumber)
		return err
	})
	if profileID != "" {
		p.Go(func(ctx context.Context) error {
			var err error
			record, err = c.history.Find(ctx, profileID, showID, models.MediaTypeTV)
			return err
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	var watched models.WatchedSeasons
	if record != nil {
		watched = record.WatchedSeasons
	}

	player := utils.FindServer(models.MediaTypeTV, server)
	view := &SeasonView{
		ShowID:   showID,
		Season:   *season,
		Episodes: make([]EpisodeState, 0, len(season.Episodes)),
	}
	for _, ep := range season.Episodes {
		seen := watched.Has(season.SeasonNumber, ep.EpisodeNumber)
		if seen {
			view.Watched++
		}
		view.Episodes = append(view.Episodes, EpisodeState{
			Episode: ep,
			Watched: seen,
			Player:  player.PlayerURL(showID, season.SeasonNumber, ep.EpisodeNumber),
		})
	}
	return view, nil
}

// ResolveShow finds the show whose name is closest to title
func (c *DetailsController) ResolveShow(ctx context.Context, title string) (*models.CatalogItem, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: empty title", models.ErrInvalidIdentifier)
	}

	page, err := c.catalog.Search(ctx, models.MediaTypeTV, title, 0, 1)
	if err != nil {
		return nil, err
	}
	if len(page.Results) == 0 {
		return nil, fmt.Errorf("%w: no show matches %q", models.ErrInvalidIdentifier, title)
	}

	want := strings.ToLower(title)
	best, bestDistance := 0, -1
	for i, item := range page.Results {
		for _, name := range []string{item.DisplayTitle(), item.OriginalName} {
			if name == "" {
				continue
			}
			d := levenshtein.ComputeDistance(want, strings.ToLower(name))
			if bestDistance < 0 || d < bestDistance {
				best, bestDistance = i, d
			}
		}
	}

	match := page.Results[best]
	match.MediaType = models.MediaTypeTV
	c.logger.WithFields(logrus.Fields{
		"title":    title,
		"tmdb_id":  match.ID,
		"name":     match.DisplayTitle(),
		"distance": bestDistance,
	}).Debug("Resolved show title")
	return &match, nil
}
