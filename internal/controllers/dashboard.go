package controllers

import (
	"context"
	"sort"

	"github.com/amaumene/cinesync/internal/models"
	"github.com/sirupsen/logrus"
)

const topGenreCount = 10

// GenreCount is how many favorites carry a genre name. Movie and show
// genres sharing a name are one entry; ID is the lowest id seen for it.
type GenreCount struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Dashboard summarizes a profile's favorites
type Dashboard struct {
	Total     int          `json:"total"`
	Movies    int          `json:"movies"`
	Shows     int          `json:"shows"`
	TopGenres []GenreCount `json:"topGenres"`
}

// DashboardController computes favorite statistics
type DashboardController struct {
	favorites *FavoritesController
	genres    GenreDirectory
	logger    *logrus.Logger
}

// NewDashboardController creates a new dashboard controller
func NewDashboardController(favorites *FavoritesController, genres GenreDirectory, logger *logrus.Logger) *DashboardController {
	return &DashboardController{
		favorites: favorites,
		genres:    genres,
		logger:    logger,
	}
}

// Get computes the dashboard of profileID. Genres whose name is unknown to
// both reference lists are not counted.
func (c *DashboardController) Get(ctx context.Context, profileID models.ID) (*Dashboard, error) {
	if profileID == "" {
		return nil, models.ErrNoProfile
	}

	records, err := c.favorites.All(ctx, profileID)
	if err != nil {
		return nil, err
	}

	names, err := c.genres.GenreNames(ctx)
	if err != nil {
		return nil, err
	}

	out := &Dashboard{Total: len(records), TopGenres: []GenreCount{}}
	counts := make(map[string]*GenreCount)
	for _, rec := range records {
		switch rec.MediaType {
		case models.MediaTypeMovie:
			out.Movies++
		case models.MediaTypeTV:
			out.Shows++
		}
		for _, g := range rec.Genres {
			name, ok := names[g.ID]
			if !ok {
				continue
			}
			gc, seen := counts[name]
			if !seen {
				gc = &GenreCount{ID: g.ID, Name: name}
				counts[name] = gc
			}
			if g.ID < gc.ID {
				gc.ID = g.ID
			}
			gc.Count++
		}
	}

	for _, gc := range counts {
		out.TopGenres = append(out.TopGenres, *gc)
	}
	sort.Slice(out.TopGenres, func(i, j int) bool {
		a, b := out.TopGenres[i], out.TopGenres[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Name < b.Name
	})
	if len(out.TopGenres) > topGenreCount {
		out.TopGenres = out.TopGenres[:topGenreCount]
	}

	c.logger.WithFields(logrus.Fields{
		"profile_id": profileID,
		"total":      out.Total,
	}).Debug("Dashboard computed")
	return out, nil
}
