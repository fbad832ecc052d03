package tmdb

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/amaumene/cinesync/internal/models"
)

// ListKind names a curated catalog list
type ListKind string

const (
	ListPopular    ListKind = "popular"
	ListTrending   ListKind = "trending"
	ListTopRated   ListKind = "top_rated"
	ListUpcoming   ListKind = "upcoming"
	ListNowPlaying ListKind = "now_playing"
	ListOnTheAir   ListKind = "on_the_air"
)

// listPath maps a list to its endpoint. upcoming and now_playing exist only
// for movies, on_the_air only for shows.
func listPath(mediaType models.MediaType, kind ListKind) (string, error) {
	mp, err := mediaPath(mediaType)
	if err != nil {
		return "", err
	}
	switch kind {
	case ListPopular, ListTopRated:
		return "/" + mp + "/" + string(kind), nil
	case ListTrending:
		return "/trending/" + mp + "/week", nil
	case ListUpcoming, ListNowPlaying:
		if mediaType == models.MediaTypeMovie {
			return "/movie/" + string(kind), nil
		}
	case ListOnTheAir:
		if mediaType == models.MediaTypeTV {
			return "/tv/on_the_air", nil
		}
	}
	return "", fmt.Errorf("%w: list %q is not available for %s", models.ErrInvalidIdentifier, kind, mediaType)
}

// List returns one page of a curated list
func (c *Client) List(ctx context.Context, mediaType models.MediaType, kind ListKind, page int) (*models.Page, error) {
	path, err := listPath(mediaType, kind)
	if err != nil {
		return nil, err
	}
	params := url.Values{}
	if page > 1 {
		params.Set("page", strconv.Itoa(page))
	}
	return c.page(ctx, "list", path, params, mediaType)
}

// Details returns a movie or show
func (c *Client) Details(ctx context.Context, mediaType models.MediaType, id int) (*models.CatalogItem, error) {
	mp, err := mediaPath(mediaType)
	if err != nil {
		return nil, err
	}

	var item models.CatalogItem
	if err := c.get(ctx, "details", fmt.Sprintf("/%s/%d", mp, id), nil, &item); err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return nil, fmt.Errorf("%w: incomplete details for %s %d", models.ErrCatalogRequestFailed, mediaType, id)
	}
	item.MediaType = mediaType
	return &item, nil
}

// Credits returns the cast and crew of a movie or show
func (c *Client) Credits(ctx context.Context, mediaType models.MediaType, id int) (*models.Credits, error) {
	mp, err := mediaPath(mediaType)
	if err != nil {
		return nil, err
	}

	var credits models.Credits
	if err := c.get(ctx, "credits", fmt.Sprintf("/%s/%d/credits", mp, id), nil, &credits); err != nil {
		return nil, err
	}
	return &credits, nil
}

// Images returns the artwork of a movie or show in the display language and
// language-neutral artwork
func (c *Client) Images(ctx context.Context, mediaType models.MediaType, id int) (*models.Images, error) {
	mp, err := mediaPath(mediaType)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	if lang, _, _ := strings.Cut(c.language, "-"); lang != "" {
		params.Set("include_image_language", lang+",null")
	}

	var images models.Images
	if err := c.get(ctx, "images", fmt.Sprintf("/%s/%d/images", mp, id), params, &images); err != nil {
		return nil, err
	}
	return &images, nil
}

// Season returns one season of a show with its episodes
func (c *Client) Season(ctx context.Context, showID, seasonNumber int) (*models.Season, error) {
	var season models.Season
	if err := c.get(ctx, "season", fmt.Sprintf("/tv/%d/season/%d", showID, seasonNumber), nil, &season); err != nil {
		return nil, err
	}
	return &season, nil
}

// Search finds movies or shows by text. year narrows by release (movies) or
// first air date (shows) when positive.
func (c *Client) Search(ctx context.Context, mediaType models.MediaType, query string, year, page int) (*models.Page, error) {
	mp, err := mediaPath(mediaType)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("query", query)
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}
	if year > 0 {
		if mediaType == models.MediaTypeMovie {
			params.Set("primary_release_year", strconv.Itoa(year))
		} else {
			params.Set("first_air_date_year", strconv.Itoa(year))
		}
	}
	return c.page(ctx, "search", "/search/"+mp, params, mediaType)
}

// Discover lists movies or shows matching filters
func (c *Client) Discover(ctx context.Context, mediaType models.MediaType, filters models.DiscoverFilters, page int) (*models.Page, error) {
	mp, err := mediaPath(mediaType)
	if err != nil {
		return nil, err
	}
	params := DiscoverParams(mediaType, filters)
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}
	return c.page(ctx, "discover", "/discover/"+mp, params, mediaType)
}

// DiscoverParams maps filters to upstream query parameters, omitting empty ones
func DiscoverParams(mediaType models.MediaType, filters models.DiscoverFilters) url.Values {
	yearKey := "primary_release_year"
	if mediaType == models.MediaTypeTV {
		yearKey = "first_air_date_year"
	}

	params := url.Values{}
	for key, value := range map[string]string{
		"with_genres":            filters.Genre,
		yearKey:                  filters.Year,
		"with_origin_country":    filters.Country,
		"with_original_language": filters.Language,
		"sort_by":                filters.SortBy,
	} {
		if value != "" {
			params.Set(key, value)
		}
	}
	return params
}

// Genres returns the official genre list of a media type
func (c *Client) Genres(ctx context.Context, mediaType models.MediaType) ([]models.Genre, error) {
	mp, err := mediaPath(mediaType)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Genres []models.Genre `json:"genres"`
	}
	if err := c.get(ctx, "genres", "/genre/"+mp+"/list", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Genres, nil
}

// Countries returns the supported countries
func (c *Client) Countries(ctx context.Context) ([]models.Country, error) {
	var countries []models.Country
	if err := c.get(ctx, "countries", "/configuration/countries", nil, &countries); err != nil {
		return nil, err
	}
	return countries, nil
}

// Languages returns the supported languages
func (c *Client) Languages(ctx context.Context) ([]models.Language, error) {
	var languages []models.Language
	if err := c.get(ctx, "languages", "/configuration/languages", nil, &languages); err != nil {
		return nil, err
	}
	return languages, nil
}

func (c *Client) page(ctx context.Context, endpoint, path string, params url.Values, mediaType models.MediaType) (*models.Page, error) {
	var page models.Page
	if err := c.get(ctx, endpoint, path, params, &page); err != nil {
		return nil, err
	}
	for i := range page.Results {
		if page.Results[i].MediaType == "" {
			page.Results[i].MediaType = mediaType
		}
	}
	return &page, nil
}
