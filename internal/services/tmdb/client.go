package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/amaumene/cinesync/internal/config"
	"github.com/amaumene/cinesync/internal/models"
	"github.com/amaumene/cinesync/internal/utils"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"
)

// Client wraps the TMDB v3 API. Every request carries the configured display
// locale. Failures are wrapped with models.ErrCatalogRequestFailed and never
// retried.
type Client struct {
	baseURL    string
	apiKey     string
	language   string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *logrus.Logger
}

// NewClient creates a new TMDB client
func NewClient(cfg *config.Config, logger *logrus.Logger) (*Client, error) {
	if cfg.TMDBAPIKey == "" {
		return nil, fmt.Errorf("TMDB API key is required")
	}

	baseURL := cfg.TMDBBaseURL
	if baseURL == "" {
		baseURL = "https://api.themoviedb.org/3"
	}

	limit := cfg.TMDBRateLimit
	if limit <= 0 {
		limit = 40
	}

	timeout := cfg.HTTPTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     cfg.TMDBAPIKey,
		language:   cfg.TMDBLanguage,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(limit), int(math.Ceil(limit))),
		logger:     logger,
	}, nil
}

// Language returns the display locale sent with every request
func (c *Client) Language() string {
	return c.language
}

// get performs a GET request. endpoint is a short label for metrics.
func (c *Client) get(ctx context.Context, endpoint, path string, params url.Values, result interface{}) (err error) {
	ctx, span := utils.StartSpan(ctx, "tmdb."+endpoint, attribute.String("tmdb.path", path))
	defer func() {
		utils.CatalogRequests.WithLabelValues(endpoint, utils.Outcome(err)).Inc()
		utils.EndSpan(span, err)
	}()

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %s: %v", models.ErrCatalogRequestFailed, path, err)
	}

	query := url.Values{}
	for k, v := range params {
		query[k] = v
	}
	query.Set("api_key", c.apiKey)
	if c.language != "" {
		query.Set("language", c.language)
	}

	fullURL := c.baseURL + path + "?" + query.Encode()

	c.logger.WithFields(logrus.Fields{
		"endpoint": endpoint,
		"path":     path,
	}).Debug("Making TMDB request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", models.ErrCatalogRequestFailed, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "cinesync/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).WithField("path", path).Error("TMDB request failed")
		return fmt.Errorf("%w: %s: %v", models.ErrCatalogRequestFailed, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var payload struct {
			StatusMessage string `json:"status_message"`
		}
		msg := resp.Status
		if json.Unmarshal(body, &payload) == nil && payload.StatusMessage != "" {
			msg = payload.StatusMessage
		}
		c.logger.WithFields(logrus.Fields{
			"path":        path,
			"status_code": resp.StatusCode,
			"message":     msg,
		}).Error("TMDB returned non-OK status")
		return fmt.Errorf("%w: %s returned status %d: %s", models.ErrCatalogRequestFailed, path, resp.StatusCode, msg)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: failed to decode %s: %v", models.ErrCatalogRequestFailed, path, err)
	}

	return nil
}

func mediaPath(mediaType models.MediaType) (string, error) {
	switch mediaType {
	case models.MediaTypeMovie:
		return "movie", nil
	case models.MediaTypeTV:
		return "tv", nil
	}
	return "", fmt.Errorf("%w: unknown media type %q", models.ErrInvalidIdentifier, mediaType)
}
