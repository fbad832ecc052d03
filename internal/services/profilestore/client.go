package profilestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/amaumene/cinesync/internal/config"
	"github.com/amaumene/cinesync/internal/models"
	"github.com/amaumene/cinesync/internal/utils"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// maxErrorBody bounds how much of a failed response is read for the message
const maxErrorBody = 64 * 1024

// Client talks to the remote profile store. The store has no conditional
// update, so every write is last-write-wins at the record level.
type Client struct {
	baseURL      string
	profilesPath string
	httpClient   *http.Client
	logger       *logrus.Logger
}

// NewClient creates a new profile store client
func NewClient(cfg *config.Config, logger *logrus.Logger) (*Client, error) {
	if cfg.ProfileStoreURL == "" {
		return nil, fmt.Errorf("profile store URL is required")
	}
	if _, err := url.Parse(cfg.ProfileStoreURL); err != nil {
		return nil, fmt.Errorf("invalid profile store URL: %w", err)
	}

	profilesPath := cfg.ProfilesPath
	if profilesPath == "" {
		profilesPath = "/profiles"
	}

	timeout := cfg.HTTPTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:      strings.TrimRight(cfg.ProfileStoreURL, "/"),
		profilesPath: "/" + strings.TrimLeft(profilesPath, "/"),
		httpClient:   &http.Client{Timeout: timeout},
		logger:       logger,
	}, nil
}

// doRequest performs a JSON request against the store. Transport failures
// become StoreUnavailable, non-2xx answers and unreadable bodies become
// StoreRequestFailed. An empty success body leaves result untouched.
func (c *Client) doRequest(ctx context.Context, op, method, path string, query url.Values, body interface{}, result interface{}) (err error) {
	ctx, span := utils.StartSpan(ctx, "profilestore."+op,
		attribute.String("http.method", method),
		attribute.String("store.path", path),
	)
	start := time.Now()
	defer func() {
		utils.StoreLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
		utils.StoreRequests.WithLabelValues(op, utils.Outcome(err)).Inc()
		utils.EndSpan(span, err)
	}()

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return &models.StoreError{Kind: models.StoreRequestFailed, Op: op, Message: "failed to marshal request body", Err: err}
		}
		reqBody = bytes.NewReader(jsonData)
	}

	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	c.logger.WithFields(logrus.Fields{
		"op":     op,
		"method": method,
		"url":    fullURL,
	}).Debug("Making profile store request")

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return &models.StoreError{Kind: models.StoreRequestFailed, Op: op, Message: "failed to create request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).WithField("op", op).Error("Profile store unreachable")
		return &models.StoreError{Kind: models.StoreUnavailable, Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		storeErr := &models.StoreError{
			Kind:    models.StoreRequestFailed,
			Op:      op,
			Status:  resp.StatusCode,
			Message: errorMessage(resp, bodyBytes),
		}
		c.logger.WithFields(logrus.Fields{
			"op":          op,
			"status_code": resp.StatusCode,
			"message":     storeErr.Message,
		}).Error("Profile store returned non-OK status")
		return storeErr
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &models.StoreError{Kind: models.StoreUnavailable, Op: op, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if result != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, result); err != nil {
			return &models.StoreError{Kind: models.StoreRequestFailed, Op: op, Status: resp.StatusCode, Message: "failed to decode response", Err: err}
		}
	}

	return nil
}

// errorMessage extracts a best-effort message: a JSON "message" field, the
// raw body, or the status text
func errorMessage(resp *http.Response, body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" && !strings.HasPrefix(text, "{") {
		return text
	}
	return http.StatusText(resp.StatusCode)
}
