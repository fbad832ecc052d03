package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/amaumene/cinesync/internal/models"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// ErrorResponse is the body of every failed request. Record carries the
// stored state when a write failed, so the caller can roll back.
type ErrorResponse struct {
	Error  string         `json:"error"`
	Record *models.Record `json:"record,omitempty"`
}

// StatusFor maps an error to an HTTP status code
func StatusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidIdentifier),
		errors.Is(err, models.ErrInvalidEpisode),
		errors.Is(err, models.ErrNoProfile):
		return http.StatusBadRequest
	case models.IsStoreUnavailable(err):
		return http.StatusServiceUnavailable
	case models.IsStoreRequestFailed(err), errors.Is(err, models.ErrCatalogRequestFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, logger *logrus.Logger, err error) {
	writeErrorWithRecord(w, r, logger, err, nil)
}

func writeErrorWithRecord(w http.ResponseWriter, r *http.Request, logger *logrus.Logger, err error, rec *models.Record) {
	status := StatusFor(err)
	entry := logger.WithError(err).WithFields(logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
		"status": status,
	})
	if status >= http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Warn("Request rejected")
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error(), Record: rec})
}

func decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", models.ErrInvalidIdentifier, err)
	}
	return nil
}

func mediaTypeVar(r *http.Request) (models.MediaType, error) {
	return models.ParseMediaType(mux.Vars(r)["mediaType"])
}

// idVar parses the {id} route variable as a catalog id
func idVar(r *http.Request) (int, error) {
	return models.ParseTMDBID(mux.Vars(r)["id"])
}

// intVar parses a non-negative integer path variable
func intVar(r *http.Request, name string) (int, error) {
	raw := mux.Vars(r)[name]
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", models.ErrInvalidIdentifier, name)
	}
	return n, nil
}

// pageParam reads ?page=, defaulting to 1
func pageParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, fmt.Errorf("%w: page must be a positive integer", models.ErrInvalidIdentifier)
	}
	return page, nil
}
