package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/amaumene/cinesync/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid id", fmt.Errorf("%w: abc", models.ErrInvalidIdentifier), http.StatusBadRequest},
		{"invalid episode", models.ErrInvalidEpisode, http.StatusBadRequest},
		{"no profile", models.ErrNoProfile, http.StatusBadRequest},
		{"store down", &models.StoreError{Kind: models.StoreUnavailable, Op: "list", Err: errors.New("refused")}, http.StatusServiceUnavailable},
		{"store rejected", fmt.Errorf("wrapped: %w", &models.StoreError{Kind: models.StoreRequestFailed, Op: "update", Status: 500}), http.StatusBadGateway},
		{"catalog", fmt.Errorf("%w: status 401", models.ErrCatalogRequestFailed), http.StatusBadGateway},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}
