package profilestore

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/amaumene/cinesync/internal/models"
)

// Collection names a record collection of the store
type Collection string

const (
	Favorites Collection = "favoritos"
	History   Collection = "historico"
)

func (c Collection) path() string {
	return "/" + string(c)
}

// ListProfiles returns every profile known to the store
func (c *Client) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	var profiles []models.Profile
	if err := c.doRequest(ctx, "list_profiles", http.MethodGet, c.profilesPath, nil, nil, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// ListRecords returns all records of collection owned by profileID
func (c *Client) ListRecords(ctx context.Context, collection Collection, profileID models.ID) ([]models.Record, error) {
	query := url.Values{}
	query.Set("perfilId", profileID.String())

	var records []models.Record
	op := "list_" + string(collection)
	if err := c.doRequest(ctx, op, http.MethodGet, collection.path(), query, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// FindRecords queries collection by exact (tmdbId, perfilId) match. Zero or
// one record is expected; callers decide what to do with more.
func (c *Client) FindRecords(ctx context.Context, collection Collection, tmdbID int, profileID models.ID) ([]models.Record, error) {
	query := url.Values{}
	query.Set("tmdbId", strconv.Itoa(tmdbID))
	query.Set("perfilId", profileID.String())

	var records []models.Record
	op := "find_" + string(collection)
	if err := c.doRequest(ctx, op, http.MethodGet, collection.path(), query, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// CreateRecord posts rec (without id) and returns the stored record with its
// assigned id
func (c *Client) CreateRecord(ctx context.Context, collection Collection, rec models.Record) (*models.Record, error) {
	rec.ID = ""

	var created models.Record
	op := "create_" + string(collection)
	if err := c.doRequest(ctx, op, http.MethodPost, collection.path(), nil, rec, &created); err != nil {
		return nil, err
	}
	if created.ID == "" {
		return nil, &models.StoreError{Kind: models.StoreRequestFailed, Op: op, Message: "created record has no id"}
	}
	return &created, nil
}

// UpdateRecord replaces the full record identified by rec.ID
func (c *Client) UpdateRecord(ctx context.Context, collection Collection, rec models.Record) (*models.Record, error) {
	if rec.ID == "" {
		return nil, fmt.Errorf("cannot update %s record without id", collection)
	}

	var updated models.Record
	op := "update_" + string(collection)
	path := collection.path() + "/" + url.PathEscape(rec.ID.String())
	if err := c.doRequest(ctx, op, http.MethodPut, path, nil, rec, &updated); err != nil {
		return nil, err
	}
	if updated.ID == "" {
		// Some stores answer a replace with an empty body
		updated = rec
	}
	return &updated, nil
}

// DeleteRecord removes the record with the given store id
func (c *Client) DeleteRecord(ctx context.Context, collection Collection, id models.ID) error {
	if id == "" {
		return fmt.Errorf("cannot delete %s record without id", collection)
	}
	path := collection.path() + "/" + url.PathEscape(id.String())
	return c.doRequest(ctx, "delete_"+string(collection), http.MethodDelete, path, nil, nil, nil)
}
