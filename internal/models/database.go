package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/timshannon/bolthold"
	"go.etcd.io/bbolt"
)

const (
	prefCurrentProfile = "current_profile"
	prefTheme          = "theme"
)

// Preference is a persisted client-side setting
type Preference struct {
	Key       string `boltholdKey:"Key"`
	Value     string
	UpdatedAt time.Time
}

// Database wraps the bolthold store holding local preferences
type Database struct {
	store *bolthold.Store
}

// NewDatabase creates a new database connection
func NewDatabase(path string) (*Database, error) {
	store, err := bolthold.Open(path, 0600, &bolthold.Options{
		Options: &bbolt.Options{
			Timeout: 1 * time.Second,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Database{store: store}, nil
}

// Close closes the database connection
func (db *Database) Close() error {
	return db.store.Close()
}

// getPreference returns the stored value, or "" when unset
func (db *Database) getPreference(key string) (string, error) {
	var pref Preference
	err := db.store.Get(key, &pref)
	if errors.Is(err, bolthold.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return pref.Value, nil
}

func (db *Database) setPreference(key, value string) error {
	return db.store.Upsert(key, &Preference{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	})
}

// GetCurrentProfile returns the selected profile id, "" if none was chosen
func (db *Database) GetCurrentProfile() (ID, error) {
	v, err := db.getPreference(prefCurrentProfile)
	return ID(v), err
}

// SetCurrentProfile persists the selected profile id
func (db *Database) SetCurrentProfile(id ID) error {
	return db.setPreference(prefCurrentProfile, id.String())
}

// GetTheme returns the stored theme, light when unset
func (db *Database) GetTheme() (Theme, error) {
	v, err := db.getPreference(prefTheme)
	if err != nil {
		return ThemeLight, err
	}
	if Theme(v) == ThemeDark {
		return ThemeDark, nil
	}
	return ThemeLight, nil
}

// SetTheme persists the theme
func (db *Database) SetTheme(theme Theme) error {
	if theme != ThemeLight && theme != ThemeDark {
		return fmt.Errorf("unknown theme %q", theme)
	}
	return db.setPreference(prefTheme, string(theme))
}

// ToggleTheme flips the stored theme and returns the new value
func (db *Database) ToggleTheme() (Theme, error) {
	current, err := db.GetTheme()
	if err != nil {
		return current, err
	}
	next := current.Toggle()
	if err := db.SetTheme(next); err != nil {
		return current, err
	}
	return next, nil
}
