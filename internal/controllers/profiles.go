package controllers

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/amaumene/cinesync/internal/models"
	"github.com/sirupsen/logrus"
)

// ProfileSwitch is broadcast when the current profile changes. Everything
// cached for Previous must be dropped.
type ProfileSwitch struct {
	Previous models.ID
	Current  models.ID
}

// ProfileController tracks the current profile and the theme
type ProfileController struct {
	store  RecordStore
	prefs  PreferenceStore
	logger *logrus.Logger

	mu        sync.Mutex
	listeners []func(ProfileSwitch)
}

// NewProfileController creates a new profile controller
func NewProfileController(store RecordStore, prefs PreferenceStore, logger *logrus.Logger) *ProfileController {
	return &ProfileController{
		store:  store,
		prefs:  prefs,
		logger: logger,
	}
}

// OnSwitch registers fn to run after every profile switch
func (c *ProfileController) OnSwitch(fn func(ProfileSwitch)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// List returns every profile known to the store
func (c *ProfileController) List(ctx context.Context) ([]models.Profile, error) {
	profiles, err := c.store.ListProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return profiles, nil
}

// Current returns the selected profile id. When none was ever selected the
// first profile of the store becomes current. An empty id means the store
// has no profiles.
func (c *ProfileController) Current(ctx context.Context) (models.ID, error) {
	id, err := c.prefs.GetCurrentProfile()
	if err != nil {
		return "", fmt.Errorf("failed to read current profile: %w", err)
	}
	if id != "" {
		return id, nil
	}

	profiles, err := c.List(ctx)
	if err != nil {
		return "", err
	}
	if len(profiles) == 0 {
		return "", nil
	}

	id = profiles[0].ID
	if err := c.prefs.SetCurrentProfile(id); err != nil {
		return "", fmt.Errorf("failed to save current profile: %w", err)
	}
	c.logger.WithField("profile_id", id).Info("Defaulted to first profile")
	return id, nil
}

// Switch makes id the current profile and notifies listeners. Unknown ids
// are rejected.
func (c *ProfileController) Switch(ctx context.Context, id models.ID) (*models.Profile, error) {
	profiles, err := c.List(ctx)
	if err != nil {
		return nil, err
	}

	var target *models.Profile
	for i := range profiles {
		if profiles[i].ID == id {
			target = &profiles[i]
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("%w: unknown profile %q", models.ErrInvalidIdentifier, id)
	}

	previous, err := c.prefs.GetCurrentProfile()
	if err != nil {
		return nil, fmt.Errorf("failed to read current profile: %w", err)
	}
	if err := c.prefs.SetCurrentProfile(id); err != nil {
		return nil, fmt.Errorf("failed to save current profile: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"previous": previous,
		"current":  id,
	}).Info("Switched profile")

	if previous != id {
		c.broadcast(ProfileSwitch{Previous: previous, Current: id})
	}
	return target, nil
}

func (c *ProfileController) broadcast(ev ProfileSwitch) {
	c.mu.Lock()
	listeners := slices.Clone(c.listeners)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(ev)
	}
}

// Theme returns the persisted theme
func (c *ProfileController) Theme() (models.Theme, error) {
	return c.prefs.GetTheme()
}

// SetTheme persists theme
func (c *ProfileController) SetTheme(theme models.Theme) error {
	return c.prefs.SetTheme(theme)
}

// ToggleTheme flips between light and dark
func (c *ProfileController) ToggleTheme() (models.Theme, error) {
	return c.prefs.ToggleTheme()
}
