package controllers

import (
	"context"
	"testing"

	"github.com/amaumene/cinesync/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentProfileDefaultsToFirst(t *testing.T) {
	store := newFakeStore(models.Profile{ID: "A", Name: "Ana"}, models.Profile{ID: "B", Name: "Bruno"})
	prefs := &memPrefs{}
	ctrl := NewProfileController(store, prefs, quietLogger())

	id, err := ctrl.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.ID("A"), id)
	assert.Equal(t, models.ID("A"), prefs.profile)
}

func TestCurrentProfileWithoutProfiles(t *testing.T) {
	ctrl := NewProfileController(newFakeStore(), &memPrefs{}, quietLogger())

	id, err := ctrl.Current(context.Background())
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestSwitchProfileBroadcasts(t *testing.T) {
	store := newFakeStore(models.Profile{ID: "A", Name: "Ana"}, models.Profile{ID: "B", Name: "Bruno"})
	prefs := &memPrefs{profile: "A"}
	ctrl := NewProfileController(store, prefs, quietLogger())

	var events []ProfileSwitch
	ctrl.OnSwitch(func(ev ProfileSwitch) { events = append(events, ev) })

	p, err := ctrl.Switch(context.Background(), "B")
	require.NoError(t, err)
	assert.Equal(t, "Bruno", p.Name)
	assert.Equal(t, models.ID("B"), prefs.profile)
	assert.Equal(t, []ProfileSwitch{{Previous: "A", Current: "B"}}, events)

	_, err = ctrl.Switch(context.Background(), "B")
	require.NoError(t, err)
	assert.Len(t, events, 1, "switching to the current profile does not invalidate")

	_, err = ctrl.Switch(context.Background(), "Z")
	assert.ErrorIs(t, err, models.ErrInvalidIdentifier)
	assert.Equal(t, models.ID("B"), prefs.profile)
}

func TestSwitchListenersMayRegisterListeners(t *testing.T) {
	store := newFakeStore(models.Profile{ID: "A", Name: "Ana"}, models.Profile{ID: "B", Name: "Bruno"})
	ctrl := NewProfileController(store, &memPrefs{profile: "A"}, quietLogger())

	var first, late int
	ctrl.OnSwitch(func(ProfileSwitch) {
		first++
		ctrl.OnSwitch(func(ProfileSwitch) { late++ })
	})

	_, err := ctrl.Switch(context.Background(), "B")
	require.NoError(t, err)
	assert.Equal(t, 1, first)
	assert.Zero(t, late, "listeners added during a broadcast wait for the next switch")

	_, err = ctrl.Switch(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, 2, first)
	assert.Equal(t, 1, late)
}

func TestThemeToggle(t *testing.T) {
	ctrl := NewProfileController(newFakeStore(), &memPrefs{}, quietLogger())

	theme, err := ctrl.Theme()
	require.NoError(t, err)
	assert.Equal(t, models.ThemeLight, theme)

	theme, err = ctrl.ToggleTheme()
	require.NoError(t, err)
	assert.Equal(t, models.ThemeDark, theme)

	require.NoError(t, ctrl.SetTheme(models.ThemeLight))
	theme, err = ctrl.Theme()
	require.NoError(t, err)
	assert.Equal(t, models.ThemeLight, theme)
}
