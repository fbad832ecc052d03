package models

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
)

// WatchedSeasons maps a season number to the ascending, duplicate-free list
// of watched episode numbers. A season key is present only while it has at
// least one watched episode.
type WatchedSeasons map[int][]int

// Mark adds episode to season. It reports whether the set changed.
func (w WatchedSeasons) Mark(season, episode int) bool {
	episodes := w[season]
	i, found := slices.BinarySearch(episodes, episode)
	if found {
		return false
	}
	w[season] = slices.Insert(slices.Clone(episodes), i, episode)
	return true
}

// Unmark removes episode from season, deleting the season key when it was
// the last one. It reports whether the set changed.
func (w WatchedSeasons) Unmark(season, episode int) bool {
	episodes, ok := w[season]
	if !ok {
		return false
	}
	i, found := slices.BinarySearch(episodes, episode)
	if !found {
		return false
	}
	if len(episodes) == 1 {
		delete(w, season)
		return true
	}
	w[season] = slices.Delete(slices.Clone(episodes), i, i+1)
	return true
}

// Has reports whether episode of season is marked watched
func (w WatchedSeasons) Has(season, episode int) bool {
	_, found := slices.BinarySearch(w[season], episode)
	return found
}

// Total returns the number of watched episodes across all seasons
func (w WatchedSeasons) Total() int {
	total := 0
	for _, episodes := range w {
		total += len(episodes)
	}
	return total
}

// Seasons returns the season numbers in ascending order
func (w WatchedSeasons) Seasons() []int {
	seasons := make([]int, 0, len(w))
	for s := range w {
		seasons = append(seasons, s)
	}
	slices.Sort(seasons)
	return seasons
}

// Clone returns a deep copy
func (w WatchedSeasons) Clone() WatchedSeasons {
	out := make(WatchedSeasons, len(w))
	for s, episodes := range w {
		out[s] = slices.Clone(episodes)
	}
	return out
}

// normalize sorts and dedupes every season and prunes empty ones
func (w WatchedSeasons) normalize() {
	for s, episodes := range w {
		if len(episodes) == 0 {
			delete(w, s)
			continue
		}
		slices.Sort(episodes)
		w[s] = slices.Compact(episodes)
	}
}

// MarshalJSON writes an object keyed by season number. A nil value is written
// as an empty object.
func (w WatchedSeasons) MarshalJSON() ([]byte, error) {
	out := make(map[string][]int, len(w))
	for s, episodes := range w {
		if len(episodes) == 0 {
			continue
		}
		out[strconv.Itoa(s)] = episodes
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads the season object and restores the ordering and
// pruning guarantees, whatever state the store returned
func (w *WatchedSeasons) UnmarshalJSON(data []byte) error {
	var raw map[string][]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(WatchedSeasons, len(raw))
	for key, episodes := range raw {
		season, err := strconv.Atoi(key)
		if err != nil {
			return fmt.Errorf("invalid season key %q: %w", key, err)
		}
		out[season] = append(out[season], episodes...)
	}
	out.normalize()
	*w = out
	return nil
}
