package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// MediaType represents the type of media (movie or tv show)
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeTV    MediaType = "tv"
)

// Valid reports whether m is one of the known media types
func (m MediaType) Valid() bool {
	return m == MediaTypeMovie || m == MediaTypeTV
}

// ParseMediaType accepts "movie", "tv" and the plural route forms
func ParseMediaType(s string) (MediaType, error) {
	switch s {
	case "movie", "movies":
		return MediaTypeMovie, nil
	case "tv", "show", "shows":
		return MediaTypeTV, nil
	}
	return "", fmt.Errorf("%w: unknown media type %q", ErrInvalidIdentifier, s)
}

// Theme is the persisted UI color scheme
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Toggle returns the opposite theme
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// ID is an identifier assigned by the profile store. The store may hand out
// numbers or strings; both decode to the same textual form.
type ID string

// UnmarshalJSON accepts both JSON numbers and strings
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", string(data), err)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON always writes a string. Profile ids travel as strings in
// query parameters and record bodies alike.
func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(id))
}

// String returns the textual id
func (id ID) String() string {
	return string(id)
}

// ParseTMDBID parses a route parameter as a catalog id. It must be a positive
// integer.
func ParseTMDBID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q is not a valid catalog id", ErrInvalidIdentifier, raw)
	}
	return id, nil
}
