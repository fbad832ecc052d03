package models

import (
	"encoding/json"
	"time"
)

// Profile is a named user context. Favorites and history are scoped per profile.
type Profile struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// Snapshot is the copy of catalog fields stored with a record at creation
type Snapshot struct {
	Title        string  `json:"title,omitempty"`
	Name         string  `json:"name,omitempty"`
	Overview     string  `json:"overview,omitempty"`
	PosterPath   string  `json:"poster_path,omitempty"`
	BackdropPath string  `json:"backdrop_path,omitempty"`
	ReleaseDate  string  `json:"release_date,omitempty"`
	FirstAirDate string  `json:"first_air_date,omitempty"`
	VoteAverage  float64 `json:"vote_average,omitempty"`
	Genres       []Genre `json:"genres,omitempty"`
}

// SnapshotOf copies the fields of item that records keep
// List results only carry genre ids; those become nameless genres.
func SnapshotOf(item CatalogItem) Snapshot {
	genres := item.Genres
	if len(genres) == 0 && len(item.GenreIDs) > 0 {
		genres = make([]Genre, 0, len(item.GenreIDs))
		for _, id := range item.GenreIDs {
			genres = append(genres, Genre{ID: id})
		}
	}
	return Snapshot{
		Title:        item.Title,
		Name:         item.Name,
		Overview:     item.Overview,
		PosterPath:   item.PosterPath,
		BackdropPath: item.BackdropPath,
		ReleaseDate:  item.ReleaseDate,
		FirstAirDate: item.FirstAirDate,
		VoteAverage:  item.VoteAverage,
		Genres:       genres,
	}
}

// Record is an entry of the favorites or history collection.
//
// Movie history records carry WatchedAt. Show history records carry
// WatchedSeasons, which is always written (possibly empty) for shows.
// The stored object is kept whole in raw so a full-record replace writes
// back every key the store returned, zero values and unmodeled fields
// included.
type Record struct {
	ID        ID        `json:"id,omitempty"`
	TMDBID    int       `json:"tmdbId"`
	ProfileID ID        `json:"perfilId"`
	MediaType MediaType `json:"media_type"`
	Snapshot

	WatchedAt      *time.Time     `json:"vistoEm,omitempty"`
	WatchedSeasons WatchedSeasons `json:"-"`

	raw map[string]json.RawMessage
}

// FavoriteRecord is a profile's bookmark of a catalog item
type FavoriteRecord = Record

// HistoryRecord is evidence a profile watched a movie or episodes of a show
type HistoryRecord = Record

const watchedSeasonsKey = "temporadasVistas"

type recordAlias Record

// recordFields is every modeled key without omitempty. Keys the store sent
// are written from here so a zero value stays a zero value.
type recordFields struct {
	ID           ID         `json:"id"`
	TMDBID       int        `json:"tmdbId"`
	ProfileID    ID         `json:"perfilId"`
	MediaType    MediaType  `json:"media_type"`
	Title        string     `json:"title"`
	Name         string     `json:"name"`
	Overview     string     `json:"overview"`
	PosterPath   string     `json:"poster_path"`
	BackdropPath string     `json:"backdrop_path"`
	ReleaseDate  string     `json:"release_date"`
	FirstAirDate string     `json:"first_air_date"`
	VoteAverage  float64    `json:"vote_average"`
	Genres       []Genre    `json:"genres"`
	WatchedAt    *time.Time `json:"vistoEm"`
}

// UnmarshalJSON decodes the modeled fields and keeps the stored object
func (r *Record) UnmarshalJSON(data []byte) error {
	var alias recordAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if ws, ok := raw[watchedSeasonsKey]; ok {
		if err := json.Unmarshal(ws, &alias.WatchedSeasons); err != nil {
			return err
		}
	}
	alias.raw = raw

	*r = Record(alias)
	return nil
}

// MarshalJSON starts from the stored object and overlays the modeled fields
func (r Record) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(r.raw)+16)
	for k, v := range r.raw {
		out[k] = v
	}

	if len(r.raw) > 0 {
		stored, err := fieldsOf(recordFields{
			ID:           r.ID,
			TMDBID:       r.TMDBID,
			ProfileID:    r.ProfileID,
			MediaType:    r.MediaType,
			Title:        r.Title,
			Name:         r.Name,
			Overview:     r.Overview,
			PosterPath:   r.PosterPath,
			BackdropPath: r.BackdropPath,
			ReleaseDate:  r.ReleaseDate,
			FirstAirDate: r.FirstAirDate,
			VoteAverage:  r.VoteAverage,
			Genres:       r.Genres,
			WatchedAt:    r.WatchedAt,
		})
		if err != nil {
			return nil, err
		}
		for k, v := range stored {
			if _, ok := r.raw[k]; ok {
				out[k] = v
			}
		}
	}

	fields, err := fieldsOf(recordAlias(r))
	if err != nil {
		return nil, err
	}
	for k, v := range fields {
		out[k] = v
	}

	if r.MediaType == MediaTypeTV || r.WatchedSeasons != nil {
		ws, err := json.Marshal(r.WatchedSeasons)
		if err != nil {
			return nil, err
		}
		out[watchedSeasonsKey] = ws
	}

	return json.Marshal(out)
}

func fieldsOf(v interface{}) (map[string]json.RawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// Extra returns the stored raw value of a field
func (r Record) Extra(key string) (json.RawMessage, bool) {
	v, ok := r.raw[key]
	return v, ok
}

// DisplayTitle returns the snapshot title or name
func (r Record) DisplayTitle() string {
	if r.Title != "" {
		return r.Title
	}
	return r.Name
}

// NewRecord builds a record for item owned by profileID
func NewRecord(item CatalogItem, mediaType MediaType, profileID ID) Record {
	return Record{
		TMDBID:    item.ID,
		ProfileID: profileID,
		MediaType: mediaType,
		Snapshot:  SnapshotOf(item),
	}
}

// Clone returns a deep copy of r
func (r Record) Clone() Record {
	out := r
	if r.WatchedSeasons != nil {
		out.WatchedSeasons = r.WatchedSeasons.Clone()
	}
	if r.WatchedAt != nil {
		t := *r.WatchedAt
		out.WatchedAt = &t
	}
	if r.raw != nil {
		out.raw = make(map[string]json.RawMessage, len(r.raw))
		for k, v := range r.raw {
			out.raw[k] = v
		}
	}
	if r.Genres != nil {
		out.Genres = append(make([]Genre, 0, len(r.Genres)), r.Genres...)
	}
	return out
}
