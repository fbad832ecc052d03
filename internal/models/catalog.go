package models

// MaxCatalogPages is the deepest page the catalog will serve
const MaxCatalogPages = 500

// Genre is a catalog genre
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Country is an entry of the catalog's country reference list
type Country struct {
	Code        string `json:"iso_3166_1"`
	EnglishName string `json:"english_name"`
	NativeName  string `json:"native_name"`
}

// Language is an entry of the catalog's language reference list
type Language struct {
	Code        string `json:"iso_639_1"`
	EnglishName string `json:"english_name"`
	Name        string `json:"name"`
}

// SeasonSummary is a season as listed on a show's details
type SeasonSummary struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	SeasonNumber int    `json:"season_number"`
	EpisodeCount int    `json:"episode_count"`
	AirDate      string `json:"air_date,omitempty"`
	PosterPath   string `json:"poster_path,omitempty"`
}

// CatalogItem is a movie or show as described by the catalog. Movies fill
// Title/ReleaseDate, shows fill Name/FirstAirDate.
type CatalogItem struct {
	ID               int             `json:"id"`
	MediaType        MediaType       `json:"media_type,omitempty"`
	Title            string          `json:"title,omitempty"`
	Name             string          `json:"name,omitempty"`
	OriginalTitle    string          `json:"original_title,omitempty"`
	OriginalName     string          `json:"original_name,omitempty"`
	Tagline          string          `json:"tagline,omitempty"`
	Overview         string          `json:"overview,omitempty"`
	PosterPath       string          `json:"poster_path,omitempty"`
	BackdropPath     string          `json:"backdrop_path,omitempty"`
	ReleaseDate      string          `json:"release_date,omitempty"`
	FirstAirDate     string          `json:"first_air_date,omitempty"`
	VoteAverage      float64         `json:"vote_average"`
	VoteCount        int             `json:"vote_count,omitempty"`
	Popularity       float64         `json:"popularity,omitempty"`
	Runtime          int             `json:"runtime,omitempty"`
	Genres           []Genre         `json:"genres,omitempty"`
	GenreIDs         []int           `json:"genre_ids,omitempty"`
	NumberOfSeasons  int             `json:"number_of_seasons,omitempty"`
	NumberOfEpisodes int             `json:"number_of_episodes,omitempty"`
	Seasons          []SeasonSummary `json:"seasons,omitempty"`
}

// DisplayTitle returns the movie title or the show name
func (c CatalogItem) DisplayTitle() string {
	if c.Title != "" {
		return c.Title
	}
	return c.Name
}

// VisibleSeasons drops specials (season 0)
func (c CatalogItem) VisibleSeasons() []SeasonSummary {
	var out []SeasonSummary
	for _, s := range c.Seasons {
		if s.SeasonNumber > 0 {
			out = append(out, s)
		}
	}
	return out
}

// Episode is an entry of a season listing
type Episode struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	Overview      string  `json:"overview,omitempty"`
	SeasonNumber  int     `json:"season_number"`
	EpisodeNumber int     `json:"episode_number"`
	AirDate       string  `json:"air_date,omitempty"`
	StillPath     string  `json:"still_path,omitempty"`
	Runtime       int     `json:"runtime,omitempty"`
	VoteAverage   float64 `json:"vote_average,omitempty"`
}

// Season is a season with its episodes
type Season struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Overview     string    `json:"overview,omitempty"`
	SeasonNumber int       `json:"season_number"`
	AirDate      string    `json:"air_date,omitempty"`
	PosterPath   string    `json:"poster_path,omitempty"`
	Episodes     []Episode `json:"episodes"`
}

// CastMember is a credited actor
type CastMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path,omitempty"`
	Order       int    `json:"order"`
}

// CrewMember is a credited crew member
type CrewMember struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Job        string `json:"job"`
	Department string `json:"department"`
}

// Credits is the cast and crew of an item
type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// Image is a catalog image reference
type Image struct {
	FilePath    string  `json:"file_path"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	AspectRatio float64 `json:"aspect_ratio"`
}

// Images groups the artwork of an item
type Images struct {
	Backdrops []Image `json:"backdrops"`
	Posters   []Image `json:"posters"`
	Logos     []Image `json:"logos,omitempty"`
}

// Page is one page of list, search or discovery results
type Page struct {
	Page         int           `json:"page"`
	Results      []CatalogItem `json:"results"`
	TotalPages   int           `json:"total_pages"`
	TotalResults int           `json:"total_results"`
}

// ClampedTotalPages caps the reported page count at MaxCatalogPages
func (p Page) ClampedTotalPages() int {
	if p.TotalPages > MaxCatalogPages {
		return MaxCatalogPages
	}
	return p.TotalPages
}

// DefaultSortBy is the discovery order used when none is chosen
const DefaultSortBy = "popularity.desc"

// DiscoverFilters are the user-adjustable discovery parameters. Empty
// fields are left out of the upstream query.
type DiscoverFilters struct {
	Genre    string `json:"genre"`
	Year     string `json:"year"`
	Country  string `json:"country"`
	Language string `json:"language"`
	SortBy   string `json:"sort_by"`
}

// DefaultDiscoverFilters returns filters with only the default sort order
func DefaultDiscoverFilters() DiscoverFilters {
	return DiscoverFilters{SortBy: DefaultSortBy}
}
