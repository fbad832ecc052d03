package utils

import (
	"strconv"
	"strings"

	"github.com/amaumene/cinesync/internal/models"
)

// EmbedServer is a third-party player whose URL is built from a template.
// Placeholders: {id}, {temporada} (season) and {episodio} (episode).
type EmbedServer struct {
	Name     string `json:"name"`
	Template string `json:"template"`
}

// MovieServers are the players offered on movie pages, first is the default
var MovieServers = []EmbedServer{
	{Name: "MultiEmbed", Template: "https://multiembed.mov/?video_id={id}&tmdb=1"},
	{Name: "AutoEmbed", Template: "https://player.autoembed.cc/embed/movie/{id}"},
	{Name: "Vidsrc.to", Template: "https://vidsrc.to/embed/movie/{id}"},
	{Name: "Vidsrc ICU", Template: "https://vidsrc.icu/embed/movie/{id}"},
}

// ShowServers are the players offered on show pages, first is the default
var ShowServers = []EmbedServer{
	{Name: "VidLink.pro", Template: "https://vidlink.pro/tv/{id}/{temporada}-{episodio}"},
	{Name: "Vidsrc.to", Template: "https://vidsrc.to/embed/tv/{id}/{temporada}-{episodio}"},
	{Name: "vidsrc-embed.ru", Template: "https://vidsrc-embed.ru/embed/tv/{id}/{temporada}-{episodio}"},
}

// ServersFor returns the server list for a media type
func ServersFor(mediaType models.MediaType) []EmbedServer {
	if mediaType == models.MediaTypeTV {
		return ShowServers
	}
	return MovieServers
}

// FindServer looks a server up by name, falling back to the first entry
func FindServer(mediaType models.MediaType, name string) EmbedServer {
	servers := ServersFor(mediaType)
	for _, s := range servers {
		if strings.EqualFold(s.Name, name) {
			return s
		}
	}
	return servers[0]
}

// PlayerURL renders the server template. season and episode are ignored by
// movie templates.
func (s EmbedServer) PlayerURL(tmdbID, season, episode int) string {
	return strings.NewReplacer(
		"{id}", strconv.Itoa(tmdbID),
		"{temporada}", strconv.Itoa(season),
		"{episodio}", strconv.Itoa(episode),
	).Replace(s.Template)
}
