package search

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	// DefaultLimit is the per-section result count when none is requested.
	DefaultLimit = 10
	// MaxLimit caps the per-section result count.
	MaxLimit = 50
)

// Handler responds to search requests backed by the Store.
type Handler struct {
	store Store
}

// NewHandler builds a handler using the provided store implementation.
func NewHandler(store Store) http.Handler {
	return &Handler{store: store}
}

// Response models the payload returned by the search handler.
type Response struct {
	Query    string    `json:"query"`
	Sections []Section `json:"sections"`
}

// Section groups related search results.
type Section struct {
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

// Item represents a single search result entry.
type Item struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Subtitle  string `json:"subtitle,omitempty"`
	Href      string `json:"href,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"message": "method not allowed"})
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeJSON(w, http.StatusOK, Response{Sections: []Section{}})
		return
	}

	limit := DefaultLimit
	if rawLimit := strings.TrimSpace(r.URL.Query().Get("limit")); rawLimit != "" {
		if parsed, err := strconv.Atoi(rawLimit); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	results, err := h.store.Search(r.Context(), query, limit)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Str("query", query).Msg("search failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "search failed"})
		return
	}

	resp := buildResponse(results)
	resp.Query = query
	writeJSON(w, http.StatusOK, resp)
}

func buildResponse(results Results) Response {
	sections := []Section{}

	if len(results.Artists) > 0 {
		items := make([]Item, 0, len(results.Artists))
		for _, artist := range results.Artists {
			items = append(items, Item{
				ID:        artist.ID,
				Title:     artist.Name,
				Subtitle:  pluralize(artist.AlbumCount, "album"),
				Href:      "/api/artists/" + artist.ID,
				Thumbnail: artist.ImageURL,
			})
		}
		sections = append(sections, Section{Name: "artists", Items: items})
	}

	if len(results.Albums) > 0 {
		items := make([]Item, 0, len(results.Albums))
		for _, album := range results.Albums {
			subtitle := album.Artist
			if album.ReleaseYear > 0 {
				subtitle = joinNonEmpty(" • ", subtitle, strconv.Itoa(album.ReleaseYear))
			}
			items = append(items, Item{
				ID:        album.ID,
				Title:     album.Title,
				Subtitle:  subtitle,
				Href:      "/api/albums/" + album.ID,
				Thumbnail: album.ImageURL,
			})
		}
		sections = append(sections, Section{Name: "albums", Items: items})
	}

	if len(results.Songs) > 0 {
		items := make([]Item, 0, len(results.Songs))
		for _, song := range results.Songs {
			items = append(items, Item{
				ID:       song.ID,
				Title:    song.Title,
				Subtitle: joinNonEmpty(" · ", song.Artist, song.Album),
				Href:     "/api/songs/" + song.ID,
			})
		}
		sections = append(sections, Section{Name: "songs", Items: items})
	}

	if len(results.Videos) > 0 {
		items := make([]Item, 0, len(results.Videos))
		for _, video := range results.Videos {
			items = append(items, Item{
				ID:        video.ID,
				Title:     video.Title,
				Subtitle:  video.Artist,
				Href:      "/api/videos/" + video.ID,
				Thumbnail: video.ImageURL,
			})
		}
		sections = append(sections, Section{Name: "videos", Items: items})
	}

	return Response{Sections: sections}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func pluralize(count int, singular string) string {
	switch count {
	case 0:
		return ""
	case 1:
		return "1 " + singular
	default:
		return strconv.Itoa(count) + " " + singular + "s"
	}
}
