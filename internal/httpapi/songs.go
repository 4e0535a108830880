package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"musicbox/internal/schema"
	"musicbox/internal/store"
)

// maxTrendingLimit caps ?limit= on the trending endpoint.
const maxTrendingLimit = 50

func (s *Server) handleListSongs(w http.ResponseWriter, r *http.Request) {
	songs, err := s.svc.Songs.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, songs)
}

func (s *Server) handleTrendingSongs(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r.URL.Query().Get("limit"), store.DefaultTrendingLimit, maxTrendingLimit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	songs, err := s.svc.Songs.Trending(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, songs)
}

func (s *Server) handleGetSong(w http.ResponseWriter, r *http.Request) {
	song, err := s.svc.Songs.Get(r.Context(), pathVar(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, song)
}

func (s *Server) handleCreateSong(w http.ResponseWriter, r *http.Request) {
	if _, err := s.requireAdmin(r); err != nil {
		writeError(w, r, err)
		return
	}
	var req schema.SongCreate
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	song, err := s.svc.Songs.Create(r.Context(), req.Song(), req.WantsDefaultAlbum())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, song)
}

func (s *Server) handleUpdateSong(w http.ResponseWriter, r *http.Request) {
	if _, err := s.requireAdmin(r); err != nil {
		writeError(w, r, err)
		return
	}
	var req schema.SongUpdate
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	song, err := s.svc.Songs.Update(r.Context(), pathVar(r, "id"), req.Patch())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, song)
}

func (s *Server) handleDeleteSong(w http.ResponseWriter, r *http.Request) {
	if _, err := s.requireAdmin(r); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.svc.Songs.Delete(r.Context(), pathVar(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "song deleted"})
}

func (s *Server) handlePlaySong(w http.ResponseWriter, r *http.Request) {
	count, err := s.svc.Songs.Play(r.Context(), pathVar(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.metrics.songPlays.Inc()
	writeJSON(w, http.StatusOK, struct {
		Message   string `json:"message"`
		PlayCount int    `json:"playCount"`
	}{Message: "play count updated", PlayCount: count})
}

// parseLimit reads an optional positive count. Values above max are clamped.
func parseLimit(raw string, def, max int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, schema.Errors{{Field: "limit", Message: "must be a positive integer"}}
	}
	if n > max {
		n = max
	}
	return n, nil
}
