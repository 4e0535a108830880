package httpapi

import (
	"net/http"

	"musicbox/internal/schema"
)

func (s *Server) handleListArtists(w http.ResponseWriter, r *http.Request) {
	artists, err := s.svc.Artists.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, artists)
}

func (s *Server) handleGetArtist(w http.ResponseWriter, r *http.Request) {
	artist, err := s.svc.Artists.Get(r.Context(), pathVar(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, artist)
}

func (s *Server) handleCreateArtist(w http.ResponseWriter, r *http.Request) {
	if _, err := s.requireAdmin(r); err != nil {
		writeError(w, r, err)
		return
	}
	var req schema.ArtistCreate
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	artist, err := s.svc.Artists.Create(r.Context(), req.Artist())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, artist)
}

func (s *Server) handleUpdateArtist(w http.ResponseWriter, r *http.Request) {
	if _, err := s.requireAdmin(r); err != nil {
		writeError(w, r, err)
		return
	}
	var req schema.ArtistUpdate
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	artist, err := s.svc.Artists.Update(r.Context(), pathVar(r, "id"), req.Patch())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, artist)
}

func (s *Server) handleDeleteArtist(w http.ResponseWriter, r *http.Request) {
	if _, err := s.requireAdmin(r); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.svc.Artists.Delete(r.Context(), pathVar(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "artist deleted"})
}

func (s *Server) handleArtistAlbums(w http.ResponseWriter, r *http.Request) {
	albums, err := s.svc.Albums.ListByArtist(r.Context(), pathVar(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, albums)
}

func (s *Server) handleArtistSongs(w http.ResponseWriter, r *http.Request) {
	songs, err := s.svc.Songs.ListByArtist(r.Context(), pathVar(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, songs)
}

func (s *Server) handleArtistVideos(w http.ResponseWriter, r *http.Request) {
	videos, err := s.svc.Videos.ListByArtist(r.Context(), pathVar(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, videos)
}
