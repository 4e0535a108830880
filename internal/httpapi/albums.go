package httpapi

import (
	"net/http"

	"musicbox/internal/schema"
)

func (s *Server) handleListAlbums(w http.ResponseWriter, r *http.Request) {
	albums, err := s.svc.Albums.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, albums)
}

func (s *Server) handleGetAlbum(w http.ResponseWriter, r *http.Request) {
	album, err := s.svc.Albums.Get(r.Context(), pathVar(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, album)
}

func (s *Server) handleAlbumSongs(w http.ResponseWriter, r *http.Request) {
	songs, err := s.svc.Songs.ListByAlbum(r.Context(), pathVar(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, songs)
}

func (s *Server) handleCreateAlbum(w http.ResponseWriter, r *http.Request) {
	if _, err := s.requireAdmin(r); err != nil {
		writeError(w, r, err)
		return
	}
	var req schema.AlbumCreate
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	album, err := s.svc.Albums.Create(r.Context(), req.Album())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, album)
}

func (s *Server) handleUpdateAlbum(w http.ResponseWriter, r *http.Request) {
	if _, err := s.requireAdmin(r); err != nil {
		writeError(w, r, err)
		return
	}
	var req schema.AlbumUpdate
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	album, err := s.svc.Albums.Update(r.Context(), pathVar(r, "id"), req.Patch())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, album)
}

func (s *Server) handleDeleteAlbum(w http.ResponseWriter, r *http.Request) {
	if _, err := s.requireAdmin(r); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.svc.Albums.Delete(r.Context(), pathVar(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "album deleted"})
}
