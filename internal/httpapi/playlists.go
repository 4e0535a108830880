package httpapi

import (
	"net/http"

	"musicbox/internal/models"
	"musicbox/internal/policy"
	"musicbox/internal/schema"
	"musicbox/internal/store"
)

func (s *Server) handleListPlaylists(w http.ResponseWriter, r *http.Request) {
	playlists, err := s.svc.Playlists.ListPublic(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, playlists)
}

// visiblePlaylist loads the playlist and hides private ones from everyone but
// the owner and admins.
func (s *Server) visiblePlaylist(r *http.Request) (*models.Playlist, error) {
	playlist, err := s.svc.Playlists.Get(r.Context(), pathVar(r, "id"))
	if err != nil {
		return nil, err
	}
	if playlist.IsPublic {
		return playlist, nil
	}
	id, err := s.identity(r)
	if err != nil {
		return nil, err
	}
	if !policy.CanViewPlaylist(id, playlist) {
		return nil, store.ErrPlaylistNotFound
	}
	return playlist, nil
}

// ownedPlaylist loads the playlist and applies the owner-or-admin gate.
func (s *Server) ownedPlaylist(r *http.Request, id *models.Identity) (*models.Playlist, error) {
	playlist, err := s.svc.Playlists.Get(r.Context(), pathVar(r, "id"))
	if err != nil {
		return nil, err
	}
	if err := policy.OwnerOrAdmin(id, playlist.UserID); err != nil {
		return nil, err
	}
	return playlist, nil
}

func (s *Server) handleGetPlaylist(w http.ResponseWriter, r *http.Request) {
	playlist, err := s.visiblePlaylist(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, playlist)
}

func (s *Server) handlePlaylistSongs(w http.ResponseWriter, r *http.Request) {
	playlist, err := s.visiblePlaylist(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	entries, err := s.svc.Playlists.Songs(r.Context(), playlist.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	id, err := s.requireUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req schema.PlaylistCreate
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	playlist, err := s.svc.Playlists.Create(r.Context(), req.Playlist(id.UserID))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, playlist)
}

func (s *Server) handleUpdatePlaylist(w http.ResponseWriter, r *http.Request) {
	id, err := s.requireUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req schema.PlaylistUpdate
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	playlist, err := s.ownedPlaylist(r, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	updated, err := s.svc.Playlists.Update(r.Context(), playlist.ID, req.Patch())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeletePlaylist(w http.ResponseWriter, r *http.Request) {
	id, err := s.requireUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	playlist, err := s.ownedPlaylist(r, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.svc.Playlists.Delete(r.Context(), playlist.ID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "playlist deleted"})
}

func (s *Server) handleAddPlaylistSong(w http.ResponseWriter, r *http.Request) {
	id, err := s.requireUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req schema.PlaylistSongAdd
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	playlist, err := s.ownedPlaylist(r, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	entry, created, err := s.svc.Playlists.AddSong(r.Context(), playlist.ID, req.SongID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, entry)
}

func (s *Server) handleRemovePlaylistSong(w http.ResponseWriter, r *http.Request) {
	id, err := s.requireUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	playlist, err := s.ownedPlaylist(r, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.svc.Playlists.RemoveSong(r.Context(), playlist.ID, pathVar(r, "songId")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "song removed from playlist"})
}

func (s *Server) handleUserPlaylists(w http.ResponseWriter, r *http.Request) {
	id, err := s.identity(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	userID := pathVar(r, "userId")
	if err := policy.SelfOrAdmin(id, userID); err != nil {
		writeError(w, r, err)
		return
	}
	playlists, err := s.svc.Playlists.ListByUser(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, playlists)
}
