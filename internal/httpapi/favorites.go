package httpapi

import (
	"net/http"

	"musicbox/internal/policy"
)

func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	id, err := s.requireUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.writeFavorites(w, r, id.UserID)
}

func (s *Server) handleUserFavorites(w http.ResponseWriter, r *http.Request) {
	id, err := s.identity(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	userID := pathVar(r, "userId")
	if err := policy.Self(id, userID); err != nil {
		writeError(w, r, err)
		return
	}
	s.writeFavorites(w, r, userID)
}

func (s *Server) writeFavorites(w http.ResponseWriter, r *http.Request, userID string) {
	favorites, err := s.svc.Favorites.List(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, favorites)
}

func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	id, err := s.requireUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	favorite, created, err := s.svc.Favorites.Add(r.Context(), id.UserID, pathVar(r, "songId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, favorite)
}

func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	id, err := s.requireUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.svc.Favorites.Remove(r.Context(), id.UserID, pathVar(r, "songId")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "removed from favorites"})
}

func (s *Server) handleCheckFavorite(w http.ResponseWriter, r *http.Request) {
	id, err := s.requireUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok, err := s.svc.Favorites.IsFavorite(r.Context(), id.UserID, pathVar(r, "songId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		IsFavorite bool `json:"isFavorite"`
	}{IsFavorite: ok})
}
