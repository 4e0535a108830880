package httpapi

import (
	"net/http"

	"musicbox/internal/schema"
)

func (s *Server) handleListVideos(w http.ResponseWriter, r *http.Request) {
	videos, err := s.svc.Videos.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, videos)
}

func (s *Server) handleGetVideo(w http.ResponseWriter, r *http.Request) {
	video, err := s.svc.Videos.Get(r.Context(), pathVar(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, video)
}

func (s *Server) handleCreateVideo(w http.ResponseWriter, r *http.Request) {
	if _, err := s.requireAdmin(r); err != nil {
		writeError(w, r, err)
		return
	}
	var req schema.VideoCreate
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	video, err := s.svc.Videos.Create(r.Context(), req.Video())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, video)
}

func (s *Server) handleUpdateVideo(w http.ResponseWriter, r *http.Request) {
	if _, err := s.requireAdmin(r); err != nil {
		writeError(w, r, err)
		return
	}
	var req schema.VideoUpdate
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	video, err := s.svc.Videos.Update(r.Context(), pathVar(r, "id"), req.Patch())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, video)
}

func (s *Server) handleDeleteVideo(w http.ResponseWriter, r *http.Request) {
	if _, err := s.requireAdmin(r); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.svc.Videos.Delete(r.Context(), pathVar(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "video deleted"})
}

func (s *Server) handleViewVideo(w http.ResponseWriter, r *http.Request) {
	count, err := s.svc.Videos.View(r.Context(), pathVar(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.metrics.videoViews.Inc()
	writeJSON(w, http.StatusOK, struct {
		Message   string `json:"message"`
		ViewCount int    `json:"viewCount"`
	}{Message: "view count updated", ViewCount: count})
}
