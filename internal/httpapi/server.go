// Package httpapi maps HTTP routes onto the catalog, account and playlist services.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"musicbox/internal/app/users"
	"musicbox/internal/models"
	"musicbox/internal/upload"
)

// UserService captures the account operations needed by the HTTP handlers.
type UserService interface {
	Register(ctx context.Context, r users.Registration) (*users.Session, error)
	Login(ctx context.Context, identifier, password string) (*users.Session, error)
	Logout(ctx context.Context, sid string) error
	Resolve(ctx context.Context, token string) (*models.User, error)
	SessionToken(ctx context.Context, sid string) (string, error)
}

// ArtistService describes artist catalogue workflows.
type ArtistService interface {
	List(ctx context.Context) ([]models.Artist, error)
	Get(ctx context.Context, id string) (*models.Artist, error)
	Create(ctx context.Context, a models.Artist) (*models.Artist, error)
	Update(ctx context.Context, id string, patch models.ArtistPatch) (*models.Artist, error)
	Delete(ctx context.Context, id string) error
}

// AlbumService exposes album-specific workflows.
type AlbumService interface {
	List(ctx context.Context) ([]models.Album, error)
	ListByArtist(ctx context.Context, artistID string) ([]models.Album, error)
	Get(ctx context.Context, id string) (*models.Album, error)
	Create(ctx context.Context, a models.Album) (*models.Album, error)
	Update(ctx context.Context, id string, patch models.AlbumPatch) (*models.Album, error)
	Delete(ctx context.Context, id string) error
}

// SongService coordinates track-level operations.
type SongService interface {
	List(ctx context.Context) ([]models.Song, error)
	ListByArtist(ctx context.Context, artistID string) ([]models.Song, error)
	ListByAlbum(ctx context.Context, albumID string) ([]models.Song, error)
	Trending(ctx context.Context, limit int) ([]models.Song, error)
	Get(ctx context.Context, id string) (*models.Song, error)
	Create(ctx context.Context, in models.Song, useDefaultAlbum bool) (*models.Song, error)
	Update(ctx context.Context, id string, patch models.SongPatch) (*models.Song, error)
	Delete(ctx context.Context, id string) error
	Play(ctx context.Context, id string) (int, error)
}

// VideoService coordinates video operations.
type VideoService interface {
	List(ctx context.Context) ([]models.Video, error)
	ListByArtist(ctx context.Context, artistID string) ([]models.Video, error)
	Get(ctx context.Context, id string) (*models.Video, error)
	Create(ctx context.Context, in models.Video) (*models.Video, error)
	Update(ctx context.Context, id string, patch models.VideoPatch) (*models.Video, error)
	Delete(ctx context.Context, id string) error
	View(ctx context.Context, id string) (int, error)
}

// PlaylistService coordinates playlist-related operations.
type PlaylistService interface {
	ListPublic(ctx context.Context) ([]models.Playlist, error)
	ListByUser(ctx context.Context, userID string) ([]models.Playlist, error)
	Get(ctx context.Context, id string) (*models.Playlist, error)
	Create(ctx context.Context, in models.Playlist) (*models.Playlist, error)
	Update(ctx context.Context, id string, patch models.PlaylistPatch) (*models.Playlist, error)
	Delete(ctx context.Context, id string) error
	Songs(ctx context.Context, id string) ([]models.PlaylistSong, error)
	AddSong(ctx context.Context, playlistID, songID string) (*models.PlaylistSong, bool, error)
	RemoveSong(ctx context.Context, playlistID, songID string) error
}

// FavoritesService coordinates favoriting workflows.
type FavoritesService interface {
	List(ctx context.Context, userID string) ([]models.Favorite, error)
	Add(ctx context.Context, userID, songID string) (*models.Favorite, bool, error)
	Remove(ctx context.Context, userID, songID string) error
	IsFavorite(ctx context.Context, userID, songID string) (bool, error)
}

// Pinger reports database reachability for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services groups the dependencies of a Server.
type Services struct {
	Users     UserService
	Artists   ArtistService
	Albums    AlbumService
	Songs     SongService
	Videos    VideoService
	Playlists PlaylistService
	Favorites FavoritesService
	Search    http.Handler
	Uploads   *upload.Store
	Health    Pinger
}

// Options tunes transport behaviour.
type Options struct {
	Environment   string
	SecureCookies bool
	CookieSigner  CookieSigner
	// RateLimit is requests per second per client on throttled routes; zero disables throttling.
	RateLimit float64
	RateBurst int
	Metrics   *Metrics
	Now       func() time.Time
}

// CookieSigner signs and verifies the session cookie value.
type CookieSigner interface {
	Sign(value string) string
	Unsign(signed string) (string, bool)
}

// Server wires HTTP handlers to the underlying services.
type Server struct {
	svc     Services
	opts    Options
	limiter *ipLimiter
	metrics *Metrics
}

// New configures a Server. Missing optional pieces (metrics, clock) get defaults.
func New(svc Services, opts Options) *Server {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Environment == "" {
		opts.Environment = "development"
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &Server{
		svc:     svc,
		opts:    opts,
		limiter: newIPLimiter(opts.RateLimit, opts.RateBurst),
		metrics: metrics,
	}
}

// Routes exposes the HTTP handlers under /api, plus /metrics and /uploads/.
func (s *Server) Routes() http.Handler {
	r := mux.NewRouter()
	r.Use(s.metrics.instrument)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Message: "route not found"})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Message: "method not allowed"})
	})

	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	if s.svc.Uploads != nil {
		r.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/",
			serveMedia(http.FileServer(noDirListing{http.Dir(s.svc.Uploads.Root)})))).Methods(http.MethodGet, http.MethodHead)
	}

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	if s.svc.Search != nil {
		api.Handle("/search", s.svc.Search).Methods(http.MethodGet)
	}

	api.Handle("/auth/register", s.throttled(s.handleRegister)).Methods(http.MethodPost)
	api.Handle("/auth/login", s.throttled(s.handleLogin)).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", s.handleLogout).Methods(http.MethodPost)
	api.HandleFunc("/auth/user", s.handleCurrentUser).Methods(http.MethodGet)

	api.HandleFunc("/artists", s.handleListArtists).Methods(http.MethodGet)
	api.HandleFunc("/artists", s.handleCreateArtist).Methods(http.MethodPost)
	api.HandleFunc("/artists/{id}", s.handleGetArtist).Methods(http.MethodGet)
	api.HandleFunc("/artists/{id}", s.handleUpdateArtist).Methods(http.MethodPut)
	api.HandleFunc("/artists/{id}", s.handleDeleteArtist).Methods(http.MethodDelete)
	api.HandleFunc("/artists/{id}/albums", s.handleArtistAlbums).Methods(http.MethodGet)
	api.HandleFunc("/artists/{id}/songs", s.handleArtistSongs).Methods(http.MethodGet)
	api.HandleFunc("/artists/{id}/videos", s.handleArtistVideos).Methods(http.MethodGet)

	api.HandleFunc("/albums", s.handleListAlbums).Methods(http.MethodGet)
	api.HandleFunc("/albums", s.handleCreateAlbum).Methods(http.MethodPost)
	api.HandleFunc("/albums/{id}", s.handleGetAlbum).Methods(http.MethodGet)
	api.HandleFunc("/albums/{id}", s.handleUpdateAlbum).Methods(http.MethodPut)
	api.HandleFunc("/albums/{id}", s.handleDeleteAlbum).Methods(http.MethodDelete)
	api.HandleFunc("/albums/{id}/songs", s.handleAlbumSongs).Methods(http.MethodGet)

	api.HandleFunc("/songs", s.handleListSongs).Methods(http.MethodGet)
	api.HandleFunc("/songs", s.handleCreateSong).Methods(http.MethodPost)
	api.HandleFunc("/songs/trending", s.handleTrendingSongs).Methods(http.MethodGet)
	api.HandleFunc("/songs/{id}", s.handleGetSong).Methods(http.MethodGet)
	api.HandleFunc("/songs/{id}", s.handleUpdateSong).Methods(http.MethodPut)
	api.HandleFunc("/songs/{id}", s.handleDeleteSong).Methods(http.MethodDelete)
	api.Handle("/songs/{id}/play", s.throttled(s.handlePlaySong)).Methods(http.MethodPost, http.MethodPut)

	api.HandleFunc("/videos", s.handleListVideos).Methods(http.MethodGet)
	api.HandleFunc("/videos", s.handleCreateVideo).Methods(http.MethodPost)
	api.HandleFunc("/videos/{id}", s.handleGetVideo).Methods(http.MethodGet)
	api.HandleFunc("/videos/{id}", s.handleUpdateVideo).Methods(http.MethodPut)
	api.HandleFunc("/videos/{id}", s.handleDeleteVideo).Methods(http.MethodDelete)
	api.Handle("/videos/{id}/view", s.throttled(s.handleViewVideo)).Methods(http.MethodPost, http.MethodPut)

	api.HandleFunc("/playlists", s.handleListPlaylists).Methods(http.MethodGet)
	api.HandleFunc("/playlists", s.handleCreatePlaylist).Methods(http.MethodPost)
	api.HandleFunc("/playlists/{id}", s.handleGetPlaylist).Methods(http.MethodGet)
	api.HandleFunc("/playlists/{id}", s.handleUpdatePlaylist).Methods(http.MethodPut)
	api.HandleFunc("/playlists/{id}", s.handleDeletePlaylist).Methods(http.MethodDelete)
	api.HandleFunc("/playlists/{id}/songs", s.handlePlaylistSongs).Methods(http.MethodGet)
	api.HandleFunc("/playlists/{id}/songs", s.handleAddPlaylistSong).Methods(http.MethodPost)
	api.HandleFunc("/playlists/{id}/songs/{songId}", s.handleRemovePlaylistSong).Methods(http.MethodDelete)

	api.HandleFunc("/users/{userId}/playlists", s.handleUserPlaylists).Methods(http.MethodGet)
	api.HandleFunc("/users/{userId}/favorites", s.handleUserFavorites).Methods(http.MethodGet)

	api.HandleFunc("/favorites", s.handleListFavorites).Methods(http.MethodGet)
	api.HandleFunc("/favorites/{songId}", s.handleAddFavorite).Methods(http.MethodPost)
	api.HandleFunc("/favorites/{songId}", s.handleRemoveFavorite).Methods(http.MethodDelete)
	api.HandleFunc("/favorites/{songId}/check", s.handleCheckFavorite).Methods(http.MethodGet)

	api.HandleFunc("/upload/{kind}", s.handleUpload).Methods(http.MethodPost)

	return r
}

type messageResponse struct {
	Message string `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status, code := "OK", http.StatusOK
	if s.svc.Health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.svc.Health.Ping(ctx); err != nil {
			logFor(r).Error().Err(err).Msg("health check: database unreachable")
			status, code = "DEGRADED", http.StatusServiceUnavailable
		}
	}
	writeJSON(w, code, struct {
		Status      string    `json:"status"`
		Timestamp   time.Time `json:"timestamp"`
		Environment string    `json:"environment"`
	}{Status: status, Timestamp: s.opts.Now().UTC(), Environment: s.opts.Environment})
}

func pathVar(r *http.Request, name string) string {
	return mux.Vars(r)[name]
}

func parseBearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// serveMedia fixes the served type to the upload's extension so file contents
// are never sniffed.
func serveMedia(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType := upload.ContentType(r.URL.Path)
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("X-Content-Type-Options", "nosniff")
		next.ServeHTTP(w, r)
	})
}

// noDirListing hides directory indexes under /uploads/.
type noDirListing struct {
	fs http.FileSystem
}

func (n noDirListing) Open(name string) (http.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, os.ErrNotExist
	}
	return f, nil
}
