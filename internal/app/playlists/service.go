package playlists

import (
	"context"

	"musicbox/internal/cache"
	"musicbox/internal/models"
)

// Store defines persistence operations required for playlist workflows.
type Store interface {
	ListPublicPlaylists(ctx context.Context) ([]models.Playlist, error)
	ListPlaylistsByUser(ctx context.Context, userID string) ([]models.Playlist, error)
	GetPlaylist(ctx context.Context, id string) (*models.Playlist, error)
	CreatePlaylist(ctx context.Context, in models.Playlist) (*models.Playlist, error)
	UpdatePlaylist(ctx context.Context, id string, patch models.PlaylistPatch) (*models.Playlist, error)
	DeletePlaylist(ctx context.Context, id string) error
	ListPlaylistSongs(ctx context.Context, playlistID string) ([]models.PlaylistSong, error)
	AddSongToPlaylist(ctx context.Context, playlistID, songID string) (*models.PlaylistSong, bool, error)
	RemoveSongFromPlaylist(ctx context.Context, playlistID, songID string) error
}

// Service describes playlist operations. Ownership checks happen in the
// caller after Get; this layer only reads and writes.
type Service interface {
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

type service struct {
	store Store
	cache *cache.Cache
}

// New constructs a playlist Service. Only the public listing is cached.
func New(st Store, c *cache.Cache) Service {
	return &service{store: st, cache: c}
}

func (s *service) ListPublic(ctx context.Context) ([]models.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return cache.Fetch(ctx, s.cache, cache.Playlists, "public", s.store.ListPublicPlaylists)
}

func (s *service) ListByUser(ctx context.Context, userID string) ([]models.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListPlaylistsByUser(ctx, userID)
}

func (s *service) Get(ctx context.Context, id string) (*models.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.GetPlaylist(ctx, id)
}

func (s *service) Create(ctx context.Context, in models.Playlist) (*models.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	created, err := s.store.CreatePlaylist(ctx, in)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cache.Playlists)
	return created, nil
}

func (s *service) Update(ctx context.Context, id string, patch models.PlaylistPatch) (*models.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	updated, err := s.store.UpdatePlaylist(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cache.Playlists)
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.store.DeletePlaylist(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, cache.Playlists)
	return nil
}

func (s *service) Songs(ctx context.Context, id string) ([]models.PlaylistSong, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListPlaylistSongs(ctx, id)
}

func (s *service) AddSong(ctx context.Context, playlistID, songID string) (*models.PlaylistSong, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	return s.store.AddSongToPlaylist(ctx, playlistID, songID)
}

func (s *service) RemoveSong(ctx context.Context, playlistID, songID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.RemoveSongFromPlaylist(ctx, playlistID, songID)
}
