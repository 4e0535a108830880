package songs

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"musicbox/internal/cache"
	"musicbox/internal/models"
	"musicbox/internal/store"
)

// DefaultAlbumTitle names the per-artist album that collects loose songs.
const DefaultAlbumTitle = "Singles"

// ErrArtistRequired is returned when the default album is requested without an artist.
var ErrArtistRequired = errors.New("artistId is required to use the default album")

// Store defines persistence operations required for song workflows.
type Store interface {
	ListSongs(ctx context.Context) ([]models.Song, error)
	ListSongsByArtist(ctx context.Context, artistID string) ([]models.Song, error)
	ListSongsByAlbum(ctx context.Context, albumID string) ([]models.Song, error)
	TrendingSongs(ctx context.Context, limit int) ([]models.Song, error)
	GetSong(ctx context.Context, id string) (*models.Song, error)
	CreateSong(ctx context.Context, in models.Song) (*models.Song, error)
	UpdateSong(ctx context.Context, id string, patch models.SongPatch) (*models.Song, error)
	DeleteSong(ctx context.Context, id string) error
	IncrementPlayCount(ctx context.Context, id string) (int, error)

	FindAlbumByTitle(ctx context.Context, artistID, title string) (*models.Album, error)
	CreateAlbum(ctx context.Context, a models.Album) (*models.Album, error)
}

// Service describes song operations used by HTTP handlers.
type Service interface {
	List(ctx context.Context) ([]models.Song, error)
	ListByArtist(ctx context.Context, artistID string) ([]models.Song, error)
	ListByAlbum(ctx context.Context, albumID string) ([]models.Song, error)
	Trending(ctx context.Context, limit int) ([]models.Song, error)
	Get(ctx context.Context, id string) (*models.Song, error)
	// Create inserts the song. With useDefaultAlbum the album is resolved to
	// the artist's default album, which is created on first use.
	Create(ctx context.Context, in models.Song, useDefaultAlbum bool) (*models.Song, error)
	Update(ctx context.Context, id string, patch models.SongPatch) (*models.Song, error)
	Delete(ctx context.Context, id string) error
	Play(ctx context.Context, id string) (int, error)
}

type service struct {
	store Store
	cache *cache.Cache
}

// New constructs a song Service. A nil cache disables caching.
func New(st Store, c *cache.Cache) Service {
	return &service{store: st, cache: c}
}

func (s *service) List(ctx context.Context) ([]models.Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return cache.Fetch(ctx, s.cache, cache.Songs, "list", s.store.ListSongs)
}

func (s *service) ListByArtist(ctx context.Context, artistID string) ([]models.Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return cache.Fetch(ctx, s.cache, cache.Songs, "artist:"+artistID, func(ctx context.Context) ([]models.Song, error) {
		return s.store.ListSongsByArtist(ctx, artistID)
	})
}

func (s *service) ListByAlbum(ctx context.Context, albumID string) ([]models.Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return cache.Fetch(ctx, s.cache, cache.Songs, "album:"+albumID, func(ctx context.Context) ([]models.Song, error) {
		return s.store.ListSongsByAlbum(ctx, albumID)
	})
}

func (s *service) Trending(ctx context.Context, limit int) ([]models.Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = store.DefaultTrendingLimit
	}
	return cache.Fetch(ctx, s.cache, cache.Trending, strconv.Itoa(limit), func(ctx context.Context) ([]models.Song, error) {
		return s.store.TrendingSongs(ctx, limit)
	})
}

func (s *service) Get(ctx context.Context, id string) (*models.Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return cache.Fetch(ctx, s.cache, cache.Songs, "id:"+id, func(ctx context.Context) (*models.Song, error) {
		return s.store.GetSong(ctx, id)
	})
}

// Create is not transactional: if the song insert fails after the default
// album was created, the empty album remains.
func (s *service) Create(ctx context.Context, in models.Song, useDefaultAlbum bool) (*models.Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	invalidate := []cache.Resource{cache.Songs, cache.Trending}
	if useDefaultAlbum {
		if in.ArtistID == nil || strings.TrimSpace(*in.ArtistID) == "" {
			return nil, ErrArtistRequired
		}
		album, err := s.defaultAlbum(ctx, *in.ArtistID)
		if err != nil {
			return nil, err
		}
		in.AlbumID = &album.ID
		invalidate = append(invalidate, cache.Albums)
	}

	created, err := s.store.CreateSong(ctx, in)
	if err != nil {
		if useDefaultAlbum {
			s.cache.Invalidate(ctx, cache.Albums)
		}
		return nil, err
	}
	s.cache.Invalidate(ctx, invalidate...)
	return created, nil
}

func (s *service) defaultAlbum(ctx context.Context, artistID string) (*models.Album, error) {
	album, err := s.store.FindAlbumByTitle(ctx, artistID, DefaultAlbumTitle)
	if err == nil {
		return album, nil
	}
	if !errors.Is(err, store.ErrAlbumNotFound) {
		return nil, err
	}
	return s.store.CreateAlbum(ctx, models.Album{Title: DefaultAlbumTitle, ArtistID: &artistID})
}

func (s *service) Update(ctx context.Context, id string, patch models.SongPatch) (*models.Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	updated, err := s.store.UpdateSong(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cache.Songs, cache.Trending)
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.store.DeleteSong(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, cache.Songs, cache.Trending)
	return nil
}

// Play counts one play. Cached reads may lag behind until their TTL passes.
func (s *service) Play(ctx context.Context, id string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return s.store.IncrementPlayCount(ctx, id)
}
