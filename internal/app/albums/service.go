package albums

import (
	"context"

	"musicbox/internal/cache"
	"musicbox/internal/models"
)

// Store defines persistence operations required for album workflows.
type Store interface {
	ListAlbums(ctx context.Context) ([]models.Album, error)
	ListAlbumsByArtist(ctx context.Context, artistID string) ([]models.Album, error)
	GetAlbum(ctx context.Context, id string) (*models.Album, error)
	CreateAlbum(ctx context.Context, a models.Album) (*models.Album, error)
	UpdateAlbum(ctx context.Context, id string, patch models.AlbumPatch) (*models.Album, error)
	DeleteAlbum(ctx context.Context, id string) error
}

// Service describes album operations used by HTTP handlers.
type Service interface {
	List(ctx context.Context) ([]models.Album, error)
	ListByArtist(ctx context.Context, artistID string) ([]models.Album, error)
	Get(ctx context.Context, id string) (*models.Album, error)
	Create(ctx context.Context, a models.Album) (*models.Album, error)
	Update(ctx context.Context, id string, patch models.AlbumPatch) (*models.Album, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	store Store
	cache *cache.Cache
}

// New constructs an album Service. A nil cache disables caching.
func New(st Store, c *cache.Cache) Service {
	return &service{store: st, cache: c}
}

func (s *service) List(ctx context.Context) ([]models.Album, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return cache.Fetch(ctx, s.cache, cache.Albums, "list", s.store.ListAlbums)
}

func (s *service) ListByArtist(ctx context.Context, artistID string) ([]models.Album, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return cache.Fetch(ctx, s.cache, cache.Albums, "artist:"+artistID, func(ctx context.Context) ([]models.Album, error) {
		return s.store.ListAlbumsByArtist(ctx, artistID)
	})
}

func (s *service) Get(ctx context.Context, id string) (*models.Album, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return cache.Fetch(ctx, s.cache, cache.Albums, "id:"+id, func(ctx context.Context) (*models.Album, error) {
		return s.store.GetAlbum(ctx, id)
	})
}

func (s *service) Create(ctx context.Context, a models.Album) (*models.Album, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	created, err := s.store.CreateAlbum(ctx, a)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cache.Albums)
	return created, nil
}

func (s *service) Update(ctx context.Context, id string, patch models.AlbumPatch) (*models.Album, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	updated, err := s.store.UpdateAlbum(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cache.Albums)
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.store.DeleteAlbum(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, cache.Albums, cache.Songs, cache.Trending)
	return nil
}
