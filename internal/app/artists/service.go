package artists

import (
	"context"

	"musicbox/internal/cache"
	"musicbox/internal/models"
)

// Store defines persistence operations required for artist workflows.
type Store interface {
	ListArtists(ctx context.Context) ([]models.Artist, error)
	GetArtist(ctx context.Context, id string) (*models.Artist, error)
	CreateArtist(ctx context.Context, a models.Artist) (*models.Artist, error)
	UpdateArtist(ctx context.Context, id string, patch models.ArtistPatch) (*models.Artist, error)
	DeleteArtist(ctx context.Context, id string) error
}

// Service describes artist operations used by HTTP handlers.
type Service interface {
	List(ctx context.Context) ([]models.Artist, error)
	Get(ctx context.Context, id string) (*models.Artist, error)
	Create(ctx context.Context, a models.Artist) (*models.Artist, error)
	Update(ctx context.Context, id string, patch models.ArtistPatch) (*models.Artist, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	store Store
	cache *cache.Cache
}

// New constructs an artist Service. A nil cache disables caching.
func New(st Store, c *cache.Cache) Service {
	return &service{store: st, cache: c}
}

func (s *service) List(ctx context.Context) ([]models.Artist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return cache.Fetch(ctx, s.cache, cache.Artists, "list", s.store.ListArtists)
}

func (s *service) Get(ctx context.Context, id string) (*models.Artist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return cache.Fetch(ctx, s.cache, cache.Artists, "id:"+id, func(ctx context.Context) (*models.Artist, error) {
		return s.store.GetArtist(ctx, id)
	})
}

func (s *service) Create(ctx context.Context, a models.Artist) (*models.Artist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	created, err := s.store.CreateArtist(ctx, a)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cache.Artists)
	return created, nil
}

func (s *service) Update(ctx context.Context, id string, patch models.ArtistPatch) (*models.Artist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	updated, err := s.store.UpdateArtist(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cache.Artists)
	return updated, nil
}

// Delete removes the artist. Albums, songs and videos lose their artist
// reference, so their cached views are dropped too.
func (s *service) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.store.DeleteArtist(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, cache.Artists, cache.Albums, cache.Songs, cache.Trending, cache.Videos)
	return nil
}
