package videos

import (
	"context"

	"musicbox/internal/cache"
	"musicbox/internal/models"
)

// Store defines persistence operations required for video workflows.
type Store interface {
	ListVideos(ctx context.Context) ([]models.Video, error)
	ListVideosByArtist(ctx context.Context, artistID string) ([]models.Video, error)
	GetVideo(ctx context.Context, id string) (*models.Video, error)
	CreateVideo(ctx context.Context, in models.Video) (*models.Video, error)
	UpdateVideo(ctx context.Context, id string, patch models.VideoPatch) (*models.Video, error)
	DeleteVideo(ctx context.Context, id string) error
	IncrementViewCount(ctx context.Context, id string) (int, error)
}

// Service describes video operations used by HTTP handlers.
type Service interface {
	List(ctx context.Context) ([]models.Video, error)
	ListByArtist(ctx context.Context, artistID string) ([]models.Video, error)
	Get(ctx context.Context, id string) (*models.Video, error)
	Create(ctx context.Context, in models.Video) (*models.Video, error)
	Update(ctx context.Context, id string, patch models.VideoPatch) (*models.Video, error)
	Delete(ctx context.Context, id string) error
	View(ctx context.Context, id string) (int, error)
}

type service struct {
	store Store
	cache *cache.Cache
}

// New constructs a video Service. A nil cache disables caching.
func New(st Store, c *cache.Cache) Service {
	return &service{store: st, cache: c}
}

func (s *service) List(ctx context.Context) ([]models.Video, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return cache.Fetch(ctx, s.cache, cache.Videos, "list", s.store.ListVideos)
}

func (s *service) ListByArtist(ctx context.Context, artistID string) ([]models.Video, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return cache.Fetch(ctx, s.cache, cache.Videos, "artist:"+artistID, func(ctx context.Context) ([]models.Video, error) {
		return s.store.ListVideosByArtist(ctx, artistID)
	})
}

func (s *service) Get(ctx context.Context, id string) (*models.Video, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return cache.Fetch(ctx, s.cache, cache.Videos, "id:"+id, func(ctx context.Context) (*models.Video, error) {
		return s.store.GetVideo(ctx, id)
	})
}

func (s *service) Create(ctx context.Context, in models.Video) (*models.Video, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	created, err := s.store.CreateVideo(ctx, in)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cache.Videos)
	return created, nil
}

func (s *service) Update(ctx context.Context, id string, patch models.VideoPatch) (*models.Video, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	updated, err := s.store.UpdateVideo(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cache.Videos)
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.store.DeleteVideo(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, cache.Videos)
	return nil
}

func (s *service) View(ctx context.Context, id string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return s.store.IncrementViewCount(ctx, id)
}
