package favorites

import (
	"context"

	"musicbox/internal/models"
)

// Store defines persistence operations required for favorites workflows.
type Store interface {
	ListFavorites(ctx context.Context, userID string) ([]models.Favorite, error)
	AddFavorite(ctx context.Context, userID, songID string) (*models.Favorite, bool, error)
	RemoveFavorite(ctx context.Context, userID, songID string) error
	IsFavorite(ctx context.Context, userID, songID string) (bool, error)
}

// Service describes high level favorites operations used by HTTP handlers.
type Service interface {
	List(ctx context.Context, userID string) ([]models.Favorite, error)
	// Add favorites the song. created is false when it was already a favorite.
	Add(ctx context.Context, userID, songID string) (fav *models.Favorite, created bool, err error)
	Remove(ctx context.Context, userID, songID string) error
	IsFavorite(ctx context.Context, userID, songID string) (bool, error)
}

type service struct {
	store Store
}

// New constructs a favorites Service backed by the given store.
func New(st Store) Service {
	return &service{store: st}
}

func (s *service) List(ctx context.Context, userID string) ([]models.Favorite, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListFavorites(ctx, userID)
}

func (s *service) Add(ctx context.Context, userID, songID string) (*models.Favorite, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	return s.store.AddFavorite(ctx, userID, songID)
}

func (s *service) Remove(ctx context.Context, userID, songID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.RemoveFavorite(ctx, userID, songID)
}

func (s *service) IsFavorite(ctx context.Context, userID, songID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return s.store.IsFavorite(ctx, userID, songID)
}
