package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"musicbox/internal/models"
)

// ListFavorites returns the user's favorites with their songs, most recent first.
func (s *Store) ListFavorites(ctx context.Context, userID string) ([]models.Favorite, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT f.id, f.user_id, f.song_id, f.created_at, `+joinedSongColumns+`
		FROM user_favorites f
		JOIN songs s ON s.id = f.song_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC, f.id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	favorites := []models.Favorite{}
	for rows.Next() {
		var (
			fav                       models.Favorite
			song                      models.Song
			artistID, albumID, lyrics sql.NullString
			duration                  sql.NullInt64
		)
		if err := rows.Scan(&fav.ID, &fav.UserID, &fav.SongID, &fav.CreatedAt,
			&song.ID, &song.Title, &artistID, &albumID, &song.AudioURL, &lyrics, &duration,
			&song.PlayCount, &song.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		song.ArtistID = stringPtr(artistID)
		song.AlbumID = stringPtr(albumID)
		song.Lyrics = stringPtr(lyrics)
		song.Duration = intPtr(duration)
		fav.Song = &song
		favorites = append(favorites, fav)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate favorites: %w", err)
	}
	return favorites, nil
}

// AddFavorite records the favorite. The (user, song) unique constraint makes a
// repeat call return the existing row with created=false. If the existing row
// is removed between the insert and the read, the insert is tried again.
func (s *Store) AddFavorite(ctx context.Context, userID, songID string) (*models.Favorite, bool, error) {
	for attempt := 0; ; attempt++ {
		fav, created, err := s.addFavoriteOnce(ctx, userID, songID)
		if errors.Is(err, errRowVanished) && attempt == 0 {
			continue
		}
		return fav, created, err
	}
}

func (s *Store) addFavoriteOnce(ctx context.Context, userID, songID string) (*models.Favorite, bool, error) {
	var fav models.Favorite
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO user_favorites (user_id, song_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, song_id) DO NOTHING
		RETURNING id, user_id, song_id, created_at`,
		userID, songID).Scan(&fav.ID, &fav.UserID, &fav.SongID, &fav.CreatedAt)
	if err == nil {
		return &fav, true, nil
	}
	if isForeignKeyViolation(err) {
		if violatedConstraint(err) == "user_favorites_user_id_fkey" {
			return nil, false, ErrUserNotFound
		}
		return nil, false, ErrSongNotFound
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("insert favorite: %w", err)
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT id, user_id, song_id, created_at
		FROM user_favorites
		WHERE user_id = $1 AND song_id = $2`,
		userID, songID).Scan(&fav.ID, &fav.UserID, &fav.SongID, &fav.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, errRowVanished
	}
	if err != nil {
		return nil, false, fmt.Errorf("load favorite: %w", err)
	}
	return &fav, false, nil
}

// RemoveFavorite deletes the favorite if present.
func (s *Store) RemoveFavorite(ctx context.Context, userID, songID string) error {
	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM user_favorites
		WHERE user_id = $1 AND song_id = $2`, userID, songID); err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	return nil
}

// IsFavorite reports whether the user has favorited the song.
func (s *Store) IsFavorite(ctx context.Context, userID, songID string) (bool, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM user_favorites WHERE user_id = $1 AND song_id = $2
		)`, userID, songID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check favorite: %w", err)
	}
	return exists, nil
}
