package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"musicbox/internal/models"
)

const videoColumns = `id, title, artist_id, video_url, thumbnail_url, duration, view_count, created_at`

func scanVideo(row rowScanner) (*models.Video, error) {
	var (
		video               models.Video
		artistID, thumbnail sql.NullString
		duration            sql.NullInt64
	)
	if err := row.Scan(&video.ID, &video.Title, &artistID, &video.VideoURL, &thumbnail,
		&duration, &video.ViewCount, &video.CreatedAt); err != nil {
		return nil, err
	}
	video.ArtistID = stringPtr(artistID)
	video.ThumbnailURL = stringPtr(thumbnail)
	video.Duration = intPtr(duration)
	return &video, nil
}

func (s *Store) queryVideos(ctx context.Context, op, query string, args ...any) ([]models.Video, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	videos := []models.Video{}
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		videos = append(videos, *video)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate videos: %w", err)
	}
	return videos, nil
}

// ListVideos returns all videos, newest first.
func (s *Store) ListVideos(ctx context.Context) ([]models.Video, error) {
	return s.queryVideos(ctx, "list videos", `
		SELECT `+videoColumns+`
		FROM videos
		ORDER BY created_at DESC, id ASC`)
}

// ListVideosByArtist returns the artist's videos, newest first.
func (s *Store) ListVideosByArtist(ctx context.Context, artistID string) ([]models.Video, error) {
	return s.queryVideos(ctx, "list videos by artist", `
		SELECT `+videoColumns+`
		FROM videos
		WHERE artist_id = $1
		ORDER BY created_at DESC, id ASC`, artistID)
}

// GetVideo returns a single video by ID.
func (s *Store) GetVideo(ctx context.Context, id string) (*models.Video, error) {
	video, err := scanVideo(s.db.QueryRowContext(ctx, `
		SELECT `+videoColumns+`
		FROM videos
		WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVideoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get video: %w", err)
	}
	return video, nil
}

// CreateVideo inserts a video with a zero view count.
func (s *Store) CreateVideo(ctx context.Context, in models.Video) (*models.Video, error) {
	video, err := scanVideo(s.db.QueryRowContext(ctx, `
		INSERT INTO videos (title, artist_id, video_url, thumbnail_url, duration)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+videoColumns,
		in.Title, nullIfEmpty(in.ArtistID), in.VideoURL, nullIfEmpty(in.ThumbnailURL), intArg(in.Duration)))
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrArtistNotFound
		}
		return nil, fmt.Errorf("insert video: %w", err)
	}
	return video, nil
}

// UpdateVideo applies the non-nil fields of patch.
func (s *Store) UpdateVideo(ctx context.Context, id string, patch models.VideoPatch) (*models.Video, error) {
	var set setClause
	if patch.Title != nil {
		set.add("title", *patch.Title)
	}
	if patch.ArtistID != nil {
		set.add("artist_id", nullIfEmpty(patch.ArtistID))
	}
	if patch.VideoURL != nil {
		set.add("video_url", *patch.VideoURL)
	}
	if patch.ThumbnailURL != nil {
		set.add("thumbnail_url", nullIfEmpty(patch.ThumbnailURL))
	}
	if patch.Duration != nil {
		set.add("duration", *patch.Duration)
	}
	if set.empty() {
		return s.GetVideo(ctx, id)
	}

	query, args := set.build("videos", id, videoColumns)
	video, err := scanVideo(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVideoNotFound
	}
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrArtistNotFound
		}
		return nil, fmt.Errorf("update video: %w", err)
	}
	return video, nil
}

// DeleteVideo removes the video.
func (s *Store) DeleteVideo(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM videos WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete video: %w", err)
	}
	return nil
}

// IncrementViewCount bumps the view counter in a single statement and returns the new value.
func (s *Store) IncrementViewCount(ctx context.Context, id string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		UPDATE videos
		SET view_count = view_count + 1
		WHERE id = $1
		RETURNING view_count`, id).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrVideoNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("increment view count: %w", err)
	}
	return count, nil
}
