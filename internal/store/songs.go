package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"musicbox/internal/models"
)

const songColumns = `id, title, artist_id, album_id, audio_url, lyrics, duration, play_count, created_at`

// DefaultTrendingLimit applies when the caller does not pass a limit.
const DefaultTrendingLimit = 10

func scanSong(row rowScanner) (*models.Song, error) {
	var (
		song                      models.Song
		artistID, albumID, lyrics sql.NullString
		duration                  sql.NullInt64
	)
	if err := row.Scan(&song.ID, &song.Title, &artistID, &albumID, &song.AudioURL, &lyrics,
		&duration, &song.PlayCount, &song.CreatedAt); err != nil {
		return nil, err
	}
	song.ArtistID = stringPtr(artistID)
	song.AlbumID = stringPtr(albumID)
	song.Lyrics = stringPtr(lyrics)
	song.Duration = intPtr(duration)
	return &song, nil
}

func (s *Store) querySongs(ctx context.Context, op, query string, args ...any) ([]models.Song, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	songs := []models.Song{}
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, fmt.Errorf("scan song: %w", err)
		}
		songs = append(songs, *song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate songs: %w", err)
	}
	return songs, nil
}

// ListSongs returns all songs, newest first.
func (s *Store) ListSongs(ctx context.Context) ([]models.Song, error) {
	return s.querySongs(ctx, "list songs", `
		SELECT `+songColumns+`
		FROM songs
		ORDER BY created_at DESC, id ASC`)
}

// ListSongsByArtist returns the artist's songs, newest first.
func (s *Store) ListSongsByArtist(ctx context.Context, artistID string) ([]models.Song, error) {
	return s.querySongs(ctx, "list songs by artist", `
		SELECT `+songColumns+`
		FROM songs
		WHERE artist_id = $1
		ORDER BY created_at DESC, id ASC`, artistID)
}

// ListSongsByAlbum returns the album's songs ordered by title.
func (s *Store) ListSongsByAlbum(ctx context.Context, albumID string) ([]models.Song, error) {
	return s.querySongs(ctx, "list songs by album", `
		SELECT `+songColumns+`
		FROM songs
		WHERE album_id = $1
		ORDER BY title ASC, id ASC`, albumID)
}

// TrendingSongs returns at most limit songs by descending play count. Ties
// break on recency then id so repeated calls agree on the order.
func (s *Store) TrendingSongs(ctx context.Context, limit int) ([]models.Song, error) {
	if limit <= 0 {
		limit = DefaultTrendingLimit
	}
	return s.querySongs(ctx, "trending songs", `
		SELECT `+songColumns+`
		FROM songs
		ORDER BY play_count DESC, created_at DESC, id ASC
		LIMIT $1`, limit)
}

// GetSong returns a single song by ID.
func (s *Store) GetSong(ctx context.Context, id string) (*models.Song, error) {
	song, err := scanSong(s.db.QueryRowContext(ctx, `
		SELECT `+songColumns+`
		FROM songs
		WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSongNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get song: %w", err)
	}
	return song, nil
}

// CreateSong inserts a song with a zero play count.
func (s *Store) CreateSong(ctx context.Context, in models.Song) (*models.Song, error) {
	song, err := scanSong(s.db.QueryRowContext(ctx, `
		INSERT INTO songs (title, artist_id, album_id, audio_url, lyrics, duration)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+songColumns,
		in.Title, nullIfEmpty(in.ArtistID), nullIfEmpty(in.AlbumID), in.AudioURL, nullIfEmpty(in.Lyrics), intArg(in.Duration)))
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, songReferenceError(err)
		}
		return nil, fmt.Errorf("insert song: %w", err)
	}
	return song, nil
}

// UpdateSong applies the non-nil fields of patch. Play count is not writable here.
func (s *Store) UpdateSong(ctx context.Context, id string, patch models.SongPatch) (*models.Song, error) {
	var set setClause
	if patch.Title != nil {
		set.add("title", *patch.Title)
	}
	if patch.ArtistID != nil {
		set.add("artist_id", nullIfEmpty(patch.ArtistID))
	}
	if patch.AlbumID != nil {
		set.add("album_id", nullIfEmpty(patch.AlbumID))
	}
	if patch.AudioURL != nil {
		set.add("audio_url", *patch.AudioURL)
	}
	if patch.Lyrics != nil {
		set.add("lyrics", nullIfEmpty(patch.Lyrics))
	}
	if patch.Duration != nil {
		set.add("duration", *patch.Duration)
	}
	if set.empty() {
		return s.GetSong(ctx, id)
	}

	query, args := set.build("songs", id, songColumns)
	song, err := scanSong(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSongNotFound
	}
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, songReferenceError(err)
		}
		return nil, fmt.Errorf("update song: %w", err)
	}
	return song, nil
}

// DeleteSong removes the song along with its playlist memberships and favorites.
func (s *Store) DeleteSong(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM songs WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete song: %w", err)
	}
	return nil
}

// IncrementPlayCount bumps the play counter in a single statement and returns the new value.
func (s *Store) IncrementPlayCount(ctx context.Context, id string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		UPDATE songs
		SET play_count = play_count + 1
		WHERE id = $1
		RETURNING play_count`, id).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrSongNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("increment play count: %w", err)
	}
	return count, nil
}

func songReferenceError(err error) error {
	if violatedConstraint(err) == "songs_album_id_fkey" {
		return ErrAlbumNotFound
	}
	return ErrArtistNotFound
}
