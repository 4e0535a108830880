package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"musicbox/internal/models"
)

const albumColumns = `id, title, artist_id, cover_image_url, release_date, created_at`

func scanAlbum(row rowScanner) (*models.Album, error) {
	var (
		album           models.Album
		artistID, cover sql.NullString
		released        sql.NullTime
	)
	if err := row.Scan(&album.ID, &album.Title, &artistID, &cover, &released, &album.CreatedAt); err != nil {
		return nil, err
	}
	album.ArtistID = stringPtr(artistID)
	album.CoverImageURL = stringPtr(cover)
	album.ReleaseDate = timePtr(released)
	return &album, nil
}

func (s *Store) queryAlbums(ctx context.Context, op, query string, args ...any) ([]models.Album, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	albums := []models.Album{}
	for rows.Next() {
		album, err := scanAlbum(rows)
		if err != nil {
			return nil, fmt.Errorf("scan album: %w", err)
		}
		albums = append(albums, *album)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate albums: %w", err)
	}
	return albums, nil
}

// ListAlbums returns all albums, newest first.
func (s *Store) ListAlbums(ctx context.Context) ([]models.Album, error) {
	return s.queryAlbums(ctx, "list albums", `
		SELECT `+albumColumns+`
		FROM albums
		ORDER BY created_at DESC, id ASC`)
}

// ListAlbumsByArtist returns the artist's albums, latest release first.
func (s *Store) ListAlbumsByArtist(ctx context.Context, artistID string) ([]models.Album, error) {
	return s.queryAlbums(ctx, "list albums by artist", `
		SELECT `+albumColumns+`
		FROM albums
		WHERE artist_id = $1
		ORDER BY release_date DESC NULLS LAST, created_at DESC, id ASC`, artistID)
}

// GetAlbum returns a single album by ID.
func (s *Store) GetAlbum(ctx context.Context, id string) (*models.Album, error) {
	album, err := scanAlbum(s.db.QueryRowContext(ctx, `
		SELECT `+albumColumns+`
		FROM albums
		WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAlbumNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get album: %w", err)
	}
	return album, nil
}

// FindAlbumByTitle returns the oldest album of the artist with exactly this title.
func (s *Store) FindAlbumByTitle(ctx context.Context, artistID, title string) (*models.Album, error) {
	album, err := scanAlbum(s.db.QueryRowContext(ctx, `
		SELECT `+albumColumns+`
		FROM albums
		WHERE artist_id = $1 AND title = $2
		ORDER BY created_at ASC, id ASC
		LIMIT 1`, artistID, title))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAlbumNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find album by title: %w", err)
	}
	return album, nil
}

// CreateAlbum inserts an album. An unknown artist yields ErrArtistNotFound.
func (s *Store) CreateAlbum(ctx context.Context, a models.Album) (*models.Album, error) {
	album, err := scanAlbum(s.db.QueryRowContext(ctx, `
		INSERT INTO albums (title, artist_id, cover_image_url, release_date)
		VALUES ($1, $2, $3, $4)
		RETURNING `+albumColumns,
		a.Title, nullIfEmpty(a.ArtistID), nullIfEmpty(a.CoverImageURL), a.ReleaseDate))
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrArtistNotFound
		}
		return nil, fmt.Errorf("insert album: %w", err)
	}
	return album, nil
}

// UpdateAlbum applies the non-nil fields of patch.
func (s *Store) UpdateAlbum(ctx context.Context, id string, patch models.AlbumPatch) (*models.Album, error) {
	var set setClause
	if patch.Title != nil {
		set.add("title", *patch.Title)
	}
	if patch.ArtistID != nil {
		set.add("artist_id", nullIfEmpty(patch.ArtistID))
	}
	if patch.CoverImageURL != nil {
		set.add("cover_image_url", nullIfEmpty(patch.CoverImageURL))
	}
	if patch.ReleaseDate != nil {
		set.add("release_date", *patch.ReleaseDate)
	}
	if set.empty() {
		return s.GetAlbum(ctx, id)
	}

	query, args := set.build("albums", id, albumColumns)
	album, err := scanAlbum(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAlbumNotFound
	}
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrArtistNotFound
		}
		return nil, fmt.Errorf("update album: %w", err)
	}
	return album, nil
}

// DeleteAlbum removes the album. Its songs keep a NULL album reference.
func (s *Store) DeleteAlbum(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM albums WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete album: %w", err)
	}
	return nil
}
