package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"musicbox/internal/models"
)

const artistColumns = `id, name, bio, profile_image_url, cover_image_url, created_at`

func scanArtist(row rowScanner) (*models.Artist, error) {
	var (
		artist           models.Artist
		bio, pimg, cover sql.NullString
	)
	if err := row.Scan(&artist.ID, &artist.Name, &bio, &pimg, &cover, &artist.CreatedAt); err != nil {
		return nil, err
	}
	artist.Bio = stringPtr(bio)
	artist.ProfileImageURL = stringPtr(pimg)
	artist.CoverImageURL = stringPtr(cover)
	return &artist, nil
}

// ListArtists returns every artist ordered by name.
func (s *Store) ListArtists(ctx context.Context) ([]models.Artist, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+artistColumns+`
		FROM artists
		ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list artists: %w", err)
	}
	defer rows.Close()

	artists := []models.Artist{}
	for rows.Next() {
		artist, err := scanArtist(rows)
		if err != nil {
			return nil, fmt.Errorf("scan artist: %w", err)
		}
		artists = append(artists, *artist)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate artists: %w", err)
	}
	return artists, nil
}

// GetArtist returns a single artist by ID.
func (s *Store) GetArtist(ctx context.Context, id string) (*models.Artist, error) {
	artist, err := scanArtist(s.db.QueryRowContext(ctx, `
		SELECT `+artistColumns+`
		FROM artists
		WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrArtistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get artist: %w", err)
	}
	return artist, nil
}

// CreateArtist inserts an artist and returns the stored row.
func (s *Store) CreateArtist(ctx context.Context, a models.Artist) (*models.Artist, error) {
	artist, err := scanArtist(s.db.QueryRowContext(ctx, `
		INSERT INTO artists (name, bio, profile_image_url, cover_image_url)
		VALUES ($1, $2, $3, $4)
		RETURNING `+artistColumns,
		a.Name, nullIfEmpty(a.Bio), nullIfEmpty(a.ProfileImageURL), nullIfEmpty(a.CoverImageURL)))
	if err != nil {
		return nil, fmt.Errorf("insert artist: %w", err)
	}
	return artist, nil
}

// UpdateArtist applies the non-nil fields of patch.
func (s *Store) UpdateArtist(ctx context.Context, id string, patch models.ArtistPatch) (*models.Artist, error) {
	var set setClause
	if patch.Name != nil {
		set.add("name", *patch.Name)
	}
	if patch.Bio != nil {
		set.add("bio", nullIfEmpty(patch.Bio))
	}
	if patch.ProfileImageURL != nil {
		set.add("profile_image_url", nullIfEmpty(patch.ProfileImageURL))
	}
	if patch.CoverImageURL != nil {
		set.add("cover_image_url", nullIfEmpty(patch.CoverImageURL))
	}
	if set.empty() {
		return s.GetArtist(ctx, id)
	}

	query, args := set.build("artists", id, artistColumns)
	artist, err := scanArtist(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrArtistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update artist: %w", err)
	}
	return artist, nil
}

// DeleteArtist removes the artist. Dependent rows keep a NULL artist reference.
func (s *Store) DeleteArtist(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM artists WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete artist: %w", err)
	}
	return nil
}
