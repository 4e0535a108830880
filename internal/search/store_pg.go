package search

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Store defines the persistence operations required by the search handler.
type Store interface {
	Search(ctx context.Context, query string, limit int) (Results, error)
}

// Results captures the different result buckets surfaced by the handler.
type Results struct {
	Artists []ArtistResult
	Albums  []AlbumResult
	Songs   []SongResult
	Videos  []VideoResult
}

// ArtistResult summarises an artist match.
type ArtistResult struct {
	ID         string
	Name       string
	AlbumCount int
	ImageURL   string
}

// AlbumResult summarises an album match.
type AlbumResult struct {
	ID          string
	Title       string
	Artist      string
	ReleaseYear int
	ImageURL    string
}

// SongResult summarises a song match.
type SongResult struct {
	ID     string
	Title  string
	Artist string
	Album  string
}

// VideoResult summarises a video match.
type VideoResult struct {
	ID       string
	Title    string
	Artist   string
	ImageURL string
}

// PGStore implements Store using PostgreSQL.
type PGStore struct {
	db *sql.DB
}

// NewPGStore creates a Store backed by the supplied database handle.
func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

// Search performs a fan-out query across artists, albums, songs and videos.
// Matching is a case-insensitive substring match on names and titles.
func (s *PGStore) Search(ctx context.Context, query string, limit int) (Results, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	like := "%" + escapeLike(query) + "%"

	artists, err := s.fetchArtists(ctx, like, limit)
	if err != nil {
		return Results{}, err
	}

	albums, err := s.fetchAlbums(ctx, like, limit)
	if err != nil {
		return Results{}, err
	}

	songs, err := s.fetchSongs(ctx, like, limit)
	if err != nil {
		return Results{}, err
	}

	videos, err := s.fetchVideos(ctx, like, limit)
	if err != nil {
		return Results{}, err
	}

	return Results{
		Artists: artists,
		Albums:  albums,
		Songs:   songs,
		Videos:  videos,
	}, nil
}

func (s *PGStore) fetchArtists(ctx context.Context, like string, limit int) ([]ArtistResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ar.id, ar.name, COALESCE(ar.profile_image_url, ''),
			(SELECT COUNT(*) FROM albums al WHERE al.artist_id = ar.id) AS album_count
		FROM artists ar
		WHERE ar.name ILIKE $1
		ORDER BY ar.name ASC, ar.id ASC
		LIMIT $2
	`, like, limit)
	if err != nil {
		return nil, fmt.Errorf("search artists: %w", err)
	}
	defer rows.Close()

	results := make([]ArtistResult, 0)
	for rows.Next() {
		var r ArtistResult
		if err := rows.Scan(&r.ID, &r.Name, &r.ImageURL, &r.AlbumCount); err != nil {
			return nil, fmt.Errorf("scan artist: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate artists: %w", err)
	}
	return results, nil
}

func (s *PGStore) fetchAlbums(ctx context.Context, like string, limit int) ([]AlbumResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT al.id, al.title, COALESCE(ar.name, ''),
			COALESCE(EXTRACT(YEAR FROM al.release_date)::int, 0), COALESCE(al.cover_image_url, '')
		FROM albums al
		LEFT JOIN artists ar ON ar.id = al.artist_id
		WHERE al.title ILIKE $1 OR ar.name ILIKE $1
		ORDER BY al.release_date DESC NULLS LAST, al.title ASC
		LIMIT $2
	`, like, limit)
	if err != nil {
		return nil, fmt.Errorf("search albums: %w", err)
	}
	defer rows.Close()

	results := make([]AlbumResult, 0)
	for rows.Next() {
		var r AlbumResult
		if err := rows.Scan(&r.ID, &r.Title, &r.Artist, &r.ReleaseYear, &r.ImageURL); err != nil {
			return nil, fmt.Errorf("scan album: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate albums: %w", err)
	}
	return results, nil
}

func (s *PGStore) fetchSongs(ctx context.Context, like string, limit int) ([]SongResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.title, COALESCE(ar.name, ''), COALESCE(al.title, '')
		FROM songs s
		LEFT JOIN artists ar ON ar.id = s.artist_id
		LEFT JOIN albums al ON al.id = s.album_id
		WHERE s.title ILIKE $1 OR ar.name ILIKE $1
		ORDER BY s.play_count DESC, s.title ASC
		LIMIT $2
	`, like, limit)
	if err != nil {
		return nil, fmt.Errorf("search songs: %w", err)
	}
	defer rows.Close()

	results := make([]SongResult, 0)
	for rows.Next() {
		var r SongResult
		if err := rows.Scan(&r.ID, &r.Title, &r.Artist, &r.Album); err != nil {
			return nil, fmt.Errorf("scan song: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate songs: %w", err)
	}
	return results, nil
}

func (s *PGStore) fetchVideos(ctx context.Context, like string, limit int) ([]VideoResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT v.id, v.title, COALESCE(ar.name, ''), COALESCE(v.thumbnail_url, '')
		FROM videos v
		LEFT JOIN artists ar ON ar.id = v.artist_id
		WHERE v.title ILIKE $1 OR ar.name ILIKE $1
		ORDER BY v.view_count DESC, v.title ASC
		LIMIT $2
	`, like, limit)
	if err != nil {
		return nil, fmt.Errorf("search videos: %w", err)
	}
	defer rows.Close()

	results := make([]VideoResult, 0)
	for rows.Next() {
		var r VideoResult
		if err := rows.Scan(&r.ID, &r.Title, &r.Artist, &r.ImageURL); err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate videos: %w", err)
	}
	return results, nil
}

// escapeLike neutralises LIKE metacharacters so user input matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
