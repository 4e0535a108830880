package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"musicbox/internal/models"
)

const playlistColumns = `id, name, description, user_id, is_public, cover_image_url, created_at`

const joinedSongColumns = `s.id, s.title, s.artist_id, s.album_id, s.audio_url, s.lyrics, s.duration, s.play_count, s.created_at`

func scanPlaylist(row rowScanner) (*models.Playlist, error) {
	var (
		playlist           models.Playlist
		description, cover sql.NullString
	)
	if err := row.Scan(&playlist.ID, &playlist.Name, &description, &playlist.UserID,
		&playlist.IsPublic, &cover, &playlist.CreatedAt); err != nil {
		return nil, err
	}
	playlist.Description = stringPtr(description)
	playlist.CoverImageURL = stringPtr(cover)
	return &playlist, nil
}

func (s *Store) queryPlaylists(ctx context.Context, op, query string, args ...any) ([]models.Playlist, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	playlists := []models.Playlist{}
	for rows.Next() {
		playlist, err := scanPlaylist(rows)
		if err != nil {
			return nil, fmt.Errorf("scan playlist: %w", err)
		}
		playlists = append(playlists, *playlist)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate playlists: %w", err)
	}
	return playlists, nil
}

// ListPublicPlaylists returns public playlists, newest first.
func (s *Store) ListPublicPlaylists(ctx context.Context) ([]models.Playlist, error) {
	return s.queryPlaylists(ctx, "list public playlists", `
		SELECT `+playlistColumns+`
		FROM playlists
		WHERE is_public = TRUE
		ORDER BY created_at DESC, id ASC`)
}

// ListPlaylistsByUser returns every playlist the user owns, newest first.
func (s *Store) ListPlaylistsByUser(ctx context.Context, userID string) ([]models.Playlist, error) {
	return s.queryPlaylists(ctx, "list user playlists", `
		SELECT `+playlistColumns+`
		FROM playlists
		WHERE user_id = $1
		ORDER BY created_at DESC, id ASC`, userID)
}

// GetPlaylist returns a single playlist by ID.
func (s *Store) GetPlaylist(ctx context.Context, id string) (*models.Playlist, error) {
	playlist, err := scanPlaylist(s.db.QueryRowContext(ctx, `
		SELECT `+playlistColumns+`
		FROM playlists
		WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlaylistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get playlist: %w", err)
	}
	return playlist, nil
}

// CreatePlaylist persists a new playlist owned by in.UserID.
func (s *Store) CreatePlaylist(ctx context.Context, in models.Playlist) (*models.Playlist, error) {
	playlist, err := scanPlaylist(s.db.QueryRowContext(ctx, `
		INSERT INTO playlists (name, description, user_id, is_public, cover_image_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+playlistColumns,
		in.Name, nullIfEmpty(in.Description), in.UserID, in.IsPublic, nullIfEmpty(in.CoverImageURL)))
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("insert playlist: %w", err)
	}
	return playlist, nil
}

// UpdatePlaylist applies the non-nil fields of patch. Ownership cannot change.
func (s *Store) UpdatePlaylist(ctx context.Context, id string, patch models.PlaylistPatch) (*models.Playlist, error) {
	var set setClause
	if patch.Name != nil {
		set.add("name", *patch.Name)
	}
	if patch.Description != nil {
		set.add("description", nullIfEmpty(patch.Description))
	}
	if patch.IsPublic != nil {
		set.add("is_public", *patch.IsPublic)
	}
	if patch.CoverImageURL != nil {
		set.add("cover_image_url", nullIfEmpty(patch.CoverImageURL))
	}
	if set.empty() {
		return s.GetPlaylist(ctx, id)
	}

	query, args := set.build("playlists", id, playlistColumns)
	playlist, err := scanPlaylist(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlaylistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update playlist: %w", err)
	}
	return playlist, nil
}

// DeletePlaylist removes the playlist and its memberships.
func (s *Store) DeletePlaylist(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM playlists WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}
	return nil
}

// ListPlaylistSongs returns the memberships of a playlist in position order, each with its song.
func (s *Store) ListPlaylistSongs(ctx context.Context, playlistID string) ([]models.PlaylistSong, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ps.id, ps.playlist_id, ps.song_id, ps.position, ps.added_at, `+joinedSongColumns+`
		FROM playlist_songs ps
		JOIN songs s ON s.id = ps.song_id
		WHERE ps.playlist_id = $1
		ORDER BY ps.position ASC, ps.added_at ASC`, playlistID)
	if err != nil {
		return nil, fmt.Errorf("list playlist songs: %w", err)
	}
	defer rows.Close()

	entries := []models.PlaylistSong{}
	for rows.Next() {
		var (
			entry                     models.PlaylistSong
			song                      models.Song
			artistID, albumID, lyrics sql.NullString
			duration                  sql.NullInt64
		)
		if err := rows.Scan(&entry.ID, &entry.PlaylistID, &entry.SongID, &entry.Position, &entry.AddedAt,
			&song.ID, &song.Title, &artistID, &albumID, &song.AudioURL, &lyrics, &duration,
			&song.PlayCount, &song.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan playlist song: %w", err)
		}
		song.ArtistID = stringPtr(artistID)
		song.AlbumID = stringPtr(albumID)
		song.Lyrics = stringPtr(lyrics)
		song.Duration = intPtr(duration)
		entry.Song = &song
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate playlist songs: %w", err)
	}
	return entries, nil
}

// AddSongToPlaylist appends the song at the end of the playlist. Adding a song
// that is already present returns the existing membership with created=false.
// If that membership is removed between the insert and the read, the insert is
// tried again.
func (s *Store) AddSongToPlaylist(ctx context.Context, playlistID, songID string) (*models.PlaylistSong, bool, error) {
	for attempt := 0; ; attempt++ {
		entry, created, err := s.addSongToPlaylistOnce(ctx, playlistID, songID)
		if errors.Is(err, errRowVanished) && attempt == 0 {
			continue
		}
		return entry, created, err
	}
}

func (s *Store) addSongToPlaylistOnce(ctx context.Context, playlistID, songID string) (*models.PlaylistSong, bool, error) {
	var entry models.PlaylistSong
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO playlist_songs (playlist_id, song_id, position)
		SELECT $1, $2, COALESCE(MAX(position) + 1, 0)
		FROM playlist_songs
		WHERE playlist_id = $1
		ON CONFLICT (playlist_id, song_id) DO NOTHING
		RETURNING id, playlist_id, song_id, position, added_at`,
		playlistID, songID).Scan(&entry.ID, &entry.PlaylistID, &entry.SongID, &entry.Position, &entry.AddedAt)
	if err == nil {
		return &entry, true, nil
	}
	if isForeignKeyViolation(err) {
		if violatedConstraint(err) == "playlist_songs_playlist_id_fkey" {
			return nil, false, ErrPlaylistNotFound
		}
		return nil, false, ErrSongNotFound
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("insert playlist song: %w", err)
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT id, playlist_id, song_id, position, added_at
		FROM playlist_songs
		WHERE playlist_id = $1 AND song_id = $2`,
		playlistID, songID).Scan(&entry.ID, &entry.PlaylistID, &entry.SongID, &entry.Position, &entry.AddedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, errRowVanished
	}
	if err != nil {
		return nil, false, fmt.Errorf("load playlist song: %w", err)
	}
	return &entry, false, nil
}

// RemoveSongFromPlaylist deletes the membership if present.
func (s *Store) RemoveSongFromPlaylist(ctx context.Context, playlistID, songID string) error {
	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM playlist_songs
		WHERE playlist_id = $1 AND song_id = $2`, playlistID, songID); err != nil {
		return fmt.Errorf("delete playlist song: %w", err)
	}
	return nil
}
