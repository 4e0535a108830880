package models

import "time"

// Playlist captures a user-curated, ordered list of songs.
type Playlist struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   *string   `json:"description"`
	UserID        string    `json:"userId"`
	IsPublic      bool      `json:"isPublic"`
	CoverImageURL *string   `json:"coverImageUrl"`
	CreatedAt     time.Time `json:"createdAt"`
}

type PlaylistPatch struct {
	Name          *string
	Description   *string
	IsPublic      *bool
	CoverImageURL *string
}

// PlaylistSong is a playlist membership. Position orders songs inside the playlist.
type PlaylistSong struct {
	ID         string    `json:"id"`
	PlaylistID string    `json:"playlistId"`
	SongID     string    `json:"songId"`
	Position   int       `json:"position"`
	AddedAt    time.Time `json:"addedAt"`
	Song       *Song     `json:"song,omitempty"`
}
