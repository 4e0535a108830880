package models

import "time"

// Favorite records that a user hearted a song. At most one per (user, song).
type Favorite struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	SongID    string    `json:"songId"`
	CreatedAt time.Time `json:"createdAt"`
	Song      *Song     `json:"song,omitempty"`
}
