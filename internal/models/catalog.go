package models

import "time"

// Artist is a performer referenced by albums, songs and videos.
type Artist struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Bio             *string   `json:"bio"`
	ProfileImageURL *string   `json:"profileImageUrl"`
	CoverImageURL   *string   `json:"coverImageUrl"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ArtistPatch holds the fields of a partial artist update. Nil means unchanged.
type ArtistPatch struct {
	Name            *string
	Bio             *string
	ProfileImageURL *string
	CoverImageURL   *string
}

// Album groups songs under an optional artist.
type Album struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	ArtistID      *string    `json:"artistId"`
	CoverImageURL *string    `json:"coverImageUrl"`
	ReleaseDate   *time.Time `json:"releaseDate"`
	CreatedAt     time.Time  `json:"createdAt"`
}

type AlbumPatch struct {
	Title         *string
	ArtistID      *string
	CoverImageURL *string
	ReleaseDate   *time.Time
}

// Song is a playable track. PlayCount only ever grows.
type Song struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	ArtistID  *string   `json:"artistId"`
	AlbumID   *string   `json:"albumId"`
	AudioURL  string    `json:"audioUrl"`
	Lyrics    *string   `json:"lyrics"`
	Duration  *int      `json:"duration"`
	PlayCount int       `json:"playCount"`
	CreatedAt time.Time `json:"createdAt"`
}

type SongPatch struct {
	Title    *string
	ArtistID *string
	AlbumID  *string
	AudioURL *string
	Lyrics   *string
	Duration *int
}

// Video is a watchable clip. ViewCount only ever grows.
type Video struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	ArtistID     *string   `json:"artistId"`
	VideoURL     string    `json:"videoUrl"`
	ThumbnailURL *string   `json:"thumbnailUrl"`
	Duration     *int      `json:"duration"`
	ViewCount    int       `json:"viewCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

type VideoPatch struct {
	Title        *string
	ArtistID     *string
	VideoURL     *string
	ThumbnailURL *string
	Duration     *int
}
