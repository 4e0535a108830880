package schema

import (
	"strings"
	"time"

	"musicbox/internal/models"
)

// DefaultAlbumSentinel is the albumId value that asks for the artist's default album.
const DefaultAlbumSentinel = "default"

// NoAlbumSentinel is the albumId value that stores the song without an album.
const NoAlbumSentinel = "none"

type RegisterRequest struct {
	Username  string  `json:"username" validate:"notblank,min=3,max=50"`
	Email     *string `json:"email" validate:"omitempty,email,max=255"`
	Password  string  `json:"password" validate:"required,min=6,maxbytes=72"`
	FirstName *string `json:"firstName" validate:"omitempty,max=100"`
	LastName  *string `json:"lastName" validate:"omitempty,max=100"`
}

// Normalize trims identifiers and drops an empty email so it is stored as NULL.
func (r *RegisterRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	if r.Email != nil {
		email := strings.TrimSpace(*r.Email)
		if email == "" {
			r.Email = nil
		} else {
			r.Email = &email
		}
	}
}

// LoginRequest accepts a username or an email in Username.
type LoginRequest struct {
	Username string `json:"username" validate:"notblank"`
	Password string `json:"password" validate:"required"`
}

type ArtistCreate struct {
	Name            string  `json:"name" validate:"notblank,max=255"`
	Bio             *string `json:"bio"`
	ProfileImageURL *string `json:"profileImageUrl" validate:"omitempty,max=2048"`
	CoverImageURL   *string `json:"coverImageUrl" validate:"omitempty,max=2048"`
}

func (r ArtistCreate) Artist() models.Artist {
	return models.Artist{
		Name:            strings.TrimSpace(r.Name),
		Bio:             r.Bio,
		ProfileImageURL: r.ProfileImageURL,
		CoverImageURL:   r.CoverImageURL,
	}
}

type ArtistUpdate struct {
	Name            *string `json:"name" validate:"omitnil,notblank,max=255"`
	Bio             *string `json:"bio"`
	ProfileImageURL *string `json:"profileImageUrl" validate:"omitempty,max=2048"`
	CoverImageURL   *string `json:"coverImageUrl" validate:"omitempty,max=2048"`
}

func (r ArtistUpdate) Patch() models.ArtistPatch {
	return models.ArtistPatch{
		Name:            trimmed(r.Name),
		Bio:             r.Bio,
		ProfileImageURL: r.ProfileImageURL,
		CoverImageURL:   r.CoverImageURL,
	}
}

type AlbumCreate struct {
	Title         string  `json:"title" validate:"notblank,max=255"`
	ArtistID      *string `json:"artistId"`
	CoverImageURL *string `json:"coverImageUrl" validate:"omitempty,max=2048"`
	ReleaseDate   *string `json:"releaseDate" validate:"omitempty,date"`
}

func (r AlbumCreate) Album() models.Album {
	return models.Album{
		Title:         strings.TrimSpace(r.Title),
		ArtistID:      r.ArtistID,
		CoverImageURL: r.CoverImageURL,
		ReleaseDate:   parsedDate(r.ReleaseDate),
	}
}

type AlbumUpdate struct {
	Title         *string `json:"title" validate:"omitnil,notblank,max=255"`
	ArtistID      *string `json:"artistId"`
	CoverImageURL *string `json:"coverImageUrl" validate:"omitempty,max=2048"`
	ReleaseDate   *string `json:"releaseDate" validate:"omitempty,date"`
}

func (r AlbumUpdate) Patch() models.AlbumPatch {
	return models.AlbumPatch{
		Title:         trimmed(r.Title),
		ArtistID:      r.ArtistID,
		CoverImageURL: r.CoverImageURL,
		ReleaseDate:   parsedDate(r.ReleaseDate),
	}
}

type SongCreate struct {
	Title    string  `json:"title" validate:"notblank,max=255"`
	ArtistID *string `json:"artistId"`
	AlbumID  *string `json:"albumId"`
	AudioURL string  `json:"audioUrl" validate:"notblank,max=2048"`
	Lyrics   *string `json:"lyrics"`
	Duration *int    `json:"duration" validate:"omitempty,min=0"`
}

// WantsDefaultAlbum reports whether the album should be resolved to the artist's default album.
func (r SongCreate) WantsDefaultAlbum() bool {
	return r.AlbumID != nil && *r.AlbumID == DefaultAlbumSentinel
}

func (r SongCreate) Song() models.Song {
	return models.Song{
		Title:    strings.TrimSpace(r.Title),
		ArtistID: r.ArtistID,
		AlbumID:  withoutNoAlbum(r.AlbumID),
		AudioURL: strings.TrimSpace(r.AudioURL),
		Lyrics:   r.Lyrics,
		Duration: r.Duration,
	}
}

type SongUpdate struct {
	Title    *string `json:"title" validate:"omitnil,notblank,max=255"`
	ArtistID *string `json:"artistId"`
	AlbumID  *string `json:"albumId"`
	AudioURL *string `json:"audioUrl" validate:"omitnil,notblank,max=2048"`
	Lyrics   *string `json:"lyrics"`
	Duration *int    `json:"duration" validate:"omitempty,min=0"`
}

func (r SongUpdate) Patch() models.SongPatch {
	return models.SongPatch{
		Title:    trimmed(r.Title),
		ArtistID: r.ArtistID,
		AlbumID:  clearNoAlbum(r.AlbumID),
		AudioURL: trimmed(r.AudioURL),
		Lyrics:   r.Lyrics,
		Duration: r.Duration,
	}
}

type VideoCreate struct {
	Title        string  `json:"title" validate:"notblank,max=255"`
	ArtistID     *string `json:"artistId"`
	VideoURL     string  `json:"videoUrl" validate:"notblank,max=2048"`
	ThumbnailURL *string `json:"thumbnailUrl" validate:"omitempty,max=2048"`
	Duration     *int    `json:"duration" validate:"omitempty,min=0"`
}

func (r VideoCreate) Video() models.Video {
	return models.Video{
		Title:        strings.TrimSpace(r.Title),
		ArtistID:     r.ArtistID,
		VideoURL:     strings.TrimSpace(r.VideoURL),
		ThumbnailURL: r.ThumbnailURL,
		Duration:     r.Duration,
	}
}

type VideoUpdate struct {
	Title        *string `json:"title" validate:"omitnil,notblank,max=255"`
	ArtistID     *string `json:"artistId"`
	VideoURL     *string `json:"videoUrl" validate:"omitnil,notblank,max=2048"`
	ThumbnailURL *string `json:"thumbnailUrl" validate:"omitempty,max=2048"`
	Duration     *int    `json:"duration" validate:"omitempty,min=0"`
}

func (r VideoUpdate) Patch() models.VideoPatch {
	return models.VideoPatch{
		Title:        trimmed(r.Title),
		ArtistID:     r.ArtistID,
		VideoURL:     trimmed(r.VideoURL),
		ThumbnailURL: r.ThumbnailURL,
		Duration:     r.Duration,
	}
}

// PlaylistCreate defaults to a public playlist when isPublic is omitted.
type PlaylistCreate struct {
	Name          string  `json:"name" validate:"notblank,max=255"`
	Description   *string `json:"description" validate:"omitempty,max=2000"`
	IsPublic      *bool   `json:"isPublic"`
	CoverImageURL *string `json:"coverImageUrl" validate:"omitempty,max=2048"`
}

func (r PlaylistCreate) Playlist(ownerID string) models.Playlist {
	public := true
	if r.IsPublic != nil {
		public = *r.IsPublic
	}
	return models.Playlist{
		Name:          strings.TrimSpace(r.Name),
		Description:   r.Description,
		UserID:        ownerID,
		IsPublic:      public,
		CoverImageURL: r.CoverImageURL,
	}
}

type PlaylistUpdate struct {
	Name          *string `json:"name" validate:"omitnil,notblank,max=255"`
	Description   *string `json:"description" validate:"omitempty,max=2000"`
	IsPublic      *bool   `json:"isPublic"`
	CoverImageURL *string `json:"coverImageUrl" validate:"omitempty,max=2048"`
}

func (r PlaylistUpdate) Patch() models.PlaylistPatch {
	return models.PlaylistPatch{
		Name:          trimmed(r.Name),
		Description:   r.Description,
		IsPublic:      r.IsPublic,
		CoverImageURL: r.CoverImageURL,
	}
}

type PlaylistSongAdd struct {
	SongID string `json:"songId" validate:"notblank"`
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	return &s
}

func parsedDate(v *string) *time.Time {
	if v == nil {
		return nil
	}
	t, err := ParseDate(*v)
	if err != nil {
		return nil
	}
	return &t
}

// withoutNoAlbum drops the "none" album reference so the song is stored without one.
func withoutNoAlbum(id *string) *string {
	if id != nil && *id == NoAlbumSentinel {
		return nil
	}
	return id
}

// clearNoAlbum turns "none" into an empty reference, which an update stores as NULL.
func clearNoAlbum(id *string) *string {
	if id != nil && *id == NoAlbumSentinel {
		empty := ""
		return &empty
	}
	return id
}
