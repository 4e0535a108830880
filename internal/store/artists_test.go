package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"musicbox/internal/models"
)

var albumCols = []string{"id", "title", "artist_id", "cover_image_url", "release_date", "created_at"}

func TestListArtistsOrderedByName(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM artists ORDER BY name ASC, id ASC`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "bio", "profile_image_url", "cover_image_url", "created_at"}).
			AddRow("a1", "Abba", "Swedish", nil, nil, now).
			AddRow("a2", "Zaz", nil, nil, nil, now))

	artists, err := s.ListArtists(context.Background())
	if err != nil {
		t.Fatalf("ListArtists: %v", err)
	}
	if len(artists) != 2 || artists[0].Name != "Abba" {
		t.Fatalf("unexpected artists %+v", artists)
	}
	if artists[0].Bio == nil || *artists[0].Bio != "Swedish" {
		t.Fatalf("expected bio, got %v", artists[0].Bio)
	}
}

func TestUpdateArtistMissing(t *testing.T) {
	s, mock := newMockStore(t)
	name := "New"

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE artists SET name = $1 WHERE id = $2`)).
		WithArgs("New", "a9").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "bio", "profile_image_url", "cover_image_url", "created_at"}))

	if _, err := s.UpdateArtist(context.Background(), "a9", models.ArtistPatch{Name: &name}); !errors.Is(err, ErrArtistNotFound) {
		t.Fatalf("expected ErrArtistNotFound, got %v", err)
	}
}

func TestFindAlbumByTitle(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE artist_id = $1 AND title = $2`)).
		WithArgs("a1", "Singles").
		WillReturnRows(sqlmock.NewRows(albumCols).AddRow("al1", "Singles", "a1", nil, nil, time.Now()))

	album, err := s.FindAlbumByTitle(context.Background(), "a1", "Singles")
	if err != nil {
		t.Fatalf("FindAlbumByTitle: %v", err)
	}
	if album.ID != "al1" || album.ReleaseDate != nil {
		t.Fatalf("unexpected album %+v", album)
	}
}

func TestCreateAlbumUnknownArtist(t *testing.T) {
	s, mock := newMockStore(t)
	artist := "ghost"

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO albums`)).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	if _, err := s.CreateAlbum(context.Background(), models.Album{Title: "T", ArtistID: &artist}); !errors.Is(err, ErrArtistNotFound) {
		t.Fatalf("expected ErrArtistNotFound, got %v", err)
	}
}
