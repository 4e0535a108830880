package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"musicbox/internal/models"
)

var videoCols = []string{"id", "title", "artist_id", "video_url", "thumbnail_url", "duration", "view_count", "created_at"}

func TestIncrementViewCount(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SET view_count = view_count + 1 WHERE id = $1 RETURNING view_count`)).
		WithArgs("v1").
		WillReturnRows(sqlmock.NewRows([]string{"view_count"}).AddRow(4))
	mock.ExpectQuery(regexp.QuoteMeta(`SET view_count = view_count + 1`)).
		WithArgs("gone").
		WillReturnRows(sqlmock.NewRows([]string{"view_count"}))

	count, err := s.IncrementViewCount(context.Background(), "v1")
	if err != nil || count != 4 {
		t.Fatalf("expected 4, got %d %v", count, err)
	}
	if _, err := s.IncrementViewCount(context.Background(), "gone"); !errors.Is(err, ErrVideoNotFound) {
		t.Fatalf("expected ErrVideoNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestUpdateVideoBuildsPartialSet(t *testing.T) {
	s, mock := newMockStore(t)
	title := "Live"
	thumb := " "

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE videos SET title = $1, thumbnail_url = $2 WHERE id = $3 RETURNING ` + videoColumns)).
		WithArgs("Live", nil, "v1").
		WillReturnRows(sqlmock.NewRows(videoCols).AddRow("v1", "Live", nil, "/v.mp4", nil, nil, 2, time.Now()))

	video, err := s.UpdateVideo(context.Background(), "v1", models.VideoPatch{Title: &title, ThumbnailURL: &thumb})
	if err != nil {
		t.Fatalf("UpdateVideo: %v", err)
	}
	if video.Title != "Live" || video.ThumbnailURL != nil || video.ViewCount != 2 {
		t.Fatalf("unexpected video %+v", video)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestUpdateAlbumEmptyPatchReads(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM albums WHERE id = $1`)).
		WithArgs("al1").
		WillReturnRows(sqlmock.NewRows(albumCols))

	if _, err := s.UpdateAlbum(context.Background(), "al1", models.AlbumPatch{}); !errors.Is(err, ErrAlbumNotFound) {
		t.Fatalf("expected ErrAlbumNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestListAlbumsByArtistNewestReleaseFirst(t *testing.T) {
	s, mock := newMockStore(t)
	older := time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY release_date DESC NULLS LAST`)).
		WithArgs("a1").
		WillReturnRows(sqlmock.NewRows(albumCols).
			AddRow("al2", "New", "a1", nil, newer, time.Now()).
			AddRow("al1", "Old", "a1", nil, older, time.Now()).
			AddRow("al3", "Singles", "a1", nil, nil, time.Now()))

	albums, err := s.ListAlbumsByArtist(context.Background(), "a1")
	if err != nil {
		t.Fatalf("ListAlbumsByArtist: %v", err)
	}
	if len(albums) != 3 || albums[2].ReleaseDate != nil || !albums[0].ReleaseDate.Equal(newer) {
		t.Fatalf("unexpected albums %+v", albums)
	}
}

func TestDeleteVideoIsIdempotent(t *testing.T) {
	s, mock := newMockStore(t)

	for i := 0; i < 2; i++ {
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM videos WHERE id = $1`)).
			WithArgs("v1").
			WillReturnResult(sqlmock.NewResult(0, int64(1-i)))
	}
	for i := 0; i < 2; i++ {
		if err := s.DeleteVideo(context.Background(), "v1"); err != nil {
			t.Fatalf("DeleteVideo #%d: %v", i+1, err)
		}
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
