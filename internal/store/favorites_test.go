package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

var favoriteCols = []string{"id", "user_id", "song_id", "created_at"}

func TestAddFavoriteCreates(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO user_favorites (user_id, song_id) VALUES ($1, $2) ON CONFLICT (user_id, song_id) DO NOTHING`)).
		WithArgs("u1", "s1").
		WillReturnRows(sqlmock.NewRows(favoriteCols).AddRow("f1", "u1", "s1", now))

	fav, created, err := s.AddFavorite(context.Background(), "u1", "s1")
	if err != nil {
		t.Fatalf("AddFavorite: %v", err)
	}
	if !created || fav.ID != "f1" {
		t.Fatalf("expected new favorite f1, got %+v created=%v", fav, created)
	}
}

func TestAddFavoriteTwiceReturnsExisting(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO user_favorites`)).
		WithArgs("u1", "s1").
		WillReturnRows(sqlmock.NewRows(favoriteCols))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM user_favorites WHERE user_id = $1 AND song_id = $2`)).
		WithArgs("u1", "s1").
		WillReturnRows(sqlmock.NewRows(favoriteCols).AddRow("f1", "u1", "s1", now))

	fav, created, err := s.AddFavorite(context.Background(), "u1", "s1")
	if err != nil {
		t.Fatalf("AddFavorite: %v", err)
	}
	if created {
		t.Fatalf("expected created=false on duplicate add")
	}
	if fav.ID != "f1" {
		t.Fatalf("expected existing favorite, got %+v", fav)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestAddFavoriteRetriesWhenExistingRowIsRemoved(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO user_favorites`)).
		WithArgs("u1", "s1").
		WillReturnRows(sqlmock.NewRows(favoriteCols))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM user_favorites WHERE user_id = $1 AND song_id = $2`)).
		WithArgs("u1", "s1").
		WillReturnRows(sqlmock.NewRows(favoriteCols))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO user_favorites`)).
		WithArgs("u1", "s1").
		WillReturnRows(sqlmock.NewRows(favoriteCols).AddRow("f2", "u1", "s1", now))

	fav, created, err := s.AddFavorite(context.Background(), "u1", "s1")
	if err != nil {
		t.Fatalf("AddFavorite: %v", err)
	}
	if !created || fav.ID != "f2" {
		t.Fatalf("expected re-inserted favorite f2, got %+v created=%v", fav, created)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestAddFavoriteUnknownSong(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO user_favorites`)).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "user_favorites_song_id_fkey"})

	if _, _, err := s.AddFavorite(context.Background(), "u1", "missing"); !errors.Is(err, ErrSongNotFound) {
		t.Fatalf("expected ErrSongNotFound, got %v", err)
	}
}

func TestIsFavorite(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{name: "present", want: true},
		{name: "absent", want: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			s, mock := newMockStore(t)
			mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS`)).
				WithArgs("u1", "s1").
				WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(tc.want))

			got, err := s.IsFavorite(context.Background(), "u1", "s1")
			if err != nil {
				t.Fatalf("IsFavorite: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestListFavoritesIncludesSongs(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now()
	cols := append(append([]string{}, favoriteCols...), songCols...)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM user_favorites f JOIN songs s ON s.id = f.song_id`)).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("f1", "u1", "s1", now, "s1", "Song", nil, nil, "a.mp3", nil, nil, 3, now))

	favs, err := s.ListFavorites(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ListFavorites: %v", err)
	}
	if len(favs) != 1 || favs[0].Song == nil || favs[0].Song.PlayCount != 3 {
		t.Fatalf("unexpected favorites %+v", favs)
	}
}
