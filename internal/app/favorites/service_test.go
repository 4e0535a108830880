package favorites

import (
	"context"
	"sync"
	"testing"
	"time"

	"musicbox/internal/models"
	"musicbox/internal/store"
)

type pair struct{ user, song string }

// memStore enforces the (user, song) uniqueness the database constraint provides.
type memStore struct {
	mu    sync.Mutex
	rows  map[pair]models.Favorite
	songs map[string]bool
}

func newMemStore(songs ...string) *memStore {
	m := &memStore{rows: map[pair]models.Favorite{}, songs: map[string]bool{}}
	for _, s := range songs {
		m.songs[s] = true
	}
	return m
}

func (m *memStore) ListFavorites(_ context.Context, userID string) ([]models.Favorite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Favorite{}
	for k, v := range m.rows {
		if k.user == userID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *memStore) AddFavorite(_ context.Context, userID, songID string) (*models.Favorite, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.songs[songID] {
		return nil, false, store.ErrSongNotFound
	}
	k := pair{userID, songID}
	if existing, ok := m.rows[k]; ok {
		return &existing, false, nil
	}
	fav := models.Favorite{ID: userID + ":" + songID, UserID: userID, SongID: songID, CreatedAt: time.Now()}
	m.rows[k] = fav
	return &fav, true, nil
}

func (m *memStore) RemoveFavorite(_ context.Context, userID, songID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, pair{userID, songID})
	return nil
}

func (m *memStore) IsFavorite(_ context.Context, userID, songID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.rows[pair{userID, songID}]
	return ok, nil
}

func TestFavoriteLifecycle(t *testing.T) {
	svc := New(newMemStore("s1"))
	ctx := context.Background()

	if fav, _ := svc.IsFavorite(ctx, "u1", "s1"); fav {
		t.Fatalf("expected not favorite initially")
	}
	if _, created, err := svc.Add(ctx, "u1", "s1"); err != nil || !created {
		t.Fatalf("expected first add to create, created=%v err=%v", created, err)
	}
	if _, created, err := svc.Add(ctx, "u1", "s1"); err != nil || created {
		t.Fatalf("expected second add to be a no-op, created=%v err=%v", created, err)
	}
	list, _ := svc.List(ctx, "u1")
	if len(list) != 1 {
		t.Fatalf("expected exactly one favorite row, got %d", len(list))
	}
	if fav, _ := svc.IsFavorite(ctx, "u1", "s1"); !fav {
		t.Fatalf("expected favorite after add")
	}
	if err := svc.Remove(ctx, "u1", "s1"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := svc.Remove(ctx, "u1", "s1"); err != nil {
		t.Fatalf("second Remove: %v", err)
	}
	if fav, _ := svc.IsFavorite(ctx, "u1", "s1"); fav {
		t.Fatalf("expected not favorite after remove")
	}
}

func TestConcurrentAddsProduceOneRow(t *testing.T) {
	st := newMemStore("s1")
	svc := New(st)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok, err := svc.Add(context.Background(), "u1", "s1")
			if err != nil {
				t.Errorf("Add: %v", err)
				return
			}
			if ok {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if created != 1 || len(st.rows) != 1 {
		t.Fatalf("expected a single created row, created=%d rows=%d", created, len(st.rows))
	}
}
