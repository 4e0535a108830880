package httpapi

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"musicbox/internal/app/users"
	"musicbox/internal/models"
	"musicbox/internal/store"
)

type fakeUsers struct {
	mu         sync.Mutex
	byName     map[string]*models.User
	passwords  map[string]string
	tokens     map[string]*models.User
	sessions   map[string]string
	resolveErr error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		byName:    map[string]*models.User{},
		passwords: map[string]string{},
		tokens:    map[string]*models.User{},
		sessions:  map[string]string{},
	}
}

// add registers a user and returns a bearer token for it.
func (f *fakeUsers) add(username string, admin bool) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := &models.User{ID: "u-" + username, Username: username, IsAdmin: admin}
	f.byName[username] = u
	token := "tok-" + username
	f.tokens[token] = u
	return token
}

func (f *fakeUsers) session(u *models.User) *users.Session {
	token := "tok-" + u.Username
	sid := fmt.Sprintf("sid-%s-%d", u.Username, len(f.sessions))
	f.tokens[token] = u
	f.sessions[sid] = token
	return &users.Session{ID: sid, Token: token, ExpiresAt: time.Now().Add(time.Hour), User: u}
}

func (f *fakeUsers) Register(_ context.Context, r users.Registration) (*users.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byName[r.Username]; ok {
		return nil, store.ErrUserExists
	}
	u := &models.User{ID: "u-" + r.Username, Username: r.Username, Email: r.Email}
	f.byName[r.Username] = u
	f.passwords[r.Username] = r.Password
	return f.session(u), nil
}

func (f *fakeUsers) Login(_ context.Context, identifier, password string) (*users.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byName[identifier]
	if !ok || f.passwords[identifier] != password {
		return nil, users.ErrInvalidCredentials
	}
	return f.session(u), nil
}

func (f *fakeUsers) Logout(_ context.Context, sid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, sid)
	return nil
}

func (f *fakeUsers) Resolve(_ context.Context, token string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	u, ok := f.tokens[token]
	if !ok {
		return nil, users.ErrUnauthorized
	}
	return u, nil
}

func (f *fakeUsers) SessionToken(_ context.Context, sid string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	token, ok := f.sessions[sid]
	if !ok {
		return "", users.ErrUnauthorized
	}
	return token, nil
}

type fakeArtists struct {
	mu      sync.Mutex
	artists map[string]models.Artist
	seq     int
}

func newFakeArtists() *fakeArtists {
	return &fakeArtists{artists: map[string]models.Artist{}}
}

func (f *fakeArtists) List(context.Context) ([]models.Artist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Artist{}
	for _, a := range f.artists {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeArtists) Get(_ context.Context, id string) (*models.Artist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.artists[id]
	if !ok {
		return nil, store.ErrArtistNotFound
	}
	return &a, nil
}

func (f *fakeArtists) Create(_ context.Context, a models.Artist) (*models.Artist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	a.ID = fmt.Sprintf("artist-%d", f.seq)
	f.artists[a.ID] = a
	return &a, nil
}

func (f *fakeArtists) Update(_ context.Context, id string, patch models.ArtistPatch) (*models.Artist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.artists[id]
	if !ok {
		return nil, store.ErrArtistNotFound
	}
	if patch.Name != nil {
		a.Name = *patch.Name
	}
	if patch.Bio != nil {
		a.Bio = patch.Bio
	}
	f.artists[id] = a
	return &a, nil
}

func (f *fakeArtists) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.artists, id)
	return nil
}

type fakeAlbums struct{}

func (fakeAlbums) List(context.Context) ([]models.Album, error) { return []models.Album{}, nil }
func (fakeAlbums) ListByArtist(context.Context, string) ([]models.Album, error) {
	return []models.Album{}, nil
}
func (fakeAlbums) Get(context.Context, string) (*models.Album, error) {
	return nil, store.ErrAlbumNotFound
}
func (fakeAlbums) Create(_ context.Context, a models.Album) (*models.Album, error) {
	a.ID = "album-1"
	return &a, nil
}
func (fakeAlbums) Update(context.Context, string, models.AlbumPatch) (*models.Album, error) {
	return nil, store.ErrAlbumNotFound
}
func (fakeAlbums) Delete(context.Context, string) error { return nil }

type fakeSongs struct {
	mu              sync.Mutex
	songs           map[string]*models.Song
	order           []string
	lastLimit       int
	lastDefaultFlag bool
	playErr         error
}

func newFakeSongs(songs ...models.Song) *fakeSongs {
	f := &fakeSongs{songs: map[string]*models.Song{}}
	for i := range songs {
		s := songs[i]
		f.songs[s.ID] = &s
		f.order = append(f.order, s.ID)
	}
	return f
}

func (f *fakeSongs) all() []models.Song {
	out := []models.Song{}
	for _, id := range f.order {
		if s, ok := f.songs[id]; ok {
			out = append(out, *s)
		}
	}
	return out
}

func (f *fakeSongs) List(context.Context) ([]models.Song, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.all(), nil
}

func (f *fakeSongs) ListByArtist(context.Context, string) ([]models.Song, error) {
	return []models.Song{}, nil
}

func (f *fakeSongs) ListByAlbum(context.Context, string) ([]models.Song, error) {
	return []models.Song{}, nil
}

func (f *fakeSongs) Trending(_ context.Context, limit int) ([]models.Song, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLimit = limit
	out := f.all()
	sort.SliceStable(out, func(i, j int) bool { return out[i].PlayCount > out[j].PlayCount })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeSongs) Get(_ context.Context, id string) (*models.Song, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.songs[id]
	if !ok {
		return nil, store.ErrSongNotFound
	}
	out := *s
	return &out, nil
}

func (f *fakeSongs) Create(_ context.Context, in models.Song, useDefaultAlbum bool) (*models.Song, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastDefaultFlag = useDefaultAlbum
	in.ID = fmt.Sprintf("song-%d", len(f.order)+1)
	f.songs[in.ID] = &in
	f.order = append(f.order, in.ID)
	out := in
	return &out, nil
}

func (f *fakeSongs) Update(_ context.Context, id string, patch models.SongPatch) (*models.Song, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.songs[id]
	if !ok {
		return nil, store.ErrSongNotFound
	}
	if patch.Title != nil {
		s.Title = *patch.Title
	}
	out := *s
	return &out, nil
}

func (f *fakeSongs) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.songs, id)
	return nil
}

func (f *fakeSongs) Play(_ context.Context, id string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.playErr != nil {
		return 0, f.playErr
	}
	s, ok := f.songs[id]
	if !ok {
		return 0, store.ErrSongNotFound
	}
	s.PlayCount++
	return s.PlayCount, nil
}

type fakeVideos struct{}

func (fakeVideos) List(context.Context) ([]models.Video, error) { return []models.Video{}, nil }
func (fakeVideos) ListByArtist(context.Context, string) ([]models.Video, error) {
	return []models.Video{}, nil
}
func (fakeVideos) Get(context.Context, string) (*models.Video, error) {
	return nil, store.ErrVideoNotFound
}
func (fakeVideos) Create(_ context.Context, v models.Video) (*models.Video, error) {
	v.ID = "video-1"
	return &v, nil
}
func (fakeVideos) Update(context.Context, string, models.VideoPatch) (*models.Video, error) {
	return nil, store.ErrVideoNotFound
}
func (fakeVideos) Delete(context.Context, string) error { return nil }
func (fakeVideos) View(_ context.Context, id string) (int, error) {
	if id != "video-1" {
		return 0, store.ErrVideoNotFound
	}
	return 1, nil
}

type fakePlaylists struct {
	mu        sync.Mutex
	playlists map[string]models.Playlist
	entries   map[string][]models.PlaylistSong
	seq       int
}

func newFakePlaylists(playlists ...models.Playlist) *fakePlaylists {
	f := &fakePlaylists{playlists: map[string]models.Playlist{}, entries: map[string][]models.PlaylistSong{}}
	for _, p := range playlists {
		f.playlists[p.ID] = p
	}
	return f
}

func (f *fakePlaylists) ListPublic(context.Context) ([]models.Playlist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Playlist{}
	for _, p := range f.playlists {
		if p.IsPublic {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePlaylists) ListByUser(_ context.Context, userID string) ([]models.Playlist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Playlist{}
	for _, p := range f.playlists {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePlaylists) Get(_ context.Context, id string) (*models.Playlist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.playlists[id]
	if !ok {
		return nil, store.ErrPlaylistNotFound
	}
	return &p, nil
}

func (f *fakePlaylists) Create(_ context.Context, in models.Playlist) (*models.Playlist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	in.ID = fmt.Sprintf("pl-new-%d", f.seq)
	f.playlists[in.ID] = in
	return &in, nil
}

func (f *fakePlaylists) Update(_ context.Context, id string, patch models.PlaylistPatch) (*models.Playlist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.playlists[id]
	if !ok {
		return nil, store.ErrPlaylistNotFound
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.IsPublic != nil {
		p.IsPublic = *patch.IsPublic
	}
	f.playlists[id] = p
	return &p, nil
}

func (f *fakePlaylists) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.playlists, id)
	return nil
}

func (f *fakePlaylists) Songs(_ context.Context, id string) ([]models.PlaylistSong, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.PlaylistSong{}, f.entries[id]...), nil
}

func (f *fakePlaylists) AddSong(_ context.Context, playlistID, songID string) (*models.PlaylistSong, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries[playlistID] {
		if e.SongID == songID {
			return &e, false, nil
		}
	}
	e := models.PlaylistSong{ID: "ps-" + songID, PlaylistID: playlistID, SongID: songID, Position: len(f.entries[playlistID])}
	f.entries[playlistID] = append(f.entries[playlistID], e)
	return &e, true, nil
}

func (f *fakePlaylists) RemoveSong(_ context.Context, playlistID, songID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.entries[playlistID][:0]
	for _, e := range f.entries[playlistID] {
		if e.SongID != songID {
			kept = append(kept, e)
		}
	}
	f.entries[playlistID] = kept
	return nil
}

type fakeFavorites struct {
	mu   sync.Mutex
	favs map[string]map[string]bool
}

func newFakeFavorites() *fakeFavorites {
	return &fakeFavorites{favs: map[string]map[string]bool{}}
}

func (f *fakeFavorites) List(_ context.Context, userID string) ([]models.Favorite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Favorite{}
	for songID := range f.favs[userID] {
		out = append(out, models.Favorite{UserID: userID, SongID: songID})
	}
	return out, nil
}

func (f *fakeFavorites) Add(_ context.Context, userID, songID string) (*models.Favorite, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if songID == "missing" {
		return nil, false, store.ErrSongNotFound
	}
	if f.favs[userID] == nil {
		f.favs[userID] = map[string]bool{}
	}
	created := !f.favs[userID][songID]
	f.favs[userID][songID] = true
	return &models.Favorite{UserID: userID, SongID: songID}, created, nil
}

func (f *fakeFavorites) Remove(_ context.Context, userID, songID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.favs[userID], songID)
	return nil
}

func (f *fakeFavorites) IsFavorite(_ context.Context, userID, songID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.favs[userID][songID], nil
}

type fakePinger struct {
	err error
}

func (p fakePinger) Ping(context.Context) error { return p.err }
