package main

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"musicbox/internal/app/albums"
	"musicbox/internal/app/artists"
	"musicbox/internal/app/favorites"
	"musicbox/internal/app/playlists"
	"musicbox/internal/app/songs"
	"musicbox/internal/app/users"
	"musicbox/internal/app/videos"
	"musicbox/internal/auth"
	"musicbox/internal/cache"
	"musicbox/internal/http/middleware"
	"musicbox/internal/httpapi"
	"musicbox/internal/search"
	"musicbox/internal/store"
	"musicbox/internal/upload"
)

// newCache dials Redis when configured. Without REDIS_ADDR, or when Redis
// cannot be reached, reads go straight to Postgres.
func newCache(ctx context.Context, cfg Config) (*cache.Cache, func()) {
	if cfg.RedisAddr == "" {
		log.Info().Msg("REDIS_ADDR not set, read cache disabled")
		return cache.Disabled(), func() {}
	}
	backend, err := cache.Dial(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable, read cache disabled")
		return cache.Disabled(), func() {}
	}
	log.Info().Str("addr", cfg.RedisAddr).Msg("read cache enabled")
	return cache.New(backend, cache.DefaultTTLs), func() { _ = backend.Close() }
}

func newHTTPHandler(cfg Config, db *sql.DB, dataStore *store.Store, readCache *cache.Cache) (http.Handler, error) {
	uploads, err := upload.New(cfg.UploadDir, cfg.UploadMaxBytes)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db, "musicbox"),
	)

	tokens := auth.NewTokenManager(cfg.JWTSecret, auth.TokenTTL)

	server := httpapi.New(httpapi.Services{
		Users:     users.New(dataStore, tokens),
		Artists:   artists.New(dataStore, readCache),
		Albums:    albums.New(dataStore, readCache),
		Songs:     songs.New(dataStore, readCache),
		Videos:    videos.New(dataStore, readCache),
		Playlists: playlists.New(dataStore, readCache),
		Favorites: favorites.New(dataStore),
		Search:    search.NewHandler(search.NewPGStore(db)),
		Uploads:   uploads,
		Health:    dataStore,
	}, httpapi.Options{
		Environment:   cfg.Environment,
		SecureCookies: cfg.Production(),
		CookieSigner:  auth.NewCookieSigner(cfg.SessionSecret),
		RateLimit:     cfg.RateLimitRPS,
		RateBurst:     cfg.RateLimitBurst,
		Metrics:       httpapi.NewMetrics(registry),
	})

	var handler http.Handler = server.Routes()
	handler = middleware.CORS(cfg.AllowedOrigins)(handler)
	handler = middleware.Recovery()(handler)
	handler = middleware.RequestLogging()(handler)
	return handler, nil
}
