package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/quillcms/quill/internal/api"
	"github.com/quillcms/quill/internal/infrastructure/config"
	mongodb "github.com/quillcms/quill/internal/infrastructure/db/mongo"
	redisdb "github.com/quillcms/quill/internal/infrastructure/db/redis"
	"github.com/quillcms/quill/internal/infrastructure/queue"
	"github.com/quillcms/quill/internal/infrastructure/storage"
	"github.com/quillcms/quill/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title           Quill CMS API
// @version         1.0
// @description     Multi-tenant content backend: domains own apps, apps own content and media.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- MongoDB ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index bootstrap failed")
	}
	if err := mongodb.NewRoleRepository(db).EnsureRoles(ctx); err != nil {
		log.Fatal().Err(err).Msg("role seed failed")
	}

	// --- Redis ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// --- Object store ---
	store, err := storage.NewS3Store(ctx, storage.Config{
		Region:    cfg.S3.Region,
		Bucket:    cfg.S3.Bucket,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		Endpoint:  cfg.S3.Endpoint,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("object store init failed")
	}

	// --- Media job pipeline ---
	usage := redisdb.NewUsageTracker(rdb)
	dispatcher := queue.NewDispatcher(0, usage, log)
	dispatcher.Start(ctx)

	e, err := api.NewRouter(api.RouterConfig{
		DB:                  db,
		Redis:               rdb,
		Store:               store,
		Jobs:                dispatcher,
		Usage:               usage,
		JWTSecret:           cfg.JWTSecret,
		JWTAlgorithm:        cfg.JWTAlgorithm,
		RotateRefreshTokens: cfg.RotateRefreshTokens,
		Log:                 log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("router init failed")
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	log.Info().Msg("server stopped")
}
