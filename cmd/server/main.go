package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/kumarshubhh/Yuvamanthan/common/arangodb"
	"github.com/kumarshubhh/Yuvamanthan/common/id"
	"github.com/kumarshubhh/Yuvamanthan/common/logger"
	"github.com/kumarshubhh/Yuvamanthan/common/otel"
	"github.com/kumarshubhh/Yuvamanthan/core/config"
	"github.com/kumarshubhh/Yuvamanthan/core/db"
	"github.com/kumarshubhh/Yuvamanthan/internal/http/middleware"
	httprouter "github.com/kumarshubhh/Yuvamanthan/internal/http/router"
	"github.com/kumarshubhh/Yuvamanthan/internal/queue"
	"github.com/kumarshubhh/Yuvamanthan/internal/service"
	"github.com/kumarshubhh/Yuvamanthan/internal/store"
	"github.com/kumarshubhh/Yuvamanthan/internal/store/memory"
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "yuvamanthan api starting", "env", cfg.Env, "store", cfg.StoreBackend)
	if err := id.Init(cfg.NodeID); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err, "node_id", cfg.NodeID)
		os.Exit(1)
	}

	users, closeUsers, err := setupUserDirectory(ctx, cfg)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to user directory", "error", err)
		os.Exit(1)
	}
	defer closeUsers()

	stores, closeStores, err := setupStores(ctx, cfg, users)
	if err != nil {
		slog.ErrorContext(ctx, "failed to set up stores", "error", err)
		os.Exit(1)
	}
	defer closeStores()

	activity, err := setupActivity(ctx, cfg)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer activity.Close()

	services := service.NewServices(stores, activity)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, services)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

// setupUserDirectory connects to the users database when one is configured.
// Without it authors are rendered from an empty in-process directory.
func setupUserDirectory(ctx context.Context, cfg config.Config) (store.UserDirectory, func(), error) {
	if !cfg.UserDirectoryEnabled() {
		slog.WarnContext(ctx, "DATABASE_URL not set, author profiles will carry ids only")
		return memory.NewDirectory(), func() {}, nil
	}

	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		return nil, nil, err
	}
	slog.InfoContext(ctx, "user directory connected")
	return store.NewUserDirectory(database), database.Close, nil
}

func setupStores(ctx context.Context, cfg config.Config, users store.UserDirectory) (*store.Stores, func(), error) {
	if cfg.StoreBackend == config.StoreBackendMemory {
		slog.WarnContext(ctx, "using in-memory store, data is lost on restart")
		return memory.New().Stores(users), func() {}, nil
	}

	client, err := arangodb.New(ctx, arangodb.Config{
		URL:      cfg.ArangoDB.URL,
		Username: cfg.ArangoDB.Username,
		Password: cfg.ArangoDB.Password,
		Database: cfg.ArangoDB.Database,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("creating arangodb client: %w", err)
	}
	if err := client.EnsureDatabase(ctx); err != nil {
		return nil, nil, fmt.Errorf("ensuring arangodb database: %w", err)
	}
	if err := client.EnsureCollections(ctx, store.Collections); err != nil {
		return nil, nil, fmt.Errorf("ensuring arangodb collections: %w", err)
	}
	slog.InfoContext(ctx, "arangodb connected", "database", cfg.ArangoDB.Database)

	closeFn := func() {
		if err := client.Close(); err != nil {
			slog.Error("arangodb close error", "error", err)
		}
	}
	return store.NewArangoStores(client, users), closeFn, nil
}

func setupActivity(ctx context.Context, cfg config.Config) (queue.Producer, error) {
	if !cfg.Activity.Enabled() {
		slog.InfoContext(ctx, "activity stream disabled (no REDIS_URL configured)")
		return queue.NewNoopProducer(), nil
	}

	redisOpts, err := redis.ParseURL(cfg.Activity.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	redisClient := redis.NewClient(redisOpts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		_ = redisClient.Close()
		return nil, err
	}
	slog.InfoContext(ctx, "redis connected", "stream", cfg.Activity.Stream)

	return queue.NewRedisProducer(redisClient, cfg.Activity.Stream, slog.Default()), nil
}

func setupRouter(cfg config.Config, services *service.Services) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span → Recovery catches panics → Logger logs with trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())

	httprouter.SetupRoutes(router, services, httprouter.RouterConfig{
		Verifier: middleware.NewTokenVerifier(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer),
	})

	return router
}

const banner = `
 __   __                                         _   _
 \ \ / /   _ __   ____ _ _ __ ___   __ _ _ __ | |_| |__   __ _ _ __
  \ V / | | \ \ / / _' | '_ ' _ \ / _' | '_ \| __| '_ \ / _' | '_ \
   | || |_| |\ V / (_| | | | | | | (_| | | | | |_| | | | (_| | | | |
   |_| \__,_| \_/ \__,_|_| |_| |_|\__,_|_| |_|\__|_| |_|\__,_|_| |_|
`
