package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MosinFAM/microblog/config"
	"github.com/MosinFAM/microblog/internal/db"
	"github.com/MosinFAM/microblog/internal/events"
	"github.com/MosinFAM/microblog/internal/httpserver"
	"github.com/MosinFAM/microblog/internal/langdetect"
	"github.com/MosinFAM/microblog/internal/session"
	"github.com/MosinFAM/microblog/internal/storage"
	"github.com/MosinFAM/microblog/internal/telemetry"
	"github.com/MosinFAM/microblog/internal/translate"

	"github.com/gin-gonic/gin"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	cfg := config.Load()
	telemetry.InitLogger(cfg.Env)
	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.OtelEndpoint != "" {
		tp, err := telemetry.InitTracer(ctx, cfg.OtelEndpoint, cfg.Env)
		if err != nil {
			slog.Error("Failed to init tracer", "error", err)
		} else {
			defer func() { _ = tp.Shutdown(context.Background()) }()
		}
	}

	// Выбор хранилища
	var store storage.Storage
	if cfg.StorageType == "postgres" {
		dbConn, err := db.Connect(cfg.DatabaseURL)
		if err != nil {
			slog.Error("Failed to connect to DB", "error", err)
			os.Exit(1)
		}
		defer dbConn.Close()
		if err := db.Migrate(dbConn, cfg.MigrationsDir); err != nil {
			slog.Error("Failed to migrate DB", "error", err)
			os.Exit(1)
		}
		store = storage.NewPostgresStorage(dbConn)
	} else {
		store = storage.NewMemoryStorage()
	}

	var sessions session.Store = session.NewMemoryStore(cfg.SessionTTL)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := redisotel.InstrumentTracing(rdb); err != nil {
			slog.Error("Failed to instrument Redis", "error", err)
		}
		if err := rdb.Ping(ctx).Err(); err != nil {
			slog.Error("Unable to connect to Redis", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		sessions = session.NewRedisStore(rdb, cfg.SessionTTL)
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.NatsURL != "" {
		nc, err := nats.Connect(cfg.NatsURL)
		if err != nil {
			slog.Error("Unable to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer nc.Close()
		publisher = events.NewNatsPublisher(nc)
	}

	srv := &httpserver.Server{
		Config:     cfg,
		Storage:    store,
		Sessions:   sessions,
		Translator: translate.NewClient(cfg.TranslatorURL, cfg.TranslatorKey, cfg.TranslatorRegion),
		Detector:   langdetect.NewWhatlang(),
		Events:     publisher,
	}
	router, err := srv.Router()
	if err != nil {
		slog.Error("Failed to build router", "error", err)
		os.Exit(1)
	}

	handler := otelhttp.NewHandler(router, telemetry.ServiceName, otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
		return fmt.Sprintf("HTTP %s %s", r.Method, r.URL.Path)
	}))
	httpSrv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: handler,
	}

	go func() {
		slog.Info("Server is running", "addr", cfg.HTTPAddr, "storage", cfg.StorageType)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}
	slog.Info("Server exited")
}
