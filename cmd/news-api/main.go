package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/nitesh/news_api/internal/api"
	"github.com/nitesh/news_api/internal/config"
	dbtypes "github.com/nitesh/news_api/internal/db"
	"github.com/nitesh/news_api/internal/events"
	"github.com/nitesh/news_api/internal/logging"
	"github.com/nitesh/news_api/internal/service"
	"github.com/nitesh/news_api/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := dbtypes.Open(ctx, cfg.DBDriver, cfg.DatabaseURL, cfg.DBConnectAttempts, logger)
	if err != nil {
		return err
	}
	repo := store.New(db, cfg.DBDriver)
	defer repo.Close()

	// ensure tables exist
	if err := repo.RunMigrations(ctx); err != nil {
		return err
	}

	var pub events.Publisher = events.Nop{}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			logger.Warn("redis ping failed, events may be dropped", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		cancel()
		pub = events.NewRedisPublisher(rdb, cfg.EventsChannel)
	}

	svc := service.NewService(repo, pub, logger)
	handler := api.NewHandler(svc)

	gin.SetMode(cfg.GinMode)
	router := api.NewRouter(handler, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr), zap.String("db_driver", string(cfg.DBDriver)))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
