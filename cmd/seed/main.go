// Command seed resets the configured database and loads the development
// dataset. It uses the same environment as the server.
package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/nitesh/news_api/internal/config"
	dbtypes "github.com/nitesh/news_api/internal/db"
	"github.com/nitesh/news_api/internal/logging"
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

	ctx := context.Background()
	db, err := dbtypes.Open(ctx, cfg.DBDriver, cfg.DatabaseURL, cfg.DBConnectAttempts, logger)
	if err != nil {
		logger.Fatal("open db", zap.Error(err))
	}
	repo := store.New(db, cfg.DBDriver)
	defer repo.Close()

	if err := repo.RunMigrations(ctx); err != nil {
		logger.Fatal("migrations", zap.Error(err))
	}

	data := store.Fixture()
	if err := repo.Seed(ctx, data); err != nil {
		logger.Fatal("seed", zap.Error(err))
	}
	logger.Info("seeded",
		zap.Int("topics", len(data.Topics)),
		zap.Int("users", len(data.Users)),
		zap.Int("articles", len(data.Articles)),
		zap.Int("comments", len(data.Comments)),
	)
}
