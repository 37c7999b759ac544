package testutil

import (
	"context"
	"os"
	"strings"
	"testing"

	"go.uber.org/zap"

	dbtypes "github.com/nitesh/news_api/internal/db"
	"github.com/nitesh/news_api/internal/store"
)

// NewStore returns a migrated store loaded with store.Fixture. It runs on a
// private in-memory sqlite database unless TEST_DATABASE_URL points at
// postgres, in which case that database is wiped and reseeded.
func NewStore(t *testing.T) *store.Store {
	t.Helper()

	dialect, dsn := dbtypes.SQLite, memoryDSN(t)
	if url := os.Getenv("TEST_DATABASE_URL"); url != "" {
		dialect, dsn = dbtypes.Postgres, url
	}

	ctx := context.Background()
	db, err := dbtypes.Open(ctx, dialect, dsn, 1, zap.NewNop())
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	st := store.New(db, dialect)
	t.Cleanup(func() { st.Close() })

	if err := st.RunMigrations(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := st.Seed(ctx, store.Fixture()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return st
}

func memoryDSN(t *testing.T) string {
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	return "file:" + name + "?mode=memory&cache=shared"
}
