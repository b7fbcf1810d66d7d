package storage_test

import (
	"path/filepath"
	"testing"

	"cashflow/internal/storage"
	"cashflow/internal/storage/storagetest"
)

func newTestRepo(t *testing.T) storage.Repository {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "data", "cashflow.db"), nil)
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestSQLiteRepositoryContract(t *testing.T) {
	storagetest.Run(t, newTestRepo)
}

func TestMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cashflow.db")
	for i := 0; i < 2; i++ {
		repo, err := storage.NewSQLiteRepository(path, nil)
		if err != nil {
			t.Fatalf("open %d: %v", i, err)
		}
		if err := repo.Close(); err != nil {
			t.Fatalf("close %d: %v", i, err)
		}
	}
}

func TestMigrate_ReportsVersion(t *testing.T) {
	dsn := storage.DSN(filepath.Join(t.TempDir(), "schema.db"))

	first, err := storage.Migrate(dsn)
	if err != nil {
		t.Fatalf("first Migrate() error = %v", err)
	}
	if first.Version != 1 || !first.Applied {
		t.Errorf("first = %+v, want version 1 applied", first)
	}

	second, err := storage.Migrate(dsn)
	if err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}
	if second.Version != 1 || second.Applied {
		t.Errorf("second = %+v, want version 1 with nothing applied", second)
	}
}
