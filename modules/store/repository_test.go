package store

import (
	"context"
	"testing"
	"time"

	"github.com/go-monolith/mono/pkg/types"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// mockLogger implements types.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(_ string, _ ...any) {}
func (m *mockLogger) Info(_ string, _ ...any)  {}
func (m *mockLogger) Warn(_ string, _ ...any)  {}
func (m *mockLogger) Error(_ string, _ ...any) {}
func (m *mockLogger) With(_ ...any) types.Logger {
	return m
}
func (m *mockLogger) WithModule(_ string) types.Logger {
	return m
}
func (m *mockLogger) WithError(_ error) types.Logger {
	return m
}

func newMockLogger() types.Logger {
	return &mockLogger{}
}

// setupTestDB creates an in-memory SQLite database with the task table.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := NewRepository(db).Migrate(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func newRecord(summary string) *Record {
	return &Record{
		Summary:     summary,
		TaskStatus:  "Pending",
		PendingDate: time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC),
	}
}

func TestRepository_Create(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	rec := newRecord("Write report")
	if err := repo.Create(ctx, rec); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if rec.ID != 1 {
		t.Errorf("expected generated ID 1, got %d", rec.ID)
	}

	found, err := repo.FindByID(ctx, rec.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if found.Summary != rec.Summary {
		t.Errorf("expected summary %q, got %q", rec.Summary, found.Summary)
	}
	if !found.PendingDate.Equal(rec.PendingDate) {
		t.Errorf("expected pending date %v, got %v", rec.PendingDate, found.PendingDate)
	}
	if found.CompletedDate != nil {
		t.Errorf("expected no completion date, got %v", found.CompletedDate)
	}
}

func TestRepository_IDsAreNeverReused(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	for _, s := range []string{"a", "b"} {
		if err := repo.Create(ctx, newRecord(s)); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}
	if err := repo.Delete(ctx, 2); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	rec := newRecord("c")
	if err := repo.Create(ctx, rec); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if rec.ID != 3 {
		t.Errorf("expected ID 3 after deleting 2, got %d", rec.ID)
	}
}

func TestRepository_StatusConstraint(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	rec := newRecord("bad")
	rec.TaskStatus = "Archived"
	if err := repo.Create(context.Background(), rec); err == nil {
		t.Error("expected CHECK constraint violation, got nil")
	}
}

func TestRepository_FindAll(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	t.Run("empty database", func(t *testing.T) {
		records, err := repo.FindAll(ctx, "")
		if err != nil {
			t.Fatalf("FindAll() error = %v", err)
		}
		if len(records) != 0 {
			t.Errorf("expected 0 tasks, got %d", len(records))
		}
	})

	done := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	for i, s := range []string{"a", "b", "c"} {
		rec := newRecord(s)
		if i == 1 {
			rec.TaskStatus = "Completed"
			rec.CompletedDate = &done
		}
		if err := repo.Create(ctx, rec); err != nil {
			t.Fatalf("failed to create test task: %v", err)
		}
	}

	t.Run("all in id order", func(t *testing.T) {
		records, err := repo.FindAll(ctx, "")
		if err != nil {
			t.Fatalf("FindAll() error = %v", err)
		}
		if len(records) != 3 {
			t.Fatalf("expected 3 tasks, got %d", len(records))
		}
		for i, r := range records {
			if r.ID != int64(i+1) {
				t.Errorf("position %d: expected ID %d, got %d", i, i+1, r.ID)
			}
		}
	})

	t.Run("by status", func(t *testing.T) {
		records, err := repo.FindAll(ctx, "Completed")
		if err != nil {
			t.Fatalf("FindAll() error = %v", err)
		}
		if len(records) != 1 || records[0].Summary != "b" {
			t.Errorf("expected only task b, got %+v", records)
		}
	})
}

func TestRepository_Mutate(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()
	rec := newRecord("before")
	if err := repo.Create(ctx, rec); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	before, after, err := repo.Mutate(ctx, rec.ID, func(r *Record) error {
		r.Summary = "after"
		return nil
	})
	if err != nil {
		t.Fatalf("Mutate() error = %v", err)
	}
	if before.Summary != "before" || after.Summary != "after" {
		t.Errorf("unexpected before/after: %q/%q", before.Summary, after.Summary)
	}

	found, _ := repo.FindByID(ctx, rec.ID)
	if found.Summary != "after" {
		t.Errorf("expected persisted summary %q, got %q", "after", found.Summary)
	}

	if _, _, err := repo.Mutate(ctx, 99, func(*Record) error { return nil }); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRepository_Delete(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()
	rec := newRecord("gone")
	if err := repo.Create(ctx, rec); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repo.Delete(ctx, rec.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.FindByID(ctx, rec.ID); err != ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.Delete(ctx, rec.ID); err != ErrNotFound {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}
