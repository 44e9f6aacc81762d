package users

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/skillsenselab/classboard/auth/credential"
	"github.com/skillsenselab/classboard/database"
	"github.com/skillsenselab/classboard/logger"
)

func newTestStore(t *testing.T) *GormStore {
	t.Helper()
	// A named shared-cache DSN keeps the pool on one in-memory database.
	db, err := database.Open(context.Background(), database.Config{
		DSN:         fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		AutoMigrate: true,
		LogLevel:    "silent",
	}, logger.NewDefault("test"))
	if err != nil {
		t.Fatalf("database.Open failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := db.AutoMigrate(&User{}); err != nil {
		t.Fatalf("AutoMigrate failed: %v", err)
	}
	return NewGormStore(db)
}

func seed(t *testing.T, s *GormStore, email, role string) *credential.Credential {
	t.Helper()
	c := &credential.Credential{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         "Test User",
		PasswordHash: "$2a$04$notarealhash",
		Role:         role,
	}
	if err := s.Create(context.Background(), c); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return c
}

func TestGormStore_FindByEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seeded := seed(t, s, "alice@example.com", "student")

	got, err := s.FindByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("FindByEmail failed: %v", err)
	}
	if got.ID != seeded.ID || got.Role != "student" || got.PasswordHash != seeded.PasswordHash {
		t.Errorf("round trip mismatch: %+v", got)
	}

	if _, err := s.FindByEmail(ctx, "missing@example.com"); !errors.Is(err, credential.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGormStore_ExistsByEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seed(t, s, "alice@example.com", "student")

	if ok, err := s.ExistsByEmail(ctx, "alice@example.com"); err != nil || !ok {
		t.Errorf("expected exists=true, got ok=%v err=%v", ok, err)
	}
	if ok, err := s.ExistsByEmail(ctx, "missing@example.com"); err != nil || ok {
		t.Errorf("expected exists=false, got ok=%v err=%v", ok, err)
	}
}

func TestGormStore_UpdateRole(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seeded := seed(t, s, "alice@example.com", "student")

	if err := s.UpdateRole(ctx, seeded.ID, "admin"); err != nil {
		t.Fatalf("UpdateRole failed: %v", err)
	}
	got, err := s.FindByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("FindByEmail failed: %v", err)
	}
	if got.Role != "admin" {
		t.Errorf("expected role admin, got %s", got.Role)
	}

	if err := s.UpdateRole(ctx, "missing-id", "admin"); !errors.Is(err, credential.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown id, got %v", err)
	}
}

func TestGormStore_List(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seed(t, s, "a@example.com", "student")
	seed(t, s, "b@example.com", "student")
	seed(t, s, "c@example.com", "admin")

	page, total, err := s.List(ctx, 0, 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 3 {
		t.Errorf("expected total 3, got %d", total)
	}
	if len(page) != 2 {
		t.Errorf("expected page of 2, got %d", len(page))
	}

	rest, _, err := s.List(ctx, 2, 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(rest) != 1 {
		t.Errorf("expected 1 remaining, got %d", len(rest))
	}
}
