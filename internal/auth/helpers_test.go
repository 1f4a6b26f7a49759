package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"mangabook/catalog-api/internal/kvstore"
)

var testAdmin = User{
	Nombre:   "Admin",
	Usuario:  "admin",
	Email:    "admin@duoc.cl",
	Password: "admin",
	Tipo:     RoleAdmin,
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestManager(t *testing.T, store kvstore.Store) (*Manager, *Directory) {
	t.Helper()
	dir := NewDirectory(store, quietLogger())
	m, err := NewManager(context.Background(), store, dir, testAdmin, quietLogger())
	if err != nil {
		t.Fatalf("NewManager() error: %v", err)
	}
	return m, dir
}

func newTestService(t *testing.T) (*Service, kvstore.Store) {
	t.Helper()
	store := kvstore.NewMemoryStore()
	m, dir := newTestManager(t, store)
	svc, err := NewService(dir, m)
	if err != nil {
		t.Fatalf("NewService() error: %v", err)
	}
	return svc, store
}
