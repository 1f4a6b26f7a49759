package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"mangabook/catalog-api/internal/kvstore"
)

// Manager owns the single stored session and its change feed.
type Manager struct {
	store kvstore.Store
	log   *slog.Logger
	feed  *Feed[*Session]

	// mu spans the store write and the publish so the feed's last value
	// always matches the stored session.
	mu sync.Mutex
}

// NewManager seeds the directory with admin when no user list exists and
// primes the feed with the stored session.
func NewManager(ctx context.Context, store kvstore.Store, users *Directory, admin User, logger *slog.Logger) (*Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if users == nil {
		return nil, fmt.Errorf("user directory is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	seeded, err := users.SeedIfAbsent(ctx, admin)
	if err != nil {
		return nil, fmt.Errorf("seed bootstrap admin: %w", err)
	}
	if seeded {
		logger.Info("bootstrap admin created", "email", admin.Email)
	}

	m := &Manager{store: store, log: logger}
	current, err := m.Current(ctx)
	if err != nil {
		return nil, err
	}
	m.feed = NewFeed(current)
	return m, nil
}

// Current reads the session straight from the store, nil when logged out.
func (m *Manager) Current(ctx context.Context) (*Session, error) {
	var s Session
	found, err := kvstore.GetJSON(ctx, m.store, kvstore.KeySession, &s)
	if errors.Is(err, kvstore.ErrCorrupt) {
		m.log.Warn("stored session is corrupt, treating as logged out", "error", err)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &s, nil
}

func (m *Manager) IsLoggedIn(ctx context.Context) bool {
	s, err := m.Current(ctx)
	if err != nil {
		m.log.Error("read session", "error", err)
		return false
	}
	return s != nil && s.Logueado
}

func (m *Manager) IsAdmin(ctx context.Context) bool {
	s, err := m.Current(ctx)
	if err != nil {
		m.log.Error("read session", "error", err)
		return false
	}
	return s != nil && s.Tipo == RoleAdmin
}

// Login overwrites the stored session and notifies subscribers.
func (m *Manager) Login(ctx context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := kvstore.SetJSON(ctx, m.store, kvstore.KeySession, s); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	m.feed.Publish(&s)
	return nil
}

func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.Remove(ctx, kvstore.KeySession); err != nil {
		return fmt.Errorf("remove session: %w", err)
	}
	m.feed.Publish(nil)
	return nil
}

// Subscribe replays the last published session to fn, then pushes every
// later change. A nil session means logged out. Subscribers must treat the
// value as read-only.
func (m *Manager) Subscribe(fn func(*Session)) (cancel func()) {
	return m.feed.Subscribe(fn)
}
