package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"mangabook/catalog-api/internal/kvstore"
)

// Directory is the list of registered users, stored as one JSON array.
// Every mutation rewrites the whole list.
type Directory struct {
	store kvstore.Store
	log   *slog.Logger

	mu sync.Mutex // serializes read-modify-write
}

func NewDirectory(store kvstore.Store, logger *slog.Logger) *Directory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Directory{store: store, log: logger}
}

// load treats a corrupt list as empty; the next write replaces it.
func (d *Directory) load(ctx context.Context) ([]User, bool, error) {
	var users []User
	found, err := kvstore.GetJSON(ctx, d.store, kvstore.KeyUsers, &users)
	if errors.Is(err, kvstore.ErrCorrupt) {
		d.log.Warn("user directory is corrupt, treating as empty", "key", kvstore.KeyUsers, "error", err)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load users: %w", err)
	}
	return users, found, nil
}

func (d *Directory) save(ctx context.Context, users []User) error {
	if err := kvstore.SetJSON(ctx, d.store, kvstore.KeyUsers, users); err != nil {
		return fmt.Errorf("save users: %w", err)
	}
	return nil
}

// SeedIfAbsent stores admin as the only user when no list exists yet.
func (d *Directory) SeedIfAbsent(ctx context.Context, admin User) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	_, found, err := d.load(ctx)
	if err != nil {
		return false, err
	}
	if found {
		return false, nil
	}
	if err := d.save(ctx, []User{admin}); err != nil {
		return false, err
	}
	return true, nil
}

func (d *Directory) List(ctx context.Context) ([]User, error) {
	users, _, err := d.load(ctx)
	return users, err
}

func (d *Directory) find(ctx context.Context, match func(User) bool) (*User, error) {
	users, _, err := d.load(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if match(u) {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

// FindByCredentials returns the user matching both email and password
// exactly, or nil.
func (d *Directory) FindByCredentials(ctx context.Context, email, password string) (*User, error) {
	return d.find(ctx, func(u User) bool { return u.Email == email && u.Password == password })
}

func (d *Directory) FindByEmail(ctx context.Context, email string) (*User, error) {
	return d.find(ctx, func(u User) bool { return u.Email == email })
}

// FindByUsername returns the first user with the given username. Usernames
// are not unique.
func (d *Directory) FindByUsername(ctx context.Context, username string) (*User, error) {
	return d.find(ctx, func(u User) bool { return u.Usuario == username })
}

// AddUser appends u unless its email is already registered.
func (d *Directory) AddUser(ctx context.Context, u User) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	users, _, err := d.load(ctx)
	if err != nil {
		return false, err
	}
	for _, existing := range users {
		if existing.Email == u.Email {
			return false, nil
		}
	}
	users = append(users, u)
	if err := d.save(ctx, users); err != nil {
		return false, err
	}
	return true, nil
}

// UpdateUser applies patch to the first user whose username is username. It
// reports false, without writing, when no user matches.
func (d *Directory) UpdateUser(ctx context.Context, username string, patch UserPatch) (bool, error) {
	u, err := d.updateUser(ctx, username, patch)
	return u != nil, err
}

func (d *Directory) updateUser(ctx context.Context, username string, patch UserPatch) (*User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	users, _, err := d.load(ctx)
	if err != nil {
		return nil, err
	}
	for i, u := range users {
		if u.Usuario != username {
			continue
		}
		users[i] = patch.apply(u)
		if err := d.save(ctx, users); err != nil {
			return nil, err
		}
		updated := users[i]
		return &updated, nil
	}
	return nil, nil
}
