// Package kvstore is the key-value persistence layer shared by every component.
//
// Values are opaque strings; callers own the serialization format (JSON via the
// GetJSON and SetJSON helpers). An absent key is reported as found == false and is
// never an error.
package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Keys used by the application.
const (
	KeyUsers    = "usuarios"
	KeySession  = "sesion"
	KeyProducts = "productos_admin_list"
)

var (
	ErrCorrupt        = errors.New("stored value is not valid json")
	ErrUnknownBackend = errors.New("unknown store backend")
)

type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Close() error
}

// Pinger is implemented by backends that talk to a remote service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// GetJSON decodes the value stored under key into dst.
func GetJSON(ctx context.Context, s Store, key string, dst any) (bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return true, fmt.Errorf("%w: key %q: %v", ErrCorrupt, key, err)
	}
	return true, nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	return s.Set(ctx, key, string(b))
}
