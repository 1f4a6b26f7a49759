package kvstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mangabook/catalog-api/internal/config"
)

func TestOpenLocalBackends(t *testing.T) {
	dir := t.TempDir()
	cases := []config.StoreConfig{
		{Backend: "memory"},
		{Backend: "file", File: filepath.Join(dir, "store.json")},
		{Backend: "sqlite", SQLitePath: filepath.Join(dir, "kv.db")},
	}
	for _, cfg := range cases {
		t.Run(cfg.Backend, func(t *testing.T) {
			s, err := Open(context.Background(), cfg)
			require.NoError(t, err)
			require.NotNil(t, s)
			assert.NoError(t, s.Close())
		})
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	s, err := Open(context.Background(), config.StoreConfig{Backend: "dynamo"})
	assert.ErrorIs(t, err, ErrUnknownBackend)
	assert.Nil(t, s)
}

func TestOpenFailureReturnsNilStore(t *testing.T) {
	s, err := Open(context.Background(), config.StoreConfig{Backend: "file", File: ""})
	assert.Error(t, err)
	assert.Nil(t, s)
}

func TestInstrumentCountsOperations(t *testing.T) {
	ops := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "ops"}, []string{"backend", "op", "result"})
	s := Instrument(NewMemoryStore(), "memory", ops)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", "v"))
	_, _, err := s.Get(ctx, "k")
	require.NoError(t, err)
	_, _, err = s.Get(ctx, "k")
	require.NoError(t, err)
	require.NoError(t, s.Remove(ctx, "k"))

	assert.Equal(t, 1.0, testutil.ToFloat64(ops.WithLabelValues("memory", "set", "ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(ops.WithLabelValues("memory", "get", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(ops.WithLabelValues("memory", "remove", "ok")))

	p, ok := s.(Pinger)
	require.True(t, ok)
	assert.NoError(t, p.Ping(ctx))
}

func TestInstrumentNilCounterIsPassthrough(t *testing.T) {
	m := NewMemoryStore()
	assert.Same(t, m, Instrument(m, "memory", nil))
}
