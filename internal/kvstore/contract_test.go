package kvstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runContract exercises the behaviour every backend must share.
func runContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("absent key", func(t *testing.T) {
		v, ok, err := s.Get(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, v)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, KeySession, `{"logueado":true}`))
		v, ok, err := s.Get(ctx, KeySession)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, `{"logueado":true}`, v)
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, KeyProducts, "[]"))
		require.NoError(t, s.Set(ctx, KeyProducts, `[{"id":1}]`))
		v, _, err := s.Get(ctx, KeyProducts)
		require.NoError(t, err)
		assert.Equal(t, `[{"id":1}]`, v)
	})

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "tmp", "x"))
		require.NoError(t, s.Remove(ctx, "tmp"))
		_, ok, err := s.Get(ctx, "tmp")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("remove absent is a no-op", func(t *testing.T) {
		require.NoError(t, s.Remove(ctx, "never-set"))
	})

	t.Run("json helpers", func(t *testing.T) {
		type row struct {
			ID     int    `json:"id"`
			Nombre string `json:"nombre"`
		}
		in := []row{{ID: 2, Nombre: "Berserk"}, {ID: 1, Nombre: "Akira"}}
		require.NoError(t, SetJSON(ctx, s, KeyProducts, in))

		var out []row
		ok, err := GetJSON(ctx, s, KeyProducts, &out)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, in, out)
	})

	t.Run("corrupt json", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, KeyUsers, "{not json"))
		var out []map[string]any
		ok, err := GetJSON(ctx, s, KeyUsers, &out)
		assert.True(t, ok)
		assert.ErrorIs(t, err, ErrCorrupt)
	})
}
