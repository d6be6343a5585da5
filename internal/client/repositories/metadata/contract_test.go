package metadata

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runContract checks behaviour every Repository must share.
func runContract(t *testing.T, newRepo func(t *testing.T) Repository) {
	ctx := context.Background()

	t.Run("set then get", func(t *testing.T) {
		r := newRepo(t)
		require.NoError(t, r.Set(ctx, "user", []byte(`{"id":1}`)))

		v, err := r.Get(ctx, "user")
		require.NoError(t, err)
		assert.Equal(t, []byte(`{"id":1}`), v)
	})

	t.Run("missing key is nil, nil", func(t *testing.T) {
		r := newRepo(t)
		v, err := r.Get(ctx, "absent")
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("set overwrites", func(t *testing.T) {
		r := newRepo(t)
		require.NoError(t, r.Set(ctx, "k", []byte("old")))
		require.NoError(t, r.Set(ctx, "k", []byte("new")))

		v, err := r.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("new"), v)
	})

	t.Run("set many", func(t *testing.T) {
		r := newRepo(t)
		require.NoError(t, r.SetMany(ctx, map[string][]byte{
			"user":          []byte("u"),
			"user_saved_at": []byte("t"),
		}))

		for k, want := range map[string][]byte{"user": []byte("u"), "user_saved_at": []byte("t")} {
			v, err := r.Get(ctx, k)
			require.NoError(t, err)
			assert.Equal(t, want, v, k)
		}
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		r := newRepo(t)
		require.NoError(t, r.Set(ctx, "x", []byte{1}))
		require.NoError(t, r.Delete(ctx, "x"))
		require.NoError(t, r.Delete(ctx, "x"))

		v, err := r.Get(ctx, "x")
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("delete many leaves other keys", func(t *testing.T) {
		r := newRepo(t)
		require.NoError(t, r.SetMany(ctx, map[string][]byte{"a": {1}, "b": {2}, "c": {3}}))
		require.NoError(t, r.DeleteMany(ctx, "a", "b", "missing"))

		for _, k := range []string{"a", "b", "missing"} {
			v, err := r.Get(ctx, k)
			require.NoError(t, err)
			assert.Nil(t, v, k)
		}
		v, err := r.Get(ctx, "c")
		require.NoError(t, err)
		assert.Equal(t, []byte{3}, v)
	})
}
