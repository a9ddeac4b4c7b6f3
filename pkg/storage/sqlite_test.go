package storage

import (
	"context"
	"testing"

	"github.com/baezlibros/storefront/pkg/config"
	"github.com/stretchr/testify/require"
)

func openTestKV(t *testing.T) *SQLiteKV {
	t.Helper()

	kv, err := NewSQLiteKV(context.Background(), config.StorageConfig{Path: "file::memory:?cache=shared"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = kv.Close()
	})
	return kv
}

func TestSQLiteKVReadMissingKey(t *testing.T) {
	kv := openTestKV(t)

	value, ok, err := kv.Read(context.Background(), KeyCart)
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, value)
}

func TestSQLiteKVWriteReplacesPriorValue(t *testing.T) {
	kv := openTestKV(t)
	ctx := context.Background()

	require.NoError(t, kv.Write(ctx, KeyStock, []byte(`{"101":5}`)))
	require.NoError(t, kv.Write(ctx, KeyStock, []byte(`{"101":2}`)))

	value, ok, err := kv.Read(ctx, KeyStock)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `{"101":2}`, string(value))
}

func TestSQLiteKVKeysAreIndependent(t *testing.T) {
	kv := openTestKV(t)
	ctx := context.Background()

	require.NoError(t, kv.Write(ctx, KeyCart, []byte(`[]`)))
	require.NoError(t, kv.Write(ctx, KeyTheme, []byte(`"dark"`)))

	cart, ok, err := kv.Read(ctx, KeyCart)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `[]`, string(cart))

	require.NoError(t, kv.Delete(ctx, KeyCart))

	_, ok, err = kv.Read(ctx, KeyCart)
	require.NoError(t, err)
	require.False(t, ok)

	theme, ok, err := kv.Read(ctx, KeyTheme)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `"dark"`, string(theme))
}
