package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaveorah/zaveorah-core/pkg/logger"
)

func openKV(t *testing.T) *KV {
	t.Helper()
	kv, err := Open(":memory:", logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })
	return kv
}

func TestGetSet(t *testing.T) {
	kv := openKV(t)

	_, found, err := kv.Get("missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, kv.Set("k", "v1"))
	value, found, err := kv.Get("k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "v1", value)

	// Overwrite.
	require.NoError(t, kv.Set("k", "v2"))
	value, _, err = kv.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v2", value)
}

func TestKeysPrefix(t *testing.T) {
	kv := openKV(t)
	require.NoError(t, kv.Set("data", "x"))
	require.NoError(t, kv.Set("data_backup_2025-06-01T00:00:00Z", "a"))
	require.NoError(t, kv.Set("data_backup_2025-06-02T00:00:00Z", "b"))
	require.NoError(t, kv.Set("other", "y"))

	keys, err := kv.Keys("data_backup_")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"data_backup_2025-06-01T00:00:00Z",
		"data_backup_2025-06-02T00:00:00Z",
	}, keys)
}
