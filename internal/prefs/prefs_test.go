package prefs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaveorah/zaveorah-core/internal/prefs"
	"github.com/zaveorah/zaveorah-core/pkg/logger"
	"github.com/zaveorah/zaveorah-core/pkg/testutil"
)

func TestDefaults(t *testing.T) {
	svc := prefs.NewService(testutil.NewKV(t), logger.NewNop())
	assert.Equal(t, "light", svc.Theme())
	assert.Equal(t, "en", svc.Language())
}

func TestSetAndReadBack(t *testing.T) {
	kv := testutil.NewKV(t)
	svc := prefs.NewService(kv, logger.NewNop())

	require.True(t, svc.SetTheme("dark"))
	require.True(t, svc.SetLanguage("tw"))
	assert.Equal(t, "dark", svc.Theme())
	assert.Equal(t, "tw", svc.Language())

	assert.False(t, svc.SetTheme(""))
	assert.False(t, svc.SetLanguage(""))

	// Preferences survive a reopen of the service over the same storage.
	again := prefs.NewService(kv, logger.NewNop())
	assert.Equal(t, "dark", again.Theme())
}
