package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/mindlayout/pkg/config"
)

func TestCacheDirDefault(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	require.NoError(t, err)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".cache", appName), dir)
}

func TestCacheDirXDG(t *testing.T) {
	custom := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", custom)

	dir, err := cacheDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(custom, appName), dir)
}

func TestFileCacheDir(t *testing.T) {
	custom := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", custom)

	dir, err := fileCacheDir(config.CacheConfig{Dir: "/srv/layouts"})
	require.NoError(t, err)
	assert.Equal(t, "/srv/layouts", dir, "configured dir wins")

	dir, err = fileCacheDir(config.CacheConfig{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(custom, appName), dir)
}
