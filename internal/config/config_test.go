package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Default(t *testing.T) {
	assert := assert.New(t)

	cfg := Default()

	assert.True(cfg.Build.Debug)
	assert.Equal([]string{"gets", "tmpnam", "mktemp"}, cfg.Build.ForbidFatal)
	assert.Equal("c11", cfg.Build.TargetStd)
	assert.Equal("file:czar-cache.db", cfg.Server.CacheDSN)
	assert.Equal("CZAR_SERVER_SECRET", cfg.Server.JWTSecretEnv)
}

func Test_Load_MissingFile(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.NoError(err)
	assert.Equal(Default(), cfg)
}

func Test_Load_OverridesSomeKeys(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "czar.toml")
	contents := `
[build]
debug = false
target_std = "c17"
`
	require.NoError(os.WriteFile(path, []byte(contents), 0600))

	cfg, err := Load(path)
	require.NoError(err)

	assert.False(cfg.Build.Debug)
	assert.Equal("c17", cfg.Build.TargetStd)
	// unset keys retain their built-in default
	assert.Equal([]string{"gets", "tmpnam", "mktemp"}, cfg.Build.ForbidFatal)
	assert.Equal("file:czar-cache.db", cfg.Server.CacheDSN)
}

func Test_Load_Malformed(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "czar.toml")
	require.NoError(os.WriteFile(path, []byte("this is not [ valid toml"), 0600))

	_, err := Load(path)
	assert.Error(err)
}
