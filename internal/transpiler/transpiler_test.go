package transpiler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dekarrin/czar/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Transpile_EmptySource(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "empty.cz")
	require.NoError(os.WriteFile(path, nil, 0600))

	res, err := Transpile(path, config.Default())
	require.NoError(err)
	assert.Empty(res.HaltedAt)
	assert.NotNil(res.Report)
}

func Test_Transpile_MissingFile(t *testing.T) {
	assert := assert.New(t)

	_, err := Transpile(filepath.Join(t.TempDir(), "does-not-exist.cz"), config.Default())
	assert.Error(err)
}

func Test_Transpile_LexError(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "bad.cz")
	require.NoError(os.WriteFile(path, []byte(`"unterminated string`), 0600))

	_, err := Transpile(path, config.Default())
	assert.Error(err)
}
