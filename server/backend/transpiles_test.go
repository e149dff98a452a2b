package backend

import (
	"context"
	"testing"

	"github.com/dekarrin/czar/internal/config"
	"github.com/dekarrin/czar/server/dao/inmem"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_HashSource_Deterministic(t *testing.T) {
	assert := assert.New(t)

	cfg := config.Default()
	a := hashSource([]byte("fn main() { return 0; }"), cfg)
	b := hashSource([]byte("fn main() { return 0; }"), cfg)

	assert.Equal(a, b)
}

func Test_HashSource_DiffersByBuildSettings(t *testing.T) {
	assert := assert.New(t)

	src := []byte("fn main() { return 0; }")
	debugCfg := config.Default()
	debugCfg.Build.Debug = true

	releaseCfg := config.Default()
	releaseCfg.Build.Debug = false

	assert.NotEqual(hashSource(src, debugCfg), hashSource(src, releaseCfg))
}

func Test_HashSource_DiffersBySource(t *testing.T) {
	assert := assert.New(t)

	cfg := config.Default()
	assert.NotEqual(hashSource([]byte("a"), cfg), hashSource([]byte("b"), cfg))
}

func Test_Submit_CachesSecondCall(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	svc := Service{DB: inmem.NewDatastore()}
	ctx := context.Background()
	cfg := config.Default()

	first, cached, err := svc.Submit(ctx, []byte{}, "empty.cz", cfg)
	require.NoError(err)
	assert.False(cached)

	second, cached, err := svc.Submit(ctx, []byte{}, "empty.cz", cfg)
	require.NoError(err)
	assert.True(cached)
	assert.Equal(first.ID, second.ID)
}

func Test_GetTranspile_NotFound(t *testing.T) {
	assert := assert.New(t)

	svc := Service{DB: inmem.NewDatastore()}
	_, err := svc.GetTranspile(context.Background(), uuid.New())
	assert.Error(err)
}

func Test_ClearCache_And_Stats(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	svc := Service{DB: inmem.NewDatastore()}
	ctx := context.Background()
	cfg := config.Default()

	_, _, err := svc.Submit(ctx, []byte{}, "a.cz", cfg)
	require.NoError(err)

	st, err := svc.Stats(ctx)
	require.NoError(err)
	assert.Equal(1, st.TotalEntries)

	n, err := svc.ClearCache(ctx)
	require.NoError(err)
	assert.Equal(1, n)

	st, err = svc.Stats(ctx)
	require.NoError(err)
	assert.Equal(0, st.TotalEntries)
}

func Test_ToDAODiagnostics_Nil(t *testing.T) {
	assert := assert.New(t)
	assert.Nil(toDAODiagnostics(nil))
}
