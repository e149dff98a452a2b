package sqlite

import (
	"context"
	"testing"

	"github.com/dekarrin/czar/server/dao"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) dao.Store {
	t.Helper()
	st, err := NewDatastore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func Test_Admins_CreateAndLookup(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	ctx := context.Background()
	st := newTestStore(t)

	created, err := st.Admins().Create(ctx, dao.Admin{Username: "alice", PasswordHash: "h"})
	require.NoError(err)
	assert.NotEqual(uuid.Nil, created.ID)

	byUser, err := st.Admins().GetByUsername(ctx, "alice")
	require.NoError(err)
	assert.Equal(created.ID, byUser.ID)

	byID, err := st.Admins().GetByID(ctx, created.ID)
	require.NoError(err)
	assert.Equal("alice", byID.Username)
}

func Test_Admins_DuplicateUsername(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	ctx := context.Background()
	st := newTestStore(t)

	_, err := st.Admins().Create(ctx, dao.Admin{Username: "alice", PasswordHash: "h"})
	require.NoError(err)

	_, err = st.Admins().Create(ctx, dao.Admin{Username: "alice", PasswordHash: "h2"})
	assert.ErrorIs(err, dao.ErrConstraintViolation)
}

func Test_Transpiles_CreateAndLookup(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	ctx := context.Background()
	st := newTestStore(t)

	created, err := st.Transpiles().Create(ctx, dao.Transpile{
		SourceHash: "abc123",
		Status:     dao.StatusSucceeded,
		Diagnostics: []dao.Diagnostic{
			{Severity: "WARNING", ID: "w1", Message: "hello"},
		},
	})
	require.NoError(err)

	byID, err := st.Transpiles().GetByID(ctx, created.ID)
	require.NoError(err)
	assert.Equal("abc123", byID.SourceHash)
	require.Len(byID.Diagnostics, 1)
	assert.Equal("hello", byID.Diagnostics[0].Message)

	byHash, found, err := st.Transpiles().GetByHash(ctx, "abc123")
	require.NoError(err)
	assert.True(found)
	assert.Equal(created.ID, byHash.ID)

	_, found, err = st.Transpiles().GetByHash(ctx, "nope")
	require.NoError(err)
	assert.False(found)
}

func Test_Transpiles_StatsAndDeleteAll(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	ctx := context.Background()
	st := newTestStore(t)

	_, err := st.Transpiles().Create(ctx, dao.Transpile{SourceHash: "a", Status: dao.StatusSucceeded})
	require.NoError(err)
	_, err = st.Transpiles().Create(ctx, dao.Transpile{SourceHash: "b", Status: dao.StatusFailed})
	require.NoError(err)

	stats, err := st.Transpiles().Stats(ctx)
	require.NoError(err)
	assert.Equal(2, stats.TotalEntries)
	assert.Equal(1, stats.Succeeded)
	assert.Equal(1, stats.Failed)

	n, err := st.Transpiles().DeleteAll(ctx)
	require.NoError(err)
	assert.Equal(2, n)
}
