package backend

import (
	"context"
	"testing"

	"github.com/dekarrin/czar/server/dao/inmem"
	"github.com/dekarrin/czar/server/serr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_CreateAdmin_And_Login(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	svc := Service{DB: inmem.NewDatastore()}
	ctx := context.Background()

	created, err := svc.CreateAdmin(ctx, "alice", "hunter2")
	require.NoError(err)
	assert.Equal("alice", created.Username)
	assert.NotEmpty(created.PasswordHash)
	assert.NotEqual("hunter2", created.PasswordHash)

	loggedIn, err := svc.Login(ctx, "alice", "hunter2")
	require.NoError(err)
	assert.Equal(created.ID, loggedIn.ID)
}

func Test_Login_BadCredentials(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	svc := Service{DB: inmem.NewDatastore()}
	ctx := context.Background()

	_, err := svc.CreateAdmin(ctx, "alice", "hunter2")
	require.NoError(err)

	_, err = svc.Login(ctx, "alice", "wrong-password")
	assert.ErrorIs(err, serr.ErrBadCredentials)

	_, err = svc.Login(ctx, "ghost", "whatever")
	assert.ErrorIs(err, serr.ErrBadCredentials)
}

func Test_CreateAdmin_Validation(t *testing.T) {
	testCases := []struct {
		name     string
		username string
		password string
	}{
		{name: "blank username", username: "", password: "x"},
		{name: "blank password", username: "alice", password: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			svc := Service{DB: inmem.NewDatastore()}
			_, err := svc.CreateAdmin(context.Background(), tc.username, tc.password)
			assert.ErrorIs(err, serr.ErrBadArgument)
		})
	}
}

func Test_CreateAdmin_Duplicate(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	svc := Service{DB: inmem.NewDatastore()}
	ctx := context.Background()

	_, err := svc.CreateAdmin(ctx, "alice", "hunter2")
	require.NoError(err)

	_, err = svc.CreateAdmin(ctx, "alice", "different")
	assert.ErrorIs(err, serr.ErrAlreadyExists)
}
