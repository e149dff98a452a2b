package token

import (
	"context"
	"net/http"
	"testing"

	"github.com/dekarrin/czar/server/dao"
	"github.com/dekarrin/czar/server/dao/inmem"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Get(t *testing.T) {
	testCases := []struct {
		name      string
		header    string
		expect    string
		expectErr bool
	}{
		{name: "valid bearer token", header: "Bearer abc.def.ghi", expect: "abc.def.ghi"},
		{name: "missing header", header: "", expectErr: true},
		{name: "wrong scheme", header: "Basic abc.def.ghi", expectErr: true},
		{name: "malformed header", header: "abc.def.ghi", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			req, err := http.NewRequest(http.MethodGet, "/", nil)
			require.NoError(t, err)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			tok, err := Get(req)
			if tc.expectErr {
				assert.Error(err)
				return
			}
			require.NoError(t, err)
			assert.Equal(tc.expect, tok)
		})
	}
}

func Test_Generate_Validate_RoundTrip(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	store := inmem.NewAdminsRepository()
	created, err := store.Create(context.Background(), dao.Admin{
		Username:     "alice",
		PasswordHash: "hashed-password",
	})
	require.NoError(err)

	secret := []byte("test-secret-at-least-32-bytes-long!")

	tok, err := Generate(secret, created)
	require.NoError(err)

	validated, err := Validate(context.Background(), tok, secret, store)
	require.NoError(err)
	assert.Equal(created.ID, validated.ID)
	assert.Equal(created.Username, validated.Username)
}

func Test_Validate_RejectsTokenAfterPasswordChange(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	store := inmem.NewAdminsRepository()
	created, err := store.Create(context.Background(), dao.Admin{
		Username:     "bob",
		PasswordHash: "old-hash",
	})
	require.NoError(err)

	secret := []byte("test-secret-at-least-32-bytes-long!")
	tok, err := Generate(secret, created)
	require.NoError(err)

	// simulate a password change by re-creating the in-memory record with a
	// different hash directly (repository has no Update method, so we
	// validate against a local copy with a changed hash instead).
	changed := created
	changed.PasswordHash = "new-hash"

	_, err = Validate(context.Background(), tok, secret, &fakeAdminLookup{admin: changed})
	assert.Error(err)
}

func Test_Validate_UnknownSubject(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	store := inmem.NewAdminsRepository()
	secret := []byte("test-secret-at-least-32-bytes-long!")

	ghostID, err := uuid.NewRandom()
	require.NoError(err)
	ghost := dao.Admin{ID: ghostID, PasswordHash: "whatever"}

	tok, err := Generate(secret, ghost)
	require.NoError(err)

	_, err = Validate(context.Background(), tok, secret, store)
	assert.Error(err)
}

// fakeAdminLookup lets Test_Validate_RejectsTokenAfterPasswordChange
// simulate a credential change without requiring an Update method on
// dao.AdminRepository.
type fakeAdminLookup struct {
	admin dao.Admin
}

func (f *fakeAdminLookup) Create(ctx context.Context, a dao.Admin) (dao.Admin, error) {
	return dao.Admin{}, nil
}
func (f *fakeAdminLookup) GetByID(ctx context.Context, id uuid.UUID) (dao.Admin, error) {
	return f.admin, nil
}
func (f *fakeAdminLookup) GetByUsername(ctx context.Context, username string) (dao.Admin, error) {
	return f.admin, nil
}
func (f *fakeAdminLookup) Close() error { return nil }
