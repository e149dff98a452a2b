package middle

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dekarrin/czar/server/dao"
	"github.com/dekarrin/czar/server/dao/inmem"
	"github.com/dekarrin/czar/server/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret-that-is-at-least-32-bytes!!")

func adminOf(username, passwordHash string) dao.Admin {
	return dao.Admin{Username: username, PasswordHash: passwordHash}
}

func okHandler(touched *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*touched = true
		w.WriteHeader(http.StatusOK)
	})
}

func Test_RequireAuth_NoToken_Rejects(t *testing.T) {
	assert := assert.New(t)

	db := inmem.NewAdminsRepository()
	var touched bool
	h := RequireAuth(db, secret, 0)(okHandler(&touched))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(http.StatusUnauthorized, rec.Code)
	assert.False(touched)
}

func Test_RequireAuth_ValidToken_Allows(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	db := inmem.NewAdminsRepository()
	admin, err := db.Create(context.Background(), adminOf("alice", "hash"))
	require.NoError(err)

	tok, err := token.Generate(secret, admin)
	require.NoError(err)

	var touched bool
	h := RequireAuth(db, secret, 0)(okHandler(&touched))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(http.StatusOK, rec.Code)
	assert.True(touched)
}

func Test_RequireAuth_BadSecret_Rejects(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	db := inmem.NewAdminsRepository()
	admin, err := db.Create(context.Background(), adminOf("alice", "hash"))
	require.NoError(err)

	tok, err := token.Generate(secret, admin)
	require.NoError(err)

	var touched bool
	h := RequireAuth(db, []byte("a-totally-different-secret-value!!!!!!!"), 0)(okHandler(&touched))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(http.StatusUnauthorized, rec.Code)
	assert.False(touched)
}

func Test_OptionalAuth_NoToken_Allows(t *testing.T) {
	assert := assert.New(t)

	db := inmem.NewAdminsRepository()
	var touched bool
	h := OptionalAuth(db, secret, 0)(okHandler(&touched))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(http.StatusOK, rec.Code)
	assert.True(touched)
}

func Test_OptionalAuth_ValidToken_PopulatesContext(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	db := inmem.NewAdminsRepository()
	admin, err := db.Create(context.Background(), adminOf("alice", "hash"))
	require.NoError(err)

	tok, err := token.Generate(secret, admin)
	require.NoError(err)

	var sawLoggedIn bool
	var sawAdmin dao.Admin
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawLoggedIn, _ = r.Context().Value(AuthLoggedIn).(bool)
		sawAdmin, _ = r.Context().Value(AuthAdmin).(dao.Admin)
		w.WriteHeader(http.StatusOK)
	})
	h := OptionalAuth(db, secret, 0)(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(http.StatusOK, rec.Code)
	assert.True(sawLoggedIn)
	assert.Equal(admin.ID, sawAdmin.ID)
}

func Test_DontPanic_RecoversPanic(t *testing.T) {
	assert := assert.New(t)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	h := DontPanic()(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	assert.NotPanics(func() {
		h.ServeHTTP(rec, req)
	})
	assert.Equal(http.StatusInternalServerError, rec.Code)
}
