package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/dekarrin/czar/internal/config"
	"github.com/dekarrin/czar/server/backend"
	"github.com/dekarrin/czar/server/dao/inmem"
	"github.com/dekarrin/czar/server/middle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPI() API {
	return API{
		Backend:         backend.Service{DB: inmem.NewDatastore()},
		TranspileConfig: config.Default(),
		Secret:          []byte("test-secret-that-is-at-least-32-bytes!!"),
	}
}

func Test_EpGetInfo(t *testing.T) {
	assert := assert.New(t)

	a := newTestAPI()
	req := httptest.NewRequest("GET", "/api/v1/info", nil)

	r := a.epGetInfo(req)
	assert.Equal(200, r.Status)
	assert.False(r.IsErr)
}

func Test_EpCreateLogin_BlankUsername(t *testing.T) {
	assert := assert.New(t)

	a := newTestAPI()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(LoginRequest{Username: "", Password: "x"}))
	req := httptest.NewRequest("POST", "/api/v1/admin/login", &buf)
	req.Header.Set("Content-Type", "application/json")

	r := a.epCreateLogin(req)
	assert.Equal(400, r.Status)
	assert.True(r.IsErr)
}

func Test_EpCreateLogin_BadCredentials(t *testing.T) {
	assert := assert.New(t)

	a := newTestAPI()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(LoginRequest{Username: "ghost", Password: "nope"}))
	req := httptest.NewRequest("POST", "/api/v1/admin/login", &buf)
	req.Header.Set("Content-Type", "application/json")

	r := a.epCreateLogin(req)
	assert.Equal(401, r.Status)
}

func Test_EpCreateLogin_Success(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	a := newTestAPI()
	admin, err := a.Backend.CreateAdmin(context.Background(), "alice", "hunter2")
	require.NoError(err)

	var buf bytes.Buffer
	require.NoError(json.NewEncoder(&buf).Encode(LoginRequest{Username: "alice", Password: "hunter2"}))
	req := httptest.NewRequest("POST", "/api/v1/admin/login", &buf)
	req.Header.Set("Content-Type", "application/json")

	r := a.epCreateLogin(req)
	require.Equal(201, r.Status)
	assert.NotEqual("", admin.ID.String())
}

func Test_EpCreateToken_UsesContextAdmin(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	a := newTestAPI()
	admin, err := a.Backend.CreateAdmin(context.Background(), "alice", "hunter2")
	require.NoError(err)

	req := httptest.NewRequest("POST", "/api/v1/admin/token", nil)
	ctx := context.WithValue(req.Context(), middle.AuthAdmin, admin)
	req = req.WithContext(ctx)

	r := a.epCreateToken(req)
	assert.Equal(201, r.Status)
}

func Test_EpCreateTranspile_And_EpGetTranspile(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	a := newTestAPI()

	var buf bytes.Buffer
	require.NoError(json.NewEncoder(&buf).Encode(SubmitTranspileRequest{Name: "empty.cz", Source: " "}))
	req := httptest.NewRequest("POST", "/api/v1/transpiles", &buf)
	req.Header.Set("Content-Type", "application/json")

	r := a.epCreateTranspile(req)
	require.Equal(201, r.Status)

	getReq := httptest.NewRequest("GET", "/api/v1/transpiles/nonexistent", nil)
	getR := a.epGetTranspile(getReq)
	assert.Equal(404, getR.Status)
}

func Test_EpDeleteCache_And_EpGetStats(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	a := newTestAPI()

	var buf bytes.Buffer
	require.NoError(json.NewEncoder(&buf).Encode(SubmitTranspileRequest{Name: "a.cz", Source: " "}))
	submitReq := httptest.NewRequest("POST", "/api/v1/transpiles", &buf)
	submitReq.Header.Set("Content-Type", "application/json")
	submitR := a.epCreateTranspile(submitReq)
	require.Equal(201, submitR.Status)

	statsR := a.epGetStats(httptest.NewRequest("GET", "/api/v1/stats", nil))
	assert.Equal(200, statsR.Status)

	clearR := a.epDeleteCache(httptest.NewRequest("DELETE", "/api/v1/cache", nil))
	assert.Equal(200, clearR.Status)
}
