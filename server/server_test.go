package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dekarrin/czar/server/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	srv, err := New(Config{
		TokenSecret:       []byte("test-secret-that-is-at-least-32-bytes!!"),
		DB:                Database{Type: DatabaseInMemory},
		UnauthDelayMillis: -1,
	})
	require.NoError(t, err)
	require.NoError(t, srv.Bootstrap(context.Background(), "admin", "adminpass"))

	ts := httptest.NewServer(srv.router)
	t.Cleanup(ts.Close)
	return ts
}

func Test_Info_Unauthenticated(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + api.PathPrefix + "/info")
	require.NoError(err)
	defer resp.Body.Close()

	assert.Equal(http.StatusOK, resp.StatusCode)

	var body api.InfoModel
	require.NoError(json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(body.Version.CZar)
	assert.NotEmpty(body.Version.Server)
}

func Test_SubmitAndFetchTranspile(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	ts := newTestServer(t)

	reqBody, err := json.Marshal(api.SubmitTranspileRequest{Name: "empty.cz", Source: " "})
	require.NoError(err)

	resp, err := http.Post(ts.URL+api.PathPrefix+"/transpiles", "application/json", bytes.NewReader(reqBody))
	require.NoError(err)
	defer resp.Body.Close()
	require.Equal(http.StatusCreated, resp.StatusCode)

	var created api.TranspileModel
	require.NoError(json.NewDecoder(resp.Body).Decode(&created))
	assert.NotEmpty(created.ID)
	assert.False(created.Cached)

	getResp, err := http.Get(ts.URL + api.PathPrefix + "/transpiles/" + created.ID)
	require.NoError(err)
	defer getResp.Body.Close()
	assert.Equal(http.StatusOK, getResp.StatusCode)
}

func Test_CacheEndpoints_RequireAuth(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodDelete, ts.URL+api.PathPrefix+"/cache", nil)
	require.NoError(err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(err)
	defer resp.Body.Close()
	assert.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func Test_LoginAndAccessAdminEndpoint(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	ts := newTestServer(t)

	loginBody, err := json.Marshal(api.LoginRequest{Username: "admin", Password: "adminpass"})
	require.NoError(err)

	resp, err := http.Post(ts.URL+api.PathPrefix+"/admin/login", "application/json", bytes.NewReader(loginBody))
	require.NoError(err)
	defer resp.Body.Close()
	require.Equal(http.StatusCreated, resp.StatusCode)

	var loginResp api.LoginResponse
	require.NoError(json.NewDecoder(resp.Body).Decode(&loginResp))
	require.NotEmpty(loginResp.Token)

	req, err := http.NewRequest(http.MethodGet, ts.URL+api.PathPrefix+"/stats", nil)
	require.NoError(err)
	req.Header.Set("Authorization", "Bearer "+loginResp.Token)

	statsResp, err := http.DefaultClient.Do(req)
	require.NoError(err)
	defer statsResp.Body.Close()
	assert.Equal(http.StatusOK, statsResp.StatusCode)
}
