package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret-value-at-least-32-bytes-long")

func Test_GenerateAndValidateJWT_RoundTrip(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	tok, err := generateJWT(testSecret, "client-1")
	require.NoError(err)
	require.NotEmpty(tok)

	subj, err := validateJWT(tok, testSecret)
	require.NoError(err)
	assert.Equal("client-1", subj)
}

func Test_ValidateJWT_RejectsWrongSecret(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	tok, err := generateJWT(testSecret, "client-1")
	require.NoError(err)

	_, err = validateJWT(tok, []byte("a-completely-different-secret-value"))
	assert.Error(err)
}

func Test_ValidateJWT_RejectsGarbage(t *testing.T) {
	assert := assert.New(t)

	_, err := validateJWT("not.a.jwt", testSecret)
	assert.Error(err)
}

func Test_GetJWT_ParsesBearerHeader(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer abc.def.ghi")

	tok, err := getJWT(req)
	require.NoError(err)
	assert.Equal("abc.def.ghi", tok)
}

func Test_GetJWT_RejectsMissingOrMalformedHeader(t *testing.T) {
	assert := assert.New(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := getJWT(req)
	assert.Error(err)

	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	req2.Header.Set("Authorization", "Basic abc")
	_, err = getJWT(req2)
	assert.Error(err)
}

func Test_RequireAuth_RejectsMissingToken(t *testing.T) {
	assert := assert.New(t)

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

	handler := RequireAuth(testSecret, 0, next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.False(called)
	assert.Equal(http.StatusUnauthorized, rec.Code)
}

func Test_RequireAuth_AllowsValidToken(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	tok, err := generateJWT(testSecret, "client-9")
	require.NoError(err)

	var gotClient string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClient, _ = r.Context().Value(AuthClient).(string)
		w.WriteHeader(http.StatusOK)
	})

	handler := RequireAuth(testSecret, 0, next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(http.StatusOK, rec.Code)
	assert.Equal("client-9", gotClient)
}

func Test_OptionalAuth_PassesThroughWithoutToken(t *testing.T) {
	assert := assert.New(t)

	var loggedIn bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		loggedIn, _ = r.Context().Value(AuthLoggedIn).(bool)
		w.WriteHeader(http.StatusOK)
	})

	handler := OptionalAuth(testSecret, 0, next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(http.StatusOK, rec.Code)
	assert.False(loggedIn)
}
