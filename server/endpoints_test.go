package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const simpleRuleSetTOML = `
[[rule]]
pattern = "[0-9]+"
action = "INT"
priority = 0

[[rule]]
pattern = "."
action = "ERROR"
priority = -1
error = true
`

func postJSON(t *testing.T, srv *Server, path string, body interface{}, bearer string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func Test_CreateRuleSetAndTokenize_HappyPath(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	srv := New(testSecret, 0, nil)
	tok, err := generateJWT(testSecret, "test-client")
	require.NoError(err)

	rec := postJSON(t, srv, "/rulesets", RuleFileRequest{Format: "toml", Source: simpleRuleSetTOML}, tok)
	require.Equal(http.StatusCreated, rec.Code)

	var created RuleSetResponse
	require.NoError(json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(2, created.RuleCount)
	require.NotEmpty(created.ID)

	rec2 := postJSONRaw(t, srv, "/rulesets/"+created.ID+"/tokenize", []byte("12 3"), "")
	require.Equal(http.StatusOK, rec2.Code)

	var spans []Span
	require.NoError(json.Unmarshal(rec2.Body.Bytes(), &spans))
	require.Len(spans, 3)
	assert.Equal("INT", spans[0].Action)
	assert.Equal("ERROR", spans[1].Action)
	assert.Equal("INT", spans[2].Action)
}

func postJSONRaw(t *testing.T, srv *Server, path string, body []byte, bearer string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func Test_CreateRuleSet_RequiresAuth(t *testing.T) {
	assert := assert.New(t)

	srv := New(testSecret, 0, nil)
	rec := postJSON(t, srv, "/rulesets", RuleFileRequest{Format: "toml", Source: simpleRuleSetTOML}, "")
	assert.Equal(http.StatusUnauthorized, rec.Code)
}

func Test_CreateRuleSet_RejectsAmbiguousRules(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	srv := New(testSecret, 0, nil)
	tok, err := generateJWT(testSecret, "test-client")
	require.NoError(err)

	ambiguousTOML := `
[[rule]]
pattern = "if"
action = "IF"
priority = 0

[[rule]]
pattern = "if"
action = "KEYWORD"
priority = 0

[[rule]]
pattern = "."
action = "ERROR"
priority = -1
error = true
`

	rec := postJSON(t, srv, "/rulesets", RuleFileRequest{Format: "toml", Source: ambiguousTOML}, tok)
	assert.Equal(http.StatusBadRequest, rec.Code)
}

func Test_CreateRuleSet_RejectsNullableRule(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	srv := New(testSecret, 0, nil)
	tok, err := generateJWT(testSecret, "test-client")
	require.NoError(err)

	nullableTOML := `
[[rule]]
pattern = "a*"
action = "AS"
priority = 0

[[rule]]
pattern = "."
action = "ERROR"
priority = -1
error = true
`

	rec := postJSON(t, srv, "/rulesets", RuleFileRequest{Format: "toml", Source: nullableTOML}, tok)
	assert.Equal(http.StatusBadRequest, rec.Code)
}

func Test_Tokenize_UnknownRuleSetIs404(t *testing.T) {
	assert := assert.New(t)

	srv := New(testSecret, 0, nil)
	rec := postJSONRaw(t, srv, "/rulesets/00000000-0000-0000-0000-000000000000/tokenize", []byte("x"), "")
	assert.Equal(http.StatusNotFound, rec.Code)
}

func Test_Tokenize_MalformedIDIs404(t *testing.T) {
	assert := assert.New(t)

	srv := New(testSecret, 0, nil)
	rec := postJSONRaw(t, srv, "/rulesets/not-a-uuid/tokenize", []byte("x"), "")
	assert.Equal(http.StatusNotFound, rec.Code)
}

func Test_CreateRuleSet_MalformedJSONIsBadRequest(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	srv := New(testSecret, 0, nil)
	tok, err := generateJWT(testSecret, "test-client")
	require.NoError(err)

	rec := postJSONRaw(t, srv, "/rulesets", []byte("{not json"), tok)
	assert.Equal(http.StatusBadRequest, rec.Code)
}
