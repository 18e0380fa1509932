package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dune-mcp/internal/dune"
	"dune-mcp/internal/tools"
)

// newTestServer builds a facade whose registry is backed by a stub upstream.
func newTestServer(t *testing.T, token string, upstreamStatus int, upstreamBody string) *Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(upstreamStatus)
		_, _ = w.Write([]byte(upstreamBody))
	}))
	t.Cleanup(ts.Close)

	client, err := dune.New(dune.Config{BaseURL: ts.URL, APIKey: "test-key"})
	require.NoError(t, err)
	return New(Config{Token: token}, tools.NewRegistry(client), nil)
}

func doCall(t *testing.T, srv *Server, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	encoded, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/mcp/call", bytes.NewReader(encoded))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, "secret", http.StatusOK, `{}`)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestAuthRequired(t *testing.T) {
	srv := newTestServer(t, "secret", http.StatusOK, `{}`)

	req := httptest.NewRequest(http.MethodGet, "/mcp/tools", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/mcp/tools", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/mcp/tools", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestEmptyTokenLeavesEndpointsOpen(t *testing.T) {
	srv := newTestServer(t, "", http.StatusOK, `{}`)

	req := httptest.NewRequest(http.MethodGet, "/mcp/tools", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListTools(t *testing.T) {
	srv := newTestServer(t, "secret", http.StatusOK, `{}`)

	req := httptest.NewRequest(http.MethodGet, "/mcp/tools", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Tools []struct {
			Name        string `json:"name"`
			Description string `json:"description"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Tools, 34)
	for _, tool := range body.Tools {
		assert.NotEmpty(t, tool.Name)
		assert.NotEmpty(t, tool.Description)
	}
}

func TestCallTool(t *testing.T) {
	srv := newTestServer(t, "secret", http.StatusOK,
		`{"execution_id": "abc", "state": "PENDING"}`)

	rec := doCall(t, srv, "secret", CallRequest{
		Name: "execute_query",
		Args: tools.Arguments{"query_id": 1215383},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	var res dune.Execution
	require.NoError(t, json.Unmarshal([]byte(body["result"]), &res))
	assert.Equal(t, "abc", res.ExecutionID)
}

func TestCallUnknownTool(t *testing.T) {
	srv := newTestServer(t, "secret", http.StatusOK, `{}`)

	rec := doCall(t, srv, "secret", CallRequest{Name: "summon_dragons"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "summon_dragons")
}

func TestCallValidationFailure(t *testing.T) {
	srv := newTestServer(t, "secret", http.StatusOK, `{}`)

	rec := doCall(t, srv, "secret", CallRequest{
		Name: "execute_query",
		Args: tools.Arguments{"query_id": -1},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "validation")
}

func TestCallUpstreamFailure(t *testing.T) {
	srv := newTestServer(t, "secret", http.StatusUnauthorized,
		`{"error": "invalid API key"}`)

	rec := doCall(t, srv, "secret", CallRequest{
		Name: "execute_query",
		Args: tools.Arguments{"query_id": 7},
	})
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "invalid API key")
	assert.Contains(t, body["error"], "401")
}

func TestCallInvalidJSON(t *testing.T) {
	srv := newTestServer(t, "secret", http.StatusOK, `{}`)

	req := httptest.NewRequest(http.MethodPost, "/mcp/call", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
