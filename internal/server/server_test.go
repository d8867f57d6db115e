package server_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stubforce/stubforce/internal/adapter"
	"github.com/stubforce/stubforce/internal/exec"
	"github.com/stubforce/stubforce/internal/seed"
	"github.com/stubforce/stubforce/internal/server"
	"github.com/stubforce/stubforce/internal/service"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()

	cfg := adapter.Config{Type: "sqlite", Path: ":memory:"}
	a, err := adapter.New(cfg, nil)
	require.NoError(t, err)
	require.NoError(t, a.Connect(ctx, cfg))
	t.Cleanup(func() { _ = a.Close() })
	require.NoError(t, seed.Apply(ctx, a, nil))

	svc, err := service.New(ctx, a, exec.Options{}, "59.0", nil)
	require.NoError(t, err)

	srv := server.New(server.Config{APIVersion: "59.0"}, svc, nil)
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, ts *httptest.Server, path string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestQueryEndpoint(t *testing.T) {
	ts := newTestServer(t)

	q := url.QueryEscape("SELECT Id, FirstName FROM Lead WHERE Status = 'Open' ORDER BY FirstName")
	resp, body := get(t, ts, "/services/data/v59.0/query?q="+q)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))

	var result struct {
		TotalSize int  `json:"totalSize"`
		Done      bool `json:"done"`
		Records   []struct {
			Attributes struct {
				Type string `json:"type"`
				URL  string `json:"url"`
			} `json:"attributes"`
		} `json:"records"`
	}
	require.NoError(t, json.Unmarshal(body, &result))

	assert.Equal(t, 2, result.TotalSize)
	assert.True(t, result.Done)
	require.Len(t, result.Records, 2)
	assert.Equal(t, "Lead", result.Records[0].Attributes.Type)
	assert.Contains(t, result.Records[0].Attributes.URL, "/services/data/v59.0/sobjects/Lead/")
}

func TestQueryEndpointMissingParameter(t *testing.T) {
	ts := newTestServer(t)

	resp, body := get(t, ts, "/services/data/v59.0/query")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errs []struct {
		Message   string `json:"message"`
		ErrorCode string `json:"errorCode"`
	}
	require.NoError(t, json.Unmarshal(body, &errs))
	require.Len(t, errs, 1)
	assert.Equal(t, "INVALID_QUERY", errs[0].ErrorCode)
}

func TestQueryEndpointErrorStatuses(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantCode   string
	}{
		{"syntax error", "SELECT FROM Lead", http.StatusBadRequest, "INVALID_QUERY"},
		{"unknown object", "SELECT Id FROM Opportunity", http.StatusNotFound, "NOT_FOUND"},
		{"unknown field", "SELECT Nope FROM Lead", http.StatusBadRequest, "INVALID_FIELD"},
		{"type mismatch", "SELECT Id FROM Lead WHERE NumberOfEmployees = 'many'", http.StatusBadRequest, "INVALID_QUERY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := get(t, ts, "/services/data/v59.0/query?q="+url.QueryEscape(tt.query))
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var errs []struct {
				ErrorCode string `json:"errorCode"`
			}
			require.NoError(t, json.Unmarshal(body, &errs))
			require.Len(t, errs, 1)
			assert.Equal(t, tt.wantCode, errs[0].ErrorCode)
		})
	}
}

func TestDescribeEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp, body := get(t, ts, "/services/data/v59.0/sobjects/Lead/describe")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Name   string `json:"name"`
		Fields []struct {
			Name string `json:"name"`
			Type string `json:"type"`
		} `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(body, &result))
	assert.Equal(t, "Lead", result.Name)
	assert.Len(t, result.Fields, 10)

	for _, key := range []string{`"label"`, `"nullable"`, `"createable"`, `"updateable"`} {
		assert.Contains(t, string(body), key)
	}
}

func TestDescribeEndpointUnknownObject(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := get(t, ts, "/services/data/v59.0/sobjects/Opportunity/describe")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestObjectsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp, body := get(t, ts, "/services/data/v59.0/sobjects")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		SObjects []struct {
			Name string `json:"name"`
		} `json:"sobjects"`
	}
	require.NoError(t, json.Unmarshal(body, &result))
	assert.Len(t, result.SObjects, 3)
}

func TestReloadEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/internal/reload", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := get(t, ts, "/internal/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequestIDPropagation(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/internal/healthz", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-Id", "test-id-123")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "test-id-123", resp.Header.Get("X-Request-Id"))
}
