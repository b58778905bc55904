//go:build e2e
// +build e2e

package e2e_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parliament-interests/internal/app"
	"parliament-interests/internal/testutil/fixtures"
	"parliament-interests/pkg/logger"
)

type testEnv struct {
	server   *httptest.Server
	upstream *httptest.Server
	app      *app.App
}

func setupE2E(t *testing.T) *testEnv {
	t.Helper()

	upstream := newUpstreamServer(t)

	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "members.db"))
	t.Setenv("MEMBERS_API_URL", upstream.URL+"/members")
	t.Setenv("INTERESTS_API_URL", upstream.URL+"/interests")
	t.Setenv("INGEST_ON_STARTUP", "auto")

	application, err := app.New(logger.Nop())
	require.NoError(t, err)

	shouldIngest, err := application.ShouldIngestOnStartup(context.Background())
	require.NoError(t, err)
	require.True(t, shouldIngest)
	_, err = application.Ingest(context.Background())
	require.NoError(t, err)

	server := httptest.NewServer(application.HTTPServer().Handler)
	return &testEnv{server: server, upstream: upstream, app: application}
}

func (e *testEnv) Close() {
	e.server.Close()
	e.upstream.Close()
	_ = e.app.Close()
}

func newUpstreamServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/members/Members/Search":
			_, _ = io.WriteString(w, fixtures.Page(fixtures.MemberAbbott(), fixtures.MemberBadenoch()))
		case "/interests/Interests":
			_, _ = io.WriteString(w, fixtures.Page(
				fixtures.InterestWimbledon(),
				fixtures.InterestColumnist(),
				fixtures.InterestArticle(),
			))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func requestRaw(t *testing.T, client *http.Client, method, url string, body io.Reader) (*http.Response, []byte) {
	t.Helper()

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestE2ERootAndHealth(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := env.server.Client()

	resp, body := requestRaw(t, client, http.MethodGet, env.server.URL+"/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Welcome to the Members interest API.", string(body))

	resp, _ = requestRaw(t, client, http.MethodGet, env.server.URL+"/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = requestRaw(t, client, http.MethodGet, env.server.URL+"/metrics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "parliament_interests_")
}

func TestE2EIngestedSearches(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := env.server.Client()

	resp, body := requestRaw(t, client, http.MethodGet, env.server.URL+"/members/search?name=abbott", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var members []map[string]any
	require.NoError(t, json.Unmarshal(body, &members))
	require.Len(t, members, 1)
	assert.EqualValues(t, 172, members[0]["id"])

	resp, body = requestRaw(t, client, http.MethodGet, env.server.URL+"/interests/search?member_name=abbott", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var totals []struct {
		Member struct {
			ID int64 `json:"id"`
		} `json:"member"`
		TotalInterestsValue float64 `json:"total_interests_value"`
	}
	require.NoError(t, json.Unmarshal(body, &totals))
	require.Len(t, totals, 1)
	assert.Equal(t, int64(172), totals[0].Member.ID)
	assert.InDelta(t, 1396.0, totals[0].TotalInterestsValue, 0.001)

	resp, body = requestRaw(t, client, http.MethodGet, env.server.URL+"/party/search?party_id=4", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var party map[string]any
	require.NoError(t, json.Unmarshal(body, &party))
	assert.Equal(t, "Conservative", party["name"])

	resp, body = requestRaw(t, client, http.MethodGet, env.server.URL+"/members/4597/interests", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var detail struct {
		TotalInterestsValue float64          `json:"total_interests_value"`
		Interests           []map[string]any `json:"interests"`
	}
	require.NoError(t, json.Unmarshal(body, &detail))
	assert.Len(t, detail.Interests, 2)
	assert.InDelta(t, 250.0, detail.TotalInterestsValue, 0.001)
}

func TestE2EReingestIsIdempotent(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	_, err := env.app.Ingest(context.Background())
	require.NoError(t, err)

	resp, body := requestRaw(t, env.server.Client(), http.MethodGet, env.server.URL+"/interests/search", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var totals []map[string]any
	require.NoError(t, json.Unmarshal(body, &totals))
	assert.Len(t, totals, 2)
}

func TestE2EMCPToolCall(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	payload := `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"search_party","arguments":{"party_id":8}}}`
	resp, body := requestRaw(t, env.server.Client(), http.MethodPost, env.server.URL+"/mcp", strings.NewReader(payload))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Independent")
	assert.NotContains(t, string(body), `"error"`)
}
