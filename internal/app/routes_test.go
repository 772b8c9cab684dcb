package app_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weirdsynths/ideasd/internal/app"
)

func newTestServer(t *testing.T) (*httptest.Server, *app.ApprovalService) {
	t.Helper()

	svc, _, _, _ := newApprovalService(t)
	a := app.App{Approval: svc, Prefs: svc.Prefs, Config: app.Config{Port: "0"}}

	srv := httptest.NewServer(a.Routes())
	t.Cleanup(srv.Close)
	return srv, svc
}

func decodeBody(t *testing.T, res *http.Response) map[string]any {
	t.Helper()

	defer res.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	return body
}

func TestPendingEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	res, err := http.Get(srv.URL + "/pending")
	require.NoError(t, err)
	assert.Equal(t, 200, res.StatusCode)

	body := decodeBody(t, res)
	assert.Equal(t, float64(2), body["count"])
	assert.Len(t, body["pending"], 2)
}

func TestPendingRejectsPost(t *testing.T) {
	srv, _ := newTestServer(t)

	res, err := http.Post(srv.URL+"/pending", "application/json", nil)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, 405, res.StatusCode)
}

func TestApproveEndpoint(t *testing.T) {
	srv, svc := newTestServer(t)

	res, err := http.Post(srv.URL+"/approve/20260223-01", "application/json", strings.NewReader(`{"critique":"nice"}`))
	require.NoError(t, err)
	assert.Equal(t, 200, res.StatusCode)

	body := decodeBody(t, res)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "FLUTTER", body["idea"])

	pending, err := svc.ListPending()
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestApproveEmptyBody(t *testing.T) {
	srv, _ := newTestServer(t)

	res, err := http.Post(srv.URL+"/approve/20260223-01", "application/json", nil)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, 200, res.StatusCode)
}

func TestRateEndpointReportsStatus(t *testing.T) {
	srv, _ := newTestServer(t)

	res, err := http.Post(srv.URL+"/rate/20260223-01", "application/json", strings.NewReader(`{"rating":5}`))
	require.NoError(t, err)
	assert.Equal(t, 200, res.StatusCode)
	assert.Equal(t, "approved", decodeBody(t, res)["status"])

	res, err = http.Post(srv.URL+"/rate/20260223-02", "application/json", strings.NewReader(`{"rating":1,"critique":"nope"}`))
	require.NoError(t, err)
	assert.Equal(t, "rejected", decodeBody(t, res)["status"])
}

func TestMutationUnknownId(t *testing.T) {
	srv, _ := newTestServer(t)

	res, err := http.Post(srv.URL+"/reject/20990101-01", "application/json", nil)
	require.NoError(t, err)
	assert.Equal(t, 404, res.StatusCode)
	assert.Contains(t, decodeBody(t, res)["error"], "20990101-01")
}

func TestMutationRejectsGet(t *testing.T) {
	srv, _ := newTestServer(t)

	res, err := http.Get(srv.URL + "/approve/20260223-01")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, 405, res.StatusCode)
}

func TestMutationMissingId(t *testing.T) {
	srv, _ := newTestServer(t)

	res, err := http.Post(srv.URL+"/approve/", "application/json", nil)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, 404, res.StatusCode)
}

func TestPreferencesEndpoint(t *testing.T) {
	srv, svc := newTestServer(t)

	_, err := svc.Approve("20260223-01", "")
	require.NoError(t, err)

	res, err := http.Get(srv.URL + "/preferences")
	require.NoError(t, err)
	assert.Equal(t, 200, res.StatusCode)

	body := decodeBody(t, res)
	assert.NotEmpty(t, body["summary"])
	prefs, ok := body["preferences"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), prefs["total_approved"])
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/approve/20260223-01", nil)
	require.NoError(t, err)

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, 200, res.StatusCode)
	assert.Equal(t, "*", res.Header.Get("Access-Control-Allow-Origin"))
}

func TestMutationRateLimit(t *testing.T) {
	srv, _ := newTestServer(t)

	limited := false
	for i := 0; i < 40; i++ {
		res, err := http.Post(srv.URL+"/reject/20990101-01", "application/json", nil)
		require.NoError(t, err)
		res.Body.Close()
		if res.StatusCode == 429 {
			limited = true
			break
		}
	}
	assert.True(t, limited, "expected at least one throttled request")
}

func TestReviewPage(t *testing.T) {
	srv, _ := newTestServer(t)

	res, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, 200, res.StatusCode)
	assert.Contains(t, res.Header.Get("Content-Type"), "text/html")

	content, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Contains(t, string(content), "FLUTTER")
}

func TestReviewPageUnknownPath(t *testing.T) {
	srv, _ := newTestServer(t)

	res, err := http.Get(srv.URL + "/nope")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, 404, res.StatusCode)
}
