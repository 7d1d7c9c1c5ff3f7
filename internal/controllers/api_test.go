package controllers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahul4469/seo-master/internal/controllers"
	"github.com/rahul4469/seo-master/internal/models"
	"github.com/rahul4469/seo-master/internal/services"
)

func newAPIServer(t *testing.T, runner *fakeRunner, store *fakeStore) *httptest.Server {
	t.Helper()
	c := controllers.NewAPIController(runner, store, services.NewBacklinkService())
	srv := newRouter(func(r chi.Router) {
		r.Post("/api/analyze", c.PostAnalyze)
		r.Post("/api/backlinks", c.PostBacklinks)
		r.Get("/api/reports", c.GetReports)
		r.Get("/api/reports/{id}", c.GetReport)
	})
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, target, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(target, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return resp
}

func TestAPIAnalyze(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{result: map[string]any{"score": 91.0}}
	store := newFakeStore()
	srv := newAPIServer(t, runner, store)

	resp := postJSON(t, srv.URL+"/api/analyze",
		`{"url": "example.com/page", "analysis_type": "seo"}`)
	body := readBody(t, resp)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, "https://example.com/page", runner.lastURL)

	var report models.Report
	require.NoError(t, json.Unmarshal([]byte(body), &report))
	assert.Equal(t, int64(1), report.ID)
	assert.Equal(t, "https://example.com/page", report.URL)
	assert.Equal(t, "example.com", report.Domain)
	assert.Equal(t, "seo", report.AnalysisType)
	assert.JSONEq(t, `{"score": 91}`, string(report.Result))
}

func TestAPIAnalyzeBadRequests(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"invalid JSON", `{"url":`, "invalid JSON body"},
		{"unknown type", `{"url": "https://example.com", "analysis_type": "ppc"}`, "unknown analysis type"},
		{"empty URL", `{"url": "", "analysis_type": "seo"}`, "invalid URL"},
		{"bad scheme", `{"url": "ftp://example.com", "analysis_type": "seo"}`, "invalid URL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := newAPIServer(t, &fakeRunner{result: "ok"}, newFakeStore())

			resp := postJSON(t, srv.URL+"/api/analyze", tt.body)
			body := readBody(t, resp)

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Contains(t, body, tt.wantErr)
		})
	}
}

func TestAPIAnalyzeRunnerError(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	srv := newAPIServer(t, &fakeRunner{err: assert.AnError}, store)

	resp := postJSON(t, srv.URL+"/api/analyze",
		`{"url": "https://example.com", "analysis_type": "seo"}`)
	body := readBody(t, resp)

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, body, assert.AnError.Error())
	assert.Empty(t, store.reports)
}

func TestAPIAnalyzeStoreError(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.createErr = assert.AnError
	srv := newAPIServer(t, &fakeRunner{result: "ok"}, store)

	resp := postJSON(t, srv.URL+"/api/analyze",
		`{"url": "https://example.com", "analysis_type": "seo"}`)
	body := readBody(t, resp)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, body, "failed to store report")
}

func TestAPIBacklinks(t *testing.T) {
	t.Parallel()

	srv := newAPIServer(t, &fakeRunner{}, newFakeStore())

	resp := postJSON(t, srv.URL+"/api/backlinks",
		`{"url": "example.com", "competitors": ["rival.example.org"]}`)
	body := readBody(t, resp)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var report services.BacklinkReport
	require.NoError(t, json.Unmarshal([]byte(body), &report))
	assert.Equal(t, "example.com", report.Domain)
	assert.NotEmpty(t, report.Backlinks)
	assert.NotNil(t, report.LinkIntersect)
}

func TestAPIBacklinksInvalidURL(t *testing.T) {
	t.Parallel()

	srv := newAPIServer(t, &fakeRunner{}, newFakeStore())

	resp := postJSON(t, srv.URL+"/api/backlinks", `{"url": ""}`)
	body := readBody(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "invalid URL")
}

func TestAPIGetReports(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	seedReport(t, store, "seo", `{"score": 80}`)
	seedReport(t, store, "mobile", `{"mobile_friendly_score": 60}`)
	srv := newAPIServer(t, &fakeRunner{}, store)

	resp, err := http.Get(srv.URL + "/api/reports")
	require.NoError(t, err)
	body := readBody(t, resp)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var reports []*models.Report
	require.NoError(t, json.Unmarshal([]byte(body), &reports))
	require.Len(t, reports, 2)
	assert.Equal(t, int64(2), reports[0].ID)
	assert.Equal(t, int64(1), reports[1].ID)
}

func TestAPIGetReportsLimit(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	seedReport(t, store, "seo", `{}`)
	seedReport(t, store, "seo", `{}`)
	seedReport(t, store, "seo", `{}`)
	srv := newAPIServer(t, &fakeRunner{}, store)

	resp, err := http.Get(srv.URL + "/api/reports?limit=2")
	require.NoError(t, err)
	body := readBody(t, resp)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var reports []*models.Report
	require.NoError(t, json.Unmarshal([]byte(body), &reports))
	assert.Len(t, reports, 2)
}

func TestAPIGetReportsInvalidLimit(t *testing.T) {
	t.Parallel()

	srv := newAPIServer(t, &fakeRunner{}, newFakeStore())

	for _, limit := range []string{"abc", "-1", "0"} {
		resp, err := http.Get(srv.URL + "/api/reports?limit=" + limit)
		require.NoError(t, err)
		body := readBody(t, resp)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, body, "invalid limit")
	}
}

func TestAPIGetReportsEmpty(t *testing.T) {
	t.Parallel()

	srv := newAPIServer(t, &fakeRunner{}, newFakeStore())

	resp, err := http.Get(srv.URL + "/api/reports")
	require.NoError(t, err)
	body := readBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "[]", strings.TrimSpace(body))
}

func TestAPIGetReport(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	seeded := seedReport(t, store, "pagespeed", `{"performance_score": 95}`)
	srv := newAPIServer(t, &fakeRunner{}, store)

	resp, err := http.Get(srv.URL + "/api/reports/1")
	require.NoError(t, err)
	body := readBody(t, resp)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var report models.Report
	require.NoError(t, json.Unmarshal([]byte(body), &report))
	assert.Equal(t, seeded.ID, report.ID)
	assert.Equal(t, "pagespeed", report.AnalysisType)

	resp, err = http.Get(srv.URL + "/api/reports/42")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/reports/abc")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
