package controllers_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/rahul4469/seo-master/internal/models"
	"github.com/rahul4469/seo-master/internal/seo"
	"github.com/rahul4469/seo-master/internal/views"
	"github.com/rahul4469/seo-master/templates"
)

func init() {
	views.TemplateFS = templates.FS
}

// fakeStore is an in-memory ReportStore.
type fakeStore struct {
	mu      sync.Mutex
	nextID  int64
	reports map[int64]*models.Report

	createErr error
	listErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{reports: map[int64]*models.Report{}}
}

func (s *fakeStore) Create(_ context.Context, report *models.Report) (*models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.nextID++
	stored := *report
	stored.ID = s.nextID
	stored.CreatedAt = time.Now()
	s.reports[stored.ID] = &stored
	return &stored, nil
}

func (s *fakeStore) ByID(_ context.Context, id int64) (*models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	report, ok := s.reports[id]
	if !ok {
		return nil, models.ErrReportNotFound
	}
	return report, nil
}

func (s *fakeStore) Recent(_ context.Context, limit int) ([]*models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []*models.Report
	for id := s.nextID; id >= 1 && len(out) < limit; id-- {
		if report, ok := s.reports[id]; ok {
			out = append(out, report)
		}
	}
	return out, nil
}

func (s *fakeStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reports[id]; !ok {
		return models.ErrReportNotFound
	}
	delete(s.reports, id)
	return nil
}

// fakeRunner returns a canned result or error.
type fakeRunner struct {
	result  any
	err     error
	lastURL string
	lastTyp seo.AnalysisType
}

func (r *fakeRunner) Run(_ context.Context, rawURL string, typ seo.AnalysisType) (any, error) {
	r.lastURL = rawURL
	r.lastTyp = typ
	if r.err != nil {
		return nil, r.err
	}
	return r.result, nil
}

func mustTemplate(t *testing.T, page string) *views.Template {
	t.Helper()
	tmpl, err := views.ParseFS(page)
	require.NoError(t, err)
	return tmpl
}

// newRouter mounts handlers the way cmd/server does, so chi URL params
// resolve in tests.
func newRouter(mount func(r chi.Router)) *httptest.Server {
	r := chi.NewRouter()
	mount(r)
	return httptest.NewServer(r)
}

func seedReport(t *testing.T, store *fakeStore, typ, result string) *models.Report {
	t.Helper()
	report, err := store.Create(context.Background(), &models.Report{
		URL:          "https://example.com",
		Domain:       "example.com",
		AnalysisType: typ,
		Result:       []byte(result),
	})
	require.NoError(t, err)
	return report
}

func postForm(t *testing.T, target string, form url.Values) *http.Response {
	t.Helper()
	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	resp, err := client.Post(target, "application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()))
	require.NoError(t, err)
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}
