package views_test

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahul4469/seo-master/internal/views"
	"github.com/rahul4469/seo-master/templates"
)

func init() {
	views.TemplateFS = templates.FS
}

// render executes a one-off template snippet with the default funcmap.
func render(t *testing.T, snippet string, data any) string {
	t.Helper()
	tmpl, err := template.New("t").Funcs(views.DefaultFuncMap()).Parse(snippet)
	require.NoError(t, err)
	var sb strings.Builder
	require.NoError(t, tmpl.Execute(&sb, data))
	return sb.String()
}

func TestFuncMapStrings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		snippet string
		data    any
		want    string
	}{
		{`{{truncate . 10}}`, "short", "short"},
		{`{{truncate . 10}}`, "a very long page title", "a very ..."},
		{`{{title .}}`, "mobile friendly", "Mobile Friendly"},
		{`{{upper .}}`, "seo", "SEO"},
		{`{{default . "n/a"}}`, "", "n/a"},
		{`{{default . "n/a"}}`, "value", "value"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, render(t, tt.snippet, tt.data), tt.snippet)
	}
}

func TestFuncMapNumbers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		snippet string
		data    any
		want    string
	}{
		{`{{formatNumber .}}`, 999, "999"},
		{`{{formatNumber .}}`, 1500, "1.5K"},
		{`{{formatNumber .}}`, 2400000, "2.4M"},
		{`{{round1 .}}`, 3.14159, "3.1"},
		{`{{percentage . 200}}`, 50, "25"},
		{`{{percentage . 0}}`, 50, "0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, render(t, tt.snippet, tt.data), tt.snippet)
	}
}

func TestFuncMapClasses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		snippet string
		data    any
		want    string
	}{
		{`{{statusClass .}}`, "passed", "status-ok"},
		{`{{statusClass .}}`, "Warning", "status-warning"},
		{`{{statusClass .}}`, "failed", "status-error"},
		{`{{statusClass .}}`, "info", "status-neutral"},
		{`{{ratingClass .}}`, "very fast", "rating-excellent"},
		{`{{ratingClass .}}`, "good", "rating-good"},
		{`{{ratingClass .}}`, "average", "rating-fair"},
		{`{{ratingClass .}}`, "slow", "rating-poor"},
		{`{{scoreClass .}}`, 90, "score-excellent"},
		{`{{scoreClass .}}`, 70, "score-good"},
		{`{{scoreClass .}}`, 50, "score-fair"},
		{`{{scoreClass .}}`, 49, "score-poor"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, render(t, tt.snippet, tt.data), tt.snippet)
	}
}

func TestFuncMapDates(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, time.March, 5, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, "Mar 5, 2024", render(t, `{{formatDate .}}`, ts))
	assert.Equal(t, "Mar 5, 2024 2:30 PM", render(t, `{{formatDateTime .}}`, ts))

	assert.Equal(t, "just now", render(t, `{{timeAgo .}}`, time.Now().Add(-10*time.Second)))
	assert.Equal(t, "5 minutes ago", render(t, `{{timeAgo .}}`, time.Now().Add(-5*time.Minute)))
	assert.Equal(t, "yesterday", render(t, `{{timeAgo .}}`, time.Now().Add(-25*time.Hour)))
}

func TestFuncMapSeq(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "123", render(t, `{{range seq 1 3}}{{.}}{{end}}`, nil))
	assert.Equal(t, "", render(t, `{{range seq 3 1}}{{.}}{{end}}`, nil))
}

func TestParseFSRendersPage(t *testing.T) {
	t.Parallel()

	tmpl, err := views.ParseFS("pages/reports.gohtml")
	require.NoError(t, err)

	var sb strings.Builder
	data := &views.TemplateData{
		Title: "Saved Reports",
		Data:  struct{ Reports []any }{},
	}
	require.NoError(t, tmpl.Execute(&sb, data))
	assert.Contains(t, sb.String(), "No reports yet")
	assert.Contains(t, sb.String(), "<title>Saved Reports")
}

func TestParseFSUnknownPage(t *testing.T) {
	t.Parallel()

	_, err := views.ParseFS("pages/missing.gohtml")
	assert.Error(t, err)
}

func TestExecuteHTTPWithStatus(t *testing.T) {
	t.Parallel()

	tmpl, err := views.ParseFS("pages/reports.gohtml")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/reports", nil)
	tmpl.ExecuteHTTPWithStatus(rec, req, http.StatusUnprocessableEntity, &views.TemplateData{
		Title: "Saved Reports",
		Data:  struct{ Reports []any }{},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "No reports yet")
}
