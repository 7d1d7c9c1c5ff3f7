package seo_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahul4469/seo-master/internal/seo"
	"github.com/rahul4469/seo-master/internal/urlutil"
)

func TestParseAnalysisType(t *testing.T) {
	t.Parallel()

	for _, typ := range seo.AnalysisTypes {
		got, err := seo.ParseAnalysisType(string(typ))
		assert.NoError(t, err)
		assert.Equal(t, typ, got)
	}

	_, err := seo.ParseAnalysisType("ppc")
	assert.ErrorIs(t, err, seo.ErrUnknownAnalysisType)

	_, err = seo.ParseAnalysisType("")
	assert.ErrorIs(t, err, seo.ErrUnknownAnalysisType)
}

func fixtureServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, fixturePage)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAnalyzerAnalyzeSEO(t *testing.T) {
	t.Parallel()

	srv := fixtureServer(t)
	a := seo.NewAnalyzer()

	report, err := a.AnalyzeSEO(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, srv.URL, report.URL)
	assert.NotEmpty(t, report.AnalysisDate)
	assert.Equal(t, "Example Store - Quality Goods Online", report.ContentAnalysis.Title)
	assert.Equal(t, 2, report.LinkAnalysis.Stats.TotalLinks)
	assert.Equal(t, http.StatusOK, report.TechnicalAnalysis.StatusCode)
	assert.NotEmpty(t, report.KeywordAnalysis.Keywords)
	assert.GreaterOrEqual(t, report.Score, 0)
	assert.LessOrEqual(t, report.Score, 100)
	// two short paragraphs and no h3 leave room for advice
	assert.NotEmpty(t, report.Recommendations)
	assert.GreaterOrEqual(t, report.ProcessingTime, 0.0)
}

func TestAnalyzerAnalyzeMobile(t *testing.T) {
	t.Parallel()

	srv := fixtureServer(t)
	a := seo.NewAnalyzer()

	got, err := a.AnalyzeMobile(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, srv.URL, got.URL)
	assert.True(t, got.Viewport.HasViewport)
	assert.GreaterOrEqual(t, got.MobileFriendlyScore, 0)
	assert.LessOrEqual(t, got.MobileFriendlyScore, 100)
}

func TestAnalyzerAnalyzePageSpeed(t *testing.T) {
	t.Parallel()

	srv := fixtureServer(t)
	a := seo.NewAnalyzer()

	got, err := a.AnalyzePageSpeed(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, srv.URL, got.URL)
	assert.NotZero(t, got.ResourcesCount.Total)
	assert.NotEmpty(t, got.SpeedRating)
}

func TestAnalyzerRejectsInvalidURL(t *testing.T) {
	t.Parallel()

	a := seo.NewAnalyzer()

	_, err := a.AnalyzeSEO(context.Background(), "")
	assert.ErrorIs(t, err, urlutil.ErrInvalidURL)

	_, err = a.AnalyzeMobile(context.Background(), "ftp://example.com")
	assert.ErrorIs(t, err, urlutil.ErrInvalidURL)
}

func TestAnalyzerFetchError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	a := seo.NewAnalyzer()
	_, err := a.AnalyzeSEO(context.Background(), srv.URL)
	assert.Error(t, err)
}
