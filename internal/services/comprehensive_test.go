package services_test

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahul4469/seo-master/internal/seo"
	"github.com/rahul4469/seo-master/internal/services"
)

const samplePage = `<!DOCTYPE html>
<html lang="en"><head>
<title>Sample Site - Everything You Need</title>
<meta name="description" content="A sample site with enough content to score well on the content checks of the analyzer suite.">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<style>@media (max-width: 600px) { main { display: flex; } }</style>
</head><body>
<h1>Sample Site</h1>
<h2>What we do</h2>
<p>Paragraph one with useful words.</p>
<p>Paragraph two with more words.</p>
<p>Paragraph three keeps going.</p>
<a href="/about">About</a>
</body></html>`

func sampleServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, samplePage)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newComprehensive() *services.ComprehensiveService {
	return services.NewComprehensiveService(
		seo.NewAnalyzer(),
		services.NewAdsService(),
		services.NewSearchConsoleService(),
		services.NewAnalyticsService(),
	)
}

func TestComprehensiveAnalyze(t *testing.T) {
	t.Parallel()

	srv := sampleServer(t)
	got, err := newComprehensive().Analyze(context.Background(), srv.URL)
	require.NoError(t, err)

	r := got.DetailedResults
	require.NotNil(t, r.SEO)
	require.NotNil(t, r.Mobile)
	require.NotNil(t, r.PageSpeed)
	require.NotNil(t, r.Ads)
	require.NotNil(t, r.SearchConsole)
	require.NotNil(t, r.Analytics)

	wantScore := int(math.Round(float64(r.SEO.Score+r.Mobile.MobileFriendlyScore+r.PageSpeed.PageSpeedScore) / 3))
	assert.Equal(t, wantScore, got.ComprehensiveScore)

	wantRating := "needs improvement"
	switch {
	case got.ComprehensiveScore >= 90:
		wantRating = "excellent"
	case got.ComprehensiveScore >= 70:
		wantRating = "good"
	case got.ComprehensiveScore >= 50:
		wantRating = "fair"
	}
	assert.Equal(t, wantRating, got.ComprehensiveRating)

	assert.Equal(t, r.SEO.URL, got.URL)
	assert.Equal(t, r.SEO.Domain, got.Domain)
}

func TestComprehensiveRecommendations(t *testing.T) {
	t.Parallel()

	srv := sampleServer(t)
	got, err := newComprehensive().Analyze(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.LessOrEqual(t, len(got.Recommendations), 10)

	seen := map[string]bool{}
	for _, rec := range got.Recommendations {
		assert.False(t, seen[rec], "duplicate recommendation: %s", rec)
		seen[rec] = true
	}
}

func TestComprehensiveFetchFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := newComprehensive().Analyze(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seo analysis")
}
