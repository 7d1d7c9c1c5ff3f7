package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahul4469/seo-master/internal/services"
)

func TestSearchConsoleAnalyzeDeterministic(t *testing.T) {
	t.Parallel()

	svc := services.NewSearchConsoleService()
	first, err := svc.Analyze(context.Background(), "https://example.com")
	require.NoError(t, err)
	second, err := svc.Analyze(context.Background(), "https://example.com")
	require.NoError(t, err)

	assert.Equal(t, first.SearchPerformance.Summary, second.SearchPerformance.Summary)
	assert.Equal(t, first.SearchPerformance.TopQueries, second.SearchPerformance.TopQueries)
	assert.Equal(t, first.IndexCoverage, second.IndexCoverage)
	assert.Equal(t, first.MobileUsability, second.MobileUsability)
	assert.Equal(t, first.Recommendations, second.Recommendations)
}

func TestSearchConsolePerformance(t *testing.T) {
	t.Parallel()

	svc := services.NewSearchConsoleService()
	got, err := svc.Analyze(context.Background(), "https://example.com")
	require.NoError(t, err)

	perf := got.SearchPerformance
	require.Len(t, perf.DateData, 28)

	clicks, impressions := 0, 0
	for _, d := range perf.DateData {
		clicks += d.Clicks
		impressions += d.Impressions
		assert.LessOrEqual(t, d.Clicks, d.Impressions)
		assert.GreaterOrEqual(t, d.Position, 1.0)
		assert.LessOrEqual(t, d.Position, 20.0)
	}
	assert.Equal(t, clicks, perf.Summary.Clicks)
	assert.Equal(t, impressions, perf.Summary.Impressions)

	assert.LessOrEqual(t, len(perf.TopQueries), 10)
	for i := 1; i < len(perf.TopQueries); i++ {
		assert.GreaterOrEqual(t, perf.TopQueries[i-1].Clicks, perf.TopQueries[i].Clicks)
	}
	require.Len(t, perf.DeviceData, 3)
	assert.Equal(t, "MOBILE", perf.DeviceData[0].DimensionValue)

	want := "needs improvement"
	switch c := perf.Summary.Clicks; {
	case c > 1000:
		want = "excellent"
	case c > 500:
		want = "good"
	case c > 100:
		want = "fair"
	}
	assert.Equal(t, want, perf.Rating)
}

func TestSearchConsoleCoverage(t *testing.T) {
	t.Parallel()

	svc := services.NewSearchConsoleService()
	got, err := svc.Analyze(context.Background(), "https://example.com")
	require.NoError(t, err)

	cov := got.IndexCoverage.Summary
	assert.Equal(t, cov.TotalURLs,
		cov.Valid.Count+cov.Error.Count+cov.Excluded.Count+cov.Warning.Count,
		"coverage buckets partition the URL set")
	assert.NotEmpty(t, got.IndexCoverage.Rating)

	mob := got.MobileUsability.Summary
	assert.Equal(t, mob.TotalPages, mob.Valid.Count+mob.Issues.Count)

	issueSum := 0
	for _, issue := range mob.Issues.Types {
		issueSum += issue.Count
	}
	assert.Equal(t, mob.Issues.Count, issueSum, "issue types partition the issues")
}

func TestSearchConsoleRecommendations(t *testing.T) {
	t.Parallel()

	svc := services.NewSearchConsoleService()
	got, err := svc.Analyze(context.Background(), "https://example.com")
	require.NoError(t, err)

	// mock coverage always synthesizes at least one error bucket entry
	if got.IndexCoverage.Summary.Error.Count > 0 {
		found := false
		for _, rec := range got.Recommendations {
			if len(rec) >= 3 && rec[:3] == "fix" {
				found = true
			}
		}
		assert.True(t, found, "error count should surface as a recommendation")
	}
}
