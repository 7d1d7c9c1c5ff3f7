package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahul4469/seo-master/internal/seo"
	"github.com/rahul4469/seo-master/internal/services"
	"github.com/rahul4469/seo-master/internal/urlutil"
)

func TestRunnerDispatch(t *testing.T) {
	t.Parallel()

	srv := sampleServer(t)
	runner := services.NewRunner(seo.NewAnalyzer())
	ctx := context.Background()

	tests := []struct {
		typ   seo.AnalysisType
		check func(t *testing.T, result any)
	}{
		{seo.TypeSEO, func(t *testing.T, result any) {
			r, ok := result.(*seo.SEOReport)
			require.True(t, ok)
			assert.NotEmpty(t, r.ContentAnalysis.Title)
		}},
		{seo.TypeComprehensive, func(t *testing.T, result any) {
			r, ok := result.(*services.ComprehensiveReport)
			require.True(t, ok)
			assert.NotEmpty(t, r.ComprehensiveRating)
		}},
		{seo.TypeMobile, func(t *testing.T, result any) {
			r, ok := result.(*seo.MobileAnalysis)
			require.True(t, ok)
			assert.True(t, r.Viewport.HasViewport)
		}},
		{seo.TypePageSpeed, func(t *testing.T, result any) {
			r, ok := result.(*seo.PageSpeedAnalysis)
			require.True(t, ok)
			assert.NotEmpty(t, r.SpeedRating)
		}},
		{seo.TypeSearchConsole, func(t *testing.T, result any) {
			r, ok := result.(*services.SearchConsoleReport)
			require.True(t, ok)
			assert.NotEmpty(t, r.SearchPerformance.DateData)
		}},
		{seo.TypeAnalytics, func(t *testing.T, result any) {
			r, ok := result.(*services.AnalyticsReport)
			require.True(t, ok)
			assert.Positive(t, r.Traffic.Summary.Sessions)
		}},
		{seo.TypeAd, func(t *testing.T, result any) {
			r, ok := result.(*services.AdsReport)
			require.True(t, ok)
			assert.Positive(t, r.AdCount)
		}},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			t.Parallel()
			result, err := runner.Run(ctx, srv.URL, tt.typ)
			require.NoError(t, err)
			tt.check(t, result)
		})
	}
}

func TestRunnerUnknownType(t *testing.T) {
	t.Parallel()

	runner := services.NewRunner(seo.NewAnalyzer())
	_, err := runner.Run(context.Background(), "https://example.com", seo.AnalysisType("ppc"))
	assert.ErrorIs(t, err, seo.ErrUnknownAnalysisType)
}

func TestRunnerInvalidURL(t *testing.T) {
	t.Parallel()

	runner := services.NewRunner(seo.NewAnalyzer())
	_, err := runner.Run(context.Background(), "", seo.TypeSEO)
	assert.ErrorIs(t, err, urlutil.ErrInvalidURL)
}
