package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rahul4469/seo-master/internal/seo"
)

// DetailedResults embeds every sub-report of a comprehensive run.
type DetailedResults struct {
	SEO           *seo.SEOReport         `json:"seo"`
	Mobile        *seo.MobileAnalysis    `json:"mobile"`
	PageSpeed     *seo.PageSpeedAnalysis `json:"pagespeed"`
	Ads           *AdsReport             `json:"ads"`
	SearchConsole *SearchConsoleReport   `json:"searchconsole"`
	Analytics     *AnalyticsReport       `json:"analytics"`
}

// ComprehensiveReport combines all analyses into one scored report.
type ComprehensiveReport struct {
	URL                 string          `json:"url"`
	Domain              string          `json:"domain"`
	Timestamp           string          `json:"timestamp"`
	ComprehensiveScore  int             `json:"comprehensive_score"`
	ComprehensiveRating string          `json:"comprehensive_rating"`
	Recommendations     []string        `json:"recommendations"`
	DetailedResults     DetailedResults `json:"detailed_results"`
}

const maxMergedRecommendations = 10

// ComprehensiveService runs every analyzer against a URL and folds the
// results into a single report.
type ComprehensiveService struct {
	analyzer      *seo.Analyzer
	ads           *AdsService
	searchConsole *SearchConsoleService
	analytics     *AnalyticsService
	now           func() time.Time
}

// NewComprehensiveService wires a comprehensive service from the page
// analyzer and the mock collaborators.
func NewComprehensiveService(analyzer *seo.Analyzer, ads *AdsService, sc *SearchConsoleService, an *AnalyticsService) *ComprehensiveService {
	return &ComprehensiveService{
		analyzer:      analyzer,
		ads:           ads,
		searchConsole: sc,
		analytics:     an,
		now:           time.Now,
	}
}

// Analyze runs all six analyses. The page-based analyses must succeed;
// a failure there fails the whole run.
func (s *ComprehensiveService) Analyze(ctx context.Context, rawURL string) (*ComprehensiveReport, error) {
	var (
		results DetailedResults
		err     error
	)

	if results.SEO, err = s.analyzer.AnalyzeSEO(ctx, rawURL); err != nil {
		return nil, fmt.Errorf("seo analysis: %w", err)
	}
	if results.Mobile, err = s.analyzer.AnalyzeMobile(ctx, rawURL); err != nil {
		return nil, fmt.Errorf("mobile analysis: %w", err)
	}
	if results.PageSpeed, err = s.analyzer.AnalyzePageSpeed(ctx, rawURL); err != nil {
		return nil, fmt.Errorf("pagespeed analysis: %w", err)
	}
	if results.Ads, err = s.ads.Analyze(ctx, rawURL); err != nil {
		return nil, fmt.Errorf("ads analysis: %w", err)
	}
	if results.SearchConsole, err = s.searchConsole.Analyze(ctx, rawURL); err != nil {
		return nil, fmt.Errorf("search console analysis: %w", err)
	}
	if results.Analytics, err = s.analytics.Analyze(ctx, rawURL); err != nil {
		return nil, fmt.Errorf("analytics analysis: %w", err)
	}

	score := comprehensiveScore(results)
	return &ComprehensiveReport{
		URL:                 results.SEO.URL,
		Domain:              results.SEO.Domain,
		Timestamp:           s.now().Format("2006-01-02 15:04:05"),
		ComprehensiveScore:  score,
		ComprehensiveRating: comprehensiveRating(score),
		Recommendations:     mergeRecommendations(results),
		DetailedResults:     results,
	}, nil
}

// comprehensiveScore averages the three page-based scores.
func comprehensiveScore(results DetailedResults) int {
	total := results.SEO.Score +
		results.Mobile.MobileFriendlyScore +
		results.PageSpeed.PageSpeedScore
	return int(math.Round(float64(total) / 3))
}

func comprehensiveRating(score int) string {
	switch {
	case score >= 90:
		return "excellent"
	case score >= 70:
		return "good"
	case score >= 50:
		return "fair"
	default:
		return "needs improvement"
	}
}

// mergeRecommendations folds the per-analysis recommendations into one
// de-duplicated list, in analysis order, capped at ten entries.
func mergeRecommendations(results DetailedResults) []string {
	seen := map[string]struct{}{}
	var merged []string
	add := func(recs []string) {
		for _, rec := range recs {
			if _, dup := seen[rec]; dup {
				continue
			}
			seen[rec] = struct{}{}
			merged = append(merged, rec)
		}
	}

	add(results.SEO.Recommendations)

	m := results.Mobile
	if rec := m.Viewport.Recommendation; rec != "" {
		add([]string{rec})
	}
	add(m.ResponsiveDesign.Recommendations)
	add(m.TouchElements.Recommendations)
	add(m.FontSize.Recommendations)
	add(m.ContentWidth.Recommendations)

	p := results.PageSpeed
	add(p.RenderBlocking.Recommendations)
	add(p.ImageOptimization.Recommendations)
	add(p.Minification.Recommendations)
	add(p.Caching.Recommendations)

	add(results.SearchConsole.Recommendations)
	add(results.Analytics.Recommendations)

	if len(merged) > maxMergedRecommendations {
		merged = merged[:maxMergedRecommendations]
	}
	return merged
}
