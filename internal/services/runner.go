package services

import (
	"context"
	"fmt"

	"github.com/rahul4469/seo-master/internal/seo"
	"github.com/rahul4469/seo-master/internal/urlutil"
)

// Runner dispatches an analysis request to the analyzer or collaborator
// that handles its type.
type Runner struct {
	Analyzer      *seo.Analyzer
	Ads           *AdsService
	SearchConsole *SearchConsoleService
	Analytics     *AnalyticsService
	Backlinks     *BacklinkService
	comprehensive *ComprehensiveService
}

// NewRunner wires a Runner with mock-mode collaborators around the
// given page analyzer.
func NewRunner(analyzer *seo.Analyzer) *Runner {
	r := &Runner{
		Analyzer:      analyzer,
		Ads:           NewAdsService(),
		SearchConsole: NewSearchConsoleService(),
		Analytics:     NewAnalyticsService(),
		Backlinks:     NewBacklinkService(),
	}
	r.comprehensive = NewComprehensiveService(analyzer, r.Ads, r.SearchConsole, r.Analytics)
	return r
}

// Run validates the URL, executes the analysis of the given type, and
// returns the structured result for rendering or storage.
func (r *Runner) Run(ctx context.Context, rawURL string, typ seo.AnalysisType) (any, error) {
	normalized := urlutil.Normalize(rawURL)
	if err := urlutil.Validate(normalized); err != nil {
		return nil, err
	}

	switch typ {
	case seo.TypeSEO:
		return r.Analyzer.AnalyzeSEO(ctx, normalized)
	case seo.TypeComprehensive:
		return r.comprehensive.Analyze(ctx, normalized)
	case seo.TypeMobile:
		return r.Analyzer.AnalyzeMobile(ctx, normalized)
	case seo.TypePageSpeed:
		return r.Analyzer.AnalyzePageSpeed(ctx, normalized)
	case seo.TypeSearchConsole:
		return r.SearchConsole.Analyze(ctx, normalized)
	case seo.TypeAnalytics:
		return r.Analytics.Analyze(ctx, normalized)
	case seo.TypeAd:
		return r.Ads.Analyze(ctx, normalized)
	default:
		return nil, fmt.Errorf("%w: %q", seo.ErrUnknownAnalysisType, typ)
	}
}
