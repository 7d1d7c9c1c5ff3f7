package seo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rahul4469/seo-master/internal/urlutil"
)

// AnalysisType selects which report an analysis run produces.
type AnalysisType string

const (
	TypeSEO           AnalysisType = "seo"
	TypeComprehensive AnalysisType = "comprehensive"
	TypeMobile        AnalysisType = "mobile"
	TypePageSpeed     AnalysisType = "pagespeed"
	TypeSearchConsole AnalysisType = "searchconsole"
	TypeAnalytics     AnalysisType = "analytics"
	TypeAd            AnalysisType = "ad"
)

// ErrUnknownAnalysisType is returned when an analysis type is not one
// of the supported seven.
var ErrUnknownAnalysisType = errors.New("seo: unknown analysis type")

// AnalysisTypes lists the supported types in display order.
var AnalysisTypes = []AnalysisType{
	TypeSEO, TypeComprehensive, TypeMobile, TypePageSpeed,
	TypeSearchConsole, TypeAnalytics, TypeAd,
}

// ParseAnalysisType validates a raw form or API value.
func ParseAnalysisType(raw string) (AnalysisType, error) {
	for _, t := range AnalysisTypes {
		if string(t) == raw {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAnalysisType, raw)
}

// SEOReport is the combined content/link/technical/keyword report.
type SEOReport struct {
	URL               string            `json:"url"`
	Domain            string            `json:"domain"`
	AnalysisDate      string            `json:"analysis_date"`
	ContentAnalysis   ContentAnalysis   `json:"content_analysis"`
	LinkAnalysis      LinkAnalysis      `json:"link_analysis"`
	TechnicalAnalysis TechnicalAnalysis `json:"technical_analysis"`
	KeywordAnalysis   KeywordAnalysis   `json:"keyword_analysis"`
	Score             int               `json:"score"`
	Recommendations   []string          `json:"recommendations"`
	ProcessingTime    float64           `json:"processing_time"`
}

// Analyzer runs page-based analyses. It fetches each target once per
// call and feeds the parsed document to the individual checks.
type Analyzer struct {
	fetcher *Fetcher
	links   *LinkAnalyzer
	speed   *PageSpeedAnalyzer
	now     func() time.Time
}

// AnalyzerOption customizes an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithFetcher replaces the default page fetcher.
func WithFetcher(f *Fetcher) AnalyzerOption {
	return func(a *Analyzer) { a.fetcher = f }
}

// WithNetworkProbes enables the broken-link and asset probes, which
// issue one request per linked resource.
func WithNetworkProbes(enabled bool) AnalyzerOption {
	return func(a *Analyzer) {
		a.links.ProbeBroken = enabled
		a.speed.ProbeAssets = enabled
	}
}

// NewAnalyzer returns an Analyzer with probes disabled.
func NewAnalyzer(opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{fetcher: NewFetcher(), now: time.Now}
	a.links = NewLinkAnalyzer(a.fetcher)
	a.speed = NewPageSpeedAnalyzer(a.fetcher)
	for _, opt := range opts {
		opt(a)
	}
	// options may swap the fetcher after the sub-analyzers captured it
	a.links.fetcher = a.fetcher
	a.speed.fetcher = a.fetcher
	return a
}

// Fetch retrieves and parses the target page.
func (a *Analyzer) Fetch(ctx context.Context, rawURL string) (*Document, *Page, error) {
	rawURL = urlutil.Normalize(rawURL)
	if err := urlutil.Validate(rawURL); err != nil {
		return nil, nil, err
	}
	page, err := a.fetcher.FetchPage(ctx, rawURL)
	if err != nil {
		return nil, nil, err
	}
	doc, err := ParseDocument(rawURL, page.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", rawURL, err)
	}
	return doc, page, nil
}

// AnalyzeSEO produces the full SEO report for a URL.
func (a *Analyzer) AnalyzeSEO(ctx context.Context, rawURL string) (*SEOReport, error) {
	start := a.now()
	doc, page, err := a.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	report := &SEOReport{
		URL:               doc.URL.String(),
		Domain:            doc.Domain,
		AnalysisDate:      a.now().Format("2006-01-02 15:04:05"),
		ContentAnalysis:   AnalyzeContent(doc),
		LinkAnalysis:      a.links.Analyze(ctx, doc),
		TechnicalAnalysis: AnalyzeTechnical(doc, page),
	}
	report.KeywordAnalysis = NewKeywordAnalyzer(doc.Domain).AnalyzeAdvanced(doc)
	report.Score = int(math.Round(report.ContentAnalysis.ContentQuality.OverallScore))
	report.Recommendations = seoRecommendations(report)
	report.ProcessingTime = round2(a.now().Sub(start).Seconds())
	return report, nil
}

// AnalyzeMobile produces the mobile-friendliness report for a URL.
func (a *Analyzer) AnalyzeMobile(ctx context.Context, rawURL string) (*MobileAnalysis, error) {
	doc, _, err := a.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	analysis := AnalyzeMobile(doc)
	return &analysis, nil
}

// AnalyzePageSpeed produces the page speed report for a URL.
func (a *Analyzer) AnalyzePageSpeed(ctx context.Context, rawURL string) (*PageSpeedAnalysis, error) {
	doc, _, err := a.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	analysis := a.speed.Analyze(ctx, doc)
	return &analysis, nil
}

func seoRecommendations(r *SEOReport) []string {
	var recs []string
	q := r.ContentAnalysis.ContentQuality

	if q.TitleScore < 100 {
		recs = append(recs, "keep the page title between 10 and 60 characters")
	}
	if q.DescriptionScore < 100 {
		recs = append(recs, "write a meta description between 120 and 155 characters")
	}
	if q.HeadingScore < 100 {
		recs = append(recs, "use exactly one h1 and structure content with h2/h3 headings")
	}
	if q.ParagraphScore < 100 {
		recs = append(recs, "add more body content; aim for at least five paragraphs")
	}
	if r.LinkAnalysis.Stats.BrokenLinksCount > 0 {
		recs = append(recs, "fix or remove broken links")
	}
	if !r.TechnicalAnalysis.Security.HTTPS {
		recs = append(recs, "serve the site over HTTPS")
	}
	if r.TechnicalAnalysis.Accessibility.AltAttributes < 1 {
		recs = append(recs, "add alt text to all images")
	}
	if !r.TechnicalAnalysis.MobileFriendly.ViewportPresent {
		recs = append(recs, "add a viewport meta tag for mobile devices")
	}
	if !r.TechnicalAnalysis.StructuredData.JSONLD &&
		!r.TechnicalAnalysis.StructuredData.Microdata &&
		!r.TechnicalAnalysis.StructuredData.RDFa {
		recs = append(recs, "add structured data (JSON-LD) so search engines understand the page")
	}
	return recs
}
