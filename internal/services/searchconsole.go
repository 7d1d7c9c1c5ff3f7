// Package services holds the external-collaborator clients and the
// analysis runner behind the web layer. The Google-facing collectors
// (Search Console, Analytics, Ads) and the backlink index run in mock
// mode: they synthesize deterministic data seeded by domain, the same
// stand-in behavior the production credentials-less deployment uses.
package services

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/rahul4469/seo-master/internal/seo"
	"github.com/rahul4469/seo-master/internal/urlutil"
)

// PerformanceRow is one row of search performance data, keyed by a
// dimension value (query, page, device, or country).
type PerformanceRow struct {
	DimensionType  string  `json:"dimension_type,omitempty"`
	DimensionValue string  `json:"dimension_value,omitempty"`
	Date           string  `json:"date,omitempty"`
	Clicks         int     `json:"clicks"`
	Impressions    int     `json:"impressions"`
	CTR            float64 `json:"ctr"`
	Position       float64 `json:"position"`
}

// PerformanceTotals aggregates search performance over the window.
type PerformanceTotals struct {
	Clicks      int     `json:"clicks"`
	Impressions int     `json:"impressions"`
	CTR         float64 `json:"ctr"`
	Position    float64 `json:"position"`
}

// PerformanceTrends compares the second half of the window to the
// first, in percent (position trend is the raw rank improvement).
type PerformanceTrends struct {
	Clicks      float64 `json:"clicks"`
	Impressions float64 `json:"impressions"`
	Position    float64 `json:"position"`
}

// SearchPerformance is the 28-day search traffic block.
type SearchPerformance struct {
	Summary     PerformanceTotals `json:"summary"`
	Trends      PerformanceTrends `json:"trends"`
	Rating      string            `json:"rating"`
	TopQueries  []PerformanceRow  `json:"top_queries"`
	TopPages    []PerformanceRow  `json:"top_pages"`
	DeviceData  []PerformanceRow  `json:"device_data"`
	CountryData []PerformanceRow  `json:"country_data"`
	DateData    []PerformanceRow  `json:"date_data"`
}

// CoverageBucket is one index-coverage state with its URL share.
type CoverageBucket struct {
	Count      int             `json:"count"`
	Percentage float64         `json:"percentage"`
	Types      []CoverageIssue `json:"types,omitempty"`
}

// CoverageIssue is a reason bucket inside a coverage state.
type CoverageIssue struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// IndexCoverage is the index-coverage block of the report.
type IndexCoverage struct {
	Summary struct {
		TotalURLs int            `json:"total_urls"`
		Valid     CoverageBucket `json:"valid"`
		Error     CoverageBucket `json:"error"`
		Excluded  CoverageBucket `json:"excluded"`
		Warning   CoverageBucket `json:"warning"`
	} `json:"summary"`
	Rating string `json:"rating"`
}

// MobileUsability is the mobile-usability block of the report.
type MobileUsability struct {
	Summary struct {
		TotalPages int            `json:"total_pages"`
		Valid      CoverageBucket `json:"valid"`
		Issues     CoverageBucket `json:"issues"`
	} `json:"summary"`
	Rating string `json:"rating"`
}

// SearchConsoleReport is the full Search Console analysis result.
type SearchConsoleReport struct {
	URL               string            `json:"url"`
	Domain            string            `json:"domain"`
	Timestamp         string            `json:"timestamp"`
	AnalysisDuration  float64           `json:"analysis_duration"`
	SearchPerformance SearchPerformance `json:"search_performance"`
	IndexCoverage     IndexCoverage     `json:"index_coverage"`
	MobileUsability   MobileUsability   `json:"mobile_usability"`
	Recommendations   []string          `json:"recommendations"`
}

// SearchConsoleService produces search performance reports. In mock
// mode all figures are synthesized from a domain-seeded generator.
type SearchConsoleService struct {
	MockMode bool
	now      func() time.Time
}

// NewSearchConsoleService returns a mock-mode service.
func NewSearchConsoleService() *SearchConsoleService {
	return &SearchConsoleService{MockMode: true, now: time.Now}
}

// Analyze builds the Search Console report for a URL. The context is
// unused in mock mode but kept for the collaborator contract.
func (s *SearchConsoleService) Analyze(ctx context.Context, pageURL string) (*SearchConsoleReport, error) {
	_ = ctx
	start := s.now()
	domain := urlutil.Domain(pageURL)
	rng := seo.DomainRand(domain)

	perf := s.mockPerformance(rng, pageURL, domain)
	coverage := s.mockCoverage(rng)
	mobile := s.mockMobileUsability(rng)

	report := &SearchConsoleReport{
		URL:               pageURL,
		Domain:            domain,
		Timestamp:         s.now().Format("2006-01-02 15:04:05"),
		SearchPerformance: perf,
		IndexCoverage:     coverage,
		MobileUsability:   mobile,
		Recommendations:   searchConsoleRecommendations(perf, coverage, mobile),
	}
	report.AnalysisDuration = round2(s.now().Sub(start).Seconds())
	return report, nil
}

func (s *SearchConsoleService) mockPerformance(rng *rand.Rand, pageURL, domain string) SearchPerformance {
	const days = 28
	end := s.now()

	queries := []string{
		domain,
		domain + " login",
		domain + " reviews",
		domain + " pricing",
		domain + " tutorial",
		"seo tools",
		"website optimization",
		"search engine optimization",
		"content marketing",
		"keyword research",
		"backlink analysis",
		"mobile friendly",
		"page speed optimization",
		"structured data",
		"meta tag optimization",
	}
	pages := []string{
		pageURL,
		pageURL + "/about",
		pageURL + "/services",
		pageURL + "/contact",
		pageURL + "/blog",
		pageURL + "/blog/seo-tips",
		pageURL + "/blog/content-marketing",
		pageURL + "/blog/keyword-research",
		pageURL + "/products",
		pageURL + "/faq",
	}

	var dateData []PerformanceRow
	for i := days - 1; i >= 0; i-- {
		clicks := 10 + rng.Intn(90)
		impressions := clicks * (5 + rng.Intn(15))
		dateData = append(dateData, PerformanceRow{
			Date:        end.AddDate(0, 0, -i).Format("2006-01-02"),
			Clicks:      clicks,
			Impressions: impressions,
			CTR:         round2(float64(clicks) / float64(max(1, impressions)) * 100),
			Position:    round1(1 + rng.Float64()*19),
		})
	}

	row := func(kind, value string, maxPos float64) PerformanceRow {
		clicks := 5 + rng.Intn(45)
		impressions := clicks * (5 + rng.Intn(10))
		return PerformanceRow{
			DimensionType:  kind,
			DimensionValue: value,
			Clicks:         clicks,
			Impressions:    impressions,
			CTR:            round2(float64(clicks) / float64(max(1, impressions)) * 100),
			Position:       round1(1 + rng.Float64()*(maxPos-1)),
		}
	}

	var queryRows, pageRows []PerformanceRow
	for _, q := range queries {
		queryRows = append(queryRows, row("query", q, 30))
	}
	for _, p := range pages {
		pageRows = append(pageRows, row("page", p, 20))
	}

	totalClicks, totalImpressions, positionSum := 0, 0, 0.0
	for _, d := range dateData {
		totalClicks += d.Clicks
		totalImpressions += d.Impressions
		positionSum += d.Position
	}

	deviceRatios := []struct {
		name  string
		ratio float64
	}{{"MOBILE", 0.6}, {"DESKTOP", 0.35}, {"TABLET", 0.05}}
	var deviceRows []PerformanceRow
	for _, d := range deviceRatios {
		clicks := int(float64(totalClicks) * d.ratio)
		impressions := int(float64(totalImpressions) * d.ratio)
		deviceRows = append(deviceRows, PerformanceRow{
			DimensionType:  "device",
			DimensionValue: d.name,
			Clicks:         clicks,
			Impressions:    impressions,
			CTR:            round2(float64(clicks) / float64(max(1, impressions)) * 100),
			Position:       round1(1 + rng.Float64()*19),
		})
	}

	countries := []string{"us", "gb", "ca", "au", "de", "fr", "jp", "in", "br", "sg"}
	var countryRows []PerformanceRow
	for i, c := range countries {
		// home market takes the bulk of the traffic
		ratio := 0.3 / float64(len(countries)-1)
		if i == 0 {
			ratio = 0.7
		}
		clicks := int(float64(totalClicks) * ratio)
		impressions := int(float64(totalImpressions) * ratio)
		countryRows = append(countryRows, PerformanceRow{
			DimensionType:  "country",
			DimensionValue: c,
			Clicks:         clicks,
			Impressions:    impressions,
			CTR:            round2(float64(clicks) / float64(max(1, impressions)) * 100),
			Position:       round1(1 + rng.Float64()*19),
		})
	}

	sortByClicks := func(rows []PerformanceRow) []PerformanceRow {
		sorted := append([]PerformanceRow(nil), rows...)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Clicks > sorted[j].Clicks })
		if len(sorted) > 10 {
			sorted = sorted[:10]
		}
		return sorted
	}

	totals := PerformanceTotals{
		Clicks:      totalClicks,
		Impressions: totalImpressions,
		CTR:         round2(float64(totalClicks) / float64(max(1, totalImpressions)) * 100),
		Position:    round1(positionSum / float64(len(dateData))),
	}

	rating := "needs improvement"
	switch {
	case totals.Clicks > 1000:
		rating = "excellent"
	case totals.Clicks > 500:
		rating = "good"
	case totals.Clicks > 100:
		rating = "fair"
	}

	return SearchPerformance{
		Summary:     totals,
		Trends:      trendOf(dateData),
		Rating:      rating,
		TopQueries:  sortByClicks(queryRows),
		TopPages:    sortByClicks(pageRows),
		DeviceData:  deviceRows,
		CountryData: countryRows,
		DateData:    dateData,
	}
}

// trendOf compares second-half totals against the first half.
func trendOf(dateData []PerformanceRow) PerformanceTrends {
	if len(dateData) < 2 {
		return PerformanceTrends{}
	}
	half := len(dateData) / 2
	first, second := dateData[:half], dateData[half:]

	sum := func(rows []PerformanceRow, f func(PerformanceRow) float64) float64 {
		total := 0.0
		for _, r := range rows {
			total += f(r)
		}
		return total
	}
	clicks := func(r PerformanceRow) float64 { return float64(r.Clicks) }
	impressions := func(r PerformanceRow) float64 { return float64(r.Impressions) }
	position := func(r PerformanceRow) float64 { return r.Position }

	firstClicks, secondClicks := sum(first, clicks), sum(second, clicks)
	firstImp, secondImp := sum(first, impressions), sum(second, impressions)
	firstPos := sum(first, position) / float64(len(first))
	secondPos := sum(second, position) / float64(len(second))

	return PerformanceTrends{
		Clicks:      round1((secondClicks - firstClicks) / math.Max(1, firstClicks) * 100),
		Impressions: round1((secondImp - firstImp) / math.Max(1, firstImp) * 100),
		// lower position is better, so improvement is positive
		Position: round1(firstPos - secondPos),
	}
}

func (s *SearchConsoleService) mockCoverage(rng *rand.Rand) IndexCoverage {
	total := 100 + rng.Intn(900)

	validRatio := 0.7 + rng.Float64()*0.25
	excludedRatio := 0.01 + rng.Float64()*0.09
	errorRatio := 0.01 + rng.Float64()*0.09

	valid := int(float64(total) * validRatio)
	excluded := int(float64(total) * excludedRatio)
	errs := int(float64(total) * errorRatio)
	warnings := total - valid - excluded - errs

	bucket := func(count int, types []CoverageIssue) CoverageBucket {
		return CoverageBucket{
			Count:      count,
			Percentage: round1(float64(count) / float64(total) * 100),
			Types:      types,
		}
	}
	split := func(count int, names []string, ratios []float64) []CoverageIssue {
		issues := make([]CoverageIssue, 0, len(names)+1)
		rest := count
		for i, name := range names {
			n := int(float64(count) * ratios[i])
			issues = append(issues, CoverageIssue{Type: name, Count: n})
			rest -= n
		}
		issues = append(issues, CoverageIssue{Type: "other", Count: rest})
		return issues
	}

	var coverage IndexCoverage
	coverage.Summary.TotalURLs = total
	coverage.Summary.Valid = bucket(valid, nil)
	coverage.Summary.Error = bucket(errs, split(errs,
		[]string{"server_error", "redirect_error", "not_found"}, []float64{0.3, 0.2, 0.4}))
	coverage.Summary.Excluded = bucket(excluded, split(excluded,
		[]string{"robots_txt", "noindex", "canonical"}, []float64{0.5, 0.3, 0.1}))
	coverage.Summary.Warning = bucket(warnings, split(warnings,
		[]string{"duplicate_content", "soft_404", "mobile_usability"}, []float64{0.4, 0.3, 0.2}))

	coverage.Rating = "needs improvement"
	switch p := coverage.Summary.Valid.Percentage; {
	case p > 90:
		coverage.Rating = "excellent"
	case p > 80:
		coverage.Rating = "good"
	case p > 70:
		coverage.Rating = "fair"
	}
	return coverage
}

func (s *SearchConsoleService) mockMobileUsability(rng *rand.Rand) MobileUsability {
	total := 50 + rng.Intn(150)
	issueRatio := 0.05 + rng.Float64()*0.25
	issues := int(float64(total) * issueRatio)
	valid := total - issues

	issueTypes := []CoverageIssue{
		{Type: "viewport_not_set", Count: int(float64(issues) * 0.2)},
		{Type: "content_wider_than_screen", Count: int(float64(issues) * 0.3)},
		{Type: "text_too_small", Count: int(float64(issues) * 0.25)},
		{Type: "clickable_elements_too_close", Count: int(float64(issues) * 0.15)},
	}
	rest := issues
	for _, t := range issueTypes {
		rest -= t.Count
	}
	issueTypes = append(issueTypes, CoverageIssue{Type: "other", Count: rest})

	var usability MobileUsability
	usability.Summary.TotalPages = total
	usability.Summary.Valid = CoverageBucket{
		Count:      valid,
		Percentage: round1(float64(valid) / float64(total) * 100),
	}
	usability.Summary.Issues = CoverageBucket{
		Count:      issues,
		Percentage: round1(float64(issues) / float64(total) * 100),
		Types:      issueTypes,
	}

	usability.Rating = "needs improvement"
	switch p := usability.Summary.Valid.Percentage; {
	case p > 95:
		usability.Rating = "excellent"
	case p > 90:
		usability.Rating = "good"
	case p > 80:
		usability.Rating = "fair"
	}
	return usability
}

func searchConsoleRecommendations(perf SearchPerformance, coverage IndexCoverage, mobile MobileUsability) []string {
	var recs []string
	if perf.Summary.Position > 10 {
		recs = append(recs, "average search position is low; improve content quality and relevance")
	}
	if perf.Summary.CTR < 3 {
		recs = append(recs, "click-through rate is low; optimize meta titles and descriptions")
	}
	if perf.Trends.Clicks < 0 {
		recs = append(recs, "clicks are trending down; refresh existing content or publish new pages")
	}
	if n := coverage.Summary.Error.Count; n > 0 {
		recs = append(recs, fmt.Sprintf("fix %d index errors", n))
	}
	if n := coverage.Summary.Warning.Count; n > 0 {
		recs = append(recs, fmt.Sprintf("review %d index warnings", n))
	}
	if n := mobile.Summary.Issues.Count; n > 0 {
		recs = append(recs, fmt.Sprintf("resolve %d mobile usability issues", n))
	}
	return recs
}

func round1(f float64) float64 { return math.Round(f*10) / 10 }
func round2(f float64) float64 { return math.Round(f*100) / 100 }
