package services

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/rahul4469/seo-master/internal/seo"
	"github.com/rahul4469/seo-master/internal/urlutil"
)

// TrafficDay is one day of synthetic traffic.
type TrafficDay struct {
	Date               string  `json:"date"`
	Sessions           int     `json:"sessions"`
	Users              int     `json:"users"`
	NewUsers           int     `json:"new_users"`
	Pageviews          int     `json:"pageviews"`
	PagesPerSession    float64 `json:"pages_per_session"`
	AvgSessionDuration int     `json:"avg_session_duration"`
	BounceRate         float64 `json:"bounce_rate"`
}

// TrafficTotals aggregates the traffic window.
type TrafficTotals struct {
	Sessions           int     `json:"sessions"`
	Users              int     `json:"users"`
	NewUsers           int     `json:"new_users"`
	Pageviews          int     `json:"pageviews"`
	PagesPerSession    float64 `json:"pages_per_session"`
	AvgSessionDuration int     `json:"avg_session_duration"`
	BounceRate         float64 `json:"bounce_rate"`
}

// TrafficTrends compares the second half of the window to the first.
type TrafficTrends struct {
	Sessions  float64 `json:"sessions"`
	Users     float64 `json:"users"`
	Pageviews float64 `json:"pageviews"`
}

// TrafficSource is one acquisition channel's share of the traffic.
type TrafficSource struct {
	Source             string  `json:"source"`
	Medium             string  `json:"medium"`
	Sessions           int     `json:"sessions"`
	Users              int     `json:"users"`
	NewUsers           int     `json:"new_users"`
	BounceRate         float64 `json:"bounce_rate"`
	PagesPerSession    float64 `json:"pages_per_session"`
	AvgSessionDuration int     `json:"avg_session_duration"`
}

// DeviceTraffic is one device category's traffic share.
type DeviceTraffic struct {
	DeviceCategory     string  `json:"device_category"`
	Sessions           int     `json:"sessions"`
	Users              int     `json:"users"`
	NewUsers           int     `json:"new_users"`
	BounceRate         float64 `json:"bounce_rate"`
	PagesPerSession    float64 `json:"pages_per_session"`
	AvgSessionDuration int     `json:"avg_session_duration"`
}

// CountryTraffic is one country's traffic share.
type CountryTraffic struct {
	Country    string  `json:"country"`
	Sessions   int     `json:"sessions"`
	Users      int     `json:"users"`
	NewUsers   int     `json:"new_users"`
	BounceRate float64 `json:"bounce_rate"`
}

// PageTraffic is per-page performance.
type PageTraffic struct {
	PagePath        string  `json:"page_path"`
	Pageviews       int     `json:"pageviews"`
	UniquePageviews int     `json:"unique_pageviews"`
	AvgTimeOnPage   int     `json:"avg_time_on_page"`
	Entrances       int     `json:"entrances"`
	BounceRate      float64 `json:"bounce_rate"`
	ExitRate        float64 `json:"exit_rate"`
}

// EventStat is one tracked event with counts and value.
type EventStat struct {
	EventCategory string  `json:"event_category"`
	EventAction   string  `json:"event_action"`
	TotalEvents   int     `json:"total_events"`
	UniqueEvents  int     `json:"unique_events"`
	ValuePerEvent float64 `json:"value_per_event"`
	TotalValue    int     `json:"total_value"`
}

// TrafficBlock is the traffic section of an analytics report.
type TrafficBlock struct {
	Summary    TrafficTotals    `json:"summary"`
	Trends     TrafficTrends    `json:"trends"`
	Rating     string           `json:"rating"`
	TopSources []TrafficSource  `json:"top_sources"`
	Devices    []DeviceTraffic  `json:"devices"`
	Countries  []CountryTraffic `json:"countries"`
	DateData   []TrafficDay     `json:"date_data"`
}

// EngagementBlock is the engagement section of an analytics report.
type EngagementBlock struct {
	Score              int     `json:"score"`
	Rating             string  `json:"rating"`
	BounceRate         float64 `json:"bounce_rate"`
	PagesPerSession    float64 `json:"pages_per_session"`
	AvgSessionDuration int     `json:"avg_session_duration"`
}

// AnalyticsReport is the full traffic analysis result.
type AnalyticsReport struct {
	URL              string          `json:"url"`
	Domain           string          `json:"domain"`
	Timestamp        string          `json:"timestamp"`
	AnalysisDuration float64         `json:"analysis_duration"`
	Traffic          TrafficBlock    `json:"traffic"`
	Engagement       EngagementBlock `json:"engagement"`
	Pages            struct {
		TotalPages int           `json:"total_pages"`
		TopPages   []PageTraffic `json:"top_pages"`
	} `json:"pages"`
	Events struct {
		TotalEvents  int         `json:"total_events"`
		UniqueEvents int         `json:"unique_events"`
		TopEvents    []EventStat `json:"top_events"`
	} `json:"events"`
	Recommendations []string `json:"recommendations"`
}

// AnalyticsService produces traffic reports. In mock mode all figures
// are synthesized from a domain-seeded generator.
type AnalyticsService struct {
	MockMode bool
	now      func() time.Time
}

// NewAnalyticsService returns a mock-mode service.
func NewAnalyticsService() *AnalyticsService {
	return &AnalyticsService{MockMode: true, now: time.Now}
}

// Analyze builds the analytics report over a 30-day window.
func (s *AnalyticsService) Analyze(ctx context.Context, pageURL string) (*AnalyticsReport, error) {
	_ = ctx
	start := s.now()
	domain := urlutil.Domain(pageURL)
	rng := seo.DomainRand(domain)

	const days = 30
	dateData := s.mockDays(rng, days)

	totalSessions, totalUsers, totalNew, totalPV := 0, 0, 0, 0
	durationSum, bounceSum := 0, 0.0
	for _, d := range dateData {
		totalSessions += d.Sessions
		totalUsers += d.Users
		totalNew += d.NewUsers
		totalPV += d.Pageviews
		durationSum += d.AvgSessionDuration
		bounceSum += d.BounceRate
	}

	totals := TrafficTotals{
		Sessions:           totalSessions,
		Users:              totalUsers,
		NewUsers:           totalNew,
		Pageviews:          totalPV,
		PagesPerSession:    round2(float64(totalPV) / float64(max(1, totalSessions))),
		AvgSessionDuration: durationSum / len(dateData),
		BounceRate:         round2(bounceSum / float64(len(dateData))),
	}

	sources := mockSources(rng, totalSessions)
	devices := mockDevices(rng, totalSessions)
	countries := mockCountries(rng, totalSessions)
	pages := mockPages(rng, pageURL, 20)
	events := mockEvents(rng)

	topSources := append([]TrafficSource(nil), sources...)
	sort.SliceStable(topSources, func(i, j int) bool { return topSources[i].Sessions > topSources[j].Sessions })
	if len(topSources) > 5 {
		topSources = topSources[:5]
	}

	rating := "needs improvement"
	switch {
	case totals.Sessions > 10000:
		rating = "excellent"
	case totals.Sessions > 5000:
		rating = "good"
	case totals.Sessions > 1000:
		rating = "fair"
	}

	report := &AnalyticsReport{
		URL:       pageURL,
		Domain:    domain,
		Timestamp: s.now().Format("2006-01-02 15:04:05"),
		Traffic: TrafficBlock{
			Summary:    totals,
			Trends:     trafficTrends(dateData),
			Rating:     rating,
			TopSources: topSources,
			Devices:    devices,
			Countries:  countries[:5],
			DateData:   dateData,
		},
		Engagement: scoreEngagement(totals),
	}
	report.Pages.TotalPages = len(pages)
	if len(pages) > 10 {
		report.Pages.TopPages = pages[:10]
	} else {
		report.Pages.TopPages = pages
	}
	for _, e := range events {
		report.Events.TotalEvents += e.TotalEvents
		report.Events.UniqueEvents += e.UniqueEvents
	}
	if len(events) > 5 {
		events = events[:5]
	}
	report.Events.TopEvents = events

	report.Recommendations = analyticsRecommendations(report.Traffic, sources, devices, totals)
	report.AnalysisDuration = round2(s.now().Sub(start).Seconds())
	return report, nil
}

func (s *AnalyticsService) mockDays(rng *rand.Rand, days int) []TrafficDay {
	base := 100 + rng.Intn(400)
	end := s.now()

	data := make([]TrafficDay, 0, days)
	for i := 0; i < days; i++ {
		date := end.AddDate(0, 0, i-days+1)

		weekday := 1.0
		if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			weekday = 0.8
		}
		trend := 1.0 + float64(i)/float64(days)*0.2
		jitter := 0.8 + rng.Float64()*0.4

		sessions := int(float64(base) * weekday * trend * jitter)
		users := int(float64(sessions) * (0.8 + rng.Float64()*0.15))
		pageviews := int(float64(sessions) * (2.0 + rng.Float64()*2.0))

		data = append(data, TrafficDay{
			Date:               date.Format("2006-01-02"),
			Sessions:           sessions,
			Users:              users,
			NewUsers:           int(float64(users) * (0.2 + rng.Float64()*0.2)),
			Pageviews:          pageviews,
			PagesPerSession:    round2(float64(pageviews) / float64(max(1, sessions))),
			AvgSessionDuration: 60 + rng.Intn(240),
			BounceRate:         round2(30 + rng.Float64()*40),
		})
	}
	return data
}

func mockSources(rng *rand.Rand, totalSessions int) []TrafficSource {
	shares := []struct {
		source, medium string
		lo, hi         float64
	}{
		{"google", "organic", 0.4, 0.6},
		{"direct", "none", 0.15, 0.25},
		{"google", "cpc", 0.05, 0.15},
		{"facebook", "social", 0.05, 0.1},
		{"twitter", "social", 0.02, 0.05},
		{"linkedin", "social", 0.01, 0.03},
		{"bing", "organic", 0.02, 0.05},
		{"yahoo", "organic", 0.01, 0.03},
		{"referral", "referral", 0.05, 0.1},
		{"email", "email", 0.01, 0.05},
	}
	sources := make([]TrafficSource, 0, len(shares))
	for _, sh := range shares {
		sessions := int(float64(totalSessions) * (sh.lo + rng.Float64()*(sh.hi-sh.lo)))
		users := int(float64(sessions) * (0.8 + rng.Float64()*0.15))
		sources = append(sources, TrafficSource{
			Source:             sh.source,
			Medium:             sh.medium,
			Sessions:           sessions,
			Users:              users,
			NewUsers:           int(float64(users) * (0.2 + rng.Float64()*0.2)),
			BounceRate:         round2(30 + rng.Float64()*40),
			PagesPerSession:    round2(1.5 + rng.Float64()*2.5),
			AvgSessionDuration: 60 + rng.Intn(240),
		})
	}
	return sources
}

func mockDevices(rng *rand.Rand, totalSessions int) []DeviceTraffic {
	shares := []struct {
		category string
		lo, hi   float64
	}{
		{"mobile", 0.5, 0.7},
		{"desktop", 0.25, 0.45},
		{"tablet", 0.05, 0.1},
	}
	devices := make([]DeviceTraffic, 0, len(shares))
	for _, sh := range shares {
		sessions := int(float64(totalSessions) * (sh.lo + rng.Float64()*(sh.hi-sh.lo)))
		users := int(float64(sessions) * (0.8 + rng.Float64()*0.15))
		devices = append(devices, DeviceTraffic{
			DeviceCategory:     sh.category,
			Sessions:           sessions,
			Users:              users,
			NewUsers:           int(float64(users) * (0.2 + rng.Float64()*0.2)),
			BounceRate:         round2(30 + rng.Float64()*40),
			PagesPerSession:    round2(1.5 + rng.Float64()*2.5),
			AvgSessionDuration: 60 + rng.Intn(240),
		})
	}
	return devices
}

func mockCountries(rng *rand.Rand, totalSessions int) []CountryTraffic {
	shares := []struct {
		country string
		lo, hi  float64
	}{
		{"United States", 0.6, 0.8},
		{"United Kingdom", 0.05, 0.15},
		{"Canada", 0.02, 0.05},
		{"Australia", 0.01, 0.03},
		{"Germany", 0.01, 0.03},
		{"France", 0.005, 0.02},
		{"India", 0.005, 0.02},
		{"Japan", 0.005, 0.02},
		{"Brazil", 0.005, 0.02},
		{"Other", 0.01, 0.05},
	}
	countries := make([]CountryTraffic, 0, len(shares))
	for _, sh := range shares {
		sessions := int(float64(totalSessions) * (sh.lo + rng.Float64()*(sh.hi-sh.lo)))
		users := int(float64(sessions) * (0.8 + rng.Float64()*0.15))
		countries = append(countries, CountryTraffic{
			Country:    sh.country,
			Sessions:   sessions,
			Users:      users,
			NewUsers:   int(float64(users) * (0.2 + rng.Float64()*0.2)),
			BounceRate: round2(30 + rng.Float64()*40),
		})
	}
	return countries
}

func mockPages(rng *rand.Rand, pageURL string, limit int) []PageTraffic {
	paths := []string{
		"", "/about", "/services", "/contact", "/blog",
		"/blog/seo-tips", "/blog/content-marketing", "/blog/keyword-research",
		"/products", "/faq",
	}

	pages := make([]PageTraffic, 0, limit)
	for i := 0; len(pages) < limit; i++ {
		var path string
		if i < len(paths) {
			path = pageURL + paths[i]
		} else {
			path = fmt.Sprintf("%s/page-%d", pageURL, i-len(paths)+1)
		}
		pageviews := 50 + rng.Intn(4950)
		unique := int(float64(pageviews) * (0.7 + rng.Float64()*0.2))
		pages = append(pages, PageTraffic{
			PagePath:        path,
			Pageviews:       pageviews,
			UniquePageviews: unique,
			AvgTimeOnPage:   30 + rng.Intn(270),
			Entrances:       int(float64(unique) * (0.1 + rng.Float64()*0.4)),
			BounceRate:      round2(20 + rng.Float64()*60),
			ExitRate:        round2(10 + rng.Float64()*40),
		})
	}
	sort.SliceStable(pages, func(i, j int) bool { return pages[i].Pageviews > pages[j].Pageviews })
	return pages
}

var eventActions = []struct {
	category string
	actions  []string
	valued   bool
}{
	{"engagement", []string{"read", "share"}, true},
	{"outbound", []string{"click", "navigate"}, false},
	{"download", []string{"pdf", "doc"}, true},
	{"video", []string{"play", "pause"}, false},
	{"form", []string{"start", "submit"}, true},
	{"scroll", []string{"25%", "50%"}, false},
	{"click", []string{"button", "link"}, false},
}

func mockEvents(rng *rand.Rand) []EventStat {
	var events []EventStat
	for _, group := range eventActions {
		for _, action := range group.actions {
			total := 50 + rng.Intn(950)
			stat := EventStat{
				EventCategory: group.category,
				EventAction:   action,
				TotalEvents:   total,
				UniqueEvents:  int(float64(total) * (0.7 + rng.Float64()*0.2)),
			}
			if group.valued {
				stat.ValuePerEvent = round2(0.1 + rng.Float64()*4.9)
				stat.TotalValue = int(float64(total) * stat.ValuePerEvent)
			}
			events = append(events, stat)
		}
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].TotalEvents > events[j].TotalEvents })
	return events
}

func trafficTrends(days []TrafficDay) TrafficTrends {
	if len(days) < 2 {
		return TrafficTrends{}
	}
	half := len(days) / 2
	first, second := days[:half], days[half:]

	sum := func(rows []TrafficDay, f func(TrafficDay) int) float64 {
		total := 0
		for _, r := range rows {
			total += f(r)
		}
		return float64(total)
	}
	sessions := func(d TrafficDay) int { return d.Sessions }
	users := func(d TrafficDay) int { return d.Users }
	pageviews := func(d TrafficDay) int { return d.Pageviews }

	pctChange := func(a, b float64) float64 {
		if a == 0 {
			return 0
		}
		return round1((b - a) / a * 100)
	}

	return TrafficTrends{
		Sessions:  pctChange(sum(first, sessions), sum(second, sessions)),
		Users:     pctChange(sum(first, users), sum(second, users)),
		Pageviews: pctChange(sum(first, pageviews), sum(second, pageviews)),
	}
}

func scoreEngagement(totals TrafficTotals) EngagementBlock {
	score := 0

	switch {
	case totals.BounceRate < 30:
		score += 30
	case totals.BounceRate < 50:
		score += 20
	case totals.BounceRate < 70:
		score += 10
	}

	switch {
	case totals.PagesPerSession > 3:
		score += 30
	case totals.PagesPerSession > 2:
		score += 20
	case totals.PagesPerSession > 1.5:
		score += 10
	}

	switch {
	case totals.AvgSessionDuration > 180:
		score += 40
	case totals.AvgSessionDuration > 120:
		score += 30
	case totals.AvgSessionDuration > 60:
		score += 20
	default:
		score += 10
	}

	rating := "needs improvement"
	switch {
	case score > 80:
		rating = "excellent"
	case score > 60:
		rating = "good"
	case score > 40:
		rating = "fair"
	}

	return EngagementBlock{
		Score:              score,
		Rating:             rating,
		BounceRate:         totals.BounceRate,
		PagesPerSession:    totals.PagesPerSession,
		AvgSessionDuration: totals.AvgSessionDuration,
	}
}

func analyticsRecommendations(traffic TrafficBlock, sources []TrafficSource, devices []DeviceTraffic, totals TrafficTotals) []string {
	var recs []string

	if traffic.Trends.Sessions < 0 {
		recs = append(recs, "traffic is trending down; invest in SEO and content marketing")
	}

	organic, social := 0, 0
	for _, src := range sources {
		switch src.Medium {
		case "organic":
			organic += src.Sessions
		case "social":
			social += src.Sessions
		}
	}
	if totals.Sessions > 0 {
		if float64(organic)/float64(totals.Sessions) < 0.3 {
			recs = append(recs, "organic search traffic is low; strengthen SEO")
		}
		if float64(social)/float64(totals.Sessions) < 0.1 {
			recs = append(recs, "social traffic is low; strengthen social media marketing")
		}
	}

	for _, d := range devices {
		if d.DeviceCategory == "mobile" && d.BounceRate > 60 {
			recs = append(recs, "mobile bounce rate is high; improve mobile usability")
			break
		}
	}
	if totals.BounceRate > 60 {
		recs = append(recs, "bounce rate is high; improve landing pages and content quality")
	}
	if totals.PagesPerSession < 2 {
		recs = append(recs, "pages per session is low; strengthen internal linking to related content")
	}
	if totals.AvgSessionDuration < 60 {
		recs = append(recs, "average session duration is short; improve content depth and engagement")
	}
	return recs
}
