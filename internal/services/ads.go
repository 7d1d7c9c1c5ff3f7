package services

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/rahul4469/seo-master/internal/seo"
	"github.com/rahul4469/seo-master/internal/urlutil"
)

// AdCost is the synthesized spend estimate attached to each ad. CPC is
// set for search ads, CPM for social placements.
type AdCost struct {
	CPC          float64 `json:"cpc,omitempty"`
	CPM          float64 `json:"cpm,omitempty"`
	DailyBudget  float64 `json:"daily_budget"`
	MonthlySpend float64 `json:"monthly_spend"`
}

// GoogleAd is one synthesized search or display ad.
type GoogleAd struct {
	Keyword       string   `json:"keyword"`
	Headline      string   `json:"headline"`
	Description   string   `json:"description"`
	DisplayURL    string   `json:"display_url"`
	FinalURL      string   `json:"final_url"`
	AdType        string   `json:"ad_type"`
	Position      string   `json:"position"`
	BidKeywords   []string `json:"bid_keywords"`
	EstimatedCost AdCost   `json:"estimated_cost"`
	Competition   string   `json:"competition"`
	FirstSeen     string   `json:"first_seen"`
	LastSeen      string   `json:"last_seen"`
}

// AdTargeting is the audience block of a social ad.
type AdTargeting struct {
	Age       string   `json:"age"`
	Gender    string   `json:"gender"`
	Interests []string `json:"interests"`
	Location  string   `json:"location"`
	Device    string   `json:"device"`
}

// SocialAd is one synthesized social-network ad.
type SocialAd struct {
	Headline      string      `json:"headline"`
	Description   string      `json:"description"`
	Format        string      `json:"format"`
	Placement     string      `json:"placement"`
	Targeting     AdTargeting `json:"targeting"`
	EstimatedCost AdCost      `json:"estimated_cost"`
	LandingURL    string      `json:"landing_url"`
	FirstSeen     string      `json:"first_seen"`
	LastSeen      string      `json:"last_seen"`
}

// AdBreakdown is one slice of the platform or format pie.
type AdBreakdown struct {
	Name       string  `json:"name"`
	Icon       string  `json:"icon"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// KeywordShare is a keyword with its occurrence count.
type KeywordShare struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// WordShare is an ad-copy word with its occurrence count.
type WordShare struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// PageShare is a landing page with its occurrence count.
type PageShare struct {
	URL   string `json:"url"`
	Count int    `json:"count"`
}

// CostStat summarizes one cost dimension across a set of ads.
type CostStat struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Avg   float64 `json:"avg"`
	Total float64 `json:"total,omitempty"`
}

// CostAnalysis groups the cost stats of an ad set.
type CostAnalysis struct {
	CPC          *CostStat `json:"cpc,omitempty"`
	CPM          *CostStat `json:"cpm,omitempty"`
	DailyBudget  CostStat  `json:"daily_budget"`
	MonthlySpend CostStat  `json:"monthly_spend"`
}

// GoogleAdsAnalysis is the per-network breakdown of the search ads.
type GoogleAdsAnalysis struct {
	TotalAds            int            `json:"total_ads"`
	AdTypes             map[string]int `json:"ad_types"`
	Positions           map[string]int `json:"positions"`
	TopKeywords         []KeywordShare `json:"top_keywords"`
	TopBidKeywords      []KeywordShare `json:"top_bid_keywords"`
	TopHeadlineWords    []WordShare    `json:"top_headline_words"`
	TopDescriptionWords []WordShare    `json:"top_description_words"`
	TopLandingPages     []PageShare    `json:"top_landing_pages"`
	EstimatedCost       CostAnalysis   `json:"estimated_cost"`
	Competition         map[string]int `json:"competition"`
}

// SocialPlatformAnalysis is the per-platform breakdown of social ads.
type SocialPlatformAnalysis struct {
	TotalAds   int            `json:"total_ads"`
	Formats    map[string]int `json:"formats"`
	Placements map[string]int `json:"placements"`
	Targeting  struct {
		Age    map[string]int `json:"age"`
		Gender map[string]int `json:"gender"`
	} `json:"targeting"`
	TopLandingPages []PageShare  `json:"top_landing_pages"`
	EstimatedCost   CostAnalysis `json:"estimated_cost"`
}

// AdsReport is the full ad-intelligence result for a URL.
type AdsReport struct {
	URL                   string                            `json:"url"`
	Domain                string                            `json:"domain"`
	Timestamp             string                            `json:"timestamp"`
	AnalysisDuration      float64                           `json:"analysis_duration"`
	AdCount               int                               `json:"ad_count"`
	PlatformCount         int                               `json:"platform_count"`
	EstimatedMonthlySpend string                            `json:"estimated_monthly_spend"`
	Platforms             []AdBreakdown                     `json:"platforms"`
	Formats               []AdBreakdown                     `json:"formats"`
	GoogleAds             []GoogleAd                        `json:"google_ads"`
	SocialAds             map[string][]SocialAd             `json:"social_ads"`
	GoogleAnalysis        GoogleAdsAnalysis                 `json:"google_analysis"`
	SocialAnalysis        map[string]SocialPlatformAnalysis `json:"social_analysis"`
}

// AdsService reports on a domain's paid presence across Google and the
// major social networks. In mock mode both ad sets are synthesized from
// a domain-seeded generator.
type AdsService struct {
	MockMode bool
	now      func() time.Time
}

// NewAdsService returns a mock-mode service.
func NewAdsService() *AdsService {
	return &AdsService{MockMode: true, now: time.Now}
}

const (
	googleAdLimit = 50
	socialAdLimit = 50
)

var socialPlatforms = []string{"facebook", "instagram", "twitter", "linkedin"}

// adWord tokenizes ad copy for the word-frequency breakdowns.
var adWord = regexp.MustCompile(`[a-z0-9]+`)

// Analyze builds the ads report for a URL. The context is unused in
// mock mode but kept for the collaborator contract.
func (s *AdsService) Analyze(ctx context.Context, pageURL string) (*AdsReport, error) {
	_ = ctx
	start := s.now()
	domain := urlutil.Domain(pageURL)
	rng := seo.DomainRand(domain)

	googleAds := s.mockGoogleAds(rng, domain)
	socialAds := s.mockSocialAds(rng, domain)

	report := &AdsReport{
		URL:            pageURL,
		Domain:         domain,
		Timestamp:      s.now().Format("2006-01-02 15:04:05"),
		GoogleAds:      googleAds,
		SocialAds:      socialAds,
		GoogleAnalysis: analyzeGoogleAds(googleAds),
		SocialAnalysis: analyzeSocialAds(socialAds),
	}

	report.AdCount = len(googleAds)
	platforms := []AdBreakdown{{Name: "Google Ads", Icon: "google"}}
	platforms[0].Count = len(googleAds)
	for _, name := range socialPlatforms {
		ads := socialAds[name]
		platforms = append(platforms, AdBreakdown{
			Name:  strings.ToUpper(name[:1]) + name[1:],
			Icon:  name,
			Count: len(ads),
		})
		report.AdCount += len(ads)
	}
	for i := range platforms {
		if report.AdCount > 0 {
			platforms[i].Percentage = round1(float64(platforms[i].Count) / float64(report.AdCount) * 100)
		}
	}
	sort.SliceStable(platforms, func(i, j int) bool { return platforms[i].Count > platforms[j].Count })
	report.Platforms = platforms
	report.PlatformCount = len(platforms)

	report.Formats = formatBreakdown(googleAds, socialAds, report.AdCount)

	spend := 0.0
	for _, ad := range googleAds {
		spend += ad.EstimatedCost.MonthlySpend
	}
	for _, ads := range socialAds {
		for _, ad := range ads {
			spend += ad.EstimatedCost.MonthlySpend
		}
	}
	report.EstimatedMonthlySpend = formatUSD(spend)

	report.AnalysisDuration = round2(s.now().Sub(start).Seconds())
	return report, nil
}

var industryAdKeywords = map[string][]string{
	"shop":      {"online shop", "online store", "ecommerce", "free shipping", "best deals"},
	"blog":      {"blog", "articles", "content", "news", "insights"},
	"tech":      {"technology", "software", "apps", "digital tools", "it services"},
	"finance":   {"finance", "investing", "insurance", "wealth management", "stocks"},
	"travel":    {"travel", "tours", "hotels", "sightseeing", "booking"},
	"health":    {"health", "medical care", "fitness", "diet", "wellness"},
	"education": {"education", "learning", "online courses", "school", "certification"},
}

var googleHeadlines = []string{
	"Official %[1]s - Premium %[2]s Services",
	"Latest %[2]s Updates - %[1]s",
	"%[2]s Experts | %[1]s",
	"Check Out %[2]s on %[1]s Today",
	"Limited Offer: %[2]s Deals - %[1]s",
	"The #1 Choice for %[2]s - %[1]s",
	"Trusted %[2]s Professionals at %[1]s",
	"Solve Your %[2]s Problems - %[1]s",
	"Free %[2]s Trial for New Customers - %[1]s",
	"24/7 %[2]s Support - %[1]s",
}

var googleDescriptions = []string{
	"Industry-leading %[2]s services. Get in touch with us today.",
	"Proven %[2]s expertise with a 98%% satisfaction rate. Trust %[1]s.",
	"New to %[2]s? Our specialists will walk you through it. Free consultation.",
	"Fresh %[2]s updates every day. Follow the latest trends on %[1]s.",
	"Every %[2]s need covered, around the clock, all year long.",
	"Official %[1]s - the leading %[2]s company. Special campaign running now.",
	"A dedicated service built to solve your %[2]s challenges. Satisfaction guaranteed.",
	"Experience the %[2]s quality difference. Request a free quote.",
	"Free %[2]s consultations available. Our staff will assist you personally.",
	"Limited time: 30%% off all %[2]s services. Don't miss out.",
}

func (s *AdsService) mockGoogleAds(rng *rand.Rand, domain string) []GoogleAd {
	keywords := adKeywordsFor(domain)

	qualifiers := []string{"services", "company", "comparison", "recommended", "ranking"}
	priceWords := []string{"pricing", "price", "cost", "rates"}

	n := min(googleAdLimit, len(keywords)*5)
	ads := make([]GoogleAd, 0, n)
	for i := 0; i < n; i++ {
		keyword := keywords[i%len(keywords)]
		slug := strings.ToLower(strings.ReplaceAll(keyword, " ", "-"))
		campaign := strings.ToLower(strings.ReplaceAll(keyword, " ", "_"))
		displayURL := fmt.Sprintf("https://%s/%s", domain, slug)

		adType := "display"
		position := "content"
		if rng.Intn(2) == 0 {
			adType = "search"
			position = []string{"top", "bottom", "side"}[rng.Intn(3)]
		}

		ads = append(ads, GoogleAd{
			Keyword:     keyword,
			Headline:    fmt.Sprintf(googleHeadlines[rng.Intn(len(googleHeadlines))], domain, keyword),
			Description: fmt.Sprintf(googleDescriptions[rng.Intn(len(googleDescriptions))], domain, keyword),
			DisplayURL:  displayURL,
			FinalURL:    fmt.Sprintf("%s?utm_source=google&utm_medium=cpc&utm_campaign=%s", displayURL, campaign),
			AdType:      adType,
			Position:    position,
			BidKeywords: []string{
				keyword,
				keyword + " " + qualifiers[rng.Intn(len(qualifiers))],
				"best " + keyword,
				keyword + " " + priceWords[rng.Intn(len(priceWords))],
				domain + " " + keyword,
			},
			EstimatedCost: AdCost{
				CPC:          round2(0.5 + rng.Float64()*4.5),
				DailyBudget:  round2(10 + rng.Float64()*90),
				MonthlySpend: round2(300 + rng.Float64()*2700),
			},
			Competition: []string{"low", "medium", "high"}[rng.Intn(3)],
			FirstSeen:   s.now().AddDate(0, 0, -(1 + rng.Intn(90))).Format("2006-01-02"),
			LastSeen:    s.now().Format("2006-01-02"),
		})
	}
	return ads
}

// adKeywordsFor guesses a keyword set from the domain name, the same
// way the search-term suggestions do.
func adKeywordsFor(domain string) []string {
	var keywords []string
	lower := strings.ToLower(domain)
	for category, list := range industryAdKeywords {
		if strings.Contains(lower, category) {
			keywords = append(keywords, list...)
		}
	}
	sort.Strings(keywords)
	if len(keywords) == 0 {
		keywords = []string{"services", "products", "company", "business", "official"}
	}
	name := strings.Split(domain, ".")[0]
	return append(keywords,
		name,
		name+" official",
		name+" services",
		name+" reviews",
		name+" pricing",
	)
}

type socialAdSamples struct {
	headlines    []string
	descriptions []string
	formats      []string
	placements   []string
}

var platformSamples = map[string]socialAdSamples{
	"facebook": {
		headlines: []string{
			"Check Out the New Services from %[1]s",
			"Official %[1]s - Quality You Can Trust",
			"Find Your Ideal %[2]s on %[1]s",
			"Limited Campaign Running Now at %[1]s",
			"Why Customers Choose %[1]s",
		},
		descriptions: []string{
			"Industry-leading services. Get in touch with us today.",
			"Proven expertise with a 98%% satisfaction rate. Trust %[1]s.",
			"New customers welcome. Our staff will assist you. Free consultation.",
			"Fresh updates every day. Follow the latest trends on %[1]s.",
			"Every need covered, around the clock, all year long.",
		},
		formats:    []string{"image", "carousel", "video", "collection"},
		placements: []string{"feed", "stories", "marketplace", "right_column"},
	},
	"instagram": {
		headlines: []string{
			"New Arrivals at %[1]s",
			"Official %[1]s on Instagram",
			"Browse %[2]s from %[1]s",
			"Limited Campaign from %[1]s",
			"Follow the %[1]s Stories",
		},
		descriptions: []string{
			"New items just landed. Check them out now!",
			"Follower-only special offer. See the link in our profile.",
			"Popular %[2]s at a special price, for a limited time.",
			"Catch the latest trends with %[1]s.",
			"Follow us for updates!",
		},
		formats:    []string{"image", "carousel", "video", "reels", "stories"},
		placements: []string{"feed", "stories", "explore", "reels"},
	},
	"twitter": {
		headlines: []string{
			"Latest News from %[1]s",
			"Official %[1]s on Twitter",
			"Learn More About %[2]s from %[1]s",
			"Breaking: New Service from %[1]s",
			"Follow %[1]s for Updates",
		},
		descriptions: []string{
			"Live updates daily. Follow us so you never miss a thing!",
			"Important announcements from the official account.",
			"Service details are in the link on our profile.",
			"Follower-only campaign running now!",
			"Deals and news posted as they happen.",
		},
		formats:    []string{"image", "video", "carousel", "text"},
		placements: []string{"timeline", "profile", "search", "explore"},
	},
	"linkedin": {
		headlines: []string{
			"Careers at %[1]s",
			"Official %[1]s Company Page",
			"Business Solutions from %[1]s",
			"Latest Case Studies from %[1]s",
			"Talk to the %[1]s Experts",
		},
		descriptions: []string{
			"Solutions from %[1]s to grow your business.",
			"Industry-leading services from %[1]s. Learn more here.",
			"Business tools for professionals. Free trial available.",
			"Case study: how %[1]s solved its clients' challenges.",
			"A team of specialists ready to support your business. Reach out today.",
		},
		formats:    []string{"image", "video", "carousel", "document", "text"},
		placements: []string{"feed", "sidebar", "inmail", "groups"},
	},
}

var industryProducts = map[string][]string{
	"shop":      {"products", "items", "collections", "bundles", "accessories"},
	"tech":      {"software", "apps", "tools", "services", "solutions"},
	"finance":   {"plans", "services", "insurance", "investments", "accounts"},
	"travel":    {"tours", "packages", "plans", "stays", "tickets"},
	"health":    {"supplements", "programs", "services", "products", "care plans"},
	"education": {"courses", "classes", "programs", "lessons", "seminars"},
}

var adInterests = []string{
	"business", "technology", "education", "health",
	"lifestyle", "entertainment", "sports", "travel",
}

var adLocations = []string{
	"United States", "New York", "California", "Texas",
	"Chicago", "Europe", "Global",
}

func (s *AdsService) mockSocialAds(rng *rand.Rand, domain string) map[string][]SocialAd {
	var products []string
	lower := strings.ToLower(domain)
	for category, list := range industryProducts {
		if strings.Contains(lower, category) {
			products = append(products, list...)
		}
	}
	sort.Strings(products)
	if len(products) == 0 {
		products = []string{"services", "products", "plans", "solutions", "packages"}
	}

	perPlatform := min(socialAdLimit/len(socialPlatforms), 10)
	ages := []string{"18-24", "25-34", "35-44", "45-54", "55-64", "65+"}
	genders := []string{"all", "male", "female"}
	devices := []string{"all", "mobile", "desktop", "tablet"}

	social := make(map[string][]SocialAd, len(socialPlatforms))
	for _, platform := range socialPlatforms {
		samples := platformSamples[platform]
		ads := make([]SocialAd, 0, perPlatform)
		for i := 0; i < perPlatform; i++ {
			product := products[rng.Intn(len(products))]
			slug := strings.ToLower(strings.ReplaceAll(product, " ", "-"))
			campaign := strings.ToLower(strings.ReplaceAll(product, " ", "_"))

			interests := make([]string, 0, 3)
			for _, idx := range rng.Perm(len(adInterests))[:1+rng.Intn(3)] {
				interests = append(interests, adInterests[idx])
			}

			ads = append(ads, SocialAd{
				Headline:    fmt.Sprintf(samples.headlines[rng.Intn(len(samples.headlines))], domain, product),
				Description: fmt.Sprintf(samples.descriptions[rng.Intn(len(samples.descriptions))], domain, product),
				Format:      samples.formats[rng.Intn(len(samples.formats))],
				Placement:   samples.placements[rng.Intn(len(samples.placements))],
				Targeting: AdTargeting{
					Age:       ages[rng.Intn(len(ages))],
					Gender:    genders[rng.Intn(len(genders))],
					Interests: interests,
					Location:  adLocations[rng.Intn(len(adLocations))],
					Device:    devices[rng.Intn(len(devices))],
				},
				EstimatedCost: AdCost{
					CPM:          round2(3 + rng.Float64()*12),
					DailyBudget:  round2(10 + rng.Float64()*40),
					MonthlySpend: round2(300 + rng.Float64()*1200),
				},
				LandingURL: fmt.Sprintf("https://%s/%s?utm_source=%s&utm_medium=social&utm_campaign=%s",
					domain, slug, platform, campaign),
				FirstSeen: s.now().AddDate(0, 0, -(1 + rng.Intn(60))).Format("2006-01-02"),
				LastSeen:  s.now().Format("2006-01-02"),
			})
		}
		social[platform] = ads
	}
	return social
}

func analyzeGoogleAds(ads []GoogleAd) GoogleAdsAnalysis {
	analysis := GoogleAdsAnalysis{
		TotalAds:    len(ads),
		AdTypes:     map[string]int{},
		Positions:   map[string]int{},
		Competition: map[string]int{},
	}
	if len(ads) == 0 {
		return analysis
	}

	keywords := map[string]int{}
	bidKeywords := map[string]int{}
	headlineWords := map[string]int{}
	descriptionWords := map[string]int{}
	landingPages := map[string]int{}
	var cpc, daily, monthly []float64

	for _, ad := range ads {
		analysis.AdTypes[ad.AdType]++
		analysis.Positions[ad.Position]++
		analysis.Competition[ad.Competition]++
		keywords[ad.Keyword]++
		for _, kw := range ad.BidKeywords {
			bidKeywords[kw]++
		}
		countAdWords(headlineWords, ad.Headline)
		countAdWords(descriptionWords, ad.Description)
		landingPages[ad.FinalURL]++
		cpc = append(cpc, ad.EstimatedCost.CPC)
		daily = append(daily, ad.EstimatedCost.DailyBudget)
		monthly = append(monthly, ad.EstimatedCost.MonthlySpend)
	}

	analysis.TopKeywords = keywordShares(keywords, 10)
	analysis.TopBidKeywords = keywordShares(bidKeywords, 10)
	analysis.TopHeadlineWords = wordShares(headlineWords, 10)
	analysis.TopDescriptionWords = wordShares(descriptionWords, 10)
	analysis.TopLandingPages = pageShares(landingPages, 10)
	analysis.EstimatedCost = CostAnalysis{
		CPC:          costStat(cpc, false),
		DailyBudget:  *costStat(daily, false),
		MonthlySpend: *costStat(monthly, true),
	}
	return analysis
}

func analyzeSocialAds(socialAds map[string][]SocialAd) map[string]SocialPlatformAnalysis {
	out := make(map[string]SocialPlatformAnalysis, len(socialAds))
	for platform, ads := range socialAds {
		if len(ads) == 0 {
			continue
		}
		analysis := SocialPlatformAnalysis{
			TotalAds:   len(ads),
			Formats:    map[string]int{},
			Placements: map[string]int{},
		}
		analysis.Targeting.Age = map[string]int{}
		analysis.Targeting.Gender = map[string]int{}

		landingPages := map[string]int{}
		var cpm, daily, monthly []float64
		for _, ad := range ads {
			analysis.Formats[ad.Format]++
			analysis.Placements[ad.Placement]++
			analysis.Targeting.Age[ad.Targeting.Age]++
			analysis.Targeting.Gender[ad.Targeting.Gender]++
			landingPages[ad.LandingURL]++
			cpm = append(cpm, ad.EstimatedCost.CPM)
			daily = append(daily, ad.EstimatedCost.DailyBudget)
			monthly = append(monthly, ad.EstimatedCost.MonthlySpend)
		}
		analysis.TopLandingPages = pageShares(landingPages, 5)
		analysis.EstimatedCost = CostAnalysis{
			CPM:          costStat(cpm, false),
			DailyBudget:  *costStat(daily, false),
			MonthlySpend: *costStat(monthly, true),
		}
		out[platform] = analysis
	}
	return out
}

func formatBreakdown(googleAds []GoogleAd, socialAds map[string][]SocialAd, total int) []AdBreakdown {
	counts := map[string]int{}
	var order []string
	bump := func(format string) {
		if _, ok := counts[format]; !ok {
			order = append(order, format)
		}
		counts[format]++
	}
	for _, ad := range googleAds {
		bump(ad.AdType)
	}
	for _, platform := range socialPlatforms {
		for _, ad := range socialAds[platform] {
			bump(ad.Format)
		}
	}

	breakdown := make([]AdBreakdown, 0, len(order))
	for _, format := range order {
		entry := AdBreakdown{
			Name:  strings.ToUpper(format[:1]) + format[1:],
			Icon:  formatIcon(format),
			Count: counts[format],
		}
		if total > 0 {
			entry.Percentage = round1(float64(entry.Count) / float64(total) * 100)
		}
		breakdown = append(breakdown, entry)
	}
	return breakdown
}

func formatIcon(format string) string {
	switch format {
	case "search":
		return "search"
	case "video":
		return "video"
	case "carousel":
		return "images"
	case "image", "display":
		return "image"
	default:
		return "file-alt"
	}
}

func countAdWords(counts map[string]int, text string) {
	for _, word := range adWord.FindAllString(strings.ToLower(text), -1) {
		if len(word) > 2 {
			counts[word]++
		}
	}
}

func costStat(values []float64, withTotal bool) *CostStat {
	if len(values) == 0 {
		return &CostStat{}
	}
	stat := &CostStat{Min: values[0], Max: values[0]}
	sum := 0.0
	for _, v := range values {
		if v < stat.Min {
			stat.Min = v
		}
		if v > stat.Max {
			stat.Max = v
		}
		sum += v
	}
	stat.Avg = round2(sum / float64(len(values)))
	if withTotal {
		stat.Total = round2(sum)
	}
	return stat
}

func topAdEntries(counts map[string]int, limit int) []KeywordShare {
	entries := make([]KeywordShare, 0, len(counts))
	for k, c := range counts {
		entries = append(entries, KeywordShare{Keyword: k, Count: c})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Keyword < entries[j].Keyword
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

func keywordShares(counts map[string]int, limit int) []KeywordShare {
	return topAdEntries(counts, limit)
}

func wordShares(counts map[string]int, limit int) []WordShare {
	top := topAdEntries(counts, limit)
	out := make([]WordShare, len(top))
	for i, e := range top {
		out[i] = WordShare{Word: e.Keyword, Count: e.Count}
	}
	return out
}

func pageShares(counts map[string]int, limit int) []PageShare {
	top := topAdEntries(counts, limit)
	out := make([]PageShare, len(top))
	for i, e := range top {
		out[i] = PageShare{URL: e.Keyword, Count: e.Count}
	}
	return out
}

// formatUSD renders a dollar amount with thousands separators the way
// the report templates display it.
func formatUSD(amount float64) string {
	digits := fmt.Sprintf("%d", int(amount))
	neg := strings.HasPrefix(digits, "-")
	if neg {
		digits = digits[1:]
	}
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-$" + b.String()
	}
	return "$" + b.String()
}
