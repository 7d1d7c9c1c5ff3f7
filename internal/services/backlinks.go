package services

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/rahul4469/seo-master/internal/seo"
	"github.com/rahul4469/seo-master/internal/urlutil"
)

// Backlink is one inbound link from the (mock) link index.
type Backlink struct {
	SourceURL       string `json:"source_url"`
	SourceDomain    string `json:"source_domain"`
	TargetURL       string `json:"target_url"`
	AnchorText      string `json:"anchor_text"`
	DomainAuthority int    `json:"domain_authority"`
	PageAuthority   int    `json:"page_authority"`
	IsDofollow      bool   `json:"is_dofollow"`
	FirstSeen       string `json:"first_seen"`
	LastSeen        string `json:"last_seen"`
}

// AuthorityDistribution summarizes an authority-score population.
type AuthorityDistribution struct {
	Min    int     `json:"min"`
	Max    int     `json:"max"`
	Avg    float64 `json:"avg"`
	Median int     `json:"median"`
}

// AnchorShare is an anchor text with its occurrence count.
type AnchorShare struct {
	Text  string `json:"text"`
	Count int    `json:"count"`
}

// BacklinkProfile is the aggregate view of the inbound link set.
type BacklinkProfile struct {
	TotalBacklinks              int                   `json:"total_backlinks"`
	TotalReferringDomains       int                   `json:"total_referring_domains"`
	DofollowLinks               int                   `json:"dofollow_links"`
	NofollowLinks               int                   `json:"nofollow_links"`
	DomainAuthorityDistribution AuthorityDistribution `json:"domain_authority_distribution"`
	PageAuthorityDistribution   AuthorityDistribution `json:"page_authority_distribution"`
	TopAnchorTexts              []AnchorShare         `json:"top_anchor_texts"`
	TopTargetURLs               []PageShare           `json:"top_target_urls"`
}

// ToxicBacklink is a flagged backlink with the reasons it was flagged.
type ToxicBacklink struct {
	Backlink Backlink `json:"backlink"`
	Reasons  struct {
		LowDomainAuthority bool `json:"low_domain_authority"`
		SpamDomain         bool `json:"spam_domain"`
		ToxicAnchorText    bool `json:"toxic_anchor_text"`
	} `json:"reasons"`
}

// ToxicReport is the toxic-backlink detection block.
type ToxicReport struct {
	TotalBacklinks      int             `json:"total_backlinks"`
	ToxicBacklinksCount int             `json:"toxic_backlinks_count"`
	ToxicRatio          float64         `json:"toxic_ratio"`
	ToxicBacklinks      []ToxicBacklink `json:"toxic_backlinks"`
}

// IntersectEntry is one competitor's link-gap result: referring domains
// the competitor has earned that the analyzed site has not.
type IntersectEntry struct {
	TotalUniqueDomains int        `json:"total_unique_domains"`
	Opportunities      []Backlink `json:"opportunities"`
}

// LinkIntersect is the competitor link-gap block.
type LinkIntersect struct {
	OwnBacklinkDomainsCount int                       `json:"own_backlink_domains_count"`
	CompetitorData          map[string]IntersectEntry `json:"competitor_data"`
}

// BacklinkReport is the full backlink result for a URL.
type BacklinkReport struct {
	URL              string          `json:"url"`
	Domain           string          `json:"domain"`
	Timestamp        string          `json:"timestamp"`
	AnalysisDuration float64         `json:"analysis_duration"`
	Profile          BacklinkProfile `json:"backlink_analysis"`
	Toxic            ToxicReport     `json:"toxic_backlinks"`
	LinkIntersect    *LinkIntersect  `json:"link_intersect,omitempty"`
	Backlinks        []Backlink      `json:"backlinks"`
}

// BacklinkService queries the inbound-link index. In mock mode the
// index is synthesized from a domain-seeded generator.
type BacklinkService struct {
	MockMode bool
	now      func() time.Time
}

// NewBacklinkService returns a mock-mode service.
func NewBacklinkService() *BacklinkService {
	return &BacklinkService{MockMode: true, now: time.Now}
}

const (
	backlinkLimit = 100
	// Domain-authority floor below which a link counts as toxic.
	toxicDAThreshold = 30
	intersectTopN    = 20
)

var backlinkSourcePatterns = []string{
	"blog-%d.example.net", "news-%d.example.org", "tech-%d.example.io",
	"review-%d.example.co", "forum-%d.example.com", "community-%d.example.net",
	"support-%d.example.org", "docs-%d.example.io", "help-%d.example.co",
}

var backlinkSourcePaths = []string{
	"/blog/post-1", "/news/article-2", "/review/product-3", "/forum/thread-4",
	"/community/topic-5", "/support/ticket-6", "/docs/guide-7", "/help/faq-8",
	"/about", "/contact", "/products", "/services", "/team", "/partners",
}

var backlinkTargetPaths = []string{
	"/", "/about", "/products", "/services", "/blog", "/contact",
	"/blog/post-1", "/products/item-2", "/services/service-3",
}

var toxicAnchorKeywords = []string{
	"casino", "gambling", "viagra", "cialis", "porn", "xxx", "adult",
}

// Analyze builds the backlink report for a URL. Competitor URLs, when
// given, add a link-intersect block. The context is unused in mock mode
// but kept for the collaborator contract.
func (s *BacklinkService) Analyze(ctx context.Context, pageURL string, competitorURLs ...string) (*BacklinkReport, error) {
	_ = ctx
	start := s.now()
	domain := urlutil.Domain(pageURL)
	rng := seo.DomainRand(domain)

	backlinks := s.mockBacklinks(rng, domain, backlinkLimit)

	report := &BacklinkReport{
		URL:       pageURL,
		Domain:    domain,
		Timestamp: s.now().Format("2006-01-02 15:04:05"),
		Profile:   profileBacklinks(backlinks),
		Toxic:     detectToxicBacklinks(rng, backlinks, toxicDAThreshold),
		Backlinks: backlinks,
	}
	if len(competitorURLs) > 0 {
		report.LinkIntersect = s.linkIntersect(rng, domain, backlinks, competitorURLs)
	}
	report.AnalysisDuration = round2(s.now().Sub(start).Seconds())
	return report, nil
}

func (s *BacklinkService) mockBacklinks(rng *rand.Rand, domain string, limit int) []Backlink {
	anchorTexts := []string{
		"website", "read more", "official site", "reference", "click here for details",
		domain, domain + " official site", "about " + domain,
		"seo tips", "marketing strategy", "content optimization", "web analytics",
		"digital marketing", "online business", "web development",
	}

	n := min(limit, 500)
	backlinks := make([]Backlink, 0, n)
	for i := 0; i < n; i++ {
		sourceDomain := fmt.Sprintf(backlinkSourcePatterns[rng.Intn(len(backlinkSourcePatterns))], 1+rng.Intn(60))
		firstSeenDays := 1 + rng.Intn(365)
		lastSeenDays := rng.Intn(min(firstSeenDays, 30) + 1)

		backlinks = append(backlinks, Backlink{
			SourceURL:       "https://" + sourceDomain + backlinkSourcePaths[rng.Intn(len(backlinkSourcePaths))],
			SourceDomain:    sourceDomain,
			TargetURL:       "https://" + domain + backlinkTargetPaths[rng.Intn(len(backlinkTargetPaths))],
			AnchorText:      anchorTexts[rng.Intn(len(anchorTexts))],
			DomainAuthority: 1 + rng.Intn(100),
			PageAuthority:   1 + rng.Intn(100),
			IsDofollow:      rng.Float64() > 0.2,
			FirstSeen:       s.now().AddDate(0, 0, -firstSeenDays).Format("2006-01-02"),
			LastSeen:        s.now().AddDate(0, 0, -lastSeenDays).Format("2006-01-02"),
		})
	}
	return backlinks
}

func profileBacklinks(backlinks []Backlink) BacklinkProfile {
	profile := BacklinkProfile{TotalBacklinks: len(backlinks)}
	if len(backlinks) == 0 {
		return profile
	}

	referring := map[string]struct{}{}
	anchors := map[string]int{}
	targets := map[string]int{}
	da := make([]int, 0, len(backlinks))
	pa := make([]int, 0, len(backlinks))

	for _, bl := range backlinks {
		referring[bl.SourceDomain] = struct{}{}
		anchors[bl.AnchorText]++
		targets[bl.TargetURL]++
		da = append(da, bl.DomainAuthority)
		pa = append(pa, bl.PageAuthority)
		if bl.IsDofollow {
			profile.DofollowLinks++
		}
	}

	profile.TotalReferringDomains = len(referring)
	profile.NofollowLinks = profile.TotalBacklinks - profile.DofollowLinks
	profile.DomainAuthorityDistribution = authorityDistribution(da)
	profile.PageAuthorityDistribution = authorityDistribution(pa)
	for _, e := range topAdEntries(anchors, 10) {
		profile.TopAnchorTexts = append(profile.TopAnchorTexts, AnchorShare{Text: e.Keyword, Count: e.Count})
	}
	profile.TopTargetURLs = pageShares(targets, 10)
	return profile
}

func authorityDistribution(values []int) AuthorityDistribution {
	sorted := make([]int, len(values))
	copy(sorted, values)
	sort.Ints(sorted)

	sum := 0
	for _, v := range sorted {
		sum += v
	}
	return AuthorityDistribution{
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Avg:    round1(float64(sum) / float64(len(sorted))),
		Median: sorted[len(sorted)/2],
	}
}

func detectToxicBacklinks(rng *rand.Rand, backlinks []Backlink, threshold int) ToxicReport {
	report := ToxicReport{TotalBacklinks: len(backlinks)}
	if len(backlinks) == 0 {
		return report
	}

	for _, bl := range backlinks {
		lowDA := bl.DomainAuthority < threshold
		spam := rng.Float64() < 0.1

		toxicAnchor := false
		anchor := strings.ToLower(bl.AnchorText)
		for _, kw := range toxicAnchorKeywords {
			if strings.Contains(anchor, kw) {
				toxicAnchor = true
				break
			}
		}

		if !lowDA && !spam && !toxicAnchor {
			continue
		}
		toxic := ToxicBacklink{Backlink: bl}
		toxic.Reasons.LowDomainAuthority = lowDA
		toxic.Reasons.SpamDomain = spam
		toxic.Reasons.ToxicAnchorText = toxicAnchor
		report.ToxicBacklinks = append(report.ToxicBacklinks, toxic)
	}

	report.ToxicBacklinksCount = len(report.ToxicBacklinks)
	report.ToxicRatio = round2(float64(report.ToxicBacklinksCount) / float64(len(backlinks)))
	return report
}

// linkIntersect finds referring domains competitors have earned that
// the analyzed site has not, keeping the highest-authority link per
// unique domain.
func (s *BacklinkService) linkIntersect(rng *rand.Rand, domain string, own []Backlink, competitorURLs []string) *LinkIntersect {
	ownDomains := map[string]struct{}{}
	ownDomainList := make([]string, 0, len(own))
	for _, bl := range own {
		if _, seen := ownDomains[bl.SourceDomain]; !seen {
			ownDomainList = append(ownDomainList, bl.SourceDomain)
		}
		ownDomains[bl.SourceDomain] = struct{}{}
	}

	intersect := &LinkIntersect{
		OwnBacklinkDomainsCount: len(ownDomains),
		CompetitorData:          map[string]IntersectEntry{},
	}

	for _, competitorURL := range competitorURLs {
		competitorDomain := urlutil.Domain(competitorURL)
		compBacklinks := s.mockBacklinks(rng, competitorDomain, backlinkLimit)

		// Overlap a share of the competitor's sources with our own so
		// the gap set is a strict subset.
		overlap := int(float64(len(compBacklinks)) * (0.1 + rng.Float64()*0.3))
		for i := 0; i < overlap && i < len(compBacklinks) && len(ownDomainList) > 0; i++ {
			compBacklinks[i].SourceDomain = ownDomainList[rng.Intn(len(ownDomainList))]
		}

		best := map[string]Backlink{}
		for _, bl := range compBacklinks {
			if _, ours := ownDomains[bl.SourceDomain]; ours {
				continue
			}
			if cur, ok := best[bl.SourceDomain]; !ok || bl.DomainAuthority > cur.DomainAuthority {
				best[bl.SourceDomain] = bl
			}
		}

		opportunities := make([]Backlink, 0, len(best))
		for _, bl := range best {
			opportunities = append(opportunities, bl)
		}
		sort.Slice(opportunities, func(i, j int) bool {
			if opportunities[i].DomainAuthority != opportunities[j].DomainAuthority {
				return opportunities[i].DomainAuthority > opportunities[j].DomainAuthority
			}
			return opportunities[i].SourceDomain < opportunities[j].SourceDomain
		})

		entry := IntersectEntry{TotalUniqueDomains: len(opportunities)}
		if len(opportunities) > intersectTopN {
			opportunities = opportunities[:intersectTopN]
		}
		entry.Opportunities = opportunities
		intersect.CompetitorData[competitorDomain] = entry
	}
	return intersect
}
