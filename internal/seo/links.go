package seo

import (
	"context"
	"errors"
	"math"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/rahul4469/seo-master/internal/urlutil"
)

// brokenLinkWorkers bounds the concurrency of the HEAD probe.
const brokenLinkWorkers = 8

// maxProbedLinks caps how many links the broken-link check touches per
// page. Probing everything would dominate analysis time on link-heavy
// pages.
const maxProbedLinks = 50

// BrokenLink is a link whose target answered with an error status or
// did not answer at all.
type BrokenLink struct {
	URL        string `json:"url"`
	Text       string `json:"text"`
	StatusCode any    `json:"status_code"` // int, or "Connection Error"
}

// LinkStats summarizes the link population of a page.
type LinkStats struct {
	TotalLinks         int `json:"total_links"`
	InternalLinksCount int `json:"internal_links_count"`
	ExternalLinksCount int `json:"external_links_count"`
	BrokenLinksCount   int `json:"broken_links_count"`
}

// LinkAnalysis is the link portion of an SEO report.
type LinkAnalysis struct {
	Internal []Anchor     `json:"internal"`
	External []Anchor     `json:"external"`
	Broken   []BrokenLink `json:"broken"`
	Stats    LinkStats    `json:"stats"`
}

// LinkAnalyzer classifies a page's links and optionally probes them
// for broken targets.
type LinkAnalyzer struct {
	fetcher *Fetcher

	// ProbeBroken enables the HEAD check. Off by default since it
	// issues a request per link.
	ProbeBroken bool
}

// NewLinkAnalyzer returns a LinkAnalyzer using fetcher for probes.
func NewLinkAnalyzer(fetcher *Fetcher) *LinkAnalyzer {
	return &LinkAnalyzer{fetcher: fetcher}
}

// Analyze splits the document's anchors into internal and external by
// registrable domain and, when enabled, probes them for dead targets.
func (la *LinkAnalyzer) Analyze(ctx context.Context, doc *Document) LinkAnalysis {
	var analysis LinkAnalysis
	for _, a := range doc.Anchors {
		if urlutil.IsInternal(a.Href, doc.Domain) {
			analysis.Internal = append(analysis.Internal, a)
		} else {
			analysis.External = append(analysis.External, a)
		}
	}

	if la.ProbeBroken && la.fetcher != nil {
		analysis.Broken = la.probeBroken(ctx, append(analysis.Internal[:len(analysis.Internal):len(analysis.Internal)], analysis.External...))
	}

	analysis.Stats = LinkStats{
		TotalLinks:         len(analysis.Internal) + len(analysis.External),
		InternalLinksCount: len(analysis.Internal),
		ExternalLinksCount: len(analysis.External),
		BrokenLinksCount:   len(analysis.Broken),
	}
	return analysis
}

func (la *LinkAnalyzer) probeBroken(ctx context.Context, links []Anchor) []BrokenLink {
	if len(links) > maxProbedLinks {
		links = links[:maxProbedLinks]
	}

	seen := make(map[string]bool, len(links))
	var mu sync.Mutex
	var broken []BrokenLink

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(brokenLinkWorkers)

	for _, link := range links {
		if seen[link.Href] {
			continue
		}
		seen[link.Href] = true

		g.Go(func() error {
			status, err := la.fetcher.Head(ctx, link.Href)
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				broken = append(broken, BrokenLink{URL: link.Href, Text: link.Text, StatusCode: "Connection Error"})
			case status >= 400:
				broken = append(broken, BrokenLink{URL: link.Href, Text: link.Text, StatusCode: status})
			}
			return nil
		})
	}
	// errors other than cancellation are folded into the broken list
	_ = g.Wait()
	return broken
}

// LinkDistribution reports the ratio breakdown of a link analysis.
type LinkDistribution struct {
	InternalRatio float64 `json:"internal_ratio"`
	ExternalRatio float64 `json:"external_ratio"`
	AvgTextLength float64 `json:"avg_text_length"`
	NofollowRatio float64 `json:"nofollow_ratio"`
	BrokenRatio   float64 `json:"broken_ratio"`
}

// Distribution computes internal/external/nofollow/broken ratios as
// percentages rounded to one decimal.
func (a LinkAnalysis) Distribution() LinkDistribution {
	total := a.Stats.TotalLinks
	if total == 0 {
		return LinkDistribution{}
	}

	var textLen, textCount, nofollow int
	for _, l := range append(append([]Anchor{}, a.Internal...), a.External...) {
		if l.Text != "" {
			textLen += len(l.Text)
			textCount++
		}
		if l.Nofollow {
			nofollow++
		}
	}

	var avgText float64
	if textCount > 0 {
		avgText = float64(textLen) / float64(textCount)
	}

	return LinkDistribution{
		InternalRatio: pct(len(a.Internal), total),
		ExternalRatio: pct(len(a.External), total),
		AvgTextLength: round1(avgText),
		NofollowRatio: pct(nofollow, total),
		BrokenRatio:   pct(len(a.Broken), total),
	}
}

func pct(n, total int) float64 {
	return round1(float64(n) / float64(total) * 100)
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
