package seo_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahul4469/seo-master/internal/seo"
)

func TestLinkAnalyzerClassification(t *testing.T) {
	t.Parallel()

	doc, err := seo.ParseDocument("https://example.com/", `<html><body>
		<a href="/about">About</a>
		<a href="https://blog.example.com/post">Blog</a>
		<a href="https://other.org/x" rel="nofollow">Other</a>
	</body></html>`)
	require.NoError(t, err)

	analysis := seo.NewLinkAnalyzer(nil).Analyze(context.Background(), doc)

	assert.Len(t, analysis.Internal, 2, "subdomains count as internal")
	assert.Len(t, analysis.External, 1)
	assert.Empty(t, analysis.Broken, "probe disabled by default")
	assert.Equal(t, seo.LinkStats{
		TotalLinks:         3,
		InternalLinksCount: 2,
		ExternalLinksCount: 1,
	}, analysis.Stats)
}

func TestLinkAnalyzerProbeBroken(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	page := fmt.Sprintf(`<html><body>
		<a href="%s/ok">fine</a>
		<a href="%s/missing">dead</a>
		<a href="%s/missing">dead again</a>
	</body></html>`, srv.URL, srv.URL, srv.URL)

	doc, err := seo.ParseDocument(srv.URL+"/", page)
	require.NoError(t, err)

	la := seo.NewLinkAnalyzer(seo.NewFetcher())
	la.ProbeBroken = true
	analysis := la.Analyze(context.Background(), doc)

	require.Len(t, analysis.Broken, 1, "duplicate links probed once")
	assert.Equal(t, srv.URL+"/missing", analysis.Broken[0].URL)
	assert.Equal(t, http.StatusNotFound, analysis.Broken[0].StatusCode)
	assert.Equal(t, 1, analysis.Stats.BrokenLinksCount)
}

func TestLinkAnalyzerProbeConnectionError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections from now on

	doc, err := seo.ParseDocument("https://example.com/",
		fmt.Sprintf(`<html><body><a href="%s/x">gone</a></body></html>`, srv.URL))
	require.NoError(t, err)

	la := seo.NewLinkAnalyzer(seo.NewFetcher())
	la.ProbeBroken = true
	analysis := la.Analyze(context.Background(), doc)

	require.Len(t, analysis.Broken, 1)
	assert.Equal(t, "Connection Error", analysis.Broken[0].StatusCode)
}

func TestLinkDistribution(t *testing.T) {
	t.Parallel()

	analysis := seo.LinkAnalysis{
		Internal: []seo.Anchor{
			{Href: "https://example.com/a", Text: "home"},
			{Href: "https://example.com/b", Text: "docs", Nofollow: true},
			{Href: "https://example.com/c", Text: ""},
		},
		External: []seo.Anchor{{Href: "https://other.org", Text: "ref"}},
		Broken:   []seo.BrokenLink{{URL: "https://example.com/c", StatusCode: 404}},
	}
	analysis.Stats = seo.LinkStats{
		TotalLinks:         4,
		InternalLinksCount: 3,
		ExternalLinksCount: 1,
		BrokenLinksCount:   1,
	}

	dist := analysis.Distribution()

	assert.Equal(t, 75.0, dist.InternalRatio)
	assert.Equal(t, 25.0, dist.ExternalRatio)
	assert.Equal(t, 25.0, dist.NofollowRatio)
	assert.Equal(t, 25.0, dist.BrokenRatio)
	// "home", "docs", "ref" average 11/3
	assert.Equal(t, 3.7, dist.AvgTextLength)
}

func TestLinkDistributionEmpty(t *testing.T) {
	t.Parallel()

	assert.Equal(t, seo.LinkDistribution{}, seo.LinkAnalysis{}.Distribution())
}
