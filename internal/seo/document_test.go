package seo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahul4469/seo-master/internal/seo"
)

const fixturePage = `<!DOCTYPE html>
<html lang="en">
<head>
<title>Example Store - Quality Goods Online</title>
<meta name="description" content="Shop quality goods at Example Store.">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<meta property="og:title" content="Example Store">
<link rel="canonical" href="https://example.com/">
<link rel="stylesheet" href="/css/site.css">
<style>@media (max-width: 600px) { .grid { display: flex; } }</style>
<script src="/js/app.js" defer></script>
<script type="application/ld+json">{"@type": "Organization"}</script>
</head>
<body>
<h1>Welcome to Example Store</h1>
<h2>Featured products</h2>
<p>First paragraph of body copy.</p>
<p>Second paragraph of body copy.</p>
<img src="/img/hero.jpg" alt="Storefront" width="800" height="400" loading="lazy">
<img src="/img/untagged.jpg">
<a href="/about">About us</a>
<a href="https://partner.example.org/deal" rel="nofollow">Partner</a>
<a href="mailto:hi@example.com">Mail</a>
<a href="#top">Top</a>
<label for="q">Search</label>
<input id="q" type="text" aria-label="search">
<button>Go</button>
<table id="prices"><tr><td>1</td></tr></table>
</body>
</html>`

func parseFixture(t *testing.T) *seo.Document {
	t.Helper()
	doc, err := seo.ParseDocument("https://example.com/", fixturePage)
	require.NoError(t, err)
	return doc
}

func TestParseDocument(t *testing.T) {
	t.Parallel()

	doc := parseFixture(t)

	assert.Equal(t, "Example Store - Quality Goods Online", doc.Title)
	assert.Equal(t, "en", doc.Lang)
	assert.Equal(t, "example.com", doc.Domain)
	assert.Equal(t, "Shop quality goods at Example Store.", doc.MetaDescription())
	assert.Equal(t, "width=device-width, initial-scale=1.0", doc.Meta["viewport"])
	assert.Equal(t, "Example Store", doc.MetaProps["og:title"])
	assert.Equal(t, "https://example.com/", doc.Canonical)

	require.Len(t, doc.Headings, 2)
	assert.Equal(t, seo.Heading{Level: 1, Text: "Welcome to Example Store"}, doc.Headings[0])
	assert.Equal(t, 2, doc.Headings[1].Level)

	assert.Len(t, doc.Paragraphs, 2)

	require.Len(t, doc.Images, 2)
	hero := doc.Images[0]
	assert.Equal(t, "https://example.com/img/hero.jpg", hero.Src)
	assert.True(t, hero.HasAlt)
	assert.True(t, hero.HasDimensions)
	assert.True(t, hero.LazyLoading)
	assert.False(t, doc.Images[1].HasAlt)
}

func TestParseDocumentAnchors(t *testing.T) {
	t.Parallel()

	doc := parseFixture(t)

	// mailto: and fragment-only links are dropped
	require.Len(t, doc.Anchors, 2)
	assert.Equal(t, "https://example.com/about", doc.Anchors[0].Href)
	assert.Equal(t, "About us", doc.Anchors[0].Text)
	assert.False(t, doc.Anchors[0].Nofollow)
	assert.Equal(t, "https://partner.example.org/deal", doc.Anchors[1].Href)
	assert.True(t, doc.Anchors[1].Nofollow)
}

func TestParseDocumentAssets(t *testing.T) {
	t.Parallel()

	doc := parseFixture(t)

	require.Len(t, doc.Scripts, 1)
	assert.Equal(t, "https://example.com/js/app.js", doc.Scripts[0].Src)
	assert.True(t, doc.Scripts[0].Defer)

	require.Len(t, doc.JSONLDBlocks, 1)
	assert.Contains(t, doc.JSONLDBlocks[0], "Organization")

	require.Len(t, doc.Styles, 2)
	assert.Equal(t, "https://example.com/css/site.css", doc.Styles[0].Href)
	assert.Contains(t, doc.Styles[1].Inline, "@media")
}

func TestParseDocumentAccessibility(t *testing.T) {
	t.Parallel()

	doc := parseFixture(t)

	assert.Equal(t, 1, doc.AriaCount)
	assert.Equal(t, 1, doc.FormControls)
	assert.Equal(t, 1, doc.LabeledControls, "label for= should credit the input")
	// a x2 (mailto and fragment anchors still render as elements) + input + button
	assert.GreaterOrEqual(t, doc.ClickableCount, 4)

	require.Len(t, doc.Tables, 1)
	assert.Equal(t, "prices", doc.Tables[0].ID)
}

func TestParseDocumentTextExcludesScripts(t *testing.T) {
	t.Parallel()

	doc, err := seo.ParseDocument("https://example.com",
		`<html><body><p>visible words</p><script>var hidden = 1;</script><style>.x{}</style></body></html>`)
	require.NoError(t, err)

	assert.Contains(t, doc.Text, "visible words")
	assert.NotContains(t, doc.Text, "hidden")
	assert.NotContains(t, doc.Text, ".x{}")
}
