package seo_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rahul4469/seo-master/internal/seo"
)

func docWith(title string, descLen int, headings []seo.Heading, paragraphs int) *seo.Document {
	d := &seo.Document{
		Title:    title,
		Meta:     map[string]string{"description": strings.Repeat("d", descLen)},
		Headings: headings,
	}
	for i := 0; i < paragraphs; i++ {
		d.Paragraphs = append(d.Paragraphs, "a paragraph of body copy")
	}
	return d
}

func TestAnalyzeContentPerfectPage(t *testing.T) {
	t.Parallel()

	doc := docWith(
		strings.Repeat("t", 40),
		130,
		[]seo.Heading{{Level: 1, Text: "main"}, {Level: 2, Text: "sub"}, {Level: 3, Text: "detail"}},
		6,
	)
	got := AnalyzeQuality(t, doc)

	assert.Equal(t, 100, got.TitleScore)
	assert.Equal(t, 100, got.DescriptionScore)
	assert.Equal(t, 100, got.HeadingScore)
	assert.Equal(t, 100, got.ParagraphScore)
	assert.Equal(t, 100.0, got.OverallScore)
}

func AnalyzeQuality(t *testing.T, doc *seo.Document) seo.ContentQuality {
	t.Helper()
	return seo.AnalyzeContent(doc).ContentQuality
}

func TestTitleScoreBands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		title string
		want  int
	}{
		{"ideal length", strings.Repeat("t", 30), 100},
		{"slightly long", strings.Repeat("t", 65), 80},
		{"too long", strings.Repeat("t", 90), 60},
		{"too short", strings.Repeat("t", 7), 40},
		{"missing", "", 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := AnalyzeQuality(t, docWith(tt.title, 130, nil, 0))
			assert.Equal(t, tt.want, got.TitleScore)
		})
	}
}

func TestDescriptionScoreBands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		n    int
		want int
	}{
		{"ideal", 140, 100},
		{"a bit short", 110, 80},
		{"a bit long", 160, 80},
		{"short", 90, 60},
		{"long", 190, 60},
		{"very short", 60, 40},
		{"missing", 0, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := AnalyzeQuality(t, docWith("a good enough title", tt.n, nil, 0))
			assert.Equal(t, tt.want, got.DescriptionScore)
		})
	}
}

func TestHeadingScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		headings []seo.Heading
		want     int
	}{
		{"single h1 with h2 and h3", []seo.Heading{{Level: 1}, {Level: 2}, {Level: 3}}, 100},
		{"single h1 only", []seo.Heading{{Level: 1}}, 50},
		{"h1 and h2", []seo.Heading{{Level: 1}, {Level: 2}}, 80},
		{"duplicate h1", []seo.Heading{{Level: 1}, {Level: 1}, {Level: 2}}, 30},
		{"no headings", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := AnalyzeQuality(t, docWith("a good enough title", 130, tt.headings, 0))
			assert.Equal(t, tt.want, got.HeadingScore)
		})
	}
}

func TestParagraphScoreBands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n    int
		want int
	}{
		{7, 100}, {5, 100}, {3, 80}, {2, 60}, {1, 40}, {0, 0},
	}

	for _, tt := range tests {
		got := AnalyzeQuality(t, docWith("a good enough title", 130, nil, tt.n))
		assert.Equalf(t, tt.want, got.ParagraphScore, "%d paragraphs", tt.n)
	}
}

func TestAnalyzeContentCounts(t *testing.T) {
	t.Parallel()

	doc := parseFixture(t)
	got := seo.AnalyzeContent(doc)

	assert.Equal(t, doc.Title, got.Title)
	assert.Equal(t, 2, got.ParagraphCount)
	assert.Equal(t, 2, got.ImageCount)
	assert.Equal(t, 2, got.HeadingCount)
	assert.Greater(t, got.WordCount, 0)
}
