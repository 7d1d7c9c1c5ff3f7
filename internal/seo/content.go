package seo

import (
	"math"
	"strings"
)

// ContentQuality scores the page's editorial signals on a 0-100 scale.
type ContentQuality struct {
	TitleScore       int     `json:"title_score"`
	DescriptionScore int     `json:"description_score"`
	HeadingScore     int     `json:"heading_score"`
	ParagraphScore   int     `json:"paragraph_score"`
	OverallScore     float64 `json:"overall_score"`
}

// ContentAnalysis is the content portion of an SEO report.
type ContentAnalysis struct {
	Title           string         `json:"title"`
	MetaDescription string         `json:"meta_description"`
	WordCount       int            `json:"word_count"`
	ParagraphCount  int            `json:"paragraph_count"`
	ImageCount      int            `json:"image_count"`
	HeadingCount    int            `json:"heading_count"`
	Headings        []Heading      `json:"headings"`
	Images          []Image        `json:"images"`
	Paragraphs      []string       `json:"paragraphs"`
	ContentQuality  ContentQuality `json:"content_quality"`
}

// AnalyzeContent inspects titles, descriptions, heading structure,
// images, and paragraphs of a parsed page.
func AnalyzeContent(doc *Document) ContentAnalysis {
	return ContentAnalysis{
		Title:           doc.Title,
		MetaDescription: doc.MetaDescription(),
		WordCount:       len(strings.Fields(doc.Text)),
		ParagraphCount:  len(doc.Paragraphs),
		ImageCount:      len(doc.Images),
		HeadingCount:    len(doc.Headings),
		Headings:        doc.Headings,
		Images:          doc.Images,
		Paragraphs:      doc.Paragraphs,
		ContentQuality:  scoreContentQuality(doc),
	}
}

func scoreContentQuality(doc *Document) ContentQuality {
	q := ContentQuality{
		TitleScore:       scoreTitle(len(doc.Title)),
		DescriptionScore: scoreDescription(len(doc.MetaDescription())),
		HeadingScore:     scoreHeadings(doc.HeadingsByLevel()),
		ParagraphScore:   scoreParagraphs(len(doc.Paragraphs)),
	}
	overall := float64(q.TitleScore)*0.3 + float64(q.DescriptionScore)*0.2 +
		float64(q.HeadingScore)*0.3 + float64(q.ParagraphScore)*0.2
	q.OverallScore = math.Round(overall*10) / 10
	return q
}

func scoreTitle(n int) int {
	switch {
	case n >= 10 && n <= 60:
		return 100
	case n > 60 && n <= 70:
		return 80
	case n > 70:
		return 60
	case n >= 5:
		return 40
	default:
		return 20
	}
}

func scoreDescription(n int) int {
	switch {
	case n >= 120 && n <= 155:
		return 100
	case (n >= 100 && n < 120) || (n > 155 && n <= 170):
		return 80
	case (n >= 80 && n < 100) || (n > 170 && n <= 200):
		return 60
	case n >= 50 && n < 80:
		return 40
	default:
		return 20
	}
}

func scoreHeadings(byLevel map[int][]string) int {
	score := 0
	if len(byLevel[1]) == 1 {
		score += 50
	}
	if len(byLevel[2]) > 0 {
		score += 30
	}
	if len(byLevel[3]) > 0 {
		score += 20
	}
	return score
}

func scoreParagraphs(n int) int {
	switch {
	case n >= 5:
		return 100
	case n >= 3:
		return 80
	case n == 2:
		return 60
	case n == 1:
		return 40
	default:
		return 0
	}
}
