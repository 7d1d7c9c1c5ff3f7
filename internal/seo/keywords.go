package seo

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"regexp"
	"sort"
	"strings"
	"time"
)

// KeywordCount is a keyword with its occurrence count.
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// KeyphraseCount is an n-gram phrase with its occurrence count.
type KeyphraseCount struct {
	Keyphrase string `json:"keyphrase"`
	Count     int    `json:"count"`
}

// KeywordPlacement records where on the page a keyword appears.
type KeywordPlacement struct {
	InTitle           bool     `json:"in_title"`
	InMetaDescription bool     `json:"in_meta_description"`
	InHeadings        []string `json:"in_headings"`
	InURL             bool     `json:"in_url"`
	InFirstParagraph  bool     `json:"in_first_paragraph"`
	InLastParagraph   bool     `json:"in_last_paragraph"`
	InImageAlt        bool     `json:"in_image_alt"`
	InLinkText        bool     `json:"in_link_text"`
}

// SearchVolume is the (mock) monthly search volume for a keyword.
type SearchVolume struct {
	Volume      int     `json:"volume"`
	Trend       string  `json:"trend"`
	Competition float64 `json:"competition"`
}

// KeywordDifficulty is the (mock) ranking difficulty for a keyword.
type KeywordDifficulty struct {
	Score        int      `json:"score"`
	Level        string   `json:"level"`
	Competition  float64  `json:"competition"`
	SERPFeatures []string `json:"serp_features"`
}

// KeywordRanking is the (mock) current SERP position for a keyword.
type KeywordRanking struct {
	CurrentRank  int    `json:"current_rank"`
	PreviousRank int    `json:"previous_rank"`
	RankChange   int    `json:"rank_change"`
	URL          string `json:"url"`
	LastUpdated  string `json:"last_updated"`
}

// RelatedKeyword is a (mock) related keyword suggestion.
type RelatedKeyword struct {
	Keyword      string `json:"keyword"`
	SearchVolume int    `json:"search_volume"`
	Difficulty   int    `json:"difficulty"`
}

// KeywordBasicInfo identifies the analyzed page.
type KeywordBasicInfo struct {
	URL      string `json:"url"`
	Domain   string `json:"domain"`
	Language string `json:"language"`
}

// KeywordAnalysis is the keyword portion of an SEO report. The
// advanced fields (volumes, difficulty, rankings, related) come from
// mock-mode collaborators seeded by domain, so repeated runs against
// the same site agree.
type KeywordAnalysis struct {
	BasicInfo        KeywordBasicInfo             `json:"basic_info"`
	Keywords         []KeywordCount               `json:"keywords"`
	Keyphrases       []KeyphraseCount             `json:"keyphrases"`
	KeywordPlacement map[string]KeywordPlacement  `json:"keyword_placement"`
	SearchVolumes    map[string]SearchVolume      `json:"search_volumes,omitempty"`
	Difficulty       map[string]KeywordDifficulty `json:"keyword_difficulty,omitempty"`
	Rankings         map[string]KeywordRanking    `json:"keyword_rankings,omitempty"`
	Related          map[string][]RelatedKeyword  `json:"related_keywords,omitempty"`
}

// english stopwords; the analyzer targets English-language pages.
var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "any": true, "can": true,
	"had": true, "her": true, "was": true, "one": true, "our": true,
	"out": true, "has": true, "have": true, "him": true, "his": true,
	"how": true, "its": true, "may": true, "new": true, "now": true,
	"old": true, "see": true, "two": true, "way": true, "who": true,
	"did": true, "get": true, "this": true, "that": true, "with": true,
	"from": true, "they": true, "will": true, "your": true, "what": true,
	"when": true, "which": true, "their": true, "there": true, "were": true,
	"been": true, "more": true, "other": true, "about": true, "into": true,
	"than": true, "them": true, "then": true, "these": true, "some": true,
	"such": true, "only": true, "over": true, "also": true, "most": true,
	"just": true, "should": true, "would": true, "could": true, "where": true,
}

var wordPattern = regexp.MustCompile(`[a-z0-9]+`)

// KeywordAnalyzer extracts keywords and keyphrases from page text and
// attaches deterministic mock market data.
type KeywordAnalyzer struct {
	rng *rand.Rand
	now func() time.Time
}

// NewKeywordAnalyzer seeds the analyzer's mock generators from the
// domain so results are stable per site.
func NewKeywordAnalyzer(domain string) *KeywordAnalyzer {
	return &KeywordAnalyzer{rng: DomainRand(domain), now: time.Now}
}

// DomainRand returns a rand.Rand seeded by the FNV hash of domain.
// Mock collaborators derive all synthetic data from it.
func DomainRand(domain string) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(domain))
	return rand.New(rand.NewSource(int64(h.Sum64())))
}

// AnalyzeBasic extracts keywords, keyphrases, and placements.
func (ka *KeywordAnalyzer) AnalyzeBasic(doc *Document) KeywordAnalysis {
	keywords := extractKeywords(doc.Text, 20)
	placed := keywords
	if len(placed) > 10 {
		placed = placed[:10]
	}
	return KeywordAnalysis{
		BasicInfo: KeywordBasicInfo{
			URL:      doc.URL.String(),
			Domain:   doc.Domain,
			Language: "english",
		},
		Keywords:         keywords,
		Keyphrases:       extractKeyphrases(doc.Text, 10, 4),
		KeywordPlacement: analyzePlacement(doc, placed),
	}
}

// AnalyzeAdvanced runs the basic analysis and adds mock search volume,
// difficulty, rankings, and related suggestions for the top keywords.
func (ka *KeywordAnalyzer) AnalyzeAdvanced(doc *Document) KeywordAnalysis {
	analysis := ka.AnalyzeBasic(doc)

	top := analysis.Keywords
	if len(top) > 10 {
		top = top[:10]
	}
	analysis.SearchVolumes = ka.searchVolumes(top)
	analysis.Difficulty = ka.difficulty(top)
	analysis.Rankings = ka.rankings(doc.Domain, top)

	related := top
	if len(related) > 5 {
		related = related[:5]
	}
	analysis.Related = ka.relatedKeywords(related)
	return analysis
}

func extractKeywords(text string, topN int) []KeywordCount {
	counts := countWords(text)
	return topCounts(counts, topN, func(k string, c int) KeywordCount {
		return KeywordCount{Keyword: k, Count: c}
	})
}

func extractKeyphrases(text string, topN, maxLen int) []KeyphraseCount {
	words := filteredWords(text)
	counts := make(map[string]int)
	for n := 2; n <= maxLen; n++ {
		for i := 0; i+n <= len(words); i++ {
			counts[strings.Join(words[i:i+n], " ")]++
		}
	}
	return topCounts(counts, topN, func(k string, c int) KeyphraseCount {
		return KeyphraseCount{Keyphrase: k, Count: c}
	})
}

func filteredWords(text string) []string {
	var words []string
	for _, w := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		if len(w) > 2 && !stopwords[w] {
			words = append(words, w)
		}
	}
	return words
}

func countWords(text string) map[string]int {
	counts := make(map[string]int)
	for _, w := range filteredWords(text) {
		counts[w]++
	}
	return counts
}

// topCounts orders by count desc then key asc for a stable result.
func topCounts[T any](counts map[string]int, topN int, mk func(string, int) T) []T {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > topN {
		keys = keys[:topN]
	}
	out := make([]T, len(keys))
	for i, k := range keys {
		out[i] = mk(k, counts[k])
	}
	return out
}

func analyzePlacement(doc *Document, keywords []KeywordCount) map[string]KeywordPlacement {
	placements := make(map[string]KeywordPlacement, len(keywords))
	title := strings.ToLower(doc.Title)
	desc := strings.ToLower(doc.MetaDescription())
	pageURL := strings.ToLower(doc.URL.String())

	for _, kw := range keywords {
		k := kw.Keyword
		p := KeywordPlacement{
			InTitle:           strings.Contains(title, k),
			InMetaDescription: strings.Contains(desc, k),
			InURL:             strings.Contains(pageURL, k),
		}
		for _, h := range doc.Headings {
			if strings.Contains(strings.ToLower(h.Text), k) {
				p.InHeadings = append(p.InHeadings, fmt.Sprintf("h%d", h.Level))
			}
		}
		if len(doc.Paragraphs) > 0 {
			p.InFirstParagraph = strings.Contains(strings.ToLower(doc.Paragraphs[0]), k)
			p.InLastParagraph = strings.Contains(strings.ToLower(doc.Paragraphs[len(doc.Paragraphs)-1]), k)
		}
		for _, img := range doc.Images {
			if img.Alt != "" && strings.Contains(strings.ToLower(img.Alt), k) {
				p.InImageAlt = true
				break
			}
		}
		for _, a := range doc.Anchors {
			if a.Text != "" && strings.Contains(strings.ToLower(a.Text), k) {
				p.InLinkText = true
				break
			}
		}
		placements[k] = p
	}
	return placements
}

var volumeTrends = []string{"rising", "stable", "declining"}

func (ka *KeywordAnalyzer) searchVolumes(keywords []KeywordCount) map[string]SearchVolume {
	volumes := make(map[string]SearchVolume, len(keywords))
	for _, kw := range keywords {
		volumes[kw.Keyword] = SearchVolume{
			Volume:      10 + ka.rng.Intn(9990),
			Trend:       volumeTrends[ka.rng.Intn(len(volumeTrends))],
			Competition: round2(ka.rng.Float64()),
		}
	}
	return volumes
}

var serpFeatures = []string{"featured snippet", "local pack", "shopping ads"}

func (ka *KeywordAnalyzer) difficulty(keywords []KeywordCount) map[string]KeywordDifficulty {
	scores := make(map[string]KeywordDifficulty, len(keywords))
	for _, kw := range keywords {
		score := 1 + ka.rng.Intn(99)
		level := "hard"
		switch {
		case score < 30:
			level = "easy"
		case score < 60:
			level = "medium"
		}
		features := make([]string, 0, 2)
		for _, f := range serpFeatures {
			if ka.rng.Intn(3) == 0 {
				features = append(features, f)
			}
		}
		scores[kw.Keyword] = KeywordDifficulty{
			Score:        score,
			Level:        level,
			Competition:  round2(ka.rng.Float64()),
			SERPFeatures: features,
		}
	}
	return scores
}

func (ka *KeywordAnalyzer) rankings(domain string, keywords []KeywordCount) map[string]KeywordRanking {
	rankings := make(map[string]KeywordRanking, len(keywords))
	for _, kw := range keywords {
		current := 1 + ka.rng.Intn(99)
		previous := current + ka.rng.Intn(20) - 10
		if previous <= 0 {
			previous = current + 1 + ka.rng.Intn(9)
		}
		rankings[kw.Keyword] = KeywordRanking{
			CurrentRank:  current,
			PreviousRank: previous,
			RankChange:   previous - current,
			URL:          fmt.Sprintf("https://%s/page-%d", domain, 1+ka.rng.Intn(9)),
			LastUpdated:  ka.now().Format("2006-01-02"),
		}
	}
	return rankings
}

var relatedPool = []string{
	"marketing", "strategy", "startup", "investment",
	"python", "javascript", "framework", "frontend",
	"search engine", "backlinks", "content", "ranking", "meta tags",
	"fitness", "nutrition", "wellness",
	"hotels", "tours", "flights", "resorts",
}

func (ka *KeywordAnalyzer) relatedKeywords(keywords []KeywordCount) map[string][]RelatedKeyword {
	related := make(map[string][]RelatedKeyword, len(keywords))
	for _, kw := range keywords {
		n := 3 + ka.rng.Intn(5)
		picks := ka.rng.Perm(len(relatedPool))[:n]
		suggestions := make([]RelatedKeyword, 0, n)
		for _, idx := range picks {
			suggestions = append(suggestions, RelatedKeyword{
				Keyword:      relatedPool[idx],
				SearchVolume: 10 + ka.rng.Intn(4990),
				Difficulty:   1 + ka.rng.Intn(99),
			})
		}
		related[kw.Keyword] = suggestions
	}
	return related
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
