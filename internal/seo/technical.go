package seo

import (
	"encoding/json"
	"regexp"
	"strings"
)

// MetaTags is the tag inventory of a page head.
type MetaTags struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Keywords    string            `json:"keywords"`
	Robots      string            `json:"robots"`
	Viewport    string            `json:"viewport"`
	Canonical   string            `json:"canonical"`
	OG          map[string]string `json:"og"`
	Twitter     map[string]string `json:"twitter"`
}

// MobileFriendlyFlags are the coarse mobile heuristics used inside the
// technical report. The dedicated mobile analysis goes much deeper.
type MobileFriendlyFlags struct {
	ViewportPresent   bool `json:"viewport_present"`
	ResponsiveDesign  bool `json:"responsive_design"`
	TouchElementsSize bool `json:"touch_elements_size"`
	FontSize          bool `json:"font_size"`
	ContentWidth      bool `json:"content_width"`
}

// PageSpeedFactors are request-count estimates derived from the markup.
type PageSpeedFactors struct {
	HTMLSize      int `json:"html_size"`
	ImageCount    int `json:"image_count"`
	ScriptCount   int `json:"script_count"`
	CSSCount      int `json:"css_count"`
	TotalRequests int `json:"total_requests"`
}

// StructuredData reports which structured-data formats the page embeds.
type StructuredData struct {
	JSONLD    bool     `json:"json_ld"`
	Microdata bool     `json:"microdata"`
	RDFa      bool     `json:"rdfa"`
	Types     []string `json:"types"`
}

// SecurityChecks covers transport security and response headers.
type SecurityChecks struct {
	HTTPS                 bool `json:"https"`
	HSTS                  bool `json:"hsts"`
	ContentSecurityPolicy bool `json:"content_security_policy"`
	XContentTypeOptions   bool `json:"x_content_type_options"`
	XFrameOptions         bool `json:"x_frame_options"`
	XXSSProtection        bool `json:"x_xss_protection"`
}

// AccessibilityChecks covers alt text, ARIA usage, lang, and labels.
type AccessibilityChecks struct {
	AltAttributes  float64 `json:"alt_attributes"` // ratio of images with alt
	AriaAttributes int     `json:"aria_attributes"`
	LangAttribute  bool    `json:"lang_attribute"`
	FormLabels     float64 `json:"form_labels"` // ratio of labeled controls
}

// TechnicalAnalysis is the technical portion of an SEO report.
type TechnicalAnalysis struct {
	StatusCode       int                 `json:"status_code"`
	ResponseTimeMs   int                 `json:"response_time"`
	PageSize         int                 `json:"page_size"`
	MetaTags         MetaTags            `json:"meta_tags"`
	MobileFriendly   MobileFriendlyFlags `json:"mobile_friendly"`
	PageSpeedFactors PageSpeedFactors    `json:"page_speed_factors"`
	StructuredData   StructuredData      `json:"structured_data"`
	Security         SecurityChecks      `json:"security"`
	Accessibility    AccessibilityChecks `json:"accessibility"`
}

var smallDimension = regexp.MustCompile(`width:\s*([1-3]?\d)px`)
var smallFont = regexp.MustCompile(`font-size:\s*(\d|1[01])px`)

// AnalyzeTechnical inspects the transfer metadata and markup-level
// technical signals of a fetched page.
func AnalyzeTechnical(doc *Document, page *Page) TechnicalAnalysis {
	return TechnicalAnalysis{
		StatusCode:       page.StatusCode,
		ResponseTimeMs:   int(page.Elapsed.Milliseconds()),
		PageSize:         page.Size,
		MetaTags:         extractMetaTags(doc),
		MobileFriendly:   checkMobileFlags(doc),
		PageSpeedFactors: countSpeedFactors(doc),
		StructuredData:   detectStructuredData(doc),
		Security:         checkSecurity(doc, page),
		Accessibility:    checkAccessibility(doc),
	}
}

func extractMetaTags(doc *Document) MetaTags {
	tags := MetaTags{
		Title:       doc.Title,
		Description: doc.Meta["description"],
		Keywords:    doc.Meta["keywords"],
		Robots:      doc.Meta["robots"],
		Viewport:    doc.Meta["viewport"],
		Canonical:   doc.Canonical,
		OG:          make(map[string]string),
		Twitter:     make(map[string]string),
	}
	for prop, content := range doc.MetaProps {
		if name, ok := strings.CutPrefix(prop, "og:"); ok && name != "" {
			tags.OG[name] = content
		}
	}
	for name, content := range doc.Meta {
		if card, ok := strings.CutPrefix(name, "twitter:"); ok && card != "" {
			tags.Twitter[card] = content
		}
	}
	return tags
}

func checkMobileFlags(doc *Document) MobileFriendlyFlags {
	var flags MobileFriendlyFlags

	viewport := strings.ToLower(doc.Viewport())
	if _, ok := doc.Meta["viewport"]; ok {
		flags.ViewportPresent = true
		flags.ResponsiveDesign = strings.Contains(viewport, "width=device-width") &&
			strings.Contains(viewport, "initial-scale=1")
	}

	smallTouch, smallFonts, fixedWidths := 0, 0, 0
	for _, el := range doc.StyledElems {
		switch el.Tag {
		case "a":
			if strings.Contains(el.Style, "width") && smallDimension.MatchString(el.Style) {
				smallTouch++
			}
		case "font", "span", "p":
			if smallFont.MatchString(el.Style) {
				smallFonts++
			}
		case "div":
			if smallFont.MatchString(el.Style) {
				smallFonts++
			}
			if strings.Contains(el.Style, "width") && strings.Contains(el.Style, "px") &&
				!strings.Contains(el.Style, "%") {
				fixedWidths++
			}
		}
	}
	flags.TouchElementsSize = smallTouch == 0
	flags.FontSize = smallFonts == 0
	flags.ContentWidth = fixedWidths == 0
	return flags
}

func countSpeedFactors(doc *Document) PageSpeedFactors {
	f := PageSpeedFactors{
		HTMLSize:    len(doc.Raw),
		ImageCount:  len(doc.Images),
		ScriptCount: len(doc.Scripts),
	}
	for _, s := range doc.Styles {
		if s.Href != "" {
			f.CSSCount++
		}
	}
	f.TotalRequests = 1 + f.ImageCount + f.ScriptCount + f.CSSCount
	return f
}

func detectStructuredData(doc *Document) StructuredData {
	sd := StructuredData{
		JSONLD:    len(doc.JSONLDBlocks) > 0,
		Microdata: len(doc.MicrodataTypes) > 0,
		RDFa:      len(doc.RDFaTypes) > 0,
	}
	for _, block := range doc.JSONLDBlocks {
		for _, t := range jsonLDTypes(block) {
			sd.Types = appendUnique(sd.Types, t)
		}
	}
	for _, t := range doc.MicrodataTypes {
		sd.Types = appendUnique(sd.Types, t)
	}
	for _, t := range doc.RDFaTypes {
		sd.Types = appendUnique(sd.Types, t)
	}
	return sd
}

// jsonLDTypes pulls @type values out of a JSON-LD block. Invalid JSON
// is skipped rather than reported; structured-data detection is a
// best-effort signal.
func jsonLDTypes(block string) []string {
	var payload any
	if err := json.Unmarshal([]byte(block), &payload); err != nil {
		return nil
	}
	var types []string
	var visit func(v any)
	visit = func(v any) {
		switch val := v.(type) {
		case map[string]any:
			if t, ok := val["@type"].(string); ok {
				types = appendUnique(types, t)
			}
			for _, child := range val {
				visit(child)
			}
		case []any:
			for _, child := range val {
				visit(child)
			}
		}
	}
	visit(payload)
	return types
}

func checkSecurity(doc *Document, page *Page) SecurityChecks {
	return SecurityChecks{
		HTTPS:                 doc.URL.Scheme == "https",
		HSTS:                  page.Headers.Get("Strict-Transport-Security") != "",
		ContentSecurityPolicy: page.Headers.Get("Content-Security-Policy") != "",
		XContentTypeOptions:   page.Headers.Get("X-Content-Type-Options") != "",
		XFrameOptions:         page.Headers.Get("X-Frame-Options") != "",
		XXSSProtection:        page.Headers.Get("X-XSS-Protection") != "",
	}
}

func checkAccessibility(doc *Document) AccessibilityChecks {
	checks := AccessibilityChecks{
		AriaAttributes: doc.AriaCount,
		LangAttribute:  doc.Lang != "",
		AltAttributes:  1,
		FormLabels:     1,
	}
	if len(doc.Images) > 0 {
		withAlt := 0
		for _, img := range doc.Images {
			if img.HasAlt {
				withAlt++
			}
		}
		checks.AltAttributes = float64(withAlt) / float64(len(doc.Images))
	}
	if doc.FormControls > 0 {
		checks.FormLabels = float64(doc.LabeledControls) / float64(doc.FormControls)
	}
	return checks
}
