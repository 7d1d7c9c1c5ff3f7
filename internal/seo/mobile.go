package seo

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Check statuses shared by the mobile and pagespeed reports.
const (
	StatusOK      = "ok"
	StatusWarning = "warning"
	StatusError   = "error"
)

// maxExamples caps how many offending elements a check lists.
const maxExamples = 5

// ViewportCheck reports on the viewport meta tag.
type ViewportCheck struct {
	Status          string   `json:"status"`
	HasViewport     bool     `json:"has_viewport"`
	ViewportContent string   `json:"viewport_content,omitempty"`
	HasWidth        bool     `json:"has_width"`
	HasInitialScale bool     `json:"has_initial_scale"`
	Issues          []string `json:"issues"`
	Recommendation  string   `json:"recommendation,omitempty"`
}

// FixedWidthElement is an element whose inline width exceeds a phone
// screen.
type FixedWidthElement struct {
	Tag   string `json:"tag"`
	Style string `json:"style"`
	Width string `json:"width"`
}

// NonResponsiveImage is an image with a fixed pixel width.
type NonResponsiveImage struct {
	Src   string `json:"src"`
	Width string `json:"width"`
}

// ResponsiveCheck reports on media queries, fixed widths, and layout.
type ResponsiveCheck struct {
	Status                   string               `json:"status"`
	MediaQueriesCount        int                  `json:"media_queries_count"`
	FixedWidthElements       []FixedWidthElement  `json:"fixed_width_elements"`
	FixedWidthElementsCount  int                  `json:"fixed_width_elements_count"`
	NonResponsiveImages      []NonResponsiveImage `json:"non_responsive_images"`
	NonResponsiveImagesCount int                  `json:"non_responsive_images_count"`
	HasFlexibleGrid          bool                 `json:"has_flexible_grid"`
	Issues                   []string             `json:"issues"`
	Recommendations          []string             `json:"recommendations"`
}

// SmallElement is a touch target or text run below the recommended size.
type SmallElement struct {
	Tag      string `json:"tag"`
	Text     string `json:"text"`
	Width    string `json:"width,omitempty"`
	Height   string `json:"height,omitempty"`
	FontSize string `json:"font_size,omitempty"`
}

// TouchCheck reports on touch target sizing.
type TouchCheck struct {
	Status                 string         `json:"status"`
	ClickableElementsCount int            `json:"clickable_elements_count"`
	SmallElements          []SmallElement `json:"small_elements"`
	SmallElementsCount     int            `json:"small_elements_count"`
	Issues                 []string       `json:"issues"`
	Recommendations        []string       `json:"recommendations"`
}

// FontCheck reports on inline font sizes below readable thresholds.
type FontCheck struct {
	Status                 string         `json:"status"`
	SmallFontElements      []SmallElement `json:"small_font_elements"`
	SmallFontElementsCount int            `json:"small_font_elements_count"`
	Issues                 []string       `json:"issues"`
	Recommendations        []string       `json:"recommendations"`
}

// OverflowElement is an element likely to force horizontal scrolling.
type OverflowElement struct {
	Tag   string `json:"tag"`
	Width string `json:"width"`
}

// NonResponsiveTable is a table without a scrollable wrapper.
type NonResponsiveTable struct {
	ID    string `json:"id"`
	Class string `json:"class"`
}

// ContentWidthCheck reports on content wider than a phone screen.
type ContentWidthCheck struct {
	Status                   string               `json:"status"`
	OverflowElements         []OverflowElement    `json:"overflow_elements"`
	OverflowElementsCount    int                  `json:"overflow_elements_count"`
	NonResponsiveTables      []NonResponsiveTable `json:"non_responsive_tables"`
	NonResponsiveTablesCount int                  `json:"non_responsive_tables_count"`
	Issues                   []string             `json:"issues"`
	Recommendations          []string             `json:"recommendations"`
}

// MobileSummary counts check outcomes across the report.
type MobileSummary struct {
	PassedChecks  int `json:"passed_checks"`
	WarningChecks int `json:"warning_checks"`
	FailedChecks  int `json:"failed_checks"`
	TotalIssues   int `json:"total_issues"`
}

// MobileAnalysis is the full mobile-friendliness report.
type MobileAnalysis struct {
	URL                  string            `json:"url"`
	Domain               string            `json:"domain"`
	Timestamp            string            `json:"timestamp"`
	AnalysisDuration     float64           `json:"analysis_duration"`
	MobileFriendlyScore  int               `json:"mobile_friendly_score"`
	MobileFriendlyStatus string            `json:"mobile_friendly_status"`
	Viewport             ViewportCheck     `json:"viewport"`
	ResponsiveDesign     ResponsiveCheck   `json:"responsive_design"`
	TouchElements        TouchCheck        `json:"touch_elements"`
	FontSize             FontCheck         `json:"font_size"`
	ContentWidth         ContentWidthCheck `json:"content_width"`
	Summary              MobileSummary     `json:"summary"`
}

var (
	widthPx    = regexp.MustCompile(`width:\s*(\d+)px`)
	heightPx   = regexp.MustCompile(`height:\s*(\d+)px`)
	fontSizePx = regexp.MustCompile(`font-size:\s*(\d+(?:\.\d+)?)(px|pt|rem|em)`)
	mediaQuery = regexp.MustCompile(`@media`)
)

// AnalyzeMobile runs the mobile-friendliness checks on a parsed page.
func AnalyzeMobile(doc *Document) MobileAnalysis {
	start := time.Now()

	viewport := checkViewport(doc)
	responsive := checkResponsiveDesign(doc)
	touch := checkTouchElements(doc)
	font := checkFontSizes(doc)
	width := checkContentWidth(doc)

	score := scoreMobile(viewport, responsive, touch, font, width)

	status := "needs improvement"
	switch {
	case score >= 90:
		status = "excellent"
	case score >= 70:
		status = "good"
	case score >= 50:
		status = "room for improvement"
	}

	statuses := []string{viewport.Status, responsive.Status, touch.Status, font.Status, width.Status}
	summary := MobileSummary{
		TotalIssues: len(viewport.Issues) + len(responsive.Issues) + len(touch.Issues) +
			len(font.Issues) + len(width.Issues),
	}
	for _, s := range statuses {
		switch s {
		case StatusOK:
			summary.PassedChecks++
		case StatusWarning:
			summary.WarningChecks++
		default:
			summary.FailedChecks++
		}
	}

	return MobileAnalysis{
		URL:                  doc.URL.String(),
		Domain:               doc.Domain,
		Timestamp:            time.Now().Format("2006-01-02 15:04:05"),
		AnalysisDuration:     round2(time.Since(start).Seconds()),
		MobileFriendlyScore:  score,
		MobileFriendlyStatus: status,
		Viewport:             viewport,
		ResponsiveDesign:     responsive,
		TouchElements:        touch,
		FontSize:             font,
		ContentWidth:         width,
		Summary:              summary,
	}
}

func checkViewport(doc *Document) ViewportCheck {
	content, ok := doc.Meta["viewport"]
	if !ok {
		return ViewportCheck{
			Status:         StatusError,
			Issues:         []string{"no viewport meta tag"},
			Recommendation: `add a viewport meta tag: <meta name="viewport" content="width=device-width, initial-scale=1.0">`,
		}
	}

	check := ViewportCheck{
		HasViewport:     true,
		ViewportContent: content,
		HasWidth:        strings.Contains(content, "width="),
		HasInitialScale: strings.Contains(content, "initial-scale="),
	}
	if !check.HasWidth {
		check.Issues = append(check.Issues, "width=device-width is not set")
	}
	if !check.HasInitialScale {
		check.Issues = append(check.Issues, "initial-scale is not set")
	}

	check.Status = StatusOK
	if len(check.Issues) > 0 {
		check.Status = StatusWarning
		check.Recommendation = `recommended viewport: <meta name="viewport" content="width=device-width, initial-scale=1.0">`
	}
	return check
}

func checkResponsiveDesign(doc *Document) ResponsiveCheck {
	check := ResponsiveCheck{}

	for _, s := range doc.Styles {
		if s.Inline != "" {
			check.MediaQueriesCount += len(mediaQuery.FindAllString(s.Inline, -1))
			if strings.Contains(s.Inline, "grid") || strings.Contains(s.Inline, "flex") {
				check.HasFlexibleGrid = true
			}
		}
	}

	for _, el := range doc.StyledElems {
		if !layoutTag(el.Tag) {
			continue
		}
		if strings.Contains(el.Style, "max-width") || strings.Contains(el.Style, "min-width") {
			continue
		}
		if w, ok := pixelWidth(el.Style); ok && w > 320 {
			check.FixedWidthElementsCount++
			if len(check.FixedWidthElements) < maxExamples {
				check.FixedWidthElements = append(check.FixedWidthElements, FixedWidthElement{
					Tag:   el.Tag,
					Style: el.Style,
					Width: fmt.Sprintf("%dpx", w),
				})
			}
		}
	}

	for _, img := range doc.Images {
		fixed := false
		width := ""
		if w, ok := pixelWidth(img.Style); ok && !strings.Contains(img.Style, "max-width") {
			fixed = true
			width = fmt.Sprintf("%dpx", w)
		} else if n, err := strconv.Atoi(img.Width); err == nil && n > 320 {
			fixed = true
			width = img.Width
		}
		if fixed {
			check.NonResponsiveImagesCount++
			if len(check.NonResponsiveImages) < maxExamples {
				check.NonResponsiveImages = append(check.NonResponsiveImages, NonResponsiveImage{
					Src:   img.Src,
					Width: width,
				})
			}
		}
	}

	if check.MediaQueriesCount == 0 {
		check.Issues = append(check.Issues, "no media queries detected")
	}
	if check.FixedWidthElementsCount > 0 {
		check.Issues = append(check.Issues, fmt.Sprintf("%d fixed-width elements detected", check.FixedWidthElementsCount))
	}
	if check.NonResponsiveImagesCount > 0 {
		check.Issues = append(check.Issues, fmt.Sprintf("%d non-responsive images detected", check.NonResponsiveImagesCount))
	}
	if !check.HasFlexibleGrid {
		check.Issues = append(check.Issues, "no flexible grid or flexbox detected")
	}

	check.Status = StatusOK
	if len(check.Issues) > 0 {
		check.Status = StatusWarning
		check.Recommendations = []string{
			"use media queries to adapt to different screen sizes",
			"prefer relative units (%, em, rem) over fixed widths",
			"apply max-width: 100% to images",
			"build layouts with flexible grid or flexbox",
		}
	}
	return check
}

func checkTouchElements(doc *Document) TouchCheck {
	check := TouchCheck{ClickableElementsCount: doc.ClickableCount}

	for _, el := range doc.StyledElems {
		if !clickableTags[el.Tag] {
			continue
		}
		w, hasW := pixelWidth(el.Style)
		h, hasH := pixelHeight(el.Style)
		if (hasW && w < 44) || (hasH && h < 44) {
			check.SmallElementsCount++
			if len(check.SmallElements) < maxExamples {
				small := SmallElement{Tag: el.Tag, Text: el.Text, Width: "unknown", Height: "unknown"}
				if hasW {
					small.Width = fmt.Sprintf("%dpx", w)
				}
				if hasH {
					small.Height = fmt.Sprintf("%dpx", h)
				}
				check.SmallElements = append(check.SmallElements, small)
			}
		}
	}

	check.Status = StatusOK
	if check.SmallElementsCount > 0 {
		check.Status = StatusWarning
		check.Issues = []string{fmt.Sprintf("%d touch targets are smaller than the recommended 44x44px", check.SmallElementsCount)}
		check.Recommendations = []string{
			"make touch targets (buttons, links) at least 44x44 pixels",
			"keep at least 8px of spacing between touch targets",
		}
	}
	return check
}

var fontCheckTags = map[string]bool{
	"p": true, "span": true, "div": true, "a": true, "li": true, "td": true,
}

func checkFontSizes(doc *Document) FontCheck {
	check := FontCheck{}

	for _, el := range doc.StyledElems {
		if !fontCheckTags[el.Tag] {
			continue
		}
		m := fontSizePx.FindStringSubmatch(el.Style)
		if m == nil {
			continue
		}
		size, _ := strconv.ParseFloat(m[1], 64)
		unit := m[2]

		small := false
		switch unit {
		case "px":
			small = size < 16
		case "pt":
			small = size < 12
		case "rem", "em":
			small = size < 1
		}
		if small {
			check.SmallFontElementsCount++
			if len(check.SmallFontElements) < maxExamples {
				check.SmallFontElements = append(check.SmallFontElements, SmallElement{
					Tag:      el.Tag,
					Text:     el.Text,
					FontSize: m[1] + unit,
				})
			}
		}
	}

	check.Status = StatusOK
	if check.SmallFontElementsCount > 0 {
		check.Status = StatusWarning
		check.Issues = []string{fmt.Sprintf("%d elements use a small font size", check.SmallFontElementsCount)}
		check.Recommendations = []string{
			"use at least 16px (or 1rem) for body text on mobile",
			"prefer relative units (rem, em) for font sizes",
		}
	}
	return check
}

func checkContentWidth(doc *Document) ContentWidthCheck {
	check := ContentWidthCheck{}

	for _, el := range doc.StyledElems {
		if !layoutTag(el.Tag) {
			continue
		}
		if w, ok := pixelWidth(el.Style); ok && w > 320 {
			check.OverflowElementsCount++
			if len(check.OverflowElements) < maxExamples {
				check.OverflowElements = append(check.OverflowElements, OverflowElement{
					Tag:   el.Tag,
					Width: fmt.Sprintf("%dpx", w),
				})
			}
		}
	}

	for _, t := range doc.Tables {
		responsive := t.HasParent &&
			(strings.Contains(t.ParentStyle, "overflow") || strings.Contains(t.ParentStyle, "max-width"))
		if !responsive {
			check.NonResponsiveTablesCount++
			if len(check.NonResponsiveTables) < maxExamples {
				check.NonResponsiveTables = append(check.NonResponsiveTables, NonResponsiveTable{
					ID:    t.ID,
					Class: t.Class,
				})
			}
		}
	}

	if check.OverflowElementsCount > 0 {
		check.Issues = append(check.Issues, fmt.Sprintf("%d elements may exceed the screen width", check.OverflowElementsCount))
	}
	if check.NonResponsiveTablesCount > 0 {
		check.Issues = append(check.Issues, fmt.Sprintf("%d tables may not be scrollable on small screens", check.NonResponsiveTablesCount))
	}

	check.Status = StatusOK
	if len(check.Issues) > 0 {
		check.Status = StatusWarning
		check.Recommendations = []string{
			"keep content within the screen width",
			"wrap tables in a container with overflow-x: auto",
			"prefer relative units (%) over fixed widths",
		}
	}
	return check
}

func scoreMobile(viewport ViewportCheck, responsive ResponsiveCheck, touch TouchCheck, font FontCheck, width ContentWidthCheck) int {
	score := 0

	switch viewport.Status {
	case StatusOK:
		score += 20
	case StatusWarning:
		score += 10
	}

	switch responsive.Status {
	case StatusOK:
		score += 30
	case StatusWarning:
		score += max(0, 30-len(responsive.Issues)*7)
	}

	switch touch.Status {
	case StatusOK:
		score += 20
	case StatusWarning:
		smallRatio := float64(touch.SmallElementsCount) / float64(max(1, touch.ClickableElementsCount))
		score += max(0, 20-int(smallRatio*100))
	}

	switch font.Status {
	case StatusOK:
		score += 15
	case StatusWarning:
		score += max(0, 15-font.SmallFontElementsCount)
	}

	switch width.Status {
	case StatusOK:
		score += 15
	case StatusWarning:
		score += max(0, 15-len(width.Issues)*5)
	}

	return score
}

func layoutTag(tag string) bool {
	switch tag {
	case "div", "table", "section", "article":
		return true
	}
	return false
}

func pixelWidth(style string) (int, bool) {
	m := widthPx.FindStringSubmatch(style)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	return n, err == nil
}

func pixelHeight(style string) (int, bool) {
	m := heightPx.FindStringSubmatch(style)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	return n, err == nil
}
