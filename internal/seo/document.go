// Package seo implements the analysis contract behind the web layer:
// given a URL and an analysis type, produce a structured result or an
// error. It contains the page fetcher, the parsed document model, and
// the page-based analyzers (content, links, technical, keywords,
// mobile friendliness, page speed).
package seo

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/rahul4469/seo-master/internal/urlutil"
)

// Heading is a single h1-h6 element with its level and text.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// Image holds the attributes of an <img> element relevant to analysis.
type Image struct {
	Src           string `json:"src"`
	Alt           string `json:"alt"`
	HasAlt        bool   `json:"has_alt"`
	Width         string `json:"width"`
	Height        string `json:"height"`
	HasDimensions bool   `json:"has_dimensions"`
	LazyLoading   bool   `json:"lazy_loading"`
	Style         string `json:"-"`
}

// Anchor is an <a href> element with its visible text.
type Anchor struct {
	Href     string `json:"url"`
	Text     string `json:"text"`
	Nofollow bool   `json:"nofollow"`
}

// Script is a <script> element, either external (Src set) or inline.
type Script struct {
	Src    string `json:"url,omitempty"`
	Inline string `json:"-"`
	Async  bool   `json:"async"`
	Defer  bool   `json:"defer"`
	Type   string `json:"-"`
}

// StyleSheet is a <link rel=stylesheet> or an inline <style> block.
type StyleSheet struct {
	Href   string `json:"url,omitempty"`
	Inline string `json:"-"`
	Media  string `json:"media,omitempty"`
}

// StyledElement records any element carrying an inline style attribute.
// The mobile and technical heuristics work off these.
type StyledElement struct {
	Tag   string `json:"tag"`
	Style string `json:"style"`
	Text  string `json:"text,omitempty"`
}

// TableInfo records a <table> and the inline style of its nearest div
// ancestor, used to judge whether the table can scroll horizontally.
type TableInfo struct {
	ID          string
	Class       string
	ParentStyle string
	HasParent   bool
}

// Document is the parsed page model every analyzer reads from. It is
// built in a single walk over the HTML tree.
type Document struct {
	URL    *url.URL
	Domain string
	Raw    string

	Title     string
	Lang      string
	Meta      map[string]string // <meta name=...>
	MetaProps map[string]string // <meta property=...> (og:*)
	Canonical string

	Headings   []Heading
	Paragraphs []string
	Images     []Image
	Anchors    []Anchor
	Scripts    []Script
	Styles     []StyleSheet
	Preloads   []StyledElement // link rel=preload, Style holds the "as" value, Text the href

	StyledElems    []StyledElement
	Tables         []TableInfo
	ClickableCount int

	AriaCount       int
	FormControls    int
	LabeledControls int

	JSONLDBlocks   []string
	MicrodataTypes []string
	RDFaTypes      []string

	Text string
}

var headingTag = regexp.MustCompile(`^h[1-6]$`)

// clickableTags are the elements treated as touch targets.
var clickableTags = map[string]bool{
	"a": true, "button": true, "input": true, "select": true, "textarea": true,
}

// ParseDocument parses raw HTML fetched from pageURL into a Document.
func ParseDocument(pageURL, raw string) (*Document, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, err
	}

	root, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return nil, err
	}

	doc := &Document{
		URL:       u,
		Domain:    urlutil.Domain(pageURL),
		Raw:       raw,
		Meta:      make(map[string]string),
		MetaProps: make(map[string]string),
	}

	labelFor := make(map[string]bool)
	var text strings.Builder
	doc.walk(root, false, labelFor, &text)
	doc.Text = text.String()
	doc.resolveLabels(root, labelFor)

	return doc, nil
}

func (d *Document) walk(n *html.Node, inLabel bool, labelFor map[string]bool, text *strings.Builder) {
	if n.Type == html.ElementNode {
		d.visitElement(n, inLabel, labelFor)
		if n.Data == "label" {
			inLabel = true
		}
		if n.Data == "script" || n.Data == "style" {
			// keep their content out of the page text
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				d.walk(c, inLabel, labelFor, nil)
			}
			return
		}
	}
	if n.Type == html.TextNode && text != nil {
		text.WriteString(n.Data)
		text.WriteByte(' ')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.walk(c, inLabel, labelFor, text)
	}
}

func (d *Document) visitElement(n *html.Node, inLabel bool, labelFor map[string]bool) {
	get := func(key string) string { return attr(n, key) }
	has := func(key string) bool { return hasAttr(n, key) }

	if style := get("style"); style != "" {
		d.StyledElems = append(d.StyledElems, StyledElement{
			Tag:   n.Data,
			Style: style,
			Text:  truncateText(nodeText(n), 30),
		})
	}
	for _, a := range n.Attr {
		switch {
		case strings.HasPrefix(a.Key, "aria-"):
			d.AriaCount++
		case a.Key == "itemtype":
			if t := lastPathSegment(a.Val); t != "" {
				d.MicrodataTypes = appendUnique(d.MicrodataTypes, t)
			}
		case a.Key == "typeof":
			d.RDFaTypes = appendUnique(d.RDFaTypes, a.Val)
		}
	}

	switch n.Data {
	case "html":
		d.Lang = get("lang")
	case "title":
		if d.Title == "" {
			d.Title = strings.TrimSpace(nodeText(n))
		}
	case "meta":
		if name := get("name"); name != "" {
			d.Meta[name] = strings.TrimSpace(get("content"))
		}
		if prop := get("property"); prop != "" {
			d.MetaProps[prop] = strings.TrimSpace(get("content"))
		}
	case "link":
		rel := strings.ToLower(get("rel"))
		switch {
		case strings.Contains(rel, "canonical"):
			d.Canonical = strings.TrimSpace(get("href"))
		case strings.Contains(rel, "stylesheet"):
			d.Styles = append(d.Styles, StyleSheet{
				Href:  urlutil.Absolute(d.URL, get("href")),
				Media: get("media"),
			})
		case strings.Contains(rel, "preload"):
			d.Preloads = append(d.Preloads, StyledElement{
				Tag:   "link",
				Style: get("as"),
				Text:  urlutil.Absolute(d.URL, get("href")),
			})
		}
	case "style":
		d.Styles = append(d.Styles, StyleSheet{Inline: nodeText(n)})
	case "script":
		typ := get("type")
		if typ == "application/ld+json" {
			d.JSONLDBlocks = append(d.JSONLDBlocks, nodeText(n))
			break
		}
		s := Script{
			Src:   urlutil.Absolute(d.URL, get("src")),
			Async: has("async"),
			Defer: has("defer"),
			Type:  typ,
		}
		if get("src") == "" {
			s.Inline = nodeText(n)
		}
		d.Scripts = append(d.Scripts, s)
	case "img":
		src := get("src")
		d.Images = append(d.Images, Image{
			Src:           urlutil.Absolute(d.URL, src),
			Alt:           get("alt"),
			HasAlt:        has("alt"),
			Width:         get("width"),
			Height:        get("height"),
			HasDimensions: get("width") != "" && get("height") != "",
			LazyLoading:   get("loading") == "lazy",
			Style:         get("style"),
		})
	case "a":
		if href := get("href"); href != "" {
			if abs := urlutil.Absolute(d.URL, href); abs != "" {
				d.Anchors = append(d.Anchors, Anchor{
					Href:     abs,
					Text:     strings.TrimSpace(nodeText(n)),
					Nofollow: strings.Contains(strings.ToLower(get("rel")), "nofollow"),
				})
			}
		}
	case "p":
		if t := strings.TrimSpace(nodeText(n)); t != "" {
			d.Paragraphs = append(d.Paragraphs, t)
		}
	case "table":
		info := TableInfo{ID: get("id"), Class: get("class")}
		if parent := closestDiv(n); parent != nil {
			info.HasParent = true
			info.ParentStyle = attr(parent, "style")
		}
		d.Tables = append(d.Tables, info)
	case "label":
		if id := get("for"); id != "" {
			labelFor[id] = true
		}
	case "input", "select", "textarea":
		d.FormControls++
		if inLabel {
			d.LabeledControls++
		}
	}

	if headingTag.MatchString(n.Data) {
		if t := strings.TrimSpace(nodeText(n)); t != "" {
			d.Headings = append(d.Headings, Heading{Level: int(n.Data[1] - '0'), Text: t})
		}
	}
	if clickableTags[n.Data] {
		d.ClickableCount++
	}
}

// resolveLabels credits controls referenced by <label for=...> that were
// not nested inside a label.
func (d *Document) resolveLabels(root *html.Node, labelFor map[string]bool) {
	var visit func(n *html.Node, inLabel bool)
	visit = func(n *html.Node, inLabel bool) {
		if n.Type == html.ElementNode {
			if n.Data == "label" {
				inLabel = true
			}
			if n.Data == "input" || n.Data == "select" || n.Data == "textarea" {
				if !inLabel && labelFor[attr(n, "id")] {
					d.LabeledControls++
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c, inLabel)
		}
	}
	visit(root, false)
}

// HeadingsByLevel groups heading texts by level, 1 through 6.
func (d *Document) HeadingsByLevel() map[int][]string {
	out := make(map[int][]string, 6)
	for _, h := range d.Headings {
		out[h.Level] = append(out[h.Level], h.Text)
	}
	return out
}

// MetaDescription returns the content of <meta name="description">.
func (d *Document) MetaDescription() string {
	return d.Meta["description"]
}

// Viewport returns the content of <meta name="viewport">.
func (d *Document) Viewport() string {
	return d.Meta["viewport"]
}

// helpers ------------------------------------------------------------

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return b.String()
}

func closestDiv(n *html.Node) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.Data == "div" {
			return p
		}
	}
	return nil
}

func lastPathSegment(s string) string {
	s = strings.TrimRight(s, "/")
	if i := strings.LastIndex(s, "/"); i >= 0 {
		return s[i+1:]
	}
	return s
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}

func truncateText(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return s[:max]
}
