package seo

import (
	"context"
	"crypto/md5"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"golang.org/x/sync/errgroup"
)

// assetProbeWorkers bounds the concurrency of resource size and cache
// probes.
const assetProbeWorkers = 6

// largeImageBytes is the threshold above which an image counts as
// unoptimized.
const largeImageBytes = 100 * 1024

// CacheInfo describes the caching headers of a probed resource.
type CacheInfo struct {
	HasCacheHeaders bool   `json:"has_cache_headers"`
	CacheControl    string `json:"cache_control,omitempty"`
	Expires         string `json:"expires,omitempty"`
	ETag            string `json:"etag,omitempty"`
	LastModified    string `json:"last_modified,omitempty"`
	MaxAge          *int   `json:"max_age,omitempty"`
	Error           string `json:"error,omitempty"`
}

// Resource is a page asset collected from markup, possibly enriched by
// a network probe.
type Resource struct {
	URL           string     `json:"url"`
	Inline        bool       `json:"inline"`
	Async         bool       `json:"async,omitempty"`
	Defer         bool       `json:"defer,omitempty"`
	Media         string     `json:"media,omitempty"`
	Size          int        `json:"size"`
	Minified      bool       `json:"minified,omitempty"`
	Width         string     `json:"width,omitempty"`
	Height        string     `json:"height,omitempty"`
	HasDimensions bool       `json:"has_dimensions,omitempty"`
	LazyLoading   bool       `json:"lazy_loading,omitempty"`
	Preloaded     bool       `json:"preloaded,omitempty"`
	Cache         *CacheInfo `json:"cache,omitempty"`
}

// Resources groups page assets by kind.
type Resources struct {
	JS     []Resource `json:"js"`
	CSS    []Resource `json:"css"`
	Images []Resource `json:"images"`
	Fonts  []Resource `json:"fonts"`
}

// ResourceSummary totals the collected resources.
type ResourceSummary struct {
	JSCount        int `json:"js_count"`
	CSSCount       int `json:"css_count"`
	ImagesCount    int `json:"images_count"`
	FontsCount     int `json:"fonts_count"`
	TotalResources int `json:"total_resources"`
	JSSize         int `json:"js_size"`
	CSSSize        int `json:"css_size"`
	ImagesSize     int `json:"images_size"`
	FontsSize      int `json:"fonts_size"`
	TotalSize      int `json:"total_size"`
}

// RenderBlockingCheck lists resources that delay first paint.
type RenderBlockingCheck struct {
	BlockingJSCount  int        `json:"blocking_js_count"`
	BlockingCSSCount int        `json:"blocking_css_count"`
	BlockingJS       []Resource `json:"blocking_js"`
	BlockingCSS      []Resource `json:"blocking_css"`
	Issues           []string   `json:"issues"`
	Recommendations  []string   `json:"recommendations"`
}

// ImageOptimizationCheck reports oversized, unsized, and eager images.
type ImageOptimizationCheck struct {
	TotalImages            int        `json:"total_images"`
	LargeImagesCount       int        `json:"large_images_count"`
	MissingDimensionsCount int        `json:"missing_dimensions_count"`
	NonLazyImagesCount     int        `json:"non_lazy_images_count"`
	LargeImages            []Resource `json:"large_images"`
	MissingDimensions      []Resource `json:"missing_dimensions"`
	NonLazyImages          []Resource `json:"non_lazy_images"`
	Issues                 []string   `json:"issues"`
	Recommendations        []string   `json:"recommendations"`
}

// MinificationCheck reports inline scripts and styles left unminified.
type MinificationCheck struct {
	NonMinifiedJSCount  int        `json:"non_minified_js_count"`
	NonMinifiedCSSCount int        `json:"non_minified_css_count"`
	NonMinifiedJS       []Resource `json:"non_minified_js"`
	NonMinifiedCSS      []Resource `json:"non_minified_css"`
	Issues              []string   `json:"issues"`
	Recommendations     []string   `json:"recommendations"`
}

// CachedResourceRef points at a resource with a caching problem.
type CachedResourceRef struct {
	URL    string `json:"url"`
	Type   string `json:"type"`
	MaxAge *int   `json:"max_age,omitempty"`
}

// CachingCheck reports resources with missing or short cache headers.
type CachingCheck struct {
	NonCachedCount      int                 `json:"non_cached_count"`
	ShortCacheCount     int                 `json:"short_cache_count"`
	NonCachedResources  []CachedResourceRef `json:"non_cached_resources"`
	ShortCacheResources []CachedResourceRef `json:"short_cache_resources"`
	Issues              []string            `json:"issues"`
	Recommendations     []string            `json:"recommendations"`
}

// PageSizeBreakdown reports byte totals per resource kind.
type PageSizeBreakdown struct {
	TotalSizeBytes int     `json:"total_size_bytes"`
	TotalSizeKB    float64 `json:"total_size_kb"`
	JSSizeKB       float64 `json:"js_size_kb"`
	CSSSizeKB      float64 `json:"css_size_kb"`
	ImagesSizeKB   float64 `json:"images_size_kb"`
	FontsSizeKB    float64 `json:"fonts_size_kb"`
}

// ResourceCounts reports the number of resources per kind.
type ResourceCounts struct {
	Total  int `json:"total"`
	JS     int `json:"js"`
	CSS    int `json:"css"`
	Images int `json:"images"`
	Fonts  int `json:"fonts"`
}

// PageSpeedAnalysis is the full page speed report.
type PageSpeedAnalysis struct {
	URL               string                 `json:"url"`
	Domain            string                 `json:"domain"`
	Timestamp         string                 `json:"timestamp"`
	AnalysisDuration  float64                `json:"analysis_duration"`
	PageSpeedScore    int                    `json:"page_speed_score"`
	SpeedRating       string                 `json:"speed_rating"`
	EstimatedLoadTime float64                `json:"estimated_load_time"`
	PageSize          PageSizeBreakdown      `json:"page_size"`
	ResourcesCount    ResourceCounts         `json:"resources_count"`
	Resources         Resources              `json:"resources"`
	RenderBlocking    RenderBlockingCheck    `json:"render_blocking"`
	ImageOptimization ImageOptimizationCheck `json:"image_optimization"`
	Minification      MinificationCheck      `json:"minification"`
	Caching           CachingCheck           `json:"caching"`
	Summary           struct {
		TotalIssues int `json:"total_issues"`
	} `json:"summary"`
}

// PageSpeedAnalyzer collects a page's resources and scores its
// loading characteristics.
type PageSpeedAnalyzer struct {
	fetcher *Fetcher

	// ProbeAssets enables per-resource size and cache-header requests.
	ProbeAssets bool
}

// NewPageSpeedAnalyzer returns a PageSpeedAnalyzer using fetcher for
// asset probes.
func NewPageSpeedAnalyzer(fetcher *Fetcher) *PageSpeedAnalyzer {
	return &PageSpeedAnalyzer{fetcher: fetcher}
}

// Analyze collects resources from the parsed page, optionally probes
// them over the network, and computes the weighted speed score.
func (pa *PageSpeedAnalyzer) Analyze(ctx context.Context, doc *Document) PageSpeedAnalysis {
	start := time.Now()

	resources := collectResources(doc)
	if pa.ProbeAssets && pa.fetcher != nil {
		pa.probeResources(ctx, &resources)
	}
	summary := summarize(resources)

	blocking := checkRenderBlocking(resources)
	images := checkImageOptimization(resources.Images)
	minification := checkMinification(resources)
	caching := checkCaching(resources)

	totalKB := float64(summary.TotalSize) / 1024
	blockingCount := blocking.BlockingJSCount + blocking.BlockingCSSCount
	score := scorePageSpeed(summary, blocking, images, minification, caching)

	rating := "very slow"
	switch {
	case score >= 90:
		rating = "very fast"
	case score >= 70:
		rating = "fast"
	case score >= 50:
		rating = "average"
	case score >= 30:
		rating = "slow"
	}

	// connection setup and HTML parse, plus 1s per MB and 0.1s per
	// blocking resource
	loadTime := 0.5 + totalKB/1000 + float64(blockingCount)*0.1

	analysis := PageSpeedAnalysis{
		URL:               doc.URL.String(),
		Domain:            doc.Domain,
		Timestamp:         time.Now().Format("2006-01-02 15:04:05"),
		AnalysisDuration:  round2(time.Since(start).Seconds()),
		PageSpeedScore:    score,
		SpeedRating:       rating,
		EstimatedLoadTime: round2(loadTime),
		PageSize: PageSizeBreakdown{
			TotalSizeBytes: summary.TotalSize,
			TotalSizeKB:    round2(totalKB),
			JSSizeKB:       round2(float64(summary.JSSize) / 1024),
			CSSSizeKB:      round2(float64(summary.CSSSize) / 1024),
			ImagesSizeKB:   round2(float64(summary.ImagesSize) / 1024),
			FontsSizeKB:    round2(float64(summary.FontsSize) / 1024),
		},
		ResourcesCount: ResourceCounts{
			Total:  summary.TotalResources,
			JS:     summary.JSCount,
			CSS:    summary.CSSCount,
			Images: summary.ImagesCount,
			Fonts:  summary.FontsCount,
		},
		Resources:         resources,
		RenderBlocking:    blocking,
		ImageOptimization: images,
		Minification:      minification,
		Caching:           caching,
	}
	analysis.Summary.TotalIssues = len(blocking.Issues) + len(images.Issues) +
		len(minification.Issues) + len(caching.Issues)
	return analysis
}

func collectResources(doc *Document) Resources {
	var res Resources

	for _, s := range doc.Scripts {
		if s.Src != "" {
			res.JS = append(res.JS, Resource{
				URL:   s.Src,
				Async: s.Async,
				Defer: s.Defer,
			})
			continue
		}
		if strings.TrimSpace(s.Inline) == "" {
			continue
		}
		res.JS = append(res.JS, Resource{
			URL:      fmt.Sprintf("inline-script-%x", md5.Sum([]byte(s.Inline)))[:22],
			Inline:   true,
			Size:     len(s.Inline),
			Minified: isMinified(s.Inline),
		})
	}

	for _, s := range doc.Styles {
		if s.Href != "" {
			res.CSS = append(res.CSS, Resource{URL: s.Href, Media: s.Media})
			continue
		}
		if strings.TrimSpace(s.Inline) == "" {
			continue
		}
		res.CSS = append(res.CSS, Resource{
			URL:      fmt.Sprintf("inline-style-%x", md5.Sum([]byte(s.Inline)))[:21],
			Inline:   true,
			Size:     len(s.Inline),
			Minified: isMinified(s.Inline),
		})
	}

	for _, img := range doc.Images {
		if img.Src == "" || strings.HasPrefix(img.Src, "data:") {
			continue
		}
		res.Images = append(res.Images, Resource{
			URL:           img.Src,
			Width:         img.Width,
			Height:        img.Height,
			HasDimensions: img.HasDimensions,
			LazyLoading:   img.LazyLoading,
		})
	}

	for _, p := range doc.Preloads {
		if p.Style == "font" && p.Text != "" {
			res.Fonts = append(res.Fonts, Resource{URL: p.Text, Preloaded: true})
		}
	}
	for _, s := range doc.Styles {
		if strings.Contains(s.Href, "fonts.googleapis.com") || strings.Contains(s.Href, "fonts.gstatic.com") {
			res.Fonts = append(res.Fonts, Resource{URL: s.Href})
		}
	}

	return res
}

// probeResources fills in sizes and cache headers for external
// resources.
func (pa *PageSpeedAnalyzer) probeResources(ctx context.Context, res *Resources) {
	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(assetProbeWorkers)

	for _, group := range []*[]Resource{&res.JS, &res.CSS, &res.Images, &res.Fonts} {
		for i := range *group {
			r := &(*group)[i]
			if r.Inline || r.Size > 0 {
				continue
			}
			g.Go(func() error {
				asset, err := pa.fetcher.FetchAsset(ctx, r.URL, false)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					r.Cache = &CacheInfo{Error: err.Error()}
					return nil
				}
				r.Size = asset.Size
				r.Cache = parseCacheInfo(asset.Headers)
				return nil
			})
		}
	}
	_ = g.Wait()
}

var maxAgePattern = regexp.MustCompile(`max-age=(\d+)`)

func parseCacheInfo(headers http.Header) *CacheInfo {
	info := &CacheInfo{
		CacheControl: headers.Get("Cache-Control"),
		Expires:      headers.Get("Expires"),
		ETag:         headers.Get("ETag"),
		LastModified: headers.Get("Last-Modified"),
	}
	info.HasCacheHeaders = info.CacheControl != "" || info.Expires != "" ||
		info.ETag != "" || info.LastModified != ""
	if m := maxAgePattern.FindStringSubmatch(info.CacheControl); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			info.MaxAge = &n
		}
	}
	return info
}

func summarize(res Resources) ResourceSummary {
	sizeOf := func(rs []Resource) int {
		total := 0
		for _, r := range rs {
			total += r.Size
		}
		return total
	}
	s := ResourceSummary{
		JSCount:     len(res.JS),
		CSSCount:    len(res.CSS),
		ImagesCount: len(res.Images),
		FontsCount:  len(res.Fonts),
		JSSize:      sizeOf(res.JS),
		CSSSize:     sizeOf(res.CSS),
		ImagesSize:  sizeOf(res.Images),
		FontsSize:   sizeOf(res.Fonts),
	}
	s.TotalResources = s.JSCount + s.CSSCount + s.ImagesCount + s.FontsCount
	s.TotalSize = s.JSSize + s.CSSSize + s.ImagesSize + s.FontsSize
	return s
}

// isMinified guesses from newline and whitespace density whether a
// script or stylesheet went through a minifier.
func isMinified(content string) bool {
	if content == "" {
		return false
	}
	newlines := strings.Count(content, "\n")
	whitespace := 0
	for _, c := range content {
		if unicode.IsSpace(c) {
			whitespace++
		}
	}
	n := float64(len(content))
	return float64(newlines)/n < 0.01 && float64(whitespace)/n < 0.1
}

func checkRenderBlocking(res Resources) RenderBlockingCheck {
	check := RenderBlockingCheck{}

	for _, r := range res.JS {
		if !r.Inline && !r.Async && !r.Defer {
			check.BlockingJSCount++
			if len(check.BlockingJS) < maxExamples {
				check.BlockingJS = append(check.BlockingJS, r)
			}
		}
	}
	for _, r := range res.CSS {
		if r.Inline {
			continue
		}
		if r.Media == "" || r.Media == "all" || r.Media == "screen" {
			check.BlockingCSSCount++
			if len(check.BlockingCSS) < maxExamples {
				check.BlockingCSS = append(check.BlockingCSS, r)
			}
		}
	}

	if check.BlockingJSCount > 0 {
		check.Issues = append(check.Issues, fmt.Sprintf("%d JavaScript files block rendering", check.BlockingJSCount))
	}
	if check.BlockingCSSCount > 0 {
		check.Issues = append(check.Issues, fmt.Sprintf("%d CSS files block rendering", check.BlockingCSSCount))
	}
	if len(check.Issues) > 0 {
		check.Recommendations = []string{
			"add async or defer attributes to script tags",
			"inline critical CSS and load the rest asynchronously",
			"lazy-load JavaScript not needed for first paint",
		}
	}
	return check
}

func checkImageOptimization(images []Resource) ImageOptimizationCheck {
	check := ImageOptimizationCheck{TotalImages: len(images)}

	for _, img := range images {
		if img.Size > largeImageBytes {
			check.LargeImagesCount++
			if len(check.LargeImages) < maxExamples {
				check.LargeImages = append(check.LargeImages, img)
			}
		}
		if !img.HasDimensions {
			check.MissingDimensionsCount++
			if len(check.MissingDimensions) < maxExamples {
				check.MissingDimensions = append(check.MissingDimensions, img)
			}
		}
		if !img.LazyLoading {
			check.NonLazyImagesCount++
			if len(check.NonLazyImages) < maxExamples {
				check.NonLazyImages = append(check.NonLazyImages, img)
			}
		}
	}

	if check.LargeImagesCount > 0 {
		check.Issues = append(check.Issues, fmt.Sprintf("%d images may be unoptimized", check.LargeImagesCount))
	}
	if check.MissingDimensionsCount > 0 {
		check.Issues = append(check.Issues, fmt.Sprintf("%d images lack width/height attributes", check.MissingDimensionsCount))
	}
	if check.NonLazyImagesCount > 0 {
		check.Issues = append(check.Issues, fmt.Sprintf("%d images are not lazy-loaded", check.NonLazyImagesCount))
	}
	if len(check.Issues) > 0 {
		check.Recommendations = []string{
			"compress large images and use modern formats (WebP, AVIF)",
			"set width/height on all images to avoid layout shift",
			`add loading="lazy" to below-the-fold images`,
			"size images to their display dimensions",
		}
	}
	return check
}

func checkMinification(res Resources) MinificationCheck {
	check := MinificationCheck{}

	for _, r := range res.JS {
		if r.Inline && !r.Minified {
			check.NonMinifiedJSCount++
			if len(check.NonMinifiedJS) < maxExamples {
				check.NonMinifiedJS = append(check.NonMinifiedJS, r)
			}
		}
	}
	for _, r := range res.CSS {
		if r.Inline && !r.Minified {
			check.NonMinifiedCSSCount++
			if len(check.NonMinifiedCSS) < maxExamples {
				check.NonMinifiedCSS = append(check.NonMinifiedCSS, r)
			}
		}
	}

	if check.NonMinifiedJSCount > 0 {
		check.Issues = append(check.Issues, fmt.Sprintf("%d inline scripts are not minified", check.NonMinifiedJSCount))
	}
	if check.NonMinifiedCSSCount > 0 {
		check.Issues = append(check.Issues, fmt.Sprintf("%d inline styles are not minified", check.NonMinifiedCSSCount))
	}
	if len(check.Issues) > 0 {
		check.Recommendations = []string{
			"minify JavaScript and CSS to reduce transfer size",
			"run production builds through a minifier (Terser, cssnano)",
		}
	}
	return check
}

// shortCacheSeconds is the max-age below which a resource counts as
// short-cached (one day).
const shortCacheSeconds = 86400

func checkCaching(res Resources) CachingCheck {
	check := CachingCheck{}

	collect := func(kind string, rs []Resource) {
		for _, r := range rs {
			if r.Inline || r.Cache == nil {
				continue
			}
			switch {
			case !r.Cache.HasCacheHeaders:
				check.NonCachedCount++
				if len(check.NonCachedResources) < maxExamples {
					check.NonCachedResources = append(check.NonCachedResources, CachedResourceRef{URL: r.URL, Type: kind})
				}
			case r.Cache.MaxAge != nil && *r.Cache.MaxAge < shortCacheSeconds:
				check.ShortCacheCount++
				if len(check.ShortCacheResources) < maxExamples {
					check.ShortCacheResources = append(check.ShortCacheResources, CachedResourceRef{URL: r.URL, Type: kind, MaxAge: r.Cache.MaxAge})
				}
			}
		}
	}
	collect("js", res.JS)
	collect("css", res.CSS)
	collect("images", res.Images)
	collect("fonts", res.Fonts)

	if check.NonCachedCount > 0 {
		check.Issues = append(check.Issues, fmt.Sprintf("%d resources have no cache headers", check.NonCachedCount))
	}
	if check.ShortCacheCount > 0 {
		check.Issues = append(check.Issues, fmt.Sprintf("%d resources have a very short cache lifetime", check.ShortCacheCount))
	}
	if len(check.Issues) > 0 {
		check.Recommendations = []string{
			"set cache headers on static resources (JS, CSS, images, fonts)",
			"cache static resources for at least a week (604800 seconds)",
			"version static asset filenames so updates bust the cache",
		}
	}
	return check
}

func scorePageSpeed(summary ResourceSummary, blocking RenderBlockingCheck, images ImageOptimizationCheck, minification MinificationCheck, caching CachingCheck) int {
	score := 0
	totalKB := float64(summary.TotalSize) / 1024

	switch {
	case totalKB <= 500:
		score += 20
	case totalKB <= 1000:
		score += 15
	case totalKB <= 2000:
		score += 10
	case totalKB <= 3000:
		score += 5
	}

	switch {
	case summary.TotalResources <= 20:
		score += 15
	case summary.TotalResources <= 40:
		score += 10
	case summary.TotalResources <= 60:
		score += 5
	}

	blockingCount := blocking.BlockingJSCount + blocking.BlockingCSSCount
	switch {
	case blockingCount == 0:
		score += 20
	case blockingCount <= 2:
		score += 15
	case blockingCount <= 5:
		score += 10
	case blockingCount <= 10:
		score += 5
	}

	imageIssues := images.LargeImagesCount + images.MissingDimensionsCount
	if imageIssues == 0 {
		score += 20
	} else {
		ratio := min(1.0, float64(imageIssues)/float64(max(1, images.TotalImages)))
		score += max(0, 20-int(ratio*20))
	}

	cacheIssues := caching.NonCachedCount + caching.ShortCacheCount
	if cacheIssues == 0 {
		score += 15
	} else {
		ratio := min(1.0, float64(cacheIssues)/float64(max(1, summary.TotalResources)))
		score += max(0, 15-int(ratio*15))
	}

	minIssues := minification.NonMinifiedJSCount + minification.NonMinifiedCSSCount
	if minIssues == 0 {
		score += 10
	} else {
		score += max(0, 10-minIssues)
	}

	return score
}
