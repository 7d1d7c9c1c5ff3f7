package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/asaskevich/govalidator"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"github.com/rahul4469/seo-master/internal/models"
	"github.com/rahul4469/seo-master/internal/seo"
	"github.com/rahul4469/seo-master/internal/urlutil"
	"github.com/rahul4469/seo-master/internal/views"
)

// ReportStore is the persistence surface the web layer needs.
type ReportStore interface {
	Create(ctx context.Context, report *models.Report) (*models.Report, error)
	ByID(ctx context.Context, id int64) (*models.Report, error)
	Recent(ctx context.Context, limit int) ([]*models.Report, error)
	Delete(ctx context.Context, id int64) error
}

// AnalysisRunner executes one analysis of a given type against a URL.
type AnalysisRunner interface {
	Run(ctx context.Context, rawURL string, typ seo.AnalysisType) (any, error)
}

// AnalyzeController handles the analyze form and result pages.
type AnalyzeController struct {
	runner    AnalysisRunner
	reports   ReportStore
	templates AnalyzeTemplates
}

// AnalyzeTemplates holds the templates for the analysis pages.
type AnalyzeTemplates struct {
	Home   *views.Template
	Result *views.Template
}

// NewAnalyzeController creates a new AnalyzeController.
func NewAnalyzeController(runner AnalysisRunner, reports ReportStore, templates AnalyzeTemplates) *AnalyzeController {
	return &AnalyzeController{
		runner:    runner,
		reports:   reports,
		templates: templates,
	}
}

// ToolCard describes one analysis tool on the home page.
type ToolCard struct {
	Type        seo.AnalysisType
	Name        string
	Icon        string
	Description string
	Features    []string
	Selected    bool
}

// HomeData holds data for the home page template.
type HomeData struct {
	Tools        []ToolCard
	SelectedType seo.AnalysisType
	URL          string
}

func toolCards(selected seo.AnalysisType) []ToolCard {
	cards := []ToolCard{
		{
			Type:        seo.TypeSEO,
			Name:        "SEO Analysis",
			Icon:        "🔍",
			Description: "On-page content, links, technical factors and keywords.",
			Features: []string{
				"Content quality scoring for titles, descriptions, headings and copy",
				"Internal, external and broken link breakdown",
				"Technical checks: meta tags, security headers, structured data",
				"Keyword and keyphrase extraction with placement analysis",
			},
		},
		{
			Type:        seo.TypeComprehensive,
			Name:        "Comprehensive",
			Icon:        "📊",
			Description: "Every analysis in one combined, scored report.",
			Features: []string{
				"Runs SEO, mobile, page speed, ads, Search Console and Analytics",
				"Single 0-100 score averaged across the page-based analyses",
				"Merged, de-duplicated recommendation list",
				"Full sub-reports embedded for drill-down",
			},
		},
		{
			Type:        seo.TypeMobile,
			Name:        "Mobile Friendly",
			Icon:        "📱",
			Description: "Viewport, responsive design and touch usability checks.",
			Features: []string{
				"Viewport tag presence and completeness",
				"Responsive design heuristics: media queries, flexible layouts",
				"Touch target and font size checks",
				"Content width and table overflow detection",
			},
		},
		{
			Type:        seo.TypePageSpeed,
			Name:        "Page Speed",
			Icon:        "⚡",
			Description: "Resource weight, render blocking and caching analysis.",
			Features: []string{
				"Page size and per-type resource breakdown",
				"Render-blocking script and stylesheet detection",
				"Image optimization and minification checks",
				"Cache header analysis with estimated load time",
			},
		},
		{
			Type:        seo.TypeSearchConsole,
			Name:        "Search Console",
			Icon:        "🔎",
			Description: "Search performance, index coverage and mobile usability.",
			Features: []string{
				"28-day clicks, impressions, CTR and position",
				"Top queries, pages, devices and countries",
				"Index coverage with error and exclusion breakdowns",
				"Mobile usability issue summary",
			},
		},
		{
			Type:        seo.TypeAnalytics,
			Name:        "Analytics",
			Icon:        "📈",
			Description: "Traffic, engagement and audience insights.",
			Features: []string{
				"30-day sessions, users, pageviews and bounce rate",
				"Traffic sources, devices and countries",
				"Engagement score with rating",
				"Top pages and tracked events",
			},
		},
		{
			Type:        seo.TypeAd,
			Name:        "Ad Analysis",
			Icon:        "📣",
			Description: "Paid presence across Google and social networks.",
			Features: []string{
				"Google search and display ad inventory",
				"Facebook, Instagram, Twitter and LinkedIn ad sets",
				"Platform and format breakdowns with spend estimates",
				"Keyword, copy and landing-page analysis per network",
			},
		},
	}
	for i := range cards {
		cards[i].Selected = cards[i].Type == selected
	}
	return cards
}

// GetHome renders the analyze form.
func (c *AnalyzeController) GetHome(w http.ResponseWriter, r *http.Request) {
	data := &views.TemplateData{
		Title:     "SEO Master - Website Analysis",
		CSRFToken: csrf.Token(r),
		Data: HomeData{
			Tools:        toolCards(seo.TypeSEO),
			SelectedType: seo.TypeSEO,
		},
	}
	c.templates.Home.ExecuteHTTP(w, r, data)
}

// PostAnalyze handles the analysis form submission.
func (c *AnalyzeController) PostAnalyze(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		c.renderFormError(w, r, "", seo.TypeSEO, "Invalid form data")
		return
	}

	rawURL := r.FormValue("url")
	typ, err := seo.ParseAnalysisType(r.FormValue("analysis_type"))
	if err != nil {
		c.renderFormError(w, r, rawURL, seo.TypeSEO, "Unknown analysis type")
		return
	}

	normalized := urlutil.Normalize(rawURL)
	if rawURL == "" || !govalidator.IsRequestURL(normalized) || urlutil.Validate(normalized) != nil {
		c.renderFormError(w, r, rawURL, typ, "Please enter a valid http or https URL")
		return
	}

	report, err := c.runAndStore(r.Context(), normalized, typ)
	if err != nil {
		log.Printf("Analysis failed for %s (%s): %v", normalized, typ, err)
		c.renderFormError(w, r, rawURL, typ, fmt.Sprintf("Analysis failed: %v", err))
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/result/%d", report.ID), http.StatusSeeOther)
}

// runAndStore executes the analysis and persists the result document.
func (c *AnalyzeController) runAndStore(ctx context.Context, url string, typ seo.AnalysisType) (*models.Report, error) {
	result, err := c.runner.Run(ctx, url, typ)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}

	return c.reports.Create(ctx, &models.Report{
		URL:          url,
		Domain:       urlutil.Domain(url),
		AnalysisType: string(typ),
		Result:       payload,
	})
}

// renderFormError re-renders the form with an inline error message.
func (c *AnalyzeController) renderFormError(w http.ResponseWriter, r *http.Request, rawURL string, typ seo.AnalysisType, message string) {
	data := &views.TemplateData{
		Title:     "SEO Master - Website Analysis",
		CSRFToken: csrf.Token(r),
		Error:     message,
		Data: HomeData{
			Tools:        toolCards(typ),
			SelectedType: typ,
			URL:          rawURL,
		},
	}
	c.templates.Home.ExecuteHTTPWithStatus(w, r, http.StatusUnprocessableEntity, data)
}

// ResultData holds data for the result page template.
type ResultData struct {
	Report          *models.Report
	TypeName        string
	HasScore        bool
	Score           int
	Rating          string
	Recommendations []string
	PrettyResult    string
}

// resultSummary is the subset of fields shared across result shapes,
// used to surface the headline score on the result page.
type resultSummary struct {
	Score               *int     `json:"score"`
	MobileFriendlyScore *int     `json:"mobile_friendly_score"`
	PageSpeedScore      *int     `json:"page_speed_score"`
	ComprehensiveScore  *int     `json:"comprehensive_score"`
	MobileStatus        string   `json:"mobile_friendly_status"`
	SpeedRating         string   `json:"speed_rating"`
	ComprehensiveRating string   `json:"comprehensive_rating"`
	Recommendations     []string `json:"recommendations"`
}

// GetResult renders a stored report.
func (c *AnalyzeController) GetResult(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid report ID", http.StatusBadRequest)
		return
	}

	report, err := c.reports.ByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrReportNotFound) {
			http.NotFound(w, r)
			return
		}
		log.Printf("Failed to load report %d: %v", id, err)
		http.Error(w, "Failed to load report", http.StatusInternalServerError)
		return
	}

	data := &views.TemplateData{
		Title:     fmt.Sprintf("%s report - %s", report.AnalysisType, report.Domain),
		CSRFToken: csrf.Token(r),
		Data:      buildResultData(report),
	}
	c.templates.Result.ExecuteHTTP(w, r, data)
}

func buildResultData(report *models.Report) ResultData {
	data := ResultData{
		Report:   report,
		TypeName: typeName(report.AnalysisType),
	}

	var summary resultSummary
	if err := json.Unmarshal(report.Result, &summary); err == nil {
		switch {
		case summary.ComprehensiveScore != nil:
			data.HasScore, data.Score, data.Rating = true, *summary.ComprehensiveScore, summary.ComprehensiveRating
		case summary.MobileFriendlyScore != nil:
			data.HasScore, data.Score, data.Rating = true, *summary.MobileFriendlyScore, summary.MobileStatus
		case summary.PageSpeedScore != nil:
			data.HasScore, data.Score, data.Rating = true, *summary.PageSpeedScore, summary.SpeedRating
		case summary.Score != nil:
			data.HasScore, data.Score = true, *summary.Score
		}
		data.Recommendations = summary.Recommendations
	}

	var pretty map[string]any
	if err := json.Unmarshal(report.Result, &pretty); err == nil {
		if out, err := json.MarshalIndent(pretty, "", "  "); err == nil {
			data.PrettyResult = string(out)
		}
	}
	if data.PrettyResult == "" {
		data.PrettyResult = string(report.Result)
	}
	return data
}

func typeName(analysisType string) string {
	switch seo.AnalysisType(analysisType) {
	case seo.TypeSEO:
		return "SEO"
	case seo.TypeComprehensive:
		return "comprehensive"
	case seo.TypeMobile:
		return "mobile friendly"
	case seo.TypePageSpeed:
		return "page speed"
	case seo.TypeSearchConsole:
		return "search console"
	case seo.TypeAnalytics:
		return "analytics"
	case seo.TypeAd:
		return "ad"
	default:
		return analysisType
	}
}
