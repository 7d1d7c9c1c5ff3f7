package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/asaskevich/govalidator"
	"github.com/go-chi/chi/v5"
	"github.com/rahul4469/seo-master/internal/models"
	"github.com/rahul4469/seo-master/internal/seo"
	"github.com/rahul4469/seo-master/internal/services"
	"github.com/rahul4469/seo-master/internal/urlutil"
)

// BacklinkAnalyzer produces a backlink profile for a URL, optionally
// comparing against competitor URLs.
type BacklinkAnalyzer interface {
	Analyze(ctx context.Context, pageURL string, competitorURLs ...string) (*services.BacklinkReport, error)
}

// APIController exposes the JSON API used by integrations and the
// result-page scripts.
type APIController struct {
	runner    AnalysisRunner
	reports   ReportStore
	backlinks BacklinkAnalyzer
}

// NewAPIController creates a new APIController.
func NewAPIController(runner AnalysisRunner, reports ReportStore, backlinks BacklinkAnalyzer) *APIController {
	return &APIController{runner: runner, reports: reports, backlinks: backlinks}
}

type analyzeRequest struct {
	URL          string `json:"url"`
	AnalysisType string `json:"analysis_type"`
}

type apiError struct {
	Error string `json:"error"`
}

// PostAnalyze runs an analysis and stores the report.
//
//	POST /api/analyze {"url": "...", "analysis_type": "seo"}
func (c *APIController) PostAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid JSON body"})
		return
	}

	typ, err := seo.ParseAnalysisType(req.AnalysisType)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "unknown analysis type"})
		return
	}

	normalized := urlutil.Normalize(req.URL)
	if req.URL == "" || !govalidator.IsRequestURL(normalized) || urlutil.Validate(normalized) != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid URL: must be http or https"})
		return
	}

	result, err := c.runner.Run(r.Context(), normalized, typ)
	if err != nil {
		log.Printf("API analysis failed for %s (%s): %v", normalized, typ, err)
		writeJSON(w, http.StatusBadGateway, apiError{Error: err.Error()})
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "failed to encode result"})
		return
	}

	report, err := c.reports.Create(r.Context(), &models.Report{
		URL:          normalized,
		Domain:       urlutil.Domain(normalized),
		AnalysisType: string(typ),
		Result:       payload,
	})
	if err != nil {
		log.Printf("Failed to store report for %s: %v", normalized, err)
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "failed to store report"})
		return
	}

	writeJSON(w, http.StatusCreated, report)
}

type backlinksRequest struct {
	URL         string   `json:"url"`
	Competitors []string `json:"competitors"`
}

// PostBacklinks returns a backlink profile for a URL. Profiles are not
// persisted: they are domain-level snapshots, not page reports.
//
//	POST /api/backlinks {"url": "...", "competitors": ["...", ...]}
func (c *APIController) PostBacklinks(w http.ResponseWriter, r *http.Request) {
	var req backlinksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid JSON body"})
		return
	}

	normalized := urlutil.Normalize(req.URL)
	if req.URL == "" || urlutil.Validate(normalized) != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid URL: must be http or https"})
		return
	}

	report, err := c.backlinks.Analyze(r.Context(), normalized, req.Competitors...)
	if err != nil {
		log.Printf("Backlink analysis failed for %s: %v", normalized, err)
		writeJSON(w, http.StatusBadGateway, apiError{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// GetReports lists recent reports.
func (c *APIController) GetReports(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid limit"})
			return
		}
		limit = parsed
	}

	reports, err := c.reports.Recent(r.Context(), limit)
	if err != nil {
		log.Printf("Failed to list reports: %v", err)
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "failed to list reports"})
		return
	}
	if reports == nil {
		reports = []*models.Report{}
	}
	writeJSON(w, http.StatusOK, reports)
}

// GetReport returns one stored report.
func (c *APIController) GetReport(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid report ID"})
		return
	}

	report, err := c.reports.ByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrReportNotFound) {
			writeJSON(w, http.StatusNotFound, apiError{Error: "report not found"})
			return
		}
		log.Printf("Failed to load report %d: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "failed to load report"})
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Failed to write JSON response: %v", err)
	}
}
