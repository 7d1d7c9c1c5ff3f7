package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"github.com/rahul4469/seo-master/internal/models"
	"github.com/rahul4469/seo-master/internal/views"
)

// ReportsController handles the saved-reports pages.
type ReportsController struct {
	reports  ReportStore
	template *views.Template
	limit    int
}

// NewReportsController creates a new ReportsController.
func NewReportsController(reports ReportStore, template *views.Template, limit int) *ReportsController {
	if limit <= 0 {
		limit = 50
	}
	return &ReportsController{
		reports:  reports,
		template: template,
		limit:    limit,
	}
}

// ReportsData holds data for the reports list template.
type ReportsData struct {
	Reports []*models.Report
}

// GetReports renders the saved reports list.
func (c *ReportsController) GetReports(w http.ResponseWriter, r *http.Request) {
	reports, err := c.reports.Recent(r.Context(), c.limit)
	if err != nil {
		log.Printf("Failed to list reports: %v", err)
		http.Error(w, "Failed to load reports", http.StatusInternalServerError)
		return
	}

	data := &views.TemplateData{
		Title:     "Saved Reports",
		CSRFToken: csrf.Token(r),
		Success:   popFlash(w, r),
		Data:      ReportsData{Reports: reports},
	}
	c.template.ExecuteHTTP(w, r, data)
}

// GetDownload serves a report as a JSON attachment.
func (c *ReportsController) GetDownload(w http.ResponseWriter, r *http.Request) {
	report, ok := c.loadReport(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename()))
	w.WriteHeader(http.StatusOK)
	w.Write(report.Result)
}

// PostDelete removes a report and returns to the list.
func (c *ReportsController) PostDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid report ID", http.StatusBadRequest)
		return
	}

	if err := c.reports.Delete(r.Context(), id); err != nil {
		if errors.Is(err, models.ErrReportNotFound) {
			http.NotFound(w, r)
			return
		}
		log.Printf("Failed to delete report %d: %v", id, err)
		http.Error(w, "Failed to delete report", http.StatusInternalServerError)
		return
	}

	setFlash(w, "Report deleted.")
	http.Redirect(w, r, "/reports", http.StatusSeeOther)
}

func (c *ReportsController) loadReport(w http.ResponseWriter, r *http.Request) (*models.Report, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid report ID", http.StatusBadRequest)
		return nil, false
	}

	report, err := c.reports.ByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrReportNotFound) {
			http.NotFound(w, r)
			return nil, false
		}
		log.Printf("Failed to load report %d: %v", id, err)
		http.Error(w, "Failed to load report", http.StatusInternalServerError)
		return nil, false
	}
	return report, true
}
