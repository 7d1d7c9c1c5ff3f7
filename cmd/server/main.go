package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"github.com/rahul4469/seo-master/internal/config"
	"github.com/rahul4469/seo-master/internal/controllers"
	"github.com/rahul4469/seo-master/internal/middleware"
	"github.com/rahul4469/seo-master/internal/models"
	"github.com/rahul4469/seo-master/internal/seo"
	"github.com/rahul4469/seo-master/internal/services"
	"github.com/rahul4469/seo-master/internal/views"
	"github.com/rahul4469/seo-master/migrations"
	"github.com/rahul4469/seo-master/templates"
)

func main() {
	cfg := config.MustLoad()
	if err := run(cfg); err != nil {
		log.Fatal(err)
	}
}

func run(cfg *config.Config) error {
	// Setup the Database ---------------
	log.Println("Connecting to database...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := models.NewDatabase(ctx, models.DefaultDatabaseConfig(cfg.Database.URL))
	if err != nil {
		return err
	}
	defer db.Close()
	log.Println("Database connected successfully")

	// run migrations
	if err := models.MigrateFS(cfg.Database.URL, migrations.FS, "."); err != nil {
		return err
	}

	// Setup Services ---------------
	reportService := models.NewReportService(db.Pool)

	fetcherOpts := []seo.FetcherOption{
		seo.WithHTTPClient(&http.Client{Timeout: cfg.Analysis.FetchTimeout}),
		seo.WithRateLimit(cfg.Analysis.RequestsPerSecond, 5),
	}
	if cfg.Analysis.UserAgent != "" {
		fetcherOpts = append(fetcherOpts, seo.WithUserAgent(cfg.Analysis.UserAgent))
	}
	analyzer := seo.NewAnalyzer(
		seo.WithFetcher(seo.NewFetcher(fetcherOpts...)),
		seo.WithNetworkProbes(cfg.Analysis.NetworkProbes),
	)
	runner := services.NewRunner(analyzer)

	// Setup Controllers ---------------
	views.TemplateFS = templates.FS

	homeTpl, err := views.ParseFS("pages/home.gohtml")
	if err != nil {
		return err
	}
	resultTpl, err := views.ParseFS("pages/result.gohtml")
	if err != nil {
		return err
	}
	reportsTpl, err := views.ParseFS("pages/reports.gohtml")
	if err != nil {
		return err
	}

	analyzeCtrl := controllers.NewAnalyzeController(runner, reportService, controllers.AnalyzeTemplates{
		Home:   homeTpl,
		Result: resultTpl,
	})
	reportsCtrl := controllers.NewReportsController(reportService, reportsTpl, cfg.Analysis.RecentReports)
	apiCtrl := controllers.NewAPIController(runner, reportService, services.NewBacklinkService())

	// CSRF middleware
	csrfMw := csrf.Protect(
		[]byte(cfg.Security.CSRFSecret),
		csrf.Secure(cfg.Security.SecureCookies),
		csrf.Path("/"),
		csrf.TrustedOrigins(cfg.Security.TrustedOrigins),
	)

	// Analyses fan out into outbound fetches, so throttle them per
	// client on top of the fetcher's own rate limit.
	analyzeLimiter := middleware.NewRateLimiter(cfg.Analysis.RequestsPerSecond, 5)

	// Setup router and routes
	r := chi.NewRouter()

	// ---- HTML Routes (CSRF protected) ----
	r.Group(func(r chi.Router) {
		r.Use(csrfMw)

		r.Get("/", analyzeCtrl.GetHome)
		r.With(analyzeLimiter.Limit).Post("/analyze", analyzeCtrl.PostAnalyze)
		r.Get("/result/{id}", analyzeCtrl.GetResult)

		r.Get("/reports", reportsCtrl.GetReports)
		r.Get("/reports/{id}/download", reportsCtrl.GetDownload)
		r.Post("/reports/{id}/delete", reportsCtrl.PostDelete)
	})

	// ---- JSON API ----
	r.Route("/api", func(r chi.Router) {
		r.With(analyzeLimiter.Limit).Post("/analyze", apiCtrl.PostAnalyze)
		r.With(analyzeLimiter.Limit).Post("/backlinks", apiCtrl.PostBacklinks)
		r.Get("/reports", apiCtrl.GetReports)
		r.Get("/reports/{id}", apiCtrl.GetReport)
	})

	// Static assets and health check
	r.Handle("/static/*", controllers.StaticHandler(templates.FS))
	r.Get("/healthz", controllers.HealthCheck(db))

	// Start the Server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	log.Printf("Starting server on %s...", server.Addr)
	return server.ListenAndServe()
}
