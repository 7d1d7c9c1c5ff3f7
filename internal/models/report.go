package models

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Report is one stored analysis result. The result payload is kept as
// raw JSON: each analysis type has its own shape and the web layer
// renders from the decoded document.
type Report struct {
	ID           int64           `json:"id"`
	URL          string          `json:"url"`
	Domain       string          `json:"domain"`
	AnalysisType string          `json:"analysis_type"`
	Result       json.RawMessage `json:"result"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Filename is the download name of the report, matching the
// {type}_report_{timestamp} convention of the exported JSON files.
func (r *Report) Filename() string {
	return fmt.Sprintf("%s_report_%s.json", r.AnalysisType, r.CreatedAt.Format("20060102_150405"))
}

type ReportService struct {
	pool *pgxpool.Pool
}

func NewReportService(pool *pgxpool.Pool) *ReportService {
	return &ReportService{pool: pool}
}

// Create stores a finished analysis result.
func (s *ReportService) Create(ctx context.Context, report *Report) (*Report, error) {
	query := `
		INSERT INTO reports (url, domain, analysis_type, result)
		VALUES ($1, $2, $3, $4)
		RETURNING id, url, domain, analysis_type, result, created_at
	`

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	result := &Report{}
	err := s.pool.QueryRow(ctx, query,
		report.URL,
		report.Domain,
		report.AnalysisType,
		report.Result,
	).Scan(
		&result.ID,
		&result.URL,
		&result.Domain,
		&result.AnalysisType,
		&result.Result,
		&result.CreatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.CheckViolation {
			return nil, ErrUnknownAnalysisType
		}
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	return result, nil
}

// ByID retrieves a report by its ID.
func (s *ReportService) ByID(ctx context.Context, id int64) (*Report, error) {
	query := `
		SELECT id, url, domain, analysis_type, result, created_at
		FROM reports
		WHERE id = $1
	`

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	report := &Report{}
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&report.ID,
		&report.URL,
		&report.Domain,
		&report.AnalysisType,
		&report.Result,
		&report.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	return report, nil
}

// Recent lists the newest reports, with the result payload included.
func (s *ReportService) Recent(ctx context.Context, limit int) ([]*Report, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, url, domain, analysis_type, result, created_at
		FROM reports
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []*Report
	for rows.Next() {
		report := &Report{}
		err := rows.Scan(
			&report.ID,
			&report.URL,
			&report.Domain,
			&report.AnalysisType,
			&report.Result,
			&report.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read reports: %w", err)
	}

	return reports, nil
}

// ByDomain lists reports for one registrable domain, newest first.
func (s *ReportService) ByDomain(ctx context.Context, domain string, limit int) ([]*Report, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, url, domain, analysis_type, result, created_at
		FROM reports
		WHERE domain = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.pool.Query(ctx, query, domain, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports for domain: %w", err)
	}
	defer rows.Close()

	var reports []*Report
	for rows.Next() {
		report := &Report{}
		err := rows.Scan(
			&report.ID,
			&report.URL,
			&report.Domain,
			&report.AnalysisType,
			&report.Result,
			&report.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read reports: %w", err)
	}

	return reports, nil
}

// Delete removes a report.
func (s *ReportService) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM reports WHERE id = $1`

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrReportNotFound
	}
	return nil
}

// CountByType returns the number of stored reports per analysis type.
func (s *ReportService) CountByType(ctx context.Context) (map[string]int, error) {
	query := `
		SELECT analysis_type, COUNT(*)
		FROM reports
		GROUP BY analysis_type
	`

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count reports: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var analysisType string
		var count int
		if err := rows.Scan(&analysisType, &count); err != nil {
			return nil, fmt.Errorf("failed to scan report count: %w", err)
		}
		counts[analysisType] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read report counts: %w", err)
	}

	return counts, nil
}
