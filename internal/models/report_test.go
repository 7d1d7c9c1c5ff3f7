package models_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahul4469/seo-master/internal/models"
)

func TestReportFilename(t *testing.T) {
	t.Parallel()

	report := &models.Report{
		AnalysisType: "seo",
		CreatedAt:    time.Date(2024, time.March, 5, 14, 30, 45, 0, time.UTC),
	}
	assert.Equal(t, "seo_report_20240305_143045.json", report.Filename())

	report.AnalysisType = "pagespeed"
	assert.Equal(t, "pagespeed_report_20240305_143045.json", report.Filename())
}

func TestDefaultDatabaseConfig(t *testing.T) {
	t.Parallel()

	cfg := models.DefaultDatabaseConfig("postgres://localhost:5432/seomaster")
	assert.Equal(t, "postgres://localhost:5432/seomaster", cfg.URL)
	assert.Equal(t, int32(25), cfg.MaxConns)
	assert.Equal(t, int32(5), cfg.MinConns)
	assert.Equal(t, time.Hour, cfg.MaxConnLifetime)
	assert.Equal(t, 30*time.Minute, cfg.MaxConnIdleTime)
}

func TestNewDatabaseBadURL(t *testing.T) {
	t.Parallel()

	_, err := models.NewDatabase(context.Background(), models.DefaultDatabaseConfig("://not-a-url"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse database URL")
}
