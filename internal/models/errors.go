package models

import "errors"

// Report related errors
var (
	ErrReportNotFound      = errors.New("report not found")
	ErrUnknownAnalysisType = errors.New("unknown analysis type")
)
