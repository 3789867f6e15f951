package pipeline

import (
	"github.com/oukeidos/locstr/internal/progress"
	"github.com/oukeidos/locstr/internal/translator"
)

// Status is the terminal state of a translation run.
type Status string

const (
	StatusSuccess        Status = "Success"
	StatusPartialSuccess Status = "Partial Success"
	StatusFailure        Status = "Failure"
	StatusSkipped        Status = "Skipped"
	StatusDryRun         Status = "Dry Run"
)

// Result contains structured outputs from Run.
type Result struct {
	Status     Status
	RunID      string
	OutputPath string
	ReportPath string
	Usage      translator.Usage
	Cost       float64
	Summary    progress.Summary
}

func statusFor(s progress.Summary) Status {
	switch {
	case s.TotalStrings == 0:
		return StatusSuccess
	case len(s.FailedPaths) == 0:
		return StatusSuccess
	case s.CompletedStrings == 0:
		return StatusFailure
	default:
		return StatusPartialSuccess
	}
}
