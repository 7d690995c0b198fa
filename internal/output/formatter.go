package output

import (
	"time"

	"github.com/enginetools/diffminer/internal/enrich"
)

// Compile-time interface conformance checks.
var (
	_ SummaryWriter = (*ConsoleSummaryWriter)(nil)
	_ SummaryWriter = (*JSONSummaryWriter)(nil)
)

// OutputFormat represents the output format type.
type OutputFormat string

const (
	FormatConsole OutputFormat = "console"
	FormatJSON    OutputFormat = "json"
)

// OutputOptions controls output behavior.
type OutputOptions struct {
	Format     OutputFormat
	OutputPath string
}

// SummaryReport holds the result of an enrichment run for reporting.
type SummaryReport struct {
	InputPath   string
	OutputPath  string
	FilterPaths []string
	GeneratedAt time.Time
	Run         enrich.RunReport
}

// SummaryWriter writes enrichment run summaries.
type SummaryWriter interface {
	Write(report *SummaryReport, options OutputOptions) error
}

// NewSummaryWriter creates a summary writer for the specified format.
func NewSummaryWriter(format OutputFormat) SummaryWriter {
	switch format {
	case FormatJSON:
		return &JSONSummaryWriter{}
	default:
		return &ConsoleSummaryWriter{}
	}
}
