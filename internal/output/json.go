package output

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// JSONSummaryWriter writes enrichment run summaries as JSON.
type JSONSummaryWriter struct{}

// JSONSummary is the JSON output structure for a run summary.
type JSONSummary struct {
	Input          string   `json:"input"`
	Output         string   `json:"output"`
	GeneratedAt    string   `json:"generatedAt"`
	RemoveComments bool     `json:"removeComments"`
	FilterPaths    []string `json:"filterPaths,omitempty"`
	Total          int      `json:"total"`
	Enriched       int      `json:"enriched"`
	FilteredOut    int      `json:"filteredOut"`
	MissingRepo    int      `json:"missingRepo"`
	MissingHashes  int      `json:"missingHashes"`
	Failed         int      `json:"failed"`
}

// Write outputs the run summary as JSON.
func (w *JSONSummaryWriter) Write(report *SummaryReport, options OutputOptions) error {
	summary := JSONSummary{
		Input:          report.InputPath,
		Output:         report.OutputPath,
		GeneratedAt:    report.GeneratedAt.Format(time.RFC3339),
		RemoveComments: report.Run.RemoveComments,
		FilterPaths:    report.FilterPaths,
		Total:          report.Run.Total,
		Enriched:       report.Run.Enriched,
		FilteredOut:    report.Run.FilteredOut,
		MissingRepo:    report.Run.MissingRepo,
		MissingHashes:  report.Run.MissingHashes,
		Failed:         report.Run.Failed,
	}
	return writeJSON(summary, options.OutputPath)
}

func writeJSON(data interface{}, outputPath string) error {
	encoder := json.NewEncoder(os.Stdout)
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return err
		}
		defer file.Close()
		encoder = json.NewEncoder(file)
	}

	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
