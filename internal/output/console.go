package output

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
)

// ConsoleSummaryWriter writes enrichment run summaries to the console.
type ConsoleSummaryWriter struct{}

// Write outputs the run summary to the console.
func (w *ConsoleSummaryWriter) Write(report *SummaryReport, options OutputOptions) error {
	color.Green("Dataset Enrichment Summary")
	fmt.Printf("Input: %s\n", report.InputPath)
	fmt.Printf("Output: %s\n", report.OutputPath)
	fmt.Printf("Generated: %s\n", report.GeneratedAt.Format("2006-01-02T15:04:05"))
	if report.Run.RemoveComments {
		fmt.Println("Comment removal: enabled")
	}
	if len(report.FilterPaths) > 0 {
		fmt.Printf("Filter patterns: %d\n", len(report.FilterPaths))
	}
	fmt.Printf("Total entries: %d\n\n", report.Run.Total)

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Outcome\tEntries")
	fmt.Fprintf(tw, "Enriched\t%d\n", report.Run.Enriched)
	fmt.Fprintf(tw, "Filtered out\t%d\n", report.Run.FilteredOut)
	fmt.Fprintf(tw, "Missing mirror\t%d\n", report.Run.MissingRepo)
	fmt.Fprintf(tw, "Missing hashes\t%d\n", report.Run.MissingHashes)
	fmt.Fprintf(tw, "Failed\t%d\n", report.Run.Failed)
	tw.Flush()

	if report.Run.Failed > 0 {
		color.Yellow("\n%d entries failed; see the log above for details.", report.Run.Failed)
	}
	return nil
}
