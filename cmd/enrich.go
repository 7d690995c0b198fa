package cmd

import (
	"fmt"
	"time"

	"github.com/enginetools/diffminer/internal/dataset"
	"github.com/enginetools/diffminer/internal/enrich"
	"github.com/enginetools/diffminer/internal/gitcmd"
	"github.com/enginetools/diffminer/internal/output"
	"github.com/urfave/cli/v2"
)

// EnrichCmd returns the enrich command.
func EnrichCmd() *cli.Command {
	return &cli.Command{
		Name:  "enrich",
		Usage: "Fill dataset entries with diffs and file contents from local bare mirrors",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Usage:    "Path to the input JSON file (run entry list)",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "output",
				Aliases:  []string{"o"},
				Usage:    "Path to the output JSON file",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "repos-dir",
				Usage: "Base directory holding bare mirrors (owner/repo layout)",
			},
			&cli.BoolFlag{
				Name:  "remove-comments",
				Usage: "Strip C-style comments from source files and diff the stripped content",
			},
			&cli.StringSliceFlag{
				Name:  "filter-path",
				Usage: "Glob pattern changed files must match (can be specified multiple times)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Summary format (console, json)",
				Value:   "console",
			},
			&cli.StringFlag{
				Name:  "summary-output",
				Usage: "Summary file path (default: stdout)",
			},
		},
		Action: enrichAction,
	}
}

func enrichAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	inputPath := c.String("input")
	outputPath := c.String("output")

	list, err := dataset.Load(inputPath)
	if err != nil {
		return fmt.Errorf("failed to load input: %w", err)
	}

	enricher := enrich.New(gitcmd.New(gitcmd.ExecRunner{}), enrich.Options{
		ReposDir:       cfg.Mirror.BaseDir,
		FilterPaths:    cfg.Filters.Paths,
		RemoveComments: cfg.Sanitize.RemoveComments,
	})
	report := enricher.Run(c.Context, list)

	if err := dataset.Save(outputPath, list); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	summary := &output.SummaryReport{
		InputPath:   inputPath,
		OutputPath:  outputPath,
		FilterPaths: cfg.Filters.Paths,
		GeneratedAt: time.Now(),
		Run:         report,
	}
	format := getOutputFormat(c.String("format"))
	writer := output.NewSummaryWriter(format)
	return writer.Write(summary, output.OutputOptions{
		Format:     format,
		OutputPath: c.String("summary-output"),
	})
}
