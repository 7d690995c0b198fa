package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/enginetools/diffminer/config"
	"github.com/enginetools/diffminer/internal/githubapi"
	"github.com/enginetools/diffminer/internal/output"
	"github.com/urfave/cli/v2"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "diffminer",
		Usage:   "Mirror chess-engine repositories and extract test-run change sets",
		Version: "1.0.0",
		Commands: []*cli.Command{
			EnrichCmd(),
			ResolveCmd(),
			MirrorCmd(),
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
			},
		},
	}
}

// getOutputFormat parses the output format flag.
func getOutputFormat(s string) output.OutputFormat {
	switch s {
	case "json":
		return output.FormatJSON
	default:
		return output.FormatConsole
	}
}

// retryPolicy converts the config retry section to the API client's policy.
func retryPolicy(rc config.RetryConfig) githubapi.RetryPolicy {
	return githubapi.RetryPolicy{
		MaxAttempts: rc.MaxAttempts,
		Wait:        time.Duration(rc.WaitSeconds) * time.Second,
		Jitter:      time.Duration(rc.JitterSeconds) * time.Second,
	}
}

// loadConfig loads configuration from file or defaults.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Apply filter overrides from CLI
	if patterns := c.StringSlice("filter-path"); len(patterns) > 0 {
		cfg.Filters.Paths = patterns
	}
	if c.IsSet("remove-comments") {
		cfg.Sanitize.RemoveComments = c.Bool("remove-comments")
	}
	if dir := c.String("repos-dir"); dir != "" {
		cfg.Mirror.BaseDir = dir
	}

	return cfg, nil
}

// Run executes the CLI application.
func Run() {
	if err := App().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
