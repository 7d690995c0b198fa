package cmd

import (
	"os"

	"github.com/enginetools/diffminer/config"
	"github.com/enginetools/diffminer/internal/gitcmd"
	"github.com/enginetools/diffminer/internal/githubapi"
	"github.com/enginetools/diffminer/internal/mirror"
	"github.com/enginetools/diffminer/internal/reconstruct"
	"github.com/urfave/cli/v2"
)

// CommandContext holds common state for command execution.
// It encapsulates the shared wiring across commands.
type CommandContext struct {
	Config   *config.Config
	Git      *gitcmd.Git
	Store    *mirror.Store
	Resolver *reconstruct.Resolver
}

// NewCommandContext creates a context from CLI flags. It loads the
// configuration and wires the git layer, mirror store, hosting API client
// and commit resolver.
func NewCommandContext(c *cli.Context) (*CommandContext, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	git := gitcmd.New(gitcmd.ExecRunner{})
	store := mirror.NewStore(cfg.Mirror.BaseDir, git)
	api := githubapi.NewClient(cfg.API.BaseURL, os.Getenv(cfg.API.TokenEnv), retryPolicy(cfg.API.Retry))

	return &CommandContext{
		Config:   cfg,
		Git:      git,
		Store:    store,
		Resolver: reconstruct.NewResolver(git, api),
	}, nil
}
