package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

// ResolveCmd returns the resolve command.
func ResolveCmd() *cli.Command {
	return &cli.Command{
		Name:  "resolve",
		Usage: "Ensure a repository's mirror and resolve base/new commit hashes against it",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "url",
				Aliases:  []string{"u"},
				Usage:    "Repository URL (github.com/<owner>/<repo>)",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "base-hash",
				Usage: "Base commit hash to resolve",
			},
			&cli.StringFlag{
				Name:  "new-hash",
				Usage: "New commit hash to resolve",
			},
			&cli.StringFlag{
				Name:  "repos-dir",
				Usage: "Base directory holding bare mirrors",
			},
		},
		Action: resolveAction,
	}
}

func resolveAction(c *cli.Context) error {
	cmdCtx, err := NewCommandContext(c)
	if err != nil {
		return err
	}

	repoURL := c.String("url")
	path, ok := cmdCtx.Store.EnsureMirror(c.Context, repoURL)
	if !ok {
		return fmt.Errorf("could not mirror %s", repoURL)
	}
	fmt.Printf("Mirror: %s\n", path)

	for _, hash := range []string{c.String("base-hash"), c.String("new-hash")} {
		if hash == "" {
			continue
		}
		res := cmdCtx.Resolver.Resolve(c.Context, path, repoURL, hash)
		if res.Exists {
			color.Green("%s -> %s (present)", hash, res.Hash)
		} else {
			color.Red("%s (absent)", hash)
		}
	}
	return nil
}
