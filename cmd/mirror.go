package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

// MirrorCmd returns the mirror command.
func MirrorCmd() *cli.Command {
	return &cli.Command{
		Name:  "mirror",
		Usage: "Create or update the bare mirror for a repository",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "url",
				Aliases:  []string{"u"},
				Usage:    "Repository URL (github.com/<owner>/<repo>)",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "repos-dir",
				Usage: "Base directory holding bare mirrors",
			},
		},
		Action: mirrorAction,
	}
}

func mirrorAction(c *cli.Context) error {
	cmdCtx, err := NewCommandContext(c)
	if err != nil {
		return err
	}

	repoURL := c.String("url")
	path, ok := cmdCtx.Store.EnsureMirror(c.Context, repoURL)
	if !ok {
		return fmt.Errorf("could not mirror %s", repoURL)
	}
	fmt.Printf("Mirror ready: %s\n", path)
	return nil
}
