package gitcmd

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// Identity carries the author/committer metadata applied to a commit.
// Dates are passed through verbatim in whatever format the hosting API
// reported them; git accepts ISO 8601.
type Identity struct {
	AuthorName     string
	AuthorEmail    string
	AuthorDate     string
	CommitterName  string
	CommitterEmail string
	CommitterDate  string
}

// Env returns the GIT_AUTHOR_*/GIT_COMMITTER_* variables for this identity.
func (id Identity) Env() []string {
	return []string{
		"GIT_AUTHOR_NAME=" + id.AuthorName,
		"GIT_AUTHOR_EMAIL=" + id.AuthorEmail,
		"GIT_AUTHOR_DATE=" + id.AuthorDate,
		"GIT_COMMITTER_NAME=" + id.CommitterName,
		"GIT_COMMITTER_EMAIL=" + id.CommitterEmail,
		"GIT_COMMITTER_DATE=" + id.CommitterDate,
	}
}

// Git wraps the narrow set of git commands the mirroring and diff pipeline
// needs. Bare-repository operations address the repository with --git-dir so
// no ambient working directory is involved; working-tree operations take the
// tree path explicitly.
type Git struct {
	runner Runner
}

// New creates a Git wrapper on top of the given runner.
func New(r Runner) *Git {
	return &Git{runner: r}
}

func (g *Git) run(ctx context.Context, c Command) (Result, error) {
	res, err := g.runner.Run(ctx, c)
	if err != nil {
		return res, fmt.Errorf("git %s: %w", strings.Join(c.Args, " "), err)
	}
	return res, nil
}

// fail builds an error carrying the full command context, per the
// tool-failure logging contract.
func fail(c Command, res Result) error {
	return fmt.Errorf("git %s: exit %d: %s",
		strings.Join(c.Args, " "), res.ExitCode, strings.TrimSpace(res.Stderr))
}

// MirrorClone creates a bare, fetch-mirrored clone of repoURL at dest.
func (g *Git) MirrorClone(ctx context.Context, repoURL, dest string) error {
	c := Command{
		Name: "git",
		Args: []string{"clone", "--quiet", "--mirror", repoURL, dest},
		Env:  []string{"GIT_TERMINAL_PROMPT=0"},
	}
	res, err := g.run(ctx, c)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fail(c, res)
	}
	return nil
}

// RemoteUpdate fetches all refs into an existing mirror.
func (g *Git) RemoteUpdate(ctx context.Context, gitDir string) error {
	c := Command{
		Name: "git",
		Args: []string{"--git-dir=" + gitDir, "remote", "update"},
		Env:  []string{"GIT_TERMINAL_PROMPT=0"},
	}
	res, err := g.run(ctx, c)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fail(c, res)
	}
	return nil
}

// CommitExists reports whether the object is present in the repository.
func (g *Git) CommitExists(ctx context.Context, gitDir, hash string) bool {
	c := Command{
		Name: "git",
		Args: []string{"--git-dir=" + gitDir, "cat-file", "-e", hash},
	}
	res, err := g.runner.Run(ctx, c)
	if err != nil {
		log.Printf("WARNING: cat-file -e %s in %s: %v", hash, gitDir, err)
		return false
	}
	return res.ExitCode == 0
}

// NameOnlyDiff returns the paths that differ between two revisions.
func (g *Git) NameOnlyDiff(ctx context.Context, gitDir, revA, revB string) ([]string, error) {
	c := Command{
		Name: "git",
		Args: []string{"--git-dir=" + gitDir, "diff", "--name-only", revA, revB},
	}
	res, err := g.run(ctx, c)
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		return nil, fail(c, res)
	}
	return splitLines(res.Stdout), nil
}

// DiffFiles returns the unified diff between two revisions restricted to the
// given paths, without a/ b/ prefixes.
func (g *Git) DiffFiles(ctx context.Context, gitDir, revA, revB string, paths []string) (string, error) {
	args := append([]string{"--git-dir=" + gitDir, "diff", "--no-prefix", revA, revB, "--"}, paths...)
	c := Command{Name: "git", Args: args}
	res, err := g.run(ctx, c)
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", fail(c, res)
	}
	return res.Stdout, nil
}

// Messages git prints when a path has no blob at the requested revision.
var missingBlobMarkers = []string{
	"does not exist",
	"invalid object name",
	"exists on disk, but not in",
}

// ShowFile returns the content of path at rev. The second return value is
// false when the file did not exist at that revision; that case is not an
// error. Other git failures are logged and also reported as not-present, so a
// single unreadable blob never aborts a batch.
func (g *Git) ShowFile(ctx context.Context, gitDir, rev, path string) (string, bool, error) {
	c := Command{
		Name: "git",
		Args: []string{"--git-dir=" + gitDir, "show", rev + ":" + path},
	}
	res, err := g.run(ctx, c)
	if err != nil {
		return "", false, err
	}
	if res.ExitCode != 0 {
		stderr := strings.ToLower(res.Stderr)
		for _, marker := range missingBlobMarkers {
			if strings.Contains(stderr, marker) {
				return "", false, nil
			}
		}
		log.Printf("WARNING: %v", fail(c, res))
		return "", false, nil
	}
	return res.Stdout, true, nil
}

// Clone clones src into dest with a working tree. LFS smudging is disabled:
// reconstruction only needs the text of the tree, and mirrors carry no LFS
// objects to smudge from.
func (g *Git) Clone(ctx context.Context, src, dest string) error {
	c := Command{
		Name: "git",
		Args: []string{"clone", "--quiet", src, dest},
		Env:  []string{"GIT_LFS_SKIP_SMUDGE=1"},
	}
	res, err := g.run(ctx, c)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fail(c, res)
	}
	return nil
}

// Checkout checks out rev in the given working tree.
func (g *Git) Checkout(ctx context.Context, worktree, rev string) error {
	c := Command{
		Name: "git",
		Args: []string{"checkout", "--quiet", rev},
		Dir:  worktree,
		Env:  []string{"GIT_LFS_SKIP_SMUDGE=1"},
	}
	res, err := g.run(ctx, c)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fail(c, res)
	}
	return nil
}

// Apply applies a patch file to the working tree.
func (g *Git) Apply(ctx context.Context, worktree, patchFile string) error {
	c := Command{
		Name: "git",
		Args: []string{"apply", "--quiet", patchFile},
		Dir:  worktree,
	}
	res, err := g.run(ctx, c)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fail(c, res)
	}
	return nil
}

// ChangedInWorktree lists paths modified in the working tree relative to the
// index.
func (g *Git) ChangedInWorktree(ctx context.Context, worktree string) ([]string, error) {
	c := Command{
		Name: "git",
		Args: []string{"diff", "--name-only"},
		Dir:  worktree,
	}
	res, err := g.run(ctx, c)
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		return nil, fail(c, res)
	}
	return splitLines(res.Stdout), nil
}

// Add stages a single path in the working tree.
func (g *Git) Add(ctx context.Context, worktree, path string) error {
	c := Command{
		Name: "git",
		Args: []string{"add", path},
		Dir:  worktree,
	}
	res, err := g.run(ctx, c)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fail(c, res)
	}
	return nil
}

// Commit creates a commit with the given message and identity.
func (g *Git) Commit(ctx context.Context, worktree, message string, id Identity) error {
	c := Command{
		Name: "git",
		Args: []string{"commit", "--quiet", "-m", message},
		Dir:  worktree,
		Env:  id.Env(),
	}
	res, err := g.run(ctx, c)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fail(c, res)
	}
	return nil
}

// Head resolves HEAD of the working tree to a hash.
func (g *Git) Head(ctx context.Context, worktree string) (string, error) {
	c := Command{
		Name: "git",
		Args: []string{"rev-parse", "HEAD"},
		Dir:  worktree,
	}
	res, err := g.run(ctx, c)
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", fail(c, res)
	}
	return strings.TrimSpace(res.Stdout), nil
}

// DiffAgainst returns the diff of the working tree's HEAD against rev.
func (g *Git) DiffAgainst(ctx context.Context, worktree, rev string) (string, error) {
	c := Command{
		Name: "git",
		Args: []string{"diff", rev},
		Dir:  worktree,
	}
	res, err := g.run(ctx, c)
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", fail(c, res)
	}
	return res.Stdout, nil
}

// Push pushes a local commit to a branch ref on the named remote.
func (g *Git) Push(ctx context.Context, worktree, remote, refspec string) error {
	c := Command{
		Name: "git",
		Args: []string{"push", "--quiet", remote, refspec},
		Dir:  worktree,
	}
	res, err := g.run(ctx, c)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fail(c, res)
	}
	return nil
}

func splitLines(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
}
