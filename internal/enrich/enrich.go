// Package enrich fills dataset entries with change sets, diffs and file
// snapshots taken from local bare mirrors.
package enrich

import (
	"context"
	"log"
	"path/filepath"

	"github.com/enginetools/diffminer/internal/changeset"
	"github.com/enginetools/diffminer/internal/dataset"
	"github.com/enginetools/diffminer/internal/diffgen"
	"github.com/enginetools/diffminer/internal/gitcmd"
	"github.com/enginetools/diffminer/internal/mirror"
)

// Options controls a batch run.
type Options struct {
	// ReposDir is the base directory holding bare mirrors laid out as
	// <owner>/<repo>.
	ReposDir string

	// FilterPaths, when non-empty, restricts enrichment to entries whose
	// changed files all match at least one pattern.
	FilterPaths []string

	// RemoveComments switches the diff and snapshots to their sanitized
	// form.
	RemoveComments bool
}

// RunReport counts per-entry outcomes of a batch run.
type RunReport struct {
	Total          int
	Enriched       int
	FilteredOut    int
	MissingRepo    int
	MissingHashes  int
	Failed         int
	RemoveComments bool
}

// Enricher runs the enrichment loop over a RunEntryList.
type Enricher struct {
	git  *gitcmd.Git
	opts Options
}

func New(git *gitcmd.Git, opts Options) *Enricher {
	return &Enricher{git: git, opts: opts}
}

// Run enriches every entry in list in place. A failure on one entry skips
// that entry only; the report records how each entry fared.
func (e *Enricher) Run(ctx context.Context, list *dataset.RunEntryList) RunReport {
	report := RunReport{Total: len(list.List), RemoveComments: e.opts.RemoveComments}

	for i := range list.List {
		entry := &list.List[i]
		log.Printf("INFO: processing entry %d/%d: user %q, new hash %q", i+1, len(list.List), entry.User, entry.NewHash)

		switch outcome := e.enrichEntry(ctx, entry); outcome {
		case outcomeEnriched:
			report.Enriched++
		case outcomeFilteredOut:
			report.FilteredOut++
		case outcomeMissingRepo:
			report.MissingRepo++
		case outcomeMissingHashes:
			report.MissingHashes++
		case outcomeFailed:
			report.Failed++
		}
	}

	return report
}

type outcome int

const (
	outcomeEnriched outcome = iota
	outcomeFilteredOut
	outcomeMissingRepo
	outcomeMissingHashes
	outcomeFailed
)

func (e *Enricher) enrichEntry(ctx context.Context, entry *dataset.TestEntry) outcome {
	gitDir, err := e.mirrorPath(entry.URL)
	if err != nil {
		log.Printf("ERROR: cannot determine repo path for URL %q, skipping: %v", entry.URL, err)
		return outcomeMissingRepo
	}
	if !mirror.IsBareRepo(gitDir) {
		log.Printf("ERROR: path %q (from URL %q) is not a bare git repository, skipping", gitDir, entry.URL)
		return outcomeMissingRepo
	}

	if entry.BaseHash == "" || entry.NewHash == "" {
		log.Printf("WARNING: skipping entry for new hash %q in %q: missing base or new hash", entry.NewHash, gitDir)
		return outcomeMissingHashes
	}

	changed, err := changeset.ChangedFiles(ctx, e.git, gitDir, entry.BaseHash, entry.NewHash)
	if err != nil {
		log.Printf("ERROR: cannot list changed files for new hash %q in %q, skipping: %v", entry.NewHash, gitDir, err)
		return outcomeFailed
	}

	if !changeset.MatchesFilters(changed, e.opts.FilterPaths) {
		log.Printf("INFO: skipping %q: changed files %v do not satisfy filter patterns", entry.NewHash, changed)
		return outcomeFilteredOut
	}

	asm := diffgen.New(e.git, gitDir)

	diff, err := e.buildDiff(ctx, asm, gitDir, entry, changed)
	if err != nil {
		log.Printf("ERROR: could not generate diff for new hash %q, recording empty diff: %v", entry.NewHash, err)
		diff = ""
	}
	entry.GitDiff = &diff

	oldVersions, err := asm.Snapshots(ctx, entry.BaseHash, changed, e.opts.RemoveComments)
	if err != nil {
		log.Printf("ERROR: could not snapshot files at base hash %q, skipping: %v", entry.BaseHash, err)
		return outcomeFailed
	}
	newVersions, err := asm.Snapshots(ctx, entry.NewHash, changed, e.opts.RemoveComments)
	if err != nil {
		log.Printf("ERROR: could not snapshot files at new hash %q, skipping: %v", entry.NewHash, err)
		return outcomeFailed
	}

	entry.OldFileVersions = toFileContents(oldVersions)
	entry.NewFileVersions = toFileContents(newVersions)

	log.Printf("INFO: enriched entry for new hash %q from %q", entry.NewHash, gitDir)
	return outcomeEnriched
}

// buildDiff picks the diff strategy: a plain no-prefix git diff, or
// per-file unified fragments over sanitized snapshots.
func (e *Enricher) buildDiff(ctx context.Context, asm *diffgen.Assembler, gitDir string, entry *dataset.TestEntry, changed []string) (string, error) {
	if e.opts.RemoveComments {
		return asm.Build(ctx, entry.BaseHash, entry.NewHash, changed, true)
	}
	if len(changed) == 0 || entry.BaseHash == entry.NewHash {
		return "", nil
	}
	return e.git.DiffFiles(ctx, gitDir, entry.BaseHash, entry.NewHash, changed)
}

func (e *Enricher) mirrorPath(repoURL string) (string, error) {
	owner, repo, err := mirror.ParseRemoteURL(repoURL)
	if err != nil {
		return "", err
	}
	return filepath.Join(e.opts.ReposDir, owner, repo), nil
}

func toFileContents(snaps []diffgen.Snapshot) []dataset.FileContent {
	out := make([]dataset.FileContent, len(snaps))
	for i, s := range snaps {
		out[i] = dataset.FileContent{Filepath: s.Path, Content: s.Content}
	}
	return out
}
