// Package diffgen produces normalized unified diffs and per-file content
// snapshots for a changed-file list between two commits. Each file's
// fragment is computed independently from the two snapshots with
// github.com/pmezard/go-difflib, so content can be sanitized before diffing.
package diffgen

import (
	"context"
	"strings"

	difflib "github.com/pmezard/go-difflib/difflib"

	"github.com/enginetools/diffminer/internal/gitcmd"
	"github.com/enginetools/diffminer/internal/sanitize"
)

// contextLines is the number of unchanged lines framing each hunk.
const contextLines = 3

// Snapshot is the content of one file at one commit. Content is nil when the
// file did not exist at that commit; an empty string means the file existed
// but was empty (or sanitized down to nothing). The two are distinct states.
type Snapshot struct {
	Path    string
	Content *string
}

// Assembler reads file content out of one bare repository and assembles
// diffs from it.
type Assembler struct {
	git    *gitcmd.Git
	gitDir string
}

// New creates an assembler for the repository at gitDir.
func New(git *gitcmd.Git, gitDir string) *Assembler {
	return &Assembler{git: git, gitDir: gitDir}
}

// FileAt returns the (optionally sanitized) content of path at rev, or nil
// when the file does not exist there.
func (a *Assembler) FileAt(ctx context.Context, rev, path string, sanitized bool) (*string, error) {
	raw, exists, err := a.git.ShowFile(ctx, a.gitDir, rev, path)
	if err != nil {
		return nil, err
	}
	var content *string
	if exists {
		normalized := process(raw, path, false)
		content = &normalized
	}
	if sanitized {
		content = sanitize.File(content, path)
	}
	return content, nil
}

// Snapshots collects the content of every file at rev.
func (a *Assembler) Snapshots(ctx context.Context, rev string, files []string, sanitized bool) ([]Snapshot, error) {
	snapshots := make([]Snapshot, 0, len(files))
	for _, path := range files {
		content, err := a.FileAt(ctx, rev, path, sanitized)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, Snapshot{Path: path, Content: content})
	}
	return snapshots, nil
}

// Build concatenates per-file unified-diff fragments for the changed files
// between baseHash and newHash. It returns the empty string when either hash
// is empty, the hashes are equal, the file list is empty, or no fragment
// produced any content.
func (a *Assembler) Build(ctx context.Context, baseHash, newHash string, files []string, sanitized bool) (string, error) {
	if baseHash == "" || newHash == "" || baseHash == newHash || len(files) == 0 {
		return "", nil
	}

	var out strings.Builder
	for _, path := range files {
		oldRaw, oldExists, err := a.git.ShowFile(ctx, a.gitDir, baseHash, path)
		if err != nil {
			return "", err
		}
		newRaw, newExists, err := a.git.ShowFile(ctx, a.gitDir, newHash, path)
		if err != nil {
			return "", err
		}
		// Nothing to report for a file absent on both sides, even when
		// sanitized values would trivially differ.
		if !oldExists && !newExists {
			continue
		}

		var oldContent, newContent string
		if oldExists {
			oldContent = process(oldRaw, path, sanitized)
		}
		if newExists {
			newContent = process(newRaw, path, sanitized)
		}

		fragment, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        splitLinesKeepNL(oldContent),
			B:        splitLinesKeepNL(newContent),
			FromFile: "a/" + path,
			ToFile:   "b/" + path,
			Context:  contextLines,
		})
		if err != nil {
			return "", err
		}
		out.WriteString(fragment)
	}
	return out.String(), nil
}

// process mirrors the snapshot normalization rules: whitespace-only content
// collapses to empty even without sanitization; otherwise sanitization is
// applied only when requested.
func process(raw, path string, sanitized bool) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	if !sanitized {
		return raw
	}
	return sanitize.Strip(raw, path)
}

// splitLinesKeepNL splits into line-terminated segments, keeping the
// newlines, so difflib hunks stay line-addressable.
func splitLinesKeepNL(s string) []string {
	if s == "" {
		return []string{}
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
