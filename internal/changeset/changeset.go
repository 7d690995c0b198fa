// Package changeset computes the file paths that differ between two commits
// and evaluates glob-based inclusion filters over them.
package changeset

import (
	"context"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/enginetools/diffminer/internal/gitcmd"
)

// ChangedFiles returns the paths that differ between two commits in the
// mirror, in the diff tool's traversal order. Empty hashes and equal hashes
// both mean "nothing to compare" and yield an empty list without touching
// git; a diff-tool failure is a real error, distinct from "no changes".
func ChangedFiles(ctx context.Context, g *gitcmd.Git, gitDir, baseHash, newHash string) ([]string, error) {
	if baseHash == "" || newHash == "" {
		return nil, nil
	}
	if baseHash == newHash {
		return nil, nil
	}
	return g.NameOnlyDiff(ctx, gitDir, baseHash, newHash)
}

// MatchesFilters reports whether every path matches at least one pattern:
// conjunction over paths, disjunction over patterns per path. An empty
// pattern list accepts everything. An empty path list with a non-empty
// pattern list fails, so callers need at least one real change to qualify.
func MatchesFilters(paths, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	if len(paths) == 0 {
		return false
	}
	for _, path := range paths {
		if !matchesAny(path, patterns) {
			return false
		}
	}
	return true
}

// matchesAny approximates shell-style matching where a bare "*" can reach
// anywhere into the tree. doublestar's "*" stops at path separators, so each
// pattern is also tried anchored under any directory. One divergence stays:
// an interior "*" never spans a directory boundary, so "*a*b.c" does not
// match "x/ay/b.c". None of the shipped filter patterns relies on that.
func matchesAny(path string, patterns []string) bool {
	path = strings.ReplaceAll(path, "\\", "/")
	for _, pattern := range patterns {
		if matched, _ := doublestar.Match(pattern, path); matched {
			return true
		}
		if matched, _ := doublestar.Match("**/"+pattern, path); matched {
			return true
		}
	}
	return false
}
