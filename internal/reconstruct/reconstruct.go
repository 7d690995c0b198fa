// Package reconstruct recovers commits that an external test result reports
// but no ref in the mirror can reach anymore, typically after a force-push.
// It replays the hosting API's patch for the commit onto its parent in a
// throwaway working tree and publishes the result into the mirror only when
// the replay is provably equivalent to the original.
package reconstruct

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/enginetools/diffminer/internal/gitcmd"
	"github.com/enginetools/diffminer/internal/githubapi"
	"github.com/enginetools/diffminer/internal/mirror"
)

// CommitAPI is the hosting-API surface reconstruction needs.
type CommitAPI interface {
	Commit(ctx context.Context, owner, repo, sha string) (*githubapi.CommitDetail, error)
}

// Resolution is the outcome of resolving one commit against a mirror.
// Hash is the hash actually usable locally, which differs from the requested
// hash when the commit had to be reconstructed. Exists reports whether the
// hash is proven present in the mirror.
type Resolution struct {
	Hash   string
	Exists bool
}

// Resolver resolves commit hashes against mirrors, reconstructing orphaned
// commits from API data when needed. Not safe for concurrent use, and no two
// resolvers may share a mirror.
type Resolver struct {
	git *gitcmd.Git
	api CommitAPI
}

// NewResolver creates a resolver on top of the git layer and commit API.
func NewResolver(git *gitcmd.Git, api CommitAPI) *Resolver {
	return &Resolver{git: git, api: api}
}

// Resolve guarantees its best effort that hash is retrievable from the
// mirror. Reconstruction failures of any kind are logged and reported as
// "does not exist"; they never abort the caller's batch.
func (r *Resolver) Resolve(ctx context.Context, mirrorPath, repoURL, hash string) Resolution {
	if hash == "" {
		return Resolution{}
	}
	if r.git.CommitExists(ctx, mirrorPath, hash) {
		return Resolution{Hash: hash, Exists: true}
	}
	if !plumbing.IsHash(hash) {
		log.Printf("WARNING: %q is not a commit hash, cannot reconstruct it in %s", hash, repoURL)
		return Resolution{Hash: hash}
	}

	final, err := r.addOrphanedCommit(ctx, mirrorPath, repoURL, hash)
	if err != nil {
		log.Printf("couldn't reconstruct commit %s of %s: %v", hash, repoURL, err)
		final = hash
	}
	return Resolution{Hash: final, Exists: r.git.CommitExists(ctx, mirrorPath, final)}
}

// addOrphanedCommit replays the commit's patch onto its parent inside a
// disposable clone of the mirror. The returned hash is the locally created
// commit; whether it was actually published is observable only through a
// subsequent existence check, mirroring the silent-verification-failure
// contract.
func (r *Resolver) addOrphanedCommit(ctx context.Context, mirrorPath, repoURL, hash string) (string, error) {
	owner, repo, err := mirror.ParseRemoteURL(repoURL)
	if err != nil {
		return hash, err
	}

	detail, err := r.api.Commit(ctx, owner, repo, hash)
	if errors.Is(err, githubapi.ErrNoParents) {
		// Root commit: nothing to replay onto. Give up gracefully.
		return hash, nil
	}
	if err != nil {
		return hash, err
	}
	parent := detail.Parents[0]

	worktree, err := os.MkdirTemp("", "diffminer-orphan-*")
	if err != nil {
		return hash, fmt.Errorf("creating working tree: %w", err)
	}
	defer os.RemoveAll(worktree)

	if err := r.git.Clone(ctx, mirrorPath, worktree); err != nil {
		return hash, err
	}

	patchFile := filepath.Join(worktree, "commit.diff")
	if err := os.WriteFile(patchFile, []byte(detail.Patch), 0o644); err != nil {
		return hash, fmt.Errorf("writing patch file: %w", err)
	}

	if err := r.git.Checkout(ctx, worktree, parent); err != nil {
		return hash, err
	}
	if err := r.git.Apply(ctx, worktree, patchFile); err != nil {
		return hash, err
	}

	changed, err := r.git.ChangedInWorktree(ctx, worktree)
	if err != nil {
		return hash, err
	}
	for _, path := range changed {
		if err := r.git.Add(ctx, worktree, path); err != nil {
			return hash, err
		}
	}

	if err := r.git.Commit(ctx, worktree, detail.Message, detail.Identity); err != nil {
		return hash, err
	}
	newHash, err := r.git.Head(ctx, worktree)
	if err != nil {
		return hash, err
	}

	replayed, err := r.git.DiffAgainst(ctx, worktree, parent)
	if err != nil {
		return newHash, err
	}

	// The correctness gate: only a replay that is textually identical to the
	// original patch, modulo line endings, may enter the shared mirror.
	if normalizeEOL(replayed) == normalizeEOL(detail.Patch) {
		refspec := fmt.Sprintf("%s:refs/heads/%s", newHash, BranchName(hash))
		if err := r.git.Push(ctx, worktree, "origin", refspec); err != nil {
			return newHash, err
		}
	}

	return newHash, nil
}

// BranchName returns the deterministic mirror branch a reconstructed commit
// is published under.
func BranchName(hash string) string {
	short := hash
	if len(short) > 7 {
		short = short[:7]
	}
	return "orphaned-" + short
}

func normalizeEOL(s string) string {
	return strings.ReplaceAll(s, "\r", "")
}
