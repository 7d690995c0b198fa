// Package mirror maintains bare, fetch-only mirrors of remote repositories,
// one per (owner, repo) identity, under a common base directory.
package mirror

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var remoteURLRe = regexp.MustCompile(`(?i)github\.com[:/]([^/]+)/([^/\s]+)`)

// ParseRemoteURL extracts owner/repo from a GitHub remote URL.
func ParseRemoteURL(url string) (owner, repo string, err error) {
	url = strings.TrimSuffix(strings.TrimRight(url, "/"), ".git")
	m := remoteURLRe.FindStringSubmatch(url)
	if len(m) != 3 {
		return "", "", fmt.Errorf("cannot parse owner/repo from remote URL: %s", url)
	}
	return m[1], m[2], nil
}

// GitMirrors is the narrow surface the store needs from the git layer.
type GitMirrors interface {
	MirrorClone(ctx context.Context, repoURL, dest string) error
	RemoteUpdate(ctx context.Context, gitDir string) error
}

// Store owns the mirror directory tree. It tracks repositories that failed
// to clone during this run so later operations against them short-circuit
// instead of re-attempting network I/O. Not safe for concurrent use.
type Store struct {
	baseDir string
	git     GitMirrors
	failed  map[string]struct{}
}

// NewStore creates a store rooted at baseDir.
func NewStore(baseDir string, git GitMirrors) *Store {
	return &Store{
		baseDir: baseDir,
		git:     git,
		failed:  make(map[string]struct{}),
	}
}

// LocalPath derives the on-disk mirror path for a remote URL. It is a pure
// function of the repository identity, so repeated calls for the same remote
// agree and different remotes never collide.
func (s *Store) LocalPath(repoURL string) (string, error) {
	owner, repo, err := ParseRemoteURL(repoURL)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.baseDir, owner, repo), nil
}

// Failed reports whether the repository already failed to clone this run.
func (s *Store) Failed(repoURL string) bool {
	_, ok := s.failed[repoURL]
	return ok
}

// EnsureMirror guarantees a mirror for repoURL exists and is as fresh as the
// network allows. It returns the mirror path and whether it is usable.
//
// A clone failure marks the URL failed for the remainder of the run. An
// update failure on an existing mirror is only a warning: stale data is
// preferable to aborting, since most needed commits are already present.
func (s *Store) EnsureMirror(ctx context.Context, repoURL string) (string, bool) {
	if s.Failed(repoURL) {
		return "", false
	}

	path, err := s.LocalPath(repoURL)
	if err != nil {
		log.Printf("WARNING: %v", err)
		s.failed[repoURL] = struct{}{}
		return "", false
	}

	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		if err := s.git.MirrorClone(ctx, cloneURL(repoURL), path); err != nil {
			log.Printf("couldn't clone repo %s: %v", repoURL, err)
			s.failed[repoURL] = struct{}{}
			return "", false
		}
		return path, true
	}

	if !IsBareRepo(path) {
		log.Printf("WARNING: %s exists but is not a bare repository", path)
		s.failed[repoURL] = struct{}{}
		return "", false
	}

	if err := s.git.RemoteUpdate(ctx, path); err != nil {
		log.Printf("WARNING: couldn't update repo %s: %v", repoURL, err)
	}
	return path, true
}

// IsBareRepo reports whether path looks like a bare repository: HEAD file,
// objects and refs directories, and no nested .git.
func IsBareRepo(path string) bool {
	if fi, err := os.Stat(path); err != nil || !fi.IsDir() {
		return false
	}
	if fi, err := os.Stat(filepath.Join(path, "HEAD")); err != nil || fi.IsDir() {
		return false
	}
	for _, dir := range []string{"objects", "refs"} {
		if fi, err := os.Stat(filepath.Join(path, dir)); err != nil || !fi.IsDir() {
			return false
		}
	}
	if fi, err := os.Stat(filepath.Join(path, ".git")); err == nil && fi.IsDir() {
		return false
	}
	return true
}

func cloneURL(repoURL string) string {
	repoURL = strings.TrimRight(repoURL, "/")
	if strings.HasSuffix(repoURL, ".git") {
		return repoURL
	}
	return repoURL + ".git"
}
