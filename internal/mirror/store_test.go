package mirror

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/enginetools/diffminer/internal/gitcmd"
)

func TestParseRemoteURL(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantOwner string
		wantRepo  string
		wantErr   bool
	}{
		{name: "https", url: "https://github.com/official-stockfish/Stockfish", wantOwner: "official-stockfish", wantRepo: "Stockfish"},
		{name: "https with .git", url: "https://github.com/owner/repo.git", wantOwner: "owner", wantRepo: "repo"},
		{name: "trailing slash", url: "https://github.com/owner/repo/", wantOwner: "owner", wantRepo: "repo"},
		{name: "ssh style", url: "git@github.com:owner/repo.git", wantOwner: "owner", wantRepo: "repo"},
		{name: "not github", url: "https://gitlab.com/owner/repo", wantErr: true},
		{name: "garbage", url: "not a url", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, repo, err := ParseRemoteURL(tt.url)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.url)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRemoteURL(%q) returned error: %v", tt.url, err)
			}
			if owner != tt.wantOwner || repo != tt.wantRepo {
				t.Errorf("got (%q, %q), expected (%q, %q)", owner, repo, tt.wantOwner, tt.wantRepo)
			}
		})
	}
}

func TestLocalPath_Deterministic(t *testing.T) {
	s := NewStore("/mirrors", nil)

	p1, err := s.LocalPath("https://github.com/owner/repo")
	if err != nil {
		t.Fatalf("LocalPath returned error: %v", err)
	}
	p2, err := s.LocalPath("https://github.com/owner/repo.git")
	if err != nil {
		t.Fatalf("LocalPath returned error: %v", err)
	}
	if p1 != p2 {
		t.Errorf("paths differ for the same identity: %q vs %q", p1, p2)
	}
	if want := filepath.Join("/mirrors", "owner", "repo"); p1 != want {
		t.Errorf("path = %q, expected %q", p1, want)
	}

	other, err := s.LocalPath("https://github.com/owner/other")
	if err != nil {
		t.Fatalf("LocalPath returned error: %v", err)
	}
	if other == p1 {
		t.Error("different remotes derived the same path")
	}
}

func TestEnsureMirror_ClonesWhenAbsent(t *testing.T) {
	base := t.TempDir()
	m := gitcmd.NewMockRunner()
	s := NewStore(base, gitcmd.New(m))

	path, ok := s.EnsureMirror(context.Background(), "https://github.com/owner/repo")
	if !ok {
		t.Fatal("EnsureMirror = not ok, expected ok")
	}
	if want := filepath.Join(base, "owner", "repo"); path != want {
		t.Errorf("path = %q, expected %q", path, want)
	}

	want := "git clone --quiet --mirror https://github.com/owner/repo.git " + path
	if got := m.CommandLines()[0]; got != want {
		t.Errorf("command line = %q, expected %q", got, want)
	}
}

// writeBareRepoFixture lays out the minimal shape of a bare repository.
func writeBareRepoFixture(t *testing.T, path string) {
	t.Helper()
	for _, dir := range []string{"objects", "refs"} {
		if err := os.MkdirAll(filepath.Join(path, dir), 0o755); err != nil {
			t.Fatalf("fixture mkdir: %v", err)
		}
	}
	if err := os.WriteFile(filepath.Join(path, "HEAD"), []byte("ref: refs/heads/master\n"), 0o644); err != nil {
		t.Fatalf("fixture HEAD: %v", err)
	}
}

func TestEnsureMirror_UpdatesWhenPresent(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "owner", "repo")
	writeBareRepoFixture(t, path)

	m := gitcmd.NewMockRunner()
	s := NewStore(base, gitcmd.New(m))

	got, ok := s.EnsureMirror(context.Background(), "https://github.com/owner/repo")
	if !ok || got != path {
		t.Fatalf("EnsureMirror = (%q, %v), expected (%q, true)", got, ok, path)
	}

	lines := m.CommandLines()
	if len(lines) != 1 || lines[0] != "git --git-dir="+path+" remote update" {
		t.Errorf("command lines = %v, expected a single remote update", lines)
	}

	// Idempotent: a second call issues another update, never a reclone.
	if _, ok := s.EnsureMirror(context.Background(), "https://github.com/owner/repo"); !ok {
		t.Fatal("second EnsureMirror = not ok")
	}
	for _, line := range m.CommandLines() {
		if line == "git clone --quiet --mirror https://github.com/owner/repo.git "+path {
			t.Error("existing mirror was recloned")
		}
	}
}

func TestEnsureMirror_UpdateFailureKeepsMirror(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "owner", "repo")
	writeBareRepoFixture(t, path)

	m := gitcmd.NewMockRunner()
	m.Script("git --git-dir="+path+" remote update",
		gitcmd.Result{ExitCode: 1, Stderr: "fatal: unable to access"})
	s := NewStore(base, gitcmd.New(m))

	got, ok := s.EnsureMirror(context.Background(), "https://github.com/owner/repo")
	if !ok || got != path {
		t.Errorf("EnsureMirror = (%q, %v); stale mirror should remain usable", got, ok)
	}
	if s.Failed("https://github.com/owner/repo") {
		t.Error("update failure marked the repository failed")
	}
}

func TestEnsureMirror_CloneFailureIsCached(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "owner", "repo")

	m := gitcmd.NewMockRunner()
	m.Script("git clone --quiet --mirror https://github.com/owner/repo.git "+path,
		gitcmd.Result{ExitCode: 128, Stderr: "fatal: could not read Username"})
	s := NewStore(base, gitcmd.New(m))

	if _, ok := s.EnsureMirror(context.Background(), "https://github.com/owner/repo"); ok {
		t.Fatal("EnsureMirror = ok after failed clone")
	}
	if !s.Failed("https://github.com/owner/repo") {
		t.Fatal("failed clone was not recorded")
	}

	// Second call must short-circuit without any further subprocess work.
	calls := len(m.Calls)
	if _, ok := s.EnsureMirror(context.Background(), "https://github.com/owner/repo"); ok {
		t.Fatal("EnsureMirror = ok for a known-failed URL")
	}
	if len(m.Calls) != calls {
		t.Errorf("short-circuit still issued %d new commands", len(m.Calls)-calls)
	}
}

func TestEnsureMirror_SpawnErrorIsCached(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "owner", "repo")

	m := gitcmd.NewMockRunner()
	m.ScriptError("git clone --quiet --mirror https://github.com/owner/repo.git "+path,
		errors.New("exec: git: not found"))
	s := NewStore(base, gitcmd.New(m))

	if _, ok := s.EnsureMirror(context.Background(), "https://github.com/owner/repo"); ok {
		t.Fatal("EnsureMirror = ok after spawn failure")
	}
	if !s.Failed("https://github.com/owner/repo") {
		t.Error("spawn failure was not recorded")
	}
}

func TestIsBareRepo(t *testing.T) {
	base := t.TempDir()

	bare := filepath.Join(base, "bare")
	writeBareRepoFixture(t, bare)
	if !IsBareRepo(bare) {
		t.Error("IsBareRepo = false for a bare layout")
	}

	if IsBareRepo(filepath.Join(base, "missing")) {
		t.Error("IsBareRepo = true for a missing path")
	}

	worktree := filepath.Join(base, "worktree")
	writeBareRepoFixture(t, worktree)
	if err := os.MkdirAll(filepath.Join(worktree, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	if IsBareRepo(worktree) {
		t.Error("IsBareRepo = true for a repository with a working tree")
	}
}
