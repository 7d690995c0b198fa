package gitcmd

import (
	"context"
	"runtime"
	"strings"
	"testing"
)

func TestExecRunner_CapturesStdout(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}

	res, err := ExecRunner{}.Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "echo out; echo err 1>&2"},
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d, expected 0", res.ExitCode)
	}
	if strings.TrimSpace(res.Stdout) != "out" {
		t.Errorf("Stdout = %q, expected out", res.Stdout)
	}
	if strings.TrimSpace(res.Stderr) != "err" {
		t.Errorf("Stderr = %q, expected err", res.Stderr)
	}
}

func TestExecRunner_NonZeroExitIsNotAnError(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}

	res, err := ExecRunner{}.Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "exit 3"},
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if res.ExitCode != 3 {
		t.Errorf("ExitCode = %d, expected 3", res.ExitCode)
	}
}

func TestExecRunner_MissingBinary(t *testing.T) {
	_, err := ExecRunner{}.Run(context.Background(), Command{
		Name: "definitely-not-a-real-binary-1b2c3",
	})
	if err == nil {
		t.Fatal("expected spawn error for missing binary")
	}
}

func TestMockRunner_RecordsCalls(t *testing.T) {
	m := NewMockRunner()
	m.Script("git rev-parse HEAD", Result{Stdout: "abc\n"})

	res, err := m.Run(context.Background(), Command{Name: "git", Args: []string{"rev-parse", "HEAD"}})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if res.Stdout != "abc\n" {
		t.Errorf("Stdout = %q, expected scripted output", res.Stdout)
	}
	if len(m.Calls) != 1 {
		t.Fatalf("recorded %d calls, expected 1", len(m.Calls))
	}
}
