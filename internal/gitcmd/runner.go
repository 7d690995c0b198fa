package gitcmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
)

// Command describes a single subprocess invocation.
type Command struct {
	Name string
	Args []string
	Dir  string   // working directory; empty inherits the process directory
	Env  []string // extra KEY=VALUE entries appended to the inherited environment
}

// Result holds the captured outcome of a finished subprocess.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner executes commands. The git-facing logic only talks to this
// interface, so tests can script command outcomes without a real git binary.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// ExecRunner runs commands via os/exec.
type ExecRunner struct{}

// Run executes the command and captures stdout/stderr separately.
// A non-zero exit is reported through Result.ExitCode, not as an error;
// the returned error is reserved for spawn failures (missing binary,
// canceled context).
func (ExecRunner) Run(ctx context.Context, c Command) (Result, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, err
	}
	return res, nil
}

// Compile-time interface conformance check.
var _ Runner = ExecRunner{}
