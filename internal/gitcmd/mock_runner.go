package gitcmd

import (
	"context"
	"fmt"
	"strings"
)

// MockRunner is a test double for Runner.
// It matches each invocation against scripted responses by command line,
// so tests can exercise git-facing logic without a repository or a git binary.
type MockRunner struct {
	Responses map[string]Result
	Errors    map[string]error
	Calls     []Command

	// Default is returned for command lines with no scripted response.
	Default Result
}

// NewMockRunner creates a MockRunner with empty scripts.
func NewMockRunner() *MockRunner {
	return &MockRunner{
		Responses: make(map[string]Result),
		Errors:    make(map[string]error),
	}
}

// Script registers a response for an exact command line (name + args joined
// with spaces).
func (m *MockRunner) Script(line string, res Result) {
	m.Responses[line] = res
}

// ScriptError registers a spawn error for an exact command line.
func (m *MockRunner) ScriptError(line string, err error) {
	m.Errors[line] = err
}

// Run records the call and returns the scripted outcome.
func (m *MockRunner) Run(_ context.Context, c Command) (Result, error) {
	m.Calls = append(m.Calls, c)
	line := commandLine(c)
	if err, ok := m.Errors[line]; ok {
		return Result{}, err
	}
	if res, ok := m.Responses[line]; ok {
		return res, nil
	}
	return m.Default, nil
}

// CommandLines returns the recorded invocations as printable command lines.
func (m *MockRunner) CommandLines() []string {
	lines := make([]string, len(m.Calls))
	for i, c := range m.Calls {
		lines[i] = commandLine(c)
	}
	return lines
}

func commandLine(c Command) string {
	return fmt.Sprintf("%s %s", c.Name, strings.Join(c.Args, " "))
}

// Compile-time interface conformance check.
var _ Runner = (*MockRunner)(nil)
