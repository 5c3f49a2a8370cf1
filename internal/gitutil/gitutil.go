package gitutil

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNotRepository is returned when the file does not live in a git working tree.
var ErrNotRepository = errors.New("not a git repository")

// CommandRunner is an interface for running external commands.
type CommandRunner interface {
	CombinedOutput(ctx context.Context, name string, arg ...string) ([]byte, error)
}

// DefaultRunner implements CommandRunner using os/exec.Command.
type DefaultRunner struct{}

func (r DefaultRunner) CombinedOutput(ctx context.Context, name string, arg ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, arg...)
	return cmd.CombinedOutput()
}

// We'll use a package-level variable for the runner
var runner CommandRunner = DefaultRunner{}

// FileStatus is the two-letter porcelain status of a file, e.g. " M" or "??".
// It is empty for a clean tracked file.
type FileStatus string

// Modified reports whether the file has staged or unstaged edits.
func (s FileStatus) Modified() bool {
	return s != "" && s != "??" && s != "!!"
}

// Untracked reports whether git does not know the file.
func (s FileStatus) Untracked() bool {
	return s == "??"
}

// Status returns the working-tree status of path.
func Status(path string) (FileStatus, error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	outputBytes, err := runner.CombinedOutput(context.Background(), "git", "-C", dir, "status", "--porcelain", "--", base)
	output := string(outputBytes)
	if strings.Contains(strings.ToLower(output), "not a git repository") {
		return "", fmt.Errorf("%w: %s", ErrNotRepository, strings.TrimSpace(output))
	}
	if err != nil {
		return "", fmt.Errorf("error running git status: %w, output: %s", err, output)
	}

	for _, line := range strings.Split(output, "\n") {
		if len(line) >= 2 {
			return FileStatus(line[:2]), nil
		}
	}
	return "", nil
}

// HasLocalChanges reports whether path has uncommitted edits.
func HasLocalChanges(path string) (bool, error) {
	status, err := Status(path)
	if err != nil {
		return false, err
	}
	return status.Modified(), nil
}

// For testing, we'll add a function to set a mock runner
func SetRunner(r CommandRunner) {
	runner = r
}
