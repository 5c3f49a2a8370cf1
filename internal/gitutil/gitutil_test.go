package gitutil_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"setupdata/internal/gitutil"
)

// MockRunner for testing command execution.
type MockRunner struct {
	output string
	err    error
	args   *[]string
}

func (m MockRunner) CombinedOutput(ctx context.Context, name string, arg ...string) ([]byte, error) {
	if m.args != nil {
		*m.args = append([]string{name}, arg...)
	}
	return []byte(m.output), m.err
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		mockOutput   string
		mockError    error
		wantStatus   gitutil.FileStatus
		wantModified bool
		wantErr      bool
		wantNotRepo  bool
		wantArgs     []string
	}{
		{
			name:       "clean tracked file",
			path:       "Include/Struct.h",
			mockOutput: "",
			wantStatus: "",
			wantArgs:   []string{"git", "-C", "Include/", "status", "--porcelain", "--", "Struct.h"},
		},
		{
			name:         "modified in worktree",
			path:         "Struct.h",
			mockOutput:   " M Struct.h\n",
			wantStatus:   " M",
			wantModified: true,
			wantArgs:     []string{"git", "-C", ".", "status", "--porcelain", "--", "Struct.h"},
		},
		{
			name:         "staged",
			path:         "Struct.h",
			mockOutput:   "M  Struct.h\n",
			wantStatus:   "M ",
			wantModified: true,
		},
		{
			name:       "untracked",
			path:       "Struct.h",
			mockOutput: "?? Struct.h\n",
			wantStatus: "??",
		},
		{
			name:        "not a git repository",
			path:        "Struct.h",
			mockOutput:  "fatal: not a git repository (or any of the parent directories): .git",
			mockError:   &mockExecError{output: "exit status 128"},
			wantErr:     true,
			wantNotRepo: true,
		},
		{
			name:       "other git error",
			path:       "Struct.h",
			mockOutput: "error: something went wrong",
			mockError:  &mockExecError{output: "error: something went wrong"},
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var args []string
			gitutil.SetRunner(MockRunner{output: tt.mockOutput, err: tt.mockError, args: &args})
			defer gitutil.SetRunner(gitutil.DefaultRunner{}) // Reset after test

			got, err := gitutil.Status(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Status() error = %v, wantErr %v", err, tt.wantErr)
			}
			if errors.Is(err, gitutil.ErrNotRepository) != tt.wantNotRepo {
				t.Errorf("Status() error = %v, wantNotRepo %v", err, tt.wantNotRepo)
			}
			if got != tt.wantStatus {
				t.Errorf("Status() = %q, want %q", got, tt.wantStatus)
			}
			if got.Modified() != tt.wantModified {
				t.Errorf("Modified() = %v, want %v", got.Modified(), tt.wantModified)
			}
			if tt.wantArgs != nil && !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("command = %v, want %v", args, tt.wantArgs)
			}
		})
	}
}

func TestHasLocalChanges(t *testing.T) {
	gitutil.SetRunner(MockRunner{output: "MM Struct.h\n"})
	defer gitutil.SetRunner(gitutil.DefaultRunner{})

	dirty, err := gitutil.HasLocalChanges("Struct.h")
	if err != nil {
		t.Fatalf("HasLocalChanges() error: %v", err)
	}
	if !dirty {
		t.Error("HasLocalChanges() = false, want true")
	}
}

// Mock error to simulate exec command errors
type mockExecError struct {
	output string
}

func (e *mockExecError) Error() string {
	return "mock exec error: " + e.output
}
