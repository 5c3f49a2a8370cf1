package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"setupdata/internal/backup"
	"setupdata/internal/core"
)

const structSource = "// setup\nUINT8 A;\nUINT16 B; // 0x0009\nUINT8 UnusedVariables[SETUP_DATA_UNUSED_ELEMENTS];\n"

// resetFlags restores every flag to its default so runs do not leak into each other.
func resetFlags(t *testing.T) {
	t.Helper()
	reset := func(fs *pflag.FlagSet) {
		fs.VisitAll(func(f *pflag.Flag) {
			if err := f.Value.Set(f.DefValue); err != nil {
				t.Fatalf("failed to reset flag %s: %v", f.Name, err)
			}
			f.Changed = false
		})
	}
	reset(rootCmd.PersistentFlags())
	reset(rootCmd.Flags())
	for _, c := range rootCmd.Commands() {
		reset(c.Flags())
	}
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	out, _, err := executeWithStderr(t, stdin, args...)
	return out, err
}

func executeWithStderr(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(t)
	var out, errOut bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func writeStruct(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ProjectStaticSetupStruct.h")
	if err := os.WriteFile(path, []byte(structSource), 0644); err != nil {
		t.Fatalf("failed to write struct file: %v", err)
	}
	return path
}

func TestRootDryRunLeavesFileAlone(t *testing.T) {
	path := writeStruct(t)

	out, err := execute(t, "", "--dry-run", path)
	if err != nil {
		t.Fatalf("Execute() unexpected error: %v", err)
	}
	if !strings.Contains(out, "would update 2 of 2 fields") {
		t.Errorf("output = %q, want dry-run summary", out)
	}
	if !strings.Contains(out, "// 0x0002") {
		t.Errorf("output = %q, want the corrected offset", out)
	}

	data, _ := os.ReadFile(path)
	if string(data) != structSource {
		t.Errorf("dry run modified the file:\n%s", data)
	}
	bak, _ := backup.Paths(path)
	if _, err := os.Stat(bak); !os.IsNotExist(err) {
		t.Errorf("dry run created a backup: %v", err)
	}
}

func TestRootWritesAfterAcknowledgment(t *testing.T) {
	path := writeStruct(t)

	out, err := execute(t, "\n", path)
	if err != nil {
		t.Fatalf("Execute() unexpected error: %v", err)
	}
	if !strings.Contains(out, "Press Enter to continue") {
		t.Errorf("output = %q, want acknowledgment prompt", out)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "// 0x0002") {
		t.Errorf("struct file not rewritten:\n%s", data)
	}
	bak, _ := backup.Paths(path)
	prev, err := os.ReadFile(bak)
	if err != nil {
		t.Fatalf("backup missing: %v", err)
	}
	if string(prev) != structSource {
		t.Errorf("backup = %q, want original content", prev)
	}
}

func TestRootYesWritesManifestAndReport(t *testing.T) {
	path := writeStruct(t)
	dir := filepath.Dir(path)
	manifestPath := filepath.Join(dir, "layout.json")
	reportPath := filepath.Join(dir, "layout.md")

	out, err := execute(t, "", "-y", "--manifest", manifestPath, "--report", reportPath, path)
	if err != nil {
		t.Fatalf("Execute() unexpected error: %v", err)
	}
	if strings.Contains(out, "Press Enter") {
		t.Errorf("--yes still prompted: %q", out)
	}

	m, err := core.NewFileManifestStore(manifestPath).Load()
	if err != nil || m == nil {
		t.Fatalf("manifest not written: %v", err)
	}
	if len(m.Fields) != 2 || m.NextOffset != 4 {
		t.Errorf("manifest = %+v", m)
	}

	rep, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	if !strings.Contains(string(rep), "`0x0002`") {
		t.Errorf("report missing field offset:\n%s", rep)
	}
}

func TestRootConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Custom.h")
	src := "UINT16 A;\nUINT8 Stop[END];\nUINT32 B;\n"
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(filepath.Dir(path), "setupdata.ini")
	cfg := "struct_file = " + path + "\nsentinel = Stop[END];\nassume_yes = true\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, "", "--config", cfgPath); err != nil {
		t.Fatalf("Execute() unexpected error: %v", err)
	}

	data, _ := os.ReadFile(path)
	if !strings.HasSuffix(string(data), "UINT8 Stop[END];\nUINT32 B;\n") {
		t.Errorf("lines after the configured sentinel changed:\n%s", data)
	}
	if !strings.Contains(string(data), "A;") || !strings.Contains(string(data), "// 0x0001") {
		t.Errorf("field A not annotated:\n%s", data)
	}
}

func TestRootMissingFile(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"assume yes", []string{"-y"}},
		{"fails before the prompt", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append(tt.args, filepath.Join(t.TempDir(), "missing.h"))
			out, err := execute(t, "", args...)
			if !errors.Is(err, core.ErrMissingFile) {
				t.Errorf("Execute() error = %v, want ErrMissingFile", err)
			}
			if strings.Contains(out, "Press Enter") {
				t.Errorf("prompted before reporting the missing file: %q", out)
			}
		})
	}
}

func TestReportCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"markdown", nil, "| 2 | `0x0002` | 2 | `B` |"},
		{"html", []string{"--html"}, "<table>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeStruct(t)
			args := append([]string{"report"}, tt.args...)
			out, err := execute(t, "", append(args, path)...)
			if err != nil {
				t.Fatalf("Execute() unexpected error: %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out)
			}
			data, _ := os.ReadFile(path)
			if string(data) != structSource {
				t.Error("report modified the struct file")
			}
		})
	}
}

func TestSubcommandsRegistered(t *testing.T) {
	for _, name := range []string{"review", "report"} {
		var found *cobra.Command
		for _, c := range rootCmd.Commands() {
			if c.Name() == name {
				found = c
			}
		}
		if found == nil {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestRootWarnsOnceWithoutSentinel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "NoSentinel.h")
	if err := os.WriteFile(path, []byte("UINT8 A;\nUINT16 B;\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, stderr, err := executeWithStderr(t, "", "--dry-run", path)
	if err != nil {
		t.Fatalf("Execute() unexpected error: %v", err)
	}
	if n := strings.Count(stderr, "end-of-fields marker not found"); n != 1 {
		t.Errorf("missing-sentinel warning logged %d times, want 1:\n%s", n, stderr)
	}
}
