package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"phs/internal/project"
)

func TestReadUIMode(t *testing.T) {
	tests := []struct {
		in      string
		want    uiMode
		wantErr bool
	}{
		{"", uiModeAuto, false},
		{" ON ", uiModeOn, false},
		{"off", uiModeOff, false},
		{"maybe", "", true},
	}
	for _, tt := range tests {
		got, err := readUIMode(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Fatalf("readUIMode(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestVersionJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := renderVersionJSON(&buf, true); err != nil {
		t.Fatal(err)
	}
	var p versionPayload
	if err := json.Unmarshal(buf.Bytes(), &p); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if p.Tool != "phsc" || p.Version == "" || p.GitCommit == "" {
		t.Fatalf("payload = %+v", p)
	}
}

func TestManifestDir(t *testing.T) {
	dir := t.TempDir()
	if got := manifestDir(dir); got != dir {
		t.Fatalf("manifestDir(dir) = %q", got)
	}
	file := filepath.Join(dir, "a.phsa")
	if got := manifestDir(file); got != dir {
		t.Fatalf("manifestDir(file) = %q", got)
	}
}

// newCheckCmd returns a command carrying check's flags and the root's
// persistent ones, parsed from args.
func newCheckCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "check"}
	addCheckFlags(cmd)
	cmd.Flags().Int("max-diagnostics", 0, "")
	cmd.Flags().Bool("quiet", false, "")
	cmd.Flags().Bool("timings", false, "")
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	return cmd
}

func TestCheckOptionsMergesManifest(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, "lib"), 0o755); err != nil {
		t.Fatal(err)
	}
	manifest := "[compiler]\nstrict = true\njobs = 3\nmax_diagnostics = 7\nlib_paths = [\"lib\"]\n"
	if err := os.WriteFile(filepath.Join(root, project.ManifestName), []byte(manifest), 0o600); err != nil {
		t.Fatal(err)
	}
	m, ok, err := project.LoadManifest(root)
	if err != nil || !ok {
		t.Fatalf("LoadManifest = %v, %v", ok, err)
	}

	cmd := newCheckCmd(t, "--jobs", "5")
	cf, err := readCheckFlags(cmd)
	if err != nil {
		t.Fatal(err)
	}
	opts, err := checkOptions(cmd, cf, m)
	if err != nil {
		t.Fatalf("checkOptions: %v", err)
	}
	if !opts.Strict || opts.Jobs != 5 || opts.MaxDiagnostics != 7 || opts.Root != m.Root {
		t.Fatalf("opts = %+v", opts)
	}
	if len(opts.LibDirs) != 1 || !strings.HasSuffix(opts.LibDirs[0], "lib") {
		t.Fatalf("lib dirs = %v", opts.LibDirs)
	}
}

func TestCheckOptionsWithoutManifest(t *testing.T) {
	cmd := newCheckCmd(t, "--lib", "vendor", "--root", "proj")
	cf, err := readCheckFlags(cmd)
	if err != nil {
		t.Fatal(err)
	}
	opts, err := checkOptions(cmd, cf, nil)
	if err != nil {
		t.Fatalf("checkOptions: %v", err)
	}
	if opts.MaxDiagnostics != 100 || !filepath.IsAbs(opts.Root) || len(opts.LibDirs) != 1 || !filepath.IsAbs(opts.LibDirs[0]) {
		t.Fatalf("opts = %+v", opts)
	}
}
