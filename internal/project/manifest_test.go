package project

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"phs/internal/trace"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFindManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	want := writeManifest(t, root, "")
	deep := filepath.Join(root, "src", "app")
	if err := os.MkdirAll(deep, 0o755); err != nil {
		t.Fatal(err)
	}
	got, ok, err := FindManifest(deep)
	if err != nil || !ok {
		t.Fatalf("FindManifest: ok=%v err=%v", ok, err)
	}
	if got != want {
		t.Fatalf("path = %q, want %q", got, want)
	}
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    func(c *Config)
		wantErr string
	}{
		{"empty", "", func(*Config) {}, ""},
		{"compiler", `
[compiler]
strict = true
max_diagnostics = 5
jobs = 2
cache = true
lib_paths = ["vendor"]
`, func(c *Config) {
			c.Compiler = CompilerConfig{Strict: true, MaxDiagnostics: 5, Jobs: 2, Cache: true, LibPaths: []string{"vendor"}}
		}, ""},
		{"trace", `
[trace]
level = "debug"
mode = "both"
output = "trace.ndjson"
`, func(c *Config) {
			c.Trace = TraceConfig{Level: "debug", Mode: "both", Output: "trace.ndjson"}
		}, ""},
		{"unknown key", "[compiler]\nstrictt = true\n", nil, "unknown keys: compiler.strictt"},
		{"negative limit", "[compiler]\nmax_diagnostics = -1\n", nil, "max_diagnostics"},
		{"negative jobs", "[compiler]\njobs = -4\n", nil, "jobs"},
		{"bad level", "[trace]\nlevel = \"loud\"\n", nil, "[trace].level"},
		{"bad mode", "[trace]\nmode = \"tape\"\n", nil, "[trace].mode"},
		{"syntax", "[compiler\n", nil, "failed to parse TOML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, t.TempDir(), tt.body)
			got, err := LoadConfig(path)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("err = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadConfig: %v", err)
			}
			want := DefaultConfig()
			tt.want(&want)
			if !reflect.DeepEqual(got, want) {
				t.Fatalf("config = %+v, want %+v", got, want)
			}
		})
	}
}

func TestLoadManifestMissing(t *testing.T) {
	m, ok, err := LoadManifest(t.TempDir())
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	// a phs.toml further up the real tree would be found too
	if !ok && m != nil {
		t.Fatalf("manifest without ok")
	}
}

func TestTracerConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Trace = TraceConfig{Level: "phase", Mode: "ring", Output: "-"}
	got, err := cfg.TracerConfig()
	if err != nil {
		t.Fatalf("TracerConfig: %v", err)
	}
	if got.Level != trace.LevelPhase || got.Mode != trace.ModeRing || got.OutputPath != "-" {
		t.Fatalf("tracer config = %+v", got)
	}
}

func TestLibDirs(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "vendor", "x"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "file"), nil, 0o600); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		path    string
		wantErr string
	}{
		{"vendor", ""},
		{"vendor/x", ""},
		{"", "empty"},
		{"/abs", "must be relative"},
		{"../out", "escapes"},
		{"missing", "invalid lib path"},
		{"file", "not a directory"},
	}
	for _, tt := range tests {
		m := &Manifest{Path: filepath.Join(root, ManifestName), Root: root}
		m.Config.Compiler.LibPaths = []string{tt.path}
		dirs, err := m.LibDirs()
		if tt.wantErr != "" {
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("%q: err = %v, want %q", tt.path, err, tt.wantErr)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: %v", tt.path, err)
		}
		if want := filepath.Join(root, filepath.FromSlash(tt.path)); len(dirs) != 1 || dirs[0] != want {
			t.Fatalf("%q: dirs = %v, want %s", tt.path, dirs, want)
		}
	}
}

func TestWithin(t *testing.T) {
	root := filepath.FromSlash("/a/b")
	tests := []struct {
		path string
		want bool
	}{
		{"/a/b", true},
		{"/a/b/c", true},
		{"/a/b/..c", true},
		{"/a", false},
		{"/a/bc", false},
	}
	for _, tt := range tests {
		if got := Within(root, filepath.FromSlash(tt.path)); got != tt.want {
			t.Fatalf("Within(%s) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestDigest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f")
	if err := os.WriteFile(path, []byte("abc"), 0o600); err != nil {
		t.Fatal(err)
	}
	d, err := DigestFile(path)
	if err != nil {
		t.Fatalf("DigestFile: %v", err)
	}
	if d != DigestOf("abc") {
		t.Fatalf("file digest differs from string digest")
	}
	if Combine(d) == d || Combine(d, DigestOf("x")) == Combine(d, DigestOf("y")) {
		t.Fatalf("Combine must mix its inputs")
	}
}
