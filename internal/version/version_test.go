package version

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestString(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	tests := []struct {
		in, want string
	}{
		{"1.2.3", "1.2.3"},
		{"  0.4.0-rc1 ", "0.4.0-rc1"},
		{"", "dev"},
	}
	for _, tt := range tests {
		Version = tt.in
		if got := String(); got != tt.want {
			t.Fatalf("String() with %q = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestColoredWithoutColor(t *testing.T) {
	origVersion, origNoColor := Version, color.NoColor
	t.Cleanup(func() { Version, color.NoColor = origVersion, origNoColor })
	color.NoColor = true

	tests := []struct {
		in, want string
	}{
		{"0.1.0-dev", "0.1.0-dev"},
		{"2.0.1+build.7", "2.0.1+build.7"},
		{"nightly", "nightly"},
	}
	for _, tt := range tests {
		Version = tt.in
		if got := Colored(); got != tt.want {
			t.Fatalf("Colored() with %q = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestColoredKeepsParts(t *testing.T) {
	origVersion, origNoColor := Version, color.NoColor
	t.Cleanup(func() { Version, color.NoColor = origVersion, origNoColor })
	color.NoColor = false
	Version = "3.4.5-dev"

	got := Colored()
	if got == Version {
		t.Fatalf("expected escape sequences in %q", got)
	}
	for _, part := range []string{"3", "4", "5", "-dev"} {
		if !strings.Contains(got, part) {
			t.Fatalf("Colored() = %q lost %q", got, part)
		}
	}
}
