package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"phs/internal/diag"
)

func TestPretty(t *testing.T) {
	fs, bag := sample()
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, ShowNotes: true, ShowFixes: true})
	out := buf.String()

	for _, want := range []string{
		"a.phs:2:9: ERROR " + diag.ResUndefinedSymbol.ID() + ": access to undefined symbol `x`",
		" 2 |   print x;\n",
		"   |         ^\n",
		"note: a.phs:1:7: declared here",
		"fix: rename",
		"a.phs:1:1: WARNING " + diag.IORequireMissing.ID(),
		"   | ^~~~~\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output misses %q:\n%s", want, out)
		}
	}
}

func TestPrettyContext(t *testing.T) {
	fs, bag := sample()
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, Context: 1})
	out := buf.String()
	for _, want := range []string{" 1 | class A {\n", " 3 | }\n"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output misses %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "note:") {
		t.Fatalf("notes are hidden by default:\n%s", out)
	}
}

func TestSummary(t *testing.T) {
	_, bag := sample()
	var buf bytes.Buffer
	Summary(&buf, bag, false)
	if got := buf.String(); got != "1 error, 1 warning\n" {
		t.Fatalf("Summary = %q", got)
	}
	buf.Reset()
	Summary(&buf, diag.NewBag(0), false)
	if buf.Len() != 0 {
		t.Fatalf("empty bag must print nothing, got %q", buf.String())
	}
}
