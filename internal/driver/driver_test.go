package driver

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"phs/internal/ast"
	"phs/internal/astcodec"
	"phs/internal/diag"
	"phs/internal/testkit"
)

// writeUnit stores the unit built by build as dir/name.phsa, parsed from
// dir/name.phs.
func writeUnit(t *testing.T, dir, name string, build func(b *testkit.Builder) *ast.Unit) string {
	t.Helper()
	path := filepath.Join(dir, name+astcodec.Ext)
	hdr := astcodec.Header{Path: filepath.Join(dir, name+".phs")}
	if err := astcodec.WriteFile(path, hdr, build(testkit.NewBuilder(0))); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func clean(b *testkit.Builder) *ast.Unit {
	return b.Unit(b.Let("x", b.Int(1)), b.Print(b.Name("x")))
}

func broken(b *testkit.Builder) *ast.Unit {
	return b.Unit(b.Print(b.Name("missing")))
}

func requires(path string) func(b *testkit.Builder) *ast.Unit {
	return func(b *testkit.Builder) *ast.Unit {
		return b.Unit(b.Require(b.Str(path)))
	}
}

func check(t *testing.T, inputs []string, opts Options) *Result {
	t.Helper()
	res, err := Check(context.Background(), inputs, opts)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	return res
}

func codes(res *Result) []diag.Code {
	return testkit.Codes(res.Bag)
}

func TestCheckClean(t *testing.T) {
	dir := t.TempDir()
	writeUnit(t, dir, "a", clean)
	writeUnit(t, dir, "b", clean)

	res := check(t, []string{dir}, Options{Jobs: 2})
	if res.HasErrors() || res.Bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", testkit.Messages(res.Bag))
	}
	if len(res.Units) != 2 {
		t.Fatalf("units = %d, want 2", len(res.Units))
	}
	for _, u := range res.Units {
		if u.Info == nil || u.Skipped || u.Err != nil {
			t.Fatalf("unit %s not analyzed: %+v", u.Path, u)
		}
		if !strings.HasSuffix(u.Source, ".phs") {
			t.Fatalf("source = %q", u.Source)
		}
	}
	if res.Units[0].File == res.Units[1].File {
		t.Fatalf("units share file id %d", res.Units[0].File)
	}
}

func TestCheckReportsErrors(t *testing.T) {
	dir := t.TempDir()
	path := writeUnit(t, dir, "a", broken)

	res := check(t, []string{path}, Options{})
	if got := codes(res); !slices.Equal(got, []diag.Code{diag.ResUndefinedSymbol}) {
		t.Fatalf("codes = %v", got)
	}
	if d := res.Bag.Items()[0]; d.Primary.File != res.Units[0].File {
		t.Fatalf("diagnostic in file %d, want %d", d.Primary.File, res.Units[0].File)
	}
}

func TestAbortSkipsLaterUnits(t *testing.T) {
	dir := t.TempDir()
	writeUnit(t, dir, "a", broken)
	writeUnit(t, dir, "b", clean)

	res := check(t, []string{dir}, Options{Jobs: 1})
	if !res.HasErrors() {
		t.Fatalf("want errors")
	}
	if res.Units[0].Skipped || !res.Units[1].Skipped {
		t.Fatalf("skipped = %t, %t; want false, true", res.Units[0].Skipped, res.Units[1].Skipped)
	}
}

func TestDecodeFailure(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad"+astcodec.Ext)
	if err := os.WriteFile(bad, []byte("not msgpack at all"), 0o600); err != nil {
		t.Fatal(err)
	}
	res := check(t, []string{bad}, Options{})
	if !res.Bag.Has(diag.IODecodeFailed) {
		t.Fatalf("codes = %v", codes(res))
	}
	if u := res.Units[0]; u.Err == nil || u.AST != nil {
		t.Fatalf("unit = %+v, want load error", u)
	}
	if got := res.Session.Files.Get(res.Units[0].File).Path; !strings.HasSuffix(got, "bad.phs") {
		t.Fatalf("placeholder path = %q", got)
	}
}

func TestMissingInput(t *testing.T) {
	if _, err := Check(context.Background(), []string{filepath.Join(t.TempDir(), "nope")}, Options{}); err == nil {
		t.Fatalf("want error for a missing input")
	}
}

func TestRequireFollowed(t *testing.T) {
	dir := t.TempDir()
	main := writeUnit(t, dir, "main", requires("util"))
	writeUnit(t, dir, "util", clean)

	res := check(t, []string{main}, Options{})
	if res.Bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", testkit.Messages(res.Bag))
	}
	if len(res.Units) != 2 {
		t.Fatalf("units = %d, want 2", len(res.Units))
	}
	u := res.Units[1]
	if !u.Required || u.Info == nil || filepath.Base(u.Source) != "util.phs" {
		t.Fatalf("required unit = %+v", u)
	}
	if !slices.Equal(res.Order, []int{1, 0}) {
		t.Fatalf("order = %v, want required unit first", res.Order)
	}
}

func TestRequireOnce(t *testing.T) {
	dir := t.TempDir()
	writeUnit(t, dir, "a", requires("b"))
	writeUnit(t, dir, "b", requires("a"))

	res := check(t, []string{dir}, Options{})
	if len(res.Units) != 2 {
		t.Fatalf("units = %d, want 2", len(res.Units))
	}
	for _, u := range res.Units {
		if u.Required {
			t.Fatalf("%s was listed as an input", u.Path)
		}
	}
	want := []diag.Code{diag.IORequireCycle, diag.IORequireCycle}
	if got := codes(res); !slices.Equal(got, want) {
		t.Fatalf("codes = %v, want %v", got, want)
	}
	if res.HasErrors() || len(res.Order) != 2 {
		t.Fatalf("errors = %t, order = %v", res.HasErrors(), res.Order)
	}
}

func TestRequireMissing(t *testing.T) {
	dir := t.TempDir()
	main := writeUnit(t, dir, "main", requires("gone"))

	res := check(t, []string{main}, Options{})
	if got := codes(res); !slices.Equal(got, []diag.Code{diag.IORequireMissing}) {
		t.Fatalf("codes = %v", got)
	}
	if res.HasErrors() {
		t.Fatalf("a missing require is a warning")
	}
}

func TestRequireFromLibDir(t *testing.T) {
	dir := t.TempDir()
	lib := t.TempDir()
	main := writeUnit(t, dir, "main", requires("vendor/x"))
	writeUnit(t, lib, "x", clean)

	res := check(t, []string{main}, Options{LibDirs: []string{lib}})
	if res.Bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", testkit.Messages(res.Bag))
	}
	if len(res.Units) != 2 || res.Units[1].Path != filepath.Join(lib, "x"+astcodec.Ext) {
		t.Fatalf("units = %+v", res.Units)
	}
}

func TestNoRequires(t *testing.T) {
	dir := t.TempDir()
	main := writeUnit(t, dir, "main", requires("util"))
	writeUnit(t, dir, "util", clean)

	res := check(t, []string{main}, Options{NoRequires: true})
	if len(res.Units) != 1 {
		t.Fatalf("units = %d, want 1", len(res.Units))
	}
}

func TestListUnits(t *testing.T) {
	dir := t.TempDir()
	writeUnit(t, dir, "b", clean)
	writeUnit(t, filepath.Join(dir, "sub"), "a", clean)
	writeUnit(t, filepath.Join(dir, ".hidden"), "c", clean)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0o600); err != nil {
		t.Fatal(err)
	}
	single := filepath.Join(dir, "b"+astcodec.Ext)

	got, err := ListUnits([]string{dir, single})
	if err != nil {
		t.Fatalf("ListUnits: %v", err)
	}
	want := []string{single, filepath.Join(dir, "sub", "a"+astcodec.Ext)}
	slices.Sort(want)
	if !slices.Equal(got, want) {
		t.Fatalf("ListUnits = %v, want %v", got, want)
	}
}

func TestProgressEvents(t *testing.T) {
	dir := t.TempDir()
	path := writeUnit(t, dir, "a", clean)
	ch := make(chan Event, 64)

	check(t, []string{path}, Options{Progress: ChannelSink{Ch: ch}})
	close(ch)
	var events []Event
	for ev := range ch {
		events = append(events, ev)
	}
	if len(events) == 0 {
		t.Fatalf("no events")
	}
	if first := events[0]; first.Stage != StageLoad || first.Status != StatusQueued {
		t.Fatalf("first event = %+v", first)
	}
	if last := events[len(events)-1]; last.Stage != StageResolve || last.Status != StatusDone || last.File != path {
		t.Fatalf("last event = %+v", last)
	}
}

func TestTimings(t *testing.T) {
	dir := t.TempDir()
	path := writeUnit(t, dir, "a", clean)

	res := check(t, []string{path}, Options{Timings: true})
	if !res.Bag.Has(diag.ObsTimings) {
		t.Fatalf("codes = %v", codes(res))
	}
	if len(res.Timing.Phases) == 0 {
		t.Fatalf("no phases recorded")
	}
}

func TestCacheReplay(t *testing.T) {
	dir := t.TempDir()
	path := writeUnit(t, dir, "a", broken)
	cache, err := NewDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	opts := Options{Cache: cache}

	first := check(t, []string{path}, opts)
	if first.Cached {
		t.Fatalf("first run must not be cached")
	}
	second := check(t, []string{path}, opts)
	if !second.Cached {
		t.Fatalf("second run must replay the cache")
	}
	if !slices.Equal(codes(first), codes(second)) {
		t.Fatalf("codes = %v, want %v", codes(second), codes(first))
	}
	d := second.Bag.Items()[0]
	if d.Primary != first.Bag.Items()[0].Primary || d.Primary.File != second.Units[0].File {
		t.Fatalf("replayed span = %v, want %v", d.Primary, first.Bag.Items()[0].Primary)
	}

	writeUnit(t, dir, "a", clean)
	third := check(t, []string{path}, opts)
	if third.Cached || third.Bag.Len() != 0 {
		t.Fatalf("changed input must be analyzed again: cached=%t codes=%v", third.Cached, codes(third))
	}
}

func TestCacheDropAll(t *testing.T) {
	root := filepath.Join(t.TempDir(), "cache")
	cache, err := NewDiskCache(root)
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	path := writeUnit(t, dir, "a", clean)
	check(t, []string{path}, Options{Cache: cache})
	if err := cache.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	if _, err := os.Stat(root); !os.IsNotExist(err) {
		t.Fatalf("cache dir still present: %v", err)
	}
	var payload DiskPayload
	if ok, err := cache.Get(mustKey(t, path), &payload); ok || err != nil {
		t.Fatalf("Get after DropAll = %t, %v", ok, err)
	}
}

func mustKey(t *testing.T, path string) [32]byte {
	t.Helper()
	key, ok := cacheKey([]string{path}, Options{})
	if !ok {
		t.Fatalf("no key for %s", path)
	}
	return key
}
