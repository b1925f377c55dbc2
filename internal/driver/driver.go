// Package driver runs the semantic passes over decoded units: it loads
// interchange files in parallel, then collects, desugars, validates and
// resolves them one by one, following `require` into further units.
package driver

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"phs/internal/ast"
	"phs/internal/collect"
	"phs/internal/desugar"
	"phs/internal/diag"
	"phs/internal/observ"
	"phs/internal/sema"
	"phs/internal/session"
	"phs/internal/source"
	"phs/internal/symbols"
	"phs/internal/trace"
	"phs/internal/validate"
)

// Options configure one Check run.
type Options struct {
	// Jobs bounds parallel loading; 0 means GOMAXPROCS.
	Jobs           int
	MaxDiagnostics int
	Strict         bool
	// Root anchors absolute require paths.
	Root string
	// LibDirs are searched for required units not found next to the
	// requiring unit.
	LibDirs []string
	// NoRequires keeps required units from being loaded.
	NoRequires bool
	// Timings adds an info diagnostic with per-pass durations.
	Timings  bool
	Cache    *DiskCache
	Tracer   trace.Tracer
	Progress ProgressSink
}

// Unit is one analyzed interchange file.
type Unit struct {
	// Path is the interchange file, Source the path it was parsed from.
	Path    string
	Source  string
	File    source.FileID
	AST     *ast.Unit
	Scope   symbols.ScopeID
	Info    *sema.Info
	Desugar desugar.Result
	// Required is set on units loaded because another unit required them.
	Required bool
	// Skipped units were not analyzed because the session aborted first.
	Skipped bool
	Err     error
}

// Result is the outcome of Check.
type Result struct {
	Session *session.Session
	// Table is nil when the result was replayed from the cache.
	Table *symbols.Table
	Bag   *diag.Bag
	Units []*Unit
	// Order lists indexes into Units, required units before the units
	// requiring them. Nil for cached results.
	Order  []int
	Timing observ.Report
	Cached bool
}

// HasErrors reports whether any unit produced an error.
func (r *Result) HasErrors() bool {
	return r != nil && r.Bag.HasErrors()
}

// Check analyzes the interchange files named by inputs; directories are
// searched recursively. Diagnostics end up in Result.Bag, sorted. The
// returned error is reserved for failures outside the analyzed code:
// unreadable inputs or cancellation.
func Check(ctx context.Context, inputs []string, opts Options) (*Result, error) {
	paths, err := ListUnits(inputs)
	if err != nil {
		return nil, err
	}
	if opts.Progress == nil {
		opts.Progress = nopSink{}
	}
	bag := diag.NewBag(opts.MaxDiagnostics)
	sess := session.New(diag.BagReporter{Bag: bag}, opts.Tracer, session.Options{Strict: opts.Strict, Dedup: true})
	res := &Result{Session: sess, Bag: bag}

	span := trace.Begin(sess.Tracer, trace.ScopeDriver, "check", trace.CurrentSpan(ctx))
	defer span.End("")

	key, cacheable := cacheKey(paths, opts)
	if opts.Cache != nil && cacheable {
		var payload DiskPayload
		if ok, err := opts.Cache.Get(key, &payload); err == nil && ok && replay(&payload, res) {
			span.WithExtra("cache", "hit")
			for _, u := range res.Units {
				opts.Progress.OnEvent(Event{File: u.Path, Stage: StageResolve, Status: StatusDone})
			}
			return res, nil
		}
	}

	for _, p := range paths {
		opts.Progress.OnEvent(Event{File: p, Stage: StageLoad, Status: StatusQueued})
	}
	c := &checker{
		ctx:    ctx,
		opts:   opts,
		sess:   sess,
		t:      symbols.NewTable(sess, symbols.Hints{}),
		timer:  observ.NewTimer(),
		parent: span.ID(),
		index:  make(map[string]int),
	}
	res.Table = c.t

	idx := c.timer.Begin(string(StageLoad))
	units, err := loadAll(ctx, sess, paths, opts.Jobs)
	c.timer.End(idx, fmt.Sprintf("%d units", len(paths)))
	if err != nil {
		return nil, err
	}
	for _, u := range units {
		c.push(u)
	}
	if err := c.run(); err != nil {
		return nil, err
	}
	res.Order = c.order()
	res.Units = c.queue
	res.Timing = c.timer.Report()
	if opts.Timings {
		appendTimingDiagnostic(bag, timingPayload{Kind: "check", TotalMS: res.Timing.TotalMS, Phases: res.Timing.Phases})
	}
	bag.Sort()

	if opts.Cache != nil && cacheable {
		if payload, ok := snapshot(res); ok {
			if err := opts.Cache.Put(key, payload); err != nil {
				trace.Point(sess.Tracer, trace.ScopeDriver, "cache", "put failed: "+err.Error(), span.ID())
			}
		}
	}
	return res, nil
}

type checker struct {
	ctx    context.Context
	opts   Options
	sess   *session.Session
	t      *symbols.Table
	timer  *observ.Timer
	parent uint64
	// queue holds every unit in the order it was found; index maps a
	// unit's absolute path to its position.
	queue []*Unit
	index map[string]int
	edges []requireEdge
}

func (c *checker) push(u *Unit) {
	c.index[unitKey(u.Path)] = len(c.queue)
	c.queue = append(c.queue, u)
}

// run analyzes the queue in order; required units are appended as they
// are discovered.
func (c *checker) run() error {
	for i := 0; i < len(c.queue); i++ {
		if err := c.ctx.Err(); err != nil {
			return err
		}
		u := c.queue[i]
		switch {
		case u.AST == nil:
			c.opts.Progress.OnEvent(Event{File: u.Path, Stage: StageLoad, Status: StatusError})
			continue
		case c.sess.Aborted():
			u.Skipped = true
			c.opts.Progress.OnEvent(Event{File: u.Path, Stage: StageLoad, Status: StatusSkipped})
			continue
		}
		c.analyze(u)
		if c.opts.NoRequires || u.Info == nil {
			continue
		}
		for _, req := range u.Info.Requires {
			c.require(i, req)
		}
	}
	return nil
}

// analyze runs the passes over u, stopping as soon as the session aborts.
func (c *checker) analyze(u *Unit) {
	span := trace.Begin(c.sess.Tracer, trace.ScopeUnit, u.Source, c.parent)
	defer span.End("")
	c.sess.SetTraceParent(span.ID())

	passes := [...]struct {
		stage Stage
		run   func()
	}{
		{StageCollect, func() { u.Scope = collect.Collect(c.t, u.AST, collect.Options{File: u.File}) }},
		{StageDesugar, func() { u.Desugar = desugar.Desugar(c.sess, u.AST, desugar.Options{Table: c.t}) }},
		{StageValidate, func() { validate.Validate(c.sess, u.AST) }},
		{StageResolve, func() { u.Info = sema.Resolve(c.t, u.AST, sema.Options{Root: c.opts.Root}).Info }},
	}
	for _, p := range passes {
		if c.sess.Aborted() {
			span.WithExtra("aborted", string(p.stage))
			c.opts.Progress.OnEvent(Event{File: u.Path, Stage: p.stage, Status: StatusError})
			return
		}
		c.opts.Progress.OnEvent(Event{File: u.Path, Stage: p.stage, Status: StatusWorking})
		idx := c.timer.Begin(string(p.stage))
		ps := trace.Begin(c.sess.Tracer, trace.ScopePass, string(p.stage), span.ID())
		p.run()
		ps.End("")
		c.timer.End(idx, "")
	}
	status := StatusDone
	if c.sess.Aborted() {
		status = StatusError
	}
	c.opts.Progress.OnEvent(Event{File: u.Path, Stage: StageResolve, Status: status})
}

func unitKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// fingerprint lists the options that change the outcome of a run.
func fingerprint(opts Options) string {
	return strings.Join([]string{
		fmt.Sprintf("schema=%d", diskCacheSchemaVersion),
		fmt.Sprintf("strict=%t", opts.Strict),
		fmt.Sprintf("max=%d", opts.MaxDiagnostics),
		fmt.Sprintf("requires=%t", !opts.NoRequires),
		"root=" + opts.Root,
		"libs=" + strings.Join(opts.LibDirs, string(filepath.ListSeparator)),
	}, "|")
}
