package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/safecast"

	"phs/internal/astcodec"
	"phs/internal/diag"
	"phs/internal/project/dag"
	"phs/internal/sema"
	"phs/internal/source"
	"phs/internal/trace"
)

// requireEdge says unit user requires unit dep at span.
type requireEdge struct {
	dep, user int
	span      source.Span
}

// require records the edge from the unit at index user to the unit req
// names, queueing that unit when it was not seen before.
func (c *checker) require(user int, req sema.Require) {
	path, ok := c.locate(req.Path)
	if !ok {
		c.sess.Warnf(diag.IORequireMissing, req.Span, "required unit `%s` not found", req.Path)
		return
	}
	key := unitKey(path)
	if dep, seen := c.index[key]; seen {
		c.edges = append(c.edges, requireEdge{dep: dep, user: user, span: req.Span})
		return
	}
	trace.Point(c.sess.Tracer, trace.ScopeDriver, "require", path, c.parent)

	idx := c.timer.Begin(string(StageLoad))
	unit, file, err := astcodec.ReadFile(path, c.sess.Files)
	c.timer.End(idx, path)
	u := &Unit{Path: path, Required: true}
	if err != nil {
		u.Err = err
		reportLoad(c.sess, req.Span, err)
	} else {
		u.AST, u.File = unit, file
		u.Source = c.sess.Files.Get(file).Path
	}
	c.edges = append(c.edges, requireEdge{dep: len(c.queue), user: user, span: req.Span})
	c.push(u)
}

// locate finds the interchange file for a required source path: next to
// the source first, then in each library directory.
func (c *checker) locate(src string) (string, bool) {
	cand := astcodec.InterchangePath(src)
	if isFile(cand) {
		return cand, true
	}
	if len(c.opts.LibDirs) == 0 {
		return "", false
	}
	rel := filepath.Base(cand)
	if c.opts.Root != "" {
		if r, err := filepath.Rel(c.opts.Root, cand); err == nil && !strings.HasPrefix(r, "..") {
			rel = r
		}
	}
	for _, dir := range c.opts.LibDirs {
		p := filepath.Join(dir, rel)
		if isFile(p) {
			return p, true
		}
		if p = filepath.Join(dir, filepath.Base(cand)); isFile(p) {
			return p, true
		}
	}
	return "", false
}

func isFile(p string) bool {
	st, err := os.Stat(p)
	return err == nil && !st.IsDir()
}

// order sorts the queue by require edges and reports every require that
// closes a cycle. Units in a cycle only see the exports of the units
// analyzed before them.
func (c *checker) order() []int {
	g := dag.New(len(c.queue))
	for _, e := range c.edges {
		g.Add(node(e.dep), node(e.user))
	}
	topo := dag.ToposortKahn(g)
	out := make([]int, len(topo.Order))
	for i, id := range topo.Order {
		out[i] = int(id)
	}
	if !topo.Cyclic {
		return out
	}

	cycleOf := make(map[int]int)
	names := make([]string, len(topo.Cycles))
	for ci, comp := range topo.Cycles {
		parts := make([]string, len(comp))
		for j, id := range comp {
			cycleOf[int(id)] = ci
			parts[j] = c.queue[id].Source
		}
		names[ci] = strings.Join(parts, ", ")
	}
	for _, e := range c.edges {
		cd, ok1 := cycleOf[e.dep]
		cu, ok2 := cycleOf[e.user]
		if !ok1 || !ok2 || cd != cu {
			continue
		}
		c.sess.Infof(diag.IORequireCycle, e.span,
			"`%s` is part of a require cycle (%s)", c.queue[e.dep].Source, names[cd])
	}
	return out
}

func node(i int) dag.NodeID {
	id, err := safecast.Conv[dag.NodeID](i)
	if err != nil {
		panic(fmt.Errorf("unit index overflow: %w", err))
	}
	return id
}
