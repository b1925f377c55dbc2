package driver

import (
	"bufio"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"fortio.org/safecast"
	"golang.org/x/sync/errgroup"

	"phs/internal/ast"
	"phs/internal/astcodec"
	"phs/internal/diag"
	"phs/internal/session"
	"phs/internal/source"
)

// ListUnits expands inputs into interchange files. Directories are walked
// recursively; the result is sorted and free of duplicates.
func ListUnits(inputs []string) ([]string, error) {
	var out []string
	for _, in := range inputs {
		st, err := os.Stat(in)
		if err != nil {
			return nil, err
		}
		if !st.IsDir() {
			out = append(out, filepath.Clean(in))
			continue
		}
		err = filepath.WalkDir(in, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if p != in && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(p) == astcodec.Ext {
				out = append(out, p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

type loaded struct {
	hdr  astcodec.Header
	unit *ast.Unit
	err  error
}

// loadAll decodes paths in parallel. File ids are reserved up front so
// spans are stable regardless of which goroutine finishes first; files are
// registered in input order afterwards.
func loadAll(ctx context.Context, sess *session.Session, paths []string, jobs int) ([]*Unit, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	base := sess.Files.Len()
	results := make([]loaded, len(paths))

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i, p := range paths {
		i, p := i, p
		n, err := safecast.Conv[uint32](base + i)
		if err != nil {
			return nil, err
		}
		file := source.FileID(n)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = decodePath(p, file)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	units := make([]*Unit, len(paths))
	for i, p := range paths {
		r := results[i]
		src := r.hdr.Path
		if src == "" {
			src = astcodec.SourcePath(p)
		}
		file := sess.Files.Add(src, r.hdr.Source, source.FileDecoded)
		if int(file) != base+i {
			panic("driver: file ids out of step with load order")
		}
		u := &Unit{Path: p, Source: sess.Files.Get(file).Path, File: file, AST: r.unit, Err: r.err}
		if r.err != nil {
			u.AST = nil
			reportLoad(sess, source.Span{File: file}, r.err)
		}
		units[i] = u
	}
	return units, nil
}

func decodePath(path string, file source.FileID) loaded {
	// #nosec G304 -- inputs are chosen by the user
	f, err := os.Open(path)
	if err != nil {
		return loaded{err: err}
	}
	defer f.Close()
	hdr, unit, err := astcodec.DecodeUnit(bufio.NewReader(f), file)
	if err != nil {
		return loaded{hdr: hdr, err: err}
	}
	return loaded{hdr: hdr, unit: unit}
}

func reportLoad(sess *session.Session, sp source.Span, err error) {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		sess.Errorf(diag.IOLoadFailed, sp, "cannot load unit: %v", err)
		return
	}
	sess.Errorf(diag.IODecodeFailed, sp, "cannot decode unit: %v", err)
}
