package diagfmt

import (
	"path/filepath"
	"strings"

	"phs/internal/diag"
	"phs/internal/source"
)

func formatPath(path string, mode PathMode, base string) string {
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(filepath.FromSlash(path)); err == nil {
			return filepath.ToSlash(abs)
		}
		return path
	case PathModeBasename:
		return filepath.Base(filepath.FromSlash(path))
	case PathModeRelative, PathModeAuto:
		if base == "" {
			return path
		}
		rel, err := filepath.Rel(base, filepath.FromSlash(path))
		if err != nil {
			return path
		}
		if mode == PathModeAuto && strings.HasPrefix(rel, "..") {
			return path
		}
		return filepath.ToSlash(rel)
	}
	return path
}

// located reports whether d points into a file. Timings are run-wide.
func located(d diag.Diagnostic, fs *source.FileSet) bool {
	return d.Code != diag.ObsTimings && fs.Has(d.Primary.File)
}
