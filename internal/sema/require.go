package sema

import (
	"path/filepath"
	"strings"

	"phs/internal/ast"
	"phs/internal/diag"
	"phs/internal/value"
)

// require records the unit n asks for. Relative paths are taken from the
// requiring unit's directory, absolute ones from the project root.
func (r *resolver) require(n *ast.RequireDecl) {
	v := r.eval(n.Expr)
	if v.Kind() != value.KindString {
		r.sess.Errorf(diag.ResRequireNotConst, n.Span(),
			"require path does not reduce to a constant string")
		return
	}
	p := strings.ReplaceAll(v.Str(), "\\", "/")
	dir := r.sess.Files.Dir(r.file)
	if strings.HasPrefix(p, "/") {
		if r.opts.Root != "" {
			dir = r.opts.Root
		}
	}
	path := filepath.Join(dir, filepath.FromSlash(p))
	switch filepath.Ext(path) {
	case ".phs", ".php":
	default:
		path += ".phs"
	}
	r.info.Requires = append(r.info.Requires, Require{Path: path, Span: n.Span()})
	r.sess.Debugf(n.Span(), "require `%s`", path)
}
