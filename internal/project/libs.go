package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LibDirs resolves [compiler].lib_paths against the manifest root. Every
// entry must be a relative path naming a directory inside the root.
func (m *Manifest) LibDirs() ([]string, error) {
	if m == nil {
		return nil, nil
	}
	out := make([]string, 0, len(m.Config.Compiler.LibPaths))
	for _, p := range m.Config.Compiler.LibPaths {
		dir, err := ResolveLibDir(m.Root, p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", m.Path, err)
		}
		out = append(out, dir)
	}
	return out, nil
}

// ResolveLibDir validates one lib path relative to root.
func ResolveLibDir(root, p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return "", errors.New("empty lib path")
	}
	if filepath.IsAbs(p) {
		return "", fmt.Errorf("invalid lib path %q: must be relative", p)
	}
	dir := filepath.Join(root, filepath.Clean(filepath.FromSlash(p)))
	if !Within(root, dir) {
		return "", fmt.Errorf("invalid lib path %q: escapes project root", p)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("invalid lib path %q: %w", p, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("invalid lib path %q: not a directory", p)
	}
	return dir, nil
}

// Within reports whether path lies inside root.
func Within(root, path string) bool {
	if root == "" || path == "" {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
