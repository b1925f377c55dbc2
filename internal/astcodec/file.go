package astcodec

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"phs/internal/ast"
	"phs/internal/source"
)

// ReadFile decodes the interchange file at path. A header without a source
// path takes the file's own path with the extension swapped to `.phs`.
func ReadFile(path string, fs *source.FileSet) (*ast.Unit, source.FileID, error) {
	// #nosec G304 -- path is provided by the caller
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()
	unit, file, err := decode(bufio.NewReader(f), fs, SourcePath(path))
	if err != nil {
		return nil, file, fmt.Errorf("%s: %w", path, err)
	}
	return unit, file, nil
}

// ReadHeader decodes only the header of the interchange file at path.
func ReadHeader(path string) (Header, error) {
	// #nosec G304 -- path is provided by the caller
	f, err := os.Open(path)
	if err != nil {
		return Header{}, err
	}
	defer f.Close()
	hdr, err := readHeader(msgpack.NewDecoder(bufio.NewReader(f)))
	if err != nil {
		return Header{}, fmt.Errorf("%s: %w", path, err)
	}
	if hdr.Path == "" {
		hdr.Path = SourcePath(path)
	}
	return hdr, nil
}

// WriteFile encodes unit to path, replacing it atomically.
func WriteFile(path string, hdr Header, unit *ast.Unit) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "tmp-*"+Ext)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(f.Name())
		}
	}()
	w := bufio.NewWriter(f)
	if err := Encode(w, hdr, unit); err != nil {
		_ = f.Close()
		return err
	}
	if err := errors.Join(w.Flush(), f.Close()); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// InterchangePath maps a source path to its interchange file.
func InterchangePath(src string) string {
	return strings.TrimSuffix(src, filepath.Ext(src)) + Ext
}

// SourcePath maps an interchange file back to the source it was parsed from.
func SourcePath(phsa string) string {
	return strings.TrimSuffix(phsa, Ext) + ".phs"
}
