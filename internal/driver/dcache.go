package driver

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"phs/internal/astcodec"
	"phs/internal/diag"
	"phs/internal/project"
	"phs/internal/source"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache хранит диагностику прошлых запусков по ключу из хешей входов.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is what one run leaves in the cache: the units it analyzed,
// with the digests they had, and the diagnostics it produced.
type DiskPayload struct {
	Schema uint16
	Units  []CachedUnit
	Diags  []CachedDiag
}

type CachedUnit struct {
	Path     string
	Digest   project.Digest
	Required bool
	Skipped  bool
}

// CachedSpan refers to a file by the index of its unit; -1 means no file.
type CachedSpan struct {
	Unit       int
	Start, End uint32
}

type CachedNote struct {
	Span CachedSpan
	Msg  string
}

type CachedDiag struct {
	Severity uint8
	Code     uint16
	Message  string
	Primary  CachedSpan
	Notes    []CachedNote
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return NewDiskCache(filepath.Join(base, app))
}

// NewDiskCache opens a cache rooted at dir.
func NewDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key project.Digest) string {
	return filepath.Join(c.dir, "runs", hex.EncodeToString(key[:])+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key project.Digest, payload *DiskPayload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(f.Name())
		}
	}()
	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads a payload. A missing entry or one written by another schema
// is a miss.
func (c *DiskCache) Get(key project.Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	return out.Schema == diskCacheSchemaVersion, nil
}

// DropAll invalidates the cache.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}

// cacheKey hashes the options together with every input. Inputs that
// cannot be read make the run uncacheable.
func cacheKey(paths []string, opts Options) (project.Digest, bool) {
	deps := make([]project.Digest, 0, len(paths))
	for _, p := range paths {
		d, err := project.DigestFile(p)
		if err != nil {
			return project.Digest{}, false
		}
		deps = append(deps, d, project.DigestOf(unitKey(p)))
	}
	return project.Combine(project.DigestOf(fingerprint(opts)), deps...), true
}

// snapshot turns a finished run into a payload. Runs with unloadable
// units are not cached.
func snapshot(res *Result) (*DiskPayload, bool) {
	payload := &DiskPayload{Schema: diskCacheSchemaVersion}
	byFile := make(map[source.FileID]int, len(res.Units))
	for i, u := range res.Units {
		if u.Err != nil {
			return nil, false
		}
		d, err := project.DigestFile(u.Path)
		if err != nil {
			return nil, false
		}
		byFile[u.File] = i
		payload.Units = append(payload.Units, CachedUnit{Path: u.Path, Digest: d, Required: u.Required, Skipped: u.Skipped})
	}
	span := func(sp source.Span) CachedSpan {
		idx, ok := byFile[sp.File]
		if !ok {
			return CachedSpan{Unit: -1}
		}
		return CachedSpan{Unit: idx, Start: sp.Start, End: sp.End}
	}
	for _, d := range res.Bag.Items() {
		if d.Code == diag.ObsTimings {
			continue
		}
		cd := CachedDiag{Severity: uint8(d.Severity), Code: uint16(d.Code), Message: d.Message, Primary: span(d.Primary)}
		for _, n := range d.Notes {
			cd.Notes = append(cd.Notes, CachedNote{Span: span(n.Span), Msg: n.Msg})
		}
		payload.Diags = append(payload.Diags, cd)
	}
	return payload, true
}

// replay restores a cached run into res. It fails when any recorded unit
// changed since, leaving res untouched.
func replay(payload *DiskPayload, res *Result) bool {
	hdrs := make([]astcodec.Header, len(payload.Units))
	for i, cu := range payload.Units {
		d, err := project.DigestFile(cu.Path)
		if err != nil || d != cu.Digest {
			return false
		}
		if hdrs[i], err = astcodec.ReadHeader(cu.Path); err != nil {
			return false
		}
	}
	files := make([]source.FileID, len(payload.Units))
	for i, cu := range payload.Units {
		files[i] = res.Session.Files.Add(hdrs[i].Path, hdrs[i].Source, source.FileDecoded)
		res.Units = append(res.Units, &Unit{
			Path:     cu.Path,
			Source:   res.Session.Files.Get(files[i]).Path,
			File:     files[i],
			Required: cu.Required,
			Skipped:  cu.Skipped,
		})
	}
	span := func(cs CachedSpan) source.Span {
		if cs.Unit < 0 || cs.Unit >= len(files) {
			return source.Span{}
		}
		return source.Span{File: files[cs.Unit], Start: cs.Start, End: cs.End}
	}
	for _, cd := range payload.Diags {
		d := diag.Diagnostic{
			Severity: diag.Severity(cd.Severity),
			Code:     diag.Code(cd.Code),
			Message:  cd.Message,
			Primary:  span(cd.Primary),
		}
		for _, n := range cd.Notes {
			d.Notes = append(d.Notes, diag.Note{Span: span(n.Span), Msg: n.Msg})
		}
		res.Bag.Add(d)
	}
	res.Cached = true
	return true
}
