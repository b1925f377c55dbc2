// Package astcodec reads and writes parsed units in the msgpack
// interchange format produced by the external parser.
//
// A file is a header map followed by the unit. Every node is an array
// `[kind, start, end, fields...]`, nil nodes are msgpack nil. Fields follow
// struct declaration order; spans carry byte offsets only and get the file
// id assigned on load.
package astcodec

import (
	"errors"
	"fmt"
	"io"
	"reflect"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"phs/internal/ast"
	"phs/internal/source"
)

const (
	// Magic opens every interchange file.
	Magic = "phsa"
	// Version is bumped whenever the node layout changes.
	Version uint16 = 1
	// Ext is the extension of interchange files.
	Ext = ".phsa"

	maxLen = 1 << 24
)

var (
	// ErrBadMagic reports input that is not an interchange file.
	ErrBadMagic = errors.New("astcodec: not an interchange file")
	// ErrVersion reports an interchange file of another layout version.
	ErrVersion = errors.New("astcodec: unsupported version")
)

// Header precedes the unit.
type Header struct {
	Magic   string `msgpack:"magic"`
	Version uint16 `msgpack:"version"`
	// Path is the source path of the unit, used for __FILE__ and require.
	Path string `msgpack:"path"`
	// Source is the unit's text, optional; without it positions render as
	// byte offsets.
	Source []byte `msgpack:"source,omitempty"`
}

// Encode writes hdr followed by unit. Magic and Version are filled in.
func Encode(w io.Writer, hdr Header, unit *ast.Unit) error {
	hdr.Magic, hdr.Version = Magic, Version
	enc := msgpack.NewEncoder(w)
	if err := enc.Encode(&hdr); err != nil {
		return fmt.Errorf("astcodec: header: %w", err)
	}
	e := encoder{enc: enc}
	return e.node(unit)
}

// Decode reads a unit written by Encode and registers its source in fs.
func Decode(r io.Reader, fs *source.FileSet) (*ast.Unit, source.FileID, error) {
	return decode(r, fs, "")
}

// decode registers the source under fallback when the header has no path.
func decode(r io.Reader, fs *source.FileSet, fallback string) (*ast.Unit, source.FileID, error) {
	dec := msgpack.NewDecoder(r)
	hdr, err := readHeader(dec)
	if err != nil {
		return nil, 0, err
	}
	if hdr.Path == "" {
		hdr.Path = fallback
	}
	file := fs.Add(hdr.Path, hdr.Source, source.FileDecoded)
	unit, err := decodeBody(dec, file)
	return unit, file, err
}

// DecodeUnit reads a unit whose spans get the given file id. The caller
// registers hdr with its FileSet; the driver uses it to decode in
// parallel with ids reserved up front.
func DecodeUnit(r io.Reader, file source.FileID) (Header, *ast.Unit, error) {
	dec := msgpack.NewDecoder(r)
	hdr, err := readHeader(dec)
	if err != nil {
		return Header{}, nil, err
	}
	unit, err := decodeBody(dec, file)
	return hdr, unit, err
}

func readHeader(dec *msgpack.Decoder) (Header, error) {
	var hdr Header
	if err := dec.Decode(&hdr); err != nil {
		return Header{}, fmt.Errorf("astcodec: header: %w", err)
	}
	if hdr.Magic != Magic {
		return Header{}, ErrBadMagic
	}
	if hdr.Version != Version {
		return Header{}, fmt.Errorf("%w: %d (want %d)", ErrVersion, hdr.Version, Version)
	}
	return hdr, nil
}

func decodeBody(dec *msgpack.Decoder, file source.FileID) (*ast.Unit, error) {
	d := decoder{dec: dec, file: file}
	v, err := d.node(reflect.TypeOf((*ast.Unit)(nil)))
	if err != nil {
		return nil, err
	}
	unit, _ := v.Interface().(*ast.Unit)
	if unit == nil {
		return nil, errors.New("astcodec: missing unit")
	}
	return unit, nil
}

type encoder struct {
	enc *msgpack.Encoder
}

func (e *encoder) node(n ast.Node) error {
	if ast.IsNil(n) {
		return e.enc.EncodeNil()
	}
	v := reflect.ValueOf(n).Elem()
	l, ok := layouts[n.Kind()]
	if !ok || l.typ != v.Type() {
		return fmt.Errorf("astcodec: unregistered node %T", n)
	}
	sp := n.Span()
	if err := e.enc.EncodeArrayLen(3 + len(l.fields)); err != nil {
		return err
	}
	if err := e.enc.EncodeUint(uint64(n.Kind())); err != nil {
		return err
	}
	if err := e.enc.EncodeUint(uint64(sp.Start)); err != nil {
		return err
	}
	if err := e.enc.EncodeUint(uint64(sp.End)); err != nil {
		return err
	}
	for _, i := range l.fields {
		if err := e.value(v.Field(i)); err != nil {
			return fmt.Errorf("%s.%s: %w", n.Kind(), l.typ.Field(i).Name, err)
		}
	}
	return nil
}

func (e *encoder) value(v reflect.Value) error {
	t := v.Type()
	if t == spanType {
		sp := v.Interface().(source.Span)
		if err := e.enc.EncodeArrayLen(2); err != nil {
			return err
		}
		if err := e.enc.EncodeUint(uint64(sp.Start)); err != nil {
			return err
		}
		return e.enc.EncodeUint(uint64(sp.End))
	}
	if isNodeType(t) {
		if v.IsNil() {
			return e.enc.EncodeNil()
		}
		return e.node(v.Interface().(ast.Node))
	}
	switch v.Kind() {
	case reflect.Slice:
		if v.IsNil() {
			return e.enc.EncodeNil()
		}
		if err := e.enc.EncodeArrayLen(v.Len()); err != nil {
			return err
		}
		for i := 0; i < v.Len(); i++ {
			if err := e.value(v.Index(i)); err != nil {
				return err
			}
		}
		return nil
	case reflect.Struct:
		if err := e.enc.EncodeArrayLen(v.NumField()); err != nil {
			return err
		}
		for i := 0; i < v.NumField(); i++ {
			if err := e.value(v.Field(i)); err != nil {
				return err
			}
		}
		return nil
	case reflect.Bool:
		return e.enc.EncodeBool(v.Bool())
	case reflect.String:
		return e.enc.EncodeString(v.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return e.enc.EncodeInt(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return e.enc.EncodeUint(v.Uint())
	case reflect.Float32, reflect.Float64:
		return e.enc.EncodeFloat64(v.Float())
	}
	return fmt.Errorf("astcodec: cannot encode %s", t)
}

type decoder struct {
	dec  *msgpack.Decoder
	file source.FileID
}

type spanSetter interface {
	SetSpan(source.Span)
}

// node decodes one node that must be assignable to want.
func (d *decoder) node(want reflect.Type) (reflect.Value, error) {
	n, err := d.arrayLen()
	if err != nil {
		return reflect.Value{}, err
	}
	if n < 0 {
		return reflect.Zero(want), nil
	}
	if n < 3 {
		return reflect.Value{}, fmt.Errorf("astcodec: node array of length %d", n)
	}
	raw, err := d.dec.DecodeUint64()
	if err != nil {
		return reflect.Value{}, err
	}
	k, err := safecast.Conv[uint8](raw)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("astcodec: node kind %d: %w", raw, err)
	}
	kind := ast.Kind(k)
	l, ok := layouts[kind]
	if !ok {
		return reflect.Value{}, fmt.Errorf("astcodec: unknown node kind %d", k)
	}
	if n != 3+len(l.fields) {
		return reflect.Value{}, fmt.Errorf("astcodec: %s has %d fields, want %d", kind, n-3, len(l.fields))
	}
	ptr := reflect.New(l.typ)
	if !ptr.Type().AssignableTo(want) {
		return reflect.Value{}, fmt.Errorf("astcodec: %s where %s expected", kind, want)
	}
	sp, err := d.offsets()
	if err != nil {
		return reflect.Value{}, err
	}
	ptr.Interface().(spanSetter).SetSpan(sp)
	for _, i := range l.fields {
		if err := d.value(ptr.Elem().Field(i)); err != nil {
			return reflect.Value{}, fmt.Errorf("%s.%s: %w", kind, l.typ.Field(i).Name, err)
		}
	}
	return ptr, nil
}

func (d *decoder) offsets() (source.Span, error) {
	start, err := d.u32()
	if err != nil {
		return source.Span{}, err
	}
	end, err := d.u32()
	if err != nil {
		return source.Span{}, err
	}
	if end < start {
		return source.Span{}, fmt.Errorf("astcodec: span %d-%d ends before it starts", start, end)
	}
	return source.Span{File: d.file, Start: start, End: end}, nil
}

func (d *decoder) u32() (uint32, error) {
	raw, err := d.dec.DecodeUint64()
	if err != nil {
		return 0, err
	}
	return safecast.Conv[uint32](raw)
}

func (d *decoder) arrayLen() (int, error) {
	n, err := d.dec.DecodeArrayLen()
	if err != nil {
		return 0, err
	}
	if n > maxLen {
		return 0, fmt.Errorf("astcodec: array of length %d", n)
	}
	return n, nil
}

func (d *decoder) value(v reflect.Value) error {
	t := v.Type()
	if t == spanType {
		n, err := d.arrayLen()
		if err != nil {
			return err
		}
		if n != 2 {
			return fmt.Errorf("astcodec: span array of length %d", n)
		}
		sp, err := d.offsets()
		if err != nil {
			return err
		}
		v.Set(reflect.ValueOf(sp))
		return nil
	}
	if isNodeType(t) {
		n, err := d.node(t)
		if err != nil {
			return err
		}
		v.Set(n)
		return nil
	}
	switch v.Kind() {
	case reflect.Slice:
		n, err := d.arrayLen()
		if err != nil {
			return err
		}
		if n < 0 {
			v.Set(reflect.Zero(t))
			return nil
		}
		s := reflect.MakeSlice(t, n, n)
		for i := 0; i < n; i++ {
			if err := d.value(s.Index(i)); err != nil {
				return err
			}
		}
		v.Set(s)
		return nil
	case reflect.Struct:
		n, err := d.arrayLen()
		if err != nil {
			return err
		}
		if n != v.NumField() {
			return fmt.Errorf("astcodec: %s has %d fields, want %d", t, n, v.NumField())
		}
		for i := 0; i < n; i++ {
			if err := d.value(v.Field(i)); err != nil {
				return err
			}
		}
		return nil
	case reflect.Bool:
		b, err := d.dec.DecodeBool()
		if err != nil {
			return err
		}
		v.SetBool(b)
		return nil
	case reflect.String:
		s, err := d.dec.DecodeString()
		if err != nil {
			return err
		}
		v.SetString(s)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		x, err := d.dec.DecodeInt64()
		if err != nil {
			return err
		}
		if v.OverflowInt(x) {
			return fmt.Errorf("astcodec: %d overflows %s", x, t)
		}
		v.SetInt(x)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		x, err := d.dec.DecodeUint64()
		if err != nil {
			return err
		}
		if v.OverflowUint(x) {
			return fmt.Errorf("astcodec: %d overflows %s", x, t)
		}
		v.SetUint(x)
		return nil
	case reflect.Float32, reflect.Float64:
		x, err := d.dec.DecodeFloat64()
		if err != nil {
			return err
		}
		v.SetFloat(x)
		return nil
	}
	return fmt.Errorf("astcodec: cannot decode %s", t)
}
