package body

import (
	"encoding/json"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/google/go-querystring/query"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Value is a parameter value. It is one of Scalar, Sequence, *Mapping or File.
type Value interface {
	isValue()
}

// Scalar is a string, number or boolean.
type Scalar struct {
	v interface{}
}

// Sequence is an ordered list of values.
type Sequence []Value

// Mapping is a string-keyed map that remembers insertion order.
type Mapping struct {
	m *orderedmap.OrderedMap[string, Value]
}

// FileLike is anything that has a location and can be read.
type FileLike interface {
	io.Reader
	Path() string
}

// OriginalNamer is implemented by file values that know the name they were
// uploaded under.
type OriginalNamer interface {
	OriginalFilename() string
}

// File is a parameter value holding file content.
type File struct {
	FileLike
}

func (Scalar) isValue()   {}
func (Sequence) isValue() {}
func (*Mapping) isValue() {}
func (File) isValue()     {}

// String returns a Scalar holding s.
func String(s string) Scalar { return Scalar{v: s} }

// Int returns a Scalar holding n.
func Int(n int64) Scalar { return Scalar{v: n} }

// Float returns a Scalar holding f.
func Float(f float64) Scalar { return Scalar{v: f} }

// Bool returns a Scalar holding b.
func Bool(b bool) Scalar { return Scalar{v: b} }

// Text returns the textual form of the scalar.
func (s Scalar) Text() string {
	if s.v == nil {
		return ""
	}
	t, err := cast.ToStringE(s.v)
	if err != nil {
		return ""
	}
	return t
}

// Interface returns the underlying Go value.
func (s Scalar) Interface() interface{} {
	return s.v
}

func (s Scalar) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.v)
}

func (f File) MarshalJSON() ([]byte, error) {
	return nil, errors.Errorf("file value %s cannot be encoded as JSON", f.Path())
}

// NewMapping returns an empty Mapping.
func NewMapping() *Mapping {
	return &Mapping{m: orderedmap.New[string, Value]()}
}

// Set adds or replaces key. A replaced key keeps its original position.
func (m *Mapping) Set(key string, v Value) *Mapping {
	m.m.Set(key, v)
	return m
}

// Get returns the value stored under key.
func (m *Mapping) Get(key string) (Value, bool) {
	return m.m.Get(key)
}

// Len returns the number of keys.
func (m *Mapping) Len() int {
	return m.m.Len()
}

// Keys returns the keys in insertion order.
func (m *Mapping) Keys() []string {
	keys := make([]string, 0, m.m.Len())
	for pair := m.m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Each calls fn for every entry in insertion order until fn returns false.
func (m *Mapping) Each(fn func(key string, v Value) bool) {
	for pair := m.m.Oldest(); pair != nil; pair = pair.Next() {
		if !fn(pair.Key, pair.Value) {
			return
		}
	}
}

func (m *Mapping) MarshalJSON() ([]byte, error) {
	return m.m.MarshalJSON()
}

// Upload is a FileLike backed by an arbitrary reader.
type Upload struct {
	io.Reader
	Location string
	Name     string
}

func (u *Upload) Path() string { return u.Location }

func (u *Upload) OriginalFilename() string { return u.Name }

type osFile struct {
	*os.File
}

func (f osFile) Path() string { return f.Name() }

// OSFile adapts an opened *os.File to FileLike.
func OSFile(f *os.File) File {
	return File{osFile{f}}
}

// From converts a native Go value into a Value. Maps are visited in sorted key
// order since Go maps have no order of their own; use *Mapping to control it.
func From(v interface{}) (Value, error) {
	switch x := v.(type) {
	case nil:
		return String(""), nil
	case Value:
		return x, nil
	case *os.File:
		return OSFile(x), nil
	case FileLike:
		return File{x}, nil
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return Scalar{v: x}, nil
	case []string:
		seq := make(Sequence, 0, len(x))
		for _, s := range x {
			seq = append(seq, String(s))
		}
		return seq, nil
	case []interface{}:
		seq := make(Sequence, 0, len(x))
		for i, e := range x {
			ev, err := From(e)
			if err != nil {
				return nil, errors.Wrapf(err, "converting element %d", i)
			}
			seq = append(seq, ev)
		}
		return seq, nil
	case map[string]interface{}:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := NewMapping()
		for _, k := range keys {
			ev, err := From(x[k])
			if err != nil {
				return nil, errors.Wrapf(err, "converting key '%s'", k)
			}
			m.Set(k, ev)
		}
		return m, nil
	case map[string]string:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := NewMapping()
		for _, k := range keys {
			m.Set(k, String(x[k]))
		}
		return m, nil
	default:
		return nil, errors.Errorf("unsupported parameter type: %T", v)
	}
}

// FromStruct converts a struct tagged with `url:"..."` into a flat Mapping.
// Keys come out in sorted order; a field with several values becomes a
// Sequence.
func FromStruct(v interface{}) (*Mapping, error) {
	values, err := query.Values(v)
	if err != nil {
		return nil, errors.Wrap(err, "encoding struct parameters")
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	m := NewMapping()
	for _, k := range keys {
		vs := values[k]
		// `url:",brackets"` already suffixes the key; Flatten adds it back.
		bracketed := strings.HasSuffix(k, "[]")
		k = strings.TrimSuffix(k, "[]")
		if len(vs) == 1 && !bracketed {
			m.Set(k, String(vs[0]))
			continue
		}
		seq := make(Sequence, 0, len(vs))
		for _, s := range vs {
			seq = append(seq, String(s))
		}
		m.Set(k, seq)
	}
	return m, nil
}
