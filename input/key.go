package input

import (
	"strings"

	"github.com/HexmosTech/formie/body"
	"github.com/pkg/errors"
)

// KeySegment is one step of a bracketed field name. "user[tags][]" is
// {Key: "user"}, {Key: "tags"}, {Index: true}.
type KeySegment struct {
	Key   string
	Index bool
}

// ParseKey splits a bracketed field name into its segments.
func ParseKey(name string) ([]KeySegment, error) {
	i := strings.IndexByte(name, '[')
	if i == 0 {
		return nil, errors.Errorf("field name must not start with '[': %s", name)
	}
	if i == -1 {
		if strings.IndexByte(name, ']') != -1 {
			return nil, errors.Errorf("unbalanced brackets in field name: %s", name)
		}
		return []KeySegment{{Key: name}}, nil
	}

	path := []KeySegment{{Key: name[:i]}}
	rest := name[i:]
	for len(rest) > 0 {
		if rest[0] != '[' {
			return nil, errors.Errorf("unexpected text after ']' in field name: %s", name)
		}
		j := strings.IndexByte(rest, ']')
		if j == -1 {
			return nil, errors.Errorf("unbalanced brackets in field name: %s", name)
		}
		part := rest[1:j]
		if strings.IndexByte(part, '[') != -1 {
			return nil, errors.Errorf("nested '[' in field name: %s", name)
		}
		if part == "" {
			path = append(path, KeySegment{Index: true})
		} else {
			path = append(path, KeySegment{Key: part})
		}
		rest = rest[j+1:]
	}
	return path, nil
}

// SetParam stores v in m under the bracketed field name, creating nested
// mappings and sequences on the way. Repeating a plain name turns its value
// into a sequence.
func SetParam(m *body.Mapping, name string, v body.Value) error {
	path, err := ParseKey(name)
	if err != nil {
		return err
	}
	return setPath(m, path, v, name)
}

func setPath(m *body.Mapping, path []KeySegment, v body.Value, name string) error {
	key := path[0].Key
	existing, exists := m.Get(key)
	rest := path[1:]

	if len(rest) == 0 {
		if !exists {
			m.Set(key, v)
			return nil
		}
		switch e := existing.(type) {
		case *body.Mapping:
			return errors.Errorf("'%s' is already an object", name)
		case body.Sequence:
			m.Set(key, append(e, v))
		default:
			m.Set(key, body.Sequence{e, v})
		}
		return nil
	}

	if rest[0].Index {
		var seq body.Sequence
		if exists {
			s, ok := existing.(body.Sequence)
			if !ok {
				return errors.Errorf("'%s' mixes a list with a non-list value", name)
			}
			seq = s
		}
		seq, err := appendToSequence(seq, rest[1:], v, name)
		if err != nil {
			return err
		}
		m.Set(key, seq)
		return nil
	}

	child := body.NewMapping()
	if exists {
		c, ok := existing.(*body.Mapping)
		if !ok {
			return errors.Errorf("'%s' mixes an object with a non-object value", name)
		}
		child = c
	}
	if err := setPath(child, rest, v, name); err != nil {
		return err
	}
	m.Set(key, child)
	return nil
}

// appendToSequence handles the part of a path after "[]". "a[][k]" fills the
// last mapping of a until k repeats, then starts a new one.
func appendToSequence(seq body.Sequence, rest []KeySegment, v body.Value, name string) (body.Sequence, error) {
	if len(rest) == 0 {
		return append(seq, v), nil
	}
	if rest[0].Index {
		return nil, errors.Errorf("nested lists are not supported: %s", name)
	}
	if n := len(seq); n > 0 {
		if last, ok := seq[n-1].(*body.Mapping); ok {
			if _, taken := last.Get(rest[0].Key); !taken || len(rest) > 1 {
				if err := setPath(last, rest, v, name); err != nil {
					return nil, err
				}
				return seq, nil
			}
		}
	}
	child := body.NewMapping()
	if err := setPath(child, rest, v, name); err != nil {
		return nil, err
	}
	return append(seq, child), nil
}
