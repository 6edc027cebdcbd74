package body

import (
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// Pair is one leaf of a flattened parameter tree.
type Pair struct {
	Key   string
	Value Value
}

// Flatten expands v into bracket-keyed pairs in declaration order. Mapping
// entries become key[child], sequence elements become key[]. An empty key
// leaves the top-level mapping keys bare.
func Flatten(key string, v Value) []Pair {
	var pairs []Pair
	flattenInto(&pairs, key, v)
	return pairs
}

func flattenInto(out *[]Pair, key string, v Value) {
	switch x := v.(type) {
	case *Mapping:
		if x == nil {
			return
		}
		x.Each(func(k string, child Value) bool {
			flattenInto(out, childKey(key, k), child)
			return true
		})
	case Sequence:
		if len(x) == 0 {
			*out = append(*out, Pair{Key: key + "[]", Value: String("")})
			return
		}
		for _, e := range x {
			flattenInto(out, key+"[]", e)
		}
	default:
		*out = append(*out, Pair{Key: key, Value: v})
	}
}

func childKey(parent, k string) string {
	if parent == "" {
		return k
	}
	var b strings.Builder
	b.Grow(len(parent) + len(k) + 2)
	b.WriteString(parent)
	b.WriteString("[")
	b.WriteString(k)
	b.WriteString("]")
	return b.String()
}

// ToQueryString renders m as an application/x-www-form-urlencoded string such
// as "people[]=Bob%20Jones&people[]=Mike%20Smith". Files with content are
// rejected; empty leaves render as "key=".
func ToQueryString(m *Mapping) (string, error) {
	if m == nil {
		return "", nil
	}
	pairs := Flatten("", m)
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		if IsFileLike(p.Value) {
			return "", errors.Errorf("cannot encode the file at '%s' in a query string", p.Key)
		}
		parts = append(parts, escapeKey(p.Key)+"="+escapeValue(leafText(p.Value)))
	}
	return strings.Join(parts, "&"), nil
}

// leafText is the text of a flattened leaf. Anything but a Scalar, such as a
// nil value or a File without content, is empty.
func leafText(v Value) string {
	if s, ok := v.(Scalar); ok {
		return s.Text()
	}
	return ""
}

var keyUnescaper = strings.NewReplacer("%5B", "[", "%5D", "]")

func escapeKey(k string) string {
	return keyUnescaper.Replace(escapeValue(k))
}

// QueryEscape only turns spaces into '+', and a literal '+' is already %2B.
func escapeValue(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// QueryStringRenderer turns a parameter mapping into a query string.
type QueryStringRenderer interface {
	RenderQueryString(m *Mapping) (string, error)
}

// QueryStringRendererFunc adapts a function to QueryStringRenderer.
type QueryStringRendererFunc func(m *Mapping) (string, error)

func (f QueryStringRendererFunc) RenderQueryString(m *Mapping) (string, error) {
	return f(m)
}

// DefaultQueryStringRenderer renders with ToQueryString.
var DefaultQueryStringRenderer QueryStringRenderer = QueryStringRendererFunc(ToQueryString)
