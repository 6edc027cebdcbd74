package input

import (
	"io"
	"path/filepath"
	"strconv"

	"github.com/HexmosTech/formie/body"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// fileTag marks a scalar in a params document as a path to upload.
const fileTag = "!file"

// ParseParamsDocument reads a YAML or JSON document whose top level is an
// object and converts it into parameters, keeping key order. Scalars tagged
// !file become file values; relative paths are resolved against baseDir.
func ParseParamsDocument(r io.Reader, baseDir string) (*body.Mapping, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return body.NewMapping(), nil
		}
		return nil, errors.Wrap(err, "parsing params document")
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	v, err := nodeToValue(root, baseDir)
	if err != nil {
		return nil, err
	}
	m, ok := v.(*body.Mapping)
	if !ok {
		return nil, errors.Errorf("params document must be an object (line %d)", root.Line)
	}
	return m, nil
}

func nodeToValue(n *yaml.Node, baseDir string) (body.Value, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return nodeToValue(n.Alias, baseDir)
	case yaml.MappingNode:
		m := body.NewMapping()
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return nil, errors.Errorf("params document keys must be scalars (line %d)", k.Line)
			}
			value, err := nodeToValue(v, baseDir)
			if err != nil {
				return nil, errors.Wrapf(err, "in '%s'", k.Value)
			}
			m.Set(k.Value, value)
		}
		return m, nil
	case yaml.SequenceNode:
		seq := make(body.Sequence, 0, len(n.Content))
		for _, e := range n.Content {
			value, err := nodeToValue(e, baseDir)
			if err != nil {
				return nil, err
			}
			seq = append(seq, value)
		}
		return seq, nil
	case yaml.ScalarNode:
		return scalarToValue(n, baseDir)
	default:
		return nil, errors.Errorf("unsupported YAML node at line %d", n.Line)
	}
}

func scalarToValue(n *yaml.Node, baseDir string) (body.Value, error) {
	switch n.Tag {
	case fileTag:
		path := n.Value
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		return body.FileFromPath(path), nil
	case "!!int":
		i, err := strconv.ParseInt(n.Value, 0, 64)
		if err != nil {
			// Out of range or YAML 1.1 style; keep the text.
			return body.String(n.Value), nil
		}
		return body.Int(i), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, errors.Wrapf(err, "decoding float at line %d", n.Line)
		}
		return body.Float(f), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, errors.Wrapf(err, "decoding bool at line %d", n.Line)
		}
		return body.Bool(b), nil
	case "!!null":
		return body.String(""), nil
	default:
		return body.String(n.Value), nil
	}
}
