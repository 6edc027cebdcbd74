package body

import (
	"bytes"
	"io"
	"path/filepath"

	"github.com/pkg/errors"
)

// Kind tells how a Body was encoded.
type Kind int

const (
	Passthrough Kind = iota
	URLEncoded
	Multipart
)

func (k Kind) String() string {
	switch k {
	case Passthrough:
		return "passthrough"
	case URLEncoded:
		return "urlencoded"
	case Multipart:
		return "multipart"
	default:
		return "unknown"
	}
}

// Body is the result of Builder.Build.
type Body struct {
	Kind Kind
	// Raw is the untouched parameter value when Kind is Passthrough.
	Raw      Value
	Content  []byte
	Boundary string
}

// ContentType returns the Content-Type header value matching the body, or ""
// for a passthrough body.
func (b *Body) ContentType() string {
	switch b.Kind {
	case URLEncoded:
		return "application/x-www-form-urlencoded"
	case Multipart:
		return "multipart/form-data; boundary=" + b.Boundary
	default:
		return ""
	}
}

func (b *Body) String() string {
	return string(b.Content)
}

// Part is one segment of a multipart body.
type Part struct {
	Name        string
	Filename    string
	ContentType string
	Content     []byte
	IsFile      bool
}

// Builder turns parameters into a request body. A Builder is meant to be used
// from a single goroutine.
type Builder struct {
	params         Value
	renderer       QueryStringRenderer
	customRenderer bool
	detectMimeType bool
	generate       func() string
	boundary       string
	generated      bool
	err            error
}

// Option configures a Builder.
type Option func(*Builder)

// WithQueryStringRenderer replaces the default query string rendering of
// mappings without files. Multipart bodies are not affected.
func WithQueryStringRenderer(r QueryStringRenderer) Option {
	return func(b *Builder) {
		if f, ok := r.(QueryStringRendererFunc); ok && f == nil {
			b.err = errors.WithStack(&ConfigurationError{Message: "query string renderer is a nil function"})
			return
		}
		if r != nil {
			b.renderer = r
			b.customRenderer = true
		}
	}
}

// WithDetectMimeType enables extension based content types for file parts.
func WithDetectMimeType(detect bool) Option {
	return func(b *Builder) {
		b.detectMimeType = detect
	}
}

// WithBoundaryGenerator overrides GenerateBoundary.
func WithBoundaryGenerator(gen func() string) Option {
	return func(b *Builder) {
		if gen != nil {
			b.generate = gen
		}
	}
}

// New returns a Builder for params.
func New(params Value, opts ...Option) *Builder {
	b := &Builder{
		params:   params,
		renderer: DefaultQueryStringRenderer,
		generate: GenerateBoundary,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Boundary returns the multipart boundary, generating it on first use.
func (b *Builder) Boundary() string {
	if !b.generated {
		b.boundary = b.generate()
		b.generated = true
	}
	return b.boundary
}

// IsMultipart reports whether Build will produce a multipart body.
func (b *Builder) IsMultipart() bool {
	return IsMapping(b.params) && ContainsFile(b.params)
}

// Build encodes the parameters. Non-mapping parameters are passed through,
// mappings without files become a query string, and anything else becomes
// multipart/form-data.
func (b *Builder) Build() (*Body, error) {
	if b.err != nil {
		return nil, b.err
	}

	m, ok := b.params.(*Mapping)
	if !ok || m == nil {
		body := &Body{Kind: Passthrough, Raw: b.params}
		if s, ok := b.params.(Scalar); ok {
			body.Content = []byte(s.Text())
		}
		return body, nil
	}

	if !ContainsFile(m) {
		s, err := b.renderer.RenderQueryString(m)
		if err != nil {
			if b.customRenderer {
				return nil, errors.WithStack(&ConfigurationError{Message: "custom query string renderer failed", Err: err})
			}
			return nil, errors.Wrap(err, "encoding query string")
		}
		return &Body{Kind: URLEncoded, Content: []byte(s)}, nil
	}

	parts, err := b.Parts()
	if err != nil {
		return nil, err
	}
	return &Body{
		Kind:     Multipart,
		Content:  b.encodeParts(parts),
		Boundary: b.Boundary(),
	}, nil
}

// Parts flattens the parameters and reads every file value.
func (b *Builder) Parts() ([]Part, error) {
	pairs := Flatten("", b.params)
	parts := make([]Part, 0, len(pairs))
	for _, pair := range pairs {
		f, ok := pair.Value.(File)
		if !ok || f.FileLike == nil {
			parts = append(parts, Part{Name: pair.Key, Content: []byte(leafText(pair.Value))})
			continue
		}

		content, err := io.ReadAll(f)
		if err != nil {
			return nil, errors.WithStack(&ReadError{Name: pair.Key, Path: f.Path(), Err: err})
		}
		parts = append(parts, Part{
			Name:        pair.Key,
			Filename:    fileName(f),
			ContentType: ResolveMimeType(f, b.detectMimeType),
			Content:     content,
			IsFile:      true,
		})
	}
	return parts, nil
}

func (b *Builder) encodeParts(parts []Part) []byte {
	boundary := b.Boundary()
	var buf bytes.Buffer
	for _, p := range parts {
		buf.WriteString("--" + boundary + "\r\n")
		buf.WriteString(`Content-Disposition: form-data; name="` + p.Name + `"`)
		if p.IsFile {
			buf.WriteString(`; filename="` + p.Filename + `"`)
		}
		buf.WriteString("\r\n")
		if p.IsFile {
			buf.WriteString("Content-Type: " + p.ContentType + "\r\n")
		}
		buf.WriteString("\r\n")
		buf.Write(p.Content)
		buf.WriteString("\r\n")
	}
	buf.WriteString("--" + boundary + "--\r\n")
	return buf.Bytes()
}

func fileName(f File) string {
	if n, ok := f.FileLike.(OriginalNamer); ok && n.OriginalFilename() != "" {
		return n.OriginalFilename()
	}
	return filepath.Base(f.Path())
}
