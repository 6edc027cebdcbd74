package exchange

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"code.cloudfoundry.org/bytefmt"
	"github.com/HexmosTech/formie/body"
	"github.com/HexmosTech/formie/input"
	"github.com/HexmosTech/formie/version"
	"github.com/pkg/errors"
)

func BuildHTTPRequest(in *input.Input, options *Options) (*http.Request, error) {
	u, err := buildURL(in)
	if err != nil {
		return nil, err
	}

	header, err := buildHTTPHeader(in)
	if err != nil {
		return nil, err
	}

	bodyTuple, err := buildHTTPBody(in, options)
	if err != nil {
		return nil, err
	}

	if header.Get("Content-Type") == "" && bodyTuple.contentType != "" {
		header.Set("Content-Type", bodyTuple.contentType)
	}
	if header.Get("User-Agent") == "" {
		header.Set("User-Agent", fmt.Sprintf("formie/%s", version.Current()))
	}

	r := http.Request{
		Method:        string(in.Method),
		URL:           u,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Host:          header.Get("Host"),
		Body:          bodyTuple.body,
		ContentLength: bodyTuple.contentLength,
	}
	if bodyTuple.content != nil {
		content := bodyTuple.content
		r.GetBody = func() (io.ReadCloser, error) {
			return ioutil.NopCloser(bytes.NewReader(content)), nil
		}
	}
	if options.Auth.Enabled {
		r.SetBasicAuth(options.Auth.UserName, options.Auth.Password)
	}
	return &r, nil
}

func buildURL(in *input.Input) (*url.URL, error) {
	q, err := url.ParseQuery(in.URL.RawQuery)
	if err != nil {
		return nil, errors.Wrap(err, "parsing query string")
	}
	for _, field := range in.Parameters {
		value, err := resolveFieldValue(field)
		if err != nil {
			return nil, err
		}
		q.Add(field.Name, value)
	}

	u := *in.URL
	u.RawQuery = q.Encode()
	return &u, nil
}

func buildHTTPHeader(in *input.Input) (http.Header, error) {
	header := make(http.Header)
	for _, field := range in.Header.Fields {
		value, err := resolveFieldValue(field)
		if err != nil {
			return nil, err
		}
		header.Add(field.Name, value)
	}
	return header, nil
}

type bodyTuple struct {
	body          io.ReadCloser
	content       []byte
	contentLength int64
	contentType   string
}

func newBodyTuple(content []byte, contentType string) bodyTuple {
	return bodyTuple{
		body:          ioutil.NopCloser(bytes.NewReader(content)),
		content:       content,
		contentLength: int64(len(content)),
		contentType:   contentType,
	}
}

func buildHTTPBody(in *input.Input, options *Options) (bodyTuple, error) {
	switch in.Body.BodyType {
	case input.EmptyBody:
		return bodyTuple{}, nil
	case input.JSONBody:
		return buildJSONBody(in)
	case input.FormBody:
		return buildFormBody(in, options)
	case input.RawBody:
		return buildRawBody(in)
	default:
		return bodyTuple{}, errors.Errorf("unknown body type: %v", in.Body.BodyType)
	}
}

func buildJSONBody(in *input.Input) (bodyTuple, error) {
	params, err := buildParams(in)
	if err != nil {
		return bodyTuple{}, err
	}
	for _, field := range in.Body.RawJSONFields {
		value, err := resolveFieldValue(field)
		if err != nil {
			return bodyTuple{}, err
		}
		var v interface{}
		if err := json.Unmarshal([]byte(value), &v); err != nil {
			return bodyTuple{}, errors.Wrapf(err, "parsing JSON value of '%s'", field.Name)
		}
		bv, err := body.From(v)
		if err != nil {
			return bodyTuple{}, errors.Wrapf(err, "converting JSON value of '%s'", field.Name)
		}
		if err := input.SetParam(params, field.Name, bv); err != nil {
			return bodyTuple{}, err
		}
	}
	content, err := json.Marshal(params)
	if err != nil {
		return bodyTuple{}, errors.Wrap(err, "marshaling JSON of HTTP body")
	}
	return newBodyTuple(content, "application/json"), nil
}

func buildFormBody(in *input.Input, options *Options) (bodyTuple, error) {
	params, err := buildParams(in)
	if err != nil {
		return bodyTuple{}, err
	}
	builder := body.New(params, body.WithDetectMimeType(options.DetectMimeType))
	encoded, err := builder.Build()
	if err != nil {
		return bodyTuple{}, errors.Wrap(err, "encoding form body")
	}
	slog.Debug("encoded form body", "kind", encoded.Kind.String(), "size", bytefmt.ByteSize(uint64(len(encoded.Content))))

	contentType := encoded.ContentType()
	if encoded.Kind == body.URLEncoded {
		contentType += "; charset=utf-8"
	}
	return newBodyTuple(encoded.Content, contentType), nil
}

func buildRawBody(in *input.Input) (bodyTuple, error) {
	encoded, err := body.New(body.String(string(in.Body.Raw))).Build()
	if err != nil {
		return bodyTuple{}, err
	}
	return newBodyTuple(encoded.Content, "application/json"), nil
}

// buildParams merges the params document with the request items, in that
// order.
func buildParams(in *input.Input) (*body.Mapping, error) {
	params := in.Body.Params
	if params == nil {
		params = body.NewMapping()
	}
	for _, field := range in.Body.Fields {
		value, err := resolveFieldValue(field)
		if err != nil {
			return nil, err
		}
		if err := input.SetParam(params, field.Name, body.String(value)); err != nil {
			return nil, err
		}
	}
	for _, field := range in.Body.Files {
		if err := input.SetParam(params, field.Name, body.FileFromPath(field.Value)); err != nil {
			return nil, err
		}
	}
	return params, nil
}

func resolveFieldValue(field input.Field) (string, error) {
	if field.IsFile {
		if strings.HasPrefix(field.Value, "-") {
			return "", errors.New("reading field value from STDIN is not implemented")
		} else {
			data, err := ioutil.ReadFile(field.Value)
			if err != nil {
				return "", errors.Wrapf(err, "reading field value of '%s'", field.Name)
			}
			return string(data), nil
		}
	} else {
		return field.Value, nil
	}
}
