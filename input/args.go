package input

import (
	"encoding/json"
	"io"
	"io/ioutil"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/HexmosTech/formie/body"
	"github.com/pkg/errors"
)

var (
	reMethod          = regexp.MustCompile(`^[a-zA-Z]+$`)
	reHeaderFieldName = regexp.MustCompile("^[-!#$%&'*+.^_|~a-zA-Z0-9]+$")
	reScheme          = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+-.]*://`)
	emptyMethod       = Method("")
)

type UsageError string

func (e *UsageError) Error() string {
	return string(*e)
}

func newUsageError(message string) error {
	u := UsageError(message)
	return errors.WithStack(&u)
}

type itemType int

const (
	unknownItem itemType = iota
	httpHeaderItem
	urlParameterItem
	dataFieldItem
	rawJSONFieldItem
	formFileFieldItem
)

// item is one REQUEST_ITEM argument.
type item struct {
	kind  itemType
	name  string
	value string
}

func (it item) isBodyField() bool {
	return it.kind == dataFieldItem || it.kind == rawJSONFieldItem || it.kind == formFileFieldItem
}

// state collects what the items of one command line add to the request.
type state struct {
	preferredBodyType BodyType
	stdinConsumed     bool
	params            *body.Mapping
}

func newState(options *Options) (*state, error) {
	if options.JSON && options.Form {
		return nil, errors.New("You cannot specify both of --json and --form")
	}
	st := &state{preferredBodyType: FormBody}
	if options.JSON {
		st.preferredBodyType = JSONBody
	}
	if options.ParamsFile != "" {
		params, err := readParamsFile(options.ParamsFile)
		if err != nil {
			return nil, err
		}
		st.params = params
	}
	return st, nil
}

// ParseArgs parses "[METHOD] URL [REQUEST_ITEM ...]" into an Input. Body
// items and the --params document are merged by exchange, document first.
func ParseArgs(args []string, stdin io.Reader, options *Options) (*Input, error) {
	argMethod, argURL, argItems, err := splitArgs(args)
	if err != nil {
		return nil, err
	}

	in := Input{}
	if in.URL, err = parseURL(argURL); err != nil {
		return nil, err
	}

	st, err := newState(options)
	if err != nil {
		return nil, err
	}
	if st.params != nil {
		in.Body.BodyType = st.preferredBodyType
		in.Body.Params = st.params
	}

	for _, arg := range argItems {
		if err := parseItem(arg, stdin, st, &in); err != nil {
			return nil, err
		}
	}
	if options.ReadStdin && !st.stdinConsumed {
		if err := readRawBody(stdin, &in); err != nil {
			return nil, err
		}
		st.stdinConsumed = true
	}

	if argMethod == "" {
		in.Method = guessMethod(&in)
	} else if in.Method, err = parseMethod(argMethod); err != nil {
		return nil, err
	}
	return &in, nil
}

func splitArgs(args []string) (method, rawURL string, items []string, err error) {
	switch {
	case len(args) == 0:
		return "", "", nil, newUsageError("URL is required")
	case len(args) == 1:
		return "", args[0], nil, nil
	case reMethod.MatchString(args[0]):
		return args[0], args[1], args[2:], nil
	default:
		return "", args[0], args[1:], nil
	}
}

func readRawBody(stdin io.Reader, in *Input) error {
	if in.Body.BodyType != EmptyBody {
		return errors.New("request body (from stdin) and request item (key=value) cannot be mixed")
	}
	raw, err := ioutil.ReadAll(stdin)
	if err != nil {
		return errors.Wrap(err, "failed to read stdin")
	}
	in.Body.BodyType = RawBody
	in.Body.Raw = raw
	return nil
}

func readParamsFile(path string) (*body.Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening params document")
	}
	defer f.Close()
	params, err := ParseParamsDocument(f, filepath.Dir(path))
	if err != nil {
		return nil, errors.Wrapf(err, "reading '%s'", path)
	}
	return params, nil
}

func parseMethod(s string) (Method, error) {
	if !reMethod.MatchString(s) {
		return emptyMethod, errors.Errorf("METHOD must consist of alphabets: %s", s)
	}
	return Method(strings.ToUpper(s)), nil
}

func guessMethod(in *Input) Method {
	if in.Body.BodyType == EmptyBody {
		return Method("GET")
	}
	return Method("POST")
}

func parseURL(s string) (*url.URL, error) {
	defaultScheme := "http"
	defaultHost := "localhost"

	// ex) :8080/hello or /hello
	if strings.HasPrefix(s, ":") || strings.HasPrefix(s, "/") {
		s = defaultHost + s
	}

	// ex) example.com/hello
	if !reScheme.MatchString(s) {
		s = defaultScheme + "://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return nil, newUsageError("Invalid URL: " + s)
	}
	u.Host = strings.TrimSuffix(u.Host, ":")
	if u.Path == "" {
		u.Path = "/"
	}
	return u, nil
}

func parseItem(s string, stdin io.Reader, st *state, in *Input) error {
	it, err := splitItem(s)
	if err != nil {
		return err
	}
	return st.apply(it, stdin, in)
}

// splitItem classifies s and validates its name. Body item names must be
// well-formed bracket paths.
func splitItem(s string) (item, error) {
	it := scanItem(s)
	switch {
	case it.kind == unknownItem:
		return it, errors.Errorf("unknown request item: %s", s)
	case it.kind == httpHeaderItem && !reHeaderFieldName.MatchString(it.name):
		return it, errors.Errorf("invalid header field name: %s", it.name)
	case it.isBodyField():
		if _, err := ParseKey(it.name); err != nil {
			return it, newUsageError(err.Error())
		}
	}
	return it, nil
}

// scanItem splits s at its first separator.
func scanItem(s string) item {
	for i, c := range s {
		switch c {
		case ':':
			if strings.HasPrefix(s[i+1:], "=") {
				return item{kind: rawJSONFieldItem, name: s[:i], value: s[i+2:]}
			}
			return item{kind: httpHeaderItem, name: s[:i], value: s[i+1:]}
		case '=':
			if strings.HasPrefix(s[i+1:], "=") {
				return item{kind: urlParameterItem, name: s[:i], value: s[i+2:]}
			}
			return item{kind: dataFieldItem, name: s[:i], value: s[i+1:]}
		case '@':
			return item{kind: formFileFieldItem, name: s[:i], value: s[i+1:]}
		}
	}
	return item{kind: unknownItem}
}

func (st *state) apply(it item, stdin io.Reader, in *Input) error {
	switch it.kind {
	case dataFieldItem:
		field, err := st.parseField(it.name, it.value, stdin)
		if err != nil {
			return err
		}
		in.Body.BodyType = st.preferredBodyType
		in.Body.Fields = append(in.Body.Fields, field)
	case rawJSONFieldItem:
		if st.preferredBodyType != JSONBody {
			return errors.New("raw JSON field item cannot be used in non-JSON body")
		}
		field, err := st.parseField(it.name, it.value, stdin)
		if err != nil {
			return err
		}
		if !json.Valid([]byte(field.Value)) {
			return errors.Errorf("invalid JSON at '%s': %s", it.name, field.Value)
		}
		in.Body.BodyType = JSONBody
		in.Body.RawJSONFields = append(in.Body.RawJSONFields, field)
	case formFileFieldItem:
		if st.preferredBodyType != FormBody {
			return errors.New("form file field item cannot be used in non-form body (perhaps you meant --form?)")
		}
		in.Body.BodyType = FormBody
		in.Body.Files = append(in.Body.Files, Field{Name: it.name, Value: it.value, IsFile: true})
	case httpHeaderItem:
		field, err := st.parseField(it.name, it.value, stdin)
		if err != nil {
			return err
		}
		in.Header.Fields = append(in.Header.Fields, field)
	case urlParameterItem:
		field, err := st.parseField(it.name, it.value, stdin)
		if err != nil {
			return err
		}
		in.Parameters = append(in.Parameters, field)
	default:
		return errors.Errorf("unknown request item: %s", it.name)
	}
	return nil
}

// parseField resolves "@path" values to file fields and "@-" to stdin.
func (st *state) parseField(name, value string, stdin io.Reader) (Field, error) {
	// TODO: handle escaped "@"
	if !strings.HasPrefix(value, "@") {
		return Field{Name: name, Value: value}, nil
	}
	if value[1:] != "-" {
		return Field{Name: name, Value: value[1:], IsFile: true}, nil
	}
	if st.stdinConsumed {
		return Field{}, errors.Errorf("stdin is already used, cannot read '%s' from it", name)
	}
	b, err := ioutil.ReadAll(stdin)
	if err != nil {
		return Field{}, errors.Wrapf(err, "reading stdin for '%s'", name)
	}
	st.stdinConsumed = true
	return Field{Name: name, Value: string(b)}, nil
}
