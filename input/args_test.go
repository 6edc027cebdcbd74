package input

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustURL(rawurl string) *url.URL {
	u, err := url.Parse(rawurl)
	if err != nil {
		panic("Failed to parse URL: " + rawurl)
	}
	return u
}

func TestParseArgs(t *testing.T) {
	testCases := []struct {
		title         string
		args          []string
		options       Options
		expectedInput *Input
		shouldBeError bool
	}{
		{
			title: "Happy case",
			args:  []string{"GET", "http://example.com/hello"},
			expectedInput: &Input{
				Method: Method("GET"),
				URL:    mustURL("http://example.com/hello"),
			},
		},
		{
			title: "Method is guessed from body",
			args:  []string{"example.com/users", "user[name]=John", "user[tags][]=a"},
			expectedInput: &Input{
				Method: Method("POST"),
				URL:    mustURL("http://example.com/users"),
				Body: Body{
					BodyType: FormBody,
					Fields: []Field{
						{Name: "user[name]", Value: "John"},
						{Name: "user[tags][]", Value: "a"},
					},
				},
			},
		},
		{
			title:   "JSON body",
			args:    []string{"put", "example.com", "a=b"},
			options: Options{JSON: true},
			expectedInput: &Input{
				Method: Method("PUT"),
				URL:    mustURL("http://example.com/"),
				Body: Body{
					BodyType: JSONBody,
					Fields:   []Field{{Name: "a", Value: "b"}},
				},
			},
		},
		{
			title:         "Invalid method",
			args:          []string{"GET/POST", "http://example.com/hello"},
			shouldBeError: true,
		},
		{
			title:         "URL missing",
			args:          []string{},
			shouldBeError: true,
		},
		{
			title:         "Both --json and --form",
			args:          []string{"example.com"},
			options:       Options{JSON: true, Form: true},
			shouldBeError: true,
		},
		{
			title:         "Malformed field name",
			args:          []string{"example.com", "user[name=John"},
			shouldBeError: true,
		},
	}
	for _, tt := range testCases {
		t.Run(tt.title, func(t *testing.T) {
			in, err := ParseArgs(tt.args, strings.NewReader(""), &tt.options)
			if tt.shouldBeError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.expectedInput, in)
		})
	}
}

func TestParseArgs_Stdin(t *testing.T) {
	in, err := ParseArgs([]string{"example.com"}, strings.NewReader("name=Bob%20Jones"), &Options{ReadStdin: true})
	require.NoError(t, err)
	require.Equal(t, RawBody, in.Body.BodyType)
	require.Equal(t, "name=Bob%20Jones", string(in.Body.Raw))
	require.Equal(t, Method("POST"), in.Method)

	_, err = ParseArgs([]string{"example.com", "a=b"}, strings.NewReader("x"), &Options{ReadStdin: true})
	require.Error(t, err)
}

func TestParseArgs_ParamsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "params.yaml")
	require.NoError(t, os.WriteFile(path, []byte("user:\n  name: John\n  avatar: !file tiny.gif\n"), 0o600))

	in, err := ParseArgs([]string{"example.com", "user[age]=30"}, strings.NewReader(""), &Options{ParamsFile: path})
	require.NoError(t, err)

	require.Equal(t, FormBody, in.Body.BodyType)
	require.NotNil(t, in.Body.Params)
	require.Equal(t, []string{"user"}, in.Body.Params.Keys())
	require.Equal(t, []Field{{Name: "user[age]", Value: "30"}}, in.Body.Fields)
}

func TestParseArgs_UsageError(t *testing.T) {
	_, err := ParseArgs(nil, strings.NewReader(""), &Options{})
	var usageErr *UsageError
	require.ErrorAs(t, err, &usageErr)
}

func TestParseItem(t *testing.T) {
	testCases := []struct {
		title                     string
		input                     string
		preferredBodyType         BodyType
		expectedBodyFields        []Field
		expectedBodyRawJSONFields []Field
		expectedBodyFiles         []Field
		expectedHeaderFields      []Field
		expectedParameters        []Field
		shouldBeError             bool
	}{
		{
			title:              "Data field",
			input:              "hello=world",
			expectedBodyFields: []Field{{Name: "hello", Value: "world"}},
		},
		{
			title:              "Data field with empty value",
			input:              "hello=",
			expectedBodyFields: []Field{{Name: "hello", Value: ""}},
		},
		{
			title:              "Data field from file",
			input:              "hello=@world.txt",
			expectedBodyFields: []Field{{Name: "hello", Value: "world.txt", IsFile: true}},
		},
		{
			title:              "Nested data field",
			input:              "user[address][city]=Tokyo",
			expectedBodyFields: []Field{{Name: "user[address][city]", Value: "Tokyo"}},
		},
		{
			title:             "Form file field",
			input:             "user[avatar]@tiny.gif",
			preferredBodyType: FormBody,
			expectedBodyFiles: []Field{{Name: "user[avatar]", Value: "tiny.gif", IsFile: true}},
		},
		{
			title:             "Form file field in JSON body",
			input:             "avatar@tiny.gif",
			preferredBodyType: JSONBody,
			shouldBeError:     true,
		},
		{
			title:                     "Raw JSON field",
			input:                     `hello:=[1, true, "world"]`,
			preferredBodyType:         JSONBody,
			expectedBodyRawJSONFields: []Field{{Name: "hello", Value: `[1, true, "world"]`}},
		},
		{
			title:             "Raw JSON field with invalid JSON",
			input:             `hello:={invalid: JSON}`,
			preferredBodyType: JSONBody,
			shouldBeError:     true,
		},
		{
			title:             "Raw JSON field in form body",
			input:             `hello:=1`,
			preferredBodyType: FormBody,
			shouldBeError:     true,
		},
		{
			title:                "Header field",
			input:                "X-Example:Sample Value",
			expectedHeaderFields: []Field{{Name: "X-Example", Value: "Sample Value"}},
		},
		{
			title:                "Header field with empty value",
			input:                "X-Example:",
			expectedHeaderFields: []Field{{Name: "X-Example", Value: ""}},
		},
		{
			title:         "Invalid header field name",
			input:         `Bad"header":test`,
			shouldBeError: true,
		},
		{
			title:              "URL parameter",
			input:              "hello==world",
			expectedParameters: []Field{{Name: "hello", Value: "world"}},
		},
		{
			title:              "URL parameter with empty value",
			input:              "hello==",
			expectedParameters: []Field{{Name: "hello", Value: ""}},
		},
		{
			title:         "Unknown item",
			input:         "hello",
			shouldBeError: true,
		},
	}
	for _, tt := range testCases {
		t.Run(tt.title, func(t *testing.T) {
			in := Input{}
			st := state{preferredBodyType: tt.preferredBodyType}
			if st.preferredBodyType == EmptyBody {
				st.preferredBodyType = FormBody
			}
			err := parseItem(tt.input, strings.NewReader(""), &st, &in)
			if tt.shouldBeError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.expectedBodyFields, in.Body.Fields)
			require.Equal(t, tt.expectedBodyRawJSONFields, in.Body.RawJSONFields)
			require.Equal(t, tt.expectedBodyFiles, in.Body.Files)
			require.Equal(t, tt.expectedHeaderFields, in.Header.Fields)
			require.Equal(t, tt.expectedParameters, in.Parameters)
		})
	}
}

func TestParseURL(t *testing.T) {
	testCases := []struct {
		title    string
		input    string
		expected url.URL
	}{
		{
			title: "Typical case",
			input: "http://example.com/hello/world",
			expected: url.URL{
				Scheme: "http",
				Host:   "example.com",
				Path:   "/hello/world",
			},
		},
		{
			title: "No scheme",
			input: "example.com/hello/world",
			expected: url.URL{
				Scheme: "http",
				Host:   "example.com",
				Path:   "/hello/world",
			},
		},
		{
			title: "No host and port",
			input: "/hello/world",
			expected: url.URL{
				Scheme: "http",
				Host:   "localhost",
				Path:   "/hello/world",
			},
		},
		{
			title: "No host but has port",
			input: ":8080/hello/world",
			expected: url.URL{
				Scheme: "http",
				Host:   "localhost:8080",
				Path:   "/hello/world",
			},
		},
		{
			title: "Has query parameters",
			input: "http://example.com/?q=hello&lang=ja",
			expected: url.URL{
				Scheme:   "http",
				Host:     "example.com",
				Path:     "/",
				RawQuery: "q=hello&lang=ja",
			},
		},
		{
			title: "No path",
			input: "https://example.com",
			expected: url.URL{
				Scheme: "https",
				Host:   "example.com",
				Path:   "/",
			},
		},
	}
	for _, tt := range testCases {
		t.Run(tt.title, func(t *testing.T) {
			u, err := parseURL(tt.input)
			require.NoError(t, err)
			require.Equal(t, tt.expected, *u)
		})
	}
}

func TestSplitItem(t *testing.T) {
	testCases := []struct {
		title        string
		input        string
		expected     item
		isUsageError bool
		shouldFail   bool
	}{
		{
			title:      "Separator inside a bracket key",
			input:      "user[a:b]=c",
			shouldFail: true,
		},
		{
			title:    "Nested file field",
			input:    "user[photos][]@a.png",
			expected: item{kind: formFileFieldItem, name: "user[photos][]", value: "a.png"},
		},
		{
			title:    "URL parameter keeps brackets unchecked",
			input:    "filter[==x",
			expected: item{kind: urlParameterItem, name: "filter[", value: "x"},
		},
		{
			title:        "Unbalanced file field name",
			input:        "user]@a.png",
			isUsageError: true,
		},
		{
			title:        "Nested bracket in raw JSON field",
			input:        "a[b[c]]:=1",
			isUsageError: true,
		},
	}
	for _, tt := range testCases {
		t.Run(tt.title, func(t *testing.T) {
			it, err := splitItem(tt.input)
			switch {
			case tt.isUsageError:
				var usageErr *UsageError
				require.ErrorAs(t, err, &usageErr)
			case tt.shouldFail:
				require.Error(t, err)
			default:
				require.NoError(t, err)
				require.Equal(t, tt.expected, it)
			}
		})
	}
}

func TestParseArgs_StdinUsedOnce(t *testing.T) {
	_, err := ParseArgs([]string{"example.com", "a=@-", "b=@-"}, strings.NewReader("x"), &Options{})
	require.Error(t, err)

	in, err := ParseArgs([]string{"example.com", "a=@-"}, strings.NewReader("from stdin"), &Options{ReadStdin: true})
	require.NoError(t, err)
	require.Equal(t, FormBody, in.Body.BodyType)
	require.Equal(t, []Field{{Name: "a", Value: "from stdin"}}, in.Body.Fields)
}
