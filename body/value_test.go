package body

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestScalar_Text(t *testing.T) {
	testCases := []struct {
		scalar   Scalar
		expected string
	}{
		{String("hello"), "hello"},
		{Int(-42), "-42"},
		{Float(3.25), "3.25"},
		{Bool(true), "true"},
		{Bool(false), "false"},
		{Scalar{}, ""},
	}
	for _, tt := range testCases {
		if actual := tt.scalar.Text(); actual != tt.expected {
			t.Errorf("unexpected text: expected=%s, actual=%s", tt.expected, actual)
		}
	}
}

func TestMapping_KeepsInsertionOrder(t *testing.T) {
	m := NewMapping().Set("z", Int(1)).Set("a", Int(2)).Set("m", Int(3))
	m.Set("z", Int(4))

	if diff := cmp.Diff([]string{"z", "a", "m"}, m.Keys()); diff != "" {
		t.Errorf("unexpected keys (-want +got):\n%s", diff)
	}
	v, ok := m.Get("z")
	if !ok || v.(Scalar).Text() != "4" {
		t.Errorf("replaced value not stored: %v", v)
	}
	if m.Len() != 3 {
		t.Errorf("unexpected length: %d", m.Len())
	}
}

func TestMapping_MarshalJSON(t *testing.T) {
	m := NewMapping().
		Set("name", String("John")).
		Set("tags", Sequence{String("a"), Int(1)}).
		Set("nested", NewMapping().Set("ok", Bool(true)))

	b, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}

	expected := `{"name":"John","tags":["a",1],"nested":{"ok":true}}`
	if string(b) != expected {
		t.Errorf("unexpected JSON: expected=%s, actual=%s", expected, b)
	}
}

func TestMapping_MarshalJSONRejectsFiles(t *testing.T) {
	m := NewMapping().Set("f", newUpload("f.txt"))
	if _, err := json.Marshal(m); err == nil {
		t.Errorf("expected an error for a file value")
	}
}

func TestFrom(t *testing.T) {
	f, err := os.Open("testdata/tiny.gif")
	if err != nil {
		t.Fatalf("failed to open fixture: %v", err)
	}
	defer f.Close()

	v, err := From(map[string]interface{}{
		"b":      []interface{}{"x", 2, map[string]interface{}{"k": true}},
		"a":      "first",
		"avatar": f,
	})
	if err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}

	m, ok := v.(*Mapping)
	if !ok {
		t.Fatalf("expected a mapping, got %T", v)
	}
	if diff := cmp.Diff([]string{"a", "avatar", "b"}, m.Keys()); diff != "" {
		t.Errorf("unexpected keys (-want +got):\n%s", diff)
	}
	avatar, _ := m.Get("avatar")
	if !IsFileLike(avatar) || avatar.(File).Path() != "testdata/tiny.gif" {
		t.Errorf("unexpected avatar value: %#v", avatar)
	}
	if diff := cmp.Diff([]string{"a", "avatar", "b[]", "b[]", "b[][k]"}, pairKeys(Flatten("", m))); diff != "" {
		t.Errorf("unexpected flattened keys (-want +got):\n%s", diff)
	}
}

func TestFrom_Unsupported(t *testing.T) {
	if _, err := From(struct{}{}); err == nil {
		t.Errorf("expected an error for an unsupported type")
	}
	if _, err := From([]interface{}{make(chan int)}); err == nil {
		t.Errorf("expected an error for an unsupported element")
	}
}

func TestFromStruct(t *testing.T) {
	type options struct {
		Query  string   `url:"q"`
		Page   int      `url:"page"`
		Tags   []string `url:"tags,brackets"`
		Colors []string `url:"color"`
		Empty  string   `url:"empty,omitempty"`
	}

	m, err := FromStruct(options{Query: "foo bar", Page: 2, Tags: []string{"x"}, Colors: []string{"red", "blue"}})
	if err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}

	actual, err := ToQueryString(m)
	if err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}
	expected := strings.Join([]string{
		"color[]=red",
		"color[]=blue",
		"page=2",
		"q=foo%20bar",
		"tags[]=x",
	}, "&")
	if actual != expected {
		t.Errorf("unexpected query string: expected=%s, actual=%s", expected, actual)
	}
}
