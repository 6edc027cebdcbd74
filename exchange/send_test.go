package exchange

import (
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/HexmosTech/formie/input"
)

func TestSendRequest(t *testing.T) {
	// Setup
	var gotContentType, gotBody, gotUser, gotPassword string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		b, _ := ioutil.ReadAll(r.Body)
		gotBody = string(b)
		gotUser, gotPassword, _ = r.BasicAuth()
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	in := &input.Input{
		Method: input.Method("POST"),
		URL:    parseURL(t, server.URL+"/people"),
		Body: input.Body{
			BodyType: input.FormBody,
			Fields: []input.Field{
				{Name: "people[]", Value: "Bob Jones"},
				{Name: "people[]", Value: "Mike Smith"},
			},
		},
	}
	options := &Options{
		Timeout: 5 * time.Second,
		Auth:    AuthOptions{Enabled: true, UserName: "alice", Password: "secret"},
	}
	r, err := BuildHTTPRequest(in, options)
	if err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}

	// Exercise
	resp, err := SendRequest(r, options)
	if err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}
	defer resp.Body.Close()

	// Verify
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("unexpected status: %d", resp.StatusCode)
	}
	if gotContentType != "application/x-www-form-urlencoded; charset=utf-8" {
		t.Errorf("unexpected content type: %s", gotContentType)
	}
	if gotBody != "people[]=Bob%20Jones&people[]=Mike%20Smith" {
		t.Errorf("unexpected body: %s", gotBody)
	}
	if gotUser != "alice" || gotPassword != "secret" {
		t.Errorf("unexpected credentials: user=%s, password=%s", gotUser, gotPassword)
	}
}

func TestBuildHTTPClient_Redirects(t *testing.T) {
	// Setup
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/old" {
			http.Redirect(w, r, "/new", http.StatusFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	testCases := []struct {
		title    string
		follow   bool
		expected int
	}{
		{title: "Not following", follow: false, expected: http.StatusFound},
		{title: "Following", follow: true, expected: http.StatusOK},
	}
	for _, tt := range testCases {
		t.Run(tt.title, func(t *testing.T) {
			client, err := BuildHTTPClient(&Options{FollowRedirects: tt.follow})
			if err != nil {
				t.Fatalf("unexpected error: err=%+v", err)
			}

			// Exercise
			resp, err := client.Get(server.URL + "/old")
			if err != nil {
				t.Fatalf("unexpected error: err=%+v", err)
			}
			resp.Body.Close()

			// Verify
			if resp.StatusCode != tt.expected {
				t.Errorf("unexpected status: expected=%d, actual=%d", tt.expected, resp.StatusCode)
			}
		})
	}
}
