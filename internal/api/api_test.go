package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestGETBuildsQuery(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	resp, err := c.GET(context.Background(), "/company", url.Values{"id": {"TCS"}, "api_key": {"k"}})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if gotQuery.Get("id") != "TCS" || gotQuery.Get("api_key") != "k" {
		t.Errorf("Expected id and api_key in query, got %v", gotQuery)
	}

	var body struct {
		OK bool `json:"ok"`
	}
	if err := resp.ParseJSON(&body); err != nil || !body.OK {
		t.Errorf("Expected ok body, got %s (%v)", resp.String(), err)
	}
}

func TestDoReturnsStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.GET(context.Background(), "", nil)

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("Expected StatusError, got %v", err)
	}
	if se.StatusCode != http.StatusForbidden {
		t.Errorf("Expected 403, got %d", se.StatusCode)
	}
}

func TestRedactDropsQuery(t *testing.T) {
	got := redact("https://api.example.com/company?id=TCS&api_key=secret")
	if strings.Contains(got, "secret") {
		t.Errorf("Expected api key to be redacted, got %s", got)
	}
	if got != "https://api.example.com/company" {
		t.Errorf("Unexpected redacted URL %s", got)
	}
}
