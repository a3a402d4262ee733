package adapter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/amishk599/jobalert/internal/model"
)

func TestAshbyFetchPostings_SkipsUnlisted(t *testing.T) {
	payload := `{
		"jobs": [
			{"id": "j-1", "title": "Platform Engineer", "location": "Remote - US", "jobUrl": "https://jobs.ashbyhq.com/ramp/j-1", "isListed": true},
			{"id": "j-2", "title": "Hidden Role", "location": "NYC", "jobUrl": "https://jobs.ashbyhq.com/ramp/j-2", "isListed": false},
			{"title": "No ID", "jobUrl": "https://jobs.ashbyhq.com/ramp/j-3", "isListed": true}
		]
	}`
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	postings, err := NewAshbyAdapter("ramp", rewriteClient(srv)).FetchPostings(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/posting-api/job-board/ramp" {
		t.Errorf("unexpected path %s", gotPath)
	}
	if len(postings) != 2 {
		t.Fatalf("expected 2 listed postings, got %d", len(postings))
	}
	if postings[0].ID != "ashby:ramp:j-1" {
		t.Errorf("unexpected ID %s", postings[0].ID)
	}
	if postings[1].ID != "ashby:ramp:https://jobs.ashbyhq.com/ramp/j-3" {
		t.Errorf("expected jobUrl fallback key, got %s", postings[1].ID)
	}
	if len(postings[1].Locations) != 0 {
		t.Errorf("expected no locations, got %v", postings[1].Locations)
	}
}

func TestAshbyFetchPostings_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	if _, err := NewAshbyAdapter("gone", rewriteClient(srv)).FetchPostings(context.Background()); err == nil {
		t.Fatal("expected error for HTTP 404, got nil")
	}
}

func TestAshbyAdapter_BoardExists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/posting-api/job-board/ramp" {
			w.Write([]byte(`{"jobs": []}`))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	if err := NewAshbyAdapter("ramp", rewriteClient(srv)).Probe(context.Background()); err != nil {
		t.Fatalf("ramp: %v", err)
	}

	err := NewAshbyAdapter("missing", rewriteClient(srv)).Probe(context.Background())
	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected HTTPError 404, got %v", err)
	}
}
