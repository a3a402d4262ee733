package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amishk599/jobalert/internal/config"
	"github.com/amishk599/jobalert/internal/filter"
	"github.com/amishk599/jobalert/internal/model"
	"github.com/amishk599/jobalert/internal/notifier"
	"github.com/amishk599/jobalert/internal/store"
)

// --- Fakes ---

// stubFetcher returns a canned slice of postings or an error.
type stubFetcher struct {
	postings []model.Posting
	err      error
}

func (f *stubFetcher) FetchPostings(_ context.Context) ([]model.Posting, error) {
	return f.postings, f.err
}

// memStore keeps the seen-set in memory and counts saves.
type memStore struct {
	set     *model.SeenSet
	loadErr error
	saveErr error
	saves   int
}

func newMemStore(ids ...string) *memStore {
	return &memStore{set: model.NewSeenSet(ids...)}
}

func (s *memStore) Load() (*model.SeenSet, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return model.NewSeenSet(s.set.IDs()...), nil
}

func (s *memStore) Save(set *model.SeenSet) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.set = model.NewSeenSet(set.IDs()...)
	return nil
}

// recordingNotifier records every batch it receives.
type recordingNotifier struct {
	batches [][]model.Posting
	err     error
}

func (n *recordingNotifier) Notify(_ context.Context, postings []model.Posting) error {
	n.batches = append(n.batches, postings)
	return n.err
}

// --- Helpers ---

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func acceptAll(t *testing.T) *filter.Rules {
	t.Helper()
	r, err := filter.NewRules(config.FilterConfig{})
	require.NoError(t, err)
	return r
}

func makePostings(company string, ids ...string) []model.Posting {
	out := make([]model.Posting, len(ids))
	for i, id := range ids {
		out[i] = model.Posting{
			ID:        "greenhouse:" + company + ":" + id,
			Source:    model.SourceGreenhouse,
			Company:   company,
			Title:     "Software Engineer",
			URL:       "https://example.com/" + id,
			Locations: []string{"Remote"},
		}
	}
	return out
}

func source(company string, f model.PostingFetcher) Source {
	return Source{Family: model.SourceGreenhouse, Company: company, Fetcher: f}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// rewriteClient sends every request to srv, keeping the original path.
func rewriteClient(srv *httptest.Server) *http.Client {
	target, _ := url.Parse(srv.URL)
	return &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		req.URL.Scheme = target.Scheme
		req.URL.Host = target.Host
		return http.DefaultTransport.RoundTrip(req)
	})}
}

// --- Tests ---

func TestRun_NotifiesNewMatchesAndSaves(t *testing.T) {
	st := newMemStore("greenhouse:acme:2")
	n := &recordingNotifier{}
	r := NewRunner(
		[]Source{source("acme", &stubFetcher{postings: makePostings("acme", "1", "2", "3")})},
		acceptAll(t), st, n, discardLogger(),
	)

	sum, err := r.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, n.batches, 1)
	assert.Len(t, n.batches[0], 2)
	assert.Equal(t, 3, sum.Fetched)
	assert.Equal(t, 1, sum.AlreadySeen)
	assert.Equal(t, 2, sum.New)
	assert.Equal(t, 2, sum.Matched)
	assert.Equal(t, 2, sum.Notified)
	assert.NotEmpty(t, sum.RunID)
	assert.Equal(t, []string{"greenhouse:acme:1", "greenhouse:acme:2", "greenhouse:acme:3"}, st.set.IDs())
}

func TestRun_Idempotent(t *testing.T) {
	st := newMemStore()
	n := &recordingNotifier{}
	r := NewRunner(
		[]Source{source("acme", &stubFetcher{postings: makePostings("acme", "1", "2")})},
		acceptAll(t), st, n, discardLogger(),
	)

	first, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, first.Matched)

	second, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.New)
	assert.Equal(t, 0, second.Matched)
	assert.Equal(t, 2, second.AlreadySeen)
	assert.Len(t, n.batches, 1, "second run must not notify")
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestRun_NonMatchingNewPostingsAreMarkedSeen(t *testing.T) {
	rules, err := filter.NewRules(config.FilterConfig{IncludeTitles: []string{"designer"}})
	require.NoError(t, err)

	st := newMemStore()
	n := &recordingNotifier{}
	r := NewRunner(
		[]Source{source("acme", &stubFetcher{postings: makePostings("acme", "1")})},
		rules, st, n, discardLogger(),
	)

	sum, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.New)
	assert.Equal(t, 0, sum.Matched)
	assert.Empty(t, n.batches)
	assert.True(t, st.set.Has("greenhouse:acme:1"))
}

func TestRun_FetchErrorSkipsSource(t *testing.T) {
	st := newMemStore()
	n := &recordingNotifier{}
	failing := &stubFetcher{err: &model.FetchError{Source: "greenhouse", Company: "broken", Err: errors.New("HTTP 500")}}
	r := NewRunner(
		[]Source{
			source("broken", failing),
			source("acme", &stubFetcher{postings: makePostings("acme", "1")}),
		},
		acceptAll(t), st, n, discardLogger(),
	)

	sum, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Sources)
	assert.Equal(t, 1, sum.FailedSources)
	assert.Equal(t, 1, sum.Notified)
	assert.Equal(t, 1, st.saves)
}

func TestRun_CorruptStateIsFatal(t *testing.T) {
	st := newMemStore()
	st.loadErr = &model.CorruptStateError{Path: "seen.json", Err: errors.New("unexpected EOF")}
	n := &recordingNotifier{}
	called := false
	fetcher := &callbackFetcher{fn: func() { called = true }}

	r := NewRunner([]Source{source("acme", fetcher)}, acceptAll(t), st, n, discardLogger())
	_, err := r.Run(context.Background())

	var cse *model.CorruptStateError
	require.True(t, errors.As(err, &cse), "expected CorruptStateError, got %v", err)
	assert.False(t, called, "no source should be fetched")
	assert.Empty(t, n.batches)
	assert.Equal(t, 0, st.saves)
}

type callbackFetcher struct{ fn func() }

func (f *callbackFetcher) FetchPostings(_ context.Context) ([]model.Posting, error) {
	f.fn()
	return nil, nil
}

func TestRun_DeliveryFailureStillSaves(t *testing.T) {
	st := newMemStore()
	n := &recordingNotifier{err: &model.DeliveryError{Channel: "telegram", Err: errors.New("HTTP 400")}}
	r := NewRunner(
		[]Source{source("acme", &stubFetcher{postings: makePostings("acme", "1")})},
		acceptAll(t), st, n, discardLogger(),
	)

	sum, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Matched)
	assert.Equal(t, 0, sum.Notified)

	var de *model.DeliveryError
	assert.True(t, errors.As(sum.DeliveryErr, &de))
	assert.True(t, st.set.Has("greenhouse:acme:1"))
}

func TestRun_SaveFailureIsReturned(t *testing.T) {
	st := newMemStore()
	st.saveErr = errors.New("disk full")
	r := NewRunner(nil, acceptAll(t), st, &recordingNotifier{}, discardLogger())

	_, err := r.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestRun_CancelledContextAbortsWithoutSaving(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	st := newMemStore()
	r := NewRunner(
		[]Source{source("acme", &stubFetcher{err: context.Canceled})},
		acceptAll(t), st, &recordingNotifier{}, discardLogger(),
	)

	_, err := r.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, st.saves)
}

func TestRun_TwoGreenhouseCompaniesEndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/boards/alpha/jobs":
			w.Write([]byte(`{"jobs": [{"id": 1, "title": "Software Engineer, New Grad",
				"location": {"name": "San Francisco, United States"},
				"absolute_url": "https://boards.greenhouse.io/alpha/jobs/1"}]}`))
		case "/v1/boards/beta/jobs":
			w.Write([]byte(`{"jobs": [{"id": 7, "title": "Software Engineer",
				"location": {"name": "Austin, United States"},
				"absolute_url": "https://boards.greenhouse.io/beta/jobs/7"}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	seenPath := filepath.Join(t.TempDir(), "seen.json")
	fileStore := store.NewFileStore(seenPath)
	require.NoError(t, fileStore.Save(model.NewSeenSet("greenhouse:beta:7")))

	rules, err := filter.NewRules(config.FilterConfig{
		IncludeTitles:  []string{"engineer"},
		LocationsAnyOf: []string{"United States"},
	})
	require.NoError(t, err)

	companies := &config.Companies{Greenhouse: []string{"alpha", "beta"}}
	sources := BuildSources(companies, rewriteClient(srv))

	var out bytes.Buffer
	d := notifier.NewDispatcher(
		notifier.SelectSender(config.NotifyConfig{}, http.DefaultClient, &out, discardLogger()),
		discardLogger(),
	)

	sum, err := NewRunner(sources, rules, fileStore, d, discardLogger()).Run(context.Background())
	require.NoError(t, err)
	assert.Nil(t, sum.DeliveryErr)
	assert.Equal(t, 1, sum.Notified)

	msg := out.String()
	assert.True(t, strings.HasPrefix(msg, "1 new matching job(s)\n\n"))
	assert.Contains(t, msg, "Software Engineer, New Grad — Alpha")
	assert.NotContains(t, msg, "beta")

	saved, err := store.NewFileStore(seenPath).Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"greenhouse:alpha:1", "greenhouse:beta:7"}, saved.IDs())
}

func TestRun_StdoutFallbackUpdatesSeenFile(t *testing.T) {
	seenPath := filepath.Join(t.TempDir(), "seen.json")
	var out bytes.Buffer
	d := notifier.NewDispatcher(notifier.NewLogSender(&out, discardLogger()), discardLogger())

	r := NewRunner(
		[]Source{source("acme", &stubFetcher{postings: makePostings("acme", "1")})},
		acceptAll(t), store.NewFileStore(seenPath), d, discardLogger(),
	)
	sum, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Notified)
	assert.Contains(t, out.String(), "Software Engineer — Acme")

	data, err := os.ReadFile(seenPath)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ids": ["greenhouse:acme:1"]}`, string(data))
}
