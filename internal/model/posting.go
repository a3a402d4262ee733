package model

import "context"

// Source families that produce postings.
const (
	SourceGreenhouse = "greenhouse"
	SourceLever      = "lever"
	SourceWorkday    = "workday"
	SourceAmazon     = "amazon"
	SourceAshby      = "ashby"
)

// Posting is the unified representation of a job opening from any board.
type Posting struct {
	ID        string   // {source}:{company}:{upstream key}, stable across runs
	Source    string   // which adapter produced it
	Company   string   // employer or tenant identifier as configured
	Title     string   // raw job title
	URL       string   // absolute link, empty if unavailable
	Locations []string // free-text locations, may be empty
}

// PostingFetcher fetches the current postings of one source/company pair.
type PostingFetcher interface {
	FetchPostings(ctx context.Context) ([]Posting, error)
}

// Prober issues a lightweight reachability request against a source.
// All adapters implement it; the validation command relies on it.
type Prober interface {
	Probe(ctx context.Context) error
}

// SeenStore persists the set of posting IDs already processed.
type SeenStore interface {
	Load() (*SeenSet, error)
	Save(set *SeenSet) error
}

// Notifier delivers a batch of matching postings.
type Notifier interface {
	Notify(ctx context.Context, postings []Posting) error
}

// PostingFilter decides whether a posting matches the user's criteria.
type PostingFilter interface {
	Match(p Posting) bool
}
