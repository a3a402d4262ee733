package adapter

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/amishk599/jobalert/internal/model"
	"github.com/amishk599/jobalert/internal/ratelimit"
)

const (
	amazonBaseURL         = "https://www.amazon.jobs"
	amazonCompany         = "amazon"
	amazonDefaultPageSize = 50
	amazonDefaultMaxPages = 3
)

// AmazonOptions tunes the paginated search.
type AmazonOptions struct {
	Query     string
	PageSize  int
	MaxPages  int
	PageDelay time.Duration // politeness gap between pages, zero disables it
}

// amazonJob represents a single job in the search.json response.
type amazonJob struct {
	ID          flexString `json:"id"`
	JobID       flexString `json:"job_id"`
	Title       string     `json:"title"`
	JobPath     string     `json:"job_path"`
	City        string     `json:"city"`
	CountryCode string     `json:"country_code"`
	Location    string     `json:"location"`
}

// amazonSearchResponse is the top-level search.json response.
type amazonSearchResponse struct {
	Jobs []amazonJob `json:"jobs"`
}

// AmazonAdapter fetches postings from the amazon.jobs search endpoint.
type AmazonAdapter struct {
	opts   AmazonOptions
	client *http.Client
	pacer  *ratelimit.Pacer
}

// NewAmazonAdapter creates an adapter for the amazon.jobs search endpoint.
func NewAmazonAdapter(opts AmazonOptions, client *http.Client) *AmazonAdapter {
	if opts.PageSize <= 0 {
		opts.PageSize = amazonDefaultPageSize
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = amazonDefaultMaxPages
	}
	return &AmazonAdapter{
		opts:   opts,
		client: client,
		pacer:  ratelimit.NewPacer(opts.PageDelay),
	}
}

// FetchPostings pages through search results with an increasing offset until
// a page comes back empty or MaxPages is reached.
func (a *AmazonAdapter) FetchPostings(ctx context.Context) ([]model.Posting, error) {
	var postings []model.Posting
	offset := 0

	for page := 0; page < a.opts.MaxPages; page++ {
		if err := a.pacer.Wait(ctx, amazonCompany); err != nil {
			return nil, fetchError(model.SourceAmazon, amazonCompany, err)
		}

		searchResp, err := a.fetchPage(ctx, offset, a.opts.PageSize)
		if err != nil {
			return nil, fetchError(model.SourceAmazon, amazonCompany, err)
		}
		if len(searchResp.Jobs) == 0 {
			break
		}

		for _, j := range searchResp.Jobs {
			if p, ok := a.postingFromJob(j); ok {
				postings = append(postings, p)
			}
		}
		offset += a.opts.PageSize
	}

	return postings, nil
}

// Probe fetches a single one-result page.
func (a *AmazonAdapter) Probe(ctx context.Context) error {
	_, err := a.fetchPage(ctx, 0, 1)
	return err
}

func (a *AmazonAdapter) fetchPage(ctx context.Context, offset, limit int) (amazonSearchResponse, error) {
	q := url.Values{}
	q.Set("category", "software-development")
	q.Set("result_limit", strconv.Itoa(limit))
	q.Set("sort", "recent")
	q.Set("job_type", "Full-Time")
	q.Set("normalized_country_code", "")
	q.Set("radius", "24km")
	q.Set("query", a.opts.Query)
	q.Set("offset", strconv.Itoa(offset))

	req, err := newRequest(ctx, http.MethodGet, amazonBaseURL+"/en/search.json?"+q.Encode(), nil)
	if err != nil {
		return amazonSearchResponse{}, err
	}

	var searchResp amazonSearchResponse
	if err := doJSON(a.client, req, &searchResp); err != nil {
		return amazonSearchResponse{}, err
	}
	return searchResp, nil
}

// postingFromJob normalizes one search hit. Hits without any usable key
// are dropped since they cannot be deduplicated.
func (a *AmazonAdapter) postingFromJob(j amazonJob) (model.Posting, bool) {
	key := firstNonEmpty(string(j.ID), string(j.JobID), j.JobPath)
	if key == "" {
		return model.Posting{}, false
	}

	var locations []string
	if loc := strings.Trim(j.City+", "+j.CountryCode, ", "); loc != "" {
		locations = []string{loc}
	} else if j.Location != "" {
		locations = []string{j.Location}
	}

	var link string
	if j.JobPath != "" {
		link = amazonBaseURL + j.JobPath
	}

	return model.Posting{
		ID:        postingID(model.SourceAmazon, key),
		Source:    model.SourceAmazon,
		Company:   amazonCompany,
		Title:     j.Title,
		URL:       link,
		Locations: locations,
	}, true
}
