package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/amishk599/jobalert/internal/model"
	"github.com/amishk599/jobalert/internal/retry"
)

const workdayDefaultLimit = 100

// DefaultWorkdayHosts are the regional host prefixes tried in order.
var DefaultWorkdayHosts = []string{"wd5", "wd1"}

// WorkdayOptions tunes the CXS search request.
type WorkdayOptions struct {
	SearchText string
	Limit      int
	Hosts      []string // regional host prefixes, tried in order
}

// workdayListingResponse is the response from the Workday jobs listing endpoint.
type workdayListingResponse struct {
	Total       int              `json:"total"`
	JobPostings []workdayListing `json:"jobPostings"`
}

type workdayListing struct {
	ID            flexString `json:"id"`
	Title         string     `json:"title"`
	ExternalPath  string     `json:"externalPath"`
	ExternalURL   string     `json:"externalUrl"`
	LocationsText stringList `json:"locationsText"`
	Locations     stringList `json:"locations"`
}

// workdayListingRequest is the POST body for the Workday jobs listing endpoint.
type workdayListingRequest struct {
	AppliedFacets map[string]any `json:"appliedFacets"`
	Limit         int            `json:"limit"`
	Offset        int            `json:"offset"`
	SearchText    string         `json:"searchText"`
}

// WorkdayAdapter fetches postings from a Workday CXS tenant.
type WorkdayAdapter struct {
	tenant string
	site   string // career site path segment, empty for the tenant default
	opts   WorkdayOptions
	client *http.Client
}

// NewWorkdayAdapter creates an adapter for a Workday entry of the form
// "tenant" or "tenant/site".
func NewWorkdayAdapter(entry string, opts WorkdayOptions, client *http.Client) *WorkdayAdapter {
	tenant, site, _ := strings.Cut(strings.TrimRight(strings.TrimSpace(entry), "/"), "/")
	if opts.Limit <= 0 {
		opts.Limit = workdayDefaultLimit
	}
	if len(opts.Hosts) == 0 {
		opts.Hosts = DefaultWorkdayHosts
	}
	return &WorkdayAdapter{
		tenant: tenant,
		site:   site,
		opts:   opts,
		client: client,
	}
}

func (a *WorkdayAdapter) hostBase(host string) string {
	return fmt.Sprintf("https://%s.%s.myworkdayjobs.com", a.tenant, host)
}

func (a *WorkdayAdapter) endpoint(host string) string {
	if a.site == "" {
		return fmt.Sprintf("%s/wday/cxs/%s/jobs", a.hostBase(host), a.tenant)
	}
	return fmt.Sprintf("%s/wday/cxs/%s/%s/jobs", a.hostBase(host), a.tenant, a.site)
}

// FetchPostings runs one search against the first host prefix that answers.
// The tenant fails only when every host prefix fails.
func (a *WorkdayAdapter) FetchPostings(ctx context.Context) ([]model.Posting, error) {
	listResp, host, err := retry.FirstSuccess(ctx, a.opts.Hosts,
		func(ctx context.Context, host string) (workdayListingResponse, error) {
			return a.search(ctx, host, a.opts.SearchText, a.opts.Limit)
		})
	if err != nil {
		return nil, fetchError(model.SourceWorkday, a.tenant, err)
	}

	postings := make([]model.Posting, 0, len(listResp.JobPostings))
	for _, l := range listResp.JobPostings {
		key := firstNonEmpty(string(l.ID), l.ExternalPath, l.ExternalURL)
		if key == "" {
			continue
		}

		locations := []string(l.LocationsText)
		if len(locations) == 0 {
			locations = []string(l.Locations)
		}

		postings = append(postings, model.Posting{
			ID:        postingID(model.SourceWorkday, a.tenant, key),
			Source:    model.SourceWorkday,
			Company:   a.tenant,
			Title:     l.Title,
			URL:       a.postingURL(host, l),
			Locations: locations,
		})
	}

	return postings, nil
}

// postingURL builds a link on the host that actually answered.
func (a *WorkdayAdapter) postingURL(host string, l workdayListing) string {
	if l.ExternalPath == "" {
		return l.ExternalURL
	}
	path := l.ExternalPath
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if a.site != "" {
		path = "/" + a.site + path
	}
	return a.hostBase(host) + path
}

// Probe posts an empty single-result search against each host prefix.
func (a *WorkdayAdapter) Probe(ctx context.Context) error {
	_, _, err := retry.FirstSuccess(ctx, a.opts.Hosts,
		func(ctx context.Context, host string) (workdayListingResponse, error) {
			return a.search(ctx, host, "", 1)
		})
	return err
}

func (a *WorkdayAdapter) search(ctx context.Context, host, text string, limit int) (workdayListingResponse, error) {
	body := workdayListingRequest{
		AppliedFacets: map[string]any{},
		Limit:         limit,
		Offset:        0,
		SearchText:    text,
	}
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return workdayListingResponse{}, fmt.Errorf("marshal search: %w", err)
	}

	req, err := newRequest(ctx, http.MethodPost, a.endpoint(host), bytes.NewReader(jsonBody))
	if err != nil {
		return workdayListingResponse{}, err
	}

	var listResp workdayListingResponse
	if err := doJSON(a.client, req, &listResp); err != nil {
		return workdayListingResponse{}, err
	}
	return listResp, nil
}
