package adapter

import (
	"context"
	"fmt"
	"net/http"

	"github.com/amishk599/jobalert/internal/model"
)

const leverBaseURL = "https://api.lever.co/v0/postings"

// leverCategories represents the categories object in a Lever job.
type leverCategories struct {
	Team         string   `json:"team"`
	Location     string   `json:"location"`
	Commitment   string   `json:"commitment"`
	AllLocations []string `json:"allLocations"`
}

// leverJob represents a single job in the Lever API response.
type leverJob struct {
	ID         string          `json:"id"`
	Text       string          `json:"text"`
	Categories leverCategories `json:"categories"`
	HostedURL  string          `json:"hostedUrl"`
	ApplyURL   string          `json:"applyUrl"`
}

// LeverAdapter fetches postings from the Lever public postings API.
type LeverAdapter struct {
	company string
	client  *http.Client
}

// NewLeverAdapter creates an adapter for the Lever site named by company.
func NewLeverAdapter(company string, client *http.Client) *LeverAdapter {
	return &LeverAdapter{
		company: company,
		client:  client,
	}
}

func (a *LeverAdapter) endpoint() string {
	return fmt.Sprintf("%s/%s?mode=json", leverBaseURL, a.company)
}

// FetchPostings retrieves every posting on the site and normalizes it into
// the unified Posting model.
func (a *LeverAdapter) FetchPostings(ctx context.Context) ([]model.Posting, error) {
	req, err := newRequest(ctx, http.MethodGet, a.endpoint(), nil)
	if err != nil {
		return nil, fetchError(model.SourceLever, a.company, err)
	}

	var leverJobs []leverJob
	if err := doJSON(a.client, req, &leverJobs); err != nil {
		return nil, fetchError(model.SourceLever, a.company, err)
	}

	postings := make([]model.Posting, 0, len(leverJobs))
	for _, lj := range leverJobs {
		if lj.ID == "" {
			continue
		}

		// Prefer allLocations if available, fall back to location.
		var locations []string
		switch {
		case len(lj.Categories.AllLocations) > 0:
			locations = lj.Categories.AllLocations
		case lj.Categories.Location != "":
			locations = []string{lj.Categories.Location}
		}

		postings = append(postings, model.Posting{
			ID:        postingID(model.SourceLever, a.company, lj.ID),
			Source:    model.SourceLever,
			Company:   a.company,
			Title:     lj.Text,
			URL:       firstNonEmpty(lj.HostedURL, lj.ApplyURL),
			Locations: locations,
		})
	}

	return postings, nil
}

// Probe checks that the Lever site exists.
func (a *LeverAdapter) Probe(ctx context.Context) error {
	req, err := newRequest(ctx, http.MethodGet, a.endpoint(), nil)
	if err != nil {
		return err
	}
	return doProbe(a.client, req)
}
