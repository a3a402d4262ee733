package adapter

import (
	"context"
	"fmt"
	"net/http"

	"github.com/amishk599/jobalert/internal/model"
)

const ashbyBaseURL = "https://api.ashbyhq.com/posting-api/job-board"

// ashbyJob represents a single job in the Ashby API response.
type ashbyJob struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Location string `json:"location"`
	JobURL   string `json:"jobUrl"`
	IsListed bool   `json:"isListed"`
}

// ashbyResponse is the top-level Ashby job board API response.
type ashbyResponse struct {
	Jobs []ashbyJob `json:"jobs"`
}

// AshbyAdapter fetches postings from the Ashby public job board API.
type AshbyAdapter struct {
	company string
	client  *http.Client
}

// NewAshbyAdapter creates an adapter for the Ashby board named by company.
func NewAshbyAdapter(company string, client *http.Client) *AshbyAdapter {
	return &AshbyAdapter{
		company: company,
		client:  client,
	}
}

func (a *AshbyAdapter) endpoint() string {
	return fmt.Sprintf("%s/%s", ashbyBaseURL, a.company)
}

// FetchPostings retrieves listed jobs from the board. Unlisted jobs are skipped.
func (a *AshbyAdapter) FetchPostings(ctx context.Context) ([]model.Posting, error) {
	req, err := newRequest(ctx, http.MethodGet, a.endpoint(), nil)
	if err != nil {
		return nil, fetchError(model.SourceAshby, a.company, err)
	}

	var ashbyResp ashbyResponse
	if err := doJSON(a.client, req, &ashbyResp); err != nil {
		return nil, fetchError(model.SourceAshby, a.company, err)
	}

	postings := make([]model.Posting, 0, len(ashbyResp.Jobs))
	for _, aj := range ashbyResp.Jobs {
		if !aj.IsListed {
			continue
		}
		key := firstNonEmpty(aj.ID, aj.JobURL)
		if key == "" {
			continue
		}

		var locations []string
		if aj.Location != "" {
			locations = []string{aj.Location}
		}

		postings = append(postings, model.Posting{
			ID:        postingID(model.SourceAshby, a.company, key),
			Source:    model.SourceAshby,
			Company:   a.company,
			Title:     aj.Title,
			URL:       aj.JobURL,
			Locations: locations,
		})
	}

	return postings, nil
}

// Probe checks that the board exists.
func (a *AshbyAdapter) Probe(ctx context.Context) error {
	req, err := newRequest(ctx, http.MethodGet, a.endpoint(), nil)
	if err != nil {
		return err
	}
	return doProbe(a.client, req)
}
