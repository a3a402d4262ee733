package adapter

import (
	"context"
	"fmt"
	"net/http"

	"github.com/amishk599/jobalert/internal/model"
)

const greenhouseBaseURL = "https://boards-api.greenhouse.io/v1/boards"

// greenhouseJob represents a single job in the Greenhouse API response.
type greenhouseJob struct {
	ID          int64               `json:"id"`
	Title       string              `json:"title"`
	Location    *greenhouseLocation `json:"location"`
	AbsoluteURL string              `json:"absolute_url"`
}

type greenhouseLocation struct {
	Name string `json:"name"`
}

// greenhouseResponse is the top-level Greenhouse jobs API response.
type greenhouseResponse struct {
	Jobs []greenhouseJob `json:"jobs"`
}

// GreenhouseAdapter fetches postings from the Greenhouse public boards API.
type GreenhouseAdapter struct {
	company string
	client  *http.Client
}

// NewGreenhouseAdapter creates an adapter for the board named by company.
func NewGreenhouseAdapter(company string, client *http.Client) *GreenhouseAdapter {
	return &GreenhouseAdapter{
		company: company,
		client:  client,
	}
}

func (a *GreenhouseAdapter) endpoint() string {
	return fmt.Sprintf("%s/%s/jobs", greenhouseBaseURL, a.company)
}

// FetchPostings retrieves every job on the board and normalizes it into
// the unified Posting model.
func (a *GreenhouseAdapter) FetchPostings(ctx context.Context) ([]model.Posting, error) {
	req, err := newRequest(ctx, http.MethodGet, a.endpoint(), nil)
	if err != nil {
		return nil, fetchError(model.SourceGreenhouse, a.company, err)
	}

	var ghResp greenhouseResponse
	if err := doJSON(a.client, req, &ghResp); err != nil {
		return nil, fetchError(model.SourceGreenhouse, a.company, err)
	}

	postings := make([]model.Posting, 0, len(ghResp.Jobs))
	for _, gj := range ghResp.Jobs {
		if gj.ID == 0 {
			continue
		}

		var locations []string
		if gj.Location != nil && gj.Location.Name != "" {
			locations = []string{gj.Location.Name}
		}

		postings = append(postings, model.Posting{
			ID:        postingID(model.SourceGreenhouse, a.company, fmt.Sprintf("%d", gj.ID)),
			Source:    model.SourceGreenhouse,
			Company:   a.company,
			Title:     gj.Title,
			URL:       gj.AbsoluteURL,
			Locations: locations,
		})
	}

	return postings, nil
}

// Probe checks that the board exists.
func (a *GreenhouseAdapter) Probe(ctx context.Context) error {
	req, err := newRequest(ctx, http.MethodGet, a.endpoint(), nil)
	if err != nil {
		return err
	}
	return doProbe(a.client, req)
}
