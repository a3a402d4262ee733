package pipeline

import (
	"net/http"

	"github.com/amishk599/jobalert/internal/adapter"
	"github.com/amishk599/jobalert/internal/config"
	"github.com/amishk599/jobalert/internal/model"
	"github.com/amishk599/jobalert/internal/ratelimit"
)

// Source is one configured board: a source family plus the company,
// tenant entry, or search it covers.
type Source struct {
	Family  string
	Company string
	Fetcher model.PostingFetcher
}

// Label names the source in logs and reports.
func (s Source) Label() string {
	return s.Family + "/" + s.Company
}

// BuildSources creates one fetcher per configured company, in config order:
// Greenhouse, Lever, Workday, Ashby, then Amazon. Companies of the same
// family share a pacer key so consecutive requests to one provider are spaced
// by the configured minimum delay.
func BuildSources(c *config.Companies, client *http.Client) []Source {
	pacer := ratelimit.NewPacer(c.RateLimit.MinDelay)
	paced := func(family, company string, f model.PostingFetcher) Source {
		return Source{
			Family:  family,
			Company: company,
			Fetcher: ratelimit.NewRateLimitedFetcher(f, pacer, family),
		}
	}

	var sources []Source
	for _, name := range c.Greenhouse {
		sources = append(sources, paced(model.SourceGreenhouse, name, adapter.NewGreenhouseAdapter(name, client)))
	}
	for _, name := range c.Lever {
		sources = append(sources, paced(model.SourceLever, name, adapter.NewLeverAdapter(name, client)))
	}

	wdOpts := adapter.WorkdayOptions{
		SearchText: c.Search.WorkdayQuery,
		Limit:      c.Search.WorkdayLimit,
		Hosts:      c.Search.WorkdayHosts,
	}
	for _, entry := range c.WorkdayCXS {
		sources = append(sources, paced(model.SourceWorkday, entry, adapter.NewWorkdayAdapter(entry, wdOpts, client)))
	}
	for _, name := range c.Ashby {
		sources = append(sources, paced(model.SourceAshby, name, adapter.NewAshbyAdapter(name, client)))
	}

	if c.Amazon {
		amazon := adapter.NewAmazonAdapter(adapter.AmazonOptions{
			Query:     c.Search.AmazonQuery,
			MaxPages:  c.Search.AmazonMaxPages,
			PageDelay: c.Search.AmazonPageDelay,
		}, client)
		sources = append(sources, Source{Family: model.SourceAmazon, Company: "amazon", Fetcher: amazon})
	}

	return sources
}
