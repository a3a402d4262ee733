// Package probe checks that every configured source is reachable.
package probe

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/amishk599/jobalert/internal/model"
	"github.com/amishk599/jobalert/internal/pipeline"
)

// Result is the outcome of probing one source.
type Result struct {
	Family  string
	Company string
	Err     error // nil when reachable
}

// OK reports whether the source answered.
func (r Result) OK() bool { return r.Err == nil }

// Report collects the results of one validation pass in source order.
type Report struct {
	Results []Result
}

// Failed returns only the unreachable sources.
func (r Report) Failed() []Result {
	var out []Result
	for _, res := range r.Results {
		if !res.OK() {
			out = append(out, res)
		}
	}
	return out
}

// Check probes each source sequentially. Sources whose fetcher cannot probe
// are reported as failures.
func Check(ctx context.Context, sources []pipeline.Source, logger *slog.Logger) Report {
	var report Report
	for _, src := range sources {
		res := Result{Family: src.Family, Company: src.Company}

		p, ok := src.Fetcher.(model.Prober)
		if !ok {
			res.Err = fmt.Errorf("%s does not support probing", src.Label())
		} else {
			res.Err = p.Probe(ctx)
		}

		if res.Err != nil {
			logger.Warn("source unreachable", "source", src.Family, "company", src.Company, "error", res.Err)
		} else {
			logger.Debug("source reachable", "source", src.Family, "company", src.Company)
		}
		report.Results = append(report.Results, res)
	}
	return report
}
