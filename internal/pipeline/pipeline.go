package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/amishk599/jobalert/internal/filter"
	"github.com/amishk599/jobalert/internal/model"
)

// Summary reports what one run did.
type Summary struct {
	RunID         string
	Sources       int
	FailedSources int
	Fetched       int
	AlreadySeen   int
	New           int
	Matched       int
	Notified      int
	DeliveryErr   error // set when the channel failed; the run itself still succeeds
}

// Runner owns one full cycle:
// load seen-set → fetch every source → partition → notify → save.
type Runner struct {
	sources  []Source
	filter   model.PostingFilter
	store    model.SeenStore
	notifier model.Notifier
	logger   *slog.Logger
	newRunID func() string
}

// NewRunner creates a runner wired with all its dependencies.
func NewRunner(
	sources []Source,
	f model.PostingFilter,
	store model.SeenStore,
	notifier model.Notifier,
	logger *slog.Logger,
) *Runner {
	return &Runner{
		sources:  sources,
		filter:   f,
		store:    store,
		notifier: notifier,
		logger:   logger,
		newRunID: uuid.NewString,
	}
}

// Run executes one cycle. Sources are fetched one after another; a failing
// source is logged and skipped. A delivery failure is recorded in the summary
// and the seen-set is still saved. The returned error is non-nil only when
// the seen-set cannot be loaded or saved, or ctx is cancelled.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	sum := Summary{RunID: r.newRunID(), Sources: len(r.sources)}
	logger := r.logger.With("run_id", sum.RunID)

	seen, err := r.store.Load()
	if err != nil {
		return sum, fmt.Errorf("load seen state: %w", err)
	}
	logger.Debug("loaded seen state", "ids", seen.Len())

	var all []model.Posting
	for _, src := range r.sources {
		postings, err := src.Fetcher.FetchPostings(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return sum, fmt.Errorf("run cancelled: %w", ctx.Err())
			}
			sum.FailedSources++
			var fe *model.FetchError
			if errors.As(err, &fe) {
				logger.Warn("fetch failed, skipping source", "source", fe.Source, "company", fe.Company, "error", fe.Err)
			} else {
				logger.Warn("fetch failed, skipping source", "source", src.Family, "company", src.Company, "error", err)
			}
			continue
		}
		logger.Debug("fetched source", "source", src.Family, "company", src.Company, "postings", len(postings))
		all = append(all, postings...)
	}
	sum.Fetched = len(all)

	result := filter.Partition(all, seen, r.filter)
	fresh := result.New()
	sum.AlreadySeen = len(result.Seen)
	sum.New = len(fresh)
	sum.Matched = len(result.Matched)
	if logger.Enabled(ctx, slog.LevelDebug) {
		logMatchCounts(logger, result.Matched)
	}

	if len(result.Matched) > 0 {
		if err := r.notifier.Notify(ctx, result.Matched); err != nil {
			sum.DeliveryErr = err
			logger.Error("notification failed", "matched", len(result.Matched), "error", err)
		} else {
			sum.Notified = len(result.Matched)
		}
	}

	for _, p := range fresh {
		seen.Add(p.ID)
	}
	if err := r.store.Save(seen); err != nil {
		return sum, fmt.Errorf("save seen state: %w", err)
	}

	logger.Info("run complete",
		"sources", sum.Sources,
		"failed_sources", sum.FailedSources,
		"fetched", sum.Fetched,
		"already_seen", sum.AlreadySeen,
		"new", sum.New,
		"matched", sum.Matched,
		"notified", sum.Notified,
	)
	return sum, nil
}

// logMatchCounts logs how many matching postings each company produced.
func logMatchCounts(logger *slog.Logger, matched []model.Posting) {
	type key struct{ source, company string }
	counts := make(map[key]int)
	var order []key
	for _, p := range matched {
		k := key{p.Source, p.Company}
		if counts[k] == 0 {
			order = append(order, k)
		}
		counts[k]++
	}
	for _, k := range order {
		logger.Debug("matched postings", "source", k.source, "company", k.company, "matched", counts[k])
	}
}
