package filter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/amishk599/jobalert/internal/config"
	"github.com/amishk599/jobalert/internal/model"
)

// Rules matches postings by title patterns and location hints.
// Title patterns are case-insensitive regular expressions; location hints are
// case-insensitive substrings. Empty lists are treated as "match all".
type Rules struct {
	include   []*regexp.Regexp
	exclude   []*regexp.Regexp
	mustAll   []*regexp.Regexp
	locations []string // lowercased
}

// NewRules compiles every pattern in cfg once. It fails on the first
// malformed pattern, naming its key.
func NewRules(cfg config.FilterConfig) (*Rules, error) {
	include, err := compileAll("include_titles", cfg.IncludeTitles)
	if err != nil {
		return nil, err
	}
	exclude, err := compileAll("exclude_titles", cfg.ExcludeTitles)
	if err != nil {
		return nil, err
	}
	mustAll, err := compileAll("must_have_all", cfg.MustHaveAll)
	if err != nil {
		return nil, err
	}

	locations := make([]string, 0, len(cfg.LocationsAnyOf))
	for _, loc := range cfg.LocationsAnyOf {
		if loc = strings.TrimSpace(loc); loc != "" {
			locations = append(locations, strings.ToLower(loc))
		}
	}

	return &Rules{
		include:   include,
		exclude:   exclude,
		mustAll:   mustAll,
		locations: locations,
	}, nil
}

func compileAll(key string, patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("filters.%s: bad pattern %q: %w", key, p, err)
		}
		out = append(out, re)
	}
	return out, nil
}

// TitleMatches applies exclusions first, then requires every must-have
// pattern, then at least one include pattern when any are configured.
func (r *Rules) TitleMatches(title string) bool {
	for _, re := range r.exclude {
		if re.MatchString(title) {
			return false
		}
	}
	for _, re := range r.mustAll {
		if !re.MatchString(title) {
			return false
		}
	}
	if len(r.include) == 0 {
		return true
	}
	for _, re := range r.include {
		if re.MatchString(title) {
			return true
		}
	}
	return false
}

// LocationMatches reports whether any location contains any hint. A posting
// without locations never matches when hints are configured.
func (r *Rules) LocationMatches(locations []string) bool {
	if len(r.locations) == 0 {
		return true
	}
	for _, loc := range locations {
		loc = strings.ToLower(loc)
		for _, hint := range r.locations {
			if strings.Contains(loc, hint) {
				return true
			}
		}
	}
	return false
}

// Match returns true if both the title and the locations match.
func (r *Rules) Match(p model.Posting) bool {
	return r.TitleMatches(p.Title) && r.LocationMatches(p.Locations)
}

// IsNew reports whether p has not been processed before.
func IsNew(p model.Posting, seen *model.SeenSet) bool {
	return !seen.Has(p.ID)
}

// Result is the outcome of splitting one run's postings.
type Result struct {
	Seen      []model.Posting // already in the seen-set
	Unmatched []model.Posting // new, rejected by the rules
	Matched   []model.Posting // new and matching
}

// New returns every new posting, matched or not.
func (r Result) New() []model.Posting {
	out := make([]model.Posting, 0, len(r.Unmatched)+len(r.Matched))
	out = append(out, r.Unmatched...)
	return append(out, r.Matched...)
}

// Partition sorts postings into already-seen, new-unmatched and new-matched,
// preserving input order. An id repeated within postings counts as seen
// after its first occurrence.
func Partition(postings []model.Posting, seen *model.SeenSet, f model.PostingFilter) Result {
	var out Result
	thisRun := make(map[string]struct{}, len(postings))

	for _, p := range postings {
		_, dup := thisRun[p.ID]
		if dup || !IsNew(p, seen) {
			out.Seen = append(out.Seen, p)
			continue
		}
		thisRun[p.ID] = struct{}{}

		if f.Match(p) {
			out.Matched = append(out.Matched, p)
		} else {
			out.Unmatched = append(out.Unmatched, p)
		}
	}
	return out
}
