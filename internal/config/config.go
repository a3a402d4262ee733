package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultWorkdayQuery    = "software engineer"
	defaultWorkdayLimit    = 100
	defaultAmazonQuery     = "software engineer"
	defaultAmazonMaxPages  = 3
	defaultAmazonPageDelay = 600 * time.Millisecond
	defaultMinDelay        = 1 * time.Second
)

var defaultWorkdayHosts = []string{"wd5", "wd1"}

// Companies lists the boards to poll per source family.
type Companies struct {
	Greenhouse []string
	Lever      []string
	WorkdayCXS []string // "tenant" or "tenant/site"
	Ashby      []string
	Amazon     bool
	Search     SearchConfig
	RateLimit  RateLimitConfig
}

// Count returns the number of configured sources, Amazon counted once.
func (c *Companies) Count() int {
	n := len(c.Greenhouse) + len(c.Lever) + len(c.WorkdayCXS) + len(c.Ashby)
	if c.Amazon {
		n++
	}
	return n
}

// SearchConfig tunes the query-driven sources.
type SearchConfig struct {
	WorkdayQuery    string
	WorkdayLimit    int
	WorkdayHosts    []string
	AmazonQuery     string
	AmazonMaxPages  int
	AmazonPageDelay time.Duration
}

// RateLimitConfig controls the gap between companies of the same source family.
type RateLimitConfig struct {
	MinDelay time.Duration
}

// FilterConfig holds the title patterns and location hints.
type FilterConfig struct {
	IncludeTitles  []string `yaml:"include_titles"`
	ExcludeTitles  []string `yaml:"exclude_titles"`
	MustHaveAll    []string `yaml:"must_have_all"`
	LocationsAnyOf []string `yaml:"locations_any_of"`
}

// rawCompanies is used for YAML unmarshaling (snake_case fields and durations as strings).
type rawCompanies struct {
	Greenhouse []string           `yaml:"greenhouse"`
	Lever      []string           `yaml:"lever"`
	WorkdayCXS []string           `yaml:"workday_cxs"`
	Ashby      []string           `yaml:"ashby"`
	Amazon     bool               `yaml:"amazon"`
	Search     rawSearchConfig    `yaml:"search"`
	RateLimit  rawRateLimitConfig `yaml:"rate_limit"`
}

type rawSearchConfig struct {
	WorkdayQuery    *string  `yaml:"workday_query"`
	WorkdayLimit    int      `yaml:"workday_limit"`
	WorkdayHosts    []string `yaml:"workday_hosts"`
	AmazonQuery     *string  `yaml:"amazon_query"`
	AmazonMaxPages  int      `yaml:"amazon_max_pages"`
	AmazonPageDelay string   `yaml:"amazon_page_delay"`
}

type rawRateLimitConfig struct {
	MinDelay string `yaml:"min_delay"`
}

// LoadCompanies reads and parses the companies file at path, applying defaults.
// An empty file yields an empty set of sources.
func LoadCompanies(path string) (*Companies, error) {
	var raw rawCompanies
	if err := readYAML(path, &raw, true); err != nil {
		return nil, err
	}

	search := SearchConfig{
		WorkdayQuery:    defaultWorkdayQuery,
		WorkdayLimit:    defaultWorkdayLimit,
		WorkdayHosts:    defaultWorkdayHosts,
		AmazonQuery:     defaultAmazonQuery,
		AmazonMaxPages:  defaultAmazonMaxPages,
		AmazonPageDelay: defaultAmazonPageDelay,
	}
	if raw.Search.WorkdayQuery != nil {
		search.WorkdayQuery = *raw.Search.WorkdayQuery
	}
	if raw.Search.WorkdayLimit != 0 {
		search.WorkdayLimit = raw.Search.WorkdayLimit
	}
	if len(raw.Search.WorkdayHosts) > 0 {
		search.WorkdayHosts = raw.Search.WorkdayHosts
	}
	if raw.Search.AmazonQuery != nil {
		search.AmazonQuery = *raw.Search.AmazonQuery
	}
	if raw.Search.AmazonMaxPages != 0 {
		search.AmazonMaxPages = raw.Search.AmazonMaxPages
	}
	if raw.Search.AmazonPageDelay != "" {
		d, err := time.ParseDuration(raw.Search.AmazonPageDelay)
		if err != nil {
			return nil, fmt.Errorf("parse search.amazon_page_delay %q: %w", raw.Search.AmazonPageDelay, err)
		}
		search.AmazonPageDelay = d
	}

	minDelay := defaultMinDelay
	if raw.RateLimit.MinDelay != "" {
		d, err := time.ParseDuration(raw.RateLimit.MinDelay)
		if err != nil {
			return nil, fmt.Errorf("parse rate_limit.min_delay %q: %w", raw.RateLimit.MinDelay, err)
		}
		minDelay = d
	}

	c := &Companies{
		Greenhouse: trimEntries(raw.Greenhouse),
		Lever:      trimEntries(raw.Lever),
		WorkdayCXS: trimEntries(raw.WorkdayCXS),
		Ashby:      trimEntries(raw.Ashby),
		Amazon:     raw.Amazon,
		Search:     search,
		RateLimit:  RateLimitConfig{MinDelay: minDelay},
	}

	if err := validateCompanies(c); err != nil {
		return nil, err
	}
	return c, nil
}

func validateCompanies(c *Companies) error {
	if c.Search.WorkdayLimit < 0 {
		return fmt.Errorf("search.workday_limit must not be negative, got %d", c.Search.WorkdayLimit)
	}
	if c.Search.AmazonMaxPages < 0 {
		return fmt.Errorf("search.amazon_max_pages must not be negative, got %d", c.Search.AmazonMaxPages)
	}
	if c.Search.AmazonPageDelay < 0 {
		return fmt.Errorf("search.amazon_page_delay must not be negative, got %v", c.Search.AmazonPageDelay)
	}
	if c.RateLimit.MinDelay < 0 {
		return fmt.Errorf("rate_limit.min_delay must not be negative, got %v", c.RateLimit.MinDelay)
	}
	for _, entry := range c.WorkdayCXS {
		tenant, _, _ := strings.Cut(strings.TrimSpace(entry), "/")
		if tenant == "" {
			return fmt.Errorf("workday_cxs entry %q has no tenant", entry)
		}
	}
	return nil
}

// LoadFilters reads the filter rules at path. Patterns are compiled later by
// the filter package. The file is not env-expanded: "$" is a regex anchor.
func LoadFilters(path string) (*FilterConfig, error) {
	var cfg FilterConfig
	if err := readYAML(path, &cfg, false); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func readYAML(path string, dst any, expandEnv bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	if expandEnv {
		data = []byte(os.ExpandEnv(string(data)))
	}

	if err := yaml.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// trimEntries drops blank entries and surrounding whitespace.
func trimEntries(entries []string) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e = strings.TrimSpace(e); e != "" {
			out = append(out, e)
		}
	}
	return out
}
