package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobalert/internal/config"
	"github.com/amishk599/jobalert/internal/pipeline"
)

var companiesCmd = &cobra.Command{
	Use:   "companies",
	Short: "List all configured sources",
	Long:  "Reads the companies file and prints a table of every source a run would fetch.",
	RunE:  runCompanies,
}

func init() {
	rootCmd.AddCommand(companiesCmd)
}

func runCompanies(cmd *cobra.Command, args []string) error {
	companies, err := config.LoadCompanies(resolvePath(companiesPath, "JOBALERT_COMPANIES", "companies.yml"))
	if err != nil {
		return fmt.Errorf("load companies: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-12s %s\n", "Source", "Company")
	fmt.Fprintln(out, strings.Repeat("─", 40))

	sources := pipeline.BuildSources(companies, nil)
	for _, s := range sources {
		fmt.Fprintf(out, "%-12s %s\n", s.Family, s.Company)
	}

	fmt.Fprintf(out, "\nTotal: %d sources (min delay %s between companies of one source)\n",
		len(sources), companies.RateLimit.MinDelay)
	if len(companies.WorkdayCXS) > 0 {
		fmt.Fprintf(out, "Workday search: %q, limit %d, hosts %s\n",
			companies.Search.WorkdayQuery, companies.Search.WorkdayLimit, strings.Join(companies.Search.WorkdayHosts, ","))
	}
	if companies.Amazon {
		fmt.Fprintf(out, "Amazon search: %q, up to %d pages, %s between pages\n",
			companies.Search.AmazonQuery, companies.Search.AmazonMaxPages, companies.Search.AmazonPageDelay)
	}
	return nil
}
