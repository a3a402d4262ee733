package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/amishk599/jobalert/internal/config"
	"github.com/amishk599/jobalert/internal/pipeline"
	"github.com/amishk599/jobalert/internal/probe"
)

var strict bool

var (
	reportTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39"))
	reportOKStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))
	reportFailStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
	reportHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that every configured source is reachable",
	Long:  "Sends one lightweight request per configured company or tenant and reports the ones that do not answer. Never sends notifications or touches the seen state.",
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when any source is unreachable")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	companies, err := config.LoadCompanies(resolvePath(companiesPath, "JOBALERT_COMPANIES", "companies.yml"))
	if err != nil {
		logger.Error("failed to load companies", "error", err)
		return err
	}

	sources := pipeline.BuildSources(companies, newHTTPClient())
	report := probe.Check(cmd.Context(), sources, logger)

	fmt.Fprint(cmd.OutOrStdout(), renderReport(report))

	if failed := len(report.Failed()); failed > 0 && strict {
		return fmt.Errorf("%d of %d sources unreachable", failed, len(report.Results))
	}
	return nil
}

// renderReport formats the validation results for the terminal.
func renderReport(report probe.Report) string {
	var b strings.Builder
	b.WriteString("\n" + reportTitleStyle.Render("VALIDATION RESULTS") + "\n")

	failed := report.Failed()
	if len(failed) == 0 {
		b.WriteString(reportOKStyle.Render(fmt.Sprintf("✅ All %d sources are reachable.", len(report.Results))) + "\n")
		return b.String()
	}

	for _, res := range failed {
		line := fmt.Sprintf("❌ %-12s %-28s %v", res.Family, res.Company, res.Err)
		b.WriteString(reportFailStyle.Render(line) + "\n")
	}
	b.WriteString("\n" + reportHintStyle.Render(fmt.Sprintf(
		"%d of %d sources unreachable. Fix or remove them in the companies file (e.g. a Workday tenant may need its real slug or a /site suffix).",
		len(failed), len(report.Results),
	)) + "\n")
	return b.String()
}
