package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/amishk599/jobalert/internal/config"
	"github.com/amishk599/jobalert/internal/filter"
	"github.com/amishk599/jobalert/internal/model"
	"github.com/amishk599/jobalert/internal/notifier"
	"github.com/amishk599/jobalert/internal/pipeline"
	"github.com/amishk599/jobalert/internal/store"
)

const httpTimeout = 25 * time.Second

var (
	companiesPath string
	filtersPath   string
	seenPath      string
	envFile       string
	debug         bool
	dryRun        bool
	selfTest      bool
)

var rootCmd = &cobra.Command{
	Use:   "jobalert",
	Short: "Job board alerts, one cycle per invocation",
	Long: "jobalert polls Greenhouse, Lever, Workday, Ashby and Amazon once, keeps the postings it has not seen before,\n" +
		"filters them by title and location and sends the matches to Telegram, Twilio or stdout.",
	// Running the binary with no subcommand performs one cycle, so a cron
	// entry or CI schedule can invoke it directly.
	RunE:              runCycle,
	PersistentPreRunE: loadEnv,
	SilenceUsage:      true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one fetch, filter, notify and save cycle",
	RunE:  runCycle,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&companiesPath, "companies", "", "path to companies file (default: JOBALERT_COMPANIES env var or ./companies.yml)")
	pf.StringVar(&filtersPath, "filters", "", "path to filters file (default: JOBALERT_FILTERS env var or ./filters.yml)")
	pf.StringVar(&seenPath, "seen", "", "path to seen-state file (default: JOBALERT_SEEN env var or ./seen.json)")
	pf.StringVar(&envFile, "env-file", "", "load credentials from this file (default: ./.env when present)")
	pf.BoolVar(&debug, "debug", false, "enable debug logging")

	for _, cmd := range []*cobra.Command{rootCmd, runCmd} {
		cmd.Flags().BoolVar(&selfTest, "self-test", false, "send a heartbeat through the selected channel and exit")
		cmd.Flags().BoolVar(&dryRun, "dry-run", false, "run the full cycle without saving the seen state")
	}
	rootCmd.AddCommand(runCmd)
}

// loadEnv reads credentials from a dotenv file. Variables already present in
// the environment win. A missing default file is not an error.
func loadEnv(cmd *cobra.Command, args []string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("load env file: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// resolvePath picks the file location.
// Priority: explicit flag > env var > default in the working directory.
func resolvePath(flagValue, envKey, fallback string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(envKey); env != "" {
		return env
	}
	return fallback
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

func setupDispatcher(httpClient *http.Client, out io.Writer, logger *slog.Logger) *notifier.Dispatcher {
	sender := notifier.SelectSender(config.NotifyFromEnv(os.Getenv), httpClient, out, logger)
	logger.Debug("notification channel selected", "channel", sender.Name())
	return notifier.NewDispatcher(sender, logger)
}

func runCycle(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)
	ctx := cmd.Context()
	httpClient := newHTTPClient()
	dispatcher := setupDispatcher(httpClient, cmd.OutOrStdout(), logger)

	if selfTest {
		return runSelfTest(cmd, dispatcher, logger)
	}

	companies, err := config.LoadCompanies(resolvePath(companiesPath, "JOBALERT_COMPANIES", "companies.yml"))
	if err != nil {
		logger.Error("failed to load companies", "error", err)
		return err
	}
	filters, err := config.LoadFilters(resolvePath(filtersPath, "JOBALERT_FILTERS", "filters.yml"))
	if err != nil {
		logger.Error("failed to load filters", "error", err)
		return err
	}
	rules, err := filter.NewRules(*filters)
	if err != nil {
		logger.Error("invalid filter pattern", "error", err)
		return err
	}

	var seenStore model.SeenStore = store.NewFileStore(resolvePath(seenPath, "JOBALERT_SEEN", "seen.json"))
	if dryRun {
		logger.Info("dry-run mode enabled, seen state will not be saved")
		seenStore = store.NewDryRunStore(seenStore)
	}

	sources := pipeline.BuildSources(companies, httpClient)
	if len(sources) == 0 {
		logger.Warn("no sources configured")
	}
	logger.Info("config loaded",
		"sources", len(sources),
		"include_titles", len(filters.IncludeTitles),
		"exclude_titles", len(filters.ExcludeTitles),
		"locations", filters.LocationsAnyOf,
		"channel", dispatcher.Channel(),
	)

	sum, err := pipeline.NewRunner(sources, rules, seenStore, dispatcher, logger).Run(ctx)
	if err != nil {
		logger.Error("run failed", "run_id", sum.RunID, "error", err)
		return err
	}

	out := cmd.OutOrStdout()
	if sum.Matched == 0 {
		fmt.Fprintln(out, "No new matching jobs.")
	} else {
		fmt.Fprintf(out, "%d new matching jobs.\n", sum.Matched)
	}
	return nil
}

func runSelfTest(cmd *cobra.Command, dispatcher *notifier.Dispatcher, logger *slog.Logger) error {
	if err := dispatcher.Heartbeat(cmd.Context()); err != nil {
		logger.Error("self-test failed", "channel", dispatcher.Channel(), "error", err)
		return err
	}
	logger.Info("self-test sent successfully", "channel", dispatcher.Channel())
	return nil
}
