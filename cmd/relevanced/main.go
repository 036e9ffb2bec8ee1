// Package main implements the relevanced CLI for running relevance
// searches and risk assessments over plain JSON inputs.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/relevanced/internal/config"
	"github.com/fyrsmithlabs/relevanced/internal/eventlog"
	"github.com/fyrsmithlabs/relevanced/internal/health"
	"github.com/fyrsmithlabs/relevanced/internal/logging"
	"github.com/fyrsmithlabs/relevanced/internal/telemetry"
	"github.com/fyrsmithlabs/relevanced/pkg/skills"
)

var (
	// configPath points to an optional YAML config file.
	configPath string
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "relevanced",
	Short: "Relevance search and risk scoring over JSON inputs",
	Long: `relevanced ranks catalog entries against free-text queries using
TF-IDF cosine similarity, optionally boosted by historical success
rates, and scores project health from outcome histories.

All inputs and outputs are plain JSON; relevanced owns no storage.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	skillsPath string
	statsPath  string
	limit      int
	boosted    bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Rank a skill catalog against a query",
	Long: `Rank the skills in a JSON catalog file against a query.

Examples:
  # Plain similarity search
  relevanced search --skills catalog.json draw 2d graphics

  # Boosted by recorded usage outcomes
  relevanced search --skills catalog.json --stats usage.json --boost canvas drawing`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

var (
	eventsPath string
	debtPct    float64
)

var assessCmd = &cobra.Command{
	Use:   "assess <outcomes-file>",
	Short: "Score project health from an outcome history",
	Long: `Score project health from a JSON file holding an outcome history,
observed error types, and a technical-debt fraction:

  {"history": [{"success": true}, ...], "error_types": ["timeout", ...]}

Examples:
  relevanced assess outcomes.json
  relevanced assess --debt 0.4 outcomes.json`,
	Args: cobra.ExactArgs(1),
	RunE: runAssess,
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <issue...>",
	Short: "Correlate failure indicators with known patterns",
	Long: `Correlate a set of failure indicators against the known pattern
table and, when --events is given, against a recorded event history.

Examples:
  relevanced analyze "response truncated at 4096 tokens"
  relevanced analyze --events events.json "output incomplete"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")

	searchCmd.Flags().StringVar(&skillsPath, "skills", "", "path to JSON skill catalog (required)")
	searchCmd.Flags().StringVar(&statsPath, "stats", "", "path to JSON usage stats")
	searchCmd.Flags().IntVar(&limit, "limit", 0, "maximum results (default from config)")
	searchCmd.Flags().BoolVar(&boosted, "boost", false, "re-weight by historical success rates")
	_ = searchCmd.MarkFlagRequired("skills")

	assessCmd.Flags().Float64Var(&debtPct, "debt", 0, "technical-debt fraction in [0, 1]")

	analyzeCmd.Flags().StringVar(&eventsPath, "events", "", "path to JSON event history")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(assessCmd)
	rootCmd.AddCommand(analyzeCmd)
}

// setup loads configuration and builds the logger and metrics shared by
// every command.
func setup() (*config.Config, *logging.Logger, *telemetry.Metrics, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading config: %w", err)
	}
	logger, err := logging.NewLogger(&cfg.Logging)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("creating logger: %w", err)
	}
	return cfg, logger, telemetry.New(), nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, logger, metrics, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	var catalog []skills.Skill
	if err := readJSONFile(skillsPath, &catalog); err != nil {
		return fmt.Errorf("reading skill catalog: %w", err)
	}

	ctx := cmd.Context()
	svc := skills.NewService(logger, metrics)
	for i := range catalog {
		if err := svc.Put(ctx, &catalog[i]); err != nil {
			return fmt.Errorf("loading skill %q: %w", catalog[i].Name, err)
		}
	}
	svc.Rebuild(ctx)

	if statsPath != "" {
		var usage map[string]skills.UsageStats
		if err := readJSONFile(statsPath, &usage); err != nil {
			return fmt.Errorf("reading usage stats: %w", err)
		}
		svc.RestoreStats(usage)
	}

	if limit <= 0 {
		limit = cfg.Engine.SearchLimit
	}
	query := strings.Join(args, " ")

	var results []skills.SearchResult
	if boosted {
		results, err = svc.SearchWithBoost(ctx, query, limit)
		if err != nil {
			return err
		}
	} else {
		results = svc.Search(ctx, query, limit)
	}
	return printJSON(results)
}

// assessInput is the JSON shape consumed by the assess command.
type assessInput struct {
	History    []health.Outcome `json:"history"`
	ErrorTypes []string         `json:"error_types"`
	DebtPct    *float64         `json:"debt_pct"`
}

func runAssess(cmd *cobra.Command, args []string) error {
	cfg, logger, metrics, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	var input assessInput
	if err := readJSONFile(args[0], &input); err != nil {
		return fmt.Errorf("reading outcomes: %w", err)
	}

	scorer, err := health.NewScorer(cfg.Engine.Risk, logger, metrics)
	if err != nil {
		return err
	}

	debt := debtPct
	if input.DebtPct != nil {
		debt = *input.DebtPct
	}
	report, err := scorer.Assess(cmd.Context(), input.History, input.ErrorTypes, debt)
	if err != nil {
		return err
	}
	return printJSON(report)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, logger, metrics, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	log, err := eventlog.NewLog(cfg.Engine.EventLogCapacity, cfg.Engine.EventHalfLifeDays, logger, metrics)
	if err != nil {
		return err
	}
	if eventsPath != "" {
		var events []eventlog.Event
		if err := readJSONFile(eventsPath, &events); err != nil {
			return fmt.Errorf("reading events: %w", err)
		}
		log.Restore(events)
	}

	return printJSON(log.Correlate(args))
}

func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
