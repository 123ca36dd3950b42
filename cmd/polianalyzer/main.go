package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TobiSchelling/PoliticianAnalyzer/internal/compose"
	"github.com/TobiSchelling/PoliticianAnalyzer/internal/config"
	"github.com/TobiSchelling/PoliticianAnalyzer/internal/database"
	"github.com/TobiSchelling/PoliticianAnalyzer/internal/logging"
	"github.com/TobiSchelling/PoliticianAnalyzer/internal/model"
	"github.com/TobiSchelling/PoliticianAnalyzer/internal/pipeline"
	"github.com/TobiSchelling/PoliticianAnalyzer/internal/server"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
	logger     = zap.NewNop()
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "polianalyzer",
	Short:         "Politician activity analyzer",
	Long:          "polianalyzer gathers a politician's biography and recent news and reports on their activities, promises and legislative record.",
	Version:       version,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		switch {
		case err == nil:
			cfg, err = config.Load(path)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
		case configPath != "":
			return err
		default:
			cfg = config.Default()
		}

		level := cfg.Logging.Level
		if verbose {
			level = "DEBUG"
		}
		logger, err = logging.New(level, cfg.Logging.Format)
		if err != nil {
			return fmt.Errorf("configuring logging: %w", err)
		}
		if path != "" {
			logger.Debug("loaded config", zap.String("path", path))
		} else {
			logger.Debug("no config file found, using defaults")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(historyCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("polianalyzer", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/polianalyzer/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Set NEWSAPI_KEY and GROQ_API_KEY (or your provider's key) to enable news and AI analysis.")
		return nil
	},
}

// --- analyze command ---

var (
	analyzeStrategy string
	analyzeFormat   string
	noCache         bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze NAME...",
	Short: "Analyze one or more politicians",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format := strings.ToLower(analyzeFormat)
		if format != "json" && format != "markdown" {
			return fmt.Errorf("unknown format %q (want json or markdown)", analyzeFormat)
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		pipe, err := pipeline.Build(ctx, cfg, db, analyzeStrategy, logger)
		if err != nil {
			return err
		}

		failed := 0
		for _, name := range args {
			if strings.TrimSpace(name) == "" {
				return fmt.Errorf("politician name is required")
			}
			result := pipe.Run(ctx, name, pipeline.Options{NoCache: noCache})

			for i, step := range result.Steps {
				if step.Err != nil {
					logger.Debug("step failed", zap.Int("step", i+1), zap.String("name", step.Name), zap.Error(step.Err))
				} else {
					logger.Debug("step done", zap.Int("step", i+1), zap.String("name", step.Name), zap.String("summary", step.Summary))
				}
			}

			if result.Err != nil {
				failed++
				if format == "json" {
					if err := printJSON(model.ErrorResultFrom(result.Err)); err != nil {
						return err
					}
				} else {
					fmt.Fprintf(os.Stderr, "Error analyzing %s: %v\n", name, result.Err)
				}
				continue
			}

			if format == "json" {
				if err := printJSON(result.Report); err != nil {
					return err
				}
			} else {
				fmt.Print(compose.Markdown(result.Report))
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d analyses failed", failed, len(args))
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeStrategy, "strategy", "s", "", "Analysis strategy: heuristic, generative or auto (default from config)")
	analyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", "json", "Output format: json or markdown")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "Fetch fresh data even when a cached snapshot exists")
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// --- serve command ---

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		if cfg.Cache.Enabled {
			if n, err := db.PurgeSnapshots(cfg.Cache.TTL); err != nil {
				logger.Warn("purging stale snapshots failed", zap.Error(err))
			} else if n > 0 {
				logger.Info("purged stale snapshots", zap.Int64("count", n))
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		pipe, err := pipeline.Build(ctx, cfg, db, "", logger)
		if err != nil {
			return err
		}
		srv, err := server.New(pipe, db, logger)
		if err != nil {
			return err
		}

		port := cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port = servePort
		}
		fmt.Printf("Starting server at http://%s:%d (strategy: %s)\n", cfg.Server.Host, port, pipe.StrategyName())
		fmt.Println("Press Ctrl+C to stop")
		return server.Serve(ctx, srv, cfg.Server.Host, port, logger)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8000, "Port to run server on")
}

// --- status command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database and configuration status",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats()
		if err != nil {
			return fmt.Errorf("getting stats: %w", err)
		}

		fmt.Printf("Database: %s\n\n", db.Path())
		fmt.Println("Queries:")
		fmt.Printf("  Total: %d\n", stats.Queries)
		fmt.Printf("  Failed: %d\n", stats.FailedQueries)
		fmt.Printf("  Distinct politicians: %d\n", stats.DistinctNames)
		fmt.Println("\nCache:")
		fmt.Printf("  Enabled: %t (ttl %s)\n", cfg.Cache.Enabled, cfg.Cache.TTL)
		fmt.Printf("  Snapshots: %d\n", stats.Snapshots)
		fmt.Println("\nAnalysis:")
		fmt.Printf("  Strategy: %s\n", cfg.Analysis.Strategy)
		fmt.Printf("  LLM: %s (%s), key %s\n", cfg.LLM.Provider, cfg.LLM.Model, credentialState(cfg.LLM.APIKeyEnv))
		fmt.Printf("  NewsAPI key %s\n", credentialState(cfg.Sources.APIs.NewsAPI.APIKeyEnv))
		return nil
	},
}

func credentialState(env string) string {
	if config.Credential(env) == "" {
		return fmt.Sprintf("missing (%s)", env)
	}
	return fmt.Sprintf("set (%s)", env)
}

// --- history command ---

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent queries",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		queries, err := db.GetRecentQueries(historyLimit)
		if err != nil {
			return err
		}
		if len(queries) == 0 {
			fmt.Println("No queries yet. Run: polianalyzer analyze \"Name\"")
			return nil
		}

		for _, q := range queries {
			outcome := fmt.Sprintf("%d promises", q.PromiseCount)
			if q.FulfillmentRate != nil {
				outcome += ", " + *q.FulfillmentRate + " fulfilled"
			}
			if q.Outcome == database.OutcomeError {
				outcome = "error"
				if q.ErrorMessage != nil {
					outcome += ": " + *q.ErrorMessage
				}
			}
			fmt.Printf("  %s  %-24s %-10s %s\n", database.FormatTimestamp(q.CreatedAt), q.Name, q.Strategy, outcome)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of queries to show")
}

func openDB() (*database.DB, error) {
	return database.Open(cfg.DatabasePath(), logger)
}
