package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/scholarprep/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "scholarprep",
	Short: "AI study planner for two-subject entrance exams",
	Long: "ScholarPrep builds a week-by-week study roadmap for two subjects, " +
		"teaches each topic and tracks your mistakes with practice exams.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, false)
	},
}

// Execute runs the root command until ctx is cancelled.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Config file (default: ./scholarprep.yaml, then the user config dir)")
	flags.String("db", "", "Path to SQLite database file (overrides SCHOLARPREP_DB env var)")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
	flags.String("metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
	flags.String("provider", "", "LLM provider: gemini, openai, anthropic or openrouter")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(roadmapCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the db config key, then SCHOLARPREP_DB, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, configured string) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if configured != "" {
		return configured, store.EnsureDir(configured)
	}
	return store.DefaultDBPath()
}

// openStore opens the database named by flags and config, for commands
// that only read history.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return openStoreAt(cmd, cfg.DB)
}

func openStoreAt(cmd *cobra.Command, configured string) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd, configured)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}
