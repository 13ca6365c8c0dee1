package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/abhisek/prepcoach/internal/coach"
	"github.com/abhisek/prepcoach/internal/config"
	"github.com/abhisek/prepcoach/internal/llm"
	"github.com/abhisek/prepcoach/internal/session"
	"github.com/abhisek/prepcoach/internal/store"
)

var (
	cfg *config.Config
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "prepcoach",
	Short: "Mock interview coach",
	Long:  "Prepcoach generates interview questions, evaluates your answers and tracks your progress.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		c, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = c
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
			Level(c.Level()).
			With().Timestamp().Logger()
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return practiceCmd.RunE(cmd, args)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides PREPCOACH_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	addPracticeFlags(rootCmd)

	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(badgesCmd)
	rootCmd.AddCommand(tipsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(rolesCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the configured db, then PREPCOACH_DB and the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg != nil && cfg.DB != "" {
		return cfg.DB, store.EnsureDir(cfg.DB)
	}
	return store.DefaultDBPath()
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// services wires the store, the generation provider and the session
// service. The caller closes the returned store.
func services(cmd *cobra.Command) (*session.Service, *store.Store, error) {
	s, err := openStore(cmd)
	if err != nil {
		return nil, nil, err
	}

	provider, err := llm.NewProvider(cmd.Context(), cfg.LLM, s.EventRepo(), log)
	if err != nil {
		s.Close()
		return nil, nil, fmt.Errorf("create provider: %w", err)
	}
	log.Debug().Str("provider", cfg.LLM.Provider).Msg("provider ready")

	c := coach.New(provider, nil, log)
	svc := session.NewService(c, s.Records(), session.Config{
		RecentSessions: cfg.Interview.RecentSessions,
	}, log)
	return svc, s, nil
}
