// Package commands implements the feedctl subcommands.
package commands

import (
	"fmt"
	"os"

	"bailanysta/internal/config"
	"bailanysta/internal/database"
	"bailanysta/internal/middleware"
	"bailanysta/internal/observability"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	// Global flags
	logLevel   string
	jsonOutput bool

	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "feedctl",
	Short: "Operator tooling for the Bailanysta feed backend",
	Long: `feedctl manages the feed database and accounts outside the HTTP API.

Subcommands:
  migrate  - Apply or inspect the schema
  seed     - Fill the database with demo users, posts and engagement
  users    - Create accounts
  token    - Issue a bearer token for a user
  events   - Tail the feed event stream`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
		level := cfg.LogLevel
		if logLevel != "" {
			level = logLevel
		}
		middleware.ConfigureLogger(cfg.Env, observability.ParseLevel(level), os.Stderr)
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override LOG_LEVEL (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
}

func connect() (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return db, nil
}
