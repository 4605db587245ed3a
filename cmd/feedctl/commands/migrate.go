package commands

import (
	"fmt"
	"strings"

	"bailanysta/internal/database"

	"github.com/spf13/cobra"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or inspect the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Create or update every table and index",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := connect()
		if err != nil {
			return err
		}
		if err := database.ApplySchema(cmd.Context(), db); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
		return printResult(cmd.OutOrStdout(), "schema applied", map[string]bool{"applied": true})
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report which tables exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := connect()
		if err != nil {
			return err
		}
		status, err := database.GetSchemaStatus(cmd.Context(), db)
		if err != nil {
			return fmt.Errorf("schema status: %w", err)
		}

		text := fmt.Sprintf("tables=%d missing=%d", len(status.Tables), len(status.Missing))
		if len(status.Missing) > 0 {
			text += " (" + strings.Join(status.Missing, ", ") + ")"
		}
		return printResult(cmd.OutOrStdout(), text, status)
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateStatusCmd)
	rootCmd.AddCommand(migrateCmd)
}
