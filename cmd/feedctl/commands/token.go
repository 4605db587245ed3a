package commands

import (
	"fmt"
	"time"

	"bailanysta/internal/middleware"
	"bailanysta/internal/repository"

	"github.com/spf13/cobra"
)

var tokenTTL time.Duration

// tokenCmd represents the token command
var tokenCmd = &cobra.Command{
	Use:   "token <username>",
	Short: "Issue a bearer token for an existing user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := connect()
		if err != nil {
			return err
		}
		user, err := repository.NewUserRepository(db, cfg.StorageTimeout()).GetByUsername(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("lookup user: %w", err)
		}
		token, err := middleware.IssueToken(cfg.JWTSecret, user.ID, tokenTTL)
		if err != nil {
			return fmt.Errorf("issue token: %w", err)
		}
		return printResult(cmd.OutOrStdout(), token, map[string]any{
			"user_id":    user.ID,
			"token":      token,
			"expires_at": time.Now().Add(tokenTTL).UTC(),
		})
	},
}

func init() {
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "Token lifetime")
	rootCmd.AddCommand(tokenCmd)
}
