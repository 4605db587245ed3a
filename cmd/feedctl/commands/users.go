package commands

import (
	"fmt"

	"bailanysta/internal/bootstrap"

	"github.com/spf13/cobra"
)

var (
	displayName string
	bio         string
)

// usersCmd represents the users command
var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage accounts",
}

var usersCreateCmd = &cobra.Command{
	Use:   "create <username>",
	Short: "Register a new account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := connect()
		if err != nil {
			return err
		}
		services := bootstrap.NewServices(cfg, db, nil)
		user, err := services.Users.CreateUser(cmd.Context(), args[0], displayName, bio)
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		return printResult(cmd.OutOrStdout(), fmt.Sprintf("created user %s (id=%d)", user.Username, user.ID), user)
	},
}

func init() {
	usersCreateCmd.Flags().StringVar(&displayName, "display-name", "", "Display name")
	usersCreateCmd.Flags().StringVar(&bio, "bio", "", "Profile bio")
	usersCmd.AddCommand(usersCreateCmd)
	rootCmd.AddCommand(usersCmd)
}
