package commands

import (
	"fmt"

	"bailanysta/internal/seed"

	"github.com/spf13/cobra"
)

var seedOpts = seed.DefaultOptions()

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the database with demo data",
	Long: `Seed creates users, posts, follows, likes and reposts.

Examples:
  feedctl seed                          # Default small graph
  feedctl seed --users 500 --posts 20   # Larger graph
  feedctl seed --clean --random-seed 7  # Reproducible run on an empty database`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := connect()
		if err != nil {
			return err
		}
		summary, err := seed.NewSeeder(db, seedOpts).Seed(cmd.Context())
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		text := fmt.Sprintf("users=%d posts=%d follows=%d likes=%d reposts=%d dry_run=%t",
			summary.Users, summary.Posts, summary.Follows, summary.Likes, summary.Reposts, seedOpts.DryRun)
		return printResult(cmd.OutOrStdout(), text, summary)
	},
}

func init() {
	f := seedCmd.Flags()
	f.IntVar(&seedOpts.NumUsers, "users", seedOpts.NumUsers, "Number of users to create")
	f.IntVar(&seedOpts.PostsPerUser, "posts", seedOpts.PostsPerUser, "Posts per user")
	f.IntVar(&seedOpts.FollowsPerUser, "follows", seedOpts.FollowsPerUser, "Follows per user")
	f.IntVar(&seedOpts.MaxLikes, "max-likes", seedOpts.MaxLikes, "Upper bound of likes per post")
	f.Float64Var(&seedOpts.RepostRatio, "repost-ratio", seedOpts.RepostRatio, "Share of posts that get reposted")
	f.IntVar(&seedOpts.MaxDays, "max-days", seedOpts.MaxDays, "Spread post times over this many past days")
	f.IntVar(&seedOpts.BatchSize, "batch-size", seedOpts.BatchSize, "Insert batch size")
	f.Int64Var(&seedOpts.RandomSeed, "random-seed", seedOpts.RandomSeed, "Faker seed, 0 picks one")
	f.BoolVar(&seedOpts.ShouldClean, "clean", seedOpts.ShouldClean, "Remove existing data first")
	f.BoolVar(&seedOpts.DryRun, "dry-run", seedOpts.DryRun, "Build rows without writing them")
	rootCmd.AddCommand(seedCmd)
}
