package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"bailanysta/internal/cache"
	"bailanysta/internal/notifications"

	"github.com/spf13/cobra"
)

// eventsCmd represents the events command
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Print feed events as they are published",
	RunE: func(cmd *cobra.Command, args []string) error {
		cache.InitRedis(cfg.RedisURL)
		rdb := cache.GetClient()
		if rdb == nil {
			return errors.New("redis is unavailable; feed events need REDIS_URL")
		}
		defer func() { _ = rdb.Close() }()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		enc := json.NewEncoder(out)
		err := notifications.NewNotifier(rdb).SubscribeFeedEvents(ctx, func(ev notifications.FeedEvent) {
			if jsonOutput {
				_ = enc.Encode(ev)
				return
			}
			_, _ = fmt.Fprintf(out, "%s %s post=%d actor=%d\n",
				ev.OccurredAt.Format("15:04:05"), ev.Type, ev.PostID, ev.ActorID)
		})
		if err != nil {
			return err
		}
		<-ctx.Done()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
}
