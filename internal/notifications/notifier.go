// Package notifications publishes feed activity to Redis pub/sub channels.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// FeedEventsChannel carries every feed event as JSON.
const FeedEventsChannel = "feed:events"

// EventType names a feed event.
type EventType string

const (
	EventPostCreated  EventType = "post.created"
	EventPostEdited   EventType = "post.edited"
	EventPostDeleted  EventType = "post.deleted"
	EventPostLiked    EventType = "post.liked"
	EventPostReposted EventType = "post.reposted"
)

// FeedEvent is the payload published on FeedEventsChannel.
type FeedEvent struct {
	Type       EventType `json:"type"`
	PostID     uint      `json:"post_id"`
	ActorID    uint      `json:"actor_id"`
	AuthorID   uint      `json:"author_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Notifier provides helpers to publish notifications into Redis channels
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishFeedEvent broadcasts ev on FeedEventsChannel. Likes and reposts are
// also delivered to the post author's channel unless the author is the actor.
func (n *Notifier) PublishFeedEvent(ctx context.Context, ev FeedEvent) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	if err := n.rdb.Publish(ctx, FeedEventsChannel, string(payload)).Err(); err != nil {
		return err
	}

	switch ev.Type {
	case EventPostLiked, EventPostReposted:
		if ev.AuthorID != 0 && ev.AuthorID != ev.ActorID {
			return n.PublishUser(ctx, ev.AuthorID, string(payload))
		}
	}
	return nil
}

// PublishUser sends a notification payload to a user's channel.
func (n *Notifier) PublishUser(
	ctx context.Context, userID uint, payload string,
) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	return n.rdb.Publish(ctx, UserChannel(userID), payload).Err()
}

// SubscribeFeedEvents subscribes to FeedEventsChannel and calls onEvent for each
// decodable message until ctx is cancelled. It returns once the subscription is live.
func (n *Notifier) SubscribeFeedEvents(
	ctx context.Context, onEvent func(FeedEvent),
) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	sub := n.rdb.Subscribe(ctx, FeedEventsChannel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe %s: %w", FeedEventsChannel, err)
	}
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var ev FeedEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					log.Printf("feed events: dropping malformed payload: %v", err)
					continue
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("PANIC in feed event handler: %v\n%s", r, debug.Stack())
						}
					}()
					onEvent(ev)
				}()
			}
		}
	}()

	return nil
}

// UserChannel derives the Redis channel name for a user's notifications.
func UserChannel(userID uint) string {
	return "notifications:user:" + strconv.FormatUint(uint64(userID), 10)
}
