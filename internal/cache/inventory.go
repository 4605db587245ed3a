package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix       = "user:%d"
	UserCountsKeyPrefix = "user:%d:counts"
	FollowSetKeyPrefix  = "user:%d:following"
)

const (
	UserTTL       = 10 * time.Minute
	UserCountsTTL = 2 * time.Minute
	FollowSetTTL  = 5 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func UserCountsKey(userID uint) string {
	return fmt.Sprintf(UserCountsKeyPrefix, userID)
}

func FollowSetKey(userID uint) string {
	return fmt.Sprintf(FollowSetKeyPrefix, userID)
}

func Invalidate(ctx context.Context, keys ...string) {
	if client != nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// InvalidateUserCounts drops cached profile counts for every given user.
func InvalidateUserCounts(ctx context.Context, userIDs ...uint) {
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, UserCountsKey(id))
	}
	Invalidate(ctx, keys...)
}

// InvalidateFollowSet drops the cached following set of userID.
func InvalidateFollowSet(ctx context.Context, userID uint) {
	Invalidate(ctx, FollowSetKey(userID))
}
