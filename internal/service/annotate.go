package service

import (
	"context"

	"bailanysta/internal/featureflags"
	"bailanysta/internal/models"
	"bailanysta/internal/repository"

	"golang.org/x/sync/errgroup"
)

// annotator attaches per-viewer flags and, behind the live_counts flag, counts
// recomputed from relation rows. Flags are computed against the engagement
// target so a repost shows the viewer's like of its original. An unavailable
// repost still reports reposted_by_me since its shell row outlives the original.
type annotator struct {
	engagement repository.EngagementRepository
	flags      *featureflags.Manager
}

func (a *annotator) annotate(ctx context.Context, viewerID uint, items []*models.DisplayPost) error {
	targets := make([]uint, 0, len(items))
	repostTargets := make([]uint, 0, len(items))
	seen := make(map[uint]bool, len(items))
	for _, it := range items {
		id := it.TargetID()
		available, ok := seen[id]
		if !ok {
			repostTargets = append(repostTargets, id)
		}
		if !it.Unavailable && !available {
			targets = append(targets, id)
			available = true
		}
		seen[id] = available
	}
	if len(repostTargets) == 0 {
		return nil
	}

	var (
		liked    []uint
		reposted []uint
		counts   map[uint]models.EngagementCounts
	)
	g, gctx := errgroup.WithContext(ctx)
	if viewerID != 0 {
		g.Go(func() error {
			var err error
			liked, err = a.engagement.LikedPostIDs(gctx, viewerID, targets)
			return err
		})
		g.Go(func() error {
			var err error
			reposted, err = a.engagement.RepostedOriginalIDs(gctx, viewerID, repostTargets)
			return err
		})
	}
	if len(targets) > 0 && a.flags.Enabled(featureflags.LiveCounts, viewerID) {
		g.Go(func() error {
			var err error
			counts, err = a.engagement.LiveCounts(gctx, targets)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	likedSet := toSet(liked)
	repostedSet := toSet(reposted)
	for _, it := range items {
		id := it.TargetID()
		_, it.RepostedByMe = repostedSet[id]
		if it.Unavailable {
			continue
		}
		_, it.LikedByMe = likedSet[id]
		if c, ok := counts[id]; ok {
			it.LikesCount = c.Likes
			it.RepostsCount = c.Reposts
		}
	}
	return nil
}

func toSet(ids []uint) map[uint]struct{} {
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
