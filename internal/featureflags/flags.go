package featureflags

// LiveCounts makes feeds recompute likes and reposts from relation rows
// instead of reading the denormalized columns on posts.
const LiveCounts = "live_counts"

// Definition describes a flag the feed engine reads.
type Definition struct {
	Name        string
	Description string
}

// Known lists every flag FEATURE_FLAGS may set. Entries for other names are
// reported by NewManager and ignored.
var Known = []Definition{
	{
		Name:        LiveCounts,
		Description: "recompute likes_count and reposts_count from likes and repost rows per viewer",
	},
}

func known(name string) bool {
	for _, d := range Known {
		if d.Name == name {
			return true
		}
	}
	return false
}
