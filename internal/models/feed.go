package models

import "time"

// FeedView selects which timeline the feed assembler builds.
type FeedView string

const (
	// FeedViewPublic is every non-deleted post.
	FeedViewPublic FeedView = "public"
	// FeedViewFollowing is the viewer's own posts plus posts of users they follow.
	FeedViewFollowing FeedView = "following"
	// FeedViewAuthor is one author's posts and reposts.
	FeedViewAuthor FeedView = "author"
)

// Valid reports whether v is a known view.
func (v FeedView) Valid() bool {
	switch v {
	case FeedViewPublic, FeedViewFollowing, FeedViewAuthor:
		return true
	}
	return false
}

// DisplayPost is a post as rendered for a specific viewer. For reposts the
// identity and ordering fields come from the repost row while text, hashtags
// and engagement come from the original.
type DisplayPost struct {
	ID             uint         `json:"id"`
	Author         *UserSummary `json:"author,omitempty"`
	AuthorID       uint         `json:"author_id"`
	Text           string       `json:"text"`
	Hashtags       []string     `json:"hashtags"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
	Edited         bool         `json:"edited"`
	OriginalPostID *uint        `json:"original_post_id,omitempty"`
	OriginalAuthor *UserSummary `json:"original_author,omitempty"`
	LikesCount     int64        `json:"likes_count"`
	RepostsCount   int64        `json:"reposts_count"`
	LikedByMe      bool         `json:"liked_by_me"`
	RepostedByMe   bool         `json:"reposted_by_me"`
	// Unavailable marks a repost whose original has been deleted.
	Unavailable bool `json:"unavailable,omitempty"`
}

// TargetID is the id engagement flags are computed against.
func (d *DisplayPost) TargetID() uint {
	if d.OriginalPostID != nil {
		return *d.OriginalPostID
	}
	return d.ID
}

// FeedPage is one page of a timeline.
type FeedPage struct {
	Items      []*DisplayPost `json:"items"`
	NextCursor string         `json:"next_cursor,omitempty"`
}
