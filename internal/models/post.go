// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// MaxPostTextRunes is the upper bound on post text length, counted in code points.
const MaxPostTextRunes = 280

// Post represents a post or a repost. A repost has OriginalPostID set and no text of its own.
type Post struct {
	ID       uint   `gorm:"primaryKey;index:idx_posts_created_id,priority:2" json:"id"`
	AuthorID uint   `gorm:"not null;index:idx_posts_author;uniqueIndex:idx_posts_repost_author,priority:1" json:"author_id"`
	Author   User   `gorm:"foreignKey:AuthorID" json:"-"`
	Text     string `gorm:"type:text;not null;default:''" json:"text"`
	// SearchText is the lowercased text used by the search prefilter.
	SearchText string `gorm:"type:text;not null;default:''" json:"-"`
	Edited   bool   `gorm:"not null;default:false" json:"edited"`
	// OriginalPostID references a non-repost post; NULL for originals.
	OriginalPostID *uint `gorm:"index;uniqueIndex:idx_posts_repost_author,priority:2" json:"original_post_id,omitempty"`
	// LikesCount and RepostsCount are kept in lockstep with likes and repost rows
	// by the engagement transactions in the repository layer.
	LikesCount   int64          `gorm:"not null;default:0" json:"likes_count"`
	RepostsCount int64          `gorm:"not null;default:0" json:"reposts_count"`
	CreatedAt    time.Time      `gorm:"not null;index:idx_posts_created_id,priority:1" json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// EngagementCounts holds the likes and reposts aggregates of one post.
type EngagementCounts struct {
	Likes   int64
	Reposts int64
}

// IsRepost reports whether the post is a repost shell.
func (p *Post) IsRepost() bool {
	return p.OriginalPostID != nil
}

// TargetID returns the id engagement on this post accrues to: the original for
// reposts, the post itself otherwise.
func (p *Post) TargetID() uint {
	if p.OriginalPostID != nil {
		return *p.OriginalPostID
	}
	return p.ID
}
