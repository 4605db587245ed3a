package models

import "time"

// User is a registered account. Counts are derived from posts and follows and
// never stored on the row.
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Username    string    `gorm:"size:64;uniqueIndex;not null" json:"username"`
	DisplayName string    `gorm:"size:128" json:"display_name,omitempty"`
	Bio         string    `gorm:"type:text" json:"bio,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UserCounts holds the derived per-user aggregates.
type UserCounts struct {
	PostsCount     int64 `json:"posts_count"`
	FollowersCount int64 `json:"followers_count"`
	FollowingCount int64 `json:"following_count"`
}

// UserPublic is the public profile shape returned to clients.
type UserPublic struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name,omitempty"`
	Bio         string `json:"bio,omitempty"`
	UserCounts
}

// NewUserPublic combines a user row with its derived counts.
func NewUserPublic(u *User, counts UserCounts) *UserPublic {
	return &UserPublic{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Bio:         u.Bio,
		UserCounts:  counts,
	}
}

// UserSummary is the author block embedded in rendered posts.
type UserSummary struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name,omitempty"`
}

// Summary returns the post-embedded view of u, or nil for an unloaded user.
func (u *User) Summary() *UserSummary {
	if u == nil || u.ID == 0 {
		return nil
	}
	return &UserSummary{ID: u.ID, Username: u.Username, DisplayName: u.DisplayName}
}
