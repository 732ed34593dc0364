package domain

import "time"

// Follow represents a self-referential many-to-many relationship
// between two users. The FollowerID is the ID of the user that
// follows, the FollowedID the ID of the user being followed.
type Follow struct {
	ID         int       `json:"id"`
	FollowerID int       `json:"follower_id" gorm:"notNull;index"`
	Follower   User      `json:"follower"`
	FollowedID int       `json:"followed_id" gorm:"notNull;index"`
	Followed   User      `json:"followed"`
	CreatedAt  time.Time `json:"created_at"`
}

// FollowService is a set of methods to manipulate and work with the Follow model.
type FollowService interface {
	Create(follow *Follow) error
	Delete(follow *Follow) error
	// IsFollowing reports whether follower follows followed. The feed
	// ranker uses it as the follow input of the relevance score.
	IsFollowing(followerID, followedID int) bool
}
