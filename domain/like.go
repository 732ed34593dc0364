package domain

import "time"

const (
	// OwnerTypePost expresses that a Like belongs to a Post.
	OwnerTypePost = "posts"
	// OwnerTypeComment expresses that a Like belongs to a Comment.
	OwnerTypeComment = "comments"
)

// Like represents a many-to-many relationship between a User and a
// likeable entity (a Post or a Comment, told apart by OwnerType).
// Its existence is the sole source of truth for "user U likes target
// T"; the TotalLike counters on the owners are caches of the edge
// count. A user can hold at most one edge per target, enforced by a
// composite unique index.
type Like struct {
	ID        int    `json:"id"`
	UserID    int    `json:"user_id" gorm:"uniqueIndex:idx_liker_owner"`
	OwnerType string `json:"owner_type" gorm:"uniqueIndex:idx_liker_owner"`
	OwnerID   int    `json:"owner_id" gorm:"uniqueIndex:idx_liker_owner"`

	CreatedAt time.Time `json:"created_at"`
}

// LikerPage is one window of a post's liker listing.
type LikerPage struct {
	Likers      []User `json:"likers"`
	HasNextPage bool   `json:"has_next_page"`
}

// LikeService owns the like toggle. Both mutations apply the edge
// change and the counter change as one unit and return the counter's
// new value.
type LikeService interface {
	LikePost(postID, userID int) (int, error)
	UnlikePost(postID, userID int) (int, error)
	LikeComment(commentID, userID int) (int, error)
	UnlikeComment(commentID, userID int) (int, error)
	PostIsLiked(postID, userID int) (bool, error)
	CommentIsLiked(commentID, userID int) (bool, error)
	// LikersByPostID lists the users who like a post, ten per page.
	LikersByPostID(postID, page int) (*LikerPage, error)
}
