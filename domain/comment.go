package domain

import "time"

// Comment belongs to exactly one Post. TotalLike caches the number of
// like edges owned by the comment, same invariant as on Post.
type Comment struct {
	ID      int    `json:"id"`
	PostID  int    `json:"post_id"`
	UserID  int    `json:"user_id"`
	User    User   `json:"author"`
	Content string `json:"content"`

	TotalLike int `json:"total_like"`

	Likes []Like `json:"-" gorm:"polymorphic:Owner"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CommentView is a comment as seen by a specific viewer, annotated
// with whether that viewer has liked it.
type CommentView struct {
	Comment
	IsLiked bool `json:"is_liked"`
}

// CommentPage is one window of a post's comment listing.
type CommentPage struct {
	Comments    []CommentView `json:"comments"`
	HasNextPage bool          `json:"has_next_page"`
}

// CommentService is a set of methods to manipulate and work with the Comment model.
type CommentService interface {
	Create(postID, userID int, content string) (*Comment, error)
	// Update replaces the content. Only the author may edit, and the
	// creation time is left untouched.
	Update(commentID, requesterID int, content string) (*Comment, error)
	// Delete removes the comment, its like edges, and takes one off
	// the parent post's comment counter.
	Delete(commentID, requesterID int) error
	// ByPostID lists a post's comments in insertion order, annotated
	// for the viewer, ten per page.
	ByPostID(postID, viewerID, page int) (*CommentPage, error)
}
