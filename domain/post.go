package domain

import (
	"time"
)

// Post is a recipe shared by a user: free-text title and description,
// an ordered list of preparation steps and an ordered list of
// ingredients, plus one main image. TotalLike and TotalComment are
// cached counters; the like edges and comment rows are the source of
// truth and the services keep the counters equal to their cardinality.
type Post struct {
	ID          int          `json:"id"`
	UserID      int          `json:"user_id"`
	User        User         `json:"author"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Steps       []string     `json:"steps" gorm:"serializer:json"`
	Ingredients []Ingredient `json:"ingredients" gorm:"serializer:json"`
	MainImage   string       `json:"main_image"`

	TotalLike    int `json:"total_like"`
	TotalComment int `json:"total_comment"`
	TotalView    int `json:"total_view"`

	Likes    []Like    `json:"-" gorm:"polymorphic:Owner"`
	Comments []Comment `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Ingredient is one entry of a recipe's ingredient list.
type Ingredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

// PostSummary is the lightweight projection of a Post used in feeds
// and search results, where the full body would be wasted payload.
type PostSummary struct {
	ID           int       `json:"id"`
	Author       User      `json:"author"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	MainImage    string    `json:"main_image"`
	TotalLike    int       `json:"total_like"`
	TotalComment int       `json:"total_comment"`
	TotalView    int       `json:"total_view"`
	CreatedAt    time.Time `json:"created_at"`
}

// Summary returns the lightweight projection of a post.
func (p *Post) Summary() PostSummary {
	return PostSummary{
		ID:           p.ID,
		Author:       p.User,
		Title:        p.Title,
		Description:  p.Description,
		MainImage:    p.MainImage,
		TotalLike:    p.TotalLike,
		TotalComment: p.TotalComment,
		TotalView:    p.TotalView,
		CreatedAt:    p.CreatedAt,
	}
}

// PostUpdate carries a partial update of a post. Nil fields are left
// untouched.
type PostUpdate struct {
	Title       *string       `json:"title"`
	Description *string       `json:"description"`
	Steps       *[]string     `json:"steps"`
	Ingredients *[]Ingredient `json:"ingredients"`
	MainImage   *string       `json:"main_image"`
}

// PostPage is one window of a paginated post listing.
type PostPage struct {
	Posts       []PostSummary `json:"posts"`
	HasNextPage bool          `json:"has_next_page"`
}

// PostService is a set of methods to manipulate and work with the Post model.
type PostService interface {
	// ByID returns a post and counts the lookup as one view.
	ByID(id int) (*Post, error)
	ByUserID(userID int) ([]Post, error)
	Create(post *Post) error
	Update(id, requesterID int, upd *PostUpdate) (*Post, error)
	// Delete removes a post together with its comments and every
	// like edge owned by the post or one of its comments.
	Delete(id, requesterID int) error
	Search(query string, page int) (*PostPage, error)
}
