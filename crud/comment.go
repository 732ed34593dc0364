package crud

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"recipebook/domain"
	"recipebook/errs"
)

// CommentService manages Comments and the cached comment counter on
// their post. It implements the domain.CommentService interface.
type CommentService struct {
	commentValidator
}

// commentValidator runs validations on incoming Comment data.
// On success, it passes the data on to commentGorm.
// Otherwise, it returns the error of the validation that has failed.
type commentValidator struct {
	commentGorm
}

// commentGorm runs CRUD operations on the database using incoming
// Comment data. Creation and deletion touch the parent post's
// comment counter in the same transaction as the comment row itself.
type commentGorm struct {
	db *gorm.DB
}

// NewCommentService returns an instance of CommentService.
func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{
		commentValidator{
			commentGorm{
				db: db,
			},
		},
	}
}

// Ensure the CommentService struct properly implements the domain.CommentService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.CommentService = &CommentService{}

// Create runs validations needed for creating new Comment database records.
func (cv *commentValidator) Create(postID, userID int, content string) (*domain.Comment, error) {
	if err := cv.contentValid(content); err != nil {
		return nil, err
	}
	if userID <= 0 {
		return nil, errs.Errorf(errs.EINVALID, "User ID is invalid.")
	}
	return cv.commentGorm.Create(postID, userID, content)
}

// Update runs validations needed for editing existing Comment database records.
func (cv *commentValidator) Update(commentID, requesterID int, content string) (*domain.Comment, error) {
	if err := cv.contentValid(content); err != nil {
		return nil, err
	}
	return cv.commentGorm.Update(commentID, requesterID, content)
}

// contentValid makes sure that the comment's content is not empty.
func (cv *commentValidator) contentValid(content string) error {
	if strings.TrimSpace(content) == "" {
		return errs.Errorf(errs.EINVALID, "Comment content must not be empty.")
	}
	return nil
}

// Create stores a new comment and increments the parent post's
// comment counter, as a single transactional unit.
func (cg *commentGorm) Create(postID, userID int, content string) (*domain.Comment, error) {
	comment := domain.Comment{PostID: postID, UserID: userID, Content: content}
	err := cg.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.Post{}).Where("id = ?", postID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errs.Errorf(errs.ENOTFOUND, "The post does not exist.")
		}
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Post{}).Where("id = ?", postID).
			UpdateColumn("total_comment", gorm.Expr("total_comment + ?", 1)).Error
	})
	if err != nil {
		return nil, err
	}
	cg.db.Preload("User").First(&comment)
	return &comment, nil
}

// Update replaces the content of an existing comment. Only the author
// may edit. The creation time stays untouched.
func (cg *commentGorm) Update(commentID, requesterID int, content string) (*domain.Comment, error) {
	var comment domain.Comment
	err := cg.db.First(&comment, "id = ?", commentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "The comment does not exist.")
		}
		return nil, err
	}
	if comment.UserID != requesterID {
		return nil, errs.Errorf(errs.EUNAUTHORIZED, "You are not allowed to edit this comment.")
	}
	if err := cg.db.Model(&comment).Update("content", content).Error; err != nil {
		return nil, err
	}
	cg.db.Preload("User").First(&comment)
	return &comment, nil
}

// Delete removes a comment, its like edges, and decrements the parent
// post's comment counter, as a single transactional unit. Only the
// author may delete.
func (cg *commentGorm) Delete(commentID, requesterID int) error {
	return cg.db.Transaction(func(tx *gorm.DB) error {
		var comment domain.Comment
		err := tx.First(&comment, "id = ?", commentID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.Errorf(errs.ENOTFOUND, "The comment does not exist.")
			}
			return err
		}
		if comment.UserID != requesterID {
			return errs.Errorf(errs.EUNAUTHORIZED, "You are not allowed to delete this comment.")
		}
		if err := tx.Where("owner_type = ? AND owner_id = ?", domain.OwnerTypeComment, comment.ID).
			Delete(&domain.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&comment).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Post{}).Where("id = ?", comment.PostID).
			UpdateColumn("total_comment", gorm.Expr("total_comment - ?", 1)).Error
	})
}

// ByPostID lists a post's comments in insertion order, each annotated
// with whether the viewer has liked it, windowed into fixed-size pages.
func (cg *commentGorm) ByPostID(postID, viewerID, page int) (*domain.CommentPage, error) {
	var count int64
	if err := cg.db.Model(&domain.Post{}).Where("id = ?", postID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, errs.Errorf(errs.ENOTFOUND, "The post does not exist.")
	}

	var comments []domain.Comment
	err := cg.db.
		Where("post_id = ?", postID).
		Preload("User").
		Order("id asc").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}

	window, hasNextPage, err := Paginate(comments, page, PageSize)
	if err != nil {
		return nil, err
	}

	// Annotate only the window; one query covers all its comments.
	liked := make(map[int]bool)
	if len(window) > 0 && viewerID > 0 {
		ids := make([]int, len(window))
		for i, c := range window {
			ids[i] = c.ID
		}
		var edges []domain.Like
		err = cg.db.
			Where("user_id = ? AND owner_type = ? AND owner_id IN ?", viewerID, domain.OwnerTypeComment, ids).
			Find(&edges).Error
		if err != nil {
			return nil, err
		}
		for _, e := range edges {
			liked[e.OwnerID] = true
		}
	}

	views := make([]domain.CommentView, len(window))
	for i, c := range window {
		views[i] = domain.CommentView{Comment: c, IsLiked: liked[c.ID]}
	}
	return &domain.CommentPage{Comments: views, HasNextPage: hasNextPage}, nil
}
