package crud

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"recipebook/domain"
	"recipebook/errs"
)

// PostService manages Posts.
// It implements the domain.PostService interface.
type PostService struct {
	postValidator
}

// postValidator runs validations on incoming Post data.
// On success, it passes the data on to postGorm.
// Otherwise, it returns the error of the validation that has failed.
type postValidator struct {
	postGorm
}

// postGorm runs CRUD operations on the database using incoming Post data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type postGorm struct {
	db *gorm.DB
}

// NewPostService returns an instance of PostService.
func NewPostService(db *gorm.DB) *PostService {
	return &PostService{
		postValidator{
			postGorm{
				db: db,
			},
		},
	}
}

// Ensure the PostService struct properly implements the domain.PostService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.PostService = &PostService{}

// Create runs validations needed for creating new Post database records.
func (pv *postValidator) Create(post *domain.Post) error {
	err := runPostValFns(post,
		pv.userIDValid,
		pv.titleRequired)
	if err != nil {
		return err
	}
	return pv.postGorm.Create(post)
}

// runPostValFns runs any number of functions of type postValFn on the passed in Post object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runPostValFns(post *domain.Post, fns ...postValFn) error {
	for _, fn := range fns {
		if err := fn(post); err != nil {
			return err
		}
	}
	return nil
}

// A postValFn is any function that takes in a pointer to a domain.Post object and returns an error.
type postValFn = func(post *domain.Post) error

// titleRequired makes sure that the post's title is not empty.
func (pv *postValidator) titleRequired(post *domain.Post) error {
	if strings.TrimSpace(post.Title) == "" {
		return errs.Errorf(errs.EINVALID, "A title is required.")
	}
	return nil
}

// userIDValid ensures that the author's userID is not empty.
func (pv *postValidator) userIDValid(post *domain.Post) error {
	if post.UserID <= 0 {
		return errs.Errorf(errs.EINVALID, "User ID is invalid.")
	}
	return nil
}

// ByID retrieves a single Post by ID, along with its author.
// Every successful lookup counts as one view on the post.
func (pg *postGorm) ByID(id int) (*domain.Post, error) {
	var post domain.Post
	err := pg.db.Preload("User").First(&post, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "The post does not exist.")
		}
		return nil, err
	}
	err = pg.db.Model(&post).UpdateColumn("total_view", gorm.Expr("total_view + ?", 1)).Error
	if err != nil {
		return nil, err
	}
	post.TotalView++
	return &post, nil
}

// ByUserID retrieves all posts of an author, newest first.
func (pg *postGorm) ByUserID(userID int) ([]domain.Post, error) {
	var posts []domain.Post
	err := pg.db.
		Where("user_id = ?", userID).
		Preload("User").
		Order("created_at desc").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// Create stores the data from the Post object in a new database record.
func (pg *postGorm) Create(post *domain.Post) error {
	if err := pg.db.Create(post).Error; err != nil {
		return err
	}
	return pg.db.Preload("User").First(post).Error
}

// Update applies a partial update to an existing post. Only the author may edit.
func (pg *postGorm) Update(id, requesterID int, upd *domain.PostUpdate) (*domain.Post, error) {
	var post domain.Post
	err := pg.db.First(&post, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "The post does not exist.")
		}
		return nil, err
	}
	if post.UserID != requesterID {
		return nil, errs.Errorf(errs.EUNAUTHORIZED, "You are not allowed to edit this post.")
	}
	if upd.Title != nil {
		post.Title = *upd.Title
	}
	if upd.Description != nil {
		post.Description = *upd.Description
	}
	if upd.Steps != nil {
		post.Steps = *upd.Steps
	}
	if upd.Ingredients != nil {
		post.Ingredients = *upd.Ingredients
	}
	if upd.MainImage != nil {
		post.MainImage = *upd.MainImage
	}
	if err := pg.db.Save(&post).Error; err != nil {
		return nil, err
	}
	pg.db.Preload("User").First(&post)
	return &post, nil
}

// Delete removes a post together with everything it exclusively owns:
// its comments, its own like edges, and the like edges of its
// comments. All of it happens in one transaction. Only the author may
// delete.
func (pg *postGorm) Delete(id, requesterID int) error {
	return pg.db.Transaction(func(tx *gorm.DB) error {
		var post domain.Post
		err := tx.First(&post, "id = ?", id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.Errorf(errs.ENOTFOUND, "The post does not exist.")
			}
			return err
		}
		if post.UserID != requesterID {
			return errs.Errorf(errs.EUNAUTHORIZED, "You are not allowed to delete this post.")
		}

		var commentIDs []int
		err = tx.Model(&domain.Comment{}).Where("post_id = ?", post.ID).Pluck("id", &commentIDs).Error
		if err != nil {
			return err
		}
		if len(commentIDs) > 0 {
			if err := tx.Where("owner_type = ? AND owner_id IN ?", domain.OwnerTypeComment, commentIDs).
				Delete(&domain.Like{}).Error; err != nil {
				return err
			}
			if err := tx.Where("post_id = ?", post.ID).Delete(&domain.Comment{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("owner_type = ? AND owner_id = ?", domain.OwnerTypePost, post.ID).
			Delete(&domain.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
}

// Search matches posts whose title or description contains the query,
// case-insensitively, in insertion order, windowed into fixed-size pages.
func (pg *postGorm) Search(query string, page int) (*domain.PostPage, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	var posts []domain.Post
	err := pg.db.
		Where("lower(title) LIKE ? OR lower(description) LIKE ?", pattern, pattern).
		Preload("User").
		Order("id asc").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	window, hasNextPage, err := Paginate(posts, page, PageSize)
	if err != nil {
		return nil, err
	}
	summaries := make([]domain.PostSummary, len(window))
	for i := range window {
		summaries[i] = window[i].Summary()
	}
	return &domain.PostPage{Posts: summaries, HasNextPage: hasNextPage}, nil
}
