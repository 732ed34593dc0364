package crud

import (
	"errors"

	"gorm.io/gorm"

	"recipebook/domain"
	"recipebook/errs"
)

// LikeService manages Likes and the cached like counters on their
// owners. It implements the domain.LikeService interface.
type LikeService struct {
	likeValidator
}

// likeValidator runs validations on incoming Like data.
// On success, it passes the data on to likeGorm.
// Otherwise, it returns the error of the validation that has failed.
type likeValidator struct {
	likeGorm
}

// likeGorm runs the toggle operations on the database. Every mutation
// applies the edge change and the counter change inside one
// transaction, so no other operation ever observes the two diverging.
type likeGorm struct {
	db *gorm.DB
}

// NewLikeService returns an instance of LikeService.
func NewLikeService(db *gorm.DB) *LikeService {
	return &LikeService{
		likeValidator{
			likeGorm{
				db: db,
			},
		},
	}
}

// Ensure the LikeService struct properly implements the domain.LikeService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.LikeService = &LikeService{}

// LikePost runs validations needed for liking a post.
func (lv *likeValidator) LikePost(postID, userID int) (int, error) {
	if err := lv.userIDValid(userID); err != nil {
		return 0, err
	}
	return lv.likeGorm.attach(domain.OwnerTypePost, postID, userID)
}

// UnlikePost runs validations needed for unliking a post.
func (lv *likeValidator) UnlikePost(postID, userID int) (int, error) {
	if err := lv.userIDValid(userID); err != nil {
		return 0, err
	}
	return lv.likeGorm.detach(domain.OwnerTypePost, postID, userID)
}

// LikeComment runs validations needed for liking a comment.
func (lv *likeValidator) LikeComment(commentID, userID int) (int, error) {
	if err := lv.userIDValid(userID); err != nil {
		return 0, err
	}
	return lv.likeGorm.attach(domain.OwnerTypeComment, commentID, userID)
}

// UnlikeComment runs validations needed for unliking a comment.
func (lv *likeValidator) UnlikeComment(commentID, userID int) (int, error) {
	if err := lv.userIDValid(userID); err != nil {
		return 0, err
	}
	return lv.likeGorm.detach(domain.OwnerTypeComment, commentID, userID)
}

// userIDValid ensures that the userID is not empty.
func (lv *likeValidator) userIDValid(userID int) error {
	if userID <= 0 {
		return errs.Errorf(errs.EINVALID, "User ID is invalid.")
	}
	return nil
}

// ownerModel maps an owner type to the gorm model carrying the
// counter column.
func ownerModel(ownerType string) interface{} {
	if ownerType == domain.OwnerTypeComment {
		return &domain.Comment{}
	}
	return &domain.Post{}
}

// ownerNoun is the word used for the owner in client-facing messages.
func ownerNoun(ownerType string) string {
	if ownerType == domain.OwnerTypeComment {
		return "comment"
	}
	return "post"
}

// ownerExists makes sure that the target of a like toggle actually exists.
func ownerExists(tx *gorm.DB, ownerType string, ownerID int) error {
	var count int64
	err := tx.Model(ownerModel(ownerType)).Where("id = ?", ownerID).Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return errs.Errorf(errs.ENOTFOUND, "The %s does not exist.", ownerNoun(ownerType))
	}
	return nil
}

// counterValue reads the owner's like counter back out of the database.
func counterValue(tx *gorm.DB, ownerType string, ownerID int, total *int) error {
	return tx.Model(ownerModel(ownerType)).Select("total_like").Where("id = ?", ownerID).Scan(total).Error
}

// attach inserts the like edge and increments the owner's counter by
// one, as a single transactional unit. It returns the new counter
// value. Duplicate edges are detected by the unique (user, owner)
// index alone, so two concurrent attaches by the same user can't both
// slip past a pre-check; the loser's whole transaction rolls back and
// the counter stays equal to the edge count either way.
func (lg *likeGorm) attach(ownerType string, ownerID, userID int) (int, error) {
	var total int
	err := lg.db.Transaction(func(tx *gorm.DB) error {
		if err := ownerExists(tx, ownerType, ownerID); err != nil {
			return err
		}
		like := domain.Like{UserID: userID, OwnerType: ownerType, OwnerID: ownerID}
		if err := tx.Create(&like).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errs.Errorf(errs.ECONFLICT, "You already like this %s.", ownerNoun(ownerType))
			}
			return err
		}
		if err := tx.Model(ownerModel(ownerType)).Where("id = ?", ownerID).
			UpdateColumn("total_like", gorm.Expr("total_like + ?", 1)).Error; err != nil {
			return err
		}
		return counterValue(tx, ownerType, ownerID, &total)
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

// detach removes the like edge and decrements the owner's counter by
// one, as a single transactional unit. It returns the new counter value.
func (lg *likeGorm) detach(ownerType string, ownerID, userID int) (int, error) {
	var total int
	err := lg.db.Transaction(func(tx *gorm.DB) error {
		if err := ownerExists(tx, ownerType, ownerID); err != nil {
			return err
		}
		res := tx.Where("user_id = ? AND owner_type = ? AND owner_id = ?", userID, ownerType, ownerID).
			Delete(&domain.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.Errorf(errs.ECONFLICT, "You have not liked this %s.", ownerNoun(ownerType))
		}
		if err := tx.Model(ownerModel(ownerType)).Where("id = ?", ownerID).
			UpdateColumn("total_like", gorm.Expr("total_like - ?", 1)).Error; err != nil {
			return err
		}
		return counterValue(tx, ownerType, ownerID, &total)
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

// PostIsLiked takes a user ID and a post ID and returns a boolean
// expressing whether the given user likes the given post.
func (lg *likeGorm) PostIsLiked(postID, userID int) (bool, error) {
	return lg.isLiked(domain.OwnerTypePost, postID, userID)
}

// CommentIsLiked takes a user ID and a comment ID and returns a boolean
// expressing whether the given user likes the given comment.
func (lg *likeGorm) CommentIsLiked(commentID, userID int) (bool, error) {
	return lg.isLiked(domain.OwnerTypeComment, commentID, userID)
}

func (lg *likeGorm) isLiked(ownerType string, ownerID, userID int) (bool, error) {
	if err := ownerExists(lg.db, ownerType, ownerID); err != nil {
		return false, err
	}
	var count int64
	err := lg.db.Model(&domain.Like{}).
		Where("user_id = ? AND owner_type = ? AND owner_id = ?", userID, ownerType, ownerID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// LikersByPostID retrieves the users who like a post, in the order the
// likes were created, windowed into fixed-size pages.
func (lg *likeGorm) LikersByPostID(postID, page int) (*domain.LikerPage, error) {
	if err := ownerExists(lg.db, domain.OwnerTypePost, postID); err != nil {
		return nil, err
	}
	var likers []domain.User
	err := lg.db.Model(&domain.User{}).
		Joins("JOIN likes ON likes.user_id = users.id").
		Where("likes.owner_type = ? AND likes.owner_id = ?", domain.OwnerTypePost, postID).
		Order("likes.id asc").
		Find(&likers).Error
	if err != nil {
		return nil, err
	}
	window, hasNextPage, err := Paginate(likers, page, PageSize)
	if err != nil {
		return nil, err
	}
	for i := range window {
		window[i] = window[i].Summary()
	}
	return &domain.LikerPage{Likers: window, HasNextPage: hasNextPage}, nil
}
