package crud

import (
	"math"
	"sort"
	"time"

	"gorm.io/gorm"

	"recipebook/domain"
	"recipebook/errs"
)

// FeedService produces the newsfeed. Scores are recomputed from
// scratch on every call against a single snapshot read, so two calls
// over unchanged data return identical output. It implements the
// domain.FeedService interface.
type FeedService struct {
	db      *gorm.DB
	follows domain.FollowService
}

// NewFeedService returns an instance of FeedService.
func NewFeedService(db *gorm.DB, follows domain.FollowService) *FeedService {
	return &FeedService{
		db:      db,
		follows: follows,
	}
}

// Ensure the FeedService struct properly implements the domain.FeedService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.FeedService = &FeedService{}

// Score computes the relevance of a post at time now. Engagement
// raises the score with diminishing returns, views count less than
// likes and comments, following the author roughly doubles it, an
// already-read post keeps a tenth of its base, and age decays it with
// a two-hour half-scale. The +1 under the root keeps the denominator
// positive for brand-new posts; a createdAt in the future (clock
// skew) is treated as age zero.
func Score(post *domain.Post, now time.Time, follow, read bool) float64 {
	hoursAway := now.Sub(post.CreatedAt).Hours()
	if hoursAway < 0 {
		hoursAway = 0
	}
	f, r := 0.0, 0.0
	if follow {
		f = 1
	}
	if read {
		r = 1
	}
	base := math.Sqrt(float64(post.TotalLike) + float64(post.TotalComment) + math.Sqrt(float64(post.TotalView)))
	numerator := base*(1+f)*(1-r*0.9) + f*2
	return numerator / math.Sqrt(hoursAway/2+1)
}

// Newsfeed scores every post for the viewer at the current time,
// orders them by score descending and returns the top limit entries
// as summaries. Equal scores keep insertion order, so the output is
// deterministic for an unchanged snapshot.
func (fs *FeedService) Newsfeed(viewerID, limit int) ([]domain.FeedEntry, error) {
	if limit < 1 {
		return nil, errs.Errorf(errs.EINVALID, "Limit must be at least 1.")
	}

	var posts []domain.Post
	err := fs.db.Preload("User").Order("id asc").Find(&posts).Error
	if err != nil {
		return nil, err
	}

	now := time.Now()
	entries := make([]domain.FeedEntry, len(posts))
	for i := range posts {
		follow := fs.follows.IsFollowing(viewerID, posts[i].UserID)
		// Per-post read tracking is not modeled yet, every post
		// counts as unread.
		entries[i] = domain.FeedEntry{
			Post:  posts[i].Summary(),
			Score: Score(&posts[i], now, follow, false),
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})

	if limit > len(entries) {
		limit = len(entries)
	}
	return entries[:limit], nil
}
