package crud

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"recipebook/domain"
	"recipebook/errs"
)

func TestLikePost(t *testing.T) {
	db := testDB(t)
	ls := NewLikeService(db)
	author := seedUser(t, db, "author")
	liker := seedUser(t, db, "liker")
	post := seedPost(t, db, author.ID, "carbonara", time.Now())

	total, err := ls.LikePost(post.ID, liker.ID)
	if err != nil {
		t.Fatalf("liking post: %v", err)
	}
	if total != 1 {
		t.Errorf("counter after first like: got %d, want 1", total)
	}
	liked, err := ls.PostIsLiked(post.ID, liker.ID)
	if err != nil {
		t.Fatalf("checking like state: %v", err)
	}
	if !liked {
		t.Error("PostIsLiked: got false after a successful like")
	}
}

// The unique (user, owner) index is the sole duplicate detector, a
// second like from the same user fails on it and maps to a conflict.
func TestLikePostTwiceFails(t *testing.T) {
	db := testDB(t)
	ls := NewLikeService(db)
	author := seedUser(t, db, "author")
	liker := seedUser(t, db, "liker")
	post := seedPost(t, db, author.ID, "carbonara", time.Now())

	if _, err := ls.LikePost(post.ID, liker.ID); err != nil {
		t.Fatalf("liking post: %v", err)
	}
	_, err := ls.LikePost(post.ID, liker.ID)
	if errs.ErrorCode(err) != errs.ECONFLICT {
		t.Errorf("second like: got %v, want conflict", err)
	}
	if got := postCounter(t, db, post.ID); got != 1 {
		t.Errorf("counter after rejected like: got %d, want 1", got)
	}
}

func TestUnlikeWithoutLikeFails(t *testing.T) {
	db := testDB(t)
	ls := NewLikeService(db)
	author := seedUser(t, db, "author")
	liker := seedUser(t, db, "liker")
	post := seedPost(t, db, author.ID, "carbonara", time.Now())

	_, err := ls.UnlikePost(post.ID, liker.ID)
	if errs.ErrorCode(err) != errs.ECONFLICT {
		t.Errorf("unlike without like: got %v, want conflict", err)
	}
	if got := postCounter(t, db, post.ID); got != 0 {
		t.Errorf("counter after rejected unlike: got %d, want 0", got)
	}
}

func TestLikeMissingTarget(t *testing.T) {
	db := testDB(t)
	ls := NewLikeService(db)
	liker := seedUser(t, db, "liker")

	if _, err := ls.LikePost(42, liker.ID); errs.ErrorCode(err) != errs.ENOTFOUND {
		t.Errorf("liking missing post: got %v, want not found", err)
	}
	if _, err := ls.LikeComment(42, liker.ID); errs.ErrorCode(err) != errs.ENOTFOUND {
		t.Errorf("liking missing comment: got %v, want not found", err)
	}
	if _, err := ls.PostIsLiked(42, liker.ID); errs.ErrorCode(err) != errs.ENOTFOUND {
		t.Errorf("checking missing post: got %v, want not found", err)
	}
}

// The end-to-end toggle scenario: two users like, one unlikes, and
// counter and edge set agree at every step.
func TestLikeUnlikeScenario(t *testing.T) {
	db := testDB(t)
	ls := NewLikeService(db)
	author := seedUser(t, db, "author")
	u1 := seedUser(t, db, "u1")
	u2 := seedUser(t, db, "u2")
	post := seedPost(t, db, author.ID, "carbonara", time.Now())

	total, err := ls.LikePost(post.ID, u1.ID)
	if err != nil || total != 1 {
		t.Fatalf("first like: got (%d, %v), want (1, nil)", total, err)
	}
	total, err = ls.LikePost(post.ID, u2.ID)
	if err != nil || total != 2 {
		t.Fatalf("second like: got (%d, %v), want (2, nil)", total, err)
	}
	total, err = ls.UnlikePost(post.ID, u1.ID)
	if err != nil || total != 1 {
		t.Fatalf("unlike: got (%d, %v), want (1, nil)", total, err)
	}

	if liked, _ := ls.PostIsLiked(post.ID, u1.ID); liked {
		t.Error("u1 still reads as liking the post after unlike")
	}
	if liked, _ := ls.PostIsLiked(post.ID, u2.ID); !liked {
		t.Error("u2 no longer reads as liking the post")
	}
	if counter, edges := postCounter(t, db, post.ID), countEdges(t, db, domain.OwnerTypePost, post.ID); counter != edges {
		t.Errorf("counter %d does not match edge count %d", counter, edges)
	}
}

func TestLikeComment(t *testing.T) {
	db := testDB(t)
	ls := NewLikeService(db)
	cs := NewCommentService(db)
	author := seedUser(t, db, "author")
	liker := seedUser(t, db, "liker")
	post := seedPost(t, db, author.ID, "carbonara", time.Now())
	comment, err := cs.Create(post.ID, author.ID, "try more pepper")
	if err != nil {
		t.Fatalf("creating comment: %v", err)
	}

	total, err := ls.LikeComment(comment.ID, liker.ID)
	if err != nil || total != 1 {
		t.Fatalf("liking comment: got (%d, %v), want (1, nil)", total, err)
	}
	liked, err := ls.CommentIsLiked(comment.ID, liker.ID)
	if err != nil || !liked {
		t.Fatalf("CommentIsLiked: got (%v, %v), want (true, nil)", liked, err)
	}

	total, err = ls.UnlikeComment(comment.ID, liker.ID)
	if err != nil || total != 0 {
		t.Fatalf("unliking comment: got (%d, %v), want (0, nil)", total, err)
	}
}

// Likes arriving from distinct users at the same time must all
// succeed and leave the counter equal to the number of likers.
func TestConcurrentDistinctLikers(t *testing.T) {
	db := testDB(t)
	ls := NewLikeService(db)
	author := seedUser(t, db, "author")
	post := seedPost(t, db, author.ID, "carbonara", time.Now())

	const likers = 8
	userIDs := make([]int, likers)
	for i := 0; i < likers; i++ {
		userIDs[i] = seedUser(t, db, fmt.Sprintf("liker%d", i)).ID
	}

	errc := make(chan error, likers)
	var wg sync.WaitGroup
	for _, id := range userIDs {
		wg.Add(1)
		go func(userID int) {
			defer wg.Done()
			_, err := ls.LikePost(post.ID, userID)
			errc <- err
		}(id)
	}
	wg.Wait()
	close(errc)

	for err := range errc {
		if err != nil {
			t.Errorf("concurrent like failed: %v", err)
		}
	}
	counter := postCounter(t, db, post.ID)
	edges := countEdges(t, db, domain.OwnerTypePost, post.ID)
	if counter != likers || edges != likers {
		t.Errorf("after %d concurrent likes: counter=%d edges=%d", likers, counter, edges)
	}
}

// A user liking their own post is allowed, only duplicate edges are not.
func TestSelfLikeAllowed(t *testing.T) {
	db := testDB(t)
	ls := NewLikeService(db)
	author := seedUser(t, db, "author")
	post := seedPost(t, db, author.ID, "carbonara", time.Now())

	total, err := ls.LikePost(post.ID, author.ID)
	if err != nil || total != 1 {
		t.Fatalf("self-like: got (%d, %v), want (1, nil)", total, err)
	}
}

func TestLikersByPostID(t *testing.T) {
	db := testDB(t)
	ls := NewLikeService(db)
	author := seedUser(t, db, "author")
	post := seedPost(t, db, author.ID, "carbonara", time.Now())

	var likers []*domain.User
	for i := 0; i < 12; i++ {
		u := seedUser(t, db, "liker"+string(rune('a'+i)))
		likers = append(likers, u)
		if _, err := ls.LikePost(post.ID, u.ID); err != nil {
			t.Fatalf("liking post as %s: %v", u.Username, err)
		}
	}

	page1, err := ls.LikersByPostID(post.ID, 1)
	if err != nil {
		t.Fatalf("listing likers: %v", err)
	}
	if len(page1.Likers) != 10 || !page1.HasNextPage {
		t.Fatalf("page 1: got %d likers, hasNextPage=%v, want 10, true", len(page1.Likers), page1.HasNextPage)
	}
	if page1.Likers[0].ID != likers[0].ID {
		t.Errorf("likers not in like-creation order: got first %d, want %d", page1.Likers[0].ID, likers[0].ID)
	}

	page2, err := ls.LikersByPostID(post.ID, 2)
	if err != nil {
		t.Fatalf("listing likers page 2: %v", err)
	}
	if len(page2.Likers) != 2 || page2.HasNextPage {
		t.Errorf("page 2: got %d likers, hasNextPage=%v, want 2, false", len(page2.Likers), page2.HasNextPage)
	}
}
