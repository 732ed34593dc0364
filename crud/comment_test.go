package crud

import (
	"fmt"
	"testing"
	"time"

	"recipebook/domain"
	"recipebook/errs"
)

func TestCreateComment(t *testing.T) {
	db := testDB(t)
	cs := NewCommentService(db)
	author := seedUser(t, db, "author")
	commenter := seedUser(t, db, "commenter")
	post := seedPost(t, db, author.ID, "carbonara", time.Now())

	comment, err := cs.Create(post.ID, commenter.ID, "looks delicious")
	if err != nil {
		t.Fatalf("creating comment: %v", err)
	}
	if comment.PostID != post.ID || comment.UserID != commenter.ID {
		t.Errorf("comment references: got post %d user %d", comment.PostID, comment.UserID)
	}
	if comment.User.Username != "commenter" {
		t.Errorf("comment author not loaded: got %q", comment.User.Username)
	}

	var reloaded domain.Post
	db.First(&reloaded, "id = ?", post.ID)
	if reloaded.TotalComment != 1 {
		t.Errorf("post comment counter: got %d, want 1", reloaded.TotalComment)
	}
}

func TestCreateCommentMissingPost(t *testing.T) {
	db := testDB(t)
	cs := NewCommentService(db)
	commenter := seedUser(t, db, "commenter")

	_, err := cs.Create(42, commenter.ID, "into the void")
	if errs.ErrorCode(err) != errs.ENOTFOUND {
		t.Errorf("commenting on missing post: got %v, want not found", err)
	}
}

func TestUpdateCommentOwnership(t *testing.T) {
	db := testDB(t)
	cs := NewCommentService(db)
	author := seedUser(t, db, "author")
	commenter := seedUser(t, db, "commenter")
	intruder := seedUser(t, db, "intruder")
	post := seedPost(t, db, author.ID, "carbonara", time.Now())

	comment, err := cs.Create(post.ID, commenter.ID, "looks delicious")
	if err != nil {
		t.Fatalf("creating comment: %v", err)
	}

	_, err = cs.Update(comment.ID, intruder.ID, "hijacked")
	if errs.ErrorCode(err) != errs.EUNAUTHORIZED {
		t.Errorf("editing someone else's comment: got %v, want unauthorized", err)
	}

	updated, err := cs.Update(comment.ID, commenter.ID, "looks REALLY delicious")
	if err != nil {
		t.Fatalf("editing own comment: %v", err)
	}
	if updated.Content != "looks REALLY delicious" {
		t.Errorf("content after edit: got %q", updated.Content)
	}
	if !updated.CreatedAt.Equal(comment.CreatedAt) {
		t.Errorf("createdAt changed by edit: %v != %v", updated.CreatedAt, comment.CreatedAt)
	}
}

// Deleting a comment removes its like edges and takes one off the
// post's comment counter.
func TestDeleteComment(t *testing.T) {
	db := testDB(t)
	cs := NewCommentService(db)
	ls := NewLikeService(db)
	author := seedUser(t, db, "author")
	commenter := seedUser(t, db, "commenter")
	liker := seedUser(t, db, "liker")
	post := seedPost(t, db, author.ID, "carbonara", time.Now())

	comment, err := cs.Create(post.ID, commenter.ID, "looks delicious")
	if err != nil {
		t.Fatalf("creating comment: %v", err)
	}
	if _, err := ls.LikeComment(comment.ID, liker.ID); err != nil {
		t.Fatalf("liking comment: %v", err)
	}

	if err := cs.Delete(comment.ID, author.ID); errs.ErrorCode(err) != errs.EUNAUTHORIZED {
		t.Errorf("deleting someone else's comment: got %v, want unauthorized", err)
	}
	if err := cs.Delete(comment.ID, commenter.ID); err != nil {
		t.Fatalf("deleting own comment: %v", err)
	}

	var reloaded domain.Post
	db.First(&reloaded, "id = ?", post.ID)
	if reloaded.TotalComment != 0 {
		t.Errorf("post comment counter after delete: got %d, want 0", reloaded.TotalComment)
	}
	if got := countEdges(t, db, domain.OwnerTypeComment, comment.ID); got != 0 {
		t.Errorf("like edges left behind after delete: %d", got)
	}
	if err := cs.Delete(comment.ID, commenter.ID); errs.ErrorCode(err) != errs.ENOTFOUND {
		t.Errorf("deleting twice: got %v, want not found", err)
	}
}

// 25 comments, page 3 of 10 holds the last 5 and reports no next page.
func TestListCommentsPagination(t *testing.T) {
	db := testDB(t)
	cs := NewCommentService(db)
	author := seedUser(t, db, "author")
	commenter := seedUser(t, db, "commenter")
	post := seedPost(t, db, author.ID, "carbonara", time.Now())

	for i := 1; i <= 25; i++ {
		if _, err := cs.Create(post.ID, commenter.ID, fmt.Sprintf("comment %d", i)); err != nil {
			t.Fatalf("creating comment %d: %v", i, err)
		}
	}

	page3, err := cs.ByPostID(post.ID, commenter.ID, 3)
	if err != nil {
		t.Fatalf("listing page 3: %v", err)
	}
	if len(page3.Comments) != 5 {
		t.Errorf("page 3 size: got %d, want 5", len(page3.Comments))
	}
	if page3.HasNextPage {
		t.Error("page 3 claims a next page")
	}
	if page3.Comments[0].Content != "comment 21" {
		t.Errorf("page 3 first comment: got %q, want %q", page3.Comments[0].Content, "comment 21")
	}

	// Concatenating all pages reconstructs the full list exactly once.
	var all []string
	for page := 1; ; page++ {
		window, err := cs.ByPostID(post.ID, commenter.ID, page)
		if err != nil {
			t.Fatalf("listing page %d: %v", page, err)
		}
		for _, c := range window.Comments {
			all = append(all, c.Content)
		}
		if !window.HasNextPage {
			break
		}
	}
	if len(all) != 25 {
		t.Fatalf("concatenated pages: got %d comments, want 25", len(all))
	}
	for i, content := range all {
		if want := fmt.Sprintf("comment %d", i+1); content != want {
			t.Errorf("comment %d: got %q, want %q", i, content, want)
		}
	}
}

func TestListCommentsIsLikedAnnotation(t *testing.T) {
	db := testDB(t)
	cs := NewCommentService(db)
	ls := NewLikeService(db)
	author := seedUser(t, db, "author")
	viewer := seedUser(t, db, "viewer")
	post := seedPost(t, db, author.ID, "carbonara", time.Now())

	first, err := cs.Create(post.ID, author.ID, "first")
	if err != nil {
		t.Fatalf("creating comment: %v", err)
	}
	if _, err := cs.Create(post.ID, author.ID, "second"); err != nil {
		t.Fatalf("creating comment: %v", err)
	}
	if _, err := ls.LikeComment(first.ID, viewer.ID); err != nil {
		t.Fatalf("liking comment: %v", err)
	}

	page, err := cs.ByPostID(post.ID, viewer.ID, 1)
	if err != nil {
		t.Fatalf("listing comments: %v", err)
	}
	if !page.Comments[0].IsLiked {
		t.Error("liked comment not annotated as liked")
	}
	if page.Comments[1].IsLiked {
		t.Error("unliked comment annotated as liked")
	}
}

func TestListCommentsMissingPost(t *testing.T) {
	db := testDB(t)
	cs := NewCommentService(db)
	viewer := seedUser(t, db, "viewer")

	_, err := cs.ByPostID(42, viewer.ID, 1)
	if errs.ErrorCode(err) != errs.ENOTFOUND {
		t.Errorf("listing comments of missing post: got %v, want not found", err)
	}
}
