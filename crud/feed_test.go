package crud

import (
	"math"
	"testing"
	"time"

	"recipebook/domain"
	"recipebook/errs"
)

func TestScoreFreshPost(t *testing.T) {
	now := time.Now()
	post := &domain.Post{TotalLike: 4, TotalComment: 0, TotalView: 0, CreatedAt: now}

	got := Score(post, now, false, false)
	if math.IsNaN(got) || math.IsInf(got, 0) {
		t.Fatalf("score of a zero-age post: got %v", got)
	}
	// hoursAway == 0, so the denominator is exactly 1.
	if want := 2.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("score: got %v, want %v", got, want)
	}
}

func TestScoreClockSkew(t *testing.T) {
	now := time.Now()
	post := &domain.Post{TotalLike: 1, CreatedAt: now.Add(10 * time.Hour)}

	got := Score(post, now, false, false)
	if math.IsNaN(got) || got <= 0 {
		t.Errorf("score of a future-dated post: got %v", got)
	}
}

func TestScoreLikeMonotonicity(t *testing.T) {
	now := time.Now()
	createdAt := now.Add(-3 * time.Hour)
	for likes := 0; likes < 50; likes++ {
		lower := &domain.Post{TotalLike: likes, TotalComment: 2, TotalView: 9, CreatedAt: createdAt}
		higher := &domain.Post{TotalLike: likes + 1, TotalComment: 2, TotalView: 9, CreatedAt: createdAt}
		if Score(lower, now, false, false) > Score(higher, now, false, false) {
			t.Fatalf("score decreased when likes grew from %d to %d", likes, likes+1)
		}
	}
}

func TestScoreDecaysWithAge(t *testing.T) {
	now := time.Now()
	young := &domain.Post{TotalLike: 10, CreatedAt: now.Add(-1 * time.Hour)}
	old := &domain.Post{TotalLike: 10, CreatedAt: now.Add(-48 * time.Hour)}

	if Score(young, now, false, false) <= Score(old, now, false, false) {
		t.Error("older post scored at least as high as identical younger post")
	}
}

func TestScoreFollowBoost(t *testing.T) {
	now := time.Now()
	post := &domain.Post{TotalLike: 5, TotalComment: 1, TotalView: 16, CreatedAt: now.Add(-2 * time.Hour)}

	if Score(post, now, true, false) <= Score(post, now, false, false) {
		t.Error("following the author did not raise the score")
	}
}

func TestScoreReadPenalty(t *testing.T) {
	now := time.Now()
	post := &domain.Post{TotalLike: 5, TotalComment: 1, TotalView: 16, CreatedAt: now.Add(-2 * time.Hour)}

	if Score(post, now, false, true) >= Score(post, now, false, false) {
		t.Error("an already-read post did not score lower")
	}
}

func TestNewsfeedOrdering(t *testing.T) {
	db := testDB(t)
	fs := NewFeedService(db, NewFollowService(db))
	author := seedUser(t, db, "author")
	viewer := seedUser(t, db, "viewer")

	old := time.Now().Add(-72 * time.Hour)
	stale := seedPost(t, db, author.ID, "stale", old)
	popular := seedPost(t, db, author.ID, "popular", time.Now().Add(-1*time.Hour))
	db.Model(popular).UpdateColumn("total_like", 30)

	entries, err := fs.Newsfeed(viewer.ID, 10)
	if err != nil {
		t.Fatalf("ranking feed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("feed size: got %d, want 2", len(entries))
	}
	if entries[0].Post.ID != popular.ID {
		t.Errorf("top of feed: got post %d, want the popular one %d", entries[0].Post.ID, popular.ID)
	}
	if entries[1].Post.ID != stale.ID {
		t.Errorf("bottom of feed: got post %d, want the stale one %d", entries[1].Post.ID, stale.ID)
	}
}

// Two calls over unchanged data return the same order, and equal
// scores keep insertion order.
func TestNewsfeedDeterminism(t *testing.T) {
	db := testDB(t)
	fs := NewFeedService(db, NewFollowService(db))
	author := seedUser(t, db, "author")
	viewer := seedUser(t, db, "viewer")

	createdAt := time.Now().Add(-5 * time.Hour)
	var ids []int
	for _, title := range []string{"a", "b", "c", "d"} {
		post := seedPost(t, db, author.ID, title, createdAt)
		ids = append(ids, post.ID)
	}

	first, err := fs.Newsfeed(viewer.ID, 10)
	if err != nil {
		t.Fatalf("ranking feed: %v", err)
	}
	second, err := fs.Newsfeed(viewer.ID, 10)
	if err != nil {
		t.Fatalf("ranking feed again: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("feed sizes differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Post.ID != second[i].Post.ID {
			t.Fatalf("order changed between identical calls at position %d", i)
		}
	}
	// All four posts tie, insertion order must survive the sort.
	for i, id := range ids {
		if first[i].Post.ID != id {
			t.Errorf("tie-break: position %d got post %d, want %d", i, first[i].Post.ID, id)
		}
	}
}

func TestNewsfeedFollowRaisesRank(t *testing.T) {
	db := testDB(t)
	follows := NewFollowService(db)
	fs := NewFeedService(db, follows)
	friend := seedUser(t, db, "friend")
	stranger := seedUser(t, db, "stranger")
	viewer := seedUser(t, db, "viewer")

	createdAt := time.Now().Add(-2 * time.Hour)
	strangerPost := seedPost(t, db, stranger.ID, "stranger dish", createdAt)
	friendPost := seedPost(t, db, friend.ID, "friend dish", createdAt)
	_ = strangerPost

	err := follows.Create(&domain.Follow{FollowerID: viewer.ID, FollowedID: friend.ID})
	if err != nil {
		t.Fatalf("creating follow: %v", err)
	}

	entries, err := fs.Newsfeed(viewer.ID, 10)
	if err != nil {
		t.Fatalf("ranking feed: %v", err)
	}
	if entries[0].Post.ID != friendPost.ID {
		t.Errorf("followed author's post not on top: got post %d", entries[0].Post.ID)
	}
}

func TestNewsfeedLimit(t *testing.T) {
	db := testDB(t)
	fs := NewFeedService(db, NewFollowService(db))
	author := seedUser(t, db, "author")
	viewer := seedUser(t, db, "viewer")
	for i := 0; i < 5; i++ {
		seedPost(t, db, author.ID, "dish", time.Now())
	}

	entries, err := fs.Newsfeed(viewer.ID, 3)
	if err != nil {
		t.Fatalf("ranking feed: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("limited feed size: got %d, want 3", len(entries))
	}

	if _, err := fs.Newsfeed(viewer.ID, 0); errs.ErrorCode(err) != errs.EINVALID {
		t.Errorf("limit 0: got %v, want invalid", err)
	}
}
