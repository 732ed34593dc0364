package domain

// FeedEntry pairs a post summary with the relevance score it was
// ranked by. Entries are computed per request and never persisted.
type FeedEntry struct {
	Post  PostSummary `json:"post"`
	Score float64     `json:"score"`
}

// FeedService produces the newsfeed: every post scored against the
// current time and the viewer, ordered by score.
type FeedService interface {
	Newsfeed(viewerID, limit int) ([]FeedEntry, error)
}
