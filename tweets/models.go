// Package tweets implements the tweet entity: creation, listing, lookup with
// comments, caption updates, deletion and the most-commented ranking.
package tweets

// Tweet represents a row in the tweets table.
type Tweet struct {
	ID       int64    `json:"id"`
	UserID   int64    `json:"userId"`
	PhotoURL string   `json:"photoUrl"`
	Caption  string   `json:"caption"`
	Tags     []string `json:"tags"`
}

// TweetComment is a comment as it appears nested under its tweet.
type TweetComment struct {
	ID        int64  `json:"id"`
	CommentBy int64  `json:"commentBy"`
	Comment   string `json:"comment"`
}

// TweetWithComments is the response shape of GET /tweets/{id}: the tweet's
// own fields once, with its comments nested rather than joined row-per-comment.
type TweetWithComments struct {
	Tweet
	Comments []TweetComment `json:"comments"`
}

// CreateTweetRequest is the payload for POST /tweets. The owner comes from
// the session, never from the body.
type CreateTweetRequest struct {
	PhotoURL string   `json:"photoUrl" example:"https://example.com/pic.png"`
	Caption  string   `json:"caption" example:"a day at the beach"`
	Tags     []string `json:"tags" example:"beach,summer"`
}

// PatchTweetRequest is the payload for PATCH /tweets/{id}. Only the caption
// is mutable.
type PatchTweetRequest struct {
	Caption string `json:"caption" validate:"required" example:"an updated caption"`
}
