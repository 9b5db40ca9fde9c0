// Package comments implements comments on tweets: creation by the
// authenticated user and owner-checked deletion.
package comments

// Comment represents a row in the comments table. The wire names follow the
// API convention: commentBy is the author, tweet is the commented tweet's id.
type Comment struct {
	ID        int64  `json:"id"`
	CommentBy int64  `json:"commentBy"`
	TweetID   int64  `json:"tweet"`
	Comment   string `json:"comment"`
}

// CreateCommentRequest is the payload for POST /comments. The author is the
// session user; a commentBy field in the body is ignored.
type CreateCommentRequest struct {
	TweetID int64  `json:"tweet" validate:"required" example:"2"`
	Comment string `json:"comment" validate:"required" example:"This is a comment on tweet2"`
}
