//go:build integration

package comments_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/user/chirper-go/apperror"
	"github.com/user/chirper-go/comments"
	"github.com/user/chirper-go/testutil/containers"
)

type CommentServiceSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	service  *comments.CommentService
}

func TestCommentServiceSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(CommentServiceSuite))
}

func (s *CommentServiceSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.service = comments.NewCommentService(s.postgres.Pool)
}

func (s *CommentServiceSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "comments", "tweets", "users")
	s.Require().NoError(err)
}

func (s *CommentServiceSuite) createUser(email string) int64 {
	var id int64
	err := s.postgres.Pool.QueryRow(context.Background(),
		"INSERT INTO users (email, password_hash) VALUES ($1, 'x') RETURNING id", email).Scan(&id)
	s.Require().NoError(err)
	return id
}

func (s *CommentServiceSuite) createTweet(userID int64, caption string) int64 {
	var id int64
	err := s.postgres.Pool.QueryRow(context.Background(),
		"INSERT INTO tweets (user_id, caption) VALUES ($1, $2) RETURNING id", userID, caption).Scan(&id)
	s.Require().NoError(err)
	return id
}

func (s *CommentServiceSuite) TestInsertReturnsStoredRow() {
	ctx := context.Background()
	userID := s.createUser("bill")
	tweetID := s.createTweet(userID, "tweet2 caption")

	comment, err := s.service.Insert(ctx, userID, comments.CreateCommentRequest{
		TweetID: tweetID,
		Comment: "This is a comment on tweet2",
	})
	s.Require().NoError(err)
	s.NotZero(comment.ID)
	s.Equal(userID, comment.CommentBy)
	s.Equal(tweetID, comment.TweetID)
	s.Equal("This is a comment on tweet2", comment.Comment)
}

func (s *CommentServiceSuite) TestInsertOnMissingTweetIsBadRequest() {
	userID := s.createUser("bill")

	_, err := s.service.Insert(context.Background(), userID, comments.CreateCommentRequest{
		TweetID: 999,
		Comment: "into the void",
	})
	s.Require().Error(err)

	appErr, ok := apperror.FromError(err)
	s.Require().True(ok)
	s.Equal(apperror.BadRequestError, appErr.Type)
}

func (s *CommentServiceSuite) TestRemoveReturnsRemovedRow() {
	ctx := context.Background()
	userID := s.createUser("bill")
	tweetID := s.createTweet(userID, "tweet2 caption")

	comment, err := s.service.Insert(ctx, userID, comments.CreateCommentRequest{
		TweetID: tweetID,
		Comment: "short-lived",
	})
	s.Require().NoError(err)

	removed, err := s.service.Remove(ctx, comment.ID, userID)
	s.Require().NoError(err)
	s.Equal(comment.ID, removed.ID)
	s.Equal("short-lived", removed.Comment)

	_, err = s.service.Remove(ctx, comment.ID, userID)
	s.Require().Error(err)
	s.True(apperror.IsNotFound(err))
}

func (s *CommentServiceSuite) TestRemoveByNonAuthorIsRejected() {
	ctx := context.Background()
	author := s.createUser("bill")
	other := s.createUser("jimmy")
	tweetID := s.createTweet(author, "tweet2 caption")

	comment, err := s.service.Insert(ctx, author, comments.CreateCommentRequest{
		TweetID: tweetID,
		Comment: "hands off",
	})
	s.Require().NoError(err)

	_, err = s.service.Remove(ctx, comment.ID, other)
	s.Require().Error(err)
	s.True(apperror.IsUnauthorizedError(err))

	// The comment survives.
	var count int
	err = s.postgres.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM comments WHERE id = $1", comment.ID).Scan(&count)
	s.Require().NoError(err)
	s.Equal(1, count)
}
