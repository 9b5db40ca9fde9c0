//go:build integration

package tweets_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/user/chirper-go/apperror"
	"github.com/user/chirper-go/testutil/containers"
	"github.com/user/chirper-go/tweets"
)

type TweetServiceSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	service  *tweets.TweetService
}

func TestTweetServiceSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(TweetServiceSuite))
}

func (s *TweetServiceSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.service = tweets.NewTweetService(s.postgres.Pool)
}

func (s *TweetServiceSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "comments", "tweets", "users")
	s.Require().NoError(err)
}

func (s *TweetServiceSuite) createUser(email string) int64 {
	var id int64
	err := s.postgres.Pool.QueryRow(context.Background(),
		"INSERT INTO users (email, password_hash) VALUES ($1, 'x') RETURNING id", email).Scan(&id)
	s.Require().NoError(err)
	return id
}

func (s *TweetServiceSuite) createComment(userID, tweetID int64, text string) {
	_, err := s.postgres.Pool.Exec(context.Background(),
		"INSERT INTO comments (comment_by, tweet, comment) VALUES ($1, $2, $3)", userID, tweetID, text)
	s.Require().NoError(err)
}

func (s *TweetServiceSuite) TestInsertUnknownUserIsBadRequest() {
	_, err := s.service.Insert(context.Background(), 999, tweets.CreateTweetRequest{Caption: "orphan"})
	s.Require().Error(err)

	appErr, ok := apperror.FromError(err)
	s.Require().True(ok)
	s.Equal(apperror.BadRequestError, appErr.Type)
}

func (s *TweetServiceSuite) TestFindByIDNestsCommentsInOrder() {
	ctx := context.Background()
	userID := s.createUser("bill")

	tweet, err := s.service.Insert(ctx, userID, tweets.CreateTweetRequest{Caption: "tweet1 caption"})
	s.Require().NoError(err)
	s.createComment(userID, tweet.ID, "first")
	s.createComment(userID, tweet.ID, "second")

	got, err := s.service.FindByID(ctx, tweet.ID)
	s.Require().NoError(err)
	s.Equal("tweet1 caption", got.Caption)
	s.Require().Len(got.Comments, 2)
	s.Equal("first", got.Comments[0].Comment)
	s.Equal("second", got.Comments[1].Comment)
}

func (s *TweetServiceSuite) TestPatchUpdatesCaptionOnly() {
	ctx := context.Background()
	userID := s.createUser("bill")

	tweet, err := s.service.Insert(ctx, userID, tweets.CreateTweetRequest{
		PhotoURL: "tweet1 url",
		Caption:  "tweet1 caption",
		Tags:     []string{"tag1"},
	})
	s.Require().NoError(err)

	patched, err := s.service.Patch(ctx, tweet.ID, userID, "This is my new PATCHed caption")
	s.Require().NoError(err)
	s.Equal("This is my new PATCHed caption", patched.Caption)
	s.Equal("tweet1 url", patched.PhotoURL)
	s.Equal([]string{"tag1"}, patched.Tags)
	s.Equal(userID, patched.UserID)
}

func (s *TweetServiceSuite) TestPatchByNonOwnerIsRejected() {
	ctx := context.Background()
	owner := s.createUser("bill")
	other := s.createUser("jimmy")

	tweet, err := s.service.Insert(ctx, owner, tweets.CreateTweetRequest{Caption: "mine"})
	s.Require().NoError(err)

	_, err = s.service.Patch(ctx, tweet.ID, other, "hijack")
	s.Require().Error(err)
	s.True(apperror.IsUnauthorizedError(err))

	// The row is untouched.
	got, err := s.service.FindByID(ctx, tweet.ID)
	s.Require().NoError(err)
	s.Equal("mine", got.Caption)
}

func (s *TweetServiceSuite) TestRemoveReturnsRowAndCascades() {
	ctx := context.Background()
	userID := s.createUser("bill")

	tweet, err := s.service.Insert(ctx, userID, tweets.CreateTweetRequest{Caption: "delete this"})
	s.Require().NoError(err)
	s.createComment(userID, tweet.ID, "doomed comment")

	removed, err := s.service.Remove(ctx, tweet.ID, userID)
	s.Require().NoError(err)
	s.Equal("delete this", removed.Caption)

	var commentCount int
	err = s.postgres.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM comments WHERE tweet = $1", tweet.ID).Scan(&commentCount)
	s.Require().NoError(err)
	s.Zero(commentCount)

	_, err = s.service.Remove(ctx, tweet.ID, userID)
	s.Require().Error(err)
	s.True(apperror.IsNotFound(err))
}

// TestMostCommentedRanksByCommentCount: comment count descending, ties broken
// by insertion order, capped at limit.
func (s *TweetServiceSuite) TestMostCommentedRanksByCommentCount() {
	ctx := context.Background()
	userID := s.createUser("bill")

	var ids []int64
	for _, caption := range []string{"tweet1", "tweet2", "tweet3", "tweet4"} {
		tweet, err := s.service.Insert(ctx, userID, tweets.CreateTweetRequest{Caption: caption})
		s.Require().NoError(err)
		ids = append(ids, tweet.ID)
	}

	s.createComment(userID, ids[0], "on tweet1")
	s.createComment(userID, ids[1], "on tweet2")
	s.createComment(userID, ids[1], "another on tweet2")

	ranked, err := s.service.MostCommented(ctx, tweets.DefaultPopularLimit)
	s.Require().NoError(err)
	s.Require().Len(ranked, 4)
	s.Equal("tweet2", ranked[0].Caption)
	s.Equal("tweet1", ranked[1].Caption)
	// tweet3 and tweet4 both have zero comments; insertion order decides.
	s.Equal("tweet3", ranked[2].Caption)
	s.Equal("tweet4", ranked[3].Caption)

	top, err := s.service.MostCommented(ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(top, 2)
	s.Equal("tweet2", top[0].Caption)
	s.Equal("tweet1", top[1].Caption)
}
