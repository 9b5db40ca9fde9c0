package tweets

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/chirper-go/apperror"
)

// pgForeignKeyViolation is the PostgreSQL error code for FK violations.
const pgForeignKeyViolation = "23503"

// DefaultPopularLimit bounds GET /tweets/popular when no limit is given.
const DefaultPopularLimit = 10

// TweetService wraps the tweets table. Every operation is a single statement
// against the injected pool, except the mutations, which first resolve the
// row's owner for the authorization check.
type TweetService struct {
	dbPool *pgxpool.Pool
}

// NewTweetService creates a new TweetService.
func NewTweetService(dbPool *pgxpool.Pool) *TweetService {
	return &TweetService{dbPool: dbPool}
}

const tweetColumns = "id, user_id, photo_url, caption, tags"

func scanTweet(row pgx.Row) (*Tweet, error) {
	var t Tweet
	if err := row.Scan(&t.ID, &t.UserID, &t.PhotoURL, &t.Caption, &t.Tags); err != nil {
		return nil, err
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	return &t, nil
}

// Insert persists a new tweet owned by userID and returns the stored row.
func (s *TweetService) Insert(ctx context.Context, userID int64, req CreateTweetRequest) (*Tweet, error) {
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	query := `INSERT INTO tweets (user_id, photo_url, caption, tags)
	          VALUES ($1, $2, $3, $4)
	          RETURNING ` + tweetColumns
	tweet, err := scanTweet(s.dbPool.QueryRow(ctx, query, userID, req.PhotoURL, req.Caption, tags))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return nil, apperror.NewBadRequestError("user does not exist", nil)
		}
		return nil, apperror.NewDatabaseError("failed to insert tweet", err)
	}
	return tweet, nil
}

// FindTweets returns all tweets in insertion order.
func (s *TweetService) FindTweets(ctx context.Context) ([]Tweet, error) {
	query := `SELECT ` + tweetColumns + ` FROM tweets ORDER BY id`
	return s.queryTweets(ctx, query)
}

// FindByID returns the tweet with its comments nested, or a NotFoundError.
func (s *TweetService) FindByID(ctx context.Context, id int64) (*TweetWithComments, error) {
	query := `SELECT ` + tweetColumns + ` FROM tweets WHERE id = $1`
	tweet, err := scanTweet(s.dbPool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("tweet %d not found", id), nil)
		}
		return nil, apperror.NewDatabaseError("failed to get tweet", err)
	}

	rows, err := s.dbPool.Query(ctx,
		`SELECT id, comment_by, comment FROM comments WHERE tweet = $1 ORDER BY id`, id)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to get tweet comments", err)
	}
	defer rows.Close()

	comments := []TweetComment{}
	for rows.Next() {
		var c TweetComment
		if err := rows.Scan(&c.ID, &c.CommentBy, &c.Comment); err != nil {
			return nil, apperror.NewDatabaseError("failed to scan comment", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to read tweet comments", err)
	}

	return &TweetWithComments{Tweet: *tweet, Comments: comments}, nil
}

// Patch updates the caption of the tweet and returns the updated row.
// Only the owner may patch; anyone else gets an UnauthorizedError.
func (s *TweetService) Patch(ctx context.Context, id, userID int64, caption string) (*Tweet, error) {
	if err := s.checkOwner(ctx, id, userID); err != nil {
		return nil, err
	}
	query := `UPDATE tweets SET caption = $1 WHERE id = $2 RETURNING ` + tweetColumns
	tweet, err := scanTweet(s.dbPool.QueryRow(ctx, query, caption, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("tweet %d not found", id), nil)
		}
		return nil, apperror.NewDatabaseError("failed to update tweet", err)
	}
	return tweet, nil
}

// Remove deletes the tweet and returns the removed row. Only the owner may
// delete. Comments on the tweet are removed by the cascade.
func (s *TweetService) Remove(ctx context.Context, id, userID int64) (*Tweet, error) {
	if err := s.checkOwner(ctx, id, userID); err != nil {
		return nil, err
	}
	query := `DELETE FROM tweets WHERE id = $1 RETURNING ` + tweetColumns
	tweet, err := scanTweet(s.dbPool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("tweet %d not found", id), nil)
		}
		return nil, apperror.NewDatabaseError("failed to delete tweet", err)
	}
	return tweet, nil
}

// MostCommented returns up to limit tweets ordered by comment count
// descending, ties broken by insertion order.
func (s *TweetService) MostCommented(ctx context.Context, limit int) ([]Tweet, error) {
	if limit <= 0 {
		limit = DefaultPopularLimit
	}
	query := `SELECT t.id, t.user_id, t.photo_url, t.caption, t.tags
	          FROM tweets t
	          LEFT JOIN comments c ON c.tweet = t.id
	          GROUP BY t.id
	          ORDER BY COUNT(c.id) DESC, t.id ASC
	          LIMIT $1`
	return s.queryTweets(ctx, query, limit)
}

func (s *TweetService) queryTweets(ctx context.Context, query string, args ...interface{}) ([]Tweet, error) {
	rows, err := s.dbPool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to query tweets", err)
	}
	defer rows.Close()

	tweets := []Tweet{}
	for rows.Next() {
		tweet, err := scanTweet(rows)
		if err != nil {
			return nil, apperror.NewDatabaseError("failed to scan tweet", err)
		}
		tweets = append(tweets, *tweet)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to read tweets", err)
	}
	return tweets, nil
}

// checkOwner distinguishes a missing tweet (404) from somebody else's (403).
func (s *TweetService) checkOwner(ctx context.Context, id, userID int64) error {
	var owner int64
	err := s.dbPool.QueryRow(ctx, `SELECT user_id FROM tweets WHERE id = $1`, id).Scan(&owner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperror.NewNotFoundError(fmt.Sprintf("tweet %d not found", id), nil)
		}
		return apperror.NewDatabaseError("failed to get tweet owner", err)
	}
	if owner != userID {
		return apperror.NewUnauthorizedError("tweet belongs to another user", nil)
	}
	return nil
}
