package comments

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

// CommentService wraps the comments table.
type CommentService struct {
	dbPool *pgxpool.Pool
}

// NewCommentService creates a new CommentService.
func NewCommentService(dbPool *pgxpool.Pool) *CommentService {
	return &CommentService{dbPool: dbPool}
}

const commentColumns = "id, comment_by, tweet, comment"

// Insert persists a comment by userID on the given tweet and returns the
// stored row. A reference to a missing tweet surfaces the storage layer's
// FK violation as a 400.
func (s *CommentService) Insert(ctx context.Context, userID int64, req CreateCommentRequest) (*Comment, error) {
	var c Comment
	query := `INSERT INTO comments (comment_by, tweet, comment)
	          VALUES ($1, $2, $3)
	          RETURNING ` + commentColumns
	err := s.dbPool.QueryRow(ctx, query, userID, req.TweetID, req.Comment).Scan(
		&c.ID, &c.CommentBy, &c.TweetID, &c.Comment,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return nil, apperror.NewBadRequestError("referenced tweet does not exist", nil)
		}
		return nil, apperror.NewDatabaseError("failed to insert comment", err)
	}
	return &c, nil
}

// Remove deletes the comment and returns the removed row. Only the author
// may delete; a missing row is a 404, somebody else's a 403.
func (s *CommentService) Remove(ctx context.Context, id, userID int64) (*Comment, error) {
	var author int64
	err := s.dbPool.QueryRow(ctx, `SELECT comment_by FROM comments WHERE id = $1`, id).Scan(&author)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("comment %d not found", id), nil)
		}
		return nil, apperror.NewDatabaseError("failed to get comment author", err)
	}
	if author != userID {
		return nil, apperror.NewUnauthorizedError("comment belongs to another user", nil)
	}

	var c Comment
	query := `DELETE FROM comments WHERE id = $1 RETURNING ` + commentColumns
	err = s.dbPool.QueryRow(ctx, query, id).Scan(&c.ID, &c.CommentBy, &c.TweetID, &c.Comment)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("comment %d not found", id), nil)
		}
		return nil, apperror.NewDatabaseError("failed to delete comment", err)
	}
	return &c, nil
}
