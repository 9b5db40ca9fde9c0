// Package users serves the authenticated user's profile. Profile fields are
// re-read from storage on every request instead of being trusted from the
// session token, so a profile update is visible immediately.
package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/chirper-go/apperror"
	"github.com/user/chirper-go/auth"
)

// UserService reads user profiles.
type UserService struct {
	dbPool *pgxpool.Pool
}

// NewUserService creates a new UserService.
func NewUserService(dbPool *pgxpool.Pool) *UserService {
	return &UserService{dbPool: dbPool}
}

// GetProfile returns the public fields of the user with the given id.
func (s *UserService) GetProfile(ctx context.Context, userID int64) (*auth.User, error) {
	var user auth.User
	query := `SELECT id, email, profile_photo FROM users WHERE id = $1`
	err := s.dbPool.QueryRow(ctx, query, userID).Scan(&user.ID, &user.Email, &user.ProfilePhoto)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("user %d not found", userID), nil)
		}
		return nil, apperror.NewDatabaseError("failed to get user profile", err)
	}
	return &user, nil
}
