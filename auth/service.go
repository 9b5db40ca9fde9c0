package auth

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/user/chirper-go/apperror"
	"github.com/user/chirper-go/config"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pgUniqueViolation = "23505"

// AuthService creates users and verifies credentials. It works directly on the
// injected pool; every operation is a single statement.
type AuthService struct {
	dbPool     *pgxpool.Pool
	authConfig config.AuthConfig
}

// NewAuthService creates a new AuthService.
func NewAuthService(dbPool *pgxpool.Pool, authConfig config.AuthConfig) *AuthService {
	return &AuthService{
		dbPool:     dbPool,
		authConfig: authConfig,
	}
}

// Signup hashes the password, persists a new user and returns the user
// together with a signed session token. A duplicate email surfaces as a
// ConflictError via the storage layer's unique constraint.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*User, string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	// The email is stored exactly as submitted; responses echo the caller's
	// casing. Uniqueness and lookup are case-insensitive at the SQL level.
	user := &User{
		Email:        req.Email,
		ProfilePhoto: req.ProfilePhoto,
		PasswordHash: string(hashedPassword),
	}

	if err := s.createUser(ctx, user); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, "", apperror.NewConflictError("email already exists", nil)
		}
		return nil, "", apperror.NewDatabaseError("failed to create user", err)
	}

	token, err := IssueSessionToken(s.authConfig.Secret, s.authConfig.SessionTTL, user)
	if err != nil {
		return nil, "", apperror.NewInternalError("failed to issue session token", err)
	}
	return user, token, nil
}

// Login verifies the email/password pair and returns the user and a fresh
// session token. An unknown email and a wrong password produce the identical
// error so a caller cannot probe which check failed.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*User, string, error) {
	user, err := s.getUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", apperror.NewAuthError("invalid credentials", nil)
		}
		log.Printf("database error during login lookup: %v", err)
		return nil, "", apperror.NewDatabaseError("failed to get user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", apperror.NewAuthError("invalid credentials", nil)
	}

	token, err := IssueSessionToken(s.authConfig.Secret, s.authConfig.SessionTTL, user)
	if err != nil {
		return nil, "", apperror.NewInternalError("failed to issue session token", err)
	}
	return user, token, nil
}

func (s *AuthService) createUser(ctx context.Context, user *User) error {
	query := `INSERT INTO users (email, profile_photo, password_hash)
	          VALUES ($1, $2, $3)
	          RETURNING id`
	return s.dbPool.QueryRow(ctx, query, user.Email, user.ProfilePhoto, user.PasswordHash).Scan(&user.ID)
}

func (s *AuthService) getUserByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	query := `SELECT id, email, profile_photo, password_hash FROM users WHERE lower(email) = lower($1)`
	err := s.dbPool.QueryRow(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.ProfilePhoto, &user.PasswordHash,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
