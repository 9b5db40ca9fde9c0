package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the payload of a session token. Only the user's id and
// email are embedded; mutable profile fields are re-read from storage per
// request so a stale token can never serve outdated data.
type SessionClaims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

const tokenIssuer = "chirper"

// IssueSessionToken signs an HS256 session token for the given user,
// valid for ttl from now.
func IssueSessionToken(secret string, ttl time.Duration, user *User) (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatInt(user.ID, 10),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return tokenString, nil
}

// ParseSessionToken verifies the signature and expiry of a session token and
// returns its claims. Any failure, including expiry, yields an error.
func ParseSessionToken(secret, tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("token is invalid")
	}
	if claims.UserID == 0 {
		return nil, errors.New("user_id claim is missing")
	}
	return claims, nil
}
