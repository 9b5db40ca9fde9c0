package auth

// User represents a row in the users table. PasswordHash never leaves the
// server: the json tag excludes it from every response.
type User struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	ProfilePhoto string `json:"profilePhoto"`
	PasswordHash string `json:"-"`
}
