package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"fintrack/internal/auth"
	"fintrack/internal/store"
)

const (
	maxUsernameLen = 50
	minPasswordLen = 4
)

var (
	ErrInvalidUsername = errors.New("username must be 1-50 characters")
	ErrWeakPassword    = errors.New("password must be at least 4 characters")
)

// AccountService handles registration and credential checks.
type AccountService struct {
	users store.UserStore
}

func NewAccountService(users store.UserStore) *AccountService {
	return &AccountService{users: users}
}

// Register creates a new user with a bcrypt password hash.
func (s *AccountService) Register(ctx context.Context, username, password string) (store.User, error) {
	if username == "" || utf8.RuneCountInString(username) > maxUsernameLen {
		return store.User{}, ErrInvalidUsername
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return store.User{}, ErrWeakPassword
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return store.User{}, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.users.CreateUser(ctx, username, hash)
	if err != nil {
		return store.User{}, err
	}

	slog.InfoContext(ctx, "User registered", "user_id", u.ID, "username", username)
	return u, nil
}

// Login verifies credentials and returns the user. Unknown users and wrong
// passwords are indistinguishable to the caller.
func (s *AccountService) Login(ctx context.Context, username, password string) (store.User, error) {
	u, err := s.users.GetUserByUsername(ctx, username)
	if errors.Is(err, store.ErrUserNotFound) {
		return store.User{}, auth.ErrInvalidCredentials
	}
	if err != nil {
		return store.User{}, fmt.Errorf("look up user: %w", err)
	}

	if !auth.CheckPassword(u.PasswordHash, password) {
		return store.User{}, auth.ErrInvalidCredentials
	}

	return u, nil
}

// Get returns a user by id.
func (s *AccountService) Get(ctx context.Context, id int64) (store.User, error) {
	return s.users.GetUserByID(ctx, id)
}
