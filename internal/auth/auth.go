package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/MosinFAM/microblog/internal/models"
	"github.com/MosinFAM/microblog/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidLogin = errors.New("invalid username or password")
	// ErrPasswordTooLong is returned for passwords over bcrypt's 72 byte limit.
	ErrPasswordTooLong = bcrypt.ErrPasswordTooLong
)

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Register creates a user with a hashed password. Duplicate usernames or
// emails surface as storage.ErrUsernameTaken / storage.ErrEmailTaken.
func Register(ctx context.Context, users storage.UserStorage, username, email, password string) (*models.User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &models.User{
		Username:     strings.TrimSpace(username),
		Email:        strings.TrimSpace(strings.ToLower(email)),
		PasswordHash: hash,
	}
	if err := users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate returns the user owning username if password matches.
func Authenticate(ctx context.Context, users storage.UserStorage, username, password string) (*models.User, error) {
	user, err := users.GetUserByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, storage.ErrNotFound) {
		slog.Debug("login for unknown user", "username", username)
		return nil, ErrInvalidLogin
	}
	if err != nil {
		return nil, err
	}
	if !CheckPassword(user.PasswordHash, password) {
		slog.Debug("bad password", "user_id", user.ID)
		return nil, ErrInvalidLogin
	}
	return user, nil
}
