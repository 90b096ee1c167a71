package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/apperr"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/auth"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/models"
	"github.com/rs/zerolog/log"
)

// UsersRepository defines what the app layer needs from the repository
type UsersRepository interface {
	CreateUser(ctx context.Context, username, passwordHash string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// TokenIssuer signs bearer tokens for a user
type TokenIssuer interface {
	Issue(userID int64, username string) (string, error)
}

// App handles account business logic
type App struct {
	repo   UsersRepository
	tokens TokenIssuer
}

// NewApp creates a new users App
func NewApp(repo UsersRepository, tokens TokenIssuer) *App {
	return &App{
		repo:   repo,
		tokens: tokens,
	}
}

// Register creates an account and signs the user in
func (a *App) Register(ctx context.Context, req CredentialsRequest) (*AuthResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, apperr.Validation("register", "Username and password required")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperr.Transient("register", err)
	}

	user, err := a.repo.CreateUser(ctx, username, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("registered user")
	return a.respond(user, "Registration successful")
}

// Login checks the credentials and issues a token. Unknown users and wrong
// passwords are reported the same way.
func (a *App) Login(ctx context.Context, req CredentialsRequest) (*AuthResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, apperr.Validation("login", "Username and password required")
	}

	user, err := a.repo.GetUserByUsername(ctx, username)
	if apperr.IsNotFound(err) {
		log.Debug().Str("username", username).Msg("login for unknown user")
		return nil, apperr.Auth("login", "Invalid login")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		log.Debug().Int64("user_id", user.ID).Msg("login with wrong password")
		return nil, apperr.Auth("login", "Invalid login")
	}

	log.Info().Int64("user_id", user.ID).Msg("user logged in")
	return a.respond(user, "Login success")
}

func (a *App) respond(user *models.User, message string) (*AuthResponse, error) {
	token, err := a.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, apperr.Transient("issue token", err)
	}
	return &AuthResponse{
		Message:  message,
		Token:    token,
		Username: user.Username,
	}, nil
}
