package service

import (
	"context"
	"fmt"
	"time"

	"github.com/avelichko/catalog-api/internal/logging"
	"github.com/avelichko/catalog-api/internal/repo"
	"github.com/avelichko/catalog-api/internal/tokens"
)

type AuthService struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
}

type LoginResult struct {
	Token    string
	Username string
	Role     string
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	if username == "" || password == "" {
		return nil, repo.ErrInvalidCredentials
	}

	user, err := s.Repo.UserByCredentials(ctx, username, password)
	if err != nil {
		l.Warn("login_failed", "error", err)
		return nil, err
	}

	exp := time.Now().Add(tokens.SessionTTL)
	token, err := tokens.NewAccessToken(user.ID.String(), user.Role, exp, s.JWTSecret)
	if err != nil {
		l.Error("login_failed", "reason", "cannot sign token", "error", err)
		return nil, fmt.Errorf("sign token: %w", err)
	}

	l.Info("login_successful", "role", user.Role)
	return &LoginResult{
		Token:    token,
		Username: user.Username,
		Role:     user.Role,
	}, nil
}
