package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/avelichko/catalog-api/internal/hash"
	"github.com/avelichko/catalog-api/internal/models"
	"github.com/avelichko/catalog-api/internal/repo"
	"github.com/avelichko/catalog-api/internal/tokens"
)

func initTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.User{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return db
}

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	return &AuthService{
		Repo:      &repo.GormRepo{DB: initTestDB(t)},
		JWTSecret: []byte("test-jwt-secret"),
	}
}

func seedAdmin(t *testing.T, svc *AuthService, username, password, role string) models.User {
	t.Helper()

	pwHash, err := hash.HashPassword(password)
	require.NoError(t, err)

	user := models.User{Username: username, PasswordHash: pwHash, Role: role}
	require.NoError(t, svc.Repo.CreateUserIfNotExists(context.Background(), &user))
	return user
}

func TestAuthService_Login_IssuesVerifiableToken(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	user := seedAdmin(t, svc, "admin", "password", models.RoleSuperAdmin)

	res, err := svc.Login(context.Background(), "admin", "password")
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, "admin", res.Username)
	assert.Equal(t, models.RoleSuperAdmin, res.Role)

	claims, err := tokens.AccessClaimsFromToken(res.Token, svc.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.Equal(t, models.RoleSuperAdmin, claims.Role)
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	seedAdmin(t, svc, "admin", "password", models.RoleAdmin)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "wrong password", username: "admin", password: "wrong"},
		{name: "unknown username", username: "nobody", password: "password"},
		{name: "empty username", username: "", password: "password"},
		{name: "empty password", username: "admin", password: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := svc.Login(context.Background(), tt.username, tt.password)
			require.Error(t, err)
			assert.Nil(t, res)
			// the error never reveals which part was wrong
			assert.ErrorIs(t, err, repo.ErrInvalidCredentials)
		})
	}
}
