package httpserver

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/avelichko/catalog-api/internal/hash"
	"github.com/avelichko/catalog-api/internal/imagestore"
	"github.com/avelichko/catalog-api/internal/models"
	"github.com/avelichko/catalog-api/internal/repo"
	"github.com/avelichko/catalog-api/internal/service"
	"github.com/avelichko/catalog-api/internal/tokens"
)

type fakeStore struct {
	calls     []string
	uploads   int
	removed   []string
	uploadErr error
	removeErr error
}

func (f *fakeStore) Upload(_ context.Context, _ []byte, folder string) (*imagestore.Upload, error) {
	f.calls = append(f.calls, "upload")
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	f.uploads++
	key := fmt.Sprintf("%s/k%d", folder, f.uploads)
	return &imagestore.Upload{
		Locator:        "https://img.test/catalog/" + key,
		DeletionHandle: key,
	}, nil
}

func (f *fakeStore) Remove(_ context.Context, handle string) error {
	f.calls = append(f.calls, "remove")
	f.removed = append(f.removed, handle)
	return f.removeErr
}

type testEnv struct {
	E         *echo.Echo
	DB        *gorm.DB
	Store     *fakeStore
	JWTSecret []byte
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.User{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	secret := []byte("test-jwt-secret")
	gormRepo := &repo.GormRepo{DB: db}
	store := &fakeStore{}

	e := echo.New()
	Register(e, &Deps{
		AuthHandler:    &AuthHTTP{Svc: &service.AuthService{Repo: gormRepo, JWTSecret: secret}},
		ProductHandler: &ProductHTTP{Svc: &service.CatalogService{Repo: gormRepo, Images: store}},
		JWTSecret:      secret,
	})

	return &testEnv{E: e, DB: db, Store: store, JWTSecret: secret}
}

func (env *testEnv) seedAdmin(t *testing.T, username, password, role string) models.User {
	t.Helper()

	pwHash, err := hash.HashPassword(password)
	require.NoError(t, err)

	user := models.User{Username: username, PasswordHash: pwHash, Role: role}
	gormRepo := &repo.GormRepo{DB: env.DB}
	require.NoError(t, gormRepo.CreateUserIfNotExists(context.Background(), &user))
	return user
}

func (env *testEnv) tokenFor(t *testing.T, user models.User) string {
	t.Helper()

	token, err := tokens.NewAccessToken(user.ID.String(), user.Role, time.Now().Add(tokens.SessionTTL), env.JWTSecret)
	require.NoError(t, err)
	return token
}

func (env *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

// multipartBody builds a product form. image may be nil for field-only
// requests; imageCT sets the Content-Type of the file part.
func multipartBody(t *testing.T, fields map[string]string, imageCT string, image []byte) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}

	if image != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="image"; filename="product.png"`)
		h.Set("Content-Type", imageCT)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}

	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}
