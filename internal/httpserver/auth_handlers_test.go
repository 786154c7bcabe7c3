package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelichko/catalog-api/internal/models"
)

func loginRequest(username, secret string) *http.Request {
	body := `{"username":"` + username + `","secret":"` + secret + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func TestLogin_Success(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin(t, "admin", "password", models.RoleSuperAdmin)

	rec := env.do(loginRequest("admin", "password"))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["token"])
	assert.Equal(t, "admin", resp["username"])
	assert.Equal(t, models.RoleSuperAdmin, resp["role"])
}

func TestLogin_InvalidCredentials_SameResponseEitherWay(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin(t, "admin", "password", models.RoleAdmin)

	recWrongPassword := env.do(loginRequest("admin", "wrong"))
	recUnknownUser := env.do(loginRequest("nobody", "password"))

	require.Equal(t, http.StatusUnauthorized, recWrongPassword.Code)
	require.Equal(t, http.StatusUnauthorized, recUnknownUser.Code)
	// the body never leaks whether the username or the secret was wrong
	assert.Equal(t, recWrongPassword.Body.String(), recUnknownUser.Body.String())
}
