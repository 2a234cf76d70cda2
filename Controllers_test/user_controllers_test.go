package Controllers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/restaurant-pos/models"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	register := gin.H{"name": "Sari", "email": "sari@resto.test", "password": "rahasia1", "role": "cashier"}
	w := env.do(t, http.MethodPost, "/register", "", register)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = env.do(t, http.MethodPost, "/register", "", register)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodPost, "/login", "", gin.H{"email": "sari@resto.test", "password": "salah"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, "/login", "", gin.H{"email": "sari@resto.test", "password": "rahasia1"})
	require.Equal(t, http.StatusOK, w.Code)
	var data struct {
		Token    string `json:"token"`
		UserRole string `json:"user_role"`
	}
	decodeResponse(t, w, &data)
	assert.NotEmpty(t, data.Token)
	assert.Equal(t, "cashier", data.UserRole)

	w = env.do(t, http.MethodGet, "/admin/profile", data.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var profile map[string]any
	decodeResponse(t, w, &profile)
	assert.Equal(t, "sari@resto.test", profile["email"])
	assert.NotContains(t, w.Body.String(), "password")
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/register", "", gin.H{"name": "X", "email": "x@resto.test", "password": "rahasia1", "role": "cleaner"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	env := newTestEnv(t)
	token := env.tokenFor(t, models.RoleCashier)

	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/admin/profile", token, nil).Code)
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/admin/logout", token, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/admin/profile", token, nil).Code)
}

func TestGetAllUsersAdminOnly(t *testing.T) {
	env := newTestEnv(t)
	cashier := env.tokenFor(t, models.RoleCashier)
	admin := env.tokenFor(t, models.RoleAdmin)

	w := env.do(t, http.MethodGet, "/admin/users", cashier, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodGet, "/admin/users", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var users []models.User
	decodeResponse(t, w, &users)
	assert.Len(t, users, 2)
}
