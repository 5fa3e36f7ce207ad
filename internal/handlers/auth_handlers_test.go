package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avoronov/online-store/internal/models"
)

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	payload := map[string]string{
		"username":   "test_user",
		"password":   "password",
		"first_name": "Test",
		"last_name":  "User",
	}
	rec, c := env.doJSONRequest(http.MethodPost, "/api/auth/register", payload)

	require.NoError(t, env.A.Register(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var user models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	require.Equal(t, "test_user", user.Username)
	require.Equal(t, "user", user.Role)
	require.Equal(t, "Test", user.FirstName)
	require.NotEmpty(t, user.ID)

	var stored models.User
	require.NoError(t, env.DB.First(&stored, user.ID).Error)
	require.NotEqual(t, "password", stored.PasswordHash)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)

	payload := map[string]string{"username": "test_user", "password": "password"}
	rec, c := env.doJSONRequest(http.MethodPost, "/api/auth/register", payload)
	require.NoError(t, env.A.Register(c))
	require.Equal(t, http.StatusOK, rec.Code)

	_, cDup := env.doJSONRequest(http.MethodPost, "/api/auth/register", payload)
	requireHTTPError(t, env.A.Register(cDup), http.StatusConflict)

	var count int64
	require.NoError(t, env.DB.Model(&models.User{}).Where("username = ?", "test_user").Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "test_user")

	load := map[string]string{"username": "test_user", "password": "password"}
	rec, c := env.doJSONRequest(http.MethodPost, "/api/auth/login", load)
	require.NoError(t, env.A.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["access_token"])
	require.NotEmpty(t, resp["refresh_token"])
	require.Equal(t, false, resp["is_admin"])

	badLoad := map[string]string{"username": "test_user", "password": "wrong"}
	_, cBad := env.doJSONRequest(http.MethodPost, "/api/auth/login", badLoad)
	requireHTTPError(t, env.A.Login(cBad), http.StatusUnauthorized)
}

func TestLogOut(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "test_user")

	load := map[string]string{"username": "test_user", "password": "password"}
	recLogin, cLogin := env.doJSONRequest(http.MethodPost, "/api/auth/login", load)
	require.NoError(t, env.A.Login(cLogin))

	var respLogin map[string]interface{}
	require.NoError(t, json.Unmarshal(recLogin.Body.Bytes(), &respLogin))

	refresh := respLogin["refresh_token"].(string)
	ck := &http.Cookie{Name: "refreshToken", Value: refresh}
	recLogout, cLogout := env.doJSONRequest(http.MethodPost, "/api/auth/logout", nil, ck)
	require.NoError(t, env.A.LogOut(cLogout))
	require.Equal(t, http.StatusOK, recLogout.Code)

	var stored models.RefreshToken
	require.NoError(t, env.DB.Where("token = ?", refresh).First(&stored).Error)
	require.True(t, stored.Revoked)
}

func TestCheck(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "test_user")

	rec, c := env.doJSONRequest(http.MethodGet, "/api/auth/check", nil)
	asUser(c, user.ID)
	require.NoError(t, env.A.Check(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "test_user", resp["username"])
}

func TestGetUsers(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "first_user")
	env.createUser(t, "second_user", "user.view")

	rec, c := env.doJSONRequest(http.MethodGet, "/api/admin/users", nil)
	require.NoError(t, env.A.GetUsers(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var users []models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	require.Len(t, users, 2)
	require.Equal(t, "first_user", users[0].Username)
}
