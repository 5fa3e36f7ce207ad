package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/avoronov/online-store/internal/config"
	"github.com/avoronov/online-store/internal/hash"
	"github.com/avoronov/online-store/internal/models"
	"github.com/avoronov/online-store/internal/mykafka"
	"github.com/avoronov/online-store/internal/service/token"
)

type testEnv struct {
	T      *testing.T
	E      *echo.Echo
	DB     *gorm.DB
	Tokens *token.TokenService
	A      *AuthHandler
	Cat    *CategoryHandler
	P      *ProductHandler
	C      *CartHandler
	O      *OrderHandler
}

func InitTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	if err := config.Migrate(db); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return db
}

func newTestEnv(t *testing.T) *testEnv {
	db := InitTestDB(t)

	tokens := &token.TokenService{
		DB:            db,
		JWTSecret:     []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
	}
	prod := &mykafka.Producer{}

	env := &testEnv{
		T:      t,
		E:      echo.New(),
		DB:     db,
		Tokens: tokens,
		A:      &AuthHandler{DB: db, Tokens: tokens, Producer: prod},
		Cat:    &CategoryHandler{DB: db, Producer: prod},
		P:      &ProductHandler{DB: db, Producer: prod},
		C:      &CartHandler{DB: db, Producer: prod},
		O:      &OrderHandler{DB: db, Producer: prod},
	}

	return env
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}, cookies ...*http.Cookie) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

// asUser puts an identity into the context the way the auth middleware does.
func asUser(c echo.Context, userID uint) {
	c.Set("userID", userID)
	c.Set("role", "user")
}

func (env *testEnv) createUser(t *testing.T, username string, perms ...string) *models.User {
	t.Helper()

	passwordHash, err := hash.HashPassword("password")
	require.NoError(t, err)

	user := models.User{
		Username:     username,
		PasswordHash: passwordHash,
		Role:         "user",
	}
	for _, p := range perms {
		user.Permissions = append(user.Permissions, models.Permission{Code: p})
	}
	require.NoError(t, env.DB.Create(&user).Error)
	return &user
}

func (env *testEnv) createCatalog(t *testing.T) (models.Category, models.Product) {
	t.Helper()

	cat := models.Category{Title: "Furniture", Slug: "furniture"}
	require.NoError(t, env.DB.Create(&cat).Error)

	prod := models.Product{
		Title:       "Chair",
		CategoryID:  cat.ID,
		Price:       100,
		Description: "wood",
	}
	require.NoError(t, env.DB.Create(&prod).Error)
	return cat, prod
}

func requireHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError, got %v", err)
	require.Equal(t, code, he.Code)
}
