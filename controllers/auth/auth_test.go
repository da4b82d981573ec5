package authController

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/Rwigenzadavy/techlearnhub/cache"
	"github.com/Rwigenzadavy/techlearnhub/config"
	"github.com/Rwigenzadavy/techlearnhub/database"
	"github.com/Rwigenzadavy/techlearnhub/middleware"
	"github.com/Rwigenzadavy/techlearnhub/models"
	authValidator "github.com/Rwigenzadavy/techlearnhub/validators/auth"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	dir := t.TempDir()

	config.AppConfig = &config.Config{
		JWTKey:     "test-secret",
		SaltRound:  bcrypt.MinCost,
		AppBaseURL: "http://localhost:3000",
	}

	db, err := gorm.Open(sqlite.Open(filepath.Join(dir, "main.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.AuthAccount{}, &models.User{}, &models.Course{}, &models.Lesson{},
		&models.Enrollment{}, &models.Review{}, &models.Certificate{},
	))
	database.Database = database.DbInstance{Db: db}

	cdb, err := gorm.Open(sqlite.Open(filepath.Join(dir, "cache.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, cdb.AutoMigrate(&cache.Entry{}))
	cache.Local = cache.LocalCache{Db: cdb}

	app := fiber.New()
	auth := app.Group("/auth")
	auth.Post("/signup", authValidator.Signup(), Signup)
	auth.Post("/login", authValidator.Login(), Login)
	auth.Post("/logout", middleware.JWTMiddleware, Logout)
	auth.Get("/verify", VerifyEmail)

	return app, db
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestSignupRejectsShortPassword(t *testing.T) {
	app, db := setupApp(t)

	resp := postJSON(t, app, "/auth/signup", fiber.Map{
		"name": "Ada", "email": "ada@x.com", "password": "abc",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	// Rejected before any backend work: no rows, no cache entries
	var accounts int64
	db.Model(&models.AuthAccount{}).Count(&accounts)
	assert.EqualValues(t, 0, accounts)

	var entries int64
	cache.Local.Db.Model(&cache.Entry{}).Count(&entries)
	assert.EqualValues(t, 0, entries)
}

func TestSignupRejectsEmptyFields(t *testing.T) {
	app, db := setupApp(t)

	resp := postJSON(t, app, "/auth/signup", fiber.Map{
		"name": "", "email": "ada@x.com", "password": "secret1",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	var accounts int64
	db.Model(&models.AuthAccount{}).Count(&accounts)
	assert.EqualValues(t, 0, accounts)
}

func TestSignupCreatesAccountAndProfile(t *testing.T) {
	app, db := setupApp(t)

	resp := postJSON(t, app, "/auth/signup", fiber.Map{
		"name": "Ada", "email": "ada@x.com", "password": "secret1",
	})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var account models.AuthAccount
	require.NoError(t, db.Where("email = ?", "ada@x.com").First(&account).Error)

	var user models.User
	require.NoError(t, db.Where("id = ?", account.ID).First(&user).Error)
	assert.Equal(t, "Ada", user.Name)

	// Session snapshot was mirrored
	var session cache.SessionUser
	found, err := cache.Local.Get(cache.SessionKey(account.ID), &session)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Empty(t, session.Courses)
}

func TestSignupDuplicateEmailConflicts(t *testing.T) {
	app, db := setupApp(t)

	resp := postJSON(t, app, "/auth/signup", fiber.Map{
		"name": "Ada", "email": "ada@x.com", "password": "secret1",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = postJSON(t, app, "/auth/signup", fiber.Map{
		"name": "Ada Again", "email": "ada@x.com", "password": "secret1",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	var accounts int64
	db.Model(&models.AuthAccount{}).Count(&accounts)
	assert.EqualValues(t, 1, accounts)
}

func TestLoginWrongPassword(t *testing.T) {
	app, _ := setupApp(t)

	resp := postJSON(t, app, "/auth/signup", fiber.Map{
		"name": "Ada", "email": "ada@x.com", "password": "secret1",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = postJSON(t, app, "/auth/login", fiber.Map{
		"email": "ada@x.com", "password": "wrong",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestLoginSelfHealsMissingProfile(t *testing.T) {
	app, db := setupApp(t)

	// An auth account without a profile row and without signup metadata:
	// the repaired profile falls back to the email local-part
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	account := models.AuthAccount{
		ID:       uuid.NewString(),
		Email:    "ada@x.com",
		Password: string(hash),
	}
	require.NoError(t, db.Create(&account).Error)

	resp := postJSON(t, app, "/auth/login", fiber.Map{
		"email": "ada@x.com", "password": "secret1",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var user models.User
	require.NoError(t, db.Where("id = ?", account.ID).First(&user).Error)
	assert.Equal(t, "ada", user.Name)
}

func TestLogoutClearsCachedSession(t *testing.T) {
	app, db := setupApp(t)

	resp := postJSON(t, app, "/auth/signup", fiber.Map{
		"name": "Ada", "email": "ada@x.com", "password": "secret1",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var account models.AuthAccount
	require.NoError(t, db.Where("email = ?", "ada@x.com").First(&account).Error)

	token, err := middleware.GenerateJWT(account.ID, "Ada", account.Role, account.Email)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	logoutResp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, logoutResp.StatusCode)

	var session cache.SessionUser
	found, err := cache.Local.Get(cache.SessionKey(account.ID), &session)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestVerifyEmail(t *testing.T) {
	app, db := setupApp(t)

	resp := postJSON(t, app, "/auth/signup", fiber.Map{
		"name": "Ada", "email": "ada@x.com", "password": "secret1",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var account models.AuthAccount
	require.NoError(t, db.Where("email = ?", "ada@x.com").First(&account).Error)
	require.NotEmpty(t, account.VerificationToken)

	req := httptest.NewRequest(http.MethodGet, "/auth/verify?token="+account.VerificationToken, nil)
	verifyResp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, verifyResp.StatusCode)

	require.NoError(t, db.Where("email = ?", "ada@x.com").First(&account).Error)
	assert.True(t, account.IsEmailVerified)
}
