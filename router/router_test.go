// file: router/router_test.go

package router_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"go-banner-api/app"
	"go-banner-api/common"
	"go-banner-api/config"
	"go-banner-api/logger"
	"go-banner-api/model"
	"go-banner-api/service"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

var testApp *app.TestApp
var authService *service.AuthService
var testRedisClient *redis.Client

func TestMain(m *testing.M) {
	logger.Init()
	config.LoadConfig("../")
	authService = service.NewAuthService(nil, nil, config.AppConfig.JWT.SecretKey)

	// --- Database Connection ---
	testDbConnStr := fmt.Sprintf("postgres://%s:%s@localhost:5434/%s_test?sslmode=disable",
		config.AppConfig.Database.User,
		config.AppConfig.Database.Password,
		config.AppConfig.Database.Name,
	)
	db, err := sql.Open("postgres", testDbConnStr)
	if err != nil {
		log.Fatalf("could not connect to test database: %v", err)
	}
	for i := 0; i < 5; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(1 * time.Second)
	}
	if err != nil {
		log.Fatalf("database not ready: %v", err)
	}
	runMigrations(testDbConnStr)

	// --- Redis Connection for Integration Tests ---
	redisAddr := fmt.Sprintf("%s:%s", config.AppConfig.Redis.Host, config.AppConfig.Redis.Port)
	testRedisClient = redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: config.AppConfig.Redis.Password,
		DB:       1, // Use a separate DB for test isolation.
	})
	if _, err := testRedisClient.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("could not connect to test redis: %v", err)
	}

	testApp = app.NewTestApp(db, testRedisClient)

	// --- Run Tests ---
	exitCode := m.Run()

	// --- Teardown ---
	db.Close()
	testRedisClient.Close()
	os.Exit(exitCode)
}

func runMigrations(connStr string) {
	migrationPath := "file://../db/migrations"
	mig, err := migrate.New(migrationPath, connStr)
	if err != nil {
		log.Fatalf("cannot create migrate instance: %v", err)
	}
	if err := mig.Up(); err != nil && err != migrate.ErrNoChange {
		log.Fatalf("failed to run migrate up: %v", err)
	}
}

// --- Test Helper Functions ---

type authResponse struct {
	User  model.User `json:"user"`
	Token string     `json:"token"`
}

func clearRedis(t *testing.T) {
	err := testRedisClient.FlushDB(context.Background()).Err()
	assert.NoError(t, err)
}

func createUserWithRoleForTest(t *testing.T, username, email, password string, role model.Role) model.User {
	hashedPassword, _ := authService.HashPassword(password)
	user := model.User{
		Username: username,
		Email:    email,
		Password: hashedPassword,
		Role:     string(role),
	}
	err := testApp.DB.QueryRow(
		`INSERT INTO users (username, email, password, role) VALUES ($1, $2, $3, $4) RETURNING id`,
		user.Username, user.Email, user.Password, user.Role,
	).Scan(&user.ID)
	assert.NoError(t, err)
	return user
}

func createUserForTest(t *testing.T, username, email, password string) model.User {
	return createUserWithRoleForTest(t, username, email, password, model.RoleUser)
}

func loginUserForTest(t *testing.T, email, password string) string {
	requestBody := fmt.Sprintf(`{"email": "%s", "password": "%s"}`, email, password)
	req, _ := http.NewRequest("POST", "/api/auth/login", strings.NewReader(requestBody))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	testApp.Router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code, "Login request should be successful")
	var response authResponse
	err := json.Unmarshal(rr.Body.Bytes(), &response)
	assert.NoError(t, err, "Should be able to unmarshal login response")
	assert.NotEmpty(t, response.Token, "Token should not be empty")
	return response.Token
}

func cleanupUser(t *testing.T, email string) {
	_, err := testApp.DB.Exec("DELETE FROM users WHERE email = $1", email)
	assert.NoError(t, err, "Failed to clean up user")
}

func decodeAppError(t *testing.T, rr *httptest.ResponseRecorder) common.AppError {
	var appErr common.AppError
	err := json.Unmarshal(rr.Body.Bytes(), &appErr)
	assert.NoError(t, err)
	return appErr
}

// bannerForm builds a multipart body with an optional PNG image part.
func bannerForm(t *testing.T, fields map[string]string, withImage bool) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		assert.NoError(t, writer.WriteField(key, value))
	}
	if withImage {
		part, err := writer.CreateFormFile("bannerImage", "banner.png")
		assert.NoError(t, err)
		pngHeader := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
		_, err = io.Copy(part, bytes.NewReader(append(pngHeader, bytes.Repeat([]byte{0}, 64)...)))
		assert.NoError(t, err)
	}
	assert.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

// --- Test Suites ---

func TestHealthCheck_Integration(t *testing.T) {
	req, _ := http.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()
	testApp.Router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	expectedBody := `{"status":"API is healthy and running"}`
	assert.JSONEq(t, expectedBody, rr.Body.String())
}

func TestRegister_Integration(t *testing.T) {
	requestBody := `{"username":"integration_test_user","email":"integration@test.com","password":"password123"}`
	req, _ := http.NewRequest("POST", "/api/auth/register", strings.NewReader(requestBody))
	rr := httptest.NewRecorder()
	defer cleanupUser(t, "integration@test.com")
	testApp.Router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusCreated, rr.Code)

	var response authResponse
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	assert.Equal(t, "user", response.User.Role, "role should default to user")
	assert.NotEmpty(t, response.Token)
	assert.NotContains(t, rr.Body.String(), "password", "response must not leak the password hash")

	t.Run("duplicate email with a different username fails", func(t *testing.T) {
		requestBody := `{"username":"other_username","email":"integration@test.com","password":"password123"}`
		req, _ := http.NewRequest("POST", "/api/auth/register", strings.NewReader(requestBody))
		rr := httptest.NewRecorder()
		testApp.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, common.KindDuplicateResource, decodeAppError(t, rr).Kind)
	})
}

func TestLogin_Integration(t *testing.T) {
	email := "login.test@example.com"
	password := "password123"
	createUserForTest(t, "login_test_user", email, password)
	defer cleanupUser(t, email)

	t.Run("successful login", func(t *testing.T) {
		requestBody := fmt.Sprintf(`{"email": "%s", "password": "%s"}`, email, password)
		req, _ := http.NewRequest("POST", "/api/auth/login", strings.NewReader(requestBody))
		rr := httptest.NewRecorder()
		testApp.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
		var response authResponse
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
		assert.NotEmpty(t, response.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		requestBody := fmt.Sprintf(`{"email": "%s", "password": "wrongpassword"}`, email)
		req, _ := http.NewRequest("POST", "/api/auth/login", strings.NewReader(requestBody))
		rr := httptest.NewRecorder()
		testApp.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, common.KindInvalidCredentials, decodeAppError(t, rr).Kind)
	})
}

// TestAuthFlow_Integration walks the full session lifecycle:
// register -> login -> profile -> logout -> profile rejected as revoked.
func TestAuthFlow_Integration(t *testing.T) {
	clearRedis(t)
	email := "a@x.com"
	defer cleanupUser(t, email)

	// Short passwords are accepted: presence is the only requirement.
	registerBody := fmt.Sprintf(`{"username":"alice","email":"%s","password":"pw123"}`, email)
	req, _ := http.NewRequest("POST", "/api/auth/register", strings.NewReader(registerBody))
	rr := httptest.NewRecorder()
	testApp.Router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusCreated, rr.Code)

	token := loginUserForTest(t, email, "pw123")

	profileReq, _ := http.NewRequest("GET", "/api/auth/profile", nil)
	profileReq.Header.Set("Authorization", "Bearer "+token)
	rr = httptest.NewRecorder()
	testApp.Router.ServeHTTP(rr, profileReq)
	assert.Equal(t, http.StatusOK, rr.Code)
	var profile model.User
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &profile))
	assert.Equal(t, "user", profile.Role)

	logoutReq, _ := http.NewRequest("POST", "/api/auth/logout", nil)
	logoutReq.Header.Set("Authorization", "Bearer "+token)
	rr = httptest.NewRecorder()
	testApp.Router.ServeHTTP(rr, logoutReq)
	assert.Equal(t, http.StatusOK, rr.Code)

	profileReq, _ = http.NewRequest("GET", "/api/auth/profile", nil)
	profileReq.Header.Set("Authorization", "Bearer "+token)
	rr = httptest.NewRecorder()
	testApp.Router.ServeHTTP(rr, profileReq)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, common.KindTokenRevoked, decodeAppError(t, rr).Kind)

	t.Run("logout is idempotent", func(t *testing.T) {
		logoutReq, _ := http.NewRequest("POST", "/api/auth/logout", nil)
		logoutReq.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		testApp.Router.ServeHTTP(rr, logoutReq)
		// The token itself no longer authenticates, which is the expected
		// behavior for a second logout of the same session.
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestAdminRoutes_Integration(t *testing.T) {
	clearRedis(t)
	adminUser := createUserWithRoleForTest(t, "admin_user", "admin@test.com", "password123", model.RoleAdmin)
	regularUser := createUserWithRoleForTest(t, "regular_user", "user@test.com", "password123", model.RoleUser)
	defer cleanupUser(t, adminUser.Email)
	defer cleanupUser(t, regularUser.Email)
	adminToken := loginUserForTest(t, adminUser.Email, "password123")
	userToken := loginUserForTest(t, regularUser.Email, "password123")
	endpoint := "/api/auth/users"

	t.Run("admin can list users", func(t *testing.T) {
		req, _ := http.NewRequest("GET", endpoint, nil)
		req.Header.Set("Authorization", "Bearer "+adminToken)
		rr := httptest.NewRecorder()
		testApp.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.NotContains(t, rr.Body.String(), "$2a$", "password hashes must never appear in responses")
	})

	t.Run("regular user is forbidden", func(t *testing.T) {
		req, _ := http.NewRequest("GET", endpoint, nil)
		req.Header.Set("Authorization", "Bearer "+userToken)
		rr := httptest.NewRecorder()
		testApp.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("admin cannot delete their own account", func(t *testing.T) {
		req, _ := http.NewRequest("DELETE", fmt.Sprintf("/api/auth/users/%d", adminUser.ID), nil)
		req.Header.Set("Authorization", "Bearer "+adminToken)
		rr := httptest.NewRecorder()
		testApp.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("admin can delete another account", func(t *testing.T) {
		victim := createUserWithRoleForTest(t, "victim_user", "victim@test.com", "password123", model.RoleUser)
		defer cleanupUser(t, victim.Email)
		req, _ := http.NewRequest("DELETE", fmt.Sprintf("/api/auth/users/%d", victim.ID), nil)
		req.Header.Set("Authorization", "Bearer "+adminToken)
		rr := httptest.NewRecorder()
		testApp.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("admin promotes a user through the role endpoint", func(t *testing.T) {
		body := `{"role":"moderator"}`
		req, _ := http.NewRequest("PUT", fmt.Sprintf("/api/auth/users/%d/role", regularUser.ID), strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+adminToken)
		rr := httptest.NewRecorder()
		testApp.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)

		var role string
		err := testApp.DB.QueryRow("SELECT role FROM users WHERE id = $1", regularUser.ID).Scan(&role)
		assert.NoError(t, err)
		assert.Equal(t, "moderator", role)
	})

	t.Run("regular user cannot use the role endpoint", func(t *testing.T) {
		body := `{"role":"admin"}`
		req, _ := http.NewRequest("PUT", fmt.Sprintf("/api/auth/users/%d/role", regularUser.ID), strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+userToken)
		rr := httptest.NewRecorder()
		testApp.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("role change requires admin", func(t *testing.T) {
		body := `{"role":"admin"}`
		req, _ := http.NewRequest("PUT", fmt.Sprintf("/api/auth/users/%d", regularUser.ID), strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+userToken)
		rr := httptest.NewRecorder()
		testApp.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestBannerCRUD_Integration(t *testing.T) {
	clearRedis(t)
	adminUser := createUserWithRoleForTest(t, "banner_admin", "banner.admin@test.com", "password123", model.RoleAdmin)
	defer cleanupUser(t, adminUser.Email)
	adminToken := loginUserForTest(t, adminUser.Email, "password123")

	body, contentType := bannerForm(t, map[string]string{
		"title":       "Summer Sale",
		"description": "Half price on everything",
		"link":        "https://example.com/sale",
		"isActive":    "true",
	}, true)
	req, _ := http.NewRequest("POST", "/api/banners", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rr := httptest.NewRecorder()
	testApp.Router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusCreated, rr.Code)

	var banner model.Banner
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &banner))
	assert.NotZero(t, banner.ID)
	assert.NotEmpty(t, banner.ImageURL)

	t.Run("banners are publicly readable", func(t *testing.T) {
		req, _ := http.NewRequest("GET", fmt.Sprintf("/api/banners/%d", banner.ID), nil)
		rr := httptest.NewRecorder()
		testApp.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("non-admin cannot create banners", func(t *testing.T) {
		regular := createUserForTest(t, "banner_pleb", "banner.pleb@test.com", "password123")
		defer cleanupUser(t, regular.Email)
		token := loginUserForTest(t, regular.Email, "password123")

		body, contentType := bannerForm(t, map[string]string{"title": "Nope"}, true)
		req, _ := http.NewRequest("POST", "/api/banners", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		testApp.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("update banner metadata", func(t *testing.T) {
		body, contentType := bannerForm(t, map[string]string{"isActive": "false"}, false)
		req, _ := http.NewRequest("PUT", fmt.Sprintf("/api/banners/%d", banner.ID), body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+adminToken)
		rr := httptest.NewRecorder()
		testApp.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)

		var updated model.Banner
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
		assert.False(t, updated.IsActive)
		assert.Equal(t, "Summer Sale", updated.Title)
	})

	t.Run("delete banner", func(t *testing.T) {
		req, _ := http.NewRequest("DELETE", fmt.Sprintf("/api/banners/%d", banner.ID), nil)
		req.Header.Set("Authorization", "Bearer "+adminToken)
		rr := httptest.NewRecorder()
		testApp.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)

		req, _ = http.NewRequest("GET", fmt.Sprintf("/api/banners/%d", banner.ID), nil)
		rr = httptest.NewRecorder()
		testApp.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
