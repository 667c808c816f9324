package controller

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/ddrozdov/storefront-backend/internal/app/repository"
	"github.com/ddrozdov/storefront-backend/internal/app/service"
	"github.com/ddrozdov/storefront-backend/internal/db"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthControllerTest(t *testing.T) *gin.Engine {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	authService := service.NewAuthService(userRepo, nil, "test-secret", 15*time.Minute, 7*24*time.Hour)
	authController := NewAuthController(authService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/auth/register", authController.Register)
	router.POST("/api/auth/login", authController.Login)

	return router
}

func TestAuthController_Register_Success(t *testing.T) {
	router := setupAuthControllerTest(t)

	w := postJSON(router, http.MethodPost, "/api/auth/register", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "password123",
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	user := response["user"].(map[string]interface{})
	assert.Equal(t, "alice", user["username"])
	assert.Equal(t, "alice@example.com", user["email"])

	tokens := response["tokens"].(map[string]interface{})
	assert.NotEmpty(t, tokens["access_token"])
	assert.NotEmpty(t, tokens["refresh_token"])

	// The hash must never appear in the response
	assert.NotContains(t, user, "password_hash")
	assert.NotContains(t, user, "password")
}

func TestAuthController_Register_DuplicateEmail(t *testing.T) {
	router := setupAuthControllerTest(t)

	w := postJSON(router, http.MethodPost, "/api/auth/register", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(router, http.MethodPost, "/api/auth/register", gin.H{
		"username": "bob",
		"email":    "alice@example.com",
		"password": "password456",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "User with this email already exists")
}

func TestAuthController_Register_DuplicateUsername(t *testing.T) {
	router := setupAuthControllerTest(t)

	w := postJSON(router, http.MethodPost, "/api/auth/register", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(router, http.MethodPost, "/api/auth/register", gin.H{
		"username": "alice",
		"email":    "other@example.com",
		"password": "password456",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "Username is already taken")
}

func TestAuthController_Register_InvalidInput(t *testing.T) {
	router := setupAuthControllerTest(t)

	// Malformed email
	w := postJSON(router, http.MethodPost, "/api/auth/register", gin.H{
		"username": "alice",
		"email":    "not-an-email",
		"password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Password below the minimum length
	w = postJSON(router, http.MethodPost, "/api/auth/register", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthController_Login_Success(t *testing.T) {
	router := setupAuthControllerTest(t)

	w := postJSON(router, http.MethodPost, "/api/auth/register", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(router, http.MethodPost, "/api/auth/login", gin.H{
		"email":    "alice@example.com",
		"password": "password123",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	tokens := response["tokens"].(map[string]interface{})
	assert.NotEmpty(t, tokens["access_token"])
}

func TestAuthController_Login_BadCredentials(t *testing.T) {
	router := setupAuthControllerTest(t)

	w := postJSON(router, http.MethodPost, "/api/auth/register", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Wrong password and unknown email produce identical responses
	wrongPassword := postJSON(router, http.MethodPost, "/api/auth/login", gin.H{
		"email":    "alice@example.com",
		"password": "wrongpassword",
	})
	unknownEmail := postJSON(router, http.MethodPost, "/api/auth/login", gin.H{
		"email":    "nobody@example.com",
		"password": "password123",
	})

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
	assert.Contains(t, wrongPassword.Body.String(), "Invalid email or password")
}
