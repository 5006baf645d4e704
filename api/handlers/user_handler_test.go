// api/handlers/user_handler_test.go
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/handin-dev/handin-backend/api"
	"github.com/handin-dev/handin-backend/api/models"
	"github.com/handin-dev/handin-backend/config"
	"github.com/handin-dev/handin-backend/internal/auth"
	"github.com/handin-dev/handin-backend/internal/domain"
	"github.com/handin-dev/handin-backend/internal/storage"
)

const (
	testSecret   = "test_secret_key_for_integration_tests_1234567890"
	testPassword = "StrongPassword123!"
)

// stubPinger stands in for the MongoDB handle behind /healthz.
type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error { return p.err }

// testEnv bundles a running test server with direct access to the
// in-memory stores behind it.
type testEnv struct {
	server      *httptest.Server
	users       *storage.MemoryUserStore
	assignments *storage.MemoryAssignmentStore
	cfg         *config.Config
	ping        *stubPinger
}

// setupTestServer starts an httptest server over the full router wired to
// in-memory stores.
func setupTestServer(t *testing.T) (*testEnv, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		ServerPort:    "0",
		AppEnv:        "test",
		JWTSecret:     testSecret,
		JWTAlgorithm:  "HS256",
		JWTExpiration: 5 * time.Minute,
	}

	env := &testEnv{
		users:       storage.NewMemoryUserStore(),
		assignments: storage.NewMemoryAssignmentStore(),
		cfg:         cfg,
		ping:        &stubPinger{},
	}
	router := api.SetupRouter(env.users, env.assignments, env.ping, cfg)
	env.server = httptest.NewServer(router)

	return env, env.server.Close
}

// doJSON performs a request with an optional JSON body and bearer token.
func doJSON(t *testing.T, method, url string, body any, token string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return res
}

// decodeBody decodes and closes a response body.
func decodeBody(t *testing.T, res *http.Response, out any) {
	t.Helper()
	defer res.Body.Close()
	require.NoError(t, json.NewDecoder(res.Body).Decode(out))
}

// registerAndLogin creates an account through the HTTP surface and returns
// a live access token. base is "/user" or "/admin".
func registerAndLogin(t *testing.T, env *testEnv, base, username string) string {
	t.Helper()

	res := doJSON(t, http.MethodPost, env.server.URL+base+"/register",
		models.RegisterRequest{Username: username, Password: testPassword}, "")
	require.Equal(t, http.StatusOK, res.StatusCode, "registering %s via %s", username, base)
	res.Body.Close()

	res = doJSON(t, http.MethodPost, env.server.URL+base+"/login",
		models.LoginRequest{Username: username, Password: testPassword}, "")
	require.Equal(t, http.StatusOK, res.StatusCode, "logging in %s via %s", username, base)

	var loginRes models.LoginResponse
	decodeBody(t, res, &loginRes)
	require.NotEmpty(t, loginRes.AccessToken)
	return loginRes.AccessToken
}

// TestUserAuthEndpoints covers /user/register and /user/login.
func TestUserAuthEndpoints(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()

	assert := assert.New(t)

	t.Run("Register Success", func(t *testing.T) {
		reqBody := models.RegisterRequest{Username: "alice", Password: testPassword}
		res := doJSON(t, http.MethodPost, env.server.URL+"/user/register", reqBody, "")
		assert.Equal(http.StatusOK, res.StatusCode)

		var resBody models.RegisterResponse
		decodeBody(t, res, &resBody)
		assert.Equal("User registered successfully", resBody.Message)
		assert.NotEmpty(resBody.ID)

		// Verify the stored account directly.
		user, err := env.users.FindByUsername(context.Background(), "alice")
		assert.NoError(err)
		if user != nil {
			assert.Equal(domain.RoleUser, user.Role)
			assert.True(user.IsActive)
			assert.True(auth.CheckPasswordHash(testPassword, user.PasswordHash), "Stored password hash should match")
		}
	})

	t.Run("Register Duplicate Username", func(t *testing.T) {
		reqBody := models.RegisterRequest{Username: "alice", Password: "anotherPassword1"}
		res := doJSON(t, http.MethodPost, env.server.URL+"/user/register", reqBody, "")
		assert.Equal(http.StatusBadRequest, res.StatusCode)

		var resBody map[string]string
		decodeBody(t, res, &resBody)
		assert.Equal("Username already taken", resBody["error"])
	})

	t.Run("Register Bad Request (Short Password)", func(t *testing.T) {
		reqBody := models.RegisterRequest{Username: "bobby", Password: "short"}
		res := doJSON(t, http.MethodPost, env.server.URL+"/user/register", reqBody, "")
		defer res.Body.Close()
		assert.Equal(http.StatusBadRequest, res.StatusCode)
	})

	t.Run("Register Bad Request (Bad Username Characters)", func(t *testing.T) {
		reqBody := models.RegisterRequest{Username: "not a name!", Password: testPassword}
		res := doJSON(t, http.MethodPost, env.server.URL+"/user/register", reqBody, "")
		defer res.Body.Close()
		assert.Equal(http.StatusBadRequest, res.StatusCode)
	})

	t.Run("Login Success", func(t *testing.T) {
		reqBody := models.LoginRequest{Username: "alice", Password: testPassword}
		res := doJSON(t, http.MethodPost, env.server.URL+"/user/login", reqBody, "")
		assert.Equal(http.StatusOK, res.StatusCode)

		var resBody models.LoginResponse
		decodeBody(t, res, &resBody)
		assert.Equal("alice", resBody.Username)
		assert.Equal("bearer", resBody.TokenType)
		assert.NotEmpty(resBody.ID)
		assert.NotEmpty(resBody.AccessToken)

		subject, err := auth.ValidateJWT(resBody.AccessToken, testSecret, "HS256")
		assert.NoError(err, "Returned token should be valid")
		assert.Equal("alice", subject)
	})

	t.Run("Login Unauthorized (Wrong Password)", func(t *testing.T) {
		reqBody := models.LoginRequest{Username: "alice", Password: "IncorrectPassword"}
		res := doJSON(t, http.MethodPost, env.server.URL+"/user/login", reqBody, "")
		defer res.Body.Close()
		assert.Equal(http.StatusUnauthorized, res.StatusCode)
		assert.Equal("Bearer", res.Header.Get("WWW-Authenticate"))
	})

	t.Run("Login Unauthorized (Unknown User)", func(t *testing.T) {
		reqBody := models.LoginRequest{Username: "nosuchuser", Password: "anyPassword1"}
		res := doJSON(t, http.MethodPost, env.server.URL+"/user/login", reqBody, "")
		defer res.Body.Close()
		assert.Equal(http.StatusUnauthorized, res.StatusCode)
	})
}

// TestUploadEndpoint covers /user/upload.
func TestUploadEndpoint(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()

	assert := assert.New(t)

	registerAndLogin(t, env, "/admin", "bob")
	userToken := registerAndLogin(t, env, "/user", "alice")
	registerAndLogin(t, env, "/user", "charlie")

	uploadBody := models.AssignmentCreateRequest{
		UserID: "2021-CS-042",
		Task:   "Operating systems lab 3",
		Admin:  "bob",
	}

	t.Run("Upload Unauthorized (No Token)", func(t *testing.T) {
		res := doJSON(t, http.MethodPost, env.server.URL+"/user/upload", uploadBody, "")
		defer res.Body.Close()
		assert.Equal(http.StatusUnauthorized, res.StatusCode)
	})

	t.Run("Upload Unauthorized (Garbage Token)", func(t *testing.T) {
		res := doJSON(t, http.MethodPost, env.server.URL+"/user/upload", uploadBody, "not.a.token")
		defer res.Body.Close()
		assert.Equal(http.StatusUnauthorized, res.StatusCode)
	})

	t.Run("Upload Unauthorized (Wrong Auth Scheme)", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPost, env.server.URL+"/user/upload", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		res, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer res.Body.Close()
		assert.Equal(http.StatusUnauthorized, res.StatusCode)
	})

	t.Run("Upload Unauthorized (Expired Token)", func(t *testing.T) {
		expired, err := auth.GenerateJWT("alice", testSecret, "HS256", -time.Minute)
		require.NoError(t, err)

		res := doJSON(t, http.MethodPost, env.server.URL+"/user/upload", uploadBody, expired)
		defer res.Body.Close()
		assert.Equal(http.StatusUnauthorized, res.StatusCode)
		assert.Equal("Bearer", res.Header.Get("WWW-Authenticate"))
	})

	t.Run("Upload Not Found (Unknown Admin)", func(t *testing.T) {
		body := uploadBody
		body.Admin = "ghost"
		res := doJSON(t, http.MethodPost, env.server.URL+"/user/upload", body, userToken)
		assert.Equal(http.StatusNotFound, res.StatusCode)

		var resBody map[string]string
		decodeBody(t, res, &resBody)
		assert.Equal("Admin 'ghost' not found.", resBody["error"])
	})

	t.Run("Upload Not Found (Target Is Not An Admin)", func(t *testing.T) {
		body := uploadBody
		body.Admin = "charlie"
		res := doJSON(t, http.MethodPost, env.server.URL+"/user/upload", body, userToken)
		defer res.Body.Close()
		assert.Equal(http.StatusNotFound, res.StatusCode)
	})

	t.Run("Upload Bad Request (Missing Task)", func(t *testing.T) {
		body := models.AssignmentCreateRequest{UserID: "2021-CS-042", Admin: "bob"}
		res := doJSON(t, http.MethodPost, env.server.URL+"/user/upload", body, userToken)
		defer res.Body.Close()
		assert.Equal(http.StatusBadRequest, res.StatusCode)
	})

	t.Run("Upload Success", func(t *testing.T) {
		res := doJSON(t, http.MethodPost, env.server.URL+"/user/upload", uploadBody, userToken)
		assert.Equal(http.StatusOK, res.StatusCode)

		var resBody models.AssignmentCreateResponse
		decodeBody(t, res, &resBody)
		assert.Equal("Assignment uploaded successfully", resBody.Message)

		id, err := primitive.ObjectIDFromHex(resBody.ID)
		require.NoError(t, err, "Returned ID should be a hex ObjectID")

		stored, ok := env.assignments.Get(id)
		require.True(t, ok, "Assignment should exist in the store")
		assert.Equal(domain.StatusPending, stored.Status)
		assert.Equal("bob", stored.Admin)
		assert.Equal("2021-CS-042", stored.UserID)
		assert.Equal("Operating systems lab 3", stored.Task)

		alice, err := env.users.FindByUsername(context.Background(), "alice")
		require.NoError(t, err)
		assert.Equal(alice.ID, stored.OwnerID)

		bob, err := env.users.FindByUsername(context.Background(), "bob")
		require.NoError(t, err)
		assert.Equal(bob.ID, stored.AdminID)
	})
}

// TestAdminsEndpoint covers /user/admins.
func TestAdminsEndpoint(t *testing.T) {
	assert := assert.New(t)

	t.Run("No Admins Registered", func(t *testing.T) {
		env, cleanup := setupTestServer(t)
		defer cleanup()

		token := registerAndLogin(t, env, "/user", "alice")
		res := doJSON(t, http.MethodGet, env.server.URL+"/user/admins", nil, token)
		assert.Equal(http.StatusNotFound, res.StatusCode)

		var resBody map[string]string
		decodeBody(t, res, &resBody)
		assert.Equal("No admins found.", resBody["error"])
	})

	t.Run("Admins Listed Sorted", func(t *testing.T) {
		env, cleanup := setupTestServer(t)
		defer cleanup()

		registerAndLogin(t, env, "/admin", "carol")
		registerAndLogin(t, env, "/admin", "bob")
		token := registerAndLogin(t, env, "/user", "alice")

		res := doJSON(t, http.MethodGet, env.server.URL+"/user/admins", nil, token)
		assert.Equal(http.StatusOK, res.StatusCode)

		var resBody models.AdminListResponse
		decodeBody(t, res, &resBody)
		require.Len(t, resBody.Admins, 2)
		assert.Equal("bob", resBody.Admins[0].Username)
		assert.Equal("carol", resBody.Admins[1].Username)
		assert.NotEmpty(resBody.Admins[0].ID)
	})

	t.Run("Unauthorized Without Token", func(t *testing.T) {
		env, cleanup := setupTestServer(t)
		defer cleanup()

		res := doJSON(t, http.MethodGet, env.server.URL+"/user/admins", nil, "")
		defer res.Body.Close()
		assert.Equal(http.StatusUnauthorized, res.StatusCode)
	})

	t.Run("Inactive User Rejected", func(t *testing.T) {
		env, cleanup := setupTestServer(t)
		defer cleanup()

		registerAndLogin(t, env, "/admin", "bob")

		hash, err := auth.HashPassword(testPassword)
		require.NoError(t, err)
		_, err = env.users.Create(context.Background(), &domain.User{
			Username:     "sleepy",
			PasswordHash: hash,
			Role:         domain.RoleUser,
			IsActive:     false,
			CreatedAt:    time.Now().UTC(),
		})
		require.NoError(t, err)

		// Login itself is allowed for inactive accounts; only protected
		// endpoints reject them.
		res := doJSON(t, http.MethodPost, env.server.URL+"/user/login",
			models.LoginRequest{Username: "sleepy", Password: testPassword}, "")
		var loginRes models.LoginResponse
		decodeBody(t, res, &loginRes)
		require.Equal(t, http.StatusOK, res.StatusCode)

		res = doJSON(t, http.MethodGet, env.server.URL+"/user/admins", nil, loginRes.AccessToken)
		assert.Equal(http.StatusBadRequest, res.StatusCode)

		var resBody map[string]string
		decodeBody(t, res, &resBody)
		assert.Equal("Inactive user", resBody["error"])
	})
}
