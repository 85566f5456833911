package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/akinalp/healthy/config"
	"github.com/akinalp/healthy/database"
	"github.com/akinalp/healthy/models"
	"github.com/akinalp/healthy/ws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(apiMax int) *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:             "test-secret",
			AccessTokenExpiry:  15,
			RefreshTokenExpiry: 7,
		},
		CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		RateLimit: config.RateLimitConfig{
			APIMax:          apiMax,
			APIWindow:       time.Minute,
			LoginMax:        10,
			LoginWindow:     time.Minute,
			MessageMax:      10,
			MessageWindow:   time.Second,
			MessageCooldown: time.Second,
			PostMax:         10,
			PostWindow:      time.Minute,
		},
	}
}

// newApp, main'deki wire-up'ı geçici bir SQLite ile kurar.
func newApp(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "app.db"), database.Migrations())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repos := initRepositories(db.Conn)
	hub := ws.NewHub()
	svcs, limiters := initServices(db.Conn, repos, hub, cfg)
	t.Cleanup(limiters.Close)

	registerHubCallbacks(hub, svcs.Friendship, repos.Group)

	h := initHandlers(db.Conn, svcs, limiters, hub, cfg)
	return buildHTTPHandler(cfg, h, svcs.Auth, repos.User, limiters)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
}

func call(t *testing.T, app http.Handler, method, path, token string, body any) (int, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.RemoteAddr = "203.0.113.7:5555"
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return rec.Code, env
}

func register(t *testing.T, app http.Handler, name, email string) models.AuthTokens {
	t.Helper()

	status, env := call(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": name, "email": email, "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, status, env.Error)

	var tokens models.AuthTokens
	require.NoError(t, json.Unmarshal(env.Data, &tokens))
	return tokens
}

func TestFriendToDirectMessageFlow(t *testing.T) {
	app := newApp(t, testConfig(1000))

	alice := register(t, app, "Alice", "alice@example.com")
	bob := register(t, app, "Bob", "Bob@Example.com")
	assert.Equal(t, "bob@example.com", bob.User.Email)

	// Arkadaş olmadan DM gönderilemez
	status, env := call(t, app, http.MethodPost, "/api/messages/dm/"+bob.User.ID, alice.AccessToken,
		map[string]string{"text": "hi"})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "not_friends", env.Code)

	status, env = call(t, app, http.MethodPost, "/api/friends/request", alice.AccessToken,
		map[string]string{"email": "BOB@example.com"})
	require.Equal(t, http.StatusCreated, status, env.Error)

	var request models.FriendRequestWithUser
	require.NoError(t, json.Unmarshal(env.Data, &request))

	status, _ = call(t, app, http.MethodPut, "/api/friends/request/"+request.ID+"/accept", bob.AccessToken, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = call(t, app, http.MethodPost, "/api/messages/dm/"+bob.User.ID, alice.AccessToken,
		map[string]string{"text": "  hello bob  "})
	require.Equal(t, http.StatusCreated, status)

	status, env = call(t, app, http.MethodGet, "/api/messages/dm/"+alice.User.ID, bob.AccessToken, nil)
	require.Equal(t, http.StatusOK, status)

	var thread []models.Message
	require.NoError(t, json.Unmarshal(env.Data, &thread))
	require.Len(t, thread, 1)
	assert.Equal(t, "hello bob", thread[0].Text)
	assert.Equal(t, []string{bob.User.ID}, thread[0].ReadBy)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := newApp(t, testConfig(1000))

	status, env := call(t, app, http.MethodGet, "/api/friends", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "unauthenticated", env.Code)

	status, _ = call(t, app, http.MethodGet, "/api/auth/me", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRefreshRotatesSession(t *testing.T) {
	app := newApp(t, testConfig(1000))
	tokens := register(t, app, "Carol", "carol@example.com")

	status, env := call(t, app, http.MethodPost, "/api/auth/refresh", "",
		map[string]string{"refresh_token": tokens.RefreshToken})
	require.Equal(t, http.StatusOK, status)

	var rotated models.AuthTokens
	require.NoError(t, json.Unmarshal(env.Data, &rotated))
	assert.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken)

	// Eski refresh token tek kullanımlık
	status, _ = call(t, app, http.MethodPost, "/api/auth/refresh", "",
		map[string]string{"refresh_token": tokens.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, env = call(t, app, http.MethodGet, "/api/auth/me", rotated.AccessToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.NotContains(t, string(env.Data), "password")
}

func TestGlobalIPLimit(t *testing.T) {
	app := newApp(t, testConfig(2))

	for i := 0; i < 2; i++ {
		status, _ := call(t, app, http.MethodGet, "/api/health", "", nil)
		require.Equal(t, http.StatusOK, status)
	}

	status, env := call(t, app, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Equal(t, "rate_limited", env.Code)
}
