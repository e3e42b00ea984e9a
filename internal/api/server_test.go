package api

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mylibapp/mylib-server/internal/auth"
	"github.com/mylibapp/mylib-server/internal/cache"
	"github.com/mylibapp/mylib-server/internal/domain"
	"github.com/mylibapp/mylib-server/internal/mail"
	"github.com/mylibapp/mylib-server/internal/service"
	"github.com/mylibapp/mylib-server/internal/store"
)

// testServer wraps the API server with direct access to its backing pieces.
type testServer struct {
	*Server
	api    humatest.TestAPI
	store  *store.Store
	cache  *cache.Cache
	tokens *auth.TokenService
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	st, err := store.Open(filepath.Join(dir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	c, err := cache.Open(filepath.Join(dir, "cache"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	key := make([]byte, 32)
	_, err = rand.Read(key)
	require.NoError(t, err)
	tokens, err := auth.NewTokenService(hex.EncodeToString(key), 15*time.Minute)
	require.NoError(t, err)

	inv := service.NewInvalidator(c, logger)
	mailer := mail.NewLogMailer(logger)

	services := &Services{
		Auth:        service.NewAuthService(st, c, tokens, mailer, time.Minute, logger),
		Authors:     service.NewAuthorService(st, c, inv, logger),
		Books:       service.NewBookService(st, c, inv, logger),
		Genres:      service.NewGenreService(st, c, inv, logger),
		Collections: service.NewCollectionService(st, logger),
		Reviews:     service.NewReviewService(st, inv, logger),
	}

	s := NewServer(services, "http://localhost:3000", logger)
	t.Cleanup(s.Close)

	return &testServer{
		Server: s,
		api:    humatest.Wrap(t, s.api),
		store:  st,
		cache:  c,
		tokens: tokens,
	}
}

// registerUser registers an account through the API and returns its token and id.
func (ts *testServer) registerUser(t *testing.T, email string) (token string, id int64) {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"name":     "user " + email,
		"email":    email,
		"password": "long enough password",
	})
	require.Equal(t, http.StatusOK, resp.Code, "register failed: %s", resp.Body.String())

	var body AuthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	return body.Token, body.User.ID
}

// registerAdmin registers an account and promotes it to ADMIN directly in the
// store. Roles are read fresh per request, so the token stays usable.
func (ts *testServer) registerAdmin(t *testing.T, email string) string {
	t.Helper()
	token, id := ts.registerUser(t, email)
	require.NoError(t, ts.store.SetUserRole(context.Background(), id, domain.RoleAdmin))
	return token
}

func bearer(token string) string {
	return "Authorization: Bearer " + token
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func TestHealth(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "healthy")
}

func TestRegisterAndLogin(t *testing.T) {
	ts := setupTestServer(t)

	token, _ := ts.registerUser(t, "alice@example.com")
	assert.NotEmpty(t, token)

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "alice@example.com",
		"password": "long enough password",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var body AuthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "alice@example.com", body.User.Email)
	assert.Equal(t, "USER", body.User.Role)

	resp = ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "alice@example.com",
		"password": "wrong password!!",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "UNAUTHORIZED")
}

func TestMutationsRequireAuth(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/authors", map[string]any{"name": "Nope"})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.api.Post("/api/v1/authors", "Authorization: NotBearer xyz",
		map[string]any{"name": "Nope"})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.api.Get("/api/v1/collections")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestExchangeCode_UnknownReportsExpired(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/exchange-code", map[string]any{"code": "NOPE9"})
	assert.Equal(t, http.StatusRequestTimeout, resp.Code)
	assert.Contains(t, resp.Body.String(), "CODE_EXPIRED")
}

func TestVerifyFlow_OverHTTP(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()

	_, id := ts.registerUser(t, "erin@example.com")

	resp := ts.api.Post("/api/v1/auth/request-verify", map[string]any{"email": "erin@example.com"})
	require.Equal(t, http.StatusOK, resp.Code)

	// The test mailer only logs the code, so plant a known one directly.
	u, err := ts.store.GetUser(ctx, id)
	require.NoError(t, err)
	actionToken, err := ts.tokens.GenerateActionToken(u, auth.PurposeVerify, time.Minute)
	require.NoError(t, err)
	require.NoError(t, ts.cache.PutCode("TEST1", actionToken, time.Minute))

	resp = ts.api.Post("/api/v1/auth/exchange-code", map[string]any{"code": "TEST1"})
	require.Equal(t, http.StatusOK, resp.Code)

	var tokenBody TokenResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &tokenBody))

	resp = ts.api.Post("/api/v1/auth/verify", map[string]any{"token": tokenBody.Token})
	require.Equal(t, http.StatusOK, resp.Code)

	got, err := ts.store.GetUser(ctx, id)
	require.NoError(t, err)
	assert.True(t, got.IsVerified)

	// The code was consumed.
	resp = ts.api.Post("/api/v1/auth/exchange-code", map[string]any{"code": "TEST1"})
	assert.Equal(t, http.StatusRequestTimeout, resp.Code)
}
