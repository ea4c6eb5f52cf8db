package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/election-portal/internal/config"
	"github.com/gravadigital/election-portal/internal/handlers"
	"github.com/gravadigital/election-portal/internal/middleware/auth"
	"github.com/gravadigital/election-portal/internal/services"
)

type openElection struct{}

func (openElection) IsVotingOpen(context.Context) (bool, error) { return true, nil }
func (openElection) VotingStatus(context.Context) (*services.AdminStatus, error) {
	return &services.AdminStatus{IsVotingOpen: true}, nil
}
func (openElection) OpenVoting(context.Context) (*services.AdminStatus, error)  { return nil, nil }
func (openElection) CloseVoting(context.Context) (*services.AdminStatus, error) { return nil, nil }
func (openElection) ClearDatabase(context.Context) (int64, error)              { return 0, nil }

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.GinMode = gin.TestMode
	cfg.CORS.AllowOrigins = "http://localhost:3000"
	cfg.CORS.AllowMethods = "GET,POST,PUT,DELETE,OPTIONS"
	cfg.CORS.AllowHeaders = "Origin,Content-Type,Authorization"
	cfg.Auth.JWTSecret = "server-test-secret"
	cfg.Auth.Issuer = "election-portal"
	return cfg
}

func token(t *testing.T, cfg *config.Config, subject, role string) string {
	t.Helper()
	claims := auth.Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    cfg.Auth.Issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Auth.JWTSecret))
	require.NoError(t, err)
	return signed
}

func newTestServer(health func(context.Context) error) (*Server, *config.Config) {
	cfg := testConfig()
	h := Handlers{Election: handlers.NewElectionHandler(openElection{})}
	return NewWithHandlers(cfg, h, health), cfg
}

func do(router *gin.Engine, method, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPing(t *testing.T) {
	srv, _ := newTestServer(nil)
	w := do(srv.Router(), http.MethodGet, "/ping", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")

	srv, _ = newTestServer(func(context.Context) error { return errors.New("db down") })
	w = do(srv.Router(), http.MethodGet, "/ping", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "unhealthy")
}

func TestAPIRequiresToken(t *testing.T) {
	srv, cfg := newTestServer(nil)
	router := srv.Router()

	w := do(router, http.MethodGet, "/api/election/status", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(router, http.MethodGet, "/api/election/status", token(t, cfg, "voter-1", auth.RoleVoter))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"isVotingOpen":true`)
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	srv, cfg := newTestServer(nil)
	router := srv.Router()

	w := do(router, http.MethodGet, "/api/admin/voting-status", token(t, cfg, "voter-1", auth.RoleVoter))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(router, http.MethodGet, "/api/admin/voting-status", token(t, cfg, "admin-1", auth.RoleAdmin))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := newTestServer(nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/election/status", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestStopWithoutStart(t *testing.T) {
	srv, _ := newTestServer(nil)
	assert.NoError(t, srv.Stop(t.Context()))
}
