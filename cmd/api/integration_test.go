//go:build integration
// +build integration

package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/election-portal/internal/config"
	"github.com/gravadigital/election-portal/internal/middleware/auth"
	"github.com/gravadigital/election-portal/internal/server"
	"github.com/gravadigital/election-portal/internal/storage/portraits"
	"github.com/gravadigital/election-portal/internal/storage/postgres"
)

// Integration tests that require a real PostgreSQL database
// Run with: go test -tags=integration

func testConfig() *config.Config {
	cfg := config.Load()
	if testDB := os.Getenv("TEST_DB_NAME"); testDB != "" {
		cfg.DB.Name = testDB
	}
	cfg.Server.GinMode = "test"
	cfg.Auth.JWTSecret = "integration-secret"
	return cfg
}

func bearer(t *testing.T, cfg *config.Config, subject, role string) string {
	t.Helper()
	claims := auth.Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    cfg.Auth.Issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Auth.JWTSecret))
	require.NoError(t, err)
	return "Bearer " + token
}

func TestDatabaseConnection(t *testing.T) {
	cfg := testConfig()

	db, err := postgres.Connect(t.Context(), cfg)
	require.NoError(t, err, "Should be able to connect to test database")
	defer postgres.Close(db)

	assert.NoError(t, postgres.HealthCheck(t.Context(), db), "Should be able to ping the database")
}

func TestElectionRoundTrip(t *testing.T) {
	cfg := testConfig()

	store, err := postgres.NewContainer(t.Context(), cfg)
	require.NoError(t, err)
	defer store.Close()

	router := server.New(cfg, store, &portraits.PublicStore{}).Router()
	admin := bearer(t, cfg, "admin-1", auth.RoleAdmin)
	voter := bearer(t, cfg, "voter-"+time.Now().Format("150405.000000"), auth.RoleVoter)

	call := func(method, path, token string, body any) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Authorization", token)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	call(http.MethodPost, "/api/admin/close-voting", admin, nil)
	require.Equal(t, http.StatusOK, call(http.MethodPost, "/api/admin/clear-database", admin, nil).Code)

	w := call(http.MethodPost, "/api/admin/open-voting", admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var positions struct {
		Data []struct {
			ID            string `json:"id"`
			MinSelectable int    `json:"minSelectable"`
		} `json:"data"`
	}
	w = call(http.MethodGet, "/api/positions?status=active&sortBy=order", voter, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &positions))
	require.NotEmpty(t, positions.Data)

	var candidates struct {
		Data []struct {
			ID         string `json:"id"`
			PositionID string `json:"positionId"`
		} `json:"data"`
	}
	w = call(http.MethodGet, "/api/candidates", voter, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &candidates))

	votes := map[string][]string{}
	for _, p := range positions.Data {
		need := max(p.MinSelectable, 1)
		for _, c := range candidates.Data {
			if c.PositionID == p.ID && len(votes[p.ID]) < need {
				votes[p.ID] = append(votes[p.ID], c.ID)
			}
		}
		break
	}

	w = call(http.MethodPost, "/api/votes/cast", voter, map[string]any{"votesByPosition": votes})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = call(http.MethodPost, "/api/votes/cast", voter, map[string]any{"votesByPosition": votes})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = call(http.MethodGet, "/api/votes/results", voter, nil)
	assert.Contains(t, w.Body.String(), `"isVotingOpen":true`)

	require.Equal(t, http.StatusOK, call(http.MethodPost, "/api/admin/close-voting", admin, nil).Code)
	w = call(http.MethodGet, "/api/votes/results", voter, nil)
	assert.Contains(t, w.Body.String(), `"votes":1`)
}
