package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func sign(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func claimsFor(subject, role string, ttl time.Duration) Claims {
	return Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    "election-portal",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
}

func TestVerifier_Verify(t *testing.T) {
	v := NewVerifier(testSecret, "election-portal")

	claims, err := v.Verify(sign(t, testSecret, claimsFor("voter-1", RoleVoter, time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, "voter-1", claims.Subject)
	assert.Equal(t, RoleVoter, claims.Role)
}

func TestVerifier_Rejects(t *testing.T) {
	v := NewVerifier(testSecret, "election-portal")

	noExpiry := claimsFor("voter-1", RoleVoter, time.Hour)
	noExpiry.ExpiresAt = nil
	wrongIssuer := claimsFor("voter-1", RoleVoter, time.Hour)
	wrongIssuer.Issuer = "someone-else"

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claimsFor("voter-1", RoleVoter, time.Hour)).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"empty", "", ErrMissingToken},
		{"garbage", "not.a.token", ErrInvalidToken},
		{"expired", sign(t, testSecret, claimsFor("voter-1", RoleVoter, -time.Minute)), ErrExpiredToken},
		{"wrong secret", sign(t, "other", claimsFor("voter-1", RoleVoter, time.Hour)), ErrInvalidSignature},
		{"alg none", none, ErrInvalidSignature},
		{"no expiry", sign(t, testSecret, noExpiry), ErrInvalidToken},
		{"wrong issuer", sign(t, testSecret, wrongIssuer), ErrInvalidToken},
		{"no subject", sign(t, testSecret, claimsFor("", RoleVoter, time.Hour)), ErrInvalidToken},
		{"unknown role", sign(t, testSecret, claimsFor("voter-1", "owner", time.Hour)), ErrUnknownRole},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(tt.token)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func newRouter(v *Verifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/me", Required(v), func(c *gin.Context) {
		c.String(http.StatusOK, VoterID(c)+":"+Role(c))
	})
	router.GET("/admin", Required(v), RequireRole(RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func TestRequired(t *testing.T) {
	v := NewVerifier(testSecret, "")
	router := newRouter(v)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+sign(t, testSecret, claimsFor("voter-7", RoleVoter, time.Hour)))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "voter-7:voter", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), ErrMissingToken.Error())
}

func TestRequireRole(t *testing.T) {
	v := NewVerifier(testSecret, "")
	router := newRouter(v)

	voter := sign(t, testSecret, claimsFor("voter-1", RoleVoter, time.Hour))
	admin := sign(t, testSecret, claimsFor("admin-1", RoleAdmin, time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+voter)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+admin)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
