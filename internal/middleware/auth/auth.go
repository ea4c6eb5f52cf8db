// Package auth verifies bearer tokens and exposes the caller's identity to
// handlers.
package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/gravadigital/election-portal/internal/response"
)

const (
	RoleVoter = "voter"
	RoleAdmin = "admin"

	voterIDKey = "voter_id"
	roleKey    = "role"
)

var (
	ErrMissingToken     = errors.New("authorization token is required")
	ErrInvalidToken     = errors.New("authorization token is invalid")
	ErrExpiredToken     = errors.New("authorization token is expired")
	ErrInvalidSignature = errors.New("authorization token signature is invalid")
	ErrUnknownRole      = errors.New("authorization token role is not recognized")
)

// Claims is the token payload. The subject is the voter id.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Verifier checks HS256 tokens signed with a shared secret.
type Verifier struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewVerifier creates a verifier. An empty issuer skips the issuer check.
func NewVerifier(secret, issuer string) *Verifier {
	return &Verifier{secret: []byte(secret), issuer: issuer, now: time.Now}
}

// Verify parses a raw token and returns its claims.
func (v *Verifier) Verify(raw string) (*Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrMissingToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, mapJWTError(err)
	}

	if strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrInvalidToken
	}
	if claims.Role != RoleVoter && claims.Role != RoleAdmin {
		return nil, ErrUnknownRole
	}
	return &claims, nil
}

// mapJWTError translates jwt library errors to auth errors.
func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpiredToken
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSignature
	default:
		return ErrInvalidToken
	}
}

// Required rejects requests without a valid bearer token and stores the
// caller's identity in the context.
func Required(v *Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			response.AbortWithError(c, http.StatusUnauthorized, ErrMissingToken.Error())
			return
		}

		claims, err := v.Verify(raw)
		if err != nil {
			response.AbortWithError(c, http.StatusUnauthorized, err.Error())
			return
		}

		c.Set(voterIDKey, claims.Subject)
		c.Set(roleKey, claims.Role)
		c.Next()
	}
}

// RequireRole lets only callers with the given role through. It must run
// after Required.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if Role(c) != role {
			response.AbortWithError(c, http.StatusForbidden, "You do not have permission to perform this action.")
			return
		}
		c.Next()
	}
}

// VoterID returns the authenticated voter id, or "".
func VoterID(c *gin.Context) string {
	return c.GetString(voterIDKey)
}

// Role returns the authenticated role, or "".
func Role(c *gin.Context) string {
	return c.GetString(roleKey)
}
