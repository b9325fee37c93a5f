package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/geocoder89/pcblog/internal/actorctx"
	"github.com/geocoder89/pcblog/internal/auth"
	"github.com/gin-gonic/gin"
)

// ErrUnauthorized is the only failure the gate reports, whatever was wrong with the token.
var ErrUnauthorized = errors.New("unauthorized")

// Keep this small interface so tests can fake it easily.
type TokenVerifier interface {
	Verify(token string) (auth.Identity, error)
}

type AuthMiddleware struct {
	tokens TokenVerifier
}

func NewAuthMiddleware(tokens TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Authenticate resolves the identity behind a request's bearer token.
// It keeps no state between calls.
func (m *AuthMiddleware) Authenticate(r *http.Request) (auth.Identity, error) {
	raw, ok := bearerToken(r.Header.Get("Authorization"))
	if !ok {
		return auth.Identity{}, ErrUnauthorized
	}

	id, err := m.tokens.Verify(raw)
	if err != nil {
		return auth.Identity{}, ErrUnauthorized
	}

	return id, nil
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := m.Authenticate(c.Request)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":      "unauthorized",
					"message":   "Missing, invalid or expired access token",
					"requestId": c.GetString(CtxRequestID),
				},
			})
			return
		}

		// Stash identity on both contexts: gin for handlers, request context for logging
		c.Set(CtxIdentity, id)
		c.Request = c.Request.WithContext(actorctx.WithIdentity(c.Request.Context(), id))

		c.Next()
	}
}

// bearerToken accepts "Bearer <token>" with a case-insensitive scheme.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}

// IdentityFromContext spares handlers from knowing the context key.
func IdentityFromContext(c *gin.Context) (auth.Identity, bool) {
	v, ok := c.Get(CtxIdentity)
	if !ok {
		return auth.Identity{}, false
	}
	id, ok := v.(auth.Identity)
	return id, ok && id.ID > 0
}
