package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/martijn/jobboard/internal/core/service"
)

const (
	AuthHeaderKey      = "Authorization"
	IdentityContextKey = "identity"
)

// TokenValidator verifies a bearer token and returns its claims.
type TokenValidator interface {
	ValidateToken(token string) (*service.TokenClaims, error)
}

// Identity is the caller recovered from a valid bearer token.
type Identity struct {
	Username string
	IsAdmin  bool
}

// Authenticate stores the caller's identity in the context when a valid
// bearer token is present. A missing or invalid token is not an error here;
// the request simply stays anonymous and the route policies decide.
func Authenticate(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(strings.TrimSpace(authHeader), " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.Next()
			return
		}

		claims, err := tokens.ValidateToken(strings.TrimSpace(parts[1]))
		if err == nil {
			c.Set(IdentityContextKey, &Identity{Username: claims.Username, IsAdmin: claims.IsAdmin})
		}

		c.Next()
	}
}

// GetIdentity retrieves the caller identity from context
func GetIdentity(c *gin.Context) (*Identity, bool) {
	v, exists := c.Get(IdentityContextKey)
	if !exists {
		return nil, false
	}

	identity, ok := v.(*Identity)
	return identity, ok
}

// EnsureLoggedIn rejects anonymous requests.
func EnsureLoggedIn() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetIdentity(c); !ok {
			abortUnauthorized(c, "Unauthorized")
			return
		}
		c.Next()
	}
}

// EnsureAdmin rejects requests whose caller is not an admin.
func EnsureAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok || !identity.IsAdmin {
			abortUnauthorized(c, "Admin privileges required")
			return
		}
		c.Next()
	}
}

// EnsureAdminOrSelf lets through admins and the user named by the given
// route parameter.
func EnsureAdminOrSelf(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			abortUnauthorized(c, "Unauthorized")
			return
		}
		if !identity.IsAdmin && identity.Username != c.Param(param) {
			abortUnauthorized(c, "Unauthorized")
			return
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	_ = c.Error(service.Unauthorized("%s", message))
	c.Abort()
}
