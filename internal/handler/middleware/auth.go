package middleware

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"parq-core/internal/domain/auth"
	"parq-core/internal/handler/httperr"
	"parq-core/internal/pkg/errs"
	"parq-core/internal/usecase"

	"github.com/gin-gonic/gin"
)

type AuthMiddleware struct {
	tokenValidator usecase.TokenValidator
}

const ctxActorKey = "actor"

var (
	errTokenRequired = errs.Mark(errs.New("access token required"), errs.ErrUnauthenticated)
	errTokenInvalid  = errs.Mark(errs.New("invalid or expired token"), errs.ErrUnauthenticated)
)

func NewAuthMiddleware(tokenValidator usecase.TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{
		tokenValidator: tokenValidator,
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(authHeader[len("Bearer "):])
	}
	return ""
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			httperr.AbortWithError(c, http.StatusUnauthorized, errTokenRequired, "Access token required", nil)
			return
		}

		actor, err := m.tokenValidator.ValidateToken(token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			httperr.AbortWithError(c, http.StatusUnauthorized, errTokenInvalid, "Invalid or expired token", nil)
			return
		}

		c.Set(ctxActorKey, actor)
		c.Next()
	}
}

// RequireRole rejects callers whose role is not listed. Run it after
// RequireAuth. Ownership checks stay with the core's authorizer.
func (m *AuthMiddleware) RequireRole(roles ...auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			// Unexpected error: should be used after RequireAuth()
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": gin.H{"message": "Internal server error"},
			})
			c.Abort()
			return
		}

		if !slices.Contains(roles, actor.Role) {
			httperr.AbortWithError(c, http.StatusForbidden, errs.ErrNotAuthorized, "Insufficient permissions", nil)
			return
		}

		c.Next()
	}
}

func GetActor(c *gin.Context) (auth.Actor, bool) {
	v, exists := c.Get(ctxActorKey)
	if !exists {
		return auth.Actor{}, false
	}

	actor, ok := v.(auth.Actor)
	return actor, ok
}

// SetActor is used by tests that bypass token parsing.
func SetActor(c *gin.Context, actor auth.Actor) {
	c.Set(ctxActorKey, actor)
}
