package middleware

import (
	"context"
	"net/http"

	"user-service/internal/auth"
	"user-service/internal/session"
	"user-service/internal/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// unexported, collision-proof context key
type principalContextKeyType struct{}

var principalKey = principalContextKeyType{}

// PrincipalFromContext extracts the authenticated user from context.
func PrincipalFromContext(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(principalKey).(*user.User)
	return u, ok
}

type AuthMiddleware struct {
	Users user.Repository
	Log   *zap.SugaredLogger
}

func NewAuthMiddleware(users user.Repository, log *zap.SugaredLogger) *AuthMiddleware {
	return &AuthMiddleware{Users: users, Log: log}
}

// RequireAuth deserializes the session's principal reference back into
// a full user and attaches it to the request context. Requests whose
// session carries no live principal are rejected.
func (a *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := session.FromContext(c)
		if sess == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "User not authenticated",
			})
			return
		}

		principal, err := auth.Deserialize(c.Request.Context(), a.Users, sess)
		if err != nil {
			a.Log.Errorw("principal lookup failed", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"message": "Internal server error",
			})
			return
		}

		if principal == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "User not authenticated",
			})
			return
		}

		ctx := context.WithValue(c.Request.Context(), principalKey, principal)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
