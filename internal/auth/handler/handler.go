package handler

import (
	"net/http"

	"user-service/internal/auth"
	"user-service/internal/auth/credentials"
	"user-service/internal/session"
	"user-service/internal/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	verifier     credentials.Verifier
	sessionStore session.Store
	users        user.Repository
	log          *zap.SugaredLogger
}

func NewHandler(
	verifier credentials.Verifier,
	sessionStore session.Store,
	users user.Repository,
	log *zap.SugaredLogger,
) *Handler {
	return &Handler{
		verifier:     verifier,
		sessionStore: sessionStore,
		users:        users,
		log:          log,
	}
}

func (h *Handler) RegisterRoutes(g *gin.RouterGroup) {
	g.POST("/auth", h.Login)
	g.GET("/auth/status", h.Status)
	g.POST("/auth/logout", h.Logout)
}

// Status reports whether the session carries a live principal. The
// lookup re-hydrates the user on every call, so a deleted user reads
// as anonymous even while the session itself is still alive.
func (h *Handler) Status(c *gin.Context) {
	sess := session.FromContext(c)
	if sess == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	principal, err := auth.Deserialize(c.Request.Context(), h.users, sess)
	if err != nil {
		h.log.Errorw("principal lookup failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	if principal == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"username": principal.Username})
}
