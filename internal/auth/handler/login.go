package handler

import (
	"errors"
	"net/http"

	"user-service/internal/auth"
	"user-service/internal/auth/credentials"
	"user-service/internal/session"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies the supplied credentials and serializes the principal
// into the session. Unknown username and wrong password produce the
// same response so usernames cannot be enumerated.
func (h *Handler) Login(c *gin.Context) {
	sess := session.FromContext(c)
	if sess == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	if _, ok := auth.IdentityFromSession(sess); ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "User already authenticated. Logout to login as different user",
		})
		return
	}

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid body"})
		return
	}

	u, err := h.verifier.Verify(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, credentials.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid user credentials"})
			return
		}
		h.log.Errorw("credential verification failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	auth.Login(sess, u)

	h.log.Infow("login successful", "username", u.Username)

	if n, err := h.sessionStore.Len(c.Request.Context()); err == nil {
		h.log.Infow("active sessions", "count", n)
	} else {
		h.log.Warnw("session count unavailable", "error", err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "User authenticated successfully"})
}
