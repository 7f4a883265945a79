package handler

import (
	"net/http"

	"user-service/internal/auth"
	"user-service/internal/session"

	"github.com/gin-gonic/gin"
)

// Logout removes the principal from the session. The removal is
// persisted before success is acknowledged; if the store write fails
// the identity is restored so the caller sees unchanged state and may
// retry.
func (h *Handler) Logout(c *gin.Context) {
	sess := session.FromContext(c)
	if sess == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User session not active any more"})
		return
	}

	ident, ok := auth.IdentityFromSession(sess)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User session not active any more"})
		return
	}

	auth.Logout(sess)

	if err := h.sessionStore.Save(c.Request.Context(), sess); err != nil {
		sess.Set(auth.SessionKey, ident)
		h.log.Errorw("logout persist failed", "session_id", sess.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error trying to logout user"})
		return
	}

	h.log.Infow("logout successful", "username", ident.Username)
	c.JSON(http.StatusOK, gin.H{"message": "User logout successful"})
}
