package product

import (
	"net/http"
	"time"

	"user-service/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SampleToken is the opaque token the signed cookie must carry for the
// products endpoint to answer.
const SampleToken = "sample123"

type Handler struct {
	products Repository
	secret   string
	maxAge   time.Duration
	log      *zap.SugaredLogger
}

func NewHandler(products Repository, secret string, maxAge time.Duration, log *zap.SugaredLogger) *Handler {
	return &Handler{products: products, secret: secret, maxAge: maxAge, log: log}
}

func (h *Handler) RegisterRoutes(g *gin.RouterGroup) {
	g.GET("/products", h.List)
}

// IssueToken hands the client the signed sample token cookie. Mounted
// at the root route.
func (h *Handler) IssueToken(c *gin.Context) {
	session.SetTokenCookie(c.Writer, SampleToken, h.maxAge, h.secret, session.CookieOptions{
		SameSite: http.SameSiteLaxMode,
	})
	c.JSON(http.StatusOK, gin.H{"message": "Cookie issued"})
}

// List answers only when the request carries a validly signed token
// cookie with the expected value.
func (h *Handler) List(c *gin.Context) {
	token, ok := session.ReadTokenCookie(c.Request, h.secret)
	if !ok || token != SampleToken {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid cookie"})
		return
	}

	products, err := h.products.List(c.Request.Context())
	if err != nil {
		h.log.Errorw("product listing failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, products)
}
