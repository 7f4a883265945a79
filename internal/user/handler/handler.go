package handler

import (
	"errors"
	"net/http"
	"strings"

	"user-service/internal/auth/credentials"
	"user-service/internal/middleware"
	"user-service/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// upsertPassword is the hash source for users created through PUT,
// matching the seed password the tutorial data uses for such records.
const upsertPassword = "asd123"

type Handler struct {
	users user.Repository
	log   *zap.SugaredLogger
}

func NewHandler(users user.Repository, log *zap.SugaredLogger) *Handler {
	return &Handler{users: users, log: log}
}

// RegisterRoutes mounts the user routes. Every mutating route sits
// behind the authentication middleware.
func (h *Handler) RegisterRoutes(g *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	g.GET("/users", h.List)
	g.GET("/user/:username", h.Get)

	guarded := g.Group("")
	guarded.Use(auth.RequireAuth())
	guarded.POST("/user", h.Onboard)
	guarded.POST("/onboard", h.Onboard)
	guarded.PUT("/user/:username", h.Put)
	guarded.PATCH("/user/:username", h.Patch)
	guarded.DELETE("/user/:username", h.Delete)
}

type onboardRequest struct {
	Firstname string `json:"firstname" binding:"required,min=3,max=12"`
	Lastname  string `json:"lastname" binding:"required,min=3,max=12"`
	Username  string `json:"username" binding:"required,min=2,max=12"`
	Password  string `json:"password" binding:"required,min=6,max=12"`
}

type putRequest struct {
	Firstname string `json:"firstname" binding:"required"`
	Lastname  string `json:"lastname" binding:"required"`
}

type patchRequest struct {
	Firstname *string `json:"firstname" binding:"omitempty,min=3,max=30"`
	Lastname  *string `json:"lastname" binding:"omitempty,min=3,max=30"`
}

// List returns all users, or the ones whose first or last name
// contains the query substring.
func (h *Handler) List(c *gin.Context) {
	contains, present := c.GetQuery("contains")
	if !present {
		users, err := h.users.List(c.Request.Context())
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, users)
		return
	}

	if contains == "" || len(contains) > 10 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid query parameter"})
		return
	}

	users, err := h.users.Search(c.Request.Context(), contains)
	if err != nil {
		h.fail(c, err)
		return
	}
	if len(users) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No matching user found"})
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *Handler) Get(c *gin.Context) {
	u, err := h.users.GetByUsername(c.Request.Context(), c.Param("username"))
	if errors.Is(err, user.ErrNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No matching username found"})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) Onboard(c *gin.Context) {
	var req onboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	hash, err := credentials.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid body", "fields": []string{"password"}})
		return
	}

	created, err := h.users.Create(c.Request.Context(), user.User{
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
		Username:  req.Username,
		Password:  hash,
	})
	if errors.Is(err, user.ErrUsernameTaken) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Username already exists"})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// Put replaces firstname/lastname, creating the record when the
// username does not exist yet.
func (h *Handler) Put(c *gin.Context) {
	var req putRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	hash, err := credentials.HashPassword(upsertPassword)
	if err != nil {
		h.fail(c, err)
		return
	}

	updated, err := h.users.Upsert(c.Request.Context(), user.User{
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
		Username:  c.Param("username"),
		Password:  hash,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Patch merges the supplied fields onto the existing record; omitted
// fields keep their value.
func (h *Handler) Patch(c *gin.Context) {
	var req patchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	updated, err := h.users.Merge(c.Request.Context(), c.Param("username"), user.Partial{
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
	})
	if errors.Is(err, user.ErrNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No matching username found"})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Delete removes a user. The identity bound to the active session may
// not delete itself.
func (h *Handler) Delete(c *gin.Context) {
	target := c.Param("username")

	if principal, ok := middleware.PrincipalFromContext(c.Request.Context()); ok && principal.Username == target {
		c.JSON(http.StatusForbidden, gin.H{
			"message": "You cannot delete yourself, try deleting other users",
		})
		return
	}

	deleted, err := h.users.Delete(c.Request.Context(), target)
	if errors.Is(err, user.ErrNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "User not found"})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "User deleted successfully",
		"deleteUser": gin.H{"username": deleted.Username},
	})
}

// fail logs the error and answers with a generic 500. Internal detail
// never reaches the response body.
func (h *Handler) fail(c *gin.Context, err error) {
	h.log.Errorw("user handler error", "path", c.Request.URL.Path, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
}

// invalidBody answers a binding failure with the list of offending
// fields.
func invalidBody(c *gin.Context, err error) {
	var verr validator.ValidationErrors
	if errors.As(err, &verr) {
		fields := make([]string, 0, len(verr))
		for _, fe := range verr {
			fields = append(fields, strings.ToLower(fe.Field()))
		}
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid body", "fields": fields})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid body"})
}
