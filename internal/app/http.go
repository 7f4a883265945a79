package app

import (
	"context"
	"net/http"

	authhandler "user-service/internal/auth/handler"

	"user-service/internal/auth/credentials"
	"user-service/internal/config"
	"user-service/internal/middleware"
	"user-service/internal/product"
	"user-service/internal/session"
	"user-service/internal/user"

	userhandler "user-service/internal/user/handler"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func setupHTTP(ctx context.Context, cfg config.Config, log *zap.SugaredLogger) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	var sessionStore session.Store
	if infra.Redis != nil {
		sessionStore = session.NewRedisStore(infra.Redis.Client)
	} else {
		sessionStore = session.NewMemoryStore()
		log.Infow("using in-memory session store")
	}

	var users user.Repository
	if infra.DB != nil {
		users = user.NewPostgresRepository(infra.DB)
	} else {
		mem := user.NewMemoryRepository()
		if err := seedUsers(ctx, mem); err != nil {
			return nil, nil, err
		}
		users = mem
		log.Infow("using in-memory user repository")
	}

	verifier := credentials.NewService(users)
	products := product.NewMemoryRepository()

	authHandler := authhandler.NewHandler(verifier, sessionStore, users, log)
	userHandler := userhandler.NewHandler(users, log)
	productHandler := product.NewHandler(products, cfg.CookieSecret, cfg.CookieMaxAge, log)

	authMiddleware := middleware.NewAuthMiddleware(users, log)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))
	router.Use(session.Middleware(sessionStore, log, session.MiddlewareOptions{
		Secret: cfg.CookieSecret,
		TTL:    cfg.SessionTTL,
		Cookie: session.CookieOptions{SameSite: http.SameSiteLaxMode},
	}))

	// ----------------------------
	// Routes
	// ----------------------------

	router.GET("/", productHandler.IssueToken)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	authHandler.RegisterRoutes(api)
	userHandler.RegisterRoutes(api, authMiddleware)
	productHandler.RegisterRoutes(api)

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, func() error {
		if infra.Redis != nil {
			_ = infra.Redis.Close()
		}
		if infra.DB != nil {
			return infra.DB.Close()
		}
		return nil
	}, nil
}

// seedUsers loads the demo users so tutorial mode has credentials to
// log in with.
func seedUsers(ctx context.Context, repo user.Repository) error {
	seeds := []struct {
		firstname, lastname, username, password string
	}{
		{"prasan", "bala", "pv", "Asd1234"},
		{"ganesh", "siva", "gs", "Asd123"},
		{"karthikeya", "siva", "ks", "Asd123"},
	}

	for _, s := range seeds {
		hash, err := credentials.HashPassword(s.password)
		if err != nil {
			return err
		}
		if _, err := repo.Create(ctx, user.User{
			Firstname: s.firstname,
			Lastname:  s.lastname,
			Username:  s.username,
			Password:  hash,
		}); err != nil {
			return err
		}
	}
	return nil
}
