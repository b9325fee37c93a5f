package http

import (
	"context"
	"log/slog"

	"github.com/geocoder89/pcblog/internal/authz"
	"github.com/geocoder89/pcblog/internal/config"
	"github.com/geocoder89/pcblog/internal/http/handlers"
	"github.com/geocoder89/pcblog/internal/http/middlewares"
	"github.com/geocoder89/pcblog/internal/observability"
	"github.com/geocoder89/pcblog/internal/storage"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// PostRepository is the post store plus the owner lookup used for authorization.
type PostRepository interface {
	handlers.PostStore
	authz.OwnerLookup
}

// TokenService issues tokens at login and verifies them on protected routes.
type TokenService interface {
	handlers.TokenIssuer
	middlewares.TokenVerifier
}

type Deps struct {
	Log    *slog.Logger
	Config config.Config

	Users  handlers.UserStore
	Posts  PostRepository
	Images storage.ImageStore
	// ImageDir is served at /images when uploads are kept on local disk.
	ImageDir string
	Tokens   TokenService
	Hasher   handlers.PasswordHasher
	Prom     *observability.Prom

	// Ping reports database readiness, nil when running on in-memory stores.
	Ping func(ctx context.Context) error
	// ShuttingDown flips readiness off while the server drains.
	ShuttingDown func() bool
}

func NewRouter(d Deps) *gin.Engine {
	if d.Config.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	log := d.Log
	if log == nil {
		log = slog.Default()
	}

	r := gin.New()
	r.MaxMultipartMemory = d.Config.MaxUploadBytes

	// middleware
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(otelgin.Middleware(observability.ServiceName))
	if d.Prom != nil {
		r.Use(d.Prom.GinHandleMiddleware())
	}
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(d.Config.CORSOrigins))

	// leave room for multipart framing around the file itself
	if d.Config.MaxUploadBytes > 0 {
		r.Use(middlewares.MaxBodyBytes(d.Config.MaxUploadBytes + 1<<20))
	}

	// health
	h := handlers.NewHealthHandler(d.Ping, d.ShuttingDown)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if d.Prom != nil {
		r.GET("/metrics", gin.WrapH(d.Prom.Handler()))
	}

	r.GET("/docs", handlers.SwaggerUI)
	r.GET("/docs/openapi.yaml", handlers.OpenAPISpec)

	if d.ImageDir != "" {
		r.Static("/images", d.ImageDir)
	}

	authMw := middlewares.NewAuthMiddleware(d.Tokens)
	requireAuth := authMw.RequireAuth()

	// Wire up handlers
	usersHandler := handlers.NewUsersHandler(d.Users, d.Hasher, d.Tokens)
	postsHandler := handlers.NewPostsHandler(d.Posts, authz.NewAuthorizer(d.Posts), d.Images)

	api := r.Group("/api")

	users := api.Group("/users")
	users.Use(middlewares.RequireJSON())
	{
		users.POST("/register", usersHandler.Register)
		users.POST("/login", usersHandler.Login)
		users.GET("/profile", requireAuth, usersHandler.Profile)
	}

	// the body type is only checked once the caller is known
	postBody := middlewares.RequireContentType(middlewares.MIMEJSON, middlewares.MIMEMultipart)

	pcs := api.Group("/pcs")
	{
		pcs.GET("", postsHandler.List)
		pcs.GET("/my", requireAuth, postsHandler.ListMine)
		pcs.GET("/:id", postsHandler.Get)
		pcs.POST("", requireAuth, postBody, postsHandler.Create)
		pcs.PUT("/:id", requireAuth, postBody, postsHandler.Update)
		pcs.DELETE("/:id", requireAuth, postsHandler.Delete)
	}

	return r
}
