// Package httpapi exposes the authentication service over HTTP. Handlers
// translate between the JSON/redirect surface and the service layer, mapping
// service sentinels to HTTP statuses and the {code,message,data} envelope.
package httpapi

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/uscre/auth-service/internal/logging"
	"github.com/uscre/auth-service/internal/server/config"
	"github.com/uscre/auth-service/internal/server/models"
	"github.com/uscre/auth-service/internal/server/oauth"
	"github.com/uscre/auth-service/internal/server/services"
)

// AuthService is the slice of the auth orchestrator the HTTP layer consumes.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*models.User, string, error)
	VerifyEmail(ctx context.Context, token string) (*models.User, string, error)
	Login(ctx context.Context, email, password, ipAddress string) (string, string, error)
	LoginOrRegisterOAuth(ctx context.Context, provider string, identity oauth.Identity) (*models.User, string, error)
	UpdateProfile(ctx context.Context, userID string, update services.ProfileUpdate) (*models.User, error)
	GetUserFromToken(ctx context.Context, token string) (*models.User, error)
}

// AvatarService issues presigned storage URLs for avatar images.
type AvatarService interface {
	GetPresignedPutURL(ctx context.Context) (string, string, error)
	GetPresignedGetURL(ctx context.Context, key string) (string, error)
}

type Server struct {
	echo      *echo.Echo
	auth      AuthService
	avatars   AvatarService
	providers map[string]oauth.Provider
	config    *config.Config
	logger    logging.Logger
}

func NewServer(auth AuthService, avatars AvatarService, providers []oauth.Provider, cfg *config.Config, logger logging.Logger) *Server {
	s := &Server{
		auth:      auth,
		avatars:   avatars,
		providers: make(map[string]oauth.Provider, len(providers)),
		config:    cfg,
		logger:    logger,
	}
	for _, p := range providers {
		s.providers[p.Name()] = p
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.BodyLimit("1M"))
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.Recover())

	headers := []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: headers,
	}))

	s.registerRoutes(e)
	s.echo = e
	return s
}

func (s *Server) registerRoutes(e *echo.Echo) {
	authGroup := e.Group("/api/v1/auth")
	authGroup.POST("/register", s.register)
	authGroup.GET("/verify", s.verifyEmail)
	authGroup.POST("/login", s.login)
	authGroup.GET("/:provider/login", s.oauthLogin)
	authGroup.GET("/:provider/callback", s.oauthCallback)

	protected := authGroup.Group("", requireAuth(s.auth))
	protected.GET("/profile", s.getProfile)
	protected.PUT("/profile", s.updateProfile)

	avatars := e.Group("/api/v1/avatars", requireAuth(s.auth))
	avatars.GET("/upload-url", s.avatarUploadURL)
	avatars.GET("/url", s.avatarURL)
}

// Start blocks serving HTTP on the configured bind address.
func (s *Server) Start() error {
	s.logger.Info(context.Background(), "http server starting", "addr", s.config.EndpointAddrHTTP)
	return s.echo.Start(s.config.EndpointAddrHTTP)
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
