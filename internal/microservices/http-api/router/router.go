// Package router assembles the gin engine for the v1 API.
package router

import (
	"fmt"
	"log/slog"
	"net/http"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/handler"
	"yamdb/internal/microservices/http-api/middleware"
	"yamdb/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Services are the collaborators the handlers are built from
type Services struct {
	Auth       service.AuthService
	Users      service.UserService
	Categories service.CatalogService
	Genres     service.CatalogService
	Titles     service.TitleService
	Reviews    service.ReviewService
	Comments   service.CommentService
}

// Options carries the optional infrastructure pieces
type Options struct {
	Logger         *slog.Logger
	Limits         handler.PageLimits
	HealthChecks   map[string]handler.HealthCheck
	Metrics        *middleware.Metrics
	MetricsHandler http.Handler
}

// New builds the engine with every route mounted under /v1
func New(svc Services, opts Options) (*gin.Engine, error) {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := dto.RegisterValidators(v); err != nil {
			return nil, fmt.Errorf("register validators: %w", err)
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	limits := opts.Limits
	if limits.Default == 0 {
		limits = handler.DefaultPageLimits
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Handler())
	}

	r.NoMethod(middleware.MethodNotAllowed)
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found", "kind": "not_found", "code": "route_not_found"})
	})

	handler.NewHealthHandler(opts.HealthChecks).RegisterRoutes(r)
	if opts.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(opts.MetricsHandler))
	}

	v1 := r.Group("/v1")
	v1.Use(middleware.OptionalAuth(svc.Auth))
	{
		handler.NewAuthHandler(svc.Auth).RegisterRoutes(v1)
		handler.NewCatalogHandler("/categories", svc.Categories, limits).RegisterRoutes(v1)
		handler.NewCatalogHandler("/genres", svc.Genres, limits).RegisterRoutes(v1)
		handler.NewTitleHandler(svc.Titles, limits).RegisterRoutes(v1)
		handler.NewReviewHandler(svc.Reviews, limits).RegisterRoutes(v1)
		handler.NewCommentHandler(svc.Comments, limits).RegisterRoutes(v1)
		handler.NewUserHandler(svc.Users, limits).RegisterRoutes(v1)
	}

	return r, nil
}
