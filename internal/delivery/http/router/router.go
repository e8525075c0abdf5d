// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"ratehub/internal/delivery/http/middleware"
	"ratehub/internal/delivery/http/router/handler"
	"ratehub/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler    *handler.AuthHandler
	UserHandler    *handler.UserHandler
	StoreHandler   *handler.StoreHandler
	RatingHandler  *handler.RatingHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler    *handler.AuthHandler
	userHandler    *handler.UserHandler
	storeHandler   *handler.StoreHandler
	ratingHandler  *handler.RatingHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:    params.AuthHandler,
		userHandler:    params.UserHandler,
		storeHandler:   params.StoreHandler,
		ratingHandler:  params.RatingHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
// The RequireRole gates keep obviously unauthorized roles off the admin
// surfaces; ownership- and authorship-level checks run in the use cases.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/signup", r.authHandler.Signup)
		authGroup.POST("/login", r.authHandler.Login)
	}

	// Store routes all require authentication; admins get the management
	// surface on top.
	storeGroup := e.Group("/stores")
	storeGroup.Use(r.authMiddleware.Authenticate)
	{
		storeGroup.GET("", r.storeHandler.ListStores)
		storeGroup.GET("/:id", r.storeHandler.GetStore)
		storeGroup.GET("/owner/:id", r.storeHandler.GetStoreByOwner)
		storeGroup.GET("/:id/qrcode", r.storeHandler.GetStoreQRCode)
		storeGroup.POST("/qr-lookup", r.storeHandler.ResolveStoreQR)
		storeGroup.PUT("/:id", r.storeHandler.UpdateStore,
			r.authMiddleware.RequireRole(entity.RoleAdmin, entity.RoleStoreOwner))

		admin := storeGroup.Group("")
		admin.Use(r.authMiddleware.RequireRole(entity.RoleAdmin))
		admin.POST("", r.storeHandler.CreateStore)
		admin.DELETE("/:id", r.storeHandler.DeleteStore)
		admin.POST("/recompute-stats", r.ratingHandler.RecomputeAllStoreStats)
		admin.POST("/:id/recompute-stats", r.ratingHandler.RecomputeStoreStats)
	}

	// Rating routes all require authentication.
	ratingGroup := e.Group("/ratings")
	ratingGroup.Use(r.authMiddleware.Authenticate)
	{
		ratingGroup.POST("", r.ratingHandler.SubmitRating,
			r.authMiddleware.RequireRole(entity.RoleUser))
		ratingGroup.PUT("/:id", r.ratingHandler.UpdateRating,
			r.authMiddleware.RequireRole(entity.RoleUser))
		ratingGroup.GET("/store/:storeId", r.ratingHandler.ListStoreRatings,
			r.authMiddleware.RequireRole(entity.RoleAdmin, entity.RoleStoreOwner))
	}

	// User routes: password self-service plus the admin management surface.
	userGroup := e.Group("/users")
	userGroup.Use(r.authMiddleware.Authenticate)
	{
		userGroup.PUT("/me/password", r.userHandler.ChangePassword,
			r.authMiddleware.RequireRole(entity.RoleUser, entity.RoleStoreOwner))

		admin := userGroup.Group("")
		admin.Use(r.authMiddleware.RequireRole(entity.RoleAdmin))
		admin.GET("/stats", r.userHandler.GetStats)
		admin.GET("", r.userHandler.ListUsers)
		admin.POST("", r.userHandler.CreateUser)
		admin.GET("/:id", r.userHandler.GetUser)
		admin.PUT("/:id", r.userHandler.UpdateUser)
		admin.DELETE("/:id", r.userHandler.DeleteUser)
	}
}
