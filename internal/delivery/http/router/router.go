// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"planmap/config"
	"planmap/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	Config      *config.Config
	PlanHandler *handler.PlanHandler
}

// router holds all the handlers that need to be registered.
type router struct {
	cfg         *config.Config
	planHandler *handler.PlanHandler
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		cfg:         params.Config,
		planHandler: params.PlanHandler,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	planGroup := e.Group("/api/plan")
	{
		planGroup.GET("", r.planHandler.ListPlans)
		planGroup.PUT("/:key", r.planHandler.SavePlan)
		planGroup.GET("/:key", r.planHandler.GetPlan)
		planGroup.DELETE("/:key", r.planHandler.DeletePlan)

		planGroup.POST("/:key/matrix", r.planHandler.BuildMatrix)
		planGroup.POST("/:key/solve", r.planHandler.Solve)
		planGroup.POST("/:key/result", r.planHandler.ApplyResult)
		planGroup.POST("/:key/replay", r.planHandler.Replay)
		planGroup.DELETE("/:key/result", r.planHandler.ClearResult)
	}

	// Test routes, enabled only in non-production configs
	if r.cfg.TestRoutes != nil && r.cfg.TestRoutes.Enabled {
		testHandler := handler.NewTestHandler()
		testGroup := e.Group("/test")
		{
			testGroup.GET("/public", testHandler.TestPublicEndpoint)
		}
	}
}
