package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/upb/tenant-services/app"
	"github.com/upb/tenant-services/handlers"
	"github.com/upb/tenant-services/middleware"
)

// SetupInfoRoutes configures the tenant info service routes and middleware
func SetupInfoRoutes(deps *app.InfoDependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.Instrument(deps.Metrics, deps.Logger, middleware.TextFaultResponder))

	info := handlers.NewInfoHandler(deps.Config.Tenant, deps.Logger)

	r.Get("/hello", info.HandleHello)
	r.Get("/health", info.HandleHealth)
	r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())

	r.NotFound(handlers.HandleNotFound)

	return r
}

// SetupGatewayRoutes configures the LLM gateway routes and middleware
func SetupGatewayRoutes(deps *app.GatewayDependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.Recover(deps.Logger, middleware.JSONFaultResponder))

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://*", "http://*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	gateway := handlers.NewGatewayHandler(deps.Inference, deps.Config.Gateway, deps.Logger)

	r.Get("/health", gateway.HandleHealth)
	r.Post("/infer", gateway.HandleInfer)
	r.Get("/info", gateway.HandleInfo)

	r.NotFound(handlers.HandleGatewayNotFound)
	r.MethodNotAllowed(handlers.HandleGatewayMethodNotAllowed)

	return r
}
