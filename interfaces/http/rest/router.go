// Package rest wires the HTTP surface: routing, middleware, and the handlers
// that translate requests into commands and queries.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"hivemind/application/commands/bus"
	querybus "hivemind/application/queries/bus"
	"hivemind/application/services"
	"hivemind/interfaces/http/rest/handlers"
	"hivemind/interfaces/http/rest/middleware"
	"hivemind/pkg/auth"
)

// Router creates and configures the HTTP router
type Router struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	accounts   *services.AccountService
	generator  *auth.JWTGenerator
	validator  *auth.JWTValidator
	enableCORS bool
	logger     *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	accounts *services.AccountService,
	generator *auth.JWTGenerator,
	validator *auth.JWTValidator,
	enableCORS bool,
	logger *zap.Logger,
) *Router {
	return &Router{
		commandBus: commandBus,
		queryBus:   queryBus,
		accounts:   accounts,
		generator:  generator,
		validator:  validator,
		enableCORS: enableCORS,
		logger:     logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.enableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	router.Route("/api/v1", func(r chi.Router) {
		// Account endpoints are the only unauthenticated routes
		r.Route("/user", func(r chi.Router) {
			userHandler := handlers.NewUserHandler(rt.accounts, rt.generator, rt.logger)
			r.Post("/register", userHandler.Register)
			r.Post("/login", userHandler.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(rt.validator, rt.logger))

			// Graph endpoints inside a hive
			r.Route("/hive", func(r chi.Router) {
				hiveHandler := handlers.NewHiveHandler(rt.commandBus, rt.queryBus, rt.logger)
				r.Post("/point", hiveHandler.CreatePoint)
				r.Post("/synapse", hiveHandler.CreateSynapse)
				r.Post("/respond", hiveHandler.Respond)
				r.Get("/subgraph", hiveHandler.GetSubgraph)
				r.Get("/search", hiveHandler.SearchPoints)
				r.Delete("/last-item", hiveHandler.DeleteLastItem)
			})

			// Hive lifecycle and listing endpoints
			r.Route("/yard", func(r chi.Router) {
				yardHandler := handlers.NewYardHandler(rt.commandBus, rt.queryBus, rt.logger)
				r.Get("/", yardHandler.ListYard)
				r.Post("/hive", yardHandler.CreateHive)
				r.Get("/hive/{hiveID}", yardHandler.GetHive)
				r.Get("/saved", yardHandler.ListSaved)
				r.Post("/saved/{hiveID}", yardHandler.SaveHive)
				r.Delete("/saved/{hiveID}", yardHandler.ForgetHive)
			})
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
