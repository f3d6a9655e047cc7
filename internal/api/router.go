package api

import (
	"net/http"

	_ "github.com/aaravmahajanofficial/users-api/docs"
	"github.com/aaravmahajanofficial/users-api/internal/api/handlers"
	"github.com/aaravmahajanofficial/users-api/internal/api/middleware"
	"github.com/aaravmahajanofficial/users-api/internal/metrics"
	repository "github.com/aaravmahajanofficial/users-api/internal/repositories"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Dependencies struct {
	UserHandler *handlers.UserHandler
	Health      http.Handler
	// RateLimiter is optional, nil disables rate limiting.
	RateLimiter repository.RateLimitRepository
	ServiceName string
}

func NewRouter(deps Dependencies) http.Handler {

	var usersHandler http.Handler = deps.UserHandler
	if deps.RateLimiter != nil {
		usersHandler = middleware.RateLimit(deps.RateLimiter)(usersHandler)
	}

	routerMux := http.NewServeMux()
	routerMux.Handle(handlers.UsersPath, usersHandler)
	routerMux.Handle(handlers.UsersPath+"/", usersHandler)
	routerMux.Handle("GET /metrics", metrics.Handler())
	routerMux.Handle("GET /swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	if deps.Health != nil {
		routerMux.Handle("GET /health", deps.Health)
	}

	// everything else, any method
	routerMux.Handle("/", deps.UserHandler.NotFound())

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = middleware.Recovery(handler)
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)
	handler = otelhttp.NewHandler(handler, deps.ServiceName)

	return handler
}
