package httpserver

import (
	"log/slog"
	"net/http"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// App is the resolved application handle.
	App http.Handler

	// Logger for recovered panics.
	Logger *slog.Logger

	// ServerSoftware is sent in the Server header when non-empty.
	ServerSoftware string
}

// NewRouter wraps the application with the server's own middleware.
// Order: Recover -> RequestID -> ServerHeader -> App
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	middlewares := []Middleware{Recover(log), RequestID()}
	if cfg.ServerSoftware != "" {
		middlewares = append(middlewares, ServerHeader(cfg.ServerSoftware))
	}
	return Chain(cfg.App, middlewares...)
}
