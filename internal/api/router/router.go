package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	httpmiddleware "github.com/wolfman30/parley/internal/http/middleware"
	"github.com/wolfman30/parley/internal/webchat"
	"github.com/wolfman30/parley/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	ChatHandler        *webchat.Handler
	MetricsHandler     http.Handler
	RateLimiter        *httpmiddleware.RateLimiter
	CORSAllowedOrigins []string
	// ActiveSessions, when set, is reported by /health.
	ActiveSessions func() int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints (health checks, metrics)
	r.Group(func(public chi.Router) {
		public.Get("/health", healthHandler(cfg.ActiveSessions))
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	if cfg.ChatHandler != nil {
		r.Group(func(chat chi.Router) {
			if cfg.RateLimiter != nil {
				chat.Use(cfg.RateLimiter.Middleware)
			}

			// The websocket upgrade must not go through the compressor.
			chat.Get("/ws", cfg.ChatHandler.HandleWebSocket)

			chat.Route("/api", func(api chi.Router) {
				api.Use(middleware.Compress(5))
				api.Get("/personas", cfg.ChatHandler.HandlePersonas)
				api.Route("/sessions", func(r chi.Router) {
					r.Post("/", cfg.ChatHandler.HandleCreateSession)
					r.Route("/{id}", func(r chi.Router) {
						r.Delete("/", cfg.ChatHandler.HandleDelete)
						r.Post("/messages", cfg.ChatHandler.HandleMessage)
						r.Get("/history", cfg.ChatHandler.HandleHistory)
						r.Post("/reset", cfg.ChatHandler.HandleReset)
					})
				})
			})
		})
	}

	return otelhttp.NewHandler(r, "parley.http",
		otelhttp.WithSpanNameFormatter(func(_ string, req *http.Request) string {
			return req.Method + " " + req.URL.Path
		}),
	)
}

func healthHandler(activeSessions func() int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{"status": "ok"}
		if activeSessions != nil {
			resp["active_sessions"] = activeSessions()
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}
