package httpapi

import (
	"log/slog"
	"net/http"
)

type RouterConfig struct {
	Sessions           SessionResolver
	CORSAllowedOrigins []string
	TrustProxy         bool
	AuthLimiter        *ClientRateLimiter
	// Metrics is mounted at /metrics when non-nil.
	Metrics http.Handler
}

func NewRouter(handler *Handler, cfg RouterConfig, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, cfg.Metrics)
	registerAuthRoutes(mux, handler, cfg.AuthLimiter, cfg.TrustProxy)
	registerSessionRoutes(mux, handler, cfg.Sessions, logger)

	return RequestTracing(RequestLogging(logger, cfg.TrustProxy, CORS(cfg.CORSAllowedOrigins, recoverPanic(logger, mux))))
}

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, metrics http.Handler) {
	mux.HandleFunc("GET /health", handler.Health)
	mux.HandleFunc("GET /healthz", handler.Health)
	if metrics != nil {
		mux.Handle("GET /metrics", metrics)
	}
}

func registerAuthRoutes(mux *http.ServeMux, handler *Handler, limiter *ClientRateLimiter, trustProxy bool) {
	mux.Handle("GET /auth/login", RateLimit(limiter, trustProxy, http.HandlerFunc(handler.Login)))
	mux.Handle("GET /auth/callback", RateLimit(limiter, trustProxy, http.HandlerFunc(handler.Callback)))
}

func registerSessionRoutes(mux *http.ServeMux, handler *Handler, sessions SessionResolver, logger *slog.Logger) {
	mux.Handle("GET /api/me", RequireSession(sessions, handler.cookie, logger, http.HandlerFunc(handler.Me)))
	mux.Handle("GET /api/next-matchup", RequireSession(sessions, handler.cookie, logger, http.HandlerFunc(handler.NextMatchup)))
}

func recoverPanic(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec, "path", r.URL.Path)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
