package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/riskibarqy/fantasy-matchup/external/yahoo"
	"github.com/riskibarqy/fantasy-matchup/internal/config"
	"github.com/riskibarqy/fantasy-matchup/internal/domain/session"
	"github.com/riskibarqy/fantasy-matchup/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fantasy-matchup/internal/infrastructure/repository/postgres"
	redisrepo "github.com/riskibarqy/fantasy-matchup/internal/infrastructure/repository/redis"
	"github.com/riskibarqy/fantasy-matchup/internal/interfaces/httpapi"
	"github.com/riskibarqy/fantasy-matchup/internal/platform/dburl"
	"github.com/riskibarqy/fantasy-matchup/internal/platform/logging"
	"github.com/riskibarqy/fantasy-matchup/internal/platform/metrics"
	"github.com/riskibarqy/fantasy-matchup/internal/platform/resilience"
	"github.com/riskibarqy/fantasy-matchup/internal/usecase"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
)

const storePingTimeout = 5 * time.Second

// App is the assembled API process: the HTTP server plus the background
// session sweeper and the resources both depend on.
type App struct {
	Server        *http.Server
	Sessions      *usecase.SessionService
	SweepInterval time.Duration

	closers []func() error
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	if missing := cfg.YahooCredentialsMissing(); len(missing) > 0 {
		logger.Warn("yahoo oauth not configured; auth routes will report misconfiguration", "missing", missing)
	}

	upstream := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	provider := yahoo.NewClient(yahoo.ClientConfig{
		HTTPClient: upstream,
		BaseURL:    cfg.YahooAPIBaseURL,
		Timeout:    cfg.YahooAPITimeout,
		Logger:     logger,
		CircuitBreaker: resilience.BreakerConfig{
			Enabled:          cfg.YahooCircuitEnabled,
			FailureThreshold: cfg.YahooCircuitFailure,
			Cooldown:         cfg.YahooCircuitOpenFor,
		},
		Metrics: collector,
	})
	oauth := yahoo.NewOAuth(yahoo.OAuthConfig{
		ClientID:     cfg.YahooClientID,
		ClientSecret: cfg.YahooClientSecret,
		RedirectURL:  cfg.YahooRedirectURI,
		AuthURL:      cfg.YahooAuthURL,
		TokenURL:     cfg.YahooTokenURL,
		Scope:        cfg.YahooScope,
		HTTPClient:   upstream,
		Timeout:      cfg.YahooTokenTimeout,
		Logger:       logger,
	})

	a := &App{SweepInterval: cfg.SessionSweepInterval}

	repo, err := a.openSessionStore(ctx, cfg, logger)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	sessionSvc := usecase.NewSessionService(repo, logger)
	authSvc := usecase.NewAuthService(usecase.AuthServiceConfig{
		Provider:   oauth,
		Sessions:   repo,
		Recorder:   collector,
		Logger:     logger,
		SessionTTL: cfg.SessionMaxAge,
	})
	accountSvc := usecase.NewAccountService(provider)
	matchupSvc := usecase.NewMatchupService(provider, collector, logger)

	if cfg.SessionSecretDefault {
		logger.Warn("SESSION_SECRET not set; using the development default", "env", cfg.AppEnv)
	}
	cookie := httpapi.NewSessionCookie(httpapi.SessionCookieConfig{
		Name:   cfg.SessionCookieName,
		Secret: cfg.SessionSecret,
		Secure: cfg.SessionCookieSecure,
		MaxAge: cfg.SessionMaxAge,
	})

	var limiter *httpapi.ClientRateLimiter
	if cfg.AuthRateLimitRPS > 0 {
		limiter = httpapi.NewClientRateLimiter(cfg.AuthRateLimitRPS, cfg.AuthRateLimitBurst)
	}

	var metricsHandler http.Handler
	if cfg.MetricsEnabled {
		metricsHandler = metrics.Handler(registry)
	}

	handler := httpapi.NewHandler(authSvc, accountSvc, matchupSvc, cookie, cfg.AppOrigin, logger)
	router := httpapi.NewRouter(handler, httpapi.RouterConfig{
		Sessions:           sessionSvc,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		TrustProxy:         cfg.TrustProxy,
		AuthLimiter:        limiter,
		Metrics:            metricsHandler,
	}, logger.Slog())

	a.Sessions = sessionSvc
	a.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return a, nil
}

// Close releases the session store connections.
func (a *App) Close() error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}

func (a *App) openSessionStore(ctx context.Context, cfg config.Config, logger *logging.Logger) (session.Repository, error) {
	switch cfg.SessionStore {
	case config.SessionStorePostgres:
		db, err := otelsqlx.Open("postgres", dburl.Normalize(cfg.DBURL, cfg.DBDisablePreparedBinary),
			otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
			otelsql.WithDBName(dburl.Name(cfg.DBURL)),
			otelsql.WithQueryFormatter(formatDBQueryForTrace),
		)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		a.closers = append(a.closers, db.Close)

		pingCtx, cancel := context.WithTimeout(ctx, storePingTimeout)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			return nil, fmt.Errorf("ping postgres: %w", err)
		}

		logger.Info("session store ready", "store", cfg.SessionStore, "db", dburl.Name(cfg.DBURL))
		return postgres.NewSessionRepository(db), nil

	case config.SessionStoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		a.closers = append(a.closers, client.Close)

		pingCtx, cancel := context.WithTimeout(ctx, storePingTimeout)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			return nil, fmt.Errorf("ping redis: %w", err)
		}

		logger.Info("session store ready", "store", cfg.SessionStore, "addr", cfg.RedisAddr)
		return redisrepo.NewSessionRepository(client, cfg.SessionMaxAge), nil

	default:
		logger.Info("session store ready", "store", config.SessionStoreMemory)
		return memory.NewSessionRepository(), nil
	}
}
