// Command bluebird serves user registration and cookie-session login over HTTP.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/bluebird/db"
	"github.com/dmitrymomot/bluebird/modules/account"
	"github.com/dmitrymomot/bluebird/pkg/audit"
	"github.com/dmitrymomot/bluebird/pkg/auth"
	"github.com/dmitrymomot/bluebird/pkg/clientip"
	"github.com/dmitrymomot/bluebird/pkg/config"
	"github.com/dmitrymomot/bluebird/pkg/cookie"
	"github.com/dmitrymomot/bluebird/pkg/httpserver"
	"github.com/dmitrymomot/bluebird/pkg/logger"
	"github.com/dmitrymomot/bluebird/pkg/password"
	"github.com/dmitrymomot/bluebird/pkg/pg"
	"github.com/dmitrymomot/bluebird/pkg/ratelimiter"
	"github.com/dmitrymomot/bluebird/pkg/redis"
	"github.com/dmitrymomot/bluebird/pkg/requestid"
	"github.com/dmitrymomot/bluebird/pkg/session"
	"github.com/dmitrymomot/bluebird/pkg/user"
)

type appConfig struct {
	Env        string `env:"APP_ENV" envDefault:"development"`
	Name       string `env:"APP_NAME" envDefault:"bluebird"`
	BcryptCost int    `env:"BCRYPT_COST" envDefault:"12"`

	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`
}

func main() {
	var (
		appCfg     appConfig
		httpCfg    httpserver.Config
		pgCfg      pg.Config
		redisCfg   redis.Config
		sessionCfg session.Config
		rateCfg    ratelimiter.Config
	)
	config.MustLoad(&appCfg)
	config.MustLoad(&httpCfg)
	config.MustLoad(&pgCfg)
	config.MustLoad(&redisCfg)
	config.MustLoad(&sessionCfg)
	config.MustLoad(&rateCfg)

	log := logger.New(
		logger.WithEnvironment(appCfg.Env, appCfg.Name),
		logger.WithContextExtractors(requestid.LoggerExtractor(), clientip.LoggerExtractor()),
	)
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, log, appCfg, httpCfg, pgCfg, redisCfg, sessionCfg, rateCfg); err != nil {
		log.Error("bluebird stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(
	ctx context.Context,
	log *slog.Logger,
	appCfg appConfig,
	httpCfg httpserver.Config,
	pgCfg pg.Config,
	redisCfg redis.Config,
	sessionCfg session.Config,
	rateCfg ratelimiter.Config,
) error {
	if err := sessionCfg.Validate(); err != nil {
		return err
	}
	ips, err := clientip.New(appCfg.TrustedProxies...)
	if err != nil {
		return err
	}

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, db.Migrations(), pgCfg, log.With(logger.Component("migrations"))); err != nil {
		return err
	}

	readiness := []func(context.Context) error{pg.Healthcheck(pool)}

	var client goredis.UniversalClient
	if sessionCfg.Backend == session.BackendRedis {
		rdb, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return err
		}
		defer rdb.Close()
		client = rdb
		readiness = append(readiness, redis.Healthcheck(rdb))
	}

	store, err := session.NewStore(sessionCfg, client, log.With(logger.Component("session")))
	if err != nil {
		return err
	}
	if closer, ok := store.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	var limits ratelimiter.Store
	if client != nil {
		limits = ratelimiter.NewRedisStore(client, rateCfg.RedisPrefix)
	} else {
		mem := ratelimiter.NewMemoryStore()
		defer mem.Close()
		limits = mem
	}
	loginBucket, err := ratelimiter.NewBucket(limits, rateCfg)
	if err != nil {
		return err
	}

	cookies, err := cookie.New(sessionCfg.CookieName, cookie.WithSecure(sessionCfg.SecureCookies))
	if err != nil {
		return err
	}

	svc := auth.NewService(
		user.NewPostgresRepository(pool),
		password.NewHasher(appCfg.BcryptCost),
		store,
		sessionCfg,
		auth.WithLogger(log.With(logger.Component("auth"))),
		auth.WithAuditor(audit.NewLogger(audit.NewPostgresStorage(pool),
			audit.WithRequestIDExtractor(requestid.FromContext),
			audit.WithIPExtractor(clientip.FromContext),
		)),
	)
	extractor := session.NewExtractor(store, sessionCfg,
		session.WithExtractorLogger(log.With(logger.Component("session"))),
	)
	accounts := account.New(svc, extractor, cookies,
		account.WithLogger(log.With(logger.Component("account"))),
		account.WithLoginThrottle(ratelimiter.Middleware(loginBucket, ratelimiter.ByClientIP("login"), log)),
	)

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(ips.Middleware)
	r.Use(middleware.Recoverer)
	r.Use(httpserver.LogRequests(log))

	r.Get("/health/live", httpserver.HealthCheckHandler(log))
	r.Get("/health/ready", httpserver.HealthCheckHandler(log, readiness...))
	r.Mount("/", accounts.Router())

	server := httpserver.NewFromConfig(httpCfg,
		httpserver.WithLogger(log),
		httpserver.WithOnListen(func(addr string) {
			log.Info("bluebird ready", slog.String("addr", addr), slog.String("session_backend", sessionCfg.Backend))
		}),
	)

	if err := server.Run(ctx, r); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
