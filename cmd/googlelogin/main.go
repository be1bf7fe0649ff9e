package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/googlelogin/migrations"
	"github.com/dmitrymomot/googlelogin/modules/googlelogin"
	"github.com/dmitrymomot/googlelogin/pkg/clientip"
	"github.com/dmitrymomot/googlelogin/pkg/config"
	"github.com/dmitrymomot/googlelogin/pkg/cookie"
	"github.com/dmitrymomot/googlelogin/pkg/email"
	"github.com/dmitrymomot/googlelogin/pkg/httpserver"
	"github.com/dmitrymomot/googlelogin/pkg/jwt"
	"github.com/dmitrymomot/googlelogin/pkg/logger"
	"github.com/dmitrymomot/googlelogin/pkg/login"
	"github.com/dmitrymomot/googlelogin/pkg/media"
	"github.com/dmitrymomot/googlelogin/pkg/nonce"
	"github.com/dmitrymomot/googlelogin/pkg/pg"
	"github.com/dmitrymomot/googlelogin/pkg/ratelimiter"
	"github.com/dmitrymomot/googlelogin/pkg/redis"
	"github.com/dmitrymomot/googlelogin/pkg/requestid"
	"github.com/dmitrymomot/googlelogin/pkg/settings"
	"github.com/dmitrymomot/googlelogin/pkg/users"
)

func main() {
	if err := config.LoadEnvFiles(".env"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var cfg serviceConfig
	if err := loadConfig(&cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.New(
		logger.WithConfig(cfg.Log),
		logger.WithAttr(logger.Component("googlelogin")),
		logger.WithContextExtractors(requestid.LogExtractor(), clientip.LogExtractor()),
	)
	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("service stopped", logger.Error(err))
		os.Exit(1)
	}
}

func loadConfig(cfg *serviceConfig) error {
	return errors.Join(
		config.Load(&cfg.App),
		config.Load(&cfg.Log),
		config.Load(&cfg.HTTP),
		config.Load(&cfg.Flow),
		config.Load(&cfg.Cookie),
		config.Load(&cfg.Nonce),
		config.Load(&cfg.Certs),
		config.Load(&cfg.Limit),
		config.Load(&cfg.S3),
		config.Load(&cfg.Email),
		config.Load(&cfg.Redis),
		loadPG(cfg),
	)
}

// loadPG only requires PG_CONN_URL when a Postgres store is selected.
func loadPG(cfg *serviceConfig) error {
	if !cfg.usesPostgres() {
		return nil
	}
	return config.Load(&cfg.PG)
}

func run(ctx context.Context, cfg serviceConfig, log *slog.Logger) error {
	var checks []httpserver.Check

	var pool *pgxpool.Pool
	if cfg.usesPostgres() {
		var err error
		pool, err = pg.Connect(ctx, cfg.PG, log)
		if err != nil {
			return err
		}
		defer pool.Close()
		if err := pg.Migrate(ctx, pool, migrations.FS, log); err != nil {
			return err
		}
		checks = append(checks, httpserver.Check{Name: "postgres", Fn: pg.Healthcheck(pool)})
	}

	var rdb *goredis.Client
	if cfg.usesRedis() {
		var err error
		rdb, err = redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer rdb.Close()
		checks = append(checks, httpserver.Check{Name: "redis", Fn: redis.Healthcheck(rdb)})
	}

	userStore, err := newUserStore(cfg, pool)
	if err != nil {
		return err
	}
	optionStore, err := newOptionStore(cfg, pool)
	if err != nil {
		return err
	}
	constants, err := settings.LoadConstants()
	if err != nil {
		return err
	}
	resolver := settings.NewResolver(optionStore, constants, settings.WithLogger(log))

	var keyStore jwt.KeyStore = jwt.NewMemoryStore()
	if cfg.App.CertStore == backendRedis {
		keyStore = jwt.NewRedisStore(rdb, jwt.DefaultRedisPrefix)
	}
	verifier := jwt.NewVerifier(
		jwt.NewCertSource(keyStore, jwt.WithCertConfig(cfg.Certs), jwt.WithCertLogger(log)),
		jwt.WithLogger(log),
	)

	cookies, err := cookie.NewFromConfig(cfg.Cookie)
	if err != nil {
		return err
	}
	sessions := cookie.NewAuth(cookies)

	nonces, err := nonce.NewFromConfig(cfg.Nonce)
	if err != nil {
		return err
	}

	storage, err := newMediaStorage(ctx, cfg)
	if err != nil {
		return err
	}

	hooks := googlelogin.NewHooks()
	if err := subscribeNotifier(cfg, hooks, log); err != nil {
		return err
	}

	authOpts := append(hooks.LoginOptions(),
		login.WithPictureImporter(media.NewImporter(storage)),
		login.WithLogger(log),
	)
	auth := login.NewAuthenticator(userStore, sessions, authOpts...)

	flowOpts := []googlelogin.Option{
		googlelogin.WithHooks(hooks),
		googlelogin.WithLogger(log),
	}
	limit, err := newRateLimit(ctx, cfg, rdb, log)
	if err != nil {
		return err
	}
	if limit != nil {
		flowOpts = append(flowOpts, googlelogin.WithRateLimit(limit))
	}
	flow := googlelogin.New(cfg.Flow, resolver, auth, verifier, nonces, sessions, flowOpts...)

	r := chi.NewRouter()
	r.Use(
		requestid.Middleware,
		clientip.New(cfg.App.ProxyHeaders...).Middleware,
		middleware.Recoverer,
	)
	r.Get("/health", httpserver.HealthCheckHandler(log, 0))
	r.Get("/ready", httpserver.HealthCheckHandler(log, 2*time.Second, checks...))
	if local, ok := storage.(*media.LocalStorage); ok {
		r.Handle(cfg.App.MediaBaseURL+"/*", http.StripPrefix(cfg.App.MediaBaseURL, local.Handler()))
	}
	mountPath := cfg.Flow.BasePath
	if mountPath == "" {
		mountPath = "/"
	}
	r.Mount(mountPath, flow.Handle())

	return httpserver.New(cfg.HTTP, httpserver.WithLogger(log)).Run(ctx, r)
}

func newRateLimit(ctx context.Context, cfg serviceConfig, rdb *goredis.Client, log *slog.Logger) (func(http.Handler) http.Handler, error) {
	var store ratelimiter.Store
	switch cfg.App.RateLimitStore {
	case backendOff:
		return nil, nil
	case backendMemory:
		mem := ratelimiter.NewMemoryStore()
		go pruneLoop(ctx, mem, cfg.Limit.RefillInterval*time.Duration(cfg.Limit.Capacity))
		store = mem
	case backendRedis:
		store = ratelimiter.NewRedisStore(rdb, "")
	default:
		return nil, fmt.Errorf("unknown RATE_LIMIT_STORE %q", cfg.App.RateLimitStore)
	}
	bucket, err := ratelimiter.NewBucket(store, cfg.Limit)
	if err != nil {
		return nil, err
	}
	return ratelimiter.Middleware(bucket, ratelimiter.ByClientIP, log), nil
}

func pruneLoop(ctx context.Context, store *ratelimiter.MemoryStore, idle time.Duration) {
	if idle <= 0 {
		return
	}
	t := time.NewTicker(idle)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			store.Prune(now, idle)
		}
	}
}

func newUserStore(cfg serviceConfig, pool *pgxpool.Pool) (users.Store, error) {
	switch cfg.App.UserStore {
	case backendPostgres:
		return users.NewPostgresStore(pool), nil
	case backendMemory:
		return users.NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown USER_STORE %q", cfg.App.UserStore)
}

func newOptionStore(cfg serviceConfig, pool *pgxpool.Pool) (settings.OptionStore, error) {
	switch cfg.App.SettingsStore {
	case backendPostgres:
		return settings.NewPostgresStore(pool), nil
	case backendYAML:
		return settings.NewYAMLStore(cfg.App.SettingsFile), nil
	case backendMemory:
		return settings.NewMemoryStore(nil), nil
	}
	return nil, fmt.Errorf("unknown SETTINGS_STORE %q", cfg.App.SettingsStore)
}

func newMediaStorage(ctx context.Context, cfg serviceConfig) (media.Storage, error) {
	switch cfg.App.MediaStore {
	case backendS3:
		return media.NewS3Storage(ctx, cfg.S3)
	case backendLocal:
		return media.NewLocalStorage(cfg.App.MediaDir, cfg.App.MediaBaseURL)
	}
	return nil, fmt.Errorf("unknown MEDIA_STORE %q", cfg.App.MediaStore)
}

// subscribeNotifier mails the site admin about every registered user.
func subscribeNotifier(cfg serviceConfig, hooks *googlelogin.Hooks, log *slog.Logger) error {
	if !cfg.App.NotifyNewUser || cfg.Email.AdminEmail == "" {
		return nil
	}

	var sender email.Sender
	if cfg.App.DevMail {
		sender = email.NewDevSender(cfg.Email.DevDir)
	} else {
		pm, err := email.NewPostmarkSender(cfg.Email)
		if err != nil {
			return err
		}
		sender = pm
	}

	notifier := email.NewNewUserNotifier(sender, cfg.Email.AdminEmail, cfg.App.SiteName)
	hooks.UserCreated.Subscribe(func(ctx context.Context, e login.UserCreated) error {
		if err := notifier.Notify(ctx, e.User); err != nil {
			log.WarnContext(ctx, "new user notification failed",
				logger.UserID(e.User.ID),
				logger.Error(err),
			)
			return err
		}
		return nil
	})
	return nil
}
