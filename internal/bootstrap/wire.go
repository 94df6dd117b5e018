package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/baechuer/task-manager/internal/application/auth"
	"github.com/baechuer/task-manager/internal/audit"
	"github.com/baechuer/task-manager/internal/config"
	"github.com/baechuer/task-manager/internal/infrastructure/db/mongodb"
	"github.com/baechuer/task-manager/internal/infrastructure/db/postgres"
	"github.com/baechuer/task-manager/internal/infrastructure/memory"
	rabbitmq_pub "github.com/baechuer/task-manager/internal/infrastructure/messaging/rabbitmq"
	"github.com/baechuer/task-manager/internal/infrastructure/redis"
	"github.com/baechuer/task-manager/internal/infrastructure/security"
	"github.com/baechuer/task-manager/internal/infrastructure/storage"
	"github.com/baechuer/task-manager/internal/logger"
	http_handlers "github.com/baechuer/task-manager/internal/transport/http/handlers"
	"github.com/baechuer/task-manager/internal/transport/http/middleware"
	"github.com/baechuer/task-manager/internal/transport/http/response"
	"github.com/baechuer/task-manager/internal/transport/http/router"
)

/*
========================
 Public entry (prod)
========================
*/

func NewServer() (*http.Server, func(), error) {
	return newServer(defaultDeps())
}

// NewServerWithDeps allows injecting dependencies for testing
func NewServerWithDeps(deps Deps) (*http.Server, func(), error) {
	return newServer(deps)
}

/*
========================
 Dependency injection
========================
*/

type Deps struct {
	LoadConfig func() (*config.Config, error)

	OpenStore func(ctx context.Context, cfg *config.Config) (*Store, error)

	NewRedis func(addr, password string, db int) RedisClient

	NewPublisher func(rabbitURL, exchange string) (Publisher, error)

	NewImageStore func(ctx context.Context, cfg *config.Config) (auth.ImageStore, error)

	NewRouter func(router.Deps) (http.Handler, error)
}

// UserStore is a credential store that can report its own health.
type UserStore interface {
	auth.UserRepo
	Ping(ctx context.Context) error
}

// Store is the selected persistence backend.
type Store struct {
	Users UserStore
	Tasks auth.TaskRepo
	Close func()
}

type RedisClient interface {
	Ping(ctx context.Context) error
	Close() error
}

type Publisher interface {
	auth.EventPublisher
}

/*
========================
 Core bootstrap logic
========================
*/

func newServer(deps Deps) (*http.Server, func(), error) {
	// 0) config
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	log := logger.Logger

	// 1) store
	startCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	store, err := deps.OpenStore(startCtx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s store: %w", cfg.Store, err)
	}

	var cleanupFns []func()
	if store.Close != nil {
		cleanupFns = append(cleanupFns, store.Close)
	}

	// 2) security
	hasher := security.NewBcryptHasher(security.PasswordCost)
	signer := security.NewJWTSigner(cfg.JWTSecret)

	// seed (dev only)
	if cfg.IsDev() {
		if users, ok := store.Users.(*memory.UserRepo); ok {
			memory.SeedUsers(startCtx, users, hasher, log)
		}
	}

	// 3) redis (best-effort)
	var limiter middleware.RateLimiter
	if deps.NewRedis != nil && cfg.RedisAddr != "" {
		c := deps.NewRedis(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := c.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("redis unavailable; using in-process rate limits")
			_ = c.Close()
		} else {
			log.Info().Msg("redis connected")
			cleanupFns = append(cleanupFns, func() { _ = c.Close() })
			switch rc := c.(type) {
			case *redis.Client:
				limiter = redis.NewFixedWindowLimiter(rc)
			case middleware.RateLimiter:
				limiter = rc
			}
		}
	}

	// 4) publisher
	var pub auth.EventPublisher = memory.NewNoopPublisher(log)
	if cfg.RabbitURL != "" && deps.NewPublisher != nil {
		p, err := deps.NewPublisher(cfg.RabbitURL, cfg.Exchange)
		switch {
		case err == nil:
			pub = p
			if c, ok := p.(interface{ Close() error }); ok {
				cleanupFns = append(cleanupFns, func() { _ = c.Close() })
			}
		case cfg.IsDev():
			log.Warn().Err(err).Msg("rabbitmq unavailable; using noop publisher")
		default:
			runCleanup(cleanupFns)
			return nil, nil, err
		}
	}

	// 5) image store
	images, err := deps.NewImageStore(startCtx, cfg)
	if err != nil {
		runCleanup(cleanupFns)
		return nil, nil, fmt.Errorf("image store: %w", err)
	}

	// 6) service
	authSvc := auth.NewService(
		store.Users,
		store.Tasks,
		hasher,
		signer,
		images,
		pub,
		auth.Config{
			TokenTTL:         cfg.TokenTTL,
			AdminInviteToken: cfg.AdminInviteToken,
			ImageFolder:      cfg.ImageFolder,
		},
	)
	authSvc = authSvc.
		WithLogger(log).
		WithAudit(audit.New(log).Record)

	// 7) handlers + middleware
	authH := http_handlers.NewAuthHandler(authSvc, cfg.MaxUploadSize)
	healthH := http_handlers.NewHealthHandler(store.Users)

	var uploads http.HandlerFunc
	if local, ok := images.(*memory.ImageStore); ok {
		uploads = http_handlers.NewUploadsHandler(local).Get
	}

	rl := func(key string, limit int, window time.Duration) func(http.Handler) http.Handler {
		fw := middleware.FixedWindowConfig{RouteKey: key, Limit: limit, Window: window}
		if limiter == nil {
			return middleware.RateLimitLocal(fw, response.WriteError)
		}
		return middleware.RateLimitFixedWindow(limiter, fw, response.WriteError)
	}

	// 8) router
	mux, err := deps.NewRouter(router.Deps{
		Health:  healthH,
		Auth:    authH,
		Uploads: uploads,

		RequestIDMW: middleware.RequestID,
		AccessLogMW: middleware.AccessLog,
		MetricsMW:   middleware.Metrics,
		AuthMW:      middleware.Auth(signer, response.WriteError),

		RLSignUp:      rl("auth.signup", 10, time.Minute),
		RLSignIn:      rl("auth.signin", 5, time.Minute),
		RLUploadImage: rl("auth.upload_image", 20, time.Minute),

		ClientURL: cfg.ClientURL,
	})
	if err != nil {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	// 9) server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	cleanup := func() {
		runCleanup(cleanupFns)
	}

	return srv, cleanup, nil
}

/*
========================
 Default deps (prod)
========================
*/

func defaultDeps() Deps {
	return Deps{
		LoadConfig: config.Load,
		OpenStore:  openStore,
		NewRedis: func(addr, password string, db int) RedisClient {
			return redis.New(addr, password, db)
		},
		NewPublisher: func(url, exchange string) (Publisher, error) {
			return rabbitmq_pub.NewPublisher(url, exchange, logger.Logger)
		},
		NewImageStore: newImageStore,
		NewRouter: func(d router.Deps) (http.Handler, error) {
			return router.New(d)
		},
	}
}

// openStore selects the backend from the MONGO_URI scheme.
func openStore(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch cfg.Store {
	case config.StoreMongo:
		client, db, err := mongodb.Connect(ctx, cfg.StoreURI)
		if err != nil {
			return nil, err
		}
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		logger.Logger.Info().Str("database", db.Name()).Msg("mongodb connected")
		return &Store{
			Users: mongodb.NewUserRepo(db),
			Tasks: mongodb.NewTaskRepo(db),
			Close: func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = client.Disconnect(ctx)
			},
		}, nil

	case config.StorePostgres:
		db, err := config.NewDB(cfg.StoreURI)
		if err != nil {
			return nil, err
		}
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		logger.Logger.Info().Msg("postgres connected")
		return &Store{
			Users: postgres.NewUserRepo(db),
			Tasks: postgres.NewTaskRepo(db),
			Close: func() { _ = db.Close() },
		}, nil

	case config.StoreMemory:
		logger.Logger.Warn().Msg("using in-memory store; data is lost on restart")
		return &Store{
			Users: memory.NewUserRepo(),
			Tasks: memory.NewTaskRepo(),
		}, nil
	}
	return nil, errors.New("unknown store kind")
}

// newImageStore uses S3 when an endpoint or credentials are configured.
// Dev without either falls back to serving uploads from memory.
func newImageStore(ctx context.Context, cfg *config.Config) (auth.ImageStore, error) {
	if cfg.S3Endpoint == "" && cfg.S3AccessKeyID == "" {
		if !cfg.IsDev() {
			return nil, errors.New("S3_ENDPOINT or S3_ACCESS_KEY_ID is required outside dev")
		}
		return memory.NewImageStore(localUploadsURL(cfg)), nil
	}

	s, err := storage.NewS3Store(ctx, cfg, logger.Logger)
	if err != nil {
		return nil, err
	}
	if err := s.EnsureBucket(ctx); err != nil {
		logger.Logger.Warn().Err(err).Str("bucket", cfg.S3Bucket).Msg("bucket check failed")
	}
	return s, nil
}

func localUploadsURL(cfg *config.Config) string {
	if cfg.S3PublicBaseURL != "" {
		return strings.TrimRight(cfg.S3PublicBaseURL, "/")
	}
	addr := cfg.HTTPAddr
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr + "/uploads"
}

/*
========================
 helpers
========================
*/

func runCleanup(fns []func()) {
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
