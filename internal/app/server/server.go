package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"workdesk/internal/domain/auth"
	"workdesk/internal/domain/directory"
	"workdesk/internal/domain/messages"
	"workdesk/internal/domain/tasks"
	"workdesk/internal/domain/todos"
	"workdesk/internal/platform/config"
	"workdesk/internal/platform/db"
	"workdesk/internal/platform/logger"
	"workdesk/internal/platform/metrics"
	"workdesk/internal/realtime"
	authhandler "workdesk/internal/transport/http/handlers/auth"
	chathandler "workdesk/internal/transport/http/handlers/chat"
	directoryhandler "workdesk/internal/transport/http/handlers/directory"
	messageshandler "workdesk/internal/transport/http/handlers/messages"
	systemhandler "workdesk/internal/transport/http/handlers/system"
	taskshandler "workdesk/internal/transport/http/handlers/tasks"
	todoshandler "workdesk/internal/transport/http/handlers/todos"
	"workdesk/internal/transport/http/middleware"
	"workdesk/migrations"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	Config  config.Config
	DB      *pgxpool.Pool
	Hub     *realtime.Hub
	Metrics *metrics.Collector
	Router  http.Handler
	Log     zerolog.Logger
}

// Services is everything the router needs. Metrics may be nil.
type Services struct {
	Auth      *auth.Service
	Directory *directory.Service
	Tasks     *tasks.Service
	Todos     *todos.Service
	Messages  *messages.Service
	Hub       *realtime.Hub
	DB        systemhandler.Pinger
	Metrics   *metrics.Collector
}

// New connects to the database, applies migrations and the optional seed,
// starts the relay hub and builds the router.
func New(ctx context.Context, cfg config.Config, log zerolog.Logger) (*App, error) {
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, migrations.FS); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrations failed: %w", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, fmt.Errorf("seed failed: %w", err)
		}
	}

	policy, err := realtime.PolicyFor(cfg.ChatDeliveryPolicy)
	if err != nil {
		pool.Close()
		return nil, err
	}

	var collector *metrics.Collector
	var stats realtime.Stats
	if cfg.MetricsEnabled {
		collector = metrics.New()
		stats = collector
	}

	messageService := messages.NewService(messages.NewStore(pool))
	hub := realtime.NewHub(messageService, policy, log, stats)
	go hub.Run(context.WithoutCancel(ctx))

	router := NewRouter(cfg, log, Services{
		Auth:      auth.NewService(auth.NewStore(pool), cfg.JWTSecret),
		Directory: directory.NewService(directory.NewStore(pool)),
		Tasks:     tasks.NewService(tasks.NewStore(pool)),
		Todos:     todos.NewService(todos.NewStore(pool)),
		Messages:  messageService,
		Hub:       hub,
		DB:        pool,
		Metrics:   collector,
	})

	return &App{Config: cfg, DB: pool, Hub: hub, Metrics: collector, Router: router, Log: log}, nil
}

func NewRouter(cfg config.Config, log zerolog.Logger, svc Services) http.Handler {
	var recorder middleware.RequestRecorder
	var snapshots systemhandler.Snapshotter
	if svc.Metrics != nil {
		recorder = svc.Metrics
		snapshots = svc.Metrics
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.Logger(log, recorder))
	router.Use(chimw.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))

	systemhandler.NewHandler(svc.DB, snapshots).RegisterRoutes(router)

	authHandler := authhandler.NewHandler(svc.Auth)
	// Login attempts are limited per client IP and, separately, per email.
	router.With(
		middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute, middleware.WithKeyFunc(middleware.ClientIPKey)),
		middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute, middleware.WithKeyFunc(middleware.EmailOrIPKey("email"))),
	).Post("/login", authHandler.HandleLogin)

	directoryhandler.NewHandler(svc.Directory).RegisterRoutes(router)
	taskshandler.NewHandler(svc.Tasks).RegisterRoutes(router)
	messageshandler.NewHandler(svc.Messages).RegisterRoutes(router)
	todoshandler.NewHandler(svc.Todos).RegisterRoutes(router)
	chathandler.NewHandler(svc.Hub, cfg.CORSAllowedOrigins, cfg.MaxBodyBytes).RegisterRoutes(router)

	return router
}

// Close stops the relay, waits for in-flight message inserts and closes the
// pool, in that order.
func (a *App) Close() {
	a.Hub.Stop()
	a.Hub.Wait()
	a.DB.Close()
}

// Run loads configuration, serves until SIGINT or SIGTERM, then shuts down
// gracefully.
func Run() error {
	cfg := config.Load()
	log := logger.New(cfg.Environment, cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is empty; tokens are signed with an empty key")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("policy", cfg.ChatDeliveryPolicy).Msg("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
