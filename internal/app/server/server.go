package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"hrportal/internal/domain/attendance"
	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/dashboard"
	"hrportal/internal/domain/guard"
	"hrportal/internal/domain/hrmanagement"
	"hrportal/internal/domain/onboarding"
	"hrportal/internal/domain/payroll"
	"hrportal/internal/domain/performance"
	"hrportal/internal/domain/session"
	"hrportal/internal/domain/signup"
	"hrportal/internal/domain/uploads"
	"hrportal/internal/domain/workflow"
	"hrportal/internal/platform/backend"
	"hrportal/internal/platform/config"
	"hrportal/internal/platform/crypto"
	"hrportal/internal/platform/db"
	"hrportal/internal/platform/jobs"
	"hrportal/internal/platform/logger"
	"hrportal/internal/platform/metrics"
	"hrportal/internal/platform/sessioncookie"
	attendancehandler "hrportal/internal/transport/http/handlers/attendance"
	authhandler "hrportal/internal/transport/http/handlers/auth"
	dashboardhandler "hrportal/internal/transport/http/handlers/dashboard"
	hrhandler "hrportal/internal/transport/http/handlers/hr"
	onboardinghandler "hrportal/internal/transport/http/handlers/onboarding"
	payrollhandler "hrportal/internal/transport/http/handlers/payroll"
	performancehandler "hrportal/internal/transport/http/handlers/performance"
	signuphandler "hrportal/internal/transport/http/handlers/signup"
	"hrportal/internal/transport/http/middleware"
	"hrportal/internal/transport/http/shared"
)

const (
	shutdownTimeout = 15 * time.Second
	purgeInterval   = 10 * time.Minute
)

type App struct {
	Config     config.Config
	Router     http.Handler
	Workspaces *workflow.Registry
	Sessions   *session.Store
	Jobs       *jobs.Service

	ready   func(ctx context.Context) error
	closers []func()
}

// Options replace the collaborators New would otherwise build from the config.
type Options struct {
	Persister  session.Persister
	HTTPClient *http.Client
	Registry   *prometheus.Registry
}

// New wires the portal from cfg. The caller owns the returned App and must Close it.
func New(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	log := logger.SetupDefault(os.Stdout, cfg.Environment)

	app := &App{Config: cfg, ready: func(context.Context) error { return nil }}

	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	collector := metrics.New(reg)

	persister := opts.Persister
	if persister == nil {
		var err error
		persister, err = app.persister(ctx, cfg)
		if err != nil {
			app.Close()
			return nil, err
		}
	}

	sealer, err := crypto.New(cfg.PortalSecret, "session-token")
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("session sealer: %w", err)
	}
	cookieKey, err := crypto.DeriveKey(cfg.PortalSecret, "session-cookie")
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("cookie key: %w", err)
	}
	cookies := sessioncookie.NewIssuer(cookieKey, cfg.SessionTTL, cfg.IsProduction())
	sessions := session.NewStore(persister, sealer, cfg.SessionTTL, collector)
	workspaces := workflow.NewRegistry()

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.BackendTimeout}
	}
	client := backend.NewWithHTTPClient(cfg.BackendURL, httpClient, collector)

	rate := payroll.DisplayRate{Rate: cfg.PayrollDisplayRate, Currency: cfg.PayrollDisplayCurrency}
	authService := auth.NewService(client, sessions)
	dashboardService := dashboard.NewService(client, collector)
	env := &shared.Env{Workspaces: workspaces, Sessions: sessions, Cookies: cookies}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(log, collector))
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORSOrigins))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Session(cookies, sessions))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := app.ready(ctx); err != nil {
			http.Error(w, "session store not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	if cfg.MetricsEnabled {
		router.Handle("/metrics", metrics.Handler(reg))
	}

	router.With(middleware.Guard(guard.ScreenRoot)).Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, guard.LoginPath, http.StatusSeeOther)
	})

	limit := middleware.AuthRateLimit(cfg.AuthRateLimitPerMinute)
	authhandler.NewHandler(authService, cookies, env).RegisterRoutes(router, limit)
	signuphandler.NewHandler(signup.NewService(client, authService), cookies, env).RegisterRoutes(router, limit)

	router.Route("/app", func(r chi.Router) {
		// Unrouted paths and wrong methods redirect like real screens do.
		r.Use(middleware.Guard(guard.ScreenDashboard))
		mount :=func(screen guard.Screen, register func(chi.Router)) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.Guard(screen))
				register(r)
			})
		}
		mount(guard.ScreenDashboard, dashboardhandler.NewHandler(
			dashboardService,
			uploads.NewService(client, dashboardService, cfg.MaxUploadBytes),
			env,
		).RegisterRoutes)
		mount(guard.ScreenAttendance, attendancehandler.NewHandler(attendance.NewService(client, collector), env).RegisterRoutes)
		mount(guard.ScreenOnboarding, onboardinghandler.NewHandler(onboarding.NewService(client, collector), env).RegisterRoutes)
		mount(guard.ScreenPayroll, payrollhandler.NewHandler(payroll.NewService(client, rate, collector), env).RegisterRoutes)
		mount(guard.ScreenPerformance, performancehandler.NewHandler(performance.NewService(client, collector), env).RegisterRoutes)
		mount(guard.ScreenHRManagement, hrhandler.NewHandler(hrmanagement.NewService(client, rate, collector), env).RegisterRoutes)
	})

	housekeeping := jobs.New()
	housekeeping.Every(jobs.JobWorkspaceSweep, cfg.WorkspaceIdleTimeout/2, func(context.Context) (any, error) {
		return map[string]int{"closed": workspaces.Sweep(cfg.WorkspaceIdleTimeout)}, nil
	})
	housekeeping.Every(jobs.JobSessionPurge, purgeInterval, func(ctx context.Context) (any, error) {
		purged, err := sessions.PurgeExpired(ctx)
		return map[string]int64{"purged": purged}, err
	})

	app.Router = router
	app.Workspaces = workspaces
	app.Sessions = sessions
	app.Jobs = housekeeping
	return app, nil
}

func (a *App) persister(ctx context.Context, cfg config.Config) (session.Persister, error) {
	switch cfg.SessionStore {
	case config.SessionStorePostgres:
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("db connect: %w", err)
		}
		a.closers = append(a.closers, pool.Close)
		if cfg.RunMigrations {
			if err := db.Migrate(ctx, pool); err != nil {
				return nil, fmt.Errorf("migrations: %w", err)
			}
		}
		a.ready = pool.Ping
		return session.NewPostgresPersister(pool), nil
	case config.SessionStoreRedis:
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		client := redis.NewClient(redisOpts)
		a.closers = append(a.closers, func() { _ = client.Close() })
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		a.ready = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		return session.NewRedisPersister(client), nil
	default:
		return session.NewMemoryPersister(), nil
	}
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// Serve listens on the configured address until ctx is cancelled, then drains in-flight
// requests and stops housekeeping.
func (a *App) Serve(ctx context.Context) error {
	jobCtx, stopJobs := context.WithCancel(ctx)
	defer func() {
		stopJobs()
		a.Jobs.Wait()
	}()
	a.Jobs.Start(jobCtx)

	srv := &http.Server{
		Addr:              a.Config.Addr,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("portal listening", "addr", a.Config.Addr, "backend", a.Config.BackendURL, "sessionStore", a.Config.SessionStore)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	slog.Info("portal shutting down")
	return srv.Shutdown(shutdownCtx)
}

// Run loads the config from the environment and serves until SIGINT or SIGTERM.
func Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, config.Load(), Options{})
	if err != nil {
		return err
	}
	defer app.Close()
	return app.Serve(ctx)
}
