package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shiftdesk/internal/domain/audit"
	"shiftdesk/internal/domain/auth"
	"shiftdesk/internal/domain/core"
	"shiftdesk/internal/domain/marketplace"
	"shiftdesk/internal/domain/notifications"
	"shiftdesk/internal/domain/payroll"
	"shiftdesk/internal/domain/ranking"
	"shiftdesk/internal/domain/schedule"
	"shiftdesk/internal/domain/timelog"
	"shiftdesk/internal/platform/config"
	cryptoutil "shiftdesk/internal/platform/crypto"
	"shiftdesk/internal/platform/db"
	"shiftdesk/internal/platform/email"
	"shiftdesk/internal/platform/jobs"
	"shiftdesk/internal/platform/metrics"
	"shiftdesk/internal/transport/http/api"
	audithandler "shiftdesk/internal/transport/http/handlers/audit"
	authhandler "shiftdesk/internal/transport/http/handlers/auth"
	corehandler "shiftdesk/internal/transport/http/handlers/core"
	markethandler "shiftdesk/internal/transport/http/handlers/marketplace"
	notificationhandler "shiftdesk/internal/transport/http/handlers/notifications"
	payrollhandler "shiftdesk/internal/transport/http/handlers/payroll"
	rankinghandler "shiftdesk/internal/transport/http/handlers/ranking"
	schedulehandler "shiftdesk/internal/transport/http/handlers/schedule"
	timeloghandler "shiftdesk/internal/transport/http/handlers/timelog"
	"shiftdesk/internal/transport/http/middleware"
)

const maxBodyBytes = 1 << 20

type App struct {
	Config config.Config
	DB     *pgxpool.Pool
	Router http.Handler
	Jobs   *jobs.Service
}

// NewApp wires services, stores, and the router. It does not touch the
// schema; callers run migrations and seeding first.
func NewApp(cfg config.Config, pool *pgxpool.Pool) (*App, error) {
	crypto, err := cryptoutil.New(cfg.DataEncryptionKey)
	if err != nil {
		return nil, err
	}

	collector := metrics.New()

	notifySvc := notifications.New(notifications.NewStore(pool), email.New(cfg))
	if cfg.EmailFrom != "" {
		notifySvc.DefaultFrom = cfg.EmailFrom
	}

	coreSvc := core.NewService(core.NewStore(pool))
	scheduleSvc := schedule.NewService(schedule.NewStore(pool))
	marketSvc := marketplace.NewService(marketplace.NewStore(pool), cfg.DefaultMinHoursBeforeGive)
	payrollSvc := payroll.NewService(payroll.NewStore(pool), crypto)
	timelogSvc := timelog.NewService(timelog.NewStore(pool), payrollSvc, cfg.AutoCheckoutGrace)
	rankingSvc := ranking.NewService(ranking.NewStore(pool))
	auditSvc := audit.New(pool)

	background := jobs.New(pool, cfg, timelogSvc, marketSvc, notifySvc, collector)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Metrics(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.BodyLimit(maxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.With(middleware.RequireRole(auth.RoleOwner)).
			Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
				api.Success(w, collector.Snapshot(), middleware.GetRequestID(r.Context()))
			})
	}

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(auth.NewStore(pool), cfg.JWTSecret).RegisterRoutes(r)
		corehandler.NewHandler(coreSvc, auditSvc).RegisterRoutes(r)
		schedulehandler.NewHandler(scheduleSvc, notifySvc, auditSvc).RegisterRoutes(r)
		markethandler.NewHandler(marketSvc, notifySvc, auditSvc).RegisterRoutes(r)
		timeloghandler.NewHandler(timelogSvc, auditSvc).RegisterRoutes(r)
		payrollhandler.NewHandler(payrollSvc, notifySvc, auditSvc).RegisterRoutes(r)
		rankinghandler.NewHandler(rankingSvc).RegisterRoutes(r)
		notificationhandler.NewHandler(notifySvc).RegisterRoutes(r)
		audithandler.NewHandler(auditSvc).RegisterRoutes(r)
	})

	return &App{Config: cfg, DB: pool, Router: router, Jobs: background}, nil
}

func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}

	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	}

	app, err := NewApp(cfg, pool)
	if err != nil {
		log.Fatalf("wiring failed: %v", err)
	}
	app.Jobs.Start(ctx)

	log.Printf("shiftdesk server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, app.Router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
