package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"wastetrack/internal/amice"
	"wastetrack/internal/company"
	companycache "wastetrack/internal/company/cache"
	"wastetrack/internal/declaration"
	declarationhandler "wastetrack/internal/declaration/handler"
	"wastetrack/internal/events"
	httpapi "wastetrack/internal/http"
	"wastetrack/internal/platform/config"
	"wastetrack/internal/platform/httpserver"
	"wastetrack/internal/platform/logger"
	"wastetrack/internal/platform/postgres"
	platformredis "wastetrack/internal/platform/redis"
	"wastetrack/internal/projectlocation"
	wshandler "wastetrack/internal/wastestream/handler"
	wsmetrics "wastetrack/internal/wastestream/metrics"
	"wastetrack/internal/wastestream/numbers"
	"wastetrack/internal/wastestream/policy"
	wsservice "wastetrack/internal/wastestream/service"
	wsstore "wastetrack/internal/wastestream/store"
	"wastetrack/internal/wastestream/store/sequence"
	"wastetrack/internal/wastetransport"
	transporthandler "wastetrack/internal/wastetransport/handler"
)

// main wires dependencies and runs the HTTP server alongside the declaration
// scheduler. Business logic lives in the internal packages.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.New()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	db, err := postgres.Open(ctx, cfg.Postgres)
	if err != nil {
		log.Error("postgres connection failed", "error", err)
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Stores: postgres when a DSN is configured, in-memory otherwise so the
	// service still runs for local development.
	var (
		companies  company.Store
		projects   projectlocation.Store
		streams    wsstore.Store
		sequences  sequence.Store
		activity   declaration.ActivityStore
		sessions   declaration.SessionStore
		transports wastetransport.Store
	)
	if db != nil {
		companies = company.NewPostgres(db)
		projects = projectlocation.NewPostgres(db)
		streams = wsstore.NewPostgres(db)
		sequences = sequence.NewPostgres(db)
		activity = declaration.NewPostgresActivity(db)
		sessions = declaration.NewPostgresSessions(db)
		transports = wastetransport.NewPostgres(db)
	} else {
		log.Warn("no postgres DSN configured, using in-memory stores")
		companies = company.NewInMemory()
		projects = projectlocation.NewInMemory()
		streams = wsstore.NewInMemory()
		sequences = sequence.NewInMemory()
		activity = declaration.NewInMemoryActivity()
		sessions = declaration.NewInMemorySessions()
		transports = wastetransport.NewInMemory()
	}
	if redisClient != nil {
		companies = companycache.New(companies, redisClient, cfg.Redis.CacheTTL, log)
	}

	var publisher events.Publisher = events.Noop{}
	if len(cfg.Kafka.Brokers) > 0 {
		kafka, err := events.NewKafka(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		if err != nil {
			log.Error("kafka connection failed", "error", err)
			os.Exit(1)
		}
		defer kafka.Close()
		publisher = kafka
	}

	amiceClient := amice.NewClient(cfg.Amice)
	if !amiceClient.Configured() {
		log.Warn("amice endpoint not configured, validations will fail locally")
	}

	pol := policy.Policy{
		InactiveAfter: cfg.Streams.InactiveAfter,
		ExpireAfter:   cfg.Streams.ExpireAfter,
	}

	streamSvc := wsservice.New(
		streams,
		wsservice.NewFactory(streams, numbers.NewGenerator(sequences), companies, projects, pol),
		amice.NewValidator(amiceClient, log),
		pol,
		wsservice.WithLogger(log),
		wsservice.WithMetrics(wsmetrics.New()),
		wsservice.WithEvents(publisher),
	)

	declSvc := declaration.NewService(
		activity, sessions, streams,
		amice.NewDeclarator(amiceClient),
		declaration.WithLogger(log),
		declaration.WithMetrics(declaration.NewMetrics()),
		declaration.WithEvents(publisher),
	)

	transportSvc := wastetransport.NewService(
		transports, streams,
		wastetransport.NewFactory(streams, companies, wastetransport.NewCompatibilityService()),
		declSvc, log,
	)

	router := httpapi.NewRouter(log, db,
		wshandler.New(streamSvc, log),
		declarationhandler.New(declSvc, log),
		transporthandler.New(transportSvc, log),
	)
	srv := httpserver.New(cfg.HTTP, router)
	scheduler := declaration.NewScheduler(declSvc,
		cfg.Declare.Schedule, cfg.Declare.PollSchedule, cfg.Declare.Tick, log)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting wastetrack", "addr", cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		if err := scheduler.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
