package main

import (
	"context"
	"net/http"
	"time"

	"github.com/md-rashed-zaman/pharmacare/libs/auth"
	"github.com/md-rashed-zaman/pharmacare/libs/config"
	"github.com/md-rashed-zaman/pharmacare/libs/db"
	"github.com/md-rashed-zaman/pharmacare/libs/httpx"
	"github.com/md-rashed-zaman/pharmacare/libs/kafkax"
	otelx "github.com/md-rashed-zaman/pharmacare/libs/otel"
	"github.com/md-rashed-zaman/pharmacare/libs/runtime"
	"github.com/md-rashed-zaman/pharmacare/services/pharmacy-service/internal/booking"
	"github.com/md-rashed-zaman/pharmacare/services/pharmacy-service/internal/content"
	"github.com/md-rashed-zaman/pharmacare/services/pharmacy-service/internal/handlers"
	"github.com/md-rashed-zaman/pharmacare/services/pharmacy-service/internal/outbox"
	"github.com/md-rashed-zaman/pharmacare/services/pharmacy-service/internal/reporting"
	"github.com/md-rashed-zaman/pharmacare/services/pharmacy-service/internal/sessions"
	"github.com/md-rashed-zaman/pharmacare/services/pharmacy-service/internal/storage"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		panic(err)
	}
	service := config.String("SERVICE_NAME", "pharmacy-service")
	port, err := config.Port("PORT", "8080")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service, config.String("LOG_LEVEL", "info"))

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	dbURL, err := config.RequiredString("DATABASE_URL")
	if err != nil {
		panic(err)
	}
	pool, err := db.Open(ctx, dbURL, db.Options{MaxConns: int32(config.Int("DB_MAX_CONNS", 10))})
	if err != nil {
		logger.Error("db connection failed", "err", err)
		panic(err)
	}
	defer pool.Close()

	sessionSecret, err := config.RequiredString("SESSION_SECRET")
	if err != nil {
		panic(err)
	}
	signer, err := auth.NewHS256Signer(sessionSecret, service)
	if err != nil {
		logger.Error("failed to init session signer", "err", err)
		panic(err)
	}

	loc, err := time.LoadLocation(config.String("TIME_ZONE", "Europe/London"))
	if err != nil {
		logger.Error("invalid TIME_ZONE", "err", err)
		panic(err)
	}

	library, err := content.Load()
	if err != nil {
		logger.Error("failed to load site content", "err", err)
		panic(err)
	}

	var (
		rdb        *redis.Client
		redisCheck func(context.Context) error
	)
	if addr := config.String("REDIS_ADDR", ""); addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: config.String("REDIS_PASSWORD", ""),
			DB:       config.Int("REDIS_DB", 0),
		})
		defer rdb.Close()
		redisCheck = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	brokers := config.List("KAFKA_BROKERS", "")
	var kafkaCheck func(context.Context) error
	if len(brokers) > 0 {
		kafkaCheck = kafkax.ReadyCheck(brokers)
	}

	mux := runtime.NewBaseMuxWithReady(
		runtime.ReadyCheck{Name: "db", Check: db.ReadyCheck(pool)},
		runtime.ReadyCheck{Name: "redis", Check: redisCheck},
		runtime.ReadyCheck{Name: "kafka", Check: kafkaCheck},
	)

	outboxRepo := outbox.NewRepository()
	outboxPublisher := outbox.NewPublisher(pool, outboxRepo, logger, outbox.PublisherConfig{
		Brokers:   brokers,
		PollEvery: 2 * time.Second,
		BatchSize: 50,
	})
	go outboxPublisher.Run(ctx)

	appointmentRepo := storage.NewAppointmentRepository(pool, outboxRepo)
	userRepo := storage.NewUserRepository(pool)
	activityRepo := storage.NewActivityRepository(pool, outboxRepo)
	branchRepo := storage.NewBranchRepository(pool)

	var sessionStore sessions.Store = sessions.NewMemoryStore()
	if rdb != nil {
		sessionStore = sessions.NewRedisStore(rdb, "session")
	} else {
		logger.Warn("REDIS_ADDR not set; sessions are kept in memory")
	}
	sessionManager := sessions.NewManager(signer, sessionStore, userRepo, sessions.Config{
		TTL:          config.Duration("SESSION_TTL", 14*24*time.Hour),
		SecureCookie: config.Bool("COOKIE_SECURE", false),
	})

	bookingService := booking.NewService(appointmentRepo)
	aggregator := reporting.NewAggregator(appointmentRepo, len(reporting.DefaultSlots()), loc)

	registerRoutes(mux, routeDeps{
		booking:  handlers.NewBookingHandler(bookingService, logger),
		admin:    handlers.NewAdminHandler(aggregator, appointmentRepo, activityRepo, userRepo, loc, logger),
		accounts: handlers.NewAccountHandler(userRepo, activityRepo, sessionManager, logger),
		site:     handlers.NewSiteHandler(library, branchRepo, logger),
		resolver: sessionManager,
	})

	perMinute := config.Int("RATE_LIMIT_PER_MINUTE", 120)
	var limiter httpx.Middleware
	if rdb != nil {
		limiter = httpx.NewRedisRateLimiter(rdb, perMinute, time.Minute, "rl:"+service).Middleware(logger, true)
	} else {
		limiter = httpx.NewRateLimiter(perMinute, time.Minute).Middleware()
	}

	handler := httpx.Chain(mux,
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		limiter,
		httpx.WithBodyLimit(int64(config.Int("REQUEST_BODY_LIMIT_BYTES", 1<<20))),
		httpx.WithTimeout(config.Duration("REQUEST_TIMEOUT_SECONDS", 15*time.Second)),
	)
	handler = otelhttp.NewHandler(handler, "pharmacy")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}
