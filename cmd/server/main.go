package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/twmb/franz-go/pkg/kgo"
	"golang.org/x/sync/errgroup"

	"ukid/internal/audit"
	companycache "ukid/internal/company/cache"
	companyhandler "ukid/internal/company/handler"
	companymetrics "ukid/internal/company/metrics"
	companyservice "ukid/internal/company/service"
	companystore "ukid/internal/company/store"
	identifierhandler "ukid/internal/identifier/handler"
	identifiermetrics "ukid/internal/identifier/metrics"
	jwttoken "ukid/internal/jwt_token"
	"ukid/internal/platform/config"
	"ukid/internal/platform/httpserver"
	"ukid/internal/platform/kafka"
	"ukid/internal/platform/logger"
	"ukid/internal/platform/metrics"
	"ukid/internal/platform/middleware"
	"ukid/internal/platform/postgres"
	"ukid/internal/platform/redis"
	"ukid/pkg/platform/circuit"
	"ukid/pkg/platform/httputil"
)

// main wires dependencies and owns the process lifecycle. Business logic
// lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("ukid exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	db, err := postgres.Open(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		if err := companystore.Migrate(ctx, db); err != nil {
			return err
		}
	}

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		if err := redisClient.RegisterPoolMetrics(prometheus.DefaultRegisterer); err != nil {
			return err
		}
	}

	producer, err := kafka.NewProducer(ctx, cfg.Kafka)
	if err != nil {
		return err
	}
	if producer != nil {
		defer producer.Close()
		if err := kafka.EnsureTopic(ctx, producer, cfg.Kafka.AuditTopic, cfg.Kafka.Partitions, cfg.Kafka.Replication); err != nil {
			return err
		}
	}

	g, ctx := errgroup.WithContext(ctx)

	auditWorker := audit.NewWorker(auditSink(producer, cfg.Kafka.AuditTopic, log), 0, log)
	g.Go(func() error {
		if err := auditWorker.Run(ctx); err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	})

	httpMetrics := metrics.New()
	jwtService := jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer, cfg.Auth.JWTAudience)

	companies := companyservice.New(companyStore(db, log),
		companyservice.WithLogger(log),
		companyservice.WithAuditPublisher(auditWorker),
		companyservice.WithMetrics(companymetrics.New()),
		companyservice.WithCache(companyCache(redisClient, cfg.Company, log)),
		companyservice.WithLookupLimit(cfg.Company.LookupLimit),
	)

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.AccessLog(log, httpMetrics))

	r.Get("/healthz", healthHandler(db, redisClient))
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	identifierhandler.New(log, identifiermetrics.New(), cfg.Identifier.BatchLimit).Register(r)
	companyhandler.New(companies, log, jwttoken.NewJWTServiceAdapter(jwtService)).Register(r)

	srv := httpserver.New(cfg.Server, r)
	g.Go(func() error {
		return httpserver.Run(ctx, srv, cfg.Server.ShutdownTimeout, log)
	})

	return g.Wait()
}

func auditSink(producer *kgo.Client, topic string, log *slog.Logger) audit.Publisher {
	if producer == nil {
		log.Info("no kafka brokers configured, audit events written to the log")
		return audit.NewLogPublisher(log)
	}
	return audit.NewKafkaPublisher(producer, topic)
}

func companyStore(db *sql.DB, log *slog.Logger) companyservice.Store {
	if db == nil {
		log.Info("no DATABASE_URL configured, using in-memory company store")
		return companystore.NewInMemory()
	}
	return companystore.NewPostgres(db)
}

func companyCache(client *redis.Client, cfg config.CompanyConfig, log *slog.Logger) companyservice.Cache {
	if client == nil {
		return companycache.Noop{}
	}
	return companycache.NewRedis(client,
		companycache.WithTTL(cfg.CacheTTL),
		companycache.WithLogger(log),
		companycache.WithBreaker(circuit.New("company-cache", circuit.WithFailureThreshold(5))),
	)
}

func healthHandler(db *sql.DB, redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]string{"status": "ok"}
		code := http.StatusOK
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				status["postgres"] = fmt.Sprintf("unavailable: %v", err)
				code = http.StatusServiceUnavailable
			}
		}
		if redisClient != nil {
			if err := redisClient.Health(r.Context()); err != nil {
				status["redis"] = fmt.Sprintf("unavailable: %v", err)
				code = http.StatusServiceUnavailable
			}
		}
		if code != http.StatusOK {
			status["status"] = "degraded"
		}
		httputil.WriteJSON(w, code, status)
	}
}
