package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cardiocare/platform/pkg/cardio"
	"github.com/cardiocare/platform/pkg/common/config"
	"github.com/cardiocare/platform/pkg/common/database"
	"github.com/cardiocare/platform/pkg/common/kafka"
	"github.com/cardiocare/platform/pkg/common/logger"
	"github.com/cardiocare/platform/pkg/gateway/httpapi"
	"github.com/cardiocare/platform/pkg/gateway/middleware"
	"github.com/cardiocare/platform/pkg/ml/classifier"
	"github.com/cardiocare/platform/pkg/observability/metrics"
	"github.com/cardiocare/platform/pkg/patient"
	"github.com/cardiocare/platform/pkg/records"
	"github.com/gorilla/mux"
)

type readyFunc func(ctx context.Context) error

func main() {
	logger.Init("cardiocare-service")
	cfg := config.Load()

	model, err := classifier.Load(cfg.ModelArtifactPath)
	if err != nil {
		logger.Log.WithError(err).WithField("path", cfg.ModelArtifactPath).Fatal("failed to load risk model")
	}
	logger.Log.WithFields(map[string]interface{}{
		"model":       model.Name(),
		"version":     model.Version(),
		"field_order": patient.FieldOrderVersion,
	}).Info("risk model loaded")

	bounds, err := patient.LoadBounds(cfg.FieldBoundsPath)
	if err != nil {
		logger.Log.WithError(err).WithField("path", cfg.FieldBoundsPath).Fatal("failed to load field bounds")
	}

	store, ready, closeStore := openStore(cfg)
	defer closeStore()

	if cfg.KafkaEnabled {
		producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.RecordEventsTopic)
		defer producer.Close()
		store = records.NewEventPublishingStore(store, producer, cfg.RecordCollection)
		logger.Log.WithField("topic", cfg.RecordEventsTopic).Info("record events enabled")
	}

	controller := cardio.NewController(model, store, cardio.Options{
		Bounds:        bounds,
		EnforceBounds: cfg.EnforceFieldBounds,
	})
	handler := httpapi.NewHandler(controller, records.NewBrowser(store), bounds)

	router := mux.NewRouter()
	router.Use(middleware.Recovery)
	router.Use(middleware.Logging)
	router.Use(middleware.CORS(cfg.CORSAllowedOrigin))
	router.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
	router.Use(middleware.BodyLimit(cfg.MaxRequestBody))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)
	router.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := ready(r.Context()); err != nil {
			logger.Log.WithError(err).Warn("record store not ready")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"not ready"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ready"}`))
	}).Methods(http.MethodGet)
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	handler.Register(api)

	address := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"addr":    address,
			"backend": cfg.RecordStoreBackend,
		}).Info("CardioCare service listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("failed to start cardiocare service")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down CardioCare service...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Error("CardioCare service forced to shutdown")
	}
	logger.Log.Info("CardioCare service stopped")
}

func openStore(cfg *config.Config) (records.Store, readyFunc, func()) {
	switch cfg.RecordStoreBackend {
	case config.BackendPostgres:
		db, err := database.OpenPostgres(database.PostgresDSN(cfg))
		if err != nil {
			logger.Log.WithError(err).Fatal("failed to connect to postgres")
		}
		store := records.NewPostgresStore(db, cfg.RecordCollection)
		if err := store.AutoMigrate(); err != nil {
			logger.Log.WithError(err).Fatal("failed to migrate record tables")
		}
		ready := func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
		return store, ready, func() {
			if err := database.ClosePostgres(db); err != nil {
				logger.Log.WithError(err).Warn("failed to close postgres")
			}
		}
	case config.BackendRedis:
		client, err := database.OpenRedis(context.Background(), database.RedisAddr(cfg), cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Log.WithError(err).Fatal("failed to connect to redis")
		}
		ready := func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}
		return records.NewRedisStore(client, cfg.RecordCollection), ready, func() {
			_ = client.Close()
		}
	case config.BackendMemory:
		logger.Log.Warn("using in-memory record store; records are lost on restart")
		return records.NewMemoryStore(), func(context.Context) error { return nil }, func() {}
	default:
		logger.Log.WithField("backend", cfg.RecordStoreBackend).Fatal("unknown record store backend")
		return nil, nil, nil
	}
}
