// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"factory-match-workers/internal/common/config"
	"factory-match-workers/internal/common/database"
	"factory-match-workers/internal/common/logger"
	"factory-match-workers/internal/common/observability"
	"factory-match-workers/internal/dedup"
	"factory-match-workers/internal/matching"
	"factory-match-workers/internal/store"
	"factory-match-workers/pkg/registry"

	mdg "factory-match-workers/internal/workers/dedup/merge-duplicate-group"
	sd "factory-match-workers/internal/workers/dedup/scan-duplicates"
	rf "factory-match-workers/internal/workers/matching/rank-factories"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var zeebeClient zbc.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebeClient, err = zbc.NewClient(&zbc.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Shared engine components ---
	activities := registry.Default()
	factoryStore := store.NewFactoryStore(pg.DB)
	matchEngine := matching.NewEngine(factoryStore, log)
	dedupScanner := dedup.NewScanner(factoryStore, factoryStore, log)

	// --- Register Workers ---
	if cfg.Workers[rf.TaskType].Enabled {
		handler := rf.NewHandler(
			&rf.Config{
				CacheTTL:       time.Duration(cfg.Matching.CacheTTLMinutes) * time.Minute,
				Timeout:        time.Duration(cfg.Workers[rf.TaskType].Timeout) * time.Millisecond,
				PersistResults: cfg.Matching.PersistResults,
			},
			matchEngine, factoryStore, redis.Client, log,
		)
		startWorker(zeebeClient, rf.TaskType, cfg.Workers[rf.TaskType], activities, instrument(obs, handler.Handle), zapLog)
	}

	if cfg.Workers[sd.TaskType].Enabled {
		handler := sd.NewHandler(
			&sd.Config{
				Timeout:     time.Duration(cfg.Workers[sd.TaskType].Timeout) * time.Millisecond,
				ProgressTTL: time.Duration(cfg.Dedup.ProgressTTLMinutes) * time.Minute,
			},
			dedupScanner, redis.Client, log,
		)
		startWorker(zeebeClient, sd.TaskType, cfg.Workers[sd.TaskType], activities, instrument(obs, handler.Handle), zapLog)
	}

	if cfg.Workers[mdg.TaskType].Enabled {
		handler := mdg.NewHandler(
			&mdg.Config{
				Timeout: time.Duration(cfg.Workers[mdg.TaskType].Timeout) * time.Millisecond,
			},
			dedupScanner, log,
		)
		startWorker(zeebeClient, mdg.TaskType, cfg.Workers[mdg.TaskType], activities, instrument(obs, handler.Handle), zapLog)
	}

	zapLog.Info("All workers registered successfully")

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			status := "ready"
			code := http.StatusOK
			if err := pg.Ping(r.Context()); err != nil {
				status = "degraded"
				code = http.StatusServiceUnavailable
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(code)
			json.NewEncoder(w).Encode(map[string]string{
				"status": status,
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/activities", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(activities)
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")

	if err := zeebeClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

// instrument wraps a job handler so every invocation lands in the OTel
// counters alongside the per-worker Prometheus metrics.
func instrument(obs *observability.Observability, handlerFunc func(worker.JobClient, entities.Job)) func(worker.JobClient, entities.Job) {
	return func(client worker.JobClient, job entities.Job) {
		start := time.Now()
		handlerFunc(client, job)
		obs.RecordJobDuration(context.Background(), time.Since(start), job.Type)
		obs.RecordJobProcessed(context.Background(), job.Type)
	}
}

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, activities *registry.ActivityRegistry, handlerFunc func(worker.JobClient, entities.Job), log *zap.Logger) {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return
	}

	activity, err := activities.FindByTaskType(taskType)
	if err != nil {
		log.Fatal("task type missing from activity catalog", zap.String("taskType", taskType))
	}

	client.NewJobWorker().
		JobType(taskType).
		Handler(handlerFunc).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.String("activity", activity.DisplayName),
		zap.String("category", activity.Category),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
}
