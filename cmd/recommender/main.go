// cmd/recommender/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "net/http/pprof"

	"go.uber.org/zap"

	"vehicle-recommender/internal/catalog"
	"vehicle-recommender/internal/common/config"
	"vehicle-recommender/internal/common/database"
	"vehicle-recommender/internal/common/logger"
	"vehicle-recommender/internal/common/observability"
	"vehicle-recommender/internal/inventory"
	"vehicle-recommender/internal/oracle"
	"vehicle-recommender/internal/pipeline"
	"vehicle-recommender/internal/reviews"
	"vehicle-recommender/internal/server"
	adjustsentiment "vehicle-recommender/internal/stages/adjust-sentiment"
	aggregatescores "vehicle-recommender/internal/stages/aggregate-scores"
	analyzeoptions "vehicle-recommender/internal/stages/analyze-options"
	detectpersona "vehicle-recommender/internal/stages/detect-persona"
	rerankbatch "vehicle-recommender/internal/stages/rerank-batch"
	retrievecandidates "vehicle-recommender/internal/stages/retrieve-candidates"
)

// retryWithBackoff attempts to execute a function with exponential backoff.
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
			delay *= 2
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

	zapLog.Info("starting recommender",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name, os.Getenv("JAEGER_ENDPOINT"))
	defer obs.Shutdown()

	ctx := context.Background()

	// --- PostgreSQL with retry ---
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
	zapLog.Info("PostgreSQL connected")

	// --- Redis with retry ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected")

	// --- Inventory store ---
	var store inventory.Store
	switch cfg.Database.InventorySource {
	case "elasticsearch":
		var es *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return es.Ping()
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		store = inventory.NewElasticsearchStore(es.Client, cfg.Database.Elasticsearch.Index, log)
		zapLog.Info("Elasticsearch inventory store ready", zap.String("index", cfg.Database.Elasticsearch.Index))
	default:
		store = inventory.NewPostgresStore(pg.DB, log)
		zapLog.Info("PostgreSQL inventory store ready")
	}

	cat := catalog.Default()

	// Review aggregates come from Postgres behind a Redis cache.
	reviewSource := reviews.NewCachedSource(
		reviews.NewPostgresSource(pg.DB, log),
		rdb.Client,
		time.Duration(cfg.Pipeline.ReviewCacheTTL)*time.Second,
	)

	oracleClient := oracle.NewClient(oracle.Config{
		BaseURL:    cfg.Oracle.BaseURL,
		APIKey:     cfg.Oracle.APIKey,
		MaxRetries: cfg.Oracle.MaxRetries,
	}, log)

	// --- Stage handlers ---
	detect := detectpersona.NewHandler(detectpersona.LoadConfig(), cat, log)

	retrieveCfg := retrievecandidates.LoadConfig()
	retrieveCfg.MinViable = cfg.Pipeline.MinViable
	retrieve := retrievecandidates.NewHandler(retrieveCfg, store, cat, log)

	options := analyzeoptions.NewHandler(analyzeoptions.LoadConfig(), cat, log)
	sentiment := adjustsentiment.NewHandler(adjustsentiment.LoadConfig(), reviewSource, cat, log)

	rerankCfg := rerankbatch.LoadConfig()
	rerankCfg.BatchSize = cfg.Pipeline.BatchSize
	rerankCfg.Workers = cfg.Pipeline.BatchWorkers
	rerankCfg.OracleTimeout = time.Duration(cfg.Oracle.Timeout) * time.Millisecond
	rerank := rerankbatch.NewHandler(rerankCfg, oracleClient, cat, log)

	aggregateCfg := aggregatescores.LoadConfig()
	aggregateCfg.OutputSize = cfg.Pipeline.OutputSize
	aggregate := aggregatescores.NewHandler(aggregateCfg, log)

	results := pipeline.NewResultStore(rdb.Client, time.Duration(cfg.Pipeline.ResultTTL)*time.Second)

	p := pipeline.New(
		&cfg.Pipeline,
		cat,
		detect,
		retrieve,
		options,
		sentiment,
		rerank,
		aggregate,
		results,
		obs,
		log,
	)

	srv := server.New(cfg, p, results, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			zapLog.Fatal("server failed", zap.Error(err))
		}
	case sig := <-stop:
		zapLog.Info("shutdown signal received", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Millisecond)
	defer cancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}
	zapLog.Info("recommender stopped")
}
