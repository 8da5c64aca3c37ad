// Package main is the entry point for the aquasim classroom server.
// It only handles dependency injection and server initialization.
// NO simulation logic belongs here.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/edutanks/aquasim/internal/api"
	"github.com/edutanks/aquasim/internal/engine"
	"github.com/edutanks/aquasim/internal/events"
	"github.com/edutanks/aquasim/internal/infra/cache"
	"github.com/edutanks/aquasim/internal/infra/storage"
	"github.com/edutanks/aquasim/internal/network"
	"github.com/edutanks/aquasim/internal/platform/config"
	"github.com/edutanks/aquasim/internal/platform/logger"
	"github.com/edutanks/aquasim/internal/platform/metrics"
	"github.com/edutanks/aquasim/internal/platform/optimization"
)

// ledgerPersisterAdapter translates domain events to storage records.
type ledgerPersisterAdapter struct {
	repo   storage.EventRepository
	logger *logger.Logger
}

func (a *ledgerPersisterAdapter) Append(event events.SimEvent) error {
	// The event itself still gets ledgered when its payload is not
	// representable as a JSON object; the payload column is just empty.
	var payloadMap map[string]interface{}
	payloadBytes, err := json.Marshal(event.Payload)
	if err != nil {
		a.logger.Warn("event %s payload not serializable, ledgering without it: %v", event.ID, err)
	} else if err := json.Unmarshal(payloadBytes, &payloadMap); err != nil {
		a.logger.Warn("event %s payload not a JSON object, ledgering without it: %v", event.ID, err)
	}

	err = a.repo.Append(context.Background(), storage.EventRecord{
		ID:         event.ID,
		Timestamp:  event.Timestamp,
		SimTime:    event.SimTime,
		EventType:  string(event.Type),
		AquariumID: event.AquariumID,
		SubjectID:  event.SubjectID,
		Payload:    payloadMap,
	})
	metrics.RecordEventWrite(err)
	return err
}

// restoreState loads the last saved snapshot, if any, back into the manager.
func restoreState(ctx context.Context, repo storage.StateRepository, m *engine.Manager, appLogger *logger.Logger) {
	rec, ok, err := repo.Load(ctx)
	if err != nil {
		appLogger.Error("failed to load saved state: %v", err)
		return
	}
	if !ok {
		appLogger.Info("no saved state found, starting fresh")
		return
	}

	var snap engine.Snapshot
	if err := json.Unmarshal(rec.Payload, &snap); err != nil {
		appLogger.Error("saved state is unreadable, starting fresh: %v", err)
		return
	}
	if err := m.ImportState(snap); err != nil {
		appLogger.Error("saved state was rejected, starting fresh: %v", err)
		return
	}
	appLogger.Info("restored state saved at %s (%d aquariums)", rec.SavedAt.Format(time.RFC3339), len(snap.Aquariums))
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[AQUASIM] invalid configuration: %v", err)
	}

	appLogger := logger.NewFileLogger(cfg.LogFile, cfg.LogLevel)
	appLogger.Info("Initializing aquasim classroom server...")

	tuning := optimization.DefaultConfig()

	appLogger.Info("Initializing SQLite database %q...", cfg.DBPath)
	db, err := storage.InitSQLite(cfg.DBPath)
	if err != nil {
		appLogger.Error("Failed to initialize SQLite: %v", err)
		os.Exit(1)
	}
	db.SetMaxOpenConns(tuning.DBMaxOpenConns)
	db.SetMaxIdleConns(tuning.DBMaxIdleConns)
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The event ledger lives in Postgres when a DSN is configured, so several
	// classroom servers can share one audit trail. SQLite otherwise.
	var eventRepo storage.EventRepository = storage.NewSQLiteEventRepository(db)
	if cfg.PostgresDSN != "" {
		pool, err := storage.NewPostgresPool(ctx, cfg.PostgresDSN)
		if err != nil {
			appLogger.Error("Failed to connect to Postgres ledger: %v", err)
			os.Exit(1)
		}
		defer pool.Close()
		eventRepo = storage.NewPostgresEventRepository(pool)
		appLogger.Info("Event ledger backed by Postgres")
	}

	eventLog := events.NewEventLog(&ledgerPersisterAdapter{repo: eventRepo, logger: appLogger})

	appLogger.Info("Bootstrapping simulation manager...")
	manager, err := engine.NewManager(engine.DefaultConfig(), time.Now(), appLogger)
	if err != nil {
		appLogger.Error("Invalid engine configuration: %v", err)
		os.Exit(1)
	}

	stateRepo := storage.NewSQLiteStateRepository(db)
	restoreState(ctx, stateRepo, manager, appLogger)

	driver := engine.NewDriver(manager, eventLog, appLogger, cfg.TickInterval, cfg.TimeScale)
	go driver.Start(ctx)

	// Automated state backup routine.
	go func() {
		backupTicker := time.NewTicker(cfg.BackupInterval)
		defer backupTicker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-backupTicker.C:
				snap := manager.ExportState()
				payload, err := json.Marshal(snap)
				if err != nil {
					appLogger.Error("failed to serialize state backup: %v", err)
					continue
				}
				if err := stateRepo.Save(ctx, storage.StateRecord{
					TakenAt: snap.TakenAt,
					SavedAt: time.Now(),
					Payload: payload,
				}); err != nil {
					appLogger.Error("failed to save state backup: %v", err)
				}
			}
		}
	}()

	// Optional Redis snapshot read cache.
	var snapshotCache *cache.SnapshotCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			PoolSize: tuning.RedisPoolSize,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			appLogger.Warn("Redis unreachable, snapshot cache disabled: %v", err)
		} else {
			snapshotCache = cache.NewSnapshotCache(rdb, cfg.TickInterval)
			appLogger.Info("Snapshot read cache backed by Redis at %s", cfg.RedisAddr)
		}
		defer rdb.Close()
	}

	appLogger.Info("Bootstrapping WebSocket hub...")
	hub := network.NewHub(manager, eventLog, appLogger, tuning)
	go hub.Run(ctx)
	hub.StartEventPoller(ctx)

	handler := api.NewHandler(manager, eventLog, hub, snapshotCache, appLogger)
	router := api.NewRouter(handler, appLogger)

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		appLogger.Info("HTTP server listening on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("HTTP server failed: %v", err)
			cancel()
		}
	}()

	// Graceful shutdown: stop the driver, take a final backup, drain HTTP.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}
	appLogger.Info("Shutting down...")

	driver.Stop()
	cancel()

	snap := manager.ExportState()
	if payload, err := json.Marshal(snap); err == nil {
		saveCtx, saveCancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := stateRepo.Save(saveCtx, storage.StateRecord{
			TakenAt: snap.TakenAt,
			SavedAt: time.Now(),
			Payload: payload,
		}); err != nil {
			appLogger.Error("final state backup failed: %v", err)
		}
		saveCancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP shutdown error: %v", err)
	}
	appLogger.Info("Server stopped.")
}
