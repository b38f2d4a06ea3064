package common

import (
	"context"
	"log"
	"strings"

	"banking-os-go/internal/cache"
	"banking-os-go/internal/clock"
	"banking-os-go/internal/database"
	"banking-os-go/internal/dispatcher"
	"banking-os-go/internal/ledger"
	"banking-os-go/internal/models"
	"banking-os-go/internal/scheduler"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// init loads environment variables from .env file if it exists
func init() {
	// Environment variables can also be set via shell export, docker, etc.
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: No .env file found or unable to load it: %v\n", err)
		log.Println("Make sure to set environment variables via export or other means")
	} else {
		log.Println("✓ Loaded environment variables from .env file")
	}
}

// Services is the fully wired bank.
type Services struct {
	DbService  *database.Service
	Ledger     *ledger.Ledger
	Cache      *cache.AccessCache
	Scheduler  *scheduler.Scheduler
	Clock      *clock.Logical
	Dispatcher *dispatcher.Dispatcher
}

func InitializeLogger() (*zap.Logger, func()) {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	zap.ReplaceGlobals(logger)

	cleanup := func() {
		if err := logger.Sync(); err != nil {
			if !isIgnorableSyncError(err) {
				log.Printf("Failed to sync logger: %v\n", err)
			}
		}
	}

	return logger, cleanup
}

func InitializeServices(ctx context.Context, cfg *models.Config) (*Services, error) {
	dbService, err := database.NewService(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	l, err := ledger.New(ledger.Options{
		MaxAccounts:  cfg.Bank.MaxAccounts,
		LockTimeout:  cfg.Bank.LockTimeout,
		PasswordCost: cfg.Bank.PasswordCost,
	})
	if err != nil {
		dbService.Close()
		return nil, err
	}

	accessCache, err := cache.New(cfg.Bank.CacheCapacity)
	if err != nil {
		dbService.Close()
		return nil, err
	}

	sched, err := scheduler.New(cfg.Bank.Quantum, cfg.Bank.ScheduleScope)
	if err != nil {
		dbService.Close()
		return nil, err
	}

	logical := clock.New()
	d, err := dispatcher.New(dispatcher.Options{
		Ledger:    l,
		Cache:     accessCache,
		Scheduler: sched,
		Clock:     logical,
		Journal:   dbService,
		Sink:      dispatcher.NewLogSink(zap.L()),
		Bursts:    cfg.Bank.Bursts,
	})
	if err != nil {
		dbService.Close()
		return nil, err
	}

	zap.L().Info("Bank services initialized",
		zap.Int("max_accounts", cfg.Bank.MaxAccounts),
		zap.Int("cache_capacity", cfg.Bank.CacheCapacity),
		zap.Int("quantum", sched.Quantum()),
		zap.String("schedule_scope", string(sched.Scope())))

	return &Services{
		DbService:  dbService,
		Ledger:     l,
		Cache:      accessCache,
		Scheduler:  sched,
		Clock:      logical,
		Dispatcher: d,
	}, nil
}

func (cs *Services) Close() {
	if cs.DbService != nil {
		cs.DbService.Close()
	}
}

func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "sync /dev/stderr: inappropriate ioctl for device") ||
		strings.Contains(msg, "sync /dev/stdout: inappropriate ioctl for device")
}
