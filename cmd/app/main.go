package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"freight/cmd"
	httpin "freight/internal/adapters/in/http"
	"freight/internal/adapters/out/kafka"
	"freight/internal/adapters/out/memorystore"
	"freight/internal/adapters/out/postgres"
	"freight/internal/adapters/out/redisstore"
	"freight/internal/core/ports"
	"freight/internal/pkg/logging"

	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configs, err := cmd.LoadConfig(".env")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logOpts := logging.DefaultOptions()
	logOpts.Level = configs.LogLevel
	logOpts.File = configs.LogFile
	logger, logCloser, err := logging.New(logOpts, os.Stdout)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logCloser.Close() }()

	pricing, err := cmd.LoadPricingParams(configs.PricingConfigPath)
	if err != nil {
		log.Fatalf("failed to load pricing parameters: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db := mustOpenDatabase(configs)
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	store, closeStore := ephemeralStore(ctx, configs, logger)
	defer closeStore()

	var publisher ports.EventPublisher
	if configs.KafkaHost != "" {
		p := kafka.NewEventPublisher(strings.Split(configs.KafkaHost, ","), configs.KafkaOrderEventsTopic, logger)
		defer func() { _ = p.Close() }()
		publisher = p
	} else {
		logger.Warn("KAFKA_HOST is not set, domain events are dropped")
	}

	app, err := cmd.NewCompositionRoot(configs, cmd.Infrastructure{
		DB:        db,
		Store:     store,
		Publisher: publisher,
		Clock:     ports.ClockFunc(time.Now),
		Logger:    logger,
	}, pricing)
	if err != nil {
		log.Fatalf("failed to wire application: %v", err)
	}

	server, err := app.CreateHTTPServer()
	if err != nil {
		log.Fatalf("failed to build http server: %v", err)
	}
	e := httpin.NewEcho(server, configs.RequestTimeout)

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)
		logger.Info("http server listening", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", "error", err)
		return
	}
	logger.Info("server stopped")
}

func mustOpenDatabase(configs cmd.Config) *gorm.DB {
	db, err := postgres.Open(postgres.Options{
		Driver:          configs.DBDriver,
		DSN:             configs.DSN(),
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	if err := postgres.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}
	return db
}

// ephemeralStore prefers Redis so every instance shares rate limit windows.
func ephemeralStore(ctx context.Context, configs cmd.Config, logger *slog.Logger) (ports.EphemeralStore, func()) {
	if configs.RedisAddr == "" {
		logger.Warn("REDIS_ADDR is not set, rate limits are kept per process")
		return memorystore.NewStore(), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     configs.RedisAddr,
		Password: configs.RedisPassword,
		DB:       configs.RedisDB,
	})
	store := redisstore.NewStore(client, "freight:")
	if err := store.Ping(ctx); err != nil {
		// the limiter fails open, so a cold Redis only degrades limiting
		logger.Warn("redis is unreachable at startup", "addr", configs.RedisAddr, "error", err)
	}
	return store, func() { _ = client.Close() }
}
