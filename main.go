// main.go
package main

import (
	"context"
	"log"

	"court-booking/cmd"
	"court-booking/internal/data/repository"
	"court-booking/internal/wire"
	"court-booking/pkg/auth"
	"court-booking/pkg/database"
	"court-booking/pkg/middleware"
	"court-booking/pkg/mq"
	"court-booking/pkg/telemetry"
	"court-booking/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
		zap.String("venue_timezone", config.Venue.Timezone),
	)

	ctx := context.Background()

	shutdownTracing, err := telemetry.Setup(ctx, config.App.Name, config.Telemetry)
	if err != nil {
		logger.Fatal("Failed to set up tracing", zap.Error(err))
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("Failed to flush traces", zap.Error(err))
		}
	}()

	if config.Database.AutoMigrate {
		if err := database.Migrate(config.Database, logger); err != nil {
			logger.Fatal("Failed to migrate database", zap.Error(err))
		}
		logger.Info("Database migrated")
	}

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	infra := wire.Infra{
		Publisher: mq.NopPublisher{},
		Verifier:  auth.NewVerifier(config.JWT.Secret, config.JWT.Issuer),
	}

	if config.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     config.Redis.Addr,
			Password: config.Redis.Password,
			DB:       config.Redis.DB,
		})
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("Redis unreachable, rate limiter will follow its failure policy", zap.Error(err))
		}
		infra.Counter = middleware.NewRedisCounter(rdb)
		logger.Info("Booking rate limit enabled",
			zap.Int("limit", config.RateLimit.Bookings),
			zap.Duration("window", config.RateLimit.Window),
		)
	} else {
		logger.Warn("REDIS_ADDR not set, booking rate limit disabled")
	}

	if config.Broker.URL != "" {
		publisher, err := mq.NewPublisher(config.Broker.URL, config.Broker.Exchange)
		if err != nil {
			logger.Fatal("Failed to connect to broker", zap.Error(err))
		}
		defer publisher.Close()
		infra.Publisher = publisher
		logger.Info("Publishing domain events", zap.String("exchange", config.Broker.Exchange))
	}

	// Wire all dependencies
	app := wire.Wiring(repos, config, infra, logger)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	if err := cmd.APIServer(telemetry.Handler(app.Router, config.App.Name), config.App.Port, logger); err != nil {
		logger.Error("Server stopped", zap.Error(err))
	}
}
