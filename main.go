package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"orderuz/internal/config"
	"orderuz/internal/handlers"
	"orderuz/internal/middleware"
	"orderuz/internal/models"
	"orderuz/internal/repositories"
	"orderuz/internal/services"
	"orderuz/pkg/kafka"
	"orderuz/pkg/rabbitmq"
)

// App is the assembled service: the HTTP server plus the resources it owns.
type App struct {
	Fiber  *fiber.App
	Orders *services.OrderService

	closers []func() error
}

// repositorySet groups the storage backends chosen by DB_DRIVER.
type repositorySet struct {
	orders   repositories.OrderRepository
	accounts repositories.AccountRepository
	comments repositories.CommentRepository
}

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()

	loader, err := config.FromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	cfg := loader.Config()
	config.ApplyLogLevel(cfg.LogLevel)
	loader.Watch(func(c *config.Config) {
		config.ApplyLogLevel(c.LogLevel)
	})

	app, err := NewApp(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}

	if err := app.Orders.ResumeActive(); err != nil {
		log.Error().Err(err).Msg("Failed to resume order tracking")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Str("port", cfg.AppPort).Msg("Starting server")
		if err := app.Fiber.Listen(cfg.AppPort); err != nil {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	<-quit
	log.Info().Msg("Shutting down server...")
	if err := app.Close(); err != nil {
		log.Error().Err(err).Msg("Error during shutdown")
	}
	log.Info().Msg("Server gracefully stopped")
}

// NewApp wires repositories, brokers, services and handlers from cfg.
func NewApp(cfg *config.Config) (*App, error) {
	a := &App{}

	repos, err := a.openRepositories(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	cartRepo, err := a.openCartRepository(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	publisher, err := a.openPublisher(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	catalog := repositories.NewMockCatalogRepository()
	if err := repositories.SeedCatalog(catalog); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to seed catalog: %w", err)
	}

	accounts := services.NewAccountService(repos.accounts, cfg.JWTSecret)
	carts := services.NewCartService(cartRepo, catalog)
	orders := services.NewOrderService(repos.orders, publisher, services.WithTrackerInterval(cfg.TrackerInterval))
	orders.Subscribe(accounts.OnOrderChange)
	follows := services.NewFollowService(repos.accounts)
	feed := services.NewFeedService(catalog, follows, repos.accounts)
	checkout := services.NewCheckoutService(carts, orders, repos.accounts, catalog)
	comments := services.NewCommentService(repos.comments, catalog)
	a.Orders = orders

	// Services keep route params and headers past the request, so they
	// must not alias fasthttp's reused buffers.
	app := fiber.New(fiber.Config{AppName: "orderuz", Immutable: true})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":       "healthy",
			"time":         time.Now().Format(time.RFC3339),
			"db_driver":    cfg.DBDriver,
			"event_broker": cfg.EventBroker,
		})
	})

	apiV1 := app.Group("/api/v1", middleware.Session())
	auth := middleware.AuthRequired(accounts)
	optional := middleware.AuthOptional(accounts)

	handlers.NewAccountHandler(accounts).RegisterRoutes(apiV1, auth)
	handlers.NewCartHandler(carts).RegisterRoutes(apiV1)
	handlers.NewOrderHandler(orders, checkout, accounts, services.DefaultQRGenerator{BaseURL: cfg.PublicBaseURL}).RegisterRoutes(apiV1, auth)
	handlers.NewFeedHandler(feed, follows, catalog).RegisterRoutes(apiV1, optional, auth)
	handlers.NewCommentHandler(comments, accounts).RegisterRoutes(apiV1, auth)

	a.Fiber = app
	return a, nil
}

// Close stops the server, the order trackers and every opened resource,
// in reverse order of creation.
func (a *App) Close() error {
	var firstErr error
	if a.Fiber != nil {
		if err := a.Fiber.Shutdown(); err != nil {
			firstErr = err
		}
	}
	if a.Orders != nil {
		a.Orders.Shutdown()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}

func (a *App) openRepositories(cfg *config.Config) (repositorySet, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case config.DriverMemory:
		log.Info().Msg("Using in-memory repositories")
		return repositorySet{
			orders:   repositories.NewMockOrderRepository(),
			accounts: repositories.NewMockAccountRepository(),
			comments: repositories.NewMockCommentRepository(),
		}, nil
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.DatabaseDSN)
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DatabaseDSN)
	default:
		return repositorySet{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)})
	if err != nil {
		return repositorySet{}, fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return repositorySet{}, fmt.Errorf("failed to get database handle: %w", err)
	}
	a.closers = append(a.closers, sqlDB.Close)

	if err := db.AutoMigrate(&models.Account{}, &models.Order{}, &models.Comment{}); err != nil {
		return repositorySet{}, fmt.Errorf("failed to migrate database: %w", err)
	}
	log.Info().Str("driver", cfg.DBDriver).Msg("Database connected and migrated")

	return repositorySet{
		orders:   repositories.NewGORMOrderRepository(db),
		accounts: repositories.NewGORMAccountRepository(db),
		comments: repositories.NewGORMCommentRepository(db),
	}, nil
}

func (a *App) openCartRepository(cfg *config.Config) (repositories.CartRepository, error) {
	if cfg.RedisAddr == "" {
		return repositories.NewMockCartRepository(), nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
	}
	a.closers = append(a.closers, client.Close)
	log.Info().Str("addr", cfg.RedisAddr).Dur("ttl", cfg.CartTTL).Msg("Using Redis cart storage")
	return repositories.NewRedisCartRepository(client, cfg.CartTTL), nil
}

func (a *App) openPublisher(cfg *config.Config) (services.EventPublisher, error) {
	switch cfg.EventBroker {
	case config.BrokerRabbitMQ:
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		a.closers = append(a.closers, mqClient.Close)

		go func() {
			log.Info().Str("queue", rabbitmq.OrderEventsQueue).Msg("Starting RabbitMQ consumer for order events")
			if err := mqClient.ConsumeOrderEvents(rabbitmq.LogOrderEvent); err != nil {
				log.Error().Err(err).Msg("Failed to start RabbitMQ consumer")
			}
		}()
		return mqClient, nil
	case config.BrokerKafka:
		publisher, err := kafka.NewPublisher(kafka.Config{Brokers: cfg.KafkaBrokers, Topic: cfg.KafkaTopic})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Kafka publisher: %w", err)
		}
		a.closers = append(a.closers, publisher.Close)
		return publisher, nil
	default:
		log.Info().Msg("Order events are not published to a broker")
		return nil, nil
	}
}
