// Package main provides the main entry point for the Santral call-center back office
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eylemk/santral/app/handlers"
	"github.com/eylemk/santral/app/middleware"
	"github.com/eylemk/santral/app/router"
	"github.com/eylemk/santral/app/scheduler"
	"github.com/eylemk/santral/app/services"
	businessflow "github.com/eylemk/santral/business_flow"
	"github.com/eylemk/santral/config"
	"github.com/eylemk/santral/models"
	"github.com/eylemk/santral/repository"
	"github.com/eylemk/santral/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Application represents the main application structure
type Application struct {
	router    *router.FiberRouter
	config    *config.ProductionConfig
	server    *fiber.App
	stopFuncs []func()
}

func main() {
	log.Println("Starting Santral application...")

	// Load production configuration
	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging(cfg.Logging)

	// Initialize application
	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	// Setup routes
	app.router.SetupRoutes()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Server starting on %s", address)

		if err := app.server.Listen(address); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Println("Shutting down gracefully...")

	// Stop background workers
	for _, fn := range app.stopFuncs {
		fn()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// setupLogging routes the standard logger through a rotating file when one is
// configured, keeping stdout as a second sink for container logs
func setupLogging(cfg config.LoggingConfig) {
	if cfg.FilePath == "" {
		return
	}
	rotator := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	log.SetOutput(io.MultiWriter(os.Stdout, rotator))
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pooling
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// Test the connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("Database connection established with %d max open connections, %d max idle connections",
		cfg.MaxOpenConns, cfg.MaxIdleConns)

	return db, nil
}

// migrateSchema keeps the schema in sync with the model definitions
func migrateSchema(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.TicketCategory{},
		&models.Customer{},
		&models.SequenceCounter{},
		&models.TicketLock{},
		&models.Ticket{},
		&models.Message{},
		&models.Shift{},
	)
}

// initializeCache initializes the Redis client and verifies connectivity
func initializeCache(cfg config.CacheConfig) (*redis.Client, error) {
	if !cfg.Enabled || cfg.Provider != "redis" {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	// Override DB if provided in config
	opt.DB = cfg.RedisDB

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Redis connection established to %s (db=%d)", cfg.RedisURL, cfg.RedisDB)
	return rc, nil
}

// initializeNotificationService initializes the notification service
func initializeNotificationService(cfg *config.ProductionConfig) services.NotificationService {
	var smsService services.SMSService

	switch cfg.SMS.ProviderDomain {
	case "mock":
		smsService = services.NewMockSMSService()
	default:
		smsService = services.NewSMSService(&cfg.SMS)
	}

	return services.NewNotificationService(smsService, &cfg.SMS)
}

// initializeApplication initializes the main application components
func initializeApplication(cfg *config.ProductionConfig) (*Application, error) {
	var stopFuncs []func()

	// Initialize database
	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := migrateSchema(db); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	rc, err := initializeCache(cfg.Cache)
	if err != nil {
		return nil, err
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	categoryRepo := repository.NewTicketCategoryRepository(db)
	seqRepo := repository.NewSequenceCounterRepository(db)
	lockRepo := repository.NewTicketLockRepository(db)
	ticketRepo := repository.NewTicketRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	shiftRepo := repository.NewShiftRepository(db)

	// Seed the ticket number counter and the first operator
	if err := ensureTicketCounter(db, seqRepo, cfg.Ticketing.SequenceName); err != nil {
		return nil, err
	}
	if err := ensureAdminUser(userRepo, cfg.Admin); err != nil {
		return nil, err
	}

	// Initialize services
	notificationService := initializeNotificationService(cfg)

	tokenService, err := services.NewTokenService(cfg.JWT)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}

	log.Printf("Token service initialized with issuer: %s, audience: %s", cfg.JWT.Issuer, cfg.JWT.Audience)

	// Initialize flows
	reservationFlow := businessflow.NewReservationFlow(
		db,
		seqRepo,
		lockRepo,
		rc,
		cfg.Cache,
		cfg.Ticketing,
	)

	duplicateGuardFlow := businessflow.NewDuplicateGuardFlow(
		ticketRepo,
		customerRepo,
		cfg.Ticketing,
	)

	ticketFlow := businessflow.NewTicketFlow(
		db,
		ticketRepo,
		lockRepo,
		customerRepo,
		categoryRepo,
		notificationService,
		rc,
		cfg.Cache,
	)

	userFlow := businessflow.NewUserFlow(userRepo, tokenService)
	customerFlow := businessflow.NewCustomerFlow(customerRepo)
	messageFlow := businessflow.NewMessageFlow(messageRepo, userRepo)
	shiftFlow := businessflow.NewShiftFlow(shiftRepo, userRepo)
	reportFlow := businessflow.NewReportFlow(ticketRepo, customerRepo, cfg.Ticketing)

	// Initialize auth middleware
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Initialize router
	appRouter := router.NewFiberRouter(
		router.Handlers{
			User:        handlers.NewUserHandler(userFlow),
			Reservation: handlers.NewReservationHandler(reservationFlow, duplicateGuardFlow),
			Ticket:      handlers.NewTicketHandler(ticketFlow),
			Customer:    handlers.NewCustomerHandler(customerFlow),
			Message:     handlers.NewMessageHandler(messageFlow),
			Shift:       handlers.NewShiftHandler(shiftFlow),
			Report:      handlers.NewReportHandler(reportFlow),
		},
		authMiddleware,
		cfg,
	)

	// Expired pending locks are removed server-side
	reaper := scheduler.NewLockReaper(lockRepo, cfg.Ticketing.ReaperInterval)
	stopFuncs = append(stopFuncs, reaper.Start(context.Background()))

	fiberRouter := appRouter.(*router.FiberRouter)
	application := &Application{
		router:    fiberRouter,
		config:    cfg,
		server:    fiberRouter.GetApp(),
		stopFuncs: stopFuncs,
	}

	return application, nil
}

// ensureTicketCounter seeds the named sequence counter on first boot
func ensureTicketCounter(db *gorm.DB, seqRepo repository.SequenceCounterRepository, name string) error {
	ctx := context.Background()
	counter, err := seqRepo.ByName(ctx, name)
	if err != nil {
		return err
	}
	if counter != nil {
		return nil
	}
	return seqRepo.Save(ctx, &models.SequenceCounter{Name: name, LastValue: 0})
}

// ensureAdminUser creates the bootstrap admin account when it does not exist.
// Skipped when no admin password is configured.
func ensureAdminUser(userRepo repository.UserRepository, cfg config.AdminConfig) error {
	if cfg.Username == "" || cfg.Password == "" {
		return nil
	}
	ctx := context.Background()
	existing, err := userRepo.ByUsername(ctx, cfg.Username)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := &models.User{
		Username:     cfg.Username,
		FullName:     "Administrator",
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		IsActive:     utils.ToPtr(true),
	}
	if err := userRepo.Save(ctx, admin); err != nil {
		return err
	}
	log.Printf("Bootstrap admin user %q created", cfg.Username)
	return nil
}
