// Package router provides HTTP routing, middleware configuration, and server setup for the web application
package router

import (
	"encoding/json"
	"log"
	"time"

	"github.com/eylemk/santral/app/dto"
	"github.com/eylemk/santral/app/handlers"
	"github.com/eylemk/santral/app/middleware"
	"github.com/eylemk/santral/config"
	"github.com/eylemk/santral/models"
	"github.com/eylemk/santral/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/compress"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router interface for HTTP routing
type Router interface {
	SetupRoutes()
	Start(address string) error
	GetApp() *fiber.App
}

// Handlers bundles every HTTP handler the router mounts
type Handlers struct {
	User        handlers.UserHandlerInterface
	Reservation handlers.ReservationHandlerInterface
	Ticket      handlers.TicketHandlerInterface
	Customer    handlers.CustomerHandlerInterface
	Message     handlers.MessageHandlerInterface
	Shift       handlers.ShiftHandlerInterface
	Report      handlers.ReportHandlerInterface
}

// FiberRouter implements Router using Fiber v3
type FiberRouter struct {
	app  *fiber.App
	h    Handlers
	auth *middleware.AuthMiddleware
	cfg  *config.ProductionConfig
}

// NewFiberRouter creates a new Fiber router
func NewFiberRouter(h Handlers, auth *middleware.AuthMiddleware, cfg *config.ProductionConfig) Router {
	app := fiber.New(fiber.Config{
		AppName:      "Santral API",
		ServerHeader: "Santral",
		ErrorHandler: errorHandler,
		BodyLimit:    cfg.Server.BodyLimit,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	return &FiberRouter{
		app:  app,
		h:    h,
		auth: auth,
		cfg:  cfg,
	}
}

// SetupRoutes configures all application routes
func (r *FiberRouter) SetupRoutes() {
	log.Println("Setting up routes...")

	r.setupMiddleware()

	if r.cfg.Metrics.Enabled {
		r.app.Get(r.cfg.Metrics.Path, adaptor.HTTPHandler(promhttp.Handler()))
	}

	api := r.app.Group("/api/v1")

	// Health check route (no rate limiting)
	api.Get("/health", r.healthCheck)

	api.Use(limiter.New(limiter.Config{
		Max:        2000,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
				Success: false,
				Message: "Too many requests. Please try again later.",
				Error: dto.ErrorDetail{
					Code: "RATE_LIMIT_EXCEEDED",
				},
			})
		},
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/api/v1/health"
		},
	}))

	// Auth routes with stricter rate limiting
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:        20,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
				Success: false,
				Message: "Too many requests. Please try again later.",
				Error: dto.ErrorDetail{
					Code: "RATE_LIMIT_EXCEEDED",
				},
			})
		},
	}))
	auth.Post("/login", r.h.User.Login)

	// Everything below requires a valid operator token
	protected := api.Group("", r.auth.Authenticate())

	reservations := protected.Group("/reservations", r.auth.RequirePermission(models.PermTicketsCreate))
	reservations.Post("/", r.h.Reservation.Reserve)
	reservations.Get("/active", r.h.Reservation.Active)
	reservations.Delete("/:number", r.h.Reservation.Release)
	reservations.Post("/duplicates", r.h.Reservation.CheckDuplicates)

	tickets := protected.Group("/tickets")
	tickets.Post("/", r.h.Ticket.Finalize, r.auth.RequirePermission(models.PermTicketsCreate))
	tickets.Get("/", r.h.Ticket.List, r.auth.RequirePermission(models.PermTicketsView))
	tickets.Patch("/:id/status", r.h.Ticket.UpdateStatus, r.auth.RequirePermission(models.PermTicketsUpdate))

	customers := protected.Group("/customers")
	customers.Post("/", r.h.Customer.Create, r.auth.RequirePermission(models.PermCustomers))
	customers.Patch("/:id", r.h.Customer.Update, r.auth.RequirePermission(models.PermCustomers))
	customers.Get("/:id", r.h.Customer.Get, r.auth.RequirePermission(models.PermTicketsView))
	customers.Get("/", r.h.Customer.List, r.auth.RequirePermission(models.PermTicketsView))

	users := protected.Group("/users", r.auth.RequirePermission(models.PermUsersManage))
	users.Post("/", r.h.User.Create)
	users.Get("/", r.h.User.List)
	users.Post("/:id/deactivate", r.h.User.Deactivate)

	messages := protected.Group("/messages", r.auth.RequirePermission(models.PermMessagesSend))
	messages.Post("/", r.h.Message.Send)
	messages.Get("/inbox", r.h.Message.Inbox)
	messages.Post("/:id/read", r.h.Message.MarkRead)

	shifts := protected.Group("/shifts")
	shifts.Post("/", r.h.Shift.Create, r.auth.RequirePermission(models.PermShiftsManage))
	shifts.Get("/", r.h.Shift.List, r.auth.RequirePermission(models.PermTicketsView))
	shifts.Delete("/:id", r.h.Shift.Delete, r.auth.RequirePermission(models.PermShiftsManage))

	reports := protected.Group("/reports", r.auth.RequirePermission(models.PermReportsView))
	reports.Get("/tickets", r.h.Report.Summary)
	reports.Get("/tickets/export", r.h.Report.Export)

	r.app.Use(r.notFoundHandler)

	log.Println("Routes configured")
}

// setupMiddleware configures the global middleware stack
func (r *FiberRouter) setupMiddleware() {
	r.app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
	}))

	r.app.Use(helmet.New(helmet.Config{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         31536000,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}))

	r.app.Use(cors.New(cors.Config{
		AllowOrigins: r.cfg.Server.AllowedOrigins,
		AllowMethods: []string{
			"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"Authorization",
			"X-Requested-With",
			"X-Request-ID",
			"Cache-Control",
		},
		ExposeHeaders: []string{
			"X-Request-ID",
		},
		AllowCredentials: true,
	}))

	r.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	r.app.Use(logger.New(logger.Config{
		Format:     `{"time":"${time}","pid":"${pid}","request_id":"${locals:requestid}","level":"info","method":"${method}","path":"${path}","ip":"${ip}","user_agent":"${ua}","status":${status},"latency":"${latency}"}` + "\n",
		TimeFormat: time.RFC3339,
		TimeZone:   "UTC",
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/api/v1/health"
		},
	}))

	if r.cfg.Metrics.Enabled {
		r.app.Use(middleware.Metrics())
	}

	r.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e interface{}) {
			log.Printf(`{"time":"%s","level":"error","request_id":"%s","event":"panic","error":"%v","path":"%s","method":"%s","ip":"%s"}`,
				utils.UTCNow().Format(time.RFC3339),
				c.Locals("requestid"),
				e,
				c.Path(),
				c.Method(),
				c.IP(),
			)
		},
	}))
}

// healthCheck returns basic service health
func (r *FiberRouter) healthCheck(c fiber.Ctx) error {
	return c.JSON(dto.APIResponse{
		Success: true,
		Message: "Service is healthy",
		Data: fiber.Map{
			"status":    "ok",
			"timestamp": utils.UTCNow().Unix(),
			"service":   "santral-api",
		},
	})
}

func (r *FiberRouter) notFoundHandler(c fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.APIResponse{
		Success: false,
		Message: "The requested resource was not found",
		Error: dto.ErrorDetail{
			Code: "NOT_FOUND",
			Details: fiber.Map{
				"path":       c.Path(),
				"method":     c.Method(),
				"request_id": c.Locals("requestid"),
			},
		},
	})
}

// Start begins listening on the given address
func (r *FiberRouter) Start(address string) error {
	log.Printf("Starting server on %s", address)
	return r.app.Listen(address)
}

// GetApp returns the underlying Fiber application
func (r *FiberRouter) GetApp() *fiber.App {
	return r.app
}

// errorHandler is the global Fiber error handler
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	log.Printf("Error %d: %v (request_id: %v)", code, err, c.Locals("requestid"))

	return c.Status(code).JSON(dto.APIResponse{
		Success: false,
		Message: "An error occurred while processing your request",
		Error: dto.ErrorDetail{
			Code: "INTERNAL_ERROR",
		},
	})
}
