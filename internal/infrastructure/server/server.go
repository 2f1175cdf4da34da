package server

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	httpHandlers "github.com/taskmaster/desk/internal/adapters/http"
	"github.com/taskmaster/desk/internal/infrastructure/config"
	"github.com/taskmaster/desk/internal/infrastructure/database"
	"github.com/taskmaster/desk/internal/infrastructure/logger"
	"github.com/taskmaster/desk/internal/infrastructure/metrics"
	"github.com/taskmaster/desk/internal/ports"
)

// bodyLimit caps every request body; the import endpoint applies its own tighter cap
const bodyLimit = "2M"

// Services are the dependencies the API is built on. DB is nil for the json
// storage driver.
type Services struct {
	Contacts    ports.ContactService
	Tasks       ports.TaskService
	Calc        ports.CalculatorService
	Game        ports.GameService
	Auth        ports.AuthService
	ContactRepo ports.ContactRepository
	TaskRepo    ports.TaskRepository
	DB          *database.DB
}

// Server represents the HTTP server
type Server struct {
	echo    *echo.Echo
	config  *config.Config
	logger  *logger.Logger
	svc     Services
	metrics *metrics.Metrics
}

// New creates a new server instance
func New(cfg *config.Config, svc Services, appLogger *logger.Logger) (*Server, error) {
	e := echo.New()

	e.Validator = &httpHandlers.CustomValidator{}
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = httpHandlers.ErrorHandler(appLogger)

	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	e.Server.IdleTimeout = cfg.Server.IdleTimeout

	server := &Server{
		echo:   e,
		config: cfg,
		logger: appLogger.WithComponent("http"),
		svc:    svc,
	}

	server.setupMiddleware()

	if cfg.Metrics.Enabled {
		server.setupMetrics()
	}

	server.setupRoutes()

	return server, nil
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.BodyLimit(bodyLimit))
	s.echo.Use(middleware.RequestID())

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, values middleware.RequestLoggerValues) error {
			log := s.logger.WithRequestID(values.RequestID)
			fields := []interface{}{
				"method", values.Method,
				"uri", values.URI,
				"status", values.Status,
				"latency_ms", float64(values.Latency.Nanoseconds()) / 1000000,
				"remote_ip", values.RemoteIP,
			}

			if values.Error != nil {
				fields = append(fields, "error", values.Error.Error())
				log.Warnw("HTTP request failed", fields...)
			} else {
				log.Infow("HTTP request", fields...)
			}

			return nil
		},
	}))

	s.echo.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      s.rateLimit(),
				Burst:     s.config.Security.RateLimitRequests,
				ExpiresIn: s.config.Security.RateLimitWindow,
			},
		),
		IdentifierExtractor: func(ctx echo.Context) (string, error) {
			return ctx.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, "rate limit exceeded")
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			s.logger.LogSecurityEvent("rate_limited", identifier, map[string]interface{}{
				"endpoint": c.Request().URL.Path,
			})
			return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
		},
	}))

	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ContentSecurityPolicy: "default-src 'self'",
	}))
}

// rateLimit spreads RateLimitRequests evenly over RateLimitWindow
func (s *Server) rateLimit() rate.Limit {
	sec := s.config.Security
	if sec.RateLimitRequests <= 0 || sec.RateLimitWindow <= 0 {
		return rate.Inf
	}
	return rate.Every(sec.RateLimitWindow / time.Duration(sec.RateLimitRequests))
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	contactHandler := httpHandlers.NewContactHandler(s.svc.Contacts, s.logger)
	taskHandler := httpHandlers.NewTaskHandler(s.svc.Tasks, s.logger)
	calcHandler := httpHandlers.NewCalcHandler(s.svc.Calc, s.logger)
	gameHandler := httpHandlers.NewGameHandler(s.svc.Game, s.logger)

	s.echo.GET("/health", s.healthCheck)

	var guards []echo.MiddlewareFunc
	if s.config.Auth.Enabled {
		guards = append(guards, s.authMiddleware(s.svc.Auth))
	}

	v1 := s.echo.Group("/api/v1", guards...)

	contacts := v1.Group("/contacts")
	contacts.GET("", contactHandler.ListContacts)
	contacts.POST("", contactHandler.CreateContact)
	contacts.GET("/export", contactHandler.ExportContacts)
	contacts.POST("/import", contactHandler.ImportContacts)
	contacts.GET("/:id", contactHandler.GetContact)
	contacts.PUT("/:id", contactHandler.UpdateContact)
	contacts.DELETE("/:id", contactHandler.DeleteContact)

	tasks := v1.Group("/tasks")
	tasks.GET("", taskHandler.ListTasks)
	tasks.POST("", taskHandler.CreateTask)
	tasks.GET("/stats", taskHandler.Stats)
	tasks.GET("/taunts", taskHandler.Taunts)
	tasks.GET("/:id", taskHandler.GetTask)
	tasks.POST("/:id/done", taskHandler.MarkDone)
	tasks.DELETE("/:id", taskHandler.DeleteTask)

	calcGroup := v1.Group("/calc")
	calcGroup.POST("/eval", calcHandler.Evaluate)
	calcGroup.POST("/gst", calcHandler.GST)
	calcGroup.POST("/keypad", calcHandler.Press)
	calcGroup.GET("/history", calcHandler.History)

	v1.POST("/game/round", gameHandler.PlayRound)
}

// setupMetrics configures Prometheus metrics
func (s *Server) setupMetrics() {
	s.metrics = metrics.New()
	s.echo.Use(s.metrics.Middleware())

	handler := s.metrics.Handler()
	s.echo.GET("/metrics", func(c echo.Context) error {
		s.refreshRecordGauges(c.Request().Context())
		handler.ServeHTTP(c.Response(), c.Request())
		return nil
	})
}

func (s *Server) refreshRecordGauges(ctx context.Context) {
	if s.svc.ContactRepo != nil {
		if n, err := s.svc.ContactRepo.Count(ctx); err == nil {
			s.metrics.SetRecords("contacts", n)
		}
	}
	if s.svc.TaskRepo != nil {
		if n, err := s.svc.TaskRepo.Count(ctx); err == nil {
			s.metrics.SetRecords("tasks", n)
		}
	}
}

func (s *Server) healthCheck(c echo.Context) error {
	resp := map[string]interface{}{
		"status":  "ok",
		"time":    time.Now().UTC().Format(time.RFC3339),
		"storage": s.config.Storage.Driver,
		"version": s.config.App.Version,
	}

	if s.svc.DB != nil {
		if err := s.svc.DB.HealthCheck(); err != nil {
			resp["status"] = "error"
			resp["error"] = err.Error()
			return c.JSON(http.StatusServiceUnavailable, resp)
		}
	}

	return c.JSON(http.StatusOK, resp)
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start starts the HTTP server
func (s *Server) Start(address string) error {
	s.logger.Infow("Starting server", "address", address)
	return s.echo.Start(address)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Infow("Shutting down server")
	return s.echo.Shutdown(ctx)
}
