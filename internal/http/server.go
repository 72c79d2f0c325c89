// Package http exposes the REST API: users, categories, cashflow
// transactions, summaries and recurring templates, all behind bearer-token
// authentication.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"cashflow/internal/log"
	"cashflow/internal/middleware/ratelimit"
	"cashflow/internal/services"
)

// Config holds the server knobs.
type Config struct {
	Port              string
	CORSOrigins       []string
	RequestsPerMinute int
}

// Deps carries the collaborators the server routes requests to. Ready, when
// set, backs the readiness probe.
type Deps struct {
	Auth         Authenticator
	Users        *services.UserService
	Categories   *services.CategoryService
	Transactions *services.TransactionService
	Summary      *services.SummaryService
	Recurring    *services.RecurringService
	Logger       *log.Logger
	Ready        func(ctx context.Context) error
}

type Server struct {
	http    http.Server
	engine  *gin.Engine
	limiter *ratelimit.Limiter
	logger  *log.Logger

	auth         Authenticator
	users        *services.UserService
	categories   *services.CategoryService
	transactions *services.TransactionService
	summary      *services.SummaryService
	recurring    *services.RecurringService
	ready        func(ctx context.Context) error
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(cfg Config, deps Deps) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	s := &Server{
		engine:       engine,
		limiter:      ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: cfg.RequestsPerMinute}),
		logger:       deps.Logger.WithComponent(log.ComponentHTTP),
		auth:         deps.Auth,
		users:        deps.Users,
		categories:   deps.Categories,
		transactions: deps.Transactions,
		summary:      deps.Summary,
		recurring:    deps.Recurring,
		ready:        deps.Ready,
	}
	s.http = http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	engine.Use(gin.Recovery())
	engine.Use(log.Middleware(s.logger))
	engine.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	engine.GET("/healthz", s.handleHealth)
	engine.GET("/readyz", s.handleReady)

	api := engine.Group("/api")
	api.Use(s.limiter.Middleware())
	api.Use(s.authMiddleware())

	api.GET("/users/me", s.getMe)
	api.PUT("/users/me", s.updateMe)
	api.DELETE("/users/me", s.deleteMe)

	api.POST("/categories", s.createCategory)
	api.GET("/categories", s.listCategories)
	api.GET("/categories/:id", s.getCategory)
	api.PUT("/categories/:id", s.updateCategory)
	api.DELETE("/categories/:id", s.deleteCategory)

	api.POST("/cashflow", s.createTransaction)
	api.GET("/cashflow", s.listTransactions)
	api.GET("/cashflow/summary", s.getSummary)
	api.GET("/cashflow/:id", s.getTransaction)
	api.PUT("/cashflow/:id", s.updateTransaction)
	api.DELETE("/cashflow/:id", s.deleteTransaction)

	api.POST("/recurring", s.createTemplate)
	api.GET("/recurring", s.listTemplates)
	api.GET("/recurring/:id", s.getTemplate)
	api.PUT("/recurring/:id", s.updateTemplate)
	api.DELETE("/recurring/:id", s.deleteTemplate)

	return s
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// Handler exposes the routing tree, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start serves until ctx is canceled, then drains in-flight requests.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		s.limiter.Stop()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.limiter.Stop()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	return <-errCh
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleReady(c *gin.Context) {
	if s.ready != nil {
		if err := s.ready(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
