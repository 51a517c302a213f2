// Package http provides the HTTP API for banditd.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/banditd/internal/bandit"
)

// Server exposes the bandit engine over HTTP.
type Server struct {
	echo     *echo.Echo
	registry *bandit.Registry
	logger   *zap.Logger
	config   *Config
}

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
}

// NewServer creates a new HTTP server around the registry.
func NewServer(registry *bandit.Registry, logger *zap.Logger, cfg *Config) (*Server, error) {
	if registry == nil {
		return nil, fmt.Errorf("registry cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = &Config{
			Host: "localhost",
			Port: 8000,
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", duration),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)

			return err
		}
	})

	s := &Server{
		echo:     e,
		registry: registry,
		logger:   logger,
		config:   cfg,
	}

	s.registerRoutes()

	return s, nil
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := s.echo.Group("/api/v1")
	v1.POST("/experiments", s.handleCreate)
	v1.GET("/experiments", s.handleList)
	v1.DELETE("/experiments/:name", s.handleDelete)
	v1.GET("/experiments/:name/stats", s.handleStats)
	v1.POST("/experiments/:name/select", s.handleSelect)
	v1.POST("/experiments/:name/reward", s.handleReward)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleCreate(c echo.Context) error {
	var req CreateExperimentRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid create request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	cfg := bandit.ExperimentConfig{
		Name:      req.Name,
		Arms:      req.Arms,
		Algorithm: bandit.Algorithm(req.Algorithm),
		Epsilon:   bandit.DefaultEpsilon,
		C:         bandit.DefaultUCBC,
		Seed:      req.Seed,
	}
	if req.Epsilon != nil {
		cfg.Epsilon = *req.Epsilon
	}
	if req.C != nil {
		cfg.C = *req.C
	}

	summary, err := s.registry.Create(cfg)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, summary)
}

func (s *Server) handleList(c echo.Context) error {
	return c.JSON(http.StatusOK, ListResponse{Experiments: s.registry.List()})
}

func (s *Server) handleDelete(c echo.Context) error {
	name := c.Param("name")
	if err := s.registry.Delete(name); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("experiment %q deleted", name),
	})
}

func (s *Server) handleStats(c echo.Context) error {
	stats, err := s.registry.Stats(c.Param("name"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, stats)
}

func (s *Server) handleSelect(c echo.Context) error {
	sel, err := s.registry.SelectArm(c.Param("name"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, SelectResponse{
		Experiment: sel.Experiment,
		ArmIndex:   sel.ArmIndex,
		ArmLabel:   sel.ArmLabel,
		Timestamp:  sel.Timestamp,
	})
}

func (s *Server) handleReward(c echo.Context) error {
	var req RewardRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid reward request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	name := c.Param("name")
	if err := s.registry.UpdateReward(name, req.ArmIndex, req.Reward); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "reward updated"})
}

// httpError maps engine errors to HTTP status codes.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, bandit.ErrExperimentNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, bandit.ErrExperimentExists):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, bandit.ErrInvalidExperimentConfig),
		errors.Is(err, bandit.ErrInvalidConfig),
		errors.Is(err, bandit.ErrArmIndexOutOfRange),
		errors.Is(err, bandit.ErrInvalidReward):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}

// Handler returns the underlying handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}
