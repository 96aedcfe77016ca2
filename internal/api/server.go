package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/TheCleopatra/tradingflow-aptos-contract/internal/metrics"
	"github.com/TheCleopatra/tradingflow-aptos-contract/internal/model"
)

// Version is reported by the info endpoints.
const Version = "1.0.0"

const shutdownTimeout = 10 * time.Second

// Service is the read side exposed over HTTP.
type Service interface {
	ListPools(ctx context.Context) ([]model.PoolInfo, error)
	GetPool(ctx context.Context, poolID string) (*model.PoolInfo, error)
	GetPoolByPair(ctx context.Context, token1, token2 string, feeTierIndex float64) (*model.PoolInfo, error)
	GetTokenMetadata(ctx context.Context, address string) (*model.TokenMetadata, error)
	GetAllTokens(ctx context.Context) ([]model.TokenMetadata, error)
}

// Config controls the HTTP server.
type Config struct {
	CORSOrigins []string
	Network     string
}

// Server is the read-only HTTP façade.
type Server struct {
	cfg     Config
	service Service
	logger  *zap.Logger
	router  *gin.Engine
}

func NewServer(cfg Config, service Service, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}

	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{cfg: cfg, service: service, logger: logger, router: router}
	if err := s.setupMiddleware(); err != nil {
		return nil, err
	}
	s.setupRoutes()
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) setupMiddleware() error {
	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if containsWildcard(s.cfg.CORSOrigins) {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = s.cfg.CORSOrigins
	}
	if err := corsCfg.Validate(); err != nil {
		return fmt.Errorf("cors origins: %w", err)
	}
	s.router.Use(cors.New(corsCfg))
	s.router.Use(s.requestLogger())
	return nil
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.rootInfo("TradingFlow Companion API"))
	s.router.GET("/aptos", s.rootInfo("TradingFlow Aptos API"))
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.router.Group("/aptos/api")
	{
		tokens := api.Group("/tokens")
		tokens.GET("", s.listTokens)
		tokens.GET("/metadata/:address", s.getTokenMetadata)

		pools := api.Group("/pools")
		pools.GET("", s.listPools)
		pools.GET("/pair", s.getPoolByPair)
		pools.GET("/:poolId", s.getPool)
	}

	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})
}

// requestLogger logs each request and records its metrics.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		elapsed := time.Since(start)
		status := c.Writer.Status()
		metrics.RecordHTTPRequest(c.FullPath(), c.Request.Method, status, elapsed)

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("elapsed", elapsed),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		if status >= http.StatusInternalServerError {
			s.logger.Error("request failed", fields...)
			return
		}
		s.logger.Debug("request", fields...)
	}
}

func containsWildcard(origins []string) bool {
	for _, origin := range origins {
		if origin == "*" {
			return true
		}
	}
	return false
}
