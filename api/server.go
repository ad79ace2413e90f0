package api

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"cosmossdk.io/log"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"github.com/paw-chain/pinservice/api/health"
	"github.com/paw-chain/pinservice/app"
)

// Version is reported by the health endpoint.
var Version = "dev"

// Server represents the pinservice HTTP API server
type Server struct {
	router      *gin.Engine
	handler     http.Handler
	host        *app.App
	config      *Config
	authService *AuthService
	health      *health.HealthChecker
	logger      log.Logger
}

// Config holds server configuration
type Config struct {
	Host            string
	Port            string
	JWTSecret       []byte
	TokenTTL        time.Duration
	ChallengeTTL    time.Duration
	CORSOrigins     []string
	RateLimitRPS    int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DefaultConfig returns default server configuration
func DefaultConfig() *Config {
	return &Config{
		Host:            "0.0.0.0",
		Port:            "8480",
		TokenTTL:        24 * time.Hour,
		ChallengeTTL:    5 * time.Minute,
		CORSOrigins:     []string{"http://localhost:3000"},
		RateLimitRPS:    100,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// NewServer creates a new API server over host
func NewServer(logger log.Logger, host *app.App, config *Config) (*Server, error) {
	if config == nil {
		config = DefaultConfig()
	}
	logger = logger.With("module", "api")

	if len(config.JWTSecret) == 0 {
		secret := make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("failed to generate JWT secret: %w", err)
		}
		config.JWTSecret = secret
		logger.Info("JWT secret generated randomly; sessions will not survive a restart")
	}

	authService, err := NewAuthService(config.JWTSecret, host.ChainID(), config.TokenTTL, config.ChallengeTTL)
	if err != nil {
		return nil, err
	}

	server := &Server{
		host:        host,
		config:      config,
		authService: authService,
		health:      health.NewHealthChecker(Version),
		logger:      logger,
	}
	server.health.RegisterCheck("store", health.StoreCheck(server.pingStore))
	server.health.RegisterCheck("blocks", health.BlockCheck(func() int64 { return host.LastCommitID().Version }))

	server.setupRouter()
	return server, nil
}

// setupRouter configures the Gin router with all routes and middleware
func (s *Server) setupRouter() {
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	s.router = gin.New()

	// Recovery first so it catches panics from every later handler.
	s.router.Use(gin.Recovery())
	s.router.Use(SecurityHeadersMiddleware())
	s.router.Use(RequestSizeLimitMiddleware(MaxRequestSize))
	s.router.Use(RequestIDMiddleware())
	s.router.Use(LoggerMiddleware(s.logger))
	s.router.Use(RateLimitMiddleware(s.config.RateLimitRPS))

	s.registerRoutes()

	s.handler = cors.New(cors.Options{
		AllowedOrigins:   s.config.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           86400,
	}).Handler(s.router)
}

// RegisterHealthCheck adds a named component check to the health endpoint
func (s *Server) RegisterHealthCheck(name string, check health.CheckFunc) {
	s.health.RegisterCheck(name, check)
}

// RegisterOptionalHealthCheck adds a component whose failure only degrades the health report
func (s *Server) RegisterOptionalHealthCheck(name string, check health.CheckFunc) {
	s.health.RegisterOptionalCheck(name, check)
}

// Handler returns the root HTTP handler including CORS
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) pingStore(ctx context.Context) error {
	return s.host.Query(ctx, func(ctx sdk.Context) error {
		_, err := s.host.PinServiceKeeper.GetConfig(ctx)
		return err
	})
}

// Start serves until ctx is cancelled and then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:           net.JoinHostPort(s.config.Host, s.config.Port),
		Handler:        s.handler,
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting API server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("API server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
