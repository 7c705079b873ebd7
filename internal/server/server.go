// Package server exposes the analysis pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/spigell/ats-scorer/internal/analyzer"
	"github.com/spigell/ats-scorer/internal/resume/extract"
)

const (
	ServiceName = "ats-scorer"

	shutdownTimeout = 10 * time.Second
)

// Analyzer runs the pipeline for one uploaded document.
type Analyzer interface {
	AnalyzeFile(ctx context.Context, filename string, data []byte) (*analyzer.Report, error)
}

// Config controls the HTTP listener and upload handling.
type Config struct {
	Listen      string
	MaxFileSize int64
	UploadDir   string
	Version     string

	// AllowedKinds narrows the accepted formats. Empty means every
	// supported kind.
	AllowedKinds []extract.Kind
}

// Server is the HTTP front of the analyzer.
type Server struct {
	cfg      Config
	analyzer Analyzer
	logger   *zap.Logger
	echo     *echo.Echo
}

// New builds the router. metricsHandler may be nil, in which case /metrics is
// not registered.
func New(cfg Config, svc Analyzer, metricsHandler http.Handler, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		cfg:      cfg,
		analyzer: svc,
		logger:   logger.Named("http"),
		echo:     echo.New(),
	}

	e := s.echo
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.handleError

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			s.logger.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			)
			return nil
		},
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderXRequestID},
	}))
	if cfg.MaxFileSize > 0 {
		e.Use(middleware.BodyLimit(fmt.Sprintf("%dB", cfg.MaxFileSize)))
	}

	e.GET("/health", s.health)
	e.POST("/api/analyze-resume", s.analyzeResume)
	if metricsHandler != nil {
		e.GET("/metrics", echo.WrapHandler(metricsHandler))
	}

	return s
}

// Handler returns the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("address", s.cfg.Listen))
		errCh <- s.echo.Start(s.cfg.Listen)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": ServiceName,
		"version": s.cfg.Version,
	})
}

// analysisError is a pipeline failure rendered with its details.
type analysisError struct {
	code int
	err  error
}

func (e *analysisError) Error() string {
	return e.err.Error()
}

func (e *analysisError) Unwrap() error {
	return e.err
}

func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	body := map[string]any{"error": http.StatusText(code)}

	var (
		failure *analysisError
		he      *echo.HTTPError
	)
	switch {
	case errors.As(err, &failure):
		code = failure.code
		body = map[string]any{"error": "Failed to analyze resume", "details": failure.err.Error()}
	case errors.As(err, &he):
		code = he.Code
		body = map[string]any{"error": fmt.Sprint(he.Message)}
		if code == http.StatusRequestEntityTooLarge {
			body["error"] = s.tooLargeMessage()
		}
	}

	req := c.Request()
	log := s.logger.With(
		zap.Int("status", code),
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
		zap.Error(err),
	)
	if code >= http.StatusInternalServerError {
		log.Error("request failed")
	} else {
		log.Debug("request rejected")
	}

	if req.Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, body)
	}
	if err != nil {
		s.logger.Warn("write error response", zap.Error(err))
	}
}

func (s *Server) tooLargeMessage() string {
	return fmt.Sprintf("File size exceeds maximum limit (%s)", formatLimit(s.cfg.MaxFileSize))
}

// formatLimit renders a byte limit in the largest unit that keeps it at least
// one, rounding up so the limit is never understated.
func formatLimit(n int64) string {
	const (
		kb = 1 << 10
		mb = 1 << 20
	)

	switch {
	case n >= mb:
		return fmt.Sprintf("%dMB", (n+mb-1)/mb)
	case n >= kb:
		return fmt.Sprintf("%dKB", (n+kb-1)/kb)
	default:
		return fmt.Sprintf("%dB", n)
	}
}
