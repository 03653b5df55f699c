// Package server exposes the lingo engine over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ZaguanLabs/lingo"
	"github.com/ZaguanLabs/lingo/provider"
	"github.com/ZaguanLabs/lingo/website"
	"github.com/apex/log"
	"github.com/gin-gonic/gin"
)

const (
	EndPointHealth       = "/healthz"
	EndPointTranslate    = "/api/translate"
	EndPointRevise       = "/api/revise"
	EndPointAdvise       = "/api/advise"
	EndPointAdviseStream = "/api/advise/stream"
	EndPointVerifyKey    = "/api/verify-key"
)

// InvokerFactory creates the invoker for one request.
type InvokerFactory func(ctx context.Context, t provider.Target) (lingo.StreamInvoker, error)

// KeyVerifier reports whether a key is accepted by a provider.
type KeyVerifier func(ctx context.Context, name provider.Name, apiKey string) bool

// Config holds the server settings.
type Config struct {
	Addr         string             // Listen address (default: ":8080")
	GeminiAPIKey string             // Used by requests that carry no key
	GeminiModel  string             // Default model for website advice
	BatchSize    int                // Engine batch size (default: lingo.DefaultBatchSize)
	Retry        *lingo.RetryConfig // Default: lingo.DefaultRetryConfig
	HTTPClient   *http.Client       // Used for model calls and page fetching
	ShutdownWait time.Duration      // Graceful shutdown limit (default: 10s)
}

// Server serves the translation, revision and website advice endpoints.
type Server struct {
	cfg        Config
	newInvoker InvokerFactory
	verifyKey  KeyVerifier
	pages      lingo.PageReader
	logger     log.Interface
	router     *gin.Engine
}

// Option configures a Server.
type Option func(*Server)

// WithInvokerFactory replaces the provider-backed invoker factory.
func WithInvokerFactory(f InvokerFactory) Option {
	return func(s *Server) {
		s.newInvoker = f
	}
}

// WithKeyVerifier replaces provider.VerifyAPIKey.
func WithKeyVerifier(v KeyVerifier) Option {
	return func(s *Server) {
		s.verifyKey = v
	}
}

// WithPageReader sets how website labels are read when the model cannot
// open URLs itself.
func WithPageReader(r lingo.PageReader) Option {
	return func(s *Server) {
		s.pages = r
	}
}

// WithLogger sets the logger for requests and engine runs.
func WithLogger(logger log.Interface) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New creates a server with its routes registered.
func New(cfg Config, opts ...Option) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.ShutdownWait <= 0 {
		cfg.ShutdownWait = 10 * time.Second
	}

	s := &Server{
		cfg:       cfg,
		verifyKey: provider.VerifyAPIKey,
		pages:     website.NewReader(cfg.HTTPClient),
		logger:    log.Log,
	}
	s.newInvoker = s.providerInvoker

	for _, opt := range opts {
		opt(s)
	}

	s.router = gin.New()
	s.router.Use(gin.Recovery(), s.logRequests())
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.GET(EndPointHealth, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": lingo.Name,
			"version": lingo.Version,
		})
	})

	api := s.router.Group("/")
	{
		api.POST(EndPointTranslate, s.translate)
		api.POST(EndPointRevise, s.revise)
		api.POST(EndPointAdvise, s.advise)
		api.POST(EndPointAdviseStream, s.adviseStream)
		api.POST(EndPointVerifyKey, s.verify)
	}
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", s.cfg.Addr).Info("Starting the service...")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownWait)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("Service stopped")
	return nil
}

func (s *Server) providerInvoker(ctx context.Context, t provider.Target) (lingo.StreamInvoker, error) {
	name := t.Provider
	if name == "" {
		name = provider.NameGemini
	}
	return provider.New(ctx, name, provider.Config{
		APIKey:     t.APIKey,
		Model:      t.Model,
		BaseURL:    t.BaseURL,
		HTTPClient: s.cfg.HTTPClient,
	})
}

func (s *Server) engine(inv lingo.Invoker, logger log.Interface) *lingo.Engine {
	opts := []lingo.EngineOption{
		lingo.WithBatchSize(s.cfg.BatchSize),
		lingo.WithLogger(logger),
		lingo.WithPageReader(s.pages),
	}
	if s.cfg.Retry != nil {
		opts = append(opts, lingo.WithRetryConfig(*s.cfg.Retry))
	}
	return lingo.NewEngine(inv, opts...)
}

func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := s.logger.WithFields(log.Fields{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		})
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Error("request failed")
			return
		}
		entry.Info("request")
	}
}
