// Package server exposes the portfolio back-end over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/hupe1980/folio/artifact"
	"github.com/hupe1980/folio/chat"
	"github.com/hupe1980/folio/content"
	"github.com/hupe1980/folio/logging"
	"github.com/hupe1980/folio/mail"
	"github.com/labstack/echo/v5"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultMaxDuration bounds a single chat request.
	DefaultMaxDuration = 30 * time.Second
	// DefaultMaxBodyBytes caps request bodies.
	DefaultMaxBodyBytes int64 = 1 << 20
	// DefaultAddr is the listen address.
	DefaultAddr = ":8080"
	// DefaultResumeKey is the artifact key of the downloadable resume.
	DefaultResumeKey = "resume.pdf"

	shutdownTimeout = 10 * time.Second
)

// ChatService streams model responses for visitor conversations.
type ChatService interface {
	DemoMode() bool
	Stream(ctx context.Context, msgs []chat.Message) (*chat.Response, error)
}

// StarCounter reports the repository star count, 0 when unknown.
type StarCounter interface {
	Stars(ctx context.Context) int
}

// Mailer sends contact form confirmations.
type Mailer interface {
	SendConfirmation(ctx context.Context, conf mail.Confirmation) error
}

// Deps are the collaborators behind the HTTP routes.
type Deps struct {
	Chat    ChatService
	Stars   StarCounter
	Mailer  Mailer
	Content content.Store
	// Artifacts serves downloadable files; optional.
	Artifacts artifact.Store
	// MCP is mounted at /mcp when non-nil.
	MCP http.Handler
}

// Options configures a Server.
type Options struct {
	Addr         string
	MaxDuration  time.Duration
	MaxBodyBytes int64
	// ResumeKey is the artifact served by /api/resume/download.
	ResumeKey string
	Logger    logging.Logger
}

// Server owns the echo router and the HTTP listener.
type Server struct {
	echo *echo.Echo
	deps Deps
	opts Options
}

// New creates a Server with all routes registered.
func New(deps Deps, optFns ...func(o *Options)) *Server {
	opts := Options{
		Addr:         DefaultAddr,
		MaxDuration:  DefaultMaxDuration,
		MaxBodyBytes: DefaultMaxBodyBytes,
		ResumeKey:    DefaultResumeKey,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.ResumeKey == "" {
		opts.ResumeKey = DefaultResumeKey
	}
	if opts.MaxDuration <= 0 {
		opts.MaxDuration = DefaultMaxDuration
	}
	opts.Logger = logging.OrNoOp(opts.Logger)

	s := &Server{
		echo: echo.New(),
		deps: deps,
		opts: opts,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	e := s.echo
	e.Use(recoverPanics(s.opts.Logger))
	e.Use(requestID())
	e.Use(requestLogger(s.opts.Logger))

	e.GET("/healthz", s.handleHealth)

	api := e.Group("/api")
	api.POST("/chat", s.handleChat)
	api.GET("/github-stars", s.handleStars)
	api.POST("/send-confirmation-email", s.handleConfirmationEmail)
	api.GET("/profile", s.handleProfile)
	api.GET("/projects", s.handleProjects)
	api.GET("/skills", s.handleSkills)
	api.GET("/resume", s.handleResume)
	api.GET("/resume/download", s.handleResumeDownload)

	if s.deps.MCP != nil {
		mcp := wrapHandler(s.deps.MCP)
		e.GET("/mcp", mcp)
		e.POST("/mcp", mcp)
		e.DELETE("/mcp", mcp)
	}
}

func wrapHandler(h http.Handler) echo.HandlerFunc {
	return func(c *echo.Context) error {
		h.ServeHTTP(c.Response(), c.Request())
		return nil
	}
}

// ServeHTTP lets the server be mounted or tested without a listener.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// HTTPServer returns a configured *http.Server for this handler.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      s.opts.MaxDuration + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := s.HTTPServer()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.opts.Logger.Info("server.listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.opts.Logger.Info("server.shutdown")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
