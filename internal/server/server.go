// Package server exposes a user's flashcards over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/lithammer/shortuuid/v4"

	"github.com/abhisek/hanzi/internal/auth"
	"github.com/abhisek/hanzi/internal/store"
)

const sessionCookie = "hanzi_session"

// Options configures a Server.
type Options struct {
	Store        *store.Store
	Issuer       *auth.Issuer
	Hasher       auth.Hasher
	Limiter      *RateLimiter
	SecureCookie bool
	Logger       *slog.Logger
	Now          func() time.Time
}

// Server owns the echo instance and the dependencies of the handlers.
type Server struct {
	echo   *echo.Echo
	store  *store.Store
	issuer *auth.Issuer
	hasher auth.Hasher
	secure bool
	log    *slog.Logger
	now    func() time.Time
}

func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Limiter == nil {
		opts.Limiter = NewRateLimiter(0, 0)
	}

	s := &Server{
		echo:   echo.New(),
		store:  opts.Store,
		issuer: opts.Issuer,
		hasher: opts.Hasher,
		secure: opts.SecureCookie,
		log:    opts.Logger,
		now:    opts.Now,
	}
	e := s.echo
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &echoValidator{v: validator.New(validator.WithRequiredStructEnabled())}
	e.HTTPErrorHandler = s.handleError

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: shortuuid.New}))
	e.Use(s.logRequests)
	e.Use(opts.Limiter.Middleware)

	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.echo.Group("/api")
	api.POST("/register", s.register)
	api.POST("/login", s.login)
	api.POST("/logout", s.logout)
	api.GET("/check-auth", s.checkAuth)

	cards := api.Group("", s.requireAuth)
	cards.GET("/flashcards", s.listCards)
	cards.POST("/flashcards", s.createCard)
	cards.DELETE("/flashcards/clear", s.clearCards)
	cards.PUT("/flashcards/:id", s.updateCard)
	cards.DELETE("/flashcards/:id", s.deleteCard)
	cards.POST("/flashcards/:id/answer", s.answerCard)
	cards.GET("/due", s.dueCards)
	cards.GET("/stats", s.stats)
	cards.POST("/import", s.importCards)
	cards.GET("/export", s.exportCards)
}

// ServeHTTP makes Server usable as an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.echo,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.log.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := "internal error"

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		msg = fmt.Sprint(he.Message)
	} else {
		s.log.Error("request failed", "method", c.Request().Method, "path", c.Path(), "error", err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, map[string]string{"error": msg})
	}
	if err != nil {
		s.log.Warn("write error response", "error", err)
	}
}

func (s *Server) logRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := s.now()
		if err := next(c); err != nil {
			c.Error(err)
		}
		req, res := c.Request(), c.Response()
		s.log.Info("http request",
			"method", req.Method,
			"path", req.URL.Path,
			"status", res.Status,
			"latency_ms", s.now().Sub(start).Milliseconds(),
			"request_id", res.Header().Get(echo.HeaderXRequestID))
		return nil
	}
}

type echoValidator struct {
	v *validator.Validate
}

func (ev *echoValidator) Validate(i any) error {
	return ev.v.Struct(i)
}
