// Package api exposes practice sessions, stats, badges and tips over JSON
// HTTP.
package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/abhisek/prepcoach/internal/session"
)

// Server serves the HTTP API. Active sessions live in memory until they are
// finished; each is serialized by its own lock.
type Server struct {
	sessions *session.Service
	log      zerolog.Logger
	engine   *gin.Engine

	mu     sync.Mutex
	active map[int64]*activeSession
}

type activeSession struct {
	mu    sync.Mutex
	state *session.State
}

// NewServer builds the router.
func NewServer(svc *session.Service, log zerolog.Logger) *Server {
	s := &Server{
		sessions: svc,
		log:      log,
		active:   make(map[int64]*activeSession),
	}
	s.engine = s.newEngine()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) newEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Output: io.Discard,
		Formatter: func(p gin.LogFormatterParams) string {
			s.log.Info().
				Str("client_ip", p.ClientIP).
				Str("method", p.Method).
				Str("path", p.Path).
				Int("status_code", p.StatusCode).
				Dur("latency", p.Latency).
				Str("error_message", p.ErrorMessage).
				Msg("http request")
			return ""
		},
	}))
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:   []string{"Content-Length"},
		MaxAge:          12 * time.Hour,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		sessions := v1.Group("/sessions")
		sessions.POST("", s.startSession)
		sessions.GET("/:id", s.getSession)
		sessions.POST("/:id/answers", s.submitAnswer)
		sessions.POST("/:id/finish", s.finishSession)

		users := v1.Group("/users/:name")
		users.GET("/stats", s.userStats)
		users.GET("/achievements", s.userAchievements)
		users.GET("/tips", s.userTips)
	}
	return r
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.log.Info().Msg("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) lookup(c *gin.Context) (int64, *activeSession, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid session id"})
		return 0, nil, false
	}
	s.mu.Lock()
	a := s.active[id]
	s.mu.Unlock()
	if a == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "session not found"})
		return id, nil, false
	}
	return id, a, true
}

func (s *Server) fail(c *gin.Context, status int, msg string, err error) {
	if status >= http.StatusInternalServerError {
		s.log.Error().Err(err).Str("path", c.FullPath()).Msg(msg)
	}
	c.JSON(status, ErrorResponse{Message: msg, Details: []string{err.Error()}})
}
