package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/cors"
	"github.com/sandevgo/alexbot/internal/core"
	"github.com/sandevgo/alexbot/internal/observability"
	"github.com/sandevgo/alexbot/pkg/log"
)

type Config interface {
	GetAddr() string
	GetAllowedOrigins() []string
}

type Server struct {
	addr     string
	origins  []string
	chatbot  core.Chatbot
	profiles core.ProfileStore
	gatherer prometheus.Gatherer
	upgrader websocket.Upgrader
	now      func() time.Time
	http     *http.Server
}

// New builds the HTTP API. gatherer may be nil, in which case /metrics is not served.
func New(cfg Config, chatbot core.Chatbot, profiles core.ProfileStore, gatherer prometheus.Gatherer) *Server {
	s := &Server{
		addr:     cfg.GetAddr(),
		origins:  cfg.GetAllowedOrigins(),
		chatbot:  chatbot,
		profiles: profiles,
		gatherer: gatherer,
		now:      time.Now,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

func (s *Server) Router(ctx context.Context) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(ctx))
	r.Use(cors.New(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Accept", "Authorization"},
	}).Handler)

	r.Get("/healthz", s.handleHealth)
	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", observability.MetricsHandler(s.gatherer))
	}

	r.Post("/api/chat", s.handleChat)
	r.Get("/api/chat/ws", s.handleChatWS)
	r.Get("/api/user/{userId}/profile", s.handleProfile)

	return r
}

func (s *Server) Start(ctx context.Context) error {
	s.http = &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(ctx),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	log.FromCtx(ctx).Info().Str("addr", s.addr).Msg("chatbot server running")
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := strings.TrimSpace(r.Header.Get("Origin"))
	if origin == "" {
		// Non-browser clients often omit Origin.
		return true
	}
	for _, allowed := range s.origins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

func requestLogger(ctx context.Context) func(http.Handler) http.Handler {
	base := log.FromCtx(ctx)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			logger := base.With().Str("transport", "http").Logger()
			next.ServeHTTP(ww, r.WithContext(logger.WithContext(r.Context())))

			logger.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("took", time.Since(start)).
				Msg("request served")
		})
	}
}
