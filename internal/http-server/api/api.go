package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"ReturnsAgent/internal/config"
	"ReturnsAgent/internal/http-server/handlers/conversation"
	handlererr "ReturnsAgent/internal/http-server/handlers/errors"
	"ReturnsAgent/internal/http-server/handlers/key"
	"ReturnsAgent/internal/http-server/middleware/authenticate"
	"ReturnsAgent/internal/lib/api/response"
	"ReturnsAgent/internal/lib/sl"
	"ReturnsAgent/internal/ws"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	shutdownTimeout = 10 * time.Second
	requestTimeout  = 30 * time.Second
)

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	log        *slog.Logger
}

type Handler interface {
	authenticate.Authenticate
	conversation.Core
	key.Core
}

// New builds the API routes. Bearer authentication is installed only when
// listen.key is configured.
func New(conf *config.Config, log *slog.Logger, handler Handler, hub *ws.Hub) *Server {
	server := &Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}

	timeout := conf.Listen.RequestTimeout
	if timeout <= 0 {
		timeout = requestTimeout
	}

	var wsAuth ws.Authenticator
	if conf.Listen.ApiKey != "" {
		wsAuth = handler
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	router.NotFound(handlererr.NotFound(log))
	router.MethodNotAllowed(handlererr.NotAllowed(log))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, response.Ok("ok"))
	})
	router.Handle("/metrics", promhttp.Handler())

	router.Route("/api/v1", func(v1 chi.Router) {
		// websocket clients pass the key as ?token= and must not be cut by
		// the request timeout
		v1.Get("/conversations/{conversationID}/ws", conversation.Watch(log, hub, wsAuth))

		v1.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(timeout))
			r.Use(render.SetContentType(render.ContentTypeJSON))
			if conf.Listen.ApiKey != "" {
				r.Use(authenticate.New(log, handler))
			}

			r.Route("/conversations/{conversationID}", func(c chi.Router) {
				c.Post("/start", conversation.Start(log, handler))
				c.Post("/activities", conversation.PostActivity(log, handler))
				c.Delete("/", conversation.Reset(log, handler))
				c.Get("/transcript", conversation.GetTranscript(log, handler))
			})
			r.Post("/keys", key.Generate(log, handler))
		})
	})

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Handler:  router,
		ErrorLog: httpLog,
	}
	return server
}

func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Serve listens on the configured address until ctx is cancelled, then
// shuts the server down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	serverAddress := fmt.Sprintf("%s:%s", s.conf.Listen.BindIP, s.conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	s.log.Info("starting api server", slog.String("address", serverAddress))

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.log.Info("stopping api server")
		return s.httpServer.Shutdown(shutdownCtx)
	}
}
