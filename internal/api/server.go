// Package api exposes the ticket entry session over HTTP and WebSocket.
package api

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/beast-reader/internal/config"
	"github.com/yourusername/beast-reader/internal/health"
	"github.com/yourusername/beast-reader/internal/logger"
	"github.com/yourusername/beast-reader/internal/metrics"
	"github.com/yourusername/beast-reader/internal/models"
	"github.com/yourusername/beast-reader/internal/ocr"
	"github.com/yourusername/beast-reader/internal/session"
	"github.com/yourusername/beast-reader/internal/ticket"
)

// Deps holds the collaborators served by the API
type Deps struct {
	Config      *config.Config
	Session     *session.Session
	Issuer      *ticket.Issuer
	Interpreter ocr.Interpreter
	OCRLogger   *logger.OCRLogger
	Health      *health.Checker
	Logger      *logrus.Logger
	Rand        *rand.Rand
}

// Server is the HTTP front end of a session
type Server struct {
	cfg         *config.Config
	sess        *session.Session
	issuer      *ticket.Issuer
	interpreter ocr.Interpreter
	ocrLog      *logger.OCRLogger
	health      *health.Checker
	log         *logrus.Logger
	hub         *Hub

	rngMu sync.Mutex
	rng   *rand.Rand

	mu         sync.Mutex
	clipboard  *models.Amounts
	lastTicket *ticket.Ticket

	router     chi.Router
	httpServer *http.Server
}

// NewServer wires the router and subscribes the WebSocket hub to the session
func NewServer(deps Deps) *Server {
	log := deps.Logger
	if log == nil {
		log = logger.Discard()
	}
	interp := deps.Interpreter
	if interp == nil {
		interp = ocr.Disabled{}
	}
	rng := deps.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	ocrLog := deps.OCRLogger
	if ocrLog == nil {
		ocrLog = logger.NewOCRLogger(log)
	}

	s := &Server{
		cfg:         deps.Config,
		sess:        deps.Session,
		issuer:      deps.Issuer,
		interpreter: interp,
		ocrLog:      ocrLog,
		health:      deps.Health,
		log:         log,
		rng:         rng,
	}
	s.hub = NewHub(originChecker(s.allowedOrigins()), deps.Session.View, log)
	deps.Session.Subscribe(s.hub.Observer())
	s.router = s.routes()
	return s
}

// Router returns the HTTP handler
func (s *Server) Router() http.Handler {
	return s.router
}

// Hub returns the WebSocket hub
func (s *Server) Hub() *Hub {
	return s.hub
}

func (s *Server) allowedOrigins() []string {
	if s.cfg == nil || len(s.cfg.Server.AllowedOrigins) == 0 {
		return []string{"*"}
	}
	return s.cfg.Server.AllowedOrigins
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.allowedOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           60 * 15,
	}))

	if s.health != nil {
		s.health.Register(r)
	}
	if s.cfg == nil || s.cfg.Metrics.Enabled {
		path := "/metrics"
		if s.cfg != nil && s.cfg.Metrics.Path != "" {
			path = s.cfg.Metrics.Path
		}
		r.Method(http.MethodGet, path, metrics.Handler())
	}

	r.Get("/ws", s.hub.HandleWS)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/session", func(r chi.Router) {
			r.Get("/", s.getSession)
			r.Post("/reset", s.resetSession)
			r.Put("/date", s.setDate)
			r.Put("/tracks", s.setTracks)
			r.Post("/tracks/toggle", s.toggleTrack)
			r.Post("/validate", s.validateSession)
		})

		r.Route("/plays", func(r chi.Router) {
			r.Post("/", s.addPlay)
			r.Post("/delete", s.removePlays)
			r.Post("/paste", s.pasteAmounts)
			r.Patch("/{id}", s.updatePlay)
			r.Delete("/{id}", s.removePlay)
			r.Post("/{id}/copy", s.copyAmounts)
		})

		r.Route("/wizard", func(r chi.Router) {
			r.Post("/entry", s.wizardEntry)
			r.Post("/quickpick", s.wizardQuickPick)
			r.Post("/rounddown", s.wizardRoundDown)
			r.Post("/preview", s.wizardPreview)
			r.Post("/commit", s.wizardCommit)
		})

		r.Route("/ocr", func(r chi.Router) {
			r.Post("/interpret", s.interpretTicket)
			r.Post("/import", s.importResults)
		})

		r.Route("/tickets", func(r chi.Router) {
			r.Post("/", s.issueTicket)
			r.Get("/latest", s.latestTicket)
			r.Get("/latest/receipt", s.latestReceipt)
			r.Get("/latest/qr", s.latestQRCode)
		})

		r.Get("/tracks", s.listTracks)
		r.Get("/classify", s.classify)
		r.Post("/calculate", s.calculate)
	})

	return r
}

// Start serves HTTP until ctx is cancelled or the listener fails
func (s *Server) Start(ctx context.Context) error {
	addr := ":8080"
	if s.cfg != nil {
		addr = s.cfg.ListenAddr()
	}
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.log.WithField("addr", addr).Info("Starting HTTP server")

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		return nil
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	}
}

// Shutdown stops accepting requests and disconnects WebSocket clients
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	if s.httpServer == nil {
		return nil
	}
	s.log.Info("Shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// requestLogger logs one line per request with logrus
func requestLogger(log *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.WithFields(logrus.Fields{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      ww.Status(),
				"bytes":       ww.BytesWritten(),
				"duration_ms": float64(time.Since(start).Microseconds()) / 1000,
				"request_id":  middleware.GetReqID(r.Context()),
			}).Debug("HTTP request")
		})
	}
}
