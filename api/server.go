// Package api provides the read-only HTTP API for the dashboard state.
//
// It exposes the current quote table, portfolio aggregates, alerts, and
// per-symbol indicator details, plus a WebSocket stream of refresh cycles.
// Nothing here mutates app state.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tickertop/tickertop/internal/app"
	"github.com/tickertop/tickertop/internal/config"
	"github.com/tickertop/tickertop/internal/export"
)

// Server is the HTTP API server over a running app controller.
type Server struct {
	router chi.Router
	cfg    config.ServerConfig
	app    *app.App
	wsHub  *WSHub
	log    *zap.Logger
}

// NewServer creates a configured API server with all routes and middleware.
func NewServer(cfg config.ServerConfig, a *app.App, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		cfg:   cfg,
		app:   a,
		wsHub: NewWSHub(),
		log:   log,
	}
	s.router = s.buildRouter()
	return s
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() chi.Router {
	return s.router
}

// BroadcastRefresh pushes the latest cycle state to WebSocket subscribers.
// The app loop calls this after every completed refresh.
func (s *Server) BroadcastRefresh() {
	snap := export.Snapshot{
		Timestamp: time.Now().UTC(),
		Quotes:    s.app.Quotes(),
	}
	if s.app.ShowHoldings() {
		p := s.app.Portfolio()
		snap.Portfolio = &p
	}
	s.wsHub.Broadcast(WSMessage{Type: "refresh", Data: snap})
}

// Run starts the HTTP server and the WebSocket hub, and shuts both down
// when the context is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.wsHub.Run(ctx)
		return nil
	})
	g.Go(func() error {
		s.log.Info("api server listening", zap.String("addr", addr))
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.log.Info("shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	origins := []string{"*"}
	if len(s.cfg.CORSOrigins) > 0 {
		origins = s.cfg.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/ws", s.handleWebSocket)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/quotes", s.handleQuotes)
		r.Get("/portfolio", s.handlePortfolio)
		r.Get("/alerts", s.handleAlerts)
		r.Get("/symbols/{symbol}", s.handleSymbol)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"iteration":    s.app.Iteration(),
		"last_refresh": s.app.LastRefresh(),
		"ws_clients":   s.wsHub.ClientCount(),
	})
}

func (s *Server) handleQuotes(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"quotes":     s.app.Quotes(),
		"group":      s.app.CurrentGroup(),
		"iteration":  s.app.Iteration(),
		"last_error": s.app.LastError(),
	})
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.app.Portfolio())
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"alerts":    s.app.Alerts(),
		"triggered": s.app.TriggeredAlerts(),
	})
}

func (s *Server) handleSymbol(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	detail, ok := s.app.Detail(symbol)
	if !ok {
		respondError(w, http.StatusNotFound, "symbol not tracked: "+symbol)
		return
	}
	respondJSON(w, http.StatusOK, detail)
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}
