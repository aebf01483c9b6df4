// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package server exposes a Simulator over HTTP.
//
// All operations on the simulated circuit are serialized on a single session
// mutex. Every change is pushed to websocket clients as a State message.
//
package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/db47h/logicsim"
	"github.com/db47h/logicsim/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config configures a Server.
//
type Config struct {
	// Debug adds gin's request logger.
	Debug bool
	// MetricsPath is the path of the Prometheus endpoint. It is not mounted
	// if empty or if Gatherer is nil.
	MetricsPath string
	Gatherer    prometheus.Gatherer
	// Metrics counts mutations. May be nil.
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// State is the circuit state returned by GET /v1/circuit and pushed to
// websocket clients.
//
type State struct {
	Session    string               `json:"session"`
	Simulating bool                 `json:"simulating"`
	Stable     bool                 `json:"stable"`
	Rounds     int                  `json:"rounds"`
	Feedback   []logicsim.ElementID `json:"feedback,omitempty"`
	Lit        []logicsim.ElementID `json:"lit,omitempty"`
	Circuit    *logicsim.Snapshot   `json:"circuit"`
}

// Server is the HTTP front-end of a Simulator.
//
type Server struct {
	mu      sync.Mutex
	sim     *logicsim.Simulator
	session string

	cfg    Config
	log    *slog.Logger
	hub    *hub
	router *gin.Engine
}

// New returns a new server over s.
//
func New(s *logicsim.Simulator, cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	srv := &Server{
		sim:     s,
		session: uuid.NewString(),
		cfg:     cfg,
		log:     cfg.Logger,
	}
	srv.hub = newHub(srv.log)
	srv.router = srv.routes()
	return srv
}

// Handler returns the server's http.Handler.
//
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.logRequests())
	if s.cfg.Debug {
		r.Use(gin.Logger())
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if s.cfg.Gatherer != nil && s.cfg.MetricsPath != "" {
		r.GET(s.cfg.MetricsPath, gin.WrapH(promhttp.HandlerFor(s.cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	v1 := r.Group("/v1")
	v1.GET("/circuit", s.getCircuit)
	v1.POST("/circuit", s.putCircuit)
	v1.POST("/elements", s.addElement)
	v1.POST("/wires", s.connect)
	v1.DELETE("/wires/:to", s.disconnect)
	v1.PUT("/switches/:pin", s.setSwitch)
	v1.POST("/switches/:pin/toggle", s.toggle)
	v1.PUT("/simulation", s.setSimulation)
	v1.GET("/ws", s.stream)
	return r
}

func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}

// Run serves on addr until ctx is canceled, then shuts down gracefully.
//
func (s *Server) Run(ctx context.Context, addr string) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr, "session", s.session)
		errc <- hs.ListenAndServe()
	}()
	select {
	case err := <-errc:
		return errors.Wrap(err, "http server")
	case <-ctx.Done():
	}
	sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.hub.closeAll()
	if err := hs.Shutdown(sctx); err != nil {
		return errors.Wrap(err, "http shutdown")
	}
	return nil
}

// Replace swaps the simulated circuit and notifies websocket clients.
//
func (s *Server) Replace(c *logicsim.Circuit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sim.Reset(c)
	s.broadcast()
}

// state must be called with s.mu held.
func (s *Server) state() State {
	r := s.sim.Last()
	st := State{
		Session:    s.session,
		Simulating: s.sim.Simulating(),
		Stable:     !s.sim.Unstable(),
		Rounds:     r.Rounds,
		Feedback:   r.Feedback,
		Circuit:    s.sim.Circuit().Snapshot(),
	}
	for _, e := range s.sim.Circuit().ByKind(logicsim.Light) {
		if s.sim.Lit(e.ID) {
			st.Lit = append(st.Lit, e.ID)
		}
	}
	return st
}

// broadcast must be called with s.mu held.
func (s *Server) broadcast() {
	s.hub.broadcast(s.state())
}
