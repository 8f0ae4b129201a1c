// Package server exposes the site kernel over HTTP and a drag websocket for
// interactive design.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	metrics "github.com/rcrowley/go-metrics"

	"github.com/yijongkuk/mdmd/pkg/cache"
	"github.com/yijongkuk/mdmd/pkg/envelope"
	"github.com/yijongkuk/mdmd/pkg/project"
	"github.com/yijongkuk/mdmd/pkg/projection"
)

// Config configures a Server.
type Config struct {
	Addr string
	// ProjectDir is optional; without it the project and drag endpoints
	// answer 404.
	ProjectDir string
	// Persist writes committed drags back to the project file.
	Persist   bool
	CacheSize uint64
	CacheTTL  time.Duration
	Debug     bool
}

// DefaultConfig listens on :8080 with a 256-entry, ten-minute envelope cache.
func DefaultConfig() Config {
	return Config{Addr: ":8080", CacheSize: 256, CacheTTL: 10 * time.Minute}
}

// Server is the local design server.
type Server struct {
	cfg Config
	log *slog.Logger

	mu   sync.RWMutex
	proj *project.Project
	env  *envelope.Envelope
	geo  projection.Projector

	envelopes *cache.TTL[string, envelopeResponse]
	registry  metrics.Registry
	router    *gin.Engine
}

// New creates a server, loading the project when cfg names one.
func New(cfg Config, log *slog.Logger) (*Server, error) {
	if log == nil {
		log = slog.Default()
	}
	if cfg.CacheSize == 0 {
		cfg.CacheSize = DefaultConfig().CacheSize
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultConfig().CacheTTL
	}
	s := &Server{
		cfg:       cfg,
		log:       log,
		envelopes: cache.NewTTL[string, envelopeResponse](cfg.CacheSize, cfg.CacheTTL),
		registry:  metrics.NewRegistry(),
	}
	if cfg.ProjectDir != "" {
		p, err := project.LoadProject(cfg.ProjectDir)
		if err != nil {
			return nil, err
		}
		if err := s.setProject(p); err != nil {
			return nil, err
		}
	}
	s.router = s.Router()
	return s, nil
}

// setProject installs p and derives its envelope.
func (s *Server) setProject(p *project.Project) error {
	env, proj, err := p.Envelope()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.proj, s.env, s.geo = p, env, proj
	s.mu.Unlock()
	s.log.Info("project loaded", "name", p.Name, "floors", env.Floors, "placements", len(p.Records))
	return nil
}

// Router builds the gin engine with every route.
func (s *Server) Router() *gin.Engine {
	if s.cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), s.accessLog(), s.timed())

	api := r.Group("/api")
	api.GET("/zones", s.handleZones)
	api.POST("/envelope", s.handleEnvelope)
	api.POST("/placements/check", s.handleCheck)
	api.POST("/align", s.handleAlign)
	api.GET("/project", s.handleProject)
	api.GET("/metrics", s.handleMetrics)
	api.GET("/ws/drag", s.handleDrag)
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go s.envelopes.Start()
	defer s.envelopes.Stop()

	errc := make(chan error, 1)
	go func() {
		s.log.Info("server starting", "addr", s.cfg.Addr, "project", s.cfg.ProjectDir)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("server stopping")
		return srv.Shutdown(shutdown)
	}
}

func (s *Server) projectFile() string {
	return filepath.Join(s.proj.Dir(), project.FileName)
}
