package monitor

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/tradebot/gomon/pkg/cache"
	"github.com/tradebot/gomon/pkg/config"
	"github.com/tradebot/gomon/pkg/persistence"
)

type Server struct {
	cfg config.MonitorConfig
	db  *sql.DB

	snapCache *cache.InMemoryCache[string, *snapshotPayload]
	persist   persistence.Service
	startedAt time.Time

	bgCancel func()
	bgWG     sync.WaitGroup
}

func New(cfg config.MonitorConfig) (*Server, error) {
	if cfg.DBPath == "" {
		return nil, errors.New("db path is required")
	}
	if cfg.SnapshotCacheTTLSec <= 0 {
		cfg.SnapshotCacheTTLSec = 2
	}
	if cfg.TradesLimit <= 0 {
		cfg.TradesLimit = 200
	}
	if cfg.EquityLimit <= 0 {
		cfg.EquityLimit = 500
	}
	if cfg.IngestStateDir == "" {
		cfg.IngestStateDir = "data/ingest-state"
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	db, err := sql.Open("sqlite", cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite：单连接更稳定
	db.SetMaxIdleConns(1)

	s := &Server{
		cfg:       cfg,
		db:        db,
		snapCache: cache.NewInMemoryCache[string, *snapshotPayload](cfg.SnapshotCacheTTL()),
		persist:   persistence.NewJSONFileService(cfg.IngestStateDir),
		startedAt: time.Now(),
	}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	s.startBackground()
	return s, nil
}

func (s *Server) Close() error {
	if s.bgCancel != nil {
		s.bgCancel()
		s.bgWG.Wait()
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Server) Router() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", s.wrap(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }))

	r.GET("/data", s.wrap(s.handleData))
	r.GET("/health", s.wrap(s.handleHealth))
	r.POST("/pause", s.wrap(s.handlePause))
	r.POST("/resume", s.wrap(s.handleResume))
	r.GET("/export/trades.csv", s.wrap(s.handleExportTradesCSV))

	// UI
	r.GET("/", s.wrap(s.handleUI))

	return r
}

// wrap adapts existing net/http handlers to gin.
func (s *Server) wrap(h func(http.ResponseWriter, *http.Request)) gin.HandlerFunc {
	return func(c *gin.Context) {
		h(c.Writer, c.Request)
	}
}

func (s *Server) startBackground() {
	ctx, cancel := context.WithCancel(context.Background())
	s.bgCancel = cancel

	s.bgWG.Add(1)
	go func() {
		defer s.bgWG.Done()
		s.ingestLoop(ctx)
	}()
}
