package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tradebot/gomon/internal/metrics"
	"github.com/tradebot/gomon/internal/monitor"
	"github.com/tradebot/gomon/pkg/config"
	"github.com/tradebot/gomon/pkg/logger"
	"github.com/tradebot/gomon/pkg/shutdown"
)

func main() {
	// Load .env (best-effort). If missing, fall back to real env vars.
	_ = godotenv.Load()

	getenv := func(key, def string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return def
	}

	var (
		configPath  = flag.String("config", getenv("GOMON_CONFIG", "config.yaml"), "config file path")
		listenAddr  = flag.String("listen", getenv("GOMON_LISTEN", ""), "HTTP listen address")
		dbPath      = flag.String("db", getenv("GOMON_DB", ""), "SQLite db file path")
		tradesCSV   = flag.String("trades-csv", getenv("GOMON_TRADES_CSV", ""), "bot trades CSV to ingest")
		equityCSV   = flag.String("equity-csv", getenv("GOMON_EQUITY_CSV", ""), "bot equity curve CSV to ingest")
		logDir      = flag.String("log-dir", getenv("GOMON_LOG_DIR", ""), "bot log directory reported by /health")
		debugListen = flag.String("debug-listen", getenv("GOMON_DEBUG_LISTEN", ""), "expvar/pprof listen address (empty disables)")
	)
	flag.Parse()

	cfg, err := config.LoadFromFile(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	// flag/env 覆盖配置文件
	if *listenAddr != "" {
		cfg.Monitor.Listen = *listenAddr
	}
	if *dbPath != "" {
		cfg.Monitor.DBPath = *dbPath
	}
	if *tradesCSV != "" {
		cfg.Monitor.TradesCSV = *tradesCSV
	}
	if *equityCSV != "" {
		cfg.Monitor.EquityCSV = *equityCSV
	}
	if *logDir != "" {
		cfg.Monitor.LogDir = *logDir
	}
	if *debugListen != "" {
		cfg.Monitor.DebugListen = *debugListen
	}

	if err := logger.Init(logger.Config{Level: cfg.LogLevel, OutputFile: cfg.LogFile}); err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}

	srv, err := monitor.New(cfg.Monitor)
	if err != nil {
		logger.Errorf("init monitor failed: %v", err)
		os.Exit(1)
	}

	httpSrv := &http.Server{
		Addr:              cfg.Monitor.Listen,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	if cfg.Monitor.DebugListen != "" {
		if _, err := metrics.StartAsync(rootCtx, cfg.Monitor.DebugListen); err != nil {
			logger.Warnf("start debug server failed: %v", err)
		}
	}

	go func() {
		logger.Infof("monitor listening on %s", cfg.Monitor.Listen)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf("http server error: %v", err)
		}
	}()

	mgr := shutdown.NewManager()
	mgr.OnShutdown(func(ctx context.Context) {
		_ = httpSrv.Shutdown(ctx)
	})
	mgr.OnShutdown(func(ctx context.Context) {
		_ = srv.Close()
	})

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	<-stopCh
	rootCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	mgr.Shutdown(ctx)

	fmt.Println("monitor stopped")
}
