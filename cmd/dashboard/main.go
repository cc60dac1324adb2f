package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tradebot/gomon/internal/dashboard"
	"github.com/tradebot/gomon/pkg/config"
)

func main() {
	_ = godotenv.Load()

	getenv := func(key, def string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return def
	}

	var (
		configPath = flag.String("config", getenv("GOMON_CONFIG", "config.yaml"), "config file path")
		baseURL    = flag.String("base-url", getenv("GOMON_BASE_URL", ""), "monitor server base URL")
		query      = flag.String("query", getenv("GOMON_QUERY", ""), "filter query passed through to /data (e.g. symbol=BTCUSDT&side=BUY)")
		poll       = flag.Duration("poll", 0, "poll interval (0 uses config)")
	)
	flag.Parse()

	cfg, err := config.LoadFromFile(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if *baseURL != "" {
		cfg.Dashboard.BaseURL = *baseURL
	}
	if *query != "" {
		cfg.Dashboard.Query = *query
	}
	if *poll > 0 {
		cfg.Dashboard.PollIntervalSec = int(poll.Seconds())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-stopCh
		cancel()
		// 第二次信号直接退出
		<-stopCh
		os.Exit(1)
	}()

	if err := dashboard.Run(ctx, &cfg.Dashboard); err != nil {
		fmt.Fprintf(os.Stderr, "dashboard: %v\n", err)
		os.Exit(1)
	}

	// 给退出链路一点时间把日志落盘
	time.Sleep(100 * time.Millisecond)
}
