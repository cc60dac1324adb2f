package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// MonitorConfig 监控后端配置
type MonitorConfig struct {
	Listen              string `yaml:"listen"`                 // HTTP 监听地址
	DBPath              string `yaml:"db_path"`                // SQLite 数据库路径
	TradesCSV           string `yaml:"trades_csv"`             // bot 写出的成交 CSV
	EquityCSV           string `yaml:"equity_csv"`             // bot 写出的净值曲线 CSV
	LogDir              string `yaml:"log_dir"`                // bot 日志目录（/health 返回）
	IngestIntervalSec   int    `yaml:"ingest_interval_sec"`    // CSV 导入轮询间隔（秒）
	SnapshotCacheTTLSec int    `yaml:"snapshot_cache_ttl_sec"` // /data 快照缓存时长（秒）
	TradesLimit         int    `yaml:"trades_limit"`           // /data 默认返回的最大成交数
	EquityLimit         int    `yaml:"equity_limit"`           // /data 默认返回的最大净值点数
	DebugListen         string `yaml:"debug_listen"`           // expvar/pprof 监听地址（为空则不启动）
	IngestStateDir      string `yaml:"ingest_state_dir"`       // CSV 导入游标持久化目录
}

// IngestInterval CSV 导入轮询间隔
func (m MonitorConfig) IngestInterval() time.Duration {
	return time.Duration(m.IngestIntervalSec) * time.Second
}

// SnapshotCacheTTL /data 快照缓存时长
func (m MonitorConfig) SnapshotCacheTTL() time.Duration {
	return time.Duration(m.SnapshotCacheTTLSec) * time.Second
}

// DashboardConfig TUI 仪表盘配置
type DashboardConfig struct {
	BaseURL         string   `yaml:"base_url"`          // monitor 服务地址
	Query           string   `yaml:"query"`             // 透传给 /data 与导出链接的查询串
	PollIntervalSec int      `yaml:"poll_interval_sec"` // 轮询间隔（秒）
	Timezones       []string `yaml:"timezones"`         // 可选时区列表（z 键循环切换）
	Theme           string   `yaml:"theme"`             // dark / light
	PrefsDir        string   `yaml:"prefs_dir"`         // 偏好存储目录（badger）
}

// PollInterval 轮询间隔
func (d DashboardConfig) PollInterval() time.Duration {
	return time.Duration(d.PollIntervalSec) * time.Second
}

// Config 全局配置
type Config struct {
	Monitor   MonitorConfig   `yaml:"monitor"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	LogLevel  string          `yaml:"log_level"`
	LogFile   string          `yaml:"log_file"`
}

// LoadFromFile 从指定文件加载配置；文件不存在时返回默认配置（全部字段可由 flag/env 覆盖）
func LoadFromFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default 返回默认配置
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Monitor.Listen == "" {
		c.Monitor.Listen = ":8080"
	}
	if c.Monitor.DBPath == "" {
		c.Monitor.DBPath = "data/monitor.db"
	}
	if c.Monitor.TradesCSV == "" {
		c.Monitor.TradesCSV = "logs/trades.csv"
	}
	if c.Monitor.EquityCSV == "" {
		c.Monitor.EquityCSV = "logs/equity_curve.csv"
	}
	if c.Monitor.LogDir == "" {
		c.Monitor.LogDir = "logs"
	}
	if c.Monitor.IngestIntervalSec <= 0 {
		c.Monitor.IngestIntervalSec = 15
	}
	if c.Monitor.SnapshotCacheTTLSec <= 0 {
		c.Monitor.SnapshotCacheTTLSec = 2
	}
	if c.Monitor.TradesLimit <= 0 {
		c.Monitor.TradesLimit = 200
	}
	if c.Monitor.EquityLimit <= 0 {
		c.Monitor.EquityLimit = 500
	}
	if c.Monitor.IngestStateDir == "" {
		c.Monitor.IngestStateDir = "data/ingest-state"
	}
	if c.Dashboard.BaseURL == "" {
		c.Dashboard.BaseURL = "http://127.0.0.1:8080"
	}
	if c.Dashboard.PollIntervalSec <= 0 {
		c.Dashboard.PollIntervalSec = 10
	}
	if len(c.Dashboard.Timezones) == 0 {
		// 与页面端下拉框保持同一组固定时区
		c.Dashboard.Timezones = []string{
			"UTC",
			"Asia/Jerusalem",
			"America/New_York",
			"Europe/London",
			"Asia/Shanghai",
		}
	}
	if c.Dashboard.Theme == "" {
		c.Dashboard.Theme = "dark"
	}
	if c.Dashboard.PrefsDir == "" {
		c.Dashboard.PrefsDir = "data/dashboard-prefs"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate 校验配置
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Monitor.Listen) == "" {
		return fmt.Errorf("monitor.listen is required")
	}
	if strings.TrimSpace(c.Monitor.DBPath) == "" {
		return fmt.Errorf("monitor.db_path is required")
	}
	if strings.TrimSpace(c.Dashboard.BaseURL) == "" {
		return fmt.Errorf("dashboard.base_url is required")
	}
	if !strings.HasPrefix(c.Dashboard.BaseURL, "http://") && !strings.HasPrefix(c.Dashboard.BaseURL, "https://") {
		return fmt.Errorf("dashboard.base_url must start with http:// or https://")
	}
	switch c.Dashboard.Theme {
	case "dark", "light":
	default:
		return fmt.Errorf("dashboard.theme must be dark or light, got %q", c.Dashboard.Theme)
	}
	for _, tz := range c.Dashboard.Timezones {
		if _, err := time.LoadLocation(tz); err != nil {
			return fmt.Errorf("dashboard.timezones: unknown zone %q: %w", tz, err)
		}
	}
	return nil
}
