package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL = "http://localhost:6006"
	DefaultPath    = "smoke.yaml"
	BaseURLEnv     = "NEXT_PUBLIC_APP_URL"
)

// 与 Next.js 一致，.env.local 优先于 .env
var envFiles = []string{".env.local", ".env"}

type Config struct {
	BaseURL     string            `yaml:"base_url"`
	Timeout     time.Duration     `yaml:"timeout"`
	Headers     map[string]string `yaml:"headers"`
	RatePerSec  float64           `yaml:"rate_per_sec"`
	ErrorBodies bool              `yaml:"error_bodies"`
	Cases       CasesConfig       `yaml:"cases"`
	Report      ReportConfig      `yaml:"report"`
	Logging     LoggingConfig     `yaml:"logging"`
}

type CasesConfig struct {
	ExcelPath string `yaml:"excel_path"`
	SheetName string `yaml:"sheet_name"`
	HeaderRow int    `yaml:"header_row"`
}

type ReportConfig struct {
	ExcelPath   string `yaml:"excel_path"`
	MetricsPath string `yaml:"metrics_path"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" 或 "json"
}

func Defaults() *Config {
	return &Config{
		BaseURL: DefaultBaseURL,
		Timeout: 30 * time.Second,
		Cases: CasesConfig{
			SheetName: "Sheet1",
			HeaderRow: 1,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Load 读取配置。path 为默认文件且不存在时直接使用默认值；
// 环境变量 NEXT_PUBLIC_APP_URL 覆盖文件中的 base_url。
func Load(path string) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, err
	}

	cfg := Defaults()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist) && path == DefaultPath:
		// 没有配置文件时全部使用默认值
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if v := os.Getenv(BaseURLEnv); v != "" {
		cfg.BaseURL = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func loadEnvFiles() error {
	for _, name := range envFiles {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		// godotenv.Load 不会覆盖已存在的环境变量
		if err := godotenv.Load(name); err != nil {
			return fmt.Errorf("load %s: %w", name, err)
		}
	}
	return nil
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("base_url must be an absolute URL (e.g. %s)", DefaultBaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base_url scheme must be http or https")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.RatePerSec < 0 {
		return fmt.Errorf("rate_per_sec must not be negative")
	}
	if c.Cases.ExcelPath != "" && c.Cases.HeaderRow < 0 {
		return fmt.Errorf("cases.header_row must not be negative")
	}
	if err := validateLogLevel(c.Logging.Level); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("logging.format must be text or json")
	}
}

func validateLogLevel(level string) error {
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
}
