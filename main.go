package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"league_smoke/internal/cases"
	"league_smoke/internal/config"
	"league_smoke/internal/reporter"
	"league_smoke/internal/runner"
	"league_smoke/internal/suite"
)

var version = "dev"

const (
	exitOK     = 0
	exitFailed = 1
	exitConfig = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("league-smoke", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", config.DefaultPath, "path to configuration file")
	baseURL := fs.String("base-url", "", "override the target base URL")
	showVersion := fs.Bool("version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return exitConfig
	}

	if *showVersion {
		fmt.Fprintf(stdout, "league-smoke %s\n", version)
		return exitOK
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitConfig
	}
	if *baseURL != "" {
		cfg.BaseURL = *baseURL
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return exitConfig
		}
	}

	logger := setupLogger(cfg.Logging, stderr)

	testCases := suite.League(suite.Options{ErrorBodies: cfg.ErrorBodies})
	if cfg.Cases.ExcelPath != "" {
		extra, err := cases.LoadExcel(cfg.Cases.ExcelPath, cfg.Cases.SheetName, cfg.Cases.HeaderRow)
		if err != nil {
			logger.Error("failed to load cases", "path", cfg.Cases.ExcelPath, "error", err)
			return exitConfig
		}
		logger.Info("loaded extra cases", "path", cfg.Cases.ExcelPath, "count", len(extra))
		testCases = append(testCases, extra...)
	}

	fmt.Fprintln(stdout, "开始联赛管理 API 冒烟测试")
	fmt.Fprintln(stdout, strings.Repeat("=", 50))

	r := runner.New(cfg, stdout, logger)
	report, runErr := r.Run(ctx, testCases)
	if runErr != nil {
		logger.Error("run interrupted", "error", runErr)
	}

	rep := reporter.New(cfg, stdout, logger)
	if err := rep.GenerateReport(report); err != nil {
		logger.Error("failed to write report", "error", err)
		return exitFailed
	}

	if runErr != nil || !report.AllPassed() {
		return exitFailed
	}
	return exitOK
}

func setupLogger(cfg config.LoggingConfig, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}
