package main

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/lw-directory-scraper/internal/app"
	"github.com/kapu/lw-directory-scraper/internal/config"
	"github.com/kapu/lw-directory-scraper/internal/util"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	// Initialize logger
	logger, err := util.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	defer logger.Sync()
	defer waitForEnter(cfg.Run.PromptOnExit)

	logger.Info("Lawyer directory scraper starting...",
		zap.String("directory", cfg.Directory.StartURL()),
		zap.Strings("letters", cfg.Directory.Letters),
		zap.String("log_level", cfg.Logging.Level),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	buildCtx, buildCancel := context.WithTimeout(ctx, 30*time.Second)
	container, err := app.Build(buildCtx, cfg, logger)
	buildCancel()
	if err != nil {
		logger.Error("Failed to assemble application services", zap.Error(err))
		return 1
	}
	defer container.Close()

	started := time.Now()
	report, err := container.Run(ctx)

	for _, failure := range report.Failures() {
		logger.Warn("Item failed",
			zap.String("stage", string(failure.Stage)),
			zap.String("target", failure.Target),
			zap.Error(failure.Err))
	}

	if err != nil {
		if stderrors.Is(err, app.ErrCrawlFailed) {
			logger.Error("No directory letter could be read, nothing exported",
				zap.Int("letters", report.Crawl.Letters))
		} else {
			logger.Error("Run failed", zap.Error(err))
		}
		return 1
	}

	logger.Info("Finished",
		zap.Int("records", len(report.Bundle.Records)),
		zap.Int("failures", len(report.Failures())),
		zap.String("json", cfg.Output.JSONFile),
		zap.String("sql", cfg.Output.SQLFile),
		zap.Duration("elapsed", time.Since(started).Round(time.Second)),
	)
	return 0
}

func waitForEnter(enabled bool) {
	if !enabled {
		return
	}
	fmt.Print("Press ENTER to exit...")
	_, _ = bufio.NewReader(os.Stdin).ReadString('\n')
}
