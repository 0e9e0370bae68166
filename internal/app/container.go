package app

import (
	"context"
	stderrors "errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kapu/lw-directory-scraper/internal/browser"
	"github.com/kapu/lw-directory-scraper/internal/config"
	"github.com/kapu/lw-directory-scraper/internal/domain"
	"github.com/kapu/lw-directory-scraper/internal/service/cache"
	"github.com/kapu/lw-directory-scraper/internal/service/database"
	"github.com/kapu/lw-directory-scraper/internal/service/directory"
	"github.com/kapu/lw-directory-scraper/internal/service/export"
	"github.com/kapu/lw-directory-scraper/internal/service/profile"
	"github.com/kapu/lw-directory-scraper/internal/util"
)

// ErrCrawlFailed is returned when no letter of the directory could be read.
var ErrCrawlFailed = stderrors.New("directory crawl failed for every letter")

// SessionRunner opens a browser session, hands it to fn and closes it.
type SessionRunner func(ctx context.Context, fn func(browser.Session) error) error

// Container bundles the assembled services of one scraper run.
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	sessions SessionRunner
	exporter *export.Exporter
	clock    util.Clock
	closers  []func()
}

// Report summarises a run.
type Report struct {
	Title   string
	Crawl   domain.CrawlResult
	Extract domain.ExtractResult
	Bundle  domain.ExportBundle
	Export  []domain.Failure
}

// Failures lists every item the run could not complete, in stage order.
func (r *Report) Failures() []domain.Failure {
	failures := make([]domain.Failure, 0, len(r.Crawl.Failures)+len(r.Extract.Failures)+len(r.Export))
	failures = append(failures, r.Crawl.Failures...)
	failures = append(failures, r.Extract.Failures...)
	failures = append(failures, r.Export...)
	return failures
}

// Build assembles the browser runner and every export sink. Optional sinks
// (PostgreSQL, Redis) connect here so a bad address fails before the browser
// starts.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var closers []func()
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		}
	}()

	sinks := []export.Sink{
		export.JSONSink{Path: cfg.Output.JSONFile},
		export.SQLSink{
			Path:       cfg.Output.SQLFile,
			Table:      cfg.Output.Table,
			ColumnSize: cfg.Output.ColumnSize,
		},
	}

	if cfg.Postgres.Enabled {
		postgresSvc, err := database.NewPostgresService(ctx, database.PostgresConfig{
			Host:       cfg.Postgres.Host,
			Port:       cfg.Postgres.Port,
			User:       cfg.Postgres.User,
			Password:   cfg.Postgres.Password,
			Database:   cfg.Postgres.Database,
			Table:      cfg.Output.Table,
			ColumnSize: cfg.Output.ColumnSize,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create postgres service: %w", err)
		}
		closers = append(closers, func() {
			_ = postgresSvc.Close()
		})
		sinks = append(sinks, postgresSvc)
	}

	if cfg.Redis.Enabled {
		cacheSvc, err := cache.NewCacheService(ctx, cache.CacheConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Redis.TTL,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create cache service: %w", err)
		}
		closers = append(closers, func() {
			_ = cacheSvc.Close()
		})
		sinks = append(sinks, cacheSvc)
	}

	browserOpts := browser.Options{
		Headless:    cfg.Browser.Headless,
		WindowSize:  cfg.Browser.WindowSize,
		ExecPath:    cfg.Browser.ExecPath,
		UserAgent:   cfg.Browser.UserAgent,
		WaitTimeout: cfg.Browser.WaitTimeout,
	}

	return &Container{
		Config: cfg,
		Logger: logger,
		sessions: func(ctx context.Context, fn func(browser.Session) error) error {
			return browser.WithChrome(ctx, browserOpts, logger, fn)
		},
		exporter: export.NewExporter(logger, sinks...),
		clock:    util.SystemClock(),
		closers:  closers,
	}, nil
}

// Close releases the sink connections opened by Build.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

// Run crawls the directory, extracts every profile and exports the records.
// The browser is closed before export starts. Per-item failures are kept in
// the report; the error is reserved for failures that stop the run.
func (c *Container) Run(ctx context.Context) (*Report, error) {
	report := &Report{}

	err := c.sessions(ctx, func(session browser.Session) error {
		crawler := directory.NewCrawler(session, directory.Config{
			StartURL:       c.Config.Directory.StartURL(),
			Letters:        c.Config.Directory.Letters,
			ProfileMarker:  c.Config.Directory.ProfileMarker,
			AbortOnTimeout: c.Config.Run.AbortOnTimeout,
		}, c.Logger)

		title, err := crawler.Open(ctx)
		if err != nil {
			return err
		}
		report.Title = title

		report.Crawl = crawler.Crawl(ctx)
		if report.Crawl.Failed() {
			return ErrCrawlFailed
		}

		extractor := profile.NewExtractor(session, profile.Config{
			BaseURL:                c.Config.Directory.BaseURL,
			Company:                c.Config.Directory.Company,
			AbortOnTimeout:         c.Config.Run.AbortOnTimeout,
			MaxConsecutiveFailures: c.Config.Run.MaxConsecutiveFailures,
		}, c.clock, c.Logger)

		report.Extract = extractor.ExtractAll(ctx, report.Crawl.Links)
		return nil
	})
	if err != nil {
		return report, err
	}

	bundle, exportFailures, err := c.exporter.Export(ctx, report.Extract.Records)
	report.Bundle = bundle
	report.Export = exportFailures
	if err != nil {
		return report, fmt.Errorf("export failed: %w", err)
	}

	c.Logger.Info("Run complete",
		zap.String("directory", report.Title),
		zap.Int("letters", report.Crawl.Letters),
		zap.Int("links", len(report.Crawl.Links)),
		zap.Int("records", len(report.Extract.Records)),
		zap.Int("skipped", report.Extract.Skipped),
		zap.Int("failures", len(report.Failures())),
	)

	return report, nil
}
