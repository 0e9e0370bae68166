package browser

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/kapu/lw-directory-scraper/internal/page"
	"github.com/kapu/lw-directory-scraper/pkg/errors"
)

const defaultNavigateTimeout = 60 * time.Second

type Options struct {
	Headless        bool
	WindowSize      [2]int
	ExecPath        string
	UserAgent       string
	WaitTimeout     time.Duration
	NavigateTimeout time.Duration
}

// Chrome is a Session backed by one headless Chrome tab.
type Chrome struct {
	ctx         context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
	opts        Options
	logger      *zap.Logger
	closeOnce   sync.Once
	currentURL  string
}

// NewChrome launches the browser. The caller owns the returned session and
// must Close it; WithChrome does that on every exit path.
func NewChrome(ctx context.Context, opts Options, logger *zap.Logger) (*Chrome, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.WaitTimeout <= 0 {
		opts.WaitTimeout = 5 * time.Second
	}
	if opts.NavigateTimeout <= 0 {
		opts.NavigateTimeout = defaultNavigateTimeout
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if opts.WindowSize[0] > 0 && opts.WindowSize[1] > 0 {
		allocOpts = append(allocOpts, chromedp.WindowSize(opts.WindowSize[0], opts.WindowSize[1]))
	}
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	// The browser starts on the first Run.
	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	logger.Info("Browser started",
		zap.Bool("headless", opts.Headless),
		zap.Duration("wait_timeout", opts.WaitTimeout),
	)

	return &Chrome{
		ctx:         tabCtx,
		cancelTab:   cancelTab,
		cancelAlloc: cancelAlloc,
		opts:        opts,
		logger:      logger,
	}, nil
}

// WithChrome runs fn with a fresh browser and closes it afterwards, including
// when fn fails or panics.
func WithChrome(ctx context.Context, opts Options, logger *zap.Logger, fn func(Session) error) error {
	chrome, err := NewChrome(ctx, opts, logger)
	if err != nil {
		return err
	}
	defer chrome.Close()

	return fn(chrome)
}

// Close shuts the tab and the browser process. Safe to call more than once.
func (c *Chrome) Close() error {
	c.closeOnce.Do(func() {
		c.cancelTab()
		c.cancelAlloc()
		c.logger.Info("Browser closed")
	})
	return nil
}

// run executes actions on the tab, bounded by timeout and by the caller's ctx.
func (c *Chrome) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(c.ctx, timeout)
	defer cancel()

	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}

func (c *Chrome) timeoutError(sel Selector, err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.NewTimeoutError(sel.String(), c.currentURL, err)
	}
	return err
}

func (c *Chrome) Navigate(ctx context.Context, url string) error {
	c.logger.Debug("Navigating", zap.String("url", url))
	if err := c.run(ctx, c.opts.NavigateTimeout, chromedp.Navigate(url)); err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) {
			return errors.NewTimeoutError("navigation", url, err)
		}
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	c.currentURL = url
	return nil
}

func (c *Chrome) Title(ctx context.Context) (string, error) {
	var title string
	if err := c.run(ctx, c.opts.WaitTimeout, chromedp.Title(&title)); err != nil {
		return "", fmt.Errorf("read title: %w", err)
	}
	return title, nil
}

func (c *Chrome) Click(ctx context.Context, sel Selector) error {
	if err := c.run(ctx, c.opts.WaitTimeout, chromedp.Click(sel.Value, sel.option())); err != nil {
		return c.timeoutError(sel, err)
	}
	return nil
}

func (c *Chrome) WaitPresent(ctx context.Context, sel Selector) error {
	if err := c.run(ctx, c.opts.WaitTimeout, chromedp.WaitReady(sel.Value, sel.option())); err != nil {
		return c.timeoutError(sel, err)
	}
	return nil
}

const (
	staleAttribute = "data-scraper-stale"
	pollInterval   = 100 * time.Millisecond
)

func (c *Chrome) ExpandIfPresent(ctx context.Context, control Selector, replacedID string) (bool, error) {
	var nodes []*cdp.Node
	if err := c.run(ctx, c.opts.WaitTimeout, chromedp.Nodes(control.Value, &nodes, control.option(), chromedp.AtLeast(0))); err != nil {
		return false, c.timeoutError(control, err)
	}
	if len(nodes) == 0 {
		return false, nil
	}

	// Tag the current element so the reloaded one can be told apart.
	var marked bool
	markScript := fmt.Sprintf(`(() => { const el = document.getElementById(%q); if (!el) return false; el.setAttribute(%q, "1"); return true; })()`,
		replacedID, staleAttribute)
	if err := c.run(ctx, c.opts.WaitTimeout, chromedp.Evaluate(markScript, &marked)); err != nil {
		return false, fmt.Errorf("mark %s: %w", replacedID, err)
	}

	if err := c.run(ctx, c.opts.WaitTimeout, chromedp.MouseClickNode(nodes[0])); err != nil {
		return false, c.timeoutError(control, err)
	}

	if err := c.waitReplaced(ctx, replacedID); err != nil {
		return true, err
	}
	return true, nil
}

// waitReplaced polls until an element with id exists and does not carry the
// stale mark. Evaluation errors while the page is reloading are retried.
func (c *Chrome) waitReplaced(ctx context.Context, id string) error {
	script := fmt.Sprintf(`(() => { const el = document.getElementById(%q); return !!el && !el.hasAttribute(%q); })()`,
		id, staleAttribute)

	deadline := time.Now().Add(c.opts.WaitTimeout)
	for {
		var fresh bool
		if err := c.run(ctx, pollInterval*5, chromedp.Evaluate(script, &fresh)); err == nil && fresh {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if time.Now().After(deadline) {
			return errors.NewTimeoutError("replaced id="+id, c.currentURL, context.DeadlineExceeded)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

func (c *Chrome) Snapshot(ctx context.Context) (*page.View, error) {
	var (
		location string
		markup   string
	)
	if err := c.run(ctx, c.opts.WaitTimeout,
		chromedp.Location(&location),
		chromedp.OuterHTML("html", &markup, chromedp.ByQuery),
	); err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", c.currentURL, err)
	}
	return page.ParseString(location, markup)
}
