package browser

import (
	"context"

	"github.com/kapu/lw-directory-scraper/internal/page"
)

// Session is the browser capability the crawler and extractor drive. Every
// wait is bounded; a wait that runs out returns a *errors.TimeoutError.
type Session interface {
	Navigate(ctx context.Context, url string) error
	Title(ctx context.Context) (string, error)
	// Click waits for sel to become visible and clicks it.
	Click(ctx context.Context, sel Selector) error
	// WaitPresent waits for sel to be present in the DOM.
	WaitPresent(ctx context.Context, sel Selector) error
	// ExpandIfPresent clicks control when it exists right now and then
	// waits until the element with replacedID has been swapped for a fresh
	// one by the resulting reload. It reports whether control was clicked;
	// absence of control is not an error.
	ExpandIfPresent(ctx context.Context, control Selector, replacedID string) (bool, error)
	// Snapshot serializes the current DOM into a page view.
	Snapshot(ctx context.Context) (*page.View, error)
}
