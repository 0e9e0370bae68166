// Package browsertest provides an in-memory browser.Session for tests.
package browsertest

import (
	"context"
	"fmt"

	"github.com/kapu/lw-directory-scraper/internal/browser"
	"github.com/kapu/lw-directory-scraper/internal/page"
	"github.com/kapu/lw-directory-scraper/pkg/errors"
)

// Session serves canned markup. Navigate loads Pages[url]; clicking a
// selector listed in ClickPages replaces the current markup. Errors keyed by
// a URL or a selector's String() are returned by the matching call.
type Session struct {
	Pages      map[string]string
	ClickPages map[string]string
	Present    map[string]bool
	Errors     map[string]error
	Titles     map[string]string
	// Unreplaced lists controls whose click never reloads the page.
	Unreplaced map[string]bool

	Calls   []string
	current string
	markup  string
}

var _ browser.Session = (*Session)(nil)

func New() *Session {
	return &Session{
		Pages:      make(map[string]string),
		ClickPages: make(map[string]string),
		Present:    make(map[string]bool),
		Errors:     make(map[string]error),
		Titles:     make(map[string]string),
		Unreplaced: make(map[string]bool),
	}
}

// Timeout builds the error a real session returns when a wait runs out.
func Timeout(sel browser.Selector) error {
	return errors.NewTimeoutError(sel.String(), "", context.DeadlineExceeded)
}

func (s *Session) Navigate(_ context.Context, url string) error {
	s.Calls = append(s.Calls, "navigate "+url)
	if err := s.Errors[url]; err != nil {
		return err
	}
	markup, ok := s.Pages[url]
	if !ok {
		return fmt.Errorf("no page for %s", url)
	}
	s.current = url
	s.markup = markup
	return nil
}

func (s *Session) Title(_ context.Context) (string, error) {
	return s.Titles[s.current], nil
}

func (s *Session) Click(_ context.Context, sel browser.Selector) error {
	s.Calls = append(s.Calls, "click "+sel.String())
	if err := s.Errors[sel.String()]; err != nil {
		return err
	}
	if markup, ok := s.ClickPages[sel.String()]; ok {
		s.markup = markup
	}
	return nil
}

func (s *Session) WaitPresent(_ context.Context, sel browser.Selector) error {
	s.Calls = append(s.Calls, "wait "+sel.String())
	return s.Errors[sel.String()]
}

func (s *Session) ExpandIfPresent(_ context.Context, control browser.Selector, replacedID string) (bool, error) {
	s.Calls = append(s.Calls, "expand "+control.String())
	if err := s.Errors[control.String()]; err != nil {
		return false, err
	}
	if !s.Present[control.String()] {
		return false, nil
	}
	if s.Unreplaced[control.String()] {
		return true, errors.NewTimeoutError("replaced id="+replacedID, s.current, context.DeadlineExceeded)
	}
	if markup, ok := s.ClickPages[control.String()]; ok {
		s.markup = markup
	}
	return true, nil
}

func (s *Session) Snapshot(_ context.Context) (*page.View, error) {
	s.Calls = append(s.Calls, "snapshot")
	return page.ParseString(s.current, s.markup)
}
