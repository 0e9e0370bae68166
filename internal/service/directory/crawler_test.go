package directory

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/kapu/lw-directory-scraper/internal/browser"
	"github.com/kapu/lw-directory-scraper/internal/browser/browsertest"
	"github.com/kapu/lw-directory-scraper/internal/constants"
	"github.com/kapu/lw-directory-scraper/internal/domain"
	"github.com/kapu/lw-directory-scraper/internal/page"
	"github.com/kapu/lw-directory-scraper/pkg/errors"
)

const startURL = "https://example.com/GlobalDirectory"

const truncatedListing = `<html><body>
<a href="/people/outside-table">Outside</a>
<table id="PeopleList">
  <tr><td><a href="/people/quinn-a">Quinn, A</a></td><td><a href="/offices/ny">New York</a></td></tr>
  <tr><td><a href=" /people/quick-b ">Quick, B</a></td></tr>
  <tr><td><a>No href</a></td></tr>
</table>
</body></html>`

const fullListing = `<html><body>
<table id="PeopleList">
  <tr><td><a href="/people/quinn-a">Quinn, A</a></td></tr>
  <tr><td><a href="/people/quick-b">Quick, B</a></td></tr>
  <tr><td><a href="/people/quirk-c">Quirk, C</a></td></tr>
</table>
</body></html>`

func newSession() *browsertest.Session {
	session := browsertest.New()
	session.Pages[startURL] = `<html><head><title>Global Directory</title></head><body></body></html>`
	session.Titles[startURL] = "Global Directory"
	return session
}

func newCrawler(session browser.Session, letters []string, abort bool) *Crawler {
	return NewCrawler(session, Config{
		StartURL:       startURL,
		Letters:        letters,
		ProfileMarker:  "people",
		AbortOnTimeout: abort,
	}, zap.NewNop())
}

func TestExtractProfileLinksKeepsOnlyMarkedRowsInTable(t *testing.T) {
	view, err := page.ParseString(startURL, truncatedListing)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	got := ExtractProfileLinks(view, "people")
	want := []domain.ProfileLink{"/people/quinn-a", "/people/quick-b"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestExtractProfileLinksWithoutTable(t *testing.T) {
	view, err := page.ParseString(startURL, `<div id="PeopleList"><a href="/people/x">x</a></div>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if links := ExtractProfileLinks(view, "people"); len(links) != 0 {
		t.Fatalf("expected no links, got %v", links)
	}
}

func TestCrawlWithoutViewAllControl(t *testing.T) {
	session := newSession()
	session.ClickPages[browser.LinkText("Q").String()] = truncatedListing

	crawler := newCrawler(session, []string{"Q"}, false)
	title, err := crawler.Open(context.Background())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if title != "Global Directory" {
		t.Fatalf("unexpected title %q", title)
	}

	result := crawler.Crawl(context.Background())
	if len(result.Failures) != 0 {
		t.Fatalf("unexpected failures %v", result.Failures)
	}
	if len(result.Links) != 2 {
		t.Fatalf("expected links from truncated listing, got %v", result.Links)
	}
	if result.Failed() {
		t.Fatal("crawl should not be reported as failed")
	}
}

func TestCrawlExpandsViewAll(t *testing.T) {
	session := newSession()
	viewAll := browser.XPath(constants.Directory.ViewAllXPath).String()
	session.ClickPages[browser.LinkText("Q").String()] = truncatedListing
	session.Present[viewAll] = true
	session.ClickPages[viewAll] = fullListing

	crawler := newCrawler(session, []string{"Q"}, false)
	if _, err := crawler.Open(context.Background()); err != nil {
		t.Fatalf("open: %v", err)
	}

	result := crawler.Crawl(context.Background())
	want := []domain.ProfileLink{"/people/quinn-a", "/people/quick-b", "/people/quirk-c"}
	if !reflect.DeepEqual(result.Links, want) {
		t.Fatalf("got %v, want %v", result.Links, want)
	}
}

func TestCrawlFailsLetterWhenViewAllNeverReloads(t *testing.T) {
	session := newSession()
	viewAll := browser.XPath(constants.Directory.ViewAllXPath).String()
	session.ClickPages[browser.LinkText("Q").String()] = truncatedListing
	session.Present[viewAll] = true
	session.Unreplaced[viewAll] = true
	session.ClickPages[browser.LinkText("R").String()] = fullListing

	crawler := newCrawler(session, []string{"Q", "R"}, false)
	result := crawler.Crawl(context.Background())

	if len(result.Failures) != 1 || result.Failures[0].Target != "Q" {
		t.Fatalf("expected Q to fail, got %v", result.Failures)
	}
	if !errors.IsTimeout(result.Failures[0].Err) {
		t.Fatalf("expected a timeout, got %v", result.Failures[0].Err)
	}
	want := []domain.ProfileLink{"/people/quinn-a", "/people/quick-b", "/people/quirk-c"}
	if !reflect.DeepEqual(result.Links, want) {
		t.Fatalf("expected only R's full listing, got %v", result.Links)
	}
}

func TestCrawlIgnoresViewAllLookupError(t *testing.T) {
	session := newSession()
	viewAll := browser.XPath(constants.Directory.ViewAllXPath)
	session.ClickPages[browser.LinkText("Q").String()] = truncatedListing
	session.Errors[viewAll.String()] = browsertest.Timeout(viewAll)

	crawler := newCrawler(session, []string{"Q"}, false)
	result := crawler.Crawl(context.Background())

	if len(result.Failures) != 0 {
		t.Fatalf("lookup errors are not letter failures, got %v", result.Failures)
	}
	if len(result.Links) != 2 {
		t.Fatalf("expected truncated listing links, got %v", result.Links)
	}
}

func TestCrawlContinuesAfterLetterTimeout(t *testing.T) {
	session := newSession()
	letterA := browser.LinkText("A")
	session.Errors[letterA.String()] = browsertest.Timeout(letterA)
	session.ClickPages[browser.LinkText("Q").String()] = fullListing

	crawler := newCrawler(session, []string{"A", "Q"}, false)
	if _, err := crawler.Open(context.Background()); err != nil {
		t.Fatalf("open: %v", err)
	}

	result := crawler.Crawl(context.Background())
	if len(result.Failures) != 1 || result.Failures[0].Target != "A" {
		t.Fatalf("expected one failure for A, got %v", result.Failures)
	}
	if !errors.IsTimeout(result.Failures[0].Err) {
		t.Fatalf("failure should wrap a timeout, got %v", result.Failures[0].Err)
	}
	if len(result.Links) != 3 {
		t.Fatalf("expected links for Q, got %v", result.Links)
	}
}

func TestCrawlAbortsOnTimeoutWhenConfigured(t *testing.T) {
	session := newSession()
	letterA := browser.LinkText("A")
	session.Errors[letterA.String()] = browsertest.Timeout(letterA)
	session.ClickPages[browser.LinkText("Q").String()] = fullListing

	crawler := newCrawler(session, []string{"A", "Q"}, true)
	result := crawler.Crawl(context.Background())

	if len(result.Links) != 0 {
		t.Fatalf("expected crawl to stop before Q, got %v", result.Links)
	}
	if !result.Failed() {
		t.Fatal("a crawl whose only attempted letter failed should report failure")
	}
}

func TestCrawlLinksCarryMarker(t *testing.T) {
	session := newSession()
	session.ClickPages[browser.LinkText("Q").String()] = truncatedListing
	session.ClickPages[browser.LinkText("R").String()] = fullListing

	crawler := newCrawler(session, []string{"Q", "R"}, false)
	result := crawler.Crawl(context.Background())

	for _, link := range result.Links {
		if !strings.Contains(string(link), "people") {
			t.Fatalf("link %s lacks the profile marker", link)
		}
	}
	if len(result.Links) != 5 {
		t.Fatalf("duplicates across letters must be kept, got %d links", len(result.Links))
	}
}
