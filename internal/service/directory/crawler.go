package directory

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/kapu/lw-directory-scraper/internal/browser"
	"github.com/kapu/lw-directory-scraper/internal/constants"
	"github.com/kapu/lw-directory-scraper/internal/domain"
	"github.com/kapu/lw-directory-scraper/internal/page"
	"github.com/kapu/lw-directory-scraper/pkg/errors"
)

type Config struct {
	StartURL       string
	Letters        []string
	ProfileMarker  string
	AbortOnTimeout bool
}

// Crawler walks the directory's letter filters and collects profile links.
type Crawler struct {
	session browser.Session
	cfg     Config
	logger  *zap.Logger
}

func NewCrawler(session browser.Session, cfg Config, logger *zap.Logger) *Crawler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Crawler{
		session: session,
		cfg:     cfg,
		logger:  logger,
	}
}

// Open navigates to the directory root and returns its title.
func (c *Crawler) Open(ctx context.Context) (string, error) {
	if err := c.session.Navigate(ctx, c.cfg.StartURL); err != nil {
		return "", fmt.Errorf("open directory: %w", err)
	}

	title, err := c.session.Title(ctx)
	if err != nil {
		return "", err
	}

	c.logger.Info("Directory opened",
		zap.String("url", c.cfg.StartURL),
		zap.String("title", title))

	return title, nil
}

// Crawl collects profile links for every configured letter, in order.
// Duplicates across letters are kept. A letter that fails is recorded and
// the crawl moves on, unless AbortOnTimeout is set and the failure was a
// timeout.
func (c *Crawler) Crawl(ctx context.Context) domain.CrawlResult {
	result := domain.CrawlResult{
		Links: make([]domain.ProfileLink, 0),
	}

	for _, letter := range c.cfg.Letters {
		result.Letters++
		if err := ctx.Err(); err != nil {
			result.Failures = append(result.Failures, domain.Failure{
				Stage:  domain.StageCrawl,
				Target: letter,
				Err:    err,
			})
			break
		}

		links, err := c.crawlLetter(ctx, letter)
		if err != nil {
			c.logger.Error("Letter crawl failed",
				zap.String("letter", letter),
				zap.Error(err))
			result.Failures = append(result.Failures, domain.Failure{
				Stage:  domain.StageCrawl,
				Target: letter,
				Err:    err,
			})
			if c.cfg.AbortOnTimeout && errors.IsTimeout(err) {
				c.logger.Warn("Aborting crawl after timeout", zap.String("letter", letter))
				break
			}
			continue
		}

		c.logger.Info("Letter crawled",
			zap.String("letter", letter),
			zap.Int("links", len(links)))
		result.Links = append(result.Links, links...)
	}

	c.logger.Info("Directory crawl completed",
		zap.Int("letters", result.Letters),
		zap.Int("links", len(result.Links)),
		zap.Int("failures", len(result.Failures)))

	return result
}

func (c *Crawler) crawlLetter(ctx context.Context, letter string) ([]domain.ProfileLink, error) {
	if err := c.session.Click(ctx, browser.LinkText(letter)); err != nil {
		return nil, fmt.Errorf("select letter %s: %w", letter, err)
	}

	listTab := browser.ID(constants.Directory.ListTabID)
	if err := c.session.WaitPresent(ctx, listTab); err != nil {
		return nil, fmt.Errorf("list view: %w", err)
	}
	if err := c.session.Click(ctx, listTab); err != nil {
		return nil, fmt.Errorf("list view: %w", err)
	}

	peopleList := browser.ID(constants.Directory.PeopleListID)
	if err := c.session.WaitPresent(ctx, peopleList); err != nil {
		return nil, fmt.Errorf("people list: %w", err)
	}

	// View all is optional, but once clicked the listing must be reloaded
	// before it is read, or only the first page would be collected.
	expanded, err := c.session.ExpandIfPresent(ctx, browser.XPath(constants.Directory.ViewAllXPath), constants.Directory.PeopleListID)
	switch {
	case err != nil && expanded:
		return nil, fmt.Errorf("people list after view all: %w", err)
	case err != nil:
		c.logger.Debug("View all control could not be clicked",
			zap.String("letter", letter),
			zap.Error(err))
	case expanded:
		c.logger.Debug("Listing expanded", zap.String("letter", letter))
	}

	view, err := c.session.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	return ExtractProfileLinks(view, c.cfg.ProfileMarker), nil
}

// ExtractProfileLinks returns the hrefs of anchors inside the people list
// table rows whose path contains marker, in document order.
func ExtractProfileLinks(view *page.View, marker string) []domain.ProfileLink {
	links := make([]domain.ProfileLink, 0)

	table, ok := view.ByID(constants.Directory.PeopleListID)
	if !ok || !table.Is("table") {
		return links
	}

	table.Find("tr a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || !strings.Contains(href, marker) {
			return
		}
		links = append(links, domain.ProfileLink(href))
	})

	return links
}
