package profile

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
	"github.com/kapu/lw-directory-scraper/internal/util"
	"github.com/kapu/lw-directory-scraper/pkg/errors"
)

type Config struct {
	BaseURL                string
	Company                string
	AbortOnTimeout         bool
	MaxConsecutiveFailures int
}

// Extractor loads profile pages and turns each into a lawyer record.
type Extractor struct {
	session browser.Session
	cfg     Config
	clock   util.Clock
	logger  *zap.Logger
}

func NewExtractor(session browser.Session, cfg Config, clock util.Clock, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = util.SystemClock()
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Extractor{
		session: session,
		cfg:     cfg,
		clock:   clock,
		logger:  logger,
	}
}

// ExtractAll visits every link in order. A profile that fails is recorded and
// skipped. The batch stops early when the context ends, when AbortOnTimeout
// is set and a page times out, or when MaxConsecutiveFailures pages fail in
// a row.
func (e *Extractor) ExtractAll(ctx context.Context, links []domain.ProfileLink) domain.ExtractResult {
	result := domain.ExtractResult{
		Records: make([]domain.Record, 0, len(links)),
	}
	breaker := util.NewCircuitBreaker(e.cfg.MaxConsecutiveFailures, e.logger)

	for idx, link := range links {
		if ctx.Err() != nil || !breaker.CanExecute() {
			result.Skipped = len(links) - idx
			e.logger.Warn("Profile extraction stopped early",
				zap.Int("remaining", result.Skipped),
				zap.String("breaker", breaker.GetStatus().State.String()),
				zap.NamedError("context", ctx.Err()))
			break
		}

		record, err := e.Extract(ctx, link)
		if err != nil {
			breaker.RecordFailure()
			e.logger.Error("Profile extraction failed",
				zap.Int("index", idx+1),
				zap.String("link", string(link)),
				zap.Error(err))
			result.Failures = append(result.Failures, domain.Failure{
				Stage:  domain.StageExtract,
				Target: string(link),
				Err:    err,
			})
			if e.cfg.AbortOnTimeout && errors.IsTimeout(err) {
				result.Skipped = len(links) - idx - 1
				break
			}
			continue
		}

		breaker.RecordSuccess()
		result.Records = append(result.Records, record)
	}

	e.logger.Info("Profile extraction completed",
		zap.Int("records", len(result.Records)),
		zap.Int("failures", len(result.Failures)),
		zap.Int("skipped", result.Skipped))

	return result
}

// Extract loads one profile page and parses it.
func (e *Extractor) Extract(ctx context.Context, link domain.ProfileLink) (domain.Record, error) {
	url := e.cfg.BaseURL + string(link)

	if err := e.session.Navigate(ctx, url); err != nil {
		return domain.Record{}, err
	}
	if err := e.session.WaitPresent(ctx, browser.ID(constants.Profile.ContentID)); err != nil {
		return domain.Record{}, fmt.Errorf("content region: %w", err)
	}

	view, err := e.session.Snapshot(ctx)
	if err != nil {
		return domain.Record{}, err
	}

	profile, err := e.Parse(view, url)
	if err != nil {
		return domain.Record{}, err
	}

	e.logger.Info("Profile extracted",
		zap.String("url", url),
		zap.Stringp("name", profile.Name))

	return profile.Record(), nil
}

// Parse extracts every field from a loaded profile page. Only a missing
// content region is an error; any other missing element leaves its field nil.
func (e *Extractor) Parse(view *page.View, url string) (*domain.LawyerProfile, error) {
	content, ok := view.ByID(constants.Profile.ContentID)
	if !ok {
		return nil, errors.NewElementAbsentError(constants.Profile.ContentID)
	}

	meta := ParseMetadata(firstOrNil(view.ByID(constants.Profile.MetadataID)))

	profile := &domain.LawyerProfile{
		Name:                     textByID(content, constants.Profile.NameID),
		Title:                    textByID(content, constants.Profile.TitleID),
		Location:                 textByID(content, constants.Profile.OfficesID),
		Company:                  util.StringPtr(e.cfg.Company),
		Phone:                    textByID(content, constants.Profile.PhoneID),
		Email:                    textByID(content, constants.Profile.EmailID),
		Education:                e.education(meta, url),
		Biography:                e.biography(view),
		Experience:               e.experience(view),
		Expertise:                e.expertise(meta, url),
		AdmissionsQualifications: e.admissions(meta, url),
		NewsEvents:               e.newsEvents(view),
		Publications:             joinedSection(view, constants.SectionPublications),
		Distinctions:             joinedSection(view, constants.SectionDistinctions),
		Image:                    e.image(view),
		WebpageURL:               util.StringPtr(url),
		Timestamp:                util.StringPtr(util.FormatTimestamp(e.clock())),
	}

	return profile, nil
}

func firstOrNil(sel *goquery.Selection, ok bool) *goquery.Selection {
	if !ok {
		return nil
	}
	return sel
}

func textByID(scope *goquery.Selection, id string) *string {
	text, ok := page.TextByID(scope, id)
	if !ok {
		return nil
	}
	return &text
}

func (e *Extractor) education(meta Metadata, url string) *string {
	items, err := meta.Items(constants.MetadataEducation)
	if err != nil {
		e.logSectionAbsent(url, err)
		return nil
	}
	return util.StringPtr(util.JoinItems(items))
}

func (e *Extractor) admissions(meta Metadata, url string) *string {
	items, err := meta.Items(constants.MetadataBarAdmissions)
	if err != nil {
		e.logSectionAbsent(url, err)
		return nil
	}
	return util.StringPtr(util.JoinItems(items))
}

// expertise merges practices then industries. Industries are optional.
func (e *Extractor) expertise(meta Metadata, url string) *string {
	practices, err := meta.Items(constants.MetadataPractices)
	if err != nil {
		e.logSectionAbsent(url, err)
		return nil
	}

	items := make([]string, 0, len(practices))
	for _, item := range practices {
		items = append(items, util.ToASCII(item))
	}

	industries, err := meta.Items(constants.MetadataIndustries)
	if err == nil {
		for _, item := range industries {
			items = append(items, util.ToASCII(item))
		}
	}

	return util.StringPtr(util.JoinItems(items))
}

func (e *Extractor) logSectionAbsent(url string, err error) {
	e.logger.Debug("Metadata section absent",
		zap.String("url", url),
		zap.Error(err))
}

func (e *Extractor) biography(view *page.View) *string {
	area, ok := view.ByID(constants.Profile.BiographyID)
	if !ok {
		return nil
	}
	return util.StringPtr(flattenArea(area, "p, li"))
}

// experience requires the page's Experience navigation link as well as the
// content area, which is sometimes present in markup but never shown.
func (e *Extractor) experience(view *page.View) *string {
	if !view.HasLinkText(constants.Profile.ExperienceLink) {
		return nil
	}
	area, ok := view.ByID(constants.Profile.ExperienceID)
	if !ok {
		return nil
	}
	return util.StringPtr(flattenArea(area, "p, li, br"))
}

// flattenArea joins the text of the matching descendants of area into one
// ASCII-only line.
func flattenArea(area *goquery.Selection, selector string) string {
	var builder strings.Builder
	area.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		text := page.JoinedText(sel)
		if text == "" {
			return
		}
		builder.WriteByte(' ')
		builder.WriteString(text)
	})
	return strings.TrimSpace(util.CollapseSpaces(util.ToASCII(builder.String())))
}

func (e *Extractor) newsEvents(view *page.View) *string {
	events, hasEvents := sectionItems(view, constants.SectionEvents)
	news, hasNews := sectionItems(view, constants.SectionNews)
	if !hasEvents && !hasNews {
		return nil
	}
	return util.StringPtr(util.JoinItems(append(events, news...)))
}

func joinedSection(view *page.View, section constants.SidebarSection) *string {
	items, ok := sectionItems(view, section)
	if !ok {
		return nil
	}
	return util.StringPtr(util.JoinItems(items))
}

// sectionItems returns the entries of a right column section, leaving out
// the "more" pagination link. The section counts only when its navigation
// link is on the page.
func sectionItems(view *page.View, section constants.SidebarSection) ([]string, bool) {
	if !view.HasLinkText(section.LinkText) {
		return nil, false
	}
	wrapper, ok := view.ByID(fmt.Sprintf(constants.Profile.SectionIDFormat, section.Key))
	if !ok || !wrapper.Is("li") {
		return nil, false
	}
	list := wrapper.Find("ul").First()
	if list.Length() == 0 {
		return nil, false
	}

	items := make([]string, 0)
	list.Find("li").Each(func(_ int, li *goquery.Selection) {
		text := page.JoinedText(li)
		if text == "" || text == constants.Profile.MoreLinkText {
			return
		}
		items = append(items, text)
	})
	return items, true
}

func (e *Extractor) image(view *page.View) *string {
	if !view.HasClass(constants.Profile.PhotoClass) {
		return nil
	}
	src, ok := view.Attr("img."+constants.Profile.PhotoClass, "src")
	if !ok || src == "" {
		return nil
	}
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return &src
	}
	return util.StringPtr(e.cfg.BaseURL + src)
}
