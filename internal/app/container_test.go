package app

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/lw-directory-scraper/internal/browser"
	"github.com/kapu/lw-directory-scraper/internal/browser/browsertest"
	"github.com/kapu/lw-directory-scraper/internal/config"
	"github.com/kapu/lw-directory-scraper/internal/domain"
	"github.com/kapu/lw-directory-scraper/internal/service/export"
	"github.com/kapu/lw-directory-scraper/internal/util"
)

const baseURL = "https://example.com"

const listing = `<html><body>
<table id="PeopleList">
  <tr><td><a href="/people/quinn-a">Quinn, A</a></td></tr>
  <tr><td><a href="/people/quick-b">Quick, B</a></td></tr>
</table>
</body></html>`

const quinnProfile = `<html><body>
<div id="RightColumnMainContent">
  <span id="ContentPlaceHolder1_HeadingPlaceHolder_NameLabel">Alex O'Quinn</span>
</div>
</body></html>`

type runFixture struct {
	session *browsertest.Session
	opened  int
	closed  int
	dir     string
}

func newTestContainer(t *testing.T, letters []string) (*Container, *runFixture) {
	t.Helper()

	fixture := &runFixture{
		session: browsertest.New(),
		dir:     t.TempDir(),
	}
	fixture.session.Pages[baseURL+"/GlobalDirectory"] = `<html><body></body></html>`
	fixture.session.Titles[baseURL+"/GlobalDirectory"] = "Global Directory"

	cfg := &config.Config{
		Directory: config.DirectoryConfig{
			BaseURL:       baseURL,
			StartPath:     "/GlobalDirectory",
			Letters:       letters,
			Company:       "Latham & Watkins",
			ProfileMarker: "people",
		},
		Output: config.OutputConfig{
			JSONFile:   filepath.Join(fixture.dir, "LW_Lawyers.json"),
			SQLFile:    filepath.Join(fixture.dir, "LW_Lawyers.sql"),
			Table:      "L_W_Directory",
			ColumnSize: 2000,
		},
		Run: config.RunConfig{MaxConsecutiveFailures: 5},
	}

	logger := zap.NewNop()
	container := &Container{
		Config: cfg,
		Logger: logger,
		sessions: func(_ context.Context, fn func(browser.Session) error) error {
			fixture.opened++
			defer func() { fixture.closed++ }()
			return fn(fixture.session)
		},
		exporter: export.NewExporter(logger,
			export.JSONSink{Path: cfg.Output.JSONFile},
			export.SQLSink{Path: cfg.Output.SQLFile, Table: cfg.Output.Table, ColumnSize: cfg.Output.ColumnSize},
		),
		clock: util.FixedClock(time.Date(2018, time.July, 22, 9, 0, 0, 0, time.UTC)),
	}
	return container, fixture
}

func TestRunExportsExtractedProfiles(t *testing.T) {
	container, fixture := newTestContainer(t, []string{"Q"})
	fixture.session.ClickPages[browser.LinkText("Q").String()] = listing
	fixture.session.Pages[baseURL+"/people/quinn-a"] = quinnProfile

	report, err := container.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if fixture.opened != 1 || fixture.closed != 1 {
		t.Fatalf("expected one scoped session, opened=%d closed=%d", fixture.opened, fixture.closed)
	}
	if report.Title != "Global Directory" {
		t.Fatalf("unexpected title %q", report.Title)
	}
	if len(report.Crawl.Links) != 2 {
		t.Fatalf("expected 2 links, got %v", report.Crawl.Links)
	}
	if len(report.Extract.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(report.Extract.Records))
	}
	failures := report.Failures()
	if len(failures) != 1 || !strings.Contains(failures[0].Target, "quick-b") {
		t.Fatalf("expected quick-b failure, got %v", failures)
	}

	records, err := export.ReadJSON(container.Config.Output.JSONFile)
	if err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 exported record, got %d", len(records))
	}
	if name, _ := records[0].Value("Name"); name != "Alex O'Quinn" {
		t.Fatalf("unexpected name %q", name)
	}
	if stamp, _ := records[0].Value("Timestamp"); stamp != "2018-Jul-22" {
		t.Fatalf("unexpected timestamp %q", stamp)
	}

	script, err := os.ReadFile(container.Config.Output.SQLFile)
	if err != nil {
		t.Fatalf("read sql: %v", err)
	}
	if !strings.Contains(string(script), "'Alex O''Quinn'") {
		t.Fatalf("expected escaped name in sql:\n%s", script)
	}
	if !strings.HasPrefix(string(script), "CREATE TABLE L_W_Directory (") {
		t.Fatalf("unexpected sql header:\n%s", script)
	}
}

func TestRunStopsWhenEveryLetterFails(t *testing.T) {
	container, fixture := newTestContainer(t, []string{"Q", "X"})
	fixture.session.Errors[browser.LinkText("Q").String()] = stderrors.New("letter missing")
	fixture.session.Errors[browser.LinkText("X").String()] = stderrors.New("letter missing")

	report, err := container.Run(context.Background())
	if !stderrors.Is(err, ErrCrawlFailed) {
		t.Fatalf("expected ErrCrawlFailed, got %v", err)
	}
	if fixture.closed != 1 {
		t.Fatalf("session must be closed on failure")
	}
	if len(report.Failures()) != 2 {
		t.Fatalf("expected 2 failures, got %v", report.Failures())
	}
	if _, err := os.Stat(container.Config.Output.JSONFile); !os.IsNotExist(err) {
		t.Fatalf("no output should be written when the crawl fails")
	}
}

func TestRunWithNoProfilesWritesEmptyExport(t *testing.T) {
	container, fixture := newTestContainer(t, []string{"Z"})
	fixture.session.ClickPages[browser.LinkText("Z").String()] = `<table id="PeopleList"></table>`

	report, err := container.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(report.Bundle.Records) != 0 {
		t.Fatalf("expected no records")
	}

	data, err := os.ReadFile(container.Config.Output.JSONFile)
	if err != nil {
		t.Fatalf("read json: %v", err)
	}
	if string(data) != "[]\n" {
		t.Fatalf("expected empty array, got %q", data)
	}
}

func TestRunReportsFailedExportSink(t *testing.T) {
	container, fixture := newTestContainer(t, []string{"Q"})
	fixture.session.ClickPages[browser.LinkText("Q").String()] = listing
	fixture.session.Pages[baseURL+"/people/quinn-a"] = quinnProfile

	badPath := filepath.Join(fixture.dir, "missing", "LW_Lawyers.sql")
	container.exporter = export.NewExporter(zap.NewNop(),
		export.JSONSink{Path: container.Config.Output.JSONFile},
		export.SQLSink{Path: badPath, Table: "L_W_Directory", ColumnSize: 2000},
	)

	report, err := container.Run(context.Background())
	if err == nil {
		t.Fatalf("expected export error")
	}

	var exportFailures []domain.Failure
	for _, failure := range report.Failures() {
		if failure.Stage == domain.StageExport {
			exportFailures = append(exportFailures, failure)
		}
	}
	if len(exportFailures) != 1 || exportFailures[0].Target != "sql" {
		t.Fatalf("expected sql export failure, got %v", report.Failures())
	}
	if _, err := os.Stat(container.Config.Output.JSONFile); err != nil {
		t.Fatalf("json sink should still be written: %v", err)
	}
}

func TestBuildRejectsMissingConfig(t *testing.T) {
	if _, err := Build(context.Background(), nil, zap.NewNop()); err == nil {
		t.Fatalf("expected error for nil config")
	}
}
