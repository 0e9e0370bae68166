package domain

import "fmt"

// Stage names the pipeline step a failure happened in.
type Stage string

const (
	StageCrawl   Stage = "crawl"
	StageExtract Stage = "extract"
	StageExport  Stage = "export"
)

// Failure is one item the run could not complete.
type Failure struct {
	Stage  Stage
	Target string
	Err    error
}

func (f Failure) String() string {
	return fmt.Sprintf("%s %s: %v", f.Stage, f.Target, f.Err)
}

// CrawlResult is the directory crawl output. Failures lists the letters
// whose listing could not be loaded.
type CrawlResult struct {
	Links    []ProfileLink
	Letters  int
	Failures []Failure
}

// Failed reports whether every letter failed, as opposed to a crawl that
// simply found no profiles.
func (r CrawlResult) Failed() bool {
	return r.Letters > 0 && len(r.Failures) == r.Letters
}

// ExtractResult is the profile extraction output.
type ExtractResult struct {
	Records  []Record
	Failures []Failure
	Skipped  int
}
