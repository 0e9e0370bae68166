package main

import (
	"testing"

	"github.com/kapu/lw-directory-scraper/internal/domain"
	"github.com/kapu/lw-directory-scraper/internal/util"
)

func recordWithURL(url *string) domain.Record {
	record := domain.NewRecord()
	record.Set(domain.FieldName, util.StringPtr("Jane Doe"))
	record.Set(domain.FieldWebpageURL, url)
	return record
}

func TestValidateRecordsRequiresURL(t *testing.T) {
	records := []domain.Record{
		recordWithURL(util.StringPtr("https://www.lw.com/people/jane-doe")),
		recordWithURL(nil),
	}
	if err := validateRecords(records); err == nil {
		t.Fatalf("expected missing url error")
	}
}

func TestValidateRecordsAllowsDuplicates(t *testing.T) {
	url := util.StringPtr("https://www.lw.com/people/jane-doe")
	records := []domain.Record{recordWithURL(url), recordWithURL(url)}
	if err := validateRecords(records); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
