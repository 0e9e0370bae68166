package domain

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestLawyerProfileRecordHasFixedKeySet(t *testing.T) {
	profiles := []LawyerProfile{
		{},
		{Name: strPtr("Jane Doe"), Email: strPtr("jane@example.com")},
	}

	for _, profile := range profiles {
		record := profile.Record()
		if !reflect.DeepEqual(record.Keys(), LawyerFields) {
			t.Fatalf("unexpected keys %v", record.Keys())
		}
		if record.Len() != 22 {
			t.Fatalf("expected 22 fields, got %d", record.Len())
		}
	}
}

func TestRecordMarshalKeepsOrderAndNulls(t *testing.T) {
	record := NewRecord()
	record.Set("Name", strPtr("Jane & Co"))
	record.Set("Phone", nil)
	record.Set("Bio", strPtr(`say "hi"`))

	data, err := record.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	want := `{"Name":"Jane & Co","Phone":null,"Bio":"say \"hi\""}`
	if string(data) != want {
		t.Fatalf("got %s, want %s", data, want)
	}
}

func TestRecordUnmarshalRestoresOrder(t *testing.T) {
	input := `[{"Zeta":"1","Alpha":null},{"Alpha":"2","New":"x"}]`

	var records []Record
	if err := json.Unmarshal([]byte(input), &records); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if !reflect.DeepEqual(records[0].Keys(), []string{"Zeta", "Alpha"}) {
		t.Fatalf("unexpected key order %v", records[0].Keys())
	}
	if value, ok := records[0].Get("Alpha"); !ok || value != nil {
		t.Fatalf("Alpha should be an explicit null, got %v %v", value, ok)
	}

	out, err := json.Marshal(records)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != input {
		t.Fatalf("round trip mismatch: %s", out)
	}
}

func TestRecordUnmarshalRejectsNonObject(t *testing.T) {
	var record Record
	if err := json.Unmarshal([]byte(`["a"]`), &record); err == nil {
		t.Fatal("expected error for array input")
	}
	if err := json.Unmarshal([]byte(`{"a":1}`), &record); err == nil || !strings.Contains(err.Error(), "field a") {
		t.Fatalf("expected field error for numeric value, got %v", err)
	}
}

func TestRecordSetCopiesValue(t *testing.T) {
	value := "before"
	record := NewRecord()
	record.Set("k", &value)
	value = "after"

	if got, _ := record.Value("k"); got != "before" {
		t.Fatalf("record aliased caller memory: %q", got)
	}
}

func TestDeriveColumnsFirstSeenUnion(t *testing.T) {
	first := NewRecord()
	first.Set("A", nil)
	first.Set("B", strPtr("b"))

	second := NewRecord()
	second.Set("B", nil)
	second.Set("C", strPtr("c"))
	second.Set("A", nil)

	bundle := NewExportBundle([]Record{first, second})
	if !reflect.DeepEqual(bundle.Columns, []string{"A", "B", "C"}) {
		t.Fatalf("unexpected columns %v", bundle.Columns)
	}
}

func TestCrawlResultFailed(t *testing.T) {
	empty := CrawlResult{Letters: 1}
	if empty.Failed() {
		t.Fatal("an empty listing is not a failed crawl")
	}

	failed := CrawlResult{Letters: 1, Failures: []Failure{{Stage: StageCrawl, Target: "Q"}}}
	if !failed.Failed() {
		t.Fatal("every letter failing should mark the crawl failed")
	}
}
