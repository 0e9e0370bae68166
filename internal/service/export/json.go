package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/kapu/lw-directory-scraper/internal/domain"
	"github.com/kapu/lw-directory-scraper/pkg/errors"
)

const jsonIndent = "    "

// JSONSink writes the records as a pretty-printed JSON array.
type JSONSink struct {
	Path string
}

func (s JSONSink) Name() string {
	return "json"
}

func (s JSONSink) Write(_ context.Context, bundle domain.ExportBundle) error {
	data, err := MarshalRecords(bundle.Records)
	if err != nil {
		return errors.NewExportError("failed to encode records", s.Path, err)
	}
	if err := writeFileAtomic(s.Path, data); err != nil {
		return errors.NewExportError("failed to write json", s.Path, err)
	}
	return nil
}

// MarshalRecords renders records as a JSON array indented with four spaces.
// Field order and nulls are preserved and HTML characters are not escaped.
func MarshalRecords(records []domain.Record) ([]byte, error) {
	if records == nil {
		records = []domain.Record{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", jsonIndent)
	if err := enc.Encode(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadJSON loads records written by JSONSink, keeping record and key order.
func ReadJSON(path string) ([]domain.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var records []domain.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return records, nil
}

func writeFileAtomic(path string, data []byte) error {
	tmpFile := path + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmpFile, path); err != nil {
		_ = os.Remove(tmpFile)
		return err
	}
	return nil
}
