package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes
const (
	CodeTimeout       = "TIMEOUT"
	CodeElementAbsent = "ELEMENT_ABSENT"
	CodeStructure     = "STRUCTURE_ERROR"
	CodeValidation    = "VALIDATION_ERROR"
	CodeExport        = "EXPORT_ERROR"
	CodeSink          = "SINK_ERROR"
)

type ScrapeError struct {
	Message string
	Code    string
	Context map[string]any
	Cause   error
}

func (e *ScrapeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ScrapeError) Unwrap() error {
	return e.Cause
}

// TimeoutError reports an element that did not appear or become clickable
// within the bounded wait.
type TimeoutError struct {
	*ScrapeError
	Selector string
	Target   string
}

func NewTimeoutError(selector, target string, cause error) *TimeoutError {
	return &TimeoutError{
		ScrapeError: &ScrapeError{
			Message: fmt.Sprintf("timed out waiting for %s", selector),
			Code:    CodeTimeout,
			Context: map[string]any{
				"selector": selector,
				"target":   target,
			},
			Cause: cause,
		},
		Selector: selector,
		Target:   target,
	}
}

type ElementAbsentError struct {
	*ScrapeError
	Selector string
}

func NewElementAbsentError(selector string) *ElementAbsentError {
	return &ElementAbsentError{
		ScrapeError: &ScrapeError{
			Message: fmt.Sprintf("element %s not found", selector),
			Code:    CodeElementAbsent,
			Context: map[string]any{
				"selector": selector,
			},
		},
		Selector: selector,
	}
}

// StructureError reports markup that no longer matches the layout the
// extractor was written against.
type StructureError struct {
	*ScrapeError
	Section  string
	Expected int
	Found    int
}

func NewStructureError(section string, expected, found int) *StructureError {
	return &StructureError{
		ScrapeError: &ScrapeError{
			Message: fmt.Sprintf("section %q needs at least %d lists, found %d", section, expected, found),
			Code:    CodeStructure,
			Context: map[string]any{
				"section":  section,
				"expected": expected,
				"found":    found,
			},
		},
		Section:  section,
		Expected: expected,
		Found:    found,
	}
}

type ValidationError struct {
	*ScrapeError
	Field string
	Value interface{}
}

func NewValidationError(message, field string, value interface{}) *ValidationError {
	return &ValidationError{
		ScrapeError: &ScrapeError{
			Message: message,
			Code:    CodeValidation,
			Context: map[string]any{
				"field": field,
				"value": value,
			},
		},
		Field: field,
		Value: value,
	}
}

type ExportError struct {
	*ScrapeError
	Path string
}

func NewExportError(message, path string, cause error) *ExportError {
	return &ExportError{
		ScrapeError: &ScrapeError{
			Message: message,
			Code:    CodeExport,
			Context: map[string]any{
				"path": path,
			},
			Cause: cause,
		},
		Path: path,
	}
}

type SinkError struct {
	*ScrapeError
	Sink      string
	Operation string
}

func NewSinkError(message, sink, operation string, cause error) *SinkError {
	return &SinkError{
		ScrapeError: &ScrapeError{
			Message: message,
			Code:    CodeSink,
			Context: map[string]any{
				"sink":      sink,
				"operation": operation,
			},
			Cause: cause,
		},
		Sink:      sink,
		Operation: operation,
	}
}

func IsTimeout(err error) bool {
	var target *TimeoutError
	return stderrors.As(err, &target)
}

func IsStructure(err error) bool {
	var target *StructureError
	return stderrors.As(err, &target)
}

func IsElementAbsent(err error) bool {
	var target *ElementAbsentError
	return stderrors.As(err, &target)
}

func IsValidation(err error) bool {
	var target *ValidationError
	return stderrors.As(err, &target)
}
