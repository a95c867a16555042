package errors

import (
	"errors"
	"fmt"
)

// Kind categorizes document analysis failures
type Kind int

const (
	// KindInvalidDocument means the byte stream could not be parsed as a PDF.
	// Fatal: the whole analysis call aborts.
	KindInvalidDocument Kind = iota
	// KindNoFieldsFound means the document parsed but neither the widget
	// annotation walk nor the flat field-dictionary scan yielded a field.
	// Fatal, but distinguishable from KindInvalidDocument for caller messaging.
	KindNoFieldsFound
	// KindExtractionWarning means a single annotation or page failed.
	// Non-fatal: the item is skipped and extraction continues.
	KindExtractionWarning
)

// String returns a string representation of the Kind
func (k Kind) String() string {
	switch k {
	case KindInvalidDocument:
		return "INVALID_DOCUMENT"
	case KindNoFieldsFound:
		return "NO_FIELDS_FOUND"
	case KindExtractionWarning:
		return "EXTRACTION_WARNING"
	default:
		return "UNKNOWN"
	}
}

// Fatal reports whether errors of this kind abort the whole analysis call
func (k Kind) Fatal() bool {
	return k == KindInvalidDocument || k == KindNoFieldsFound
}

// DocumentError is a typed analysis error with optional page context
type DocumentError struct {
	Kind    Kind
	Message string
	Page    int
	Err     error
}

// Error implements the error interface
func (e *DocumentError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Kind.String(), e.Message)
	if e.Page > 0 {
		msg = fmt.Sprintf("%s (page %d)", msg, e.Page)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes the underlying cause for errors.Is/errors.As
func (e *DocumentError) Unwrap() error {
	return e.Err
}

// WithPage attaches page context to an existing DocumentError
func (e *DocumentError) WithPage(page int) *DocumentError {
	e.Page = page
	return e
}

// NewInvalidDocument creates a fatal parse error wrapping the library cause
func NewInvalidDocument(message string, err error) *DocumentError {
	return &DocumentError{Kind: KindInvalidDocument, Message: message, Err: err}
}

// NewNoFieldsFound creates the fatal zero-fields error
func NewNoFieldsFound(message string) *DocumentError {
	return &DocumentError{Kind: KindNoFieldsFound, Message: message}
}

// NewExtractionWarning creates a non-fatal per-item error
func NewExtractionWarning(message string, err error) *DocumentError {
	return &DocumentError{Kind: KindExtractionWarning, Message: message, Err: err}
}

// IsInvalidDocument reports whether err is a KindInvalidDocument DocumentError
func IsInvalidDocument(err error) bool {
	return isKind(err, KindInvalidDocument)
}

// IsNoFieldsFound reports whether err is a KindNoFieldsFound DocumentError
func IsNoFieldsFound(err error) bool {
	return isKind(err, KindNoFieldsFound)
}

func isKind(err error, kind Kind) bool {
	var de *DocumentError
	if errors.As(err, &de) {
		return de.Kind == kind
	}
	return false
}

// WarningList collects non-fatal extraction warnings without aborting the call
type WarningList struct {
	warnings []*DocumentError
}

// NewWarningList creates an empty warning collection
func NewWarningList() *WarningList {
	return &WarningList{warnings: make([]*DocumentError, 0)}
}

// Add appends a warning. Fatal errors are never stored here; they propagate.
func (wl *WarningList) Add(err *DocumentError) {
	if err == nil || err.Kind.Fatal() {
		return
	}
	wl.warnings = append(wl.warnings, err)
}

// Addf formats and appends an extraction warning with page context
func (wl *WarningList) Addf(page int, format string, args ...interface{}) {
	wl.Add(NewExtractionWarning(fmt.Sprintf(format, args...), nil).WithPage(page))
}

// Count returns the number of collected warnings
func (wl *WarningList) Count() int {
	return len(wl.warnings)
}

// Messages returns the rendered warning messages in collection order
func (wl *WarningList) Messages() []string {
	msgs := make([]string, 0, len(wl.warnings))
	for _, w := range wl.warnings {
		msgs = append(msgs, w.Error())
	}
	return msgs
}
