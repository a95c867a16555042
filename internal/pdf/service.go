package pdf

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	pdferrors "github.com/vmanzanal/AI4Devs-finalproject-sub000/internal/pdf/errors"
)

// Service runs the full document analysis pipeline: field extraction and
// text layer extraction in parallel, then ordering, labeling and
// classification into canonical field records
type Service struct {
	maxFileSize    int64
	fieldExtractor *FieldExtractor
	textExtractor  *TextExtractor
	labelResolver  *LabelResolver
}

// NewService creates an analysis service
func NewService(maxFileSize int64, debugMode bool) *Service {
	return &Service{
		maxFileSize:    maxFileSize,
		fieldExtractor: NewFieldExtractor(debugMode),
		textExtractor:  NewTextExtractor(debugMode),
		labelResolver:  NewLabelResolver(),
	}
}

// Analyze extracts, orders, labels and classifies every interactive
// field in the document. The two extraction leaves are independent and
// run concurrently; the call is otherwise pure over the input bytes.
func (s *Service) Analyze(ctx context.Context, data []byte) (*AnalysisResult, error) {
	if s.maxFileSize > 0 && int64(len(data)) > s.maxFileSize {
		return nil, pdferrors.NewInvalidDocument(
			fmt.Sprintf("document size %d exceeds limit %d", len(data), s.maxFileSize), nil)
	}

	var (
		rawFields []RawField
		pageCount int
		tokens    []TextToken
	)
	fieldWarnings := pdferrors.NewWarningList()
	textWarnings := pdferrors.NewWarningList()

	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		fields, pages, warnings, err := s.fieldExtractor.Extract(data)
		if err != nil {
			return err
		}
		rawFields, pageCount, fieldWarnings = fields, pages, warnings
		return nil
	})

	g.Go(func() error {
		toks, warnings, err := s.textExtractor.Extract(data)
		if err != nil {
			// A dead text layer degrades labels to "", it never
			// aborts field extraction.
			textWarnings.Add(pdferrors.NewExtractionWarning("text layer unavailable", err))
			return nil
		}
		tokens, textWarnings = toks, warnings
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	ordered := OrderFields(rawFields)
	records := s.buildRecords(ordered, tokens)

	result := &AnalysisResult{
		ID:        uuid.New(),
		PageCount: pageCount,
		Fields:    records,
	}
	result.Warnings = append(result.Warnings, fieldWarnings.Messages()...)
	result.Warnings = append(result.Warnings, textWarnings.Messages()...)

	return result, nil
}

// AnalyzeFile reads a PDF from disk and analyzes it. The file handle is
// released on every exit path.
func (s *Service) AnalyzeFile(ctx context.Context, path string) (*AnalysisResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pdferrors.NewInvalidDocument(fmt.Sprintf("failed to open %s", path), err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, pdferrors.NewInvalidDocument(fmt.Sprintf("failed to read %s", path), err)
	}

	return s.Analyze(ctx, data)
}

// buildRecords turns reading-ordered raw fields into canonical records:
// page order indices, near-text labels, canonical types, derived ids and
// value options
func (s *Service) buildRecords(ordered []RawField, tokens []TextToken) []FieldRecord {
	records := make([]FieldRecord, 0, len(ordered))
	pageCounters := make(map[int]int)
	seenIDs := make(map[string]int)

	for _, raw := range ordered {
		pageOrder := pageCounters[raw.Page]
		pageCounters[raw.Page]++

		fieldType := ClassifyType(raw.RawType, raw.Options)
		fieldID := uniqueFieldID(DeriveFieldID(raw.Name, raw.Page, pageOrder), seenIDs)

		position := raw.Rect
		records = append(records, FieldRecord{
			FieldID:      fieldID,
			Type:         fieldType,
			Page:         raw.Page,
			PageOrder:    pageOrder,
			NearText:     s.labelResolver.ResolveNearText(raw.Rect, raw.Page, tokens),
			ValueOptions: ResolveValueOptions(fieldType, raw.Options),
			Position:     &position,
		})
	}

	return records
}

// uniqueFieldID keeps field ids unique within one version. Widgets of
// the same field group (radio buttons share their parent name) get an
// ordinal suffix.
func uniqueFieldID(id string, seen map[string]int) string {
	seen[id]++
	if n := seen[id]; n > 1 {
		return fmt.Sprintf("%s_%d", id, n)
	}
	return id
}
