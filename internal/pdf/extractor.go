package pdf

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	pdferrors "github.com/vmanzanal/AI4Devs-finalproject-sub000/internal/pdf/errors"
)

// Raw type markers as they appear in the field dictionary FT entry
const (
	rawTypeText   = "Tx"
	rawTypeButton = "Btn"
	rawTypeChoice = "Ch"
)

// maxParentDepth bounds the Parent chain walk against malformed cycles
const maxParentDepth = 32

// defaultFieldRect is synthesized for flat-scan fields that carry no Rect
var defaultFieldRect = Rect{X0: 0, Y0: 0, X1: 100, Y1: 20}

// FieldExtractor walks a document's widget annotations and produces
// unordered RawField descriptors using pdfcpu
type FieldExtractor struct {
	debugMode bool
}

// NewFieldExtractor creates a new field extractor
func NewFieldExtractor(debugMode bool) *FieldExtractor {
	return &FieldExtractor{debugMode: debugMode}
}

// Extract parses the PDF bytes and returns the raw field descriptors
// plus the document's page count. Per-annotation and per-page failures
// are collected as warnings and skipped; only an unparseable stream or
// a zero-field document is fatal.
func (fe *FieldExtractor) Extract(data []byte) ([]RawField, int, *pdferrors.WarningList, error) {
	warnings := pdferrors.NewWarningList()

	ctx, err := readContext(data)
	if err != nil {
		return nil, 0, warnings, err
	}

	fields := fe.extractFromPages(ctx, warnings)

	// Fallback: some generators register fields only in the AcroForm
	// dictionary, without page-level widget annotations.
	if len(fields) == 0 {
		fields = fe.extractFromFieldTree(ctx, warnings)
	}

	if len(fields) == 0 {
		return nil, ctx.PageCount, warnings, pdferrors.NewNoFieldsFound("document contains no interactive form fields")
	}

	if fe.debugMode {
		fmt.Printf("Extracted %d raw fields (%d warnings)\n", len(fields), warnings.Count())
	}

	return fields, ctx.PageCount, warnings, nil
}

// readContext parses the byte stream into a pdfcpu context
func readContext(data []byte) (*model.Context, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return nil, pdferrors.NewInvalidDocument("failed to read PDF context", err)
	}

	if err := ctx.EnsurePageCount(); err != nil {
		return nil, pdferrors.NewInvalidDocument("failed to resolve page tree", err)
	}

	return ctx, nil
}

// extractFromPages walks every page's annotation list and keeps widgets
func (fe *FieldExtractor) extractFromPages(ctx *model.Context, warnings *pdferrors.WarningList) []RawField {
	fields := make([]RawField, 0)

	for pageNum := 1; pageNum <= ctx.PageCount; pageNum++ {
		pageDict, _, _, err := ctx.PageDict(pageNum, false)
		if err != nil || pageDict == nil {
			warnings.Addf(pageNum, "failed to resolve page dictionary: %v", err)
			continue
		}

		annotsObj, found := pageDict.Find("Annots")
		if !found {
			continue
		}

		annots, err := ctx.DereferenceArray(annotsObj)
		if err != nil {
			warnings.Addf(pageNum, "failed to dereference annotation array: %v", err)
			continue
		}

		for i, annotRef := range annots {
			field, err := fe.processAnnotation(ctx, annotRef, pageNum)
			if err != nil {
				warnings.Addf(pageNum, "failed to process annotation %d: %v", i, err)
				continue
			}
			if field != nil {
				fields = append(fields, *field)
			}
		}
	}

	return fields
}

// processAnnotation converts one widget annotation into a RawField.
// Non-widget annotations yield nil without error.
func (fe *FieldExtractor) processAnnotation(ctx *model.Context, annotObj types.Object, pageNum int) (*RawField, error) {
	annotDict, err := ctx.DereferenceDict(annotObj)
	if err != nil {
		return nil, fmt.Errorf("failed to dereference annotation: %w", err)
	}
	if annotDict == nil {
		return nil, nil
	}

	subtype := fe.dereferenceName(ctx, annotDict, "Subtype")
	if subtype != "Widget" {
		return nil, nil
	}

	field := &RawField{
		Name:    fe.qualifiedName(ctx, annotDict),
		RawType: fe.fieldType(ctx, annotDict, 0),
		Page:    pageNum,
	}

	rect, err := fe.parseRect(ctx, annotDict)
	if err != nil {
		return nil, err
	}
	field.Rect = rect

	field.Options = fe.fieldOptions(ctx, annotDict, field.RawType)

	if fe.debugMode {
		fmt.Printf("Widget on page %d: %q type=%s rect=%+v\n", pageNum, field.Name, field.RawType, field.Rect)
	}

	return field, nil
}

// qualifiedName builds the fully qualified field name by joining the T
// entries along the Parent chain, outermost first
func (fe *FieldExtractor) qualifiedName(ctx *model.Context, annotDict types.Dict) string {
	parts := make([]string, 0, 4)

	dict := annotDict
	for depth := 0; dict != nil && depth < maxParentDepth; depth++ {
		if name := fe.dereferenceString(ctx, dict, "T"); name != "" {
			parts = append(parts, name)
		}
		parentObj, found := dict.Find("Parent")
		if !found {
			break
		}
		parent, err := ctx.DereferenceDict(parentObj)
		if err != nil {
			break
		}
		dict = parent
	}

	// Collected leaf-first, emit outermost-first.
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}

	name := ""
	for i, p := range parts {
		if i > 0 {
			name += "."
		}
		name += p
	}
	return name
}

// fieldType resolves the FT entry, checking the Parent chain for
// inherited types
func (fe *FieldExtractor) fieldType(ctx *model.Context, fieldDict types.Dict, depth int) string {
	if depth >= maxParentDepth {
		return ""
	}

	if ft := fe.dereferenceName(ctx, fieldDict, "FT"); ft != "" {
		return ft
	}

	if parentObj, found := fieldDict.Find("Parent"); found {
		if parentDict, err := ctx.DereferenceDict(parentObj); err == nil && parentDict != nil {
			return fe.fieldType(ctx, parentDict, depth+1)
		}
	}

	return ""
}

// parseRect reads the annotation rectangle
func (fe *FieldExtractor) parseRect(ctx *model.Context, annotDict types.Dict) (Rect, error) {
	rectObj, found := annotDict.Find("Rect")
	if !found {
		return Rect{}, fmt.Errorf("widget annotation has no Rect entry")
	}

	rectArray, err := ctx.DereferenceArray(rectObj)
	if err != nil {
		return Rect{}, fmt.Errorf("failed to dereference Rect: %w", err)
	}
	if len(rectArray) != 4 {
		return Rect{}, fmt.Errorf("Rect has %d coordinates, want 4", len(rectArray))
	}

	coords := make([]float64, 4)
	for i, coord := range rectArray {
		f, err := ctx.DereferenceNumber(coord)
		if err != nil {
			return Rect{}, fmt.Errorf("failed to parse Rect coordinate %d: %w", i, err)
		}
		coords[i] = f
	}

	return Rect{X0: coords[0], Y0: coords[1], X1: coords[2], Y1: coords[3]}, nil
}

// fieldOptions resolves selectable options: an explicit Opt array when
// present, otherwise the appearance-state key set for button fields
func (fe *FieldExtractor) fieldOptions(ctx *model.Context, fieldDict types.Dict, rawType string) []string {
	if opts := fe.explicitOptions(ctx, fieldDict); len(opts) > 0 {
		return opts
	}
	if rawType == rawTypeButton {
		return fe.appearanceStates(ctx, fieldDict)
	}
	return nil
}

// explicitOptions reads the Opt array. Entries can be strings or
// [export_value, display_value] pairs; the display value wins.
func (fe *FieldExtractor) explicitOptions(ctx *model.Context, fieldDict types.Dict) []string {
	optObj, found := fieldDict.Find("Opt")
	if !found {
		// Opt may live on the parent field of a widget kid.
		if parentObj, ok := fieldDict.Find("Parent"); ok {
			if parentDict, err := ctx.DereferenceDict(parentObj); err == nil && parentDict != nil {
				optObj, found = parentDict.Find("Opt")
			}
		}
		if !found {
			return nil
		}
	}

	optArray, err := ctx.DereferenceArray(optObj)
	if err != nil {
		return nil
	}

	var options []string
	for _, opt := range optArray {
		if str, err := ctx.DereferenceStringOrHexLiteral(opt, model.V10, nil); err == nil {
			options = append(options, str)
		} else if arr, err := ctx.DereferenceArray(opt); err == nil && len(arr) >= 2 {
			if displayVal, err := ctx.DereferenceStringOrHexLiteral(arr[1], model.V10, nil); err == nil {
				options = append(options, displayVal)
			}
		}
	}
	return options
}

// appearanceStates derives button options from the normal appearance
// dictionary's key set, skipping the "Off" state
func (fe *FieldExtractor) appearanceStates(ctx *model.Context, fieldDict types.Dict) []string {
	apObj, found := fieldDict.Find("AP")
	if !found {
		return nil
	}

	apDict, err := ctx.DereferenceDict(apObj)
	if err != nil || apDict == nil {
		return nil
	}

	nObj, found := apDict.Find("N")
	if !found {
		return nil
	}

	nDict, err := ctx.DereferenceDict(nObj)
	if err != nil || nDict == nil {
		return nil
	}

	var states []string
	for key := range nDict {
		if key == "Off" {
			continue
		}
		states = append(states, key)
	}
	sort.Strings(states)
	return states
}

// extractFromFieldTree is the flat AcroForm scan used when no page-level
// widget annotation yields a field
func (fe *FieldExtractor) extractFromFieldTree(ctx *model.Context, warnings *pdferrors.WarningList) []RawField {
	fields := make([]RawField, 0)

	rootDict, err := ctx.Catalog()
	if err != nil {
		warnings.Addf(0, "failed to resolve catalog: %v", err)
		return fields
	}

	acroFormObj, found := rootDict.Find("AcroForm")
	if !found {
		return fields
	}

	acroFormDict, err := ctx.DereferenceDict(acroFormObj)
	if err != nil || acroFormDict == nil {
		warnings.Addf(0, "failed to dereference AcroForm: %v", err)
		return fields
	}

	fieldsObj, found := acroFormDict.Find("Fields")
	if !found {
		return fields
	}

	fieldsArray, err := ctx.DereferenceArray(fieldsObj)
	if err != nil {
		warnings.Addf(0, "failed to dereference Fields array: %v", err)
		return fields
	}

	for i, fieldRef := range fieldsArray {
		fieldDict, err := ctx.DereferenceDict(fieldRef)
		if err != nil || fieldDict == nil {
			warnings.Addf(0, "failed to process field %d: %v", i, err)
			continue
		}

		field := RawField{
			Name:    fe.qualifiedName(ctx, fieldDict),
			RawType: fe.fieldType(ctx, fieldDict, 0),
			Page:    1,
		}

		rect, err := fe.parseRect(ctx, fieldDict)
		if err != nil {
			// Flat fields often omit Rect entirely; keep them anyway.
			rect = defaultFieldRect
		}
		field.Rect = rect

		field.Options = fe.fieldOptions(ctx, fieldDict, field.RawType)
		fields = append(fields, field)
	}

	return fields
}

// dereferenceName resolves a dictionary name entry, returning "" when absent
func (fe *FieldExtractor) dereferenceName(ctx *model.Context, dict types.Dict, key string) string {
	obj, found := dict.Find(key)
	if !found {
		return ""
	}
	name, err := ctx.DereferenceName(obj, model.V10, nil)
	if err != nil {
		return ""
	}
	return string(name)
}

// dereferenceString resolves a dictionary string entry, returning "" when absent
func (fe *FieldExtractor) dereferenceString(ctx *model.Context, dict types.Dict, key string) string {
	obj, found := dict.Find(key)
	if !found {
		return ""
	}
	str, err := ctx.DereferenceStringOrHexLiteral(obj, model.V10, nil)
	if err != nil {
		return ""
	}
	return str
}
