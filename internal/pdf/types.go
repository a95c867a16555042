package pdf

import "github.com/google/uuid"

// FieldType is the canonical interactive field type
type FieldType string

const (
	FieldTypeText        FieldType = "text"
	FieldTypeRadioButton FieldType = "radiobutton"
	FieldTypeCheckbox    FieldType = "checkbox"
	FieldTypeListbox     FieldType = "listbox"
)

// Rect is a rectangle in PDF user space, origin at the bottom-left corner
type Rect struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Width returns the horizontal extent of the rectangle
func (r Rect) Width() float64 {
	return r.X1 - r.X0
}

// Height returns the vertical extent of the rectangle
func (r Rect) Height() float64 {
	return r.Y1 - r.Y0
}

// CenterY returns the vertical midpoint of the rectangle
func (r Rect) CenterY() float64 {
	return (r.Y0 + r.Y1) / 2
}

// RawField is an unordered field descriptor as it comes out of the
// annotation walk, before ordering, labeling and classification.
// The name may be nested XFA-style, e.g. "form1[0].subform[0].A0101[0]".
type RawField struct {
	Name    string
	RawType string
	Page    int
	Rect    Rect
	Options []string
}

// TextToken is a positioned word extracted from a page's text layer
type TextToken struct {
	Text string `json:"text"`
	Page int    `json:"page"`
	BBox Rect   `json:"bbox"`
}

// FieldRecord is the canonical, durable output of one document analysis.
// FieldID is unique within one version; PageOrder follows the visual
// reading order within each page.
type FieldRecord struct {
	FieldID      string    `json:"field_id"`
	Type         FieldType `json:"type"`
	Page         int       `json:"page"`
	PageOrder    int       `json:"page_order"`
	NearText     string    `json:"near_text"`
	ValueOptions []string  `json:"value_options,omitempty"`
	Position     *Rect     `json:"position,omitempty"`
}

// AnalysisResult is the output of analyzing one document version.
// The ID identifies the analysis for the external persistence collaborator.
type AnalysisResult struct {
	ID        uuid.UUID     `json:"id"`
	PageCount int           `json:"page_count"`
	Fields    []FieldRecord `json:"fields"`
	Warnings  []string      `json:"warnings,omitempty"`
}
