package diff

import "github.com/vmanzanal/AI4Devs-finalproject-sub000/internal/pdf"

// ChangeStatus classifies a field across two document versions
type ChangeStatus string

const (
	StatusAdded     ChangeStatus = "ADDED"
	StatusRemoved   ChangeStatus = "REMOVED"
	StatusModified  ChangeStatus = "MODIFIED"
	StatusUnchanged ChangeStatus = "UNCHANGED"
)

// AspectStatus is the per-aspect comparison verdict for a common field
type AspectStatus string

const (
	AspectEqual         AspectStatus = "EQUAL"
	AspectDifferent     AspectStatus = "DIFFERENT"
	AspectNotApplicable AspectStatus = "NOT_APPLICABLE"
)

// FieldChange describes how one field differs between the source and
// target version. Source-side members are nil for added fields, target-
// side members are nil for removed fields.
type FieldChange struct {
	FieldID            string       `json:"field_id"`
	Status             ChangeStatus `json:"status"`
	SourcePage         *int         `json:"source_page,omitempty"`
	TargetPage         *int         `json:"target_page,omitempty"`
	PageChanged        bool         `json:"page_changed"`
	NearTextDiff       AspectStatus `json:"near_text_diff"`
	SourceNearText     *string      `json:"source_near_text,omitempty"`
	TargetNearText     *string      `json:"target_near_text,omitempty"`
	ValueOptionsDiff   AspectStatus `json:"value_options_diff"`
	SourceValueOptions []string     `json:"source_value_options,omitempty"`
	TargetValueOptions []string     `json:"target_value_options,omitempty"`
	PositionDiff       AspectStatus `json:"position_diff"`
	SourcePosition     *pdf.Rect    `json:"source_position,omitempty"`
	TargetPosition     *pdf.Rect    `json:"target_position,omitempty"`
}

// GlobalMetrics aggregates one comparison run
type GlobalMetrics struct {
	FieldsAdded            int     `json:"fields_added"`
	FieldsRemoved          int     `json:"fields_removed"`
	FieldsModified         int     `json:"fields_modified"`
	FieldsUnchanged        int     `json:"fields_unchanged"`
	ModificationPercentage float64 `json:"modification_percentage"`
}

// Result is the full output of one diff invocation
type Result struct {
	Metrics GlobalMetrics `json:"metrics"`
	Changes []FieldChange `json:"changes"`
}

// Options configures comparison behavior
type Options struct {
	// PositionTolerance absorbs rendering jitter across document
	// regenerations: coordinates within this distance compare equal
	PositionTolerance float64
}

// DefaultOptions returns the default comparison options
func DefaultOptions() Options {
	return Options{PositionTolerance: 5.0}
}
