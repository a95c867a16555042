package diff

import (
	"math"
	"sort"

	"github.com/vmanzanal/AI4Devs-finalproject-sub000/internal/pdf"
)

// Compare performs the tolerance-aware structural comparison of two
// extracted field sets, keyed by field id.
//
// The engine is pure and stateless: it never fails on its own and does
// not mutate its inputs. A duplicate field id within one input set is a
// producer invariant violation that must be prevented upstream.
func Compare(source, target []pdf.FieldRecord, opts Options) *Result {
	sourceByID := indexByID(source)
	targetByID := indexByID(target)

	changes := make([]FieldChange, 0, len(sourceByID)+len(targetByID))
	metrics := GlobalMetrics{}

	for id, rec := range targetByID {
		if _, ok := sourceByID[id]; !ok {
			changes = append(changes, addedChange(rec))
			metrics.FieldsAdded++
		}
	}

	for id, rec := range sourceByID {
		if _, ok := targetByID[id]; !ok {
			changes = append(changes, removedChange(rec))
			metrics.FieldsRemoved++
		}
	}

	for id, src := range sourceByID {
		tgt, ok := targetByID[id]
		if !ok {
			continue
		}
		change := compareCommon(src, tgt, opts)
		if change.Status == StatusModified {
			metrics.FieldsModified++
		} else {
			metrics.FieldsUnchanged++
		}
		changes = append(changes, change)
	}

	metrics.ModificationPercentage = modificationPercentage(metrics, len(unionIDs(sourceByID, targetByID)))

	sort.Slice(changes, func(i, j int) bool {
		return changes[i].FieldID < changes[j].FieldID
	})

	return &Result{Metrics: metrics, Changes: changes}
}

// indexByID builds the id lookup map for one version's field set
func indexByID(records []pdf.FieldRecord) map[string]pdf.FieldRecord {
	byID := make(map[string]pdf.FieldRecord, len(records))
	for _, rec := range records {
		byID[rec.FieldID] = rec
	}
	return byID
}

// unionIDs collects the distinct field ids across both versions
func unionIDs(source, target map[string]pdf.FieldRecord) map[string]struct{} {
	union := make(map[string]struct{}, len(source)+len(target))
	for id := range source {
		union[id] = struct{}{}
	}
	for id := range target {
		union[id] = struct{}{}
	}
	return union
}

// addedChange builds the change record for a field only present in the
// target version: all source-side aspects are not applicable
func addedChange(rec pdf.FieldRecord) FieldChange {
	return FieldChange{
		FieldID:            rec.FieldID,
		Status:             StatusAdded,
		TargetPage:         intPtr(rec.Page),
		NearTextDiff:       AspectNotApplicable,
		TargetNearText:     strPtr(rec.NearText),
		ValueOptionsDiff:   AspectNotApplicable,
		TargetValueOptions: copyOptions(rec.ValueOptions),
		PositionDiff:       AspectNotApplicable,
		TargetPosition:     copyRect(rec.Position),
	}
}

// removedChange mirrors addedChange for fields only present in the source
func removedChange(rec pdf.FieldRecord) FieldChange {
	return FieldChange{
		FieldID:            rec.FieldID,
		Status:             StatusRemoved,
		SourcePage:         intPtr(rec.Page),
		NearTextDiff:       AspectNotApplicable,
		SourceNearText:     strPtr(rec.NearText),
		ValueOptionsDiff:   AspectNotApplicable,
		SourceValueOptions: copyOptions(rec.ValueOptions),
		PositionDiff:       AspectNotApplicable,
		SourcePosition:     copyRect(rec.Position),
	}
}

// compareCommon compares a field present in both versions aspect by
// aspect and derives the overall status
func compareCommon(src, tgt pdf.FieldRecord, opts Options) FieldChange {
	change := FieldChange{
		FieldID:            src.FieldID,
		SourcePage:         intPtr(src.Page),
		TargetPage:         intPtr(tgt.Page),
		PageChanged:        src.Page != tgt.Page,
		SourceNearText:     strPtr(src.NearText),
		TargetNearText:     strPtr(tgt.NearText),
		SourceValueOptions: copyOptions(src.ValueOptions),
		TargetValueOptions: copyOptions(tgt.ValueOptions),
		SourcePosition:     copyRect(src.Position),
		TargetPosition:     copyRect(tgt.Position),
	}

	if src.NearText == tgt.NearText {
		change.NearTextDiff = AspectEqual
	} else {
		change.NearTextDiff = AspectDifferent
	}

	change.ValueOptionsDiff = compareValueOptions(src.ValueOptions, tgt.ValueOptions)
	change.PositionDiff = comparePositions(src.Position, tgt.Position, opts.PositionTolerance)

	modified := change.PageChanged ||
		change.NearTextDiff == AspectDifferent ||
		change.ValueOptionsDiff == AspectDifferent ||
		change.PositionDiff == AspectDifferent
	if modified {
		change.Status = StatusModified
	} else {
		change.Status = StatusUnchanged
	}

	return change
}

// compareValueOptions applies order-independent set equality. Both sides
// empty means the aspect does not apply; one empty side is a difference.
func compareValueOptions(source, target []string) AspectStatus {
	if len(source) == 0 && len(target) == 0 {
		return AspectNotApplicable
	}
	if len(source) == 0 || len(target) == 0 {
		return AspectDifferent
	}

	sourceSet := make(map[string]struct{}, len(source))
	for _, opt := range source {
		sourceSet[opt] = struct{}{}
	}
	targetSet := make(map[string]struct{}, len(target))
	for _, opt := range target {
		targetSet[opt] = struct{}{}
	}

	if len(sourceSet) != len(targetSet) {
		return AspectDifferent
	}
	for opt := range sourceSet {
		if _, ok := targetSet[opt]; !ok {
			return AspectDifferent
		}
	}
	return AspectEqual
}

// comparePositions checks all four coordinates against the tolerance
func comparePositions(source, target *pdf.Rect, tolerance float64) AspectStatus {
	if source == nil && target == nil {
		return AspectNotApplicable
	}
	if source == nil || target == nil {
		return AspectDifferent
	}

	within := math.Abs(source.X0-target.X0) <= tolerance &&
		math.Abs(source.Y0-target.Y0) <= tolerance &&
		math.Abs(source.X1-target.X1) <= tolerance &&
		math.Abs(source.Y1-target.Y1) <= tolerance
	if within {
		return AspectEqual
	}
	return AspectDifferent
}

// modificationPercentage is the changed share of the id union, rounded
// to two decimals. An empty union yields 0.0.
func modificationPercentage(m GlobalMetrics, unionSize int) float64 {
	if unionSize == 0 {
		return 0.0
	}
	changed := float64(m.FieldsAdded + m.FieldsRemoved + m.FieldsModified)
	return math.Round(changed/float64(unionSize)*100*100) / 100
}

func intPtr(v int) *int {
	return &v
}

func strPtr(v string) *string {
	return &v
}

func copyOptions(options []string) []string {
	if options == nil {
		return nil
	}
	return append([]string(nil), options...)
}

func copyRect(r *pdf.Rect) *pdf.Rect {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}
