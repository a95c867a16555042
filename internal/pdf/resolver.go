package pdf

import (
	"math"
	"sort"
	"strings"
)

const (
	// DefaultVerticalWindow is how far (in PDF units) a label token's
	// vertical center may sit from the field's vertical center
	DefaultVerticalWindow = 20.0

	// DefaultMaxLabelWords bounds how far the leftward walk may wander
	DefaultMaxLabelWords = 5

	// verticalGapWeight penalizes vertical misalignment over horizontal
	// distance when scoring label candidates
	verticalGapWeight = 2.0
)

// OrderFields sorts raw fields into visual reading order: page ascending,
// then top-to-bottom (descending y0, since PDF space grows upward), then
// left-to-right. The sort is stable so equal keys keep extraction order.
func OrderFields(fields []RawField) []RawField {
	ordered := make([]RawField, len(fields))
	copy(ordered, fields)

	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Page != b.Page {
			return a.Page < b.Page
		}
		if a.Rect.Y0 != b.Rect.Y0 {
			return a.Rect.Y0 > b.Rect.Y0
		}
		return a.Rect.X0 < b.Rect.X0
	})

	return ordered
}

// LabelResolver infers each field's descriptive label from the
// surrounding text tokens with a positional leftward walk
type LabelResolver struct {
	VerticalWindow float64
	MaxWords       int
}

// NewLabelResolver creates a resolver with the default window and word cap
func NewLabelResolver() *LabelResolver {
	return &LabelResolver{
		VerticalWindow: DefaultVerticalWindow,
		MaxWords:       DefaultMaxLabelWords,
	}
}

// labelCandidate is one token in the walk's search space, carrying its
// sequence number for deterministic tie-breaking
type labelCandidate struct {
	token TextToken
	seq   int
}

// ResolveNearText reconstructs the label to the left of the field.
//
// Starting from the field's left edge, it repeatedly picks the token
// minimizing horizontalGap + 2*verticalGap among those strictly left of
// the moving cursor, collects its text, and moves the cursor to that
// token's left edge. The walk stops when no candidate remains, a word
// repeats, or the word cap is reached. Collected words are emitted in
// ascending x order joined by single spaces; no label yields "".
func (lr *LabelResolver) ResolveNearText(field Rect, page int, tokens []TextToken) string {
	fieldLeft := field.X0
	fieldCenter := field.CenterY()

	candidates := make([]labelCandidate, 0)
	for i, tok := range tokens {
		if tok.Page != page {
			continue
		}
		if tok.BBox.X1 >= fieldLeft {
			continue
		}
		if math.Abs(tok.BBox.CenterY()-fieldCenter) > lr.VerticalWindow {
			continue
		}
		candidates = append(candidates, labelCandidate{token: tok, seq: i})
	}

	collected := make([]TextToken, 0, lr.MaxWords)
	seen := make(map[string]bool, lr.MaxWords)
	cursor := fieldLeft

	for len(collected) < lr.MaxWords {
		best, found := lr.bestCandidate(candidates, cursor, fieldCenter)
		if !found {
			break
		}
		if seen[best.Text] {
			break
		}
		collected = append(collected, best)
		seen[best.Text] = true
		cursor = best.BBox.X0
	}

	if len(collected) == 0 {
		return ""
	}

	sort.SliceStable(collected, func(i, j int) bool {
		return collected[i].BBox.X0 < collected[j].BBox.X0
	})

	words := make([]string, len(collected))
	for i, tok := range collected {
		words[i] = tok.Text
	}
	return strings.Join(words, " ")
}

// bestCandidate scores every candidate strictly left of the cursor and
// returns the closest one. Equal scores resolve to the lower sequence
// number, keeping the walk deterministic.
func (lr *LabelResolver) bestCandidate(candidates []labelCandidate, cursor, fieldCenter float64) (TextToken, bool) {
	bestScore := math.Inf(1)
	bestSeq := -1
	var best TextToken
	found := false

	for _, c := range candidates {
		if c.token.BBox.X1 >= cursor {
			continue
		}
		horizontalGap := cursor - c.token.BBox.X1
		verticalGap := math.Abs(c.token.BBox.CenterY() - fieldCenter)
		score := horizontalGap + verticalGapWeight*verticalGap

		if score < bestScore || (score == bestScore && c.seq < bestSeq) {
			bestScore = score
			bestSeq = c.seq
			best = c.token
			found = true
		}
	}

	return best, found
}
