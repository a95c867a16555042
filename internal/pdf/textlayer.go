package pdf

import (
	"bytes"
	"math"
	"strings"

	ledongthuc "github.com/ledongthuc/pdf"

	pdferrors "github.com/vmanzanal/AI4Devs-finalproject-sub000/internal/pdf/errors"
)

const (
	// defaultTextHeight approximates glyph height when the font size is
	// missing from the content stream
	defaultTextHeight = 12.0

	// wordGapFactor times the font size is the horizontal gap that
	// separates two words on the same line
	wordGapFactor = 0.5

	// lineEpsilon is the vertical play within which two fragments are
	// considered to sit on the same line
	lineEpsilon = 2.0
)

// TextExtractor turns raw PDF content into positioned word tokens
type TextExtractor struct {
	debugMode bool
}

// NewTextExtractor creates a new text layer extractor
func NewTextExtractor(debugMode bool) *TextExtractor {
	return &TextExtractor{debugMode: debugMode}
}

// Extract returns the word tokens of every page. A failing page
// contributes zero tokens and a warning; only an unparseable stream is
// fatal.
func (te *TextExtractor) Extract(data []byte) ([]TextToken, *pdferrors.WarningList, error) {
	warnings := pdferrors.NewWarningList()

	reader, err := ledongthuc.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, warnings, pdferrors.NewInvalidDocument("failed to open PDF text layer", err)
	}

	tokens := make([]TextToken, 0)
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		pageTokens, err := te.extractPage(reader, pageNum)
		if err != nil {
			warnings.Addf(pageNum, "text extraction failed: %v", err)
			continue
		}
		tokens = append(tokens, pageTokens...)
	}

	return tokens, warnings, nil
}

// extractPage tokenizes one page. The content walk is guarded against
// panics inside the PDF library on malformed content streams.
func (te *TextExtractor) extractPage(reader *ledongthuc.Reader, pageNum int) (tokens []TextToken, err error) {
	defer func() {
		if r := recover(); r != nil {
			tokens = nil
			err = pdferrors.NewExtractionWarning("content stream walk panicked", nil).WithPage(pageNum)
		}
	}()

	page := reader.Page(pageNum)
	if page.V.IsNull() {
		return nil, nil
	}

	fragments := page.Content().Text
	if len(fragments) == 0 {
		return nil, nil
	}

	// Some generators emit all glyphs with zero vertical coordinates.
	// Word assembly by line is meaningless there; fall back to merging
	// consecutive characters in stream order.
	if degenerateGeometry(fragments) {
		return te.mergeCharacters(fragments, pageNum), nil
	}

	return te.assembleWords(fragments, pageNum), nil
}

// degenerateGeometry reports whether every fragment sits at Y == 0
func degenerateGeometry(fragments []ledongthuc.Text) bool {
	for _, f := range fragments {
		if f.Y != 0 {
			return false
		}
	}
	return true
}

// assembleWords groups positioned fragments into word tokens. A word
// breaks on whitespace, on a line change, or on a horizontal gap wider
// than half the font size.
func (te *TextExtractor) assembleWords(fragments []ledongthuc.Text, pageNum int) []TextToken {
	tokens := make([]TextToken, 0)

	var word strings.Builder
	var box Rect
	var prevEnd, prevY float64
	open := false

	flush := func() {
		if open && word.Len() > 0 {
			tokens = append(tokens, TextToken{Text: word.String(), Page: pageNum, BBox: box})
		}
		word.Reset()
		open = false
	}

	for _, f := range fragments {
		if strings.TrimSpace(f.S) == "" {
			flush()
			continue
		}

		fbox := fragmentBox(f)
		if open {
			sameLine := math.Abs(f.Y-prevY) <= lineEpsilon
			gap := f.X - prevEnd
			if !sameLine || gap > wordGapLimit(f.FontSize) {
				flush()
			}
		}

		if !open {
			box = fbox
			open = true
		} else {
			box = unionRect(box, fbox)
		}
		word.WriteString(f.S)
		prevEnd = f.X + f.W
		prevY = f.Y
	}
	flush()

	return tokens
}

// mergeCharacters is the degenerate-geometry fallback: consecutive
// non-whitespace characters form a word whose box is the union of the
// contained character boxes.
func (te *TextExtractor) mergeCharacters(fragments []ledongthuc.Text, pageNum int) []TextToken {
	tokens := make([]TextToken, 0)

	var word strings.Builder
	var box Rect
	open := false

	flush := func() {
		if open && word.Len() > 0 {
			tokens = append(tokens, TextToken{Text: word.String(), Page: pageNum, BBox: box})
		}
		word.Reset()
		open = false
	}

	for _, f := range fragments {
		if strings.TrimSpace(f.S) == "" {
			flush()
			continue
		}
		fbox := fragmentBox(f)
		if !open {
			box = fbox
			open = true
		} else {
			box = unionRect(box, fbox)
		}
		word.WriteString(f.S)
	}
	flush()

	return tokens
}

// fragmentBox derives a bounding box from a text fragment, using the
// font size as height approximation
func fragmentBox(f ledongthuc.Text) Rect {
	height := f.FontSize
	if height == 0 {
		height = defaultTextHeight
	}
	return Rect{X0: f.X, Y0: f.Y, X1: f.X + f.W, Y1: f.Y + height}
}

// wordGapLimit returns the horizontal gap beyond which two fragments
// belong to different words
func wordGapLimit(fontSize float64) float64 {
	if fontSize <= 0 {
		fontSize = defaultTextHeight
	}
	return fontSize * wordGapFactor
}

// unionRect expands a to contain b
func unionRect(a, b Rect) Rect {
	return Rect{
		X0: math.Min(a.X0, b.X0),
		Y0: math.Min(a.Y0, b.Y0),
		X1: math.Max(a.X1, b.X1),
		Y1: math.Max(a.Y1, b.Y1),
	}
}
