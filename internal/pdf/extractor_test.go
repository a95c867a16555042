package pdf

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pdferrors "github.com/vmanzanal/AI4Devs-finalproject-sub000/internal/pdf/errors"
)

// buildTestPDF assembles a minimal single-xref PDF from numbered object
// bodies. Offsets are computed while writing, so the xref table is
// correct by construction.
func buildTestPDF(objects ...string) []byte {
	var buf strings.Builder
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects))
	for i, body := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(objects)+1, xrefOffset)

	return []byte(buf.String())
}

// singleWidgetPDF has one text widget annotation on one page
func singleWidgetPDF() []byte {
	return buildTestPDF(
		"<< /Type /Catalog /Pages 2 0 R /AcroForm << /Fields [4 0 R] >> >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Annots [4 0 R] >>",
		"<< /Type /Annot /Subtype /Widget /FT /Tx /T (A0101) /Rect [100 600 300 620] >>",
	)
}

func TestFieldExtractor_Extract_SingleTextWidget(t *testing.T) {
	extractor := NewFieldExtractor(false)

	fields, pageCount, warnings, err := extractor.Extract(singleWidgetPDF())
	require.NoError(t, err)

	assert.Equal(t, 1, pageCount)
	assert.Equal(t, 0, warnings.Count())
	require.Len(t, fields, 1)

	field := fields[0]
	assert.Equal(t, "A0101", field.Name)
	assert.Equal(t, "Tx", field.RawType)
	assert.Equal(t, 1, field.Page)
	assert.Equal(t, Rect{X0: 100, Y0: 600, X1: 300, Y1: 620}, field.Rect)
	assert.Nil(t, field.Options)
}

func TestFieldExtractor_Extract_NestedFieldName(t *testing.T) {
	data := buildTestPDF(
		"<< /Type /Catalog /Pages 2 0 R /AcroForm << /Fields [4 0 R] >> >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Annots [5 0 R] >>",
		"<< /T (form1[0]) /Kids [5 0 R] >>",
		"<< /Type /Annot /Subtype /Widget /FT /Tx /T (A0101[0]) /Parent 4 0 R /Rect [100 600 300 620] >>",
	)

	extractor := NewFieldExtractor(false)
	fields, _, _, err := extractor.Extract(data)
	require.NoError(t, err)
	require.Len(t, fields, 1)

	assert.Equal(t, "form1[0].A0101[0]", fields[0].Name)
}

func TestFieldExtractor_Extract_InheritedFieldType(t *testing.T) {
	data := buildTestPDF(
		"<< /Type /Catalog /Pages 2 0 R /AcroForm << /Fields [4 0 R] >> >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Annots [5 0 R] >>",
		"<< /T (group) /FT /Btn /Opt [(A) (B)] /Kids [5 0 R] >>",
		"<< /Type /Annot /Subtype /Widget /Parent 4 0 R /Rect [100 600 120 620] >>",
	)

	extractor := NewFieldExtractor(false)
	fields, _, _, err := extractor.Extract(data)
	require.NoError(t, err)
	require.Len(t, fields, 1)

	assert.Equal(t, "Btn", fields[0].RawType)
	assert.Equal(t, []string{"A", "B"}, fields[0].Options)
}

func TestFieldExtractor_Extract_ButtonAppearanceStates(t *testing.T) {
	data := buildTestPDF(
		"<< /Type /Catalog /Pages 2 0 R /AcroForm << /Fields [4 0 R] >> >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Annots [4 0 R] >>",
		"<< /Type /Annot /Subtype /Widget /FT /Btn /T (check1) /Rect [100 600 120 620] "+
			"/AP << /N << /Si 5 0 R /No 5 0 R /Off 5 0 R >> >> >>",
		"<< /Type /XObject /Subtype /Form /BBox [0 0 20 20] >>",
	)

	extractor := NewFieldExtractor(false)
	fields, _, _, err := extractor.Extract(data)
	require.NoError(t, err)
	require.Len(t, fields, 1)

	// "Off" is not a selectable state; remaining keys come out sorted.
	assert.Equal(t, []string{"No", "Si"}, fields[0].Options)
}

func TestFieldExtractor_Extract_ChoiceOptions(t *testing.T) {
	data := buildTestPDF(
		"<< /Type /Catalog /Pages 2 0 R /AcroForm << /Fields [4 0 R] >> >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Annots [4 0 R] >>",
		"<< /Type /Annot /Subtype /Widget /FT /Ch /T (provincia) /Rect [100 500 300 520] "+
			"/Opt [(Madrid) (Barcelona) (Sevilla)] >>",
	)

	extractor := NewFieldExtractor(false)
	fields, _, _, err := extractor.Extract(data)
	require.NoError(t, err)
	require.Len(t, fields, 1)

	assert.Equal(t, "Ch", fields[0].RawType)
	assert.Equal(t, []string{"Madrid", "Barcelona", "Sevilla"}, fields[0].Options)
}

func TestFieldExtractor_Extract_FlatScanFallback(t *testing.T) {
	// Fields only registered in the AcroForm dictionary, no page-level
	// widget annotations. The flat scan synthesizes the missing Rect.
	data := buildTestPDF(
		"<< /Type /Catalog /Pages 2 0 R /AcroForm << /Fields [4 0 R] >> >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>",
		"<< /FT /Tx /T (nombre) >>",
	)

	extractor := NewFieldExtractor(false)
	fields, _, _, err := extractor.Extract(data)
	require.NoError(t, err)
	require.Len(t, fields, 1)

	assert.Equal(t, "nombre", fields[0].Name)
	assert.Equal(t, 1, fields[0].Page)
	assert.Equal(t, defaultFieldRect, fields[0].Rect)
}

func TestFieldExtractor_Extract_NoFieldsFound(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{
			name: "no annotations at all",
			data: buildTestPDF(
				"<< /Type /Catalog /Pages 2 0 R >>",
				"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
				"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>",
			),
		},
		{
			name: "annotations but none of widget subtype",
			data: buildTestPDF(
				"<< /Type /Catalog /Pages 2 0 R >>",
				"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
				"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Annots [4 0 R] >>",
				"<< /Type /Annot /Subtype /Link /Rect [0 0 10 10] >>",
			),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extractor := NewFieldExtractor(false)
			_, _, _, err := extractor.Extract(tt.data)
			require.Error(t, err)
			assert.True(t, pdferrors.IsNoFieldsFound(err))
			assert.False(t, pdferrors.IsInvalidDocument(err))
		})
	}
}

func TestFieldExtractor_Extract_InvalidDocument(t *testing.T) {
	extractor := NewFieldExtractor(false)

	_, _, _, err := extractor.Extract([]byte("this is not a pdf"))
	require.Error(t, err)
	assert.True(t, pdferrors.IsInvalidDocument(err))
	assert.False(t, pdferrors.IsNoFieldsFound(err))
}

func TestFieldExtractor_Extract_MultipleWidgetsUnordered(t *testing.T) {
	data := buildTestPDF(
		"<< /Type /Catalog /Pages 2 0 R /AcroForm << /Fields [4 0 R 5 0 R] >> >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Annots [4 0 R 5 0 R] >>",
		"<< /Type /Annot /Subtype /Widget /FT /Tx /T (B2) /Rect [100 500 300 520] >>",
		"<< /Type /Annot /Subtype /Widget /FT /Tx /T (A1) /Rect [100 700 300 720] >>",
	)

	extractor := NewFieldExtractor(false)
	fields, _, _, err := extractor.Extract(data)
	require.NoError(t, err)
	require.Len(t, fields, 2)

	// Extraction preserves annotation order; ordering happens later.
	assert.Equal(t, "B2", fields[0].Name)
	assert.Equal(t, "A1", fields[1].Name)
}
