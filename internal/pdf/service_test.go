package pdf

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pdferrors "github.com/vmanzanal/AI4Devs-finalproject-sub000/internal/pdf/errors"
)

func TestService_Analyze_SingleField(t *testing.T) {
	service := NewService(0, false)

	result, err := service.Analyze(context.Background(), singleWidgetPDF())
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, result.ID)
	assert.Equal(t, 1, result.PageCount)
	require.Len(t, result.Fields, 1)

	field := result.Fields[0]
	assert.Equal(t, "A0101", field.FieldID)
	assert.Equal(t, FieldTypeText, field.Type)
	assert.Equal(t, 1, field.Page)
	assert.Equal(t, 0, field.PageOrder)
	require.NotNil(t, field.Position)
	assert.Equal(t, Rect{X0: 100, Y0: 600, X1: 300, Y1: 620}, *field.Position)
	// No text layer in the fixture: the label is empty, never null.
	assert.Equal(t, "", field.NearText)
	assert.Nil(t, field.ValueOptions)
}

func TestService_Analyze_InvalidDocument(t *testing.T) {
	service := NewService(0, false)

	_, err := service.Analyze(context.Background(), []byte("garbage"))
	require.Error(t, err)
	assert.True(t, pdferrors.IsInvalidDocument(err))
}

func TestService_Analyze_SizeLimit(t *testing.T) {
	service := NewService(8, false)

	_, err := service.Analyze(context.Background(), singleWidgetPDF())
	require.Error(t, err)
	assert.True(t, pdferrors.IsInvalidDocument(err))
}

func TestService_AnalyzeFile_MissingFile(t *testing.T) {
	service := NewService(0, false)

	_, err := service.AnalyzeFile(context.Background(), "/nonexistent/file.pdf")
	require.Error(t, err)
	assert.True(t, pdferrors.IsInvalidDocument(err))
}

func TestService_BuildRecords_PageOrder(t *testing.T) {
	service := NewService(0, false)

	raw := []RawField{
		{Name: "A1", RawType: "Tx", Page: 1, Rect: Rect{X0: 50, Y0: 700, X1: 150, Y1: 720}},
		{Name: "A2", RawType: "Tx", Page: 1, Rect: Rect{X0: 50, Y0: 600, X1: 150, Y1: 620}},
		{Name: "B1", RawType: "Tx", Page: 2, Rect: Rect{X0: 50, Y0: 700, X1: 150, Y1: 720}},
		{Name: "B2", RawType: "Tx", Page: 2, Rect: Rect{X0: 50, Y0: 600, X1: 150, Y1: 620}},
	}

	records := service.buildRecords(raw, nil)
	require.Len(t, records, 4)

	// pageOrder restarts on every page and increases strictly within one.
	assert.Equal(t, 0, records[0].PageOrder)
	assert.Equal(t, 1, records[1].PageOrder)
	assert.Equal(t, 0, records[2].PageOrder)
	assert.Equal(t, 1, records[3].PageOrder)
}

func TestService_BuildRecords_UniqueFieldIDs(t *testing.T) {
	service := NewService(0, false)

	// Three radio widgets of the same group share their parent name.
	rect := Rect{X0: 50, Y0: 700, X1: 70, Y1: 720}
	raw := []RawField{
		{Name: "form1[0].G1[0]", RawType: "Btn", Page: 1, Rect: rect, Options: []string{"A", "B"}},
		{Name: "form1[0].G1[0]", RawType: "Btn", Page: 1, Rect: Rect{X0: 100, Y0: 700, X1: 120, Y1: 720}, Options: []string{"A", "B"}},
		{Name: "form1[0].G1[0]", RawType: "Btn", Page: 1, Rect: Rect{X0: 150, Y0: 700, X1: 170, Y1: 720}, Options: []string{"A", "B"}},
	}

	records := service.buildRecords(raw, nil)
	require.Len(t, records, 3)

	seen := make(map[string]bool)
	for _, rec := range records {
		assert.False(t, seen[rec.FieldID], "duplicate field id %s", rec.FieldID)
		seen[rec.FieldID] = true
	}
	assert.Equal(t, "G1", records[0].FieldID)
	assert.Equal(t, "G1_2", records[1].FieldID)
	assert.Equal(t, "G1_3", records[2].FieldID)
}

func TestService_BuildRecords_NearTextFromTokens(t *testing.T) {
	service := NewService(0, false)

	raw := []RawField{
		{Name: "A1", RawType: "Tx", Page: 1, Rect: Rect{X0: 200, Y0: 495, X1: 400, Y1: 515}},
	}
	tokens := []TextToken{
		{Text: "Nombre:", Page: 1, BBox: Rect{X0: 140, Y0: 500, X1: 190, Y1: 510}},
	}

	records := service.buildRecords(raw, tokens)
	require.Len(t, records, 1)
	assert.Equal(t, "Nombre:", records[0].NearText)
}

func TestService_BuildRecords_Classification(t *testing.T) {
	service := NewService(0, false)

	rect := Rect{X0: 50, Y0: 700, X1: 70, Y1: 720}
	raw := []RawField{
		{Name: "R1", RawType: "Btn", Page: 1, Rect: rect, Options: []string{"A", "B"}},
		{Name: "C1", RawType: "Btn", Page: 1, Rect: Rect{X0: 100, Y0: 700, X1: 120, Y1: 720}},
		{Name: "L1", RawType: "Ch", Page: 1, Rect: Rect{X0: 150, Y0: 700, X1: 250, Y1: 720}, Options: []string{"x", "y"}},
	}

	records := service.buildRecords(raw, nil)
	require.Len(t, records, 3)

	assert.Equal(t, FieldTypeRadioButton, records[0].Type)
	assert.Equal(t, []string{"A", "B"}, records[0].ValueOptions)

	assert.Equal(t, FieldTypeCheckbox, records[1].Type)
	assert.Equal(t, []string{"Yes", "No"}, records[1].ValueOptions)

	assert.Equal(t, FieldTypeListbox, records[2].Type)
	assert.Equal(t, []string{"x", "y"}, records[2].ValueOptions)
}
