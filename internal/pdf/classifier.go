package pdf

import (
	"fmt"
	"regexp"
	"strings"
)

// binaryOptionPair is reported for button fields that declare no
// appearance states of their own
var binaryOptionPair = []string{"Yes", "No"}

// fieldIDPattern matches one letter followed by at least one digit,
// optionally followed by further alphanumerics, e.g. "A0101" or "c3b"
var fieldIDPattern = regexp.MustCompile(`(?i)[a-z][0-9]+[a-z0-9]*`)

// bracketIndexPattern matches XFA-style occurrence indices like "[0]"
var bracketIndexPattern = regexp.MustCompile(`\[[^\]]*\]`)

// ClassifyType maps a raw type marker and its raw options to the
// canonical field type. Unrecognized markers default to text.
func ClassifyType(rawType string, options []string) FieldType {
	switch rawType {
	case rawTypeText:
		return FieldTypeText
	case rawTypeButton:
		if len(options) > 0 {
			return FieldTypeRadioButton
		}
		return FieldTypeCheckbox
	case rawTypeChoice:
		return FieldTypeListbox
	default:
		return FieldTypeText
	}
}

// DeriveFieldID produces the stable field identifier.
//
// A named field is stripped of its path (last dot segment, occurrence
// indices removed); if the cleaned name contains a letter-digit code it
// is uppercased and used, otherwise the cleaned name stands verbatim.
// Nameless fields get a synthesized "field_{page}_{index}" id.
func DeriveFieldID(rawName string, page, index int) string {
	if rawName == "" {
		return fmt.Sprintf("field_%d_%03d", page, index)
	}

	clean := cleanRawName(rawName)
	if match := fieldIDPattern.FindString(clean); match != "" {
		return strings.ToUpper(match)
	}
	return clean
}

// cleanRawName strips the nested path and occurrence indices from an
// AcroForm field name: "form1[0].subform[0].A0101[0]" -> "A0101"
func cleanRawName(rawName string) string {
	segment := rawName
	if idx := strings.LastIndex(segment, "."); idx >= 0 {
		segment = segment[idx+1:]
	}
	return bracketIndexPattern.ReplaceAllString(segment, "")
}

// ResolveValueOptions determines the selectable options reported for a
// field. The result is either nil or non-empty, never an empty list.
func ResolveValueOptions(fieldType FieldType, rawOptions []string) []string {
	switch fieldType {
	case FieldTypeText:
		return nil
	case FieldTypeListbox, FieldTypeRadioButton:
		if len(rawOptions) == 0 {
			return nil
		}
		return append([]string(nil), rawOptions...)
	case FieldTypeCheckbox:
		if len(rawOptions) > 0 {
			return append([]string(nil), rawOptions...)
		}
		return append([]string(nil), binaryOptionPair...)
	default:
		return nil
	}
}
