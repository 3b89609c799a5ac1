package c2m2

import "strings"

// SheetName is the worksheet the loader reads and the serializer writes.
const SheetName = "C2M2 V2.1"

// Download metadata shared by every xlsx response.
const (
	ContentType      = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	FilteredFileName = "filtered_c2m2_data.xlsx"
	TemplateFileName = "C2M2_Sample_Template.xlsx"
)

// Column headers of the C2M2 practice sheet.
const (
	ColDomain       = "Domain"
	ColModule       = "Module"
	ColMIL          = "MIL"
	ColObjective    = "Objective"
	ColPracticeText = "Practice Text"
	ColArtifacts    = "Artifacts"
	ColCSF11        = "CSF V1.1 Mapping"
	ColCSF20        = "CSF V2.0 Mapping"
	ColHelpText     = "Help Text"
)

// FieldSpec describes one expected column of the practice sheet.
type FieldSpec struct {
	Name     string // Header text, matched exactly
	Required bool   // Load fails when a required column is absent
}

// FieldSpecs lists the practice sheet columns in template order.
// Only the columns filtering reads are required; the rest are carried
// through untouched when present.
var FieldSpecs = []FieldSpec{
	{Name: ColDomain, Required: true},
	{Name: ColModule, Required: true},
	{Name: ColMIL, Required: true},
	{Name: ColObjective, Required: true},
	{Name: ColPracticeText, Required: true},
	{Name: ColArtifacts},
	{Name: ColCSF11},
	{Name: ColCSF20},
	{Name: ColHelpText},
}

// Columns returns the names of all FieldSpecs in template order.
func Columns() []string {
	names := make([]string, len(FieldSpecs))
	for i, spec := range FieldSpecs {
		names[i] = spec.Name
	}
	return names
}

// HeaderIndex maps a header name to its column position.
type HeaderIndex map[string]int

// MakeHeaderIndex indexes headers by exact name. The first occurrence wins.
func MakeHeaderIndex(headers []string) HeaderIndex {
	idx := make(HeaderIndex, len(headers))
	for i, h := range headers {
		if _, seen := idx[h]; !seen {
			idx[h] = i
		}
	}
	return idx
}

// ValidateHeaders checks that every required spec is present in headers.
// It returns the header index, or a *MissingColumnsError naming every
// absent column in spec order.
func ValidateHeaders(headers []string, specs []FieldSpec) (HeaderIndex, error) {
	idx := MakeHeaderIndex(headers)

	var missing []string
	for _, spec := range specs {
		if !spec.Required {
			continue
		}
		if _, ok := idx[spec.Name]; !ok {
			missing = append(missing, spec.Name)
		}
	}

	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing, Found: headers}
	}
	return idx, nil
}

// normalizeHeader trims surrounding whitespace from a header cell.
func normalizeHeader(s string) string {
	return strings.TrimSpace(s)
}
