package loan

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Field selects one Record column by name.
type Field int

const (
	FieldBusinessName Field = iota
	FieldAddress
	FieldCity
	FieldState
	FieldZipCode
	FieldNAICSCode
	FieldNAICSLabel
	FieldBusinessType
	FieldRaceEthnicity
	FieldGender
	FieldVeteran
	FieldNonProfit
	FieldJobsRetained
	FieldDateApproved
	FieldLender
	FieldCongressionalDistrict
	FieldLoanRange
	FieldEstimatedValue

	fieldCount
)

var fieldNames = [fieldCount]string{
	"business_name",
	"address",
	"city",
	"state",
	"zip_code",
	"naics_code",
	"naics_label",
	"business_type",
	"race_ethnicity",
	"gender",
	"veteran",
	"non_profit",
	"jobs_retained",
	"date_approved",
	"lender",
	"congressional_district",
	"loan_range",
	"estimated_value",
}

// Aliases accepted by ParseField in addition to the canonical names.
var fieldAliases = map[string]Field{
	"name":        FieldBusinessName,
	"zip":         FieldZipCode,
	"naics":       FieldNAICSCode,
	"naics_human": FieldNAICSLabel,
	"nonprofit":   FieldNonProfit,
	"cd":          FieldCongressionalDistrict,
	"loan_value":  FieldEstimatedValue,
}

// Fields returns every field in column order.
func Fields() []Field {
	out := make([]Field, fieldCount)
	for i := range out {
		out[i] = Field(i)
	}
	return out
}

// String returns the canonical snake_case name.
func (f Field) String() string {
	if f < 0 || f >= fieldCount {
		return "unknown"
	}
	return fieldNames[f]
}

// ParseField resolves a field name such as "state" or "naics_human".
// Matching ignores case and treats '-' like '_'.
func ParseField(name string) (Field, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	for i, n := range fieldNames {
		if n == key {
			return Field(i), nil
		}
	}
	if f, ok := fieldAliases[key]; ok {
		return f, nil
	}
	return 0, eris.Errorf("loan: unknown field %q", name)
}

// Value returns the field of r as text. Unknown fields yield "".
func (f Field) Value(r Record) string {
	switch f {
	case FieldBusinessName:
		return r.BusinessName
	case FieldAddress:
		return r.Address
	case FieldCity:
		return r.City
	case FieldState:
		return r.State
	case FieldZipCode:
		return r.ZipCode
	case FieldNAICSCode:
		return r.NAICSCode
	case FieldNAICSLabel:
		return r.NAICSLabel
	case FieldBusinessType:
		return r.BusinessType
	case FieldRaceEthnicity:
		return r.RaceEthnicity
	case FieldGender:
		return r.Gender
	case FieldVeteran:
		return r.Veteran
	case FieldNonProfit:
		return r.NonProfit
	case FieldJobsRetained:
		return r.JobsRetained
	case FieldDateApproved:
		return r.DateApproved
	case FieldLender:
		return r.Lender
	case FieldCongressionalDistrict:
		return r.CongressionalDistrict
	case FieldLoanRange:
		return r.LoanRange
	case FieldEstimatedValue:
		return FormatEstimate(r.EstimatedValue)
	default:
		return ""
	}
}
