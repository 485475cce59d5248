// Package loan turns raw PPP FOIA disclosure rows into enriched records.
package loan

import (
	"strconv"

	"github.com/sells-group/ppp-cli/internal/naics"
)

// RawFields is the number of positional columns in a PPP FOIA row.
const RawFields = 16

// Raw column positions in the FOIA "150k plus" file.
const (
	colLoanRange = iota
	colBusinessName
	colAddress
	colCity
	colState
	colZip
	colNAICSCode
	colBusinessType
	colRaceEthnicity
	colGender
	colVeteran
	colNonProfit
	colJobsRetained
	colDateApproved
	colLender
	colCD
)

// UnknownLabel is the NAICS label used when a code has no title.
const UnknownLabel = naics.UnknownLabel

// Header names the exported columns, in Record.Values order.
var Header = []string{
	"BusinessName", "Address", "City", "State", "Zip Code", "NAICSCode", "NAICSHuman",
	"BusinessType", "RaceEthnicity", "Gender", "veteran", "NonProfit", "JobsRetained",
	"DateApproved", "Lender", "CD", "LoanRange", "average_loan_range",
}

// Record is one enriched PPP loan disclosure. Everything except NAICSLabel,
// EstimatedValue and HasEstimate is copied verbatim from the raw row.
type Record struct {
	BusinessName          string  `json:"business_name"`
	Address               string  `json:"address"`
	City                  string  `json:"city"`
	State                 string  `json:"state"`
	ZipCode               string  `json:"zip_code"`
	NAICSCode             string  `json:"naics_code"`
	NAICSLabel            string  `json:"naics_label"`
	BusinessType          string  `json:"business_type"`
	RaceEthnicity         string  `json:"race_ethnicity"`
	Gender                string  `json:"gender"`
	Veteran               string  `json:"veteran"`
	NonProfit             string  `json:"non_profit"`
	JobsRetained          string  `json:"jobs_retained"`
	DateApproved          string  `json:"date_approved"`
	Lender                string  `json:"lender"`
	CongressionalDistrict string  `json:"congressional_district"`
	LoanRange             string  `json:"loan_range"`
	EstimatedValue        float64 `json:"estimated_value"`
	HasEstimate           bool    `json:"has_estimate"`
}

// Values returns the record's columns as text in Header order.
func (r Record) Values() []string {
	out := make([]string, 0, len(Header))
	for _, f := range Fields() {
		out = append(out, f.Value(r))
	}
	return out
}

// FormatEstimate renders an estimate with one decimal place.
func FormatEstimate(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
