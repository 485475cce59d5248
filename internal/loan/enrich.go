package loan

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/ppp-cli/internal/naics"
)

// ErrMalformedRow marks a raw row with fewer than RawFields columns.
var ErrMalformedRow = eris.New("loan: malformed row")

// RowError reports a raw row that could not be enriched.
type RowError struct {
	Row    int   `json:"row"` // 1-based position in the input
	Fields int   `json:"fields"`
	Err    error `json:"-"`
}

func (e RowError) Error() string { return e.Err.Error() }

func (e RowError) Unwrap() error { return e.Err }

// Result is the outcome of enriching a batch of raw rows.
type Result struct {
	Records      []Record
	Skipped      []RowError
	LabelMisses  int
	UnknownBands int
}

// Enrich converts one raw FOIA row into a Record. Columns past RawFields are
// ignored; a shorter row returns an error wrapping ErrMalformedRow.
func Enrich(row []string, table *naics.Table) (Record, error) {
	rec, _, err := enrich(row, table)
	return rec, err
}

// EnrichAll enriches every row. Malformed rows are collected in
// Result.Skipped and do not stop the batch.
func EnrichAll(rows [][]string, table *naics.Table) Result {
	res := Result{Records: make([]Record, 0, len(rows))}
	for i, row := range rows {
		rec, labeled, err := enrich(row, table)
		if err != nil {
			res.Skipped = append(res.Skipped, RowError{Row: i + 1, Fields: len(row), Err: err})
			continue
		}
		if !labeled {
			res.LabelMisses++
		}
		if !rec.HasEstimate {
			res.UnknownBands++
		}
		res.Records = append(res.Records, rec)
	}
	return res
}

func enrich(row []string, table *naics.Table) (Record, bool, error) {
	if len(row) < RawFields {
		return Record{}, false, eris.Wrapf(ErrMalformedRow, "got %d fields, want %d", len(row), RawFields)
	}

	label := table.Label(row[colNAICSCode])
	labeled := label != UnknownLabel
	estimate, hasEstimate := LookupBand(row[colLoanRange])

	return Record{
		BusinessName:          row[colBusinessName],
		Address:               row[colAddress],
		City:                  row[colCity],
		State:                 row[colState],
		ZipCode:               row[colZip],
		NAICSCode:             row[colNAICSCode],
		NAICSLabel:            label,
		BusinessType:          row[colBusinessType],
		RaceEthnicity:         row[colRaceEthnicity],
		Gender:                row[colGender],
		Veteran:               row[colVeteran],
		NonProfit:             row[colNonProfit],
		JobsRetained:          row[colJobsRetained],
		DateApproved:          row[colDateApproved],
		Lender:                row[colLender],
		CongressionalDistrict: row[colCD],
		LoanRange:             row[colLoanRange],
		EstimatedValue:        estimate,
		HasEstimate:           hasEstimate,
	}, labeled, nil
}
