package loan

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/ppp-cli/internal/naics"
)

func testTable() *naics.Table {
	return naics.Build([][]string{
		{"541511", "Custom Computer Programming Services"},
		{"722511", "Full-Service Restaurants"},
		{"000000", ""},
	})
}

func rawRow(band, name, city, state, code string) []string {
	return []string{
		band, name, "350 5th Ave", city, state, "10118", code, "Corporation",
		"Unanswered", "Unanswered", "Unanswered", "", "25", "04/10/2020",
		"JPMorgan Chase Bank, National Association", "NY-12",
	}
}

func TestEnrich_PassthroughFields(t *testing.T) {
	row := rawRow("a $150,000-350,000", "EMPIRE WIDGETS LLC", "NEW YORK", "NY", "541511")

	rec, err := Enrich(row, testTable())
	require.NoError(t, err)

	assert.Equal(t, row[1], rec.BusinessName)
	assert.Equal(t, row[2], rec.Address)
	assert.Equal(t, row[3], rec.City)
	assert.Equal(t, row[4], rec.State)
	assert.Equal(t, row[5], rec.ZipCode)
	assert.Equal(t, row[6], rec.NAICSCode)
	assert.Equal(t, row[7], rec.BusinessType)
	assert.Equal(t, row[8], rec.RaceEthnicity)
	assert.Equal(t, row[9], rec.Gender)
	assert.Equal(t, row[10], rec.Veteran)
	assert.Equal(t, row[11], rec.NonProfit)
	assert.Equal(t, row[12], rec.JobsRetained)
	assert.Equal(t, row[13], rec.DateApproved)
	assert.Equal(t, row[14], rec.Lender)
	assert.Equal(t, row[15], rec.CongressionalDistrict)
	assert.Equal(t, row[0], rec.LoanRange)

	assert.Equal(t, "Custom Computer Programming Services", rec.NAICSLabel)
	assert.Equal(t, 250000.00, rec.EstimatedValue)
	assert.True(t, rec.HasEstimate)
}

func TestEnrich_LookupMiss(t *testing.T) {
	rec, err := Enrich(rawRow("c $1-2 million", "X", "Y", "NJ", "999999"), testTable())
	require.NoError(t, err)
	assert.Equal(t, UnknownLabel, rec.NAICSLabel)
	assert.Equal(t, 1500000.00, rec.EstimatedValue)
}

func TestEnrich_EmptyCodeAndEmptyTitle(t *testing.T) {
	rec, err := Enrich(rawRow("", "X", "Y", "NJ", ""), testTable())
	require.NoError(t, err)
	assert.Equal(t, UnknownLabel, rec.NAICSLabel)

	rec, err = Enrich(rawRow("", "X", "Y", "NJ", "000000"), testTable())
	require.NoError(t, err)
	assert.Equal(t, UnknownLabel, rec.NAICSLabel)
}

func TestEnrich_NilTable(t *testing.T) {
	rec, err := Enrich(rawRow("a $150,000-350,000", "X", "Y", "NJ", "541511"), nil)
	require.NoError(t, err)
	assert.Equal(t, UnknownLabel, rec.NAICSLabel)
}

func TestEnrich_UnrecognizedBand(t *testing.T) {
	rec, err := Enrich(rawRow("LoanRange", "X", "Y", "NJ", "541511"), testTable())
	require.NoError(t, err)
	assert.Equal(t, 0.0, rec.EstimatedValue)
	assert.False(t, rec.HasEstimate)
}

func TestEnrich_ExtraColumnsIgnored(t *testing.T) {
	row := append(rawRow("e $5-10 million", "X", "Y", "NJ", "541511"), "extra", "more")
	rec, err := Enrich(row, testTable())
	require.NoError(t, err)
	assert.Equal(t, "NY-12", rec.CongressionalDistrict)
	assert.Equal(t, 7500000.00, rec.EstimatedValue)
}

func TestEnrich_MalformedRow(t *testing.T) {
	_, err := Enrich(make([]string, 12), testTable())
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrMalformedRow))
	assert.Contains(t, err.Error(), "got 12 fields")
}

func TestEnrichAll_EndToEnd(t *testing.T) {
	rows := [][]string{
		rawRow("a $150,000-350,000", "MANHATTAN DELI INC", "NEW YORK", "NY", "722511"),
		rawRow("c $1-2 million", "MYSTERY CO", "HARTFORD", "CT", "123456"),
		make([]string, 12),
	}

	res := EnrichAll(rows, testTable())

	require.Len(t, res.Records, 2)
	assert.Equal(t, 250000.00, res.Records[0].EstimatedValue)
	assert.Equal(t, "Full-Service Restaurants", res.Records[0].NAICSLabel)
	assert.Equal(t, 1500000.00, res.Records[1].EstimatedValue)
	assert.Equal(t, UnknownLabel, res.Records[1].NAICSLabel)

	require.Len(t, res.Skipped, 1)
	assert.Equal(t, 3, res.Skipped[0].Row)
	assert.Equal(t, 12, res.Skipped[0].Fields)
	assert.True(t, eris.Is(res.Skipped[0], ErrMalformedRow))

	assert.Equal(t, 1, res.LabelMisses)
	assert.Equal(t, 0, res.UnknownBands)
}

func TestEnrichAll_Empty(t *testing.T) {
	res := EnrichAll(nil, testTable())
	assert.Empty(t, res.Records)
	assert.Empty(t, res.Skipped)
}
