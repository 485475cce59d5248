package export

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/ppp-cli/internal/loan"
)

const sheetName = "query_results"

// WriteXLSX writes records to a single-sheet workbook. The estimate column is
// numeric; unrecognized loan ranges leave it blank.
func WriteXLSX(path string, records []loan.Record) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(sheetName)
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, h := range loan.Header {
		header.AddCell().SetString(h)
	}

	for _, r := range records {
		row := sheet.AddRow()
		vals := r.Values()
		for _, v := range vals[:len(vals)-1] {
			row.AddCell().SetString(v)
		}
		cell := row.AddCell()
		if r.HasEstimate {
			cell.SetFloat(r.EstimatedValue)
		}
	}

	if err := file.Save(path); err != nil {
		return eris.Wrapf(err, "export: save %s", path)
	}
	return nil
}
