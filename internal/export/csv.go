package export

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/ppp-cli/internal/loan"
)

// WriteCSV writes records with a header row, every field quoted.
func WriteCSV(path string, records []loan.Record) error {
	file, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer file.Close() //nolint:errcheck

	if err := EncodeCSV(file, records); err != nil {
		return err
	}
	return eris.Wrapf(file.Close(), "export: close %s", path)
}

// EncodeCSV writes the quote-all CSV form of records to w.
func EncodeCSV(w io.Writer, records []loan.Record) error {
	bw := bufio.NewWriter(w)
	if err := writeQuotedRow(bw, loan.Header); err != nil {
		return err
	}
	for _, r := range records {
		vals := r.Values()
		vals[len(vals)-1] = estimateCell(r)
		if err := writeQuotedRow(bw, vals); err != nil {
			return err
		}
	}
	return eris.Wrap(bw.Flush(), "export: flush csv")
}

func writeQuotedRow(w *bufio.Writer, fields []string) error {
	for i, f := range fields {
		if i > 0 {
			w.WriteByte(',')
		}
		w.WriteByte('"')
		w.WriteString(strings.ReplaceAll(f, `"`, `""`))
		w.WriteByte('"')
	}
	_, err := w.WriteString("\r\n")
	return eris.Wrap(err, "export: write csv row")
}
