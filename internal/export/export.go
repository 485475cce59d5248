// Package export writes query results to timestamped CSV or XLSX files.
package export

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/ppp-cli/internal/loan"
)

// Format selects the output file type.
type Format string

const (
	CSV  Format = "csv"
	XLSX Format = "xlsx"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case CSV, XLSX:
		return f, nil
	default:
		return "", eris.Errorf("export: unknown format %q (valid: csv, xlsx)", s)
	}
}

// FileName prefixes name with a timestamp and forces the format's extension,
// e.g. "20200706-101500_query_results.csv".
func FileName(name string, format Format, now time.Time) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return now.Format("20060102-150405") + "_" + base + "." + string(format)
}

// Write exports records into dir and returns the written path.
func Write(dir, name string, format Format, records []loan.Record, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", eris.Wrapf(err, "export: create dir %s", dir)
	}
	path := filepath.Join(dir, FileName(name, format, now))

	var err error
	switch format {
	case XLSX:
		err = WriteXLSX(path, records)
	default:
		err = WriteCSV(path, records)
	}
	if err != nil {
		return "", err
	}

	zap.L().Info("wrote query results",
		zap.String("path", path),
		zap.Int("records", len(records)),
	)
	return path, nil
}

// estimateCell is the exported text for a record's estimate; blank when the
// loan range was not recognized.
func estimateCell(r loan.Record) string {
	if !r.HasEstimate {
		return ""
	}
	return loan.FormatEstimate(r.EstimatedValue)
}
