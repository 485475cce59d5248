// Package fetcher downloads source files over HTTP and streams CSV rows out of them.
package fetcher

import (
	"context"
	"encoding/csv"
	"errors"
	"io"

	"github.com/rotisserie/eris"
)

// CSVOptions configures StreamCSV.
type CSVOptions struct {
	// HasHeader keeps the first row out of the row stream. When HeaderCh is
	// set the header is sent there instead; give it a buffer of one when
	// reading through ReadCSV.
	HasHeader  bool
	HeaderCh   chan<- []string
	LazyQuotes bool
}

// StreamCSV reads rows from r in a goroutine. Rows may have any width. The
// caller must drain the row channel; at most one error is sent on the error
// channel and both channels are closed when reading stops.
func StreamCSV(ctx context.Context, r io.Reader, opts CSVOptions) (<-chan []string, <-chan error) {
	rows := make(chan []string, 64)
	errc := make(chan error, 1)

	go func() {
		defer close(rows)
		defer close(errc)
		if err := streamRows(ctx, r, opts, rows); err != nil {
			errc <- err
		}
	}()

	return rows, errc
}

func streamRows(ctx context.Context, r io.Reader, opts CSVOptions, rows chan<- []string) error {
	reader := csv.NewReader(r)
	reader.LazyQuotes = opts.LazyQuotes
	reader.FieldsPerRecord = -1

	header := opts.HasHeader
	for line := 1; ; line++ {
		if err := ctx.Err(); err != nil {
			return eris.Wrap(err, "csv: context cancelled")
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return eris.Wrapf(err, "csv: read row %d", line)
		}

		dst := rows
		if header {
			header = false
			if opts.HeaderCh == nil {
				continue
			}
			dst = opts.HeaderCh
		}

		select {
		case dst <- record:
		case <-ctx.Done():
			return eris.Wrap(ctx.Err(), "csv: context cancelled")
		}
	}
}

// ReadCSV drains StreamCSV into memory.
func ReadCSV(ctx context.Context, r io.Reader, opts CSVOptions) ([][]string, error) {
	rowCh, errCh := StreamCSV(ctx, r, opts)

	var rows [][]string
	for row := range rowCh {
		rows = append(rows, row)
	}
	if err := <-errCh; err != nil {
		return rows, err
	}
	return rows, nil
}
