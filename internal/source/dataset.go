package source

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/ppp-cli/internal/loan"
	"github.com/sells-group/ppp-cli/internal/naics"
)

// ErrLoanHeader marks a PPP file whose header is narrower than a loan row.
var ErrLoanHeader = eris.New("source: unexpected PPP header")

// Dataset is the enriched PPP loan data held in memory. Codes is kept for
// NAICS title lookups.
type Dataset struct {
	Records []loan.Record
	Skipped []loan.RowError
	Codes   *naics.Table
}

// Load prepares both sources, builds the NAICS table and enriches every
// loan row.
func (c *Cache) Load(ctx context.Context, loans, codes Spec) (*Dataset, error) {
	if err := c.Prepare(ctx, loans, codes); err != nil {
		return nil, err
	}
	return LoadLocal(ctx, loans, codes)
}

// LoadLocal builds a Dataset from source files that are already on disk.
func LoadLocal(ctx context.Context, loans, codes Spec) (*Dataset, error) {
	log := zap.L().With(zap.String("component", "source.load"))

	start := time.Now()
	_, codeRows, err := ReadRows(ctx, codes)
	if err != nil {
		return nil, err
	}
	table := naics.Build(codeRows)
	log.Info("loaded NAICS codes",
		zap.Int("codes", table.Len()),
		zap.Duration("elapsed", time.Since(start)),
	)

	start = time.Now()
	header, loanRows, err := ReadRows(ctx, loans)
	if err != nil {
		return nil, err
	}
	if loans.HasHeader && len(header) < loan.RawFields {
		return nil, eris.Wrapf(ErrLoanHeader, "%s has %d columns, want %d", loans.Path, len(header), loan.RawFields)
	}
	res := loan.EnrichAll(loanRows, table)

	for _, s := range res.Skipped {
		log.Warn("skipping malformed loan row",
			zap.Int("row", s.Row),
			zap.Int("fields", s.Fields),
		)
	}
	log.Info("enriched PPP loans",
		zap.Int("rows", len(loanRows)),
		zap.Int("records", len(res.Records)),
		zap.Int("skipped", len(res.Skipped)),
		zap.Int("naics_misses", res.LabelMisses),
		zap.Int("unknown_bands", res.UnknownBands),
		zap.Duration("elapsed", time.Since(start)),
	)

	return &Dataset{Records: res.Records, Skipped: res.Skipped, Codes: table}, nil
}
