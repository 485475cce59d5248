package query

import (
	"github.com/sells-group/ppp-cli/internal/loan"
)

func rec(name, state, code string, estimate float64) loan.Record {
	return loan.Record{
		BusinessName:   name,
		State:          state,
		NAICSCode:      code,
		NAICSLabel:     loan.UnknownLabel,
		EstimatedValue: estimate,
		HasEstimate:    estimate > 0,
	}
}

func sampleRecords() []loan.Record {
	return []loan.Record{
		rec("Smith Bakery LLC", "NY", "311811", 250000),
		rec("Jones Consulting", "CT", "541611", 675000),
		rec("SMITH & SONS", "DC", "236220", 1500000),
		rec("Harbor Software", "NY", "541511", 3500000),
		rec("Empire Diner", "NY", "", 0),
	}
}
