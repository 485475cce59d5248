package main

import (
	"github.com/sells-group/ppp-cli/internal/loan"
	"github.com/sells-group/ppp-cli/internal/naics"
	"github.com/sells-group/ppp-cli/internal/source"
)

func testDataset() *source.Dataset {
	return &source.Dataset{
		Codes: naics.Build([][]string{
			{"541511", "Custom Computer Programming Services"},
			{"311811", "Retail Bakeries"},
		}),
		Records: []loan.Record{
			{BusinessName: "Harbor Software LLC", State: "NY", NAICSCode: "541511", NAICSLabel: "Custom Computer Programming Services", LoanRange: "a $150,000-350,000", EstimatedValue: 250000, HasEstimate: true},
			{BusinessName: "Smith Bakery", State: "NY", NAICSCode: "311811", NAICSLabel: "Retail Bakeries", LoanRange: "b $350,000-1 million", EstimatedValue: 675000, HasEstimate: true},
			{BusinessName: "Capitol Code Co", State: "DC", NAICSCode: "541511", NAICSLabel: "Custom Computer Programming Services", LoanRange: "c $1-2 million", EstimatedValue: 1500000, HasEstimate: true},
			{BusinessName: "Nutmeg Smith Tools", State: "CT", NAICSCode: "", NAICSLabel: loan.UnknownLabel, LoanRange: "?", EstimatedValue: 0},
		},
	}
}
