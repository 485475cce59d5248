package loan

import "strings"

// band maps a FOIA loan range to the midpoint used as its dollar estimate.
type band struct {
	text     string
	estimate float64
}

// Checked in order; the first band contained in the range text wins.
var bands = []band{
	{"$150,000-350,000", 250000.00},
	{"$350,000-1 million", 675000.00},
	{"$1-2 million", 1500000.00},
	{"$2-5 million", 3500000.00},
	{"$5-10 million", 7500000.00},
}

// LookupBand returns the estimate for a loan range. ok is false when the
// text contains none of the known bands.
func LookupBand(loanRange string) (estimate float64, ok bool) {
	for _, b := range bands {
		if strings.Contains(loanRange, b.text) {
			return b.estimate, true
		}
	}
	return 0, false
}

// Estimate returns the dollar estimate for a loan range, or 0 when the range
// is not recognized.
func Estimate(loanRange string) float64 {
	v, _ := LookupBand(loanRange)
	return v
}
