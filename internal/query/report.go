package query

import (
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/ppp-cli/internal/loan"
)

var usd = message.NewPrinter(language.AmericanEnglish)

// Count is how often a field value occurs.
type Count struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Sum adds up the estimated values.
func Sum(records []loan.Record) float64 {
	var total float64
	for _, r := range records {
		total += r.EstimatedValue
	}
	return total
}

// TotalValue returns the summed estimate formatted as US dollars, e.g.
// "$1,234,567.89".
func TotalValue(records []loan.Record) string {
	return FormatUSD(Sum(records))
}

// FormatUSD formats v with thousands separators and two decimals.
func FormatUSD(v float64) string {
	return usd.Sprintf("$%.2f", v)
}

// Frequencies counts every distinct value of field, most frequent first.
// Equal counts keep the order in which values were first seen.
func Frequencies(records []loan.Record, field loan.Field) []Count {
	idx := make(map[string]int)
	var counts []Count
	for _, r := range records {
		v := field.Value(r)
		if i, ok := idx[v]; ok {
			counts[i].Count++
			continue
		}
		idx[v] = len(counts)
		counts = append(counts, Count{Value: v, Count: 1})
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// TopFrequencies returns the n most frequent values of field.
func TopFrequencies(records []loan.Record, field loan.Field, n int) []Count {
	if n <= 0 {
		return []Count{}
	}
	counts := Frequencies(records, field)
	if len(counts) > n {
		counts = counts[:n]
	}
	if counts == nil {
		return []Count{}
	}
	return counts
}
