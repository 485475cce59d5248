// Package query narrows and summarizes enriched PPP loan records.
package query

import (
	"strings"

	"github.com/sells-group/ppp-cli/internal/loan"
)

// Filter returns the records whose field contains any of terms, ignoring
// case. Terms are matched as given, surrounding spaces included; empty terms
// are dropped and with no usable terms the result is empty.
// The input is never modified and the output keeps its order, so chained
// calls narrow like an AND across fields.
func Filter(field loan.Field, terms []string, records []loan.Record) []loan.Record {
	needles := normalizeTerms(terms)
	if len(needles) == 0 || len(records) == 0 {
		return []loan.Record{}
	}

	out := make([]loan.Record, 0)
	for _, r := range records {
		value := strings.ToLower(field.Value(r))
		if value == "" {
			continue
		}
		for _, n := range needles {
			if strings.Contains(value, n) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

func normalizeTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = strings.ToLower(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// SplitTerms splits comma-separated search terms, the way repeated CLI flags
// and query parameters arrive. Spaces around separators are trimmed; a value
// without a separator is kept verbatim. `\,` is a literal comma.
func SplitTerms(values []string) []string {
	var out []string
	for _, v := range values {
		parts, split := splitEscaped(v)
		for _, t := range parts {
			if split {
				t = strings.TrimSpace(t)
			}
			if t != "" {
				out = append(out, t)
			}
		}
	}
	return out
}

func splitEscaped(v string) ([]string, bool) {
	var (
		parts []string
		cur   strings.Builder
		split bool
	)
	for i := 0; i < len(v); i++ {
		switch {
		case v[i] == '\\' && i+1 < len(v) && v[i+1] == ',':
			cur.WriteByte(',')
			i++
		case v[i] == ',':
			parts = append(parts, cur.String())
			cur.Reset()
			split = true
		default:
			cur.WriteByte(v[i])
		}
	}
	return append(parts, cur.String()), split
}
