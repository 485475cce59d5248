package query

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/ppp-cli/internal/loan"
)

// Step is one filter pass.
type Step struct {
	Field loan.Field
	Terms []string
}

// Plan is an ordered chain of filter passes.
type Plan struct {
	Name  string
	Steps []Step
}

// Apply runs each step against the output of the previous one.
func (p Plan) Apply(records []loan.Record) []loan.Record {
	out := records
	for _, s := range p.Steps {
		out = Filter(s.Field, s.Terms, out)
	}
	return out
}

type planFile struct {
	Plans map[string][]stepConfig `yaml:"plans"`
}

type stepConfig struct {
	Field string   `yaml:"field"`
	Terms []string `yaml:"terms"`
}

// LoadPlans reads named filter chains from a YAML file of the form:
//
//	plans:
//	  nyc-software:
//	    - field: state
//	      terms: [ny]
//	    - field: naics_code
//	      terms: ["5415"]
func LoadPlans(path string) (map[string]Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "query: read plans %s", path)
	}
	return ParsePlans(data)
}

// ParsePlans decodes the YAML accepted by LoadPlans.
func ParsePlans(data []byte) (map[string]Plan, error) {
	var f planFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrap(err, "query: parse plans")
	}

	plans := make(map[string]Plan, len(f.Plans))
	for name, steps := range f.Plans {
		p := Plan{Name: name}
		for i, sc := range steps {
			field, err := loan.ParseField(sc.Field)
			if err != nil {
				return nil, eris.Wrapf(err, "query: plan %s step %d", name, i+1)
			}
			if len(SplitTerms(sc.Terms)) == 0 {
				return nil, eris.Errorf("query: plan %s step %d: no terms", name, i+1)
			}
			p.Steps = append(p.Steps, Step{Field: field, Terms: SplitTerms(sc.Terms)})
		}
		plans[name] = p
	}
	return plans, nil
}
