package main

import (
	"fmt"
	"io"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/ppp-cli/internal/export"
	"github.com/sells-group/ppp-cli/internal/loan"
	"github.com/sells-group/ppp-cli/internal/query"
	"github.com/sells-group/ppp-cli/internal/source"
)

// Flag filters run in this order, one pass each.
var queryFilterFlags = []struct {
	flag  string
	field loan.Field
	usage string
}{
	{"state", loan.FieldState, "2-letter state codes, e.g. --state NY,CT,DC"},
	{"name", loan.FieldBusinessName, `business name substrings, e.g. --name smith; write \, for a literal comma`},
	{"naics-code", loan.FieldNAICSCode, "NAICS codes or prefixes, e.g. --naics-code 541511"},
	{"naics-human", loan.FieldNAICSLabel, "NAICS title substrings, e.g. --naics-human programming"},
}

type queryOpts struct {
	Steps      []query.Step
	Format     export.Format
	OutputDir  string
	OutputName string
	TopN       int
	Verbose    bool
	Now        time.Time
}

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Filter PPP loans and export the results",
	Long: `Filter PPP loans and export the results.

Each filter flag narrows the results of the previous one (state, then name,
then NAICS code, then NAICS title). Values within one flag are OR'ed and match
case-insensitive substrings; separate values with commas and write \, for a
comma inside a value. A named plan from --plan runs after the flags.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("query"); err != nil {
			return err
		}

		opts, err := parseQueryOpts(cmd)
		if err != nil {
			return err
		}

		refresh, _ := cmd.Flags().GetBool("refresh")
		ds, err := loadDataset(cmd.Context(), cfg, refresh)
		if err != nil {
			return err
		}

		return runQuery(cmd.OutOrStdout(), ds, opts)
	},
}

// parseQueryOpts turns flags and config into query options.
func parseQueryOpts(cmd *cobra.Command) (queryOpts, error) {
	formatStr, _ := cmd.Flags().GetString("format")
	if formatStr == "" {
		formatStr = cfg.Output.Format
	}
	format, err := export.ParseFormat(formatStr)
	if err != nil {
		return queryOpts{}, err
	}

	topN, _ := cmd.Flags().GetInt("top")
	if !cmd.Flags().Changed("top") {
		topN = cfg.Query.TopN
	}
	verbose, _ := cmd.Flags().GetBool("verbose")

	opts := queryOpts{
		Format:     format,
		OutputDir:  cfg.Output.Dir,
		OutputName: cfg.Output.Name,
		TopN:       topN,
		Verbose:    verbose,
		Now:        time.Now(),
	}

	for _, ff := range queryFilterFlags {
		values, _ := cmd.Flags().GetStringArray(ff.flag)
		if terms := query.SplitTerms(values); len(terms) > 0 {
			opts.Steps = append(opts.Steps, query.Step{Field: ff.field, Terms: terms})
		}
	}

	planName, _ := cmd.Flags().GetString("plan")
	if planName != "" {
		planPath, _ := cmd.Flags().GetString("plans-file")
		if planPath == "" {
			planPath = cfg.Query.PlansPath
		}
		plans, err := query.LoadPlans(planPath)
		if err != nil {
			return queryOpts{}, err
		}
		plan, ok := plans[planName]
		if !ok {
			return queryOpts{}, eris.Errorf("query: plan %q not found in %s", planName, planPath)
		}
		opts.Steps = append(opts.Steps, plan.Steps...)
	}

	return opts, nil
}

// runQuery filters the dataset, exports the result and prints a summary.
func runQuery(out io.Writer, ds *source.Dataset, opts queryOpts) error {
	log := zap.L().With(zap.String("command", "query"))

	results := ds.Records
	log.Info("initial data set", zap.Int("loans", len(results)))

	for _, step := range opts.Steps {
		results = query.Filter(step.Field, step.Terms, results)
		log.Info("applied filter",
			zap.Stringer("field", step.Field),
			zap.Strings("terms", step.Terms),
			zap.Int("loans", len(results)),
		)
	}

	path, err := export.Write(opts.OutputDir, opts.OutputName, opts.Format, results, opts.Now)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Matched %d loans, estimated total %s\n", len(results), query.TotalValue(results))
	fmt.Fprintf(out, "Wrote %s\n", path)

	if opts.Verbose {
		for _, r := range results {
			fmt.Fprintln(out, r.Values())
		}
		printCounts(out, "Top NAICS codes", query.TopFrequencies(results, loan.FieldNAICSCode, opts.TopN))
	}
	return nil
}

func printCounts(out io.Writer, title string, counts []query.Count) {
	if len(counts) == 0 {
		return
	}
	fmt.Fprintf(out, "%s:\n", title)
	for _, c := range counts {
		fmt.Fprintf(out, "  %-10s %d\n", c.Value, c.Count)
	}
}

func init() {
	for _, ff := range queryFilterFlags {
		queryCmd.Flags().StringArray(ff.flag, nil, ff.usage)
	}
	queryCmd.Flags().String("plan", "", "named filter plan to apply after the flag filters")
	queryCmd.Flags().String("plans-file", "", "YAML file holding filter plans (default from config)")
	queryCmd.Flags().String("format", "", "export format: csv or xlsx (default from config)")
	queryCmd.Flags().Int("top", 20, "number of NAICS codes in the verbose frequency report")
	queryCmd.Flags().BoolP("verbose", "v", false, "print every matched loan and the NAICS code report")
	queryCmd.Flags().Bool("refresh", false, "re-download sources whose ETag changed")
	rootCmd.AddCommand(queryCmd)
}
