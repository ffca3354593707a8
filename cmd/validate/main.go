// Command validate loads an accident-hotspot dataset file and runs integrity
// checks over the derived table: decode outcome, region attribution, the
// simulation invariants, and aggregation sanity. Exits non-zero when any
// phase fails, so it can gate a dataset refresh in CI.
//
// Usage:
//
//	go run ./cmd/validate -data 전국교통사고다발지역표준데이터.csv
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/roadwatch/accident-insight/internal/dataset"
	"github.com/roadwatch/accident-insight/internal/domain"
	"github.com/roadwatch/accident-insight/internal/observability"
	"github.com/roadwatch/accident-insight/internal/query"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	data := flag.String("data", "", "path to the dataset file (.csv or .xlsx)")
	flag.Parse()

	if *data == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*data); code != 0 {
		os.Exit(code)
	}
}

func run(path string) int {
	fmt.Println("=== Accident Dataset Integrity Validation ===")
	fmt.Println()

	logger := observability.NewLogger("warn", "text")
	loader := dataset.NewLoader(path, 0, nil, logger, observability.NewMetricsForTesting())

	table, err := loader.Load(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load dataset: %v\n", err)
		return 1
	}

	fmt.Printf("loaded %d rows from %s (encoding: %s, skipped: %d)\n",
		table.Meta.Rows, path, table.Meta.Encoding, table.Meta.SkippedRows)

	phases := []*phase{
		validateAttribution(table),
		validateSimulation(table.Records),
		validateAggregation(table.Records),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		if p.passed() {
			fmt.Printf("PASS  %s\n", p.name)
			continue
		}
		allPassed = false
		fmt.Printf("FAIL  %s\n", p.name)
		for _, e := range p.errors {
			fmt.Printf("      - %s\n", e)
		}
	}

	if !allPassed {
		return 1
	}
	fmt.Println()
	fmt.Println("all phases passed")
	return 0
}

// validateAttribution checks that every record got a real province.
func validateAttribution(table *dataset.Table) *phase {
	p := &phase{name: "region attribution"}

	if table.Meta.MalformedRegions > 0 {
		p.errorf("%d records attributed to %q", table.Meta.MalformedRegions, domain.ProvinceUnknown)
	}
	for i, r := range table.Records {
		if r.CleanedRegion == "" {
			p.errorf("row %d: empty cleaned region (raw %q)", i+1, r.Region)
		}
	}
	return p
}

// validateSimulation checks the per-record invariants of the derived table.
func validateSimulation(records []domain.DerivedRecord) *phase {
	p := &phase{name: "reduction simulation invariants"}

	allowedRates := map[float64]bool{0.30: true, 0.25: true, 0.20: true, 0.10: true}

	for i, r := range records {
		if r.Accidents < 0 {
			p.errorf("row %d: negative accident count %d", i+1, r.Accidents)
		}
		if !allowedRates[r.ReductionRate] {
			p.errorf("row %d: rate %v outside the closed set", i+1, r.ReductionRate)
		}
		if r.Strategy == "" {
			p.errorf("row %d: empty strategy", i+1)
		}
		if r.PredictedReduction+r.PredictedRemaining != float64(r.Accidents) {
			p.errorf("row %d: reduction %v + remaining %v != accidents %d",
				i+1, r.PredictedReduction, r.PredictedRemaining, r.Accidents)
		}
		if r.ReductionRate != r.Category.Plan().Rate {
			p.errorf("row %d: rate %v does not match category plan", i+1, r.ReductionRate)
		}
	}
	return p
}

// validateAggregation checks the KPI figures over the whole table.
func validateAggregation(records []domain.DerivedRecord) *phase {
	p := &phase{name: "aggregation sanity"}

	s := query.Summarize(records)
	if s.TotalAccidents == 0 && len(records) > 0 {
		p.errorf("non-empty table with zero total accidents")
	}
	if s.ReductionPct < 0 || s.ReductionPct > 100 {
		p.errorf("reduction pct %v outside [0,100]", s.ReductionPct)
	}
	if s.TotalReduction > float64(s.TotalAccidents) {
		p.errorf("total reduction %v exceeds total accidents %d", s.TotalReduction, s.TotalAccidents)
	}

	top := query.TopRegions(records, 10)
	for i := 1; i < len(top); i++ {
		if top[i].Accidents < top[i-1].Accidents {
			p.errorf("top regions not ascending at index %d", i)
		}
	}
	return p
}
