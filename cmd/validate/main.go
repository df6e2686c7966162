// Command validate checks a rainfall workbook before analysis. It reports
// per-year observation counts, duplicated dates and months without data, and whether
// the selected annual totals support a Gumbel fit.
//
// Usage:
//
//	go run ./cmd/validate -input DadosChuva.xlsx [-sheet Dados] [-years 2001-2020]
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/couchcryptid/rainfall-recurrence/internal/adapter/xlsx"
	"github.com/couchcryptid/rainfall-recurrence/internal/config"
	"github.com/couchcryptid/rainfall-recurrence/internal/domain"
)

// phase tracks pass/fail for a validation phase. Warnings do not fail it.
type phase struct {
	name     string
	errors   []string
	warnings []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) warnf(format string, args ...any) {
	p.warnings = append(p.warnings, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	input := flag.String("input", "DadosChuva.xlsx", "input workbook")
	sheet := flag.String("sheet", "Dados", "sheet holding the observations")
	dateCol := flag.String("date-column", "Data", "date column header")
	totalCol := flag.String("total-column", "Total", "total column header")
	years := flag.String("years", "all", "years to check, e.g. 2001,2005-2010")
	flag.Parse()

	cfg := config.InputConfig{Path: *input, Sheet: *sheet, DateColumn: *dateCol, TotalColumn: *totalCol}
	os.Exit(run(os.Stdout, cfg, *years))
}

func run(w io.Writer, cfg config.InputConfig, years string) int {
	fmt.Fprintln(w, "=== Rainfall Workbook Validation ===")
	fmt.Fprintln(w)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	obs, err := xlsx.NewReader(cfg, logger).Extract(context.Background())
	if err != nil {
		fmt.Fprintf(w, "FATAL: %v\n", err)
		return 1
	}

	annual := domain.AggregateAnnual(obs)
	fmt.Fprintf(w, "%d observations in %d years (%d-%d)\n\n",
		len(obs), len(annual), annual[0].Year, annual[len(annual)-1].Year)
	fmt.Fprintf(w, "  %-6s %6s %12s %12s\n", "Ano", "Meses", "Total (mm)", "Máx (mm)")
	for _, rec := range annual {
		fmt.Fprintf(w, "  %-6d %6d %12.1f %12.1f\n", rec.Year, rec.Count, rec.Total, rec.Max)
	}
	fmt.Fprintln(w)

	phases := []*phase{
		validateCoverage(obs),
		validateSelection(obs, years),
		validateFit(obs, years),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		} else if len(p.warnings) > 0 {
			status = fmt.Sprintf("\033[33mPASS (%d warnings)\033[0m", len(p.warnings))
		}
		fmt.Fprintf(w, "  %-36s %s\n", p.name, status)
	}

	for _, p := range phases {
		if len(p.errors) == 0 && len(p.warnings) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
		for _, m := range p.warnings {
			fmt.Fprintf(w, "  warning: %s\n", m)
		}
	}

	if allPassed {
		fmt.Fprintln(w, "\nWorkbook is ready for analysis.")
		return 0
	}
	fmt.Fprintln(w, "\nValidation FAILED.")
	return 1
}

type yearMonth struct {
	year  int
	month time.Month
}

// validateCoverage flags dates reported more than once and years whose
// observations do not reach all twelve months. Daily and monthly workbooks
// are both accepted.
func validateCoverage(obs []domain.Observation) *phase {
	p := &phase{name: "Phase 1: Coverage"}

	perDate := make(map[string]int, len(obs))
	var dates []string
	months := make(map[yearMonth]bool)
	for _, o := range obs {
		day := o.Date.Format(time.DateOnly)
		if perDate[day] == 0 {
			dates = append(dates, day)
		}
		perDate[day]++
		months[yearMonth{o.Year(), o.Date.Month()}] = true
	}
	for _, day := range dates {
		if n := perDate[day]; n > 1 {
			p.errorf("%s has %d totals", day, n)
		}
	}

	for _, rec := range domain.AggregateAnnual(obs) {
		covered := 0
		for m := time.January; m <= time.December; m++ {
			if months[yearMonth{rec.Year, m}] {
				covered++
			}
		}
		if covered < 12 {
			p.warnf("%d has data for only %d months", rec.Year, covered)
		}
	}
	return p
}

// validateSelection checks that the year selection parses and matches the data.
func validateSelection(obs []domain.Observation, years string) *phase {
	p := &phase{name: "Phase 2: Year selection"}

	sel, err := domain.ParseYearSelection(years)
	if err != nil {
		p.warnf("%v; the analysis will use all years", err)
		return p
	}
	if _, err := domain.SelectYears(obs, sel); err != nil {
		p.warnf("%v; the analysis will use all years", err)
	}
	return p
}

// validateFit runs the fit on the annual totals the analysis would use.
func validateFit(obs []domain.Observation, years string) *phase {
	p := &phase{name: "Phase 3: Gumbel fit"}

	selected := obs
	if sel, err := domain.ParseYearSelection(years); err == nil {
		if s, err := domain.SelectYears(obs, sel); err == nil {
			selected = s
		}
	}

	totals := domain.AnnualTotals(domain.AggregateAnnual(selected))
	params, err := domain.FitGumbel(totals)
	if err != nil {
		p.errorf("%v", err)
		return p
	}
	if len(totals) < 10 {
		p.warnf("only %d annual totals; estimates for long return periods are unreliable", len(totals))
	}
	if _, err := domain.EstimateRecurrence(params, domain.CanonicalReturnPeriods); err != nil {
		p.errorf("%v", err)
	}
	return p
}
