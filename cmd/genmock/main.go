// Command genmock writes a synthetic monthly rainfall workbook for demos and
// tests. Annual totals are drawn from a Gumbel distribution and spread over
// twelve months with a seasonal weighting.
//
// Usage:
//
//	go run ./cmd/genmock -out DadosChuva.xlsx -start 1991 -years 30 -loc 1200 -scale 250
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"time"

	"github.com/xuri/excelize/v2"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// seasonal is the relative weight of each month, wettest in the austral summer.
var seasonal = [12]float64{1.6, 1.4, 1.3, 0.8, 0.6, 0.4, 0.3, 0.4, 0.7, 1.1, 1.3, 1.5}

type options struct {
	out   string
	sheet string
	start int
	years int
	loc   float64
	scale float64
	seed  uint64
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	var opts options
	flag.StringVar(&opts.out, "out", "DadosChuva.xlsx", "output workbook")
	flag.StringVar(&opts.sheet, "sheet", "Dados", "sheet name")
	flag.IntVar(&opts.start, "start", 1991, "first year")
	flag.IntVar(&opts.years, "years", 30, "number of years")
	flag.Float64Var(&opts.loc, "loc", 1200, "gumbel location of the annual totals (mm)")
	flag.Float64Var(&opts.scale, "scale", 250, "gumbel scale of the annual totals (mm)")
	flag.Uint64Var(&opts.seed, "seed", 1, "random seed")
	flag.Parse()

	if opts.years < 1 || opts.scale <= 0 {
		flag.Usage()
		return fmt.Errorf("-years must be at least 1 and -scale positive")
	}

	rows := generate(opts)
	if err := writeWorkbook(opts.out, opts.sheet, rows); err != nil {
		return err
	}
	log.Printf("wrote %d monthly rows for %d years to %s", len(rows), opts.years, opts.out)
	return nil
}

type monthRow struct {
	date  time.Time
	total float64
}

// generate draws one annual total per year and splits it across the months.
func generate(opts options) []monthRow {
	rng := rand.New(rand.NewPCG(opts.seed, opts.seed^0x9e3779b97f4a7c15))
	dist := distuv.GumbelRight{Mu: opts.loc, Beta: opts.scale}

	rows := make([]monthRow, 0, 12*opts.years)
	for i := range opts.years {
		// Quantile is finite on the open interval only.
		u := rng.Float64()
		for u == 0 {
			u = rng.Float64()
		}
		annual := math.Max(dist.Quantile(u), 0)

		weights := make([]float64, 12)
		for m := range weights {
			weights[m] = seasonal[m] * (0.5 + rng.Float64())
		}
		floats.Scale(annual/floats.Sum(weights), weights)

		year := opts.start + i
		for m, w := range weights {
			rows = append(rows, monthRow{
				date:  time.Date(year, time.Month(m+1), 1, 0, 0, 0, 0, time.UTC),
				total: math.Round(w*10) / 10,
			})
		}
	}
	return rows
}

func writeWorkbook(path, sheet string, rows []monthRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(sheet, "A1", &[]any{"Data", "Total"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	dateFmt := "dd/mm/yyyy"
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
	if err != nil {
		return fmt.Errorf("create date style: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &[]any{r.date, r.total}); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := f.SetColStyle(sheet, "A", dateStyle); err != nil {
		return fmt.Errorf("style date column: %w", err)
	}
	if err := f.SetColWidth(sheet, "A", "B", 15); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
