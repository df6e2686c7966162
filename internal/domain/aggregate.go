package domain

import (
	"slices"
)

// AggregateAnnual groups observations by calendar year and returns one
// record per year present, ordered by ascending year.
func AggregateAnnual(obs []Observation) []AnnualRecord {
	byYear := make(map[int]*AnnualRecord)
	for _, o := range obs {
		year := o.Year()
		rec, ok := byYear[year]
		if !ok {
			byYear[year] = &AnnualRecord{Year: year, Total: o.Total, Max: o.Total, Count: 1}
			continue
		}
		rec.Total += o.Total
		rec.Max = max(rec.Max, o.Total)
		rec.Count++
	}

	records := make([]AnnualRecord, 0, len(byYear))
	for _, rec := range byYear {
		records = append(records, *rec)
	}
	slices.SortFunc(records, func(a, b AnnualRecord) int { return a.Year - b.Year })
	return records
}

// AnnualTotals extracts the annual totals in record order.
func AnnualTotals(records []AnnualRecord) []float64 {
	totals := make([]float64, len(records))
	for i, rec := range records {
		totals[i] = rec.Total
	}
	return totals
}

// ObservationYears returns the distinct years present in obs, ascending.
func ObservationYears(obs []Observation) []int {
	seen := make(map[int]struct{})
	years := make([]int, 0)
	for _, o := range obs {
		if _, ok := seen[o.Year()]; ok {
			continue
		}
		seen[o.Year()] = struct{}{}
		years = append(years, o.Year())
	}
	slices.Sort(years)
	return years
}
