package main

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/couchcryptid/rainfall-recurrence/internal/config"
	"github.com/couchcryptid/rainfall-recurrence/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func obsAt(year int, month time.Month, total float64) domain.Observation {
	return domain.Observation{Date: time.Date(year, month, 1, 0, 0, 0, 0, time.UTC), Total: total}
}

func TestValidateCoverage(t *testing.T) {
	obs := []domain.Observation{
		obsAt(2020, time.January, 10),
		obsAt(2020, time.January, 12),
		obsAt(2020, time.February, 5),
	}
	for m := time.January; m <= time.December; m++ {
		obs = append(obs, obsAt(2021, m, 20))
	}

	p := validateCoverage(obs)
	assert.False(t, p.passed())
	assert.Equal(t, []string{"2020-01-01 has 2 totals"}, p.errors)
	assert.Equal(t, []string{"2020 has data for only 2 months"}, p.warnings)
}

func TestValidateCoverage_DailyData(t *testing.T) {
	var obs []domain.Observation
	for d := time.Date(2016, time.January, 1, 0, 0, 0, 0, time.UTC); d.Year() < 2021; d = d.AddDate(0, 0, 1) {
		obs = append(obs, domain.Observation{Date: d, Total: float64(d.YearDay() % 7)})
	}

	p := validateCoverage(obs)
	assert.True(t, p.passed(), "errors: %v", p.errors)
	assert.Empty(t, p.warnings)
	assert.True(t, validateFit(obs, "all").passed())
}

func TestValidateSelection(t *testing.T) {
	obs := []domain.Observation{obsAt(2020, time.January, 10), obsAt(2021, time.January, 12)}

	assert.Empty(t, validateSelection(obs, "2020-2021").warnings)
	assert.Len(t, validateSelection(obs, "2019").warnings, 1)
	assert.Len(t, validateSelection(obs, "abc").warnings, 1)
	assert.True(t, validateSelection(obs, "abc").passed())
}

func TestValidateFit(t *testing.T) {
	obs := []domain.Observation{
		obsAt(2016, time.March, 1000),
		obsAt(2017, time.March, 1200),
		obsAt(2018, time.March, 900),
	}

	p := validateFit(obs, "all")
	assert.True(t, p.passed())
	assert.Len(t, p.warnings, 1)

	p = validateFit(obs, "2016")
	assert.False(t, p.passed())
	assert.Contains(t, p.errors[0], "degenerate")
}

func TestRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "Dados"))
	require.NoError(t, f.SetSheetRow("Dados", "A1", &[]any{"Data", "Total"}))
	require.NoError(t, f.SetSheetRow("Dados", "A2", &[]any{"2019-01-01", 800.0}))
	require.NoError(t, f.SetSheetRow("Dados", "A3", &[]any{"2020-01-01", 950.0}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	cfg := config.InputConfig{Path: path, Sheet: "Dados", DateColumn: "Data", TotalColumn: "Total"}

	var out bytes.Buffer
	assert.Equal(t, 0, run(&out, cfg, "all"))
	assert.Contains(t, out.String(), "2 observations in 2 years (2019-2020)")
	assert.Contains(t, out.String(), "ready for analysis")

	out.Reset()
	cfg.Sheet = "Outra"
	assert.Equal(t, 1, run(&out, cfg, "all"))
	assert.Contains(t, out.String(), "FATAL")
}
