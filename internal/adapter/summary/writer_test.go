package summary

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/couchcryptid/rainfall-recurrence/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func testReport() domain.Report {
	return domain.Report{
		RunID:             "run-42",
		GeneratedAt:       time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		Source:            "DadosChuva.xlsx",
		Selection:         domain.AllYears(),
		SelectionFallback: true,
		Annual: []domain.AnnualRecord{
			{Year: 2020, Total: 1200, Max: 300, Count: 12},
			{Year: 2021, Total: 900, Max: 150, Count: 12},
		},
		Result: domain.AnalysisResult{
			Mean:      1050,
			StdDev:    212.13,
			N:         2,
			Gumbel:    domain.GumbelParameters{Loc: 980, Scale: 150},
			Estimates: []domain.RecurrenceEstimate{{ReturnPeriod: 2, Estimate: 1035}},
			Empirical: []domain.EmpiricalPoint{
				{Rank: 1, Total: 1200, Probability: 1.0 / 3, ReturnPeriod: 3},
				{Rank: 2, Total: 900, Probability: 2.0 / 3, ReturnPeriod: 1.5},
			},
			Totals: []float64{1200, 900},
		},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWriter_ExportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "summary.json")
	w := NewWriter(path, "json", discardLogger())
	assert.Equal(t, "summary", w.Name())

	report := testReport()
	require.NoError(t, w.Export(context.Background(), report))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got domain.Summary
	require.NoError(t, json.Unmarshal(data, &got))
	if diff := cmp.Diff(report.Summary(), got); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "all", raw["selection"])
	assert.Equal(t, true, raw["selection_fallback"])
}

func TestWriter_ExportYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.yaml")
	require.NoError(t, NewWriter(path, "yaml", discardLogger()).Export(context.Background(), testReport()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, yaml.Unmarshal(data, &raw))
	assert.Equal(t, "run-42", raw["run_id"])

	result, ok := raw["result"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 2, result["sample_count"])
	gumbel, ok := result["gumbel"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 980, gumbel["loc"])
}

func TestEncode_UnknownFormat(t *testing.T) {
	_, err := Encode(testReport().Summary(), "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml")
}
