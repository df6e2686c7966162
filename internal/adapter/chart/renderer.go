// Package chart renders the recurrence analysis as PNG images.
package chart

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/couchcryptid/rainfall-recurrence/internal/domain"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// File names appended to the configured prefix.
const (
	RecurrenceFile = "grafico_recorrencia.png"
	TableFile      = "tabela_recorrencia.png"
)

var (
	observedColor = color.RGBA{R: 220, G: 30, B: 30, A: 255}
	fittedColor   = color.RGBA{R: 30, G: 80, B: 200, A: 255}
)

// Renderer writes the recurrence chart and the estimates table.
// It implements pipeline.Exporter.
type Renderer struct {
	prefix string
	logger *slog.Logger
}

// NewRenderer creates a Renderer whose files are named prefix + file name.
// The prefix may contain a directory.
func NewRenderer(prefix string, logger *slog.Logger) *Renderer {
	return &Renderer{prefix: prefix, logger: logger}
}

func (r *Renderer) Name() string { return "charts" }

// Paths returns the recurrence chart and table image paths.
func (r *Renderer) Paths() (chartPath, tablePath string) {
	return r.prefix + RecurrenceFile, r.prefix + TableFile
}

// Export renders both images, replacing existing files.
func (r *Renderer) Export(ctx context.Context, report domain.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	res := report.Result
	if len(res.Estimates) == 0 || len(res.Empirical) == 0 {
		return errors.New("render charts: report has no estimates")
	}

	chartPath, tablePath := r.Paths()
	if dir := filepath.Dir(chartPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create chart directory: %w", err)
		}
	}

	if err := renderRecurrence(res, chartPath); err != nil {
		return err
	}
	if err := renderTable(res.Estimates, tablePath); err != nil {
		return err
	}

	r.logger.Info("charts written", "chart", chartPath, "table", tablePath)
	return nil
}

// renderRecurrence plots the empirical return periods against the fitted
// Gumbel estimates on a logarithmic period axis.
func renderRecurrence(res domain.AnalysisResult, path string) error {
	p := plot.New()
	p.Title.Text = "Análise de Recorrência - Distribuição de Gumbel"
	p.X.Label.Text = "Tempo de Recorrência (anos)"
	p.Y.Label.Text = "Total Anual (mm)"
	p.X.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Legend.Top = true
	p.Legend.Left = true
	p.Add(plotter.NewGrid())

	observed := make(plotter.XYs, len(res.Empirical))
	for i, pt := range res.Empirical {
		observed[i] = plotter.XY{X: pt.ReturnPeriod, Y: pt.Total}
	}
	scatter, err := plotter.NewScatter(observed)
	if err != nil {
		return fmt.Errorf("plot observed totals: %w", err)
	}
	scatter.GlyphStyle.Color = observedColor
	scatter.GlyphStyle.Radius = vg.Points(3)

	fitted := make(plotter.XYs, len(res.Estimates))
	for i, e := range res.Estimates {
		fitted[i] = plotter.XY{X: e.ReturnPeriod, Y: e.Estimate}
	}
	line, points, err := plotter.NewLinePoints(fitted)
	if err != nil {
		return fmt.Errorf("plot gumbel estimates: %w", err)
	}
	line.Color = fittedColor
	line.Width = vg.Points(1.5)
	points.Color = fittedColor
	points.Shape = draw.SquareGlyph{}

	p.Add(scatter, line, points)
	p.Legend.Add("Dados Observados", scatter)
	p.Legend.Add("Distribuição de Gumbel", line, points)

	if err := p.Save(10*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save recurrence chart: %w", err)
	}
	return nil
}

// renderTable draws the estimates as a two-column text table.
func renderTable(estimates []domain.RecurrenceEstimate, path string) error {
	p := plot.New()
	p.Title.Text = "Estimativas de Totais Anuais por Tempo de Recorrência"
	p.HideAxes()

	rows := len(estimates) + 1
	xys := make(plotter.XYs, 0, 2*rows)
	labels := make([]string, 0, 2*rows)
	add := func(row int, period, estimate string) {
		y := float64(rows - row)
		xys = append(xys, plotter.XY{X: 0, Y: y}, plotter.XY{X: 1, Y: y})
		labels = append(labels, period, estimate)
	}

	add(0, "Tempo de Recorrência (anos)", "Total Anual Estimado (mm)")
	for i, e := range estimates {
		add(i+1, strconv.FormatFloat(e.ReturnPeriod, 'f', -1, 64), strconv.FormatFloat(e.Estimate, 'f', 1, 64))
	}

	cells, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return fmt.Errorf("plot estimates table: %w", err)
	}
	for i := range cells.TextStyle {
		cells.TextStyle[i].XAlign = text.XCenter
	}
	p.Add(cells)
	p.X.Min, p.X.Max = -0.6, 1.6
	p.Y.Min, p.Y.Max = 0.5, float64(rows)+0.5

	if err := p.Save(8*vg.Inch, 3*vg.Inch, path); err != nil {
		return fmt.Errorf("save estimates table: %w", err)
	}
	return nil
}
