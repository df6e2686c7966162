package xlsx

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/couchcryptid/rainfall-recurrence/internal/domain"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the report workbook. Per-year sheets are named by year.
const (
	SheetAnnual     = "Resumo Anual"
	SheetStatistics = "Estatísticas"
	SheetRecurrence = "Análise Recorrência"
	SheetAnalysis   = "Dados para Análise"

	defaultSheet = "Sheet1"

	// numFmtThousands is the built-in "#,##0.00" number format.
	numFmtThousands = 4
)

// Writer exports a report to a multi-sheet workbook.
// It implements pipeline.Exporter.
type Writer struct {
	path   string
	logger *slog.Logger
}

// NewWriter creates a Writer that saves the workbook at path.
func NewWriter(path string, logger *slog.Logger) *Writer {
	return &Writer{path: path, logger: logger}
}

func (w *Writer) Name() string { return "workbook" }

// Export builds the report workbook and saves it, replacing any existing file.
func (w *Writer) Export(ctx context.Context, report domain.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := buildWorkbook(report)
	if err != nil {
		return err
	}
	defer f.Close()

	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("save workbook %s: %w", w.path, err)
	}

	w.logger.Info("workbook written", "path", w.path, "year_sheets", len(report.Annual))
	return nil
}

// styles holds the cell style IDs shared by every sheet.
type styles struct {
	number   int
	centered int
	date     int
}

func buildWorkbook(report domain.Report) (*excelize.File, error) {
	f := excelize.NewFile()

	st, err := newStyles(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	if err := f.SetSheetName(defaultSheet, SheetAnnual); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename default sheet: %w", err)
	}

	steps := []func(*excelize.File, domain.Report, styles) error{
		writeAnnualSheet,
		writeStatisticsSheet,
		writeRecurrenceSheet,
		writeAnalysisSheet,
		writeYearSheets,
	}
	for _, step := range steps {
		if err := step(f, report, st); err != nil {
			f.Close()
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

func newStyles(f *excelize.File) (styles, error) {
	number, err := f.NewStyle(&excelize.Style{NumFmt: numFmtThousands})
	if err != nil {
		return styles{}, fmt.Errorf("create number style: %w", err)
	}
	centered, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return styles{}, fmt.Errorf("create centered style: %w", err)
	}
	dateFmt := "dd/mm/yyyy"
	date, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
	if err != nil {
		return styles{}, fmt.Errorf("create date style: %w", err)
	}
	return styles{number: number, centered: centered, date: date}, nil
}

// writeTable writes a header row followed by data rows starting at A1.
func writeTable(f *excelize.File, sheet string, header []any, rows [][]any) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}

// formatColumns sets width and style for a column range like "B:D".
func formatColumns(f *excelize.File, sheet, first, last string, width float64, style int) error {
	if err := f.SetColWidth(sheet, first, last, width); err != nil {
		return fmt.Errorf("set %s column width: %w", sheet, err)
	}
	if style == 0 {
		return nil
	}
	if err := f.SetColStyle(sheet, first+":"+last, style); err != nil {
		return fmt.Errorf("set %s column style: %w", sheet, err)
	}
	return nil
}

func newSheet(f *excelize.File, name string) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %s: %w", name, err)
	}
	return nil
}

func writeAnnualSheet(f *excelize.File, report domain.Report, st styles) error {
	rows := make([][]any, len(report.Annual))
	for i, rec := range report.Annual {
		rows[i] = []any{rec.Year, rec.Total, rec.Max, rec.Count}
	}
	header := []any{"Ano", "Total Anual (mm)", "Chuva Máxima (mm)", "Meses com Dados"}
	if err := writeTable(f, SheetAnnual, header, rows); err != nil {
		return err
	}
	if err := formatColumns(f, SheetAnnual, "A", "A", 10, st.centered); err != nil {
		return err
	}
	return formatColumns(f, SheetAnnual, "B", "D", 18, st.number)
}

func writeStatisticsSheet(f *excelize.File, report domain.Report, st styles) error {
	if err := newSheet(f, SheetStatistics); err != nil {
		return err
	}
	res := report.Result
	rows := [][]any{
		{"Média (mm)", res.Mean},
		{"Desvio Padrão (mm)", res.StdDev},
		{"Número de Anos", res.N},
		{"Parâmetro Loc (Gumbel)", res.Gumbel.Loc},
		{"Parâmetro Scale (Gumbel)", res.Gumbel.Scale},
	}
	if err := writeTable(f, SheetStatistics, []any{"Estatística", "Valor"}, rows); err != nil {
		return err
	}
	if err := formatColumns(f, SheetStatistics, "A", "A", 25, 0); err != nil {
		return err
	}
	return formatColumns(f, SheetStatistics, "B", "B", 20, st.number)
}

func writeRecurrenceSheet(f *excelize.File, report domain.Report, st styles) error {
	if err := newSheet(f, SheetRecurrence); err != nil {
		return err
	}
	rows := make([][]any, len(report.Result.Estimates))
	for i, e := range report.Result.Estimates {
		rows[i] = []any{e.ReturnPeriod, e.Estimate}
	}
	header := []any{"Tempo de Recorrência (anos)", "Total Anual Estimado (mm)"}
	if err := writeTable(f, SheetRecurrence, header, rows); err != nil {
		return err
	}
	return formatColumns(f, SheetRecurrence, "A", "B", 25, st.number)
}

// writeAnalysisSheet lists the observed totals by year next to the ranked
// totals and their empirical return periods.
func writeAnalysisSheet(f *excelize.File, report domain.Report, st styles) error {
	if err := newSheet(f, SheetAnalysis); err != nil {
		return err
	}
	empirical := report.Result.Empirical
	rows := make([][]any, len(report.Annual))
	for i, rec := range report.Annual {
		row := []any{rec.Year, rec.Total, nil, nil}
		if i < len(empirical) {
			row[2] = empirical[i].Total
			row[3] = empirical[i].ReturnPeriod
		}
		rows[i] = row
	}
	header := []any{
		"Ano",
		"Total Anual Observado (mm)",
		"Total Anual Ordenado (mm)",
		"Tempo de Recorrência Empírico (anos)",
	}
	if err := writeTable(f, SheetAnalysis, header, rows); err != nil {
		return err
	}
	if err := formatColumns(f, SheetAnalysis, "A", "A", 10, st.centered); err != nil {
		return err
	}
	return formatColumns(f, SheetAnalysis, "B", "D", 25, st.number)
}

func writeYearSheets(f *excelize.File, report domain.Report, st styles) error {
	for _, year := range report.Years() {
		sheet := strconv.Itoa(year)
		if err := newSheet(f, sheet); err != nil {
			return err
		}
		obs := report.ObservationsForYear(year)
		rows := make([][]any, len(obs))
		for i, o := range obs {
			rows[i] = []any{o.Date, o.Total}
		}
		if err := writeTable(f, sheet, []any{"Data", "Total"}, rows); err != nil {
			return err
		}
		if err := formatColumns(f, sheet, "A", "A", 15, st.date); err != nil {
			return err
		}
		if err := formatColumns(f, sheet, "B", "B", 15, st.number); err != nil {
			return err
		}
	}
	return nil
}
