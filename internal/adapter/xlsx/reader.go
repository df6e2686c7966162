package xlsx

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/rainfall-recurrence/internal/config"
	"github.com/couchcryptid/rainfall-recurrence/internal/domain"
	"github.com/xuri/excelize/v2"
)

// dateLayouts are tried in order for date cells stored as text.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"02/01/2006",
	"2006/01/02",
	"01/2006",
	"2006-01",
}

// Reader loads rainfall observations from one sheet of a workbook.
// It implements pipeline.Extractor.
type Reader struct {
	path        string
	sheet       string
	dateColumn  string
	totalColumn string
	logger      *slog.Logger
}

// NewReader creates a Reader for the configured input workbook.
func NewReader(cfg config.InputConfig, logger *slog.Logger) *Reader {
	return &Reader{
		path:        cfg.Path,
		sheet:       cfg.Sheet,
		dateColumn:  cfg.DateColumn,
		totalColumn: cfg.TotalColumn,
		logger:      logger,
	}
}

// Source names the workbook being read.
func (r *Reader) Source() string {
	return r.path
}

// Extract reads every dated, non-empty total from the sheet. Missing
// sheets or columns and unparseable cells are reported as domain.ErrInput.
func (r *Reader) Extract(ctx context.Context) ([]domain.Observation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook %s: %v", domain.ErrInput, r.path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(r.sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %v", domain.ErrInput, r.sheet, err)
	}
	return r.parseRows(rows)
}

func (r *Reader) parseRows(rows [][]string) ([]domain.Observation, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %q is empty", domain.ErrInput, r.sheet)
	}

	dateIdx := columnIndex(rows[0], r.dateColumn)
	totalIdx := columnIndex(rows[0], r.totalColumn)
	if dateIdx < 0 || totalIdx < 0 {
		return nil, fmt.Errorf("%w: sheet %q must contain columns %q and %q",
			domain.ErrInput, r.sheet, r.dateColumn, r.totalColumn)
	}

	obs := make([]domain.Observation, 0, len(rows)-1)
	skipped := 0
	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, after the header
		dateCell := strings.TrimSpace(cell(row, dateIdx))
		totalCell := strings.TrimSpace(cell(row, totalIdx))

		if dateCell == "" || totalCell == "" {
			if dateCell != "" || totalCell != "" {
				skipped++
			}
			continue
		}

		date, err := parseDate(dateCell)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", domain.ErrInput, rowNum, err)
		}
		total, err := parseTotal(totalCell)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", domain.ErrInput, rowNum, err)
		}
		obs = append(obs, domain.Observation{Date: date, Total: total})
	}

	if skipped > 0 {
		r.logger.Debug("skipped incomplete rows", "sheet", r.sheet, "rows", skipped)
	}
	if len(obs) == 0 {
		return nil, fmt.Errorf("%w: sheet %q has no observations", domain.ErrInput, r.sheet)
	}
	return obs, nil
}

func columnIndex(header []string, name string) int {
	for i, h := range header {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

// Whole numbers in this range are calendar years, not Excel serials
// (serials 1800-2200 fall in 1904-1906).
const (
	minBareYear = 1800
	maxBareYear = 2200
)

// parseDate accepts bare years, Excel serial dates (raw cell values) and the
// text layouts in dateLayouts. A bare year maps to January 1st.
func parseDate(s string) (time.Time, error) {
	if year, err := strconv.Atoi(s); err == nil && year >= minBareYear && year <= maxBareYear {
		return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC), nil
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, fmt.Errorf("date %q: %w", s, err)
		}
		return t, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// parseTotal parses a non-negative rainfall total. A decimal comma is
// accepted when the value has no decimal point.
func parseTotal(s string) (float64, error) {
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("total %q is not a number", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("total %v is negative", v)
	}
	return v, nil
}
