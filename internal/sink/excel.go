package sink

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/remint-io/remint/internal/config"
)

// pivotAnchorRange is where a pivot table is placed on its report sheet. The
// range only anchors the table; it grows as needed.
const pivotAnchorRange = "A3:M40"

// chartAnchorCell is where a chart is placed on a report sheet.
const chartAnchorCell = "A22"

// headerRowIndex is the 1-based sheet row holding the category header.
const headerRowIndex = 1

// ErrReportColumn indicates a pivot spec names a column that is not part of
// the category's header.
var ErrReportColumn = errors.New("report column not in category header")

// ErrNoRows indicates a report was requested for a category that produced no
// rows.
var ErrNoRows = errors.New("no rows for category")

// Excel builds a single workbook with one sheet per category, plus a report
// sheet with a pivot table and chart for every category carrying a pivot
// spec. Rows are buffered in memory and written in one pass on Finish, one
// stream writer per sheet.
type Excel struct {
	path    string
	order   []string
	rows    map[string][][]string
	reports map[string]config.PivotSpec
}

// NewExcel creates an Excel sink that saves the workbook at path.
func NewExcel(path string) *Excel {
	return &Excel{
		path:    path,
		rows:    make(map[string][][]string),
		reports: make(map[string]config.PivotSpec),
	}
}

// PutRow buffers one row for the category's sheet.
func (s *Excel) PutRow(category string, fields []string) error {
	if _, seen := s.rows[category]; !seen {
		s.order = append(s.order, category)
	}

	row := make([]string, len(fields))
	copy(row, fields)
	s.rows[category] = append(s.rows[category], row)

	return nil
}

// ApplyReport validates the pivot spec against the category's header and
// schedules a pivot table and chart for Finish.
func (s *Excel) ApplyReport(category string, spec config.PivotSpec) error {
	rows := s.rows[category]
	if len(rows) == 0 {
		return fmt.Errorf("%w: %s", ErrNoRows, category)
	}

	header := rows[0]

	for _, group := range [][]string{spec.Rows, spec.Cols, spec.Pages, spec.Data, spec.Hide} {
		for _, name := range group {
			if columnOffset(header, name) < 0 {
				return fmt.Errorf("%w: %s.%s", ErrReportColumn, category, name)
			}
		}
	}

	s.reports[category] = spec

	return nil
}

// Finish writes all buffered rows, builds the scheduled reports, and saves
// the workbook.
func (s *Excel) Finish() error {
	book := excelize.NewFile()

	defer book.Close()

	for _, category := range s.order {
		if err := s.writeSheet(book, category); err != nil {
			return err
		}
	}

	for _, category := range s.order {
		spec, ok := s.reports[category]
		if !ok {
			continue
		}

		if err := s.buildReport(book, category, spec); err != nil {
			return err
		}
	}

	if len(s.order) > 0 {
		if err := book.DeleteSheet("Sheet1"); err != nil {
			return fmt.Errorf("drop default sheet: %w", err)
		}
	}

	if err := book.SaveAs(s.path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}

	return nil
}

func (s *Excel) writeSheet(book *excelize.File, category string) error {
	sheet := sheetName(category)

	if _, err := book.NewSheet(sheet); err != nil {
		return fmt.Errorf("sheet %s: %w", category, err)
	}

	writer, err := book.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("stream writer %s: %w", category, err)
	}

	for i, row := range s.rows[category] {
		cell, cellErr := excelize.CoordinatesToCellName(1, i+1)
		if cellErr != nil {
			return fmt.Errorf("cell name: %w", cellErr)
		}

		values := make([]interface{}, len(row))
		for j, field := range row {
			values[j] = cellValue(field, i == 0)
		}

		if rowErr := writer.SetRow(cell, values); rowErr != nil {
			return fmt.Errorf("write row %d of %s: %w", i+1, category, rowErr)
		}
	}

	if flushErr := writer.Flush(); flushErr != nil {
		return fmt.Errorf("flush sheet %s: %w", category, flushErr)
	}

	return nil
}

func (s *Excel) buildReport(book *excelize.File, category string, spec config.PivotSpec) error {
	rows := s.rows[category]
	header := rows[0]
	sheet := sheetName(category)
	reportSheet := reportSheetName(category)

	if _, err := book.NewSheet(reportSheet); err != nil {
		return fmt.Errorf("report sheet %s: %w", reportSheet, err)
	}

	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return fmt.Errorf("column name: %w", err)
	}

	dataRange := fmt.Sprintf("%s!A1:%s%d", sheet, lastCol, len(rows))

	pivot := &excelize.PivotTableOptions{
		DataRange:       dataRange,
		PivotTableRange: fmt.Sprintf("%s!%s", reportSheet, pivotAnchorRange),
		Rows:            pivotFields(spec.Rows, ""),
		Columns:         pivotFields(spec.Cols, ""),
		Filter:          pivotFields(spec.Pages, ""),
		Data:            pivotFields(spec.Data, "Sum"),
		RowGrandTotals:  true,
		ColGrandTotals:  true,
	}

	if err := book.AddPivotTable(pivot); err != nil {
		return fmt.Errorf("pivot table %s: %w", category, err)
	}

	if err := s.addChart(book, category, reportSheet, spec); err != nil {
		return err
	}

	for _, name := range spec.Hide {
		col, colErr := excelize.ColumnNumberToName(columnOffset(header, name) + 1)
		if colErr != nil {
			return fmt.Errorf("column name: %w", colErr)
		}

		if hideErr := book.SetColVisible(sheet, col, false); hideErr != nil {
			return fmt.Errorf("hide column %s.%s: %w", category, name, hideErr)
		}
	}

	return nil
}

func (s *Excel) addChart(book *excelize.File, category, reportSheet string, spec config.PivotSpec) error {
	if len(spec.Data) == 0 {
		return nil
	}

	rows := s.rows[category]
	header := rows[0]
	sheet := sheetName(category)

	// X axis follows the category's sample timestamps (second column).
	timeCol, err := excelize.ColumnNumberToName(2)
	if err != nil {
		return fmt.Errorf("column name: %w", err)
	}

	categoriesRange := fmt.Sprintf("'%s'!$%s$2:$%s$%d", sheet, timeCol, timeCol, len(rows))
	series := make([]excelize.ChartSeries, 0, len(spec.Data))

	for _, name := range spec.Data {
		col, colErr := excelize.ColumnNumberToName(columnOffset(header, name) + 1)
		if colErr != nil {
			return fmt.Errorf("column name: %w", colErr)
		}

		series = append(series, excelize.ChartSeries{
			Name:       fmt.Sprintf("'%s'!$%s$%d", sheet, col, headerRowIndex),
			Categories: categoriesRange,
			Values:     fmt.Sprintf("'%s'!$%s$2:$%s$%d", sheet, col, col, len(rows)),
		})
	}

	chart := &excelize.Chart{
		Type:   chartType(spec.Chart),
		Series: series,
		Title:  []excelize.RichTextRun{{Text: category}},
	}

	if err := book.AddChart(reportSheet, chartAnchorCell, chart); err != nil {
		return fmt.Errorf("chart %s: %w", category, err)
	}

	return nil
}

func chartType(name string) excelize.ChartType {
	switch name {
	case "bar":
		return excelize.Bar
	case "col":
		return excelize.Col
	case "area":
		return excelize.Area
	default:
		return excelize.Line
	}
}

func pivotFields(names []string, subtotal string) []excelize.PivotTableField {
	fields := make([]excelize.PivotTableField, len(names))
	for i, name := range names {
		fields[i] = excelize.PivotTableField{Data: name, Subtotal: subtotal}
	}

	return fields
}

func columnOffset(header []string, name string) int {
	for i, field := range header {
		if field == name {
			return i
		}
	}

	return -1
}

func cellValue(field string, isHeader bool) interface{} {
	if isHeader || field == "" {
		return field
	}

	if number, err := strconv.ParseFloat(field, 64); err == nil {
		return number
	}

	return field
}
