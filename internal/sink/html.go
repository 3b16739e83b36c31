package sink

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/remint-io/remint/internal/config"
)

// timeColumn is the offset of the sample timestamp within a category header.
const timeColumn = 1

// missingPoint is the echarts placeholder for an absent data point.
const missingPoint = "-"

// HTML renders one chart page per category into a directory using go-echarts.
// Categories without a pivot spec chart every column after the timestamp.
type HTML struct {
	dir     string
	order   []string
	rows    map[string][][]string
	reports map[string]config.PivotSpec
}

// NewHTML creates an HTML chart sink writing into dir.
func NewHTML(dir string) *HTML {
	return &HTML{
		dir:     dir,
		rows:    make(map[string][][]string),
		reports: make(map[string]config.PivotSpec),
	}
}

// PutRow buffers one row for the category's page.
func (s *HTML) PutRow(category string, fields []string) error {
	if _, seen := s.rows[category]; !seen {
		s.order = append(s.order, category)
	}

	row := make([]string, len(fields))
	copy(row, fields)
	s.rows[category] = append(s.rows[category], row)

	return nil
}

// ApplyReport validates the pivot spec's data columns against the category's
// header and selects them for charting.
func (s *HTML) ApplyReport(category string, spec config.PivotSpec) error {
	rows := s.rows[category]
	if len(rows) == 0 {
		return fmt.Errorf("%w: %s", ErrNoRows, category)
	}

	for _, name := range spec.Data {
		if columnOffset(rows[0], name) < 0 {
			return fmt.Errorf("%w: %s.%s", ErrReportColumn, category, name)
		}
	}

	s.reports[category] = spec

	return nil
}

// Finish renders every category page.
func (s *HTML) Finish() error {
	if len(s.order) == 0 {
		return nil
	}

	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	for _, category := range s.order {
		if err := s.renderPage(category); err != nil {
			return err
		}
	}

	return nil
}

func (s *HTML) renderPage(category string) error {
	rows := s.rows[category]
	header := rows[0]
	data := rows[1:]

	labels := make([]string, len(data))
	for i, row := range data {
		if timeColumn < len(row) {
			labels[i] = row[timeColumn]
		}
	}

	spec := s.reports[category]

	chart := buildChart(category, header, data, labels, spec)

	path := filepath.Join(s.dir, safeName(category)+".html")

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	defer file.Close()

	if renderErr := chart.Render(file); renderErr != nil {
		return fmt.Errorf("render %s: %w", category, renderErr)
	}

	return nil
}

// renderable is what a built chart must support; both line and bar charts
// satisfy it.
type renderable interface {
	Render(w io.Writer) error
}

func buildChart(category string, header []string, data [][]string, labels []string, spec config.PivotSpec) renderable {
	columns := spec.Data
	if len(columns) == 0 && len(header) > timeColumn+1 {
		columns = header[timeColumn+1:]
	}

	if spec.Chart == "bar" {
		bar := charts.NewBar()
		bar.SetGlobalOptions(chartOptions(category)...)
		bar.SetXAxis(labels)

		for _, name := range columns {
			bar.AddSeries(name, barSeries(columnValues(header, data, name)))
		}

		return bar
	}

	line := charts.NewLine()
	line.SetGlobalOptions(chartOptions(category)...)
	line.SetXAxis(labels)

	for _, name := range columns {
		line.AddSeries(name, lineSeries(columnValues(header, data, name)),
			charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}),
		)
	}

	return line
}

func chartOptions(category string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: category}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	}
}

func columnValues(header []string, data [][]string, name string) []interface{} {
	offset := columnOffset(header, name)
	values := make([]interface{}, len(data))

	for i, row := range data {
		values[i] = missingPoint

		if offset >= 0 && offset < len(row) && row[offset] != "" {
			if number, err := strconv.ParseFloat(row[offset], 64); err == nil {
				values[i] = number
			}
		}
	}

	return values
}

func lineSeries(values []interface{}) []opts.LineData {
	series := make([]opts.LineData, len(values))
	for i, v := range values {
		series[i] = opts.LineData{Value: v}
	}

	return series
}

func barSeries(values []interface{}) []opts.BarData {
	series := make([]opts.BarData, len(values))
	for i, v := range values {
		series[i] = opts.BarData{Value: v}
	}

	return series
}
