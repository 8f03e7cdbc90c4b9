package tracker

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Namer is a source of named data that can be charted
type Namer interface {
	Name() string
	Data() []float64
}

// Chart renders each of the series as a line of one HTML line chart
// titled title. The x axis is the index into each series.
func Chart(w io.Writer, title string, series ...Namer) error {
	if len(series) == 0 {
		return fmt.Errorf("chart: no series to chart")
	}

	numSteps := 0
	for _, s := range series {
		if n := len(s.Data()); n > numSteps {
			numSteps = n
		}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: title,
		}),
	)

	steps := make([]string, numSteps)
	for i := range steps {
		steps[i] = fmt.Sprintf("%d", i)
	}
	line.SetXAxis(steps)

	for _, s := range series {
		data := s.Data()
		items := make([]opts.LineData, 0, len(data))
		for _, v := range data {
			items = append(items, opts.LineData{Value: v})
		}
		line.AddSeries(s.Name(), items)
	}

	return line.Render(w)
}

// SaveChart renders the chart of Chart to the HTML file filename
func SaveChart(filename, title string, series ...Namer) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("saveChart: could not create chart file: %v", err)
	}
	defer file.Close()

	if err := Chart(file, title, series...); err != nil {
		return fmt.Errorf("saveChart: %v", err)
	}
	return nil
}
