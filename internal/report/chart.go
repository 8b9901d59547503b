package report

import (
	"bytes"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/rotisserie/eris"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/sells-group/shootings-cli/internal/analysis"
	"github.com/sells-group/shootings-cli/internal/locale"
)

// Chart renders the weekday counts as a bar chart.
type Chart interface {
	Render(counts []analysis.WeekdayCount, loc locale.Weekdays) error
	Path() string
}

// Chart formats.
const (
	FormatPNG  = "png"
	FormatHTML = "html"
)

// NewChart returns the chart writer for format, saving to path at the given size in inches.
func NewChart(format, path string, widthIn, heightIn float64) (Chart, error) {
	if widthIn <= 0 {
		widthIn = 10
	}
	if heightIn <= 0 {
		heightIn = 6
	}
	switch strings.ToLower(format) {
	case "", FormatPNG:
		return &PNGChart{path: path, width: vg.Length(widthIn) * vg.Inch, height: vg.Length(heightIn) * vg.Inch}, nil
	case FormatHTML:
		return &HTMLChart{path: path, width: widthIn, height: heightIn}, nil
	default:
		return nil, eris.Errorf("report: unknown chart format %q", format)
	}
}

// PNGChart draws the chart with gonum/plot. The image type follows the file extension.
type PNGChart struct {
	path          string
	width, height vg.Length
}

// Path returns where the chart is written.
func (c *PNGChart) Path() string { return c.path }

// Render draws one bar per weekday with its count above it and the day labels at 45°.
func (c *PNGChart) Render(counts []analysis.WeekdayCount, loc locale.Weekdays) error {
	values := make(plotter.Values, len(counts))
	names := make([]string, len(counts))
	maxVal := 0.0
	for i, wc := range counts {
		values[i] = float64(wc.Count)
		names[i] = wc.Label
		maxVal = math.Max(maxVal, values[i])
	}

	p := plot.New()
	p.Title.Text = loc.Title
	p.X.Label.Text = loc.XLabel
	p.Y.Label.Text = loc.YLabel

	bars, err := plotter.NewBarChart(values, vg.Points(30))
	if err != nil {
		return eris.Wrap(err, "report: build bar chart")
	}
	bars.Color = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)

	pts := make(plotter.XYs, len(counts))
	labels := make([]string, len(counts))
	for i, v := range values {
		pts[i] = plotter.XY{X: float64(i), Y: v + maxVal*0.01}
		labels[i] = strconv.Itoa(counts[i].Count)
	}
	lbl, err := plotter.NewLabels(plotter.XYLabels{XYs: pts, Labels: labels})
	if err != nil {
		return eris.Wrap(err, "report: build value labels")
	}
	for i := range lbl.TextStyle {
		lbl.TextStyle[i].XAlign = draw.XCenter
	}
	p.Add(lbl)

	p.NominalX(names...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	p.Y.Min = 0
	if maxVal > 0 {
		p.Y.Max = maxVal * 1.1
	}

	if err := ensureDir(c.path); err != nil {
		return err
	}
	if err := p.Save(c.width, c.height, c.path); err != nil {
		return eris.Wrapf(err, "report: save chart %s", c.path)
	}
	return nil
}

// HTMLChart writes an interactive go-echarts page.
type HTMLChart struct {
	path          string
	width, height float64
}

// Path returns where the chart is written.
func (c *HTMLChart) Path() string { return c.path }

// Render writes a bar chart page with value labels on top of each bar.
func (c *HTMLChart) Render(counts []analysis.WeekdayCount, loc locale.Weekdays) error {
	x := make([]string, len(counts))
	y := make([]opts.BarData, len(counts))
	for i, wc := range counts {
		x[i] = wc.Label
		y[i] = opts.BarData{Value: wc.Count}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: loc.Title,
			Width:     strconv.Itoa(int(c.width*96)) + "px",
			Height:    strconv.Itoa(int(c.height*96)) + "px",
		}),
		charts.WithTitleOpts(opts.Title{Title: loc.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: loc.XLabel, AxisLabel: &opts.AxisLabel{Rotate: 45, Interval: "0"}}),
		charts.WithYAxisOpts(opts.YAxis{Name: loc.YLabel}),
	)
	bar.SetXAxis(x).
		AddSeries(loc.YLabel, y,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)

	var buf bytes.Buffer
	if err := bar.Render(&buf); err != nil {
		return eris.Wrap(err, "report: render html chart")
	}
	if err := ensureDir(c.path); err != nil {
		return err
	}
	if err := os.WriteFile(c.path, buf.Bytes(), 0o644); err != nil {
		return eris.Wrapf(err, "report: write chart %s", c.path)
	}
	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "report: create dir %s", dir)
	}
	return nil
}
