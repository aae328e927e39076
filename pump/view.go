package pump

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const (
	DefaultChartWidth  = "900px"
	DefaultChartHeight = "500px"
)

var (
	ErrNoSummaryWriter     = errors.New("no summary writer")
	ErrNoChartWriter       = errors.New("no chart writer")
	ErrNonPositiveSamples  = errors.New("chart sample count must be positive")
	ErrNoModel             = errors.New("no pump model to display")
	ErrUninitializedView   = errors.New("uninitialized view")
	ErrNoCurves            = errors.New("no sampled curves to plot")
	errCurveLengthMismatch = errors.New("curve x and y have different lengths")
)

// ViewOptions lists every output the view draws into. Summary and Chart are required.
type ViewOptions struct {
	// Summary receives the text report of the fits
	Summary io.Writer

	// Chart receives the html performance chart
	Chart io.Writer

	// Title overrides the chart title. Defaults to "Performance Curves for <pump name>".
	Title string

	Width  string
	Height string

	// SampleCount is the number of points each fitted curve is drawn with
	SampleCount int
}

// Validate checks that the required outputs are set and fills in defaults
func (o *ViewOptions) Validate() (*ViewOptions, error) {
	if o == nil {
		return nil, ErrNoSummaryWriter
	}
	if o.Summary == nil {
		return nil, ErrNoSummaryWriter
	}
	if o.Chart == nil {
		return nil, ErrNoChartWriter
	}
	if o.SampleCount < 0 {
		return nil, fmt.Errorf("got %d, %w", o.SampleCount, ErrNonPositiveSamples)
	}
	if o.SampleCount == 0 {
		o.SampleCount = DefaultSampleCount
	}
	if o.Width == "" {
		o.Width = DefaultChartWidth
	}
	if o.Height == "" {
		o.Height = DefaultChartHeight
	}
	return o, nil
}

// View renders a pump model. It only reads from the model and never mutates it.
type View struct {
	opt *ViewOptions
}

// NewView validates the options and returns a view ready to display models
func NewView(opt *ViewOptions) (*View, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	return &View{opt: opt}, nil
}

// Update renders the performance chart and the text summary for the model. Both are built in
// memory first so a model that cannot be displayed leaves the outputs untouched, and the
// summary is only written once the chart has been.
func (v *View) Update(m *Model) error {
	if v == nil || v.opt == nil {
		return ErrUninitializedView
	}
	if m == nil {
		return ErrNoModel
	}

	report, err := m.Report()
	if err != nil {
		return err
	}
	curves, err := m.Curves(v.opt.SampleCount)
	if err != nil {
		return err
	}
	line, err := LinePerformance(m.Dataset, curves, v.opt)
	if err != nil {
		return err
	}

	var chart, summary bytes.Buffer
	page := components.NewPage()
	page.AddCharts(line)
	if err := page.Render(&chart); err != nil {
		return fmt.Errorf("unable to render chart, %w", err)
	}
	if err := report.TablePrint(&summary, "", "  "); err != nil {
		return fmt.Errorf("unable to render summary, %w", err)
	}

	if _, err := chart.WriteTo(v.opt.Chart); err != nil {
		return fmt.Errorf("unable to write chart, %w", err)
	}
	if _, err := summary.WriteTo(v.opt.Summary); err != nil {
		return fmt.Errorf("unable to write summary, %w", err)
	}
	return nil
}

// LinePerformance generates an echart line chart with the measured head and its fit on the
// left axis and the measured efficiency and its fit on the right axis, both against flow.
func LinePerformance(ds *Dataset, curves *Curves, opt *ViewOptions) (*charts.Line, error) {
	if ds == nil {
		return nil, ErrNoDataset
	}
	if curves == nil {
		return nil, ErrNoCurves
	}
	if opt == nil {
		opt = &ViewOptions{Width: DefaultChartWidth, Height: DefaultChartHeight}
	}

	title := opt.Title
	if title == "" {
		title = fmt.Sprintf("Performance Curves for %s", ds.Name)
	}

	headData, err := pointData(ds.Flow, ds.Head)
	if err != nil {
		return nil, fmt.Errorf("head data, %w", err)
	}
	headFit, err := pointData(curves.Head.X, curves.Head.Y)
	if err != nil {
		return nil, fmt.Errorf("head fit, %w", err)
	}
	effData, err := pointData(ds.Flow, ds.Efficiency)
	if err != nil {
		return nil, fmt.Errorf("efficiency data, %w", err)
	}
	effFit, err := pointData(curves.Efficiency.X, curves.Efficiency.Y)
	if err != nil {
		return nil, fmt.Errorf("efficiency fit, %w", err)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(
			opts.Initialization{
				PageTitle: title,
				Width:     opt.Width,
				Height:    opt.Height,
			},
		),
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
		charts.WithXAxisOpts(
			opts.XAxis{
				Name: fmt.Sprintf("Flow Rate (%s)", ds.FlowUnits),
				Type: "value",
			},
		),
		charts.WithYAxisOpts(
			opts.YAxis{
				Name: fmt.Sprintf("Head (%s)", ds.HeadUnits),
				Type: "value",
			},
		),
	)
	line.ExtendYAxis(
		opts.YAxis{
			Name: "Efficiency (%)",
			Type: "value",
		},
	)

	effAxis := charts.WithLineChartOpts(opts.LineChart{YAxisIndex: 1})
	line.AddSeries("Head Data", headData).
		AddSeries(fmt.Sprintf("Head Fit (R²=%.4f)", curves.Head.RSquared), headFit).
		AddSeries("Eff. Data", effData, effAxis).
		AddSeries(fmt.Sprintf("Eff. Fit (R²=%.4f)", curves.Efficiency.RSquared), effFit, effAxis)
	return line, nil
}

func pointData(x, y []float64) ([]opts.LineData, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("x has %d points and y has %d points, %w", len(x), len(y), errCurveLengthMismatch)
	}
	data := make([]opts.LineData, 0, len(x))
	for i := range x {
		data = append(data, opts.LineData{Value: []float64{x[i], y[i]}})
	}
	return data, nil
}
