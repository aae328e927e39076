package pump

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/aouyang1/go-pumpcurve/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewOptionsValidate(t *testing.T) {
	var summary, chart bytes.Buffer

	testData := map[string]struct {
		opt *ViewOptions
		err error
	}{
		"nil":              {nil, ErrNoSummaryWriter},
		"no summary":       {&ViewOptions{Chart: &chart}, ErrNoSummaryWriter},
		"no chart":         {&ViewOptions{Summary: &summary}, ErrNoChartWriter},
		"negative samples": {&ViewOptions{Summary: &summary, Chart: &chart, SampleCount: -1}, ErrNonPositiveSamples},
		"valid":            {&ViewOptions{Summary: &summary, Chart: &chart}, nil},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			opt, err := td.opt.Validate()
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, DefaultSampleCount, opt.SampleCount)
			assert.Equal(t, DefaultChartWidth, opt.Width)
			assert.Equal(t, DefaultChartHeight, opt.Height)
		})
	}
}

func TestViewUpdate(t *testing.T) {
	var summary, chart bytes.Buffer
	v, err := NewView(&ViewOptions{Summary: &summary, Chart: &chart, SampleCount: 50})
	require.Nil(t, err)

	m, err := NewModel(linearDataset(), &ModelOptions{Degree: 1})
	require.Nil(t, err)

	require.Nil(t, v.Update(m))

	assert.Contains(t, summary.String(), "Pump: Pump A")
	assert.Contains(t, summary.String(), "1, 2")

	html := chart.String()
	assert.Contains(t, html, "Performance Curves for Pump A")
	assert.Contains(t, html, "Head Data")
	assert.Contains(t, html, "Eff. Data")
	assert.Contains(t, html, "Flow Rate (gpm)")
	assert.Contains(t, html, "Head (ft)")

	assert.ErrorIs(t, v.Update(nil), ErrNoModel)

	var nilView *View
	assert.ErrorIs(t, nilView.Update(m), ErrUninitializedView)
}

func TestViewTitleOverride(t *testing.T) {
	var summary, chart bytes.Buffer
	v, err := NewView(&ViewOptions{Summary: &summary, Chart: &chart, Title: "Station 7 Booster"})
	require.Nil(t, err)

	m, err := NewModel(linearDataset(), &ModelOptions{Degree: 1})
	require.Nil(t, err)
	require.Nil(t, v.Update(m))

	assert.Contains(t, chart.String(), "Station 7 Booster")
	assert.NotContains(t, chart.String(), "Performance Curves for")
}

func TestLinePerformanceErrors(t *testing.T) {
	_, err := LinePerformance(nil, &Curves{}, nil)
	assert.ErrorIs(t, err, ErrNoDataset)

	_, err = LinePerformance(linearDataset(), nil, nil)
	assert.ErrorIs(t, err, ErrNoCurves)

	curves := &Curves{Head: SampledCurve{X: []float64{0, 1}, Y: []float64{1}}}
	_, err = LinePerformance(linearDataset(), curves, nil)
	assert.ErrorIs(t, err, errCurveLengthMismatch)
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) {
	return 0, errors.New("closed")
}

func TestViewUpdateWriterError(t *testing.T) {
	m, err := NewModel(linearDataset(), &ModelOptions{Degree: 1})
	require.Nil(t, err)

	var summary bytes.Buffer
	v, err := NewView(&ViewOptions{Summary: &summary, Chart: failWriter{}})
	require.Nil(t, err)
	assert.Error(t, v.Update(m))
	assert.Zero(t, summary.Len(), "summary not written when the chart cannot be")

	var chart bytes.Buffer
	v, err = NewView(&ViewOptions{Summary: failWriter{}, Chart: &chart})
	require.Nil(t, err)
	assert.Error(t, v.Update(m))
}

func TestControllerKeepsModelOnViewError(t *testing.T) {
	var summary bytes.Buffer
	v, err := NewView(&ViewOptions{Summary: &summary, Chart: failWriter{}})
	require.Nil(t, err)

	c, err := NewController(v, nil)
	require.Nil(t, err)

	assert.Error(t, c.ImportFromFile("testdata/pump_a.txt"))
	assert.Nil(t, c.Model())
	assert.Zero(t, summary.Len())
}

func TestControllerImport(t *testing.T) {
	var summary, chart bytes.Buffer
	v, err := NewView(&ViewOptions{Summary: &summary, Chart: &chart})
	require.Nil(t, err)

	c, err := NewController(v, nil)
	require.Nil(t, err)
	assert.Nil(t, c.Model())

	require.Nil(t, c.ImportFromFile("testdata/pump_a.txt"))
	first := c.Model()
	require.NotNil(t, first)
	assert.Equal(t, "Pump A 3x4x9", first.Dataset.Name)
	assert.Contains(t, chart.String(), "Performance Curves for Pump A 3x4x9")

	// too few rows for a cubic keeps the previous model
	err = c.ImportFromReader(strings.NewReader("Pump B\nheader\ngpm ft\n1 2 3\n2 3 4\n"))
	require.ErrorIs(t, err, models.ErrDataInsufficient)
	assert.Same(t, first, c.Model())

	err = c.ImportFromReader(strings.NewReader("Pump B\n"))
	require.ErrorIs(t, err, ErrMissingHeader)
	assert.Same(t, first, c.Model())

	err = c.ImportFromFile("testdata/does_not_exist.txt")
	require.ErrorIs(t, err, os.ErrNotExist)
	assert.Same(t, first, c.Model())

	require.Nil(t, c.ImportFromReader(strings.NewReader("Pump C\nheader\nm3/h m\n0 50 0\n10 48 40\n20 44 60\n30 38 65\n40 30 58\n")))
	assert.Equal(t, "Pump C", c.Model().Dataset.Name)
}

func TestNewControllerErrors(t *testing.T) {
	_, err := NewController(nil, nil)
	assert.ErrorIs(t, err, ErrNoView)

	var summary, chart bytes.Buffer
	v, err := NewView(&ViewOptions{Summary: &summary, Chart: &chart})
	require.Nil(t, err)
	_, err = NewController(v, &ModelOptions{Degree: -1})
	assert.ErrorIs(t, err, ErrNegativeDegree)
}
