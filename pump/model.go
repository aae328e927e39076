package pump

import (
	"errors"
	"fmt"

	"github.com/aouyang1/go-pumpcurve/models"
)

const (
	DefaultDegree      = 3
	DefaultSampleCount = 500
)

var (
	ErrNoDataset      = errors.New("no pump dataset")
	ErrNegativeDegree = errors.New("negative fit degree")
)

// ModelOptions configures how the pump curves are fit
type ModelOptions struct {
	// Degree of the polynomial fit for both head and efficiency
	Degree int

	// FitOptions are passed through to each polynomial fit. nil uses the defaults.
	FitOptions *models.PolynomialOptions
}

// Validate runs basic validation on pump model options
func (o *ModelOptions) Validate() (*ModelOptions, error) {
	if o == nil {
		o = NewDefaultModelOptions()
	}
	if o.Degree < 0 {
		return nil, fmt.Errorf("got %d, %w", o.Degree, ErrNegativeDegree)
	}
	return o, nil
}

// NewDefaultModelOptions returns cubic fits with the default polynomial options
func NewDefaultModelOptions() *ModelOptions {
	return &ModelOptions{
		Degree:     DefaultDegree,
		FitOptions: models.NewDefaultPolynomialOptions(),
	}
}

// Model pairs a pump dataset with the head and efficiency curves fit against flow
type Model struct {
	opt *ModelOptions

	Dataset    *Dataset
	Head       models.Curve
	Efficiency models.Curve
}

// NewModel fits head and efficiency against flow for the dataset
func NewModel(ds *Dataset, opt *ModelOptions) (*Model, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	if ds == nil {
		return nil, ErrNoDataset
	}

	head, err := models.NewPolynomialRegression(opt.FitOptions)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize head fit, %w", err)
	}
	if err := head.Fit(ds.Flow, ds.Head, opt.Degree); err != nil {
		return nil, fmt.Errorf("unable to fit head curve, %w", err)
	}

	eff, err := models.NewPolynomialRegression(opt.FitOptions)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize efficiency fit, %w", err)
	}
	if err := eff.Fit(ds.Flow, ds.Efficiency, opt.Degree); err != nil {
		return nil, fmt.Errorf("unable to fit efficiency curve, %w", err)
	}

	return &Model{
		opt:        opt,
		Dataset:    ds,
		Head:       head,
		Efficiency: eff,
	}, nil
}

// Degree returns the polynomial degree both curves were fit with
func (m *Model) Degree() int {
	return m.opt.Degree
}

// SampledCurve is a fitted curve evaluated on an evenly spaced grid along with the r-squared
// of the fit
type SampledCurve struct {
	X        []float64 `json:"x"`
	Y        []float64 `json:"y"`
	RSquared float64   `json:"r_squared"`
}

// Curves holds the sampled head and efficiency fits
type Curves struct {
	Head       SampledCurve `json:"head"`
	Efficiency SampledCurve `json:"efficiency"`
}

// Curves samples both fits on sampleCount points spanning the measured flow range
func (m *Model) Curves(sampleCount int) (*Curves, error) {
	head, err := sample(m.Head, m.opt.Degree, sampleCount)
	if err != nil {
		return nil, fmt.Errorf("unable to sample head curve, %w", err)
	}
	eff, err := sample(m.Efficiency, m.opt.Degree, sampleCount)
	if err != nil {
		return nil, fmt.Errorf("unable to sample efficiency curve, %w", err)
	}
	return &Curves{Head: head, Efficiency: eff}, nil
}

func sample(c models.Curve, degree, sampleCount int) (SampledCurve, error) {
	x, y, r2, err := c.SampleCurve(degree, sampleCount)
	if err != nil {
		return SampledCurve{}, err
	}
	return SampledCurve{X: x, Y: y, RSquared: r2}, nil
}
