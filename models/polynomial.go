package models

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"

	mat_ "github.com/aouyang1/go-pumpcurve/mat"
	"github.com/aouyang1/go-pumpcurve/stats"
	"gonum.org/v1/gonum/floats"
)

const (
	DefaultPrecision = 6
	DefaultSeparator = ", "
)

var (
	ErrNegativeTolerance = errors.New("negative rank tolerance")
	ErrNegativePrecision = errors.New("negative precision")
)

// PolynomialOptions represents input options to run the polynomial least squares fit
type PolynomialOptions struct {
	// Solver picks the factorization used to solve the least squares problem. Defaults to SolverSVD.
	Solver Solver

	// RankTolerance is an optional relative cut-off on the singular values, or the R diagonal,
	// of the scaled design matrix. When positive a fit whose numerical rank falls below
	// degree+1 fails with ErrSingularFit. 0.0 only rejects designs with too few distinct x
	// values and reports the rank at max(n, degree+1) * machine epsilon.
	RankTolerance float64

	// Precision is the number of significant digits used when rendering coefficients as text.
	// 0 selects DefaultPrecision.
	Precision int

	// Separator is placed between coefficients when rendering them as text.
	Separator string
}

// Validate runs basic validation on polynomial options
func (p *PolynomialOptions) Validate() (*PolynomialOptions, error) {
	if p == nil {
		p = NewDefaultPolynomialOptions()
	}

	if p.Solver == "" {
		p.Solver = SolverSVD
	}
	solver, err := ParseSolver(string(p.Solver))
	if err != nil {
		return nil, err
	}
	p.Solver = solver
	if p.RankTolerance < 0 {
		return nil, ErrNegativeTolerance
	}
	if p.Precision < 0 {
		return nil, ErrNegativePrecision
	}
	if p.Precision == 0 {
		p.Precision = DefaultPrecision
	}
	if p.Separator == "" {
		p.Separator = DefaultSeparator
	}
	return p, nil
}

// NewDefaultPolynomialOptions returns a default set of polynomial fit options
func NewDefaultPolynomialOptions() *PolynomialOptions {
	return &PolynomialOptions{
		Solver:    SolverSVD,
		Precision: DefaultPrecision,
		Separator: DefaultSeparator,
	}
}

// PolynomialRegression fits p(t) = c0 + c1*t + ... + cd*t^d to paired samples by least squares.
// An instance is not safe for concurrent use. Callers must serialize Fit against every other
// method.
type PolynomialRegression struct {
	opt *PolynomialOptions

	// samples used by the last successful fit
	x []float64
	y []float64

	// coefficients in powers of t = (x - shift) / scale, used for evaluation
	tcoef []float64
	shift float64
	scale float64

	// coefficients in powers of x
	coef   []float64
	degree int
	fitted bool
}

// NewPolynomialRegression initializes an unfitted polynomial model
func NewPolynomialRegression(opt *PolynomialOptions) (*PolynomialRegression, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	return &PolynomialRegression{
		opt: opt,
	}, nil
}

// Fit solves for the least squares coefficients of a polynomial of the given degree. A
// successful fit replaces any previous one while a failed fit leaves it untouched.
func (p *PolynomialRegression) Fit(x, y []float64, degree int) error {
	if p == nil || p.opt == nil {
		return ErrNoOptions
	}
	if degree < 0 {
		return fmt.Errorf("got degree %d, %w", degree, ErrNegativeDegree)
	}
	if len(x) != len(y) {
		return fmt.Errorf("x has %d samples and y has %d samples, %w", len(x), len(y), ErrTargetLenMismatch)
	}
	n := degree + 1
	if len(x) < n {
		return fmt.Errorf("got %d samples for degree %d, need at least %d, %w", len(x), degree, n, ErrDataInsufficient)
	}
	for i := range x {
		if !isFinite(x[i]) || !isFinite(y[i]) {
			return fmt.Errorf("at sample %d, %w", i, ErrNonFiniteSample)
		}
	}

	// a Vandermonde matrix has rank min(distinct x, degree+1)
	if distinct := countDistinct(x); distinct < n {
		return fmt.Errorf("got %d distinct x values for degree %d, %w", distinct, degree, ErrSingularFit)
	}

	// map x onto [-1, 1] so the powers stay well conditioned far from the origin
	shift, scale := centerScale(x)
	t := make([]float64, len(x))
	for i, xi := range x {
		t[i] = (xi - shift) / scale
	}

	v, err := mat_.NewVandermonde(t, degree)
	if err != nil {
		return err
	}
	norms := mat_.EquilibrateCols(v)
	for j, norm := range norms {
		if norm == 0 || math.IsInf(norm, 0) {
			return fmt.Errorf("column for power %d has norm %g, %w", j, norm, ErrSingularFit)
		}
	}

	rcond := p.opt.RankTolerance
	if rcond == 0 {
		rcond = float64(max(len(x), n)) * machineEpsilon
	}

	sol, err := solveLeastSquares(p.opt.Solver, v, y, rcond)
	if err != nil {
		return err
	}
	if p.opt.RankTolerance > 0 && sol.rank < n {
		return fmt.Errorf("numerical rank %d for %d coefficients at tolerance %g, %w", sol.rank, n, rcond, ErrSingularFit)
	}

	// undo column equilibration
	tcoef := sol.coef
	floats.Div(tcoef, norms)
	for j, c := range tcoef {
		if !isFinite(c) {
			return fmt.Errorf("coefficient for power %d is %g, %w", j, c, ErrSingularFit)
		}
	}

	slog.Debug("fit polynomial",
		"degree", degree,
		"samples", len(x),
		"solver", string(p.opt.Solver),
		"rank", sol.rank,
	)

	p.x = append(make([]float64, 0, len(x)), x...)
	p.y = append(make([]float64, 0, len(y)), y...)
	p.tcoef = tcoef
	p.shift = shift
	p.scale = scale
	p.coef = expandPowers(tcoef, shift, scale)
	p.degree = degree
	p.fitted = true
	return nil
}

// Fitted reports whether a fit has succeeded on this instance
func (p *PolynomialRegression) Fitted() bool {
	return p != nil && p.fitted
}

// Degree returns the degree of the last successful fit
func (p *PolynomialRegression) Degree() (int, error) {
	if !p.Fitted() {
		return 0, ErrNotFitted
	}
	return p.degree, nil
}

// Coef returns a copy of the fitted coefficients in ascending power order. Returns nil if
// no fit has been performed.
func (p *PolynomialRegression) Coef() []float64 {
	if !p.Fitted() {
		return nil
	}
	c := make([]float64, len(p.coef))
	copy(c, p.coef)
	return c
}

// CoefString renders the coefficients in ascending power order using the configured
// precision and separator, e.g. "1, 2" for p(t) = 1 + 2t.
func (p *PolynomialRegression) CoefString() (string, error) {
	if !p.Fitted() {
		return "", ErrNotFitted
	}
	parts := make([]string, 0, len(p.coef))
	for _, c := range p.coef {
		parts = append(parts, strconv.FormatFloat(c, 'g', p.opt.Precision, 64))
	}
	return strings.Join(parts, p.opt.Separator), nil
}

// Eq returns a string representation of the fitted polynomial represented as
// y ~ c0 + c1*x + c2*x^2 ...
func (p *PolynomialRegression) Eq() (string, error) {
	if !p.Fitted() {
		return "", ErrNotFitted
	}

	var sb strings.Builder
	sb.WriteString("y ~ ")
	sb.WriteString(strconv.FormatFloat(p.coef[0], 'g', p.opt.Precision, 64))
	for i := 1; i < len(p.coef); i++ {
		c := p.coef[i]
		sign := "+"
		if math.Signbit(c) {
			sign = "-"
		}
		term := strconv.FormatFloat(math.Abs(c), 'g', p.opt.Precision, 64) + "*x"
		if i > 1 {
			term += "^" + strconv.Itoa(i)
		}
		fmt.Fprintf(&sb, " %s %s", sign, term)
	}
	return sb.String(), nil
}

// Predict evaluates the fitted polynomial at every input point
func (p *PolynomialRegression) Predict(x []float64) ([]float64, error) {
	if !p.Fitted() {
		return nil, ErrNotFitted
	}
	res := make([]float64, len(x))
	for i, xi := range x {
		res[i] = Horner(p.tcoef, (xi-p.shift)/p.scale)
	}
	return res, nil
}

// SampleCurve evaluates the fitted polynomial on sampleCount evenly spaced points spanning the
// fitted x range inclusive and returns them with the r-squared of the fit against the
// samples it was fit with. degree must match the degree of the last fit.
func (p *PolynomialRegression) SampleCurve(degree, sampleCount int) ([]float64, []float64, float64, error) {
	if !p.Fitted() {
		return nil, nil, 0, ErrNotFitted
	}
	if degree != p.degree {
		return nil, nil, 0, fmt.Errorf("requested degree %d but fit has degree %d, %w", degree, p.degree, ErrDegreeMismatch)
	}
	if sampleCount < 1 {
		return nil, nil, 0, fmt.Errorf("got %d, %w", sampleCount, ErrNonPositiveSampleCount)
	}

	r2, err := p.rSquared()
	if err != nil {
		return nil, nil, 0, err
	}

	lo, hi := floats.Min(p.x), floats.Max(p.x)
	xs := make([]float64, sampleCount)
	if sampleCount == 1 {
		xs[0] = lo
	} else {
		floats.Span(xs, lo, hi)
		// step accumulation can land an ulp away from the fitted max
		xs[sampleCount-1] = hi
	}

	ys, err := p.Predict(xs)
	if err != nil {
		return nil, nil, 0, err
	}
	return xs, ys, r2, nil
}

// Score computes the mean squared error, mean average percent error and r-squared of the
// fit against the samples it was fit with
func (p *PolynomialRegression) Score() (*stats.Scores, error) {
	if !p.Fitted() {
		return nil, ErrNotFitted
	}
	predicted, err := p.Predict(p.x)
	if err != nil {
		return nil, err
	}
	return stats.NewScores(predicted, p.y)
}

func (p *PolynomialRegression) rSquared() (float64, error) {
	predicted, err := p.Predict(p.x)
	if err != nil {
		return 0, err
	}
	return stats.RSquared(predicted, p.y)
}

// Horner evaluates the polynomial with coefficients in ascending power order at t
func Horner(coef []float64, t float64) float64 {
	res := 0.0
	for i := len(coef) - 1; i >= 0; i-- {
		res = res*t + coef[i]
	}
	return res
}

// centerScale returns the midpoint and half width of the range of x. A zero width range
// uses a scale of 1.
func centerScale(x []float64) (float64, float64) {
	lo, hi := floats.Min(x), floats.Max(x)
	shift := lo/2 + hi/2
	scale := hi/2 - lo/2
	if scale == 0 {
		scale = 1
	}
	return shift, scale
}

// expandPowers rewrites the coefficients of p(t) with t = (x - shift) / scale as coefficients
// of the same polynomial in powers of x
func expandPowers(tcoef []float64, shift, scale float64) []float64 {
	d := len(tcoef) - 1
	coef := make([]float64, len(tcoef))
	coef[0] = tcoef[d]

	// Horner over polynomials, coef = coef * (x - shift) / scale + tcoef[k]
	for k, deg := d-1, 0; k >= 0; k, deg = k-1, deg+1 {
		for j := deg + 1; j >= 0; j-- {
			c := -shift * coef[j]
			if j > 0 {
				c += coef[j-1]
			}
			coef[j] = c / scale
		}
		coef[0] += tcoef[k]
	}
	return coef
}

func countDistinct(x []float64) int {
	if len(x) == 0 {
		return 0
	}
	sorted := make([]float64, len(x))
	copy(sorted, x)
	sort.Float64s(sorted)

	distinct := 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i] != sorted[i-1] {
			distinct++
		}
	}
	return distinct
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
