// Package stats computes goodness of fit scores for fitted curves
package stats

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DegenerateTolerance is the largest root mean squared residual, relative to the magnitude of
// a constant target, that is still treated as an exact fit when computing r-squared.
const DegenerateTolerance = 1e-8

var (
	ErrResLenMismatch      = errors.New("predicted and actual have different lengths")
	ErrNoSamples           = errors.New("no samples to score")
	ErrUndefinedFitQuality = errors.New("r-squared undefined for constant target with nonzero residual")
)

// Scores tracks the fit scores
type Scores struct {
	MSE  float64 `json:"mean_squared_error"`
	MAPE float64 `json:"mean_average_percent_error"`
	R2   float64 `json:"r_squared"`
}

// NewScores calculates the fit scores given the predicted and actual input slice values
func NewScores(predicted, actual []float64) (*Scores, error) {
	mse, err := MSE(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute mean squared error, %w", err)
	}
	mape, err := MAPE(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute mean average percent error, %w", err)
	}
	rs, err := RSquared(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute r-squared, %w", err)
	}

	return &Scores{
		MSE:  mse,
		MAPE: mape,
		R2:   rs,
	}, nil
}

// MSE computes the mean squared error. This is the same as sum((y-yhat)^2)/n.
// A score of 0 means a perfect match with no errors.
func MSE(predicted, actual []float64) (float64, error) {
	if len(predicted) != len(actual) {
		return 0, fmt.Errorf("expected %d, but got %d, %w", len(actual), len(predicted), ErrResLenMismatch)
	}
	if len(actual) == 0 {
		return 0, ErrNoSamples
	}

	mse := 0.0
	for i := 0; i < len(actual); i++ {
		if math.IsNaN(actual[i]) || math.IsNaN(predicted[i]) {
			continue
		}
		mse += math.Pow(actual[i]-predicted[i], 2.0)
	}
	mse /= float64(len(actual))
	return mse, nil
}

// MAPE calculates the mean average percent error. This is the same as sum(abs((y-yhat)/y))/n.
// Zero valued actuals are skipped. A score of 0 means a perfect match with no errors.
func MAPE(predicted, actual []float64) (float64, error) {
	if len(predicted) != len(actual) {
		return 0, fmt.Errorf("expected %d, but got %d, %w", len(actual), len(predicted), ErrResLenMismatch)
	}
	if len(actual) == 0 {
		return 0, ErrNoSamples
	}

	mape := 0.0
	for i := 0; i < len(actual); i++ {
		if math.IsNaN(actual[i]) || math.IsNaN(predicted[i]) || actual[i] == 0 {
			continue
		}
		mape += math.Abs((actual[i] - predicted[i]) / actual[i])
	}
	mape /= float64(len(actual))
	return mape, nil
}

// RSquared computes the coefficient of determination 1 - SSres/SStot of the predicted values
// against the actual values. 1.0 means a perfect fit and the score goes negative when the
// prediction is worse than the mean of the actuals.
//
// When every actual value is identical SStot is zero. The score is then 1.0 if the residual is
// zero within DegenerateTolerance and ErrUndefinedFitQuality otherwise.
func RSquared(predicted, actual []float64) (float64, error) {
	if len(predicted) != len(actual) {
		return 0, fmt.Errorf("expected %d, but got %d, %w", len(actual), len(predicted), ErrResLenMismatch)
	}
	if len(actual) == 0 {
		return 0, ErrNoSamples
	}

	if floats.Min(actual) != floats.Max(actual) {
		return stat.RSquaredFrom(predicted, actual, nil), nil
	}

	ssRes := 0.0
	for i := range actual {
		ssRes += math.Pow(actual[i]-predicted[i], 2.0)
	}
	rms := math.Sqrt(ssRes / float64(len(actual)))
	if rms <= DegenerateTolerance*math.Max(1.0, math.Abs(actual[0])) {
		return 1.0, nil
	}
	return 0, fmt.Errorf("residual rms of %g against constant %g, %w", rms, actual[0], ErrUndefinedFitQuality)
}
