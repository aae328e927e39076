// Package models is a collection of least squares curve fitting implementations used to turn
// measured samples into smooth curves
package models

import "github.com/aouyang1/go-pumpcurve/stats"

// Curve is a fitted single variable curve that can be sampled for plotting
type Curve interface {
	Fit(x, y []float64, degree int) error
	Fitted() bool
	Coef() []float64
	CoefString() (string, error)
	Eq() (string, error)
	Predict(x []float64) ([]float64, error)
	SampleCurve(degree, sampleCount int) ([]float64, []float64, float64, error)
	Score() (*stats.Scores, error)
}

var _ Curve = (*PolynomialRegression)(nil)
