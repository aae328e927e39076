package models

import (
	"math"
	"testing"

	"github.com/pkg/profile"
)

var benchCoef []float64

func generateBenchData(n int) ([]float64, []float64) {
	x := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = float64(i) * 0.5
		y[i] = 80 - 0.002*x[i]*x[i] + 3*math.Sin(x[i]/40)
	}
	return x, y
}

func benchmarkFit(b *testing.B, solver Solver) {
	x, y := generateBenchData(1000)
	model, err := NewPolynomialRegression(&PolynomialOptions{Solver: solver})
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := model.Fit(x, y, 3); err != nil {
			b.Fatal(err)
		}
	}
	benchCoef = model.Coef()
}

func BenchmarkPolynomialFitSVD(b *testing.B) {
	benchmarkFit(b, SolverSVD)
}

func BenchmarkPolynomialFitQR(b *testing.B) {
	benchmarkFit(b, SolverQR)
}

func BenchmarkSampleCurve(b *testing.B) {
	x, y := generateBenchData(1000)
	model, err := NewPolynomialRegression(nil)
	if err != nil {
		b.Fatal(err)
	}
	if err := model.Fit(x, y, 3); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	for i := 0; i < b.N; i++ {
		_, benchCoef, _, err = model.SampleCurve(3, 500)
		if err != nil {
			b.Fatal(err)
		}
	}
}
