package models

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
)

const machineEpsilon = 0x1p-52

var ErrUnknownSolver = errors.New("unknown least squares solver")

// Solver selects the factorization used to solve the least squares problem
type Solver string

const (
	// SolverSVD uses a thin singular value decomposition and truncates singular values
	// below the rank tolerance.
	SolverSVD Solver = "svd"

	// SolverQR uses a Householder QR factorization followed by back substitution.
	SolverQR Solver = "qr"
)

// ParseSolver maps a case insensitive solver name to a Solver
func ParseSolver(name string) (Solver, error) {
	switch s := Solver(strings.ToLower(strings.TrimSpace(name))); s {
	case SolverSVD, SolverQR:
		return s, nil
	default:
		return "", fmt.Errorf("%q, %w", name, ErrUnknownSolver)
	}
}

// solution holds the least squares coefficients along with the numerical rank detected
// while solving
type solution struct {
	coef []float64
	rank int
}

// solveLeastSquares minimizes ||a*c - y||^2 using every column of a. a is expected to already
// have its columns equilibrated. rcond is the relative cut-off below which a singular value,
// or a diagonal entry of R, does not count toward the reported rank. The rank is reported and
// never used to truncate the solution.
func solveLeastSquares(solver Solver, a *mat.Dense, y []float64, rcond float64) (solution, error) {
	switch solver {
	case SolverSVD:
		return solveSVD(a, y, rcond)
	case SolverQR:
		return solveQR(a, y, rcond)
	default:
		return solution{}, fmt.Errorf("%q, %w", solver, ErrUnknownSolver)
	}
}

func solveSVD(a *mat.Dense, y []float64, rcond float64) (solution, error) {
	m, n := a.Dims()

	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return solution{}, fmt.Errorf("svd factorization did not converge, %w", ErrSingularFit)
	}

	var c mat.Dense
	svd.SolveTo(&c, mat.NewDense(m, 1, y), n)
	return solution{coef: mat.Col(nil, 0, &c), rank: svd.Rank(rcond)}, nil
}

func solveQR(a *mat.Dense, y []float64, rcond float64) (solution, error) {
	m, n := a.Dims()

	qr := new(mat.QR)
	qr.Factorize(a)

	q := new(mat.Dense)
	r := new(mat.Dense)
	qr.QTo(q)
	qr.RTo(r)

	yT := mat.NewDense(1, m, y)
	yq := new(mat.Dense)
	yq.Mul(yT, q)

	maxDiag := 0.0
	for i := 0; i < n; i++ {
		maxDiag = math.Max(maxDiag, math.Abs(r.At(i, i)))
	}
	rank := 0
	for i := 0; i < n; i++ {
		if math.Abs(r.At(i, i)) > rcond*maxDiag {
			rank++
		}
	}

	c := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		c[i] = yq.At(0, i)
		for j := i + 1; j < n; j++ {
			c[i] -= c[j] * r.At(i, j)
		}
		c[i] /= r.At(i, i)
	}
	return solution{coef: c, rank: rank}, nil
}
