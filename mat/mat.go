package mat

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrNegativeDegree = errors.New("negative polynomial degree not allowed")
	ErrColMismatch    = errors.New("column size mismatch")
	ErrNoRows         = errors.New("no rows in matrix")
	ErrNoCols         = errors.New("no columns in matrix")
)

// NewDenseFromArray copies row slices into a dense matrix. Every row must have the same
// non-zero length.
func NewDenseFromArray(x [][]float64) (*mat.Dense, error) {
	m := len(x)
	if m == 0 {
		return nil, ErrNoRows
	}
	n := len(x[0])
	if n == 0 {
		return nil, ErrNoCols
	}

	data := make([]float64, 0, m*n)
	for i, row := range x {
		if len(row) != n {
			return nil, fmt.Errorf("row %d has %d columns, expected %d, %w", i, len(row), n, ErrColMismatch)
		}
		data = append(data, row...)
	}
	return mat.NewDense(m, n, data), nil
}

// NewVandermonde builds the polynomial design matrix where row i holds the powers of x[i]
// from 0 up to and including degree, e.g. [1, x, x^2, ..., x^degree].
func NewVandermonde(x []float64, degree int) (*mat.Dense, error) {
	if degree < 0 {
		return nil, fmt.Errorf("got degree %d, %w", degree, ErrNegativeDegree)
	}

	rows := make([][]float64, len(x))
	for i, xi := range x {
		row := make([]float64, degree+1)
		p := 1.0
		for j := range row {
			row[j] = p
			p *= xi
		}
		rows[i] = row
	}
	return NewDenseFromArray(rows)
}

// EquilibrateCols scales every column of a to unit Euclidean norm in place and returns the
// norms that were divided out. A column with zero norm is left untouched and reported as 0.
func EquilibrateCols(a *mat.Dense) []float64 {
	m, n := a.Dims()
	norms := make([]float64, n)
	for j := 0; j < n; j++ {
		norm := mat.Norm(a.ColView(j), 2)
		norms[j] = norm
		if norm == 0 || math.IsInf(norm, 0) {
			continue
		}
		for i := 0; i < m; i++ {
			a.Set(i, j, a.At(i, j)/norm)
		}
	}
	return norms
}
