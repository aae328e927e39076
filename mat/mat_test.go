package mat

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestNewDenseFromArray(t *testing.T) {
	testData := map[string]struct {
		err error
		x   [][]float64
		m   int
		n   int
	}{
		"nil input": {
			ErrNoRows,
			nil,
			0, 0,
		},
		"empty rows": {
			ErrNoCols,
			[][]float64{{}, {}},
			0, 0,
		},
		"single element": {
			nil,
			[][]float64{{1}},
			1, 1,
		},
		"multiple rows and cols": {
			nil,
			[][]float64{{1, 2, 3}, {4, 5, 6}},
			2, 3,
		},
		"inconsistent cols": {
			ErrColMismatch,
			[][]float64{{1, 2, 3}, {4, 5}},
			0, 0,
		},
		"short first row": {
			ErrColMismatch,
			[][]float64{{1}, {4, 5}},
			0, 0,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			mx, err := NewDenseFromArray(td.x)
			if td.err != nil {
				require.ErrorIs(t, err, td.err)
				assert.Nil(t, mx)
				return
			}
			require.Nil(t, err)

			m, n := mx.Dims()
			assert.Equal(t, td.m, m, "m")
			assert.Equal(t, td.n, n, "n")

			for ri, row := range td.x {
				assert.Equal(t, row, mat.Row(nil, ri, mx), "array")
			}
		})
	}
}

func TestNewVandermonde(t *testing.T) {
	testData := map[string]struct {
		x        []float64
		degree   int
		err      error
		expected [][]float64
	}{
		"negative degree": {
			x:      []float64{1},
			degree: -1,
			err:    ErrNegativeDegree,
		},
		"no rows": {
			degree: 1,
			err:    ErrNoRows,
		},
		"degree zero": {
			x:        []float64{3, 4},
			degree:   0,
			expected: [][]float64{{1}, {1}},
		},
		"cubic": {
			x:      []float64{0, 1, 2, -3},
			degree: 3,
			expected: [][]float64{
				{1, 0, 0, 0},
				{1, 1, 1, 1},
				{1, 2, 4, 8},
				{1, -3, 9, -27},
			},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			v, err := NewVandermonde(td.x, td.degree)
			if td.err != nil {
				require.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)

			m, n := v.Dims()
			require.Equal(t, len(td.expected), m, "rows")
			require.Equal(t, td.degree+1, n, "cols")
			for i, row := range td.expected {
				assert.Equal(t, row, mat.Row(nil, i, v), "row %d", i)
			}
		})
	}
}

func TestEquilibrateCols(t *testing.T) {
	a := mat.NewDense(3, 3, []float64{
		1, 0, 3,
		1, 0, 4,
		1, 0, 0,
	})
	norms := EquilibrateCols(a)
	assert.InDeltaSlice(t, []float64{math.Sqrt(3), 0, 5}, norms, 1e-12)

	for j, norm := range norms {
		if norm == 0 {
			assert.Equal(t, []float64{0, 0, 0}, mat.Col(nil, j, a), "zero column untouched")
			continue
		}
		assert.InDelta(t, 1.0, mat.Norm(a.ColView(j), 2), 1e-12, "unit column %d", j)
	}
}
