package analysis

import (
	"math"

	"github.com/KaramelBytes/autolysis-cli/internal/dataset"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric columns.
// Values is nil when the dataset has no numeric column.
type CorrMatrix struct {
	Columns []string
	Values  *mat.SymDense
}

// Len returns the number of columns in the matrix.
func (m CorrMatrix) Len() int { return len(m.Columns) }

// Empty reports whether the matrix has no columns.
func (m CorrMatrix) Empty() bool { return len(m.Columns) == 0 }

// At returns r for the (i, j) pair.
func (m CorrMatrix) At(i, j int) float64 { return m.Values.At(i, j) }

// Correlate computes pairwise Pearson correlations over numeric columns,
// using only rows where both values are present. Pairs without variance
// or with fewer than two complete rows are NaN.
func Correlate(ds *dataset.Dataset) CorrMatrix {
	cols := ds.NumericColumns()
	if len(cols) == 0 {
		return CorrMatrix{}
	}
	n := len(cols)
	names := make([]string, n)
	for i, c := range cols {
		names[i] = c.Name
	}
	sym := mat.NewSymDense(n, nil)
	for a := 0; a < n; a++ {
		for b := a; b < n; b++ {
			sym.SetSym(a, b, pearson(cols[a], cols[b]))
		}
	}
	return CorrMatrix{Columns: names, Values: sym}
}

func pearson(a, b dataset.Column) float64 {
	var xs, ys []float64
	for i := range a.Numbers {
		if a.Missing[i] || b.Missing[i] {
			continue
		}
		xs = append(xs, a.Numbers[i])
		ys = append(ys, b.Numbers[i])
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsInf(r, 0) {
		return math.NaN()
	}
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r
}
