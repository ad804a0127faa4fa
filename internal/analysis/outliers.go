package analysis

import (
	"sort"

	"github.com/KaramelBytes/autolysis-cli/internal/dataset"
)

// ColumnOutliers lists raw values of one numeric column that fall outside
// its IQR fences.
type ColumnOutliers struct {
	Column string
	Values []float64
}

// OutlierSet holds outliers for every numeric column, in file order.
// Columns without outliers are present with an empty Values slice.
type OutlierSet []ColumnOutliers

// Count returns the total number of flagged values.
func (o OutlierSet) Count() int {
	n := 0
	for _, c := range o {
		n += len(c.Values)
	}
	return n
}

// Fences returns the Tukey fences [Q1-1.5*IQR, Q3+1.5*IQR] for the values.
func Fences(vals []float64) (lower, upper float64) {
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	q1 := quantile(sorted, 0.25)
	q3 := quantile(sorted, 0.75)
	iqr := q3 - q1
	return q1 - 1.5*iqr, q3 + 1.5*iqr
}

// DetectOutliers applies the IQR rule to every numeric column. Values equal
// to a fence are inliers.
func DetectOutliers(ds *dataset.Dataset) OutlierSet {
	var out OutlierSet
	for _, c := range ds.NumericColumns() {
		co := ColumnOutliers{Column: c.Name, Values: []float64{}}
		vals := c.Present()
		if len(vals) > 0 {
			lo, hi := Fences(vals)
			for _, v := range vals {
				if v < lo || v > hi {
					co.Values = append(co.Values, v)
				}
			}
		}
		out = append(out, co)
	}
	return out
}
