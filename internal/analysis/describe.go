package analysis

import (
	"math"
	"sort"

	"github.com/KaramelBytes/autolysis-cli/internal/dataset"
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// ColumnStats captures describe-style statistics for one column.
// Fields that do not apply to the column's kind are NaN (or empty for Top).
type ColumnStats struct {
	Name   string
	Kind   dataset.Kind
	Count  int
	Unique float64
	Top    string
	Freq   float64
	Mean   float64
	Std    float64
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

// Summary is the per-column statistics table in file order.
type Summary []ColumnStats

// HasNumeric reports whether any column carries numeric statistics.
func (s Summary) HasNumeric() bool {
	for _, c := range s {
		if c.Kind == dataset.KindNumeric {
			return true
		}
	}
	return false
}

// HasCategorical reports whether any column carries frequency statistics.
func (s Summary) HasCategorical() bool {
	for _, c := range s {
		if c.Kind != dataset.KindNumeric {
			return true
		}
	}
	return false
}

// Describe computes statistics for every column of the dataset.
func Describe(ds *dataset.Dataset) Summary {
	out := make(Summary, 0, len(ds.Columns))
	for _, c := range ds.Columns {
		if c.Kind == dataset.KindNumeric {
			out = append(out, describeNumeric(c))
		} else {
			out = append(out, describeCategorical(c))
		}
	}
	return out
}

func blankStats(c dataset.Column) ColumnStats {
	return ColumnStats{
		Name: c.Name, Kind: c.Kind,
		Unique: math.NaN(), Freq: math.NaN(),
		Mean: math.NaN(), Std: math.NaN(), Min: math.NaN(),
		Q1: math.NaN(), Median: math.NaN(), Q3: math.NaN(), Max: math.NaN(),
	}
}

func describeNumeric(c dataset.Column) ColumnStats {
	s := blankStats(c)
	vals := c.Present()
	s.Count = len(vals)
	if len(vals) == 0 {
		return s
	}
	s.Mean = stat.Mean(vals, nil)
	if len(vals) > 1 {
		s.Std = stat.StdDev(vals, nil)
	}
	s.Min, _ = stats.Min(vals)
	s.Max, _ = stats.Max(vals)
	s.Median, _ = stats.Median(vals)
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	s.Q1 = quantile(sorted, 0.25)
	s.Q3 = quantile(sorted, 0.75)
	return s
}

func describeCategorical(c dataset.Column) ColumnStats {
	s := blankStats(c)
	counts := map[string]int{}
	var order []string
	for i, v := range c.Raw {
		if c.Missing[i] {
			continue
		}
		s.Count++
		if _, ok := counts[v]; !ok {
			order = append(order, v)
		}
		counts[v]++
	}
	if s.Count == 0 {
		s.Unique = 0
		return s
	}
	s.Unique = float64(len(counts))
	best := -1
	for _, v := range order {
		if counts[v] > best {
			best = counts[v]
			s.Top = v
		}
	}
	s.Freq = float64(best)
	return s
}

// quantile returns the q-th quantile of sorted values using linear
// interpolation between the closest ranks.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// MissingCount is the number of missing cells in a column.
type MissingCount struct {
	Column string
	Count  int
}

// MissingValueCounts lists missing counts in file order.
type MissingValueCounts []MissingCount

// Total sums missing cells across all columns.
func (m MissingValueCounts) Total() int {
	t := 0
	for _, c := range m {
		t += c.Count
	}
	return t
}

// MissingCounts counts missing cells per column.
func MissingCounts(ds *dataset.Dataset) MissingValueCounts {
	out := make(MissingValueCounts, 0, len(ds.Columns))
	for _, c := range ds.Columns {
		out = append(out, MissingCount{Column: c.Name, Count: c.MissingCount()})
	}
	return out
}
