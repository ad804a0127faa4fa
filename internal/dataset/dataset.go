package dataset

import (
	"strconv"
	"strings"
)

// Kind is the inferred family of a column.
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindCategorical Kind = "categorical"
	KindText        Kind = "text"
)

// Dataset is an ordered set of named columns loaded from a single file.
// It is not modified after Load returns.
type Dataset struct {
	Name     string // base name without extension
	Path     string
	Encoding string // utf-8 | iso-8859-1
	Rows     int
	Columns  []Column
}

// Column holds the raw cells of one column plus its inferred type.
type Column struct {
	Name    string
	Kind    Kind
	DType   string // int64|float64|bool|object
	Raw     []string
	Missing []bool
	// Numbers is populated for numeric columns only; missing cells are NaN.
	Numbers []float64
}

// NumericColumns returns the numeric columns in file order.
func (d *Dataset) NumericColumns() []Column {
	var out []Column
	for _, c := range d.Columns {
		if c.Kind == KindNumeric {
			out = append(out, c)
		}
	}
	return out
}

// MissingCount returns the number of missing cells in the column.
func (c Column) MissingCount() int {
	n := 0
	for _, m := range c.Missing {
		if m {
			n++
		}
	}
	return n
}

// Present returns the non-missing numeric values of a numeric column.
func (c Column) Present() []float64 {
	out := make([]float64, 0, len(c.Numbers))
	for i, v := range c.Numbers {
		if !c.Missing[i] {
			out = append(out, v)
		}
	}
	return out
}

// naTokens are the cell values treated as missing in addition to blanks.
var naTokens = map[string]struct{}{
	"#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {},
	"N/A": {}, "NA": {}, "NULL": {}, "NaN": {}, "None": {},
	"n/a": {}, "nan": {}, "null": {},
}

func isMissing(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}
	_, ok := naTokens[s]
	return ok
}

const maxCategoryLen = 64

// newColumn infers kind and dtype from raw cells.
func newColumn(name string, raw []string) Column {
	c := Column{Name: name, Raw: raw, Missing: make([]bool, len(raw))}
	nums := make([]float64, len(raw))
	present := 0
	allNum, allInt, allBool, anyShort := true, true, true, false
	for i, v := range raw {
		if isMissing(v) {
			c.Missing[i] = true
			continue
		}
		present++
		v = strings.TrimSpace(v)
		if len(v) <= maxCategoryLen {
			anyShort = true
		}
		switch v {
		case "True", "False", "true", "false", "TRUE", "FALSE":
		default:
			allBool = false
		}
		if !allNum {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			allNum = false
			continue
		}
		nums[i] = f
		if _, err := strconv.ParseInt(v, 10, 64); err != nil {
			allInt = false
		}
	}

	switch {
	case present == 0:
		// an all-empty column is numeric with every value missing
		c.Kind, c.DType = KindNumeric, "float64"
	case allBool:
		c.Kind, c.DType = KindCategorical, "bool"
	case allNum:
		c.Kind = KindNumeric
		if allInt && present == len(raw) {
			c.DType = "int64"
		} else {
			c.DType = "float64"
		}
	case anyShort:
		c.Kind, c.DType = KindCategorical, "object"
	default:
		c.Kind, c.DType = KindText, "object"
	}
	if c.Kind == KindNumeric {
		for i := range nums {
			if c.Missing[i] {
				nums[i] = nan
			}
		}
		c.Numbers = nums
	}
	return c
}
