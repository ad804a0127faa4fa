package analysis

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"strconv"

	"github.com/KaramelBytes/autolysis-cli/internal/dataset"
	"github.com/KaramelBytes/autolysis-cli/internal/utils"
)

// SummaryHeader returns the describe-style header for the summary table.
// Frequency columns appear only when a non-numeric column exists, moment
// columns only when a numeric column exists.
func SummaryHeader(s Summary) []string {
	h := []string{"", "count"}
	if s.HasCategorical() {
		h = append(h, "unique", "top", "freq")
	}
	if s.HasNumeric() {
		h = append(h, "mean", "std", "min", "25%", "50%", "75%", "max")
	}
	return h
}

// SummaryRows renders one row per column aligned with SummaryHeader.
func SummaryRows(s Summary) [][]string {
	cat, num := s.HasCategorical(), s.HasNumeric()
	rows := make([][]string, 0, len(s))
	for _, c := range s {
		row := []string{c.Name, strconv.Itoa(c.Count)}
		if cat {
			top := c.Top
			if c.Kind == dataset.KindNumeric {
				top = ""
			}
			row = append(row, formatFloat(c.Unique), top, formatFloat(c.Freq))
		}
		if num {
			row = append(row,
				formatFloat(c.Mean), formatFloat(c.Std), formatFloat(c.Min),
				formatFloat(c.Q1), formatFloat(c.Median), formatFloat(c.Q3), formatFloat(c.Max))
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteSummaryCSV persists the statistics table.
func WriteSummaryCSV(path string, s Summary) error {
	rows := append([][]string{SummaryHeader(s)}, SummaryRows(s)...)
	if err := writeCSV(path, rows); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

// WriteMissingCSV persists per-column missing counts.
func WriteMissingCSV(path string, m MissingValueCounts) error {
	rows := [][]string{{"column", "missing"}}
	for _, c := range m {
		rows = append(rows, []string{c.Column, strconv.Itoa(c.Count)})
	}
	if err := writeCSV(path, rows); err != nil {
		return fmt.Errorf("write missing values: %w", err)
	}
	return nil
}

func writeCSV(path string, rows [][]string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}

// formatFloat renders NaN as an empty cell and everything else in plain
// decimal notation.
func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
