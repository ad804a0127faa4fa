package chart

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/KaramelBytes/autolysis-cli/internal/analysis"
	"github.com/KaramelBytes/autolysis-cli/internal/utils"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var skyBlue = drawing.ColorFromHex("87CEEB")

// MissingBars returns one bar per column, height = missing count.
func MissingBars(counts analysis.MissingValueCounts) []gochart.Value {
	bars := make([]gochart.Value, 0, len(counts))
	for _, c := range counts {
		bars = append(bars, gochart.Value{
			Label: c.Column,
			Value: float64(c.Count),
			Style: gochart.Style{FillColor: skyBlue, StrokeColor: skyBlue, StrokeWidth: 1},
		})
	}
	return bars
}

// RenderMissingBars writes a bar chart of missing counts per column. It
// returns false without touching the filesystem when nothing is missing.
func RenderMissingBars(path string, counts analysis.MissingValueCounts) (bool, error) {
	total := counts.Total()
	if total == 0 {
		return false, nil
	}
	bars := MissingBars(counts)
	maxVal := 0.0
	for _, b := range bars {
		maxVal = math.Max(maxVal, b.Value)
	}
	ticks := countTicks(maxVal)

	const bw, spacing = 40, 24
	width := len(bars)*(bw+spacing) + 160
	if width < 800 {
		width = 800
	}
	ch := gochart.BarChart{
		Title:      "Missing Values by Column",
		Background: gochart.Style{Padding: gochart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16}},
		Width:      width,
		Height:     600,
		BarWidth:   bw,
		BarSpacing: spacing,
		YAxis: gochart.YAxis{
			Name:  "Number of Missing Values",
			Range: &gochart.ContinuousRange{Min: 0, Max: ticks[len(ticks)-1].Value},
			Ticks: ticks,
		},
		Bars: bars,
	}
	var buf bytes.Buffer
	if err := ch.Render(gochart.PNG, &buf); err != nil {
		return false, fmt.Errorf("render missing values chart: %w", err)
	}
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return false, fmt.Errorf("write missing values chart: %w", err)
	}
	return true, nil
}

// countTicks returns integer ticks from 0 up to the first tick >= max.
func countTicks(max float64) []gochart.Tick {
	step := math.Max(1, math.Ceil(max/5))
	var ticks []gochart.Tick
	for v := 0.0; ; v += step {
		ticks = append(ticks, gochart.Tick{Value: v, Label: strconv.Itoa(int(v))})
		if v >= max {
			return ticks
		}
	}
}
