package chart

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"github.com/KaramelBytes/autolysis-cli/internal/analysis"
	"github.com/KaramelBytes/autolysis-cli/internal/utils"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	HeatmapFile = "correlation_matrix.png"
	BarsFile    = "missing_values_chart.png"
)

// heatmap layout in pixels
const (
	cellSize    = 64
	titleHeight = 36
	pad         = 12
	barWidth    = 18
	maxLabel    = 24
)

var (
	coolBlue = color.RGBA{R: 59, G: 76, B: 192, A: 255}
	neutral  = color.RGBA{R: 221, G: 221, B: 221, A: 255}
	warmRed  = color.RGBA{R: 180, G: 4, B: 38, A: 255}
	nanGray  = color.RGBA{R: 160, G: 160, B: 160, A: 255}
	ink      = color.RGBA{A: 255}
	paper    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Coolwarm maps r in [-1, 1] onto a diverging blue-grey-red scale.
// NaN maps to grey.
func Coolwarm(r float64) color.RGBA {
	if math.IsNaN(r) {
		return nanGray
	}
	r = math.Max(-1, math.Min(1, r))
	if r < 0 {
		return lerp(neutral, coolBlue, -r)
	}
	return lerp(neutral, warmRed, r)
}

func lerp(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 { return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t)) }
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}

// RenderHeatmap draws an annotated correlation heatmap and writes it as PNG.
func RenderHeatmap(path string, m analysis.CorrMatrix) error {
	img, err := Heatmap(m)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode heatmap: %w", err)
	}
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("write heatmap: %w", err)
	}
	return nil
}

// Heatmap renders the matrix into an image.
func Heatmap(m analysis.CorrMatrix) (*image.RGBA, error) {
	n := m.Len()
	if n == 0 {
		return nil, fmt.Errorf("render heatmap: matrix is empty")
	}
	face := basicfont.Face7x13
	labels := make([]string, n)
	labelW := 0
	for i, c := range m.Columns {
		labels[i] = truncate(c, maxLabel)
		if w := textWidth(face, labels[i]); w > labelW {
			labelW = w
		}
	}

	gridX := pad + labelW + pad
	gridY := titleHeight
	gridW := n * cellSize
	width := gridX + gridW + pad*3 + barWidth + textWidth(face, "-1.00") + pad
	height := gridY + gridW + pad + 13 + pad

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(paper), image.Point{}, draw.Src)

	title := "Correlation Matrix"
	drawText(img, face, ink, (width-textWidth(face, title))/2, titleHeight/2+5, title)

	for i := 0; i < n; i++ {
		y0 := gridY + i*cellSize
		drawText(img, face, ink, gridX-pad-textWidth(face, labels[i]), y0+cellSize/2+4, labels[i])
		for j := 0; j < n; j++ {
			x0 := gridX + j*cellSize
			r := m.At(i, j)
			rect := image.Rect(x0, y0, x0+cellSize, y0+cellSize)
			draw.Draw(img, rect, image.NewUniform(Coolwarm(r)), image.Point{}, draw.Src)
			drawFrame(img, rect, paper)

			label := "nan"
			if !math.IsNaN(r) {
				label = fmt.Sprintf("%.2f", r)
			}
			col := ink
			if !math.IsNaN(r) && math.Abs(r) > 0.6 {
				col = paper
			}
			drawText(img, face, col, x0+(cellSize-textWidth(face, label))/2, y0+cellSize/2+4, label)
		}
	}

	// column labels, cut to the cell width
	maxChars := (cellSize - 4) / 7
	for j := 0; j < n; j++ {
		l := truncate(m.Columns[j], maxChars)
		x := gridX + j*cellSize + (cellSize-textWidth(face, l))/2
		drawText(img, face, ink, x, gridY+gridW+pad+10, l)
	}

	// colour bar
	bx := gridX + gridW + pad*2
	for y := 0; y < gridW; y++ {
		r := 1 - 2*float64(y)/float64(gridW-1)
		line := image.Rect(bx, gridY+y, bx+barWidth, gridY+y+1)
		draw.Draw(img, line, image.NewUniform(Coolwarm(r)), image.Point{}, draw.Src)
	}
	lx := bx + barWidth + 4
	drawText(img, face, ink, lx, gridY+10, "1.00")
	drawText(img, face, ink, lx, gridY+gridW/2+4, "0.00")
	drawText(img, face, ink, lx, gridY+gridW-2, "-1.00")
	return img, nil
}

func drawText(dst draw.Image, face font.Face, c color.Color, x, y int, s string) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(s)
}

func drawFrame(dst draw.Image, r image.Rectangle, c color.Color) {
	u := image.NewUniform(c)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), u, image.Point{}, draw.Src)
}

func textWidth(face font.Face, s string) int {
	return font.MeasureString(face, s).Ceil()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return s
	}
	// basicfont only carries ASCII glyphs
	return string(r[:n-1]) + "~"
}
