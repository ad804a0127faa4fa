package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func imageDestinations(md []byte) []string {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	doc := markdown.Parse(md, p)
	var out []string
	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		if img, ok := node.(*ast.Image); ok && entering {
			out = append(out, string(img.Destination))
		}
		return ast.GoToNext
	})
	return out
}

func headings(md []byte) []string {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	doc := markdown.Parse(md, p)
	var out []string
	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		h, ok := node.(*ast.Heading)
		if !ok || !entering {
			return ast.GoToNext
		}
		var b strings.Builder
		for _, c := range h.Children {
			if leaf := c.AsLeaf(); leaf != nil {
				b.Write(leaf.Literal)
			}
		}
		out = append(out, b.String())
		return ast.GoToNext
	})
	return out
}

func TestWriteReport(t *testing.T) {
	dir := t.TempDir()
	path, err := Write(dir, "goodreads", "Ratings cluster around 4.")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "README.md"), path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	want := "# Analysis of goodreads\n" +
		"## Dataset Overview\n" +
		"This analysis is based on the `goodreads` dataset.\n\n" +
		"## Insights\n" +
		"Ratings cluster around 4.\n\n" +
		"## Visualizations\n" +
		"### Correlation Matrix\n" +
		"![Correlation Matrix](./correlation_matrix.png)\n\n" +
		"### Missing Values Chart\n" +
		"![Missing Values Chart](./missing_values_chart.png)\n"
	assert.Equal(t, want, string(b))
}

func TestReportAlwaysLinksBothCharts(t *testing.T) {
	md := []byte(Render("tiny", "Could not generate insights due to an unexpected error."))
	assert.Equal(t, []string{"./correlation_matrix.png", "./missing_values_chart.png"}, imageDestinations(md))
	assert.Equal(t, []string{
		"Analysis of tiny", "Dataset Overview", "Insights",
		"Visualizations", "Correlation Matrix", "Missing Values Chart",
	}, headings(md))
}

func TestWriteReportMissingDir(t *testing.T) {
	_, err := Write(filepath.Join(t.TempDir(), "nope"), "x", "y")
	require.Error(t, err)
}
