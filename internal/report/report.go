// Package report writes the Markdown narrative for one analysed dataset.
package report

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/autolysis-cli/internal/chart"
	"github.com/KaramelBytes/autolysis-cli/internal/utils"
)

// FileName is the report written into the dataset's output directory.
const FileName = "README.md"

// Render builds the README body. Both chart links are always present, even
// when a chart was skipped for lack of data.
func Render(datasetName, insights string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Analysis of %s\n", datasetName)
	b.WriteString("## Dataset Overview\n")
	fmt.Fprintf(&b, "This analysis is based on the `%s` dataset.\n\n", datasetName)
	b.WriteString("## Insights\n")
	b.WriteString(insights)
	b.WriteString("\n\n## Visualizations\n")
	b.WriteString("### Correlation Matrix\n")
	fmt.Fprintf(&b, "![Correlation Matrix](./%s)\n\n", chart.HeatmapFile)
	b.WriteString("### Missing Values Chart\n")
	fmt.Fprintf(&b, "![Missing Values Chart](./%s)\n", chart.BarsFile)
	return b.String()
}

// Write renders the report into dir/README.md and returns its path.
func Write(dir, datasetName, insights string) (string, error) {
	path := filepath.Join(dir, FileName)
	if err := utils.SafeWriteFile(path, []byte(Render(datasetName, insights))); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}
