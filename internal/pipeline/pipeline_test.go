package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/autolysis-cli/internal/ai"
	"github.com/KaramelBytes/autolysis-cli/internal/insight"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRuntime struct {
	text  string
	err   error
	calls int
}

func (s *stubRuntime) Generate(_ context.Context, req ai.GenerateRequest) (*ai.GenerateResponse, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &ai.GenerateResponse{Choices: []ai.Choice{{Message: ai.Message{Content: s.text}}}, RequestID: req.RequestID}, nil
}

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestRunSmallDatasetWithFailingRuntime(t *testing.T) {
	in := writeCSV(t, t.TempDir(), "tiny.csv", "x,label\n1,a\n2,b\n3,c\n")
	outRoot := t.TempDir()
	var log bytes.Buffer
	rt := &stubRuntime{err: errors.New("connection refused")}

	res, err := Run(context.Background(), in, Options{OutputRoot: outRoot, Runtime: rt, Model: "gpt-4o-mini", Out: &log})
	require.NoError(t, err)

	dir := filepath.Join(outRoot, "tiny")
	assert.Equal(t, dir, res.OutputDir)
	assert.FileExists(t, filepath.Join(dir, SummaryFile))
	assert.FileExists(t, filepath.Join(dir, "README.md"))
	assert.NoFileExists(t, filepath.Join(dir, "correlation_matrix.png"))
	assert.NoFileExists(t, filepath.Join(dir, "missing_values_chart.png"))

	missing, err := os.ReadFile(filepath.Join(dir, MissingFile))
	require.NoError(t, err)
	assert.Equal(t, "column,missing\nx,0\nlabel,0\n", string(missing))

	readme, err := os.ReadFile(filepath.Join(dir, "README.md"))
	require.NoError(t, err)
	assert.Contains(t, string(readme), "# Analysis of tiny")
	assert.Contains(t, string(readme), "## Insights\n"+insight.FallbackText)

	assert.True(t, res.Insight.Fallback())
	assert.Equal(t, 1, rt.calls)
	assert.Contains(t, log.String(), "No missing values to plot.")
	assert.Contains(t, log.String(), "skipping correlation heatmap")
	assert.NotEmpty(t, res.RunID)
}

func TestRunWritesChartsWhenDataAllows(t *testing.T) {
	in := writeCSV(t, t.TempDir(), "wide.csv", "a,b,c\n1,2,x\n2,4,\n3,7,y\n4,,z\n100,9,x\n")
	outRoot := t.TempDir()
	rt := &stubRuntime{text: "Column a has an outlier."}

	res, err := Run(context.Background(), in, Options{OutputRoot: outRoot, Runtime: rt, Model: "gpt-4o-mini"})
	require.NoError(t, err)

	dir := filepath.Join(outRoot, "wide")
	assert.FileExists(t, filepath.Join(dir, "correlation_matrix.png"))
	assert.FileExists(t, filepath.Join(dir, "missing_values_chart.png"))
	assert.Equal(t, 2, res.Missing.Total())
	assert.Equal(t, 2, res.Corr.Len())
	assert.False(t, res.Insight.Fallback())
	assert.Len(t, res.Files, 5)

	readme, err := os.ReadFile(filepath.Join(dir, "README.md"))
	require.NoError(t, err)
	assert.Contains(t, string(readme), "Column a has an outlier.")
}

func TestRunNoNumericColumns(t *testing.T) {
	in := writeCSV(t, t.TempDir(), "names.csv", "name\nann\nbob\n")
	var log bytes.Buffer
	res, err := Run(context.Background(), in, Options{OutputRoot: t.TempDir(), Runtime: &stubRuntime{text: "ok"}, Out: &log})
	require.NoError(t, err)
	assert.True(t, res.Corr.Empty())
	assert.Empty(t, res.Outliers)
	assert.Contains(t, log.String(), "No numeric data for correlation heatmap.")
}

func TestRunMissingFile(t *testing.T) {
	_, err := Run(context.Background(), filepath.Join(t.TempDir(), "absent.csv"), Options{OutputRoot: t.TempDir()})
	require.Error(t, err)
}
