// Package pipeline runs the full analysis of one dataset file in a fixed
// order: load, describe, correlate, detect outliers, chart missing values,
// generate insights, write the report.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/KaramelBytes/autolysis-cli/internal/ai"
	"github.com/KaramelBytes/autolysis-cli/internal/analysis"
	"github.com/KaramelBytes/autolysis-cli/internal/chart"
	"github.com/KaramelBytes/autolysis-cli/internal/dataset"
	"github.com/KaramelBytes/autolysis-cli/internal/insight"
	"github.com/KaramelBytes/autolysis-cli/internal/report"
	"github.com/KaramelBytes/autolysis-cli/internal/utils"
	"github.com/google/uuid"
)

const (
	SummaryFile = "summary.csv"
	MissingFile = "missing_values.csv"
)

// Options configures a single Run.
type Options struct {
	// OutputRoot is the parent of the per-dataset directory.
	OutputRoot  string
	Runtime     ai.Runtime
	Model       string
	MaxTokens   int
	Temperature float64
	// Out receives console diagnostics; nil discards them.
	Out   io.Writer
	Debug bool
}

// Result describes what a Run produced.
type Result struct {
	RunID     string
	Dataset   *dataset.Dataset
	OutputDir string
	Files     []string
	Summary   analysis.Summary
	Missing   analysis.MissingValueCounts
	Corr      analysis.CorrMatrix
	Outliers  analysis.OutlierSet
	Insight   insight.Insight
}

// Run analyses the dataset at path. Errors from loading, writing or rendering
// are returned; insight failures are not errors and surface in Result.Insight.
func Run(ctx context.Context, path string, opt Options) (*Result, error) {
	out := opt.Out
	if out == nil {
		out = io.Discard
	}
	say := func(format string, args ...any) { fmt.Fprintf(out, format+"\n", args...) }

	res := &Result{RunID: uuid.New().String()}
	if opt.Debug {
		say("DEBUG: run id %s", res.RunID)
	}

	ds, err := dataset.Load(path, say)
	if err != nil {
		return nil, err
	}
	res.Dataset = ds
	say("✓ Loaded %s: %d rows, %d columns (%s)", filepath.Base(path), ds.Rows, len(ds.Columns), ds.Encoding)

	root := opt.OutputRoot
	if root == "" {
		root = "."
	}
	res.OutputDir = filepath.Join(root, ds.Name)
	if err := utils.EnsureDir(res.OutputDir); err != nil {
		return nil, err
	}
	artifact := func(name string) string {
		p := filepath.Join(res.OutputDir, name)
		res.Files = append(res.Files, p)
		return p
	}

	res.Summary = analysis.Describe(ds)
	res.Missing = analysis.MissingCounts(ds)
	if err := analysis.WriteSummaryCSV(artifact(SummaryFile), res.Summary); err != nil {
		return nil, err
	}
	if err := analysis.WriteMissingCSV(artifact(MissingFile), res.Missing); err != nil {
		return nil, err
	}

	res.Corr = analysis.Correlate(ds)
	switch {
	case res.Corr.Empty():
		say("No numeric data for correlation heatmap.")
	case res.Corr.Len() < 2:
		say("Only one numeric column; skipping correlation heatmap.")
	default:
		p := filepath.Join(res.OutputDir, chart.HeatmapFile)
		if err := chart.RenderHeatmap(p, res.Corr); err != nil {
			return nil, err
		}
		res.Files = append(res.Files, p)
	}

	res.Outliers = analysis.DetectOutliers(ds)
	if opt.Debug {
		say("DEBUG: %d outliers across %d numeric columns", res.Outliers.Count(), len(res.Outliers))
	}

	barsPath := filepath.Join(res.OutputDir, chart.BarsFile)
	drawn, err := chart.RenderMissingBars(barsPath, res.Missing)
	if err != nil {
		return nil, err
	}
	if drawn {
		res.Files = append(res.Files, barsPath)
	} else {
		say("No missing values to plot.")
	}

	gen := &insight.Generator{
		Runtime:     opt.Runtime,
		Model:       opt.Model,
		MaxTokens:   opt.MaxTokens,
		Temperature: opt.Temperature,
		RunID:       res.RunID,
		Out:         out,
		Debug:       opt.Debug,
	}
	res.Insight = gen.Generate(ctx, insight.Input{
		Dataset:  ds,
		Summary:  res.Summary,
		Missing:  res.Missing,
		Outliers: res.Outliers,
	})

	readme, err := report.Write(res.OutputDir, ds.Name, res.Insight.Text)
	if err != nil {
		return nil, err
	}
	res.Files = append(res.Files, readme)
	say("✓ Analysis for %s completed. Results saved in %s", ds.Name, res.OutputDir)
	return res, nil
}
