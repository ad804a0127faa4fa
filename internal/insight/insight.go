// Package insight turns the analysis results into a prompt and asks a
// chat-completion runtime to narrate them.
package insight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/KaramelBytes/autolysis-cli/internal/ai"
	"github.com/KaramelBytes/autolysis-cli/internal/analysis"
	"github.com/KaramelBytes/autolysis-cli/internal/dataset"
	"github.com/KaramelBytes/autolysis-cli/internal/utils"
)

// FallbackText replaces the narrative whenever generation fails.
const FallbackText = "Could not generate insights due to an unexpected error."

const systemPrompt = "You are a data scientist."

// Input bundles the analysis results the prompt is built from.
type Input struct {
	Dataset  *dataset.Dataset
	Summary  analysis.Summary
	Missing  analysis.MissingValueCounts
	Outliers analysis.OutlierSet
}

// Insight is the outcome of one generation attempt. Err is set when Text is
// the fallback.
type Insight struct {
	Text string
	Err  error
}

// Fallback reports whether Text is FallbackText because generation failed.
func (i Insight) Fallback() bool { return i.Err != nil }

// Generator asks Runtime for a single completion.
type Generator struct {
	Runtime     ai.Runtime
	Model       string
	MaxTokens   int
	Temperature float64
	// RunID is forwarded to the runtime as the request ID.
	RunID string
	Out   io.Writer
	Debug bool
}

// Generate never returns an error; failures are logged and reported through
// Insight.Err with FallbackText as the narrative.
func (g *Generator) Generate(ctx context.Context, in Input) (res Insight) {
	defer func() {
		if r := recover(); r != nil {
			res = g.fail(fmt.Errorf("panic during insight generation: %v", r))
		}
	}()

	prompt, err := BuildPrompt(in)
	if err != nil {
		return g.fail(err)
	}
	g.logPromptSize(prompt)
	if g.Runtime == nil {
		return g.fail(errors.New("no runtime configured"))
	}

	resp, err := g.Runtime.Generate(ctx, ai.GenerateRequest{
		Model: g.Model,
		Messages: []ai.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   g.MaxTokens,
		Temperature: g.Temperature,
		RequestID:   g.RunID,
	})
	if err != nil {
		return g.fail(err)
	}
	text, err := resp.Text()
	if err != nil {
		return g.fail(err)
	}
	if g.Debug && resp.Usage.TotalTokens > 0 {
		g.printf("DEBUG: usage prompt=%d completion=%d total=%d\n",
			resp.Usage.PromptTokens, resp.Usage.CompletionTokens, resp.Usage.TotalTokens)
	}
	return Insight{Text: text}
}

func (g *Generator) fail(err error) Insight {
	g.printf("⚠ Warning: error generating insights: %v\n", err)
	return Insight{Text: FallbackText, Err: err}
}

func (g *Generator) logPromptSize(prompt string) {
	tokens := utils.CountTokens(prompt)
	g.printf("⚙ Generating insights with model=%s (prompt tokens≈%d) ...\n", g.Model, tokens)
	mi, ok := ai.LookupModel(g.Model)
	if !ok {
		return
	}
	if mi.ContextTokens > 0 && tokens+g.MaxTokens > mi.ContextTokens {
		g.printf("⚠ Warning: prompt (≈%d tokens) may exceed the %s context window (%d tokens).\n", tokens, mi.Name, mi.ContextTokens)
	}
	if g.Debug {
		if cost, ok := ai.EstimatePromptCostUSD(g.Model, tokens); ok {
			g.printf("DEBUG: estimated prompt cost ~$%.5f\n", cost)
		}
	}
}

func (g *Generator) printf(format string, args ...any) {
	if g.Out == nil {
		return
	}
	fmt.Fprintf(g.Out, format, args...)
}

type columnDetail struct {
	Name  string `json:"name"`
	DType string `json:"dtype"`
}

// BuildPrompt renders the analysis results into the user prompt.
func BuildPrompt(in Input) (string, error) {
	if in.Dataset == nil {
		return "", errors.New("build prompt: dataset is nil")
	}
	cols := make([]columnDetail, 0, len(in.Dataset.Columns))
	for _, c := range in.Dataset.Columns {
		cols = append(cols, columnDetail{Name: c.Name, DType: c.DType})
	}
	missing := make(map[string]int, len(in.Missing))
	for _, m := range in.Missing {
		missing[m.Column] = m.Count
	}
	outliers := make(map[string][]float64, len(in.Outliers))
	for _, o := range in.Outliers {
		outliers[o.Column] = finite(o.Values)
	}

	sections := []struct {
		label string
		value any
	}{
		{"Column Details", cols},
		{"Summary Statistics", summaryByStat(in.Summary)},
		{"Missing Values", missing},
		{"Outliers Detected", outliers},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "The dataset has %d rows and %d columns.\n", in.Dataset.Rows, len(in.Dataset.Columns))
	for _, s := range sections {
		raw, err := json.Marshal(s.value)
		if err != nil {
			return "", fmt.Errorf("encode %s: %w", strings.ToLower(s.label), err)
		}
		fmt.Fprintf(&b, "%s: %s\n", s.label, raw)
	}
	b.WriteString("Provide insights, highlight significant findings, and suggest additional analyses.")
	return b.String(), nil
}

// summaryByStat pivots the summary into {stat: {column: value}}, leaving out
// statistics that do not apply to a column.
func summaryByStat(s analysis.Summary) map[string]map[string]any {
	out := map[string]map[string]any{}
	put := func(stat, col string, v any) {
		if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
			return
		}
		if out[stat] == nil {
			out[stat] = map[string]any{}
		}
		out[stat][col] = v
	}
	for _, c := range s {
		put("count", c.Name, c.Count)
		if c.Kind != dataset.KindNumeric {
			put("unique", c.Name, c.Unique)
			if c.Top != "" {
				put("top", c.Name, c.Top)
			}
			put("freq", c.Name, c.Freq)
			continue
		}
		put("mean", c.Name, c.Mean)
		put("std", c.Name, c.Std)
		put("min", c.Name, c.Min)
		put("25%", c.Name, c.Q1)
		put("50%", c.Name, c.Median)
		put("75%", c.Name, c.Q3)
		put("max", c.Name, c.Max)
	}
	return out
}

func finite(vals []float64) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}
