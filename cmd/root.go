package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/KaramelBytes/autolysis-cli/internal/ai"
	cfgpkg "github.com/KaramelBytes/autolysis-cli/internal/config"
	"github.com/KaramelBytes/autolysis-cli/internal/pipeline"
	"github.com/spf13/cobra"
)

const usageLine = "Usage: autolysis <filename.csv>"

var (
	cfgFile string
	debug   bool
	// Overrides applied on top of the loaded configuration when set.
	flagOutputDir      string
	flagModel          string
	flagBaseURL        string
	flagHTTPTimeoutSec int

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "autolysis <filename.csv>",
	Short: "Automated exploratory analysis of a tabular dataset",
	Long: `autolysis profiles a CSV file, charts its correlations and missing values,
asks a chat-completion model to narrate the findings, and writes everything
to <output-dir>/<dataset>/README.md.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if len(args) != 1 {
			fmt.Fprintln(out, usageLine)
			return nil
		}
		c := effectiveConfig()
		rt, err := ai.MustRuntime(c.Provider, ai.RuntimeConfig{
			HTTPTimeout: time.Duration(c.HTTPTimeoutSec) * time.Second,
			APIKey:      c.APIKey,
			BaseURL:     c.BaseURL,
			Host:        c.OllamaHost,
		})
		if err != nil {
			return err
		}
		if debug {
			fmt.Fprintf(out, "DEBUG: provider=%s model=%s base_url=%s output_dir=%s\n", c.Provider, c.Model, c.BaseURL, c.OutputDir)
		}
		_, err = pipeline.Run(cmd.Context(), args[0], pipeline.Options{
			OutputRoot:  c.OutputDir,
			Runtime:     rt,
			Model:       c.Model,
			MaxTokens:   c.MaxTokens,
			Temperature: c.Temperature,
			Out:         out,
			Debug:       debug,
		})
		if err != nil {
			fmt.Fprintf(out, "Error processing %s: %v\n", args[0], err)
		}
		return nil
	},
}

// Execute is the entry point called by main.main()
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.autolysis/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagOutputDir, "output-dir", "", "parent directory for per-dataset results (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagModel, "model", "", "chat model name (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "OpenAI-compatible API base URL (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagHTTPTimeoutSec, "http-timeout", 0, "HTTP client timeout in seconds (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		cfg = nil
		return
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("output-dir") && flagOutputDir != "" {
		cfg.OutputDir = flagOutputDir
	}
	if f.Changed("model") && flagModel != "" {
		cfg.Model = flagModel
	}
	if f.Changed("base-url") && flagBaseURL != "" {
		cfg.BaseURL = flagBaseURL
	}
	if f.Changed("http-timeout") && flagHTTPTimeoutSec > 0 {
		cfg.HTTPTimeoutSec = flagHTTPTimeoutSec
	}
}

// effectiveConfig returns the loaded configuration or built-in defaults.
func effectiveConfig() *cfgpkg.Global {
	if cfg != nil {
		return cfg
	}
	return &cfgpkg.Global{
		APIKey:         os.Getenv("AIPROXY_TOKEN"),
		BaseURL:        cfgpkg.DefaultBaseURL,
		Model:          cfgpkg.DefaultModel,
		Provider:       cfgpkg.DefaultProvider,
		OllamaHost:     cfgpkg.DefaultOllamaHost,
		HTTPTimeoutSec: 120,
		OutputDir:      ".",
	}
}
