// Package cli implements the caselens command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/turtacn/CaseLens/internal/application/scoring"
	"github.com/turtacn/CaseLens/internal/config"
	"github.com/turtacn/CaseLens/internal/infrastructure/embedding"
	"github.com/turtacn/CaseLens/internal/infrastructure/monitoring/logging"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// rootOptions holds the global flags shared by all subcommands.
type rootOptions struct {
	configPath string
	logLevel   string
}

// NewRootCommand builds the root command with all subcommands attached.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "caselens",
		Short:         "CaseLens scores the quality of generated test case batches",
		Long:          "CaseLens evaluates batches of generated test cases across structure,\ncontent quality, requirement coverage, uniqueness and reference similarity,\nand compares case versions against each other.",
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to config file (optional)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug|info|warn|error)")

	cmd.AddCommand(newEvaluateCommand(opts))
	cmd.AddCommand(newCompareCommand(opts))

	return cmd
}

// Execute runs the CLI and returns the command error, if any.
func Execute() error {
	return NewRootCommand().Execute()
}

// loadConfig loads the file config when given, else environment + defaults.
func loadConfig(opts *rootOptions) (*config.Config, error) {
	if opts.configPath != "" {
		return config.Load(opts.configPath)
	}
	return config.LoadFromEnv()
}

// newLogger builds a console logger honoring the global log level flag.
func newLogger(opts *rootOptions) (logging.Logger, error) {
	return logging.NewLogger(logging.Config{
		Level:       opts.logLevel,
		Format:      "console",
		OutputPaths: []string{"stderr"},
	})
}

// newEncoder builds the embedding encoder when it is enabled and configured.
// A nil encoder degrades uniqueness to keyword overlap and skips similarity.
func newEncoder(cfg *config.Config, log logging.Logger) scoring.Encoder {
	if !cfg.Embedding.Enabled || cfg.Embedding.APIKey == "" {
		return nil
	}
	return embedding.NewOpenAIEncoder(embedding.OpenAIConfig{
		BaseURL:      cfg.Embedding.BaseURL,
		APIKey:       cfg.Embedding.APIKey,
		Model:        cfg.Embedding.Model,
		Timeout:      cfg.Embedding.Timeout,
		MaxBatchSize: cfg.Embedding.MaxBatchSize,
	}, log)
}

// readCases loads and splits one batch input file. Markdown files split on
// level-1 headings, everything else on blank lines.
func readCases(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return splitByExtension(path, content), nil
}
