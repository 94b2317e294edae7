package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/CaseLens/internal/application/evaluation"
	"github.com/turtacn/CaseLens/internal/config"
	"github.com/turtacn/CaseLens/internal/ingest"
	"github.com/turtacn/CaseLens/internal/render"
)

// evaluateOptions holds the evaluate command flags.
type evaluateOptions struct {
	casesPath     string
	referencePath string
	prdPath       string
	format        string
	outputPath    string
}

func newEvaluateCommand(root *rootOptions) *cobra.Command {
	opts := &evaluateOptions{}

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate one batch of generated test cases",
		Example: `  caselens evaluate --cases cases.txt
  caselens evaluate --cases cases.md --prd requirements.md --reference golden.txt --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEvaluate(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.casesPath, "cases", "", "file with the generated test cases (required)")
	cmd.Flags().StringVar(&opts.referencePath, "reference", "", "file with reference test cases (optional)")
	cmd.Flags().StringVar(&opts.prdPath, "prd", "", "requirements document for coverage analysis (optional)")
	cmd.Flags().StringVar(&opts.format, "format", "text", "output format (text|json)")
	cmd.Flags().StringVarP(&opts.outputPath, "output", "o", "", "write the report to a file instead of stdout")
	_ = cmd.MarkFlagRequired("cases")

	return cmd
}

func runEvaluate(cmd *cobra.Command, root *rootOptions, opts *evaluateOptions) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	log, err := newLogger(root)
	if err != nil {
		return err
	}

	in := evaluation.Input{}
	if in.Cases, err = readCases(opts.casesPath); err != nil {
		return err
	}
	if opts.referencePath != "" {
		if in.Reference, err = readCases(opts.referencePath); err != nil {
			return err
		}
	}
	if opts.prdPath != "" {
		prd, err := os.ReadFile(opts.prdPath)
		if err != nil {
			return fmt.Errorf("read %s: %w", opts.prdPath, err)
		}
		in.PRDText = string(prd)
	}

	evaluator := evaluation.NewEvaluator(newEncoder(cfg, log), log,
		evaluation.WithMetricWeights(metricWeights(cfg)),
		evaluation.WithThresholds(thresholds(cfg)))
	rep, err := evaluator.EvaluateBatch(cmd.Context(), in)
	if err != nil {
		return err
	}

	var out []byte
	switch opts.format {
	case "json":
		if out, err = render.JSON(rep); err != nil {
			return err
		}
	case "text":
		out = []byte(render.Text(rep))
	default:
		return fmt.Errorf("unknown format %q, expected text or json", opts.format)
	}

	return writeOutput(cmd, opts.outputPath, out)
}

// metricWeights converts config weights into engine weights.
func metricWeights(cfg *config.Config) evaluation.MetricWeights {
	w := cfg.Evaluation.Weights
	return evaluation.MetricWeights{
		Structure:  w.Structure,
		Coverage:   w.Coverage,
		Quality:    w.Quality,
		Similarity: w.Similarity,
		Uniqueness: w.Uniqueness,
	}
}

// thresholds converts config thresholds into engine thresholds.
func thresholds(cfg *config.Config) evaluation.Thresholds {
	return evaluation.Thresholds{
		Overlap:       cfg.Evaluation.OverlapThreshold,
		NearDuplicate: cfg.Evaluation.NearDuplicateThreshold,
		Similarity:    cfg.Evaluation.SimilarityThreshold,
	}
}

// splitByExtension picks the case splitter from the file extension.
func splitByExtension(path string, content []byte) []string {
	ext := strings.ToLower(filepath.Ext(path))
	return ingest.Split(string(content), ext == ".md" || ext == ".markdown")
}

// writeOutput writes to the output file when given, else to the command's
// stdout.
func writeOutput(cmd *cobra.Command, path string, out []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(append(out, '\n'))
		return err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
