package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/turtacn/CaseLens/internal/application/evaluation"
	"github.com/turtacn/CaseLens/internal/render"
)

// compareOptions holds the compare command flags.
type compareOptions struct {
	versionAPath  string
	versionBPath  string
	referencePath string
	prdPath       string
	format        string
	outputPath    string
}

func newCompareCommand(root *rootOptions) *cobra.Command {
	opts := &compareOptions{}

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare two versions of a test case batch",
		Example: `  caselens compare --version1 v1.txt --version2 v2.txt
  caselens compare --version1 v1.md --version2 v2.md --prd requirements.md --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCompare(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.versionAPath, "version1", "", "file with the first version's cases (required)")
	cmd.Flags().StringVar(&opts.versionBPath, "version2", "", "file with the second version's cases (required)")
	cmd.Flags().StringVar(&opts.referencePath, "reference", "", "file with reference cases (optional)")
	cmd.Flags().StringVar(&opts.prdPath, "prd", "", "requirements document for coverage analysis (optional)")
	cmd.Flags().StringVar(&opts.format, "format", "text", "output format (text|json)")
	cmd.Flags().StringVarP(&opts.outputPath, "output", "o", "", "write the report to a file instead of stdout")
	_ = cmd.MarkFlagRequired("version1")
	_ = cmd.MarkFlagRequired("version2")

	return cmd
}

func runCompare(cmd *cobra.Command, root *rootOptions, opts *compareOptions) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	log, err := newLogger(root)
	if err != nil {
		return err
	}

	in := evaluation.CompareInput{}
	if in.VersionA, err = readCases(opts.versionAPath); err != nil {
		return err
	}
	if in.VersionB, err = readCases(opts.versionBPath); err != nil {
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
	cmp, err := evaluator.CompareVersions(cmd.Context(), in)
	if err != nil {
		return err
	}

	var out []byte
	switch opts.format {
	case "json":
		if out, err = render.ComparisonJSON(cmp); err != nil {
			return err
		}
	case "text":
		out = []byte(render.ComparisonText(cmp))
	default:
		return fmt.Errorf("unknown format %q, expected text or json", opts.format)
	}

	return writeOutput(cmd, opts.outputPath, out)
}
