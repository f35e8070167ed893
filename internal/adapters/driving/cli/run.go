package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/odiscan/internal/adapters/driven/export"
	"github.com/custodia-labs/odiscan/internal/adapters/driven/source/filesystem"
	"github.com/custodia-labs/odiscan/internal/core/domain"
	"github.com/custodia-labs/odiscan/internal/logger"
)

var (
	runOutput      string
	runFormat      string
	runMetricsFile string
)

var runCmd = &cobra.Command{
	Use:   "run <dir>",
	Short: "Classify and extract every announcement in a directory",
	Long: `Reads every .txt file in the directory, classifies each one and extracts
the outbound investments. Results are written to a new run directory below
the output directory:

  csv:  transactions.csv, basic_info.csv, structure.csv, approvals.csv,
        excluded.csv, summary.json
  json: records.json, excluded.json, summary.json`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "", "output directory (default from config)")
	runCmd.Flags().StringVarP(&runFormat, "format", "f", "", "output format: csv or json (default from config)")
	runCmd.Flags().StringVar(&runMetricsFile, "metrics-file", "", "write Prometheus textfile metrics to this path")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	if runFormat != "" && !domain.OutputFormat(runFormat).IsValid() {
		return fmt.Errorf("%w: output format %q", domain.ErrUnsupportedType, runFormat)
	}
	if err := filesystem.NewSource(args[0], nil).Validate(); err != nil {
		return err
	}

	app, err := newApp(ctx, appOptions{metricsFile: runMetricsFile})
	if err != nil {
		return err
	}
	defer app.Close()

	outDir := app.Settings.Output.Dir
	if runOutput != "" {
		outDir = runOutput
	}
	format := app.Settings.Output.Format
	if runFormat != "" {
		format = domain.OutputFormat(runFormat)
	}

	sink, err := export.NewSink(outDir, format, app.Logger)
	if err != nil {
		return err
	}

	logger.Section("Batch run")
	logger.Debug("Source: %s, output: %s, format: %s", args[0], outDir, format)

	source := filesystem.NewSource(args[0], app.Logger)
	batch, location, err := app.Pipeline.RunSource(ctx, source, sink)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	logger.Debug("Run %s finished", batch.Summary.RunID)
	printSummary(cmd.OutOrStdout(), batch.Summary, location)
	return nil
}
