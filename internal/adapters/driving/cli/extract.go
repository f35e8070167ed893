package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/odiscan/internal/adapters/driven/source/filesystem"
	"github.com/custodia-labs/odiscan/internal/core/domain"
	"github.com/custodia-labs/odiscan/internal/core/ports/driving"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Classify and extract a single announcement",
	Long: `Classifies one .txt announcement and, when it describes an outbound
direct investment, prints the extracted record as JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

// processedOutput is the JSON form of a processed document.
type processedOutput struct {
	Filename       string                      `json:"filename"`
	Classification domain.ClassificationResult `json:"classification"`
	Outcome        string                      `json:"outcome,omitempty"`
	Fallbacks      int                         `json:"fallbacks,omitempty"`
	Record         *domain.ExtractionRecord    `json:"record,omitempty"`
}

func newProcessedOutput(p driving.Processed) processedOutput {
	out := processedOutput{
		Filename:       p.Document.Filename,
		Classification: p.Classification,
	}
	if p.Accepted() {
		record := p.Result.Record
		out.Outcome = p.Result.Outcome.String()
		out.Fallbacks = p.Result.Fallbacks
		out.Record = &record
	}
	return out
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	path := args[0]

	if !filesystem.IsTextFile(filepath.Base(path)) {
		return fmt.Errorf("%w: %s is not a .txt file", domain.ErrInvalidInput, path)
	}

	app, err := newApp(ctx, appOptions{})
	if err != nil {
		return err
	}
	defer app.Close()

	doc, err := filesystem.NewSource(filepath.Dir(path), app.Logger).Load(ctx, path)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(newProcessedOutput(app.Pipeline.Process(ctx, doc)), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
