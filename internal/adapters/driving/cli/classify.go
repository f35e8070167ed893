package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/odiscan/internal/adapters/driven/source/filesystem"
	"github.com/custodia-labs/odiscan/internal/core/domain"
)

var classifyJSON bool

var classifyCmd = &cobra.Command{
	Use:   "classify <dir>",
	Short: "Classify announcements without extracting fields",
	Long: `Reads every .txt file in the directory and reports whether each one
describes an outbound direct investment. No language model is used.`,
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().BoolVar(&classifyJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(classifyCmd)
}

// classifiedDocument is one line of classify output.
type classifiedDocument struct {
	Filename string `json:"filename"`
	domain.ClassificationResult
}

func runClassify(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	app, err := newClassifierApp()
	if err != nil {
		return err
	}

	source := filesystem.NewSource(args[0], app.Logger)
	if err := source.Validate(); err != nil {
		return err
	}
	docs, err := source.Documents(ctx)
	if err != nil {
		return fmt.Errorf("read documents: %w", err)
	}

	results := app.Classifier.ClassifyBatch(docs)
	out := make([]classifiedDocument, len(docs))
	for i := range docs {
		out[i] = classifiedDocument{Filename: docs[i].Filename, ClassificationResult: results[i]}
	}

	if classifyJSON {
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(out) == 0 {
		cmd.Println("No documents found.")
		return nil
	}

	var odi, excluded int
	for _, d := range out {
		switch {
		case d.IsODI:
			odi++
			cmd.Printf("  [ODI]      %s (%s)\n", d.Filename, d.TargetCountry)
		case d.Excluded():
			excluded++
			cmd.Printf("  [EXCLUDED] %s: %s\n", d.Filename, d.ExclusionReason)
		default:
			cmd.Printf("  [OTHER]    %s: %s\n", d.Filename, d.Reason)
		}
	}
	cmd.Println()
	cmd.Printf("%d documents: %d outbound investments, %d excluded, %d other\n",
		len(out), odi, excluded, len(out)-odi-excluded)
	return nil
}
