package cli

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/odiscan/internal/adapters/driven/source/filesystem"
	"github.com/custodia-labs/odiscan/internal/core/domain"
	"github.com/custodia-labs/odiscan/internal/logger"
)

var watchSettle time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Process announcements as they appear in a directory",
	Long: `Watches the directory for new or rewritten .txt files and processes each
one as soon as it has stopped changing. Every processed document is printed
as one JSON line. Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchSettle, "settle", filesystem.DefaultSettle,
		"how long a file must stay unchanged before it is processed")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	source := filesystem.NewSource(args[0], nil)
	if err := source.Validate(); err != nil {
		return err
	}

	app, err := newApp(ctx, appOptions{})
	if err != nil {
		return err
	}
	defer app.Close()

	source = filesystem.NewSource(args[0], app.Logger)
	watcher := filesystem.NewWatcher(source, watchSettle, app.Logger)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)

	return watcher.Watch(ctx, func(doc domain.Document) {
		out := newProcessedOutput(app.Pipeline.Process(ctx, doc))
		if err := enc.Encode(out); err != nil {
			logger.Error("Write result for %s: %v", doc.Filename, err)
		}
	})
}
