// Command odiscan finds outbound direct investments in listed-company
// announcements and extracts their deal fields.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/odiscan/internal/adapters/driving/cli"
	"github.com/custodia-labs/odiscan/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cli.SetVersion(version)
	err := cli.Execute(ctx)

	stop()
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}
