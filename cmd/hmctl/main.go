// hmctl - command-line tools for Hoja Maestra spec sheets
//
// Recalculates record files and exports, imports, queries and backs up the
// sheet history shared with the desktop application.
//
// Build:
//   go build -o hmctl ./cmd/hmctl

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/piwi3910/HojaMaestra/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
