// File: main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/seoscope/seoscope-cli/cmd"
	"github.com/seoscope/seoscope-cli/internal/observability"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := cmd.Execute(ctx)
	observability.Sync()
	stop()
	os.Exit(cmd.ExitCode(err))
}
