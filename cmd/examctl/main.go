// Command examctl drives the certification exam backend from a terminal. It
// keeps the login session in a local SQLite file so consecutive invocations
// share it.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/georgelotishvili/certification/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		l := logger.NewConsole("examctl", os.Stderr)
		l.Error().Stack().Err(err).Msg("command failed")
		stop()
		os.Exit(1)
	}
}
