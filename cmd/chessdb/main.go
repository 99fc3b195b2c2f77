// Package main provides the chessdb CLI for reading PGN databases,
// classifying openings and inspecting positions.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/lgbarn/chessdb/internal/errors"
)

// Exit codes.
const (
	exitFailure = 1
	exitInput   = 2 // unreadable or malformed input
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	if errors.IsInputError(err) {
		return exitInput
	}
	return exitFailure
}
