// Package main is the entry point for the mtpoi CLI tool.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/aidanlsb/mtpoi/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
