package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"showgrounds/paddock/internal/cli"
	"showgrounds/paddock/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.NewRootCommand().ExecuteContext(ctx)
	stop()
	_ = logging.Close()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
