package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/askiada/cmdflow/cmd/cmdflow/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cmd.Execute(ctx, os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
