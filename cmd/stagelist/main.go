package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/YoshitsuguKoike/stagelist/internal/interface/cli"
	"github.com/YoshitsuguKoike/stagelist/internal/interface/cli/common"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.NewRoot().ExecuteContext(ctx)
	stop()
	common.Exit(err)
}
