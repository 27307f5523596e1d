package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// ビルド時に -ldflags "-X main.version=..." で設定する
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	// SIGINT/SIGTERMでコンテキストをキャンセルし、サーバーを停止する
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
