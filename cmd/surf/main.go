// Package main is the entry point for the surf browser-automation CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/entrhq/surf/pkg/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := commands.NewApp(os.Stdout)
	cmd := commands.NewRootCommand(app)

	// Teardown runs here rather than in a cobra PostRun hook: cobra skips
	// post-hooks when RunE fails, and browser processes must not outlive
	// a failed command.
	err := cmd.ExecuteContext(ctx)
	app.ReportBreakers()
	app.Close()

	if err != nil {
		fmt.Fprintf(os.Stderr, "surf: %v\n", err)
		os.Exit(1)
	}
}
