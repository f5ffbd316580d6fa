package main

import (
	"context"
	"fmt"
	"os"

	"trade-journal/internal/cli"
	"trade-journal/internal/logging"
)

func main() {
	// Console-only until the config file names the real log settings.
	logger := logging.NewLogger()
	ctx := logging.WithLogger(context.Background(), logger)

	if err := cli.Execute(ctx, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
