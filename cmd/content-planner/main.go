package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/knbl-ai/content-planner-agent/internal/cli"
	"github.com/knbl-ai/content-planner-agent/internal/config"
	"github.com/knbl-ai/content-planner-agent/internal/observability"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	observability.SetLevel(cfg.LogLevel)

	app := &cli.App{
		Config: cfg,
		// Detect interactive terminal for the chat prompt.
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
	}

	return cli.NewRootCmd(app).Execute()
}
