package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
)

func dashboardAction(_ context.Context, cmd *cli.Command) error {
	client := newAPIClient(cmd.String("api"))

	program := tea.NewProgram(NewModel(client), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("dashboard failed: %w", err)
	}

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "dashboard",
		Usage: "Terminal dashboard for the strategy control server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api",
				Aliases: []string{"a"},
				Usage:   "Base URL of the strategy control server",
				Value:   "http://127.0.0.1:8080",
			},
		},
		Action: dashboardAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
