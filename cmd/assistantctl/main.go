// Command assistantctl drives the planning services from a terminal.
//
//	assistantctl itinerary list
//	assistantctl mealplan create "Weeknight Dinners"
//	assistantctl itinerary suggest <id> "add a museum on Monday morning" --apply
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"assistant/internal/config"
	"assistant/internal/service"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

// app is built once per invocation, before any subcommand runs.
type app struct {
	storage  *service.Storage
	services *service.Services
}

func main() {
	_ = godotenv.Load()

	a := &app{}
	root := &cobra.Command{
		Use:           "assistantctl",
		Short:         "Inspect and edit itineraries and meal plans",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.storage != nil {
				return a.storage.Close()
			}
			return nil
		},
	}

	root.AddCommand(
		itineraryCommand(a),
		mealPlanCommand(a),
	)

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "%sError: %v%s\n", colorRed, err, colorReset)
		os.Exit(1)
	}
}

func (a *app) open(ctx context.Context) error {
	cfg := config.Load()

	// CLI output is the table printed by each command; only warnings are logged
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	storage, err := service.OpenStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if err := storage.EnsureSchema(ctx); err != nil {
		storage.Close()
		return err
	}

	services, err := service.SetupServices(cfg, storage, nil, logger)
	if err != nil {
		storage.Close()
		return err
	}

	a.storage = storage
	a.services = services
	return nil
}
