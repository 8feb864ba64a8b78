package main

import (
	"log/slog"
	"os"

	"sistema-tareas/internal/app"
	"sistema-tareas/internal/logger"
)

func main() {
	// Bootstrap logger; app.New swaps in the configured one once the
	// config is loaded.
	slog.SetDefault(slog.New(logger.NewPrettyHandler(os.Stdout, slog.LevelInfo)))

	application, err := app.New()
	if err != nil {
		slog.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("application run failed", "error", err)
		os.Exit(1)
	}
}
