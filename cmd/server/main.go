// Command server serves the read-only dashboard API over a shipment dataset.
package main

import (
	"log/slog"
	"os"

	"github.com/burevuh-next/logistics-analyzer/internal/app"
)

func main() {
	application, err := app.New()
	if err != nil {
		slog.Error("failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
