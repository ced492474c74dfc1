// Command web runs the academic records HTTP service: spreadsheet upload,
// ingestion pipeline status and the KPI endpoints.
package main

import (
	"context"
	"log/slog"
	"os"

	"ficaetl/internal/app"
)

func main() {
	ctx := context.Background()

	application, err := app.NewApplication(ctx)
	if err != nil {
		slog.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}

	if err := application.Run(ctx); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}
