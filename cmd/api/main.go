package main

import (
	"log/slog"
	"os"

	"github.com/metinatakli/cinema-booking/internal/app"
)

func main() {
	err := app.Run()
	if err != nil {
		slog.Error("cinema booking api stopped", "error", err)
		os.Exit(1)
	}
}
