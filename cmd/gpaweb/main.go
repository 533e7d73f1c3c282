// Command gpaweb serves the SGPA/CGPA calculator over HTTP.
package main

import (
	"flag"
	"log/slog"
	"os"

	"gpacalc/internal/app"
)

func main() {
	configFile := flag.String("config", "", "YAML configuration file")
	flag.Parse()

	application, err := app.NewApplication(*configFile)
	if err != nil {
		slog.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("Application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
