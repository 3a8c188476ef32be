// Package main is the entry point for the newsdesk API service.
package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/moltnews/newsdesk/internal/app"
)

// version can be set at build time via -ldflags
var version = "dev"

func main() {
	// Optional .env for local development; absence is not an error
	_ = godotenv.Load()

	configPath := os.Getenv("NEWSDESK_CONFIG")
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	application, err := app.New(app.Options{
		ConfigPath: configPath,
		Version:    version,
	})
	if err != nil {
		log.Fatalf("Failed to initialize newsdesk: %v", err)
	}

	runErr := application.Run(context.Background())
	if closeErr := application.Close(); closeErr != nil {
		log.Printf("Cleanup error: %v", closeErr)
	}
	if runErr != nil {
		os.Exit(1)
	}
}
