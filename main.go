package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/thatrebeccarae/claude-code-skills/cmd"
)

func main() {
	// Load .env from the working directory if present. API credentials for
	// the klaviyo/shopify/report commands live here; absence is fine.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
