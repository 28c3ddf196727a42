// Command documentor is the documentation Q&A service: an ingestion
// pipeline, a retrieval-augmented question answerer, an HTTP API, and
// this CLI front end.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/documentor-dev/documentor/internal/adapters/driving/cli"
)

func main() {
	// Best effort; a missing .env file is fine.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
