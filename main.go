package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/claimwise/claimwise/internal/cli"
)

func main() {
	// Optional .env for local development; env vars win over the file
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
