// Package main provides the tablectl command-line tool.
package main

import (
	"os"

	"github.com/JonMunkholm/datatable/internal/cli"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; existing environment variables win
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
