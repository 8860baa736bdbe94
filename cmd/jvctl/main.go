package main

import (
	"os"

	"github.com/jobvault-systems/leads-backend/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
