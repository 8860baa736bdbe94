package cli

import (
	"github.com/spf13/cobra"
)

var (
	serverURL string
	authToken string
)

var rootCmd = &cobra.Command{
	Use:   "jvctl",
	Short: "JobVault leads CLI",
	Long: `jvctl is the command-line interface for the JobVault leads backend.

Triage lead submissions, export the board to CSV, and seed fake leads
against a development instance from your terminal.`,
	Version: "0.1.0",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "leads backend base URL")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", "", "bearer token for the admin API")
}
