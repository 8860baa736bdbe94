package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jobvault-systems/leads-backend/internal/auth"
	"github.com/jobvault-systems/leads-backend/internal/logging"
)

var (
	tokenSecret  string
	tokenSubject string
	tokenTTL     time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an admin API token",
	Long: `Mint an HS256 bearer token for the admin triage API.

The secret must match the backend's auth.token_secret setting.`,
	RunE: runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSecret, "secret", "", "signing secret (required)")
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "operator", "token subject")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
	tokenCmd.MarkFlagRequired("secret")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, args []string) error {
	guard := auth.NewGuard(tokenSecret, logging.Default())

	token, err := guard.IssueToken(tokenSubject, tokenTTL)
	if err != nil {
		return err
	}

	fmt.Println(token)
	return nil
}
