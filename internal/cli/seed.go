package cli

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/spf13/cobra"

	"github.com/jobvault-systems/leads-backend/internal/cli/client"
	"github.com/jobvault-systems/leads-backend/internal/models"
)

var (
	seedCount      int
	seedTimeSpread string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed fake lead submissions",
	Long: `Generate realistic fake leads and post them to the capture webhook.

Intended for development and demo environments only.

Examples:
  # 50 leads spread over the last week
  jvctl seed --count 50 --spread 168h`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().IntVar(&seedCount, "count", 25, "number of leads to generate")
	seedCmd.Flags().StringVar(&seedTimeSpread, "spread", "72h", "spread submissions over this past duration")
	rootCmd.AddCommand(seedCmd)
}

var seedSources = []string{models.SourceHero, models.SourceGetStarted, models.SourceHomepage}

func runSeed(cmd *cobra.Command, args []string) error {
	spread, err := time.ParseDuration(seedTimeSpread)
	if err != nil {
		return fmt.Errorf("invalid --spread: %w", err)
	}

	c := client.New(serverURL, authToken)

	for i := 0; i < seedCount; i++ {
		payload := fakeLead(spread)
		if err := c.SubmitLead(payload); err != nil {
			return fmt.Errorf("submit lead %d/%d: %w", i+1, seedCount, err)
		}
	}

	fmt.Printf("Seeded %d leads\n", seedCount)
	return nil
}

func fakeLead(spread time.Duration) *models.CapturePayload {
	source := seedSources[rand.Intn(len(seedSources))]
	submittedAt := time.Now().Add(-time.Duration(rand.Int63n(int64(spread))))

	payload := &models.CapturePayload{
		Email:       gofakeit.Email(),
		Source:      source,
		SubmittedAt: submittedAt.UTC().Format(time.RFC3339),
		URL:         "https://jobvault.io/?utm_source=seed",
		UserAgent:   gofakeit.UserAgent(),
		IP:          gofakeit.IPv4Address(),
		UTMSource:   "seed",
		DeviceType:  gofakeit.RandomString([]string{"desktop", "mobile"}),
	}

	// Hero captures are email-only; the fuller forms carry the rest.
	if source != models.SourceHero {
		payload.Name = gofakeit.Name()
		payload.Company = gofakeit.Company()
		payload.Properties = gofakeit.RandomString(models.PropertyBuckets)
		payload.FormSource = source
	}

	return payload
}
