package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jobvault-systems/leads-backend/internal/cli/client"
)

var (
	listSearch     string
	listStatus     string
	listFormSource string
	listStartDate  string
	listEndDate    string
	listAscending  bool
	exportOutput   string
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "Lead triage commands",
	Long:  "List, triage, and export lead submissions",
}

var leadsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List lead submissions",
	Long: `List lead submissions from the triage board.

Examples:
  # All submissions, newest first
  jvctl leads list

  # Pending leads from the CTA form this week
  jvctl leads list --status pending --form-source homepage --start-date 2026-08-25`,
	RunE: runLeadsList,
}

var leadsStatusCmd = &cobra.Command{
	Use:   "status <id> <pending|contacted|qualified|converted>",
	Short: "Change a submission's triage status",
	Args:  cobra.ExactArgs(2),
	RunE:  runLeadsStatus,
}

var leadsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the filtered board as CSV",
	RunE:  runLeadsExport,
}

func init() {
	for _, c := range []*cobra.Command{leadsListCmd, leadsExportCmd} {
		c.Flags().StringVar(&listSearch, "search", "", "substring over name/email/company")
		c.Flags().StringVar(&listStatus, "status", "", "filter by status")
		c.Flags().StringVar(&listFormSource, "form-source", "", "filter by form source")
		c.Flags().StringVar(&listStartDate, "start-date", "", "inclusive start date (YYYY-MM-DD)")
		c.Flags().StringVar(&listEndDate, "end-date", "", "inclusive end date (YYYY-MM-DD)")
		c.Flags().BoolVar(&listAscending, "asc", false, "sort oldest first")
	}
	leadsExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write CSV to file instead of stdout")

	leadsCmd.AddCommand(leadsListCmd)
	leadsCmd.AddCommand(leadsStatusCmd)
	leadsCmd.AddCommand(leadsExportCmd)
	rootCmd.AddCommand(leadsCmd)
}

func listFilter() client.ListFilter {
	return client.ListFilter{
		Search:     listSearch,
		Status:     listStatus,
		FormSource: listFormSource,
		StartDate:  listStartDate,
		EndDate:    listEndDate,
		Ascending:  listAscending,
	}
}

func runLeadsList(cmd *cobra.Command, args []string) error {
	c := client.New(serverURL, authToken)

	resp, err := c.ListSubmissions(listFilter())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tCOMPANY\tPROPERTIES\tSTATUS\tSUBMITTED\tSOURCE")
	for _, sub := range resp.Submissions {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			sub.ID,
			strOr(sub.Name, "-"),
			sub.Email,
			strOr(sub.Company, "-"),
			strOr(sub.Properties, "-"),
			sub.Status,
			sub.SubmittedAt.Format("2006-01-02 15:04"),
			sub.Source,
		)
	}
	w.Flush()

	fmt.Printf("\nTotal: %d  Pending: %d  Processed: %d\n",
		resp.Stats.Total, resp.Stats.Pending, resp.Stats.Processed)
	return nil
}

func runLeadsStatus(cmd *cobra.Command, args []string) error {
	c := client.New(serverURL, authToken)

	sub, err := c.UpdateStatus(args[0], args[1])
	if err != nil {
		return err
	}

	fmt.Printf("Submission %s is now %q", sub.ID, sub.Status)
	if sub.LastContactedAt != nil {
		fmt.Printf(" (last contacted %s)", sub.LastContactedAt.Format("2006-01-02 15:04"))
	}
	fmt.Println()
	return nil
}

func runLeadsExport(cmd *cobra.Command, args []string) error {
	c := client.New(serverURL, authToken)

	out := os.Stdout
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	if err := c.ExportCSV(listFilter(), out); err != nil {
		return err
	}

	if exportOutput != "" {
		fmt.Fprintf(os.Stderr, "Exported to %s\n", exportOutput)
	}
	return nil
}

func strOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
