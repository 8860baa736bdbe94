package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/jobvault-systems/leads-backend/internal/metrics"
	"github.com/jobvault-systems/leads-backend/internal/models"
)

// exportHeaders is the fixed CSV column set the dashboard has always exported.
var exportHeaders = []string{
	"ID", "Name", "Email", "Company", "Properties",
	"Status", "Date", "Form Source", "Table", "Notes",
}

// ExportCSV writes the filtered submission view as CSV. Fields are quoted
// per RFC 4180 by encoding/csv, so embedded commas and quotes survive the
// round trip. Row order follows the filter's sort order.
func (s *Service) ExportCSV(ctx context.Context, filter models.ListFilter, w io.Writer) (int, error) {
	subs, err := s.repo.List(ctx, filter)
	if err != nil {
		return 0, err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeaders); err != nil {
		return 0, fmt.Errorf("write csv header: %w", err)
	}

	for _, sub := range subs {
		row := []string{
			sub.ID,
			deref(sub.Name),
			sub.Email,
			deref(sub.Company),
			deref(sub.Properties),
			sub.Status,
			sub.SubmittedAt.Format("2006-01-02 15:04:05"),
			deref(sub.FormSource),
			s.table,
			deref(sub.Notes),
		}
		if err := cw.Write(row); err != nil {
			return 0, fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("flush csv: %w", err)
	}

	metrics.ExportsTotal.Inc()
	return len(subs), nil
}

// ExportFilename builds the download filename for a CSV export.
func (s *Service) ExportFilename(now time.Time) string {
	return fmt.Sprintf("jobvault-%s-%s.csv", s.table, now.Format("2006-01-02"))
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
