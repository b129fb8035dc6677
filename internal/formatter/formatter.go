// package formatter renders job reports and directory listings to CSV, Markdown and plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/therealtombi/Rumble-Live-Ops/internal/jobs"
	"github.com/therealtombi/Rumble-Live-Ops/internal/models"
	"github.com/therealtombi/Rumble-Live-Ops/internal/shared"
)

// ReportToCSV converts a job report to CSV with columns: Target, Outcome, Reason, Checked, Skipped
func ReportToCSV(report jobs.Report) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Target", "Outcome", "Reason", "Checked", "Skipped"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, result := range report.Results {
		checked, skipped := "", ""
		if result.Detail != nil {
			checked = strconv.Itoa(result.Detail.Checked)
			skipped = strconv.Itoa(result.Detail.Skipped)
		}
		record := []string{
			result.Target,
			result.Outcome.String(),
			result.Reason,
			checked,
			skipped,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ReportToMarkdown converts a job report to a Markdown summary
func ReportToMarkdown(report jobs.Report) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# Job %s\n\n", report.JobID))
	buf.WriteString(fmt.Sprintf("**Operation**: %s\n", report.Operation))
	buf.WriteString(fmt.Sprintf("**Targets**: %d\n", report.Total))
	buf.WriteString(fmt.Sprintf("**Succeeded**: %d\n\n", report.SuccessCount))

	buf.WriteString("## Targets\n\n")
	for i, result := range report.Results {
		buf.WriteString(fmt.Sprintf("%d. %s: %s\n", i+1, result.Target, result.Note()))
	}

	return buf.Bytes(), nil
}

// ReportToText converts a job report to plain text
func ReportToText(report jobs.Report) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Job: %s\n", report.JobID))
	buf.WriteString(fmt.Sprintf("Operation: %s\n", report.Operation))
	buf.WriteString(fmt.Sprintf("Succeeded: %d/%d\n\n", report.SuccessCount, report.Total))

	for i, result := range report.Results {
		buf.WriteString(fmt.Sprintf("%d. %s: %s\n", i+1, result.Target, result.Note()))
	}

	return buf.Bytes(), nil
}

// DirectoryToCSV converts directory entries to CSV with columns: PlaylistID, Title, Videos, Visibility, HarvestedAt
func DirectoryToCSV(playlists []*models.PersistedPlaylist) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"PlaylistID", "Title", "Videos", "Visibility", "HarvestedAt"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, playlist := range playlists {
		record := []string{
			playlist.PlaylistID(),
			playlist.Title(),
			strconv.Itoa(playlist.VideoCount()),
			shared.VisibilityString(playlist.Public()),
			playlist.HarvestedAt().Format("2006-01-02 15:04:05"),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ToReportJSON generates a pretty-printed JSON representation of a job report
func ToReportJSON(report jobs.Report) ([]byte, error) {
	return shared.MarshalJSON(report, true)
}

// WriteReport renders a job report in the given format and writes it to path.
//
// Formats: "csv", "markdown" (or "md"), "text", "json"
func WriteReport(report jobs.Report, format, path string) error {
	var (
		data []byte
		err  error
	)

	switch format {
	case "csv":
		data, err = ReportToCSV(report)
	case "markdown", "md":
		data, err = ReportToMarkdown(report)
	case "text", "":
		data, err = ReportToText(report)
	case "json":
		data, err = ToReportJSON(report)
	default:
		return fmt.Errorf("%w: format %q", shared.ErrInvalidFlag, format)
	}
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}
