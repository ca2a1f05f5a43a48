package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/perfeval/backend/internal/pdf"
	"github.com/perfeval/backend/internal/web"
	"github.com/spf13/cobra"
)

func newReportCommand(apiURL *string) *cobra.Command {
	var (
		employeeID string
		logsPath   string
		pdfPath    string
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate a performance report for one employee",
		Long: `Send a log batch to the server and print the generated report.

If the server cannot be reached the placeholder "` + web.PlaceholderReport + `"
is printed instead and the command exits with an error.

Examples:
  perfeval report -e E001 -l logs.txt
  perfeval report -e E001 -l logs.txt --pdf report.pdf`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logs, err := readLogs(cmd.InOrStdin(), logsPath)
			if err != nil {
				return err
			}
			if strings.TrimSpace(logs) == "" {
				return fmt.Errorf("please provide logs")
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "Analyzing logs for %s...\n", employeeID)

			client := NewClient(*apiURL, timeout)
			report, genErr := client.GenerateReport(cmd.Context(), employeeID, logs)
			if genErr != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "API error: %v\n", genErr)
				report = web.PlaceholderReport
			}

			fmt.Fprintln(cmd.OutOrStdout(), report)

			if pdfPath != "" {
				data, err := pdf.Render(employeeID, report)
				if err != nil {
					return err
				}
				if err := os.WriteFile(pdfPath, data, 0o644); err != nil {
					return fmt.Errorf("failed to write pdf: %w", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "PDF written to %s\n", pdfPath)
			}

			if genErr != nil {
				return fmt.Errorf("summary generation failed for %s", employeeID)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&employeeID, "employee", "e", "", "employee id, e.g. E001 (required)")
	cmd.Flags().StringVarP(&logsPath, "logs", "l", "", "log file to send, - for stdin (required)")
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "also write the report as a PDF to this path")
	cmd.Flags().DurationVar(&timeout, "timeout", defaultTimeout, "request timeout")
	_ = cmd.MarkFlagRequired("employee")
	_ = cmd.MarkFlagRequired("logs")
	return cmd
}

func readLogs(stdin io.Reader, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read logs from stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read logs: %w", err)
	}
	return string(data), nil
}
