package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/sma-compliance-report/internal/models"
	"github.com/noah-isme/sma-compliance-report/internal/service"
	"github.com/noah-isme/sma-compliance-report/pkg/storage"
)

func newGenerateCmd() *cobra.Command {
	var (
		input  string
		outDir string
		format string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Render a report document into a local directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reportFormat, ok := models.ParseReportFormat(format, models.ReportFormatPDF)
			if !ok {
				return fmt.Errorf("unsupported format %q", format)
			}
			req, err := readRequest(cmd, input)
			if err != nil {
				return err
			}
			store, err := storage.NewLocalStorage(outDir)
			if err != nil {
				return err
			}

			logger := commandLogger(cmd)
			defer logger.Sync() //nolint:errcheck

			svc := service.NewReportService(service.ReportServiceDeps{
				Storage: store,
				Logger:  logger,
			}, service.ReportServiceConfig{DefaultFormat: reportFormat})

			descriptor, err := svc.Generate(cmd.Context(), req, reportFormat)
			if err != nil {
				return err
			}
			// The HTTP download route means nothing offline.
			descriptor.DownloadURL = ""

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(descriptor)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "-", "period JSON file, - for stdin")
	cmd.Flags().StringVarP(&outDir, "out", "o", "./reports", "directory receiving the document")
	cmd.Flags().StringVarP(&format, "format", "f", string(models.ReportFormatPDF), "document format: pdf or csv")
	return cmd
}
