package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/noah-isme/sma-compliance-report/internal/service"
)

func newLayoutCmd() *cobra.Command {
	var (
		input  string
		output string
	)
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the tabulated layout of a period without rendering",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if output != "json" && output != "yaml" {
				return fmt.Errorf("unsupported output %q", output)
			}
			req, err := readRequest(cmd, input)
			if err != nil {
				return err
			}

			svc := service.NewReportService(service.ReportServiceDeps{Logger: commandLogger(cmd)}, service.ReportServiceConfig{})
			layout, err := svc.Layout(cmd.Context(), req)
			if err != nil {
				return err
			}

			if output == "yaml" {
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				defer enc.Close()
				return enc.Encode(layout)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(layout)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "-", "period JSON file, - for stdin")
	cmd.Flags().StringVar(&output, "output", "json", "output encoding: json or yaml")
	return cmd
}
