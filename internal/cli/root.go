// Package cli implements the reportctl command line tool, which renders
// compliance reports from a period file without starting the HTTP server.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-compliance-report/internal/dto"
)

// NewRootCmd assembles the reportctl command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "reportctl",
		Short:         "Generate syllabus compliance reports from period files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().Bool("verbose", false, "log progress to stderr")
	root.AddCommand(newGenerateCmd(), newLayoutCmd())
	return root
}

// Execute runs the root command with the process arguments.
func Execute() int {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "error:", err)
		return 1
	}
	return 0
}

func commandLogger(cmd *cobra.Command) *zap.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if !verbose {
		return zap.NewNop()
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// readRequest loads a period payload from a file, or stdin when path is "-".
// Both a bare period object and a {"period": ...} wrapper are accepted.
func readRequest(cmd *cobra.Command, path string) (dto.GenerateReportRequest, error) {
	var reader io.Reader
	if path == "-" {
		reader = cmd.InOrStdin()
	} else {
		file, err := os.Open(path)
		if err != nil {
			return dto.GenerateReportRequest{}, fmt.Errorf("open input: %w", err)
		}
		defer file.Close()
		reader = file
	}

	raw, err := io.ReadAll(reader)
	if err != nil {
		return dto.GenerateReportRequest{}, fmt.Errorf("read input: %w", err)
	}

	var req dto.GenerateReportRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return dto.GenerateReportRequest{}, fmt.Errorf("decode input: %w", err)
	}
	if req.Period == nil {
		var period dto.PeriodPayload
		if err := json.Unmarshal(raw, &period); err != nil {
			return dto.GenerateReportRequest{}, fmt.Errorf("decode period: %w", err)
		}
		req.Period = &period
	}
	return req, nil
}
