package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"code-analyzer/src/controller"
	"code-analyzer/src/util"
)

func (h *Handler) analyzeCmd() *cobra.Command {
	var (
		outputDir string
		format    string
		detectors []string
		timeout   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "analyze <path>",
		Short: "Analyze a C# source tree or file",
		Long:  "Measures every matching file under path, runs the enabled detectors and writes a report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			util.Info("Analyzing %s (timeout: %v)", args[0], timeout)

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			analysisCtrl := controller.NewAnalysisController(h.cfg)
			report, err := analysisCtrl.Analyze(ctx, controller.AnalyzeRequest{
				Path:      args[0],
				Detectors: detectors,
			})
			if err != nil {
				util.Error("Analysis failed: %v", err)
				return fmt.Errorf("analysis failed: %w", err)
			}

			reportCtrl := controller.NewReportController(h.cfg)
			if outputDir != "" {
				h.cfg.Output.OutputDir = outputDir
				if format != "" {
					h.cfg.Output.Formats = []string{format}
				}

				paths, err := reportCtrl.GenerateReports(ctx, report)
				if err != nil {
					return fmt.Errorf("generating reports: %w", err)
				}
				for _, path := range paths {
					fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
				}
			} else {
				outputFormat := format
				if outputFormat == "" {
					outputFormat = "text"
				}

				output, err := reportCtrl.GenerateToString(report, outputFormat)
				if err != nil {
					return fmt.Errorf("generating report: %w", err)
				}
				fmt.Fprint(cmd.OutOrStdout(), output)
			}

			// Print summary to stderr
			errOut := cmd.ErrOrStderr()
			fmt.Fprintf(errOut, "\nAnalysis complete:\n")
			fmt.Fprintf(errOut, "  Files: %d (%d failed)\n", len(report.Files), report.FileErrors)
			fmt.Fprintf(errOut, "  Types: %d, methods: %d\n", report.Summary.Types, report.Summary.Methods)
			fmt.Fprintf(errOut, "  Total issues: %d\n", report.Summary.TotalIssues)
			fmt.Fprintf(errOut, "  Debt score: %.1f/100\n", report.Summary.DebtScore)

			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory path (default: print to stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format (text, json, markdown, sarif, sqlite)")
	cmd.Flags().StringSliceVarP(&detectors, "detectors", "d", nil, "Detectors to run (default: all enabled)")
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 5*time.Minute, "Analysis timeout")

	return cmd
}
