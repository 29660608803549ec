package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"code-analyzer/src/controller"
	"code-analyzer/src/service/detector"
	"code-analyzer/src/service/metrics"
)

func (h *Handler) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", h.cfg.Agent.Name, h.cfg.Agent.Version)
		},
	}
}

func (h *Handler) detectorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detectors",
		Short: "List available detectors",
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := detector.NewRunner(metrics.NewProvider("", nil, h.cfg.Cache), h.cfg)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "Available detectors:")
			for _, d := range runner.Detectors() {
				status := "enabled"
				if !d.IsEnabled() {
					status = "disabled"
				}
				fmt.Fprintf(w, "  - %s\t%s\t%s\n", d.Name(), status, d.Description())
			}
			fmt.Fprintf(w, "\nReport formats: %v\n", controller.Formats())
			return w.Flush()
		},
	}
}
