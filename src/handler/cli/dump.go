package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"code-analyzer/src/service/csharp"
	"code-analyzer/src/service/metrics"
)

// dumpCmd prints the syntax tree of one file with each node's line range
// and source text, for checking how constructs are measured.
func (h *Handler) dumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <file>",
		Short: "Print the syntax tree of a C# file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			tree, err := csharp.NewParser().Parse(cmd.Context(), args[0], src)
			if err != nil {
				return fmt.Errorf("parsing %s: %w", args[0], err)
			}
			return metrics.PrintTree(cmd.OutOrStdout(), tree)
		},
	}
}
