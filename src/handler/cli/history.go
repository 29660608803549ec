package cli

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"code-analyzer/src/service/store"
)

func (h *Handler) historyCmd() *cobra.Command {
	var (
		dbPath string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List runs saved by the sqlite format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := dbPath
			if path == "" {
				path = h.cfg.Output.Database
				if !filepath.IsAbs(path) {
					path = filepath.Join(h.cfg.Output.OutputDir, path)
				}
			}

			db, err := store.Open(path)
			if err != nil {
				return err
			}
			defer db.Close()

			runs, err := db.Runs(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No runs in %s\n", path)
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "RUN\tGENERATED\tROOT\tFILES\tERRORS\tISSUES\tSCORE")
			for _, r := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%.1f\n",
					r.ID, r.GeneratedAt.Format("2006-01-02 15:04:05"), r.RootPath, r.Files, r.FileErrors, r.Issues, r.DebtScore)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "Database path (default: output.database)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show (0 for all)")

	return cmd
}
