package commands

import (
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/ledger/pkg/commands/options"
	"tableflip.dev/ledger/pkg/runner/export"
)

func addExport(topLevel *cobra.Command) {
	fo := &options.FilterOptions{}
	oo := &options.OutputOptions{}
	var file string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write entries and monthly totals to an Excel workbook.",
		Example: `
ledger export
ledger export --file 2024.xlsx --from 2024-01-01 --to 2024-12-31
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := fo.Filters()
			if err != nil {
				return oo.HandleError(err)
			}
			if file == "" {
				file = "ledger-" + time.Now().Format("20060102") + ".xlsx"
			}
			s, err := newSession(false)
			if err != nil {
				return oo.HandleError(err)
			}
			defer s.Close()

			n := export.Export{Service: s.service(), Filters: f, Path: file}
			return oo.HandleError(n.Do(cmd.Context()))
		},
	}

	cmd.Flags().StringVarP(&file, "file", "o", "",
		"Target xlsx file, defaults to ledger-<date>.xlsx in the working directory.")
	options.AddFilterArgs(cmd, fo)
	registerCatalogCompletions(cmd)

	topLevel.AddCommand(cmd)
}
